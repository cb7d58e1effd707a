// Package handlers provides HTTP request handlers for all endpoints.
package handlers

import (
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kzfr/show-picker/internal/apperrors"
	"github.com/kzfr/show-picker/internal/config"
	"github.com/kzfr/show-picker/internal/resolver"
	"github.com/kzfr/show-picker/internal/utils"
	"github.com/kzfr/show-picker/pkg/logger"
)

// Handlers contains all the dependencies needed by the HTTP handlers.
type Handlers struct {
	resolver *resolver.Resolver
	config   *config.Config
	location *time.Location
}

// NewHandlers creates a new Handlers instance with all required dependencies.
func NewHandlers(res *resolver.Resolver, cfg *config.Config, loc *time.Location) *Handlers {
	return &Handlers{
		resolver: res,
		config:   cfg,
		location: loc,
	}
}

// handleServiceError converts apperrors.Error to appropriate HTTP responses.
// Internal error details are logged but never exposed to clients.
func handleServiceError(c *gin.Context, err error, resource string) {
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		// Log internal details if present
		if appErr.Internal != "" {
			logger.Error("%s error: %s (internal: %s)", resource, appErr.Message, appErr.Internal)
		}
		if appErr.Err != nil {
			logger.Error("%s underlying error: %v", resource, appErr.Err)
		}

		// Map error code to HTTP response
		switch appErr.Code {
		case apperrors.CodeNotFound:
			utils.ProblemNotFound(c, appErr.Message)
		case apperrors.CodeInvalidInput:
			utils.ProblemBadRequest(c, appErr.Message)
		case apperrors.CodeEmptyCatalog:
			utils.ProblemEmptyCatalog(c, appErr.Message)
		case apperrors.CodeTransport, apperrors.CodeMalformedResponse:
			utils.ProblemArchiveUnreachable(c, appErr.Message)
		default:
			utils.ProblemInternalServer(c, fmt.Sprintf("Failed to process %s", resource))
		}
		return
	}

	logger.Error("Unhandled error for %s: %v", resource, err)
	utils.ProblemInternalServer(c, fmt.Sprintf("Failed to process %s", resource))
}

// Package utils provides shared utility functions for HTTP handlers.
package utils

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
)

// ProblemDetail represents an RFC 9457 Problem Details response for HTTP APIs.
// See: https://datatracker.ietf.org/doc/html/rfc9457
type ProblemDetail struct {
	// Type is a URI that identifies the problem type.
	Type string `json:"type"`

	// Title is a short, human-readable summary of the problem type.
	Title string `json:"title"`

	// Status is the HTTP status code for this occurrence of the problem.
	Status int `json:"status"`

	// Detail is a human-readable explanation specific to this occurrence of the problem.
	Detail string `json:"detail,omitempty"`

	// Instance is a URI that identifies the specific occurrence of the problem.
	Instance string `json:"instance,omitempty"`

	// Timestamp is the time when the problem occurred in ISO 8601 format.
	Timestamp string `json:"timestamp"`
}

// Problem type URIs for common error types
const (
	ProblemTypeResourceNotFound    = "https://showpicker.api/problems/resource-not-found"
	ProblemTypeBadRequest          = "https://showpicker.api/problems/bad-request"
	ProblemTypeArchiveUnreachable  = "https://showpicker.api/problems/archive-unreachable"
	ProblemTypeEmptyCatalog        = "https://showpicker.api/problems/empty-catalog"
	ProblemTypeInternalServerError = "https://showpicker.api/problems/internal-server-error"
)

// NewProblemDetail creates a new RFC 9457 compliant problem detail response.
func NewProblemDetail(problemType, title string, status int, detail, instance string) *ProblemDetail {
	return &ProblemDetail{
		Type:      problemType,
		Title:     title,
		Status:    status,
		Detail:    detail,
		Instance:  instance,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// SendProblem sends an RFC 9457 problem details response.
func SendProblem(c *gin.Context, problem *ProblemDetail) {
	// Set the correct content type for RFC 9457
	c.Header("Content-Type", "application/problem+json")

	// Set the instance if not already set
	if problem.Instance == "" {
		problem.Instance = c.Request.URL.Path
	}

	c.JSON(problem.Status, problem)
}

// ProblemNotFound sends a 404 response for a missing resource.
func ProblemNotFound(c *gin.Context, detail string) {
	SendProblem(c, NewProblemDetail(ProblemTypeResourceNotFound, "Resource Not Found", 404, detail, ""))
}

// ProblemBadRequest sends a 400 response for a malformed request.
func ProblemBadRequest(c *gin.Context, detail string) {
	SendProblem(c, NewProblemDetail(ProblemTypeBadRequest, "Bad Request", 400, detail, ""))
}

// ProblemArchiveUnreachable sends a 502 response when the remote archive
// cannot be fetched and no cached snapshot is available.
func ProblemArchiveUnreachable(c *gin.Context, detail string) {
	SendProblem(c, NewProblemDetail(ProblemTypeArchiveUnreachable, "Archive Unreachable", 502, detail, ""))
}

// ProblemEmptyCatalog sends a 503 response when the archive reports zero shows.
func ProblemEmptyCatalog(c *gin.Context, detail string) {
	SendProblem(c, NewProblemDetail(ProblemTypeEmptyCatalog, "Empty Catalog", 503, detail, ""))
}

// ProblemInternalServer sends a 500 response for server-side errors.
func ProblemInternalServer(c *gin.Context, detail string) {
	SendProblem(c, NewProblemDetail(ProblemTypeInternalServerError, "Internal Server Error", 500, detail, ""))
}

// ProblemCustom sends a problem response with a caller-supplied type and title.
func ProblemCustom(c *gin.Context, problemType, title string, status int, detail string) {
	SendProblem(c, NewProblemDetail(problemType, title, status, detail, ""))
}

// FormatResourceDetail builds the conventional "<resource> not found" detail string.
func FormatResourceDetail(resource string) string {
	return fmt.Sprintf("%s not found", resource)
}

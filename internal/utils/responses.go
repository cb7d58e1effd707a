package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// MessageResponse represents a simple message response (typed alternative to gin.H).
type MessageResponse struct {
	Message string `json:"message"`
}

// ListResponse represents a list payload in a consistent envelope.
type ListResponse struct {
	Data  any `json:"data"`
	Total int `json:"total"`
}

// Success responds with HTTP 200 OK status and the provided data.
func Success(c *gin.Context, data any) {
	if c == nil {
		return
	}
	c.JSON(http.StatusOK, data)
}

// List responds with data wrapped in the standard list envelope.
func List(c *gin.Context, data any, total int) {
	if c == nil {
		return
	}
	c.JSON(http.StatusOK, ListResponse{Data: data, Total: total})
}

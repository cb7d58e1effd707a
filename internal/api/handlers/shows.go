package handlers

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/kzfr/show-picker/internal/utils"
)

// ListShows returns the show-title catalog.
func (h *Handlers) ListShows(c *gin.Context) {
	snap, err := h.resolver.Snapshot(c.Request.Context())
	if err != nil {
		handleServiceError(c, err, "catalog")
		return
	}
	utils.List(c, snap.Titles, len(snap.Titles))
}

// ShowTimes returns the selectable archive times for one show.
func (h *Handlers) ShowTimes(c *gin.Context) {
	show := c.Query("show")
	if show == "" {
		utils.ProblemBadRequest(c, "The show query parameter is required")
		return
	}

	snap, err := h.resolver.Snapshot(c.Request.Context())
	if err != nil {
		handleServiceError(c, err, "show times")
		return
	}
	if !snap.HasTitle(show) {
		utils.ProblemNotFound(c, fmt.Sprintf("Show %q not found in the catalog", show))
		return
	}

	times := snap.TimesByTitle(show)
	utils.List(c, times, len(times))
}

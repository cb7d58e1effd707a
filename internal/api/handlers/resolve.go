package handlers

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/kzfr/show-picker/internal/resolver"
	"github.com/kzfr/show-picker/internal/timekey"
	"github.com/kzfr/show-picker/internal/utils"
)

// Resolution modes accepted by the resolve endpoint.
const (
	ModeArchive     = "archive"
	ModeConstructed = "constructed"
	ModeShared      = "shared"
)

// Resolve turns a show/time selection into a playable episode.
//
// mode=archive matches only within the episode table, mode=constructed
// builds and probes a guessed media URL, and mode=shared (the default)
// restores a shared link by trying the archive first.
func (h *Handlers) Resolve(c *gin.Context) {
	show := c.Query("show")
	timeSelected := c.Query("time")
	if show == "" || timeSelected == "" {
		utils.ProblemBadRequest(c, "The show and time query parameters are required")
		return
	}

	snap, err := h.resolver.Snapshot(c.Request.Context())
	if err != nil {
		handleServiceError(c, err, "selection")
		return
	}
	if !snap.HasTitle(show) {
		utils.ProblemNotFound(c, fmt.Sprintf("Show %q not found in the catalog", show))
		return
	}

	var res *resolver.Resolution
	switch c.DefaultQuery("mode", ModeShared) {
	case ModeArchive:
		res, err = h.resolver.ResolveArchived(c.Request.Context(), show, timeSelected)
	case ModeConstructed:
		at, parseErr := timekey.ParseSelection(timeSelected, h.location)
		if parseErr != nil {
			utils.ProblemBadRequest(c, "The time query parameter matches no supported format")
			return
		}
		res, err = h.resolver.ResolveConstructed(c.Request.Context(), show, at)
	case ModeShared:
		res, err = h.resolver.ResolveShared(c.Request.Context(), show, timeSelected)
	default:
		utils.ProblemBadRequest(c, "Mode must be one of: archive, constructed, shared")
		return
	}

	if err != nil {
		handleServiceError(c, err, "selection")
		return
	}
	utils.Success(c, res)
}

package handlers

import (
	_ "embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/kzfr/show-picker/internal/apperrors"
	"github.com/kzfr/show-picker/internal/resolver"
	"github.com/kzfr/show-picker/internal/timekey"
	"github.com/kzfr/show-picker/pkg/logger"
)

//go:embed page.gohtml
var pageHTML string

// PageTemplate returns the parsed presenter template for the router.
func PageTemplate() *template.Template {
	return template.Must(template.New("page").Parse(pageHTML))
}

// Session keys for the last successful selection.
const (
	sessionKeyShow = "show_selected"
	sessionKeyTime = "time_selected"
	sessionKeyMode = "mode"
)

// pageData is everything the presenter template needs for one render.
type pageData struct {
	Titles       []string
	ShowSelected string
	Mode         string
	TimeOptions  []string
	TimeSelected string
	DateValue    string
	ClockValue   string

	Result *resolver.Resolution
	// Summary and description arrive pre-formatted from the archive and are
	// rendered as-is rather than re-escaped.
	SummaryHTML     template.HTML
	DescriptionHTML template.HTML
	FilesizeHuman   string
	ShareURL        string

	ErrorMessage string
	FatalError   string
}

// ShowPage renders the interactive picker page. Selections round-trip
// through the show_selected and time_selected query parameters so a result
// can be bookmarked; a bare reload falls back to the cookie session.
func (h *Handlers) ShowPage(c *gin.Context) {
	sess := sessions.Default(c)

	showSelected := c.Query("show_selected")
	timeSelected := c.Query("time_selected")
	mode := c.Query("mode")

	if showSelected == "" && timeSelected == "" {
		if v, ok := sess.Get(sessionKeyShow).(string); ok {
			showSelected = v
		}
		if v, ok := sess.Get(sessionKeyTime).(string); ok {
			timeSelected = v
		}
		if v, ok := sess.Get(sessionKeyMode).(string); ok && mode == "" {
			mode = v
		}
	}

	snap, err := h.resolver.Snapshot(c.Request.Context())
	if err != nil {
		h.renderFatal(c, err)
		return
	}

	data := pageData{
		Titles:       snap.Titles,
		ShowSelected: showSelected,
		Mode:         mode,
		TimeSelected: timeSelected,
	}
	if data.Mode == "" {
		// Links from earlier revisions carry no mode; restoration tries the
		// archive before constructing a URL.
		data.Mode = ModeShared
		if timeSelected == "" {
			data.Mode = ModeArchive
		}
	}

	if showSelected == "" || !snap.HasTitle(showSelected) {
		if showSelected != "" {
			data.ErrorMessage = fmt.Sprintf("Show %q is not in the current archive catalog.", showSelected)
			data.ShowSelected = ""
		}
		c.HTML(http.StatusOK, "page", data)
		return
	}

	data.TimeOptions = snap.TimesByTitle(showSelected)

	// The date picker submits separate date and clock fields; fold them into
	// a canonical time selection.
	if date := c.Query("date"); date != "" && data.Mode == ModeConstructed {
		clock := c.DefaultQuery("clock", "00:00")
		if at, perr := time.ParseInLocation("2006-01-02 15:04", date+" "+clock, h.location); perr == nil {
			timeSelected = timekey.Canonical(at)
			data.TimeSelected = timeSelected
		}
	}

	if timeSelected == "" {
		c.HTML(http.StatusOK, "page", data)
		return
	}

	if at, perr := timekey.ParseSelection(timeSelected, h.location); perr == nil {
		data.DateValue = at.Format("2006-01-02")
		data.ClockValue = at.Format("15:04")
	}

	var res *resolver.Resolution
	switch data.Mode {
	case ModeArchive:
		res, err = h.resolver.ResolveArchived(c.Request.Context(), showSelected, timeSelected)
	case ModeConstructed:
		at, perr := timekey.ParseSelection(timeSelected, h.location)
		if perr != nil {
			data.ErrorMessage = fmt.Sprintf("The time selection %q matches no supported format.", timeSelected)
			c.HTML(http.StatusOK, "page", data)
			return
		}
		res, err = h.resolver.ResolveConstructed(c.Request.Context(), showSelected, at)
	default:
		res, err = h.resolver.ResolveShared(c.Request.Context(), showSelected, timeSelected)
	}

	if err != nil {
		var appErr *apperrors.Error
		if errors.As(err, &appErr) && appErr.Code == apperrors.CodeNotFound {
			data.ErrorMessage = appErr.Message + ". Please try again with new options."
			c.HTML(http.StatusOK, "page", data)
			return
		}
		h.renderFatal(c, err)
		return
	}

	data.Result = res
	if res.Summary != nil {
		data.SummaryHTML = template.HTML(*res.Summary)
	}
	if res.Description != nil {
		data.DescriptionHTML = template.HTML(*res.Description)
	}
	if res.Filesize != nil && *res.Filesize > 0 {
		data.FilesizeHuman = humanize.Bytes(uint64(*res.Filesize))
	}

	// Constructed selections share the canonical key; archive selections
	// share the readable label the picker displayed.
	shareTime := res.TimeReadable
	if res.Source == resolver.SourceConstructed {
		shareTime = res.TimeKey
	}
	share := url.Values{}
	share.Set("show_selected", showSelected)
	share.Set("time_selected", shareTime)
	share.Set("mode", data.Mode)
	data.ShareURL = "/?" + share.Encode()
	data.TimeSelected = shareTime

	sess.Set(sessionKeyShow, showSelected)
	sess.Set(sessionKeyTime, shareTime)
	sess.Set(sessionKeyMode, data.Mode)
	if err := sess.Save(); err != nil {
		logger.Error("Failed to save session: %v", err)
	}

	c.HTML(http.StatusOK, "page", data)
}

// renderFatal renders the page with only an error banner. Used when the
// archive cannot be fetched at all or reports an empty catalog.
func (h *Handlers) renderFatal(c *gin.Context, err error) {
	status := http.StatusBadGateway
	message := "Could not reach the show archive. Please try again later."

	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		message = appErr.Message
		if appErr.Code == apperrors.CodeEmptyCatalog {
			status = http.StatusServiceUnavailable
		}
		if appErr.Internal != "" {
			logger.Error("page error: %s (internal: %s)", appErr.Message, appErr.Internal)
		}
		if appErr.Err != nil {
			logger.Error("page underlying error: %v", appErr.Err)
		}
	} else {
		logger.Error("page error: %v", err)
	}

	c.HTML(status, "page", pageData{FatalError: message})
}

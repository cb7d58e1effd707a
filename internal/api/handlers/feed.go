package handlers

import (
	"encoding/xml"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kzfr/show-picker/internal/models"
	"github.com/kzfr/show-picker/internal/utils"
)

// ShowFeed renders one show's archived episodes as an RSS 2.0 podcast feed.
// Only episodes with an archived audio URL become items; constructed URLs
// are never guessed here.
func (h *Handlers) ShowFeed(c *gin.Context) {
	show := c.Query("show")
	if show == "" {
		utils.ProblemBadRequest(c, "The show query parameter is required")
		return
	}

	snap, err := h.resolver.Snapshot(c.Request.Context())
	if err != nil {
		handleServiceError(c, err, "feed")
		return
	}
	if !snap.HasTitle(show) {
		utils.ProblemNotFound(c, fmt.Sprintf("Show %q not found in the catalog", show))
		return
	}

	feed := h.buildFeed(show, snap.EpisodesByTitle(show), c.Request)
	data, err := xml.MarshalIndent(feed, "", "  ")
	if err != nil {
		utils.ProblemInternalServer(c, "Failed to build feed")
		return
	}

	c.Data(http.StatusOK, "application/rss+xml; charset=utf-8", append([]byte(xml.Header), data...))
}

func (h *Handlers) buildFeed(show string, episodes []models.Episode, r *http.Request) rssFeed {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	selfURL := fmt.Sprintf("%s://%s%s?%s", scheme, r.Host, r.URL.Path, r.URL.RawQuery)

	feed := rssFeed{
		Version: "2.0",
		AtomNS:  "http://www.w3.org/2005/Atom",
		Channel: rssChannel{
			Title:       show,
			Link:        h.config.Archive.BaseURL,
			Description: fmt.Sprintf("Archived broadcasts of %s", show),
			Generator:   "show-picker",
			AtomLink: rssAtomLink{
				Href: selfURL,
				Rel:  "self",
				Type: "application/rss+xml",
			},
		},
	}

	lastBuild := time.Time{}
	for _, ep := range episodes {
		if ep.URL == nil {
			continue
		}
		if ep.Start.After(lastBuild) {
			lastBuild = ep.Start
		}

		item := rssItem{
			Title:   fmt.Sprintf("%s - %s", ep.Title, ep.StartReadable),
			Link:    *ep.URL,
			GUID:    rssGUID{IsPermaLink: "false", Value: ep.ID},
			PubDate: ep.Start.Format(time.RFC1123Z),
			Enclosure: rssEnclosure{
				URL:  *ep.URL,
				Type: "audio/mpeg",
			},
		}
		if ep.Filesize != nil {
			item.Enclosure.Length = *ep.Filesize
		}
		if ep.Summary != nil && *ep.Summary != "" {
			item.Description = *ep.Summary
		} else if ep.Description != nil {
			item.Description = *ep.Description
		}
		feed.Channel.Items = append(feed.Channel.Items, item)
	}

	if lastBuild.IsZero() {
		lastBuild = time.Now()
	}
	feed.Channel.LastBuildDate = lastBuild.Format(time.RFC1123Z)

	return feed
}

type rssFeed struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	AtomNS  string     `xml:"xmlns:atom,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title         string      `xml:"title"`
	Link          string      `xml:"link"`
	Description   string      `xml:"description"`
	LastBuildDate string      `xml:"lastBuildDate"`
	Generator     string      `xml:"generator"`
	AtomLink      rssAtomLink `xml:"atom:link"`
	Items         []rssItem   `xml:"item"`
}

type rssAtomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr"`
	Type string `xml:"type,attr"`
}

type rssItem struct {
	Title       string       `xml:"title"`
	Link        string       `xml:"link"`
	GUID        rssGUID      `xml:"guid"`
	PubDate     string       `xml:"pubDate,omitempty"`
	Description string       `xml:"description,omitempty"`
	Enclosure   rssEnclosure `xml:"enclosure"`
}

type rssGUID struct {
	IsPermaLink string `xml:"isPermaLink,attr"`
	Value       string `xml:",chardata"`
}

type rssEnclosure struct {
	URL    string `xml:"url,attr"`
	Length int64  `xml:"length,attr"`
	Type   string `xml:"type,attr"`
}

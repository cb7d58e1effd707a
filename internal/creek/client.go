// Package creek is a read-only client for the Studio Creek archive API.
package creek

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/jpillora/backoff"
	"github.com/kzfr/show-picker/internal/apperrors"
	"github.com/kzfr/show-picker/internal/config"
	"github.com/kzfr/show-picker/internal/models"
	"github.com/kzfr/show-picker/internal/timekey"
	"github.com/kzfr/show-picker/pkg/logger"
	"github.com/kzfr/show-picker/pkg/version"
)

// APIError represents an error response from the archive API with the HTTP status code preserved.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	switch e.StatusCode {
	case http.StatusNotFound:
		return "archive endpoint not found — check the archive base URL"
	case http.StatusTooManyRequests:
		return "archive API rate limit exceeded — try again later"
	default:
		return fmt.Sprintf("archive API returned status %d: %s", e.StatusCode, e.Body)
	}
}

// Client fetches show metadata from the Studio Creek archive and probes the
// audio hosting bucket for constructed media URLs.
type Client struct {
	baseURL     string
	location    *time.Location
	maxAttempts int
	client      *http.Client
}

// NewClient creates a new archive client. Timestamps in fetched records are
// converted into loc, the station's local time zone.
func NewClient(cfg *config.ArchiveConfig, loc *time.Location) *Client {
	return &Client{
		baseURL:     cfg.BaseURL,
		location:    loc,
		maxAttempts: cfg.MaxAttempts,
		client: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
	}
}

// showsListResponse is the JSON envelope of the shows-list endpoint.
type showsListResponse struct {
	Data []struct {
		Title string `json:"title"`
	} `json:"data"`
}

// archivesResponse is the JSON envelope of one page of the archives endpoint.
type archivesResponse struct {
	Data  []archiveRecord `json:"data"`
	Links pageLinks       `json:"links"`
}

// pageLinks carries the pagination cursor. A missing or empty next link is
// the sole termination signal for the page loop.
type pageLinks struct {
	Next *string `json:"next"`
}

// archiveRecord is one raw episode as returned by the archives endpoint.
// id, start, end, show and audio are mandatory; image is optional.
type archiveRecord struct {
	ID    *json.Number `json:"id"`
	Start *string      `json:"start"`
	End   *string      `json:"end"`
	Show  *showRecord  `json:"show"`
	Image *imageRecord `json:"image"`
	Audio *audioRecord `json:"audio"`
}

type showRecord struct {
	Title       string  `json:"title"`
	Name        string  `json:"name"`
	Summary     *string `json:"summary"`
	Description *string `json:"description"`
}

type imageRecord struct {
	URL *string `json:"url"`
}

type audioRecord struct {
	Filesize *int64  `json:"filesize"`
	URL      *string `json:"url"`
}

// FetchCatalogAndEpisodes retrieves the show-title catalog and the full
// episode table. Episode pages are fetched sequentially until a page response
// omits the next link; all page payloads are concatenated before flattening.
func (c *Client) FetchCatalogAndEpisodes(ctx context.Context) ([]string, []models.Episode, error) {
	var shows showsListResponse
	if err := c.getJSON(ctx, c.baseURL+"/api/archives/shows-list", &shows); err != nil {
		return nil, nil, apperrors.Transport("Could not reach the show archive").Wrap(err)
	}

	titleSet := make(map[string]struct{}, len(shows.Data))
	titles := make([]string, 0, len(shows.Data))
	for _, s := range shows.Data {
		if _, seen := titleSet[s.Title]; seen {
			continue
		}
		titleSet[s.Title] = struct{}{}
		titles = append(titles, s.Title)
	}
	sort.Strings(titles)

	var records []archiveRecord
	for page := 1; ; page++ {
		var resp archivesResponse
		url := fmt.Sprintf("%s/api/archives?page=%d", c.baseURL, page)
		if err := c.getJSON(ctx, url, &resp); err != nil {
			return nil, nil, apperrors.Transport("Could not reach the show archive").Wrap(err)
		}
		records = append(records, resp.Data...)

		if resp.Links.Next == nil || *resp.Links.Next == "" {
			break
		}
	}
	logger.Debug("fetched %d archive records across pages", len(records))

	episodes := make([]models.Episode, 0, len(records))
	for i, rec := range records {
		ep, err := c.flatten(rec)
		if err != nil {
			return nil, nil, apperrors.MalformedResponse("The show archive returned an incomplete record").
				WithInternal("record index %d", i).Wrap(err)
		}
		episodes = append(episodes, ep)
	}

	return titles, episodes, nil
}

// flatten converts a raw archive record into the flat Episode shape,
// converting its timestamps into the station's local time zone.
func (c *Client) flatten(rec archiveRecord) (models.Episode, error) {
	switch {
	case rec.ID == nil:
		return models.Episode{}, fmt.Errorf("missing id")
	case rec.Start == nil:
		return models.Episode{}, fmt.Errorf("missing start")
	case rec.End == nil:
		return models.Episode{}, fmt.Errorf("missing end")
	case rec.Show == nil:
		return models.Episode{}, fmt.Errorf("missing show object")
	case rec.Audio == nil:
		return models.Episode{}, fmt.Errorf("missing audio object")
	}

	start, err := c.parseTimestamp(*rec.Start)
	if err != nil {
		return models.Episode{}, fmt.Errorf("bad start timestamp: %w", err)
	}
	end, err := c.parseTimestamp(*rec.End)
	if err != nil {
		return models.Episode{}, fmt.Errorf("bad end timestamp: %w", err)
	}

	ep := models.Episode{
		ID:            rec.ID.String(),
		Start:         start,
		End:           end,
		Title:         rec.Show.Title,
		Name:          rec.Show.Name,
		Summary:       rec.Show.Summary,
		Description:   rec.Show.Description,
		Filesize:      rec.Audio.Filesize,
		URL:           rec.Audio.URL,
		StartReadable: timekey.Readable(start),
	}
	if rec.Image != nil {
		ep.ImageURL = rec.Image.URL
	}
	return ep, nil
}

// timestampLayouts are the wire formats the archive is known to emit.
// All are interpreted as UTC.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

func (c *Client) parseTimestamp(value string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return t.In(c.location), nil
		}
	}
	return time.Time{}, fmt.Errorf("timestamp %q matches no known layout", value)
}

// getJSON fetches url and decodes the response body into out. Idempotent
// GETs are retried with jittered backoff before giving up.
func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	b := &backoff.Backoff{
		Min:    200 * time.Millisecond,
		Max:    2 * time.Second,
		Jitter: true,
	}

	var lastErr error
	for attempt := 0; attempt < c.maxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(b.Duration()):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		lastErr = c.getJSONOnce(ctx, url, out)
		if lastErr == nil {
			return nil
		}
		logger.Debug("archive fetch attempt %d for %s failed: %v", attempt+1, url, lastErr)
	}
	return lastErr
}

func (c *Client) getJSONOnce(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create archive request: %w", err)
	}
	req.Header.Set("User-Agent", version.UserAgent())
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("archive request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return &APIError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode archive response: %w", err)
	}
	return nil
}

// Probe checks whether a constructed media URL exists. Transport failures
// fold into false rather than propagating; only a 200 counts as existing.
func (c *Client) Probe(ctx context.Context, url string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return false
	}
	req.Header.Set("User-Agent", version.UserAgent())

	resp, err := c.client.Do(req)
	if err != nil {
		return false
	}
	defer func() { _ = resp.Body.Close() }()

	return resp.StatusCode == http.StatusOK
}

package erddap

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rotblauer/drifters/conceptual"
	"github.com/rotblauer/drifters/params"
	"github.com/rotblauer/drifters/types/drifttrack"
)

var (
	ErrEmptyResponse     = errors.New("erddap: empty response")
	ErrMalformedResponse = errors.New("erddap: malformed response")
)

// StatusError is returned for HTTP responses with status >= 400.
// ERDDAP answers a query with no matching rows with a 404.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("erddap: code %d: %s", e.Code, e.Body)
}

// Row is one (id, time, latitude, longitude) record.
type Row struct {
	ID   conceptual.DrifterID
	Time time.Time
	Lat  float64
	Lon  float64
}

func (r Row) Sample() drifttrack.Sample {
	return drifttrack.Sample{Time: r.Time, Lat: r.Lat, Lon: r.Lon}
}

// Client queries a tabledap drifter dataset.
// It does not retry; any failure is returned to the caller.
type Client struct {
	cfg     *params.ErddapConfig
	session *http.Client
}

// NewClient returns a client for cfg. A nil session gets an http.Client
// with cfg.Timeout.
func NewClient(cfg *params.ErddapConfig, session *http.Client) *Client {
	if session == nil {
		session = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{cfg: cfg, session: session}
}

// DrifterIDs returns the sorted, unique ids of drifters with any sample
// inside the box during the window.
func (c *Client) DrifterIDs(ctx context.Context, window params.TimeWindow, box params.GBox) ([]conceptual.DrifterID, error) {
	u := RangeURL(c.cfg.BaseURL, c.cfg.Format, window, box)
	rows, err := c.fetch(ctx, u)
	if err != nil {
		return nil, err
	}
	seen := map[conceptual.DrifterID]struct{}{}
	for _, r := range rows {
		if r.ID.Empty() {
			continue
		}
		seen[r.ID] = struct{}{}
	}
	ids := make([]conceptual.DrifterID, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	slog.Info("Fetched drifters in range", "rows", humanize.Comma(int64(len(rows))), "drifters", len(ids))
	return ids, nil
}

// Track returns the time-ordered samples of one drifter during the window.
// With IDLonFilter set, samples east of IDMaxLon are dropped.
func (c *Client) Track(ctx context.Context, id conceptual.DrifterID, window params.TimeWindow) (*drifttrack.Track, error) {
	u := IDURL(c.cfg.BaseURL, c.cfg.Format, id, window)
	rows, err := c.fetch(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("drifter %s: %w", id, err)
	}
	samples := make([]drifttrack.Sample, 0, len(rows))
	dropped := 0
	for _, r := range rows {
		if c.cfg.IDLonFilter && r.Lon > c.cfg.IDMaxLon {
			dropped++
			continue
		}
		samples = append(samples, r.Sample())
	}
	track := drifttrack.New(id, samples)
	track.SortByTime()
	slog.Debug("Fetched drifter track", "id", id, "samples", len(samples), "dropped_east", dropped)
	return track, nil
}

func (c *Client) fetch(ctx context.Context, u string) ([]Row, error) {
	req, err := c.newRequest(ctx, u)
	if err != nil {
		return nil, err
	}
	slog.Debug("ERDDAP query", "url", u)
	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, ErrEmptyResponse
	}
	var rows []Row
	switch c.cfg.Format {
	case params.ErddapFormatJSON:
		rows, err = decodeJSON(body)
	default:
		rows, err = decodeCSV(bytes.NewReader(body))
	}
	if err != nil {
		return nil, err
	}
	rows, dropped := dedupe(rows)
	if dropped > 0 {
		// Dropped rows shift the sample index a track is cut at.
		slog.Info("Dropped repeated ERDDAP rows", "count", dropped, "kept", len(rows), "url", u)
	}
	return rows, nil
}

func (c *Client) newRequest(ctx context.Context, u string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}
	switch c.cfg.Format {
	case params.ErddapFormatJSON:
		req.Header.Set("Accept", "application/json")
	default:
		req.Header.Set("Accept", "text/csv")
	}
	return req, nil
}

func (c *Client) do(req *http.Request) (*http.Response, error) {
	resp, err := c.session.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, &StatusError{
			Code: resp.StatusCode,
			Body: strings.TrimSpace(string(b)),
		}
	}
	return resp, nil
}

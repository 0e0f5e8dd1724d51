// Package sheets fetches sheets of a published spreadsheet as CSV.
//
// Each sheet is requested through the spreadsheet's visualization endpoint
// with CSV output, decoded, and handed to the csv package. The client adds
// no retries and keeps no copies of fetched data; a failed sheet is reported
// to the caller, which decides what to show instead.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/JonMunkholm/likorise/internal/csv"
)

// DefaultBaseURL is the host serving published spreadsheets.
const DefaultBaseURL = "https://docs.google.com"

// DefaultMaxBodyBytes caps a single sheet download.
const DefaultMaxBodyBytes = 5 << 20

// ErrNoSpreadsheet is returned when no spreadsheet ID is configured.
var ErrNoSpreadsheet = errors.New("no spreadsheet configured")

// Doer sends HTTP requests. *http.Client satisfies it.
type Doer interface {
	Do(*http.Request) (*http.Response, error)
}

// Config selects the spreadsheet and bounds each request.
type Config struct {
	SpreadsheetID string
	BaseURL       string
	Timeout       time.Duration // per sheet; 0 means no extra deadline
	MaxBodyBytes  int64
}

// StatusError reports a non-2xx response for a sheet.
type StatusError struct {
	Sheet      string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("sheet %q: unexpected status %d %s",
		e.Sheet, e.StatusCode, http.StatusText(e.StatusCode))
}

// Client fetches sheets from one spreadsheet.
type Client struct {
	cfg  Config
	doer Doer
}

// NewClient creates a client for cfg. A nil doer uses an *http.Client with
// cfg.Timeout.
func NewClient(cfg Config, doer Doer) (*Client, error) {
	cfg.SpreadsheetID = strings.TrimSpace(cfg.SpreadsheetID)
	if cfg.SpreadsheetID == "" {
		return nil, ErrNoSpreadsheet
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if doer == nil {
		doer = &http.Client{Timeout: cfg.Timeout}
	}

	return &Client{cfg: cfg, doer: doer}, nil
}

// URL returns the CSV export URL for sheet.
func (c *Client) URL(sheet string) string {
	return fmt.Sprintf("%s/spreadsheets/d/%s/gviz/tq?tqx=out:csv&sheet=%s",
		c.cfg.BaseURL,
		url.PathEscape(c.cfg.SpreadsheetID),
		escapeComponent(sheet),
	)
}

// escapeComponent escapes s for a query value, encoding spaces as %20
// rather than '+'.
func escapeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// Fetch downloads sheet and returns its parsed records.
func (c *Client) Fetch(ctx context.Context, sheet string) ([]csv.Record, error) {
	table, err := c.FetchTable(ctx, sheet)
	if err != nil {
		return nil, err
	}
	return table.Records, nil
}

// FetchTable downloads sheet and returns its parsed table.
func (c *Client) FetchTable(ctx context.Context, sheet string) (csv.Table, error) {
	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL(sheet), nil)
	if err != nil {
		return csv.Table{}, fmt.Errorf("build request for sheet %q: %w", sheet, err)
	}
	req.Header.Set("Accept", "text/csv")

	resp, err := c.doer.Do(req)
	if err != nil {
		return csv.Table{}, fmt.Errorf("fetch sheet %q: %w", sheet, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain a little so the connection can be reused.
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		return csv.Table{}, &StatusError{Sheet: sheet, StatusCode: resp.StatusCode}
	}

	text, err := csv.ReadText(resp.Body, c.cfg.MaxBodyBytes)
	if err != nil {
		return csv.Table{}, fmt.Errorf("sheet %q: %w", sheet, err)
	}

	return csv.ParseTable(text), nil
}

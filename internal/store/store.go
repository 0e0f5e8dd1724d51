// Package store records sheet load events.
//
// Every page load fetches the content sheets; the load log keeps one row per
// sheet per load (outcome, row count, latency) so a broken or unpublished
// sheet shows up in operations before visitors notice stale fallback copy.
// Only metadata is stored, never sheet content.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Status is the outcome of loading one sheet.
type Status string

const (
	// StatusOK means the sheet was fetched and rendered.
	StatusOK Status = "ok"
	// StatusError means the fetch failed and fallback content was shown.
	StatusError Status = "error"
	// StatusFallback means the fetch succeeded but the sheet had too little
	// data, so fallback content was shown.
	StatusFallback Status = "fallback"
)

// LoadEvent is one sheet load.
type LoadEvent struct {
	ID         uuid.UUID `json:"id"`
	Section    string    `json:"section"`
	Sheet      string    `json:"sheet"`
	Status     Status    `json:"status"`
	Rows       int       `json:"rows"`
	DurationMS int64     `json:"durationMs"`
	Error      string    `json:"error,omitempty"`
	RequestID  string    `json:"requestId,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// normalize fills in the ID and timestamp when unset.
func (e *LoadEvent) normalize(now time.Time) {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now.UTC()
	}
}

// Log persists and lists load events.
type Log interface {
	Record(ctx context.Context, ev LoadEvent) error
	Recent(ctx context.Context, limit int) ([]LoadEvent, error)
}

// NopLog discards events. It is used when no database is configured.
type NopLog struct{}

func (NopLog) Record(context.Context, LoadEvent) error { return nil }

func (NopLog) Recent(context.Context, int) ([]LoadEvent, error) { return []LoadEvent{}, nil }

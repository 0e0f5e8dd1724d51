package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DefaultRecentLimit bounds Recent when the caller passes a non-positive limit.
const DefaultRecentLimit = 50

const schemaSQL = `
CREATE TABLE IF NOT EXISTS sheet_loads (
	id          UUID PRIMARY KEY,
	section     TEXT        NOT NULL,
	sheet       TEXT        NOT NULL,
	status      TEXT        NOT NULL,
	row_count   INTEGER     NOT NULL DEFAULT 0,
	duration_ms BIGINT      NOT NULL DEFAULT 0,
	error       TEXT,
	request_id  TEXT,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS sheet_loads_created_at_idx ON sheet_loads (created_at DESC);
`

// PGLog stores load events in PostgreSQL.
type PGLog struct {
	pool *pgxpool.Pool
}

// NewPGLog creates a PGLog on pool. Call EnsureSchema before first use.
func NewPGLog(pool *pgxpool.Pool) *PGLog {
	return &PGLog{pool: pool}
}

// EnsureSchema creates the sheet_loads table if it does not exist.
func (l *PGLog) EnsureSchema(ctx context.Context) error {
	if _, err := l.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("ensure sheet_loads schema: %w", err)
	}
	return nil
}

// Record inserts ev.
func (l *PGLog) Record(ctx context.Context, ev LoadEvent) error {
	ev.normalize(time.Now())

	_, err := l.pool.Exec(ctx, `
		INSERT INTO sheet_loads (id, section, sheet, status, row_count, duration_ms, error, request_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), NULLIF($8, ''), $9)`,
		ev.ID.String(),
		ev.Section,
		ev.Sheet,
		string(ev.Status),
		ev.Rows,
		ev.DurationMS,
		ev.Error,
		ev.RequestID,
		ev.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("record sheet load: %w", err)
	}
	return nil
}

// Recent returns the newest events first.
func (l *PGLog) Recent(ctx context.Context, limit int) ([]LoadEvent, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	rows, err := l.pool.Query(ctx, `
		SELECT id::text, section, sheet, status, row_count, duration_ms,
		       COALESCE(error, ''), COALESCE(request_id, ''), created_at
		FROM sheet_loads
		ORDER BY created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query sheet loads: %w", err)
	}

	events, err := pgx.CollectRows(rows, scanLoadEvent)
	if err != nil {
		return nil, fmt.Errorf("scan sheet loads: %w", err)
	}
	return events, nil
}

func scanLoadEvent(row pgx.CollectableRow) (LoadEvent, error) {
	var (
		ev         LoadEvent
		id, status string
	)
	if err := row.Scan(&id, &ev.Section, &ev.Sheet, &status, &ev.Rows, &ev.DurationMS,
		&ev.Error, &ev.RequestID, &ev.CreatedAt); err != nil {
		return LoadEvent{}, err
	}

	parsed, err := uuid.Parse(id)
	if err != nil {
		return LoadEvent{}, fmt.Errorf("parse id %q: %w", id, err)
	}
	ev.ID = parsed
	ev.Status = Status(status)
	return ev, nil
}

// Purge deletes events older than the retention window and returns the
// number removed.
func (l *PGLog) Purge(ctx context.Context, olderThan time.Duration) (int64, error) {
	tag, err := l.pool.Exec(ctx,
		`DELETE FROM sheet_loads WHERE created_at < $1`,
		time.Now().Add(-olderThan).UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("purge sheet loads: %w", err)
	}
	return tag.RowsAffected(), nil
}

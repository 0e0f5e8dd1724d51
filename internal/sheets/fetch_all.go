package sheets

import (
	"context"
	"time"

	"github.com/JonMunkholm/likorise/internal/csv"
	"golang.org/x/sync/errgroup"
)

// Result is the outcome of fetching one sheet.
type Result struct {
	Sheet    string
	Table    csv.Table
	Err      error
	Duration time.Duration
}

// FetchAll fetches every sheet concurrently and returns one Result per
// sheet, in argument order. A failing sheet does not cancel the others.
func (c *Client) FetchAll(ctx context.Context, sheets ...string) []Result {
	results := make([]Result, len(sheets))

	var g errgroup.Group
	for i, sheet := range sheets {
		i, sheet := i, sheet
		g.Go(func() error {
			start := time.Now()
			table, err := c.FetchTable(ctx, sheet)
			results[i] = Result{
				Sheet:    sheet,
				Table:    table,
				Err:      err,
				Duration: time.Since(start),
			}
			return nil
		})
	}
	_ = g.Wait()

	return results
}

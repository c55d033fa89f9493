// Package applier executes a composed script's batches sequentially
// against a live connection, per §4.9.
package applier

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/peopleworks/SqlSchemaDiff/internal/apperr"
	"github.com/peopleworks/SqlSchemaDiff/internal/batchsplit"
)

// Options controls how Apply executes the script's batches.
type Options struct {
	DryRun         bool
	TimeoutSeconds int
}

// Apply splits script into batches and executes each in order against
// db, stopping at the first failure. On DryRun, batches are written to
// out instead of executed. Every batch is logged at INFO before
// execution.
func Apply(ctx context.Context, db *sql.DB, script string, opts Options, out io.Writer) error {
	batches := batchsplit.Split(script)

	for i, batch := range batches {
		slog.Info("executing batch", "index", i+1, "total", len(batches))

		if opts.DryRun {
			fmt.Fprintf(out, "-- batch %d/%d\n%s\nGO\n", i+1, len(batches), batch)
			continue
		}

		batchCtx := ctx
		var cancel context.CancelFunc
		if opts.TimeoutSeconds > 0 {
			batchCtx, cancel = context.WithTimeout(ctx, time.Duration(opts.TimeoutSeconds)*time.Second)
		}

		_, err := db.ExecContext(batchCtx, batch)
		if cancel != nil {
			cancel()
		}
		if err != nil {
			return apperr.IO(fmt.Sprintf("executing batch %d/%d", i+1, len(batches)), err)
		}
	}

	return nil
}

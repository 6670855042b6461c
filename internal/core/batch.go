package core

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/suryamb/pricing-api/internal/observability"
)

// runBatch applies every parameter set inside a single transaction. The
// batch is all-or-nothing: the first row that fails aborts the whole run
// and the transaction is rolled back, leaving the table untouched.
//
// Rows whose key matches nothing in the table are not errors. They are
// counted, logged, and the batch still commits.
func runBatch(ctx context.Context, beginner Beginner, schema UpdateSchema, sets []ParamSet, logger *slog.Logger) (*BatchResult, error) {
	batchID := uuid.NewString()
	start := time.Now()

	logger = logger.With("batchId", batchID, "table", schema.Table)
	logger.Info("starting batch update", "rows", len(sets))

	tx, err := beginner.Begin(ctx)
	if err != nil {
		return nil, &PersistenceError{Op: "begin transaction", Err: err}
	}
	defer tx.Rollback(ctx)

	result := &BatchResult{BatchID: batchID, Table: schema.Table}

	for _, set := range sets {
		tag, err := tx.Exec(ctx, schema.Statement, set.Args...)
		if err != nil {
			logger.Error("row update failed, rolling back batch",
				"line", set.Line, "key", set.Key, "error", err)
			return nil, &UpdateError{Line: set.Line, Key: set.Key, Err: err}
		}
		if tag.RowsAffected() == 0 {
			result.ZeroMatch++
			observability.BulkZeroMatchRows.WithLabelValues(schema.Table).Inc()
			logger.Warn("row matched no existing record", "line", set.Line, "key", set.Key)
		}
		result.Submitted++
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, &PersistenceError{Op: "commit transaction", Err: err}
	}

	result.Duration = time.Since(start)
	logger.Info("batch update committed",
		"submitted", result.Submitted,
		"zeroMatch", result.ZeroMatch,
		"duration", result.Duration)

	return result, nil
}

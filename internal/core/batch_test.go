package core

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

type fakeTx struct {
	execs      []string
	failOnExec int // 1-based exec call that fails, 0 for never
	zeroOnExec map[int]bool
	commitErr  error
	committed  bool
	rolledBack bool
}

func (f *fakeTx) Exec(_ context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	f.execs = append(f.execs, sql)
	n := len(f.execs)
	if f.failOnExec != 0 && n == f.failOnExec {
		return pgconn.CommandTag{}, errors.New("constraint violation")
	}
	if f.zeroOnExec[n] {
		return pgconn.NewCommandTag("UPDATE 0"), nil
	}
	return pgconn.NewCommandTag("UPDATE 1"), nil
}

func (f *fakeTx) Commit(context.Context) error {
	if f.commitErr != nil {
		return f.commitErr
	}
	f.committed = true
	return nil
}

func (f *fakeTx) Rollback(context.Context) error {
	if !f.committed {
		f.rolledBack = true
	}
	return nil
}

type fakeBeginner struct {
	tx       *fakeTx
	beginErr error
}

func (f *fakeBeginner) Begin(context.Context) (Tx, error) {
	if f.beginErr != nil {
		return nil, f.beginErr
	}
	return f.tx, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testSets(n int) []ParamSet {
	sets := make([]ParamSet, n)
	for i := range sets {
		sets[i] = ParamSet{Line: i + 2, Key: "RM00" + string(rune('1'+i)), Args: []any{float64(i), "key"}}
	}
	return sets
}

func TestRunBatchCommitsOnSuccess(t *testing.T) {
	tx := &fakeTx{}
	beginner := &fakeBeginner{tx: tx}

	result, err := runBatch(context.Background(), beginner, RawMaterialUpdateSchema, testSets(3), discardLogger())
	if err != nil {
		t.Fatalf("runBatch: %v", err)
	}
	if !tx.committed {
		t.Error("transaction not committed")
	}
	if tx.rolledBack {
		t.Error("transaction rolled back after commit")
	}
	if result.Submitted != 3 {
		t.Errorf("Submitted = %d, want 3", result.Submitted)
	}
	if result.ZeroMatch != 0 {
		t.Errorf("ZeroMatch = %d, want 0", result.ZeroMatch)
	}
	if result.BatchID == "" {
		t.Error("missing batch id")
	}
	if len(tx.execs) != 3 {
		t.Errorf("exec calls = %d, want 3", len(tx.execs))
	}
}

func TestRunBatchRollsBackOnFailure(t *testing.T) {
	tx := &fakeTx{failOnExec: 2}
	beginner := &fakeBeginner{tx: tx}

	_, err := runBatch(context.Background(), beginner, RawMaterialUpdateSchema, testSets(4), discardLogger())
	var ue *UpdateError
	if !errors.As(err, &ue) {
		t.Fatalf("expected UpdateError, got %v", err)
	}
	if ue.Line != 3 {
		t.Errorf("failing line = %d, want 3", ue.Line)
	}
	if tx.committed {
		t.Error("transaction committed despite failure")
	}
	if !tx.rolledBack {
		t.Error("transaction not rolled back")
	}
	// fail-fast: no statements after the failing one
	if len(tx.execs) != 2 {
		t.Errorf("exec calls = %d, want 2", len(tx.execs))
	}
}

func TestRunBatchCountsZeroMatchRows(t *testing.T) {
	tx := &fakeTx{zeroOnExec: map[int]bool{1: true, 3: true}}
	beginner := &fakeBeginner{tx: tx}

	result, err := runBatch(context.Background(), beginner, RawMaterialUpdateSchema, testSets(3), discardLogger())
	if err != nil {
		t.Fatalf("runBatch: %v", err)
	}
	if !tx.committed {
		t.Error("zero-match rows must not abort the batch")
	}
	if result.Submitted != 3 {
		t.Errorf("Submitted = %d, want 3", result.Submitted)
	}
	if result.ZeroMatch != 2 {
		t.Errorf("ZeroMatch = %d, want 2", result.ZeroMatch)
	}
}

func TestRunBatchBeginFailure(t *testing.T) {
	beginner := &fakeBeginner{beginErr: errors.New("pool exhausted")}

	_, err := runBatch(context.Background(), beginner, RawMaterialUpdateSchema, testSets(1), discardLogger())
	var pe *PersistenceError
	if !errors.As(err, &pe) {
		t.Fatalf("expected PersistenceError, got %v", err)
	}
}

func TestRunBatchCommitFailure(t *testing.T) {
	tx := &fakeTx{commitErr: errors.New("connection reset")}
	beginner := &fakeBeginner{tx: tx}

	_, err := runBatch(context.Background(), beginner, RawMaterialUpdateSchema, testSets(2), discardLogger())
	var pe *PersistenceError
	if !errors.As(err, &pe) {
		t.Fatalf("expected PersistenceError, got %v", err)
	}
	if tx.committed {
		t.Error("committed flag set despite commit error")
	}
}

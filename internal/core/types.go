// Package core provides the business logic for the pricing service: the
// bulk update pipeline (parse, map, transactional batch execution), the read
// queries, and client registration. It has no HTTP dependencies.
package core

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the interface for read-side database operations.
// Satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Tx is the slice of a database transaction the write paths use.
// Satisfied by pgx.Tx.
type Tx interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Commit(context.Context) error
	Rollback(context.Context) error
}

// Beginner starts transactions. The production implementation leases a
// connection from the pgx pool; tests substitute an in-memory fake.
type Beginner interface {
	Begin(context.Context) (Tx, error)
}

// FieldType represents the expected data type for an upload column.
type FieldType int

const (
	FieldText FieldType = iota
	FieldNumeric
	FieldDate
)

// FieldSpec defines the contract for a single upload column.
type FieldSpec struct {
	Name       string    // Column header name, matched case-insensitively
	Type       FieldType // Expected data type
	Required   bool      // Column must exist in the upload header
	AllowEmpty bool      // If true, empty values are allowed even when Required
}

// RowValues holds one validated row as column-name to cleaned-value.
type RowValues map[string]string

// BuildArgsFunc converts a validated row into the positional arguments of an
// update schema's statement. now is the server-assigned timestamp injected
// into schemas that carry a creation date.
type BuildArgsFunc func(vals RowValues, now time.Time) ([]any, error)

// UpdateSchema describes one bulk-updatable table: its column contract, the
// parameterized UPDATE template, and how rows become statement arguments.
type UpdateSchema struct {
	Table     string
	KeyColumn string // column holding the target identifier
	Statement string
	Fields    []FieldSpec
	BuildArgs BuildArgsFunc
}

// ParamSet is one row's bound statement arguments plus provenance for
// diagnostics.
type ParamSet struct {
	Line int
	Key  string
	Args []any
}

// BatchResult summarizes one bulk update batch.
type BatchResult struct {
	BatchID   string        `json:"batchId"`
	Table     string        `json:"table"`
	Submitted int           `json:"submitted"`
	ZeroMatch int           `json:"zeroMatch"`
	Duration  time.Duration `json:"-"`
}

// TableRow represents a single row of data as column-name to value,
// shaped for JSON encoding.
type TableRow map[string]interface{}

// CompositionRecord is one raw material line of a product's bill of
// materials.
type CompositionRecord struct {
	ProductName      string  `json:"product_name"`
	RawMaterialID    string  `json:"rawmaterialid"`
	RawMaterialName  string  `json:"rawmaterialname"`
	RawMaterialPrice float64 `json:"rawmaterialprice"`
	QtyByFormula     float64 `json:"qtybyformula"`
}

// ClientRegistration is the JSON payload for registering a client.
type ClientRegistration struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Details           string `json:"details"`
	InterestedProduct string `json:"interestedProduct"`
	DateCreated       string `json:"dateCreated"`
}

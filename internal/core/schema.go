package core

// schema.go defines the column contracts for the two bulk-updatable tables
// and the row mapper that turns parsed rows into parameter sets. Field
// access is by column name, validated against the header up front, so a
// misaligned upload fails fast with a named error instead of silently
// binding the wrong column.

import (
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/suryamb/pricing-api/internal/tabular"
)

// RawMaterialUpdateSchema prices raw materials by id. Only the identifier
// and price columns are consumed; anything else in the upload is ignored.
var RawMaterialUpdateSchema = UpdateSchema{
	Table:     "raw_material",
	KeyColumn: "rawmaterialid",
	Statement: `UPDATE raw_material SET rawmaterialprice = $1 WHERE rawmaterialid = $2`,
	Fields: []FieldSpec{
		{Name: "rawmaterialid", Type: FieldText, Required: true},
		{Name: "rawmaterialprice", Type: FieldNumeric, Required: true},
	},
	BuildArgs: func(vals RowValues, _ time.Time) ([]any, error) {
		return []any{
			ToPgNumeric(vals["rawmaterialprice"]),
			vals["rawmaterialid"],
		}, nil
	},
}

// ProductUpdateSchema rewrites a product record by id. The creation date is
// server-assigned at map time, never taken from the upload.
var ProductUpdateSchema = UpdateSchema{
	Table:     "product",
	KeyColumn: "product_id",
	Statement: `UPDATE product
		SET product_name = $1,
		    product_category = $2,
		    product_subcat = $3,
		    product_sp = $4,
		    product_description = $5,
		    product_creationdate = $6
		WHERE product_id = $7`,
	Fields: []FieldSpec{
		{Name: "product_id", Type: FieldText, Required: true},
		{Name: "product_name", Type: FieldText, Required: true},
		{Name: "product_category", Type: FieldText, Required: true, AllowEmpty: true},
		{Name: "product_subcat", Type: FieldText, Required: true, AllowEmpty: true},
		{Name: "product_sp", Type: FieldNumeric, Required: true},
		{Name: "product_description", Type: FieldText, Required: true, AllowEmpty: true},
	},
	BuildArgs: func(vals RowValues, now time.Time) ([]any, error) {
		return []any{
			vals["product_name"],
			vals["product_category"],
			vals["product_subcat"],
			ToPgNumeric(vals["product_sp"]),
			vals["product_description"],
			pgtype.Timestamp{Time: now, Valid: true},
			vals["product_id"],
		}, nil
	},
}

// CheckHeader verifies that every required column of the schema exists in
// the upload header. Returns a MappingError naming the first missing column.
func CheckHeader(schema UpdateSchema, idx tabular.HeaderIndex) error {
	for _, spec := range schema.Fields {
		if !spec.Required {
			continue
		}
		if _, ok := idx[strings.ToLower(spec.Name)]; !ok {
			return &MappingError{Column: spec.Name, Reason: "missing required column"}
		}
	}
	return nil
}

// MapRow validates one parsed row against the schema and builds its
// parameter set. now is the server-assigned timestamp for schemas that
// inject a creation date.
func MapRow(schema UpdateSchema, row tabular.Row, idx tabular.HeaderIndex, now time.Time) (ParamSet, error) {
	vals, err := validateRow(row, idx, schema.Fields)
	if err != nil {
		return ParamSet{}, err
	}

	args, err := schema.BuildArgs(vals, now)
	if err != nil {
		return ParamSet{}, err
	}

	return ParamSet{
		Line: row.Line,
		Key:  vals[schema.KeyColumn],
		Args: args,
	}, nil
}

// validateRow extracts and type-checks the schema's columns from a row.
func validateRow(row tabular.Row, idx tabular.HeaderIndex, specs []FieldSpec) (RowValues, error) {
	out := make(RowValues, len(specs))

	for _, spec := range specs {
		pos, ok := idx[strings.ToLower(spec.Name)]
		if !ok || pos >= len(row.Fields) {
			if spec.Required {
				return nil, &MappingError{Line: row.Line, Column: spec.Name, Reason: "missing required column"}
			}
			continue
		}

		raw := tabular.CleanCell(row.Fields[pos])

		if raw == "" {
			if spec.Required && !spec.AllowEmpty {
				return nil, &MappingError{Line: row.Line, Column: spec.Name, Reason: "empty required field"}
			}
			out[spec.Name] = raw
			continue
		}

		switch spec.Type {
		case FieldNumeric:
			if _, err := NormalizeNumeric(raw); err != nil {
				return nil, &MappingError{Line: row.Line, Column: spec.Name, Reason: "invalid numeric value " + strconv.Quote(raw)}
			}
		case FieldDate:
			if !ToPgDate(raw).Valid {
				return nil, &MappingError{Line: row.Line, Column: spec.Name, Reason: "invalid date value " + strconv.Quote(raw)}
			}
		case FieldText:
			// no-op
		}

		out[spec.Name] = raw
	}

	return out, nil
}

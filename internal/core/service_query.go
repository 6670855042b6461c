package core

import (
	"context"
	"strings"

	"github.com/suryamb/pricing-api/internal/logging"
)

const productListQuery = `
	SELECT product_id, product_name, product_category,
	       product_subcat, product_sp, product_description
	FROM product`

const compositionQuery = `
	SELECT p.product_name,
	       m.rawmaterialid,
	       rm.rawmaterialname,
	       rm.rawmaterialprice,
	       m.qtybyformula
	FROM productrawmaterialmapping m
	JOIN raw_material rm ON m.rawmaterialid = rm.rawmaterialid
	JOIN product p ON m.product_id = p.product_id
	WHERE m.product_id = $1`

// ListRawMaterials returns every raw material row with all of its columns.
func (s *Service) ListRawMaterials(ctx context.Context) ([]TableRow, error) {
	return s.queryRows(ctx, `SELECT * FROM raw_material`)
}

// ListProducts returns the catalog projection of every product.
func (s *Service) ListProducts(ctx context.Context) ([]TableRow, error) {
	return s.queryRows(ctx, productListQuery)
}

// queryRows runs a SELECT and shapes the result dynamically by column name,
// so callers stay decoupled from the exact table layout.
func (s *Service) queryRows(ctx context.Context, query string) ([]TableRow, error) {
	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, &PersistenceError{Op: "query rows", Err: err}
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	out := []TableRow{}

	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, &PersistenceError{Op: "scan row", Err: err}
		}
		row := make(TableRow, len(fields))
		for i, fd := range fields {
			row[fd.Name] = normalizeValue(values[i])
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, &PersistenceError{Op: "iterate rows", Err: err}
	}

	return out, nil
}

// GetProductComposition returns the bill of materials for one product.
// Product ids are stored upper-cased, so the lookup id is folded before
// matching. An unknown id yields an empty, non-nil slice.
func (s *Service) GetProductComposition(ctx context.Context, productID string) ([]CompositionRecord, error) {
	id := strings.ToUpper(strings.TrimSpace(productID))

	rows, err := s.db.Query(ctx, compositionQuery, id)
	if err != nil {
		return nil, &PersistenceError{Op: "query composition", Err: err}
	}
	defer rows.Close()

	records := []CompositionRecord{}
	for rows.Next() {
		var rec CompositionRecord
		var price, qty interface{}
		if err := rows.Scan(&rec.ProductName, &rec.RawMaterialID, &rec.RawMaterialName, &price, &qty); err != nil {
			return nil, &PersistenceError{Op: "scan composition row", Err: err}
		}
		rec.RawMaterialPrice = toFloat64(price)
		rec.QtyByFormula = toFloat64(qty)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, &PersistenceError{Op: "iterate composition rows", Err: err}
	}

	logging.FromContext(ctx).Debug("fetched product composition",
		"productId", id, "components", len(records))

	return records, nil
}

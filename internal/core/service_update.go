package core

import (
	"context"
	"time"

	"github.com/suryamb/pricing-api/internal/logging"
	"github.com/suryamb/pricing-api/internal/observability"
	"github.com/suryamb/pricing-api/internal/tabular"
)

// BulkUpdateRawMaterials reprices raw materials from an uploaded sheet.
func (s *Service) BulkUpdateRawMaterials(ctx context.Context, filename string, data []byte) (*BatchResult, error) {
	return s.bulkUpdate(ctx, RawMaterialUpdateSchema, filename, data)
}

// BulkUpdateProducts rewrites product records from an uploaded sheet.
func (s *Service) BulkUpdateProducts(ctx context.Context, filename string, data []byte) (*BatchResult, error) {
	return s.bulkUpdate(ctx, ProductUpdateSchema, filename, data)
}

// bulkUpdate is the shared pipeline: parse the upload, validate and map
// every row before touching the database, then run the whole batch in one
// transaction. Mapping is fail-fast so a bad row never costs a round trip.
func (s *Service) bulkUpdate(ctx context.Context, schema UpdateSchema, filename string, data []byte) (*BatchResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	logger := logging.FromContext(ctx)

	doc, err := tabular.Parse(filename, data)
	if err != nil {
		observability.BulkBatches.WithLabelValues(schema.Table, "parse_error").Inc()
		return nil, err
	}

	idx := doc.Index()
	if err := CheckHeader(schema, idx); err != nil {
		observability.BulkBatches.WithLabelValues(schema.Table, "mapping_error").Inc()
		return nil, err
	}

	now := time.Now().UTC()
	sets := make([]ParamSet, 0, len(doc.Rows))
	for _, row := range doc.Rows {
		set, err := MapRow(schema, row, idx, now)
		if err != nil {
			observability.BulkBatches.WithLabelValues(schema.Table, "mapping_error").Inc()
			return nil, err
		}
		sets = append(sets, set)
	}

	// A header-only upload is a valid no-op batch.
	if len(sets) == 0 {
		observability.BulkBatches.WithLabelValues(schema.Table, "success").Inc()
		logger.Info("upload contained no data rows", "table", schema.Table, "file", filename)
		return &BatchResult{Table: schema.Table}, nil
	}

	result, err := runBatch(ctx, s.begin, schema, sets, logger)
	if err != nil {
		observability.BulkBatches.WithLabelValues(schema.Table, "update_error").Inc()
		return nil, err
	}

	observability.BulkBatches.WithLabelValues(schema.Table, "success").Inc()
	observability.BulkRowsSubmitted.WithLabelValues(schema.Table).Add(float64(result.Submitted))

	return result, nil
}

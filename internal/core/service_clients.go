package core

import (
	"context"
	"strings"

	"github.com/suryamb/pricing-api/internal/logging"
)

const clientInsertStatement = `
	INSERT INTO client_detail
		(client_id, client_name, client_detail, interested_product, creation_date)
	VALUES ($1, $2, $3, $4, $5)`

// RegisterClient validates and inserts one client record. Every payload
// field is required; a blank field fails before the database is touched.
func (s *Service) RegisterClient(ctx context.Context, reg ClientRegistration) error {
	reg.ID = strings.TrimSpace(reg.ID)
	reg.Name = strings.TrimSpace(reg.Name)

	required := []struct {
		field, value string
	}{
		{"id", reg.ID},
		{"name", reg.Name},
		{"details", reg.Details},
		{"interestedProduct", reg.InterestedProduct},
		{"dateCreated", reg.DateCreated},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return &ValidationError{Field: r.field, Reason: "must not be blank"}
		}
	}

	date := ToPgDate(reg.DateCreated)
	if !date.Valid {
		return &ValidationError{Field: "dateCreated", Reason: "unrecognized date format"}
	}

	_, err := s.db.Exec(ctx, clientInsertStatement,
		reg.ID,
		reg.Name,
		ToPgText(reg.Details),
		ToPgText(reg.InterestedProduct),
		date,
	)
	if err != nil {
		return &PersistenceError{Op: "insert client", Err: err}
	}

	logging.FromContext(ctx).Info("registered client", "clientId", reg.ID)
	return nil
}

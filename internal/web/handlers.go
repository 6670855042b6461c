package web

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/suryamb/pricing-api/internal/core"
	"github.com/suryamb/pricing-api/internal/logging"
)

// The frontend consuming this API inspects the body for an "error" key on
// the read and bulk-update endpoints rather than the status code, so those
// handlers answer 200 with an error body on failure. Client registration
// and single-product lookup use 500 with a fixed message instead.

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.service.Ping(r.Context()); err != nil {
		writeError(r.Context(), w, http.StatusServiceUnavailable, "database unreachable")
		return
	}
	writeJSON(r.Context(), w, map[string]string{"status": "ok"})
}

func (s *Server) handleListRawMaterials(w http.ResponseWriter, r *http.Request) {
	rows, err := s.service.ListRawMaterials(r.Context())
	if err != nil {
		writeError(r.Context(), w, http.StatusOK, err.Error())
		return
	}
	writeJSON(r.Context(), w, rows)
}

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	rows, err := s.service.ListProducts(r.Context())
	if err != nil {
		writeError(r.Context(), w, http.StatusOK, err.Error())
		return
	}
	writeJSON(r.Context(), w, rows)
}

func (s *Server) handleUpdateRawMaterials(w http.ResponseWriter, r *http.Request) {
	s.handleBulkUpdate(w, r, s.service.BulkUpdateRawMaterials)
}

func (s *Server) handleUpdateProducts(w http.ResponseWriter, r *http.Request) {
	s.handleBulkUpdate(w, r, s.service.BulkUpdateProducts)
}

type bulkUpdateFunc func(ctx context.Context, filename string, data []byte) (*core.BatchResult, error)

// handleBulkUpdate reads the multipart upload and hands it to the given
// bulk updater. Both upload endpoints share the same request shape and
// response contract.
func (s *Server) handleBulkUpdate(w http.ResponseWriter, r *http.Request, update bulkUpdateFunc) {
	maxSize := s.cfg.Upload.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		writeError(r.Context(), w, http.StatusOK, "file too large or invalid form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(r.Context(), w, http.StatusOK, "no file provided")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(r.Context(), w, http.StatusOK, "failed to read file")
		return
	}

	// Batch details (id, counts, duration) stay in logs and metrics; the
	// wire body is just the confirmation the frontend looks for.
	if _, err := update(r.Context(), header.Filename, data); err != nil {
		writeError(r.Context(), w, http.StatusOK, err.Error())
		return
	}

	writeJSON(r.Context(), w, map[string]string{"message": "Update successful"})
}

func (s *Server) handleRegisterClient(w http.ResponseWriter, r *http.Request) {
	var reg core.ClientRegistration
	if err := json.NewDecoder(r.Body).Decode(&reg); err != nil {
		logging.FromContext(r.Context()).Error("invalid client payload", "error", err)
		writeError(r.Context(), w, http.StatusInternalServerError, "Failed to add client.")
		return
	}

	if err := s.service.RegisterClient(r.Context(), reg); err != nil {
		logging.FromContext(r.Context()).Error("client registration failed",
			"clientId", reg.ID, "error", err,
			"duplicate", core.IsDuplicateKey(err),
			"connection", core.IsConnectionError(err))
		writeError(r.Context(), w, http.StatusInternalServerError, "Failed to add client.")
		return
	}

	writeJSON(r.Context(), w, map[string]string{"message": "Client added successfully!"})
}

func (s *Server) handleProductComposition(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")

	records, err := s.service.GetProductComposition(r.Context(), productID)
	if err != nil {
		logging.FromContext(r.Context()).Error("composition lookup failed",
			"productId", productID, "error", err,
			"connection", core.IsConnectionError(err))
		writeError(r.Context(), w, http.StatusInternalServerError, "An error occurred while fetching product data.")
		return
	}

	writeJSON(r.Context(), w, records)
}

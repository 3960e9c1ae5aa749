package statement

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/jmeindl/umlage/internal/billing"
	"github.com/jmeindl/umlage/internal/property"
	"github.com/jmeindl/umlage/internal/statement"
)

type Handler struct {
	svc        *statement.Service
	drafts     *billing.DraftStore
	properties *property.Service
}

func NewHandler(svc *statement.Service, drafts *billing.DraftStore, properties *property.Service) *Handler {
	return &Handler{svc: svc, drafts: drafts, properties: properties}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.metadata)
	r.Post("/download", h.download)
}

type statementRequest struct {
	DraftID uuid.UUID `json:"draft_id"`
}

func (h *Handler) assemble(r *http.Request, draftID uuid.UUID) (*billing.Statement, error) {
	var buildingID uuid.UUID

	if err := h.drafts.With(draftID, func(s *billing.Session) error {
		buildingID = s.BuildingID()
		return nil
	}); err != nil {
		return nil, err
	}

	contracts, err := h.properties.ListContractsByBuilding(r.Context(), buildingID)
	if err != nil {
		return nil, err
	}

	var stmt billing.Statement

	err = h.drafts.With(draftID, func(s *billing.Session) error {
		stmt = billing.Assemble(s, contracts)
		return nil
	})

	return &stmt, err
}

// metadata returns the statement data model without touching the
// document store, the cheap preview endpoint.
func (h *Handler) metadata(w http.ResponseWriter, r *http.Request) {
	var req statementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	stmt, err := h.assemble(r, req.DraftID)
	if err != nil {
		if errors.Is(err, billing.ErrDraftNotFound) {
			http.Error(w, "draft not found", http.StatusNotFound)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(stmt); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// download assembles the statement, bundles it with its invoice
// documents and streams the zip.
func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	var req statementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	stmt, err := h.assemble(r, req.DraftID)
	if err != nil {
		if errors.Is(err, billing.ErrDraftNotFound) {
			http.Error(w, "draft not found", http.StatusNotFound)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	tmpDir, err := os.MkdirTemp("", "umlage-statement-*")
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	defer os.RemoveAll(tmpDir)

	zipPath, err := h.svc.Bundle(r.Context(), stmt, tmpDir)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", filepath.Base(zipPath)))

	http.ServeFile(w, r, zipPath)
}

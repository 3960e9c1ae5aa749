// Package billing exposes the draft lifecycle over HTTP: drafts are
// created against a building, edited group by group and reconciled on
// demand. Draft state lives in process memory; only invoices and
// master data are persisted.
package billing

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/jmeindl/umlage/internal/billing"
	"github.com/jmeindl/umlage/internal/category"
	"github.com/jmeindl/umlage/internal/invoice"
	"github.com/jmeindl/umlage/internal/property"
)

type Handler struct {
	drafts     *billing.DraftStore
	invoices   *invoice.Service
	properties *property.Service
}

func NewHandler(drafts *billing.DraftStore, invoices *invoice.Service, properties *property.Service) *Handler {
	return &Handler{drafts: drafts, invoices: invoices, properties: properties}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
	r.Delete("/{id}", h.delete)
	r.Put("/{id}/period", h.setPeriod)
	r.Get("/{id}/reconciliation", h.reconcile)

	r.Route("/{id}/groups/{costType}", func(r chi.Router) {
		r.Put("/key", h.setAllocationKey)
		r.Post("/invoices", h.addInvoice)
		r.Patch("/invoices/{index}", h.updateInvoice)
		r.Delete("/invoices/{index}", h.removeInvoice)
		r.Post("/allocations", h.allocate)
	})
}

type createDraftRequest struct {
	Kind        billing.Kind `json:"kind"`
	BuildingID  uuid.UUID    `json:"building_id"`
	PeriodStart *time.Time   `json:"period_start,omitempty"`
	PeriodEnd   *time.Time   `json:"period_end,omitempty"`

	// Seed loads the building's stored invoices into the draft's groups,
	// the edit-existing-statement entry point. Without it the draft
	// starts empty.
	Seed bool `json:"seed"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createDraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.Kind != billing.KindHeating && req.Kind != billing.KindOperating {
		http.Error(w, "kind must be heating or operating", http.StatusBadRequest)
		return
	}

	id, s := h.drafts.Create(req.Kind, req.BuildingID)

	if req.PeriodStart != nil && req.PeriodEnd != nil {
		s.SetPeriod(billing.Period{Start: *req.PeriodStart, End: *req.PeriodEnd})
	}

	if req.Seed {
		stored, err := h.invoices.ListForBuilding(r.Context(), req.BuildingID)
		if err != nil {
			h.drafts.Delete(id)
			http.Error(w, err.Error(), http.StatusInternalServerError)

			return
		}

		invs := make([]invoice.Invoice, len(stored))
		for i, inv := range stored {
			invs[i] = *inv
		}

		s.SeedInvoices(invs)
	}

	stmt, err := h.assemble(r, id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toDraftResponse(id, stmt)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// assemble snapshots the draft as a statement, reconciled against the
// building's current contracts.
func (h *Handler) assemble(r *http.Request, id uuid.UUID) (billing.Statement, error) {
	var buildingID uuid.UUID

	if err := h.drafts.With(id, func(s *billing.Session) error {
		buildingID = s.BuildingID()
		return nil
	}); err != nil {
		return billing.Statement{}, err
	}

	contracts, err := h.properties.ListContractsByBuilding(r.Context(), buildingID)
	if err != nil {
		return billing.Statement{}, err
	}

	var stmt billing.Statement

	err = h.drafts.With(id, func(s *billing.Session) error {
		stmt = billing.Assemble(s, contracts)
		return nil
	})

	return stmt, err
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	stmt, err := h.assemble(r, id)
	if err != nil {
		if errors.Is(err, billing.ErrDraftNotFound) {
			http.Error(w, "draft not found", http.StatusNotFound)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toDraftResponse(id, stmt)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	h.drafts.Delete(id)
	w.WriteHeader(http.StatusNoContent)
}

type setPeriodRequest struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (h *Handler) setPeriod(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req setPeriodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	p := billing.Period{Start: req.Start, End: req.End}
	if !p.Valid() {
		http.Error(w, "period must be set and ordered", http.StatusBadRequest)
		return
	}

	err = h.drafts.With(id, func(s *billing.Session) error {
		s.SetPeriod(p)
		return nil
	})
	if err != nil {
		h.writeDraftError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) reconcile(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	stmt, err := h.assemble(r, id)
	if err != nil {
		if errors.Is(err, billing.ErrDraftNotFound) {
			http.Error(w, "draft not found", http.StatusNotFound)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toReconciliationResponse(stmt)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type setKeyRequest struct {
	Key category.AllocationKey `json:"key"`
}

func (h *Handler) setAllocationKey(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req setKeyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	t := category.Type(chi.URLParam(r, "costType"))

	err = h.drafts.With(id, func(s *billing.Session) error {
		return s.SetAllocationKey(t, req.Key)
	})
	if err != nil {
		h.writeDraftError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type draftInvoiceRequest struct {
	UnitID        *uuid.UUID `json:"unit_id,omitempty"`
	Purpose       string     `json:"purpose"`
	ForAllTenants bool       `json:"for_all_tenants"`
	Amount        string     `json:"amount,omitempty"`
	AmountCents   *int64     `json:"amount_cents,omitempty"`
	PeriodStart   *time.Time `json:"period_start,omitempty"`
	PeriodEnd     *time.Time `json:"period_end,omitempty"`
}

func (h *Handler) addInvoice(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req draftInvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var amount int64

	if req.AmountCents != nil {
		amount = *req.AmountCents
	} else {
		amount, err = invoice.ParseAmount(req.Amount)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	t := category.Type(chi.URLParam(r, "costType"))

	err = h.drafts.With(id, func(s *billing.Session) error {
		return s.AddInvoice(t, invoice.Invoice{
			BuildingID:    s.BuildingID(),
			UnitID:        req.UnitID,
			Purpose:       req.Purpose,
			ForAllTenants: req.ForAllTenants,
			TotalAmount:   amount,
			PeriodStart:   req.PeriodStart,
			PeriodEnd:     req.PeriodEnd,
		})
	})
	if err != nil {
		h.writeDraftError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
}

type patchInvoiceRequest struct {
	UnitID        *uuid.UUID `json:"unit_id,omitempty"`
	Purpose       *string    `json:"purpose,omitempty"`
	ForAllTenants *bool      `json:"for_all_tenants,omitempty"`
	Amount        *string    `json:"amount,omitempty"`
	AmountCents   *int64     `json:"amount_cents,omitempty"`
	PeriodStart   *time.Time `json:"period_start,omitempty"`
	PeriodEnd     *time.Time `json:"period_end,omitempty"`

	Files []attachFileRequest `json:"files,omitempty"`
}

type attachFileRequest struct {
	URL  string `json:"url"`
	Name string `json:"name"`
}

func (h *Handler) updateInvoice(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	idx, err := invoiceIndex(r)
	if err != nil {
		http.Error(w, "invalid index", http.StatusBadRequest)
		return
	}

	var req patchInvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	patch := billing.InvoicePatch{
		UnitID:        req.UnitID,
		Purpose:       req.Purpose,
		ForAllTenants: req.ForAllTenants,
		TotalAmount:   req.AmountCents,
		PeriodStart:   req.PeriodStart,
		PeriodEnd:     req.PeriodEnd,
	}

	if patch.TotalAmount == nil && req.Amount != nil {
		amount, err := invoice.ParseAmount(*req.Amount)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		patch.TotalAmount = &amount
	}

	for _, f := range req.Files {
		patch.Files = append(patch.Files, invoice.FileRef{URL: f.URL, Name: f.Name})
	}

	t := category.Type(chi.URLParam(r, "costType"))

	err = h.drafts.With(id, func(s *billing.Session) error {
		return s.UpdateInvoice(t, idx, patch)
	})
	if err != nil {
		h.writeDraftError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) removeInvoice(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	idx, err := invoiceIndex(r)
	if err != nil {
		http.Error(w, "invalid index", http.StatusBadRequest)
		return
	}

	t := category.Type(chi.URLParam(r, "costType"))

	err = h.drafts.With(id, func(s *billing.Session) error {
		return s.RemoveInvoice(t, idx)
	})
	if err != nil {
		h.writeDraftError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type allocateRequest struct {
	// Consumptions carries metered readings per unit id, only needed for
	// consumption-keyed groups.
	Consumptions map[uuid.UUID]float64 `json:"consumptions,omitempty"`
}

func (h *Handler) allocate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req allocateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	t := category.Type(chi.URLParam(r, "costType"))

	var (
		buildingID  uuid.UUID
		kind        billing.Kind
		spreadTotal int64
		key         category.AllocationKey
	)

	err = h.drafts.With(id, func(s *billing.Session) error {
		buildingID = s.BuildingID()
		kind = s.Kind()

		// Only spread costs are apportioned; direct costs stay with
		// their unit.
		spreadTotal = s.GroupSpreadTotal(t)

		for _, g := range s.Groups() {
			if g.Category.Type == t {
				key = g.Key
				return nil
			}
		}

		return billing.ErrUnknownCategory
	})
	if err != nil {
		h.writeDraftError(w, err)
		return
	}

	units, err := h.properties.ListUnits(r.Context(), buildingID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	shares := make([]billing.UnitShare, 0, len(units))

	for _, u := range units {
		if kind == billing.KindHeating && !u.HeatingEligible() {
			continue
		}

		shares = append(shares, billing.UnitShare{
			UnitID:        u.ID,
			LivingSpaceM2: u.LivingSpaceM2,
			Consumption:   req.Consumptions[u.ID],
		})
	}

	allocations, err := billing.AllocateSpread(spreadTotal, shares, key)
	if err != nil {
		h.writeDraftError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toAllocationResponse(t, key, spreadTotal, allocations)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func invoiceIndex(r *http.Request) (int, error) {
	return strconv.Atoi(chi.URLParam(r, "index"))
}

// writeDraftError maps domain errors to HTTP statuses: missing drafts are
// 404, editing mistakes are 400, everything else is a 500.
func (h *Handler) writeDraftError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, billing.ErrDraftNotFound):
		http.Error(w, "draft not found", http.StatusNotFound)
	case errors.Is(err, billing.ErrUnknownCategory),
		errors.Is(err, billing.ErrInvoiceIndex),
		errors.Is(err, billing.ErrInvalidKey):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

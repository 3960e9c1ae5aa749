package invoice

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/jmeindl/umlage/internal/category"
	"github.com/jmeindl/umlage/internal/invoice"
)

type Handler struct {
	svc *invoice.Service
}

func NewHandler(svc *invoice.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
	r.Post("/{id}/files", h.attachFile)
}

type createInvoiceRequest struct {
	BuildingID    uuid.UUID     `json:"building_id"`
	UnitID        *uuid.UUID    `json:"unit_id,omitempty"`
	CostType      category.Type `json:"cost_type"`
	Purpose       string        `json:"purpose"`
	ForAllTenants bool          `json:"for_all_tenants"`
	// Amount accepts German decimal notation ("588,74"); alternatively
	// amount_cents carries the exact value.
	Amount      string     `json:"amount,omitempty"`
	AmountCents *int64     `json:"amount_cents,omitempty"`
	PeriodStart *time.Time `json:"period_start,omitempty"`
	PeriodEnd   *time.Time `json:"period_end,omitempty"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createInvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if _, ok := category.Get(req.CostType); !ok {
		http.Error(w, "unknown cost_type", http.StatusBadRequest)
		return
	}

	amount, err := resolveAmount(req.Amount, req.AmountCents)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	inv, err := h.svc.Create(r.Context(), invoice.CreateParams{
		BuildingID:    req.BuildingID,
		UnitID:        req.UnitID,
		CostType:      req.CostType,
		Purpose:       req.Purpose,
		ForAllTenants: req.ForAllTenants,
		TotalAmount:   amount,
		PeriodStart:   req.PeriodStart,
		PeriodEnd:     req.PeriodEnd,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toResponse(inv)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func resolveAmount(amount string, amountCents *int64) (int64, error) {
	if amountCents != nil {
		return *amountCents, nil
	}

	if amount == "" {
		return 0, errors.New("amount or amount_cents is required")
	}

	return invoice.ParseAmount(amount)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := invoice.ListFilter{}

	if s := r.URL.Query().Get("building_id"); s != "" {
		if id, err := uuid.Parse(s); err == nil {
			filter.BuildingID = &id
		}
	}

	if s := r.URL.Query().Get("unit_id"); s != "" {
		if id, err := uuid.Parse(s); err == nil {
			filter.UnitID = &id
		}
	}

	if s := r.URL.Query().Get("cost_type"); s != "" {
		t := category.Type(s)
		filter.CostType = &t
	}

	if s := r.URL.Query().Get("start_date"); s != "" {
		if t, err := time.Parse(time.DateOnly, s); err == nil {
			filter.StartDate = &t
		}
	}

	if s := r.URL.Query().Get("end_date"); s != "" {
		if t, err := time.Parse(time.DateOnly, s); err == nil {
			filter.EndDate = &t
		}
	}

	invoices, err := h.svc.List(r.Context(), filter)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponseList(invoices)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	inv, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, invoice.ErrNotFound) {
			http.Error(w, "invoice not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(inv)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type updateInvoiceRequest struct {
	UnitID        *uuid.UUID     `json:"unit_id,omitempty"`
	CostType      *category.Type `json:"cost_type,omitempty"`
	Purpose       *string        `json:"purpose,omitempty"`
	ForAllTenants *bool          `json:"for_all_tenants,omitempty"`
	Amount        *string        `json:"amount,omitempty"`
	AmountCents   *int64         `json:"amount_cents,omitempty"`
	PeriodStart   *time.Time     `json:"period_start,omitempty"`
	PeriodEnd     *time.Time     `json:"period_end,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req updateInvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	inv, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, invoice.ErrNotFound) {
			http.Error(w, "invoice not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	if req.UnitID != nil {
		inv.UnitID = req.UnitID
	}

	if req.CostType != nil {
		if _, ok := category.Get(*req.CostType); !ok {
			http.Error(w, "unknown cost_type", http.StatusBadRequest)
			return
		}

		inv.CostType = *req.CostType
	}

	if req.Purpose != nil {
		inv.Purpose = *req.Purpose
	}

	if req.ForAllTenants != nil {
		inv.ForAllTenants = *req.ForAllTenants
	}

	if req.AmountCents != nil {
		inv.TotalAmount = *req.AmountCents
	} else if req.Amount != nil {
		amount, err := invoice.ParseAmount(*req.Amount)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		inv.TotalAmount = amount
	}

	if req.PeriodStart != nil {
		inv.PeriodStart = req.PeriodStart
	}

	if req.PeriodEnd != nil {
		inv.PeriodEnd = req.PeriodEnd
	}

	if err := h.svc.Update(r.Context(), inv); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(inv)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type attachFileRequest struct {
	URL  string `json:"url"`
	Name string `json:"name"`
}

func (h *Handler) attachFile(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req attachFileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.URL == "" {
		http.Error(w, "url is required", http.StatusBadRequest)
		return
	}

	if err := h.svc.AttachFile(r.Context(), id, invoice.FileRef{URL: req.URL, Name: req.Name}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
}

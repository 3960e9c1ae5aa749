package classify

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jmeindl/umlage/internal/category"
	"github.com/jmeindl/umlage/internal/classify"
)

type Handler struct {
	svc *classify.Service
}

func NewHandler(svc *classify.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/suggest", h.suggest)
	r.Post("/", h.learn)
}

type suggestResponse struct {
	Purpose  string        `json:"purpose"`
	CostType category.Type `json:"cost_type,omitempty"`
	Found    bool          `json:"found"`
}

func (h *Handler) suggest(w http.ResponseWriter, r *http.Request) {
	purpose := r.URL.Query().Get("purpose")
	if purpose == "" {
		http.Error(w, "purpose query parameter is required", http.StatusBadRequest)
		return
	}

	costType, found, err := h.svc.Classify(r.Context(), purpose)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(suggestResponse{
		Purpose:  purpose,
		CostType: costType,
		Found:    found,
	}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type learnRequest struct {
	Pattern  string        `json:"pattern"`
	CostType category.Type `json:"cost_type"`
}

func (h *Handler) learn(w http.ResponseWriter, r *http.Request) {
	var req learnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.Pattern == "" {
		http.Error(w, "pattern is required", http.StatusBadRequest)
		return
	}

	if _, ok := category.Get(req.CostType); !ok {
		http.Error(w, "unknown cost_type", http.StatusBadRequest)
		return
	}

	if err := h.svc.Learn(r.Context(), req.Pattern, req.CostType); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
}

package property

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/jmeindl/umlage/internal/property"
)

type Handler struct {
	svc *property.Service
}

func NewHandler(svc *property.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.createBuilding)
	r.Get("/", h.listBuildings)
	r.Get("/{id}", h.getBuilding)
	r.Delete("/{id}", h.deleteBuilding)

	r.Post("/{id}/units", h.createUnit)
	r.Get("/{id}/units", h.listUnits)
	r.Get("/{id}/contracts", h.listContractsByBuilding)

	r.Post("/units/{unitID}/contracts", h.createContract)
	r.Get("/units/{unitID}/contracts", h.listContractsByUnit)
	r.Put("/units/{unitID}/contracts/{contractID}/current", h.setCurrentContract)
}

type createBuildingRequest struct {
	LandlordID uuid.UUID `json:"landlord_id"`
	Name       string    `json:"name"`
	Street     string    `json:"street"`
	ZIP        string    `json:"zip"`
	City       string    `json:"city"`
}

func (h *Handler) createBuilding(w http.ResponseWriter, r *http.Request) {
	var req createBuildingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	b, err := h.svc.CreateBuilding(r.Context(), property.CreateBuildingParams{
		LandlordID: req.LandlordID,
		Name:       req.Name,
		Street:     req.Street,
		ZIP:        req.ZIP,
		City:       req.City,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toBuildingResponse(b)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) listBuildings(w http.ResponseWriter, r *http.Request) {
	landlordID, err := uuid.Parse(r.URL.Query().Get("landlord_id"))
	if err != nil {
		http.Error(w, "landlord_id query parameter is required", http.StatusBadRequest)
		return
	}

	buildings, err := h.svc.ListBuildings(r.Context(), landlordID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := make([]buildingResponse, len(buildings))
	for i, b := range buildings {
		resp[i] = toBuildingResponse(b)
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) getBuilding(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	b, err := h.svc.GetBuilding(r.Context(), id)
	if err != nil {
		if errors.Is(err, property.ErrNotFound) {
			http.Error(w, "building not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toBuildingResponse(b)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) deleteBuilding(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.svc.DeleteBuilding(r.Context(), id); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type createUnitRequest struct {
	Usage         property.UsageType `json:"usage"`
	Label         string             `json:"label"`
	LivingSpaceM2 float64            `json:"living_space_m2"`
}

func (h *Handler) createUnit(w http.ResponseWriter, r *http.Request) {
	buildingID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req createUnitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	u, err := h.svc.CreateUnit(r.Context(), property.CreateUnitParams{
		BuildingID:    buildingID,
		Usage:         req.Usage,
		Label:         req.Label,
		LivingSpaceM2: req.LivingSpaceM2,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toUnitResponse(u)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) listUnits(w http.ResponseWriter, r *http.Request) {
	buildingID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	units, err := h.svc.ListUnits(r.Context(), buildingID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := make([]unitResponse, len(units))
	for i, u := range units {
		resp[i] = toUnitResponse(u)
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type createContractRequest struct {
	RentalStart     time.Time           `json:"rental_start"`
	RentalEnd       *time.Time          `json:"rental_end,omitempty"`
	ColdRent        int64               `json:"cold_rent"`
	AdditionalCosts int64               `json:"additional_costs"`
	Contractors     []contractorRequest `json:"contractors"`
}

type contractorRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

func (h *Handler) createContract(w http.ResponseWriter, r *http.Request) {
	unitID, err := uuid.Parse(chi.URLParam(r, "unitID"))
	if err != nil {
		http.Error(w, "invalid unit id", http.StatusBadRequest)
		return
	}

	var req createContractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	contractors := make([]property.Contractor, len(req.Contractors))
	for i, c := range req.Contractors {
		contractors[i] = property.Contractor{Name: c.Name, Email: c.Email, Phone: c.Phone}
	}

	c, err := h.svc.CreateContract(r.Context(), property.CreateContractParams{
		UnitID:          unitID,
		RentalStart:     req.RentalStart,
		RentalEnd:       req.RentalEnd,
		ColdRent:        req.ColdRent,
		AdditionalCosts: req.AdditionalCosts,
		Contractors:     contractors,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toContractResponse(c)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) listContractsByUnit(w http.ResponseWriter, r *http.Request) {
	unitID, err := uuid.Parse(chi.URLParam(r, "unitID"))
	if err != nil {
		http.Error(w, "invalid unit id", http.StatusBadRequest)
		return
	}

	contracts, err := h.svc.ListContractsByUnit(r.Context(), unitID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	h.writeContracts(w, contracts)
}

func (h *Handler) listContractsByBuilding(w http.ResponseWriter, r *http.Request) {
	buildingID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	contracts, err := h.svc.ListContractsByBuilding(r.Context(), buildingID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	h.writeContracts(w, contracts)
}

func (h *Handler) writeContracts(w http.ResponseWriter, contracts []*property.Contract) {
	resp := make([]contractResponse, len(contracts))
	for i, c := range contracts {
		resp[i] = toContractResponse(c)
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) setCurrentContract(w http.ResponseWriter, r *http.Request) {
	unitID, err := uuid.Parse(chi.URLParam(r, "unitID"))
	if err != nil {
		http.Error(w, "invalid unit id", http.StatusBadRequest)
		return
	}

	contractID, err := uuid.Parse(chi.URLParam(r, "contractID"))
	if err != nil {
		http.Error(w, "invalid contract id", http.StatusBadRequest)
		return
	}

	if err := h.svc.SetCurrentContract(r.Context(), unitID, contractID); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

package invoice

import (
	"time"

	"github.com/google/uuid"

	"github.com/jmeindl/umlage/internal/category"
	"github.com/jmeindl/umlage/internal/invoice"
)

type fileResponse struct {
	ID   uuid.UUID `json:"id"`
	URL  string    `json:"url"`
	Name string    `json:"name,omitempty"`
}

type invoiceResponse struct {
	ID            uuid.UUID      `json:"id"`
	BuildingID    uuid.UUID      `json:"building_id"`
	UnitID        *uuid.UUID     `json:"unit_id,omitempty"`
	CostType      category.Type  `json:"cost_type"`
	Purpose       string         `json:"purpose"`
	ForAllTenants bool           `json:"for_all_tenants"`
	TotalAmount   int64          `json:"total_amount"`
	PeriodStart   *time.Time     `json:"period_start,omitempty"`
	PeriodEnd     *time.Time     `json:"period_end,omitempty"`
	Files         []fileResponse `json:"files"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     *time.Time     `json:"updated_at,omitempty"`
}

func toResponse(inv *invoice.Invoice) invoiceResponse {
	files := make([]fileResponse, len(inv.Files))
	for i, f := range inv.Files {
		files[i] = fileResponse{ID: f.ID, URL: f.URL, Name: f.Name}
	}

	return invoiceResponse{
		ID:            inv.ID,
		BuildingID:    inv.BuildingID,
		UnitID:        inv.UnitID,
		CostType:      inv.CostType,
		Purpose:       inv.Purpose,
		ForAllTenants: inv.ForAllTenants,
		TotalAmount:   inv.TotalAmount,
		PeriodStart:   inv.PeriodStart,
		PeriodEnd:     inv.PeriodEnd,
		Files:         files,
		CreatedAt:     inv.CreatedAt,
		UpdatedAt:     inv.UpdatedAt,
	}
}

func toResponseList(invoices []*invoice.Invoice) []invoiceResponse {
	resp := make([]invoiceResponse, len(invoices))
	for i, inv := range invoices {
		resp[i] = toResponse(inv)
	}

	return resp
}

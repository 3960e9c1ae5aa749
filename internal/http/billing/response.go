package billing

import (
	"time"

	"github.com/google/uuid"

	"github.com/jmeindl/umlage/internal/billing"
	"github.com/jmeindl/umlage/internal/category"
)

type draftResponse struct {
	ID         uuid.UUID    `json:"id"`
	Kind       billing.Kind `json:"kind"`
	BuildingID uuid.UUID    `json:"building_id"`

	PeriodStart          *time.Time `json:"period_start,omitempty"`
	PeriodEnd            *time.Time `json:"period_end,omitempty"`
	FormattedPeriodStart string     `json:"formatted_period_start,omitempty"`
	FormattedPeriodEnd   string     `json:"formatted_period_end,omitempty"`

	SpreadTotal     int64 `json:"spread_total"`
	DirectTotal     int64 `json:"direct_total"`
	Total           int64 `json:"total"`
	PrepaymentTotal int64 `json:"prepayment_total"`
	Balance         int64 `json:"balance"`

	Groups []groupResponse `json:"groups"`
}

type groupResponse struct {
	CostType category.Type          `json:"cost_type"`
	Name     string                 `json:"name"`
	Key      category.AllocationKey `json:"key"`
	Total    int64                  `json:"total"`
	Invoices []draftInvoiceResponse `json:"invoices"`
}

type draftInvoiceResponse struct {
	UnitID        *uuid.UUID `json:"unit_id,omitempty"`
	Purpose       string     `json:"purpose"`
	ForAllTenants bool       `json:"for_all_tenants"`
	TotalAmount   int64      `json:"total_amount"`
	PeriodStart   *time.Time `json:"period_start,omitempty"`
	PeriodEnd     *time.Time `json:"period_end,omitempty"`
	FileCount     int        `json:"file_count"`
}

func toDraftResponse(id uuid.UUID, stmt billing.Statement) draftResponse {
	resp := draftResponse{
		ID:              id,
		Kind:            stmt.Kind,
		BuildingID:      stmt.BuildingID,
		SpreadTotal:     stmt.SpreadTotal,
		DirectTotal:     stmt.DirectTotal,
		Total:           stmt.Total,
		PrepaymentTotal: stmt.PrepaymentTotal,
		Balance:         stmt.Balance,
		Groups:          make([]groupResponse, len(stmt.Groups)),
	}

	if !stmt.PeriodStart.IsZero() {
		resp.PeriodStart = &stmt.PeriodStart
		resp.FormattedPeriodStart = stmt.FormattedPeriodStart
	}

	if !stmt.PeriodEnd.IsZero() {
		resp.PeriodEnd = &stmt.PeriodEnd
		resp.FormattedPeriodEnd = stmt.FormattedPeriodEnd
	}

	for i, g := range stmt.Groups {
		gr := groupResponse{
			CostType: g.Category.Type,
			Name:     g.Category.Name,
			Key:      g.Key,
			Total:    g.Total(),
			Invoices: make([]draftInvoiceResponse, len(g.Invoices)),
		}

		for j, inv := range g.Invoices {
			gr.Invoices[j] = draftInvoiceResponse{
				UnitID:        inv.UnitID,
				Purpose:       inv.Purpose,
				ForAllTenants: inv.ForAllTenants,
				TotalAmount:   inv.TotalAmount,
				PeriodStart:   inv.PeriodStart,
				PeriodEnd:     inv.PeriodEnd,
				FileCount:     len(inv.Files),
			}
		}

		resp.Groups[i] = gr
	}

	return resp
}

type reconciliationResponse struct {
	SpreadTotal     int64 `json:"spread_total"`
	DirectTotal     int64 `json:"direct_total"`
	Total           int64 `json:"total"`
	PrepaymentTotal int64 `json:"prepayment_total"`
	Balance         int64 `json:"balance"`
}

func toReconciliationResponse(stmt billing.Statement) reconciliationResponse {
	return reconciliationResponse{
		SpreadTotal:     stmt.SpreadTotal,
		DirectTotal:     stmt.DirectTotal,
		Total:           stmt.Total,
		PrepaymentTotal: stmt.PrepaymentTotal,
		Balance:         stmt.Balance,
	}
}

type allocationResponse struct {
	CostType    category.Type          `json:"cost_type"`
	Key         category.AllocationKey `json:"key"`
	SpreadTotal int64                  `json:"spread_total"`
	Allocations []unitAllocation       `json:"allocations"`
}

type unitAllocation struct {
	UnitID uuid.UUID `json:"unit_id"`
	Amount int64     `json:"amount"`
}

func toAllocationResponse(t category.Type, key category.AllocationKey, spreadTotal int64, allocations []billing.Allocation) allocationResponse {
	resp := allocationResponse{
		CostType:    t,
		Key:         key,
		SpreadTotal: spreadTotal,
		Allocations: make([]unitAllocation, len(allocations)),
	}

	for i, a := range allocations {
		resp.Allocations[i] = unitAllocation{UnitID: a.UnitID, Amount: a.Amount}
	}

	return resp
}

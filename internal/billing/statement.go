package billing

import (
	"time"

	"github.com/google/uuid"

	"github.com/jmeindl/umlage/internal/category"
	"github.com/jmeindl/umlage/internal/invoice"
	"github.com/jmeindl/umlage/internal/property"
)

// Statement is the flat data model consumed by the PDF assembly step:
// cover-page totals, the Differenzbetrag and the per-category breakdown.
// Dates are pre-formatted as dd.MM.yyyy for display.
type Statement struct {
	Kind       Kind
	BuildingID uuid.UUID

	PeriodStart          time.Time
	PeriodEnd            time.Time
	FormattedPeriodStart string
	FormattedPeriodEnd   string

	SpreadTotal     int64
	DirectTotal     int64
	Total           int64
	PrepaymentTotal int64
	Balance         int64

	// Groups is the per-category document-group snapshot in statement
	// order, used for the per-unit breakdown pages.
	Groups []Group
}

// Assemble builds the statement data model from a draft and the contracts
// of its building. It is a pure read of the session state.
func Assemble(s *Session, contracts []*property.Contract) Statement {
	rec := Reconcile(s, contracts)

	return Statement{
		Kind:                 s.kind,
		BuildingID:           s.buildingID,
		PeriodStart:          s.period.Start,
		PeriodEnd:            s.period.End,
		FormattedPeriodStart: s.period.FormatStart(),
		FormattedPeriodEnd:   s.period.FormatEnd(),
		SpreadTotal:          rec.SpreadTotal,
		DirectTotal:          rec.DirectTotal,
		Total:                rec.Total,
		PrepaymentTotal:      rec.PrepaymentTotal,
		Balance:              rec.Balance,
		Groups:               s.Groups(),
	}
}

// GroupedInvoice pairs an invoice with the category of its group.
type GroupedInvoice struct {
	Category category.Type
	Invoice  invoice.Invoice
}

// Invoices flattens the snapshot's invoices, convenience for exporters.
func (st Statement) Invoices() []GroupedInvoice {
	var out []GroupedInvoice

	for _, g := range st.Groups {
		for _, inv := range g.Invoices {
			out = append(out, GroupedInvoice{Category: g.Category.Type, Invoice: inv})
		}
	}

	return out
}

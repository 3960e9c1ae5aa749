package billing

import (
	"github.com/jmeindl/umlage/internal/property"
)

// Reconciliation is the derived balance of one draft, recomputed fresh
// after every mutation and never persisted.
type Reconciliation struct {
	SpreadTotal     int64
	DirectTotal     int64
	Total           int64
	PrepaymentTotal int64

	// Balance is PrepaymentTotal - Total: positive means the tenants'
	// prepayments exceeded the actual cost and the landlord owes a refund,
	// negative means the tenants owe the shortfall. The statement renders
	// this figure as the Differenzbetrag without any sign transformation.
	Balance int64
}

// monthlyRate selects the contractual prepayment rate a statement kind
// reconciles against.
func monthlyRate(kind Kind, c *property.Contract) int64 {
	if kind == KindHeating {
		return c.ColdRent
	}

	return c.AdditionalCosts
}

// PrepaymentTotal prorates every contract overlapping the statement period
// and sums their contributions. Contracts without a rental start date are
// excluded; non-overlapping contracts contribute 0.
func PrepaymentTotal(kind Kind, contracts []*property.Contract, stmt Period) int64 {
	var total int64

	for _, c := range contracts {
		if c == nil || c.RentalStart.IsZero() {
			continue
		}

		months := OverlapMonths(c.RentalStart, c.RentalEnd, stmt)
		total += Prorate(months, monthlyRate(kind, c))
	}

	return total
}

// Reconcile computes the full reconciliation of a draft against the given
// contracts. The caller is responsible for checking Session.Ready first;
// on a draft without a period the prepayment side is 0.
func Reconcile(s *Session, contracts []*property.Contract) Reconciliation {
	a := Apportion(s)

	var prepayment int64
	if s.Ready() {
		prepayment = PrepaymentTotal(s.kind, contracts, s.period)
	}

	return Reconciliation{
		SpreadTotal:     a.SpreadTotal,
		DirectTotal:     a.DirectTotal,
		Total:           a.Total,
		PrepaymentTotal: prepayment,
		Balance:         prepayment - a.Total,
	}
}

package billing_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmeindl/umlage/internal/billing"
	"github.com/jmeindl/umlage/internal/category"
	"github.com/jmeindl/umlage/internal/property"
)

func TestReconcile_SignConvention(t *testing.T) {
	// Positive balance: prepayments exceeded cost, landlord owes a refund.
	// Negative balance: tenants owe the shortfall. The statement shows the
	// figure unchanged, so the sign must hold exactly.
	stmt := billing.Period{Start: date(2024, 1, 1), End: date(2024, 12, 31)}

	// Prepayments are monthly-rate multiples so the 12-month proration
	// reproduces them exactly.
	tests := []struct {
		name        string
		prepayment  int64
		cost        int64
		wantBalance int64
	}{
		{name: "RefundOwed", prepayment: 96000, cost: 72000, wantBalance: 24000},
		{name: "TenantOwes", prepayment: 84000, cost: 96000, wantBalance: -12000},
		{name: "Settled", prepayment: 60000, cost: 60000, wantBalance: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := billing.NewSession(billing.KindOperating, uuid.New())
			s.SetPeriod(stmt)

			require.NoError(t, s.AddInvoice(category.TypeOther, spreadInvoice(category.TypeOther, tt.cost)))

			// One contract spanning the full 12-month period.
			c := &property.Contract{
				RentalStart:     date(2020, 1, 1),
				AdditionalCosts: tt.prepayment / 12,
			}

			rec := billing.Reconcile(s, []*property.Contract{c})
			assert.Equal(t, tt.prepayment, rec.PrepaymentTotal)
			assert.Equal(t, tt.cost, rec.Total)
			assert.Equal(t, tt.wantBalance, rec.Balance)
		})
	}
}

// End-to-end: one unit, one contract 2024-01-01 to 2024-12-31 at 300/month
// cold rent, statement period 2024-01-01 to 2024-06-30, one spread
// heating-fuel invoice of 900.
func TestReconcile_HeatingScenario(t *testing.T) {
	buildingID := uuid.New()

	s := billing.NewSession(billing.KindHeating, buildingID)
	s.SetPeriod(billing.Period{Start: date(2024, 1, 1), End: date(2024, 6, 30)})

	require.NoError(t, s.AddInvoice(category.TypeHeatingFuel, spreadInvoice(category.TypeHeatingFuel, 90000)))

	contract := &property.Contract{
		UnitID:      uuid.New(),
		RentalStart: date(2024, 1, 1),
		RentalEnd:   datePtr(2024, 12, 31),
		ColdRent:    30000,
	}

	months := billing.OverlapMonths(contract.RentalStart, contract.RentalEnd, s.Period())
	assert.Equal(t, 6, months)

	rec := billing.Reconcile(s, []*property.Contract{contract})

	assert.Equal(t, int64(180000), rec.PrepaymentTotal)
	assert.Equal(t, int64(90000), rec.SpreadTotal)
	assert.Equal(t, int64(0), rec.DirectTotal)
	assert.Equal(t, int64(90000), rec.Total)
	assert.Equal(t, int64(90000), rec.Balance)
}

func TestReconcile_KindSelectsRate(t *testing.T) {
	period := billing.Period{Start: date(2024, 1, 1), End: date(2024, 12, 31)}

	contract := &property.Contract{
		RentalStart:     date(2020, 1, 1),
		ColdRent:        30000,
		AdditionalCosts: 15000,
	}

	heating := billing.NewSession(billing.KindHeating, uuid.New())
	heating.SetPeriod(period)
	recHeating := billing.Reconcile(heating, []*property.Contract{contract})
	assert.Equal(t, int64(360000), recHeating.PrepaymentTotal)

	operating := billing.NewSession(billing.KindOperating, uuid.New())
	operating.SetPeriod(period)
	recOperating := billing.Reconcile(operating, []*property.Contract{contract})
	assert.Equal(t, int64(180000), recOperating.PrepaymentTotal)
}

func TestReconcile_ExcludesNonParticipants(t *testing.T) {
	s := billing.NewSession(billing.KindOperating, uuid.New())
	s.SetPeriod(billing.Period{Start: date(2024, 1, 1), End: date(2024, 6, 30)})

	contracts := []*property.Contract{
		nil,
		{RentalStart: date(2025, 1, 1), AdditionalCosts: 10000}, // after period
		{AdditionalCosts: 10000},                                // no start date
		{
			RentalStart:     date(2010, 1, 1),
			RentalEnd:       datePtr(2023, 12, 31), // before period
			AdditionalCosts: 10000,
		},
	}

	rec := billing.Reconcile(s, contracts)
	assert.Zero(t, rec.PrepaymentTotal)
}

func TestReconcile_NotReadyHasZeroPrepayment(t *testing.T) {
	s := billing.NewSession(billing.KindOperating, uuid.New())
	require.False(t, s.Ready())

	contract := &property.Contract{RentalStart: date(2020, 1, 1), AdditionalCosts: 10000}

	rec := billing.Reconcile(s, []*property.Contract{contract})
	assert.Zero(t, rec.PrepaymentTotal)
}

func TestReconcile_Idempotent(t *testing.T) {
	s := billing.NewSession(billing.KindOperating, uuid.New())
	s.SetPeriod(billing.Period{Start: date(2024, 1, 1), End: date(2024, 12, 31)})

	require.NoError(t, s.AddInvoice(category.TypeInsurance, spreadInvoice(category.TypeInsurance, 45000)))

	contracts := []*property.Contract{
		{RentalStart: date(2023, 7, 1), AdditionalCosts: 12000},
	}

	first := billing.Reconcile(s, contracts)
	second := billing.Reconcile(s, contracts)

	assert.Equal(t, first, second)
}

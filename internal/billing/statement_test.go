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

func TestAssemble(t *testing.T) {
	buildingID := uuid.New()

	s := billing.NewSession(billing.KindHeating, buildingID)
	s.SetPeriod(billing.Period{Start: date(2024, 1, 1), End: date(2024, 6, 30)})

	require.NoError(t, s.AddInvoice(category.TypeHeatingFuel, spreadInvoice(category.TypeHeatingFuel, 90000)))
	require.NoError(t, s.AddInvoice(category.TypeMaintenance, directInvoice(category.TypeMaintenance, 15000)))

	contract := &property.Contract{
		RentalStart: date(2024, 1, 1),
		RentalEnd:   datePtr(2024, 12, 31),
		ColdRent:    30000,
	}

	st := billing.Assemble(s, []*property.Contract{contract})

	assert.Equal(t, billing.KindHeating, st.Kind)
	assert.Equal(t, buildingID, st.BuildingID)

	// German display format is a hard compatibility requirement.
	assert.Equal(t, "01.01.2024", st.FormattedPeriodStart)
	assert.Equal(t, "30.06.2024", st.FormattedPeriodEnd)

	assert.Equal(t, int64(90000), st.SpreadTotal)
	assert.Equal(t, int64(15000), st.DirectTotal)
	assert.Equal(t, int64(105000), st.Total)
	assert.Equal(t, int64(180000), st.PrepaymentTotal)
	assert.Equal(t, int64(75000), st.Balance)

	assert.Len(t, st.Groups, len(category.HeatingRelevant()))

	// Flattened invoices carry the cost type of their group.
	invs := st.Invoices()
	require.Len(t, invs, 2)
	assert.Equal(t, category.TypeHeatingFuel, invs[0].Category)
	assert.Equal(t, int64(90000), invs[0].Invoice.TotalAmount)
	assert.Equal(t, category.TypeMaintenance, invs[1].Category)
}

func TestAssemble_SnapshotIsDetached(t *testing.T) {
	s := billing.NewSession(billing.KindOperating, uuid.New())
	s.SetPeriod(billing.Period{Start: date(2024, 1, 1), End: date(2024, 12, 31)})

	require.NoError(t, s.AddInvoice(category.TypeCleaning, spreadInvoice(category.TypeCleaning, 10000)))

	st := billing.Assemble(s, nil)

	// Mutating the session afterwards must not change the snapshot.
	require.NoError(t, s.RemoveInvoice(category.TypeCleaning, 0))

	assert.Len(t, st.Invoices(), 1)
	assert.Equal(t, int64(10000), st.Total)
}

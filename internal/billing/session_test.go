package billing_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmeindl/umlage/internal/billing"
	"github.com/jmeindl/umlage/internal/category"
	"github.com/jmeindl/umlage/internal/invoice"
)

func spreadInvoice(t category.Type, amount int64) invoice.Invoice {
	return invoice.Invoice{
		ID:            uuid.New(),
		CostType:      t,
		ForAllTenants: true,
		TotalAmount:   amount,
	}
}

func TestSession_NewSession_GroupsPerKind(t *testing.T) {
	operating := billing.NewSession(billing.KindOperating, uuid.New())
	assert.Len(t, operating.Groups(), len(category.All()))

	heating := billing.NewSession(billing.KindHeating, uuid.New())
	assert.Len(t, heating.Groups(), len(category.HeatingRelevant()))

	for _, g := range heating.Groups() {
		assert.True(t, g.Category.HeatingRelevant)
		assert.Equal(t, g.Category.DefaultKey, g.Key)
		assert.Empty(t, g.Invoices)
	}
}

func TestSession_SetGroups_PartitionsByCostType(t *testing.T) {
	s := billing.NewSession(billing.KindOperating, uuid.New())

	s.SetGroups(category.All(), []invoice.Invoice{
		spreadInvoice(category.TypeHeatingFuel, 90000),
		spreadInvoice(category.TypeCleaning, 12000),
		spreadInvoice(category.TypeHeatingFuel, 30000),
		spreadInvoice(category.Type("bogus"), 555), // dropped
	})

	assert.Equal(t, int64(120000), s.GroupTotal(category.TypeHeatingFuel))
	assert.Equal(t, int64(12000), s.GroupTotal(category.TypeCleaning))
	assert.Equal(t, int64(132000), s.Total())
}

func TestSession_SeedInvoices_ReplacesGroupContents(t *testing.T) {
	s := billing.NewSession(billing.KindHeating, uuid.New())

	require.NoError(t, s.AddInvoice(category.TypeHeatingFuel, spreadInvoice(category.TypeHeatingFuel, 90000)))

	s.SeedInvoices([]invoice.Invoice{
		spreadInvoice(category.TypeHeatingFuel, 30000),
		spreadInvoice(category.TypeChimneySweep, 8000),
		spreadInvoice(category.TypeCleaning, 12000), // not heating-relevant, dropped
	})

	assert.Equal(t, int64(30000), s.GroupTotal(category.TypeHeatingFuel))
	assert.Equal(t, int64(8000), s.GroupTotal(category.TypeChimneySweep))
	assert.Equal(t, int64(38000), s.Total())
	assert.Len(t, s.Groups(), len(category.HeatingRelevant()))
}

func TestSession_AddInvoice(t *testing.T) {
	s := billing.NewSession(billing.KindOperating, uuid.New())

	err := s.AddInvoice(category.TypeInsurance, spreadInvoice(category.TypeInsurance, 45000))
	require.NoError(t, err)
	assert.Equal(t, int64(45000), s.GroupTotal(category.TypeInsurance))

	err = s.AddInvoice(category.Type("bogus"), spreadInvoice("bogus", 100))
	assert.ErrorIs(t, err, billing.ErrUnknownCategory)
}

func TestSession_AddInvoice_CategoryIsolation(t *testing.T) {
	s := billing.NewSession(billing.KindOperating, uuid.New())

	before := s.GroupTotal(category.TypeCleaning)

	require.NoError(t, s.AddInvoice(category.TypeInsurance, spreadInvoice(category.TypeInsurance, 45000)))

	assert.Equal(t, before, s.GroupTotal(category.TypeCleaning))
}

func TestSession_UpdateInvoice_MergesPatch(t *testing.T) {
	s := billing.NewSession(billing.KindOperating, uuid.New())

	inv := spreadInvoice(category.TypeHeatingFuel, 90000)
	inv.Files = []invoice.FileRef{{Name: "rechnung-1.pdf"}}
	require.NoError(t, s.AddInvoice(category.TypeHeatingFuel, inv))

	amount := int64(95000)
	purpose := "Gas"
	direct := false

	err := s.UpdateInvoice(category.TypeHeatingFuel, 0, billing.InvoicePatch{
		TotalAmount:   &amount,
		Purpose:       &purpose,
		ForAllTenants: &direct,
		Files:         []invoice.FileRef{{Name: "rechnung-2.pdf"}},
	})
	require.NoError(t, err)

	got := s.Groups()[0].Invoices[0]
	assert.Equal(t, int64(95000), got.TotalAmount)
	assert.Equal(t, "Gas", got.Purpose)
	assert.False(t, got.ForAllTenants)

	// File attachments concatenate, they are never replaced.
	require.Len(t, got.Files, 2)
	assert.Equal(t, "rechnung-1.pdf", got.Files[0].Name)
	assert.Equal(t, "rechnung-2.pdf", got.Files[1].Name)
}

func TestSession_UpdateInvoice_Errors(t *testing.T) {
	s := billing.NewSession(billing.KindOperating, uuid.New())

	err := s.UpdateInvoice(category.Type("bogus"), 0, billing.InvoicePatch{})
	assert.ErrorIs(t, err, billing.ErrUnknownCategory)

	err = s.UpdateInvoice(category.TypeCleaning, 0, billing.InvoicePatch{})
	assert.ErrorIs(t, err, billing.ErrInvoiceIndex)
}

func TestSession_RemoveInvoice(t *testing.T) {
	s := billing.NewSession(billing.KindOperating, uuid.New())

	require.NoError(t, s.AddInvoice(category.TypeCleaning, spreadInvoice(category.TypeCleaning, 10000)))
	require.NoError(t, s.AddInvoice(category.TypeCleaning, spreadInvoice(category.TypeCleaning, 20000)))

	require.NoError(t, s.RemoveInvoice(category.TypeCleaning, 0))
	assert.Equal(t, int64(20000), s.GroupTotal(category.TypeCleaning))

	err := s.RemoveInvoice(category.TypeCleaning, 5)
	assert.ErrorIs(t, err, billing.ErrInvoiceIndex)
}

func TestSession_SetAllocationKey(t *testing.T) {
	s := billing.NewSession(billing.KindOperating, uuid.New())

	require.NoError(t, s.SetAllocationKey(category.TypeCleaning, category.AllocateByUnitCount))

	for _, g := range s.Groups() {
		if g.Category.Type == category.TypeCleaning {
			assert.Equal(t, category.AllocateByUnitCount, g.Key)
		}
	}

	err := s.SetAllocationKey(category.TypeCleaning, category.AllocationKey("per-room"))
	assert.ErrorIs(t, err, billing.ErrInvalidKey)

	err = s.SetAllocationKey(category.Type("bogus"), category.AllocateByUnitCount)
	assert.ErrorIs(t, err, billing.ErrUnknownCategory)
}

func TestSession_GroupSpreadTotal_ExcludesDirectCosts(t *testing.T) {
	s := billing.NewSession(billing.KindOperating, uuid.New())

	require.NoError(t, s.AddInvoice(category.TypeMaintenance, spreadInvoice(category.TypeMaintenance, 60000)))
	require.NoError(t, s.AddInvoice(category.TypeMaintenance, directInvoice(category.TypeMaintenance, 40000)))

	assert.Equal(t, int64(100000), s.GroupTotal(category.TypeMaintenance))
	assert.Equal(t, int64(60000), s.GroupSpreadTotal(category.TypeMaintenance))
	assert.Zero(t, s.GroupSpreadTotal(category.Type("bogus")))
}

func TestSession_GroupTotal_UnknownCategoryIsZero(t *testing.T) {
	s := billing.NewSession(billing.KindOperating, uuid.New())
	assert.Equal(t, int64(0), s.GroupTotal(category.Type("bogus")))
}

func TestSession_Ready(t *testing.T) {
	s := billing.NewSession(billing.KindOperating, uuid.New())
	assert.False(t, s.Ready())

	s.SetPeriod(billing.Period{Start: date(2024, 1, 1), End: date(2024, 12, 31)})
	assert.True(t, s.Ready())
}

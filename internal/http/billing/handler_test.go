package billing_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/jmeindl/umlage/internal/billing"
	"github.com/jmeindl/umlage/internal/category"
	billingHandler "github.com/jmeindl/umlage/internal/http/billing"
	"github.com/jmeindl/umlage/internal/invoice"
	"github.com/jmeindl/umlage/internal/property"
)

func newTestServer(t *testing.T, drafts *billing.DraftStore, propRepo property.Repository) http.Handler {
	t.Helper()

	ctrl := gomock.NewController(t)
	h := billingHandler.NewHandler(
		drafts,
		invoice.NewService(invoice.NewMockRepository(ctrl)),
		property.NewService(propRepo),
	)

	r := chi.NewRouter()
	h.Routes(r)

	return r
}

func TestHandler_Allocate_SpreadsOnlySpreadCosts(t *testing.T) {
	ctrl := gomock.NewController(t)
	buildingID := uuid.New()

	drafts := billing.NewDraftStore()
	id, s := drafts.Create(billing.KindOperating, buildingID)

	require.NoError(t, s.AddInvoice(category.TypeMaintenance, invoice.Invoice{
		ForAllTenants: true,
		TotalAmount:   60000,
	}))

	// This unit-direct cost must stay with its unit and never enter the
	// per-unit split.
	unitID := uuid.New()
	require.NoError(t, s.AddInvoice(category.TypeMaintenance, invoice.Invoice{
		UnitID:        &unitID,
		ForAllTenants: false,
		TotalAmount:   40000,
	}))

	units := []*property.Unit{
		{ID: uuid.New(), BuildingID: buildingID, Usage: property.UsageResidential, LivingSpaceM2: 50},
		{ID: uuid.New(), BuildingID: buildingID, Usage: property.UsageResidential, LivingSpaceM2: 50},
	}

	propRepo := property.NewMockRepository(ctrl)
	propRepo.EXPECT().ListUnits(gomock.Any(), buildingID).Return(units, nil)

	srv := newTestServer(t, drafts, propRepo)

	req := httptest.NewRequest(http.MethodPost,
		"/"+id.String()+"/groups/maintenance/allocations",
		strings.NewReader(`{}`))
	rec := httptest.NewRecorder()

	srv.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		SpreadTotal int64 `json:"spread_total"`
		Allocations []struct {
			UnitID uuid.UUID `json:"unit_id"`
			Amount int64     `json:"amount"`
		} `json:"allocations"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))

	assert.Equal(t, int64(60000), resp.SpreadTotal)

	require.Len(t, resp.Allocations, 2)
	for _, a := range resp.Allocations {
		assert.Equal(t, int64(30000), a.Amount)
	}
}

func TestHandler_Allocate_UnknownDraftIs404(t *testing.T) {
	ctrl := gomock.NewController(t)

	srv := newTestServer(t, billing.NewDraftStore(), property.NewMockRepository(ctrl))

	req := httptest.NewRequest(http.MethodPost,
		"/"+uuid.NewString()+"/groups/maintenance/allocations",
		strings.NewReader(`{}`))
	rec := httptest.NewRecorder()

	srv.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

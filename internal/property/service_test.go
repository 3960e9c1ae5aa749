package property_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/jmeindl/umlage/internal/property"
)

func TestService_CreateContract(t *testing.T) {
	unitID := uuid.New()
	start := time.Date(2023, 4, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)

	type testCase struct {
		name        string
		params      property.CreateContractParams
		setupMock   func(m *property.MockRepository)
		wantCurrent bool
		wantErr     bool
	}

	tests := []testCase{
		{
			name: "OpenEndedBecomesCurrent",
			params: property.CreateContractParams{
				UnitID:          unitID,
				RentalStart:     start,
				ColdRent:        65000,
				AdditionalCosts: 18000,
			},
			setupMock: func(m *property.MockRepository) {
				m.EXPECT().
					CreateContract(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, c *property.Contract) error {
						c.ID = uuid.New()
						c.CreatedAt = time.Now()
						return nil
					})
				m.EXPECT().
					SetCurrentContract(gomock.Any(), unitID, gomock.Any()).
					Return(nil)
			},
			wantCurrent: true,
		},
		{
			name: "BoundedContractNotCurrent",
			params: property.CreateContractParams{
				UnitID:      unitID,
				RentalStart: start,
				RentalEnd:   &end,
				ColdRent:    65000,
			},
			setupMock: func(m *property.MockRepository) {
				m.EXPECT().
					CreateContract(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, c *property.Contract) error {
						c.ID = uuid.New()
						return nil
					})
			},
			wantCurrent: false,
		},
		{
			name: "EndBeforeStart",
			params: property.CreateContractParams{
				UnitID:      unitID,
				RentalStart: end,
				RentalEnd:   &start,
			},
			wantErr: true,
		},
		{
			name: "RepoError",
			params: property.CreateContractParams{
				UnitID:      unitID,
				RentalStart: start,
			},
			setupMock: func(m *property.MockRepository) {
				m.EXPECT().
					CreateContract(gomock.Any(), gomock.Any()).
					Return(errors.New("db error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := property.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := property.NewService(repo)
			got, err := svc.CreateContract(context.Background(), tt.params)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, tt.wantCurrent, got.IsCurrent)
		})
	}
}

func TestService_CreateUnit_DefaultsToResidential(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := property.NewMockRepository(ctrl)
	repo.EXPECT().
		CreateUnit(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, u *property.Unit) error {
			u.ID = uuid.New()
			return nil
		})

	svc := property.NewService(repo)
	u, err := svc.CreateUnit(context.Background(), property.CreateUnitParams{
		BuildingID:    uuid.New(),
		Label:         "EG links",
		LivingSpaceM2: 74.5,
	})
	require.NoError(t, err)
	assert.Equal(t, property.UsageResidential, u.Usage)
}

func TestUnit_HeatingEligible(t *testing.T) {
	tests := []struct {
		usage property.UsageType
		want  bool
	}{
		{property.UsageResidential, true},
		{property.UsageCommercial, true},
		{property.UsageOther, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.usage), func(t *testing.T) {
			u := property.Unit{Usage: tt.usage}
			assert.Equal(t, tt.want, u.HeatingEligible())
		})
	}
}

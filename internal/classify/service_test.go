package classify

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/jmeindl/umlage/internal/category"
)

func TestService_Classify(t *testing.T) {
	tests := []struct {
		name      string
		purpose   string
		setupMock func(repo *MockRepository)
		wantType  category.Type
		wantFound bool
		wantErr   bool
	}{
		{
			name:    "LearnedMappingWins",
			purpose: "Rechnung Gebäudereinigung Meier GmbH",
			setupMock: func(repo *MockRepository) {
				repo.EXPECT().
					FindMapping(gomock.Any(), "Rechnung Gebäudereinigung Meier GmbH").
					Return(category.TypeCleaning, nil)
			},
			wantType:  category.TypeCleaning,
			wantFound: true,
		},
		{
			name:    "LearnedMappingBeatsHeuristic",
			purpose: "Wartung Aufzugsanlage",
			setupMock: func(repo *MockRepository) {
				// The keyword table would pick maintenance; a learned
				// mapping pins this vendor to the elevator category.
				repo.EXPECT().
					FindMapping(gomock.Any(), "Wartung Aufzugsanlage").
					Return(category.TypeElevator, nil)
			},
			wantType:  category.TypeElevator,
			wantFound: true,
		},
		{
			name:    "FallsBackToKeywords",
			purpose: "Grundsteuer B 2024",
			setupMock: func(repo *MockRepository) {
				repo.EXPECT().
					FindMapping(gomock.Any(), "Grundsteuer B 2024").
					Return(category.Type(""), nil)
			},
			wantType:  category.TypePropertyTax,
			wantFound: true,
		},
		{
			name:    "KeywordsAreCaseInsensitive",
			purpose: "HAUSMEISTERSERVICE März",
			setupMock: func(repo *MockRepository) {
				repo.EXPECT().
					FindMapping(gomock.Any(), gomock.Any()).
					Return(category.Type(""), nil)
			},
			wantType:  category.TypeJanitor,
			wantFound: true,
		},
		{
			name:    "StaleMappingIgnored",
			purpose: "Dachrinnenreinigung",
			setupMock: func(repo *MockRepository) {
				repo.EXPECT().
					FindMapping(gomock.Any(), gomock.Any()).
					Return(category.Type("retired-category"), nil)
			},
			wantType:  category.TypeCleaning,
			wantFound: true,
		},
		{
			name:    "WinterdienstFollowsRegistry",
			purpose: "Winterdienst Januar",
			setupMock: func(repo *MockRepository) {
				repo.EXPECT().
					FindMapping(gomock.Any(), gomock.Any()).
					Return(category.Type(""), nil)
			},
			// The registry lists Winterdienst under Gartenpflege; the
			// heuristic must agree with it.
			wantType:  category.TypeGardening,
			wantFound: true,
		},
		{
			name:    "NoMatch",
			purpose: "Sonstige Dienstleistung",
			setupMock: func(repo *MockRepository) {
				repo.EXPECT().
					FindMapping(gomock.Any(), gomock.Any()).
					Return(category.Type(""), nil)
			},
			wantFound: false,
		},
		{
			name:      "EmptyPurposeSkipsLookup",
			purpose:   "   ",
			setupMock: func(repo *MockRepository) {},
			wantFound: false,
		},
		{
			name:    "RepositoryError",
			purpose: "Grundsteuer B 2024",
			setupMock: func(repo *MockRepository) {
				repo.EXPECT().
					FindMapping(gomock.Any(), gomock.Any()).
					Return(category.Type(""), errors.New("db down"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := NewMockRepository(ctrl)
			tt.setupMock(repo)

			svc := NewService(repo)

			got, found, err := svc.Classify(context.Background(), tt.purpose)
			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantFound, found)
			assert.Equal(t, tt.wantType, got)
		})
	}
}

func TestService_Learn(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := NewMockRepository(ctrl)
	repo.EXPECT().
		CreateMapping(gomock.Any(), "Stadtwerke Abschlag", category.TypeHeatingFuel).
		Return(nil)

	svc := NewService(repo)

	err := svc.Learn(context.Background(), "  Stadtwerke Abschlag  ", category.TypeHeatingFuel)
	require.NoError(t, err)
}

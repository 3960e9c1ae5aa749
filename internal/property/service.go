package property

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("not found")

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=property
type Repository interface {
	CreateBuilding(ctx context.Context, b *Building) error
	GetBuilding(ctx context.Context, id uuid.UUID) (*Building, error)
	ListBuildings(ctx context.Context, landlordID uuid.UUID) ([]*Building, error)
	DeleteBuilding(ctx context.Context, id uuid.UUID) error

	CreateUnit(ctx context.Context, u *Unit) error
	ListUnits(ctx context.Context, buildingID uuid.UUID) ([]*Unit, error)

	CreateContract(ctx context.Context, c *Contract) error
	ListContractsByUnit(ctx context.Context, unitID uuid.UUID) ([]*Contract, error)
	ListContractsByBuilding(ctx context.Context, buildingID uuid.UUID) ([]*Contract, error)
	SetCurrentContract(ctx context.Context, unitID, contractID uuid.UUID) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateBuildingParams struct {
	LandlordID uuid.UUID
	Name       string
	Street     string
	ZIP        string
	City       string
}

func (s *Service) CreateBuilding(ctx context.Context, params CreateBuildingParams) (*Building, error) {
	b := &Building{
		LandlordID: params.LandlordID,
		Name:       params.Name,
		Street:     params.Street,
		ZIP:        params.ZIP,
		City:       params.City,
	}
	if err := s.repo.CreateBuilding(ctx, b); err != nil {
		return nil, err
	}

	return b, nil
}

func (s *Service) GetBuilding(ctx context.Context, id uuid.UUID) (*Building, error) {
	return s.repo.GetBuilding(ctx, id)
}

func (s *Service) ListBuildings(ctx context.Context, landlordID uuid.UUID) ([]*Building, error) {
	return s.repo.ListBuildings(ctx, landlordID)
}

func (s *Service) DeleteBuilding(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteBuilding(ctx, id)
}

type CreateUnitParams struct {
	BuildingID    uuid.UUID
	Usage         UsageType
	Label         string
	LivingSpaceM2 float64
}

func (s *Service) CreateUnit(ctx context.Context, params CreateUnitParams) (*Unit, error) {
	usage := params.Usage
	if usage == "" {
		usage = UsageResidential
	}

	u := &Unit{
		BuildingID:    params.BuildingID,
		Usage:         usage,
		Label:         params.Label,
		LivingSpaceM2: params.LivingSpaceM2,
	}
	if err := s.repo.CreateUnit(ctx, u); err != nil {
		return nil, err
	}

	return u, nil
}

func (s *Service) ListUnits(ctx context.Context, buildingID uuid.UUID) ([]*Unit, error) {
	return s.repo.ListUnits(ctx, buildingID)
}

type CreateContractParams struct {
	UnitID          uuid.UUID
	RentalStart     time.Time
	RentalEnd       *time.Time
	ColdRent        int64
	AdditionalCosts int64
	Contractors     []Contractor
}

// CreateContract stores a new contract. A contract with no end date is
// marked current; the store demotes any previously current contract on the
// same unit so that at most one contract per unit is current.
func (s *Service) CreateContract(ctx context.Context, params CreateContractParams) (*Contract, error) {
	if params.RentalEnd != nil && params.RentalEnd.Before(params.RentalStart) {
		return nil, errors.New("rental end before rental start")
	}

	c := &Contract{
		UnitID:          params.UnitID,
		RentalStart:     params.RentalStart,
		RentalEnd:       params.RentalEnd,
		ColdRent:        params.ColdRent,
		AdditionalCosts: params.AdditionalCosts,
		IsCurrent:       params.RentalEnd == nil,
		Contractors:     params.Contractors,
	}
	if err := s.repo.CreateContract(ctx, c); err != nil {
		return nil, err
	}

	if c.IsCurrent {
		if err := s.repo.SetCurrentContract(ctx, c.UnitID, c.ID); err != nil {
			return nil, err
		}
	}

	return c, nil
}

func (s *Service) ListContractsByUnit(ctx context.Context, unitID uuid.UUID) ([]*Contract, error) {
	return s.repo.ListContractsByUnit(ctx, unitID)
}

func (s *Service) ListContractsByBuilding(ctx context.Context, buildingID uuid.UUID) ([]*Contract, error) {
	return s.repo.ListContractsByBuilding(ctx, buildingID)
}

func (s *Service) SetCurrentContract(ctx context.Context, unitID, contractID uuid.UUID) error {
	return s.repo.SetCurrentContract(ctx, unitID, contractID)
}

package invoice

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jmeindl/umlage/internal/category"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=invoice
type Repository interface {
	CreateInvoice(ctx context.Context, inv *Invoice) error
	GetInvoice(ctx context.Context, id uuid.UUID) (*Invoice, error)
	UpdateInvoice(ctx context.Context, inv *Invoice) error
	ListInvoices(ctx context.Context, filter ListFilter) ([]*Invoice, error)
	DeleteInvoice(ctx context.Context, id uuid.UUID) error
	AttachFile(ctx context.Context, invoiceID uuid.UUID, file FileRef) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	BuildingID    uuid.UUID
	UnitID        *uuid.UUID
	CostType      category.Type
	Purpose       string
	ForAllTenants bool
	TotalAmount   int64
	PeriodStart   *time.Time
	PeriodEnd     *time.Time
	Files         []FileRef
}

type ListFilter struct {
	BuildingID *uuid.UUID
	UnitID     *uuid.UUID
	CostType   *category.Type
	StartDate  *time.Time
	EndDate    *time.Time
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Invoice, error) {
	inv := &Invoice{
		BuildingID:    params.BuildingID,
		UnitID:        params.UnitID,
		CostType:      params.CostType,
		Purpose:       params.Purpose,
		ForAllTenants: params.ForAllTenants,
		TotalAmount:   params.TotalAmount,
		PeriodStart:   params.PeriodStart,
		PeriodEnd:     params.PeriodEnd,
		Files:         params.Files,
	}
	if err := s.repo.CreateInvoice(ctx, inv); err != nil {
		return nil, err
	}

	return inv, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Invoice, error) {
	return s.repo.GetInvoice(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Invoice, error) {
	return s.repo.ListInvoices(ctx, filter)
}

func (s *Service) Update(ctx context.Context, inv *Invoice) error {
	return s.repo.UpdateInvoice(ctx, inv)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteInvoice(ctx, id)
}

func (s *Service) AttachFile(ctx context.Context, invoiceID uuid.UUID, file FileRef) error {
	return s.repo.AttachFile(ctx, invoiceID, file)
}

// ListForBuilding returns every invoice of a building, the common seed for
// a fresh billing draft in edit mode.
func (s *Service) ListForBuilding(ctx context.Context, buildingID uuid.UUID) ([]*Invoice, error) {
	return s.repo.ListInvoices(ctx, ListFilter{BuildingID: &buildingID})
}

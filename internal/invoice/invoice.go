package invoice

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/jmeindl/umlage/internal/category"
)

var ErrNotFound = errors.New("invoice not found")

// FileRef points at a source document (scan, PDF) in the external document
// store. Only the reference is kept here; file contents live elsewhere.
type FileRef struct {
	ID   uuid.UUID
	URL  string
	Name string
}

// Invoice is a cost record attached to a building. ForAllTenants controls
// apportionment: true means the amount is spread across the whole building,
// false means it is charged directly to the referenced unit.
type Invoice struct {
	ID            uuid.UUID
	BuildingID    uuid.UUID
	UnitID        *uuid.UUID // set for direct costs
	CostType      category.Type
	Purpose       string
	ForAllTenants bool
	TotalAmount   int64 // cents
	PeriodStart   *time.Time
	PeriodEnd     *time.Time
	Files         []FileRef
	CreatedAt     time.Time
	UpdatedAt     *time.Time
	DeletedAt     *time.Time
}

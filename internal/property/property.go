package property

import (
	"time"

	"github.com/google/uuid"
)

// UsageType describes how a unit is used. Only residential and commercial
// units participate in heating-cost statements.
type UsageType string

const (
	UsageResidential UsageType = "residential"
	UsageCommercial  UsageType = "commercial"
	UsageOther       UsageType = "other"
)

// Building represents a managed property ("Objekt") owned by a landlord.
type Building struct {
	ID         uuid.UUID
	LandlordID uuid.UUID
	Name       string
	Street     string
	ZIP        string
	City       string
	CreatedAt  time.Time
	UpdatedAt  *time.Time
	DeletedAt  *time.Time
}

// Unit represents a rentable unit ("Local") inside a building.
type Unit struct {
	ID            uuid.UUID
	BuildingID    uuid.UUID
	Usage         UsageType
	Label         string // floor/location label, e.g. "EG links"
	LivingSpaceM2 float64
	CreatedAt     time.Time
	DeletedAt     *time.Time
}

// HeatingEligible reports whether the unit participates in heating-cost
// statements.
func (u Unit) HeatingEligible() bool {
	return u.Usage == UsageResidential || u.Usage == UsageCommercial
}

// Contractor is a tenant person named on a contract.
type Contractor struct {
	ID         uuid.UUID
	ContractID uuid.UUID
	Name       string
	Email      string
	Phone      string
}

// Contract is a tenancy record linking tenants to a unit for a bounded or
// open-ended interval. RentalEnd is nil for ongoing tenancies. Monetary
// rates are monthly amounts in cents.
type Contract struct {
	ID              uuid.UUID
	UnitID          uuid.UUID
	RentalStart     time.Time
	RentalEnd       *time.Time
	ColdRent        int64
	AdditionalCosts int64
	IsCurrent       bool
	Contractors     []Contractor
	CreatedAt       time.Time
	DeletedAt       *time.Time
}

package property

import (
	"time"

	"github.com/google/uuid"

	"github.com/jmeindl/umlage/internal/property"
)

type buildingResponse struct {
	ID         uuid.UUID  `json:"id"`
	LandlordID uuid.UUID  `json:"landlord_id"`
	Name       string     `json:"name"`
	Street     string     `json:"street"`
	ZIP        string     `json:"zip"`
	City       string     `json:"city"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  *time.Time `json:"updated_at,omitempty"`
}

func toBuildingResponse(b *property.Building) buildingResponse {
	return buildingResponse{
		ID:         b.ID,
		LandlordID: b.LandlordID,
		Name:       b.Name,
		Street:     b.Street,
		ZIP:        b.ZIP,
		City:       b.City,
		CreatedAt:  b.CreatedAt,
		UpdatedAt:  b.UpdatedAt,
	}
}

type unitResponse struct {
	ID            uuid.UUID          `json:"id"`
	BuildingID    uuid.UUID          `json:"building_id"`
	Usage         property.UsageType `json:"usage"`
	Label         string             `json:"label"`
	LivingSpaceM2 float64            `json:"living_space_m2"`
	CreatedAt     time.Time          `json:"created_at"`
}

func toUnitResponse(u *property.Unit) unitResponse {
	return unitResponse{
		ID:            u.ID,
		BuildingID:    u.BuildingID,
		Usage:         u.Usage,
		Label:         u.Label,
		LivingSpaceM2: u.LivingSpaceM2,
		CreatedAt:     u.CreatedAt,
	}
}

type contractorResponse struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email,omitempty"`
	Phone string    `json:"phone,omitempty"`
}

type contractResponse struct {
	ID              uuid.UUID            `json:"id"`
	UnitID          uuid.UUID            `json:"unit_id"`
	RentalStart     time.Time            `json:"rental_start"`
	RentalEnd       *time.Time           `json:"rental_end,omitempty"`
	ColdRent        int64                `json:"cold_rent"`
	AdditionalCosts int64                `json:"additional_costs"`
	IsCurrent       bool                 `json:"is_current"`
	Contractors     []contractorResponse `json:"contractors"`
	CreatedAt       time.Time            `json:"created_at"`
}

func toContractResponse(c *property.Contract) contractResponse {
	contractors := make([]contractorResponse, len(c.Contractors))
	for i, p := range c.Contractors {
		contractors[i] = contractorResponse{ID: p.ID, Name: p.Name, Email: p.Email, Phone: p.Phone}
	}

	return contractResponse{
		ID:              c.ID,
		UnitID:          c.UnitID,
		RentalStart:     c.RentalStart,
		RentalEnd:       c.RentalEnd,
		ColdRent:        c.ColdRent,
		AdditionalCosts: c.AdditionalCosts,
		IsCurrent:       c.IsCurrent,
		Contractors:     contractors,
		CreatedAt:       c.CreatedAt,
	}
}

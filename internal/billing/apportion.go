package billing

import (
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/jmeindl/umlage/internal/category"
)

// Apportionment partitions a draft's invoice total into the amount spread
// across all units and the amount charged directly to single units.
type Apportionment struct {
	SpreadTotal int64
	DirectTotal int64
	Total       int64
}

// Apportion computes the building-level cost partition for the session.
// Total is always SpreadTotal + DirectTotal.
func Apportion(s *Session) Apportionment {
	var a Apportionment

	for _, g := range s.groups {
		for _, inv := range g.Invoices {
			if inv.ForAllTenants {
				a.SpreadTotal += inv.TotalAmount
			} else {
				a.DirectTotal += inv.TotalAmount
			}
		}
	}

	a.Total = a.SpreadTotal + a.DirectTotal

	return a
}

// UnitShare carries the allocation inputs of one unit: its living space
// and, where metered, its consumption reading for the statement period.
type UnitShare struct {
	UnitID        uuid.UUID
	LivingSpaceM2 float64
	Consumption   float64
}

// Allocation is one unit's share of a spread amount, in cents.
type Allocation struct {
	UnitID uuid.UUID
	Amount int64
}

// AllocateSpread splits a spread total across units proportionally to the
// chosen allocation key. The shares always sum exactly to total: rounding
// drift is settled against the largest share. A zero weight sum (e.g. no
// readings recorded yet) yields all-zero shares rather than an error,
// since partially entered data is a normal mid-editing state.
func AllocateSpread(total int64, units []UnitShare, key category.AllocationKey) ([]Allocation, error) {
	if len(units) == 0 {
		return nil, nil
	}

	weights := make([]float64, len(units))

	var weightSum float64

	for i, u := range units {
		var w float64

		switch key {
		case category.AllocateByConsumption:
			w = u.Consumption
		case category.AllocateByLivingSpace:
			w = u.LivingSpaceM2
		case category.AllocateByUnitCount:
			w = 1
		default:
			return nil, fmt.Errorf("%w: %s", ErrInvalidKey, key)
		}

		if w < 0 {
			w = 0
		}

		weights[i] = w
		weightSum += w
	}

	allocations := make([]Allocation, len(units))
	for i, u := range units {
		allocations[i] = Allocation{UnitID: u.UnitID}
	}

	if weightSum == 0 {
		return allocations, nil
	}

	var allocated int64

	largest := 0

	for i := range units {
		amount := int64(math.Round(float64(total) * weights[i] / weightSum))
		allocations[i].Amount = amount
		allocated += amount

		if weights[i] > weights[largest] {
			largest = i
		}
	}

	// Settle cent drift from rounding against the largest share.
	if diff := total - allocated; diff != 0 {
		allocations[largest].Amount += diff
	}

	return allocations, nil
}

package billing_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jmeindl/umlage/internal/billing"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func datePtr(y, m, d int) *time.Time {
	t := date(y, m, d)
	return &t
}

func TestOverlapMonths(t *testing.T) {
	stmt := billing.Period{Start: date(2024, 1, 1), End: date(2024, 6, 30)}

	tests := []struct {
		name        string
		rentalStart time.Time
		rentalEnd   *time.Time
		stmt        billing.Period
		want        int
	}{
		{
			name:        "ContractFullyBeforePeriod",
			rentalStart: date(2022, 1, 1),
			rentalEnd:   datePtr(2023, 12, 31),
			stmt:        stmt,
			want:        0,
		},
		{
			name:        "ContractFullyAfterPeriod",
			rentalStart: date(2024, 7, 1),
			rentalEnd:   nil,
			stmt:        stmt,
			want:        0,
		},
		{
			name:        "ContractContainsPeriod",
			rentalStart: date(2023, 1, 1),
			rentalEnd:   datePtr(2025, 12, 31),
			stmt:        stmt,
			want:        6,
		},
		{
			name:        "OpenEndedContract",
			rentalStart: date(2024, 4, 1),
			rentalEnd:   nil,
			stmt:        stmt,
			want:        3,
		},
		{
			name:        "ContractStartsOnPeriodEnd",
			rentalStart: date(2024, 6, 30),
			rentalEnd:   nil,
			stmt:        stmt,
			want:        1,
		},
		{
			name:        "ContractEndsOnPeriodStart",
			rentalStart: date(2023, 5, 1),
			rentalEnd:   datePtr(2024, 1, 1),
			stmt:        stmt,
			want:        1,
		},
		{
			name:        "ExactlyOneCalendarMonth",
			rentalStart: date(2024, 3, 1),
			rentalEnd:   datePtr(2024, 3, 31),
			stmt:        stmt,
			want:        1,
		},
		{
			name:        "ExactPeriodSpan",
			rentalStart: date(2024, 1, 1),
			rentalEnd:   datePtr(2024, 3, 31),
			stmt:        billing.Period{Start: date(2024, 1, 1), End: date(2024, 3, 31)},
			want:        3,
		},
		{
			name:        "PeriodShorterThanOneMonth",
			rentalStart: date(2023, 1, 1),
			rentalEnd:   nil,
			stmt:        billing.Period{Start: date(2024, 1, 10), End: date(2024, 1, 20)},
			want:        1,
		},
		{
			name:        "YearBoundary",
			rentalStart: date(2023, 11, 1),
			rentalEnd:   datePtr(2024, 2, 29),
			stmt:        billing.Period{Start: date(2023, 12, 1), End: date(2024, 11, 30)},
			want:        3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := billing.OverlapMonths(tt.rentalStart, tt.rentalEnd, tt.stmt)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOverlap_NoIntersection(t *testing.T) {
	stmt := billing.Period{Start: date(2024, 1, 1), End: date(2024, 6, 30)}

	_, ok := billing.Overlap(date(2024, 8, 1), nil, stmt)
	assert.False(t, ok)

	_, ok = billing.Overlap(date(2020, 1, 1), datePtr(2023, 6, 30), stmt)
	assert.False(t, ok)
}

func TestProrate(t *testing.T) {
	assert.Equal(t, int64(180000), billing.Prorate(6, 30000))
	assert.Equal(t, int64(0), billing.Prorate(0, 30000))
	assert.Equal(t, int64(0), billing.Prorate(6, 0))
}

func TestPeriod_Format(t *testing.T) {
	p := billing.Period{Start: date(2024, 1, 1), End: date(2024, 12, 31)}
	assert.Equal(t, "01.01.2024", p.FormatStart())
	assert.Equal(t, "31.12.2024", p.FormatEnd())
}

func TestPeriod_Valid(t *testing.T) {
	assert.False(t, billing.Period{}.Valid())
	assert.False(t, billing.Period{Start: date(2024, 1, 1)}.Valid())
	assert.False(t, billing.Period{Start: date(2024, 6, 1), End: date(2024, 1, 1)}.Valid())
	assert.True(t, billing.Period{Start: date(2024, 1, 1), End: date(2024, 6, 30)}.Valid())
}

// Package billing implements the apportionment and reconciliation engine
// behind heating-cost and operating-cost statements: statement period
// math, the per-draft document-group session, spread/direct cost
// partitioning, per-unit allocation and the prepayment reconciliation.
//
// Everything in this package is pure, synchronous computation over plain
// values. Recomputing totals on unchanged state always yields identical
// results.
package billing

import "time"

// displayDateFormat is the German statement date format. Statements are
// rendered with dd.MM.yyyy dates wherever end users see them.
const displayDateFormat = "02.01.2006"

// Period is a closed date interval, inclusive on both ends.
type Period struct {
	Start time.Time
	End   time.Time
}

// IsZero reports whether either boundary is unset. A draft without a
// complete period is not ready for reconciliation.
func (p Period) IsZero() bool {
	return p.Start.IsZero() || p.End.IsZero()
}

// Valid reports whether the period is set and ordered.
func (p Period) Valid() bool {
	return !p.IsZero() && !p.End.Before(p.Start)
}

// FormatStart renders the start date as dd.MM.yyyy.
func (p Period) FormatStart() string {
	return p.Start.Format(displayDateFormat)
}

// FormatEnd renders the end date as dd.MM.yyyy.
func (p Period) FormatEnd() string {
	return p.End.Format(displayDateFormat)
}

// Overlap clamps a contract's occupancy interval to the statement period.
// An open-ended tenancy (rentalEnd == nil) runs through the statement end.
// The second return is false when the intervals do not intersect, which is
// the normal no-participation case, not an error.
func Overlap(rentalStart time.Time, rentalEnd *time.Time, stmt Period) (Period, bool) {
	start := rentalStart
	if stmt.Start.After(start) {
		start = stmt.Start
	}

	end := stmt.End
	if rentalEnd != nil && rentalEnd.Before(end) {
		end = *rentalEnd
	}

	if start.After(end) {
		return Period{}, false
	}

	return Period{Start: start, End: end}, true
}

// OverlapMonths counts the whole months of a tenancy that fall inside the
// statement period, inclusive on both ends: a contract active for exactly
// one calendar month counts as 1, and a contract ending on the statement's
// start date still counts as 1. Returns 0 when the intervals do not
// intersect.
func OverlapMonths(rentalStart time.Time, rentalEnd *time.Time, stmt Period) int {
	ov, ok := Overlap(rentalStart, rentalEnd, stmt)
	if !ok {
		return 0
	}

	months := monthsBetween(ov.Start, ov.End) + 1
	if months < 0 {
		return 0
	}

	return months
}

// monthsBetween is the calendar-month difference between two dates,
// ignoring the day of month.
func monthsBetween(a, b time.Time) int {
	return (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
}

// Prorate converts an overlap month count and a monthly rate in cents into
// the contract's contribution for the statement period.
func Prorate(months int, monthlyRate int64) int64 {
	return int64(months) * monthlyRate
}

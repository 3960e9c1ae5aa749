package billing

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jmeindl/umlage/internal/category"
	"github.com/jmeindl/umlage/internal/invoice"
)

var (
	// ErrUnknownCategory is returned for writes against a category the
	// session has no group for. Writes fail loudly so the caller can warn
	// the user instead of masking a data-entry bug.
	ErrUnknownCategory = errors.New("unknown cost category")

	// ErrInvoiceIndex is returned when an invoice index is out of range
	// for its group.
	ErrInvoiceIndex = errors.New("invoice index out of range")

	// ErrInvalidKey is returned for an unknown allocation key.
	ErrInvalidKey = errors.New("invalid allocation key")
)

// Kind selects the statement flavour. It gates which categories
// participate and which contractual prepayment rate applies.
type Kind string

const (
	// KindHeating is the Heizkostenabrechnung: heating-relevant categories
	// only, reconciled against cold-rent prepayments.
	KindHeating Kind = "heating"
	// KindOperating is the Betriebskostenabrechnung: all categories,
	// reconciled against additional-cost prepayments.
	KindOperating Kind = "operating"
)

// Group collects the invoices currently assigned to one cost category for
// the active draft, plus the session's chosen allocation key.
type Group struct {
	Category category.Category
	Key      category.AllocationKey
	Invoices []invoice.Invoice
}

// Total sums the group's invoice amounts in cents.
func (g Group) Total() int64 {
	var total int64

	for _, inv := range g.Invoices {
		total += inv.TotalAmount
	}

	return total
}

// Session is the document-group aggregate of one open billing draft.
// One instance exists per draft; it is owned by a single editing session
// and is not safe for concurrent use.
type Session struct {
	kind       Kind
	buildingID uuid.UUID
	period     Period
	groups     []Group
	index      map[category.Type]int
}

// NewSession creates a session with one empty group per participating
// category: heating drafts carry only heating-relevant categories,
// operating drafts carry the full registry.
func NewSession(kind Kind, buildingID uuid.UUID) *Session {
	cats := category.All()
	if kind == KindHeating {
		cats = category.HeatingRelevant()
	}

	s := &Session{kind: kind, buildingID: buildingID}
	s.SetGroups(cats, nil)

	return s
}

func (s *Session) Kind() Kind           { return s.kind }
func (s *Session) BuildingID() uuid.UUID { return s.buildingID }
func (s *Session) Period() Period       { return s.period }

// SetPeriod sets the statement period the draft is billed over.
func (s *Session) SetPeriod(p Period) {
	s.period = p
}

// Ready reports whether the draft has a complete statement period.
// Reconciliation results are meaningless until it does; callers are
// expected to route the user back to period selection first.
func (s *Session) Ready() bool {
	return s.period.Valid()
}

// SetGroups replaces the session's groups with one group per category.
// Supplied invoices are partitioned into the matching category by cost
// type (edit mode); invoices with a cost type outside the category set are
// dropped. With no invoices the groups start empty (create mode).
func (s *Session) SetGroups(cats []category.Category, invoices []invoice.Invoice) {
	s.groups = make([]Group, len(cats))
	s.index = make(map[category.Type]int, len(cats))

	for i, c := range cats {
		s.groups[i] = Group{Category: c, Key: c.DefaultKey}
		s.index[c.Type] = i
	}

	for _, inv := range invoices {
		if i, ok := s.index[inv.CostType]; ok {
			s.groups[i].Invoices = append(s.groups[i].Invoices, inv)
		}
	}
}

// SeedInvoices re-partitions the given invoices into the session's
// existing category set, replacing all current group contents.
func (s *Session) SeedInvoices(invoices []invoice.Invoice) {
	cats := make([]category.Category, len(s.groups))
	for i, g := range s.groups {
		cats[i] = g.Category
	}

	s.SetGroups(cats, invoices)
}

// Groups returns a snapshot of the session's groups in statement order.
func (s *Session) Groups() []Group {
	out := make([]Group, len(s.groups))

	for i, g := range s.groups {
		out[i] = g
		out[i].Invoices = make([]invoice.Invoice, len(g.Invoices))
		copy(out[i].Invoices, g.Invoices)
	}

	return out
}

// AddInvoice appends an invoice to its category's group.
func (s *Session) AddInvoice(t category.Type, inv invoice.Invoice) error {
	i, ok := s.index[t]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCategory, t)
	}

	inv.CostType = t
	s.groups[i].Invoices = append(s.groups[i].Invoices, inv)

	return nil
}

// InvoicePatch is a partial invoice update. Nil fields are left untouched;
// Files are concatenated onto the existing attachments, never replaced.
type InvoicePatch struct {
	UnitID        *uuid.UUID
	Purpose       *string
	ForAllTenants *bool
	TotalAmount   *int64
	PeriodStart   *time.Time
	PeriodEnd     *time.Time
	Files         []invoice.FileRef
}

// UpdateInvoice merges a patch into invoice idx of a group.
func (s *Session) UpdateInvoice(t category.Type, idx int, patch InvoicePatch) error {
	i, ok := s.index[t]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCategory, t)
	}

	if idx < 0 || idx >= len(s.groups[i].Invoices) {
		return fmt.Errorf("%w: %d in %s", ErrInvoiceIndex, idx, t)
	}

	inv := &s.groups[i].Invoices[idx]

	if patch.UnitID != nil {
		inv.UnitID = patch.UnitID
	}

	if patch.Purpose != nil {
		inv.Purpose = *patch.Purpose
	}

	if patch.ForAllTenants != nil {
		inv.ForAllTenants = *patch.ForAllTenants
	}

	if patch.TotalAmount != nil {
		inv.TotalAmount = *patch.TotalAmount
	}

	if patch.PeriodStart != nil {
		inv.PeriodStart = patch.PeriodStart
	}

	if patch.PeriodEnd != nil {
		inv.PeriodEnd = patch.PeriodEnd
	}

	inv.Files = append(inv.Files, patch.Files...)

	return nil
}

// RemoveInvoice deletes invoice idx from a group.
func (s *Session) RemoveInvoice(t category.Type, idx int) error {
	i, ok := s.index[t]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCategory, t)
	}

	invs := s.groups[i].Invoices
	if idx < 0 || idx >= len(invs) {
		return fmt.Errorf("%w: %d in %s", ErrInvoiceIndex, idx, t)
	}

	s.groups[i].Invoices = append(invs[:idx], invs[idx+1:]...)

	return nil
}

// SetAllocationKey overrides the allocation key of a group for this draft.
func (s *Session) SetAllocationKey(t category.Type, key category.AllocationKey) error {
	i, ok := s.index[t]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCategory, t)
	}

	if !category.ValidKey(key) {
		return fmt.Errorf("%w: %s", ErrInvalidKey, key)
	}

	s.groups[i].Key = key

	return nil
}

// GroupTotal sums one group's invoice amounts. An unknown category is a
// lookup miss and totals 0.
func (s *Session) GroupTotal(t category.Type) int64 {
	i, ok := s.index[t]
	if !ok {
		return 0
	}

	return s.groups[i].Total()
}

// GroupSpreadTotal sums one group's spread invoices only. Direct costs
// are charged to their unit and never enter per-unit allocation.
func (s *Session) GroupSpreadTotal(t category.Type) int64 {
	i, ok := s.index[t]
	if !ok {
		return 0
	}

	var total int64

	for _, inv := range s.groups[i].Invoices {
		if inv.ForAllTenants {
			total += inv.TotalAmount
		}
	}

	return total
}

// Total sums all invoice amounts across all groups.
func (s *Session) Total() int64 {
	var total int64

	for _, g := range s.groups {
		total += g.Total()
	}

	return total
}

package billing

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

var ErrDraftNotFound = errors.New("draft not found")

// DraftStore holds the open billing drafts of the API process, one
// session per draft id. Sessions themselves assume a single editor; the
// store's lock only guards the registry and serializes access so that a
// stray concurrent request cannot corrupt a session mid-mutation.
type DraftStore struct {
	mu     sync.RWMutex
	drafts map[uuid.UUID]*Session
}

func NewDraftStore() *DraftStore {
	return &DraftStore{drafts: make(map[uuid.UUID]*Session)}
}

// Create registers a new draft session and returns its id.
func (d *DraftStore) Create(kind Kind, buildingID uuid.UUID) (uuid.UUID, *Session) {
	id := uuid.New()
	s := NewSession(kind, buildingID)

	d.mu.Lock()
	d.drafts[id] = s
	d.mu.Unlock()

	return id, s
}

// With runs fn against the draft's session while holding the store lock.
// All reads and mutations of a session go through here.
func (d *DraftStore) With(id uuid.UUID, fn func(s *Session) error) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	s, ok := d.drafts[id]
	if !ok {
		return ErrDraftNotFound
	}

	return fn(s)
}

// Delete discards a draft. Deleting an unknown draft is a no-op.
func (d *DraftStore) Delete(id uuid.UUID) {
	d.mu.Lock()
	delete(d.drafts, id)
	d.mu.Unlock()
}

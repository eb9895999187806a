// Package ledger owns the collection of entries and the month view derived
// from it.
package ledger

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"gastos/internal/core"
	"gastos/internal/observe"
)

// Store is the authoritative, in-memory collection of entries.
//
// Every mutation builds a new slice under a single lock and publishes it;
// published slices are never modified, so readers can hold on to them without
// synchronization.
type Store struct {
	items *observe.Value[[]core.Entry]
	newID func() string
}

// Option configures a Store.
type Option func(*Store)

// WithIDGenerator overrides how ids are generated for entries added without one.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) { s.newID = fn }
}

// NewStore creates a store holding a copy of initial.
func NewStore(initial []core.Entry, opts ...Option) *Store {
	s := &Store{newID: uuid.NewString}
	for _, opt := range opts {
		opt(s)
	}
	seed := make([]core.Entry, len(initial))
	for i, e := range initial {
		seed[i] = s.normalize(e)
	}
	s.items = observe.NewValue(seed)
	return s
}

// Add appends e. A blank id is replaced with a freshly generated one;
// caller-supplied ids are kept as they are. The entry is returned as stored.
func (s *Store) Add(e core.Entry) core.Entry {
	e = s.normalize(e)
	s.items.Update(func(cur []core.Entry) ([]core.Entry, bool) {
		next := make([]core.Entry, len(cur), len(cur)+1)
		copy(next, cur)
		return append(next, e), true
	})
	return e
}

// Update replaces the first entry whose id equals e.ID. It reports whether
// a match was found.
func (s *Store) Update(e core.Entry) bool {
	e.Amount = e.Amount.Abs()
	e.Date = core.DateOf(e.Date.Time)
	return s.items.Update(func(cur []core.Entry) ([]core.Entry, bool) {
		idx := indexOf(cur, e.ID)
		if idx < 0 {
			return cur, false
		}
		next := make([]core.Entry, len(cur))
		copy(next, cur)
		next[idx] = e
		return next, true
	})
}

// Delete removes the first entry with the given id. It reports whether an
// entry was removed.
func (s *Store) Delete(id string) bool {
	return s.items.Update(func(cur []core.Entry) ([]core.Entry, bool) {
		idx := indexOf(cur, id)
		if idx < 0 {
			return cur, false
		}
		next := make([]core.Entry, 0, len(cur)-1)
		next = append(next, cur[:idx]...)
		return append(next, cur[idx+1:]...), true
	})
}

// ReplaceAll swaps the whole collection for a copy of entries.
func (s *Store) ReplaceAll(entries []core.Entry) {
	next := make([]core.Entry, len(entries))
	for i, e := range entries {
		next[i] = s.normalize(e)
	}
	s.items.Set(next)
}

// Get returns the first entry with the given id.
func (s *Store) Get(id string) (core.Entry, bool) {
	cur := s.items.Get()
	if idx := indexOf(cur, id); idx >= 0 {
		return cur[idx], true
	}
	return core.Entry{}, false
}

// Snapshot returns a copy of the current entries in insertion order.
func (s *Store) Snapshot() []core.Entry {
	return append([]core.Entry(nil), s.items.Get()...)
}

// Len returns the number of stored entries across all months.
func (s *Store) Len() int {
	return len(s.items.Get())
}

// Subscribe calls fn with the full current collection now and after every
// mutation. fn must treat the slice as read-only.
func (s *Store) Subscribe(fn func([]core.Entry)) (cancel func()) {
	return s.items.Subscribe(fn)
}

// normalize enforces the storage invariants: an id, a UTC calendar date and
// a non-negative amount.
func (s *Store) normalize(e core.Entry) core.Entry {
	if strings.TrimSpace(e.ID) == "" {
		e.ID = s.newID()
	}
	if !e.Date.IsZero() {
		e.Date = core.DateOf(e.Date.Time)
	}
	e.Amount = e.Amount.Abs()
	return e
}

func indexOf(entries []core.Entry, id string) int {
	for i, e := range entries {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// DefaultSeed returns the demo entries, all dated on now's UTC day.
func DefaultSeed(now time.Time) []core.Entry {
	today := core.DateOf(now)
	return []core.Entry{
		{Date: today, CategoryKey: "salary", Title: "Salário", Amount: core.MustAmount("5500.00")},
		{Date: today, CategoryKey: "rent", Title: "Aluguel", Amount: core.MustAmount("2200.00")},
		{Date: today, CategoryKey: "food", Title: "Alimentação", Amount: core.MustAmount("350.40")},
		{Date: today, CategoryKey: "transport", Title: "Transporte", Amount: core.MustAmount("120.00")},
	}
}

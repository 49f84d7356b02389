// Package cart implements the client-side shopping cart: an ordered
// collection of product lines behind a synchronous mutation API, mirrored to
// durable storage on every change and observable through change events.
package cart

import (
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/xenking/outdoor-shop/internal/domain/product"
	"github.com/xenking/outdoor-shop/internal/pricing"
)

// Line holds one distinct product and its quantity. A cart never contains
// two lines for the same product ID.
type Line struct {
	Product  product.Product `json:"product"`
	Quantity int             `json:"quantity"`
}

// EventKind identifies what kind of mutation a cart event describes.
type EventKind int

const (
	// EventItemAdded fires when AddItem creates or increments a line.
	// Subscribers typically open the cart UI in response.
	EventItemAdded EventKind = iota
	// EventItemRemoved fires when RemoveItem deletes a line.
	EventItemRemoved
	// EventQuantityChanged fires when SetQuantity updates a line in place.
	EventQuantityChanged
	// EventCleared fires when Clear empties the cart.
	EventCleared
)

// Event describes a single completed cart mutation.
type Event struct {
	Kind      EventKind
	ProductID string
}

// Store owns the mutable cart state. All mutations are synchronous: the
// state change, the durable save, and the observer notifications complete
// before the mutating call returns. The mutex keeps that single-writer
// contract intact even if callers share the store across goroutines.
type Store struct {
	storage Storage
	lg      *zap.Logger

	mu    sync.Mutex
	lines []Line
	subs  []func(Event)
}

// NewStore creates a Store restored from storage. A missing or unparsable
// prior state yields an empty cart; the parse failure is logged, not
// surfaced.
func NewStore(storage Storage, lg *zap.Logger) *Store {
	s := &Store{
		storage: storage,
		lg:      lg,
	}

	lines, err := storage.Load()
	if err != nil {
		lg.Warn("Restoring cart failed, starting empty", zap.Error(err))
		return s
	}
	for _, l := range lines {
		if l.Quantity < 1 {
			// Stored state predates the quantity invariant; drop the line.
			continue
		}
		s.lines = append(s.lines, l)
	}
	return s
}

// Subscribe registers fn to receive an event after every completed mutation.
// Callbacks run on the mutating goroutine, outside the store lock.
func (s *Store) Subscribe(fn func(Event)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// AddItem puts one unit of p in the cart: an existing line is incremented,
// otherwise a new line with quantity 1 is appended.
func (s *Store) AddItem(p product.Product) {
	s.mu.Lock()
	if i := s.find(p.ID); i >= 0 {
		s.lines[i].Quantity++
	} else {
		s.lines = append(s.lines, Line{Product: p, Quantity: 1})
	}
	s.persistLocked()
	subs := s.subs
	s.mu.Unlock()

	notify(subs, Event{Kind: EventItemAdded, ProductID: p.ID})
}

// RemoveItem deletes the line for productID. Removing an absent product is
// a no-op.
func (s *Store) RemoveItem(productID string) {
	s.mu.Lock()
	i := s.find(productID)
	if i < 0 {
		s.mu.Unlock()
		return
	}
	s.lines = append(s.lines[:i], s.lines[i+1:]...)
	s.persistLocked()
	subs := s.subs
	s.mu.Unlock()

	notify(subs, Event{Kind: EventItemRemoved, ProductID: productID})
}

// SetQuantity updates the quantity of an existing line in place. A quantity
// below 1 is silently ignored, leaving the cart untouched; so is an absent
// product ID.
func (s *Store) SetQuantity(productID string, quantity int) {
	if quantity < 1 {
		return
	}

	s.mu.Lock()
	i := s.find(productID)
	if i < 0 {
		s.mu.Unlock()
		return
	}
	s.lines[i].Quantity = quantity
	s.persistLocked()
	subs := s.subs
	s.mu.Unlock()

	notify(subs, Event{Kind: EventQuantityChanged, ProductID: productID})
}

// Clear empties the cart entirely. Used after a confirmed order submission.
func (s *Store) Clear() {
	s.mu.Lock()
	s.lines = nil
	s.persistLocked()
	subs := s.subs
	s.mu.Unlock()

	notify(subs, Event{Kind: EventCleared})
}

// Lines returns a snapshot copy of the cart in insertion order. Mutating the
// returned slice does not affect the store.
func (s *Store) Lines() []Line {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Line, len(s.lines))
	copy(out, s.lines)
	return out
}

// TotalItemCount returns the sum of all line quantities.
func (s *Store) TotalItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, l := range s.lines {
		count += l.Quantity
	}
	return count
}

// TotalPrice returns the running item subtotal, excluding shipping.
func (s *Store) TotalPrice() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := decimal.Zero
	for _, l := range s.lines {
		total = total.Add(pricing.LineTotal(l.Product.Price, l.Quantity))
	}
	return total
}

// find returns the index of the line for productID, or -1. Caller holds mu.
func (s *Store) find(productID string) int {
	for i, l := range s.lines {
		if l.Product.ID == productID {
			return i
		}
	}
	return -1
}

// persistLocked saves the full cart snapshot. Persistence is best effort:
// a failed save is logged and the in-memory mutation stands. Caller holds mu.
func (s *Store) persistLocked() {
	snapshot := make([]Line, len(s.lines))
	copy(snapshot, s.lines)
	if err := s.storage.Save(snapshot); err != nil {
		s.lg.Warn("Persisting cart failed", zap.Error(err), zap.Int("lines", len(snapshot)))
	}
}

func notify(subs []func(Event), ev Event) {
	for _, fn := range subs {
		fn(ev)
	}
}

package cart

import (
	"sync"

	"swizzle-client/internal/models"

	"github.com/shopspring/decimal"
)

// Store holds the authoritative-for-display list of cart lines. It is a
// plain in-memory state container: mutations notify subscribed listeners,
// derived aggregates are recomputed on every read, and nothing here talks
// to the network.
type Store struct {
	mu        sync.Mutex
	lines     []models.LineItem
	listeners map[int]func()
	nextID    int
}

// NewStore creates an empty cart store.
func NewStore() *Store {
	return &Store{listeners: make(map[int]func())}
}

// Subscribe registers a listener invoked after every mutation. The
// returned function unsubscribes it.
func (s *Store) Subscribe(fn func()) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// notify runs listeners outside the lock so they can read the store.
func (s *Store) notify() {
	s.mu.Lock()
	fns := make([]func(), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// AddLine adds a product-plus-addons line. When a line with the same
// identity key already exists the quantities merge into it; otherwise the
// line is appended. Returns the resulting line.
func (s *Store) AddLine(productID, productName string, unitBasePrice decimal.Decimal, quantity int, addons []models.SelectedAddon) models.LineItem {
	if quantity < 1 {
		quantity = 1
	}

	line := models.LineItem{
		ProductID:      productID,
		ProductName:    productName,
		UnitBasePrice:  unitBasePrice,
		Quantity:       quantity,
		SelectedAddons: append([]models.SelectedAddon(nil), addons...),
	}
	key := line.IdentityKey()

	s.mu.Lock()
	var result models.LineItem
	merged := false
	for i := range s.lines {
		if s.lines[i].IdentityKey() == key {
			s.lines[i].Quantity += quantity
			s.lines[i].RecomputeTotal()
			result = s.lines[i]
			merged = true
			break
		}
	}
	if !merged {
		line.RecomputeTotal()
		s.lines = append(s.lines, line)
		result = line
	}
	s.mu.Unlock()

	s.notify()
	return result
}

// SetQuantity updates a line's quantity in place, preserving the order of
// the other lines. A quantity of zero or less removes the line. Returns
// the resulting line (zero-valued after a removal) and whether the key
// matched anything.
func (s *Store) SetQuantity(key string, quantity int) (models.LineItem, bool) {
	if quantity <= 0 {
		return models.LineItem{}, s.RemoveLine(key)
	}

	s.mu.Lock()
	var result models.LineItem
	found := false
	for i := range s.lines {
		if s.lines[i].IdentityKey() == key {
			s.lines[i].Quantity = quantity
			s.lines[i].RecomputeTotal()
			result = s.lines[i]
			found = true
			break
		}
	}
	s.mu.Unlock()

	if found {
		s.notify()
	}
	return result, found
}

// RemoveLine deletes the line with the given identity key. Removing an
// absent line is a no-op, not an error; it reports whether a line went.
func (s *Store) RemoveLine(key string) bool {
	s.mu.Lock()
	found := false
	for i := range s.lines {
		if s.lines[i].IdentityKey() == key {
			s.lines = append(s.lines[:i], s.lines[i+1:]...)
			found = true
			break
		}
	}
	s.mu.Unlock()

	if found {
		s.notify()
	}
	return found
}

// Clear empties the cart. Used after checkout completion or session reset.
func (s *Store) Clear() {
	s.mu.Lock()
	s.lines = nil
	s.mu.Unlock()
	s.notify()
}

// Replace swaps the whole line list for the server's authoritative one.
// Totals are recomputed locally anyway; server line ids and ordering are
// taken verbatim.
func (s *Store) Replace(items []models.LineItem) {
	lines := make([]models.LineItem, len(items))
	copy(lines, items)
	for i := range lines {
		lines[i].RecomputeTotal()
	}

	s.mu.Lock()
	s.lines = lines
	s.mu.Unlock()
	s.notify()
}

// Lines returns a copy of the current cart lines in display order.
func (s *Store) Lines() []models.LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.LineItem, len(s.lines))
	copy(out, s.lines)
	return out
}

// Line looks a line up by identity key.
func (s *Store) Line(key string) (models.LineItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.lines {
		if s.lines[i].IdentityKey() == key {
			return s.lines[i], true
		}
	}
	return models.LineItem{}, false
}

// Total is the sum of line totals, recomputed on every read so it can
// never go stale.
func (s *Store) Total() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := decimal.Zero
	for i := range s.lines {
		total = total.Add(s.lines[i].LineTotal)
	}
	return total
}

// Count is the sum of line quantities, recomputed on every read.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for i := range s.lines {
		count += s.lines[i].Quantity
	}
	return count
}

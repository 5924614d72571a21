// Package feed maintains the live order board fed by server push events.
// The board is a display-state container: events mutate it idempotently,
// readers get copies, and anything the board does not recognize is
// dropped rather than guessed at.
package feed

import (
	"sync"
	"time"

	"swizzle-client/internal/models"
)

// Urgency buckets for the kitchen display, derived from how long an order
// has been waiting.
type Urgency string

const (
	UrgencyNormal   Urgency = "normal"
	UrgencyWarning  Urgency = "warning"
	UrgencyCritical Urgency = "critical"
)

const (
	warningAge  = 8 * time.Minute
	criticalAge = 15 * time.Minute
)

// ElapsedMinutes is how long an order has been waiting, in whole minutes.
func ElapsedMinutes(o *models.Order, now time.Time) int {
	return int(now.Sub(o.CreatedAt) / time.Minute)
}

// OrderUrgency classifies an order's waiting time for the kitchen view.
func OrderUrgency(o *models.Order, now time.Time) Urgency {
	age := now.Sub(o.CreatedAt)
	switch {
	case age >= criticalAge:
		return UrgencyCritical
	case age >= warningAge:
		return UrgencyWarning
	default:
		return UrgencyNormal
	}
}

// kitchenStatuses are the order states the kitchen display shows.
var kitchenStatuses = map[models.OrderStatus]bool{
	models.StatusPaid:      true,
	models.StatusConfirmed: true,
	models.StatusPreparing: true,
	models.StatusReady:     true,
}

// Board holds the live order list, newest first.
type Board struct {
	mu        sync.Mutex
	orders    []models.Order
	listeners map[int]func()
	nextID    int
}

// NewBoard creates an empty board.
func NewBoard() *Board {
	return &Board{listeners: make(map[int]func())}
}

// Subscribe registers a listener invoked after every board change. The
// returned function unsubscribes it.
func (b *Board) Subscribe(fn func()) func() {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.listeners[id] = fn
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		delete(b.listeners, id)
		b.mu.Unlock()
	}
}

func (b *Board) notify() {
	b.mu.Lock()
	fns := make([]func(), 0, len(b.listeners))
	for _, fn := range b.listeners {
		fns = append(fns, fn)
	}
	b.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// Seed replaces the board with a fetched order list, typically the result
// of the initial REST load before the push channel catches up.
func (b *Board) Seed(orders []models.Order) {
	list := make([]models.Order, len(orders))
	copy(list, orders)

	b.mu.Lock()
	b.orders = list
	b.mu.Unlock()
	b.notify()
}

// ApplyNew prepends an order to the board. A redelivered event for an
// order already present replaces that entry in place instead of creating
// a duplicate, so the handler can be replayed safely.
func (b *Board) ApplyNew(order models.Order) {
	b.mu.Lock()
	replaced := false
	for i := range b.orders {
		if b.orders[i].ID == order.ID {
			b.orders[i] = order
			replaced = true
			break
		}
	}
	if !replaced {
		b.orders = append([]models.Order{order}, b.orders...)
	}
	b.mu.Unlock()
	b.notify()
}

// ApplyUpdated shallow-merges a patch into the matching order. A patch
// for an order the board does not hold is dropped; the position of the
// updated order is preserved. Reports whether anything matched.
func (b *Board) ApplyUpdated(patch models.OrderPatch) bool {
	b.mu.Lock()
	found := false
	for i := range b.orders {
		if b.orders[i].ID == patch.ID {
			patch.Apply(&b.orders[i])
			found = true
			break
		}
	}
	b.mu.Unlock()

	if found {
		b.notify()
	}
	return found
}

// Orders returns a copy of the board, newest first.
func (b *Board) Orders() []models.Order {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]models.Order, len(b.orders))
	copy(out, b.orders)
	return out
}

// OrdersByStatus returns the orders in a given status, board order kept.
func (b *Board) OrdersByStatus(status models.OrderStatus) []models.Order {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []models.Order
	for i := range b.orders {
		if b.orders[i].Status == status {
			out = append(out, b.orders[i])
		}
	}
	return out
}

// KitchenOrders returns the orders the kitchen display cares about, oldest
// first so the longest-waiting order tops the queue.
func (b *Board) KitchenOrders() []models.Order {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []models.Order
	for i := len(b.orders) - 1; i >= 0; i-- {
		if kitchenStatuses[b.orders[i].Status] {
			out = append(out, b.orders[i])
		}
	}
	return out
}

// Order looks up one order by id.
func (b *Board) Order(id string) (models.Order, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.orders {
		if b.orders[i].ID == id {
			return b.orders[i], true
		}
	}
	return models.Order{}, false
}

// Len is the number of orders on the board.
func (b *Board) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.orders)
}

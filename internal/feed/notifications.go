package feed

import (
	"sync"
	"time"
)

// maxNotifications bounds the ring so a long-running shift cannot grow it
// without limit.
const maxNotifications = 20

// Notification is one entry in the staff notification tray.
type Notification struct {
	ID          string    `json:"id"`
	OrderID     string    `json:"orderId"`
	OrderNumber string    `json:"orderNumber"`
	Message     string    `json:"message"`
	CreatedAt   time.Time `json:"createdAt"`
	Read        bool      `json:"read"`
}

// NotificationCenter keeps the most recent notifications, newest first,
// capped at maxNotifications.
type NotificationCenter struct {
	mu      sync.Mutex
	entries []Notification
}

// NewNotificationCenter creates an empty notification center.
func NewNotificationCenter() *NotificationCenter {
	return &NotificationCenter{}
}

// Push prepends a notification, evicting the oldest once the cap is hit.
func (nc *NotificationCenter) Push(n Notification) {
	nc.mu.Lock()
	defer nc.mu.Unlock()

	nc.entries = append([]Notification{n}, nc.entries...)
	if len(nc.entries) > maxNotifications {
		nc.entries = nc.entries[:maxNotifications]
	}
}

// All returns a copy of the current notifications, newest first.
func (nc *NotificationCenter) All() []Notification {
	nc.mu.Lock()
	defer nc.mu.Unlock()
	out := make([]Notification, len(nc.entries))
	copy(out, nc.entries)
	return out
}

// UnreadCount is the number of unread notifications.
func (nc *NotificationCenter) UnreadCount() int {
	nc.mu.Lock()
	defer nc.mu.Unlock()
	count := 0
	for i := range nc.entries {
		if !nc.entries[i].Read {
			count++
		}
	}
	return count
}

// MarkAllRead flags every notification as read.
func (nc *NotificationCenter) MarkAllRead() {
	nc.mu.Lock()
	defer nc.mu.Unlock()
	for i := range nc.entries {
		nc.entries[i].Read = true
	}
}

// Clear empties the tray.
func (nc *NotificationCenter) Clear() {
	nc.mu.Lock()
	defer nc.mu.Unlock()
	nc.entries = nil
}

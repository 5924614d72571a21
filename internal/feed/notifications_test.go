package feed

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationRingEvictsOldest(t *testing.T) {
	nc := NewNotificationCenter()

	for i := 0; i < maxNotifications+5; i++ {
		nc.Push(Notification{ID: strconv.Itoa(i)})
	}

	entries := nc.All()
	require.Len(t, entries, maxNotifications)
	// Newest first; the first five pushed are gone.
	assert.Equal(t, strconv.Itoa(maxNotifications+4), entries[0].ID)
	assert.Equal(t, "5", entries[len(entries)-1].ID)
}

func TestMarkAllRead(t *testing.T) {
	nc := NewNotificationCenter()
	nc.Push(Notification{ID: "a"})
	nc.Push(Notification{ID: "b"})

	require.Equal(t, 2, nc.UnreadCount())

	nc.MarkAllRead()
	assert.Zero(t, nc.UnreadCount())
	assert.Len(t, nc.All(), 2)
}

func TestClearEmptiesTray(t *testing.T) {
	nc := NewNotificationCenter()
	nc.Push(Notification{ID: "a"})

	nc.Clear()
	assert.Empty(t, nc.All())
	assert.Zero(t, nc.UnreadCount())
}

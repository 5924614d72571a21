package feed

import (
	"testing"

	"swizzle-client/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcherRoutesOrderNew(t *testing.T) {
	board := NewBoard()
	tray := NewNotificationCenter()
	d := NewDispatcher(board, tray)

	raw := []byte(`{
		"event": "order:new",
		"order": {"_id": "o1", "orderNumber": "1042", "status": "PAID", "items": []}
	}`)

	require.NoError(t, d.HandleRaw(raw))

	order, ok := board.Order("o1")
	require.True(t, ok)
	assert.Equal(t, models.StatusPaid, order.Status)

	notifications := tray.All()
	require.Len(t, notifications, 1)
	assert.Equal(t, "o1", notifications[0].OrderID)
	assert.Equal(t, 1, tray.UnreadCount())
}

func TestDispatcherRoutesOrderUpdated(t *testing.T) {
	board := NewBoard()
	d := NewDispatcher(board, nil)

	board.ApplyNew(models.Order{ID: "o1", Status: models.StatusPaid})

	raw := []byte(`{
		"event": "order:updated",
		"order": {"_id": "o1", "status": "PREPARING"}
	}`)

	require.NoError(t, d.HandleRaw(raw))

	order, ok := board.Order("o1")
	require.True(t, ok)
	assert.Equal(t, models.StatusPreparing, order.Status)
}

func TestDispatcherIgnoresUpdateForUnknownOrder(t *testing.T) {
	board := NewBoard()
	d := NewDispatcher(board, nil)

	raw := []byte(`{
		"event": "order:updated",
		"order": {"_id": "ghost", "status": "READY"}
	}`)

	require.NoError(t, d.HandleRaw(raw))
	assert.Zero(t, board.Len())
}

func TestDispatcherIgnoresUnknownEvent(t *testing.T) {
	board := NewBoard()
	d := NewDispatcher(board, nil)

	raw := []byte(`{"event": "order:archived", "order": {"_id": "o1"}}`)

	require.NoError(t, d.HandleRaw(raw))
	assert.Zero(t, board.Len())
}

func TestDispatcherRejectsMalformedPayloads(t *testing.T) {
	board := NewBoard()
	d := NewDispatcher(board, nil)

	assert.Error(t, d.HandleRaw([]byte(`not json`)))
	assert.Error(t, d.HandleRaw([]byte(`{"event": "order:new", "order": {}}`)))
	assert.Zero(t, board.Len())
}

func TestDispatcherRedeliveryIsIdempotent(t *testing.T) {
	board := NewBoard()
	d := NewDispatcher(board, nil)

	raw := []byte(`{
		"event": "order:new",
		"order": {"_id": "o1", "orderNumber": "1042", "status": "PAID", "items": []}
	}`)

	require.NoError(t, d.HandleRaw(raw))
	require.NoError(t, d.HandleRaw(raw))

	assert.Equal(t, 1, board.Len())
}

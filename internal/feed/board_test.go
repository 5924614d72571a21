package feed

import (
	"testing"
	"time"

	"swizzle-client/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyNewPrepends(t *testing.T) {
	b := NewBoard()

	b.ApplyNew(models.Order{ID: "o1", OrderNumber: "1001"})
	b.ApplyNew(models.Order{ID: "o2", OrderNumber: "1002"})

	orders := b.Orders()
	require.Len(t, orders, 2)
	assert.Equal(t, "o2", orders[0].ID)
	assert.Equal(t, "o1", orders[1].ID)
}

func TestApplyNewRedeliveryReplacesInPlace(t *testing.T) {
	b := NewBoard()

	b.ApplyNew(models.Order{ID: "o1", Status: models.StatusInitiated})
	b.ApplyNew(models.Order{ID: "o2", Status: models.StatusInitiated})
	b.ApplyNew(models.Order{ID: "o1", Status: models.StatusPaid})

	orders := b.Orders()
	require.Len(t, orders, 2)
	assert.Equal(t, "o2", orders[0].ID)
	assert.Equal(t, models.StatusPaid, orders[1].Status)
}

func TestApplyUpdatedMergesAndIsIdempotent(t *testing.T) {
	b := NewBoard()
	b.ApplyNew(models.Order{
		ID:           "o1",
		CustomerName: "Asha",
		Status:       models.StatusConfirmed,
		Total:        decimal.NewFromInt(300),
	})

	status := models.StatusPreparing
	patch := models.OrderPatch{ID: "o1", Status: &status}

	require.True(t, b.ApplyUpdated(patch))
	require.True(t, b.ApplyUpdated(patch))

	order, ok := b.Order("o1")
	require.True(t, ok)
	assert.Equal(t, models.StatusPreparing, order.Status)
	assert.Equal(t, "Asha", order.CustomerName)
	assert.True(t, decimal.NewFromInt(300).Equal(order.Total))
}

func TestApplyUpdatedUnknownOrderIgnored(t *testing.T) {
	b := NewBoard()
	b.ApplyNew(models.Order{ID: "o1"})

	status := models.StatusReady
	assert.False(t, b.ApplyUpdated(models.OrderPatch{ID: "ghost", Status: &status}))
	assert.Equal(t, 1, b.Len())
}

func TestKitchenOrdersOldestFirstAndFiltered(t *testing.T) {
	b := NewBoard()
	b.ApplyNew(models.Order{ID: "o1", Status: models.StatusPreparing})
	b.ApplyNew(models.Order{ID: "o2", Status: models.StatusDelivered})
	b.ApplyNew(models.Order{ID: "o3", Status: models.StatusConfirmed})

	kitchen := b.KitchenOrders()
	require.Len(t, kitchen, 2)
	assert.Equal(t, "o1", kitchen[0].ID)
	assert.Equal(t, "o3", kitchen[1].ID)
}

func TestOrdersByStatus(t *testing.T) {
	b := NewBoard()
	b.ApplyNew(models.Order{ID: "o1", Status: models.StatusReady})
	b.ApplyNew(models.Order{ID: "o2", Status: models.StatusPaid})
	b.ApplyNew(models.Order{ID: "o3", Status: models.StatusReady})

	ready := b.OrdersByStatus(models.StatusReady)
	require.Len(t, ready, 2)
	assert.Equal(t, "o3", ready[0].ID)
	assert.Equal(t, "o1", ready[1].ID)
}

func TestOrderUrgencyBuckets(t *testing.T) {
	now := time.Now()

	fresh := models.Order{CreatedAt: now.Add(-2 * time.Minute)}
	waiting := models.Order{CreatedAt: now.Add(-10 * time.Minute)}
	stuck := models.Order{CreatedAt: now.Add(-20 * time.Minute)}

	assert.Equal(t, UrgencyNormal, OrderUrgency(&fresh, now))
	assert.Equal(t, UrgencyWarning, OrderUrgency(&waiting, now))
	assert.Equal(t, UrgencyCritical, OrderUrgency(&stuck, now))

	assert.Equal(t, 10, ElapsedMinutes(&waiting, now))
}

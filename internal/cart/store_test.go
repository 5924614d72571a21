package cart

import (
	"testing"

	"swizzle-client/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddLineMergesOnSameIdentity(t *testing.T) {
	s := NewStore()

	s.AddLine("prod-a", "Burger", decimal.NewFromInt(100), 2, nil)
	line := s.AddLine("prod-a", "Burger", decimal.NewFromInt(100), 1, nil)

	require.Len(t, s.Lines(), 1)
	assert.Equal(t, 3, line.Quantity)
	assert.True(t, decimal.NewFromInt(300).Equal(line.LineTotal))
	assert.True(t, decimal.NewFromInt(300).Equal(s.Total()))
}

func TestAddLineDifferentAddonsStaySeparate(t *testing.T) {
	s := NewStore()

	s.AddLine("prod-a", "Burger", decimal.NewFromInt(100), 1, nil)
	s.AddLine("prod-a", "Burger", decimal.NewFromInt(100), 1, []models.SelectedAddon{
		{AddonID: "cheese", AddonName: "Cheese", UnitPrice: decimal.NewFromInt(20)},
	})

	lines := s.Lines()
	require.Len(t, lines, 2)
	assert.True(t, decimal.NewFromInt(100).Equal(lines[0].LineTotal))
	assert.True(t, decimal.NewFromInt(120).Equal(lines[1].LineTotal))
}

func TestSetQuantityPreservesPosition(t *testing.T) {
	s := NewStore()

	s.AddLine("prod-a", "Burger", decimal.NewFromInt(100), 1, nil)
	b := s.AddLine("prod-b", "Fries", decimal.NewFromInt(40), 1, nil)
	s.AddLine("prod-c", "Cola", decimal.NewFromInt(25), 1, nil)

	updated, found := s.SetQuantity(b.IdentityKey(), 4)
	require.True(t, found)
	assert.Equal(t, 4, updated.Quantity)

	lines := s.Lines()
	require.Len(t, lines, 3)
	assert.Equal(t, "prod-b", lines[1].ProductID)
	assert.Equal(t, 4, lines[1].Quantity)
}

func TestSetQuantityZeroRemoves(t *testing.T) {
	s := NewStore()

	line := s.AddLine("prod-a", "Burger", decimal.NewFromInt(100), 2, nil)

	_, found := s.SetQuantity(line.IdentityKey(), 0)
	assert.True(t, found)
	assert.Empty(t, s.Lines())
	assert.True(t, decimal.Zero.Equal(s.Total()))
}

func TestRemoveAbsentLineIsNoOp(t *testing.T) {
	s := NewStore()
	s.AddLine("prod-a", "Burger", decimal.NewFromInt(100), 1, nil)

	removed := s.RemoveLine("prod-x|")
	assert.False(t, removed)
	assert.Len(t, s.Lines(), 1)
}

func TestReplaceTakesServerListVerbatim(t *testing.T) {
	s := NewStore()
	s.AddLine("prod-a", "Burger", decimal.NewFromInt(100), 1, nil)

	s.Replace([]models.LineItem{
		{LineID: "l2", ProductID: "prod-b", ProductName: "Fries", UnitBasePrice: decimal.NewFromInt(40), Quantity: 2},
		{LineID: "l1", ProductID: "prod-a", ProductName: "Burger", UnitBasePrice: decimal.NewFromInt(100), Quantity: 1},
	})

	lines := s.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, "l2", lines[0].LineID)
	assert.Equal(t, "l1", lines[1].LineID)
	// Totals are recomputed locally, never trusted from the payload.
	assert.True(t, decimal.NewFromInt(80).Equal(lines[0].LineTotal))
	assert.True(t, decimal.NewFromInt(180).Equal(s.Total()))
}

func TestCountSumsQuantities(t *testing.T) {
	s := NewStore()
	s.AddLine("prod-a", "Burger", decimal.NewFromInt(100), 2, nil)
	s.AddLine("prod-b", "Fries", decimal.NewFromInt(40), 3, nil)

	assert.Equal(t, 5, s.Count())
}

func TestSubscribeNotifiesAndUnsubscribes(t *testing.T) {
	s := NewStore()

	calls := 0
	unsubscribe := s.Subscribe(func() { calls++ })

	s.AddLine("prod-a", "Burger", decimal.NewFromInt(100), 1, nil)
	assert.Equal(t, 1, calls)

	unsubscribe()
	s.Clear()
	assert.Equal(t, 1, calls)
}

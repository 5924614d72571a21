package cart

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"swizzle-client/internal/apiclient"
	"swizzle-client/internal/models"
	"swizzle-client/internal/session"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingInvalidator struct {
	calls int
}

func (r *recordingInvalidator) InvalidateOnCartChange() {
	r.calls++
}

func newTestClient(t *testing.T, handler http.Handler) *apiclient.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return apiclient.New(srv.URL, 5*time.Second, session.NewStore(""))
}

func TestAddItemAdoptsServerEcho(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/orders/o1/items", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"_id": "o1",
			"items": [
				{"_id": "l1", "productId": "prod-a", "productName": "Burger", "basePrice": 100, "quantity": 1, "selectedAddons": []}
			]
		}`))
	})

	store := NewStore()
	sy := NewSyncer(newTestClient(t, handler), store, nil, "o1")

	err := sy.AddItem(context.Background(), "prod-a", "Burger", decimal.NewFromInt(100), 1, nil)
	require.NoError(t, err)

	lines := store.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, "l1", lines[0].LineID)
	assert.True(t, decimal.NewFromInt(100).Equal(store.Total()))
}

func TestAddItemFailureRollsBackFreshLine(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": "product is no longer available"}`))
	})

	store := NewStore()
	sy := NewSyncer(newTestClient(t, handler), store, nil, "o1")

	err := sy.AddItem(context.Background(), "prod-a", "Burger", decimal.NewFromInt(100), 1, nil)
	require.Error(t, err)

	var valErr *apiclient.ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "product is no longer available", valErr.Message)

	// The optimistic line is gone again.
	assert.Empty(t, store.Lines())
}

func TestAddItemFailureOnMergedLineRefetches(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodPost:
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"error": "boom"}`))
		case r.Method == http.MethodGet:
			w.Write([]byte(`{
				"_id": "o1",
				"items": [
					{"_id": "l1", "productId": "prod-a", "productName": "Burger", "basePrice": 100, "quantity": 2, "selectedAddons": []}
				]
			}`))
		}
	})

	store := NewStore()
	store.Replace([]models.LineItem{
		{LineID: "l1", ProductID: "prod-a", ProductName: "Burger", UnitBasePrice: decimal.NewFromInt(100), Quantity: 2},
	})

	sy := NewSyncer(newTestClient(t, handler), store, nil, "o1")

	err := sy.AddItem(context.Background(), "prod-a", "Burger", decimal.NewFromInt(100), 1, nil)
	require.Error(t, err)
	assert.True(t, apiclient.IsNetworkError(err))

	// Rolled back to the server's quantity, not the optimistic 3.
	lines := store.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)
}

func TestMutationsInvalidatePromoEvenOnFailure(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": "nope"}`))
	})

	store := NewStore()
	inv := &recordingInvalidator{}
	sy := NewSyncer(newTestClient(t, handler), store, inv, "o1")

	_ = sy.AddItem(context.Background(), "prod-a", "Burger", decimal.NewFromInt(100), 1, nil)
	assert.Equal(t, 1, inv.calls)
}

func TestSetQuantityAbsentLineMakesNoCall(t *testing.T) {
	calls := 0
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	})

	store := NewStore()
	sy := NewSyncer(newTestClient(t, handler), store, nil, "o1")

	err := sy.SetQuantity(context.Background(), "prod-x|", 2)
	require.NoError(t, err)
	assert.Zero(t, calls)
}

func TestSetQuantityFailureRefetches(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.Method {
		case http.MethodPatch:
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"error": "boom"}`))
		case http.MethodGet:
			w.Write([]byte(`{
				"_id": "o1",
				"items": [
					{"_id": "l1", "productId": "prod-a", "productName": "Burger", "basePrice": 100, "quantity": 2, "selectedAddons": []}
				]
			}`))
		}
	})

	store := NewStore()
	store.Replace([]models.LineItem{
		{LineID: "l1", ProductID: "prod-a", ProductName: "Burger", UnitBasePrice: decimal.NewFromInt(100), Quantity: 2},
	})

	sy := NewSyncer(newTestClient(t, handler), store, nil, "o1")

	err := sy.SetQuantity(context.Background(), "prod-a|", 5)
	require.Error(t, err)

	lines := store.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)
}

func TestRemoveItemSyncs(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		require.Equal(t, "/orders/o1/items/l1", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"_id": "o1", "items": []}`))
	})

	store := NewStore()
	store.Replace([]models.LineItem{
		{LineID: "l1", ProductID: "prod-a", ProductName: "Burger", UnitBasePrice: decimal.NewFromInt(100), Quantity: 2},
	})

	sy := NewSyncer(newTestClient(t, handler), store, nil, "o1")

	err := sy.RemoveItem(context.Background(), "prod-a|")
	require.NoError(t, err)
	assert.Empty(t, store.Lines())
}

func TestCheckoutPriceMismatchLeavesCartUntouched(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": "price mismatch", "expectedTotal": 320, "submittedTotal": 300}`))
	})

	store := NewStore()
	store.Replace([]models.LineItem{
		{LineID: "l1", ProductID: "prod-a", ProductName: "Burger", UnitBasePrice: decimal.NewFromInt(100), Quantity: 3},
	})

	sy := NewSyncer(newTestClient(t, handler), store, nil, "o1")

	resp, err := sy.Checkout(context.Background(), decimal.NewFromInt(300))
	require.Error(t, err)
	assert.Nil(t, resp)

	mismatch := apiclient.AsPriceMismatch(err)
	require.NotNil(t, mismatch)
	assert.True(t, decimal.NewFromInt(320).Equal(mismatch.ExpectedTotal))
	assert.True(t, decimal.NewFromInt(300).Equal(mismatch.SubmittedTotal))

	// Local state is not rolled back or cleared; the customer decides.
	require.Len(t, store.Lines(), 1)
	assert.Equal(t, 3, store.Lines()[0].Quantity)
}

func TestCheckoutSuccessReturnsRedirect(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/orders/o1/checkout", r.URL.Path)
		require.NotEmpty(t, r.Header.Get("Idempotency-Key"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"stripeSessionUrl": "https://pay.example/s/123"}`))
	})

	store := NewStore()
	sy := NewSyncer(newTestClient(t, handler), store, nil, "o1")

	resp, err := sy.Checkout(context.Background(), decimal.NewFromInt(300))
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example/s/123", resp.StripeSessionURL)
}

func TestLineGuardOneSlotPerKey(t *testing.T) {
	g := newLineGuard()

	require.True(t, g.acquire("a"))
	assert.False(t, g.acquire("a"))
	assert.True(t, g.acquire("b"))

	g.release("a")
	assert.True(t, g.acquire("a"))
}

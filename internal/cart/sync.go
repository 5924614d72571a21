package cart

import (
	"context"
	"errors"
	"fmt"

	"swizzle-client/internal/apiclient"
	"swizzle-client/internal/models"
	"swizzle-client/internal/util"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ErrLineBusy is returned when a mutation targets a line whose previous
// request has not resolved yet. Callers disable the control and try again
// after the in-flight request finishes; mutations on other lines proceed.
var ErrLineBusy = errors.New("a mutation for this line is already in flight")

// Invalidator is the hook the syncer fires on every mutation, successful
// or not, before the optimistic update becomes visible. The promo
// evaluator implements it.
type Invalidator interface {
	InvalidateOnCartChange()
}

// Syncer keeps the local cart store consistent with the server's order
// document. Mutations apply optimistically, the server's echoed item list
// replaces local state on success, and failures roll back: a computed
// inverse for a fresh add, a full re-fetch for everything else. The server
// is the single source of truth throughout; the last snapshot applied
// wins, even if it arrives out of order.
type Syncer struct {
	store    *Store
	api      *apiclient.Client
	promos   Invalidator
	orderID  string
	inflight *lineGuard
	logger   *zap.Logger
}

// NewSyncer creates a syncer bound to one order document. promos may be
// nil when no promo evaluation is in play.
func NewSyncer(api *apiclient.Client, store *Store, promos Invalidator, orderID string) *Syncer {
	return &Syncer{
		store:    store,
		api:      api,
		promos:   promos,
		orderID:  orderID,
		inflight: newLineGuard(),
		logger:   util.GetLogger(),
	}
}

// OrderID returns the order this syncer is bound to.
func (sy *Syncer) OrderID() string {
	return sy.orderID
}

// invalidatePromo runs before the optimistic update so a stale discount is
// never shown against a new total, not even for one render frame.
func (sy *Syncer) invalidatePromo() {
	if sy.promos != nil {
		sy.promos.InvalidateOnCartChange()
	}
}

// AddItem optimistically adds a line (merging by identity key) and syncs
// it to the server. On failure the optimistic change is undone: a line
// that did not exist before is removed outright; a merged line is rolled
// back by re-fetching the order, since its prior quantity may itself have
// been racing.
func (sy *Syncer) AddItem(ctx context.Context, productID, productName string, unitBasePrice decimal.Decimal, quantity int, addons []models.SelectedAddon) error {
	probe := models.LineItem{ProductID: productID, SelectedAddons: addons}
	key := probe.IdentityKey()

	if !sy.inflight.acquire(key) {
		return ErrLineBusy
	}
	defer sy.inflight.release(key)

	sy.invalidatePromo()

	_, existedBefore := sy.store.Line(key)
	line := sy.store.AddLine(productID, productName, unitBasePrice, quantity, addons)
	util.CartMutationsTotal.WithLabelValues("add").Inc()

	order, err := sy.api.AddOrderItem(ctx, sy.orderID, line)
	if err != nil {
		util.CartSyncFailuresTotal.WithLabelValues("add", failureReason(err)).Inc()
		sy.rollbackAdd(ctx, key, existedBefore)
		return fmt.Errorf("add item sync failed: %w", err)
	}

	sy.store.Replace(order.Items)
	return nil
}

// SetQuantity optimistically updates a line's quantity (zero or less
// removes it) and syncs the change. Rollback is always a full re-fetch:
// reconstructing the prior value locally is unsafe once mutations race.
func (sy *Syncer) SetQuantity(ctx context.Context, key string, quantity int) error {
	if !sy.inflight.acquire(key) {
		return ErrLineBusy
	}
	defer sy.inflight.release(key)

	sy.invalidatePromo()

	before, ok := sy.store.Line(key)
	if !ok {
		// Absent line: nothing to update, nothing to sync.
		return nil
	}

	// The in-flight guard means a synced line always carries its server
	// id; an empty one means the snapshot is stale, so converge first.
	if before.LineID == "" {
		if err := sy.Refetch(ctx); err != nil {
			return fmt.Errorf("cannot update unsynced line: %w", err)
		}
		before, ok = sy.store.Line(key)
		if !ok || before.LineID == "" {
			return nil
		}
	}

	sy.store.SetQuantity(key, quantity)

	var op string
	var order *models.Order
	var err error
	if quantity <= 0 {
		op = "remove"
		order, err = sy.api.RemoveOrderItem(ctx, sy.orderID, before.LineID)
	} else {
		op = "update"
		order, err = sy.api.UpdateOrderItem(ctx, sy.orderID, before.LineID, quantity)
	}
	util.CartMutationsTotal.WithLabelValues(op).Inc()

	if err != nil {
		util.CartSyncFailuresTotal.WithLabelValues(op, failureReason(err)).Inc()
		sy.rollbackByRefetch(ctx)
		return fmt.Errorf("%s item sync failed: %w", op, err)
	}

	sy.store.Replace(order.Items)
	return nil
}

// RemoveItem removes a line entirely. Equivalent to SetQuantity(key, 0).
func (sy *Syncer) RemoveItem(ctx context.Context, key string) error {
	return sy.SetQuantity(ctx, key, 0)
}

// Refetch replaces the local cart with the server's current item list.
func (sy *Syncer) Refetch(ctx context.Context) error {
	order, err := sy.api.GetOrder(ctx, sy.orderID)
	if err != nil {
		return fmt.Errorf("failed to refetch order: %w", err)
	}
	sy.store.Replace(order.Items)
	return nil
}

// Checkout submits the locally computed total for server-side validation.
// A price mismatch is surfaced with both figures and is never retried
// here; local cart state is left exactly as it was either way.
func (sy *Syncer) Checkout(ctx context.Context, total decimal.Decimal) (*apiclient.CheckoutResponse, error) {
	util.CheckoutAttemptsTotal.Inc()

	resp, err := sy.api.Checkout(ctx, sy.orderID, total)
	if err != nil {
		if mismatch := apiclient.AsPriceMismatch(err); mismatch != nil {
			util.CheckoutPriceMismatchTotal.Inc()
			sy.logger.Warn("Checkout rejected: totals disagree",
				zap.String("order_id", sy.orderID),
				zap.String("expected", mismatch.ExpectedTotal.StringFixed(2)),
				zap.String("submitted", mismatch.SubmittedTotal.StringFixed(2)))
		}
		return nil, err
	}

	return resp, nil
}

// rollbackAdd undoes a failed optimistic add.
func (sy *Syncer) rollbackAdd(ctx context.Context, key string, existedBefore bool) {
	if !existedBefore {
		sy.store.RemoveLine(key)
		util.CartRollbacksTotal.WithLabelValues("inverse").Inc()
		return
	}
	sy.rollbackByRefetch(ctx)
}

// rollbackByRefetch converges on the server's view after a failed
// mutation. When even the re-fetch fails the optimistic state stays put
// and the caller's error tells the user the cart may be out of date.
func (sy *Syncer) rollbackByRefetch(ctx context.Context) {
	util.CartRollbacksTotal.WithLabelValues("refetch").Inc()
	if err := sy.Refetch(ctx); err != nil {
		sy.logger.Error("Rollback refetch failed; local cart may diverge until next sync",
			zap.String("order_id", sy.orderID),
			zap.Error(err))
	}
}

func failureReason(err error) string {
	if apiclient.IsNetworkError(err) {
		return "network"
	}
	return "rejected"
}

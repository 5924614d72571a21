// Package promo tracks the single promo attachment a cart may carry. An
// attachment is the server's verdict on one code against one exact cart
// total; the moment the cart changes it is worthless and gets discarded
// before the change is visible anywhere.
package promo

import (
	"context"
	"errors"
	"sync"

	"swizzle-client/internal/apiclient"
	"swizzle-client/internal/models"
	"swizzle-client/internal/util"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ErrNotAttached is returned when an operation needs an attachment and
// none is present.
var ErrNotAttached = errors.New("no promo is attached to the cart")

// totaler is the slice of the cart store the manager needs.
type totaler interface {
	Total() decimal.Decimal
}

// Manager validates, holds, and redeems at most one promo attachment.
// It implements the cart syncer's Invalidator hook.
type Manager struct {
	api  *apiclient.Client
	cart totaler

	mu       sync.Mutex
	attached *models.PromoAttachment

	logger *zap.Logger
}

// NewManager creates a promo manager reading totals from cart.
func NewManager(api *apiclient.Client, cart totaler) *Manager {
	return &Manager{
		api:    api,
		cart:   cart,
		logger: util.GetLogger(),
	}
}

// Validate asks the server to evaluate code against the cart's current
// total and, when accepted, attaches the resulting discount. Validation
// never consumes a use, so a rejected code costs nothing; the server's
// rejection reason comes back as a ValidationError. A new valid code
// replaces any existing attachment.
func (m *Manager) Validate(ctx context.Context, code string) (*models.PromoAttachment, error) {
	cartTotal := m.cart.Total()

	result, err := m.api.ValidatePromo(ctx, code, cartTotal)
	if err != nil {
		util.PromoValidationsTotal.WithLabelValues("rejected").Inc()
		return nil, err
	}
	if !result.Valid {
		util.PromoValidationsTotal.WithLabelValues("rejected").Inc()
		return nil, &apiclient.ValidationError{
			Operation: "validate_promo",
			Message:   "promo code is not valid for this cart",
		}
	}

	attachment := &models.PromoAttachment{
		Code:           result.Code,
		DiscountType:   result.DiscountType,
		DiscountValue:  result.DiscountValue,
		DiscountAmount: result.DiscountAmount,
		CartTotal:      cartTotal,
		FinalTotal:     result.FinalTotal,
	}

	m.mu.Lock()
	m.attached = attachment
	m.mu.Unlock()

	util.PromoValidationsTotal.WithLabelValues("accepted").Inc()
	m.logger.Info("Promo attached",
		zap.String("code", attachment.Code),
		zap.String("cart_total", cartTotal.StringFixed(2)),
		zap.String("final_total", attachment.FinalTotal.StringFixed(2)))

	return attachment, nil
}

// InvalidateOnCartChange discards the attachment. The syncer calls this
// on every mutation, before the optimistic update, so a stale discount is
// never displayed against a total it was not validated for. Re-applying
// the same code afterwards is the customer's move, not ours.
func (m *Manager) InvalidateOnCartChange() {
	m.mu.Lock()
	had := m.attached != nil
	code := ""
	if had {
		code = m.attached.Code
	}
	m.attached = nil
	m.mu.Unlock()

	if had {
		util.PromoInvalidationsTotal.Inc()
		m.logger.Info("Promo detached by cart change", zap.String("code", code))
	}
}

// Remove discards the attachment at the customer's request.
func (m *Manager) Remove() {
	m.mu.Lock()
	m.attached = nil
	m.mu.Unlock()
}

// Attachment returns the current attachment, or nil.
func (m *Manager) Attachment() *models.PromoAttachment {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.attached == nil {
		return nil
	}
	a := *m.attached
	return &a
}

// FinalTotal is the amount to submit at checkout: the discounted total
// when an attachment is live, the raw cart total otherwise. When the cart
// total no longer matches the one the attachment was validated for the
// attachment is dropped on the spot and the raw total is returned.
func (m *Manager) FinalTotal() decimal.Decimal {
	cartTotal := m.cart.Total()

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.attached == nil {
		return cartTotal
	}
	if !m.attached.CartTotal.Equal(cartTotal) {
		m.attached = nil
		util.PromoInvalidationsTotal.Inc()
		return cartTotal
	}
	return m.attached.FinalTotal
}

// Redeem permanently consumes a use of the attached code. Called exactly
// once, after the order is confirmed, never at validation or checkout
// submission time.
func (m *Manager) Redeem(ctx context.Context) error {
	m.mu.Lock()
	attached := m.attached
	m.mu.Unlock()

	if attached == nil {
		return ErrNotAttached
	}
	if err := m.api.RedeemPromo(ctx, attached.Code); err != nil {
		return err
	}

	m.mu.Lock()
	m.attached = nil
	m.mu.Unlock()
	return nil
}

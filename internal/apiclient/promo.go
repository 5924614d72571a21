package apiclient

import (
	"context"
	"net/http"

	"swizzle-client/internal/models"

	"github.com/shopspring/decimal"
)

// PromoValidateResult is the server's verdict on a code against one exact
// cart total. DiscountAmount and FinalTotal are computed server-side.
type PromoValidateResult struct {
	Valid          bool                `json:"valid"`
	Code           string              `json:"code"`
	Description    string              `json:"description"`
	DiscountType   models.DiscountType `json:"discountType"`
	DiscountValue  decimal.Decimal     `json:"discountValue"`
	DiscountAmount decimal.Decimal     `json:"discountAmount"`
	FinalTotal     decimal.Decimal     `json:"finalTotal"`
}

// GetActivePromos lists promos customers may currently apply.
func (c *Client) GetActivePromos(ctx context.Context) ([]models.Promo, error) {
	var promos []models.Promo
	if err := c.do(ctx, "get_active_promos", http.MethodGet, "/promo/active", nil, nil, &promos); err != nil {
		return nil, err
	}
	return promos, nil
}

// ValidatePromo checks a code against a cart total. Validation never
// consumes a use; a customer can retype a code as often as they like.
// Rejections (expired, below minimum, exhausted, unknown code) arrive as
// ValidationError with the server's reason.
func (c *Client) ValidatePromo(ctx context.Context, code string, cartTotal decimal.Decimal) (*PromoValidateResult, error) {
	body := struct {
		Code      string          `json:"code"`
		CartTotal decimal.Decimal `json:"cartTotal"`
	}{Code: code, CartTotal: cartTotal}

	var result PromoValidateResult
	if err := c.do(ctx, "validate_promo", http.MethodPost, "/promo/validate", nil, body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// RedeemPromo permanently decrements a promo's usage counter. One-shot,
// called only at order confirmation.
func (c *Client) RedeemPromo(ctx context.Context, code string) error {
	return c.do(ctx, "redeem_promo", http.MethodPost, "/promo/redeem", nil,
		map[string]string{"code": code}, nil)
}

// GetAllPromos lists every promo for the back office.
func (c *Client) GetAllPromos(ctx context.Context) ([]models.Promo, error) {
	var promos []models.Promo
	if err := c.do(ctx, "get_all_promos", http.MethodGet, "/promo", nil, nil, &promos); err != nil {
		return nil, err
	}
	return promos, nil
}

// CreatePromo adds a promo definition.
func (c *Client) CreatePromo(ctx context.Context, promo models.Promo) (*models.Promo, error) {
	var created models.Promo
	if err := c.do(ctx, "create_promo", http.MethodPost, "/promo", nil, promo, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdatePromo patches a promo's fields.
func (c *Client) UpdatePromo(ctx context.Context, id string, fields map[string]any) (*models.Promo, error) {
	var updated models.Promo
	if err := c.do(ctx, "update_promo", http.MethodPatch, "/promo/"+id, nil, fields, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeletePromo removes a promo definition.
func (c *Client) DeletePromo(ctx context.Context, id string) error {
	return c.do(ctx, "delete_promo", http.MethodDelete, "/promo/"+id, nil, nil, nil)
}

package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"swizzle-client/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CheckoutResponse carries the payment redirect for a successful checkout.
type CheckoutResponse struct {
	StripeSessionURL string `json:"stripeSessionUrl"`
}

// CustomerDetailsPatch updates the customer-facing fields of an order.
// Nil fields are left untouched by the server.
type CustomerDetailsPatch struct {
	CustomerName    *string         `json:"customerName,omitempty"`
	DeliveryAddress *models.Address `json:"deliveryAddress,omitempty"`
}

// InitiateOrderResponse is the receptionist's handle on a freshly opened
// assisted order.
type InitiateOrderResponse struct {
	OrderID     string `json:"orderId"`
	OrderNumber string `json:"orderNumber"`
}

// CreateOrder opens a new self-service order for a verified phone number.
// The request carries an idempotency key so a resubmitted form cannot open
// two orders.
func (c *Client) CreateOrder(ctx context.Context, phoneNumber string) (*models.Order, error) {
	var order models.Order
	err := c.do(ctx, "create_order", http.MethodPost, "/orders", nil,
		map[string]string{"phoneNumber": phoneNumber}, &order,
		withIdempotencyKey(uuid.New().String()))
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrder fetches the authoritative order document.
func (c *Client) GetOrder(ctx context.Context, orderID string) (*models.Order, error) {
	var order models.Order
	if err := c.do(ctx, "get_order", http.MethodGet, "/orders/"+orderID, nil, nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// UpdateCustomerDetails patches name and/or delivery address on an order.
func (c *Client) UpdateCustomerDetails(ctx context.Context, orderID string, patch CustomerDetailsPatch) (*models.Order, error) {
	var order models.Order
	err := c.do(ctx, "update_customer_details", http.MethodPatch,
		"/orders/"+orderID+"/details", nil, patch, &order)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// AddOrderItem appends a line to the server-held order and returns the
// updated order. The server assigns the line id and recomputes all totals.
func (c *Client) AddOrderItem(ctx context.Context, orderID string, item models.LineItem) (*models.Order, error) {
	var order models.Order
	err := c.do(ctx, "add_order_item", http.MethodPost,
		"/orders/"+orderID+"/items", nil, item, &order)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// UpdateOrderItem patches a line's quantity and returns the updated order.
func (c *Client) UpdateOrderItem(ctx context.Context, orderID, lineID string, quantity int) (*models.Order, error) {
	var order models.Order
	err := c.do(ctx, "update_order_item", http.MethodPatch,
		"/orders/"+orderID+"/items/"+lineID, nil,
		map[string]int{"quantity": quantity}, &order)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// RemoveOrderItem deletes a line and returns the updated order.
func (c *Client) RemoveOrderItem(ctx context.Context, orderID, lineID string) (*models.Order, error) {
	var order models.Order
	err := c.do(ctx, "remove_order_item", http.MethodDelete,
		"/orders/"+orderID+"/items/"+lineID, nil, nil, &order)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// Checkout submits the locally computed total and nothing else; the server
// recomputes its own figure from stored line items and rejects with a
// price-mismatch error when they disagree. Never retried automatically.
func (c *Client) Checkout(ctx context.Context, orderID string, total decimal.Decimal) (*CheckoutResponse, error) {
	var resp CheckoutResponse
	err := c.do(ctx, "checkout", http.MethodPost,
		"/orders/"+orderID+"/checkout", nil,
		map[string]decimal.Decimal{"total": total}, &resp,
		withIdempotencyKey(uuid.New().String()))
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// SendOTP asks the server to text a one-time code to the phone number.
func (c *Client) SendOTP(ctx context.Context, phoneNumber string) error {
	return c.do(ctx, "send_otp", http.MethodPost, "/otp/send", nil,
		map[string]string{"phoneNumber": phoneNumber}, nil, withoutAuth())
}

// VerifyOTP checks a one-time code. A wrong code is a clean false, not an
// error; errors mean the check itself could not run.
func (c *Client) VerifyOTP(ctx context.Context, phoneNumber, otp string) (bool, error) {
	var resp struct {
		Verified bool `json:"verified"`
	}
	err := c.do(ctx, "verify_otp", http.MethodPost, "/otp/verify", nil,
		map[string]string{"phoneNumber": phoneNumber, "otp": otp}, &resp, withoutAuth())
	if err != nil {
		return false, err
	}
	return resp.Verified, nil
}

// InitiateOrder opens an assisted order on behalf of a walk-in customer.
func (c *Client) InitiateOrder(ctx context.Context, phoneNumber string) (*InitiateOrderResponse, error) {
	var resp InitiateOrderResponse
	err := c.do(ctx, "initiate_order", http.MethodPost,
		"/receptionist/orders/initiate", nil,
		map[string]string{"phoneNumber": phoneNumber}, &resp,
		withIdempotencyKey(uuid.New().String()))
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// SendOrderLink texts the self-service continuation link for an assisted
// order to the customer.
func (c *Client) SendOrderLink(ctx context.Context, orderID, phoneNumber string) error {
	return c.do(ctx, "send_order_link", http.MethodPost,
		"/receptionist/orders/send-link", nil,
		map[string]string{"orderId": orderID, "phoneNumber": phoneNumber}, nil)
}

// ListOrders fetches the admin order board, optionally filtered by status
// and free-text search.
func (c *Client) ListOrders(ctx context.Context, status, search string) ([]models.Order, error) {
	query := url.Values{}
	if status != "" {
		query.Set("status", status)
	}
	if search != "" {
		query.Set("search", search)
	}

	var orders []models.Order
	if err := c.do(ctx, "list_orders", http.MethodGet, "/admin/orders", query, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateOrderStatus moves an order to a new status and returns the updated
// document. The server owns the lifecycle; no transition is checked here.
func (c *Client) UpdateOrderStatus(ctx context.Context, orderID string, status models.OrderStatus) (*models.Order, error) {
	var order models.Order
	err := c.do(ctx, "update_order_status", http.MethodPatch,
		"/admin/orders/"+orderID+"/status", nil,
		map[string]models.OrderStatus{"status": status}, &order)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetAnalytics fetches the server-computed back-office aggregate.
func (c *Client) GetAnalytics(ctx context.Context) (*models.Analytics, error) {
	var analytics models.Analytics
	if err := c.do(ctx, "get_analytics", http.MethodGet, "/admin/analytics", nil, nil, &analytics); err != nil {
		return nil, err
	}
	return &analytics, nil
}

// GetCustomers fetches the aggregated customer list, optionally filtered.
func (c *Client) GetCustomers(ctx context.Context, search string) ([]models.Customer, error) {
	query := url.Values{}
	if search != "" {
		query.Set("search", search)
	}

	var customers []models.Customer
	if err := c.do(ctx, "get_customers", http.MethodGet, "/admin/customers", query, nil, &customers); err != nil {
		return nil, err
	}
	return customers, nil
}

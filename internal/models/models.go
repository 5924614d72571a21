package models

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// SelectedAddon is one addon attached to a cart line.
type SelectedAddon struct {
	AddonID   string          `json:"addonId"`
	AddonName string          `json:"addonName"`
	UnitPrice decimal.Decimal `json:"addonPrice"`
}

// LineItem is one product-plus-addons entry in a cart. LineID is assigned
// by the server and stays empty until the line has synced at least once.
type LineItem struct {
	LineID         string          `json:"_id,omitempty"`
	ProductID      string          `json:"productId"`
	ProductName    string          `json:"productName"`
	UnitBasePrice  decimal.Decimal `json:"basePrice"`
	Quantity       int             `json:"quantity"`
	SelectedAddons []SelectedAddon `json:"selectedAddons"`
	LineTotal      decimal.Decimal `json:"itemTotal"`
}

// IdentityKey identifies a line by product plus addon-id set, independent of
// addon order. Two lines with equal keys are the same line and must merge.
func (li *LineItem) IdentityKey() string {
	ids := make([]string, 0, len(li.SelectedAddons))
	for _, a := range li.SelectedAddons {
		ids = append(ids, a.AddonID)
	}
	sort.Strings(ids)
	return li.ProductID + "|" + strings.Join(ids, ",")
}

// UnitPrice is the base price plus all addon prices for a single unit.
func (li *LineItem) UnitPrice() decimal.Decimal {
	price := li.UnitBasePrice
	for _, a := range li.SelectedAddons {
		price = price.Add(a.UnitPrice)
	}
	return price
}

// RecomputeTotal rewrites LineTotal from the pricing formula. Totals are
// never trusted as input, so every mutation calls this.
func (li *LineItem) RecomputeTotal() {
	li.LineTotal = li.UnitPrice().Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// OrderStatus is the server-owned order state. The happy path progresses
// top to bottom, but the client accepts any status the server sends.
type OrderStatus string

const (
	StatusInitiated      OrderStatus = "INITIATED"
	StatusInProgress     OrderStatus = "IN_PROGRESS"
	StatusPaymentPending OrderStatus = "PAYMENT_PENDING"
	StatusPaid           OrderStatus = "PAID"
	StatusConfirmed      OrderStatus = "CONFIRMED"
	StatusPreparing      OrderStatus = "PREPARING"
	StatusReady          OrderStatus = "READY"
	StatusDelivered      OrderStatus = "DELIVERED"
)

// Address is a delivery destination with geocoded coordinates.
type Address struct {
	Text string  `json:"text"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

// Order mirrors the server's order document. Subtotal and Total are echoed
// by the server after every sync; the client never persists its own figures.
type Order struct {
	ID              string          `json:"_id"`
	OrderNumber     string          `json:"orderNumber"`
	PhoneNumber     string          `json:"phoneNumber"`
	CustomerName    string          `json:"customerName,omitempty"`
	DeliveryAddress *Address        `json:"deliveryAddress,omitempty"`
	Items           []LineItem      `json:"items"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	Total           decimal.Decimal `json:"total"`
	Status          OrderStatus     `json:"status"`
	IsAssistedOrder bool            `json:"isAssistedOrder"`
	CreatedAt       time.Time       `json:"createdAt,omitempty"`
}

// DiscountType distinguishes percentage promos from fixed-amount promos.
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// Promo is a promo code definition as managed in the back office.
type Promo struct {
	ID            string          `json:"_id"`
	Code          string          `json:"code"`
	Description   string          `json:"description"`
	DiscountType  DiscountType    `json:"discountType"`
	DiscountValue decimal.Decimal `json:"discountValue"`
	MinOrderValue decimal.Decimal `json:"minOrderValue"`
	MaxUses       *int            `json:"maxUses"`
	UsedCount     int             `json:"usedCount"`
	ExpiresAt     *time.Time      `json:"expiresAt"`
	IsActive      bool            `json:"isActive"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// PromoAttachment is a validated discount bound to one exact cart total.
// It is only meaningful against the total it was validated for; any cart
// mutation discards it.
type PromoAttachment struct {
	Code           string          `json:"code"`
	DiscountType   DiscountType    `json:"discountType"`
	DiscountValue  decimal.Decimal `json:"discountValue"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	CartTotal      decimal.Decimal `json:"cartTotal"`
	FinalTotal     decimal.Decimal `json:"finalTotal"`
}

// Category groups menu products.
type Category struct {
	ID           string `json:"_id"`
	Name         string `json:"name"`
	DisplayOrder int    `json:"displayOrder"`
}

// Product is a menu entry customers order.
type Product struct {
	ID              string          `json:"_id"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	BasePrice       decimal.Decimal `json:"basePrice"`
	CategoryID      string          `json:"categoryId"`
	CategoryName    string          `json:"categoryName,omitempty"`
	AllowedAddonIDs []string        `json:"allowedAddonIds"`
	ImageURL        string          `json:"imageUrl,omitempty"`
	IsActive        bool            `json:"isActive"`
	DisplayOrder    int             `json:"displayOrder"`
}

// AddonType controls whether an addon group is single- or multi-select.
type AddonType string

const (
	AddonSingle   AddonType = "single"
	AddonMultiple AddonType = "multiple"
)

// Addon is an optional extra a product can carry.
type Addon struct {
	ID       string          `json:"_id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Type     AddonType       `json:"type"`
	IsActive bool            `json:"isActive"`
}

// Menu is one cacheable snapshot of the full menu.
type Menu struct {
	Categories []Category `json:"categories"`
	Products   []Product  `json:"products"`
	Addons     []Addon    `json:"addons"`
}

// StaffRole is a back-office role.
type StaffRole string

const (
	RoleAdmin        StaffRole = "admin"
	RoleManager      StaffRole = "manager"
	RoleKitchen      StaffRole = "kitchen"
	RoleReceptionist StaffRole = "receptionist"
)

// StaffUser is a back-office account.
type StaffUser struct {
	ID          string    `json:"_id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Role        StaffRole `json:"role"`
	Phone       string    `json:"phone,omitempty"`
	IsActive    bool      `json:"isActive"`
	MFARequired bool      `json:"mfaRequired"`
	MFAEnabled  bool      `json:"mfaEnabled"`
}

// Feedback is a post-order customer rating.
type Feedback struct {
	ID             string    `json:"_id,omitempty"`
	OrderID        string    `json:"orderId"`
	PhoneNumber    string    `json:"phoneNumber"`
	FoodRating     int       `json:"foodRating"`
	DeliveryRating int       `json:"deliveryRating,omitempty"`
	Comment        string    `json:"comment,omitempty"`
	CreatedAt      time.Time `json:"createdAt,omitempty"`
}

// DailyOrderCount is one bar of the analytics daily chart.
type DailyOrderCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// Analytics is the server-computed back-office aggregate. The client only
// displays it.
type Analytics struct {
	TotalOrders  int               `json:"totalOrders"`
	TotalRevenue decimal.Decimal   `json:"totalRevenue"`
	PaidOrders   int               `json:"paidOrders"`
	TodayOrders  int               `json:"todayOrders"`
	DailyOrders  []DailyOrderCount `json:"dailyOrders"`
	StatusCounts map[string]int    `json:"statusCounts"`
}

// Customer is an aggregated customer row for the admin customer list.
type Customer struct {
	PhoneNumber  string          `json:"phoneNumber"`
	CustomerName string          `json:"customerName,omitempty"`
	OrderCount   int             `json:"orderCount"`
	TotalSpent   decimal.Decimal `json:"totalSpent"`
	LastOrderAt  time.Time       `json:"lastOrderAt"`
}

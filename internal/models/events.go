package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Push event names on the order channel.
const (
	EventOrderNew     = "order:new"
	EventOrderUpdated = "order:updated"
)

// PushEvent is the wire envelope for server-initiated notifications on
// transports that multiplex events over one stream. Payload is a full or
// partial Order document.
type PushEvent struct {
	EventID   string          `json:"event_id,omitempty"`
	Event     string          `json:"event"`
	Timestamp time.Time       `json:"timestamp,omitempty"`
	Payload   json.RawMessage `json:"order"`
}

// OrderPatch is a partial order document from an order:updated payload.
// Pointer fields distinguish "absent" from zero so a shallow merge
// preserves fields the payload does not carry.
type OrderPatch struct {
	ID              string           `json:"_id"`
	OrderNumber     *string          `json:"orderNumber,omitempty"`
	PhoneNumber     *string          `json:"phoneNumber,omitempty"`
	CustomerName    *string          `json:"customerName,omitempty"`
	DeliveryAddress *Address         `json:"deliveryAddress,omitempty"`
	Items           *[]LineItem      `json:"items,omitempty"`
	Subtotal        *decimal.Decimal `json:"subtotal,omitempty"`
	Total           *decimal.Decimal `json:"total,omitempty"`
	Status          *OrderStatus     `json:"status,omitempty"`
	IsAssistedOrder *bool            `json:"isAssistedOrder,omitempty"`
	CreatedAt       *time.Time       `json:"createdAt,omitempty"`
}

// Apply shallow-merges the patch into an order. Only fields present in the
// payload overwrite; applying the same patch twice yields the same order.
func (p *OrderPatch) Apply(o *Order) {
	if p.OrderNumber != nil {
		o.OrderNumber = *p.OrderNumber
	}
	if p.PhoneNumber != nil {
		o.PhoneNumber = *p.PhoneNumber
	}
	if p.CustomerName != nil {
		o.CustomerName = *p.CustomerName
	}
	if p.DeliveryAddress != nil {
		addr := *p.DeliveryAddress
		o.DeliveryAddress = &addr
	}
	if p.Items != nil {
		items := make([]LineItem, len(*p.Items))
		copy(items, *p.Items)
		o.Items = items
	}
	if p.Subtotal != nil {
		o.Subtotal = *p.Subtotal
	}
	if p.Total != nil {
		o.Total = *p.Total
	}
	if p.Status != nil {
		o.Status = *p.Status
	}
	if p.IsAssistedOrder != nil {
		o.IsAssistedOrder = *p.IsAssistedOrder
	}
	if p.CreatedAt != nil {
		o.CreatedAt = *p.CreatedAt
	}
}

package feed

import (
	"encoding/json"
	"fmt"
	"time"

	"swizzle-client/internal/models"
	"swizzle-client/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Dispatcher routes raw push events into the board and notification tray.
// Every transport feeds the same entry point, so redeliveries and
// duplicate subscriptions converge on identical board state.
type Dispatcher struct {
	board         *Board
	notifications *NotificationCenter
	logger        *zap.Logger
}

// NewDispatcher creates a dispatcher. notifications may be nil when no
// tray is in play.
func NewDispatcher(board *Board, notifications *NotificationCenter) *Dispatcher {
	return &Dispatcher{
		board:         board,
		notifications: notifications,
		logger:        util.GetLogger(),
	}
}

// HandleRaw parses one wire message and applies it. Malformed envelopes
// and unknown event names are counted and dropped, never fatal; the feed
// must survive whatever the server grows next.
func (d *Dispatcher) HandleRaw(value []byte) error {
	var event models.PushEvent
	if err := json.Unmarshal(value, &event); err != nil {
		util.FeedEventsTotal.WithLabelValues("unknown", "malformed").Inc()
		return fmt.Errorf("failed to unmarshal push event: %w", err)
	}

	switch event.Event {
	case models.EventOrderNew:
		return d.handleOrderNew(event.Payload)
	case models.EventOrderUpdated:
		return d.handleOrderUpdated(event.Payload)
	default:
		util.FeedEventsTotal.WithLabelValues(event.Event, "unknown").Inc()
		d.logger.Debug("Ignoring unknown push event", zap.String("event", event.Event))
		return nil
	}
}

func (d *Dispatcher) handleOrderNew(payload json.RawMessage) error {
	var order models.Order
	if err := json.Unmarshal(payload, &order); err != nil {
		util.FeedEventsTotal.WithLabelValues(models.EventOrderNew, "malformed").Inc()
		return fmt.Errorf("failed to unmarshal order:new payload: %w", err)
	}
	if order.ID == "" {
		util.FeedEventsTotal.WithLabelValues(models.EventOrderNew, "malformed").Inc()
		return fmt.Errorf("order:new payload has no order id")
	}

	d.board.ApplyNew(order)
	util.FeedEventsTotal.WithLabelValues(models.EventOrderNew, "applied").Inc()

	if d.notifications != nil {
		d.notifications.Push(Notification{
			ID:          uuid.New().String(),
			OrderID:     order.ID,
			OrderNumber: order.OrderNumber,
			Message:     fmt.Sprintf("New order #%s received", order.OrderNumber),
			CreatedAt:   time.Now(),
		})
	}

	d.logger.Info("Order added to board",
		zap.String("order_id", order.ID),
		zap.String("order_number", order.OrderNumber))
	return nil
}

func (d *Dispatcher) handleOrderUpdated(payload json.RawMessage) error {
	var patch models.OrderPatch
	if err := json.Unmarshal(payload, &patch); err != nil {
		util.FeedEventsTotal.WithLabelValues(models.EventOrderUpdated, "malformed").Inc()
		return fmt.Errorf("failed to unmarshal order:updated payload: %w", err)
	}
	if patch.ID == "" {
		util.FeedEventsTotal.WithLabelValues(models.EventOrderUpdated, "malformed").Inc()
		return fmt.Errorf("order:updated payload has no order id")
	}

	if !d.board.ApplyUpdated(patch) {
		// An update for an order the board never saw. Likely created
		// before this session started; skip rather than fabricate.
		util.FeedEventsTotal.WithLabelValues(models.EventOrderUpdated, "ignored").Inc()
		d.logger.Debug("Update for unknown order ignored", zap.String("order_id", patch.ID))
		return nil
	}

	util.FeedEventsTotal.WithLabelValues(models.EventOrderUpdated, "applied").Inc()
	return nil
}

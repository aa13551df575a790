// Package notify dispatches post-commit side effects: an append-only event
// log write and a receipt call. Both are best-effort; their failure is logged
// and swallowed, never surfaced to the ordering flow. Order durability must
// not depend on either downstream system.
package notify

import (
	"context"
	"time"

	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/forkline/storefront/internal/domain/checkout"
	"github.com/forkline/storefront/internal/domain/order"
	"github.com/forkline/storefront/pkg/retry"
)

// EventPaymentAuthorised is recorded in the event log after a successful
// order commit.
const EventPaymentAuthorised = "PAYMENT_AUTHORISED"

// Event is one append-only record of an order lifecycle event.
type Event struct {
	OrderID   int64
	UserEmail string
	Event     string
	Payload   map[string]any
	CreatedAt time.Time
}

// EventLogger appends events to a durable document sink. Implementations may
// be transiently unavailable; the dispatcher retries.
type EventLogger interface {
	Append(ctx context.Context, ev Event) (id string, err error)
}

// Receipt is the payload sent to the receipt endpoint.
type Receipt struct {
	OrderID int64   `json:"order_id"`
	Email   string  `json:"email"`
	Total   float64 `json:"total"`
}

// ReceiptSender delivers a receipt request. Fire-and-forget: no retry.
type ReceiptSender interface {
	Send(ctx context.Context, r Receipt) error
}

// Dispatcher fans out post-commit notifications. A nil EventLogger or
// ReceiptSender disables that channel (the corresponding endpoint was not
// configured), which is not an error.
type Dispatcher struct {
	events   EventLogger
	receipts ReceiptSender
	retry    retry.Policy
}

// NewDispatcher creates a Dispatcher. Either sink may be nil to disable it.
func NewDispatcher(events EventLogger, receipts ReceiptSender, policy retry.Policy) *Dispatcher {
	return &Dispatcher{
		events:   events,
		receipts: receipts,
		retry:    policy,
	}
}

// OrderPlaced records the PAYMENT_AUTHORISED event and requests a receipt for
// a freshly committed order. It never returns an error: the commit already
// happened, so every failure here is logged and dropped.
func (d *Dispatcher) OrderPlaced(ctx context.Context, o *order.Order, email string, delivery *checkout.DeliveryDetails) {
	lg := zctx.From(ctx)

	d.logEvent(ctx, lg, o, email, delivery)
	d.sendReceipt(ctx, lg, o, email)
}

func (d *Dispatcher) logEvent(ctx context.Context, lg *zap.Logger, o *order.Order, email string, delivery *checkout.DeliveryDetails) {
	if d.events == nil {
		lg.Debug("Event log sink not configured, skipping")
		return
	}

	ev := Event{
		OrderID:   o.ID,
		UserEmail: email,
		Event:     EventPaymentAuthorised,
		Payload:   deliveryPayload(delivery),
		CreatedAt: time.Now().UTC(),
	}

	err := d.retry.Do(ctx, func(ctx context.Context) error {
		id, err := d.events.Append(ctx, ev)
		if err != nil {
			lg.Warn("Event log write failed",
				zap.Int64("order_id", o.ID),
				zap.Error(err),
			)
			return err
		}
		lg.Info("Event log write succeeded",
			zap.Int64("order_id", o.ID),
			zap.String("doc_id", id),
		)
		return nil
	})
	if err != nil {
		lg.Error("Event log write gave up",
			zap.Int64("order_id", o.ID),
			zap.Error(err),
		)
	}
}

func (d *Dispatcher) sendReceipt(ctx context.Context, lg *zap.Logger, o *order.Order, email string) {
	if d.receipts == nil {
		lg.Debug("Receipt sink not configured, skipping")
		return
	}

	r := Receipt{
		OrderID: o.ID,
		Email:   email,
		Total:   o.Total.InexactFloat64(),
	}
	if err := d.receipts.Send(ctx, r); err != nil {
		lg.Error("Receipt call failed",
			zap.Int64("order_id", o.ID),
			zap.Error(err),
		)
		return
	}
	lg.Info("Receipt requested", zap.Int64("order_id", o.ID))
}

func deliveryPayload(d *checkout.DeliveryDetails) map[string]any {
	if d == nil {
		return map[string]any{}
	}
	return map[string]any{
		"delivery": map[string]any{
			"full_name": d.FullName,
			"phone":     d.Phone,
			"address1":  d.Address1,
			"address2":  d.Address2,
			"city":      d.City,
			"postcode":  d.Postcode,
		},
	}
}

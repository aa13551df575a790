package notify

import (
	"context"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forkline/storefront/internal/domain/checkout"
	"github.com/forkline/storefront/internal/domain/order"
	"github.com/forkline/storefront/pkg/retry"
)

// --- Mock implementations ---

type mockEventLog struct {
	events  []Event
	failFor int // number of leading Append calls that fail
	calls   int
}

func (m *mockEventLog) Append(_ context.Context, ev Event) (string, error) {
	m.calls++
	if m.calls <= m.failFor {
		return "", errors.New("sink unavailable")
	}
	m.events = append(m.events, ev)
	return "doc-1", nil
}

type mockReceiptSender struct {
	receipts []Receipt
	err      error
}

func (m *mockReceiptSender) Send(_ context.Context, r Receipt) error {
	if m.err != nil {
		return m.err
	}
	m.receipts = append(m.receipts, r)
	return nil
}

// --- Helpers ---

func testPolicy() retry.Policy {
	return retry.Policy{Attempts: 3, Delay: time.Second, Sleep: func(time.Duration) {}}
}

func testOrder() *order.Order {
	return &order.Order{
		ID:     42,
		UserID: 7,
		Status: order.StatusPlaced,
		Total:  decimal.RequireFromString("19.00"),
	}
}

func testDelivery() *checkout.DeliveryDetails {
	return &checkout.DeliveryDetails{
		FullName: "Ada Lovelace",
		Phone:    "07700 900123",
		Address1: "1 High Street",
		City:     "London",
		Postcode: "SW1A 1AA",
	}
}

// --- Tests ---

func TestOrderPlaced_LogsEventAndSendsReceipt(t *testing.T) {
	events := &mockEventLog{}
	receipts := &mockReceiptSender{}
	d := NewDispatcher(events, receipts, testPolicy())

	d.OrderPlaced(context.Background(), testOrder(), "ada@example.com", testDelivery())

	require.Len(t, events.events, 1)
	ev := events.events[0]
	assert.Equal(t, int64(42), ev.OrderID)
	assert.Equal(t, "ada@example.com", ev.UserEmail)
	assert.Equal(t, EventPaymentAuthorised, ev.Event)
	assert.False(t, ev.CreatedAt.IsZero())

	delivery, ok := ev.Payload["delivery"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "SW1A 1AA", delivery["postcode"])

	require.Len(t, receipts.receipts, 1)
	assert.Equal(t, int64(42), receipts.receipts[0].OrderID)
	assert.Equal(t, "ada@example.com", receipts.receipts[0].Email)
	assert.InDelta(t, 19.00, receipts.receipts[0].Total, 0.001)
}

func TestOrderPlaced_RetriesEventLog(t *testing.T) {
	var slept []time.Duration
	policy := retry.Policy{Attempts: 3, Delay: time.Second, Sleep: func(d time.Duration) {
		slept = append(slept, d)
	}}
	events := &mockEventLog{failFor: 2}
	d := NewDispatcher(events, nil, policy)

	d.OrderPlaced(context.Background(), testOrder(), "ada@example.com", testDelivery())

	assert.Equal(t, 3, events.calls)
	require.Len(t, events.events, 1)
	assert.Equal(t, []time.Duration{1 * time.Second, 2 * time.Second}, slept)
}

func TestOrderPlaced_EventLogExhaustionSwallowed(t *testing.T) {
	events := &mockEventLog{failFor: 10}
	receipts := &mockReceiptSender{}
	d := NewDispatcher(events, receipts, testPolicy())

	// Must not panic or surface the sink failure.
	d.OrderPlaced(context.Background(), testOrder(), "ada@example.com", testDelivery())

	assert.Equal(t, 3, events.calls)
	assert.Empty(t, events.events)
	// The receipt channel is independent of the event log.
	assert.Len(t, receipts.receipts, 1)
}

func TestOrderPlaced_ReceiptFailureSwallowed(t *testing.T) {
	events := &mockEventLog{}
	receipts := &mockReceiptSender{err: errors.New("endpoint down")}
	d := NewDispatcher(events, receipts, testPolicy())

	d.OrderPlaced(context.Background(), testOrder(), "ada@example.com", testDelivery())

	assert.Len(t, events.events, 1)
	assert.Empty(t, receipts.receipts)
}

func TestOrderPlaced_NilSinksDisabled(t *testing.T) {
	d := NewDispatcher(nil, nil, testPolicy())

	// Unconfigured sinks are skipped, not errors.
	d.OrderPlaced(context.Background(), testOrder(), "ada@example.com", nil)
}

func TestOrderPlaced_NilDeliveryPayload(t *testing.T) {
	events := &mockEventLog{}
	d := NewDispatcher(events, nil, testPolicy())

	d.OrderPlaced(context.Background(), testOrder(), "ada@example.com", nil)

	require.Len(t, events.events, 1)
	assert.Empty(t, events.events[0].Payload)
}

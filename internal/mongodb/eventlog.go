// Package mongodb implements the order event log on MongoDB: an append-only
// collection of order lifecycle documents. The sink is not a transactional
// participant in order commit; callers retry transient failures and tolerate
// permanent ones.
package mongodb

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/forkline/storefront/internal/notify"
)

// eventCollection is the append-only collection order events land in.
const eventCollection = "order_events"

// eventDocument is the stored shape of one order event.
type eventDocument struct {
	OrderID   int64          `bson:"order_id"`
	UserEmail string         `bson:"user_email"`
	Event     string         `bson:"event"`
	Payload   map[string]any `bson:"payload"`
	CreatedAt time.Time      `bson:"created_at"`
}

var _ notify.EventLogger = (*EventLog)(nil)

// EventLog appends order events to MongoDB.
type EventLog struct {
	client *mongo.Client
	col    *mongo.Collection
}

// New connects to MongoDB and returns an EventLog writing to the given
// database. The connection is verified with a ping so misconfiguration
// surfaces at startup, not at first order.
func New(ctx context.Context, uri, database string) (*EventLog, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Client().ApplyURI(uri).
		SetConnectTimeout(5 * time.Second).
		SetServerSelectionTimeout(5 * time.Second)

	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return nil, errors.Wrap(err, "connect")
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(err, "ping")
	}

	return &EventLog{
		client: client,
		col:    client.Database(database).Collection(eventCollection),
	}, nil
}

// Append writes one event document and returns its generated id.
func (e *EventLog) Append(ctx context.Context, ev notify.Event) (string, error) {
	doc := eventDocument{
		OrderID:   ev.OrderID,
		UserEmail: ev.UserEmail,
		Event:     ev.Event,
		Payload:   ev.Payload,
		CreatedAt: ev.CreatedAt,
	}

	res, err := e.col.InsertOne(ctx, doc)
	if err != nil {
		return "", errors.Wrap(err, "insert event")
	}

	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		return oid.Hex(), nil
	}
	return "", nil
}

// Ping reports sink reachability, used by the readiness probe.
func (e *EventLog) Ping(ctx context.Context) error {
	return e.client.Ping(ctx, nil)
}

// Close disconnects from MongoDB.
func (e *EventLog) Close(ctx context.Context) error {
	return e.client.Disconnect(ctx)
}

package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/threadline/storefront/internal/core/domain"
	"github.com/threadline/storefront/internal/core/ports"
)

const orderEventsCollection = "order_events"

// EventRepository implements ports.OrderEventRepository using MongoDB.
type EventRepository struct {
	col *mongo.Collection
}

// NewEventRepository creates a new EventRepository.
func NewEventRepository(db *mongo.Database) ports.OrderEventRepository {
	return &EventRepository{col: db.Collection(orderEventsCollection)}
}

// InsertEvent appends an order event to the order_events audit collection.
func (r *EventRepository) InsertEvent(ctx context.Context, event *domain.OrderEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := bson.M{
		"order_id":     event.OrderID,
		"user_id":      event.UserID,
		"type":         string(event.Type),
		"status":       string(event.Status),
		"timestamp":    event.At.UTC(),
		"processed_at": time.Now().UTC(),
	}
	_, err := r.col.InsertOne(ctx, doc)
	return err
}

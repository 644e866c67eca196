package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fissaa/marketplace-api/internal/core/domain"
	"github.com/fissaa/marketplace-api/internal/core/ports"
)

const collectionBookingEvents = "booking_events"

// BookingEventRepository stores the booking audit trail, one document per
// lifecycle change.
type BookingEventRepository struct {
	col *mongo.Collection
}

var _ ports.BookingEventRepository = (*BookingEventRepository)(nil)

func NewBookingEventRepository(db *mongo.Database) *BookingEventRepository {
	return &BookingEventRepository{col: db.Collection(collectionBookingEvents)}
}

// InsertEvent appends an event to the audit trail.
func (r *BookingEventRepository) InsertEvent(ctx context.Context, event *domain.BookingEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := bson.M{
		"booking_id":  event.BookingID,
		"status":      string(event.Status),
		"actor_id":    event.ActorID,
		"actor_role":  event.ActorRole,
		"occurred_at": event.OccurredAt.UTC(),
		"recorded_at": time.Now().UTC(),
	}

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert booking event: %w", err)
	}
	return nil
}

// ListEvents returns the events of a booking, oldest first.
func (r *BookingEventRepository) ListEvents(ctx context.Context, bookingID string) ([]*domain.BookingEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "occurred_at", Value: 1}})
	cur, err := r.col.Find(ctx, bson.M{"booking_id": bookingID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find booking events: %w", err)
	}
	defer cur.Close(ctx)

	events := make([]*domain.BookingEvent, 0)
	if err := cur.All(ctx, &events); err != nil {
		return nil, fmt.Errorf("decode booking events: %w", err)
	}
	return events, nil
}

// EnsureIndexes creates the lookup index used by ListEvents.
func (r *BookingEventRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "booking_id", Value: 1}, {Key: "occurred_at", Value: 1}},
	})
	return err
}

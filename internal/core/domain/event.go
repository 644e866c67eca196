package domain

import "time"

// BookingEvent is one entry of a booking's audit trail, written after every
// successful creation, transition or cancellation.
type BookingEvent struct {
	BookingID  string        `json:"booking_id" bson:"booking_id"`
	Status     BookingStatus `json:"status" bson:"status"`
	ActorID    string        `json:"actor_id" bson:"actor_id"`
	ActorRole  string        `json:"actor_role" bson:"actor_role"`
	OccurredAt time.Time     `json:"occurred_at" bson:"occurred_at"`
}

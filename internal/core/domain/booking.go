package domain

import "time"

// BookingStatus represents the lifecycle state of a booking.
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
)

// validTransitions defines the allowed state machine transitions. Completed
// and cancelled are terminal.
var validTransitions = map[BookingStatus][]BookingStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
}

// Valid reports whether s is one of the four known statuses.
func (s BookingStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no transition leaves s.
func (s BookingStatus) Terminal() bool {
	return len(validTransitions[s]) == 0
}

// CanTransitionTo reports whether a transition from current status to next is valid.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// TransitionSources lists every status that may move to next, in a stable
// order. Used to build conditional updates.
func TransitionSources(next BookingStatus) []BookingStatus {
	var out []BookingStatus
	for _, from := range []BookingStatus{StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled} {
		if from.CanTransitionTo(next) {
			out = append(out, from)
		}
	}
	return out
}

// CancelSources lists the statuses a client may cancel from. Cancelling an
// already cancelled booking is accepted as a no-op; completed work cannot be
// cancelled.
func CancelSources() []BookingStatus {
	return []BookingStatus{StatusPending, StatusConfirmed, StatusCancelled}
}

// Booking is the core aggregate root.
type Booking struct {
	ID             string        `json:"id"`
	ClientID       string        `json:"client_id"`
	ArtisanID      string        `json:"artisan_id"`
	ServiceType    *string       `json:"service_type"`
	Description    *string       `json:"description"`
	ScheduledDate  time.Time     `json:"scheduled_date"`
	Address        string        `json:"address"`
	EstimatedHours *float64      `json:"estimated_hours"`
	EstimatedPrice *float64      `json:"estimated_price"`
	FinalPrice     *float64      `json:"final_price"`
	Status         BookingStatus `json:"status"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// BookingArtisan is the artisan side of an enriched booking.
type BookingArtisan struct {
	UserID          string   `json:"user_id"`
	Profession      string   `json:"profession"`
	HourlyRate      *float64 `json:"hourly_rate"`
	ProfileImageURL *string  `json:"profile_image_url"`
	Contact
}

// BookingView is a booking enriched with the parties' public fields. Listings
// only fill the counterpart of the caller; single reads fill both.
type BookingView struct {
	Booking
	Client  *Contact        `json:"client,omitempty"`
	Artisan *BookingArtisan `json:"artisan,omitempty"`
}

// Involves reports whether userID is the booking's client or owning artisan.
func (v *BookingView) Involves(userID string) bool {
	if v.ClientID == userID {
		return true
	}
	return v.Artisan != nil && v.Artisan.UserID == userID
}

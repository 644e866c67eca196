package domain

import "time"

const (
	RoleClient  = "client"
	RoleArtisan = "artisan"
)

// ValidRole reports whether role can be assigned at registration.
func ValidRole(role string) bool {
	return role == RoleClient || role == RoleArtisan
}

// User models an authenticated actor in the system. Role never changes after
// registration.
type User struct {
	ID           string    `json:"id"`
	Phone        string    `json:"phone"`
	Name         string    `json:"name"`
	Email        *string   `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// Contact is the public part of a user shown next to bookings, profiles and
// reviews.
type Contact struct {
	Name  string  `json:"name"`
	Phone string  `json:"phone"`
	Email *string `json:"email,omitempty"`
}

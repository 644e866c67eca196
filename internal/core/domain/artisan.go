package domain

import "time"

// ArtisanProfile is the service-provider side of an artisan user. Rating and
// TotalReviews are derived from the review set on every read.
type ArtisanProfile struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	Profession      string    `json:"profession"`
	Bio             *string   `json:"bio"`
	HourlyRate      *float64  `json:"hourly_rate"`
	ExperienceYears *int      `json:"experience_years"`
	City            string    `json:"city"`
	Address         *string   `json:"address"`
	ProfileImageURL *string   `json:"profile_image_url"`
	Available       bool      `json:"available"`
	Rating          float64   `json:"rating"`
	TotalReviews    int       `json:"total_reviews"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ArtisanListing is a profile joined with its owner's contact fields.
type ArtisanListing struct {
	ArtisanProfile
	Contact
}

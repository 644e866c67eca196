package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	MinRating = 1
	MaxRating = 5
)

// ValidRating reports whether r is an integer star value in [1,5].
func ValidRating(r int) bool {
	return r >= MinRating && r <= MaxRating
}

// Review is a client's rating of a completed booking. ArtisanID is copied from
// the booking at creation.
type Review struct {
	ID        string    `json:"id"`
	BookingID string    `json:"booking_id"`
	ClientID  string    `json:"client_id"`
	ArtisanID string    `json:"artisan_id"`
	Rating    int       `json:"rating"`
	Comment   *string   `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

// ReviewView is a review enriched for listings. Which optional fields are set
// depends on the listing: artisan pages carry ClientName, the author's own
// listing carries the artisan fields.
type ReviewView struct {
	Review
	ServiceType *string `json:"service_type"`
	ClientName  string  `json:"client_name,omitempty"`
	Profession  string  `json:"profession,omitempty"`
	ArtisanName string  `json:"artisan_name,omitempty"`
}

// RatingSummary aggregates an artisan's reviews.
type RatingSummary struct {
	TotalReviews  int     `json:"total_reviews"`
	AverageRating float64 `json:"average_rating"`
	FiveStars     int     `json:"five_stars"`
	FourStars     int     `json:"four_stars"`
	ThreeStars    int     `json:"three_stars"`
	TwoStars      int     `json:"two_stars"`
	OneStar       int     `json:"one_star"`
}

// SummarizeRatings counts ratings per star and averages them, rounded to one
// decimal half away from zero. Out-of-range values are ignored.
func SummarizeRatings(ratings []int) RatingSummary {
	var s RatingSummary
	var sum int64
	for _, r := range ratings {
		switch r {
		case 5:
			s.FiveStars++
		case 4:
			s.FourStars++
		case 3:
			s.ThreeStars++
		case 2:
			s.TwoStars++
		case 1:
			s.OneStar++
		default:
			continue
		}
		s.TotalReviews++
		sum += int64(r)
	}
	if s.TotalReviews == 0 {
		return s
	}

	avg := decimal.NewFromInt(sum).
		DivRound(decimal.NewFromInt(int64(s.TotalReviews)), 8).
		Round(1)
	s.AverageRating = avg.InexactFloat64()
	return s
}

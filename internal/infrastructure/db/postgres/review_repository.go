package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fissaa/marketplace-api/internal/core/domain"
	"github.com/fissaa/marketplace-api/internal/core/ports"
)

const reviewColumns = `r.id, r.booking_id, r.client_id, r.artisan_id, r.rating, r.comment, r.created_at`

type ReviewRepository struct {
	db *pgxpool.Pool
}

var _ ports.ReviewRepository = (*ReviewRepository)(nil)

func NewReviewRepository(db *pgxpool.Pool) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Create inserts the review. The unique index on booking_id is the single
// enforcement point for one review per booking.
func (r *ReviewRepository) Create(ctx context.Context, rv *domain.Review) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	const q = `
		INSERT INTO reviews (id, booking_id, client_id, artisan_id, rating, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.Exec(ctx, q, rv.ID, rv.BookingID, rv.ClientID, rv.ArtisanID, rv.Rating, rv.Comment, rv.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrReviewExists
		}
		if isForeignKeyViolation(err) {
			return domain.ErrBookingNotFound
		}
		return fmt.Errorf("insert review: %w", err)
	}
	return nil
}

// ListForArtisan returns an artisan's reviews with the author's name, newest first.
func (r *ReviewRepository) ListForArtisan(ctx context.Context, artisanID string) ([]*domain.ReviewView, error) {
	const q = `
		SELECT ` + reviewColumns + `, b.service_type, u.name
		FROM reviews r
		JOIN users u    ON u.id = r.client_id
		JOIN bookings b ON b.id = r.booking_id
		WHERE r.artisan_id = $1
		ORDER BY r.created_at DESC`

	return r.list(ctx, q, artisanID, func(v *domain.ReviewView) []any {
		return []any{&v.ServiceType, &v.ClientName}
	})
}

// ListForClient returns the reviews a client wrote with the artisan's
// profession and name, newest first.
func (r *ReviewRepository) ListForClient(ctx context.Context, clientID string) ([]*domain.ReviewView, error) {
	const q = `
		SELECT ` + reviewColumns + `, b.service_type, a.profession, u.name
		FROM reviews r
		JOIN artisans a ON a.id = r.artisan_id
		JOIN users u    ON u.id = a.user_id
		JOIN bookings b ON b.id = r.booking_id
		WHERE r.client_id = $1
		ORDER BY r.created_at DESC`

	return r.list(ctx, q, clientID, func(v *domain.ReviewView) []any {
		return []any{&v.ServiceType, &v.Profession, &v.ArtisanName}
	})
}

// Update applies the supplied fields to a review owned by clientID. Nil
// arguments keep the stored value.
func (r *ReviewRepository) Update(ctx context.Context, id, clientID string, rating *int, comment *string) (*domain.Review, error) {
	if !validID(id) || !validID(clientID) {
		return nil, domain.ErrReviewNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	const q = `
		UPDATE reviews r
		SET rating  = COALESCE($1, r.rating),
		    comment = COALESCE($2, r.comment)
		WHERE r.id = $3 AND r.client_id = $4
		RETURNING ` + reviewColumns

	var rv domain.Review
	err := r.db.QueryRow(ctx, q, rating, comment, id, clientID).Scan(
		&rv.ID, &rv.BookingID, &rv.ClientID, &rv.ArtisanID, &rv.Rating, &rv.Comment, &rv.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrReviewNotFound
		}
		return nil, fmt.Errorf("update review: %w", err)
	}
	return &rv, nil
}

func (r *ReviewRepository) Delete(ctx context.Context, id, clientID string) error {
	if !validID(id) || !validID(clientID) {
		return domain.ErrReviewNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	tag, err := r.db.Exec(ctx, `DELETE FROM reviews WHERE id = $1 AND client_id = $2`, id, clientID)
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrReviewNotFound
	}
	return nil
}

// list runs q for one owner id. extra returns the destinations of the
// columns selected after reviewColumns.
func (r *ReviewRepository) list(ctx context.Context, q, ownerID string, extra func(*domain.ReviewView) []any) ([]*domain.ReviewView, error) {
	out := make([]*domain.ReviewView, 0)
	if !validID(ownerID) {
		return out, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := r.db.Query(ctx, q, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var v domain.ReviewView
		dest := append([]any{
			&v.ID, &v.BookingID, &v.ClientID, &v.ArtisanID, &v.Rating, &v.Comment, &v.CreatedAt,
		}, extra(&v)...)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		out = append(out, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return out, nil
}

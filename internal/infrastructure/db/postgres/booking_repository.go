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

const bookingColumns = `b.id, b.client_id, b.artisan_id, b.service_type, b.description, b.scheduled_date,
	b.address, b.estimated_hours::float8, b.estimated_price::float8, b.final_price::float8,
	b.status, b.created_at, b.updated_at`

// bookingViewSelect enriches bookings with both parties' public fields.
const bookingViewSelect = `
	SELECT ` + bookingColumns + `,
	       c.name, c.phone, c.email,
	       a.user_id, a.profession, a.hourly_rate::float8, a.profile_image_url,
	       u.name, u.phone, u.email
	FROM bookings b
	JOIN users c    ON c.id = b.client_id
	JOIN artisans a ON a.id = b.artisan_id
	JOIN users u    ON u.id = a.user_id`

type BookingRepository struct {
	db *pgxpool.Pool
}

var _ ports.BookingRepository = (*BookingRepository)(nil)

func NewBookingRepository(db *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{db: db}
}

// Create inserts the booking only if its artisan is available at insert time.
func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	if !validID(b.ArtisanID) {
		return domain.ErrArtisanNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	const q = `
		INSERT INTO bookings (id, client_id, artisan_id, service_type, description, scheduled_date,
		                      address, estimated_hours, estimated_price, status, created_at, updated_at)
		SELECT $1::uuid, $2::uuid, a.id, $4::varchar, $5::text, $6::timestamptz, $7::text,
		       $8::numeric, $9::numeric, $10::varchar, $11::timestamptz, $11::timestamptz
		FROM artisans a
		WHERE a.id = $3 AND a.available`

	tag, err := r.db.Exec(ctx, q,
		b.ID, b.ClientID, b.ArtisanID, b.ServiceType, b.Description, b.ScheduledDate,
		b.Address, b.EstimatedHours, b.EstimatedPrice, string(b.Status), b.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("insert booking: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrArtisanOffline
	}
	return nil
}

func (r *BookingRepository) FindByID(ctx context.Context, id string) (*domain.BookingView, error) {
	if !validID(id) {
		return nil, domain.ErrBookingNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	v, err := scanBookingView(r.db.QueryRow(ctx, bookingViewSelect+` WHERE b.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBookingNotFound
		}
		return nil, fmt.Errorf("select booking: %w", err)
	}
	return v, nil
}

func (r *BookingRepository) FindForClient(ctx context.Context, id, clientID string) (*domain.Booking, error) {
	if !validID(id) || !validID(clientID) {
		return nil, domain.ErrBookingNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	const q = `SELECT ` + bookingColumns + ` FROM bookings b WHERE b.id = $1 AND b.client_id = $2`

	b, err := scanBooking(r.db.QueryRow(ctx, q, id, clientID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBookingNotFound
		}
		return nil, fmt.Errorf("select booking: %w", err)
	}
	return b, nil
}

// ListForClient returns the client's bookings with the artisan side filled.
func (r *BookingRepository) ListForClient(ctx context.Context, clientID string) ([]*domain.BookingView, error) {
	views, err := r.list(ctx, bookingViewSelect+` WHERE b.client_id = $1 ORDER BY b.scheduled_date DESC`, clientID)
	for _, v := range views {
		v.Client = nil
	}
	return views, err
}

// ListForArtisanUser returns the bookings on the user's profile with the
// client side filled.
func (r *BookingRepository) ListForArtisanUser(ctx context.Context, userID string) ([]*domain.BookingView, error) {
	views, err := r.list(ctx, bookingViewSelect+` WHERE a.user_id = $1 ORDER BY b.scheduled_date DESC`, userID)
	for _, v := range views {
		v.Artisan = nil
	}
	return views, err
}

func (r *BookingRepository) list(ctx context.Context, q, arg string) ([]*domain.BookingView, error) {
	out := make([]*domain.BookingView, 0)
	if !validID(arg) {
		return out, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := r.db.Query(ctx, q, arg)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		v, err := scanBookingView(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return out, nil
}

// UpdateStatus is a single conditional UPDATE: ownership and the allowed
// source statuses are both part of the WHERE clause. When nothing matches, a
// scoped read tells a foreign or missing booking from a wrong status.
func (r *BookingRepository) UpdateStatus(ctx context.Context, id string, scope ports.BookingScope, next domain.BookingStatus, from []domain.BookingStatus) (*domain.Booking, error) {
	owner, ownerArg, ok := scopeClause(scope, 4)
	if !ok || !validID(id) {
		return nil, domain.ErrBookingNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	q := `
		UPDATE bookings b
		SET status = $1, updated_at = NOW()
		WHERE b.id = $2 AND b.status = ANY($3) AND ` + owner + `
		RETURNING ` + bookingColumns

	b, err := scanBooking(r.db.QueryRow(ctx, q, string(next), id, statusStrings(from), ownerArg))
	if err == nil {
		return b, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("update booking status: %w", err)
	}

	owner, _, _ = scopeClause(scope, 2)
	var current string
	err = r.db.QueryRow(ctx, `SELECT b.status FROM bookings b WHERE b.id = $1 AND `+owner, id, ownerArg).Scan(&current)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read booking status: %w", err)
	}
	return nil, domain.ErrInvalidTransition
}

func (r *BookingRepository) SetFinalPrice(ctx context.Context, id string, scope ports.BookingScope, price float64) (*domain.Booking, error) {
	owner, ownerArg, ok := scopeClause(scope, 3)
	if !ok || !validID(id) {
		return nil, domain.ErrBookingNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	q := `
		UPDATE bookings b
		SET final_price = $1, updated_at = NOW()
		WHERE b.id = $2 AND ` + owner + `
		RETURNING ` + bookingColumns

	b, err := scanBooking(r.db.QueryRow(ctx, q, price, id, ownerArg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBookingNotFound
		}
		return nil, fmt.Errorf("set final price: %w", err)
	}
	return b, nil
}

// scopeClause renders the ownership predicate for a write, using placeholder
// $n for the owner id. ok is false for an empty or malformed scope, which
// must never match.
func scopeClause(scope ports.BookingScope, n int) (clause string, arg string, ok bool) {
	switch {
	case scope.ClientID != "":
		return fmt.Sprintf("b.client_id = $%d", n), scope.ClientID, validID(scope.ClientID)
	case scope.ArtisanUserID != "":
		return fmt.Sprintf("EXISTS (SELECT 1 FROM artisans a WHERE a.id = b.artisan_id AND a.user_id = $%d)", n),
			scope.ArtisanUserID, validID(scope.ArtisanUserID)
	default:
		return "", "", false
	}
}

func statusStrings(in []domain.BookingStatus) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = string(s)
	}
	return out
}

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var b domain.Booking
	var status string
	err := row.Scan(
		&b.ID, &b.ClientID, &b.ArtisanID, &b.ServiceType, &b.Description, &b.ScheduledDate,
		&b.Address, &b.EstimatedHours, &b.EstimatedPrice, &b.FinalPrice,
		&status, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	b.Status = domain.BookingStatus(status)
	return &b, nil
}

func scanBookingView(row pgx.Row) (*domain.BookingView, error) {
	var (
		v       domain.BookingView
		client  domain.Contact
		artisan domain.BookingArtisan
		status  string
	)
	err := row.Scan(
		&v.ID, &v.ClientID, &v.ArtisanID, &v.ServiceType, &v.Description, &v.ScheduledDate,
		&v.Address, &v.EstimatedHours, &v.EstimatedPrice, &v.FinalPrice,
		&status, &v.CreatedAt, &v.UpdatedAt,
		&client.Name, &client.Phone, &client.Email,
		&artisan.UserID, &artisan.Profession, &artisan.HourlyRate, &artisan.ProfileImageURL,
		&artisan.Name, &artisan.Phone, &artisan.Email,
	)
	if err != nil {
		return nil, err
	}
	v.Status = domain.BookingStatus(status)
	v.Client = &client
	v.Artisan = &artisan
	return &v, nil
}

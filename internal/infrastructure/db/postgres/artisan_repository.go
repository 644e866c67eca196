package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fissaa/marketplace-api/internal/core/domain"
	"github.com/fissaa/marketplace-api/internal/core/ports"
)

// artisanSelect joins every profile with its owner and with the aggregate of
// its reviews, so rating and total_reviews are always derived on read.
const artisanSelect = `
	SELECT a.id, a.user_id, a.profession, a.bio, a.hourly_rate::float8, a.experience_years,
	       a.city, a.address, a.profile_image_url, a.available,
	       COALESCE(s.rating, 0), COALESCE(s.total_reviews, 0),
	       a.created_at, a.updated_at,
	       u.name, u.phone, u.email
	FROM artisans a
	JOIN users u ON u.id = a.user_id
	LEFT JOIN (
	    SELECT artisan_id,
	           ROUND(AVG(rating)::numeric, 1)::float8 AS rating,
	           COUNT(*)::int AS total_reviews
	    FROM reviews
	    GROUP BY artisan_id
	) s ON s.artisan_id = a.id`

const profileColumns = `id, user_id, profession, bio, hourly_rate::float8, experience_years,
	city, address, profile_image_url, available, created_at, updated_at`

type ArtisanRepository struct {
	db *pgxpool.Pool
}

var _ ports.ArtisanRepository = (*ArtisanRepository)(nil)

func NewArtisanRepository(db *pgxpool.Pool) *ArtisanRepository {
	return &ArtisanRepository{db: db}
}

// Upsert inserts the profile or overwrites the existing one of the same user
// in a single statement. available keeps its stored value on update.
func (r *ArtisanRepository) Upsert(ctx context.Context, p *domain.ArtisanProfile) (*domain.ArtisanProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	const q = `
		INSERT INTO artisans (user_id, profession, bio, hourly_rate, experience_years, city, address, profile_image_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id) DO UPDATE SET
		    profession        = EXCLUDED.profession,
		    bio               = EXCLUDED.bio,
		    hourly_rate       = EXCLUDED.hourly_rate,
		    experience_years  = EXCLUDED.experience_years,
		    city              = EXCLUDED.city,
		    address           = EXCLUDED.address,
		    profile_image_url = EXCLUDED.profile_image_url,
		    updated_at        = NOW()
		RETURNING ` + profileColumns

	var out domain.ArtisanProfile
	err := r.db.QueryRow(ctx, q,
		p.UserID, p.Profession, p.Bio, p.HourlyRate, p.ExperienceYears, p.City, p.Address, p.ProfileImageURL,
	).Scan(
		&out.ID, &out.UserID, &out.Profession, &out.Bio, &out.HourlyRate, &out.ExperienceYears,
		&out.City, &out.Address, &out.ProfileImageURL, &out.Available, &out.CreatedAt, &out.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("upsert artisan: %w", err)
	}
	return &out, nil
}

// List returns the profiles matching every supplied filter, best rated first.
func (r *ArtisanRepository) List(ctx context.Context, filter ports.ArtisanFilter) ([]*domain.ArtisanListing, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	where, args := artisanWhere(filter)
	q := artisanSelect + where + `
	ORDER BY COALESCE(s.rating, 0) DESC, COALESCE(s.total_reviews, 0) DESC, a.created_at DESC`

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list artisans: %w", err)
	}
	defer rows.Close()

	out := make([]*domain.ArtisanListing, 0)
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, fmt.Errorf("scan artisan: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *ArtisanRepository) FindByID(ctx context.Context, id string) (*domain.ArtisanListing, error) {
	if !validID(id) {
		return nil, domain.ErrArtisanNotFound
	}
	return r.findOne(ctx, artisanSelect+` WHERE a.id = $1`, id)
}

func (r *ArtisanRepository) FindByUserID(ctx context.Context, userID string) (*domain.ArtisanListing, error) {
	if !validID(userID) {
		return nil, domain.ErrArtisanNotFound
	}
	return r.findOne(ctx, artisanSelect+` WHERE a.user_id = $1`, userID)
}

// ToggleAvailability flips the flag relative to the stored value, so
// concurrent toggles never lose an update.
func (r *ArtisanRepository) ToggleAvailability(ctx context.Context, userID string) (bool, error) {
	if !validID(userID) {
		return false, domain.ErrArtisanNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	const q = `
		UPDATE artisans
		SET available = NOT available, updated_at = NOW()
		WHERE user_id = $1
		RETURNING available`

	var available bool
	if err := r.db.QueryRow(ctx, q, userID).Scan(&available); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, domain.ErrArtisanNotFound
		}
		return false, fmt.Errorf("toggle availability: %w", err)
	}
	return available, nil
}

func (r *ArtisanRepository) findOne(ctx context.Context, q string, arg string) (*domain.ArtisanListing, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	l, err := scanListing(r.db.QueryRow(ctx, q, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrArtisanNotFound
		}
		return nil, fmt.Errorf("select artisan: %w", err)
	}
	return l, nil
}

// artisanWhere builds the conjunction of the supplied filters with positional
// arguments. An empty filter yields no clause.
func artisanWhere(f ports.ArtisanFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if f.Profession != "" {
		add("a.profession = $%d", f.Profession)
	}
	if f.City != "" {
		add("a.city = $%d", f.City)
	}
	if f.MinRating != nil {
		add("COALESCE(s.rating, 0) >= $%d", *f.MinRating)
	}
	if f.Available != nil {
		add("a.available = $%d", *f.Available)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return "\n\tWHERE " + strings.Join(conds, " AND "), args
}

func scanListing(row pgx.Row) (*domain.ArtisanListing, error) {
	var l domain.ArtisanListing
	err := row.Scan(
		&l.ID, &l.UserID, &l.Profession, &l.Bio, &l.HourlyRate, &l.ExperienceYears,
		&l.City, &l.Address, &l.ProfileImageURL, &l.Available,
		&l.Rating, &l.TotalReviews,
		&l.CreatedAt, &l.UpdatedAt,
		&l.Name, &l.Phone, &l.Email,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

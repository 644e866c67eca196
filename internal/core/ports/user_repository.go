package ports

import (
	"context"

	"github.com/fissaa/marketplace-api/internal/core/domain"
)

// UserRepository defines the interface for identity persistence.
type UserRepository interface {
	// Create inserts the user and returns it with generated fields set.
	// Returns domain.ErrUserExists when the phone is already registered.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByPhone(ctx context.Context, phone string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
}

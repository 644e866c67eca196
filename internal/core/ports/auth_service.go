package ports

import (
	"context"

	"github.com/fissaa/marketplace-api/internal/core/domain"
)

// RegisterInput carries the registration form.
type RegisterInput struct {
	Phone    string
	Name     string
	Email    string
	Password string
	Role     string
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (string, *domain.User, error)
	Login(ctx context.Context, phone, password string) (string, *domain.User, error)
	Me(ctx context.Context, userID string) (*domain.User, error)
}

package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/fissaa/marketplace-api/internal/core/domain"
	"github.com/fissaa/marketplace-api/internal/core/ports"
)

// AuthService implements registration, login and self lookup.
type AuthService struct {
	repo   ports.UserRepository
	tokens *TokenIssuer
	log    zerolog.Logger
}

func NewAuthService(repo ports.UserRepository, tokens *TokenIssuer, log zerolog.Logger) *AuthService {
	return &AuthService{repo: repo, tokens: tokens, log: log}
}

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (string, *domain.User, error) {
	phone := strings.TrimSpace(in.Phone)
	name := strings.TrimSpace(in.Name)
	if phone == "" || name == "" || in.Password == "" || in.Role == "" {
		return "", nil, domain.Invalid("phone, name, password and role are required")
	}
	if !domain.ValidRole(in.Role) {
		return "", nil, domain.Invalid("role must be client or artisan")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, err
	}

	user := &domain.User{
		Phone:        phone,
		Name:         name,
		PasswordHash: string(hash),
		Role:         in.Role,
		CreatedAt:    time.Now().UTC(),
	}
	if email := strings.TrimSpace(in.Email); email != "" {
		user.Email = &email
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return "", nil, err
	}

	token, err := s.tokens.Issue(created)
	if err != nil {
		return "", nil, err
	}

	s.log.Info().Str("user_id", created.ID).Str("role", created.Role).Msg("user registered")
	return token, created, nil
}

// Login returns domain.ErrInvalidCredentials for both an unknown phone and a
// wrong password.
func (s *AuthService) Login(ctx context.Context, phone, password string) (string, *domain.User, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" || password == "" {
		return "", nil, domain.Invalid("phone and password are required")
	}

	user, err := s.repo.FindByPhone(ctx, phone)
	if errors.Is(err, domain.ErrUserNotFound) {
		return "", nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *AuthService) Me(ctx context.Context, userID string) (*domain.User, error) {
	return s.repo.FindByID(ctx, userID)
}

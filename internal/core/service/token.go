package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/fissaa/marketplace-api/internal/core/domain"
)

// DefaultTokenTTL is the session lifetime when none is configured.
const DefaultTokenTTL = 30 * 24 * time.Hour

// Claims is the verified identity carried by a session token.
type Claims struct {
	UserID string
	Role   string
}

// TokenIssuer signs and verifies HS256 session tokens. It holds no state
// besides the key, so a token stays valid until it expires.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue returns a signed token embedding the user's id and role.
func (t *TokenIssuer) Issue(user *domain.User) (string, error) {
	now := t.now()
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"role":    user.Role,
		"iat":     now.Unix(),
		"exp":     now.Add(t.ttl).Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(t.secret)
}

// Verify checks signature and expiry. Any failure is reported as
// domain.ErrUnauthenticated.
func (t *TokenIssuer) Verify(raw string) (Claims, error) {
	claims := jwt.MapClaims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return t.secret, nil
	}, jwt.WithExpirationRequired(), jwt.WithTimeFunc(t.now))
	if err != nil || !tok.Valid {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, errTokenExpired
		}
		return Claims{}, errTokenInvalid
	}

	userID, _ := claims["user_id"].(string)
	role, _ := claims["role"].(string)
	if userID == "" || role == "" {
		return Claims{}, errTokenInvalid
	}
	return Claims{UserID: userID, Role: role}, nil
}

var (
	errTokenInvalid = fmt.Errorf("%w: invalid token", domain.ErrUnauthenticated)
	errTokenExpired = fmt.Errorf("%w: token expired", domain.ErrUnauthenticated)
)

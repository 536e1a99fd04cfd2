package ports

import (
	"context"

	"github.com/threadline/storefront/internal/core/domain"
)

// Claims is the identity carried by a verified bearer token.
type Claims struct {
	UserID string
	Email  string
}

// RegisterInput carries the already-validated registration fields.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

type AuthService interface {
	// Register creates the account and returns a token for it.
	Register(ctx context.Context, input RegisterInput) (string, *domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
}

// TokenIssuer signs identity claims into a bearer token.
type TokenIssuer interface {
	Issue(userID, email string) (string, error)
}

// TokenVerifier validates a bearer token and returns its claims.
type TokenVerifier interface {
	Verify(token string) (*Claims, error)
}

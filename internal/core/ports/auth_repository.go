package ports

import (
	"context"

	"github.com/pyxolotl/marketplace-api/internal/core/domain"
)

// AuthRepository defines the interface for user account persistence.
type AuthRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	SetVerified(ctx context.Context, id string) error
	SetPasswordHash(ctx context.Context, id, hash string) error
}

// TokenRepository persists single-use verification and password-reset tokens.
type TokenRepository interface {
	Create(ctx context.Context, token *domain.AccountToken) error
	// FindUnused returns the token only when it exists, matches kind, and has
	// not been consumed yet.
	FindUnused(ctx context.Context, token, kind string) (*domain.AccountToken, error)
	MarkUsed(ctx context.Context, id string) error
}

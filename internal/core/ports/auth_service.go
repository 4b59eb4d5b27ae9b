package ports

import (
	"context"

	"github.com/pyxolotl/marketplace-api/internal/core/domain"
)

// RegisterInput carries the data for a new account.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// AuthService defines registration, login, and account maintenance.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	VerifyEmail(ctx context.Context, token string) error
	Profile(ctx context.Context, userID string) (*domain.User, error)
	ChangePassword(ctx context.Context, userID, current, next string) error
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, next string) error
}

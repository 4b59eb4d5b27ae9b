package ports

import (
	"context"

	"github.com/pyxolotl/marketplace-api/internal/core/domain"
)

// ReviewRepository defines persistence for game reviews.
type ReviewRepository interface {
	// Create inserts a review; a uniqueness conflict on (game, author) maps
	// to domain.ErrDuplicateReview.
	Create(ctx context.Context, r *domain.Review) (*domain.Review, error)
	FindByID(ctx context.Context, id string) (*domain.Review, error)
	ListByGame(ctx context.Context, gameID string) ([]*domain.Review, error)
	// Rating returns the arithmetic mean and count of ratings for a game,
	// computed at read time.
	Rating(ctx context.Context, gameID string) (avg float64, count int64, err error)
	Delete(ctx context.Context, id string) error
}

// AuditRepository appends to the immutable moderation/admin audit trail.
type AuditRepository interface {
	Insert(ctx context.Context, rec *domain.AuditRecord) error
}

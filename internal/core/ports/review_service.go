package ports

import (
	"context"

	"github.com/pyxolotl/marketplace-api/internal/core/domain"
)

// GameRating is the on-read aggregate for a listing.
type GameRating struct {
	Average float64 `json:"average"` // rounded to one decimal
	Count   int64   `json:"count"`
}

// ReviewService defines the review-and-rating use cases.
type ReviewService interface {
	// Post requires an entitlement for the game (purchase or free claim) and
	// at most one review per author per game.
	Post(ctx context.Context, authorID, gameID string, rating int, text string) (*domain.Review, error)
	// Delete is permitted for the review's author or an admin.
	Delete(ctx context.Context, actorID, actorRole, reviewID string) error
	ListForGame(ctx context.Context, gameID string) ([]*domain.Review, *GameRating, error)
}

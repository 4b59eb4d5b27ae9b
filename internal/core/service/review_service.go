package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/pyxolotl/marketplace-api/internal/core/domain"
	"github.com/pyxolotl/marketplace-api/internal/core/ports"
)

// ReviewService implements entitlement-gated game reviews.
type ReviewService struct {
	reviews  ports.ReviewRepository
	commerce ports.CommerceRepository
	games    ports.GameRepository
	log      zerolog.Logger
}

func NewReviewService(reviews ports.ReviewRepository, commerce ports.CommerceRepository, games ports.GameRepository, log zerolog.Logger) *ReviewService {
	return &ReviewService{reviews: reviews, commerce: commerce, games: games, log: log}
}

// Post creates a review. The author must hold an entitlement for the game
// (purchased or free-claimed) and may review each game at most once.
func (s *ReviewService) Post(ctx context.Context, authorID, gameID string, rating int, text string) (*domain.Review, error) {
	if rating < domain.RatingMin || rating > domain.RatingMax {
		return nil, domain.ErrValidation
	}
	if strings.TrimSpace(text) == "" {
		return nil, domain.ErrValidation
	}

	if _, err := s.games.FindByID(ctx, gameID); err != nil {
		return nil, err
	}

	if _, err := s.commerce.FindEntitlement(ctx, authorID, gameID); err != nil {
		if errors.Is(err, domain.ErrNotEntitled) {
			return nil, domain.ErrNotEntitled
		}
		return nil, err
	}

	review := &domain.Review{
		GameID:    gameID,
		UserID:    authorID,
		Rating:    rating,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}
	created, err := s.reviews.Create(ctx, review)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("game_id", gameID).Str("author_id", authorID).Int("rating", rating).Msg("review posted")
	return created, nil
}

// Delete removes a review. Only the author or an admin may delete it.
func (s *ReviewService) Delete(ctx context.Context, actorID, actorRole, reviewID string) error {
	review, err := s.reviews.FindByID(ctx, reviewID)
	if err != nil {
		return err
	}
	if review.UserID != actorID && actorRole != domain.RoleAdmin {
		return domain.ErrForbidden
	}

	if err := s.reviews.Delete(ctx, reviewID); err != nil {
		return err
	}

	s.log.Info().Str("review_id", reviewID).Str("actor_id", actorID).Msg("review deleted")
	return nil
}

// ListForGame returns a game's reviews plus its aggregate rating, recomputed
// on read and rounded to one decimal.
func (s *ReviewService) ListForGame(ctx context.Context, gameID string) ([]*domain.Review, *ports.GameRating, error) {
	if _, err := s.games.FindByID(ctx, gameID); err != nil {
		return nil, nil, err
	}

	reviews, err := s.reviews.ListByGame(ctx, gameID)
	if err != nil {
		return nil, nil, err
	}
	avg, count, err := s.reviews.Rating(ctx, gameID)
	if err != nil {
		return nil, nil, err
	}

	return reviews, &ports.GameRating{Average: roundRating(avg), Count: count}, nil
}

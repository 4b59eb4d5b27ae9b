package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/pyxolotl/marketplace-api/internal/core/domain"
)

type reviewFixture struct {
	reviews  *stubReviewRepo
	commerce *stubCommerceRepo
	games    *stubGameRepo
	svc      *ReviewService
	game     *domain.Game
}

func newReviewFixture(t *testing.T) *reviewFixture {
	t.Helper()
	reviews := newStubReviewRepo()
	commerce := newStubCommerceRepo()
	games := newStubGameRepo()
	svc := NewReviewService(reviews, commerce, games, zerolog.Nop())

	game, err := games.Create(context.Background(), &domain.Game{
		Title:       "Aurora",
		Status:      domain.StatusApproved,
		DeveloperID: "dev1",
	})
	if err != nil {
		t.Fatalf("create game: %v", err)
	}
	return &reviewFixture{reviews: reviews, commerce: commerce, games: games, svc: svc, game: game}
}

func (f *reviewFixture) entitle(t *testing.T, userID string) {
	t.Helper()
	_, _, err := f.commerce.CreateEntitlement(context.Background(), &domain.Entitlement{
		UserID: userID, GameID: f.game.ID,
	})
	if err != nil {
		t.Fatalf("entitle: %v", err)
	}
}

func TestReviewService_Post_Success(t *testing.T) {
	f := newReviewFixture(t)
	f.entitle(t, "u1")

	review, err := f.svc.Post(context.Background(), "u1", f.game.ID, 4, "Great soundtrack")
	if err != nil {
		t.Fatalf("post failed: %v", err)
	}
	if review.ID == "" || review.Rating != 4 {
		t.Fatalf("unexpected review %+v", review)
	}
}

func TestReviewService_Post_RequiresOwnership(t *testing.T) {
	f := newReviewFixture(t)

	_, err := f.svc.Post(context.Background(), "u1", f.game.ID, 4, "Never played it")
	if !errors.Is(err, domain.ErrNotEntitled) {
		t.Fatalf("expected ErrNotEntitled, got %v", err)
	}
}

func TestReviewService_Post_Validation(t *testing.T) {
	f := newReviewFixture(t)
	f.entitle(t, "u1")

	cases := []struct {
		name   string
		rating int
		text   string
	}{
		{"rating too low", 0, "ok"},
		{"rating too high", 6, "ok"},
		{"empty text", 3, "   "},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, err := f.svc.Post(context.Background(), "u1", f.game.ID, c.rating, c.text); err != domain.ErrValidation {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestReviewService_Post_OncePerGame(t *testing.T) {
	f := newReviewFixture(t)
	f.entitle(t, "u1")

	if _, err := f.svc.Post(context.Background(), "u1", f.game.ID, 5, "First impressions"); err != nil {
		t.Fatalf("first post failed: %v", err)
	}
	if _, err := f.svc.Post(context.Background(), "u1", f.game.ID, 2, "Changed my mind"); !errors.Is(err, domain.ErrDuplicateReview) {
		t.Fatalf("expected ErrDuplicateReview, got %v", err)
	}
}

func TestReviewService_Post_GameMissing(t *testing.T) {
	f := newReviewFixture(t)

	if _, err := f.svc.Post(context.Background(), "u1", "missing", 3, "ok"); !errors.Is(err, domain.ErrGameNotFound) {
		t.Fatalf("expected ErrGameNotFound, got %v", err)
	}
}

func TestReviewService_Delete_AuthorAndAdmin(t *testing.T) {
	f := newReviewFixture(t)
	f.entitle(t, "u1")
	f.entitle(t, "u2")

	mine, _ := f.svc.Post(context.Background(), "u1", f.game.ID, 4, "mine")
	other, _ := f.svc.Post(context.Background(), "u2", f.game.ID, 3, "theirs")

	if err := f.svc.Delete(context.Background(), "u1", domain.RoleBuyer, other.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := f.svc.Delete(context.Background(), "u1", domain.RoleBuyer, mine.ID); err != nil {
		t.Fatalf("author delete failed: %v", err)
	}
	if err := f.svc.Delete(context.Background(), "admin1", domain.RoleAdmin, other.ID); err != nil {
		t.Fatalf("admin delete failed: %v", err)
	}
	if err := f.svc.Delete(context.Background(), "admin1", domain.RoleAdmin, other.ID); !errors.Is(err, domain.ErrReviewNotFound) {
		t.Fatalf("expected ErrReviewNotFound, got %v", err)
	}
}

func TestReviewService_ListForGame_Rating(t *testing.T) {
	f := newReviewFixture(t)
	f.entitle(t, "u1")
	f.entitle(t, "u2")
	f.entitle(t, "u3")

	for _, p := range []struct {
		user   string
		rating int
	}{{"u1", 5}, {"u2", 4}, {"u3", 4}} {
		if _, err := f.svc.Post(context.Background(), p.user, f.game.ID, p.rating, "text"); err != nil {
			t.Fatalf("post failed: %v", err)
		}
	}

	reviews, rating, err := f.svc.ListForGame(context.Background(), f.game.ID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(reviews) != 3 {
		t.Fatalf("expected 3 reviews, got %d", len(reviews))
	}
	if rating.Count != 3 {
		t.Fatalf("count = %d, want 3", rating.Count)
	}
	// mean of 5, 4, 4 rounds to 4.3
	if !almostEqual(rating.Average, 4.3) {
		t.Fatalf("average = %v, want 4.3", rating.Average)
	}
}

func TestReviewService_ListForGame_Empty(t *testing.T) {
	f := newReviewFixture(t)

	reviews, rating, err := f.svc.ListForGame(context.Background(), f.game.ID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(reviews) != 0 || rating.Count != 0 || rating.Average != 0 {
		t.Fatalf("expected empty result, got %d reviews rating %+v", len(reviews), rating)
	}
}

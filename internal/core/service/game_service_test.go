package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/pyxolotl/marketplace-api/internal/core/domain"
	"github.com/pyxolotl/marketplace-api/internal/core/ports"
)

type stubGameRepo struct {
	games map[string]*domain.Game
	seq   int
}

func newStubGameRepo() *stubGameRepo {
	return &stubGameRepo{games: make(map[string]*domain.Game)}
}

func cloneGame(g *domain.Game) *domain.Game {
	clone := *g
	return &clone
}

func (r *stubGameRepo) Create(_ context.Context, g *domain.Game) (*domain.Game, error) {
	r.seq++
	copy := cloneGame(g)
	copy.ID = fmt.Sprintf("g%d", r.seq)
	r.games[copy.ID] = cloneGame(copy)
	return cloneGame(copy), nil
}

func (r *stubGameRepo) FindByID(_ context.Context, id string) (*domain.Game, error) {
	if g, ok := r.games[id]; ok {
		return cloneGame(g), nil
	}
	return nil, domain.ErrGameNotFound
}

func (r *stubGameRepo) List(_ context.Context, filter ports.CatalogFilter) ([]*domain.Game, int64, error) {
	var matched []*domain.Game
	for _, g := range r.games {
		if filter.Status != "" && g.Status != filter.Status {
			continue
		}
		if filter.DeveloperID != "" && g.DeveloperID != filter.DeveloperID {
			continue
		}
		if filter.Genre != "" && g.Genre != filter.Genre {
			continue
		}
		if filter.FreeOnly && g.Price != 0 {
			continue
		}
		if filter.PriceMin != nil && g.Price < *filter.PriceMin {
			continue
		}
		if filter.PriceMax != nil && g.Price > *filter.PriceMax {
			continue
		}
		if filter.Search != "" {
			s := strings.ToLower(filter.Search)
			if !strings.Contains(strings.ToLower(g.Title), s) &&
				!strings.Contains(strings.ToLower(g.Description), s) {
				continue
			}
		}
		matched = append(matched, cloneGame(g))
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	total := int64(len(matched))
	start := (filter.Page - 1) * filter.Limit
	if start > len(matched) {
		start = len(matched)
	}
	end := start + filter.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (r *stubGameRepo) SetStatus(_ context.Context, id string, status domain.GameStatus, reviewerID, reason string, at time.Time) (bool, error) {
	g, ok := r.games[id]
	if !ok || g.Status != domain.StatusPending {
		return false, nil
	}
	g.Status = status
	g.ReviewedByID = reviewerID
	g.RejectionReason = reason
	g.ReviewedAt = &at
	return true, nil
}

func (r *stubGameRepo) Delete(_ context.Context, id string) error {
	delete(r.games, id)
	return nil
}

type stubReviewRepo struct {
	reviews map[string]*domain.Review
	seq     int
}

func newStubReviewRepo() *stubReviewRepo {
	return &stubReviewRepo{reviews: make(map[string]*domain.Review)}
}

func (r *stubReviewRepo) Create(_ context.Context, review *domain.Review) (*domain.Review, error) {
	for _, existing := range r.reviews {
		if existing.GameID == review.GameID && existing.UserID == review.UserID {
			return nil, domain.ErrDuplicateReview
		}
	}
	r.seq++
	clone := *review
	clone.ID = fmt.Sprintf("r%d", r.seq)
	stored := clone
	r.reviews[clone.ID] = &stored
	return &clone, nil
}

func (r *stubReviewRepo) FindByID(_ context.Context, id string) (*domain.Review, error) {
	if rev, ok := r.reviews[id]; ok {
		clone := *rev
		return &clone, nil
	}
	return nil, domain.ErrReviewNotFound
}

func (r *stubReviewRepo) ListByGame(_ context.Context, gameID string) ([]*domain.Review, error) {
	var out []*domain.Review
	for _, rev := range r.reviews {
		if rev.GameID == gameID {
			clone := *rev
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubReviewRepo) Rating(_ context.Context, gameID string) (float64, int64, error) {
	var sum, count int64
	for _, rev := range r.reviews {
		if rev.GameID == gameID {
			sum += int64(rev.Rating)
			count++
		}
	}
	if count == 0 {
		return 0, 0, nil
	}
	return float64(sum) / float64(count), count, nil
}

func (r *stubReviewRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.reviews[id]; !ok {
		return domain.ErrReviewNotFound
	}
	delete(r.reviews, id)
	return nil
}

type stubAuditRepo struct {
	records []*domain.AuditRecord
}

func (r *stubAuditRepo) Insert(_ context.Context, rec *domain.AuditRecord) error {
	r.records = append(r.records, rec)
	return nil
}

func newGameService(games *stubGameRepo, reviews *stubReviewRepo, users *stubAuthRepo, audit *stubAuditRepo, notifier *stubNotifier) *GameService {
	return NewGameService(games, reviews, users, audit, notifier, zerolog.Nop())
}

func validSubmission(developerID string) ports.SubmitGameInput {
	return ports.SubmitGameInput{
		DeveloperID:  developerID,
		Title:        "Aurora",
		Description:  "A voxel exploration game",
		Genre:        "adventure",
		Price:        99.00,
		CoverRef:     "covers/aurora.png",
		DownloadKind: domain.DownloadFile,
		BuildRef:     "builds/aurora.zip",
		SizeMB:       120,
	}
}

func TestGameService_Submit_StartsPending(t *testing.T) {
	svc := newGameService(newStubGameRepo(), newStubReviewRepo(), newStubAuthRepo(), &stubAuditRepo{}, &stubNotifier{})

	game, err := svc.Submit(context.Background(), validSubmission("dev1"))
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if game.Status != domain.StatusPending {
		t.Fatalf("expected pending, got %s", game.Status)
	}
	if game.ID == "" {
		t.Fatalf("expected assigned id")
	}
}

func TestGameService_Submit_Validation(t *testing.T) {
	svc := newGameService(newStubGameRepo(), newStubReviewRepo(), newStubAuthRepo(), &stubAuditRepo{}, &stubNotifier{})

	negative := validSubmission("dev1")
	negative.Price = -1

	noTitle := validSubmission("dev1")
	noTitle.Title = "  "

	noBuild := validSubmission("dev1")
	noBuild.BuildRef = ""

	badKind := validSubmission("dev1")
	badKind.DownloadKind = "torrent"

	for i, input := range []ports.SubmitGameInput{negative, noTitle, noBuild, badKind} {
		if _, err := svc.Submit(context.Background(), input); err != domain.ErrValidation {
			t.Fatalf("case %d: expected ErrValidation, got %v", i, err)
		}
	}
}

func TestGameService_Review_Approve(t *testing.T) {
	games := newStubGameRepo()
	users := newStubAuthRepo()
	audit := &stubAuditRepo{}
	notifier := &stubNotifier{}
	svc := newGameService(games, newStubReviewRepo(), users, audit, notifier)

	dev, _ := users.Create(context.Background(), &domain.User{Name: "Dev", Email: "dev@example.com", Role: domain.RoleDeveloper})
	game, _ := svc.Submit(context.Background(), validSubmission(dev.ID))

	reviewed, err := svc.Review(context.Background(), "admin1", game.ID, ports.ReviewDecision{Approve: true})
	if err != nil {
		t.Fatalf("review failed: %v", err)
	}
	if reviewed.Status != domain.StatusApproved {
		t.Fatalf("expected approved, got %s", reviewed.Status)
	}
	if reviewed.ReviewedByID != "admin1" {
		t.Fatalf("expected reviewer to be recorded")
	}
	if len(audit.records) != 1 || audit.records[0].Action != "game_approved" {
		t.Fatalf("expected audit record, got %+v", audit.records)
	}
	if len(notifier.sent) != 1 || notifier.sent[0].Template != ports.TemplateGameApproved {
		t.Fatalf("expected approval notification, got %+v", notifier.sent)
	}

	// approved listing appears in the public catalog
	list, err := svc.Catalog(context.Background(), ports.CatalogQuery{})
	if err != nil {
		t.Fatalf("catalog failed: %v", err)
	}
	if list.Total != 1 || list.Items[0].Game.Title != "Aurora" {
		t.Fatalf("expected Aurora in catalog, got %+v", list)
	}
}

func TestGameService_Review_ApproveDropsStrayReason(t *testing.T) {
	games := newStubGameRepo()
	users := newStubAuthRepo()
	svc := newGameService(games, newStubReviewRepo(), users, &stubAuditRepo{}, &stubNotifier{})

	dev, _ := users.Create(context.Background(), &domain.User{Name: "Dev", Email: "dev@example.com", Role: domain.RoleDeveloper})
	game, _ := svc.Submit(context.Background(), validSubmission(dev.ID))

	reviewed, err := svc.Review(context.Background(), "admin1", game.ID, ports.ReviewDecision{Approve: true, Reason: "looks great"})
	if err != nil {
		t.Fatalf("review failed: %v", err)
	}
	if reviewed.RejectionReason != "" {
		t.Fatalf("approved listing carries rejection reason %q", reviewed.RejectionReason)
	}

	stored, _ := games.FindByID(context.Background(), game.ID)
	if stored.RejectionReason != "" {
		t.Fatalf("stored listing carries rejection reason %q", stored.RejectionReason)
	}
}

func TestGameService_Review_RejectRequiresReason(t *testing.T) {
	games := newStubGameRepo()
	users := newStubAuthRepo()
	svc := newGameService(games, newStubReviewRepo(), users, &stubAuditRepo{}, &stubNotifier{})

	dev, _ := users.Create(context.Background(), &domain.User{Name: "Dev", Email: "dev@example.com"})
	game, _ := svc.Submit(context.Background(), validSubmission(dev.ID))

	if _, err := svc.Review(context.Background(), "admin1", game.ID, ports.ReviewDecision{Approve: false, Reason: " "}); err != domain.ErrValidation {
		t.Fatalf("expected ErrValidation for empty reason, got %v", err)
	}

	reviewed, err := svc.Review(context.Background(), "admin1", game.ID, ports.ReviewDecision{Approve: false, Reason: "Incomplete metadata"})
	if err != nil {
		t.Fatalf("reject failed: %v", err)
	}
	if reviewed.Status != domain.StatusRejected {
		t.Fatalf("expected rejected, got %s", reviewed.Status)
	}
	if reviewed.RejectionReason != "Incomplete metadata" {
		t.Fatalf("expected reason to be recorded, got %q", reviewed.RejectionReason)
	}

	// rejected listing never reaches the public catalog
	list, _ := svc.Catalog(context.Background(), ports.CatalogQuery{})
	if list.Total != 0 {
		t.Fatalf("expected empty catalog, got %d", list.Total)
	}

	// the developer still sees the rejection
	mine, _ := svc.Mine(context.Background(), dev.ID, 1, 20)
	if mine.Total != 1 || mine.Items[0].Game.Status != domain.StatusRejected {
		t.Fatalf("expected developer to see rejected listing, got %+v", mine)
	}
}

func TestGameService_Review_DoubleReviewFails(t *testing.T) {
	games := newStubGameRepo()
	users := newStubAuthRepo()
	svc := newGameService(games, newStubReviewRepo(), users, &stubAuditRepo{}, &stubNotifier{})

	dev, _ := users.Create(context.Background(), &domain.User{Name: "Dev", Email: "dev@example.com"})
	game, _ := svc.Submit(context.Background(), validSubmission(dev.ID))

	if _, err := svc.Review(context.Background(), "admin1", game.ID, ports.ReviewDecision{Approve: true}); err != nil {
		t.Fatalf("first review failed: %v", err)
	}
	if _, err := svc.Review(context.Background(), "admin2", game.ID, ports.ReviewDecision{Approve: false, Reason: "changed my mind"}); err != domain.ErrInvalidTransition {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestGameService_Review_NotFound(t *testing.T) {
	svc := newGameService(newStubGameRepo(), newStubReviewRepo(), newStubAuthRepo(), &stubAuditRepo{}, &stubNotifier{})

	if _, err := svc.Review(context.Background(), "admin1", "missing", ports.ReviewDecision{Approve: true}); err != domain.ErrGameNotFound {
		t.Fatalf("expected ErrGameNotFound, got %v", err)
	}
}

func TestGameService_Get_Visibility(t *testing.T) {
	games := newStubGameRepo()
	users := newStubAuthRepo()
	svc := newGameService(games, newStubReviewRepo(), users, &stubAuditRepo{}, &stubNotifier{})

	game, _ := svc.Submit(context.Background(), validSubmission("dev1"))

	// pending: hidden from the public and other buyers
	if _, err := svc.Get(context.Background(), game.ID, "someone", domain.RoleBuyer); err != domain.ErrNotAvailable {
		t.Fatalf("expected ErrNotAvailable, got %v", err)
	}
	// owner sees own pending listing
	if _, err := svc.Get(context.Background(), game.ID, "dev1", domain.RoleDeveloper); err != nil {
		t.Fatalf("owner should see pending listing: %v", err)
	}
	// admins see everything
	if _, err := svc.Get(context.Background(), game.ID, "admin1", domain.RoleAdmin); err != nil {
		t.Fatalf("admin should see pending listing: %v", err)
	}
}

func TestGameService_Catalog_Filters(t *testing.T) {
	games := newStubGameRepo()
	users := newStubAuthRepo()
	svc := newGameService(games, newStubReviewRepo(), users, &stubAuditRepo{}, &stubNotifier{})

	dev, _ := users.Create(context.Background(), &domain.User{Name: "Dev", Email: "dev@example.com"})

	submit := func(title, genre string, price float64) {
		in := validSubmission(dev.ID)
		in.Title = title
		in.Genre = genre
		in.Price = price
		g, err := svc.Submit(context.Background(), in)
		if err != nil {
			t.Fatalf("submit %s: %v", title, err)
		}
		if _, err := svc.Review(context.Background(), "admin1", g.ID, ports.ReviewDecision{Approve: true}); err != nil {
			t.Fatalf("approve %s: %v", title, err)
		}
	}
	submit("Aurora", "adventure", 99)
	submit("Blocktris", "puzzle", 0)
	submit("Cavern", "adventure", 15)

	free, _ := svc.Catalog(context.Background(), ports.CatalogQuery{FreeOnly: true})
	if free.Total != 1 || free.Items[0].Game.Title != "Blocktris" {
		t.Fatalf("free filter failed: %+v", free)
	}

	adventure, _ := svc.Catalog(context.Background(), ports.CatalogQuery{Genre: "adventure"})
	if adventure.Total != 2 {
		t.Fatalf("genre filter failed: %+v", adventure)
	}

	max := 20.0
	cheap, _ := svc.Catalog(context.Background(), ports.CatalogQuery{PriceMax: &max})
	if cheap.Total != 2 {
		t.Fatalf("price filter failed: total=%d", cheap.Total)
	}

	search, _ := svc.Catalog(context.Background(), ports.CatalogQuery{Search: "voxel"})
	if search.Total != 3 {
		t.Fatalf("description search failed: total=%d", search.Total)
	}
}

func TestGameService_Pending_ListsOnlyPending(t *testing.T) {
	games := newStubGameRepo()
	users := newStubAuthRepo()
	svc := newGameService(games, newStubReviewRepo(), users, &stubAuditRepo{}, &stubNotifier{})

	dev, _ := users.Create(context.Background(), &domain.User{Name: "Dev", Email: "dev@example.com"})
	a, _ := svc.Submit(context.Background(), validSubmission(dev.ID))
	b := validSubmission(dev.ID)
	b.Title = "Second"
	if _, err := svc.Submit(context.Background(), b); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	_, _ = svc.Review(context.Background(), "admin1", a.ID, ports.ReviewDecision{Approve: true})

	pending, err := svc.Pending(context.Background(), 1, 20)
	if err != nil {
		t.Fatalf("pending failed: %v", err)
	}
	if pending.Total != 1 || pending.Items[0].Game.Title != "Second" {
		t.Fatalf("expected one pending listing, got %+v", pending)
	}
}

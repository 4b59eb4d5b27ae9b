package service

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/pyxolotl/marketplace-api/internal/core/domain"
	"github.com/pyxolotl/marketplace-api/internal/core/ports"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// GameService implements the listing lifecycle: submission, moderation, and
// catalog queries.
type GameService struct {
	games    ports.GameRepository
	reviews  ports.ReviewRepository
	users    ports.AuthRepository
	audit    ports.AuditRepository
	notifier ports.Notifier
	log      zerolog.Logger
}

func NewGameService(
	games ports.GameRepository,
	reviews ports.ReviewRepository,
	users ports.AuthRepository,
	audit ports.AuditRepository,
	notifier ports.Notifier,
	log zerolog.Logger,
) *GameService {
	return &GameService{
		games:    games,
		reviews:  reviews,
		users:    users,
		audit:    audit,
		notifier: notifier,
		log:      log,
	}
}

// Submit creates a Pending listing owned by the developer. The listing is
// invisible to the public catalog until approved.
func (s *GameService) Submit(ctx context.Context, input ports.SubmitGameInput) (*domain.Game, error) {
	if strings.TrimSpace(input.Title) == "" ||
		strings.TrimSpace(input.Description) == "" ||
		strings.TrimSpace(input.Genre) == "" ||
		input.CoverRef == "" {
		return nil, domain.ErrValidation
	}
	if input.Price < 0 {
		return nil, domain.ErrValidation
	}
	switch input.DownloadKind {
	case domain.DownloadFile, domain.DownloadLink:
	default:
		return nil, domain.ErrValidation
	}
	if input.BuildRef == "" {
		return nil, domain.ErrValidation
	}

	now := time.Now().UTC()
	game := &domain.Game{
		Title:          input.Title,
		Description:    input.Description,
		Genre:          input.Genre,
		Price:          input.Price,
		Requirements:   input.Requirements,
		CoverRef:       input.CoverRef,
		ScreenshotRefs: input.ScreenshotRefs,
		TrailerRef:     input.TrailerRef,
		DownloadKind:   input.DownloadKind,
		BuildRef:       input.BuildRef,
		SizeMB:         input.SizeMB,
		Status:         domain.StatusPending,
		DeveloperID:    input.DeveloperID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	created, err := s.games.Create(ctx, game)
	if err != nil {
		s.log.Error().Err(err).Str("developer_id", input.DeveloperID).Msg("failed to create listing")
		return nil, err
	}

	s.log.Info().Str("game_id", created.ID).Str("developer_id", input.DeveloperID).Msg("game submitted")
	return created, nil
}

// Review applies an admin decision to a Pending listing. The Pending guard is
// enforced inside the repository update, so two concurrent reviews of the
// same listing cannot both succeed.
func (s *GameService) Review(ctx context.Context, adminID, gameID string, decision ports.ReviewDecision) (*domain.Game, error) {
	reason := strings.TrimSpace(decision.Reason)
	if decision.Approve {
		// A rejection reason only exists on rejected listings; stray text
		// sent with an approval is dropped.
		reason = ""
	} else if reason == "" {
		return nil, domain.ErrValidation
	}

	game, err := s.games.FindByID(ctx, gameID)
	if err != nil {
		return nil, err
	}

	next := domain.StatusApproved
	if !decision.Approve {
		next = domain.StatusRejected
	}
	if !game.Status.CanTransitionTo(next) {
		return nil, domain.ErrInvalidTransition
	}

	now := time.Now().UTC()
	matched, err := s.games.SetStatus(ctx, gameID, next, adminID, reason, now)
	if err != nil {
		return nil, err
	}
	if !matched {
		// Lost the race: some other admin reviewed it first.
		return nil, domain.ErrInvalidTransition
	}

	game.Status = next
	game.ReviewedByID = adminID
	game.ReviewedAt = &now
	game.RejectionReason = reason
	game.UpdatedAt = now

	s.recordAudit(ctx, adminID, "game_"+string(next), gameID, reason)
	s.notifyDeveloper(ctx, game, decision)

	s.log.Info().
		Str("game_id", gameID).
		Str("admin_id", adminID).
		Str("status", string(next)).
		Msg("listing reviewed")
	return game, nil
}

// Catalog returns approved listings only, with search, filters, and
// pagination.
func (s *GameService) Catalog(ctx context.Context, q ports.CatalogQuery) (*ports.GameList, error) {
	filter := ports.CatalogFilter{
		Status:   domain.StatusApproved,
		Search:   q.Search,
		Genre:    q.Genre,
		PriceMin: q.PriceMin,
		PriceMax: q.PriceMax,
		FreeOnly: q.FreeOnly,
		SortBy:   q.SortBy,
		SortAsc:  q.SortAsc,
		Page:     q.Page,
		Limit:    q.Limit,
	}
	return s.list(ctx, filter)
}

// Get returns one listing. Listings outside the Approved state are only
// visible to their owning developer and to admins.
func (s *GameService) Get(ctx context.Context, gameID, callerID, callerRole string) (*ports.GameSummary, error) {
	game, err := s.games.FindByID(ctx, gameID)
	if err != nil {
		return nil, err
	}

	if game.Status != domain.StatusApproved {
		if callerRole != domain.RoleAdmin && callerID != game.DeveloperID {
			return nil, domain.ErrNotAvailable
		}
	}

	avg, count, err := s.reviews.Rating(ctx, gameID)
	if err != nil {
		s.log.Warn().Err(err).Str("game_id", gameID).Msg("rating aggregation failed")
		avg, count = 0, 0
	}
	return &ports.GameSummary{Game: game, AvgRating: roundRating(avg), ReviewCount: count}, nil
}

// Pending lists listings awaiting moderation.
func (s *GameService) Pending(ctx context.Context, page, limit int) (*ports.GameList, error) {
	return s.list(ctx, ports.CatalogFilter{Status: domain.StatusPending, Page: page, Limit: limit})
}

// Mine lists a developer's own listings in every state.
func (s *GameService) Mine(ctx context.Context, developerID string, page, limit int) (*ports.GameList, error) {
	return s.list(ctx, ports.CatalogFilter{DeveloperID: developerID, Page: page, Limit: limit})
}

func (s *GameService) list(ctx context.Context, filter ports.CatalogFilter) (*ports.GameList, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultPageLimit
	}
	if filter.Limit > maxPageLimit {
		filter.Limit = maxPageLimit
	}

	games, total, err := s.games.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]ports.GameSummary, 0, len(games))
	for _, g := range games {
		avg, count, err := s.reviews.Rating(ctx, g.ID)
		if err != nil {
			s.log.Warn().Err(err).Str("game_id", g.ID).Msg("rating aggregation failed")
			avg, count = 0, 0
		}
		items = append(items, ports.GameSummary{Game: g, AvgRating: roundRating(avg), ReviewCount: count})
	}

	totalPages := int(math.Ceil(float64(total) / float64(filter.Limit)))
	return &ports.GameList{
		Items:      items,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
	}, nil
}

func (s *GameService) notifyDeveloper(ctx context.Context, game *domain.Game, decision ports.ReviewDecision) {
	dev, err := s.users.FindByID(ctx, game.DeveloperID)
	if err != nil {
		s.log.Warn().Err(err).Str("developer_id", game.DeveloperID).Msg("cannot notify developer")
		return
	}

	template := ports.TemplateGameApproved
	data := map[string]string{"title": game.Title}
	if !decision.Approve {
		template = ports.TemplateGameRejected
		data["reason"] = decision.Reason
	}
	s.notifier.Notify(ports.Notification{To: dev.Email, Name: dev.Name, Template: template, Data: data})
}

func (s *GameService) recordAudit(ctx context.Context, actorID, action, targetID, detail string) {
	rec := &domain.AuditRecord{
		ActorID:   actorID,
		Action:    action,
		TargetID:  targetID,
		Detail:    detail,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.audit.Insert(ctx, rec); err != nil {
		s.log.Warn().Err(err).Str("action", action).Msg("failed to write audit record")
	}
}

// roundRating rounds a mean rating to one decimal for display.
func roundRating(avg float64) float64 {
	return math.Round(avg*10) / 10
}

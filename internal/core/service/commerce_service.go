package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/pyxolotl/marketplace-api/internal/core/domain"
	"github.com/pyxolotl/marketplace-api/internal/core/ports"
)

// TaxRate is the flat rate applied to every checkout subtotal.
const TaxRate = 0.16

// defaultDownloadLinkTTL applies when configuration leaves the TTL unset.
const defaultDownloadLinkTTL = 15 * time.Minute

// CommerceService implements checkout, free claims, library access, and
// download authorization.
type CommerceService struct {
	repo     ports.CommerceRepository
	games    ports.GameRepository
	users    ports.AuthRepository
	payments ports.PaymentAuthorizer
	links    ports.DownloadTokenStore
	assets   ports.AssetResolver
	linkTTL  time.Duration
	notifier ports.Notifier
	log      zerolog.Logger
}

func NewCommerceService(
	repo ports.CommerceRepository,
	games ports.GameRepository,
	users ports.AuthRepository,
	payments ports.PaymentAuthorizer,
	links ports.DownloadTokenStore,
	assets ports.AssetResolver,
	linkTTL time.Duration,
	notifier ports.Notifier,
	log zerolog.Logger,
) *CommerceService {
	if linkTTL <= 0 {
		linkTTL = defaultDownloadLinkTTL
	}
	return &CommerceService{
		repo:     repo,
		games:    games,
		users:    users,
		payments: payments,
		links:    links,
		assets:   assets,
		linkTTL:  linkTTL,
		notifier: notifier,
		log:      log,
	}
}

// Checkout reconciles the client-held cart into a purchase. Every requested
// game must be approved and unowned; prices are frozen into the entitlements
// at their current listing values. The purchase and all entitlements commit
// in one transaction or not at all.
func (s *CommerceService) Checkout(ctx context.Context, input ports.CheckoutInput) (*domain.Purchase, error) {
	if len(input.GameIDs) == 0 || input.PaymentMethod == "" {
		return nil, domain.ErrValidation
	}
	if hasDuplicates(input.GameIDs) {
		return nil, domain.ErrValidation
	}

	games := make([]*domain.Game, 0, len(input.GameIDs))
	for _, id := range input.GameIDs {
		game, err := s.games.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if game.Status != domain.StatusApproved {
			return nil, fmt.Errorf("%w: %s", domain.ErrNotAvailable, game.Title)
		}
		games = append(games, game)
	}

	owned, err := s.repo.OwnedGameIDs(ctx, input.BuyerID, input.GameIDs)
	if err != nil {
		return nil, err
	}
	if len(owned) > 0 {
		return nil, domain.ErrAlreadyOwned
	}

	var subtotal float64
	items := make([]domain.PurchaseItem, 0, len(games))
	for _, g := range games {
		subtotal += g.Price
		items = append(items, domain.PurchaseItem{GameID: g.ID, Title: g.Title, Price: g.Price})
	}
	tax := round2(subtotal * TaxRate)
	total := round2(subtotal + tax)

	if err := s.payments.Authorize(ctx, input.BuyerID, input.PaymentMethod, total); err != nil {
		return nil, fmt.Errorf("%w: payment authorization: %v", domain.ErrDependency, err)
	}

	now := time.Now().UTC()
	purchase := &domain.Purchase{
		UserID:        input.BuyerID,
		OrderNumber:   generateOrderNumber(),
		Items:         items,
		Subtotal:      subtotal,
		Tax:           tax,
		Total:         total,
		PaymentMethod: input.PaymentMethod,
		CreatedAt:     now,
	}
	ents := make([]*domain.Entitlement, 0, len(games))
	for _, g := range games {
		ents = append(ents, &domain.Entitlement{
			UserID:    input.BuyerID,
			GameID:    g.ID,
			PricePaid: g.Price,
			CreatedAt: now,
		})
	}

	created, err := s.repo.CreatePurchase(ctx, purchase, ents)
	if err != nil {
		s.log.Error().Err(err).Str("buyer_id", input.BuyerID).Msg("checkout failed")
		return nil, err
	}

	s.notifyPurchase(ctx, created)
	s.log.Info().
		Str("buyer_id", input.BuyerID).
		Str("order", created.OrderNumber).
		Float64("total", created.Total).
		Int("items", len(created.Items)).
		Msg("checkout completed")
	return created, nil
}

// ClaimFree grants an entitlement to a zero-price approved game. Repeated
// claims return the existing entitlement without error.
func (s *CommerceService) ClaimFree(ctx context.Context, buyerID, gameID string) (*domain.Entitlement, error) {
	game, err := s.games.FindByID(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game.Status != domain.StatusApproved {
		return nil, domain.ErrNotAvailable
	}
	if !game.Free() {
		return nil, domain.ErrValidation
	}

	ent := &domain.Entitlement{
		UserID:    buyerID,
		GameID:    gameID,
		PricePaid: 0,
		Free:      true,
		CreatedAt: time.Now().UTC(),
	}
	created, fresh, err := s.repo.CreateEntitlement(ctx, ent)
	if err != nil {
		return nil, err
	}
	if fresh {
		s.log.Info().Str("buyer_id", buyerID).Str("game_id", gameID).Msg("free game claimed")
	}
	return created, nil
}

// Library returns everything the buyer owns, with listings resolved.
func (s *CommerceService) Library(ctx context.Context, buyerID string) ([]ports.LibraryItem, error) {
	ents, err := s.repo.ListEntitlements(ctx, buyerID)
	if err != nil {
		return nil, err
	}

	items := make([]ports.LibraryItem, 0, len(ents))
	for _, e := range ents {
		game, err := s.games.FindByID(ctx, e.GameID)
		if err != nil {
			if errors.Is(err, domain.ErrGameNotFound) {
				// Listing deleted by an admin after purchase; entitlement
				// remains but there is nothing left to show.
				continue
			}
			return nil, err
		}
		items = append(items, ports.LibraryItem{Entitlement: e, Game: game})
	}
	return items, nil
}

// History returns the buyer's purchase receipts, newest first.
func (s *CommerceService) History(ctx context.Context, buyerID string) ([]*domain.Purchase, error) {
	return s.repo.ListPurchases(ctx, buyerID)
}

// Download authorizes a download of an owned game and hands back a
// time-limited link. The entitlement check is the authorization; delivery
// itself belongs to the asset store.
func (s *CommerceService) Download(ctx context.Context, buyerID, gameID, ip string) (*ports.DownloadGrant, error) {
	if _, err := s.repo.FindEntitlement(ctx, buyerID, gameID); err != nil {
		if errors.Is(err, domain.ErrNotEntitled) {
			return nil, domain.ErrNotEntitled
		}
		return nil, err
	}

	game, err := s.games.FindByID(ctx, gameID)
	if err != nil {
		return nil, err
	}

	rec := &domain.DownloadRecord{
		UserID:    buyerID,
		GameID:    gameID,
		IP:        ip,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.RecordDownload(ctx, rec); err != nil {
		s.log.Warn().Err(err).Str("game_id", gameID).Msg("failed to log download")
	}

	// Externally hosted builds are linked through directly.
	if game.DownloadKind == domain.DownloadLink {
		return &ports.DownloadGrant{URL: game.BuildRef, ExpiresIn: 0}, nil
	}

	token, err := s.links.Issue(ctx, buyerID, gameID, game.BuildRef, s.linkTTL)
	if err != nil {
		return nil, fmt.Errorf("%w: download token: %v", domain.ErrDependency, err)
	}
	url, err := s.assets.Resolve(token, s.linkTTL)
	if err != nil {
		return nil, fmt.Errorf("%w: asset resolve: %v", domain.ErrDependency, err)
	}

	return &ports.DownloadGrant{URL: url, ExpiresIn: int64(s.linkTTL.Seconds())}, nil
}

func (s *CommerceService) notifyPurchase(ctx context.Context, p *domain.Purchase) {
	buyer, err := s.users.FindByID(ctx, p.UserID)
	if err != nil {
		s.log.Warn().Err(err).Str("user_id", p.UserID).Msg("cannot notify buyer")
		return
	}
	s.notifier.Notify(ports.Notification{
		To:       buyer.Email,
		Name:     buyer.Name,
		Template: ports.TemplatePurchase,
		Data: map[string]string{
			"order": p.OrderNumber,
			"total": fmt.Sprintf("%.2f", p.Total),
		},
	})
}

// generateOrderNumber returns a unique order number in the format PX-XXXXXXXX.
func generateOrderNumber() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		// fallback: use current nanoseconds
		return fmt.Sprintf("PX-%08X", time.Now().UnixNano()&0xFFFFFFFF)
	}
	return fmt.Sprintf("PX-%08X", b)
}

// round2 rounds a money amount to cents.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func hasDuplicates(ids []string) bool {
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			return true
		}
		seen[id] = struct{}{}
	}
	return false
}

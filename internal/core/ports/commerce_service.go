package ports

import (
	"context"

	"github.com/pyxolotl/marketplace-api/internal/core/domain"
)

// CheckoutInput is the cart handed to checkout: the cart itself is held by
// the client and reconciled here, never persisted server-side.
type CheckoutInput struct {
	BuyerID       string
	GameIDs       []string
	PaymentMethod string
}

// LibraryItem pairs an entitlement with its resolved listing.
type LibraryItem struct {
	Entitlement *domain.Entitlement
	Game        *domain.Game
}

// DownloadGrant is a time-limited authorization to fetch an owned build.
type DownloadGrant struct {
	URL       string
	ExpiresIn int64 // seconds
}

// CommerceService defines checkout, free claims, and library access.
type CommerceService interface {
	Checkout(ctx context.Context, input CheckoutInput) (*domain.Purchase, error)
	// ClaimFree is idempotent: repeated claims return the existing
	// entitlement without error.
	ClaimFree(ctx context.Context, buyerID, gameID string) (*domain.Entitlement, error)
	Library(ctx context.Context, buyerID string) ([]LibraryItem, error)
	History(ctx context.Context, buyerID string) ([]*domain.Purchase, error)
	Download(ctx context.Context, buyerID, gameID, ip string) (*DownloadGrant, error)
}

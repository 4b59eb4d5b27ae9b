package ports

import (
	"context"
	"time"

	"github.com/pyxolotl/marketplace-api/internal/core/domain"
)

// CommerceRepository defines persistence for purchases and entitlements.
type CommerceRepository interface {
	// CreatePurchase atomically records the purchase, one entitlement per
	// item, and the sales counters. A uniqueness conflict on any
	// (user, game) pair aborts the whole transaction with
	// domain.ErrAlreadyOwned; no partial commit survives.
	CreatePurchase(ctx context.Context, p *domain.Purchase, ents []*domain.Entitlement) (*domain.Purchase, error)
	// CreateEntitlement inserts a single free-claim entitlement. On a
	// uniqueness conflict it returns the existing entitlement and ok=false.
	CreateEntitlement(ctx context.Context, e *domain.Entitlement) (*domain.Entitlement, bool, error)
	FindEntitlement(ctx context.Context, userID, gameID string) (*domain.Entitlement, error)
	ListEntitlements(ctx context.Context, userID string) ([]*domain.Entitlement, error)
	OwnedGameIDs(ctx context.Context, userID string, gameIDs []string) ([]string, error)
	ListPurchases(ctx context.Context, userID string) ([]*domain.Purchase, error)
	RecordDownload(ctx context.Context, rec *domain.DownloadRecord) error
}

// PaymentAuthorizer simulates (or fronts) a payment gateway. The simulated
// implementation always authorizes.
type PaymentAuthorizer interface {
	Authorize(ctx context.Context, userID, method string, amount float64) error
}

// DownloadTokenStore issues short-lived, single-use download tokens.
type DownloadTokenStore interface {
	Issue(ctx context.Context, userID, gameID, ref string, ttl time.Duration) (string, error)
	Redeem(ctx context.Context, token string) (string, error)
}

// AssetResolver maps opaque asset references to delivery URLs. File contents
// are never inspected here; storage mechanics live behind this boundary.
type AssetResolver interface {
	Resolve(ref string, ttl time.Duration) (string, error)
}

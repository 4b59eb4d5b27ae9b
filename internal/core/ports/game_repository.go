package ports

import (
	"context"
	"time"

	"github.com/pyxolotl/marketplace-api/internal/core/domain"
)

// CatalogFilter carries all query parameters for listing games.
// Status is always enforced by the service layer: public callers only ever
// see approved listings.
type CatalogFilter struct {
	Status      domain.GameStatus // empty = no status filter (admin views)
	DeveloperID string            // non-empty = scoped to one developer
	Search      string            // partial match on title or description
	Genre       string
	PriceMin    *float64
	PriceMax    *float64
	FreeOnly    bool
	SortBy      string // "created_at", "price", "rating"
	SortAsc     bool
	Page        int // 1-based
	Limit       int // capped by the service
}

// GameRepository defines persistence operations for game listings.
type GameRepository interface {
	Create(ctx context.Context, g *domain.Game) (*domain.Game, error)
	FindByID(ctx context.Context, id string) (*domain.Game, error)
	// List returns a page of games matching filter and the total count.
	List(ctx context.Context, filter CatalogFilter) ([]*domain.Game, int64, error)
	// SetStatus transitions a listing from Pending to the given status. The
	// guard on the source state is applied inside the query so concurrent
	// reviews cannot both succeed; it reports whether a document matched.
	SetStatus(ctx context.Context, id string, status domain.GameStatus, reviewerID, reason string, at time.Time) (bool, error)
	Delete(ctx context.Context, id string) error
}

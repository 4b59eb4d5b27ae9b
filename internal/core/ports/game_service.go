package ports

import (
	"context"

	"github.com/pyxolotl/marketplace-api/internal/core/domain"
)

// SubmitGameInput carries all data for a developer submission.
type SubmitGameInput struct {
	DeveloperID    string
	Title          string
	Description    string
	Genre          string
	Price          float64
	Requirements   string
	CoverRef       string
	ScreenshotRefs []string
	TrailerRef     string
	DownloadKind   domain.DownloadKind
	BuildRef       string
	SizeMB         float64
}

// ReviewDecision is an admin's verdict on a pending listing.
type ReviewDecision struct {
	Approve bool
	Reason  string // required on rejection, surfaced to the developer
}

// CatalogQuery is the public catalog request.
type CatalogQuery struct {
	Search   string
	Genre    string
	PriceMin *float64
	PriceMax *float64
	FreeOnly bool
	SortBy   string
	SortAsc  bool
	Page     int
	Limit    int
}

// GameSummary is the catalog list view: a listing plus its on-read aggregate
// rating.
type GameSummary struct {
	Game        *domain.Game
	AvgRating   float64
	ReviewCount int64
}

// GameList is a page of summaries.
type GameList struct {
	Items      []GameSummary
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// GameService defines the listing lifecycle use cases.
type GameService interface {
	Submit(ctx context.Context, input SubmitGameInput) (*domain.Game, error)
	// Review transitions a Pending listing to Approved or Rejected. A listing
	// that is no longer Pending fails with domain.ErrInvalidTransition.
	Review(ctx context.Context, adminID, gameID string, decision ReviewDecision) (*domain.Game, error)
	Catalog(ctx context.Context, q CatalogQuery) (*GameList, error)
	// Get returns a listing; non-approved listings are visible only to their
	// owning developer and to admins.
	Get(ctx context.Context, gameID, callerID, callerRole string) (*GameSummary, error)
	Pending(ctx context.Context, page, limit int) (*GameList, error)
	Mine(ctx context.Context, developerID string, page, limit int) (*GameList, error)
}

package ports

import (
	"context"
	"time"

	"github.com/pyxolotl/marketplace-api/internal/core/domain"
)

// AdminStats are the aggregate totals shown on the admin dashboard.
type AdminStats struct {
	TotalUsers     int64 `json:"total_users"`
	VerifiedUsers  int64 `json:"verified_users"`
	TotalGames     int64 `json:"total_games"`
	ApprovedGames  int64 `json:"approved_games"`
	TotalPurchases int64 `json:"total_purchases"`
	TotalDownloads int64 `json:"total_downloads"`
}

// UserOverview is a user row in the admin console, with activity counts.
type UserOverview struct {
	User          *domain.User
	GameCount     int64
	PurchaseCount int64
}

// GameOverview is a game row in the admin console.
type GameOverview struct {
	Game          *domain.Game
	DeveloperName string
	ReviewCount   int64
}

// UserAdminFilter scopes the admin user listing.
type UserAdminFilter struct {
	Verified *bool
	Skip     int
	Limit    int
}

// GameAdminFilter scopes the admin game listing.
type GameAdminFilter struct {
	Status      domain.GameStatus
	DeveloperID string
	Skip        int
	Limit       int
}

// PurgeResult reports what a cascading delete removed.
type PurgeResult struct {
	Records int64 `json:"records_deleted"`
	Users   int64 `json:"users_deleted,omitempty"`
	Games   int64 `json:"games_deleted,omitempty"`
}

// AdminRepository defines the cross-collection queries and cascading deletes
// backing the admin console.
type AdminRepository interface {
	Stats(ctx context.Context) (*AdminStats, error)
	ListUsers(ctx context.Context, f UserAdminFilter) ([]UserOverview, error)
	ListGames(ctx context.Context, f GameAdminFilter) ([]GameOverview, error)
	// DeleteUser removes the account and all dependent records; when
	// deleteGames is true the user's listings (and their dependents) go too.
	DeleteUser(ctx context.Context, userID string, deleteGames bool) (*PurgeResult, error)
	DeleteUserGames(ctx context.Context, userID string) (*PurgeResult, error)
	DeleteUnverifiedBefore(ctx context.Context, cutoff time.Time) (*PurgeResult, error)
}

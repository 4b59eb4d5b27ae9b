package ports

import (
	"context"
	"time"
)

// AdminService defines the moderation console use cases. The HTTP boundary
// gates every operation behind the admin role; the service records an audit
// entry for each destructive call.
type AdminService interface {
	Stats(ctx context.Context) (*AdminStats, error)
	ListUsers(ctx context.Context, f UserAdminFilter) ([]UserOverview, error)
	ListGames(ctx context.Context, f GameAdminFilter) ([]GameOverview, error)
	DeleteUser(ctx context.Context, adminID, userID string, deleteGames bool) (*PurgeResult, error)
	DeleteUserGames(ctx context.Context, adminID, userID string) (*PurgeResult, error)
	PurgeUnverified(ctx context.Context, adminID string, olderThan time.Duration) (*PurgeResult, error)
}

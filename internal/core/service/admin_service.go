package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/pyxolotl/marketplace-api/internal/core/domain"
	"github.com/pyxolotl/marketplace-api/internal/core/ports"
)

// AdminService implements the moderation console. Role enforcement happens at
// the transport boundary; every destructive operation writes an audit record.
type AdminService struct {
	repo  ports.AdminRepository
	audit ports.AuditRepository
	log   zerolog.Logger
}

func NewAdminService(repo ports.AdminRepository, audit ports.AuditRepository, log zerolog.Logger) *AdminService {
	return &AdminService{repo: repo, audit: audit, log: log}
}

func (s *AdminService) Stats(ctx context.Context) (*ports.AdminStats, error) {
	return s.repo.Stats(ctx)
}

func (s *AdminService) ListUsers(ctx context.Context, f ports.UserAdminFilter) ([]ports.UserOverview, error) {
	f.Limit = clampAdminLimit(f.Limit)
	return s.repo.ListUsers(ctx, f)
}

func (s *AdminService) ListGames(ctx context.Context, f ports.GameAdminFilter) ([]ports.GameOverview, error) {
	f.Limit = clampAdminLimit(f.Limit)
	return s.repo.ListGames(ctx, f)
}

// DeleteUser removes an account and everything hanging off it. Admins cannot
// delete themselves.
func (s *AdminService) DeleteUser(ctx context.Context, adminID, userID string, deleteGames bool) (*ports.PurgeResult, error) {
	if adminID == userID {
		return nil, domain.ErrValidation
	}

	res, err := s.repo.DeleteUser(ctx, userID, deleteGames)
	if err != nil {
		return nil, err
	}

	s.recordAudit(ctx, adminID, "user_deleted", userID, "")
	s.log.Info().
		Str("admin_id", adminID).
		Str("user_id", userID).
		Bool("delete_games", deleteGames).
		Int64("records", res.Records).
		Msg("user deleted")
	return res, nil
}

// DeleteUserGames removes a user's listings while preserving the account.
func (s *AdminService) DeleteUserGames(ctx context.Context, adminID, userID string) (*ports.PurgeResult, error) {
	res, err := s.repo.DeleteUserGames(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.recordAudit(ctx, adminID, "user_games_deleted", userID, "")
	s.log.Info().
		Str("admin_id", adminID).
		Str("user_id", userID).
		Int64("games", res.Games).
		Msg("user games deleted")
	return res, nil
}

// PurgeUnverified bulk-deletes unverified accounts older than the threshold.
func (s *AdminService) PurgeUnverified(ctx context.Context, adminID string, olderThan time.Duration) (*ports.PurgeResult, error) {
	if olderThan <= 0 {
		return nil, domain.ErrValidation
	}

	cutoff := time.Now().UTC().Add(-olderThan)
	res, err := s.repo.DeleteUnverifiedBefore(ctx, cutoff)
	if err != nil {
		return nil, err
	}

	s.recordAudit(ctx, adminID, "unverified_purged", "", cutoff.Format(time.RFC3339))
	s.log.Info().
		Str("admin_id", adminID).
		Time("cutoff", cutoff).
		Int64("users", res.Users).
		Msg("unverified accounts purged")
	return res, nil
}

func (s *AdminService) recordAudit(ctx context.Context, actorID, action, targetID, detail string) {
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

func clampAdminLimit(limit int) int {
	if limit <= 0 {
		return 50
	}
	if limit > maxPageLimit {
		return maxPageLimit
	}
	return limit
}

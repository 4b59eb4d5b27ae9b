package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/pyxolotl/marketplace-api/internal/core/domain"
	"github.com/pyxolotl/marketplace-api/internal/core/ports"
)

type stubAdminRepo struct {
	stats        ports.AdminStats
	users        []ports.UserOverview
	games        []ports.GameOverview
	deletedUsers []string
	lastFilter   ports.UserAdminFilter
	lastCutoff   time.Time
}

func (r *stubAdminRepo) Stats(_ context.Context) (*ports.AdminStats, error) {
	clone := r.stats
	return &clone, nil
}

func (r *stubAdminRepo) ListUsers(_ context.Context, f ports.UserAdminFilter) ([]ports.UserOverview, error) {
	r.lastFilter = f
	return r.users, nil
}

func (r *stubAdminRepo) ListGames(_ context.Context, f ports.GameAdminFilter) ([]ports.GameOverview, error) {
	return r.games, nil
}

func (r *stubAdminRepo) DeleteUser(_ context.Context, userID string, deleteGames bool) (*ports.PurgeResult, error) {
	r.deletedUsers = append(r.deletedUsers, userID)
	res := &ports.PurgeResult{Records: 3, Users: 1}
	if deleteGames {
		res.Games = 2
		res.Records += 2
	}
	return res, nil
}

func (r *stubAdminRepo) DeleteUserGames(_ context.Context, userID string) (*ports.PurgeResult, error) {
	return &ports.PurgeResult{Records: 2, Games: 2}, nil
}

func (r *stubAdminRepo) DeleteUnverifiedBefore(_ context.Context, cutoff time.Time) (*ports.PurgeResult, error) {
	r.lastCutoff = cutoff
	return &ports.PurgeResult{Records: 4, Users: 4}, nil
}

func newAdminService(repo *stubAdminRepo, audit *stubAuditRepo) *AdminService {
	return NewAdminService(repo, audit, zerolog.Nop())
}

func TestAdminService_Stats(t *testing.T) {
	repo := &stubAdminRepo{stats: ports.AdminStats{TotalUsers: 10, ApprovedGames: 3}}
	svc := newAdminService(repo, &stubAuditRepo{})

	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if stats.TotalUsers != 10 || stats.ApprovedGames != 3 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}

func TestAdminService_ListUsers_ClampsLimit(t *testing.T) {
	repo := &stubAdminRepo{}
	svc := newAdminService(repo, &stubAuditRepo{})

	if _, err := svc.ListUsers(context.Background(), ports.UserAdminFilter{Limit: 0}); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if repo.lastFilter.Limit != 50 {
		t.Fatalf("default limit = %d, want 50", repo.lastFilter.Limit)
	}

	if _, err := svc.ListUsers(context.Background(), ports.UserAdminFilter{Limit: 500}); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if repo.lastFilter.Limit != maxPageLimit {
		t.Fatalf("clamped limit = %d, want %d", repo.lastFilter.Limit, maxPageLimit)
	}
}

func TestAdminService_DeleteUser(t *testing.T) {
	repo := &stubAdminRepo{}
	audit := &stubAuditRepo{}
	svc := newAdminService(repo, audit)

	res, err := svc.DeleteUser(context.Background(), "admin1", "u1", true)
	if err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if res.Users != 1 || res.Games != 2 {
		t.Fatalf("unexpected result %+v", res)
	}
	if len(audit.records) != 1 || audit.records[0].Action != "user_deleted" {
		t.Fatalf("expected audit record, got %+v", audit.records)
	}
	if audit.records[0].TargetID != "u1" || audit.records[0].ActorID != "admin1" {
		t.Fatalf("audit record misattributed: %+v", audit.records[0])
	}
}

func TestAdminService_DeleteUser_SelfBlocked(t *testing.T) {
	repo := &stubAdminRepo{}
	svc := newAdminService(repo, &stubAuditRepo{})

	if _, err := svc.DeleteUser(context.Background(), "admin1", "admin1", false); err != domain.ErrValidation {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if len(repo.deletedUsers) != 0 {
		t.Fatalf("self delete reached the repository")
	}
}

func TestAdminService_DeleteUserGames(t *testing.T) {
	audit := &stubAuditRepo{}
	svc := newAdminService(&stubAdminRepo{}, audit)

	res, err := svc.DeleteUserGames(context.Background(), "admin1", "dev1")
	if err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if res.Games != 2 {
		t.Fatalf("unexpected result %+v", res)
	}
	if len(audit.records) != 1 || audit.records[0].Action != "user_games_deleted" {
		t.Fatalf("expected audit record, got %+v", audit.records)
	}
}

func TestAdminService_PurgeUnverified(t *testing.T) {
	repo := &stubAdminRepo{}
	audit := &stubAuditRepo{}
	svc := newAdminService(repo, audit)

	if _, err := svc.PurgeUnverified(context.Background(), "admin1", 0); err != domain.ErrValidation {
		t.Fatalf("expected ErrValidation for zero window, got %v", err)
	}

	res, err := svc.PurgeUnverified(context.Background(), "admin1", 48*time.Hour)
	if err != nil {
		t.Fatalf("purge failed: %v", err)
	}
	if res.Users != 4 {
		t.Fatalf("unexpected result %+v", res)
	}
	wantCutoff := time.Now().UTC().Add(-48 * time.Hour)
	if repo.lastCutoff.Sub(wantCutoff) > time.Minute || wantCutoff.Sub(repo.lastCutoff) > time.Minute {
		t.Fatalf("cutoff %v far from expected %v", repo.lastCutoff, wantCutoff)
	}
	if len(audit.records) != 1 || audit.records[0].Action != "unverified_purged" {
		t.Fatalf("expected audit record, got %+v", audit.records)
	}
}

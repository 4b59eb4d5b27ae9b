package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/pyxolotl/marketplace-api/internal/core/domain"
)

// DownloadTokenStore issues short-lived, single-use download tokens backed by
// Redis TTL keys. Key format: download:<token> → build ref.
type DownloadTokenStore struct {
	client *redis.Client
}

// NewDownloadTokenStore creates a DownloadTokenStore wrapping the given client.
func NewDownloadTokenStore(client *redis.Client) *DownloadTokenStore {
	return &DownloadTokenStore{client: client}
}

// Issue stores a fresh token mapping to the build ref, expiring after ttl.
func (s *DownloadTokenStore) Issue(ctx context.Context, userID, gameID, ref string, ttl time.Duration) (string, error) {
	token := uuid.NewString()
	if err := s.client.Set(ctx, s.key(token), ref, ttl).Err(); err != nil {
		return "", fmt.Errorf("issue download token: %w", err)
	}
	return token, nil
}

// Redeem consumes the token and returns the build ref it was issued for.
// GETDEL makes redemption single-use; an expired or repeated token fails
// with domain.ErrTokenInvalid.
func (s *DownloadTokenStore) Redeem(ctx context.Context, token string) (string, error) {
	ref, err := s.client.GetDel(ctx, s.key(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", domain.ErrTokenInvalid
		}
		return "", fmt.Errorf("redeem download token: %w", err)
	}
	return ref, nil
}

func (s *DownloadTokenStore) key(token string) string {
	return "download:" + token
}

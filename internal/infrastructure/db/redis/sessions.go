package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/afiya/health-system/internal/core/domain"
)

// SessionStore keeps issued session tokens in Redis.
// Keys: session:<token> -> user id, and user_token:<user id> -> token so a
// login while the session is live hands back the same token.
type SessionStore struct {
	client *redis.Client
}

// NewSessionStore creates a SessionStore wrapping the given Redis client.
func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

// Save records token as the active session for userID. Both keys share the
// TTL so reuse and validation expire together.
func (s *SessionStore) Save(ctx context.Context, token string, userID int64, ttl time.Duration) error {
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, sessionKey(token), userID, ttl)
	pipe.Set(ctx, userTokenKey(userID), token, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Lookup resolves a presented token to its user id.
func (s *SessionStore) Lookup(ctx context.Context, token string) (int64, error) {
	val, err := s.client.Get(ctx, sessionKey(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, domain.ErrSessionNotFound
		}
		return 0, fmt.Errorf("session lookup: %w", err)
	}
	id, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("session lookup: bad user id %q", val)
	}
	return id, nil
}

// ActiveToken returns the live token for userID, if any.
func (s *SessionStore) ActiveToken(ctx context.Context, userID int64) (string, error) {
	token, err := s.client.Get(ctx, userTokenKey(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", domain.ErrSessionNotFound
		}
		return "", fmt.Errorf("active token: %w", err)
	}
	return token, nil
}

func sessionKey(token string) string {
	return "session:" + token
}

func userTokenKey(userID int64) string {
	return fmt.Sprintf("user_token:%d", userID)
}

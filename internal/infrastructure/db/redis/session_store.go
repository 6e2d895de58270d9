package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/melodia/music-catalog-api/internal/core/domain"
)

// Session keys follow the layout userKey<identityId>; the value is the one
// token currently considered authoritative for that identity.
const sessionKeyPrefix = "userKey"

// replaceScript swaps the stored token only while it still equals the
// presented one, so two concurrent refreshes cannot both win. Returns
// {1, new} on swap, {0, current} on mismatch, {0, ""} when no session exists.
var replaceScript = redis.NewScript(`
local current = redis.call("GET", KEYS[1])
if not current then
  return {0, ""}
end
if current ~= ARGV[1] then
  return {0, current}
end
redis.call("SET", KEYS[1], ARGV[2], "PX", ARGV[3])
return {1, ARGV[2]}
`)

// SessionStore keeps at most one live token per identity in Redis. It holds
// no business logic: classification of its two failure shapes (no session vs
// store down) happens in the session manager.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionStore wraps the shared Redis client. Session records are kept
// for twice the token lifetime: long enough that an expired token can still
// be refreshed, short enough that abandoned sessions do not pile up forever.
func NewSessionStore(client *redis.Client, tokenTTL time.Duration) *SessionStore {
	return &SessionStore{client: client, ttl: 2 * tokenTTL}
}

// Get returns the current token for the identity. Absence is reported as
// domain.ErrNoSession; any transport failure as ErrSessionStoreUnavailable.
func (s *SessionStore) Get(ctx context.Context, userID string) (string, error) {
	val, err := s.client.Get(ctx, s.key(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", domain.ErrNoSession
	}
	if err != nil {
		return "", fmt.Errorf("%w: session get: %v", domain.ErrSessionStoreUnavailable, err)
	}
	return val, nil
}

// Set stores the token, replacing any existing value for the identity.
func (s *SessionStore) Set(ctx context.Context, userID, token string) error {
	if err := s.client.Set(ctx, s.key(userID), token, s.ttl).Err(); err != nil {
		return fmt.Errorf("%w: session set: %v", domain.ErrSessionStoreUnavailable, err)
	}
	return nil
}

// Delete removes the session. Deleting an absent session is not an error.
func (s *SessionStore) Delete(ctx context.Context, userID string) error {
	if err := s.client.Del(ctx, s.key(userID)).Err(); err != nil {
		return fmt.Errorf("%w: session delete: %v", domain.ErrSessionStoreUnavailable, err)
	}
	return nil
}

// Replace atomically swaps oldToken for newToken. When the condition fails
// it reports the value actually on record so the caller can adopt it.
func (s *SessionStore) Replace(ctx context.Context, userID, oldToken, newToken string) (bool, string, error) {
	res, err := replaceScript.Run(ctx, s.client,
		[]string{s.key(userID)},
		oldToken, newToken, s.ttl.Milliseconds(),
	).Result()
	if err != nil {
		return false, "", fmt.Errorf("%w: session replace: %v", domain.ErrSessionStoreUnavailable, err)
	}

	reply, ok := res.([]interface{})
	if !ok || len(reply) != 2 {
		return false, "", fmt.Errorf("%w: session replace: unexpected reply %v", domain.ErrSessionStoreUnavailable, res)
	}
	swapped, _ := reply[0].(int64)
	current, _ := reply[1].(string)
	return swapped == 1, current, nil
}

func (s *SessionStore) key(userID string) string {
	return sessionKeyPrefix + userID
}

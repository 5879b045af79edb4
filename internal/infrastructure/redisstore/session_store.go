package redisstore

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/shopease-api/internal/domain/repository"
)

// swapScript: KEYS[1]=session key, ARGV[1]=expected, ARGV[2]=next, ARGV[3]=ttl ms.
// An absent key compares equal to "".
var swapScript = redis.NewScript(`
local cur = redis.call('GET', KEYS[1])
if not cur then cur = '' end
if cur ~= ARGV[1] then
  return 0
end
local ttl = tonumber(ARGV[3])
if ttl > 0 then
  redis.call('SET', KEYS[1], ARGV[2], 'PX', ttl)
else
  redis.call('SET', KEYS[1], ARGV[2])
end
return 1
`)

// SessionStore keeps one token per user under user:session:<id>.
type SessionStore struct {
	rdb redis.UniversalClient
}

func NewSessionStore(rdb redis.UniversalClient) *SessionStore {
	return &SessionStore{rdb: rdb}
}

func sessionKey(userID string) string {
	return "user:session:" + userID
}

func (s *SessionStore) Current(ctx context.Context, userID string) (string, error) {
	v, err := s.rdb.Get(ctx, sessionKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return v, err
}

func (s *SessionStore) Swap(ctx context.Context, userID, prev, next string, ttl time.Duration) (bool, error) {
	n, err := swapScript.Run(ctx, s.rdb, []string{sessionKey(userID)}, prev, next, ttl.Milliseconds()).Int()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (s *SessionStore) Clear(ctx context.Context, userID string) error {
	return s.rdb.Del(ctx, sessionKey(userID)).Err()
}

var _ repository.SessionStore = (*SessionStore)(nil)

package token

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// SafetyMargin is subtracted from a token's reported lifetime and enforced
// again on reads, so a token is never used within its final seconds of life.
const SafetyMargin = 60 * time.Second

// refreshLockTTL bounds how long a crashed refresher can hold the guard.
const refreshLockTTL = 10 * time.Second

// Token is the single logical bearer-token slot for one provider. It is
// overwritten wholesale on refresh, never partially updated.
type Token struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

func (t Token) valid(now time.Time) bool {
	return t.AccessToken != "" && t.ExpiresAt.After(now.Add(SafetyMargin))
}

// Store keeps the token in Redis so it survives restarts and is shared across
// gateway instances. Every operation is best effort: a store failure reads as
// "absent", which just triggers a refresh upstream.
type Store struct {
	rdb     *redis.Client
	key     string
	lockKey string
	now     func() time.Time
}

func NewStore(rdb *redis.Client, providerName string) *Store {
	name := strings.ToLower(strings.TrimSpace(providerName))
	return &Store{
		rdb:     rdb,
		key:     "flightgw:token:" + name,
		lockKey: "flightgw:token:" + name + ":refresh",
		now:     time.Now,
	}
}

func (s *Store) Get(ctx context.Context) (Token, bool) {
	data, err := s.rdb.Get(ctx, s.key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.WarnContext(ctx, "token store read failed, treating as absent", "error", err)
		}
		return Token{}, false
	}

	var tok Token
	if err := json.Unmarshal(data, &tok); err != nil {
		slog.WarnContext(ctx, "token store holds malformed entry, treating as absent", "error", err)
		return Token{}, false
	}
	if tok.AccessToken == "" {
		return Token{}, false
	}
	return tok, true
}

// Put overwrites the slot with token and expiry in a single write.
func (s *Store) Put(ctx context.Context, tok Token) error {
	data, err := json.Marshal(tok)
	if err != nil {
		return err
	}

	ttl := tok.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		ttl = time.Second
	}
	return s.rdb.Set(ctx, s.key, data, ttl).Err()
}

func (s *Store) Clear(ctx context.Context) {
	if err := s.rdb.Del(ctx, s.key).Err(); err != nil {
		slog.WarnContext(ctx, "token store clear failed", "error", err)
	}
}

// IsValid reports whether a stored token exists and its expiry is more than
// the safety margin in the future.
func (s *Store) IsValid(ctx context.Context) bool {
	tok, ok := s.Get(ctx)
	return ok && tok.valid(s.now())
}

// TryRefreshLock attempts the non-blocking refresh guard. Only the caller that
// gets true may hit the auth endpoint; everyone else proceeds with whatever
// Get returns. The guard fails open when the store is unreachable: redundant
// refreshes are harmless (last write wins), a gateway with no token is not.
func (s *Store) TryRefreshLock(ctx context.Context) bool {
	ok, err := s.rdb.SetNX(ctx, s.lockKey, "1", refreshLockTTL).Result()
	if err != nil {
		slog.WarnContext(ctx, "token refresh lock unavailable, refreshing unguarded", "error", err)
		return true
	}
	return ok
}

func (s *Store) ReleaseRefreshLock(ctx context.Context) {
	if err := s.rdb.Del(ctx, s.lockKey).Err(); err != nil {
		slog.WarnContext(ctx, "token refresh lock release failed", "error", err)
	}
}

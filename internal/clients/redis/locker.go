package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/pathwise/pathwise-backend/internal/platform/envutil"
	"github.com/pathwise/pathwise-backend/internal/platform/logger"
)

// PairLocker serializes path generation per (user, role) pair across
// instances. Acquire returns an opaque release func; a held lock means the
// caller must give up with a conflict rather than wait.
type PairLocker interface {
	Acquire(ctx context.Context, userID, roleID uuid.UUID) (release func(), ok bool, err error)
	Close() error
}

type pairLocker struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

// releaseScript deletes the key only if the holder's token still matches, so
// an expired lock taken over by another instance is never released by us.
var releaseScript = goredis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
  return redis.call("del", KEYS[1])
end
return 0
`)

func NewPairLocker(log *logger.Logger) (PairLocker, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := envutil.String("REDIS_ADDR", "")
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	ttl := envutil.Duration("PATH_LOCK_TTL", 30*time.Second)

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &pairLocker{
		log: log.With("service", "PairLocker"),
		rdb: rdb,
		ttl: ttl,
	}, nil
}

func (l *pairLocker) Acquire(ctx context.Context, userID, roleID uuid.UUID) (func(), bool, error) {
	if l == nil || l.rdb == nil {
		return nil, false, fmt.Errorf("pair locker not initialized")
	}

	key := fmt.Sprintf("pathlock:%s:%s", userID, roleID)
	token := uuid.NewString()

	ok, err := l.rdb.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("acquire %s: %w", key, err)
	}
	if !ok {
		return nil, false, nil
	}

	release := func() {
		rctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := releaseScript.Run(rctx, l.rdb, []string{key}, token).Err(); err != nil {
			l.log.Warn("lock release failed", "key", key, "error", err)
		}
	}
	return release, true, nil
}

func (l *pairLocker) Close() error {
	if l == nil || l.rdb == nil {
		return nil
	}
	return l.rdb.Close()
}

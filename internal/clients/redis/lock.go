package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/memoquiz-backend/internal/platform/logger"
)

// releaseScript deletes the key only while it still holds our token, so an
// expired lease never releases a lock another process has since taken.
var releaseScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type LockConfig struct {
	Addr         string
	Key          string
	TTL          time.Duration
	PollInterval time.Duration
}

// PoolLock is a single-key lease lock that serializes pool mutations across
// processes sharing one pool file or database.
type PoolLock struct {
	log  *logger.Logger
	rdb  *goredis.Client
	key  string
	ttl  time.Duration
	poll time.Duration
}

func NewPoolLock(log *logger.Logger, cfg LockConfig) (*PoolLock, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	addr := strings.TrimSpace(cfg.Addr)
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	key := strings.TrimSpace(cfg.Key)
	if key == "" {
		key = "memoquiz:pool:lock"
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	poll := cfg.PollInterval
	if poll <= 0 {
		poll = 50 * time.Millisecond
	}

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

	return &PoolLock{
		log:  log.With("service", "RedisPoolLock"),
		rdb:  rdb,
		key:  key,
		ttl:  ttl,
		poll: poll,
	}, nil
}

// Lock blocks until the lease is acquired or ctx is done. The returned unlock
// is safe to call once; it uses a fresh context so a cancelled request still
// releases the lease.
func (l *PoolLock) Lock(ctx context.Context) (func(), error) {
	if l == nil || l.rdb == nil {
		return nil, fmt.Errorf("redis pool lock not initialized")
	}
	token := uuid.NewString()
	ticker := time.NewTicker(l.poll)
	defer ticker.Stop()

	for {
		ok, err := l.rdb.SetNX(ctx, l.key, token, l.ttl).Result()
		if err != nil && !errors.Is(err, goredis.Nil) {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			return nil, fmt.Errorf("redis setnx %s: %w", l.key, err)
		}
		if ok {
			return func() { l.release(token) }, nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

func (l *PoolLock) release(token string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := releaseScript.Run(ctx, l.rdb, []string{l.key}, token).Err(); err != nil && !errors.Is(err, goredis.Nil) {
		l.log.Warn("redis pool lock release failed", "key", l.key, "error", err)
	}
}

func (l *PoolLock) Close() error {
	if l == nil || l.rdb == nil {
		return nil
	}
	return l.rdb.Close()
}

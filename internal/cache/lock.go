// Package cache coordinates in-flight fetch work so concurrent readers
// hitting the same stale target trigger one refresh, not a stampede.
package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/relationgraph-backend/internal/logger"
)

// FetchLock marks targets as being fetched. Acquire returns false when
// another worker already holds the target; the TTL bounds how long a
// crashed worker can keep a target locked.
type FetchLock interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

type redisLock struct {
	log    *logger.Logger
	rdb    *goredis.Client
	prefix string
}

// NewRedisLock connects to redis at addr and verifies the connection.
func NewRedisLock(addr string, log *logger.Logger) (FetchLock, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        strings.TrimSpace(addr),
		DialTimeout: 5 * time.Second,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return &redisLock{
		log:    log.With("component", "fetch_lock"),
		rdb:    rdb,
		prefix: "fetching:",
	}, nil
}

func (l *redisLock) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := l.rdb.SetNX(ctx, l.prefix+key, "1", ttl).Result()
	if err != nil {
		// a lock outage must not stop fetching; callers fall through
		l.log.Warn("fetch lock acquire failed, proceeding unlocked", "key", key, "error", err)
		return true, nil
	}
	return ok, nil
}

func (l *redisLock) Release(ctx context.Context, key string) error {
	return l.rdb.Del(ctx, l.prefix+key).Err()
}

type localLock struct {
	mu      sync.Mutex
	expires map[string]time.Time
}

// NewLocalLock is the in-process fallback used when redis is not
// configured. Same semantics within a single process.
func NewLocalLock() FetchLock {
	return &localLock{expires: map[string]time.Time{}}
}

func (l *localLock) Acquire(_ context.Context, key string, ttl time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := time.Now()
	if exp, ok := l.expires[key]; ok && exp.After(now) {
		return false, nil
	}
	l.expires[key] = now.Add(ttl)
	return true, nil
}

func (l *localLock) Release(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.expires, key)
	return nil
}

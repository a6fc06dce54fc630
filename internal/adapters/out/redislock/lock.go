// Package redislock provides the batch lease. With several replicas running the
// cron job, only the lease holder processes the latest prediction file.
package redislock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "dispatch:lock:"

var (
	_ ports.BatchLock = (*Lock)(nil)
	_ ports.BatchLock = (*LocalLock)(nil)
)

// releaseScript deletes the key only if it still holds our token, so an
// expired lease never removes a newer holder's lock.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Lock is a SET NX PX lease on a shared redis.
type Lock struct {
	rdb redis.UniversalClient
}

func NewLock(rdb redis.UniversalClient) (*Lock, error) {
	if rdb == nil {
		return nil, errs.NewValueIsRequiredError("rdb")
	}
	return &Lock{rdb: rdb}, nil
}

func (l *Lock) TryAcquire(ctx context.Context, name string, ttl time.Duration) (ports.Lease, bool, error) {
	if err := validate(name, ttl); err != nil {
		return nil, false, err
	}

	key := keyPrefix + name
	token := uuid.NewString()

	ok, err := l.rdb.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("acquire %s: %w", key, err)
	}
	if !ok {
		return nil, false, nil
	}
	return &lease{rdb: l.rdb, key: key, token: token}, true, nil
}

type lease struct {
	rdb   redis.UniversalClient
	key   string
	token string
}

func (l *lease) Release(ctx context.Context) error {
	if err := releaseScript.Run(ctx, l.rdb, []string{l.key}, l.token).Err(); err != nil {
		return fmt.Errorf("release %s: %w", l.key, err)
	}
	return nil
}

// LocalLock is the single-process lease used when no redis is configured.
type LocalLock struct {
	mu      sync.Mutex
	holders map[string]localHolder
	now     func() time.Time
}

type localHolder struct {
	token   string
	expires time.Time
}

func NewLocalLock() *LocalLock {
	return &LocalLock{holders: make(map[string]localHolder), now: time.Now}
}

func (l *LocalLock) TryAcquire(_ context.Context, name string, ttl time.Duration) (ports.Lease, bool, error) {
	if err := validate(name, ttl); err != nil {
		return nil, false, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if h, held := l.holders[name]; held && now.Before(h.expires) {
		return nil, false, nil
	}

	token := uuid.NewString()
	l.holders[name] = localHolder{token: token, expires: now.Add(ttl)}
	return &localLease{lock: l, name: name, token: token}, true, nil
}

type localLease struct {
	lock  *LocalLock
	name  string
	token string
}

func (l *localLease) Release(_ context.Context) error {
	l.lock.mu.Lock()
	defer l.lock.mu.Unlock()

	if h, held := l.lock.holders[l.name]; held && h.token == l.token {
		delete(l.lock.holders, l.name)
	}
	return nil
}

func validate(name string, ttl time.Duration) error {
	if name == "" {
		return errs.NewValueIsRequiredError("name")
	}
	if ttl <= 0 {
		return errs.NewValueIsInvalidError("ttl")
	}
	return nil
}

package assets

import (
	"context"
	"sort"
	"sync"

	"github.com/redis/go-redis/v9"
)

// DefaultOrphanSet is the Redis set holding keys whose deletion failed.
const DefaultOrphanSet = "assets:orphans"

// OrphanLedger remembers blobs that could not be deleted.
type OrphanLedger interface {
	Record(ctx context.Context, key string) error
	List(ctx context.Context) ([]string, error)
	Forget(ctx context.Context, keys ...string) error
}

// NopOrphanLedger drops everything.
type NopOrphanLedger struct{}

func (NopOrphanLedger) Record(context.Context, string) error    { return nil }
func (NopOrphanLedger) List(context.Context) ([]string, error)  { return nil, nil }
func (NopOrphanLedger) Forget(context.Context, ...string) error { return nil }

// RedisOrphanLedger keeps orphan keys in a Redis set shared by all instances.
type RedisOrphanLedger struct {
	client *redis.Client
	set    string
}

// NewRedisOrphanLedger uses DefaultOrphanSet when set is empty.
func NewRedisOrphanLedger(client *redis.Client, set string) *RedisOrphanLedger {
	if set == "" {
		set = DefaultOrphanSet
	}
	return &RedisOrphanLedger{client: client, set: set}
}

func (l *RedisOrphanLedger) Record(ctx context.Context, key string) error {
	return l.client.SAdd(ctx, l.set, key).Err()
}

func (l *RedisOrphanLedger) List(ctx context.Context) ([]string, error) {
	keys, err := l.client.SMembers(ctx, l.set).Result()
	if err != nil {
		return nil, err
	}
	sort.Strings(keys)
	return keys, nil
}

func (l *RedisOrphanLedger) Forget(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	members := make([]interface{}, len(keys))
	for i, k := range keys {
		members[i] = k
	}
	return l.client.SRem(ctx, l.set, members...).Err()
}

// MemoryOrphanLedger is a process local ledger, used when no cache is configured.
type MemoryOrphanLedger struct {
	mu   sync.Mutex
	keys map[string]struct{}
}

func NewMemoryOrphanLedger() *MemoryOrphanLedger {
	return &MemoryOrphanLedger{keys: map[string]struct{}{}}
}

func (l *MemoryOrphanLedger) Record(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.keys[key] = struct{}{}
	return nil
}

func (l *MemoryOrphanLedger) List(context.Context) ([]string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, 0, len(l.keys))
	for k := range l.keys {
		out = append(out, k)
	}
	sort.Strings(out)
	return out, nil
}

func (l *MemoryOrphanLedger) Forget(_ context.Context, keys ...string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, k := range keys {
		delete(l.keys, k)
	}
	return nil
}

package ingest

import (
	"context"
	"errors"
	"sync"

	"github.com/redis/go-redis/v9"
)

// FeedState remembers the last ETag applied per table.
type FeedState interface {
	ETag(ctx context.Context, table string) (string, error)
	SetETag(ctx context.Context, table, etag string) error
}

const redisKeyPrefix = "outage-api:etag:"

// RedisFeedState keeps ETags in Redis so they survive restarts and are shared
// between replicas.
type RedisFeedState struct {
	client *redis.Client
}

func NewRedisFeedState(client *redis.Client) *RedisFeedState {
	return &RedisFeedState{client: client}
}

func (s *RedisFeedState) ETag(ctx context.Context, table string) (string, error) {
	v, err := s.client.Get(ctx, redisKeyPrefix+table).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return v, err
}

// SetETag stores etag; an empty etag clears the entry.
func (s *RedisFeedState) SetETag(ctx context.Context, table, etag string) error {
	if etag == "" {
		return s.client.Del(ctx, redisKeyPrefix+table).Err()
	}
	return s.client.Set(ctx, redisKeyPrefix+table, etag, 0).Err()
}

// MemoryFeedState is the process-local FeedState used without Redis.
type MemoryFeedState struct {
	mu    sync.Mutex
	etags map[string]string
}

func NewMemoryFeedState() *MemoryFeedState {
	return &MemoryFeedState{etags: map[string]string{}}
}

func (s *MemoryFeedState) ETag(_ context.Context, table string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.etags[table], nil
}

func (s *MemoryFeedState) SetETag(_ context.Context, table, etag string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if etag == "" {
		delete(s.etags, table)
		return nil
	}
	s.etags[table] = etag
	return nil
}

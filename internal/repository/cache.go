package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/fatmaabchouk/portfolio-assistant/internal/domain"
	"github.com/fatmaabchouk/portfolio-assistant/internal/knowledge"
)

// cacheClient is the subset of the Redis client the cache uses
type cacheClient interface {
	Get(ctx context.Context, key string) *goredis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *goredis.StatusCmd
	Del(ctx context.Context, keys ...string) *goredis.IntCmd
	Close() error
}

// NewRedisClient connects to the Redis server at url and pings it
func NewRedisClient(ctx context.Context, url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	opts.DialTimeout = 2 * time.Second

	rdb := goredis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

// CachedKnowledgeStore keeps the section list in Redis for a while.
// Cache failures are logged and fall through to the wrapped store.
type CachedKnowledgeStore struct {
	store  knowledge.Store
	rdb    cacheClient
	key    string
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedKnowledgeStore wraps store with a Redis cache under key
func NewCachedKnowledgeStore(store knowledge.Store, rdb *goredis.Client, key string, ttl time.Duration, logger *zap.Logger) *CachedKnowledgeStore {
	return newCachedKnowledgeStore(store, rdb, key, ttl, logger)
}

func newCachedKnowledgeStore(store knowledge.Store, rdb cacheClient, key string, ttl time.Duration, logger *zap.Logger) *CachedKnowledgeStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedKnowledgeStore{
		store:  store,
		rdb:    rdb,
		key:    key,
		ttl:    ttl,
		logger: logger.Named("cache"),
	}
}

// ListSections serves the cached list, reading the store on a miss
func (c *CachedKnowledgeStore) ListSections(ctx context.Context) ([]domain.KnowledgeSection, error) {
	raw, err := c.rdb.Get(ctx, c.key).Bytes()
	switch {
	case err == nil:
		var sections []domain.KnowledgeSection
		if err := json.Unmarshal(raw, &sections); err == nil {
			return sections, nil
		}
		c.logger.Warn("Discarding unreadable cache entry", zap.String("key", c.key))
	case !errors.Is(err, goredis.Nil):
		c.logger.Warn("Cache read failed", zap.Error(err))
	}

	sections, err := c.store.ListSections(ctx)
	if err != nil {
		return nil, err
	}
	// empty results are not cached so the fallback is not pinned
	if len(sections) == 0 {
		return sections, nil
	}

	data, err := json.Marshal(sections)
	if err == nil {
		err = c.rdb.Set(ctx, c.key, data, c.ttl).Err()
	}
	if err != nil {
		c.logger.Warn("Cache write failed", zap.Error(err))
	}
	return sections, nil
}

// SampleSections always reads the store
func (c *CachedKnowledgeStore) SampleSections(ctx context.Context, limit int) ([]domain.KnowledgeSection, error) {
	return c.store.SampleSections(ctx, limit)
}

// UpsertSections writes through and invalidates the cached list
func (c *CachedKnowledgeStore) UpsertSections(ctx context.Context, sections []domain.KnowledgeSection) error {
	if err := c.store.UpsertSections(ctx, sections); err != nil {
		return err
	}
	if err := c.rdb.Del(ctx, c.key).Err(); err != nil {
		c.logger.Warn("Cache invalidation failed", zap.Error(err))
	}
	return nil
}

// Ping checks the wrapped store
func (c *CachedKnowledgeStore) Ping(ctx context.Context) error {
	return c.store.Ping(ctx)
}

// Close closes the cache client and the wrapped store
func (c *CachedKnowledgeStore) Close() error {
	return errors.Join(c.rdb.Close(), c.store.Close())
}

var _ knowledge.Store = (*CachedKnowledgeStore)(nil)

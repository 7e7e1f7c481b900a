// Package cache keeps classification results in Redis so repeated catalog
// lookups do not rerun the rule table.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Edisonlex/lubri/internal/classification"
	"github.com/Edisonlex/lubri/internal/metrics"
	"github.com/Edisonlex/lubri/internal/model"
	"github.com/redis/go-redis/v9"
)

// KeyPrefix namespaces every key this package writes.
const KeyPrefix = "lubri:classify:"

// RulesKey holds the fingerprint of the rule table the cached results came from.
const RulesKey = KeyPrefix + "rules"

// DefaultTTL is used when a non-positive TTL is configured.
const DefaultTTL = 24 * time.Hour

// Options configures the Redis connection.
type Options struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// ClassificationCache stores ClassificationResults keyed by normalized descriptor.
type ClassificationCache struct {
	client *redis.Client
	ttl    time.Duration
}

// New connects to Redis and verifies the connection.
func New(ctx context.Context, opts Options) (*ClassificationCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return NewWithClient(client, opts.TTL), nil
}

// NewWithClient wraps an existing client.
func NewWithClient(client *redis.Client, ttl time.Duration) *ClassificationCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &ClassificationCache{client: client, ttl: ttl}
}

// Close closes the Redis connection.
func (c *ClassificationCache) Close() error {
	return c.client.Close()
}

// Key returns the Redis key for desc as classified by the rule table with
// the given fingerprint. Results from different tables never share a key.
func Key(table string, desc model.ProductDescriptor) string {
	if len(table) > 8 {
		table = table[:8]
	}
	sum := sha256.Sum256([]byte(classification.Key(desc)))
	return KeyPrefix + table + ":" + hex.EncodeToString(sum[:16])
}

// Get returns the cached result for desc. ok is false on a miss.
func (c *ClassificationCache) Get(ctx context.Context, table string, desc model.ProductDescriptor) (model.ClassificationResult, bool, error) {
	val, err := c.client.Get(ctx, Key(table, desc)).Result()
	if errors.Is(err, redis.Nil) {
		return model.ClassificationResult{}, false, nil
	}
	if err != nil {
		return model.ClassificationResult{}, false, fmt.Errorf("redis get: %w", err)
	}

	var result model.ClassificationResult
	if err := json.Unmarshal([]byte(val), &result); err != nil {
		return model.ClassificationResult{}, false, fmt.Errorf("decode cached classification: %w", err)
	}
	return result, true, nil
}

// Set stores result for desc with the configured TTL.
func (c *ClassificationCache) Set(ctx context.Context, table string, desc model.ProductDescriptor, result model.ClassificationResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode classification: %w", err)
	}
	if err := c.client.Set(ctx, Key(table, desc), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Flush removes every cached classification and the recorded rule fingerprint.
func (c *ClassificationCache) Flush(ctx context.Context) (int, error) {
	var cursor uint64
	removed := 0
	for {
		keys, next, err := c.client.Scan(ctx, cursor, KeyPrefix+"*", 100).Result()
		if err != nil {
			return removed, fmt.Errorf("redis scan: %w", err)
		}
		if len(keys) > 0 {
			n, err := c.client.Del(ctx, keys...).Result()
			if err != nil {
				return removed, fmt.Errorf("redis del: %w", err)
			}
			removed += int(n)
		}
		if next == 0 {
			return removed, nil
		}
		cursor = next
	}
}

// SyncRules drops the entries of earlier rule tables when fingerprint differs
// from the one recorded by the previous call, then records fingerprint. It
// reports whether a flush happened.
func (c *ClassificationCache) SyncRules(ctx context.Context, fingerprint string) (bool, error) {
	current, err := c.client.Get(ctx, RulesKey).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return false, fmt.Errorf("redis get: %w", err)
	}
	if err == nil && current == fingerprint {
		return false, nil
	}

	if _, err := c.Flush(ctx); err != nil {
		return false, err
	}
	if err := c.client.Set(ctx, RulesKey, fingerprint, 0).Err(); err != nil {
		return true, fmt.Errorf("redis set: %w", err)
	}
	return true, nil
}

// Classifier is the pure classifier the cache fronts.
type Classifier interface {
	Classify(desc model.ProductDescriptor) model.ClassificationResult
	Fingerprint() string
}

// CachedClassifier reads through the cache. Cache failures are logged and the
// inner classifier answers, so classification still never fails.
type CachedClassifier struct {
	inner  Classifier
	cache  *ClassificationCache
	logger *slog.Logger
}

// NewCachedClassifier fronts inner with cache. A nil cache disables caching.
func NewCachedClassifier(inner Classifier, cache *ClassificationCache, logger *slog.Logger) *CachedClassifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedClassifier{inner: inner, cache: cache, logger: logger}
}

// Classify returns the cached result for desc or computes and stores it.
func (c *CachedClassifier) Classify(ctx context.Context, desc model.ProductDescriptor) model.ClassificationResult {
	if c.cache == nil {
		return c.inner.Classify(desc)
	}

	table := c.inner.Fingerprint()
	if result, ok, err := c.cache.Get(ctx, table, desc); err != nil {
		c.logger.Warn("Classification cache read failed", "error", err)
	} else if ok {
		metrics.ClassificationCacheTotal.WithLabelValues(metrics.CacheHit).Inc()
		return result
	}
	metrics.ClassificationCacheTotal.WithLabelValues(metrics.CacheMiss).Inc()

	result := c.inner.Classify(desc)
	if c.inner.Fingerprint() != table {
		// Rules were swapped mid-call; result may belong to either table.
		return result
	}
	if err := c.cache.Set(ctx, table, desc, result); err != nil {
		c.logger.Warn("Classification cache write failed", "error", err)
	}
	return result
}

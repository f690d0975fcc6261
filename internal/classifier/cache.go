package classifier

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/complaint-service/internal/domain"
)

const cacheKeyPrefix = "classify:"

// Cached wraps a Classifier with a Redis result cache keyed by a hash of the
// submission content. Identical resubmissions skip the backend call. Cache
// failures degrade to the inner classifier, never to an error.
type Cached struct {
	inner  Classifier
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCached constructs the caching decorator.
func NewCached(inner Classifier, client *redis.Client, ttl time.Duration, logger *zap.Logger) *Cached {
	return &Cached{inner: inner, client: client, ttl: ttl, logger: logger}
}

// Classify consults the cache before calling the inner backend. Only
// successful classifications are cached; errors are never memoized.
func (c *Cached) Classify(ctx context.Context, input Input) (*domain.Classification, error) {
	key := cacheKey(input)

	if raw, err := c.client.Get(ctx, key).Result(); err == nil {
		var cached domain.Classification
		if err := json.Unmarshal([]byte(raw), &cached); err == nil {
			return &cached, nil
		}
		c.logger.Debug("dropping undecodable cache entry", zap.String("key", key))
		_ = c.client.Del(ctx, key).Err()
	} else if err != redis.Nil {
		c.logger.Debug("classification cache read failed", zap.Error(err))
	}

	result, err := c.inner.Classify(ctx, input)
	if err != nil {
		return nil, err
	}

	if encoded, err := json.Marshal(result); err == nil {
		if err := c.client.Set(ctx, key, encoded, c.ttl).Err(); err != nil {
			c.logger.Debug("classification cache write failed", zap.Error(err))
		}
	}
	return result, nil
}

func cacheKey(input Input) string {
	h := sha256.New()
	h.Write([]byte(input.Text))
	if input.Image != nil {
		h.Write([]byte{0})
		h.Write([]byte(input.Image.MimeType))
		h.Write([]byte{0})
		h.Write([]byte(input.Image.Data))
	}
	return cacheKeyPrefix + hex.EncodeToString(h.Sum(nil))
}

// Package classcache caches LLM classification results in a key-value
// store, keyed by a digest of the classified text. Re-processing the
// same file never pays for a second model call.
package classcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/techjusticelab/Motion-Index/internal/db"
	"github.com/techjusticelab/Motion-Index/internal/domain"
)

const cacheKeyPrefix = "motionindex:cls_cache:"

// store is the consumer interface for the classification cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// CachedClassifier caches classifications in a key-value store. Cache
// failures are logged and treated as misses; the inner classifier is
// the source of truth.
type CachedClassifier struct {
	inner      domain.Classifier
	store      store
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(
	inner domain.Classifier,
	s store,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedClassifier {
	return &CachedClassifier{
		inner:      inner,
		store:      s,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Classify returns a cached classification or calls the inner classifier.
func (c *CachedClassifier) Classify(
	ctx context.Context, fileName, text string,
) (domain.Classification, error) {
	key := c.cacheKey(text)

	if cls, ok := c.getFromCache(ctx, key); ok {
		c.incCache("hit")
		return cls, nil
	}

	c.incCache("miss")

	cls, err := c.inner.Classify(ctx, fileName, text)
	if err != nil {
		return domain.Classification{}, fmt.Errorf("classify %s: %w", fileName, err)
	}

	c.putToCache(ctx, key, cls)
	return cls, nil
}

func (c *CachedClassifier) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

// cacheKey digests only the text: two files with identical content get
// the same classification regardless of name.
func (c *CachedClassifier) cacheKey(text string) string {
	h := sha256.Sum256([]byte(text))
	return cacheKeyPrefix + hex.EncodeToString(h[:])
}

func (c *CachedClassifier) getFromCache(ctx context.Context, key string) (domain.Classification, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached classification", zap.String("key", key), zap.Error(err))
		}
		return domain.Classification{}, false
	}
	if len(data) == 0 {
		return domain.Classification{}, false
	}

	var cls domain.Classification
	if err := json.Unmarshal(data, &cls); err != nil {
		c.logger.Warn("Failed to parse cached classification", zap.String("key", key), zap.Error(err))
		return domain.Classification{}, false
	}
	return cls, true
}

func (c *CachedClassifier) putToCache(ctx context.Context, key string, cls domain.Classification) {
	data, err := json.Marshal(cls)
	if err != nil {
		c.logger.Warn("Failed to encode classification", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.store.Set(ctx, key, data); err != nil {
		c.logger.Warn("Failed to cache classification", zap.String("key", key), zap.Error(err))
	}
}

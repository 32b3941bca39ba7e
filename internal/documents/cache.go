// internal/documents/cache.go
package documents

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"validation-workers/internal/common/logger"
	"validation-workers/internal/models"
)

// CachedStore decorates a Store with a read-through redis cache. Reads hit
// redis first; every write invalidates the cached document. Cache failures
// are logged and ignored: redis is an accelerator, not a dependency.
type CachedStore struct {
	inner  Store
	client *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

func NewCachedStore(inner Store, client *redis.Client, ttl time.Duration, log logger.Logger) *CachedStore {
	return &CachedStore{
		inner:  inner,
		client: client,
		ttl:    ttl,
		logger: log.WithFields(map[string]interface{}{"component": "documents-cache"}),
	}
}

func cacheKey(ideaID string) string {
	return fmt.Sprintf("bizplan:doc:%s", ideaID)
}

func (c *CachedStore) Get(ctx context.Context, ideaID string) (*models.Document, error) {
	if raw, err := c.client.Get(ctx, cacheKey(ideaID)).Result(); err == nil {
		var doc models.Document
		if err := json.Unmarshal([]byte(raw), &doc); err == nil {
			return &doc, nil
		}
		// Corrupt entry; drop it and fall through to the store.
		c.client.Del(ctx, cacheKey(ideaID))
	}

	doc, err := c.inner.Get(ctx, ideaID)
	if err != nil {
		return nil, err
	}
	c.populate(ctx, doc)
	return doc, nil
}

func (c *CachedStore) Create(ctx context.Context, doc *models.Document) error {
	if err := c.inner.Create(ctx, doc); err != nil {
		return err
	}
	c.populate(ctx, doc)
	return nil
}

func (c *CachedStore) MergeSections(ctx context.Context, ideaID string, sections map[string]string) (*models.Document, error) {
	doc, err := c.inner.MergeSections(ctx, ideaID, sections)
	if err != nil {
		return nil, err
	}
	c.populate(ctx, doc)
	return doc, nil
}

func (c *CachedStore) SaveStageScore(ctx context.Context, ideaID string, score models.ValidationScore) error {
	if err := c.inner.SaveStageScore(ctx, ideaID, score); err != nil {
		return err
	}
	c.invalidate(ctx, ideaID)
	return nil
}

func (c *CachedStore) MarkStageCompleted(ctx context.Context, ideaID string, stage models.Stage) error {
	if err := c.inner.MarkStageCompleted(ctx, ideaID, stage); err != nil {
		return err
	}
	c.invalidate(ctx, ideaID)
	return nil
}

func (c *CachedStore) CompletedStages(ctx context.Context, ideaID string) ([]models.Stage, error) {
	return c.inner.CompletedStages(ctx, ideaID)
}

func (c *CachedStore) populate(ctx context.Context, doc *models.Document) {
	data, err := json.Marshal(doc)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, cacheKey(doc.ID), data, c.ttl).Err(); err != nil {
		c.logger.Debug("cache populate failed", map[string]interface{}{
			"ideaId": doc.ID, "error": err.Error(),
		})
	}
}

func (c *CachedStore) invalidate(ctx context.Context, ideaID string) {
	if err := c.client.Del(ctx, cacheKey(ideaID)).Err(); err != nil {
		c.logger.Debug("cache invalidate failed", map[string]interface{}{
			"ideaId": ideaID, "error": err.Error(),
		})
	}
}

// internal/documents/cache_test.go
package documents

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"validation-workers/internal/common/errors"
	"validation-workers/internal/common/logger"
	"validation-workers/internal/models"
)

// countingStore records how often the underlying store is hit.
type countingStore struct {
	doc      *models.Document
	getCalls int
}

func (s *countingStore) Get(_ context.Context, ideaID string) (*models.Document, error) {
	s.getCalls++
	if s.doc == nil {
		return nil, errors.NewDocumentNotFoundError(ideaID)
	}
	return s.doc, nil
}

func (s *countingStore) Create(_ context.Context, doc *models.Document) error { return nil }

func (s *countingStore) MergeSections(_ context.Context, _ string, sections map[string]string) (*models.Document, error) {
	s.doc.Sections = sections
	return s.doc, nil
}

func (s *countingStore) SaveStageScore(_ context.Context, _ string, _ models.ValidationScore) error {
	return nil
}

func (s *countingStore) MarkStageCompleted(_ context.Context, _ string, _ models.Stage) error {
	return nil
}

func (s *countingStore) CompletedStages(_ context.Context, _ string) ([]models.Stage, error) {
	return nil, nil
}

func newCachedStore(t *testing.T, inner Store) (*CachedStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewCachedStore(inner, client, 5*time.Minute, logger.NewTestLogger(t)), mr
}

func testDocument() *models.Document {
	return &models.Document{
		ID:       "idea-1",
		Idea:     "rare teas",
		Customer: "urban professionals",
		Sections: map[string]string{"problemStatement": "People want better tea."},
	}
}

func TestCachedGet_ReadThrough(t *testing.T) {
	inner := &countingStore{doc: testDocument()}
	cached, mr := newCachedStore(t, inner)

	doc, err := cached.Get(context.Background(), "idea-1")
	require.NoError(t, err)
	assert.Equal(t, "idea-1", doc.ID)
	assert.Equal(t, 1, inner.getCalls)
	assert.True(t, mr.Exists("bizplan:doc:idea-1"))

	// Second read is served from the cache.
	doc, err = cached.Get(context.Background(), "idea-1")
	require.NoError(t, err)
	assert.Equal(t, "People want better tea.", doc.Sections["problemStatement"])
	assert.Equal(t, 1, inner.getCalls)
}

func TestCachedGet_CorruptEntryFallsThrough(t *testing.T) {
	inner := &countingStore{doc: testDocument()}
	cached, mr := newCachedStore(t, inner)

	require.NoError(t, mr.Set("bizplan:doc:idea-1", "not json"))

	doc, err := cached.Get(context.Background(), "idea-1")
	require.NoError(t, err)
	assert.Equal(t, "idea-1", doc.ID)
	assert.Equal(t, 1, inner.getCalls)

	// The corrupt entry was replaced by a fresh one.
	raw, err := mr.Get("bizplan:doc:idea-1")
	require.NoError(t, err)
	assert.NotEqual(t, "not json", raw)
}

func TestCachedGet_StoreErrorNotCached(t *testing.T) {
	inner := &countingStore{}
	cached, mr := newCachedStore(t, inner)

	_, err := cached.Get(context.Background(), "missing")
	assert.Error(t, err)
	assert.False(t, mr.Exists("bizplan:doc:missing"))
}

func TestCachedSaveStageScore_Invalidates(t *testing.T) {
	inner := &countingStore{doc: testDocument()}
	cached, mr := newCachedStore(t, inner)

	_, err := cached.Get(context.Background(), "idea-1")
	require.NoError(t, err)
	require.True(t, mr.Exists("bizplan:doc:idea-1"))

	err = cached.SaveStageScore(context.Background(), "idea-1", models.ValidationScore{Stage: models.StageLaunch})
	require.NoError(t, err)
	assert.False(t, mr.Exists("bizplan:doc:idea-1"))
}

func TestCachedMarkStageCompleted_Invalidates(t *testing.T) {
	inner := &countingStore{doc: testDocument()}
	cached, mr := newCachedStore(t, inner)

	_, err := cached.Get(context.Background(), "idea-1")
	require.NoError(t, err)

	err = cached.MarkStageCompleted(context.Background(), "idea-1", models.StageLaunch)
	require.NoError(t, err)
	assert.False(t, mr.Exists("bizplan:doc:idea-1"))
}

func TestCachedMergeSections_Repopulates(t *testing.T) {
	inner := &countingStore{doc: testDocument()}
	cached, mr := newCachedStore(t, inner)

	_, err := cached.MergeSections(context.Background(), "idea-1", map[string]string{"solution": "curated monthly box"})
	require.NoError(t, err)
	require.True(t, mr.Exists("bizplan:doc:idea-1"))

	// The refreshed cache entry serves the merged sections without another
	// store read.
	doc, err := cached.Get(context.Background(), "idea-1")
	require.NoError(t, err)
	assert.Equal(t, "curated monthly box", doc.Sections["solution"])
	assert.Equal(t, 0, inner.getCalls)
}

func TestCacheExpiry(t *testing.T) {
	inner := &countingStore{doc: testDocument()}
	cached, mr := newCachedStore(t, inner)

	_, err := cached.Get(context.Background(), "idea-1")
	require.NoError(t, err)
	assert.Equal(t, 1, inner.getCalls)

	mr.FastForward(6 * time.Minute)

	_, err = cached.Get(context.Background(), "idea-1")
	require.NoError(t, err)
	assert.Equal(t, 2, inner.getCalls)
}

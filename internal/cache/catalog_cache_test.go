package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tecawayBack/internal/models"
)

func newTestCache(t *testing.T, ttl time.Duration) (*CatalogCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewCatalogCache(rdb, ttl), mr
}

func TestCatalogCacheRoundTrip(t *testing.T) {
	c, mr := newTestCache(t, time.Minute)
	ctx := context.Background()

	_, ok, err := c.Sections(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	sections := []models.Section{{ID: 1, Name: "Frontend"}, {ID: 2, Name: "Backend"}}
	require.NoError(t, c.SetSections(ctx, sections))

	got, ok, err := c.Sections(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, sections, got)

	mr.FastForward(2 * time.Minute)
	_, ok, err = c.Sections(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCatalogCacheInvalidation(t *testing.T) {
	c, _ := newTestCache(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, c.SetSections(ctx, []models.Section{{ID: 1, Name: "Frontend"}}))
	require.NoError(t, c.SetKnowledges(ctx, []models.Knowledge{{ID: 10, Name: "Angular", SectionID: 1}}))
	require.NoError(t, c.SetMemberships(ctx, []models.UserKnowledge{{UserID: 1, KnowledgeID: 10}}))

	require.NoError(t, c.InvalidateKnowledges(ctx))

	_, ok, _ := c.Sections(ctx)
	assert.True(t, ok)
	_, ok, _ = c.Knowledges(ctx)
	assert.False(t, ok)
	_, ok, _ = c.Memberships(ctx)
	assert.False(t, ok)
}

func TestCatalogCacheDisabled(t *testing.T) {
	c, mr := newTestCache(t, 0)
	ctx := context.Background()

	require.NoError(t, c.SetSections(ctx, []models.Section{{ID: 1}}))
	assert.False(t, mr.Exists(sectionsKey))

	_, ok, err := c.Sections(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	var nilCache *CatalogCache
	_, ok, err = nilCache.Knowledges(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCatalogCacheCorruptEntry(t *testing.T) {
	c, mr := newTestCache(t, time.Minute)
	require.NoError(t, mr.Set(sectionsKey, "{not json"))

	_, _, err := c.Sections(context.Background())
	assert.Error(t, err)
}

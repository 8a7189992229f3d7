package drafts

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupDraftStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		rdb.Close()
		mr.Close()
	})
	return &Store{Rdb: rdb}, mr
}

func TestDraftRoundTrip(t *testing.T) {
	s, _ := setupDraftStore(t)
	ctx := context.Background()

	payload := map[string]interface{}{
		"title":    "2021 Tesla Model 3",
		"category": "ev-car",
		"price":    float64(32000),
	}
	require.NoError(t, s.Save(ctx, "sell-listing", "user-1", payload))

	got, err := s.Load(ctx, "sell-listing", "user-1")
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestDraftMissingIsNil(t *testing.T) {
	s, _ := setupDraftStore(t)
	got, err := s.Load(context.Background(), "sell-listing", "user-1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestDraftScopedPerOwner(t *testing.T) {
	s, _ := setupDraftStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "sell-listing", "user-1", map[string]interface{}{"title": "mine"}))
	require.NoError(t, s.Save(ctx, "sell-listing", AnonymousOwner, map[string]interface{}{"title": "anon"}))

	// The same purpose under a different owner never collides.
	mine, err := s.Load(ctx, "sell-listing", "user-1")
	require.NoError(t, err)
	assert.Equal(t, "mine", mine["title"])

	anon, err := s.Load(ctx, "sell-listing", AnonymousOwner)
	require.NoError(t, err)
	assert.Equal(t, "anon", anon["title"])

	other, err := s.Load(ctx, "sell-listing", "user-2")
	require.NoError(t, err)
	assert.Nil(t, other)
}

func TestDraftScopedPerPurpose(t *testing.T) {
	s, _ := setupDraftStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "sell-listing", "user-1", map[string]interface{}{"title": "car"}))
	require.NoError(t, s.Save(ctx, "message-composer", "user-1", map[string]interface{}{"content": "hi"}))

	draft, err := s.Load(ctx, "message-composer", "user-1")
	require.NoError(t, err)
	assert.Equal(t, "hi", draft["content"])
}

func TestDraftDelete(t *testing.T) {
	s, _ := setupDraftStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "sell-listing", "user-1", map[string]interface{}{"title": "car"}))
	require.NoError(t, s.Delete(ctx, "sell-listing", "user-1"))

	got, err := s.Load(ctx, "sell-listing", "user-1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestDraftExpires(t *testing.T) {
	s, mr := setupDraftStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "sell-listing", "user-1", map[string]interface{}{"title": "car"}))
	assert.Equal(t, draftTTL, mr.TTL("draft:sell-listing:user-1"))

	mr.FastForward(draftTTL + time.Minute)
	got, err := s.Load(ctx, "sell-listing", "user-1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

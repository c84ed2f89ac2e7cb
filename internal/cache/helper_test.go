package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedNote struct {
	ID      uint   `json:"id"`
	Content string `json:"content"`
}

func withTestRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { SetClient(nil) })
	return mr
}

func TestGetSetJSON_RoundTrip(t *testing.T) {
	withTestRedis(t)
	ctx := context.Background()

	found, err := GetJSON(ctx, NoteKey(1), &cachedNote{})
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, SetJSON(ctx, NoteKey(1), cachedNote{ID: 1, Content: "hello"}, NoteTTL))

	var got cachedNote
	found, err = GetJSON(ctx, NoteKey(1), &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, cachedNote{ID: 1, Content: "hello"}, got)
}

func TestGetJSON_NoClientIsMiss(t *testing.T) {
	SetClient(nil)

	found, err := GetJSON(context.Background(), NoteKey(1), &cachedNote{})
	assert.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, SetJSON(context.Background(), NoteKey(1), cachedNote{}, time.Minute))
}

func TestAside_FetchesOnceThenServesFromCache(t *testing.T) {
	withTestRedis(t)
	ctx := context.Background()

	calls := 0
	fetch := func(dest *cachedNote) func() error {
		return func() error {
			calls++
			*dest = cachedNote{ID: 2, Content: "from db"}
			return nil
		}
	}

	var first cachedNote
	require.NoError(t, Aside(ctx, NoteKey(2), &first, NoteTTL, fetch(&first)))
	assert.Equal(t, 1, calls)
	assert.Equal(t, "from db", first.Content)

	var second cachedNote
	require.NoError(t, Aside(ctx, NoteKey(2), &second, NoteTTL, fetch(&second)))
	assert.Equal(t, 1, calls, "second read should hit the cache")
	assert.Equal(t, "from db", second.Content)
}

func TestAside_PropagatesFetchError(t *testing.T) {
	withTestRedis(t)

	var dest cachedNote
	wantErr := errors.New("db down")
	err := Aside(context.Background(), NoteKey(3), &dest, NoteTTL, func() error { return wantErr })
	assert.ErrorIs(t, err, wantErr)
}

func TestInvalidateNote_DropsAllViews(t *testing.T) {
	mr := withTestRedis(t)
	ctx := context.Background()

	require.NoError(t, SetJSON(ctx, NoteKey(4), cachedNote{ID: 4}, NoteTTL))
	require.NoError(t, SetJSON(ctx, FavoritedByKey(4), []uint{1, 2}, FavoritedByTTL))
	require.NoError(t, SetJSON(ctx, NotesListKey(), []cachedNote{{ID: 4}}, ListTTL))

	InvalidateNote(ctx, 4)

	assert.False(t, mr.Exists(NoteKey(4)))
	assert.False(t, mr.Exists(FavoritedByKey(4)))
	assert.False(t, mr.Exists(NotesListKey()))
}

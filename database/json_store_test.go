package database

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONStoreUpsertAndGet(t *testing.T) {
	ctx := context.Background()
	store := NewJSONStore(filepath.Join(t.TempDir(), "nested", "context.json"))

	_, ok, err := store.Get(ctx, "q")
	require.NoError(t, err)
	assert.False(t, ok, "missing file reads as empty")

	require.NoError(t, store.Upsert(ctx, "q", "a1"))
	require.NoError(t, store.Upsert(ctx, "q", "a2"))
	require.NoError(t, store.Upsert(ctx, "other", "b"))

	got, ok, err := store.Get(ctx, "q")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "a2", got)
	assert.Equal(t, "context.json", store.Name())
}

func TestJSONStoreClear(t *testing.T) {
	ctx := context.Background()
	store := NewJSONStore(filepath.Join(t.TempDir(), "context.json"))
	require.NoError(t, store.Upsert(ctx, "q", "a"))

	require.NoError(t, store.Clear(ctx))
	raw, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(raw))

	_, ok, err := store.Get(ctx, "q")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestJSONStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "context.json")
	require.NoError(t, os.WriteFile(path, []byte("[1,2"), 0o644))
	store := NewJSONStore(path)

	_, _, err := store.Get(context.Background(), "q")
	assert.Error(t, err)
	assert.NoError(t, store.Clear(context.Background()), "clearing recovers a corrupt store")
}

func TestJSONStoreConcurrentUpserts(t *testing.T) {
	ctx := context.Background()
	store := NewJSONStore(filepath.Join(t.TempDir(), "context.json"))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, store.Upsert(ctx, string(rune('a'+i)), "v"))
		}(i)
	}
	wg.Wait()

	for i := 0; i < 20; i++ {
		_, ok, err := store.Get(ctx, string(rune('a'+i)))
		require.NoError(t, err)
		assert.True(t, ok)
	}
}

func TestExchangeStores(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	stores := NewJSONStores(dir, []string{"a.json", "b.json", "c.json"})
	require.Len(t, stores, 3)
	assert.Equal(t, "a.json", stores.Active().Name())

	require.NoError(t, stores[1].Upsert(ctx, "k", "v"))
	require.NoError(t, stores.ClearAll(ctx))
	for _, name := range []string{"a.json", "b.json", "c.json"} {
		raw, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err)
		assert.JSONEq(t, `{}`, string(raw), name)
	}

	assert.Nil(t, ExchangeStores{}.Active())
}

package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/Marketplacesearch/internal/domain/providers"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestMemoryAdapter(max int) (*MemoryAdapter, *fakeClock) {
	clock := &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	a := NewMemoryAdapter(max)
	a.now = clock.now
	return a, clock
}

func TestMemoryAdapter_SetGet(t *testing.T) {
	ctx := context.Background()
	a, _ := newTestMemoryAdapter(10)

	require.NoError(t, a.Set(ctx, "spell:biryni", []byte("biryani"), 60))

	got, err := a.Get(ctx, "spell:biryni")
	require.NoError(t, err)
	assert.Equal(t, "biryani", string(got))

	ok, err := a.Exists(ctx, "spell:biryni")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMemoryAdapter_EvictsOnRead(t *testing.T) {
	ctx := context.Background()
	a, clock := newTestMemoryAdapter(10)

	require.NoError(t, a.Set(ctx, "k", []byte("v"), 30))
	clock.advance(29 * time.Second)
	_, err := a.Get(ctx, "k")
	require.NoError(t, err)

	clock.advance(time.Second)
	assert.Equal(t, 1, a.Len(), "expired entry stays until read")

	_, err = a.Get(ctx, "k")
	assert.True(t, errors.Is(err, providers.ErrCacheMiss))
	assert.Equal(t, 0, a.Len())
}

func TestMemoryAdapter_NoExpiration(t *testing.T) {
	ctx := context.Background()
	a, clock := newTestMemoryAdapter(10)

	require.NoError(t, a.Set(ctx, "k", []byte("v"), 0))
	clock.advance(24 * time.Hour)

	ok, _ := a.Exists(ctx, "k")
	assert.True(t, ok)
}

func TestMemoryAdapter_Capacity(t *testing.T) {
	ctx := context.Background()
	a, clock := newTestMemoryAdapter(2)

	require.NoError(t, a.Set(ctx, "a", []byte("1"), 10))
	require.NoError(t, a.Set(ctx, "b", []byte("2"), 0))
	assert.Error(t, a.Set(ctx, "c", []byte("3"), 10))

	// overwriting an existing key is always allowed
	assert.NoError(t, a.Set(ctx, "b", []byte("22"), 0))

	clock.advance(11 * time.Second)
	assert.NoError(t, a.Set(ctx, "c", []byte("3"), 10), "expired entries make room")
}

func TestMemoryAdapter_Delete(t *testing.T) {
	ctx := context.Background()
	a, _ := newTestMemoryAdapter(10)

	require.NoError(t, a.Set(ctx, "k", []byte("v"), 0))
	require.NoError(t, a.Delete(ctx, "k"))

	_, err := a.Get(ctx, "k")
	assert.ErrorIs(t, err, providers.ErrCacheMiss)
}

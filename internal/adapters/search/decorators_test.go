package search

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/Marketplacesearch/internal/adapters/cache"
)

type stubSuggester struct {
	calls int
	out   string
	err   error
}

func (s *stubSuggester) Suggest(ctx context.Context, term string) (string, error) {
	s.calls++
	return s.out, s.err
}

func TestCachedSuggester_CachesHitsAndMisses(t *testing.T) {
	ctx := context.Background()
	inner := &stubSuggester{out: "biryani"}
	s := NewCachedSuggester(inner, cache.NewMemoryAdapter(100), time.Minute)

	for i := 0; i < 3; i++ {
		got, err := s.Suggest(ctx, "biryni")
		require.NoError(t, err)
		assert.Equal(t, "biryani", got)
	}
	assert.Equal(t, 1, inner.calls)

	inner.out = ""
	got, err := s.Suggest(ctx, "qwerty")
	require.NoError(t, err)
	assert.Empty(t, got)
	_, _ = s.Suggest(ctx, "qwerty")
	assert.Equal(t, 2, inner.calls, "empty suggestions are cached too")
}

func TestCachedSuggester_DoesNotCacheErrors(t *testing.T) {
	ctx := context.Background()
	inner := &stubSuggester{err: errors.New("timeout")}
	s := NewCachedSuggester(inner, cache.NewMemoryAdapter(100), time.Minute)

	_, err := s.Suggest(ctx, "biryni")
	assert.Error(t, err)
	_, err = s.Suggest(ctx, "biryni")
	assert.Error(t, err)
	assert.Equal(t, 2, inner.calls)
}

func TestBreakingSuggester_OpensAfterConsecutiveFailures(t *testing.T) {
	ctx := context.Background()
	inner := &stubSuggester{err: errors.New("down")}
	s := NewBreakingSuggester(inner, BreakerConfig{FailureThreshold: 2, Timeout: time.Minute})

	for i := 0; i < 2; i++ {
		_, err := s.Suggest(ctx, "biryni")
		assert.Error(t, err)
	}
	assert.Equal(t, "open", s.State())

	_, err := s.Suggest(ctx, "biryni")
	assert.Error(t, err)
	assert.Equal(t, 2, inner.calls, "open breaker short-circuits the backend")
}

func TestBreakingSuggester_PassesThrough(t *testing.T) {
	inner := &stubSuggester{out: "paneer"}
	s := NewBreakingSuggester(inner, BreakerConfig{})

	got, err := s.Suggest(context.Background(), "panir")
	require.NoError(t, err)
	assert.Equal(t, "paneer", got)
	assert.Equal(t, "closed", s.State())
}

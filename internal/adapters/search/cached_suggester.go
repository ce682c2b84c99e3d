package search

import (
	"context"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
	"github.com/zatekoja/Marketplacesearch/internal/domain/providers"
)

const suggestionKeyPrefix = "spell:v1:"

type cachedSuggestion struct {
	Suggestion string `json:"s"`
}

// CachedSuggester memoizes suggestions, including "no suggestion", for ttl.
// The cache is advisory: any cache error falls through to the backend.
type CachedSuggester struct {
	inner providers.SpellingSuggester
	cache providers.CacheProvider
	ttl   time.Duration
}

// NewCachedSuggester wraps inner with cache.
func NewCachedSuggester(inner providers.SpellingSuggester, cache providers.CacheProvider, ttl time.Duration) *CachedSuggester {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &CachedSuggester{inner: inner, cache: cache, ttl: ttl}
}

// Suggest returns a cached suggestion or asks the backend. Backend errors are
// not cached.
func (s *CachedSuggester) Suggest(ctx context.Context, term string) (string, error) {
	key := suggestionKeyPrefix + term

	if data, err := s.cache.Get(ctx, key); err == nil {
		var cached cachedSuggestion
		if json.Unmarshal(data, &cached) == nil {
			return cached.Suggestion, nil
		}
	}

	suggestion, err := s.inner.Suggest(ctx, term)
	if err != nil {
		return "", err
	}

	if data, err := json.Marshal(cachedSuggestion{Suggestion: suggestion}); err == nil {
		if err := s.cache.Set(ctx, key, data, int(s.ttl.Seconds())); err != nil {
			log.Debug().Err(err).Str("key", key).Msg("suggestion cache write failed")
		}
	}
	return suggestion, nil
}

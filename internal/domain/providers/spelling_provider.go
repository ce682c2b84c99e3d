package providers

import "context"

// SpellingSuggester proposes a correction for a single search term. An empty
// suggestion with a nil error means the backend has nothing better to offer.
type SpellingSuggester interface {
	Suggest(ctx context.Context, term string) (string, error)
}

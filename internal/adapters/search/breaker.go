package search

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	gobreaker "github.com/sony/gobreaker/v2"
	"github.com/zatekoja/Marketplacesearch/internal/domain/providers"
)

// BreakerConfig configures the circuit breaker around the suggestion backend.
type BreakerConfig struct {
	Name             string
	FailureThreshold uint32
	Timeout          time.Duration
	Interval         time.Duration
}

// BreakingSuggester stops calling the suggestion backend after repeated
// failures so that an outage costs nothing per query.
type BreakingSuggester struct {
	inner providers.SpellingSuggester
	cb    *gobreaker.CircuitBreaker[string]
}

// NewBreakingSuggester wraps inner with a circuit breaker.
func NewBreakingSuggester(inner providers.SpellingSuggester, cfg BreakerConfig) *BreakingSuggester {
	if cfg.Name == "" {
		cfg.Name = "spelling-suggester"
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: 1,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state changed")
		},
	}

	return &BreakingSuggester{
		inner: inner,
		cb:    gobreaker.NewCircuitBreaker[string](settings),
	}
}

// Suggest calls the backend unless the breaker is open.
func (s *BreakingSuggester) Suggest(ctx context.Context, term string) (string, error) {
	return s.cb.Execute(func() (string, error) {
		return s.inner.Suggest(ctx, term)
	})
}

// State reports the breaker state for diagnostics.
func (s *BreakingSuggester) State() string {
	return s.cb.State().String()
}

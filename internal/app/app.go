// Package app wires configuration, clients, adapters and services into the
// object graph shared by every binary.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/Marketplacesearch/internal/adapters/cache"
	"github.com/zatekoja/Marketplacesearch/internal/adapters/database"
	"github.com/zatekoja/Marketplacesearch/internal/adapters/search"
	"github.com/zatekoja/Marketplacesearch/internal/application/services"
	"github.com/zatekoja/Marketplacesearch/internal/domain/providers"
	"github.com/zatekoja/Marketplacesearch/internal/domain/repositories"
	"github.com/zatekoja/Marketplacesearch/internal/evaluation"
	"github.com/zatekoja/Marketplacesearch/internal/infrastructure/clients/postgres"
	"github.com/zatekoja/Marketplacesearch/internal/infrastructure/clients/redis"
	"github.com/zatekoja/Marketplacesearch/internal/infrastructure/clients/typesense"
	"github.com/zatekoja/Marketplacesearch/internal/infrastructure/observability"
	"github.com/zatekoja/Marketplacesearch/pkg/config"
)

const (
	cacheKeyPrefix  = "marketsearch:"
	memoryCacheSize = 10000
)

// App holds the services and the resources they depend on.
type App struct {
	Config  *config.Config
	Metrics *observability.Metrics
	Lexicon *services.Lexicon

	Expansion       *services.QueryExpansionService
	Recommendations *services.RecommendationService
	Interactions    *services.InteractionService
	Corrections     *services.CorrectionLearningService
	Feedback        *services.FeedbackService
	Similarity      *services.SimilarityService

	closers []func(context.Context) error
}

// New connects to every configured backend and builds the services. The
// database is required; Redis, Typesense and telemetry are optional and
// degrade with a warning.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{Config: cfg}

	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			log.Warn().Err(err).Msg("failed to set up OpenTelemetry, continuing without export")
		} else {
			a.closers = append(a.closers, shutdown)
			log.Info().Str("endpoint", cfg.OTEL.Endpoint).Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}
	a.Metrics = metrics

	lexicon, err := services.LoadLexicon(cfg.Search.LexiconDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load lexicon: %w", err)
	}
	a.Lexicon = lexicon

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize PostgreSQL client: %w", err)
	}
	a.closers = append(a.closers, func(context.Context) error { return pgClient.Close() })

	cacheProvider := a.newCache(cfg)
	suggester := a.newSuggester(ctx, cfg, cacheProvider)

	customRepo := database.NewCustomSynonymAdapter(pgClient)
	learnedRepo := database.NewLearnedCorrectionAdapter(pgClient)
	interactionRepo := database.NewInteractionAdapter(pgClient)
	similarityRepo := database.NewSimilarityAdapter(pgClient, cfg.Similarity.BatchSize)
	feedbackRepo := database.NewFeedbackAdapter(pgClient)

	guardrails := evaluation.NewGuardrails(evaluation.GuardrailConfig{
		MaxExpansionTerms: cfg.Search.MaxExpansionTerms,
	})
	filters := services.NewFilterExtractor(lexicon)
	resolver := services.NewTermResolver(filters,
		BuildLookups(lexicon, customRepo, learnedRepo, suggester, cfg.Search),
		metrics,
	)

	a.Expansion = services.NewQueryExpansionService(lexicon, filters, resolver, guardrails, metrics)
	a.Recommendations = services.NewRecommendationService(interactionRepo, similarityRepo, lexicon, guardrails, metrics,
		services.RecommendationConfig{FoodModuleID: cfg.Search.FoodModuleID})
	a.Interactions = services.NewInteractionService(interactionRepo, metrics)
	a.Corrections = services.NewCorrectionLearningService(learnedRepo)
	a.Feedback = services.NewFeedbackService(feedbackRepo, metrics)
	a.Similarity = services.NewSimilarityService(interactionRepo, similarityRepo,
		services.SimilarityConfig{Prune: cfg.Similarity.Prune})

	return a, nil
}

// BuildLookups returns the resolution chain in priority order. The
// suggestion source is left out when suggester is nil.
func BuildLookups(
	lexicon *services.Lexicon,
	custom repositories.CustomSynonymRepository,
	learned repositories.LearnedCorrectionRepository,
	suggester providers.SpellingSuggester,
	cfg config.SearchConfig,
) []services.TermLookup {
	lookups := []services.TermLookup{
		services.NewStaticSynonymLookup(lexicon),
		services.NewCustomSynonymLookup(custom),
		services.NewLearnedCorrectionLookup(learned),
	}
	if suggester != nil {
		lookups = append(lookups, services.NewSpellingSuggestionLookup(suggester, cfg.SpellingTimeout))
	}
	return lookups
}

func (a *App) newCache(cfg *config.Config) providers.CacheProvider {
	if cfg.Redis.Enabled {
		client, err := redis.NewClient(&cfg.Redis)
		if err == nil {
			a.closers = append(a.closers, func(context.Context) error { return client.Close() })
			return cache.NewRedisAdapter(client, cacheKeyPrefix)
		}
		log.Warn().Err(err).Msg("Redis unavailable, using in-process cache")
	}
	return cache.NewMemoryAdapter(memoryCacheSize)
}

func (a *App) newSuggester(ctx context.Context, cfg *config.Config, cacheProvider providers.CacheProvider) providers.SpellingSuggester {
	if !cfg.Typesense.Enabled {
		log.Info().Msg("Typesense disabled, spelling suggestions off")
		return nil
	}

	client, err := typesense.NewClient(&cfg.Typesense)
	if err != nil {
		log.Warn().Err(err).Msg("Typesense unavailable, spelling suggestions off")
		return nil
	}
	if err := client.InitSchema(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to init Typesense collection")
	}

	var suggester providers.SpellingSuggester = search.NewTypesenseAdapter(client, cfg.Typesense.QueryBy)
	suggester = search.NewBreakingSuggester(suggester, search.BreakerConfig{Timeout: cfg.Search.SpellingTimeout * 6})
	return search.NewCachedSuggester(suggester, cacheProvider, cfg.Search.SpellingCacheTTL)
}

// Close waits for background tracking writes, then releases every resource
// in reverse order of acquisition.
func (a *App) Close(ctx context.Context) error {
	if a.Interactions != nil {
		a.Interactions.Wait()
	}

	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

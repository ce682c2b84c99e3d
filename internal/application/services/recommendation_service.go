package services

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/Marketplacesearch/internal/domain/entities"
	"github.com/zatekoja/Marketplacesearch/internal/domain/repositories"
	"github.com/zatekoja/Marketplacesearch/internal/evaluation"
	"github.com/zatekoja/Marketplacesearch/internal/infrastructure/observability"
	"go.opentelemetry.io/otel/attribute"
)

const (
	personalizedSeedLimit = 50
	trendingWindow        = 24 * time.Hour
)

var personalizedEdgeKinds = []entities.SimilarityKind{
	entities.SimilarityCoPurchase,
	entities.SimilarityContent,
}

// RecommendationConfig configures RecommendationService.
type RecommendationConfig struct {
	// FoodModuleID is the only module with contextual meal suggestions.
	FoodModuleID int
}

// RecommendationService answers recommendation requests from interactions
// and similarity edges. Every method is total: store failures degrade to
// trending, and trending degrades to an empty result.
type RecommendationService struct {
	interactions repositories.InteractionRepository
	similarity   repositories.SimilarityRepository
	lexicon      *Lexicon
	guardrails   *evaluation.Guardrails
	metrics      *observability.Metrics
	config       RecommendationConfig
	now          func() time.Time
}

func NewRecommendationService(
	interactions repositories.InteractionRepository,
	similarity repositories.SimilarityRepository,
	lexicon *Lexicon,
	guardrails *evaluation.Guardrails,
	metrics *observability.Metrics,
	config RecommendationConfig,
) *RecommendationService {
	if guardrails == nil {
		guardrails = evaluation.NewGuardrails(evaluation.GuardrailConfig{})
	}
	return &RecommendationService{
		interactions: interactions,
		similarity:   similarity,
		lexicon:      lexicon,
		guardrails:   guardrails,
		metrics:      metrics,
		config:       config,
		now:          time.Now,
	}
}

// GetPersonalized ranks products linked to the user's recent products that
// the user has never interacted with, by average edge score. Users without
// history get trending.
func (s *RecommendationService) GetPersonalized(ctx context.Context, userID string, limit int, moduleID *int) *entities.RecommendationResult {
	start := time.Now()
	ctx, span := observability.StartSpan(ctx, "recommendation.personalized")
	defer span.End()
	defer s.record(ctx, entities.RecommendationPersonalized, start)

	limit = s.guardrails.ClampLimit(limit)
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return s.GetTrending(ctx, moduleID, limit)
	}

	seeds, err := s.interactions.RecentProducts(ctx, userID, moduleID, personalizedSeedLimit)
	if err != nil {
		return s.fallback(ctx, entities.RecommendationPersonalized, moduleID, limit, err)
	}
	if len(seeds) == 0 {
		return s.GetTrending(ctx, moduleID, limit)
	}

	seen, err := s.interactions.InteractedProducts(ctx, userID)
	if err != nil {
		return s.fallback(ctx, entities.RecommendationPersonalized, moduleID, limit, err)
	}

	candidates, err := s.similarity.AverageScores(ctx, seeds, seen, personalizedEdgeKinds, limit)
	if err != nil {
		return s.fallback(ctx, entities.RecommendationPersonalized, moduleID, limit, err)
	}
	if len(candidates) == 0 {
		return s.fallback(ctx, entities.RecommendationPersonalized, moduleID, limit, nil)
	}

	span.SetAttributes(attribute.Int("recommendation.seed_count", len(seeds)))

	result := entities.NewRecommendationResult(entities.RecommendationPersonalized)
	for _, c := range candidates {
		result.Products = append(result.Products, entities.RecommendedProduct{
			ID:     c.ProductID,
			Score:  c.Score,
			Reason: entities.ReasonBrowsingHistory,
		})
	}
	return result
}

// GetSimilar returns the strongest outgoing edges of productID of any kind.
func (s *RecommendationService) GetSimilar(ctx context.Context, productID string, limit int) *entities.RecommendationResult {
	return s.fromEdges(ctx, entities.RecommendationSimilar, productID, nil, limit, entities.ReasonSimilarItem)
}

// GetBundle returns products frequently bought together with productID.
func (s *RecommendationService) GetBundle(ctx context.Context, productID string, limit int) *entities.RecommendationResult {
	return s.fromEdges(ctx, entities.RecommendationBundle, productID,
		[]entities.SimilarityKind{entities.SimilarityCoPurchase}, limit, entities.ReasonBoughtTogether)
}

func (s *RecommendationService) fromEdges(
	ctx context.Context,
	kind entities.RecommendationKind,
	productID string,
	edgeKinds []entities.SimilarityKind,
	limit int,
	reason string,
) *entities.RecommendationResult {
	start := time.Now()
	ctx, span := observability.StartSpan(ctx, "recommendation."+string(kind),
		attribute.String("recommendation.product_id", productID))
	defer span.End()
	defer s.record(ctx, kind, start)

	result := entities.NewRecommendationResult(kind)
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return result
	}
	limit = s.guardrails.ClampLimit(limit)

	edges, err := s.similarity.ListFrom(ctx, productID, edgeKinds, limit)
	if err != nil {
		return s.fallback(ctx, kind, nil, limit, err)
	}

	for _, e := range edges {
		result.Products = append(result.Products, entities.RecommendedProduct{
			ID:     e.ProductB,
			Score:  e.Score,
			Reason: reason,
		})
	}
	return result
}

// GetTrending ranks products by kind-weighted interactions over the last 24
// hours. A store failure yields an empty result.
func (s *RecommendationService) GetTrending(ctx context.Context, moduleID *int, limit int) *entities.RecommendationResult {
	start := time.Now()
	ctx, span := observability.StartSpan(ctx, "recommendation.trending")
	defer span.End()
	defer s.record(ctx, entities.RecommendationTrending, start)

	limit = s.guardrails.ClampLimit(limit)
	result := entities.NewRecommendationResult(entities.RecommendationTrending)

	scores, err := s.interactions.WindowedScores(ctx, s.now().Add(-trendingWindow), moduleID, trendingWeights(), limit)
	if err != nil {
		observability.RecordError(span, err)
		log.Warn().Err(err).Msg("trending unavailable, returning no recommendations")
		return result
	}

	for _, sc := range scores {
		result.Products = append(result.Products, entities.RecommendedProduct{
			ID:     sc.ProductID,
			Score:  sc.Score,
			Reason: entities.ReasonTrending,
		})
	}
	return result
}

// GetContextual suggests a category and keyword query for the meal period
// at now. Modules other than food get trending instead.
func (s *RecommendationService) GetContextual(ctx context.Context, moduleID int, now time.Time) *entities.ContextualSuggestion {
	suggestion := &entities.ContextualSuggestion{ModuleID: moduleID}

	if moduleID == s.config.FoodModuleID {
		period := MealPeriodAt(now.Hour())
		if meal, ok := s.lexicon.Tables().Meals[period]; ok {
			suggestion.MealPeriod = period
			suggestion.CategoryHint = meal.Category
			suggestion.Keywords = meal.Keywords
			suggestion.Query = strings.Join(meal.Keywords, " ")
			return suggestion
		}
		log.Warn().Str("meal_period", string(period)).Msg("no meal table entry, falling back to trending")
	}

	id := moduleID
	suggestion.Trending = s.GetTrending(ctx, &id, 0)
	return suggestion
}

// MealPeriodAt buckets an hour of day: [6,11) breakfast, [11,15) lunch,
// [15,18) snacks, [18,22) dinner, otherwise late night.
func MealPeriodAt(hour int) entities.MealPeriod {
	switch {
	case hour >= 6 && hour < 11:
		return entities.MealBreakfast
	case hour >= 11 && hour < 15:
		return entities.MealLunch
	case hour >= 15 && hour < 18:
		return entities.MealSnacks
	case hour >= 18 && hour < 22:
		return entities.MealDinner
	default:
		return entities.MealLateNight
	}
}

func (s *RecommendationService) fallback(ctx context.Context, kind entities.RecommendationKind, moduleID *int, limit int, err error) *entities.RecommendationResult {
	ev := observability.LoggerFromContext(ctx).Warn().Str("kind", string(kind))
	if err != nil {
		ev = ev.Err(err)
	}
	ev.Msg("recommendation degraded to trending")
	s.metrics.RecordTrendingFallback(ctx, string(kind))
	return s.GetTrending(ctx, moduleID, limit)
}

func (s *RecommendationService) record(ctx context.Context, kind entities.RecommendationKind, start time.Time) {
	s.metrics.RecordRecommendation(ctx, string(kind), time.Since(start))
}

func trendingWeights() map[entities.InteractionKind]float64 {
	weights := make(map[entities.InteractionKind]float64)
	for _, k := range entities.InteractionKinds() {
		weights[k] = k.Weight()
	}
	return weights
}

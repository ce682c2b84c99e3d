package services

import (
	"context"
	"strings"
	"time"

	"github.com/zatekoja/Marketplacesearch/internal/domain/entities"
	"github.com/zatekoja/Marketplacesearch/internal/evaluation"
	"github.com/zatekoja/Marketplacesearch/internal/infrastructure/observability"
	"github.com/zatekoja/Marketplacesearch/pkg/utils"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

// maxParallelTerms bounds concurrent term resolutions per query.
const maxParallelTerms = 8

// QueryExpansionService turns raw search-box text into an ExpandedQuery.
type QueryExpansionService struct {
	lexicon    *Lexicon
	filters    *FilterExtractor
	resolver   *TermResolver
	guardrails *evaluation.Guardrails
	metrics    *observability.Metrics
}

// NewQueryExpansionService wires the expansion pipeline.
func NewQueryExpansionService(
	lexicon *Lexicon,
	filters *FilterExtractor,
	resolver *TermResolver,
	guardrails *evaluation.Guardrails,
	metrics *observability.Metrics,
) *QueryExpansionService {
	if guardrails == nil {
		guardrails = evaluation.NewGuardrails(evaluation.GuardrailConfig{})
	}
	return &QueryExpansionService{
		lexicon:    lexicon,
		filters:    filters,
		resolver:   resolver,
		guardrails: guardrails,
		metrics:    metrics,
	}
}

// Expand detects the script, transliterates native text, extracts filters
// and resolves every term. Empty input yields an empty result; no failure of
// a collaborator is ever returned.
func (s *QueryExpansionService) Expand(ctx context.Context, text string, moduleID *int) *entities.ExpandedQuery {
	start := time.Now()
	ctx, span := observability.StartSpan(ctx, "search.expand")
	defer span.End()

	result := entities.NewExpandedQuery(text)
	normalized := utils.NormalizeQuery(text)
	if normalized == "" {
		return result
	}

	result.DetectedLanguage = DetectLanguage(normalized)
	if result.DetectedLanguage != entities.LanguageLatin {
		var corrections []entities.Correction
		normalized, corrections = s.lexicon.Tables().Transliterator().Transliterate(normalized)
		result.Corrections = append(result.Corrections, corrections...)
	}

	remaining, numericRange := s.filters.ExtractPricePhrases(normalized)
	words := s.lexicon.Tables().GroupPhrases(strings.Fields(remaining))

	resolutions := make([]TermResolution, len(words))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelTerms)
	for i, word := range words {
		g.Go(func() error {
			resolutions[i] = s.resolver.Resolve(gctx, word, moduleID)
			return nil
		})
	}
	_ = g.Wait()

	var terms, synonyms []string
	var priceRange *entities.PriceRange
	unresolved := 0
	for _, r := range resolutions {
		priceRange = priceRange.Merge(r.PriceRange)
		if r.CategoryHint != "" {
			result.CategoryHint = r.CategoryHint
		}
		if r.IsVeg != nil {
			result.Filters[entities.FilterIsVeg] = *r.IsVeg
		}
		if r.Correction != nil {
			result.Corrections = append(result.Corrections, *r.Correction)
		}
		if !r.Resolved {
			unresolved++
		}
		terms = append(terms, r.Terms...)
		synonyms = append(synonyms, r.Synonyms...)
	}

	result.PriceRange = priceRange.Merge(numericRange)
	result.SynonymsApplied = utils.UniqueStrings(synonyms)
	result.SetTerms(s.guardrails.LimitExpansion(utils.UniqueStrings(terms)))

	s.metrics.RecordUnresolvedTerms(ctx, unresolved)
	s.metrics.RecordExpansion(ctx, string(result.DetectedLanguage), time.Since(start))
	span.SetAttributes(
		attribute.String("search.language", string(result.DetectedLanguage)),
		attribute.Int("search.term_count", len(result.Terms)),
		attribute.Int("search.correction_count", len(result.Corrections)),
	)

	return result
}

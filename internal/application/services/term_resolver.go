package services

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/Marketplacesearch/internal/domain/entities"
	"github.com/zatekoja/Marketplacesearch/internal/infrastructure/observability"
	"github.com/zatekoja/Marketplacesearch/pkg/utils"
)

// TermResolution is the outcome of resolving one query term.
type TermResolution struct {
	Term         string
	Terms        []string
	Synonyms     []string
	Correction   *entities.Correction
	PriceRange   *entities.PriceRange
	CategoryHint string
	IsVeg        *bool
	Resolved     bool
}

// TermResolver runs a term through the filter tables and then the lookup
// chain.
type TermResolver struct {
	filters *FilterExtractor
	lookups []TermLookup
	metrics *observability.Metrics
}

// NewTermResolver creates a resolver that tries lookups in order.
func NewTermResolver(filters *FilterExtractor, lookups []TermLookup, metrics *observability.Metrics) *TermResolver {
	return &TermResolver{filters: filters, lookups: lookups, metrics: metrics}
}

// Resolve never fails: a source that errors is logged and skipped.
func (r *TermResolver) Resolve(ctx context.Context, term string, moduleID *int) TermResolution {
	res := TermResolution{Term: term}
	tf := r.filters.Classify(term)

	if tf.Price != nil {
		res.PriceRange = tf.Price
		res.Resolved = true
		return res
	}

	res.CategoryHint = tf.Category

	if tf.Dietary != nil {
		isVeg := tf.Dietary.IsVeg
		res.IsVeg = &isVeg
		res.Terms = utils.UniqueStrings(tf.Dietary.Canonical)
		res.Resolved = true
		return res
	}

	resolved := term
	var synonyms []string
	for _, l := range r.lookups {
		out, err := l.Lookup(ctx, term, moduleID)
		if err != nil {
			log.Warn().Err(err).Str("source", l.Name()).Str("term", term).Msg("term lookup failed, skipping source")
			continue
		}

		if len(out.Synonyms) > 0 {
			synonyms = append(synonyms, out.Synonyms...)
			r.metrics.RecordLookupHit(ctx, l.Name())
		}

		if out.Substitute != "" && out.Substitute != term {
			resolved = out.Substitute
			res.Correction = &entities.Correction{From: term, To: out.Substitute}
			r.metrics.RecordLookupHit(ctx, l.Name())
			break
		}
	}

	synonyms = utils.UniqueStrings(synonyms)
	res.Synonyms = synonyms
	res.Terms = utils.UniqueStrings(append([]string{resolved}, synonyms...))
	res.Resolved = res.Correction != nil || len(synonyms) > 0 || res.CategoryHint != ""
	return res
}

package services

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/Marketplacesearch/internal/domain/entities"
	"github.com/zatekoja/Marketplacesearch/internal/domain/repositories"
)

// DefaultMinSharedUsers is the fewest distinct users two products must share
// before an edge is emitted.
const DefaultMinSharedUsers = 2

// RecomputeSummary describes one similarity recomputation run.
type RecomputeSummary struct {
	Kind     entities.SimilarityKind
	Pairs    int
	Products int
	Edges    int
	Pruned   int64
	Duration time.Duration
}

// SimilarityConfig configures SimilarityService.
type SimilarityConfig struct {
	MinSharedUsers int
	// Prune deletes edges of the recomputed kind that the run did not refresh.
	Prune bool
}

// SimilarityService derives product similarity edges from the interaction
// log. It is the only writer of similarity edges.
type SimilarityService struct {
	interactions repositories.InteractionRepository
	similarity   repositories.SimilarityRepository
	config       SimilarityConfig
	now          func() time.Time
}

func NewSimilarityService(
	interactions repositories.InteractionRepository,
	similarity repositories.SimilarityRepository,
	config SimilarityConfig,
) *SimilarityService {
	if config.MinSharedUsers < 1 {
		config.MinSharedUsers = DefaultMinSharedUsers
	}
	return &SimilarityService{
		interactions: interactions,
		similarity:   similarity,
		config:       config,
		now:          time.Now,
	}
}

// RecomputeCoPurchase rebuilds co_purchase edges from purchases only.
func (s *SimilarityService) RecomputeCoPurchase(ctx context.Context) (*RecomputeSummary, error) {
	return s.recompute(ctx, entities.SimilarityCoPurchase, entities.InteractionPurchase)
}

// RecomputeCollaborative rebuilds collaborative edges from every kind of
// interaction.
func (s *SimilarityService) RecomputeCollaborative(ctx context.Context) (*RecomputeSummary, error) {
	return s.recompute(ctx, entities.SimilarityCollaborative)
}

// RecomputeAll runs every recomputation, stopping at the first failure.
func (s *SimilarityService) RecomputeAll(ctx context.Context) ([]*RecomputeSummary, error) {
	var summaries []*RecomputeSummary
	for _, run := range []func(context.Context) (*RecomputeSummary, error){
		s.RecomputeCoPurchase,
		s.RecomputeCollaborative,
	} {
		summary, err := run(ctx)
		if err != nil {
			return summaries, err
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

func (s *SimilarityService) recompute(ctx context.Context, kind entities.SimilarityKind, from ...entities.InteractionKind) (*RecomputeSummary, error) {
	start := s.now().UTC().Truncate(time.Microsecond)

	pairs, err := s.interactions.DistinctProductUsers(ctx, from...)
	if err != nil {
		return nil, err
	}

	edges, products := ComputeCooccurrenceEdges(pairs, kind, s.config.MinSharedUsers, start)
	if err := s.similarity.UpsertEdges(ctx, edges); err != nil {
		return nil, err
	}

	summary := &RecomputeSummary{
		Kind:     kind,
		Pairs:    len(pairs),
		Products: products,
		Edges:    len(edges),
	}

	if s.config.Prune {
		pruned, err := s.similarity.DeleteStale(ctx, kind, start)
		if err != nil {
			return nil, err
		}
		summary.Pruned = pruned
	}

	summary.Duration = s.now().Sub(start)
	log.Info().
		Str("kind", string(kind)).
		Int("pairs", summary.Pairs).
		Int("products", summary.Products).
		Int("edges", summary.Edges).
		Int64("pruned", summary.Pruned).
		Dur("duration", summary.Duration).
		Msg("similarity edges recomputed")

	return summary, nil
}

// ComputeCooccurrenceEdges scores every ordered pair of distinct products
// sharing at least minShared distinct users as
//
//	shared(A,B) / (sqrt(users(A)) * sqrt(users(B)))
//
// Both directions are emitted. Scores are clamped to 1; shared is at most
// min(users(A), users(B)). It also returns the number of distinct
// products seen.
func ComputeCooccurrenceEdges(pairs []entities.ProductUser, kind entities.SimilarityKind, minShared int, at time.Time) ([]entities.SimilarityEdge, int) {
	productUsers := make(map[string]map[string]struct{})
	userProducts := make(map[string]map[string]struct{})
	for _, p := range pairs {
		if productUsers[p.ProductID] == nil {
			productUsers[p.ProductID] = make(map[string]struct{})
		}
		productUsers[p.ProductID][p.UserID] = struct{}{}

		if userProducts[p.UserID] == nil {
			userProducts[p.UserID] = make(map[string]struct{})
		}
		userProducts[p.UserID][p.ProductID] = struct{}{}
	}

	// Count each unordered pair once per user; a < b.
	shared := make(map[[2]string]int)
	for _, products := range userProducts {
		ids := make([]string, 0, len(products))
		for id := range products {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for i := 0; i < len(ids); i++ {
			for j := i + 1; j < len(ids); j++ {
				shared[[2]string{ids[i], ids[j]}]++
			}
		}
	}

	var edges []entities.SimilarityEdge
	for pair, count := range shared {
		if count < minShared {
			continue
		}
		a, b := pair[0], pair[1]
		// Rounding in the square roots can push identical buyer sets past 1.
		score := math.Min(float64(count)/(math.Sqrt(float64(len(productUsers[a])))*math.Sqrt(float64(len(productUsers[b])))), 1)
		edges = append(edges,
			entities.SimilarityEdge{ProductA: a, ProductB: b, Score: score, Kind: kind, UpdatedAt: at},
			entities.SimilarityEdge{ProductA: b, ProductB: a, Score: score, Kind: kind, UpdatedAt: at},
		)
	}

	sort.Slice(edges, func(i, j int) bool {
		if edges[i].ProductA != edges[j].ProductA {
			return edges[i].ProductA < edges[j].ProductA
		}
		return edges[i].ProductB < edges[j].ProductB
	})

	return edges, len(productUsers)
}

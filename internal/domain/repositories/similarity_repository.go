package repositories

import (
	"context"
	"time"

	"github.com/zatekoja/Marketplacesearch/internal/domain/entities"
)

// CandidateScore is a candidate product with its averaged edge score.
type CandidateScore struct {
	ProductID string  `db:"product_id"`
	Score     float64 `db:"score"`
}

// SimilarityRepository stores similarity edges. The batch job is the only
// writer; the serving path only reads.
type SimilarityRepository interface {
	// UpsertEdges overwrites the score of each edge, keyed by
	// (product_a, product_b, kind).
	UpsertEdges(ctx context.Context, edges []entities.SimilarityEdge) error

	// DeleteStale removes edges of kind not refreshed since cutoff.
	DeleteStale(ctx context.Context, kind entities.SimilarityKind, cutoff time.Time) (int64, error)

	// ListFrom returns edges from productID, best first, optionally filtered
	// by kind.
	ListFrom(ctx context.Context, productID string, kinds []entities.SimilarityKind, limit int) ([]entities.SimilarityEdge, error)

	// AverageScores averages edge scores from any source to every target not
	// in exclude, best first.
	AverageScores(ctx context.Context, sources, exclude []string, kinds []entities.SimilarityKind, limit int) ([]CandidateScore, error)
}

package database

import (
	"context"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/rs/zerolog/log"
	"github.com/zatekoja/Marketplacesearch/internal/domain/entities"
	"github.com/zatekoja/Marketplacesearch/internal/domain/repositories"
	"github.com/zatekoja/Marketplacesearch/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/Marketplacesearch/pkg/errors"
)

const defaultEdgeBatchSize = 500

// SimilarityAdapter stores similarity edges in Postgres.
type SimilarityAdapter struct {
	client    *postgres.Client
	db        *goqu.Database
	batchSize int
}

// NewSimilarityAdapter creates a new similarity adapter. Edges are written in
// batches of batchSize, one transaction per batch.
func NewSimilarityAdapter(client *postgres.Client, batchSize int) repositories.SimilarityRepository {
	if batchSize <= 0 {
		batchSize = defaultEdgeBatchSize
	}
	return &SimilarityAdapter{
		client:    client,
		db:        goqu.New("postgres", client.DB()),
		batchSize: batchSize,
	}
}

// UpsertEdges overwrites edge scores. A failed batch rolls back alone;
// earlier batches stay committed.
func (a *SimilarityAdapter) UpsertEdges(ctx context.Context, edges []entities.SimilarityEdge) error {
	for start := 0; start < len(edges); start += a.batchSize {
		end := start + a.batchSize
		if end > len(edges) {
			end = len(edges)
		}
		if err := a.upsertBatch(ctx, edges[start:end]); err != nil {
			return err
		}
	}
	return nil
}

func (a *SimilarityAdapter) upsertBatch(ctx context.Context, batch []entities.SimilarityEdge) error {
	rows := make([]interface{}, 0, len(batch))
	for _, e := range batch {
		rows = append(rows, goqu.Record{
			"product_a":  e.ProductA,
			"product_b":  e.ProductB,
			"score":      e.Score,
			"kind":       string(e.Kind),
			"updated_at": e.UpdatedAt,
		})
	}

	query, args, err := a.db.Insert("similarity_edges").
		Rows(rows...).
		OnConflict(goqu.DoUpdate("product_a, product_b, kind", goqu.Record{
			"score":      goqu.L("EXCLUDED.score"),
			"updated_at": goqu.L("EXCLUDED.updated_at"),
		})).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build similarity upsert", err)
	}

	tx, err := a.client.BeginTx(ctx)
	if err != nil {
		return apperrors.NewInternalError("failed to begin similarity transaction", err)
	}

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Error().Err(rbErr).Msg("failed to rollback similarity batch")
		}
		return apperrors.NewInternalError("failed to upsert similarity edges", err)
	}

	if err := tx.Commit(); err != nil {
		return apperrors.NewInternalError("failed to commit similarity edges", err)
	}

	return nil
}

// DeleteStale removes edges of kind whose updated_at predates cutoff.
func (a *SimilarityAdapter) DeleteStale(ctx context.Context, kind entities.SimilarityKind, cutoff time.Time) (int64, error) {
	query, args, err := a.db.Delete("similarity_edges").
		Where(goqu.Ex{"kind": string(kind)}, goqu.C("updated_at").Lt(cutoff)).
		ToSQL()
	if err != nil {
		return 0, apperrors.NewInternalError("failed to build similarity prune", err)
	}

	res, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return 0, apperrors.NewInternalError("failed to prune similarity edges", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, apperrors.NewInternalError("failed to count pruned edges", err)
	}
	return n, nil
}

// ListFrom returns the outgoing edges of productID, best first.
func (a *SimilarityAdapter) ListFrom(ctx context.Context, productID string, kinds []entities.SimilarityKind, limit int) ([]entities.SimilarityEdge, error) {
	where := []exp.Expression{goqu.Ex{"product_a": productID}}
	if len(kinds) > 0 {
		where = append(where, goqu.Ex{"kind": kindValues(kinds)})
	}

	query, args, err := a.db.Select("product_a", "product_b", "score", "kind", "updated_at").
		From("similarity_edges").
		Where(where...).
		Order(goqu.C("score").Desc(), goqu.C("product_b").Asc()).
		Limit(uint(limit)).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build similarity query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list similarity edges", err)
	}
	defer rows.Close()

	var edges []entities.SimilarityEdge
	for rows.Next() {
		var e entities.SimilarityEdge
		var kind string
		if err := rows.Scan(&e.ProductA, &e.ProductB, &e.Score, &kind, &e.UpdatedAt); err != nil {
			return nil, apperrors.NewInternalError("failed to scan similarity edge", err)
		}
		e.Kind = entities.SimilarityKind(kind)
		edges = append(edges, e)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate similarity edges", err)
	}

	return edges, nil
}

// AverageScores averages, per target product, the scores of edges leaving any
// of sources. Targets in exclude are skipped.
func (a *SimilarityAdapter) AverageScores(ctx context.Context, sources, exclude []string, kinds []entities.SimilarityKind, limit int) ([]repositories.CandidateScore, error) {
	if len(sources) == 0 {
		return nil, nil
	}

	where := []exp.Expression{goqu.Ex{"product_a": sources}}
	if len(exclude) > 0 {
		where = append(where, goqu.Ex{"product_b": goqu.Op{"notIn": exclude}})
	}
	if len(kinds) > 0 {
		where = append(where, goqu.Ex{"kind": kindValues(kinds)})
	}

	query, args, err := a.db.From("similarity_edges").
		Select(goqu.C("product_b").As("product_id"), goqu.AVG("score").As("score")).
		Where(where...).
		GroupBy("product_b").
		Order(goqu.I("score").Desc(), goqu.C("product_b").Asc()).
		Limit(uint(limit)).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build candidate query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to average similarity scores", err)
	}
	defer rows.Close()

	var candidates []repositories.CandidateScore
	for rows.Next() {
		var c repositories.CandidateScore
		if err := rows.Scan(&c.ProductID, &c.Score); err != nil {
			return nil, apperrors.NewInternalError("failed to scan candidate", err)
		}
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate candidates", err)
	}

	return candidates, nil
}

func kindValues(kinds []entities.SimilarityKind) []string {
	values := make([]string, len(kinds))
	for i, k := range kinds {
		values[i] = string(k)
	}
	return values
}

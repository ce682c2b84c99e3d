package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/zatekoja/Marketplacesearch/internal/domain/entities"
	"github.com/zatekoja/Marketplacesearch/internal/domain/repositories"
	"github.com/zatekoja/Marketplacesearch/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/Marketplacesearch/pkg/errors"
)

// InteractionAdapter implements the interaction log in Postgres.
type InteractionAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewInteractionAdapter creates a new interaction adapter.
func NewInteractionAdapter(client *postgres.Client) repositories.InteractionRepository {
	return &InteractionAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Increment adds weight to the row's score in one upsert, so concurrent
// recorders never lose an increment.
func (a *InteractionAdapter) Increment(ctx context.Context, in *entities.InteractionInput, weight float64, at time.Time) error {
	record := goqu.Record{
		"user_id":         in.UserID,
		"product_id":      in.ProductID,
		"kind":            string(in.Kind),
		"score":           weight,
		"session_id":      nullString(in.SessionID),
		"module_id":       nullInt(in.ModuleID),
		"last_updated_at": at,
	}

	query, args, err := a.db.Insert("interactions").
		Rows(record).
		OnConflict(goqu.DoUpdate("user_id, product_id, kind", goqu.Record{
			"score":           goqu.L("interactions.score + EXCLUDED.score"),
			"session_id":      goqu.L("COALESCE(EXCLUDED.session_id, interactions.session_id)"),
			"module_id":       goqu.L("COALESCE(EXCLUDED.module_id, interactions.module_id)"),
			"last_updated_at": goqu.L("EXCLUDED.last_updated_at"),
		})).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build interaction upsert", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to upsert interaction", err)
	}

	return nil
}

// ListByUser returns the user's interaction rows, newest first.
func (a *InteractionAdapter) ListByUser(ctx context.Context, userID string, moduleID *int) ([]*entities.Interaction, error) {
	query, args, err := a.db.Select(
		"user_id", "product_id", "kind", "score", "session_id", "module_id", "last_updated_at",
	).From("interactions").
		Where(userScope(userID, moduleID)...).
		Order(goqu.C("last_updated_at").Desc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build interaction query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list interactions", err)
	}
	defer rows.Close()

	var interactions []*entities.Interaction
	for rows.Next() {
		i := &entities.Interaction{}
		var kind string
		var session sql.NullString
		var module sql.NullInt64

		if err := rows.Scan(
			&i.UserID,
			&i.ProductID,
			&kind,
			&i.Score,
			&session,
			&module,
			&i.LastUpdatedAt,
		); err != nil {
			return nil, apperrors.NewInternalError("failed to scan interaction", err)
		}

		i.Kind = entities.InteractionKind(kind)
		if session.Valid {
			i.SessionID = &session.String
		}
		if module.Valid {
			m := int(module.Int64)
			i.ModuleID = &m
		}
		interactions = append(interactions, i)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate interactions", err)
	}

	return interactions, nil
}

// RecentProducts returns the user's distinct products ordered by their
// latest interaction.
func (a *InteractionAdapter) RecentProducts(ctx context.Context, userID string, moduleID *int, limit int) ([]string, error) {
	query, args, err := a.db.From("interactions").
		Select("product_id", goqu.MAX("last_updated_at").As("last_seen")).
		Where(userScope(userID, moduleID)...).
		GroupBy("product_id").
		Order(goqu.I("last_seen").Desc(), goqu.C("product_id").Asc()).
		Limit(uint(limit)).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build recent products query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get recent products", err)
	}
	defer rows.Close()

	var products []string
	for rows.Next() {
		var productID string
		var lastSeen time.Time
		if err := rows.Scan(&productID, &lastSeen); err != nil {
			return nil, apperrors.NewInternalError("failed to scan recent product", err)
		}
		products = append(products, productID)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate recent products", err)
	}

	return products, nil
}

// InteractedProducts returns every product the user has any row for.
func (a *InteractionAdapter) InteractedProducts(ctx context.Context, userID string) ([]string, error) {
	query, args, err := a.db.From("interactions").
		Select("product_id").
		Distinct().
		Where(goqu.Ex{"user_id": userID}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build interacted products query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get interacted products", err)
	}
	defer rows.Close()

	var products []string
	for rows.Next() {
		var productID string
		if err := rows.Scan(&productID); err != nil {
			return nil, apperrors.NewInternalError("failed to scan interacted product", err)
		}
		products = append(products, productID)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate interacted products", err)
	}

	return products, nil
}

// WindowedScores re-weights every row touched since the cutoff by its kind
// and sums per product. The stored cumulative score is not used.
func (a *InteractionAdapter) WindowedScores(ctx context.Context, since time.Time, moduleID *int, weights map[entities.InteractionKind]float64, limit int) ([]entities.ProductScore, error) {
	weighted := goqu.Case().Else(0)
	for _, kind := range entities.InteractionKinds() {
		if w, ok := weights[kind]; ok {
			weighted = weighted.When(goqu.C("kind").Eq(string(kind)), w)
		}
	}

	where := []exp.Expression{goqu.C("last_updated_at").Gte(since)}
	if moduleID != nil {
		where = append(where, goqu.C("module_id").Eq(*moduleID))
	}

	query, args, err := a.db.From("interactions").
		Select("product_id", goqu.SUM(weighted).As("score")).
		Where(where...).
		GroupBy("product_id").
		Order(goqu.I("score").Desc(), goqu.C("product_id").Asc()).
		Limit(uint(limit)).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build trending query", err)
	}

	return a.queryScores(ctx, query, args)
}

// DistinctProductUsers returns each (user, product) pair once, optionally
// restricted to the given kinds.
func (a *InteractionAdapter) DistinctProductUsers(ctx context.Context, kinds ...entities.InteractionKind) ([]entities.ProductUser, error) {
	ds := a.db.From("interactions").
		Select("user_id", "product_id").
		Distinct()
	if len(kinds) > 0 {
		values := make([]string, len(kinds))
		for i, k := range kinds {
			values[i] = string(k)
		}
		ds = ds.Where(goqu.Ex{"kind": values})
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build product user query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get product users", err)
	}
	defer rows.Close()

	var pairs []entities.ProductUser
	for rows.Next() {
		var p entities.ProductUser
		if err := rows.Scan(&p.UserID, &p.ProductID); err != nil {
			return nil, apperrors.NewInternalError("failed to scan product user", err)
		}
		pairs = append(pairs, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate product users", err)
	}

	return pairs, nil
}

func (a *InteractionAdapter) queryScores(ctx context.Context, query string, args []interface{}) ([]entities.ProductScore, error) {
	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query product scores", err)
	}
	defer rows.Close()

	var scores []entities.ProductScore
	for rows.Next() {
		var s entities.ProductScore
		if err := rows.Scan(&s.ProductID, &s.Score); err != nil {
			return nil, apperrors.NewInternalError("failed to scan product score", err)
		}
		scores = append(scores, s)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate product scores", err)
	}

	return scores, nil
}

func userScope(userID string, moduleID *int) []exp.Expression {
	where := []exp.Expression{goqu.Ex{"user_id": userID}}
	if moduleID != nil {
		where = append(where, goqu.Ex{"module_id": *moduleID})
	}
	return where
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullInt(i *int) sql.NullInt64 {
	if i == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*i), Valid: true}
}

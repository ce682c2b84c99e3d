package database

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/lib/pq"
	"github.com/zatekoja/Marketplacesearch/internal/domain/entities"
	"github.com/zatekoja/Marketplacesearch/internal/domain/repositories"
	"github.com/zatekoja/Marketplacesearch/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/Marketplacesearch/pkg/errors"
)

// CustomSynonymAdapter reads operator-managed synonyms from Postgres.
type CustomSynonymAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewCustomSynonymAdapter creates a new custom synonym adapter.
func NewCustomSynonymAdapter(client *postgres.Client) repositories.CustomSynonymRepository {
	return &CustomSynonymAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// FindActive returns active global entries for term plus those scoped to
// moduleID. Module-scoped entries sort first.
func (a *CustomSynonymAdapter) FindActive(ctx context.Context, term string, moduleID *int) ([]*entities.CustomSynonymEntry, error) {
	var scope exp.Expression = goqu.C("module_id").IsNull()
	if moduleID != nil {
		scope = goqu.Or(goqu.C("module_id").IsNull(), goqu.C("module_id").Eq(*moduleID))
	}

	query, args, err := a.db.Select(
		"id", "term", "synonyms", "module_id", "active", "created_at", "updated_at",
	).From("custom_synonyms").
		Where(goqu.Ex{"term": term, "active": true}, scope).
		Order(goqu.C("module_id").Asc().NullsLast(), goqu.C("id").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build custom synonym query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query custom synonyms", err)
	}
	defer rows.Close()

	var entries []*entities.CustomSynonymEntry
	for rows.Next() {
		entry := &entities.CustomSynonymEntry{}
		var module sql.NullInt64

		if err := rows.Scan(
			&entry.ID,
			&entry.Term,
			pq.Array(&entry.Synonyms),
			&module,
			&entry.Active,
			&entry.CreatedAt,
			&entry.UpdatedAt,
		); err != nil {
			return nil, apperrors.NewInternalError("failed to scan custom synonym", err)
		}

		if module.Valid {
			m := int(module.Int64)
			entry.ModuleID = &m
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate custom synonyms", err)
	}

	return entries, nil
}

// LearnedCorrectionAdapter persists learned spelling corrections.
type LearnedCorrectionAdapter struct {
	client *postgres.Client
	db     *goqu.Database
	now    func() time.Time
}

// NewLearnedCorrectionAdapter creates a new learned correction adapter.
func NewLearnedCorrectionAdapter(client *postgres.Client) repositories.LearnedCorrectionRepository {
	return &LearnedCorrectionAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
		now:    time.Now,
	}
}

// FindApplicable returns the correction for misspelling when its confidence
// exceeds minConfidence.
func (a *LearnedCorrectionAdapter) FindApplicable(ctx context.Context, misspelling string, minConfidence float64) (*entities.LearnedCorrection, error) {
	return a.getWhere(ctx, goqu.Ex{"misspelling": misspelling}, goqu.C("confidence").Gt(minConfidence))
}

// Get returns the stored correction for misspelling regardless of confidence.
func (a *LearnedCorrectionAdapter) Get(ctx context.Context, misspelling string) (*entities.LearnedCorrection, error) {
	return a.getWhere(ctx, goqu.Ex{"misspelling": misspelling})
}

func (a *LearnedCorrectionAdapter) getWhere(ctx context.Context, where ...exp.Expression) (*entities.LearnedCorrection, error) {
	query, args, err := a.db.Select(
		"misspelling", "correction", "confidence", "usage_count", "created_at", "updated_at",
	).From("learned_corrections").
		Where(where...).
		Limit(1).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build learned correction query", err)
	}

	c := &entities.LearnedCorrection{}
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&c.Misspelling,
		&c.Correction,
		&c.Confidence,
		&c.UsageCount,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get learned correction", err)
	}

	return c, nil
}

// Reinforce inserts the correction or bumps the confidence of the existing
// row. The stored correction text is never replaced.
func (a *LearnedCorrectionAdapter) Reinforce(ctx context.Context, misspelling, correction string, confidence, step float64) error {
	now := a.now()
	record := goqu.Record{
		"misspelling": misspelling,
		"correction":  correction,
		"confidence":  confidence,
		"usage_count": 1,
		"created_at":  now,
		"updated_at":  now,
	}

	query, args, err := a.db.Insert("learned_corrections").
		Rows(record).
		OnConflict(goqu.DoUpdate("misspelling", goqu.Record{
			"confidence":  goqu.L("LEAST(learned_corrections.confidence + ?, 1.0)", step),
			"usage_count": goqu.L("learned_corrections.usage_count + 1"),
			"updated_at":  goqu.L("EXCLUDED.updated_at"),
		})).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build learned correction upsert", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to upsert learned correction", err)
	}

	return nil
}

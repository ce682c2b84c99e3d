package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
	"github.com/zatekoja/Marketplacesearch/internal/domain/entities"
	"github.com/zatekoja/Marketplacesearch/internal/domain/repositories"
	"github.com/zatekoja/Marketplacesearch/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/Marketplacesearch/pkg/errors"
)

// FeedbackAdapter implements recommendation feedback persistence in Postgres.
type FeedbackAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewFeedbackAdapter creates a new feedback adapter.
func NewFeedbackAdapter(client *postgres.Client) repositories.FeedbackRepository {
	return &FeedbackAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create inserts a feedback event, assigning an ID and timestamp when unset.
func (a *FeedbackAdapter) Create(ctx context.Context, event *entities.FeedbackEvent) error {
	if event == nil {
		return apperrors.NewInternalError("feedback is nil", fmt.Errorf("feedback is nil"))
	}
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	record := goqu.Record{
		"id":                  event.ID,
		"user_id":             nullString(event.UserID),
		"session_id":          nullString(event.SessionID),
		"product_id":          event.ProductID,
		"recommendation_kind": string(event.RecommendationKind),
		"action":              string(event.Action),
		"position":            nullInt(event.Position),
		"created_at":          event.CreatedAt,
	}

	query, args, err := a.db.Insert("recommendation_feedback").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build feedback insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create feedback", err)
	}

	return nil
}

// ListSince returns events created at or after since, oldest first.
func (a *FeedbackAdapter) ListSince(ctx context.Context, since time.Time) ([]*entities.FeedbackEvent, error) {
	query, args, err := a.db.Select(
		"id", "user_id", "session_id", "product_id", "recommendation_kind", "action", "position", "created_at",
	).From("recommendation_feedback").
		Where(goqu.C("created_at").Gte(since)).
		Order(goqu.C("created_at").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build feedback query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list feedback", err)
	}
	defer rows.Close()

	var events []*entities.FeedbackEvent
	for rows.Next() {
		e := &entities.FeedbackEvent{}
		var userID, sessionID sql.NullString
		var kind, action string
		var position sql.NullInt64

		if err := rows.Scan(
			&e.ID,
			&userID,
			&sessionID,
			&e.ProductID,
			&kind,
			&action,
			&position,
			&e.CreatedAt,
		); err != nil {
			return nil, apperrors.NewInternalError("failed to scan feedback", err)
		}

		e.RecommendationKind = entities.RecommendationKind(kind)
		e.Action = entities.FeedbackAction(action)
		if userID.Valid {
			e.UserID = &userID.String
		}
		if sessionID.Valid {
			e.SessionID = &sessionID.String
		}
		if position.Valid {
			p := int(position.Int64)
			e.Position = &p
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate feedback", err)
	}

	return events, nil
}

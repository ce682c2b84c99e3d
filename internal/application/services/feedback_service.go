package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/zatekoja/Marketplacesearch/internal/domain/entities"
	"github.com/zatekoja/Marketplacesearch/internal/domain/repositories"
	"github.com/zatekoja/Marketplacesearch/internal/evaluation"
	"github.com/zatekoja/Marketplacesearch/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/Marketplacesearch/pkg/errors"
)

// FeedbackService records what users did with recommendations.
type FeedbackService struct {
	repo    repositories.FeedbackRepository
	metrics *observability.Metrics
}

// NewFeedbackService creates a new feedback service.
func NewFeedbackService(repo repositories.FeedbackRepository, metrics *observability.Metrics) *FeedbackService {
	return &FeedbackService{repo: repo, metrics: metrics}
}

// Record appends a feedback event. Like interaction tracking, only invalid
// input is returned.
func (s *FeedbackService) Record(ctx context.Context, event *entities.FeedbackEvent) error {
	if event == nil {
		return apperrors.NewValidationError("feedback event is required")
	}
	event.ProductID = strings.TrimSpace(event.ProductID)
	if err := validateInput(event); err != nil {
		return err
	}

	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	if err := s.repo.Create(ctx, event); err != nil {
		log.Warn().Err(err).
			Str("product_id", event.ProductID).
			Str("kind", string(event.RecommendationKind)).
			Str("action", string(event.Action)).
			Msg("failed to record recommendation feedback")
		s.metrics.RecordSwallowedWrite(ctx, "recommendation_feedback")
	}
	return nil
}

// Report aggregates feedback since the given time for offline evaluation.
func (s *FeedbackService) Report(ctx context.Context, since time.Time) (*evaluation.FeedbackReport, error) {
	events, err := s.repo.ListSince(ctx, since)
	if err != nil {
		return nil, err
	}
	return evaluation.BuildFeedbackReport(since, events), nil
}

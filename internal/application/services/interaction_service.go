package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/Marketplacesearch/internal/domain/entities"
	"github.com/zatekoja/Marketplacesearch/internal/domain/repositories"
	"github.com/zatekoja/Marketplacesearch/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/Marketplacesearch/pkg/errors"
)

// trackTimeout bounds a background tracking write.
const trackTimeout = 5 * time.Second

// InteractionService records user↔product interactions.
type InteractionService struct {
	repo    repositories.InteractionRepository
	metrics *observability.Metrics
	now     func() time.Time
	pending sync.WaitGroup
}

func NewInteractionService(repo repositories.InteractionRepository, metrics *observability.Metrics) *InteractionService {
	return &InteractionService{repo: repo, metrics: metrics, now: time.Now}
}

// Record adds the kind's weight to the (user, product, kind) score. Only
// malformed input is reported; store failures are logged and dropped so
// tracking never blocks the action that triggered it.
func (s *InteractionService) Record(ctx context.Context, in entities.InteractionInput) error {
	in.UserID = strings.TrimSpace(in.UserID)
	in.ProductID = strings.TrimSpace(in.ProductID)
	if err := validateInput(in); err != nil {
		return err
	}

	if err := s.repo.Increment(ctx, &in, in.Kind.Weight(), s.now()); err != nil {
		log.Warn().Err(err).
			Str("user_id", in.UserID).
			Str("product_id", in.ProductID).
			Str("kind", string(in.Kind)).
			Msg("failed to record interaction")
		s.metrics.RecordSwallowedWrite(ctx, "interactions")
	}
	return nil
}

// History returns the user's per-kind rows, newest first, optionally
// restricted to a module. A user with no history gets an empty slice.
func (s *InteractionService) History(ctx context.Context, userID string, moduleID *int) ([]*entities.Interaction, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, apperrors.NewValidationError("user_id is required")
	}

	rows, err := s.repo.ListByUser(ctx, userID, moduleID)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list interactions", err)
	}
	if rows == nil {
		rows = []*entities.Interaction{}
	}
	return rows, nil
}

// Track records in the background with its own timeout, since the request
// context may be cancelled as soon as the caller responds.
func (s *InteractionService) Track(in entities.InteractionInput) {
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		bgCtx, cancel := context.WithTimeout(context.Background(), trackTimeout)
		defer cancel()

		if err := s.Record(bgCtx, in); err != nil {
			log.Warn().Err(err).Msg("dropped invalid interaction")
		}
	}()
}

// Wait blocks until every Track call has finished.
func (s *InteractionService) Wait() {
	s.pending.Wait()
}

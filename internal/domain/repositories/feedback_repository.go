package repositories

import (
	"context"
	"time"

	"github.com/zatekoja/Marketplacesearch/internal/domain/entities"
)

// FeedbackRepository defines the interface for recommendation feedback.
type FeedbackRepository interface {
	Create(ctx context.Context, event *entities.FeedbackEvent) error

	// ListSince feeds offline evaluation; it is never called while serving.
	ListSince(ctx context.Context, since time.Time) ([]*entities.FeedbackEvent, error)
}

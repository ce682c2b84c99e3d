package repositories

import (
	"context"

	"github.com/zatekoja/Marketplacesearch/internal/domain/entities"
)

// CustomSynonymRepository reads operator-managed synonym lists.
type CustomSynonymRepository interface {
	// FindActive returns active entries for term that are global (NULL module)
	// or scoped to moduleID.
	FindActive(ctx context.Context, term string, moduleID *int) ([]*entities.CustomSynonymEntry, error)
}

// LearnedCorrectionRepository persists the spelling-correction feedback loop.
type LearnedCorrectionRepository interface {
	// FindApplicable returns the correction for misspelling when its
	// confidence exceeds minConfidence, or nil when there is none.
	FindApplicable(ctx context.Context, misspelling string, minConfidence float64) (*entities.LearnedCorrection, error)

	// Reinforce inserts a correction at the given confidence, or on conflict
	// raises the stored confidence by step (capped at 1.0) and increments the
	// usage count, as one atomic statement.
	Reinforce(ctx context.Context, misspelling, correction string, confidence, step float64) error

	// Get returns the stored row regardless of confidence, or nil.
	Get(ctx context.Context, misspelling string) (*entities.LearnedCorrection, error)
}

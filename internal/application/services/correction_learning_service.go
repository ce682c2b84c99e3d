package services

import (
	"context"

	"github.com/zatekoja/Marketplacesearch/internal/domain/entities"
	"github.com/zatekoja/Marketplacesearch/internal/domain/repositories"
	"github.com/zatekoja/Marketplacesearch/pkg/utils"
)

type learnCorrectionInput struct {
	Misspelling string `validate:"required,max=128"`
	Correction  string `validate:"required,max=128,nefield=Misspelling"`
}

// CorrectionLearningService is the write side of the spelling feedback loop.
type CorrectionLearningService struct {
	repo repositories.LearnedCorrectionRepository
}

func NewCorrectionLearningService(repo repositories.LearnedCorrectionRepository) *CorrectionLearningService {
	return &CorrectionLearningService{repo: repo}
}

// LearnCorrection records that misspelling should read as correction. A new
// misspelling starts at confidence (default 0.5, clamped to [0,1]); a known
// one gains ConfidenceStep up to 1.0 and keeps its original correction.
func (s *CorrectionLearningService) LearnCorrection(ctx context.Context, misspelling, correction string, confidence *float64) error {
	in := learnCorrectionInput{
		Misspelling: utils.NormalizeQuery(misspelling),
		Correction:  utils.NormalizeQuery(correction),
	}
	if err := validateInput(in); err != nil {
		return err
	}

	conf := entities.DefaultLearnedConfidence
	if confidence != nil {
		conf = clamp01(*confidence)
	}

	return s.repo.Reinforce(ctx, in.Misspelling, in.Correction, conf, entities.ConfidenceStep)
}

// Get returns the stored correction for misspelling, or nil.
func (s *CorrectionLearningService) Get(ctx context.Context, misspelling string) (*entities.LearnedCorrection, error) {
	return s.repo.Get(ctx, utils.NormalizeQuery(misspelling))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

package services

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/zatekoja/Marketplacesearch/internal/domain/entities"
	"github.com/zatekoja/Marketplacesearch/internal/domain/repositories"
)

type MockCustomSynonymRepository struct {
	mock.Mock
}

func (m *MockCustomSynonymRepository) FindActive(ctx context.Context, term string, moduleID *int) ([]*entities.CustomSynonymEntry, error) {
	args := m.Called(ctx, term, moduleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.CustomSynonymEntry), args.Error(1)
}

type MockLearnedCorrectionRepository struct {
	mock.Mock
}

func (m *MockLearnedCorrectionRepository) FindApplicable(ctx context.Context, misspelling string, minConfidence float64) (*entities.LearnedCorrection, error) {
	args := m.Called(ctx, misspelling, minConfidence)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.LearnedCorrection), args.Error(1)
}

func (m *MockLearnedCorrectionRepository) Reinforce(ctx context.Context, misspelling, correction string, confidence, step float64) error {
	args := m.Called(ctx, misspelling, correction, confidence, step)
	return args.Error(0)
}

func (m *MockLearnedCorrectionRepository) Get(ctx context.Context, misspelling string) (*entities.LearnedCorrection, error) {
	args := m.Called(ctx, misspelling)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.LearnedCorrection), args.Error(1)
}

type MockInteractionRepository struct {
	mock.Mock
}

func (m *MockInteractionRepository) Increment(ctx context.Context, in *entities.InteractionInput, weight float64, at time.Time) error {
	args := m.Called(ctx, in, weight, at)
	return args.Error(0)
}

func (m *MockInteractionRepository) ListByUser(ctx context.Context, userID string, moduleID *int) ([]*entities.Interaction, error) {
	args := m.Called(ctx, userID, moduleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Interaction), args.Error(1)
}

func (m *MockInteractionRepository) RecentProducts(ctx context.Context, userID string, moduleID *int, limit int) ([]string, error) {
	args := m.Called(ctx, userID, moduleID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockInteractionRepository) InteractedProducts(ctx context.Context, userID string) ([]string, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockInteractionRepository) WindowedScores(ctx context.Context, since time.Time, moduleID *int, weights map[entities.InteractionKind]float64, limit int) ([]entities.ProductScore, error) {
	args := m.Called(ctx, since, moduleID, weights, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.ProductScore), args.Error(1)
}

func (m *MockInteractionRepository) DistinctProductUsers(ctx context.Context, kinds ...entities.InteractionKind) ([]entities.ProductUser, error) {
	args := m.Called(ctx, kinds)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.ProductUser), args.Error(1)
}

type MockSimilarityRepository struct {
	mock.Mock
}

func (m *MockSimilarityRepository) UpsertEdges(ctx context.Context, edges []entities.SimilarityEdge) error {
	args := m.Called(ctx, edges)
	return args.Error(0)
}

func (m *MockSimilarityRepository) DeleteStale(ctx context.Context, kind entities.SimilarityKind, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, kind, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSimilarityRepository) ListFrom(ctx context.Context, productID string, kinds []entities.SimilarityKind, limit int) ([]entities.SimilarityEdge, error) {
	args := m.Called(ctx, productID, kinds, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.SimilarityEdge), args.Error(1)
}

func (m *MockSimilarityRepository) AverageScores(ctx context.Context, sources, exclude []string, kinds []entities.SimilarityKind, limit int) ([]repositories.CandidateScore, error) {
	args := m.Called(ctx, sources, exclude, kinds, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repositories.CandidateScore), args.Error(1)
}

type MockFeedbackRepository struct {
	mock.Mock
}

func (m *MockFeedbackRepository) Create(ctx context.Context, event *entities.FeedbackEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockFeedbackRepository) ListSince(ctx context.Context, since time.Time) ([]*entities.FeedbackEvent, error) {
	args := m.Called(ctx, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.FeedbackEvent), args.Error(1)
}

type MockSpellingSuggester struct {
	mock.Mock
}

func (m *MockSpellingSuggester) Suggest(ctx context.Context, term string) (string, error) {
	args := m.Called(ctx, term)
	return args.String(0), args.Error(1)
}

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func strPtr(v string) *string { return &v }

const testLexiconDir = "../../../config/lexicon"

package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/Marketplacesearch/internal/domain/entities"
	"github.com/zatekoja/Marketplacesearch/internal/evaluation"
)

type expansionFixture struct {
	custom    *MockCustomSynonymRepository
	learned   *MockLearnedCorrectionRepository
	suggester *MockSpellingSuggester
	service   *QueryExpansionService
}

func newExpansionFixture(t *testing.T, guardrails *evaluation.Guardrails) *expansionFixture {
	t.Helper()
	lex, err := LoadLexicon(testLexiconDir)
	require.NoError(t, err)

	f := &expansionFixture{
		custom:    new(MockCustomSynonymRepository),
		learned:   new(MockLearnedCorrectionRepository),
		suggester: new(MockSpellingSuggester),
	}
	filters := NewFilterExtractor(lex)
	resolver := NewTermResolver(filters, []TermLookup{
		NewStaticSynonymLookup(lex),
		NewCustomSynonymLookup(f.custom),
		NewLearnedCorrectionLookup(f.learned),
		NewSpellingSuggestionLookup(f.suggester, 0),
	}, nil)
	f.service = NewQueryExpansionService(lex, filters, resolver, guardrails, nil)
	return f
}

func (f *expansionFixture) noMatches() {
	f.custom.On("FindActive", mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)
	f.learned.On("FindApplicable", mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)
	f.suggester.On("Suggest", mock.Anything, mock.Anything).Return("", nil)
}

func TestQueryExpansionService_CheapBiryani(t *testing.T) {
	f := newExpansionFixture(t, nil)
	f.noMatches()

	q := f.service.Expand(context.Background(), "cheap biryani", intPtr(1))

	assert.Equal(t, "cheap biryani", q.Original)
	assert.Equal(t, entities.LanguageLatin, q.DetectedLanguage)
	require.NotNil(t, q.PriceRange)
	assert.Nil(t, q.PriceRange.Min)
	assert.Equal(t, 100.0, *q.PriceRange.Max)
	assert.Equal(t, "Rice & Biryani", q.CategoryHint)
	assert.True(t, q.HasTerm("biryani"))
	assert.False(t, q.HasTerm("cheap"))
	assert.Equal(t, []string{"biryani", "biriyani", "pulao"}, q.Terms)
	assert.Equal(t, "biryani biriyani pulao", q.ExpandedText)
	assert.Empty(t, q.Corrections)
}

func TestQueryExpansionService_NativeScriptDish(t *testing.T) {
	f := newExpansionFixture(t, nil)
	f.noMatches()

	q := f.service.Expand(context.Background(), "वडा पाव", nil)

	assert.Equal(t, entities.LanguageNative, q.DetectedLanguage)
	require.Len(t, q.Corrections, 1)
	assert.Equal(t, "वडा पाव → vada pav", q.Corrections[0].String())
	assert.True(t, q.HasTerm("vada"))
	assert.True(t, q.HasTerm("pav"))
	assert.Equal(t, "South Indian", q.CategoryHint)
}

func TestQueryExpansionService_EmptyInput(t *testing.T) {
	f := newExpansionFixture(t, nil)

	for _, text := range []string{"", "   ", "\t\n"} {
		q := f.service.Expand(context.Background(), text, nil)
		assert.Empty(t, q.Terms)
		assert.Empty(t, q.ExpandedText)
		assert.Nil(t, q.PriceRange)
		assert.Empty(t, q.Filters)
	}
	f.custom.AssertNotCalled(t, "FindActive", mock.Anything, mock.Anything, mock.Anything)
}

func TestQueryExpansionService_DietaryFilter(t *testing.T) {
	f := newExpansionFixture(t, nil)
	f.noMatches()

	q := f.service.Expand(context.Background(), "Veg Thali", nil)

	assert.Equal(t, map[string]bool{entities.FilterIsVeg: true}, q.Filters)
	assert.Equal(t, "Thali & Meals", q.CategoryHint)
	assert.Equal(t, []string{"veg", "vegetarian", "thali", "meals", "combo"}, q.Terms)
}

func TestQueryExpansionService_TwoWordNonVeg(t *testing.T) {
	f := newExpansionFixture(t, nil)
	f.noMatches()

	q := f.service.Expand(context.Background(), "non veg biryani", nil)

	assert.Equal(t, map[string]bool{entities.FilterIsVeg: false}, q.Filters)
	assert.Equal(t, []string{"non-veg", "biryani", "biriyani", "pulao"}, q.Terms)
	assert.False(t, q.HasTerm("veg"))
	assert.False(t, q.HasTerm("vegetarian"))
}

func TestQueryExpansionService_MultiWordSynonym(t *testing.T) {
	f := newExpansionFixture(t, nil)
	f.noMatches()

	q := f.service.Expand(context.Background(), "cold drink", nil)

	assert.Equal(t, "Beverages", q.CategoryHint)
	assert.Equal(t, []string{"cold drink", "soft drink"}, q.Terms)
}

func TestQueryExpansionService_NumericPriceOverridesKeyword(t *testing.T) {
	f := newExpansionFixture(t, nil)
	f.noMatches()

	q := f.service.Expand(context.Background(), "cheap pizza under 250", nil)

	require.NotNil(t, q.PriceRange)
	assert.Equal(t, 250.0, *q.PriceRange.Max)
	assert.Equal(t, []string{"pizza", "pizzas"}, q.Terms)
	assert.False(t, q.HasTerm("under"))
	assert.False(t, q.HasTerm("250"))
}

func TestQueryExpansionService_LearnedCorrection(t *testing.T) {
	f := newExpansionFixture(t, nil)
	f.custom.On("FindActive", mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)
	f.learned.On("FindApplicable", mock.Anything, "biriani", mock.Anything).
		Return(&entities.LearnedCorrection{Misspelling: "biriani", Correction: "biryani", Confidence: 0.9}, nil)

	q := f.service.Expand(context.Background(), "biriani", nil)

	require.Len(t, q.Corrections, 1)
	assert.Equal(t, entities.Correction{From: "biriani", To: "biryani"}, q.Corrections[0])
	assert.Equal(t, []string{"biryani"}, q.Terms)
	f.suggester.AssertNotCalled(t, "Suggest", mock.Anything, mock.Anything)
}

func TestQueryExpansionService_FailingStoresDegrade(t *testing.T) {
	f := newExpansionFixture(t, nil)
	f.custom.On("FindActive", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("db down"))
	f.learned.On("FindApplicable", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("db down"))
	f.suggester.On("Suggest", mock.Anything, mock.Anything).Return("", errors.New("circuit open"))

	q := f.service.Expand(context.Background(), "paneer tikka", nil)

	assert.Equal(t, []string{"paneer", "cottage cheese", "panir", "tikka"}, q.Terms)
	assert.Equal(t, "North Indian", q.CategoryHint)
}

func TestQueryExpansionService_ExpansionIsCapped(t *testing.T) {
	f := newExpansionFixture(t, evaluation.NewGuardrails(evaluation.GuardrailConfig{MaxExpansionTerms: 2}))
	f.noMatches()

	q := f.service.Expand(context.Background(), "biryani chai", nil)

	assert.Equal(t, []string{"biryani", "biriyani"}, q.Terms)
	assert.Equal(t, "biryani biriyani", q.ExpandedText)
}

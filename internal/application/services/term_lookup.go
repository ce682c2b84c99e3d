package services

import (
	"context"
	"time"
	"unicode/utf8"

	"github.com/zatekoja/Marketplacesearch/internal/domain/entities"
	"github.com/zatekoja/Marketplacesearch/internal/domain/providers"
	"github.com/zatekoja/Marketplacesearch/internal/domain/repositories"
	"github.com/zatekoja/Marketplacesearch/pkg/utils"
)

// Lookup source names, also used as metric attributes.
const (
	SourceStatic     = "static"
	SourceCustom     = "custom"
	SourceLearned    = "learned"
	SourceSuggestion = "suggestion"
)

// MaxStaticSynonyms caps how many static synonyms one term contributes.
const MaxStaticSynonyms = 2

// minSuggestionRunes is the shortest term worth sending to the suggester.
const minSuggestionRunes = 3

// LookupResult is what one source contributes for a term. A non-empty
// Substitute replaces the term and stops the chain.
type LookupResult struct {
	Synonyms   []string
	Substitute string
}

// TermLookup is one source in the resolution chain.
type TermLookup interface {
	Name() string
	Lookup(ctx context.Context, term string, moduleID *int) (LookupResult, error)
}

// StaticSynonymLookup serves the in-process synonym table.
type StaticSynonymLookup struct {
	lexicon *Lexicon
}

func NewStaticSynonymLookup(lexicon *Lexicon) *StaticSynonymLookup {
	return &StaticSynonymLookup{lexicon: lexicon}
}

func (l *StaticSynonymLookup) Name() string { return SourceStatic }

func (l *StaticSynonymLookup) Lookup(_ context.Context, term string, _ *int) (LookupResult, error) {
	syns := l.lexicon.Tables().Synonyms[term]
	if len(syns) > MaxStaticSynonyms {
		syns = syns[:MaxStaticSynonyms]
	}
	return LookupResult{Synonyms: syns}, nil
}

// CustomSynonymLookup serves operator-managed synonyms from the store.
type CustomSynonymLookup struct {
	repo repositories.CustomSynonymRepository
}

func NewCustomSynonymLookup(repo repositories.CustomSynonymRepository) *CustomSynonymLookup {
	return &CustomSynonymLookup{repo: repo}
}

func (l *CustomSynonymLookup) Name() string { return SourceCustom }

func (l *CustomSynonymLookup) Lookup(ctx context.Context, term string, moduleID *int) (LookupResult, error) {
	entries, err := l.repo.FindActive(ctx, term, moduleID)
	if err != nil {
		return LookupResult{}, err
	}

	var syns []string
	for _, e := range entries {
		for _, s := range e.Synonyms {
			syns = append(syns, utils.NormalizeQuery(s))
		}
	}
	return LookupResult{Synonyms: utils.UniqueStrings(syns)}, nil
}

// LearnedCorrectionLookup substitutes corrections confirmed often enough by
// the feedback loop.
type LearnedCorrectionLookup struct {
	repo repositories.LearnedCorrectionRepository
}

func NewLearnedCorrectionLookup(repo repositories.LearnedCorrectionRepository) *LearnedCorrectionLookup {
	return &LearnedCorrectionLookup{repo: repo}
}

func (l *LearnedCorrectionLookup) Name() string { return SourceLearned }

func (l *LearnedCorrectionLookup) Lookup(ctx context.Context, term string, _ *int) (LookupResult, error) {
	c, err := l.repo.FindApplicable(ctx, term, entities.MinAppliedConfidence)
	if err != nil {
		return LookupResult{}, err
	}
	if !c.Applicable() {
		return LookupResult{}, nil
	}
	return LookupResult{Substitute: utils.NormalizeQuery(c.Correction)}, nil
}

// SpellingSuggestionLookup asks the external suggester. Suggestions are
// used for this query only and never persisted.
type SpellingSuggestionLookup struct {
	suggester providers.SpellingSuggester
	timeout   time.Duration
}

func NewSpellingSuggestionLookup(suggester providers.SpellingSuggester, timeout time.Duration) *SpellingSuggestionLookup {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &SpellingSuggestionLookup{suggester: suggester, timeout: timeout}
}

func (l *SpellingSuggestionLookup) Name() string { return SourceSuggestion }

func (l *SpellingSuggestionLookup) Lookup(ctx context.Context, term string, _ *int) (LookupResult, error) {
	if utf8.RuneCountInString(term) < minSuggestionRunes || utils.IsNumeric(term) {
		return LookupResult{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	suggestion, err := l.suggester.Suggest(ctx, term)
	if err != nil {
		return LookupResult{}, err
	}
	return LookupResult{Substitute: utils.NormalizeQuery(suggestion)}, nil
}

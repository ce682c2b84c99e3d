package app

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/zatekoja/Marketplacesearch/internal/application/services"
	"github.com/zatekoja/Marketplacesearch/pkg/config"
)

type noSuggestions struct{}

func (noSuggestions) Suggest(context.Context, string) (string, error) { return "", nil }

func lookupNames(lookups []services.TermLookup) []string {
	names := make([]string, len(lookups))
	for i, l := range lookups {
		names[i] = l.Name()
	}
	return names
}

func TestBuildLookups_Order(t *testing.T) {
	lex := services.NewStaticLexicon(&services.LexiconTables{})

	withSuggester := BuildLookups(lex, nil, nil, noSuggestions{}, config.SearchConfig{})
	assert.Equal(t, []string{
		services.SourceStatic,
		services.SourceCustom,
		services.SourceLearned,
		services.SourceSuggestion,
	}, lookupNames(withSuggester))

	without := BuildLookups(lex, nil, nil, nil, config.SearchConfig{})
	assert.Equal(t, []string{
		services.SourceStatic,
		services.SourceCustom,
		services.SourceLearned,
	}, lookupNames(without))
}

func TestApp_CloseReverseOrder(t *testing.T) {
	var order []int
	a := &App{}
	for i := 1; i <= 3; i++ {
		i := i
		a.closers = append(a.closers, func(context.Context) error {
			order = append(order, i)
			if i == 2 {
				return errors.New("close failed")
			}
			return nil
		})
	}

	err := a.Close(context.Background())

	assert.EqualError(t, err, "close failed")
	assert.Equal(t, []int{3, 2, 1}, order)
}

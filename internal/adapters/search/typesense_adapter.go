package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"
	"github.com/zatekoja/Marketplacesearch/internal/domain/providers"
	tsclient "github.com/zatekoja/Marketplacesearch/internal/infrastructure/clients/typesense"
	apperrors "github.com/zatekoja/Marketplacesearch/pkg/errors"
)

type searchFunc func(ctx context.Context, params *api.SearchCollectionParams) (*api.SearchResult, error)

// TypesenseAdapter suggests spellings by running a typo-tolerant search for
// the term against the product catalog and reading back the token the best
// hit matched.
type TypesenseAdapter struct {
	search  searchFunc
	queryBy string
}

var _ providers.SpellingSuggester = (*TypesenseAdapter)(nil)

// NewTypesenseAdapter creates a new Typesense adapter
func NewTypesenseAdapter(client *tsclient.Client, queryBy string) *TypesenseAdapter {
	docs := client.Client().Collection(client.Collection()).Documents()
	return &TypesenseAdapter{search: docs.Search, queryBy: queryBy}
}

// Suggest returns the catalog token closest to term, or "" when the best hit
// matched the term verbatim or nothing matched.
func (a *TypesenseAdapter) Suggest(ctx context.Context, term string) (string, error) {
	params := &api.SearchCollectionParams{
		Q:       pointer.String(term),
		QueryBy: pointer.String(a.queryBy),
		PerPage: pointer.Int(1),
	}

	result, err := a.search(ctx, params)
	if err != nil {
		return "", apperrors.NewExternalError(fmt.Sprintf("typesense suggestion for %q", term), err)
	}

	return suggestionFromResult(term, result), nil
}

func suggestionFromResult(term string, result *api.SearchResult) string {
	if result == nil || result.Hits == nil {
		return ""
	}
	for _, hit := range *result.Hits {
		if hit.Highlights == nil {
			continue
		}
		for _, hl := range *hit.Highlights {
			if hl.MatchedTokens == nil {
				continue
			}
			for _, tok := range flattenTokens(*hl.MatchedTokens) {
				tok = strings.ToLower(strings.TrimSpace(tok))
				if tok == "" || tok == term {
					continue
				}
				return tok
			}
			// the best hit matched exactly; nothing to correct
			return ""
		}
	}
	return ""
}

// flattenTokens handles both string fields ([]string) and array fields
// ([][]string) which Typesense reports with the same JSON key.
func flattenTokens(raw []interface{}) []string {
	var out []string
	for _, v := range raw {
		switch tv := v.(type) {
		case string:
			out = append(out, tv)
		case []interface{}:
			out = append(out, flattenTokens(tv)...)
		}
	}
	return out
}

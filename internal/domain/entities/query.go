package entities

import "strings"

// Language is the script classification of a raw query.
type Language string

const (
	LanguageLatin  Language = "latin"
	LanguageNative Language = "native"
	LanguageMixed  Language = "mixed"
)

// RawQuery is search-box input as typed by the user. It is never persisted.
type RawQuery struct {
	Text     string `json:"text"`
	ModuleID *int   `json:"module_id,omitempty"`
}

// PriceRange is a price constraint extracted from query text. Either bound
// may be absent.
type PriceRange struct {
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

// Merge returns r with any bound set in other taking precedence.
func (r *PriceRange) Merge(other *PriceRange) *PriceRange {
	if other == nil {
		return r
	}
	if r == nil {
		cp := *other
		return &cp
	}
	merged := *r
	if other.Min != nil {
		merged.Min = other.Min
	}
	if other.Max != nil {
		merged.Max = other.Max
	}
	return &merged
}

// Correction records one substitution applied to the query.
type Correction struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// String renders the correction as "from → to".
func (c Correction) String() string {
	return c.From + " → " + c.To
}

// FilterIsVeg is the filter key set by dietary keywords.
const FilterIsVeg = "is_veg"

// ExpandedQuery is the normalized, expanded form of a RawQuery.
//
// Terms never contains a word consumed as a price or filter keyword, and
// ExpandedText is always the space-joined Terms.
type ExpandedQuery struct {
	Original         string          `json:"original"`
	ExpandedText     string          `json:"expanded_text"`
	Terms            []string        `json:"terms"`
	SynonymsApplied  []string        `json:"synonyms_applied,omitempty"`
	Corrections      []Correction    `json:"corrections,omitempty"`
	CategoryHint     string          `json:"category_hint,omitempty"`
	PriceRange       *PriceRange     `json:"price_range,omitempty"`
	Filters          map[string]bool `json:"filters"`
	DetectedLanguage Language        `json:"detected_language"`
}

// NewExpandedQuery returns an empty result for the given input.
func NewExpandedQuery(original string) *ExpandedQuery {
	return &ExpandedQuery{
		Original:         original,
		Terms:            []string{},
		Filters:          make(map[string]bool),
		DetectedLanguage: LanguageLatin,
	}
}

// SetTerms replaces Terms and recomputes ExpandedText.
func (q *ExpandedQuery) SetTerms(terms []string) {
	q.Terms = terms
	q.ExpandedText = strings.Join(terms, " ")
}

// HasTerm reports whether term is one of the searchable terms.
func (q *ExpandedQuery) HasTerm(term string) bool {
	for _, t := range q.Terms {
		if t == term {
			return true
		}
	}
	return false
}

package entities

// RecommendationKind names a recommendation flavor.
type RecommendationKind string

const (
	RecommendationPersonalized RecommendationKind = "personalized"
	RecommendationSimilar      RecommendationKind = "similar"
	RecommendationBundle       RecommendationKind = "bundle"
	RecommendationTrending     RecommendationKind = "trending"
	RecommendationContextual   RecommendationKind = "contextual"
)

// Reason codes attached to recommended products.
const (
	ReasonBrowsingHistory = "based on browsing history"
	ReasonSimilarItem     = "similar to viewed item"
	ReasonBoughtTogether  = "frequently bought together"
	ReasonTrending        = "trending now"
)

// RecommendedProduct is one ranked candidate.
type RecommendedProduct struct {
	ID     string  `json:"id"`
	Score  float64 `json:"score"`
	Reason string  `json:"reason"`
}

// RecommendationResult is an ordered list of candidates. Kind reports the
// flavor that actually produced the list, which is "trending" whenever a
// request fell back.
type RecommendationResult struct {
	Products []RecommendedProduct `json:"products"`
	Kind     string               `json:"kind"`
}

// NewRecommendationResult returns an empty result of the given kind.
func NewRecommendationResult(kind RecommendationKind) *RecommendationResult {
	return &RecommendationResult{Products: []RecommendedProduct{}, Kind: string(kind)}
}

// IDs returns the product IDs in rank order.
func (r *RecommendationResult) IDs() []string {
	ids := make([]string, len(r.Products))
	for i, p := range r.Products {
		ids[i] = p.ID
	}
	return ids
}

// MealPeriod is an hour-of-day bucket used for contextual suggestions.
type MealPeriod string

const (
	MealBreakfast MealPeriod = "breakfast"
	MealLunch     MealPeriod = "lunch"
	MealSnacks    MealPeriod = "snacks"
	MealDinner    MealPeriod = "dinner"
	MealLateNight MealPeriod = "late_night"
)

// ContextualSuggestion is a category filter for the current time of day.
// It is meant to be applied to an external catalog query, not ranked on its
// own. Modules without a meal table get Trending instead.
type ContextualSuggestion struct {
	ModuleID     int                   `json:"module_id"`
	MealPeriod   MealPeriod            `json:"meal_period,omitempty"`
	CategoryHint string                `json:"category_hint,omitempty"`
	Query        string                `json:"query,omitempty"`
	Keywords     []string              `json:"keywords,omitempty"`
	Trending     *RecommendationResult `json:"trending,omitempty"`
}

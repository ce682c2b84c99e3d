package evaluation

import (
	"time"

	"github.com/zatekoja/Marketplacesearch/internal/domain/entities"
)

// Scenario is the query-understanding behavior a golden query exercises.
type Scenario string

const (
	ScenarioTransliteration Scenario = "transliteration" // e.g., "वडा पाव"
	ScenarioSynonym         Scenario = "synonym"         // e.g., "chai"
	ScenarioCorrection      Scenario = "correction"      // e.g., "biryni"
	ScenarioPrice           Scenario = "price"           // e.g., "cheap biryani"
	ScenarioDietary         Scenario = "dietary"         // e.g., "veg thali"
	ScenarioCategory        Scenario = "category"        // e.g., "pizza"
)

// ValidScenarios returns all valid scenario values.
func ValidScenarios() []Scenario {
	return []Scenario{
		ScenarioTransliteration, ScenarioSynonym, ScenarioCorrection,
		ScenarioPrice, ScenarioDietary, ScenarioCategory,
	}
}

// IsValid checks if the scenario value is one of the defined constants.
func (s Scenario) IsValid() bool {
	for _, v := range ValidScenarios() {
		if s == v {
			return true
		}
	}
	return false
}

// GoldenQuery represents a labeled query with its expected expansion.
type GoldenQuery struct {
	ID               string   `json:"id"`
	Query            string   `json:"query"`
	ModuleID         *int     `json:"module_id,omitempty"`
	Scenario         Scenario `json:"scenario"`
	ExpectedTerms    []string `json:"expected_terms"`
	ForbiddenTerms   []string `json:"forbidden_terms,omitempty"`
	ExpectedCategory string   `json:"expected_category,omitempty"`
	ExpectedPriceMin *float64 `json:"expected_price_min,omitempty"`
	ExpectedPriceMax *float64 `json:"expected_price_max,omitempty"`
	ExpectedIsVeg    *bool    `json:"expected_is_veg,omitempty"`
	Difficulty       string   `json:"difficulty"` // easy, medium, hard
}

// EvalResult holds the evaluation outcome for a single query.
type EvalResult struct {
	QueryID       string
	Query         string
	Scenario      Scenario
	RecallAt10    float64
	MRRAt10       float64
	TermCount     int
	ExpandedTerms []string
	Violations    []string
	Latency       time.Duration
}

// Passed reports whether every structured expectation held.
func (r EvalResult) Passed() bool {
	return len(r.Violations) == 0
}

// EvalSummary holds aggregate metrics across all golden queries.
type EvalSummary struct {
	TotalQueries    int
	AvgRecallAt10   float64
	AvgMRRAt10      float64
	AvgLatency      time.Duration
	QueriesWithHits int // queries whose expansion contained at least 1 expected term
	Passed          int
	ByScenario      map[Scenario]*ScenarioSummary
	Failures        []EvalResult
}

// ScenarioSummary holds metrics grouped by scenario.
type ScenarioSummary struct {
	Count         int
	Passed        int
	AvgRecallAt10 float64
	AvgMRRAt10    float64
}

// KindFeedback aggregates feedback for one recommendation kind.
type KindFeedback struct {
	Shown          int
	Clicked        int
	Purchased      int
	Dismissed      int
	CTR            float64
	ConversionRate float64
	DismissRate    float64
	ClickMRR       float64 // mean of 1/position over clicks with a position
}

// FeedbackReport is the offline view of recommendation feedback.
type FeedbackReport struct {
	Since  time.Time
	Events int
	ByKind map[entities.RecommendationKind]*KindFeedback
}

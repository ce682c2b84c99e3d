package entities

import "time"

// MinAppliedConfidence is the threshold a learned correction must exceed
// before the resolver substitutes it.
const MinAppliedConfidence = 0.5

// DefaultLearnedConfidence is the confidence a correction starts with.
const DefaultLearnedConfidence = 0.5

// ConfidenceStep is added on every reinforcement of a known misspelling.
const ConfidenceStep = 0.1

// CustomSynonymEntry is an operator-managed synonym list. A nil ModuleID
// applies to every module.
type CustomSynonymEntry struct {
	ID        int64     `json:"id" db:"id"`
	Term      string    `json:"term" db:"term"`
	Synonyms  []string  `json:"synonyms" db:"synonyms"`
	ModuleID  *int      `json:"module_id,omitempty" db:"module_id"`
	Active    bool      `json:"active" db:"active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// LearnedCorrection maps an observed misspelling to its correction.
// Confidence only ever grows, capped at 1.0.
type LearnedCorrection struct {
	Misspelling string    `json:"misspelling" db:"misspelling"`
	Correction  string    `json:"correction" db:"correction"`
	Confidence  float64   `json:"confidence" db:"confidence"`
	UsageCount  int       `json:"usage_count" db:"usage_count"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// Applicable reports whether the correction is confident enough to use.
func (c *LearnedCorrection) Applicable() bool {
	return c != nil && c.Confidence > MinAppliedConfidence
}

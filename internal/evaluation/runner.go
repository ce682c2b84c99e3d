package evaluation

import (
	"context"
	"fmt"
	"time"

	"github.com/zatekoja/Marketplacesearch/internal/domain/entities"
)

type QueryExpander interface {
	Expand(ctx context.Context, text string, moduleID *int) *entities.ExpandedQuery
}

// Runner runs evaluation across a set of golden queries.
type Runner struct {
	expander QueryExpander
}

func NewRunner(expander QueryExpander) *Runner {
	return &Runner{expander: expander}
}

func (r *Runner) Run(ctx context.Context, queries []GoldenQuery) (*EvalSummary, error) {
	summary := &EvalSummary{
		TotalQueries: len(queries),
		ByScenario:   make(map[Scenario]*ScenarioSummary),
	}

	for _, gq := range queries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		start := time.Now()
		expanded := r.expander.Expand(ctx, gq.Query, gq.ModuleID)
		duration := time.Since(start)

		result := EvalResult{
			QueryID:       gq.ID,
			Query:         gq.Query,
			Scenario:      gq.Scenario,
			RecallAt10:    RecallAtK(gq.ExpectedTerms, expanded.Terms, 10),
			MRRAt10:       MRRAtK(gq.ExpectedTerms, expanded.Terms, 10),
			TermCount:     len(expanded.Terms),
			ExpandedTerms: expanded.Terms,
			Violations:    checkExpectations(gq, expanded),
			Latency:       duration,
		}

		r.updateSummary(summary, result)
	}

	r.finalizeSummary(summary)
	return summary, nil
}

func checkExpectations(gq GoldenQuery, q *entities.ExpandedQuery) []string {
	var violations []string

	for _, term := range gq.ForbiddenTerms {
		if q.HasTerm(term) {
			violations = append(violations, fmt.Sprintf("forbidden term %q present", term))
		}
	}
	if gq.ExpectedCategory != "" && q.CategoryHint != gq.ExpectedCategory {
		violations = append(violations, fmt.Sprintf("category %q, want %q", q.CategoryHint, gq.ExpectedCategory))
	}
	if !boundMatches(gq.ExpectedPriceMin, priceBound(q.PriceRange, true)) {
		violations = append(violations, "price minimum mismatch")
	}
	if !boundMatches(gq.ExpectedPriceMax, priceBound(q.PriceRange, false)) {
		violations = append(violations, "price maximum mismatch")
	}
	if gq.ExpectedIsVeg != nil {
		got, ok := q.Filters[entities.FilterIsVeg]
		if !ok || got != *gq.ExpectedIsVeg {
			violations = append(violations, fmt.Sprintf("is_veg filter, want %t", *gq.ExpectedIsVeg))
		}
	}
	if len(gq.ExpectedTerms) > 0 && RecallAtK(gq.ExpectedTerms, q.Terms, len(q.Terms)) < 1 {
		violations = append(violations, "expected terms missing")
	}

	return violations
}

func priceBound(r *entities.PriceRange, min bool) *float64 {
	if r == nil {
		return nil
	}
	if min {
		return r.Min
	}
	return r.Max
}

func boundMatches(want, got *float64) bool {
	if want == nil {
		return true
	}
	return got != nil && *got == *want
}

func (r *Runner) updateSummary(s *EvalSummary, res EvalResult) {
	s.AvgRecallAt10 += res.RecallAt10
	s.AvgMRRAt10 += res.MRRAt10
	s.AvgLatency += res.Latency
	if res.MRRAt10 > 0 {
		s.QueriesWithHits++
	}
	if res.Passed() {
		s.Passed++
	} else {
		s.Failures = append(s.Failures, res)
	}

	if _, ok := s.ByScenario[res.Scenario]; !ok {
		s.ByScenario[res.Scenario] = &ScenarioSummary{}
	}
	ss := s.ByScenario[res.Scenario]
	ss.Count++
	if res.Passed() {
		ss.Passed++
	}
	ss.AvgRecallAt10 += res.RecallAt10
	ss.AvgMRRAt10 += res.MRRAt10
}

func (r *Runner) finalizeSummary(s *EvalSummary) {
	if s.TotalQueries > 0 {
		n := float64(s.TotalQueries)
		s.AvgRecallAt10 /= n
		s.AvgMRRAt10 /= n
		s.AvgLatency /= time.Duration(s.TotalQueries)
	}

	for _, ss := range s.ByScenario {
		if ss.Count > 0 {
			n := float64(ss.Count)
			ss.AvgRecallAt10 /= n
			ss.AvgMRRAt10 /= n
		}
	}
}

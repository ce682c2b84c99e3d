package evaluation

import (
	"time"

	"github.com/zatekoja/Marketplacesearch/internal/domain/entities"
)

// BuildFeedbackReport aggregates feedback events per recommendation kind.
// Rates are relative to impressions; kinds with no "shown" events report
// zero rates.
func BuildFeedbackReport(since time.Time, events []*entities.FeedbackEvent) *FeedbackReport {
	report := &FeedbackReport{
		Since:  since,
		Events: len(events),
		ByKind: make(map[entities.RecommendationKind]*KindFeedback),
	}

	reciprocal := make(map[entities.RecommendationKind]float64)
	ranked := make(map[entities.RecommendationKind]int)

	for _, e := range events {
		kf, ok := report.ByKind[e.RecommendationKind]
		if !ok {
			kf = &KindFeedback{}
			report.ByKind[e.RecommendationKind] = kf
		}

		switch e.Action {
		case entities.FeedbackShown:
			kf.Shown++
		case entities.FeedbackClicked:
			kf.Clicked++
			if e.Position != nil && *e.Position > 0 {
				reciprocal[e.RecommendationKind] += 1.0 / float64(*e.Position)
				ranked[e.RecommendationKind]++
			}
		case entities.FeedbackPurchased:
			kf.Purchased++
		case entities.FeedbackDismissed:
			kf.Dismissed++
		}
	}

	for kind, kf := range report.ByKind {
		if kf.Shown > 0 {
			shown := float64(kf.Shown)
			kf.CTR = float64(kf.Clicked) / shown
			kf.ConversionRate = float64(kf.Purchased) / shown
			kf.DismissRate = float64(kf.Dismissed) / shown
		}
		if n := ranked[kind]; n > 0 {
			kf.ClickMRR = reciprocal[kind] / float64(n)
		}
	}

	return report
}

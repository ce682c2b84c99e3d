package observability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilMetricsRecordNothing(t *testing.T) {
	var m *Metrics
	ctx := context.Background()

	assert.NotPanics(t, func() {
		m.RecordLookupHit(ctx, "static")
		m.RecordUnresolvedTerms(ctx, 2)
		m.RecordSwallowedWrite(ctx, "interactions")
		m.RecordTrendingFallback(ctx, "similar")
		m.RecordExpansion(ctx, "latin", time.Millisecond)
		m.RecordRecommendation(ctx, "trending", time.Millisecond)
	})
}

func TestInitMetricsOnGlobalProvider(t *testing.T) {
	m, err := InitMetrics()
	require.NoError(t, err)

	ctx := context.Background()
	assert.NotPanics(t, func() {
		m.RecordLookupHit(ctx, "learned")
		m.RecordTrendingFallback(ctx, "personalized")
	})
}

func TestStartSpanWithoutProvider(t *testing.T) {
	ctx, span := StartSpan(context.Background(), "test.span")
	defer span.End()
	assert.NotNil(t, ctx)
}

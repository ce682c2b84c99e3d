package observability

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/runtime"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/zatekoja/Marketplacesearch"

// Metrics holds the search and recommendation instruments. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	LookupHits             metric.Int64Counter
	UnresolvedTerms        metric.Int64Counter
	SwallowedWrites        metric.Int64Counter
	TrendingFallbacks      metric.Int64Counter
	ExpansionDuration      metric.Float64Histogram
	RecommendationDuration metric.Float64Histogram
}

// Setup initializes OpenTelemetry tracing, metrics and Go runtime metrics.
func Setup(ctx context.Context, serviceName, serviceVersion, endpoint string) (func(context.Context) error, error) {
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(serviceVersion),
		),
	)
	if err != nil {
		return nil, err
	}

	traceExporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	tracerProvider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tracerProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	metricExporter, err := otlpmetricgrpc.New(ctx,
		otlpmetricgrpc.WithEndpoint(endpoint),
		otlpmetricgrpc.WithInsecure(),
	)
	if err != nil {
		_ = tracerProvider.Shutdown(ctx)
		return nil, err
	}

	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(meterProvider)

	if err := runtime.Start(runtime.WithMinimumReadMemStatsInterval(15 * time.Second)); err != nil {
		_ = tracerProvider.Shutdown(ctx)
		_ = meterProvider.Shutdown(ctx)
		return nil, err
	}

	shutdown := func(ctx context.Context) error {
		return errors.Join(tracerProvider.Shutdown(ctx), meterProvider.Shutdown(ctx))
	}

	return shutdown, nil
}

// InitMetrics creates the service instruments on the global meter provider.
func InitMetrics() (*Metrics, error) {
	meter := otel.Meter(instrumentationName)

	lookupHits, err := meter.Int64Counter(
		"search.lookup.hit.count",
		metric.WithDescription("Terms resolved by each lookup source"),
	)
	if err != nil {
		return nil, err
	}

	unresolved, err := meter.Int64Counter(
		"search.term_unresolved.count",
		metric.WithDescription("Terms with no synonym or correction from any source"),
	)
	if err != nil {
		return nil, err
	}

	swallowed, err := meter.Int64Counter(
		"tracking.write_failure.count",
		metric.WithDescription("Interaction and feedback writes that failed and were dropped"),
	)
	if err != nil {
		return nil, err
	}

	fallbacks, err := meter.Int64Counter(
		"recommendation.trending_fallback.count",
		metric.WithDescription("Recommendation requests answered with trending instead"),
	)
	if err != nil {
		return nil, err
	}

	expansion, err := meter.Float64Histogram(
		"search.expansion.duration",
		metric.WithDescription("Query expansion duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	recommendation, err := meter.Float64Histogram(
		"recommendation.duration",
		metric.WithDescription("Recommendation request duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		LookupHits:             lookupHits,
		UnresolvedTerms:        unresolved,
		SwallowedWrites:        swallowed,
		TrendingFallbacks:      fallbacks,
		ExpansionDuration:      expansion,
		RecommendationDuration: recommendation,
	}, nil
}

// StartSpan starts a new trace span
func StartSpan(ctx context.Context, spanName string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := otel.Tracer(instrumentationName)
	return tracer.Start(ctx, spanName, trace.WithAttributes(attrs...))
}

// RecordError records an error in the current span
func RecordError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
	}
}

// RecordLookupHit counts a term resolved by source.
func (m *Metrics) RecordLookupHit(ctx context.Context, source string) {
	if m == nil {
		return
	}
	m.LookupHits.Add(ctx, 1, metric.WithAttributes(attribute.String("lookup.source", source)))
}

// RecordUnresolvedTerms counts terms nothing could expand or correct.
func (m *Metrics) RecordUnresolvedTerms(ctx context.Context, count int) {
	if m == nil || count == 0 {
		return
	}
	m.UnresolvedTerms.Add(ctx, int64(count))
}

// RecordSwallowedWrite counts a dropped tracking write.
func (m *Metrics) RecordSwallowedWrite(ctx context.Context, table string) {
	if m == nil {
		return
	}
	m.SwallowedWrites.Add(ctx, 1, metric.WithAttributes(attribute.String("db.table", table)))
}

// RecordTrendingFallback counts a recommendation degraded to trending.
func (m *Metrics) RecordTrendingFallback(ctx context.Context, kind string) {
	if m == nil {
		return
	}
	m.TrendingFallbacks.Add(ctx, 1, metric.WithAttributes(attribute.String("recommendation.kind", kind)))
}

// RecordExpansion records how long an expansion took.
func (m *Metrics) RecordExpansion(ctx context.Context, language string, duration time.Duration) {
	if m == nil {
		return
	}
	m.ExpansionDuration.Record(ctx, float64(duration.Microseconds())/1000,
		metric.WithAttributes(attribute.String("search.language", language)))
}

// RecordRecommendation records how long a recommendation request took.
func (m *Metrics) RecordRecommendation(ctx context.Context, kind string, duration time.Duration) {
	if m == nil {
		return
	}
	m.RecommendationDuration.Record(ctx, float64(duration.Microseconds())/1000,
		metric.WithAttributes(attribute.String("recommendation.kind", kind)))
}

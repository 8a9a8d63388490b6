package observability

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"resumescreen/internal/config"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.34.0"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// ObservabilityConfig is the flattened observability configuration.
type ObservabilityConfig struct {
	ServiceName    string
	ServiceVersion string
	Enabled        bool
	ConsoleOutput  bool
	PrettyPrint    bool
	SampleRate     float64
	Prometheus     PrometheusConfig
}

// Metrics holds the service's custom instruments. Embedding metrics cover the
// provider-backed scoring path; business metrics count operations; the rest
// track supporting infrastructure.
type Metrics struct {
	EmbeddingDuration     metric.Float64Histogram
	EmbeddingRequestCount metric.Int64Counter
	EmbeddingErrorCount   metric.Int64Counter
	EmbeddingCallCount    metric.Int64Histogram

	ResumesScored     metric.Int64Counter
	BatchesRanked     metric.Int64Counter
	ProfilesExtracted metric.Int64Counter
	BatchSize         metric.Int64Histogram

	CertReloadCount metric.Int64Counter
	CertExpiryTime  metric.Float64Gauge

	RateLimitHits metric.Int64Counter
}

// ObservabilityManager owns the OpenTelemetry providers and their shutdown.
type ObservabilityManager struct {
	config           ObservabilityConfig
	fullConfig       *config.Config
	res              *resource.Resource
	tracerProvider   *trace.TracerProvider
	meterProvider    *sdkmetric.MeterProvider
	metrics          *Metrics
	shutdownFuncs    []func(context.Context) error
	prometheusServer *http.ServeMux
}

// NewObservabilityManager wires tracing and metrics according to config. When
// observability is disabled the manager is inert and all helpers no-op.
func NewObservabilityManager(obsConfig ObservabilityConfig, fullConfig *config.Config) (*ObservabilityManager, error) {
	if !obsConfig.Enabled {
		return &ObservabilityManager{config: obsConfig, fullConfig: fullConfig}, nil
	}

	om := &ObservabilityManager{
		config:        obsConfig,
		fullConfig:    fullConfig,
		shutdownFuncs: make([]func(context.Context) error, 0),
	}

	res, err := om.buildResource()
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}
	om.res = res

	if err := om.initTracing(); err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}
	if err := om.initMetrics(); err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}

	return om, nil
}

// buildResource identifies this service instance in exported telemetry.
func (om *ObservabilityManager) buildResource() (*resource.Resource, error) {
	return resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(om.config.ServiceName),
			semconv.ServiceVersion(om.config.ServiceVersion),
			attribute.String("service.instance.id", om.serviceInstanceID()),
		),
	)
}

// initTracing picks an exporter by priority: console for development, OTLP
// when configured, otherwise a no-op exporter that still lets spans propagate.
func (om *ObservabilityManager) initTracing() error {
	var exporter trace.SpanExporter
	var err error

	switch {
	case om.config.ConsoleOutput:
		opts := []stdouttrace.Option{}
		if om.config.PrettyPrint {
			opts = append(opts, stdouttrace.WithPrettyPrint())
		}
		exporter, err = stdouttrace.New(opts...)
	case om.fullConfig != nil && om.fullConfig.Observability.OTLP.Enabled:
		exporter, err = om.createOTLPExporter()
	default:
		exporter = &noOpSpanExporter{}
	}
	if err != nil {
		return fmt.Errorf("failed to create trace exporter: %w", err)
	}

	tp := trace.NewTracerProvider(
		trace.WithBatcher(exporter),
		trace.WithResource(om.res),
		trace.WithSampler(trace.TraceIDRatioBased(om.config.SampleRate)),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	om.tracerProvider = tp
	om.shutdownFuncs = append(om.shutdownFuncs, tp.Shutdown)
	return nil
}

func (om *ObservabilityManager) initMetrics() error {
	readers, err := om.collectMetricReaders()
	if err != nil {
		return err
	}

	opts := []sdkmetric.Option{sdkmetric.WithResource(om.res)}
	for _, reader := range readers {
		opts = append(opts, sdkmetric.WithReader(reader))
	}

	mp := sdkmetric.NewMeterProvider(opts...)
	otel.SetMeterProvider(mp)
	om.meterProvider = mp
	om.shutdownFuncs = append(om.shutdownFuncs, mp.Shutdown)

	return om.initCustomMetrics()
}

// collectMetricReaders assembles the enabled metric readers: console, OTLP,
// and Prometheus can all run at once. With none enabled, a manual reader
// keeps instrument creation valid.
func (om *ObservabilityManager) collectMetricReaders() ([]sdkmetric.Reader, error) {
	var readers []sdkmetric.Reader

	if om.config.ConsoleOutput {
		exporter, err := stdoutmetric.New()
		if err != nil {
			return nil, fmt.Errorf("failed to create console metric exporter: %w", err)
		}
		readers = append(readers, sdkmetric.NewPeriodicReader(exporter,
			sdkmetric.WithInterval(om.metricsCollectionInterval())))
	}

	if om.fullConfig != nil && om.fullConfig.Observability.OTLP.Enabled {
		otlpReader, err := om.createOTLPMetricsReader()
		if err != nil {
			return nil, fmt.Errorf("failed to create OTLP metrics reader: %w", err)
		}
		if otlpReader != nil {
			readers = append(readers, otlpReader)
		}
	}

	if om.config.Prometheus.Enabled {
		promReader, promMux, err := SetupPrometheusExporter(om.config.Prometheus)
		if err != nil {
			return nil, fmt.Errorf("failed to create Prometheus exporter: %w", err)
		}
		if promReader != nil {
			readers = append(readers, promReader)
			om.prometheusServer = promMux
			if err := StartPrometheusServer(promMux, om.config.Prometheus.Port); err != nil {
				return nil, fmt.Errorf("failed to start Prometheus server: %w", err)
			}
		}
	}

	if len(readers) == 0 {
		readers = append(readers, sdkmetric.NewManualReader())
	}
	return readers, nil
}

func (om *ObservabilityManager) initCustomMetrics() error {
	meter := om.meterProvider.Meter(om.config.ServiceName)
	om.metrics = &Metrics{}

	if err := om.createEmbeddingMetrics(meter); err != nil {
		return err
	}
	if err := om.createBusinessMetrics(meter); err != nil {
		return err
	}
	return om.createInfrastructureMetrics(meter)
}

func (om *ObservabilityManager) createEmbeddingMetrics(meter metric.Meter) error {
	var err error

	om.metrics.EmbeddingDuration, err = meter.Float64Histogram(
		"resumescreen_embedding_duration_seconds",
		metric.WithDescription("Time spent on embedding-backed scoring operations"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return fmt.Errorf("failed to create embedding duration metric: %w", err)
	}

	om.metrics.EmbeddingRequestCount, err = meter.Int64Counter(
		"resumescreen_embedding_requests_total",
		metric.WithDescription("Total number of embedding-backed scoring operations"),
	)
	if err != nil {
		return fmt.Errorf("failed to create embedding request count metric: %w", err)
	}

	om.metrics.EmbeddingErrorCount, err = meter.Int64Counter(
		"resumescreen_embedding_errors_total",
		metric.WithDescription("Total number of failed embedding-backed scoring operations"),
	)
	if err != nil {
		return fmt.Errorf("failed to create embedding error count metric: %w", err)
	}

	om.metrics.EmbeddingCallCount, err = meter.Int64Histogram(
		"resumescreen_embedding_calls_per_operation",
		metric.WithDescription("Embedding provider calls made per scoring operation"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return fmt.Errorf("failed to create embedding call count metric: %w", err)
	}

	return nil
}

func (om *ObservabilityManager) createBusinessMetrics(meter metric.Meter) error {
	var err error

	om.metrics.ResumesScored, err = meter.Int64Counter(
		"resumescreen_resumes_scored_total",
		metric.WithDescription("Total number of resumes scored"),
	)
	if err != nil {
		return fmt.Errorf("failed to create resumes scored metric: %w", err)
	}

	om.metrics.BatchesRanked, err = meter.Int64Counter(
		"resumescreen_batches_ranked_total",
		metric.WithDescription("Total number of batch ranking operations"),
	)
	if err != nil {
		return fmt.Errorf("failed to create batches ranked metric: %w", err)
	}

	om.metrics.ProfilesExtracted, err = meter.Int64Counter(
		"resumescreen_profiles_extracted_total",
		metric.WithDescription("Total number of resume profiles extracted"),
	)
	if err != nil {
		return fmt.Errorf("failed to create profiles extracted metric: %w", err)
	}

	om.metrics.BatchSize, err = meter.Int64Histogram(
		"resumescreen_batch_size",
		metric.WithDescription("Number of resumes submitted per batch ranking request"),
		metric.WithUnit("{resume}"),
	)
	if err != nil {
		return fmt.Errorf("failed to create batch size metric: %w", err)
	}

	return nil
}

// createInfrastructureMetrics covers certificate reloads and rate limiting.
func (om *ObservabilityManager) createInfrastructureMetrics(meter metric.Meter) error {
	var err error

	om.metrics.CertReloadCount, err = meter.Int64Counter(
		"resumescreen_cert_reloads_total",
		metric.WithDescription("Total number of certificate reloads"),
	)
	if err != nil {
		return fmt.Errorf("failed to create certificate reload count metric: %w", err)
	}

	om.metrics.CertExpiryTime, err = meter.Float64Gauge(
		"resumescreen_cert_expiry_seconds",
		metric.WithDescription("Seconds until certificate expiry"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return fmt.Errorf("failed to create certificate expiry time metric: %w", err)
	}

	om.metrics.RateLimitHits, err = meter.Int64Counter(
		"resumescreen_rate_limit_hits_total",
		metric.WithDescription("Total number of rate limit hits"),
	)
	if err != nil {
		return fmt.Errorf("failed to create rate limit hits metric: %w", err)
	}

	return nil
}

// GetMetrics never returns nil; callers can record unconditionally.
func (om *ObservabilityManager) GetMetrics() *Metrics {
	if om.metrics == nil {
		return &Metrics{}
	}
	return om.metrics
}

// HTTPMiddleware instruments inbound requests with otelhttp.
func (om *ObservabilityManager) HTTPMiddleware() func(http.Handler) http.Handler {
	if !om.config.Enabled {
		return func(h http.Handler) http.Handler { return h }
	}

	return otelhttp.NewMiddleware(
		om.config.ServiceName,
		otelhttp.WithTracerProvider(om.tracerProvider),
		otelhttp.WithMeterProvider(om.meterProvider),
	)
}

// Tracer returns a tracer, or a no-op one when observability is disabled.
func (om *ObservabilityManager) Tracer(name string) oteltrace.Tracer {
	if !om.config.Enabled {
		return noop.NewTracerProvider().Tracer(name)
	}
	return otel.Tracer(name)
}

// Shutdown flushes and stops the providers.
func (om *ObservabilityManager) Shutdown(ctx context.Context) error {
	for _, shutdown := range om.shutdownFuncs {
		if err := shutdown(ctx); err != nil {
			return err
		}
	}
	return nil
}

// EmbeddingOperationResult is what an instrumented operation reports back.
type EmbeddingOperationResult struct {
	Error error
	// EmbeddingCalls is how many provider calls the operation made.
	// Zero when the operation never reached the provider.
	EmbeddingCalls int64
}

// TrackEmbeddingOperation wraps an embedding-backed operation in a span and
// records duration, request, error, and per-operation call-count metrics.
func (m *Metrics) TrackEmbeddingOperation(ctx context.Context, operation string, fn func(context.Context) *EmbeddingOperationResult, om *ObservabilityManager) error {
	if m.EmbeddingDuration == nil {
		result := fn(ctx)
		if result != nil {
			return result.Error
		}
		return nil
	}

	tracer := otel.Tracer("resumescreen.embedding")
	ctx, span := tracer.Start(ctx, "embedding."+operation)
	defer span.End()

	start := time.Now()
	result := fn(ctx)
	duration := time.Since(start).Seconds()

	var err error
	if result != nil {
		err = result.Error
	}

	if m.embeddingMetricsEnabled(om) {
		m.recordEmbeddingMetrics(ctx, operation, err, duration, result, om, span)
	}

	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("error", true))
	}

	return err
}

func (m *Metrics) embeddingMetricsEnabled(om *ObservabilityManager) bool {
	if om.fullConfig == nil {
		return true
	}
	return om.fullConfig.Observability.CustomMetrics.Embedding.Enabled
}

func (m *Metrics) recordEmbeddingMetrics(ctx context.Context, operation string, err error, duration float64, result *EmbeddingOperationResult, om *ObservabilityManager, span oteltrace.Span) {
	attrs := []attribute.KeyValue{
		attribute.String("operation", operation),
		attribute.Bool("success", err == nil),
	}

	if om.fullConfig == nil || om.fullConfig.Observability.CustomMetrics.Embedding.TrackDuration {
		m.EmbeddingDuration.Record(ctx, duration, metric.WithAttributes(attrs...))
	}

	m.EmbeddingRequestCount.Add(ctx, 1, metric.WithAttributes(attrs...))

	if result != nil && m.EmbeddingCallCount != nil {
		m.EmbeddingCallCount.Record(ctx, result.EmbeddingCalls, metric.WithAttributes(attrs...))
		span.SetAttributes(attribute.Int64("embedding.calls", result.EmbeddingCalls))
	}

	if err != nil {
		m.EmbeddingErrorCount.Add(ctx, 1, metric.WithAttributes(attrs...))
	}

	span.SetAttributes(attrs...)
}

// RecordBusinessMetric bumps the counter matching metricType. Unknown types
// are ignored.
func (m *Metrics) RecordBusinessMetric(ctx context.Context, metricType string, success bool, om *ObservabilityManager, attributes ...attribute.KeyValue) {
	if om.fullConfig != nil && !om.fullConfig.Observability.CustomMetrics.BusinessMetrics.Enabled {
		return
	}

	attrs := append([]attribute.KeyValue{
		attribute.Bool("success", success),
	}, attributes...)

	switch metricType {
	case "resume_scored":
		if m.ResumesScored != nil {
			m.ResumesScored.Add(ctx, 1, metric.WithAttributes(attrs...))
		}
	case "batch_ranked":
		if m.BatchesRanked != nil {
			m.BatchesRanked.Add(ctx, 1, metric.WithAttributes(attrs...))
		}
	case "profile_extracted":
		if m.ProfilesExtracted != nil {
			m.ProfilesExtracted.Add(ctx, 1, metric.WithAttributes(attrs...))
		}
	case "rate_limit_hit":
		m.recordRateLimitHit(ctx, attrs, om)
	}
}

// recordRateLimitHit honors the infrastructure-metrics toggle, which gates
// rate-limit tracking separately from business counters.
func (m *Metrics) recordRateLimitHit(ctx context.Context, attrs []attribute.KeyValue, om *ObservabilityManager) {
	if om != nil && om.fullConfig != nil && !om.fullConfig.Observability.CustomMetrics.Infrastructure.TrackRateLimits {
		return
	}
	if m.RateLimitHits != nil {
		m.RateLimitHits.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}

// RecordBatchSize records how many resumes a batch request carried.
func (m *Metrics) RecordBatchSize(ctx context.Context, size int, om *ObservabilityManager) {
	if om != nil && om.fullConfig != nil && !om.fullConfig.Observability.CustomMetrics.BusinessMetrics.TrackContentSizes {
		return
	}
	if m.BatchSize != nil {
		m.BatchSize.Record(ctx, int64(size))
	}
}

// noOpSpanExporter satisfies the exporter interface when neither console nor
// OTLP output is configured.
type noOpSpanExporter struct{}

func (n *noOpSpanExporter) ExportSpans(ctx context.Context, spans []trace.ReadOnlySpan) error {
	return nil
}

func (n *noOpSpanExporter) Shutdown(ctx context.Context) error {
	return nil
}

func (om *ObservabilityManager) createOTLPExporter() (trace.SpanExporter, error) {
	if om.fullConfig == nil {
		return nil, fmt.Errorf("config not available for OTLP configuration")
	}

	otlpConfig := om.fullConfig.Observability.OTLP
	opts := []otlptracehttp.Option{
		otlptracehttp.WithEndpointURL(otlpConfig.Endpoint),
	}
	if otlpConfig.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	if len(otlpConfig.Headers) > 0 {
		opts = append(opts, otlptracehttp.WithHeaders(otlpConfig.Headers))
	}

	exporter, err := otlptracehttp.New(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP trace exporter: %w", err)
	}
	return exporter, nil
}

func (om *ObservabilityManager) createOTLPMetricsReader() (sdkmetric.Reader, error) {
	if om.fullConfig == nil {
		return nil, fmt.Errorf("config not available for OTLP configuration")
	}

	otlpConfig := om.fullConfig.Observability.OTLP
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpointURL(otlpConfig.Endpoint),
	}
	if otlpConfig.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}
	if len(otlpConfig.Headers) > 0 {
		opts = append(opts, otlpmetrichttp.WithHeaders(otlpConfig.Headers))
	}

	exporter, err := otlpmetrichttp.New(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP metrics exporter: %w", err)
	}

	return sdkmetric.NewPeriodicReader(exporter,
		sdkmetric.WithInterval(om.metricsCollectionInterval())), nil
}

func (om *ObservabilityManager) serviceInstanceID() string {
	if om.fullConfig != nil && om.fullConfig.Observability.ServiceInstance != "" {
		return om.fullConfig.Observability.ServiceInstance
	}
	return "resumescreen-1"
}

func (om *ObservabilityManager) metricsCollectionInterval() time.Duration {
	if om.fullConfig != nil {
		return om.fullConfig.Observability.Metrics.CollectionInterval
	}
	return 15 * time.Second
}

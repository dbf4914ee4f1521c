package telemetry

import (
	"context"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	otelruntime "go.opentelemetry.io/contrib/instrumentation/runtime"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/trace"
)

// Telemetry holds all telemetry instruments and providers.
type Telemetry struct {
	meterProvider metric.MeterProvider
	tracer        trace.Tracer
	meter         metric.Meter
	exporter      *prometheus.Exporter

	// RED metrics for the message endpoint
	httpRequestsTotal    metric.Int64Counter
	httpRequestDuration  metric.Float64Histogram
	httpRequestsInFlight metric.Int64UpDownCounter

	// Business metrics
	notificationsShown      metric.Int64Counter
	notificationsSuppressed metric.Int64Counter
	notificationClicks      metric.Int64Counter
	deltasInFlight          metric.Int64UpDownCounter
	bridgeOperationsTotal   metric.Int64Counter
	bridgeErrors            metric.Int64Counter
	dbOperationsTotal       metric.Int64Counter

	// System health
	memoryUsage    metric.Int64Gauge
	goroutineCount metric.Int64Gauge
	systemUptime   metric.Float64Gauge
}

// Config holds telemetry configuration.
type Config struct {
	Enabled        bool
	ServiceName    string
	ServiceVersion string
	OTLPEndpoint   string
}

// New creates a new telemetry instance.
func New(ctx context.Context, cfg Config) (*Telemetry, error) {
	if !cfg.Enabled {
		return &Telemetry{}, nil
	}

	exporter, err := prometheus.New()
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	opts := []sdkmetric.Option{sdkmetric.WithReader(exporter)}

	// Optional push path next to the pull endpoint.
	if cfg.OTLPEndpoint != "" {
		otlpExporter, err := otlpmetricgrpc.New(ctx,
			otlpmetricgrpc.WithEndpoint(cfg.OTLPEndpoint),
			otlpmetricgrpc.WithInsecure(),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create otlp exporter: %w", err)
		}

		opts = append(opts, sdkmetric.WithReader(sdkmetric.NewPeriodicReader(otlpExporter)))
	}

	meterProvider := sdkmetric.NewMeterProvider(opts...)
	otel.SetMeterProvider(meterProvider)

	if err := otelruntime.Start(otelruntime.WithMeterProvider(meterProvider)); err != nil {
		return nil, fmt.Errorf("failed to start runtime instrumentation: %w", err)
	}

	t := &Telemetry{
		meterProvider: meterProvider,
		tracer:        otel.Tracer(cfg.ServiceName),
		meter:         otel.Meter(cfg.ServiceName),
		exporter:      exporter,
	}

	if err := t.initializeMetrics(); err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}

	go t.collectSystemMetrics(ctx)

	return t, nil
}

// Tracer returns the OpenTelemetry tracer. When telemetry is disabled it
// falls back to the global (noop) tracer so callers never hold a nil.
func (t *Telemetry) Tracer() trace.Tracer {
	if t == nil || t.tracer == nil {
		return otel.Tracer("downwatch")
	}

	return t.tracer
}

// RecordHTTPRequest records message endpoint request metrics.
func (t *Telemetry) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("path", path),
		attribute.String("status", status),
	)

	if t.httpRequestsTotal != nil {
		t.httpRequestsTotal.Add(context.Background(), 1, attrs)
	}

	if t.httpRequestDuration != nil {
		t.httpRequestDuration.Record(context.Background(), duration.Seconds(), attrs)
	}
}

// IncrementHTTPInFlight increments in-flight HTTP requests.
func (t *Telemetry) IncrementHTTPInFlight() {
	if t.httpRequestsInFlight != nil {
		t.httpRequestsInFlight.Add(context.Background(), 1)
	}
}

// DecrementHTTPInFlight decrements in-flight HTTP requests.
func (t *Telemetry) DecrementHTTPInFlight() {
	if t.httpRequestsInFlight != nil {
		t.httpRequestsInFlight.Add(context.Background(), -1)
	}
}

// RecordNotificationShown counts a displayed notification by kind.
func (t *Telemetry) RecordNotificationShown(kind string) {
	if t != nil && t.notificationsShown != nil {
		t.notificationsShown.Add(context.Background(), 1,
			metric.WithAttributes(attribute.String("kind", kind)),
		)
	}
}

// RecordNotificationSuppressed counts a delta that produced no notification.
func (t *Telemetry) RecordNotificationSuppressed(reason string) {
	if t != nil && t.notificationsSuppressed != nil {
		t.notificationsSuppressed.Add(context.Background(), 1,
			metric.WithAttributes(attribute.String("reason", reason)),
		)
	}
}

// RecordNotificationClick counts a notification click by outcome.
func (t *Telemetry) RecordNotificationClick(outcome string) {
	if t != nil && t.notificationClicks != nil {
		t.notificationClicks.Add(context.Background(), 1,
			metric.WithAttributes(attribute.String("outcome", outcome)),
		)
	}
}

// IncrementDeltasInFlight increments deltas waiting in or past debounce.
func (t *Telemetry) IncrementDeltasInFlight() {
	if t != nil && t.deltasInFlight != nil {
		t.deltasInFlight.Add(context.Background(), 1)
	}
}

// DecrementDeltasInFlight decrements deltas in flight.
func (t *Telemetry) DecrementDeltasInFlight() {
	if t != nil && t.deltasInFlight != nil {
		t.deltasInFlight.Add(context.Background(), -1)
	}
}

// RecordBridgeOperation records a bridge RPC by method and status.
func (t *Telemetry) RecordBridgeOperation(method, status string) {
	if t == nil {
		return
	}

	if t.bridgeOperationsTotal != nil {
		t.bridgeOperationsTotal.Add(context.Background(), 1,
			metric.WithAttributes(
				attribute.String("method", method),
				attribute.String("status", status),
			),
		)
	}

	if status == "error" && t.bridgeErrors != nil {
		t.bridgeErrors.Add(context.Background(), 1,
			metric.WithAttributes(attribute.String("method", method)),
		)
	}
}

// RecordDBOperation records a settings storage operation.
func (t *Telemetry) RecordDBOperation(operation, status string) {
	if t != nil && t.dbOperationsTotal != nil {
		t.dbOperationsTotal.Add(context.Background(), 1,
			metric.WithAttributes(
				attribute.String("operation", operation),
				attribute.String("status", status),
			),
		)
	}
}

// Handler returns the HTTP handler for the metrics endpoint.
func (t *Telemetry) Handler() http.Handler {
	if t.exporter == nil {
		return http.NotFoundHandler()
	}

	return promhttp.Handler()
}

// Shutdown gracefully shuts down the telemetry system.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	if mp, ok := t.meterProvider.(*sdkmetric.MeterProvider); ok {
		return mp.Shutdown(ctx)
	}

	return nil
}

func (t *Telemetry) initializeMetrics() error {
	var err error

	t.httpRequestsTotal, err = t.meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create http_requests_total counter: %w", err)
	}

	t.httpRequestDuration, err = t.meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return fmt.Errorf("failed to create http_request_duration histogram: %w", err)
	}

	t.httpRequestsInFlight, err = t.meter.Int64UpDownCounter(
		"http_requests_in_flight",
		metric.WithDescription("Number of HTTP requests currently being processed"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create http_requests_in_flight counter: %w", err)
	}

	t.notificationsShown, err = t.meter.Int64Counter(
		"notifications_shown_total",
		metric.WithDescription("Total number of notifications displayed"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create notifications_shown counter: %w", err)
	}

	t.notificationsSuppressed, err = t.meter.Int64Counter(
		"notifications_suppressed_total",
		metric.WithDescription("Total number of deltas that produced no notification"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create notifications_suppressed counter: %w", err)
	}

	t.notificationClicks, err = t.meter.Int64Counter(
		"notification_clicks_total",
		metric.WithDescription("Total number of notification clicks"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create notification_clicks counter: %w", err)
	}

	t.deltasInFlight, err = t.meter.Int64UpDownCounter(
		"deltas_in_flight",
		metric.WithDescription("Number of lifecycle deltas debouncing or processing"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create deltas_in_flight counter: %w", err)
	}

	t.bridgeOperationsTotal, err = t.meter.Int64Counter(
		"bridge_operations_total",
		metric.WithDescription("Total number of browser bridge RPCs"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create bridge_operations_total counter: %w", err)
	}

	t.bridgeErrors, err = t.meter.Int64Counter(
		"bridge_errors_total",
		metric.WithDescription("Total number of browser bridge RPC failures"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create bridge_errors counter: %w", err)
	}

	t.dbOperationsTotal, err = t.meter.Int64Counter(
		"db_operations_total",
		metric.WithDescription("Total number of settings storage operations"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create db_operations_total counter: %w", err)
	}

	t.memoryUsage, err = t.meter.Int64Gauge(
		"memory_usage_bytes",
		metric.WithDescription("Memory usage in bytes"),
		metric.WithUnit("bytes"),
	)
	if err != nil {
		return fmt.Errorf("failed to create memory_usage gauge: %w", err)
	}

	t.goroutineCount, err = t.meter.Int64Gauge(
		"goroutine_count",
		metric.WithDescription("Number of goroutines"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create goroutine_count gauge: %w", err)
	}

	t.systemUptime, err = t.meter.Float64Gauge(
		"system_uptime_seconds",
		metric.WithDescription("System uptime in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return fmt.Errorf("failed to create system_uptime gauge: %w", err)
	}

	return nil
}

// collectSystemMetrics collects system-level metrics periodically.
func (t *Telemetry) collectSystemMetrics(ctx context.Context) {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()

	startTime := time.Now()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.updateSystemMetrics(startTime)
		}
	}
}

func (t *Telemetry) updateSystemMetrics(startTime time.Time) {
	var m runtime.MemStats

	runtime.ReadMemStats(&m)

	if t.memoryUsage != nil {
		t.memoryUsage.Record(context.Background(), int64(m.Alloc))
	}

	if t.goroutineCount != nil {
		t.goroutineCount.Record(context.Background(), int64(runtime.NumGoroutine()))
	}

	if t.systemUptime != nil {
		t.systemUptime.Record(context.Background(), time.Since(startTime).Seconds())
	}
}

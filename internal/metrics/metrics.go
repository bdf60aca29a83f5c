// Package metrics wires the OpenTelemetry meter to a Prometheus exporter and
// provides the HTTP middleware that records request counts and latency.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	export "go.opentelemetry.io/otel/sdk/export/metric"
	"go.opentelemetry.io/otel/sdk/metric/aggregator/histogram"
	controller "go.opentelemetry.io/otel/sdk/metric/controller/basic"
	processor "go.opentelemetry.io/otel/sdk/metric/processor/basic"
	selector "go.opentelemetry.io/otel/sdk/metric/selector/simple"
)

var (
	methodKey = attribute.Key("http.method")
	routeKey  = attribute.Key("http.route")
	statusKey = attribute.Key("http.status_code")
)

// NewExporter builds a pull-based Prometheus exporter. Serve it with
// exporter.ServeHTTP.
func NewExporter() (*prometheus.Exporter, error) {
	config := prometheus.Config{}
	c := controller.New(
		processor.New(
			selector.NewWithHistogramDistribution(
				histogram.WithExplicitBoundaries(config.DefaultHistogramBoundaries),
			),
			export.CumulativeExportKindSelector(),
			processor.WithMemory(true),
		),
	)

	return prometheus.New(config, c)
}

// HTTP holds the request instruments.
type HTTP struct {
	completed metric.Int64Counter
	latency   metric.Float64ValueRecorder
}

func NewHTTP(meter metric.Meter) (*HTTP, error) {
	completed, err := meter.NewInt64Counter(
		"http/server/completed_count",
		metric.WithDescription("Count of completed requests, by HTTP method, route and response status"),
	)
	if err != nil {
		return nil, err
	}

	latency, err := meter.NewFloat64ValueRecorder(
		"http/server/latency_ms",
		metric.WithDescription("Request latency in milliseconds, by HTTP method and route"),
	)
	if err != nil {
		return nil, err
	}

	return &HTTP{completed: completed, latency: latency}, nil
}

// Middleware records one completed request per call, labelled with the
// matched chi route pattern rather than the raw path.
func (m *HTTP) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}

		labels := []attribute.KeyValue{
			methodKey.String(r.Method),
			routeKey.String(route),
			statusKey.String(strconv.Itoa(status)),
		}

		m.completed.Add(r.Context(), 1, labels...)
		m.latency.Record(r.Context(), float64(time.Since(start).Microseconds())/1000, labels[:2]...)
	})
}

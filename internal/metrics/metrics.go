// Package metrics exports request and article operation counters to
// Prometheus.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/global"
	export "go.opentelemetry.io/otel/sdk/export/metric"
	"go.opentelemetry.io/otel/sdk/metric/aggregator/histogram"
	controller "go.opentelemetry.io/otel/sdk/metric/controller/basic"
	processor "go.opentelemetry.io/otel/sdk/metric/processor/basic"
	selector "go.opentelemetry.io/otel/sdk/metric/selector/simple"

	"github.com/SergeyParamoshkin/blog/internal/article"
)

var (
	methodKey    = attribute.Key("http.method")
	routeKey     = attribute.Key("http.route")
	statusKey    = attribute.Key("http.status_code")
	operationKey = attribute.Key("article.operation")
	outcomeKey   = attribute.Key("article.outcome")
)

// Recorder records metrics. A nil *Recorder records nothing.
type Recorder struct {
	completed  metric.Int64Counter
	duration   metric.Float64ValueRecorder
	operations metric.Int64Counter
}

// New installs a Prometheus exporter as the global meter provider. The
// returned exporter serves the scrape endpoint.
func New(serviceName string) (*Recorder, *prometheus.Exporter, error) {
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
	exporter, err := prometheus.New(config, c)
	if err != nil {
		return nil, nil, err
	}
	global.SetMeterProvider(exporter.MeterProvider())

	return NewRecorder(global.Meter(serviceName)), exporter, nil
}

func NewRecorder(meter metric.Meter) *Recorder {
	m := metric.Must(meter)

	return &Recorder{
		completed: m.NewInt64Counter(
			"http/server/completed_count",
			metric.WithDescription("Count of completed requests, by HTTP method, route and response status"),
		),
		duration: m.NewFloat64ValueRecorder(
			"http/server/duration_seconds",
			metric.WithDescription("Request latency, by HTTP method and route"),
		),
		operations: m.NewInt64Counter(
			"articles/operations",
			metric.WithDescription("Article operations, by operation and outcome"),
		),
	}
}

// Middleware counts completed requests. It must be mounted on a chi router so
// the route pattern is known once the request has been routed.
func (rec *Recorder) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rec == nil {
			next.ServeHTTP(w, r)

			return
		}
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := ""
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		rec.completed.Add(r.Context(), 1,
			methodKey.String(r.Method),
			routeKey.String(route),
			statusKey.String(strconv.Itoa(status)),
		)
		rec.duration.Record(r.Context(), time.Since(start).Seconds(),
			methodKey.String(r.Method),
			routeKey.String(route),
		)
	})
}

// Operation counts one article operation by its outcome.
func (rec *Recorder) Operation(ctx context.Context, op string, err error) {
	if rec == nil {
		return
	}
	rec.operations.Add(ctx, 1, operationKey.String(op), outcomeKey.String(Outcome(err)))
}

// Outcome names the result of an article operation.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, article.ErrUnauthenticated):
		return "unauthenticated"
	case errors.Is(err, article.ErrNotFound):
		return "not_found"
	case errors.Is(err, article.ErrForbidden):
		return "forbidden"
	case errors.Is(err, article.ErrInvalid):
		return "invalid"
	default:
		return "error"
	}
}

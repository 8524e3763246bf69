package filter

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/cleanviews/cleanviews/pkg/views"
)

const defaultTracerName = "cleanviews"

// TracingConfig configures the OpenTelemetry decision observer.
type TracingConfig struct {
	// TracerName is the name of the tracer (default: "cleanviews").
	TracerName string

	// Filter determines which request paths to trace. Return true to trace
	// the decision, false to skip. If nil, every decision is traced.
	Filter func(path string) bool

	// tracer is the resolved tracer instance.
	tracer trace.Tracer
}

// TracingOption configures the OpenTelemetry decision observer.
type TracingOption func(*TracingConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) TracingOption {
	return func(c *TracingConfig) {
		c.TracerName = name
	}
}

// WithPathFilter sets a filter function for request paths.
func WithPathFilter(filter func(path string) bool) TracingOption {
	return func(c *TracingConfig) {
		c.Filter = filter
	}
}

// otelObserver records routing decisions as OpenTelemetry spans.
type otelObserver struct {
	config TracingConfig
}

// ObserveResolution implements Observer. The span is backdated so that its
// duration matches the measured resolution time.
func (o *otelObserver) ObserveResolution(path string, d views.Decision, elapsed time.Duration) {
	if o.config.Filter != nil && !o.config.Filter(path) {
		return
	}

	end := time.Now()
	attrs := []attribute.KeyValue{
		attribute.String("cleanviews.path", path),
		attribute.String("cleanviews.action", d.Action.String()),
	}
	if d.Target != "" {
		attrs = append(attrs, attribute.String("cleanviews.target", d.Target))
	}
	if d.Action == views.Forward {
		attrs = append(attrs, attribute.Int("cleanviews.path_params", len(d.PathParams)))
	}

	_, span := o.config.tracer.Start(
		context.Background(),
		"cleanviews.resolve",
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(attrs...),
		trace.WithTimestamp(end.Add(-elapsed)),
	)

	if d.Action == views.NotFound {
		span.SetStatus(codes.Error, "no view matched the request path")
	} else {
		span.SetStatus(codes.Ok, "")
	}

	span.End(trace.WithTimestamp(end))
}

// Tracing creates an Observer that emits an OpenTelemetry span per routing
// decision, carrying the request path, the action taken, the forward or
// redirect target, and the MultiViews path parameter count.
//
// The tracer uses the global OpenTelemetry tracer provider. Configure it in
// your main() before starting the server:
//
//	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
//	otel.SetTracerProvider(tp)
func Tracing(opts ...TracingOption) Observer {
	config := TracingConfig{TracerName: defaultTracerName}
	for _, opt := range opts {
		opt(&config)
	}
	config.tracer = otel.Tracer(config.TracerName)

	return &otelObserver{config: config}
}

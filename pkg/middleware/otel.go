package middleware

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/crmnav/pkg/router"
)

// Default tracer name for navigation spans.
const defaultTracerName = "crmnav"

// OTelConfig configures the OpenTelemetry middleware.
type OTelConfig struct {
	// TracerName is the name of the tracer (default: "crmnav").
	TracerName string

	// TracerProvider supplies the tracer. Default: the global provider.
	TracerProvider trace.TracerProvider

	// IncludeQuery adds the query string to spans. Queries may carry
	// user data, so it is disabled by default.
	IncludeQuery bool

	// Filter determines which transitions to trace.
	// If nil, all transitions are traced.
	Filter func(t *router.Transition) bool

	// AttributeExtractor adds custom attributes for each traced transition.
	AttributeExtractor func(t *router.Transition) []attribute.KeyValue

	tracer trace.Tracer
}

// OTelOption configures the OpenTelemetry middleware.
type OTelOption func(*OTelConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) OTelOption {
	return func(c *OTelConfig) {
		c.TracerName = name
	}
}

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(tp trace.TracerProvider) OTelOption {
	return func(c *OTelConfig) {
		c.TracerProvider = tp
	}
}

// WithIncludeQuery enables including the query string in spans.
func WithIncludeQuery(include bool) OTelOption {
	return func(c *OTelConfig) {
		c.IncludeQuery = include
	}
}

// WithTransitionFilter sets a filter function for transitions.
func WithTransitionFilter(filter func(t *router.Transition) bool) OTelOption {
	return func(c *OTelConfig) {
		c.Filter = filter
	}
}

// WithAttributeExtractor sets a custom attribute extractor.
func WithAttributeExtractor(extractor func(t *router.Transition) []attribute.KeyValue) OTelOption {
	return func(c *OTelConfig) {
		c.AttributeExtractor = extractor
	}
}

func defaultOTelConfig() OTelConfig {
	return OTelConfig{
		TracerName: defaultTracerName,
	}
}

// OpenTelemetry creates middleware that traces every navigation.
//
// The middleware:
//   - Creates a span per transition with route name, path and mode
//   - Stores the span context on the transition for later middleware
//   - Records errors and sets span status
//   - Marks cancelled navigations
//
// The tracer comes from the global OpenTelemetry tracer provider unless
// WithTracerProvider is given.
func OpenTelemetry(opts ...OTelOption) router.Middleware {
	config := defaultOTelConfig()
	for _, opt := range opts {
		opt(&config)
	}

	if config.TracerProvider != nil {
		config.tracer = config.TracerProvider.Tracer(config.TracerName)
	} else {
		config.tracer = otel.Tracer(config.TracerName)
	}

	return router.MiddlewareFunc(func(ctx context.Context, t *router.Transition, next func() error) error {
		if config.Filter != nil && !config.Filter(t) {
			return next()
		}

		attrs := []attribute.KeyValue{
			attribute.String("crmnav.mode", t.Mode),
		}
		if t.To != nil {
			attrs = append(attrs,
				attribute.String("crmnav.route", t.To.Record.Name),
				attribute.String("crmnav.path", t.To.Path),
				attribute.String("crmnav.view", router.ViewName(t.To.Record.View)),
			)
			if config.IncludeQuery && t.To.Query != "" {
				attrs = append(attrs, attribute.String("crmnav.query", t.To.Query))
			}
		}
		if t.From != nil {
			attrs = append(attrs, attribute.String("crmnav.from", t.From.Record.Name))
		}
		if config.AttributeExtractor != nil {
			attrs = append(attrs, config.AttributeExtractor(t)...)
		}

		spanCtx, span := config.tracer.Start(
			ctx,
			formatSpanName(t),
			trace.WithSpanKind(trace.SpanKindInternal),
			trace.WithAttributes(attrs...),
			trace.WithTimestamp(time.Now()),
		)
		defer span.End()

		t.SetValue(spanContextKey{}, spanCtx)

		err := next()

		switch {
		case err != nil:
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		case !t.Committed():
			span.SetAttributes(attribute.Bool("crmnav.cancelled", true))
			span.SetStatus(codes.Ok, "")
		default:
			span.SetStatus(codes.Ok, "")
		}
		return err
	})
}

type spanContextKey struct{}

// SpanFromTransition returns the navigation span started by the
// OpenTelemetry middleware, or nil when the transition is not traced.
func SpanFromTransition(t *router.Transition) trace.Span {
	if spanCtx, ok := t.Value(spanContextKey{}).(context.Context); ok {
		return trace.SpanFromContext(spanCtx)
	}
	return nil
}

// TraceContext returns the context carrying the navigation span, or
// parent when the transition is not traced. Use it to propagate the trace
// to downstream calls from later middleware.
func TraceContext(parent context.Context, t *router.Transition) context.Context {
	if spanCtx, ok := t.Value(spanContextKey{}).(context.Context); ok {
		return spanCtx
	}
	return parent
}

func formatSpanName(t *router.Transition) string {
	path := "/"
	if t.To != nil && t.To.Path != "" {
		path = t.To.Path
	}
	return fmt.Sprintf("navigate %s", path)
}

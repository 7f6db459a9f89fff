// Package middleware provides observability middleware for navigation.
//
// Both middlewares implement router.Middleware and wrap every transition
// a navigation controller performs.
//
// # OpenTelemetry
//
// OpenTelemetry starts a span per transition carrying the route name,
// path, view and history mode:
//
//	c, err := routes.Build(routes.Options{
//	    Middleware: []router.Middleware{
//	        middleware.OpenTelemetry(middleware.WithTracerName("crm")),
//	    },
//	})
//
// Later middleware reach the span with SpanFromTransition.
//
// # Prometheus Metrics
//
// Prometheus registers the navigation metrics and returns a *Metrics that
// is itself the middleware. The HTTP server reports page misses and live
// connections through the same value:
//
//	metrics := middleware.Prometheus(middleware.WithRegistry(reg))
//	metrics.RecordNotFound()
//
// Expose the registry with promhttp.
package middleware

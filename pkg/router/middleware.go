package router

import "context"

// ComposeMiddleware builds a chain from middleware and a final handler.
// Middleware is executed in order (first to last), with the handler at the end.
func ComposeMiddleware(ctx context.Context, t *Transition, mw []Middleware, handler func() error) error {
	if len(mw) == 0 {
		return handler()
	}

	chain := handler
	for i := len(mw) - 1; i >= 0; i-- {
		m := mw[i]
		next := chain
		chain = func() error {
			return m.Handle(ctx, t, next)
		}
	}

	return chain()
}

// Chain creates a middleware that combines multiple middleware in order.
func Chain(middleware ...Middleware) Middleware {
	return MiddlewareFunc(func(ctx context.Context, t *Transition, next func() error) error {
		return ComposeMiddleware(ctx, t, middleware, next)
	})
}

// Skip bypasses mw when condition is true.
func Skip(condition func(t *Transition) bool, mw Middleware) Middleware {
	return MiddlewareFunc(func(ctx context.Context, t *Transition, next func() error) error {
		if condition(t) {
			return next()
		}
		return mw.Handle(ctx, t, next)
	})
}

// Only runs mw only when condition is true.
func Only(condition func(t *Transition) bool, mw Middleware) Middleware {
	return MiddlewareFunc(func(ctx context.Context, t *Transition, next func() error) error {
		if !condition(t) {
			return next()
		}
		return mw.Handle(ctx, t, next)
	})
}

// ForRoute is a condition matching transitions into the named route.
func ForRoute(name string) func(t *Transition) bool {
	return func(t *Transition) bool {
		return t.RouteName() == name
	}
}

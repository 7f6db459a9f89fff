// Package errors provides coded, actionable error messages for crmnav.
//
// Each error carries a stable code (e.g. "E201") that maps to a category,
// a short message and a longer explanation. Callers add detail, a hint and
// the underlying cause with the With* builders:
//
//	err := errors.New("E201").
//	    WithDetail("No route is declared for /unknown").
//	    WithSuggestion("Check the navigation table in pkg/routes")
//
//	fmt.Println(err.Format())
//
// # Code Ranges
//
//   - E1xx: configuration
//   - E2xx: routing and navigation
//   - E3xx: server and live connections
//   - E4xx: route manifest
package errors

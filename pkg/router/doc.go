// Package router implements the navigation table of a history-mode
// application: an ordered list of route records pairing literal URL paths
// and names with views.
//
// The router provides:
//   - Ordered, immutable route records (first match wins)
//   - Segment tree for literal path matching
//   - Name index for programmatic navigation
//   - Table validation (unique paths and names, bound views)
//   - Navigation middleware chains
//   - Link rendering for client-side interception
//
// # Usage
//
//	r, err := router.New(
//	    router.Record{Path: "/", Name: "Home", View: views.Home},
//	    router.Record{Path: "/contacts", Name: "Contacts", View: views.Contact},
//	)
//	if err != nil {
//	    return err
//	}
//
//	result, ok := r.Match("/contacts")
//	if ok {
//	    // result.Record.Name == "Contacts"
//	}
//
//	path, _ := r.PathFor("Contacts") // "/contacts"
package router

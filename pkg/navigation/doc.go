// Package navigation binds a route table to a web history: it is the
// navigation controller an application mounts at its root.
//
// A Controller resolves targets (by path or by route name), runs the
// navigation middleware chain, updates the history and notifies
// AfterEach hooks. It holds no global state; construct one per page
// (or per live connection, via Clone) and pass it where it is needed.
//
//	r := router.MustNew(records...)
//	c := navigation.New(r, history.NewWebHistory("/crm/"))
//
//	loc, err := c.Push(ctx, navigation.Named("Contacts"))
//	// loc.Href == "/crm/contacts"
package navigation

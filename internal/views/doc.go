// Package views holds the five CRM screens reachable from the navigation
// map: Home, HelloWorld (the Leads screen), Contact, Notes and Reminders.
//
// The screens are placeholders. Each renders an HTML fragment into the
// layout's outlet; the fragment is what the live client swaps in after a
// navigation. Screens are stateless and safe for concurrent use.
package views

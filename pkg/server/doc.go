// Package server serves the navigation map over HTTP in history mode.
//
// Every route URL under the base path is rendered on the server inside a
// shared layout. The layout loads a thin client that intercepts clicks on
// data-link anchors and browser popstate events, and forwards them over a
// WebSocket. The server resolves the location through a per-connection
// navigation controller and replies with the rendered view and the history
// operation the client must apply.
//
// Endpoints, relative to the base path:
//
//	GET  /*                 server-rendered route, 404 page when undeclared
//	GET  /_nav/ws           live navigation WebSocket
//	GET  /_nav/client.js    thin client (ETag revalidated)
//	GET  /_nav/routes.json  route manifest
//
// and, at the site root, /healthz and the Prometheus metrics path.
//
// # Live navigation frames
//
// Client to server:
//
//	{"type":"navigate","path":"/crm/notes","replace":false}
//	{"type":"popstate","path":"/crm/leads"}
//
// Server to client:
//
//	{"type":"render","name":"Notes","path":"/notes","href":"/crm/notes","html":"...","mode":"push"}
//	{"type":"error","code":"E201","message":"No route matches path","href":"/crm/nope"}
//
// Paths sent by the client are full URL paths including the base.
package server

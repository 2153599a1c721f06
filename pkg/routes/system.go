package routes

import "net/http"

// System collects standalone routes and groups and builds them into a handler.
type System interface {
	RegisterGroup(group Group)
	RegisterRoute(route Route)

	// Build returns a handler serving every registered route.
	Build() http.Handler

	Groups() []Group
	Routes() []Route
}

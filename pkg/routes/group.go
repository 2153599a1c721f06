package routes

// Group is a set of routes sharing a URL prefix. Children nest under the
// parent's prefix; Tags label the group's operations in the API document.
type Group struct {
	Prefix      string
	Tags        []string
	Description string
	Routes      []Route
	Children    []Group
}

// Walk calls fn for every route in g and its children with the route's full
// pattern, parent + prefixes + route pattern, and the group that declares it.
func (g Group) Walk(parent string, fn func(pattern string, group Group, route Route)) {
	prefix := parent + g.Prefix
	for _, route := range g.Routes {
		fn(prefix+route.Pattern, g, route)
	}
	for _, child := range g.Children {
		child.Walk(prefix, fn)
	}
}

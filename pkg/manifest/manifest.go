// Package manifest defines the compiled route manifest consumed by the
// dispatch engine.
//
// A build step emits a routes.json file into the distribution folder,
// mapping URL patterns to page bodies and API handler references:
//
//	{
//	  "html":     [{"page": "/about", "file": "pages/about.html", "pattern": "^/about$"}],
//	  "api":      [{"file": "users/[id]", "pattern": "^/api/users/(?P<p0>[^/]+)$", "routeKeys": {"p0": "id"}}],
//	  "notFound": [{"page": "/404", "file": "pages/404.html", "pattern": "^/.*$"}]
//	}
//
// This package loads that file, compiles the patterns, and holds the result
// in memory. Within each category, declaration order is match priority:
// the engine always dispatches the first route whose pattern matches.
package manifest

import "regexp"

// Route is one compiled entry in the manifest. It pairs a path pattern with
// a content or handler reference.
type Route struct {
	// Page is the logical identifier for HTML and not-found routes.
	// Empty for pure API routes.
	Page string

	// File references the externally resolvable content or handler.
	// Its meaning is owned by the content source that resolves it.
	File string

	// Pattern is the compiled path pattern. Patterns are anchored: a route
	// matches a path only when the pattern covers it entirely.
	Pattern *regexp.Regexp

	// RouteKeys maps a capture group's internal name to its public
	// parameter name. Every named group in Pattern has an entry here;
	// Load enforces this at construction time.
	RouteKeys map[string]string
}

// Manifest is the ordered, three-way partitioned route table.
//
// The slices are fixed at construction and never reordered or mutated in
// place; a manifest is only ever replaced wholesale. Concurrent readers
// need no locking.
type Manifest struct {
	// HTML holds static and server-rendered page routes.
	HTML []*Route

	// API holds programmatic endpoint routes.
	API []*Route

	// NotFound holds custom 404 page routes.
	NotFound []*Route
}

// Len returns the total number of routes across all categories.
func (m *Manifest) Len() int {
	return len(m.HTML) + len(m.API) + len(m.NotFound)
}

// ID returns the identifier used to resolve a route's handler or content.
// HTML and not-found routes are identified by Page, pure API routes by File.
func (r *Route) ID() string {
	if r.Page != "" {
		return r.Page
	}
	return r.File
}

package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
)

// FileName is the manifest file name inside a distribution folder.
const FileName = "routes.json"

// routeJSON is the wire form of a single route entry.
type routeJSON struct {
	Page      string            `json:"page,omitempty"`
	File      string            `json:"file"`
	Pattern   string            `json:"pattern"`
	RouteKeys map[string]string `json:"routeKeys,omitempty"`
}

// manifestJSON is the wire form of routes.json.
type manifestJSON struct {
	HTML     []routeJSON `json:"html,omitempty"`
	API      []routeJSON `json:"api,omitempty"`
	NotFound []routeJSON `json:"notFound,omitempty"`
}

// Load reads and compiles <root>/routes.json.
//
// Declaration order within each category is preserved. Load validates the
// routeKeys invariant: every named capture group in a pattern must have a
// routeKeys entry and vice versa. A violation is a construction defect and
// fails the load; it is never surfaced as a runtime error during matching.
func Load(root string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(root, FileName))
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse compiles a manifest from raw routes.json bytes.
func Parse(data []byte) (*Manifest, error) {
	var raw manifestJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("manifest: parse routes: %w", err)
	}

	m := &Manifest{}
	var err error
	if m.HTML, err = compileRoutes("html", raw.HTML); err != nil {
		return nil, err
	}
	if m.API, err = compileRoutes("api", raw.API); err != nil {
		return nil, err
	}
	if m.NotFound, err = compileRoutes("notFound", raw.NotFound); err != nil {
		return nil, err
	}
	return m, nil
}

func compileRoutes(category string, raw []routeJSON) ([]*Route, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	routes := make([]*Route, 0, len(raw))
	for i, entry := range raw {
		pattern, err := regexp.Compile(entry.Pattern)
		if err != nil {
			return nil, fmt.Errorf("manifest: %s[%d]: compile pattern %q: %w", category, i, entry.Pattern, err)
		}

		route := &Route{
			Page:      entry.Page,
			File:      entry.File,
			Pattern:   pattern,
			RouteKeys: entry.RouteKeys,
		}
		if err := checkRouteKeys(route); err != nil {
			return nil, fmt.Errorf("manifest: %s[%d]: %w", category, i, err)
		}
		routes = append(routes, route)
	}
	return routes, nil
}

// checkRouteKeys verifies that the pattern's named groups and the routeKeys
// mapping agree exactly.
func checkRouteKeys(r *Route) error {
	named := make(map[string]bool)
	for _, name := range r.Pattern.SubexpNames() {
		if name != "" {
			named[name] = true
		}
	}

	for _, name := range sortedNames(named) {
		if _, ok := r.RouteKeys[name]; !ok {
			return fmt.Errorf("capture group %q has no routeKeys entry", name)
		}
	}
	for key := range r.RouteKeys {
		if !named[key] {
			return fmt.Errorf("routeKeys entry %q has no capture group", key)
		}
	}
	return nil
}

func sortedNames(set map[string]bool) []string {
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	// Deterministic error messages regardless of map iteration order.
	sort.Strings(names)
	return names
}

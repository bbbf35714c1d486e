package dispatch

import "regexp"

// Match tests path against a compiled route pattern.
//
// On success it returns the named captures as a map from internal capture
// name to matched substring. Optional groups that did not participate in
// the match are omitted, not present as empty strings. A pattern matches
// only when it covers the full path; a partial match is no match.
//
// Match is pure: no side effects, no short-circuiting on partial ordering.
func Match(pattern *regexp.Regexp, path string) (map[string]string, bool) {
	idx := pattern.FindStringSubmatchIndex(path)
	if idx == nil {
		return nil, false
	}
	if idx[0] != 0 || idx[1] != len(path) {
		return nil, false
	}

	captures := make(map[string]string)
	for i, name := range pattern.SubexpNames() {
		if name == "" {
			continue
		}
		// A -1 start index means the group did not participate.
		if start := idx[2*i]; start >= 0 {
			captures[name] = path[start:idx[2*i+1]]
		}
	}
	return captures, true
}

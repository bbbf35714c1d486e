package dispatch

import (
	"net/url"

	"github.com/edgekit-dev/edgekit/pkg/manifest"
)

// Augment merges a matched route's captures into the request and returns
// the public parameter mapping.
//
// For each routeKeys entry whose capture is present, the value is set into
// the request's query view under the public name, overwriting any existing
// value, and recorded in the returned Params. The request's URL facet is
// then rebuilt to reflect the updated parameters. This is the only place
// the engine mutates shared request state, and it runs before any handler
// is invoked, so handlers in every route category see fully resolved
// parameters.
func Augment(req *Request, route *manifest.Route) Params {
	captures, ok := Match(route.Pattern, req.Path())
	if !ok {
		captures = nil
	}

	params := Params{}
	for internal, public := range route.RouteKeys {
		value, present := captures[internal]
		if !present {
			continue
		}
		req.Query.Set(public, value)
		params[public] = value
	}

	req.URL = parsedURL(req)
	return params
}

// parsedURL builds the parsed-URL facet from the raw URL and the current
// query view.
func parsedURL(req *Request) *url.URL {
	u, err := url.Parse(req.RawURL)
	if err != nil {
		u = &url.URL{Path: req.RawURL}
	}
	u.RawQuery = req.Query.Encode()
	return u
}

package dispatch

import (
	"net/http"
	"net/url"
)

// Request is the parsed request abstraction the engine operates on.
//
// A Request is exclusively owned by a single dispatch call. The engine
// mutates it in place during augmentation: extracted route parameters are
// merged into Query, and URL is set to the parsed facet reflecting them.
// There is no cross-request sharing of request state.
type Request struct {
	// Method is the transport-level method token (GET, POST, ...).
	Method string

	// RawURL is the request URL as received, absolute or relative.
	RawURL string

	// Query is the mutable query-parameter view. Augmentation overwrites
	// entries whose names collide with extracted route parameters.
	Query url.Values

	// URL is the parsed-URL facet. It is owned by the dispatcher and set
	// exactly once, during augmentation; handlers see it fully resolved.
	URL *url.URL
}

// NewRequest builds a Request from a method and raw URL. The query view is
// seeded from the URL's query string; an unparseable URL yields an empty
// view.
func NewRequest(method, rawURL string) *Request {
	req := &Request{
		Method: method,
		RawURL: rawURL,
		Query:  url.Values{},
	}
	if u, err := url.Parse(rawURL); err == nil {
		req.Query = u.Query()
	}
	return req
}

// FromHTTP builds a Request from a net/http request.
func FromHTTP(r *http.Request) *Request {
	return &Request{
		Method: r.Method,
		RawURL: r.URL.RequestURI(),
		Query:  r.URL.Query(),
	}
}

// Path returns the normalized request path with scheme, host, and query
// stripped. Matching operates on this value.
func (r *Request) Path() string {
	u, err := url.Parse(r.RawURL)
	if err != nil {
		return r.RawURL
	}
	if u.Path == "" {
		return "/"
	}
	return u.Path
}

// Params maps public parameter names to their extracted values for one
// matched request. It is discarded after dispatch.
type Params map[string]string

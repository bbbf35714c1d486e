package dispatch

import (
	"context"
	"sort"
)

// Method is a transport-level HTTP method token. Dispatch matches tokens
// case-sensitively, so only the canonical uppercase forms below ever match
// what a conforming transport delivers.
type Method string

// The closed set of verbs an Endpoint can carry handlers for.
const (
	MethodGet     Method = "GET"
	MethodHead    Method = "HEAD"
	MethodPost    Method = "POST"
	MethodPut     Method = "PUT"
	MethodPatch   Method = "PATCH"
	MethodDelete  Method = "DELETE"
	MethodOptions Method = "OPTIONS"
)

// HandlerFunc handles one API request. The request has been augmented, so
// Query and URL already reflect the extracted route parameters; params
// carries them under their public names.
//
// Returning an error (or panicking) yields a generic 500 and invokes the
// dispatcher's report hook; the error never reaches the response body.
type HandlerFunc func(ctx context.Context, req *Request, params Params) (*Response, error)

// Endpoint maps verbs to handlers for a single API route. The mapping is a
// closed enumeration: a verb either has a handler or the dispatch yields
// 405, with no fallback between verbs.
type Endpoint struct {
	handlers map[Method]HandlerFunc
}

// NewEndpoint creates an empty endpoint.
func NewEndpoint() *Endpoint {
	return &Endpoint{handlers: make(map[Method]HandlerFunc)}
}

// Handle registers a handler for a verb, replacing any previous one.
// It returns the endpoint for chaining:
//
//	dispatch.NewEndpoint().
//	    Handle(dispatch.MethodGet, getUser).
//	    Handle(dispatch.MethodDelete, deleteUser)
func (e *Endpoint) Handle(method Method, h HandlerFunc) *Endpoint {
	e.handlers[method] = h
	return e
}

// Get registers a GET handler.
func (e *Endpoint) Get(h HandlerFunc) *Endpoint { return e.Handle(MethodGet, h) }

// Post registers a POST handler.
func (e *Endpoint) Post(h HandlerFunc) *Endpoint { return e.Handle(MethodPost, h) }

// Put registers a PUT handler.
func (e *Endpoint) Put(h HandlerFunc) *Endpoint { return e.Handle(MethodPut, h) }

// Delete registers a DELETE handler.
func (e *Endpoint) Delete(h HandlerFunc) *Endpoint { return e.Handle(MethodDelete, h) }

// handler returns the handler for a method token, matched case-sensitively.
func (e *Endpoint) handler(method string) (HandlerFunc, bool) {
	if e == nil || e.handlers == nil {
		return nil, false
	}
	h, ok := e.handlers[Method(method)]
	return h, ok
}

// Methods returns the verbs that have handlers registered: canonical verbs
// in their fixed order first, then any other registered verbs in lexical
// order.
func (e *Endpoint) Methods() []Method {
	if e == nil {
		return nil
	}
	methods := make([]Method, 0, len(e.handlers))
	seen := make(map[Method]bool, len(e.handlers))
	for _, m := range []Method{MethodGet, MethodHead, MethodPost, MethodPut, MethodPatch, MethodDelete, MethodOptions} {
		if _, ok := e.handlers[m]; ok {
			methods = append(methods, m)
			seen[m] = true
		}
	}
	var extra []Method
	for m := range e.handlers {
		if !seen[m] {
			extra = append(extra, m)
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })
	return append(methods, extra...)
}

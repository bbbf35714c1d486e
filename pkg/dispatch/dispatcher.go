// Package dispatch implements the route-resolution-and-dispatch engine.
//
// The engine resolves a parsed request against a precompiled route manifest
// in three ordered categories (HTML pages, API endpoints, not-found pages),
// augments the request with extracted route parameters, and dispatches to
// the resolved content or handler. Every dispatch call returns exactly one
// terminal Response: handler failures are isolated, reported through an
// injected hook, and mapped to a generic 500 rather than propagated.
package dispatch

import (
	"context"
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/edgekit-dev/edgekit/pkg/manifest"
)

// Content is the result of resolving a static or not-found route. Exactly
// one field is set: Response passes a prebuilt response through verbatim,
// Body is wrapped in a synthesized text/html response.
type Content struct {
	Body     []byte
	Response *Response
}

// ContentSource resolves a matched HTML or not-found route to servable
// content. Returning nil means the declared artifact is missing and the
// dispatch yields 404.
type ContentSource interface {
	Content(ctx context.Context, req *Request, route *manifest.Route) *Content
}

// Resolution is the result of resolving an API route. Exactly one field is
// set: Response passes a prebuilt response through verbatim, Endpoint is
// dispatched by verb.
type Resolution struct {
	Endpoint *Endpoint
	Response *Response
}

// Registry resolves a matched API route to its endpoint. Returning nil
// means no handler artifact exists for the route and the dispatch yields
// 404.
type Registry interface {
	Endpoint(route *manifest.Route) *Resolution
}

// Config configures a Dispatcher.
type Config struct {
	// Root is the distribution folder passed to Load.
	Root string

	// Load acquires the manifest from the default source. It is invoked
	// lazily, at most logically once per process (concurrent first
	// requests may race to populate the cache redundantly, which is
	// benign: manifests are immutable and idempotent to reconstruct).
	// Defaults to manifest.Load.
	Load func(root string) (*manifest.Manifest, error)

	// Supplier, when set, acquires a manifest per request instead of using
	// Load. A nil result keeps the previously cached manifest; the cache
	// is only ever overwritten by a non-nil result. Useful in iterative
	// development workflows where the distribution changes underfoot.
	Supplier func(req *Request) *manifest.Manifest

	// Content resolves HTML and not-found routes.
	Content ContentSource

	// Registry resolves API routes.
	Registry Registry

	// Report receives handler faults, fire-and-forget. The dispatcher
	// shields itself against a panicking hook. Defaults to logging via
	// Logger.
	Report func(error)

	// Logger is used for ambient logging. Defaults to slog.Default().
	Logger *slog.Logger
}

// Dispatcher is the sole entry point of the engine. It is a pure
// orchestration layer over the manifest, matcher, augmenter, and content
// resolution capabilities. Safe for concurrent use; the manifest cache is
// the only shared state.
type Dispatcher struct {
	root     string
	load     func(string) (*manifest.Manifest, error)
	supplier func(*Request) *manifest.Manifest
	content  ContentSource
	registry Registry
	report   func(error)
	logger   *slog.Logger

	cache atomic.Pointer[manifest.Manifest]
}

// New creates a Dispatcher from the given configuration.
func New(cfg Config) *Dispatcher {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	d := &Dispatcher{
		root:     cfg.Root,
		load:     cfg.Load,
		supplier: cfg.Supplier,
		content:  cfg.Content,
		registry: cfg.Registry,
		report:   cfg.Report,
		logger:   logger,
	}
	if d.load == nil {
		d.load = manifest.Load
	}
	if d.report == nil {
		d.report = func(err error) {
			logger.Error("handler fault", "error", err)
		}
	}
	return d
}

// Dispatch resolves one request to exactly one terminal response.
//
// Stages run strictly in sequence: manifest acquisition, HTML matching
// (GET/HEAD only), API matching (all methods), not-found matching (any
// method), default 404. Within each category the first route in declared
// order whose pattern matches wins; there is no scoring or backtracking
// across categories, and no stage is revisited.
func (d *Dispatcher) Dispatch(ctx context.Context, req *Request) *Response {
	m := d.acquire(req)
	if m == nil {
		return plainText(http.StatusNotFound, "Not Found: no route manifest in distribution")
	}

	path := req.Path()

	if req.Method == http.MethodGet || req.Method == http.MethodHead {
		for _, route := range m.HTML {
			if _, ok := Match(route.Pattern, path); ok {
				return d.servePage(ctx, req, route, http.StatusOK)
			}
		}
	}

	for _, route := range m.API {
		if _, ok := Match(route.Pattern, path); ok {
			return d.serveAPI(ctx, req, route)
		}
	}

	for _, route := range m.NotFound {
		if _, ok := Match(route.Pattern, path); ok {
			return d.servePage(ctx, req, route, http.StatusNotFound)
		}
	}

	return plainText(http.StatusNotFound, "Not Found")
}

// acquire yields the manifest for this request, or nil when none is
// available.
func (d *Dispatcher) acquire(req *Request) *manifest.Manifest {
	if d.supplier != nil {
		// Staleness-tolerant refresh: only a non-nil result replaces the
		// cache, so a transiently failing supplier keeps serving the last
		// good manifest.
		if m := d.supplier(req); m != nil {
			d.cache.Store(m)
		}
		return d.cache.Load()
	}

	if m := d.cache.Load(); m != nil {
		return m
	}

	m, err := d.load(d.root)
	if err != nil || m == nil {
		// Configuration-time condition, not a runtime fault: logged, not
		// passed to the report hook.
		if err != nil {
			d.logger.Warn("route manifest unavailable", "root", d.root, "error", err)
		}
		return nil
	}
	d.cache.Store(m)
	return m
}

// servePage handles a matched HTML or not-found route. defaultStatus is 200
// for HTML routes and 404 for not-found routes; a prebuilt response from
// the content source bypasses it entirely.
func (d *Dispatcher) servePage(ctx context.Context, req *Request, route *manifest.Route, defaultStatus int) *Response {
	Augment(req, route)

	content := d.resolveContent(ctx, req, route)
	if content == nil {
		return plainText(http.StatusNotFound, "Not Found")
	}
	if content.Response != nil {
		return content.Response
	}
	return htmlResponse(defaultStatus, content.Body)
}

// serveAPI handles a matched API route.
func (d *Dispatcher) serveAPI(ctx context.Context, req *Request, route *manifest.Route) *Response {
	var res *Resolution
	if d.registry != nil {
		res = d.registry.Endpoint(route)
	}
	if res == nil {
		return plainText(http.StatusNotFound, "Not Found")
	}
	if res.Response != nil {
		return res.Response
	}

	handler, ok := res.Endpoint.handler(req.Method)
	if !ok {
		return plainText(http.StatusMethodNotAllowed, "Method Not Allowed")
	}

	params := Augment(req, route)

	out, err := d.invoke(ctx, handler, req, params)
	if err != nil {
		d.reportFault(&HandlerError{RouteID: route.ID(), Err: err})
		return plainText(http.StatusInternalServerError, "Internal Server Error")
	}
	return out
}

// invoke runs a handler, converting panics into errors so that no failure
// crosses the dispatcher boundary.
func (d *Dispatcher) invoke(ctx context.Context, h HandlerFunc, req *Request, params Params) (out *Response, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, &PanicError{Value: r}
		}
	}()

	out, err = h(ctx, req, params)
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, ErrHandlerFault
	}
	return out, nil
}

// reportFault invokes the report hook exactly once, shielding the engine
// from a hook that itself panics.
func (d *Dispatcher) reportFault(err error) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("report hook panicked", "panic", r)
		}
	}()
	d.report(err)
}

func (d *Dispatcher) resolveContent(ctx context.Context, req *Request, route *manifest.Route) *Content {
	if d.content == nil {
		return nil
	}
	return d.content.Content(ctx, req, route)
}

// Manifest returns the currently cached manifest, or nil when none has
// been acquired yet.
func (d *Dispatcher) Manifest() *manifest.Manifest {
	return d.cache.Load()
}

// Preload seeds the manifest cache, replacing any cached manifest.
func (d *Dispatcher) Preload(m *manifest.Manifest) {
	d.cache.Store(m)
}

// Invalidate drops the cached manifest so the next request re-acquires it
// from the default source. Used by development tooling when the
// distribution changes.
func (d *Dispatcher) Invalidate() {
	d.cache.Store(nil)
}

package content

import (
	"github.com/edgekit-dev/edgekit/pkg/dispatch"
	"github.com/edgekit-dev/edgekit/pkg/manifest"
)

// EndpointRegistry is an in-process, statically typed registry of API
// endpoints, keyed by route identifier. Endpoints are registered ahead of
// serving; the registry is read-only afterwards and needs no locking.
type EndpointRegistry struct {
	endpoints map[string]*dispatch.Resolution
}

// NewEndpointRegistry creates an empty registry.
func NewEndpointRegistry() *EndpointRegistry {
	return &EndpointRegistry{
		endpoints: make(map[string]*dispatch.Resolution),
	}
}

// Register binds an endpoint to a route identifier (see manifest.Route.ID),
// replacing any previous binding.
func (r *EndpointRegistry) Register(id string, e *dispatch.Endpoint) {
	r.endpoints[id] = &dispatch.Resolution{Endpoint: e}
}

// RegisterResponse binds a prebuilt response to a route identifier. The
// engine returns it verbatim for every request matching the route.
func (r *EndpointRegistry) RegisterResponse(id string, res *dispatch.Response) {
	r.endpoints[id] = &dispatch.Resolution{Response: res}
}

// Endpoint implements dispatch.Registry.
func (r *EndpointRegistry) Endpoint(route *manifest.Route) *dispatch.Resolution {
	return r.endpoints[route.ID()]
}

// Len returns the number of registered route identifiers.
func (r *EndpointRegistry) Len() int {
	return len(r.endpoints)
}

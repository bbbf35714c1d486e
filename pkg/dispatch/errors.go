package dispatch

import (
	"errors"
	"fmt"
)

// Sentinel errors naming the failure taxonomy. Every one of these resolves
// to a terminal Response inside the dispatcher; none ever escapes a
// Dispatch call.
var (
	// ErrNoManifest means no route manifest could be acquired. This is a
	// configuration-time condition, surfaced as a diagnostic 404 and never
	// passed to the report hook.
	ErrNoManifest = errors.New("dispatch: no route manifest")

	// ErrNoRouteMatch means no descriptor in any category matched the
	// path. Expected and common; surfaced as the default 404.
	ErrNoRouteMatch = errors.New("dispatch: no route match")

	// ErrMethodNotAllowed means the path matched an API route but the
	// endpoint has no handler for the verb. Surfaced as 405.
	ErrMethodNotAllowed = errors.New("dispatch: method not allowed")

	// ErrContentUnavailable means a resolver returned nothing for a
	// matched descriptor: the manifest declares a route whose artifact is
	// missing. Surfaced as 404 so the inconsistency is not leaked.
	ErrContentUnavailable = errors.New("dispatch: content unavailable")

	// ErrHandlerFault means a handler returned an error or panicked.
	// Reported via the hook and surfaced as a generic 500.
	ErrHandlerFault = errors.New("dispatch: handler fault")
)

// HandlerError wraps a handler failure with its route for the report hook.
type HandlerError struct {
	RouteID string
	Err     error
}

// Error returns the error message with route context.
func (e *HandlerError) Error() string {
	return fmt.Sprintf("dispatch: handler for %s: %v", e.RouteID, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As.
func (e *HandlerError) Unwrap() error {
	return e.Err
}

// PanicError wraps a recovered handler panic value.
type PanicError struct {
	Value any
}

// Error returns the panic value as an error message.
func (e *PanicError) Error() string {
	return fmt.Sprintf("dispatch: handler panic: %v", e.Value)
}

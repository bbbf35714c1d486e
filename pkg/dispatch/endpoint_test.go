package dispatch

import (
	"context"
	"testing"
)

func noopHandler(ctx context.Context, req *Request, params Params) (*Response, error) {
	return plainText(200, "ok"), nil
}

func TestEndpointHandlerLookup(t *testing.T) {
	e := NewEndpoint().Get(noopHandler).Delete(noopHandler)

	if _, ok := e.handler("GET"); !ok {
		t.Error("GET should be registered")
	}
	if _, ok := e.handler("DELETE"); !ok {
		t.Error("DELETE should be registered")
	}
	if _, ok := e.handler("POST"); ok {
		t.Error("POST should not be registered")
	}
}

func TestEndpointLookupIsCaseSensitive(t *testing.T) {
	e := NewEndpoint().Get(noopHandler)

	if _, ok := e.handler("get"); ok {
		t.Error("lowercase verb should not match")
	}
}

func TestEndpointHandleReplaces(t *testing.T) {
	var called string
	e := NewEndpoint().
		Handle(MethodPost, func(ctx context.Context, req *Request, params Params) (*Response, error) {
			called = "first"
			return plainText(200, "ok"), nil
		}).
		Handle(MethodPost, func(ctx context.Context, req *Request, params Params) (*Response, error) {
			called = "second"
			return plainText(200, "ok"), nil
		})

	h, ok := e.handler("POST")
	if !ok {
		t.Fatal("POST should be registered")
	}
	if _, err := h(context.Background(), NewRequest("POST", "/x"), nil); err != nil {
		t.Fatal(err)
	}
	if called != "second" {
		t.Errorf("called = %q, want %q", called, "second")
	}
}

func TestEndpointMethodsOrder(t *testing.T) {
	e := NewEndpoint().Delete(noopHandler).Get(noopHandler).Post(noopHandler)

	got := e.Methods()
	want := []Method{MethodGet, MethodPost, MethodDelete}
	if len(got) != len(want) {
		t.Fatalf("Methods() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Methods()[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestEndpointMethodsIncludesNonCanonicalVerbs(t *testing.T) {
	e := NewEndpoint().
		Get(noopHandler).
		Handle(Method("TRACE"), noopHandler).
		Handle(Method("PURGE"), noopHandler)

	got := e.Methods()
	want := []Method{MethodGet, "PURGE", "TRACE"}
	if len(got) != len(want) {
		t.Fatalf("Methods() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Methods()[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestNilEndpoint(t *testing.T) {
	var e *Endpoint
	if _, ok := e.handler("GET"); ok {
		t.Error("nil endpoint should have no handlers")
	}
	if got := e.Methods(); got != nil {
		t.Errorf("nil endpoint Methods() = %v, want nil", got)
	}
}

// Package edgekit serves prebuilt web distributions.
//
// A distribution folder holds static assets, page bodies, and a compiled
// route manifest (routes.json). EdgeKit resolves each request against the
// manifest — HTML routes, API routes, not-found routes, in declared order —
// and dispatches to the matched content or handler. Every request receives
// exactly one terminal response; handler failures are isolated from the
// serving loop.
//
// Usage:
//
//	registry := content.NewEndpointRegistry()
//	registry.Register("users/[id]", dispatch.NewEndpoint().Get(getUser))
//
//	app := edgekit.New(edgekit.Config{
//	    Root:     "dist",
//	    Registry: registry,
//	})
//	http.ListenAndServe(":8080", app)
package edgekit

import (
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/edgekit-dev/edgekit/pkg/content"
	"github.com/edgekit-dev/edgekit/pkg/dispatch"
)

// App wires asset serving and the dispatch engine into a single
// http.Handler.
type App struct {
	dispatcher *dispatch.Dispatcher

	// Raw asset serving
	assetsDir    string
	assetsPrefix string
	assetsFS     http.FileSystem

	config Config
	logger *slog.Logger
}

// New creates an App with the given configuration.
func New(cfg Config) *App {
	cfg = cfg.withDefaults()

	src := cfg.Content
	if src == nil {
		src = content.NewDiskSource(cfg.Root)
	}

	app := &App{
		dispatcher: dispatch.New(dispatch.Config{
			Root:     cfg.Root,
			Supplier: cfg.Supplier,
			Content:  src,
			Registry: cfg.Registry,
			Report:   cfg.Report,
			Logger:   cfg.Logger,
		}),
		assetsPrefix: cfg.Assets.Prefix,
		config:       cfg,
		logger:       cfg.Logger,
	}

	dir := cfg.Assets.Dir
	if dir == "" && cfg.Root != "" {
		dir = filepath.Join(cfg.Root, "assets")
	}
	if dir != "" && dir != "-" {
		app.assetsDir = dir
		app.assetsFS = http.Dir(dir)
	}

	return app
}

// ServeHTTP implements http.Handler. Raw assets are served directly when
// the path resolves to a file under the assets directory; everything else
// goes through the dispatch engine.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if a.assetsFS != nil && a.shouldServeAsset(r.URL.Path) {
		a.serveAsset(w, r)
		return
	}

	req := dispatch.FromHTTP(r)
	res := a.dispatcher.Dispatch(r.Context(), req)
	if err := res.Write(w); err != nil {
		a.logger.Debug("response write failed", "path", r.URL.Path, "error", err)
	}
}

// Handler returns the App as an http.Handler. Useful for explicit type
// conversion or middleware wrapping.
func (a *App) Handler() http.Handler {
	return a
}

// Dispatcher returns the underlying dispatch engine for advanced use:
// preloading or invalidating the manifest cache, typically from
// development tooling.
func (a *App) Dispatcher() *dispatch.Dispatcher {
	return a.dispatcher
}

// Config returns the app configuration.
func (a *App) Config() Config {
	return a.config
}

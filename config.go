package edgekit

import (
	"log/slog"

	"github.com/edgekit-dev/edgekit/pkg/dispatch"
	"github.com/edgekit-dev/edgekit/pkg/manifest"
)

// CacheControl selects the cache header strategy for asset serving.
type CacheControl int

const (
	// CacheControlNone disables caching. Useful in development.
	CacheControlNone CacheControl = iota

	// CacheControlProduction caches fingerprinted assets as immutable for
	// a year and everything else briefly with revalidation.
	CacheControlProduction
)

// AssetsConfig configures raw asset serving from the distribution folder.
type AssetsConfig struct {
	// Dir is the directory containing raw assets. Defaults to the
	// "assets" subdirectory of the distribution root. Set to "-" to
	// disable asset serving entirely.
	Dir string

	// Prefix is the URL prefix assets are served under (default "/assets/").
	Prefix string

	// CacheControl selects the cache header strategy.
	CacheControl CacheControl

	// Headers are extra headers set on every asset response.
	Headers map[string]string
}

// Config configures an App.
//
//	app := edgekit.New(edgekit.Config{
//	    Root:     "dist",
//	    Registry: registry,
//	})
//	http.ListenAndServe(":8080", app)
type Config struct {
	// Root is the distribution folder: routes.json, page bodies, assets.
	Root string

	// Assets configures raw asset serving, checked before dispatch.
	Assets AssetsConfig

	// Content resolves page bodies for HTML and not-found routes.
	// Defaults to a disk source rooted at Root.
	Content dispatch.ContentSource

	// Registry resolves API routes to endpoints.
	Registry dispatch.Registry

	// Supplier, when set, re-acquires the manifest per request instead of
	// caching it for the process lifetime. Development workflows use this
	// to pick up manifest changes without a restart.
	Supplier func(req *dispatch.Request) *manifest.Manifest

	// Report receives handler faults. Defaults to logging via Logger.
	Report func(error)

	// Logger is the application logger. Defaults to slog.Default().
	Logger *slog.Logger

	// DevMode relaxes caching and enables development conveniences.
	DevMode bool
}

// withDefaults fills in unset configuration values.
func (cfg Config) withDefaults() Config {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Assets.Prefix == "" {
		cfg.Assets.Prefix = "/assets/"
	}
	if cfg.DevMode {
		cfg.Assets.CacheControl = CacheControlNone
	}
	return cfg
}

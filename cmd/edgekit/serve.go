package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/edgekit-dev/edgekit"
	"github.com/edgekit-dev/edgekit/internal/config"
	"github.com/edgekit-dev/edgekit/internal/dev"
	"github.com/edgekit-dev/edgekit/pkg/middleware"
)

func serveCmd() *cobra.Command {
	var (
		root    string
		host    string
		port    int
		devMode bool
		metrics bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a distribution folder",
		Long: `Serve a distribution folder over HTTP.

Configuration is read from edgekit.json in the working directory and the
EDGEKIT_* environment, then overridden by flags. In dev mode the
distribution is watched for changes: the manifest cache is invalidated and
connected browsers are told to reload.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(".")
			if err != nil {
				return err
			}
			if root != "" {
				cfg.Root = root
			}
			if host != "" {
				cfg.Host = host
			}
			if port != 0 {
				cfg.Port = port
			}
			if metrics {
				cfg.Metrics = true
			}
			return runServe(cfg, devMode)
		},
	}

	cmd.Flags().StringVar(&root, "root", "", "distribution folder (default from edgekit.json, else \"dist\")")
	cmd.Flags().StringVar(&host, "host", "", "host to bind")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "port to listen on")
	cmd.Flags().BoolVar(&devMode, "dev", false, "watch the distribution and live-reload browsers")
	cmd.Flags().BoolVar(&metrics, "metrics", false, "expose Prometheus metrics on /metrics")

	return cmd
}

func runServe(cfg *config.Config, devMode bool) error {
	level := slog.LevelInfo
	if devMode {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	app := edgekit.New(edgekit.Config{
		Root: cfg.Root,
		Assets: edgekit.AssetsConfig{
			Dir:    cfg.Assets.Dir,
			Prefix: cfg.Assets.Prefix,
			CacheControl: func() edgekit.CacheControl {
				if devMode {
					return edgekit.CacheControlNone
				}
				return edgekit.CacheControlProduction
			}(),
		},
		Logger:  logger,
		DevMode: devMode,
	})

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	if cfg.Metrics {
		r.Use(middleware.Prometheus())
		r.Use(middleware.OpenTelemetry())
		r.Handle("/metrics", promhttp.Handler())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if devMode {
		reload := dev.NewReloadServer()
		defer reload.Close()
		r.Get("/_edgekit/reload", reload.HandleWebSocket)

		watcher := dev.NewWatcher(dev.WatcherConfig{Root: cfg.Root})
		watcher.OnChange(func(change dev.Change) {
			logger.Debug("distribution changed", "path", change.Path)
			app.Dispatcher().Invalidate()
			reload.NotifyReload(change.Path)
		})
		go watcher.Start(ctx)
		defer watcher.Stop()
	}

	r.Handle("/*", app)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	success("serving %s on http://%s", cfg.Root, cfg.Addr())
	if devMode {
		info("dev mode: watching %s for changes", cfg.Root)
	}

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

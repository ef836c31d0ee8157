// Package app wires configuration into a running resolver, store and HTTP server.
package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"size-convert/api"
	"size-convert/core/catalog"
	"size-convert/core/resolver"
	"size-convert/db"
	"size-convert/internal/config"
	"size-convert/internal/logging"
)

// Version is the release version reported by the CLI and the API
const Version = "0.1.0"

// App holds the wired components. Store and Monitor are nil when the
// database could not be opened; resolution then uses the catalog and estimates.
type App struct {
	Config   *config.Config
	Store    *db.Store
	Monitor  *db.Monitor
	Catalog  catalog.Provider
	Resolver *resolver.Resolver

	watcher *catalog.Watcher
	log     *zap.Logger
}

// Open builds every component described by cfg
func Open(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{Config: cfg, log: logging.Named("app")}

	cat, err := a.openCatalog()
	if err != nil {
		return nil, err
	}
	a.Catalog = cat

	store, err := db.Open(ctx, cfg.Database.Driver, cfg.Database.DSN, cfg.Database.MaxOpenConns)
	if err != nil {
		a.log.Warn("database unavailable, serving catalog and estimates only",
			zap.String("driver", cfg.Database.Driver), zap.Error(err))
	} else {
		a.Store = store
		a.Monitor = db.NewMonitor(store, cfg.Database.ProbeInterval())
	}

	opts := []resolver.Option{resolver.WithLogger(logging.Named("resolver"))}
	if a.Store != nil && cfg.Resolver.RemoteEnabled {
		opts = append(opts, resolver.WithSource(a.Store, cfg.Resolver.RemoteTimeout()))
	}
	a.Resolver = resolver.New(a.Catalog, opts...)
	return a, nil
}

func (a *App) openCatalog() (catalog.Provider, error) {
	base := catalog.Bundled()
	path := a.Config.Catalog.OverridePath
	switch {
	case path == "":
		return base, nil
	case a.Config.Catalog.Watch:
		w, err := catalog.NewWatcher(base, path)
		if err != nil {
			return nil, err
		}
		a.watcher = w
		return w, nil
	default:
		return LoadCatalog(a.Config)
	}
}

// LoadCatalog returns the bundled catalog merged with the configured override file
func LoadCatalog(cfg *config.Config) (*catalog.Catalog, error) {
	base := catalog.Bundled()
	if cfg.Catalog.OverridePath == "" {
		return base, nil
	}
	overlay, err := catalog.LoadFile(cfg.Catalog.OverridePath)
	if err != nil {
		return nil, err
	}
	return base.Merge(overlay), nil
}

// Handler returns the HTTP API over the wired components, wrapped in the
// configured rate limiting and compression
func (a *App) Handler() (http.Handler, error) {
	var h http.Handler
	if a.Store == nil {
		h = api.NewServer(Version, a.Resolver, a.Catalog)
	} else {
		h = api.NewServerWithStore(Version, a.Resolver, a.Catalog, a.Store, a.Monitor)
	}

	cfg := a.Config.Server
	var mws []api.Middleware
	if cfg.RateLimitRPS > 0 {
		mws = append(mws, api.RateLimit(rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)))
	}
	if cfg.Compression {
		compress, err := api.Compress(cfg.CompressionMinSize)
		if err != nil {
			return nil, err
		}
		mws = append(mws, compress)
	}
	return api.Chain(h, mws...), nil
}

// Serve runs the HTTP server and background workers until ctx is done,
// then shuts the server down gracefully
func (a *App) Serve(ctx context.Context) error {
	handler, err := a.Handler()
	if err != nil {
		return err
	}
	srv := &http.Server{
		Addr:              a.Config.Server.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	if a.Monitor != nil {
		g.Go(func() error {
			a.Monitor.Run(gctx)
			return nil
		})
	}
	if a.watcher != nil {
		g.Go(func() error { return a.watcher.Run(gctx) })
	}
	g.Go(func() error {
		a.log.Info("http_listen", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		a.log.Info("shutdown_begin")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout())
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// Close releases the database connection and the catalog watcher
func (a *App) Close() error {
	var errs []error
	if a.watcher != nil {
		errs = append(errs, a.watcher.Close())
	}
	if a.Store != nil {
		errs = append(errs, a.Store.Close())
	}
	return errors.Join(errs...)
}

package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"PairSight/internal/domain/repository"
	pkgcache "PairSight/pkg/cache"
	"PairSight/pkg/config"
	xhttp "PairSight/pkg/http"
	applogger "PairSight/pkg/logger"
)

// App encapsulates the application lifecycle: HTTP server startup, signal
// handling, and ordered resource teardown.
type App struct {
	cfg        *config.Config
	log        *applogger.Logger
	handler    xhttp.Handler
	store      pkgcache.Service
	publisher  repository.SignalPublisher
	httpServer *xhttp.Server
}

// New creates a new App instance with all dependencies. store and publisher
// may be nil when the corresponding feature is not configured.
func New(
	cfg *config.Config,
	log *applogger.Logger,
	handler xhttp.Handler,
	store pkgcache.Service,
	publisher repository.SignalPublisher,
) *App {
	return &App{
		cfg:       cfg,
		log:       log,
		handler:   handler,
		store:     store,
		publisher: publisher,
	}
}

// Run starts the HTTP server and blocks until interrupted.
func (a *App) Run() error {
	metricsPath := ""
	if a.cfg.Metrics.Enabled {
		metricsPath = a.cfg.Metrics.Path
	}

	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		xhttp.WithMetricsPath(metricsPath),
		xhttp.WithLogger(a.log),
	)

	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		return err
	}
	a.log.Info("engine ready",
		applogger.Int("port", a.cfg.Server.Port),
		applogger.Bool("gates", a.cfg.Engine.GatesEnabled),
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.log.Info("shutdown signal received")
	return a.shutdown()
}

// shutdown stops the HTTP server first so no request can reach a closed
// dependency, then releases infrastructure clients.
func (a *App) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := a.httpServer.Stop(ctx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
	}

	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.log.Warn("publisher close error", applogger.Error(err))
		}
	}

	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.log.Warn("cache close error", applogger.Error(err))
		}
	}

	a.log.Info("shutdown complete")
	return nil
}

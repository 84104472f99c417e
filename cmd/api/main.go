package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Lelo88/ledger-api-golang/internal/config"
	"github.com/Lelo88/ledger-api-golang/internal/docs"
	"github.com/Lelo88/ledger-api-golang/internal/health"
	"github.com/Lelo88/ledger-api-golang/internal/httpx"
	"github.com/Lelo88/ledger-api-golang/internal/items"
	"github.com/Lelo88/ledger-api-golang/internal/logger"
)

const (
	requestTimeout  = 10 * time.Second
	shutdownTimeout = 10 * time.Second
)

// httpServer es lo que run necesita de *http.Server.
type httpServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

type appDeps struct {
	loadConfig func() (config.Config, error)
	newLogger  func(level, encoding string) (*zap.Logger, error)
	openStore  func(ctx context.Context, cfg config.Config, log *zap.Logger) (appStore, error)
	newServer  func(addr string, handler http.Handler) httpServer
}

var (
	loadConfigFn = config.Load
	newLoggerFn  = logger.New
	openStoreFn  = openStore
	newServerFn  = newHTTPServer
	fatalf       = log.Fatal
)

func main() {
	// Contexto raíz del proceso: se cancela con SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := run(ctx, appDeps{
		loadConfig: loadConfigFn,
		newLogger:  newLoggerFn,
		openStore:  openStoreFn,
		newServer:  newServerFn,
	})
	if err != nil {
		fatalf(err)
	}
}

// run arma la app y sirve hasta que ctx se cancela o el listener falla.
func run(ctx context.Context, deps appDeps) error {
	cfg, err := deps.loadConfig()
	if err != nil {
		return err
	}

	log, err := deps.newLogger(cfg.LogLevel, cfg.LogEncoding)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	store, err := deps.openStore(ctx, cfg, log)
	if err != nil {
		log.Error("open store failed", zap.Error(err))
		return err
	}
	defer store.Close()

	addr := ":" + cfg.Port
	server := deps.newServer(addr, buildRouter(store, cfg.Location, log))

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		log.Info("listening", zap.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen on %s: %w", addr, err)
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()

		// Contexto nuevo: groupCtx ya está cancelado.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		log.Info("shutting down")
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	if err := group.Wait(); err != nil {
		log.Error("server stopped with error", zap.Error(err))
		return err
	}
	log.Info("server stopped")
	return nil
}

// buildRouter monta middlewares, endpoints operativos, docs e items sobre el store.
func buildRouter(store appStore, location *time.Location, log *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// Middlewares base para trazabilidad y estabilidad.
	r.Use(httpx.RequestID)
	r.Use(middleware.RealIP)
	r.Use(httpx.RequestLogger(log))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	// Errores de routing se manejan a nivel router.
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httpx.Fail(w, r, http.StatusNotFound, "not_found", "resource not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httpx.Fail(w, r, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	})

	healthHandler := health.New(store)
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	docs.RegisterRoutes(r)

	itemsHandler := items.NewHandler(
		items.NewService(store),
		items.WithLocation(location),
		items.WithLogger(log),
	)
	items.RegisterRoutes(r, itemsHandler)

	return r
}

func newHTTPServer(addr string, handler http.Handler) httpServer {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       requestTimeout,
		WriteTimeout:      requestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

// Package app wires the store, gateway, service, dispatcher and HTTP surface
// into one process.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/todo-client/internal/config"
	"github.com/BuzzLyutic/todo-client/internal/gateway"
	"github.com/BuzzLyutic/todo-client/internal/handler"
	"github.com/BuzzLyutic/todo-client/internal/service"
	"github.com/BuzzLyutic/todo-client/internal/store"
	"github.com/BuzzLyutic/todo-client/internal/worker"
)

type App struct {
	cfg     config.Config
	logger  *zap.Logger
	Store   *store.Store
	Service *service.TaskService
	Pool    *worker.Pool
	Router  http.Handler
}

// New builds the dependency graph. httpClient may be nil.
func New(cfg config.Config, logger *zap.Logger, httpClient *http.Client) *App {
	st := store.New()
	gw := gateway.NewClient(cfg.APIBaseURL, httpClient, logger.Named("gateway"))
	svc := service.NewTaskService(gw, st, logger.Named("service"))
	pool := worker.NewPool(logger.Named("worker"), cfg.WorkerCount, cfg.QueueSize)
	h := handler.NewTaskHandler(svc, pool, logger.Named("handler"))

	return &App{
		cfg:     cfg,
		logger:  logger,
		Store:   st,
		Service: svc,
		Pool:    pool,
		Router:  NewRouter(h),
	}
}

func NewRouter(h *handler.TaskHandler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status":"ok"}`)
	})

	r.Route("/api", h.Routes)
	return r
}

// Start launches the workers and queues the initial load.
func (a *App) Start(ctx context.Context) error {
	a.Pool.Start(ctx)
	if _, err := a.Pool.Submit("load", a.Service.Load); err != nil {
		return fmt.Errorf("queue initial load: %w", err)
	}
	return nil
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully: the
// server first, then the pool once its running jobs have finished.
func (a *App) Run(ctx context.Context) error {
	poolCtx, cancelPool := context.WithCancel(context.WithoutCancel(ctx))
	defer cancelPool()

	if err := a.Start(poolCtx); err != nil {
		return err
	}
	defer a.Pool.Stop()

	srv := http.Server{
		Addr:         ":" + a.cfg.Port,
		Handler:      a.Router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("Server started", zap.String("addr", srv.Addr), zap.String("api", a.cfg.APIBaseURL))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	a.logger.Info("Server stopped successfully")
	return nil
}

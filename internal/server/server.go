// Package server exposes the demo over HTTP, standing in for the page's
// inputs and buttons.
package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sourcegraph/conc"
	"go.uber.org/zap"

	"github.com/romdo/go-pace/internal/demo"
)

// Server represents the HTTP server
type Server struct {
	router *chi.Mux
	mux    sync.Mutex
	server *http.Server
	closed bool
	app    *demo.App
	logger *zap.Logger

	// ctx bounds background work started by requests, such as color runs.
	// It is canceled by Shutdown, which then waits for that work.
	ctx    context.Context
	cancel context.CancelFunc

	colors   conc.WaitGroup
	coloring atomic.Bool
}

// New creates a new HTTP server for app. Background work started by requests
// stops when ctx is done.
func New(ctx context.Context, app *demo.App, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "NOT_FOUND",
			"The requested resource was not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED",
			"The requested method is not allowed for this resource")
	})

	s := &Server{
		router: r,
		app:    app,
		logger: logger,
	}
	s.ctx, s.cancel = context.WithCancel(ctx)

	s.registerRoutes()

	return s
}

// Handler returns the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until Shutdown is called. It returns nil
// straight away if Shutdown was already called.
func (s *Server) ListenAndServe(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	s.mux.Lock()
	if s.closed {
		s.mux.Unlock()

		return nil
	}
	s.server = srv
	s.mux.Unlock()

	s.logger.Info("Starting HTTP server", zap.String("addr", addr))

	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}

	return err
}

// Shutdown gracefully shuts down the server, then stops background work
// started by requests and waits for it until ctx is done.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mux.Lock()
	srv := s.server
	s.closed = true
	s.mux.Unlock()

	var err error
	if srv != nil {
		s.logger.Info("Shutting down HTTP server")
		err = srv.Shutdown(ctx)
	}

	s.cancel()

	done := make(chan struct{})
	go func() {
		s.colors.Wait()
		close(done)
	}()

	select {
	case <-done:
		return err
	case <-ctx.Done():
		return errors.Join(err, ctx.Err())
	}
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			logger.Debug("HTTP request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())),
			)
		})
	}
}

// internal/server/server.go

// Package server exposes the search subsystem over HTTP.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/venvl-dev/venvl-rentals-hub-sub001/internal/catalog"
	"github.com/venvl-dev/venvl-rentals-hub-sub001/internal/common/config"
	"github.com/venvl-dev/venvl-rentals-hub-sub001/internal/common/logger"
	"github.com/venvl-dev/venvl-rentals-hub-sub001/internal/common/observability"
	"github.com/venvl-dev/venvl-rentals-hub-sub001/internal/models"
	"github.com/venvl-dev/venvl-rentals-hub-sub001/internal/search/evaluator"
)

// BoundsResolver resolves price bounds for a booking mode. Satisfied by
// pricerange.Provider.
type BoundsResolver interface {
	ResolveBounds(ctx context.Context, mode models.BookingMode) models.PriceRange
}

// Server wires the catalog source, the bounds provider and the
// evaluator behind the HTTP API.
type Server struct {
	cfg    *config.Config
	source catalog.Source
	bounds BoundsResolver
	eval   *evaluator.Evaluator
	obs    *observability.Observability
	logger logger.Logger
	router *mux.Router
}

func New(cfg *config.Config, source catalog.Source, bounds BoundsResolver, eval *evaluator.Evaluator, obs *observability.Observability, log logger.Logger) *Server {
	s := &Server{
		cfg:    cfg,
		source: source,
		bounds: bounds,
		eval:   eval,
		obs:    obs,
		logger: log.WithFields(map[string]interface{}{"component": "server"}),
	}
	s.router = s.buildRouter()
	return s
}

// Router returns the configured HTTP handler.
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) buildRouter() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.requestMiddleware)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/properties/search", s.handleSearch).Methods(http.MethodPost)
	api.HandleFunc("/price-range", s.handlePriceRange).Methods(http.MethodGet)
	api.HandleFunc("/bookings/check-conflict", s.handleCheckConflict).Methods(http.MethodPost)

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	return r
}

// requestMiddleware tags every request with an id and records request
// metrics.
func (s *Server) requestMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := uuid.NewString()
		w.Header().Set("X-Request-ID", requestID)

		log := s.logger.WithFields(map[string]interface{}{
			"requestId": requestID,
			"method":    r.Method,
			"path":      r.URL.Path,
		})
		log.Debug("request started", nil)

		next.ServeHTTP(w, r)

		duration := time.Since(start)
		log.Info("request finished", map[string]interface{}{
			"durationMs": duration.Milliseconds(),
		})
		if s.obs != nil {
			s.obs.RecordRequest(r.Context(), r.URL.Path, r.Method)
			s.obs.RecordRequestDuration(r.Context(), r.URL.Path, duration)
		}
	})
}

// Run starts the HTTP server and blocks until ctx is cancelled, then
// shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  config.GetDuration(s.cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(s.cfg.Server.WriteTimeout),
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", map[string]interface{}{
			"addr": srv.Addr,
		})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(),
		config.GetDuration(s.cfg.Server.ShutdownTimeout))
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/geo-distance-service/internal/adapter/agenttool"
	"github.com/couchcryptid/geo-distance-service/internal/domain"
	"github.com/couchcryptid/geo-distance-service/internal/observability"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ReadinessCheckers is ready when every member is ready.
type ReadinessCheckers []sharedobs.ReadinessChecker

func (rc ReadinessCheckers) CheckReadiness(ctx context.Context) error {
	var errs []error
	for _, c := range rc {
		if err := c.CheckReadiness(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// DistanceComputer performs one two-place distance lookup.
type DistanceComputer interface {
	ComputeDistance(ctx context.Context, place1, place2 string) domain.DistanceReport
}

// ToolInvoker lists and runs agent tools.
type ToolInvoker interface {
	Descriptors() []agenttool.Descriptor
	Invoke(ctx context.Context, name, argumentsJSON string) (string, bool, error)
}

// Server exposes the distance API, agent tools, and health, readiness, and
// metrics endpoints.
type Server struct {
	httpServer *http.Server
	distance   DistanceComputer
	tools      ToolInvoker
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewServer creates an HTTP server. A nil tools disables the /v1/tools routes.
func NewServer(
	addr string,
	ready sharedobs.ReadinessChecker,
	distance DistanceComputer,
	tools ToolInvoker,
	metrics *observability.Metrics,
	logger *slog.Logger,
) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:              addr,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		distance: distance,
		tools:    tools,
		metrics:  metrics,
		logger:   logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /v1/distance", s.handleDistanceQuery)
	mux.HandleFunc("POST /v1/distance", s.handleDistanceJSON)

	if tools != nil {
		mux.HandleFunc("GET /v1/tools", s.handleListTools)
		mux.HandleFunc("POST /v1/tools/{name}", s.handleInvokeTool)
	}

	s.httpServer.Handler = s.middleware(mux)
	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	sharedobs.WriteJSON(w, status, map[string]string{"error": msg})
}

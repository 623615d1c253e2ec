// Package ops serves the operational HTTP endpoints: health and metrics.
package ops

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/ardenspace/space3-your-journey/internal/logging"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	healthPath  = "/healthz"
	metricsPath = "/metrics"

	shutdownTimeout = 5 * time.Second
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Server struct {
	address string
	db      Pinger
	logger  logging.Logger
}

func NewServer(address string, db Pinger, l logging.Logger) *Server {
	if l == nil {
		l = logging.Nop()
	}
	return &Server{address: address, db: db, logger: l.With("module", "ops")}
}

// Router returns the ops routes.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc(healthPath, s.health).Methods(http.MethodGet)
	r.Handle(metricsPath, promhttp.Handler()).Methods(http.MethodGet)
	return r
}

type healthResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := healthResponse{Status: "UP"}
	code := http.StatusOK
	if err := s.db.PingContext(ctx); err != nil {
		s.logger.Warn(ctx, "health check failed", "error", err)
		resp = healthResponse{Status: "DOWN", Error: "database unreachable"}
		code = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(resp)
}

// Run serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, lis)
}

// Serve serves on lis until ctx is cancelled, then shuts down.
func (s *Server) Serve(ctx context.Context, lis net.Listener) error {
	srv := &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Info(ctx, "Stopping ops server...")
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting ops server", "address", lis.Addr().String())
	if err := srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

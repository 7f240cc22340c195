// Package httpapi is a thin HTTP facade over the simulation engine for the
// surrounding dashboard. The engine core stays pure; this layer only decodes
// scenarios, rate-limits callers and encodes results.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/sawpanic/scenariorun/internal/scenario"
	"github.com/sawpanic/scenariorun/internal/sim"
)

// Server serves the simulation API.
type Server struct {
	engine  *sim.Engine
	logger  zerolog.Logger
	limiter *rate.Limiter
}

// NewServer creates a server; rps bounds accepted simulate requests per
// second with a burst of the same size.
func NewServer(engine *sim.Engine, logger zerolog.Logger, rps float64) *Server {
	return &Server{
		engine:  engine,
		logger:  logger,
		limiter: rate.NewLimiter(rate.Limit(rps), int(rps)+1),
	}
}

// Router builds the route table. The Prometheus registry backs /metrics.
func (s *Server) Router(reg *prometheus.Registry) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/v1/simulate", s.handleSimulate).Methods(http.MethodPost)
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	return r
}

// simulateResponse wraps the results with a request id for traceability in
// the caller's exports.
type simulateResponse struct {
	ID      string            `json:"id"`
	Results []scenario.Result `json:"results"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	if !s.limiter.Allow() {
		writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "rate limit exceeded"})
		return
	}

	var sc scenario.Scenario
	if err := json.NewDecoder(r.Body).Decode(&sc); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed scenario: " + err.Error()})
		return
	}

	id := uuid.NewString()
	start := time.Now()
	results, err := s.engine.Run(r.Context(), sc)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, errorResponse{Error: err.Error()})
		return
	}

	s.logger.Info().
		Str("request_id", id).
		Int("options", len(sc.Options)).
		Int("runs", sc.Runs).
		Dur("elapsed", time.Since(start)).
		Msg("simulate request served")
	writeJSON(w, http.StatusOK, simulateResponse{ID: id, Results: results})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

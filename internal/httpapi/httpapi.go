// Package httpapi exposes the two HTTP endpoints spec §6.1 describes.
// Every other example in the corpus builds its transport on a Kubernetes
// controller-runtime manager or a cloud SDK's own client, neither of
// which fits a single-process HTTP trigger; net/http's ServeMux is the
// plain, justified exception (see DESIGN.md).
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/deca-be/ml-scheduler/internal/extractor"
	"github.com/deca-be/ml-scheduler/internal/telemetry"
)

// Calculator is the subset of internal/runner.Runner this handler needs.
type Calculator interface {
	CalculatePlanning(ctx context.Context, duration time.Duration) (extractor.Result, error)
}

// Server wires the scheduling endpoints onto a ServeMux. Background runs
// are tracked through an errgroup so Shutdown can wait for any in-flight
// run before the process exits.
type Server struct {
	calc Calculator
	bg   *errgroup.Group
}

// NewServer returns a Server dispatching runs through calc.
func NewServer(calc Calculator) *Server {
	return &Server{calc: calc, bg: &errgroup.Group{}}
}

// Routes registers this server's handlers onto mux.
func (s *Server) Routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /calculate_planning/{duration}", s.handleCalculatePlanning)
	mux.HandleFunc("POST /calculate_order_date", s.handleCalculateOrderDate)
	mux.Handle("GET /metrics", promhttp.HandlerFor(telemetry.Registry, promhttp.HandlerOpts{}))
}

// handleCalculatePlanning schedules CalculatePlanning(duration) as a
// background task and returns immediately, matching spec §6.1.
func (s *Server) handleCalculatePlanning(w http.ResponseWriter, req *http.Request) {
	secs, err := strconv.Atoi(req.PathValue("duration"))
	if err != nil || secs <= 0 {
		http.Error(w, "duration must be a positive integer number of seconds", http.StatusBadRequest)
		return
	}
	duration := time.Duration(secs) * time.Second
	log := telemetry.FromContext(req.Context())

	s.bg.Go(func() error {
		ctx := context.Background()
		if _, err := s.calc.CalculatePlanning(ctx, duration); err != nil && !errors.Is(err, context.Canceled) {
			log.Errorw("background calculate_planning failed", "error", err)
		}
		return nil
	})

	writeJSON(w, http.StatusOK, map[string]string{"message": "started in background."})
}

// handleCalculateOrderDate is reserved; currently a no-op per spec §6.1.
func (s *Server) handleCalculateOrderDate(w http.ResponseWriter, req *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "not implemented."})
}

// Wait blocks until every background run dispatched through this server
// has returned, for use during graceful shutdown.
func (s *Server) Wait() error {
	return s.bg.Wait()
}

func writeJSON(w http.ResponseWriter, status int, body map[string]string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

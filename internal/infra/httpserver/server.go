// internal/infra/httpserver/server.go
package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net"
	"net/http"
	"runtime"
	"time"

	chi "github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/opisboy29/discord-dsu-bot/internal/infra/config"
	"github.com/opisboy29/discord-dsu-bot/internal/infra/scheduler"
)

// SchedulerStatus provides the snapshot served on /health/scheduler.
type SchedulerStatus interface {
	Status() scheduler.Snapshot
}

// ReadyReporter reports whether the Discord gateway connection is up.
type ReadyReporter interface {
	Ready() bool
}

// Server is the read-only operational HTTP surface: health, scheduler state
// and Prometheus metrics. It never mutates bot state.
type Server struct {
	router    chi.Router
	log       *logrus.Entry
	srv       *http.Server
	startedAt time.Time

	sched   SchedulerStatus
	gateway ReadyReporter

	port           int
	memoryWarnMB   int
	memoryCriticMB int
}

type memoryReport struct {
	AllocMB    float64 `json:"alloc_mb"`
	WarningMB  int     `json:"warning_mb"`
	CriticalMB int     `json:"critical_mb"`
	Status     string  `json:"status"`
}

type healthResponse struct {
	Status        string       `json:"status"`
	UptimeSeconds float64      `json:"uptime_seconds"`
	GatewayReady  bool         `json:"gateway_ready"`
	Memory        memoryReport `json:"memory"`
}

func New(cfg *config.AppConfig, sched SchedulerStatus, gateway ReadyReporter, logger *logrus.Entry) *Server {
	s := &Server{
		log:            logger,
		startedAt:      time.Now(),
		sched:          sched,
		gateway:        gateway,
		port:           cfg.Port,
		memoryWarnMB:   cfg.Memory.WarningMB,
		memoryCriticMB: cfg.Memory.CriticalMB,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Get("/health", s.handleHealth)
	r.Get("/health/scheduler", s.handleSchedulerHealth)
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})
	s.router = r
	return s
}

// Start binds the listener and serves in the background. The bind happens
// synchronously so a port conflict surfaces here, where startup can treat it
// as fatal.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", s.port))
	if err != nil {
		return fmt.Errorf("binding health server on port %d: %w", s.port, err)
	}

	s.srv = &http.Server{
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}
	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.WithError(err).Error("Health server stopped unexpectedly")
		}
	}()

	s.log.WithField("addr", ln.Addr().String()).Info("Health server listening")
	return nil
}

// Shutdown drains in-flight requests and closes the listener. Calling it on
// a server that never started is a no-op.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	allocMB := math.Round(float64(m.Alloc)/1024/1024*100) / 100

	memory := memoryReport{
		AllocMB:    allocMB,
		WarningMB:  s.memoryWarnMB,
		CriticalMB: s.memoryCriticMB,
		Status:     memoryState(allocMB, s.memoryWarnMB, s.memoryCriticMB),
	}

	ready := s.gateway.Ready()
	status := "ok"
	if !ready || memory.Status == "warning" {
		status = "degraded"
	}
	if memory.Status == "critical" {
		status = "critical"
	}

	s.writeJSON(w, healthResponse{
		Status:        status,
		UptimeSeconds: math.Round(time.Since(s.startedAt).Seconds()*100) / 100,
		GatewayReady:  ready,
		Memory:        memory,
	})
}

func (s *Server) handleSchedulerHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, s.sched.Status())
}

// writeJSON always answers 200: the process being able to answer is the
// liveness signal, degradation lives in the payload.
func (s *Server) writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log.WithError(err).Error("Could not encode health response")
	}
}

func memoryState(allocMB float64, warnMB, criticMB int) string {
	switch {
	case criticMB > 0 && allocMB >= float64(criticMB):
		return "critical"
	case warnMB > 0 && allocMB >= float64(warnMB):
		return "warning"
	default:
		return "ok"
	}
}

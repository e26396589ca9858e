// Package http exposes the risk assessment API plus the operational
// health, readiness, and metrics endpoints.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/disaster-risk-service/internal/domain"
)

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// RiskService computes risk reports on demand.
type RiskService interface {
	ComputeReport(ctx context.Context, regionID, disasterTypeID int) (*domain.RiskReport, error)
	ComputeAllReports(ctx context.Context) ([]domain.RiskReport, error)
}

// RegionStore manages monitored regions.
type RegionStore interface {
	CreateRegion(ctx context.Context, r *domain.Region) error
	GetRegion(ctx context.Context, id int) (*domain.Region, error)
	ListRegions(ctx context.Context) ([]domain.Region, error)
	UpdateRegion(ctx context.Context, r *domain.Region) error
	DeleteRegion(ctx context.Context, id int) error
}

// SettingStore manages alert threshold settings.
type SettingStore interface {
	UpsertAlertSetting(ctx context.Context, a *domain.AlertSetting) error
	ListAlertSettings(ctx context.Context, regionID int) ([]domain.AlertSetting, error)
	UpdateAlertSetting(ctx context.Context, id int, threshold float64, active bool) error
	DeleteAlertSetting(ctx context.Context, id int) error
}

// AlertStore reads recorded alerts.
type AlertStore interface {
	ListAlerts(ctx context.Context, limit int) ([]domain.Alert, error)
	ListAlertsByRegion(ctx context.Context, regionID int) ([]domain.Alert, error)
}

// Server exposes the HTTP API.
type Server struct {
	httpServer *http.Server
	risks      RiskService
	regions    RegionStore
	settings   SettingStore
	alerts     AlertStore
	logger     *slog.Logger
}

// NewServer creates the API server with all routes mounted.
func NewServer(
	addr string,
	risks RiskService,
	regions RegionStore,
	settings SettingStore,
	alerts AlertStore,
	ready ReadinessChecker,
	logger *slog.Logger,
) *Server {
	s := &Server{
		risks:    risks,
		regions:  regions,
		settings: settings,
		alerts:   alerts,
		logger:   logger,
	}

	r := chi.NewRouter()
	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", handleReady(ready))
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/risks", s.handleComputeAllRisks)
		r.Get("/regions/{regionID}/risks/{disasterTypeID}", s.handleComputeRisk)

		r.Get("/regions", s.handleListRegions)
		r.Post("/regions", s.handleCreateRegion)
		r.Get("/regions/{regionID}", s.handleGetRegion)
		r.Put("/regions/{regionID}", s.handleUpdateRegion)
		r.Delete("/regions/{regionID}", s.handleDeleteRegion)

		r.Get("/alert-settings", s.handleListSettings)
		r.Post("/alert-settings", s.handleCreateSetting)
		r.Put("/alert-settings/{settingID}", s.handleUpdateSetting)
		r.Delete("/alert-settings/{settingID}", s.handleDeleteSetting)

		r.Get("/alerts", s.handleListAlerts)
		r.Get("/regions/{regionID}/alerts", s.handleListRegionAlerts)
	})

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
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

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func handleReady(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := checker.CheckReadiness(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response write
}

// writeError maps domain error kinds to status codes. Anything unrecognized
// is an internal error; the detail stays in the log, not the response.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, domain.ErrValidation):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

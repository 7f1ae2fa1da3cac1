package api

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/ignite/agentops-portal/internal/dashboard"
	"github.com/ignite/agentops-portal/internal/domain"
	"github.com/ignite/agentops-portal/internal/export"
	"github.com/ignite/agentops-portal/internal/pkg/logger"
)

// Handlers contains all HTTP handlers.
type Handlers struct {
	service  *dashboard.Service
	store    dashboard.BaselineStore
	exporter *export.Exporter
	db       *sql.DB
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(service *dashboard.Service, store dashboard.BaselineStore) *Handlers {
	return &Handlers{service: service, store: store}
}

// SetExporter attaches the optional S3 snapshot exporter.
func (h *Handlers) SetExporter(e *export.Exporter) { h.exporter = e }

// SetDB attaches the operational store handle for health checks.
func (h *Handlers) SetDB(db *sql.DB) { h.db = db }

// HealthCheck reports service and store health.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	}
	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.PingContext(ctx); err != nil {
			status["status"] = "degraded"
			status["database"] = "unreachable"
			respondJSON(w, http.StatusServiceUnavailable, status)
			return
		}
		status["database"] = "ok"
	}
	respondJSON(w, http.StatusOK, status)
}

// GetMetrics serves the full KPI dashboard payload for one reporting window.
// The raw-aggregate fetch failing is the only 500; every later failure has
// already been soft-degraded to a zero-valued payload by the service.
func (h *Handlers) GetMetrics(w http.ResponseWriter, r *http.Request) {
	q := dashboard.Query{
		Period:       r.URL.Query().Get("period"),
		BusinessType: r.URL.Query().Get("businessType"),
		AgentType:    r.URL.Query().Get("agentType"),
	}
	if q.Period == "" {
		q.Period = dashboard.PeriodWeek
	}

	payload, err := h.service.Dashboard(r.Context(), q)
	if err != nil {
		if errors.Is(err, dashboard.ErrUnknownPeriod) {
			respondError(w, http.StatusBadRequest, "period must be 'week' or 'month'")
			return
		}
		logger.Error("dashboard fetch failed", "period", q.Period, "error", err.Error())
		respondError(w, http.StatusInternalServerError, "failed to load dashboard metrics")
		return
	}
	respondJSON(w, http.StatusOK, payload)
}

// GetBaselines returns the resolved baseline set for the requested scope.
func (h *Handlers) GetBaselines(w http.ResponseWriter, r *http.Request) {
	businessType := r.URL.Query().Get("businessType")
	agentType := r.URL.Query().Get("agentType")

	resolved := dashboard.DefaultBaselines()
	rows, err := h.store.ListBaselines(r.Context(), businessType, agentType)
	if err != nil {
		logger.Warn("baseline read failed, serving defaults", "error", err.Error())
	} else {
		resolved = dashboard.ResolveBaselines(rows, businessType, agentType)
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"baselines": dashboard.BaselineList(resolved),
	})
}

// UpsertBaseline writes one operator-configured metric input.
func (h *Handlers) UpsertBaseline(w http.ResponseWriter, r *http.Request) {
	var entry domain.BaselineEntry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		respondError(w, http.StatusBadRequest, "invalid baseline entry")
		return
	}
	if !dashboard.KnownBaselineKey(entry.MetricKey) {
		respondError(w, http.StatusBadRequest, "unknown metric_key")
		return
	}

	if err := h.store.UpsertBaseline(r.Context(), entry); err != nil {
		logger.Error("baseline upsert failed", "metric_key", entry.MetricKey, "error", err.Error())
		respondError(w, http.StatusInternalServerError, "failed to save baseline")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "saved", "metric_key": entry.MetricKey})
}

// ExportMetrics computes the payload for the requested window and uploads a
// JSON snapshot to S3.
func (h *Handlers) ExportMetrics(w http.ResponseWriter, r *http.Request) {
	if h.exporter == nil {
		respondError(w, http.StatusServiceUnavailable, "snapshot export is not configured")
		return
	}

	q := dashboard.Query{
		Period:       r.URL.Query().Get("period"),
		BusinessType: r.URL.Query().Get("businessType"),
		AgentType:    r.URL.Query().Get("agentType"),
	}
	if q.Period == "" {
		q.Period = dashboard.PeriodWeek
	}

	payload, err := h.service.Dashboard(r.Context(), q)
	if err != nil {
		if errors.Is(err, dashboard.ErrUnknownPeriod) {
			respondError(w, http.StatusBadRequest, "period must be 'week' or 'month'")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to load dashboard metrics")
		return
	}

	key, err := h.exporter.Export(r.Context(), payload)
	if err != nil {
		logger.Error("snapshot export failed", "period", q.Period, "error", err.Error())
		respondError(w, http.StatusBadGateway, "failed to upload snapshot")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "exported", "key": key})
}

// Response helpers

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

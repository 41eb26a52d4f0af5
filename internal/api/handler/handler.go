// Package handler provides HTTP handlers for the admin API. Handler errors
// are reported back to the caller as structured JSON and never crash the
// process.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/kikibot/aa-alert/internal/api/respond"
	"github.com/kikibot/aa-alert/internal/schedule"
)

// SettingsStore is the durable configuration surface the handlers mutate.
// Satisfied by *settings.Store.
type SettingsStore interface {
	Destination(ctx context.Context) (string, error)
	SetDestination(ctx context.Context, channelID string) error
	MuteUntil(ctx context.Context) (time.Time, error)
	SetMute(ctx context.Context, until time.Time) error
	ClearMute(ctx context.Context) error
}

// Tester sends the operator test notification. Satisfied by
// *dispatch.Dispatcher.
type Tester interface {
	SendTest(ctx context.Context) error
}

// PipelineStatus exposes the alert worker's last tick for the status
// endpoint. Satisfied by *alert.Worker.
type PipelineStatus interface {
	Snapshot() (time.Time, []schedule.Projection)
	StoreSize() int
}

// DBHealth verifies database connectivity. Satisfied by *db.Pool.
type DBHealth interface {
	HealthCheck(ctx context.Context) error
}

// Info is static service metadata shown in / and /api/v1/status.
type Info struct {
	Region      string
	Targets     []string
	LeadMinutes []int
}

// Handler holds shared dependencies for all endpoint handlers.
type Handler struct {
	settings  SettingsStore
	tester    Tester
	pipeline  PipelineStatus
	dbHealth  DBHealth
	info      Info
	logger    *slog.Logger
	startedAt time.Time
}

// New creates a Handler with shared dependencies.
func New(settings SettingsStore, tester Tester, pipeline PipelineStatus, dbHealth DBHealth, info Info, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		settings:  settings,
		tester:    tester,
		pipeline:  pipeline,
		dbHealth:  dbHealth,
		info:      info,
		logger:    logger,
		startedAt: time.Now(),
	}
}

// Root serves service info at /.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"name":    "AA Event Alert",
		"status":  "running",
		"region":  h.info.Region,
		"targets": h.info.Targets,
	})
}

// HealthCheck is the liveness probe: a fixed plain-text body so external
// probes need no JSON handling.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// HealthCheckDB verifies database connectivity.
func (h *Handler) HealthCheckDB(w http.ResponseWriter, r *http.Request) {
	if err := h.dbHealth.HealthCheck(r.Context()); err != nil {
		respond.WriteJSONObject(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":    "unhealthy",
			"database":  "disconnected",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"database":  "connected",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// upcomingDTO is a JSON-friendly view of a projected occurrence.
type upcomingDTO struct {
	Event string    `json:"event"`
	Next  time.Time `json:"next"`
}

// Status reports the current alert configuration and pipeline state.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	dest, err := h.settings.Destination(ctx)
	if err != nil {
		h.logger.Error("status: read destination failed", "error", err)
		respond.WriteError(w, http.StatusInternalServerError, "SETTINGS_READ", "Failed to read settings")
		return
	}
	mutedUntil, err := h.settings.MuteUntil(ctx)
	if err != nil {
		h.logger.Error("status: read mute failed", "error", err)
		respond.WriteError(w, http.StatusInternalServerError, "SETTINGS_READ", "Failed to read settings")
		return
	}

	lastRun, projections := h.pipeline.Snapshot()
	upcoming := make([]upcomingDTO, 0, len(projections))
	for _, p := range projections {
		upcoming = append(upcoming, upcomingDTO{Event: p.Event.Name, Next: p.Next})
	}

	status := map[string]interface{}{
		"region":         h.info.Region,
		"channel_id":     dest,
		"targets":        h.info.Targets,
		"lead_minutes":   h.info.LeadMinutes,
		"muted":          time.Now().Before(mutedUntil),
		"dedup_keys":     h.pipeline.StoreSize(),
		"uptime_seconds": int(time.Since(h.startedAt).Seconds()),
		"upcoming":       upcoming,
	}
	if !mutedUntil.IsZero() {
		status["muted_until"] = mutedUntil.UTC().Format(time.RFC3339)
	}
	if !lastRun.IsZero() {
		status["last_tick"] = lastRun.Format(time.RFC3339)
	}
	respond.WriteJSONObject(w, http.StatusOK, status)
}

// SetChannel updates the durable alert destination.
// POST /api/v1/channel {"channel_id": "..."}
func (h *Handler) SetChannel(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ChannelID string `json:"channel_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ChannelID == "" {
		respond.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "channel_id is required")
		return
	}
	if err := h.settings.SetDestination(r.Context(), req.ChannelID); err != nil {
		h.logger.Error("set channel failed", "error", err)
		respond.WriteError(w, http.StatusInternalServerError, "SETTINGS_WRITE", "Failed to store channel")
		return
	}
	h.logger.Info("alert channel updated", "channel_id", req.ChannelID)
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{"channel_id": req.ChannelID})
}

// Mute suppresses alert sends for the requested number of minutes.
// POST /api/v1/mute {"minutes": 30}
func (h *Handler) Mute(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Minutes int `json:"minutes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Minutes <= 0 {
		respond.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "minutes must be a positive integer")
		return
	}
	until := time.Now().UTC().Add(time.Duration(req.Minutes) * time.Minute)
	if err := h.settings.SetMute(r.Context(), until); err != nil {
		h.logger.Error("set mute failed", "error", err)
		respond.WriteError(w, http.StatusInternalServerError, "SETTINGS_WRITE", "Failed to store mute")
		return
	}
	h.logger.Info("alerts muted", "minutes", req.Minutes, "until", until.Format(time.RFC3339))
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"muted_until": until.Format(time.RFC3339),
	})
}

// Unmute clears any active mute window.
// DELETE /api/v1/mute
func (h *Handler) Unmute(w http.ResponseWriter, r *http.Request) {
	if err := h.settings.ClearMute(r.Context()); err != nil {
		h.logger.Error("clear mute failed", "error", err)
		respond.WriteError(w, http.StatusInternalServerError, "SETTINGS_WRITE", "Failed to clear mute")
		return
	}
	h.logger.Info("alerts unmuted")
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{"muted": false})
}

// TestAlert sends a test embed to the configured destination.
// POST /api/v1/test
func (h *Handler) TestAlert(w http.ResponseWriter, r *http.Request) {
	if err := h.tester.SendTest(r.Context()); err != nil {
		h.logger.Error("test alert failed", "error", err)
		respond.WriteErrorDetail(w, http.StatusBadGateway, "SEND_FAILED", "Test notification failed", err.Error())
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{"sent": true})
}

package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"eventpulse/internal/core"
	"eventpulse/internal/types"
)

// AlertService is the portfolio-side contract for alert reads, lifecycle
// transitions, and summary statistics. Implemented by portfolio.Service.
type AlertService interface {
	Alerts() []types.Alert
	Alert(alertID string) (types.Alert, error)
	Acknowledge(alertID string) (types.Alert, error)
	Stats(ctx context.Context) (types.PortfolioStats, error)
}

// AlertHandler serves the red alert collection, acknowledgement, and the
// AI-generated report endpoints for alerts.
type AlertHandler struct {
	svc     AlertService
	reports types.ReportGenerator
	logger  *slog.Logger
}

// NewAlertHandler creates a new AlertHandler with the provided dependencies.
func NewAlertHandler(svc AlertService, reports types.ReportGenerator, l *slog.Logger) *AlertHandler {
	if l == nil {
		l = slog.Default()
	}
	return &AlertHandler{
		svc:     svc,
		reports: reports,
		logger:  l,
	}
}

// RegisterRoutes mounts alert and stats routes on the provided chi.Router.
func (h *AlertHandler) RegisterRoutes(r chi.Router) {
	r.Route("/alerts", func(r chi.Router) {
		r.Get("/", h.List)

		r.Route("/{id}", func(r chi.Router) {
			r.Post("/ack", h.Acknowledge)
			r.Post("/playbook", h.Playbook)
			r.Post("/comms", h.Comms)
		})
	})

	r.Get("/stats", h.Stats)
}

// List handles GET /v1/alerts. Returns the currently tracked red alert set
// from the last completed detection pass.
func (h *AlertHandler) List(w http.ResponseWriter, r *http.Request) {
	alerts := h.svc.Alerts()
	if alerts == nil {
		alerts = []types.Alert{}
	}
	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: alerts})
}

// Acknowledge handles POST /v1/alerts/{id}/ack. Returns the alert with its
// updated lifecycle status.
func (h *AlertHandler) Acknowledge(w http.ResponseWriter, r *http.Request) {
	alert, err := h.svc.Acknowledge(chi.URLParam(r, "id"))
	if err != nil {
		core.Error(w, r, err)
		return
	}
	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: alert})
}

// Playbook handles POST /v1/alerts/{id}/playbook. The report generator
// degrades internally, so a reachable alert always yields 200 with Markdown.
func (h *AlertHandler) Playbook(w http.ResponseWriter, r *http.Request) {
	alert, err := h.svc.Alert(chi.URLParam(r, "id"))
	if err != nil {
		core.Error(w, r, err)
		return
	}

	report := h.reports.RemediationPlaybook(r.Context(), alert)
	core.JSON(w, r, http.StatusOK, core.APIResponse{
		Data: map[string]string{
			"alert_id": alert.ID,
			"kind":     string(types.ReportPlaybook),
			"content":  report,
		},
	})
}

// Comms handles POST /v1/alerts/{id}/comms. A comms pack that cannot be
// produced at all surfaces as an upstream error (502), unlike the Markdown
// reports which degrade to offline notices.
func (h *AlertHandler) Comms(w http.ResponseWriter, r *http.Request) {
	alert, err := h.svc.Alert(chi.URLParam(r, "id"))
	if err != nil {
		core.Error(w, r, err)
		return
	}

	pack, err := h.reports.AlertComms(r.Context(), alert)
	if err != nil {
		h.logger.WarnContext(r.Context(), "alert comms generation failed",
			"alert_id", alert.ID,
			"error", err,
		)
		core.Error(w, r, err)
		return
	}

	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: pack})
}

// Stats handles GET /v1/stats. Aggregated dashboard counters.
func (h *AlertHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Stats(r.Context())
	if err != nil {
		core.Error(w, r, err)
		return
	}
	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: stats})
}

// Package handlers contains the HTTP handler implementations for the
// EventPulse API: event portfolio CRUD, red alert operations, and the
// AI-generated report endpoints.
package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"eventpulse/internal/core"
	"eventpulse/internal/types"
)

// --- Service Interfaces ---
//
// Interfaces are defined locally following the handler injection pattern:
// handlers depend on abstractions for testability and to avoid coupling to
// concrete implementations.

// EventRepo defines the data access contract for event operations.
// Mirrors the concrete db.EventRepository methods used by this handler.
type EventRepo interface {
	Create(ctx context.Context, ev *types.Event) error
	GetByID(ctx context.Context, id string) (*types.Event, error)
	List(ctx context.Context) ([]types.Event, error)
	UpdateRegistrations(ctx context.Context, id string, current int) error
	Delete(ctx context.Context, id string) error
}

// Refresher triggers an immediate detection pass. Implemented by
// portfolio.Service; mutations call it so the alert set reflects the write
// without waiting for the next scheduled tick.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// --- Request Models ---

// CreateEventRequest is the request body for POST /v1/events.
type CreateEventRequest struct {
	Name                 string            `json:"name" validate:"required,max=200"`
	Region               types.Region      `json:"region" validate:"required"`
	Category             string            `json:"category" validate:"required,max=100"`
	Date                 time.Time         `json:"date" validate:"required"`
	TargetRegistrations  int               `json:"target_registrations" validate:"required,gt=0"`
	CurrentRegistrations int               `json:"current_registrations" validate:"gte=0"`
	Revenue              float64           `json:"revenue" validate:"gte=0"`
	Owner                string            `json:"owner,omitempty" validate:"omitempty,max=100"`
	Integrations         []string          `json:"integrations,omitempty" validate:"max=20,dive,max=50"`
	Coordinates          types.Coordinates `json:"coordinates"`
}

// UpdateRegistrationsRequest is the request body for
// PATCH /v1/events/{id}/registrations.
type UpdateRegistrationsRequest struct {
	CurrentRegistrations int `json:"current_registrations" validate:"gte=0"`
}

// --- Handler ---

// EventHandler manages event portfolio CRUD and the per-event AI analysis.
type EventHandler struct {
	repo      EventRepo
	refresher Refresher
	reports   types.ReportGenerator
	validator *core.Validator
	logger    *slog.Logger
}

// NewEventHandler creates a new EventHandler with the provided dependencies.
func NewEventHandler(
	repo EventRepo,
	refresher Refresher,
	reports types.ReportGenerator,
	v *core.Validator,
	l *slog.Logger,
) *EventHandler {
	if l == nil {
		l = slog.Default()
	}
	return &EventHandler{
		repo:      repo,
		refresher: refresher,
		reports:   reports,
		validator: v,
		logger:    l,
	}
}

// RegisterRoutes mounts event routes on the provided chi.Router.
func (h *EventHandler) RegisterRoutes(r chi.Router) {
	r.Route("/events", func(r chi.Router) {
		r.Post("/", h.Create)
		r.Get("/", h.List)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.Get)
			r.Patch("/registrations", h.UpdateRegistrations)
			r.Delete("/", h.Delete)
			r.Post("/analysis", h.Analysis)
		})
	})
}

// Create handles POST /v1/events.
//
//  1. Decode and validate the request body (struct tags, then domain rules).
//  2. Persist via Repo.Create.
//  3. Trigger an immediate detection pass (soft dependency).
//  4. Return 201 Created with the stored event.
func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateEventRequest
	if err := core.DecodeJSON(r, &req); err != nil {
		core.Error(w, r, err)
		return
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		core.Error(w, r, err)
		return
	}

	now := time.Now().UTC()
	ev := &types.Event{
		ID:                   "evt_" + uuid.New().String(),
		Name:                 req.Name,
		Region:               req.Region,
		Category:             req.Category,
		Date:                 req.Date.UTC(),
		TargetRegistrations:  req.TargetRegistrations,
		CurrentRegistrations: req.CurrentRegistrations,
		Revenue:              req.Revenue,
		Status:               types.EventStatusGreen,
		Owner:                req.Owner,
		Integrations:         req.Integrations,
		Coordinates:          req.Coordinates,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	// Domain-level rules beyond struct tags: region membership, coordinate
	// ranges, and the positive-target invariant the rule engine relies on.
	if err := ev.Validate(); err != nil {
		core.Error(w, r, err)
		return
	}
	if err := types.ValidateDateWindow(ev.Date, now); err != nil {
		core.Error(w, r, err)
		return
	}

	if err := h.repo.Create(r.Context(), ev); err != nil {
		core.Error(w, r, err)
		return
	}

	h.triggerRefresh(r.Context(), ev.ID)

	core.JSON(w, r, http.StatusCreated, core.APIResponse{Data: ev})
}

// List handles GET /v1/events. Returns the full portfolio ordered by date.
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	events, err := h.repo.List(r.Context())
	if err != nil {
		core.Error(w, r, err)
		return
	}
	if events == nil {
		events = []types.Event{}
	}
	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: events})
}

// Get handles GET /v1/events/{id}.
func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	ev, err := h.repo.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		core.Error(w, r, err)
		return
	}
	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: ev})
}

// UpdateRegistrations handles PATCH /v1/events/{id}/registrations.
// The counter write is followed by an immediate detection pass so an alert
// whose condition cleared (or newly fails) is visible on the next read.
func (h *EventHandler) UpdateRegistrations(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req UpdateRegistrationsRequest
	if err := core.DecodeJSON(r, &req); err != nil {
		core.Error(w, r, err)
		return
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		core.Error(w, r, err)
		return
	}

	if err := h.repo.UpdateRegistrations(r.Context(), id, req.CurrentRegistrations); err != nil {
		core.Error(w, r, err)
		return
	}

	h.triggerRefresh(r.Context(), id)

	ev, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		core.Error(w, r, err)
		return
	}
	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: ev})
}

// Delete handles DELETE /v1/events/{id}. The event's derived alert, if any,
// drops out of the tracked set on the triggered pass.
func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.repo.Delete(r.Context(), id); err != nil {
		core.Error(w, r, err)
		return
	}

	h.triggerRefresh(r.Context(), id)

	w.WriteHeader(http.StatusNoContent)
}

// Analysis handles POST /v1/events/{id}/analysis. The report generator
// degrades internally, so this always returns 200 with Markdown content.
func (h *EventHandler) Analysis(w http.ResponseWriter, r *http.Request) {
	ev, err := h.repo.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		core.Error(w, r, err)
		return
	}

	report := h.reports.EventAnalysis(r.Context(), *ev)
	core.JSON(w, r, http.StatusOK, core.APIResponse{
		Data: map[string]string{
			"event_id": ev.ID,
			"kind":     string(types.ReportAnalysis),
			"content":  report,
		},
	})
}

// triggerRefresh runs a detection pass after a mutation. Failures are logged,
// not surfaced: the scheduled loop will catch up on its next tick.
func (h *EventHandler) triggerRefresh(ctx context.Context, eventID string) {
	if h.refresher == nil {
		return
	}
	if err := h.refresher.Refresh(ctx); err != nil {
		h.logger.WarnContext(ctx, "post-mutation refresh failed",
			"event_id", eventID,
			"error", err,
		)
	}
}

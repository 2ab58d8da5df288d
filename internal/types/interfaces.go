package types

import (
	"context"
)

// Validator is implemented by entities to self-validate.
type Validator interface {
	Validate() error
}

// Logger is the minimal structured logging interface used by components that
// should not depend on a concrete logging implementation. *slog.Logger
// satisfies it via the SlogAdapter in the core package.
type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	With(args ...any) Logger
}

// EventRepository defines the data access interface for portfolio events.
// Implemented by db.EventRepository (PostgreSQL) and by in-memory stores in
// tests.
type EventRepository interface {
	Create(ctx context.Context, ev *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	List(ctx context.Context) ([]Event, error)
	UpdateRegistrations(ctx context.Context, id string, current int) error
	Delete(ctx context.Context, id string) error
}

// ReportGenerator is the contract with the external generative-AI
// collaborator. Implementations take one fully formed Alert or Event value,
// make one request, and await one response. Failures never surface as
// errors from the playbook/analysis operations; they return a degraded
// "unavailable" sentinel so callers can render a fallback state.
type ReportGenerator interface {
	// RemediationPlaybook returns a Markdown recovery plan for the alert.
	RemediationPlaybook(ctx context.Context, alert Alert) string
	// AlertComms returns multi-channel notification drafts for the alert.
	// The error is non-nil only when the upstream response could not be
	// produced at all; callers translate it to a degraded UI state.
	AlertComms(ctx context.Context, alert Alert) (*CommsPack, error)
	// EventAnalysis returns a Markdown executive summary for the event.
	EventAnalysis(ctx context.Context, ev Event) string
}

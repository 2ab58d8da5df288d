package types

import (
	"time"
)

// Event is the core domain entity representing a portfolio event. It is owned
// by the event store and read-only to the rule engine.
type Event struct {
	ID   string `json:"id" db:"id"`
	Name string `json:"name" db:"name"`

	// Classification
	Region   Region `json:"region" db:"region"`
	Category string `json:"category" db:"category"`

	// Schedule
	Date time.Time `json:"date" db:"date"`

	// Registration counters. TargetRegistrations must be positive; events
	// with a non-positive target are rejected at the ingestion boundary.
	TargetRegistrations  int `json:"target_registrations" db:"target_registrations"`
	CurrentRegistrations int `json:"current_registrations" db:"current_registrations"`

	// Commercials
	Revenue float64 `json:"revenue" db:"revenue"`

	// Meta
	Status       EventStatus `json:"status" db:"status"`
	Owner        string      `json:"owner" db:"owner"`
	Integrations []string    `json:"integrations" db:"integrations"`
	Coordinates  Coordinates `json:"coordinates" db:"-"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Coordinates is a geographic point for the portfolio map.
type Coordinates struct {
	Lat float64 `json:"lat" db:"coord_lat"`
	Lon float64 `json:"lon" db:"coord_lon"`
}

// AlertMetrics is the registration snapshot captured at detection time.
// Gap is always positive by construction: an alert is only emitted when
// CurrentReg < ceil(TargetReg * threshold fraction).
type AlertMetrics struct {
	DaysRemaining int `json:"days_remaining"`
	CurrentReg    int `json:"current_reg"`
	TargetReg     int `json:"target_reg"`
	Gap           int `json:"gap"`
}

// Alert is a derived, recomputable record produced by the rule engine.
// Its ID is deterministic ("alert-<eventID>") so the same underlying
// condition always maps to the same alert identity across detection passes.
//
// Status and TriggeredAt are lifecycle-owned: the detector stamps initial
// values, and reconciliation carries the previous values forward for alerts
// that persist across passes.
type Alert struct {
	ID          string        `json:"id"`
	EventID     string        `json:"event_id"`
	EventName   string        `json:"event_name"`
	Severity    AlertSeverity `json:"severity"`
	Status      AlertStatus   `json:"status"`
	TriggeredAt time.Time     `json:"triggered_at"`
	Condition   string        `json:"condition"`
	Metrics     AlertMetrics  `json:"metrics"`
	Assignee    string        `json:"assignee"`
}

// PortfolioStats contains aggregated counts for dashboard summary cards.
type PortfolioStats struct {
	TotalEvents         int     `json:"total_events"`
	RedAlertCount       int     `json:"red_alert_count"`
	TotalRevenue        float64 `json:"total_revenue"`
	GlobalRegistrations int     `json:"global_registrations"`
}

// CommsPack is the structured multi-channel notification draft returned by
// the AI report collaborator for a single alert.
type CommsPack struct {
	Email EmailDraft `json:"email"`
	Slack string     `json:"slack"`
	SMS   string     `json:"sms"`
}

// EmailDraft is the email portion of a CommsPack.
type EmailDraft struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

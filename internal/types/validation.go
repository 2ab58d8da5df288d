package types

import (
	"fmt"
	"time"
)

// Validation constraint constants.
const (
	MaxNameLength     = 200
	MaxOwnerLength    = 100
	MaxCategoryLength = 100
	MaxIntegrations   = 10
	MinLat            = -90.0
	MaxLat            = 90.0
	MinLon            = -180.0
	MaxLon            = 180.0
)

// Validate checks the Event's structural invariants. It is the ingestion
// boundary guard: an Event that fails here must never reach the detector.
// The non-positive target check resolves the divide-by-zero hazard in the
// registration ratio math.
func (e *Event) Validate() error {
	if e.ID == "" {
		return NewAppError(ErrCodeValidationMissingField, "event id is required", nil)
	}
	if e.Name == "" {
		return NewAppError(ErrCodeValidationMissingField, "event name is required", nil)
	}
	if len(e.Name) > MaxNameLength {
		return NewAppError(ErrCodeValidationMissingField,
			fmt.Sprintf("event name exceeds %d characters", MaxNameLength), nil)
	}
	if !validRegion(e.Region) {
		return NewAppError(ErrCodeValidationRegion,
			fmt.Sprintf("unknown region %q", e.Region), nil)
	}
	if e.Date.IsZero() {
		return NewAppError(ErrCodeValidationDate, "event date is required", nil)
	}
	if e.TargetRegistrations <= 0 {
		return NewAppError(ErrCodeValidationTarget,
			fmt.Sprintf("target registrations must be positive, got %d", e.TargetRegistrations), nil)
	}
	if e.CurrentRegistrations < 0 {
		return NewAppError(ErrCodeValidationRegistrations,
			fmt.Sprintf("current registrations must not be negative, got %d", e.CurrentRegistrations), nil)
	}
	if e.Status != "" && !validEventStatus(e.Status) {
		return NewAppError(ErrCodeValidationStatus,
			fmt.Sprintf("unknown event status %q", e.Status), nil)
	}
	if c := e.Coordinates; c != (Coordinates{}) {
		if c.Lat < MinLat || c.Lat > MaxLat || c.Lon < MinLon || c.Lon > MaxLon {
			return NewAppError(ErrCodeValidationCoordinates, "coordinates out of range", nil)
		}
	}
	return nil
}

func validRegion(r Region) bool {
	for _, v := range AllRegions {
		if r == v {
			return true
		}
	}
	return false
}

func validEventStatus(s EventStatus) bool {
	switch s {
	case EventStatusGreen, EventStatusAmber, EventStatusRed:
		return true
	}
	return false
}

// ValidateDateWindow ensures an event date is not absurdly far in the past or
// future relative to now. Events more than a year past are almost certainly
// stale imports; more than five years out is a data entry error.
func ValidateDateWindow(date, now time.Time) error {
	if date.Before(now.AddDate(-1, 0, 0)) {
		return NewAppError(ErrCodeValidationDate, "event date more than a year in the past", nil)
	}
	if date.After(now.AddDate(5, 0, 0)) {
		return NewAppError(ErrCodeValidationDate, "event date more than five years out", nil)
	}
	return nil
}

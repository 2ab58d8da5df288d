package types

import (
	"errors"
	"testing"
	"time"
)

func validEvent() *Event {
	return &Event{
		ID:                   "evt_1",
		Name:                 "Global AI Summit",
		Region:               RegionEMEA,
		Category:             "Summit",
		Date:                 time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
		TargetRegistrations:  600,
		CurrentRegistrations: 220,
		Revenue:              90000,
		Status:               EventStatusGreen,
	}
}

func TestEventValidate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Event)
		wantCode ErrorCode
	}{
		{
			name:   "valid event",
			mutate: func(e *Event) {},
		},
		{
			name:     "missing id",
			mutate:   func(e *Event) { e.ID = "" },
			wantCode: ErrCodeValidationMissingField,
		},
		{
			name:     "missing name",
			mutate:   func(e *Event) { e.Name = "" },
			wantCode: ErrCodeValidationMissingField,
		},
		{
			name: "name too long",
			mutate: func(e *Event) {
				b := make([]byte, MaxNameLength+1)
				for i := range b {
					b[i] = 'x'
				}
				e.Name = string(b)
			},
			wantCode: ErrCodeValidationMissingField,
		},
		{
			name:     "unknown region",
			mutate:   func(e *Event) { e.Region = "Atlantis" },
			wantCode: ErrCodeValidationRegion,
		},
		{
			name:     "zero date",
			mutate:   func(e *Event) { e.Date = time.Time{} },
			wantCode: ErrCodeValidationDate,
		},
		{
			name:     "zero target",
			mutate:   func(e *Event) { e.TargetRegistrations = 0 },
			wantCode: ErrCodeValidationTarget,
		},
		{
			name:     "negative target",
			mutate:   func(e *Event) { e.TargetRegistrations = -5 },
			wantCode: ErrCodeValidationTarget,
		},
		{
			name:     "negative current registrations",
			mutate:   func(e *Event) { e.CurrentRegistrations = -1 },
			wantCode: ErrCodeValidationRegistrations,
		},
		{
			name:     "unknown status",
			mutate:   func(e *Event) { e.Status = "PURPLE" },
			wantCode: ErrCodeValidationStatus,
		},
		{
			name:   "empty status allowed",
			mutate: func(e *Event) { e.Status = "" },
		},
		{
			name:     "latitude out of range",
			mutate:   func(e *Event) { e.Coordinates = Coordinates{Lat: 91, Lon: 0.1} },
			wantCode: ErrCodeValidationCoordinates,
		},
		{
			name:     "longitude out of range",
			mutate:   func(e *Event) { e.Coordinates = Coordinates{Lat: 51.5, Lon: -190} },
			wantCode: ErrCodeValidationCoordinates,
		},
		{
			name:   "zero coordinates skipped",
			mutate: func(e *Event) { e.Coordinates = Coordinates{} },
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ev := validEvent()
			tc.mutate(ev)
			err := ev.Validate()

			if tc.wantCode == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			var appErr *AppError
			if !errors.As(err, &appErr) {
				t.Fatalf("Validate() = %v, want *AppError", err)
			}
			if appErr.Code != tc.wantCode {
				t.Errorf("code = %s, want %s", appErr.Code, tc.wantCode)
			}
		})
	}
}

func TestValidateDateWindow(t *testing.T) {
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		date    time.Time
		wantErr bool
	}{
		{"tomorrow", now.AddDate(0, 0, 1), false},
		{"yesterday", now.AddDate(0, 0, -1), false},
		{"eleven months ago", now.AddDate(0, -11, 0), false},
		{"over a year ago", now.AddDate(-1, 0, -1), true},
		{"four years out", now.AddDate(4, 0, 0), false},
		{"over five years out", now.AddDate(5, 0, 1), true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateDateWindow(tc.date, now)
			if tc.wantErr && err == nil {
				t.Fatal("ValidateDateWindow() = nil, want error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("ValidateDateWindow() = %v, want nil", err)
			}
			if tc.wantErr {
				var appErr *AppError
				if !errors.As(err, &appErr) || appErr.Code != ErrCodeValidationDate {
					t.Errorf("error = %v, want code %s", err, ErrCodeValidationDate)
				}
			}
		})
	}
}

package rules

import (
	"fmt"
	"math"
	"time"

	"eventpulse/internal/types"
)

// AlertWindowDays is the 10-Day Rule window: an event is eligible for
// alerting when it occurs within this many days and is under its category
// threshold. The window is a fixed policy value, named here so boundary
// tests can reference it.
const AlertWindowDays = 10

// AlertIDPrefix derives the deterministic alert identity from an event ID.
const AlertIDPrefix = "alert-"

// AlertID returns the stable alert identity for an event. The same
// underlying condition always maps to the same alert ID across passes.
func AlertID(eventID string) string {
	return AlertIDPrefix + eventID
}

// DaysRemaining computes the calendar-day countdown from now to the event
// date using ceiling semantics: ceil((date - now) / 24h). Ceiling, not floor
// or round, is a hard boundary requirement -- an event 10 days and one hour
// out must still land in the 11-day bucket, and one exactly 10*24h out lands
// on exactly 10. Past events produce negative values.
func DaysRemaining(date, now time.Time) int {
	return int(math.Ceil(date.Sub(now).Hours() / 24))
}

// Detect scans the event snapshot and returns one alert per event currently
// violating the 10-Day Rule:
//
//	0 <= daysRemaining <= AlertWindowDays AND current < ceil(target * fraction)
//
// The lower bound excludes events that have already occurred. Detect is
// stateless and idempotent: identical (events, now) inputs yield identical
// output, and input event order is preserved. Status is stamped NEW and
// TriggeredAt is stamped with the pass time; both are subsequently governed
// by Tracker.Reconcile, not by the detector.
//
// Events with a non-positive registration target are skipped: the required
// count degenerates to zero, which no registration count can undercut. The
// ingestion boundary rejects such events before they reach a snapshot.
func Detect(events []types.Event, now time.Time) []types.Alert {
	var alerts []types.Alert

	for _, ev := range events {
		days := DaysRemaining(ev.Date, now)
		if days < 0 || days > AlertWindowDays {
			continue
		}

		fraction := RequiredFraction(ev.Category)
		required := RequiredRegistrations(ev.TargetRegistrations, fraction)
		if ev.CurrentRegistrations >= required {
			continue
		}

		alerts = append(alerts, types.Alert{
			ID:          AlertID(ev.ID),
			EventID:     ev.ID,
			EventName:   ev.Name,
			Severity:    types.SeverityCritical,
			Status:      types.AlertStatusNew,
			TriggeredAt: now,
			Condition:   conditionSummary(days, fraction),
			Metrics: types.AlertMetrics{
				DaysRemaining: days,
				CurrentReg:    ev.CurrentRegistrations,
				TargetReg:     ev.TargetRegistrations,
				Gap:           required - ev.CurrentRegistrations,
			},
			Assignee: ev.Owner,
		})
	}

	return alerts
}

// conditionSummary renders the human-readable trigger description shown in
// the alert queue, e.g. "T-9 Days: < 70% Regs".
func conditionSummary(days int, fraction float64) string {
	return fmt.Sprintf("T-%d Days: < %.0f%% Regs", days, fraction*100)
}

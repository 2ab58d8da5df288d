// Package rules implements the red alert rule engine: the deterministic
// logic that scans the event portfolio, computes per-event registration risk
// against category-specific thresholds, and maintains alert lifecycle state
// across detection passes.
//
// The engine is pure computation. It performs no I/O, reads no clocks, and
// holds no hidden state: Detect is idempotent given identical inputs, and the
// only state carried between passes is what Tracker.Reconcile explicitly
// merges by alert identity.
package rules

import (
	"math"
	"strings"
)

// Category threshold fractions: the minimum acceptable ratio of current to
// target registrations once an event is inside the alert window. Virtual
// formats convert registrations to attendance at a much lower rate, so they
// carry the highest bar.
const (
	ThresholdVirtual  = 0.80
	ThresholdSummit   = 0.70
	ThresholdStandard = 0.60
)

// RequiredFraction maps an event category to its minimum acceptable
// registration fraction. Matching is case-insensitive substring containment
// ("Mini-Summit 2024" matches "summit"), first match wins, and unmatched
// categories fall through to the standard threshold. The function is total:
// there is no error case.
func RequiredFraction(category string) float64 {
	c := strings.ToLower(category)
	switch {
	case strings.Contains(c, "webinar"), strings.Contains(c, "virtual"):
		return ThresholdVirtual
	case strings.Contains(c, "summit"):
		return ThresholdSummit
	case strings.Contains(c, "expo"), strings.Contains(c, "conference"):
		return ThresholdStandard
	default:
		return ThresholdStandard
	}
}

// RequiredRegistrations returns the registration count an event must reach
// to stay clear of the rule: ceil(target * fraction). A non-positive target
// yields zero, which can never be undercut, so such events never trigger.
func RequiredRegistrations(target int, fraction float64) int {
	if target <= 0 {
		return 0
	}
	return int(math.Ceil(float64(target) * fraction))
}

package rules

import (
	"sync"

	"eventpulse/internal/types"
)

// Reconcile merges a freshly detected alert set with the previously tracked
// set by alert identity:
//
//   - a fresh alert matching a previous one keeps the previous Status and the
//     previous TriggeredAt, so acknowledging an alert survives recomputation
//     and the first-detection clock is never reset by a refresh;
//   - a fresh alert with no prior match keeps its detector-stamped NEW status
//     and pass-time TriggeredAt;
//   - previous alerts absent from the fresh set are dropped -- their
//     underlying condition resolved.
//
// The fresh slice's order is preserved. Inputs are not mutated; the result
// is a new slice.
func Reconcile(previous, fresh []types.Alert) []types.Alert {
	prior := make(map[string]types.Alert, len(previous))
	for _, a := range previous {
		prior[a.ID] = a
	}

	out := make([]types.Alert, 0, len(fresh))
	for _, a := range fresh {
		if p, ok := prior[a.ID]; ok {
			a.Status = p.Status
			a.TriggeredAt = p.TriggeredAt
		}
		out = append(out, a)
	}
	return out
}

// Tracker holds the reconciled alert collection and its lifecycle state.
// It is the single stateful component of the rule engine: detection output
// flows through Apply, and explicit user actions flow through Transition.
// All methods are safe for concurrent use; the host layer calls Apply from
// its refresh loop and Transition from HTTP handlers.
type Tracker struct {
	mu     sync.RWMutex
	alerts []types.Alert
}

// NewTracker returns an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Apply reconciles a freshly detected alert set against the tracked set and
// replaces the tracked collection with the result.
func (t *Tracker) Apply(fresh []types.Alert) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.alerts = Reconcile(t.alerts, fresh)
}

// Alerts returns a copy of the tracked alert collection.
func (t *Tracker) Alerts() []types.Alert {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]types.Alert, len(t.alerts))
	copy(out, t.alerts)
	return out
}

// Get returns the tracked alert with the given ID.
func (t *Tracker) Get(alertID string) (types.Alert, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, a := range t.alerts {
		if a.ID == alertID {
			return a, true
		}
	}
	return types.Alert{}, false
}

// Transition updates the status of a single tracked alert in place.
//
// Any declared AlertStatus is accepted as a target: the platform only
// exercises NEW -> ACKNOWLEDGED today, and Escalated/Resolved have no
// automatic triggers, but the operation itself is generic so future
// workflows do not require an engine change. An undeclared status is a
// conflict; an unknown alert ID reports not-found rather than failing the
// caller.
func (t *Tracker) Transition(alertID string, target types.AlertStatus) error {
	if !target.Valid() {
		return types.NewAppError(types.ErrCodeConflictTransition,
			"unknown target status "+string(target), nil)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.alerts {
		if t.alerts[i].ID == alertID {
			t.alerts[i].Status = target
			return nil
		}
	}
	return types.NewAppError(types.ErrCodeNotFoundAlert,
		"no tracked alert with id "+alertID, nil)
}

// Len returns the number of tracked alerts.
func (t *Tracker) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.alerts)
}

// Package portfolio hosts the event portfolio service: the stateful bridge
// between the event store, the alert rule engine, and the HTTP API. It owns
// the periodic refresh loop that recomputes the red alert set from the
// current portfolio.
package portfolio

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"eventpulse/internal/rules"
	"eventpulse/internal/types"
)

// Service loads the event portfolio, runs detection passes, and exposes the
// reconciled alert collection and aggregate statistics. All methods are safe
// for concurrent use.
type Service struct {
	repo    types.EventRepository
	tracker *rules.Tracker
	clock   types.Clock
	logger  *slog.Logger

	interval time.Duration

	mu          sync.RWMutex
	lastRefresh time.Time
}

// ServiceConfig holds the configuration for creating a portfolio Service.
type ServiceConfig struct {
	Repo            types.EventRepository
	Clock           types.Clock
	Logger          *slog.Logger
	RefreshInterval time.Duration
}

// NewService creates a portfolio Service with an empty alert set. The caller
// runs an initial Refresh (or the Run loop) to populate it.
func NewService(cfg ServiceConfig) *Service {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	clock := cfg.Clock
	if clock == nil {
		clock = types.SystemClock{}
	}
	interval := cfg.RefreshInterval
	if interval <= 0 {
		interval = time.Minute
	}
	return &Service{
		repo:     cfg.Repo,
		tracker:  rules.NewTracker(),
		clock:    clock,
		logger:   logger,
		interval: interval,
	}
}

// Refresh loads the full portfolio, runs one detection pass against the
// current clock, and reconciles the result into the tracked alert set.
// Acknowledgements and first-trigger timestamps survive the pass.
func (s *Service) Refresh(ctx context.Context) error {
	events, err := s.repo.List(ctx)
	if err != nil {
		return err
	}

	now := s.clock.Now()
	fresh := rules.Detect(events, now)
	s.tracker.Apply(fresh)

	s.mu.Lock()
	s.lastRefresh = now
	s.mu.Unlock()

	s.logger.Info("portfolio refreshed",
		slog.Int("events", len(events)),
		slog.Int("red_alerts", s.tracker.Len()),
	)
	return nil
}

// Run executes Refresh immediately and then on every tick until the context
// is cancelled. Refresh failures are logged and retried on the next tick
// rather than terminating the loop; the context error is the only way out.
func (s *Service) Run(ctx context.Context) error {
	if err := s.Refresh(ctx); err != nil {
		s.logger.Error("initial portfolio refresh failed", slog.String("error", err.Error()))
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := s.Refresh(ctx); err != nil {
				s.logger.Error("portfolio refresh failed", slog.String("error", err.Error()))
			}
		}
	}
}

// Alerts returns the tracked red alert collection.
func (s *Service) Alerts() []types.Alert {
	return s.tracker.Alerts()
}

// Alert returns a single tracked alert. Returns ErrCodeNotFoundAlert if no
// alert with the given ID is currently tracked.
func (s *Service) Alert(alertID string) (types.Alert, error) {
	a, ok := s.tracker.Get(alertID)
	if !ok {
		return types.Alert{}, types.NewAppError(types.ErrCodeNotFoundAlert,
			"no tracked alert with id "+alertID, nil)
	}
	return a, nil
}

// Acknowledge marks an alert as acknowledged and returns its updated state.
func (s *Service) Acknowledge(alertID string) (types.Alert, error) {
	return s.Transition(alertID, types.AlertStatusAcknowledged)
}

// Transition moves an alert to the target lifecycle status and returns its
// updated state.
func (s *Service) Transition(alertID string, target types.AlertStatus) (types.Alert, error) {
	if err := s.tracker.Transition(alertID, target); err != nil {
		return types.Alert{}, err
	}
	a, _ := s.tracker.Get(alertID)
	return a, nil
}

// Stats aggregates the portfolio into the dashboard summary counters.
// Event totals come from the store; the red alert count comes from the
// tracked set, so it reflects the last completed detection pass.
func (s *Service) Stats(ctx context.Context) (types.PortfolioStats, error) {
	events, err := s.repo.List(ctx)
	if err != nil {
		return types.PortfolioStats{}, err
	}

	stats := types.PortfolioStats{
		TotalEvents:   len(events),
		RedAlertCount: s.tracker.Len(),
	}
	for _, ev := range events {
		stats.TotalRevenue += ev.Revenue
		stats.GlobalRegistrations += ev.CurrentRegistrations
	}
	return stats, nil
}

// LastRefresh reports when the most recent successful detection pass ran.
// Zero if no pass has completed yet.
func (s *Service) LastRefresh() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastRefresh
}

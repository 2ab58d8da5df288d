package advisor

import (
	"context"
	"fmt"
	"log/slog"

	"eventpulse/internal/types"
)

// StubGenerator implements types.ReportGenerator by logging calls and
// returning deterministic templated reports. Used when GEMINI_API_KEY is
// unset so the dashboard boots in local mode without upstream credentials.
type StubGenerator struct {
	logger *slog.Logger
}

// NewStubGenerator creates a new StubGenerator.
func NewStubGenerator(logger *slog.Logger) *StubGenerator {
	return &StubGenerator{logger: logger}
}

func (s *StubGenerator) RemediationPlaybook(ctx context.Context, alert types.Alert) string {
	s.logger.InfoContext(ctx, "stub: RemediationPlaybook called",
		"alert_id", alert.ID,
	)
	return fmt.Sprintf(`## Red Alert Remediation Playbook (Local Stub)

**Event:** %s

1. **Root Cause Analysis**: %d registrations short of target with %d days remaining.
2. **Immediate Recovery Actions**: review campaign performance and re-engage the waitlist.
3. **Budget Allocation Recommendation**: not available in local mode.
4. **Probability of Success**: Unknown (advisor offline).`,
		alert.EventName, alert.Metrics.Gap, alert.Metrics.DaysRemaining)
}

func (s *StubGenerator) AlertComms(ctx context.Context, alert types.Alert) (*types.CommsPack, error) {
	s.logger.InfoContext(ctx, "stub: AlertComms called",
		"alert_id", alert.ID,
	)
	return &types.CommsPack{
		Email: types.EmailDraft{
			Subject: fmt.Sprintf("RED ALERT: %s is %d registrations behind target", alert.EventName, alert.Metrics.Gap),
			Body: fmt.Sprintf("<p>%s has %d days remaining and sits at %d of %d registrations. Immediate action required.</p>",
				alert.EventName, alert.Metrics.DaysRemaining, alert.Metrics.CurrentReg, alert.Metrics.TargetReg),
		},
		Slack: fmt.Sprintf(":rotating_light: *%s* triggered the 10-day rule (%s). Gap: %d registrations.",
			alert.EventName, alert.Condition, alert.Metrics.Gap),
		SMS: fmt.Sprintf("RED ALERT %s: %d regs needed in %d days.",
			alert.EventName, alert.Metrics.Gap, alert.Metrics.DaysRemaining),
	}, nil
}

func (s *StubGenerator) EventAnalysis(ctx context.Context, ev types.Event) string {
	s.logger.InfoContext(ctx, "stub: EventAnalysis called",
		"event_id", ev.ID,
	)
	return fmt.Sprintf(`## Executive Summary (Local Stub)

%s is at %d of %d registrations. Connect a live advisor API key for a full analysis.`,
		ev.Name, ev.CurrentRegistrations, ev.TargetRegistrations)
}

package advisor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"eventpulse/internal/config"
	"eventpulse/internal/rules"
	"eventpulse/internal/types"
)

// Degraded sentinels returned when the upstream cannot produce a report.
// The dashboard renders these verbatim, so they stay human-readable Markdown.
const (
	playbookUnavailable = "## Remediation Engine Offline\nUnable to generate a recovery plan. Check advisor connectivity and API key configuration."
	analysisUnavailable = "## Analysis System Offline\nUnable to connect to the forecasting engine. Check advisor connectivity and API key configuration."
)

// maxResponseBodySize caps the advisor response read (1 MB).
const maxResponseBodySize = 1 << 20

// Gemini calls the Google Generative Language REST API to produce alert
// remediation playbooks, notification drafts, and event analyses. It
// implements types.ReportGenerator.
type Gemini struct {
	base    *BaseClient
	baseURL string
	model   string
	apiKey  types.SecretString
	logger  *slog.Logger
}

// NewGemini constructs the advisor client from configuration. The breaker is
// shared across all report operations since they target the same upstream.
func NewGemini(cfg config.AdvisorConfig, logger *slog.Logger) *Gemini {
	httpClient := &http.Client{Timeout: cfg.Timeout}
	return &Gemini{
		base:    NewBaseClient(httpClient, "gemini", DefaultRetryPolicy(), "eventpulse-advisor/1.0"),
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		model:   cfg.Model,
		apiKey:  cfg.APIKey,
		logger:  logger,
	}
}

// generationConfig mirrors the generationConfig block of the REST API.
type generationConfig struct {
	Temperature      float64 `json:"temperature,omitempty"`
	MaxOutputTokens  int     `json:"maxOutputTokens,omitempty"`
	ResponseMimeType string  `json:"responseMimeType,omitempty"`
}

type generateRequest struct {
	Contents []content `json:"contents"`
	Config   *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// generate issues one generateContent call and returns the first candidate's
// text. All transport failures surface as AppErrors from the BaseClient.
func (g *Gemini) generate(ctx context.Context, prompt string, cfg *generationConfig) (string, error) {
	reqBody := generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
		Config:   cfg,
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", types.NewAppError(types.ErrCodeInternalUnexpected, "failed to encode advisor request", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", g.baseURL, g.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", types.NewAppError(types.ErrCodeInternalUnexpected, "failed to build advisor request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.apiKey.Unmask())

	resp, err := g.base.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", types.NewAppError(
			types.ErrCodeUpstreamAdvisor,
			fmt.Sprintf("advisor returned status %d", resp.StatusCode),
			nil,
		)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize))
	if err != nil {
		return "", types.NewAppError(types.ErrCodeUpstreamAdvisor, "failed to read advisor response", err)
	}

	var out generateResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", types.NewAppError(types.ErrCodeUpstreamAdvisor, "advisor response is not valid JSON", err)
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", types.NewAppError(types.ErrCodeUpstreamAdvisor, "advisor returned no candidates", nil)
	}

	return out.Candidates[0].Content.Parts[0].Text, nil
}

// RemediationPlaybook returns a Markdown recovery plan for a triggered alert.
// Upstream failures degrade to a static offline notice rather than an error.
func (g *Gemini) RemediationPlaybook(ctx context.Context, alert types.Alert) string {
	prompt := fmt.Sprintf(`Create a "Red Alert Remediation Playbook" for this distressed event.

Event: %s
Gap: %d registrations needed in %d days.
Condition: %s

Provide a structured response:
1. Root Cause Analysis (Why are we here?)
2. Immediate Recovery Actions (Next 24 Hours)
3. Budget Allocation Recommendation (Ad Spend boost calculation)
4. Probability of Success (Low/Medium/High)

Format in clean Markdown with headers.`,
		alert.EventName, alert.Metrics.Gap, alert.Metrics.DaysRemaining, alert.Condition)

	text, err := g.generate(ctx, prompt, &generationConfig{Temperature: 0.7, MaxOutputTokens: 800})
	if err != nil {
		g.logger.Warn("remediation playbook generation failed",
			slog.String("alert_id", alert.ID),
			slog.String("error", err.Error()),
		)
		return playbookUnavailable
	}
	if strings.TrimSpace(text) == "" {
		return playbookUnavailable
	}
	return text
}

// AlertComms returns multi-channel notification drafts for an alert. Unlike
// the Markdown reports, a malformed or missing upstream response surfaces as
// an error so the handler can return a degraded state explicitly.
func (g *Gemini) AlertComms(ctx context.Context, alert types.Alert) (*types.CommsPack, error) {
	prompt := fmt.Sprintf(`Generate a multi-channel Red Alert notification pack for an underperforming event.

Context:
Event: %s
Status: CRITICAL (10-Day Rule Violation)
Current Registrations: %d
Target: %d
Gap: %d
Days Remaining: %d

Output three distinct messages in a valid JSON object.

Schema:
{
  "email": {
    "subject": "Subject Line",
    "body": "Formal HTML body content"
  },
  "slack": "Urgent slack message content",
  "sms": "Brief SMS message"
}`,
		alert.EventName, alert.Metrics.CurrentReg, alert.Metrics.TargetReg,
		alert.Metrics.Gap, alert.Metrics.DaysRemaining)

	text, err := g.generate(ctx, prompt, &generationConfig{
		Temperature:      0.8,
		ResponseMimeType: "application/json",
	})
	if err != nil {
		return nil, err
	}

	var pack types.CommsPack
	if err := json.Unmarshal([]byte(cleanJSON(text)), &pack); err != nil {
		return nil, types.NewAppError(types.ErrCodeUpstreamAdvisor, "advisor comms pack is not valid JSON", err)
	}
	return &pack, nil
}

// EventAnalysis returns a Markdown executive summary for an event. Upstream
// failures degrade to a static offline notice rather than an error.
func (g *Gemini) EventAnalysis(ctx context.Context, ev types.Event) string {
	days := rules.DaysRemaining(ev.Date, time.Now().UTC())
	percentage := 0
	if ev.TargetRegistrations > 0 {
		percentage = int(float64(ev.CurrentRegistrations) / float64(ev.TargetRegistrations) * 100)
	}

	prompt := fmt.Sprintf(`You are an expert Event Intelligence Consultant.
Analyze the following event status and provide an executive summary and 3 specific remediation actions.

Event: %s
Region: %s
Category: %s
Days Remaining: %d
Current Registrations: %d
Target: %d
Progress: %d%%
Status: %s

The "10-Day Red Alert Rule" is active: If days < 10 and registrations < 60%%, immediate action is required.

Format the response in Markdown:
## Executive Summary
[Brief analysis of risk level]

## Recommended Playbook Actions
1. [Action 1]
2. [Action 2]
3. [Action 3]

## Forecast
[Short prediction based on typical late-stage curves]`,
		ev.Name, ev.Region, ev.Category, days,
		ev.CurrentRegistrations, ev.TargetRegistrations, percentage, ev.Status)

	text, err := g.generate(ctx, prompt, &generationConfig{Temperature: 0.7, MaxOutputTokens: 500})
	if err != nil {
		g.logger.Warn("event analysis generation failed",
			slog.String("event_id", ev.ID),
			slog.String("error", err.Error()),
		)
		return analysisUnavailable
	}
	if strings.TrimSpace(text) == "" {
		return analysisUnavailable
	}
	return text
}

// cleanJSON strips Markdown code fences from model output. Models sometimes
// wrap JSON in fences despite responseMimeType hints.
func cleanJSON(text string) string {
	cleaned := strings.TrimSpace(text)
	if cleaned == "" {
		return "{}"
	}
	if strings.HasPrefix(cleaned, "```json") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
	} else if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```")
	}
	cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned), "```")
	return strings.TrimSpace(cleaned)
}

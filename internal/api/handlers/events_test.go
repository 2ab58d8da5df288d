package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventpulse/internal/core"
	"eventpulse/internal/types"
)

// =============================================================================
// Mock Implementations
// =============================================================================

type mockEventRepo struct {
	createFn              func(ctx context.Context, ev *types.Event) error
	getByIDFn             func(ctx context.Context, id string) (*types.Event, error)
	listFn                func(ctx context.Context) ([]types.Event, error)
	updateRegistrationsFn func(ctx context.Context, id string, current int) error
	deleteFn              func(ctx context.Context, id string) error

	// Track calls for assertions.
	lastCreated *types.Event
}

func (m *mockEventRepo) Create(ctx context.Context, ev *types.Event) error {
	m.lastCreated = ev
	if m.createFn != nil {
		return m.createFn(ctx, ev)
	}
	return nil
}

func (m *mockEventRepo) GetByID(ctx context.Context, id string) (*types.Event, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return &types.Event{
		ID:                   id,
		Name:                 "Global AI Summit",
		Region:               types.RegionEMEA,
		Category:             "Summit",
		Date:                 time.Now().UTC().Add(9 * 24 * time.Hour),
		TargetRegistrations:  600,
		CurrentRegistrations: 220,
		Revenue:              125000,
		Status:               types.EventStatusRed,
	}, nil
}

func (m *mockEventRepo) List(ctx context.Context) ([]types.Event, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func (m *mockEventRepo) UpdateRegistrations(ctx context.Context, id string, current int) error {
	if m.updateRegistrationsFn != nil {
		return m.updateRegistrationsFn(ctx, id, current)
	}
	return nil
}

func (m *mockEventRepo) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

type mockRefresher struct {
	calls     int
	refreshFn func(ctx context.Context) error
}

func (m *mockRefresher) Refresh(ctx context.Context) error {
	m.calls++
	if m.refreshFn != nil {
		return m.refreshFn(ctx)
	}
	return nil
}

type mockReports struct {
	playbookFn func(ctx context.Context, alert types.Alert) string
	commsFn    func(ctx context.Context, alert types.Alert) (*types.CommsPack, error)
	analysisFn func(ctx context.Context, ev types.Event) string
}

func (m *mockReports) RemediationPlaybook(ctx context.Context, alert types.Alert) string {
	if m.playbookFn != nil {
		return m.playbookFn(ctx, alert)
	}
	return "## Playbook"
}

func (m *mockReports) AlertComms(ctx context.Context, alert types.Alert) (*types.CommsPack, error) {
	if m.commsFn != nil {
		return m.commsFn(ctx, alert)
	}
	return &types.CommsPack{Email: types.EmailDraft{Subject: "s", Body: "b"}, Slack: "sl", SMS: "sm"}, nil
}

func (m *mockReports) EventAnalysis(ctx context.Context, ev types.Event) string {
	if m.analysisFn != nil {
		return m.analysisFn(ctx, ev)
	}
	return "## Executive Summary"
}

// =============================================================================
// Test Harness
// =============================================================================

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newEventRouter mounts an EventHandler the way MountRoutes does under /v1.
func newEventRouter(repo *mockEventRepo, refresher *mockRefresher, reports types.ReportGenerator) *chi.Mux {
	h := NewEventHandler(repo, refresher, reports, core.NewValidator(testLogger()), testLogger())
	r := chi.NewRouter()
	r.Route("/v1", h.RegisterRoutes)
	return r
}

func validCreateBody() map[string]any {
	return map[string]any{
		"name":                  "Global AI Summit",
		"region":                "EMEA",
		"category":              "Summit",
		"date":                  time.Now().UTC().Add(30 * 24 * time.Hour).Format(time.RFC3339),
		"target_registrations":  600,
		"current_registrations": 220,
		"revenue":               125000,
		"owner":                 "j.doe",
		"coordinates":           map[string]float64{"lat": 51.5, "lon": -0.12},
	}
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

// =============================================================================
// Create
// =============================================================================

func TestEventCreate_Success(t *testing.T) {
	repo := &mockEventRepo{}
	refresher := &mockRefresher{}
	router := newEventRouter(repo, refresher, &mockReports{})

	rec := doJSON(t, router, http.MethodPost, "/v1/events", validCreateBody())

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.NotNil(t, repo.lastCreated)
	assert.True(t, strings.HasPrefix(repo.lastCreated.ID, "evt_"))
	assert.Equal(t, "Global AI Summit", repo.lastCreated.Name)
	assert.Equal(t, types.EventStatusGreen, repo.lastCreated.Status)
	assert.Equal(t, 1, refresher.calls, "create must trigger a detection pass")
}

func TestEventCreate_RejectsZeroTarget(t *testing.T) {
	repo := &mockEventRepo{}
	router := newEventRouter(repo, &mockRefresher{}, &mockReports{})

	body := validCreateBody()
	body["target_registrations"] = 0

	rec := doJSON(t, router, http.MethodPost, "/v1/events", body)

	require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	assert.Nil(t, repo.lastCreated)
}

func TestEventCreate_RejectsNegativeTarget(t *testing.T) {
	router := newEventRouter(&mockEventRepo{}, &mockRefresher{}, &mockReports{})

	body := validCreateBody()
	body["target_registrations"] = -5

	rec := doJSON(t, router, http.MethodPost, "/v1/events", body)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEventCreate_RejectsUnknownRegion(t *testing.T) {
	router := newEventRouter(&mockEventRepo{}, &mockRefresher{}, &mockReports{})

	body := validCreateBody()
	body["region"] = "Atlantis"

	rec := doJSON(t, router, http.MethodPost, "/v1/events", body)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp core.APIErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, string(types.ErrCodeValidationRegion), resp.Error.Code)
}

func TestEventCreate_RejectsMalformedBody(t *testing.T) {
	router := newEventRouter(&mockEventRepo{}, &mockRefresher{}, &mockReports{})

	req := httptest.NewRequest(http.MethodPost, "/v1/events", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEventCreate_RefreshFailureDoesNotBlock(t *testing.T) {
	refresher := &mockRefresher{refreshFn: func(ctx context.Context) error {
		return errors.New("detector busy")
	}}
	router := newEventRouter(&mockEventRepo{}, refresher, &mockReports{})

	rec := doJSON(t, router, http.MethodPost, "/v1/events", validCreateBody())
	require.Equal(t, http.StatusCreated, rec.Code)
}

// =============================================================================
// List / Get
// =============================================================================

func TestEventList_Success(t *testing.T) {
	repo := &mockEventRepo{listFn: func(ctx context.Context) ([]types.Event, error) {
		return []types.Event{{ID: "evt_1"}, {ID: "evt_2"}}, nil
	}}
	router := newEventRouter(repo, &mockRefresher{}, &mockReports{})

	rec := doJSON(t, router, http.MethodGet, "/v1/events", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data []types.Event `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, 2)
}

func TestEventList_EmptyPortfolioReturnsArray(t *testing.T) {
	router := newEventRouter(&mockEventRepo{}, &mockRefresher{}, &mockReports{})

	rec := doJSON(t, router, http.MethodGet, "/v1/events", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"data":[]`)
}

func TestEventGet_NotFound(t *testing.T) {
	repo := &mockEventRepo{getByIDFn: func(ctx context.Context, id string) (*types.Event, error) {
		return nil, types.NewAppError(types.ErrCodeNotFoundEvent, "event not found", nil)
	}}
	router := newEventRouter(repo, &mockRefresher{}, &mockReports{})

	rec := doJSON(t, router, http.MethodGet, "/v1/events/evt_missing", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

// =============================================================================
// UpdateRegistrations / Delete
// =============================================================================

func TestEventUpdateRegistrations_Success(t *testing.T) {
	var gotID string
	var gotCount int
	repo := &mockEventRepo{updateRegistrationsFn: func(ctx context.Context, id string, current int) error {
		gotID, gotCount = id, current
		return nil
	}}
	refresher := &mockRefresher{}
	router := newEventRouter(repo, refresher, &mockReports{})

	rec := doJSON(t, router, http.MethodPatch, "/v1/events/evt_1/registrations",
		map[string]int{"current_registrations": 450})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "evt_1", gotID)
	assert.Equal(t, 450, gotCount)
	assert.Equal(t, 1, refresher.calls, "counter writes must trigger a detection pass")
}

func TestEventUpdateRegistrations_RejectsNegative(t *testing.T) {
	router := newEventRouter(&mockEventRepo{}, &mockRefresher{}, &mockReports{})

	rec := doJSON(t, router, http.MethodPatch, "/v1/events/evt_1/registrations",
		map[string]int{"current_registrations": -1})

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEventUpdateRegistrations_NotFound(t *testing.T) {
	repo := &mockEventRepo{updateRegistrationsFn: func(ctx context.Context, id string, current int) error {
		return types.NewAppError(types.ErrCodeNotFoundEvent, "event not found", nil)
	}}
	router := newEventRouter(repo, &mockRefresher{}, &mockReports{})

	rec := doJSON(t, router, http.MethodPatch, "/v1/events/evt_missing/registrations",
		map[string]int{"current_registrations": 10})

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEventDelete_Success(t *testing.T) {
	refresher := &mockRefresher{}
	router := newEventRouter(&mockEventRepo{}, refresher, &mockReports{})

	rec := doJSON(t, router, http.MethodDelete, "/v1/events/evt_1", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 1, refresher.calls)
}

func TestEventDelete_DBErrorReturns500(t *testing.T) {
	repo := &mockEventRepo{deleteFn: func(ctx context.Context, id string) error {
		return types.NewAppError(types.ErrCodeInternalDB, "failed to delete event", fmt.Errorf("boom"))
	}}
	router := newEventRouter(repo, &mockRefresher{}, &mockReports{})

	rec := doJSON(t, router, http.MethodDelete, "/v1/events/evt_1", nil)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

// =============================================================================
// Analysis
// =============================================================================

func TestEventAnalysis_Success(t *testing.T) {
	reports := &mockReports{analysisFn: func(ctx context.Context, ev types.Event) string {
		return "## Executive Summary\nrisk is high"
	}}
	router := newEventRouter(&mockEventRepo{}, &mockRefresher{}, reports)

	rec := doJSON(t, router, http.MethodPost, "/v1/events/evt_1/analysis", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "evt_1", resp.Data["event_id"])
	assert.Equal(t, string(types.ReportAnalysis), resp.Data["kind"])
	assert.Contains(t, resp.Data["content"], "Executive Summary")
}

func TestEventAnalysis_EventNotFound(t *testing.T) {
	repo := &mockEventRepo{getByIDFn: func(ctx context.Context, id string) (*types.Event, error) {
		return nil, types.NewAppError(types.ErrCodeNotFoundEvent, "event not found", nil)
	}}
	router := newEventRouter(repo, &mockRefresher{}, &mockReports{})

	rec := doJSON(t, router, http.MethodPost, "/v1/events/evt_missing/analysis", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

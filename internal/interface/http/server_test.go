package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pedagogy-hub/reasoner/internal/application/command"
	"github.com/pedagogy-hub/reasoner/internal/application/query"
	"github.com/pedagogy-hub/reasoner/internal/infrastructure/llm"
	"github.com/pedagogy-hub/reasoner/internal/infrastructure/metrics"
	"github.com/pedagogy-hub/reasoner/internal/infrastructure/persistence/store"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	st := store.NewMock()
	advisor := llm.NewMockAdvisor()
	log := zerolog.Nop()

	deps := Dependencies{
		GetStudentContext: query.NewGetStudentContextHandler(
			st.Students, st.History, advisor, st.Interactions, nil, log),
		RecommendTemplate: query.NewRecommendTemplateHandler(
			st.Templates, advisor, st.Interactions, log),
		GetTemplate: query.NewGetTemplateHandler(
			st.Templates, advisor, st.Interactions, nil, log),
		ListTemplates:     query.NewListTemplatesHandler(st.Templates),
		GetStudentHistory: query.NewGetStudentHistoryHandler(st.Students, st.History),
		ProposeActivities: command.NewProposeActivitiesHandler(
			st.Activities, advisor, st.Interactions, log),
		CreateLessonPlan: command.NewCreateLessonPlanHandler(
			st.Students, st.Templates, st.Activities, st.LessonPlans, log),
		GetLessonPlan: command.NewGetLessonPlanHandler(st.LessonPlans),
		Store:         st,
		Registry:      prometheus.NewRegistry(),
		Logger:        log,
	}

	cfg := DefaultConfig()
	cfg.RateLimitPerMinute = 0 // keep tests deterministic
	return NewServer(cfg, deps)
}

func doRequest(t *testing.T, s *Server, method, path string, body interface{}) (*httptest.ResponseRecorder, JSONResponse) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	var resp JSONResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec, resp
}

func TestHealthAlwaysAnswers(t *testing.T) {
	s := newTestServer(t)

	rec, resp := doRequest(t, s, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Success)

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "healthy", data["status"])
	assert.Equal(t, "mock", data["mode"])
}

func TestContextEndpoint(t *testing.T) {
	s := newTestServer(t)

	rec, resp := doRequest(t, s, http.MethodPost, "/context", map[string]string{
		"student_id": "student_123",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "8th", data["grade"])
	assert.Equal(t, "Science", data["subject"])
	assert.NotEmpty(t, data["llm_analysis"])

	info := data["student_info"].(map[string]interface{})
	assert.Equal(t, "Alex Johnson", info["name"])
}

func TestContextEndpointMissingStudentID(t *testing.T) {
	s := newTestServer(t)

	rec, resp := doRequest(t, s, http.MethodPost, "/context", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "missing_student_id", resp.Error.Code)
}

func TestContextEndpointUnknownStudent(t *testing.T) {
	s := newTestServer(t)

	rec, resp := doRequest(t, s, http.MethodPost, "/context", map[string]string{
		"student_id": "student_999",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "not_found", resp.Error.Code)
}

func TestRecommendTemplateEndpoint(t *testing.T) {
	s := newTestServer(t)

	rec, resp := doRequest(t, s, http.MethodPost, "/template/recommend", map[string]interface{}{
		"grade":   "8th",
		"subject": "Advanced science",
		"slos":    []string{"a", "b", "c", "d"},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "7E", data["template"])
	assert.InDelta(t, 0.9, data["confidence"].(float64), 1e-9)
	assert.Len(t, data["all_scores"].(map[string]interface{}), 4)
}

func TestGetTemplateEndpointCaseInsensitive(t *testing.T) {
	s := newTestServer(t)

	rec, resp := doRequest(t, s, http.MethodGet, "/templates/PBL", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "Problem-Based Learning", data["name"])
	assert.Len(t, data["implementation_tips"].([]interface{}), 3)
}

func TestGetTemplateEndpointUnknown(t *testing.T) {
	s := newTestServer(t)

	rec, _ := doRequest(t, s, http.MethodGet, "/templates/6e", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListTemplatesEndpoint(t *testing.T) {
	s := newTestServer(t)

	rec, resp := doRequest(t, s, http.MethodGet, "/templates", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	data := resp.Data.(map[string]interface{})
	assert.Len(t, data["templates"].([]interface{}), 4)
}

func TestProposeActivitiesEndpoint(t *testing.T) {
	s := newTestServer(t)

	rec, resp := doRequest(t, s, http.MethodPost, "/activities/propose", map[string]interface{}{
		"stage": "Explore",
		"context": map[string]interface{}{
			"grade":   "7th",
			"subject": "Mathematics",
			"student_info": map[string]interface{}{
				"learning_style": "kinesthetic",
			},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "Explore", data["stage"])
	activities := data["activities"].([]interface{})
	require.Len(t, activities, 2)

	first := activities[0].(map[string]interface{})
	assert.Contains(t, first["materials"], "Hands-on materials")

	considerations := data["context_considerations"].(map[string]interface{})
	assert.Equal(t, "kinesthetic", considerations["learning_style"])
}

func TestProposeActivitiesEndpointMissingStage(t *testing.T) {
	s := newTestServer(t)

	rec, resp := doRequest(t, s, http.MethodPost, "/activities/propose", map[string]interface{}{
		"context": map[string]interface{}{"grade": "8th"},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "missing_stage", resp.Error.Code)
}

func TestLessonPlanRoundTrip(t *testing.T) {
	s := newTestServer(t)

	rec, resp := doRequest(t, s, http.MethodPost, "/api/v1/lesson-plans", map[string]interface{}{
		"student_id": "student_123",
		"template":   "5e",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	created := resp.Data.(map[string]interface{})
	planID := created["id"].(string)
	require.NotEmpty(t, planID)
	assert.Equal(t, "complete", created["status"])

	rec, resp = doRequest(t, s, http.MethodGet, "/api/v1/lesson-plans/"+planID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	fetched := resp.Data.(map[string]interface{})
	assert.Equal(t, "5E", fetched["template"])
	assert.Len(t, fetched["stages"].(map[string]interface{}), 5)
}

func TestStudentHistoryEndpoint(t *testing.T) {
	s := newTestServer(t)

	rec, resp := doRequest(t, s, http.MethodGet, "/api/v1/students/student_456/history", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "student_456", data["student_id"])
	history := data["learning_history"].([]interface{})
	require.Len(t, history, 2)
	assert.Equal(t, "Geometry basics", history[0].(map[string]interface{})["topic"])
}

func TestMetricsLabelledByRoutePattern(t *testing.T) {
	s := newTestServer(t)
	reg := prometheus.NewRegistry()
	metrics.MustRegister(reg)

	// Distinct unmatched paths and per-ID lookups must not each mint a
	// new time series.
	for _, path := range []string{
		"/junk/123",
		"/junk/124",
		"/api/v1/lesson-plans/0b6f8a1e-1111-2222-3333-444455556666",
		"/api/v1/lesson-plans/0b6f8a1e-aaaa-bbbb-cccc-ddddeeeeffff",
		"/templates/pbl",
	} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		s.Handler().ServeHTTP(httptest.NewRecorder(), req)
	}

	families, err := reg.Gather()
	require.NoError(t, err)

	var paths []string
	for _, fam := range families {
		if fam.GetName() != "reasoner_http_requests_total" {
			continue
		}
		for _, m := range fam.Metric {
			for _, l := range m.Label {
				if l.GetName() == "path" {
					paths = append(paths, l.GetValue())
				}
			}
		}
	}

	assert.Contains(t, paths, "unmatched")
	assert.Contains(t, paths, "/api/v1/lesson-plans/{id}")
	assert.Contains(t, paths, "/templates/{name}")
	for _, p := range paths {
		assert.NotContains(t, p, "/junk/")
		assert.NotContains(t, p, "0b6f8a1e")
	}
}

func TestRoutePattern(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/anything", nil)
	assert.Equal(t, "unmatched", routePattern(r))

	r.Pattern = "GET /templates/{name}"
	assert.Equal(t, "/templates/{name}", routePattern(r))
}

func TestShutdownStopsRateLimiterCleanup(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RateLimitPerMinute = 10
	s := NewServer(cfg, Dependencies{Store: store.NewMock(), Logger: zerolog.Nop()})
	require.NotNil(t, s.rateLimiter)

	require.NoError(t, s.Shutdown(context.Background()))
	select {
	case <-s.rateLimiter.done:
	default:
		t.Fatal("cleanup goroutine was not signalled to stop")
	}

	// A second shutdown must not panic on the closed channel.
	require.NoError(t, s.Shutdown(context.Background()))
}

func TestRequestIDHeaderPropagates(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "req-42")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, "req-42", rec.Header().Get("X-Request-ID"))
}

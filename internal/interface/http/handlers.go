package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/pedagogy-hub/reasoner/internal/application/command"
	"github.com/pedagogy-hub/reasoner/internal/application/query"
	"github.com/pedagogy-hub/reasoner/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH & STATUS HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleRoot serves basic service information.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]interface{}{
		"service": "pedagogy-reasoner",
		"version": s.config.Version,
		"mode":    string(s.deps.Store.Mode()),
	})
}

// healthPayload is the health endpoint response body.
type healthPayload struct {
	Status    string      `json:"status"`
	Mode      string      `json:"mode"`
	Database  interface{} `json:"database,omitempty"`
	UptimeSec int64       `json:"uptime_seconds"`
	Version   string      `json:"version,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// handleHealth reports service and datastore health. It always answers,
// even when the database is down: mock mode is a healthy, degraded
// state, not an outage.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	payload := healthPayload{
		Status:    "healthy",
		Mode:      string(s.deps.Store.Mode()),
		UptimeSec: int64(s.Uptime().Seconds()),
		Version:   s.config.Version,
		Timestamp: time.Now().UTC(),
	}

	health, err := s.deps.Store.Health(r.Context())
	if err != nil {
		payload.Status = "degraded"
	} else {
		payload.Database = health
		if !health.Healthy {
			payload.Status = "degraded"
		}
	}

	writeJSON(w, r, http.StatusOK, payload)
}

// handleReady reports readiness: the datastore must answer pings.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Store.Ping(r.Context()); err != nil {
		writeJSONError(w, http.StatusServiceUnavailable, "not_ready", "datastore is not responding")
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ready"})
}

// handleLive reports liveness.
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "alive"})
}

// ══════════════════════════════════════════════════════════════════════════════
// REASONER HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleContext serves POST /context.
func (s *Server) handleContext(w http.ResponseWriter, r *http.Request) {
	var req struct {
		StudentID string `json:"student_id"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	if strings.TrimSpace(req.StudentID) == "" {
		writeJSONError(w, http.StatusBadRequest, "missing_student_id", "student_id is required")
		return
	}

	result, err := s.deps.GetStudentContext.Handle(r.Context(), req.StudentID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, r, http.StatusOK, result)
}

// handleRecommendTemplate serves POST /template/recommend.
func (s *Server) handleRecommendTemplate(w http.ResponseWriter, r *http.Request) {
	var req query.RecommendTemplateInput
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	result, err := s.deps.RecommendTemplate.Handle(r.Context(), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, r, http.StatusOK, result)
}

// handleListTemplates serves GET /templates.
func (s *Server) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.ListTemplates.Handle(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]interface{}{"templates": result})
}

// handleGetTemplate serves GET /templates/{name}. Names match
// case-insensitively.
func (s *Server) handleGetTemplate(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	result, err := s.deps.GetTemplate.Handle(r.Context(), name)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, r, http.StatusOK, result)
}

// proposeRequest is the POST /activities/propose body: a stage plus the
// student context the activities should account for.
type proposeRequest struct {
	Stage   string `json:"stage"`
	Context struct {
		StudentID   string   `json:"student_id"`
		Grade       string   `json:"grade"`
		Subject     string   `json:"subject"`
		SLOs        []string `json:"slos"`
		PreSLOs     []string `json:"pre_slos"`
		StudentInfo struct {
			LearningStyle string   `json:"learning_style"`
			Interests     []string `json:"interests"`
		} `json:"student_info"`
	} `json:"context"`
}

// handleProposeActivities serves POST /activities/propose.
func (s *Server) handleProposeActivities(w http.ResponseWriter, r *http.Request) {
	var req proposeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	if strings.TrimSpace(req.Stage) == "" {
		writeJSONError(w, http.StatusBadRequest, "missing_stage", "stage is required")
		return
	}

	result, err := s.deps.ProposeActivities.Handle(r.Context(), command.ProposeActivitiesInput{
		Stage:         req.Stage,
		StudentID:     req.Context.StudentID,
		Grade:         req.Context.Grade,
		Subject:       req.Context.Subject,
		SLOs:          req.Context.SLOs,
		PreSLOs:       req.Context.PreSLOs,
		LearningStyle: student.LearningStyle(req.Context.StudentInfo.LearningStyle),
		Interests:     req.Context.StudentInfo.Interests,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, r, http.StatusOK, result)
}

// ══════════════════════════════════════════════════════════════════════════════
// LESSON PLAN & HISTORY HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleCreateLessonPlan serves POST /api/v1/lesson-plans.
func (s *Server) handleCreateLessonPlan(w http.ResponseWriter, r *http.Request) {
	var req command.CreateLessonPlanInput
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	if strings.TrimSpace(req.StudentID) == "" {
		writeJSONError(w, http.StatusBadRequest, "missing_student_id", "student_id is required")
		return
	}
	if strings.TrimSpace(req.Template) == "" {
		writeJSONError(w, http.StatusBadRequest, "missing_template", "template is required")
		return
	}

	result, err := s.deps.CreateLessonPlan.Handle(r.Context(), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, result)
}

// handleGetLessonPlan serves GET /api/v1/lesson-plans/{id}.
func (s *Server) handleGetLessonPlan(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.GetLessonPlan.Handle(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, r, http.StatusOK, result)
}

// handleStudentHistory serves GET /api/v1/students/{id}/history.
func (s *Server) handleStudentHistory(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	entries, err := s.deps.GetStudentHistory.Handle(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]interface{}{
		"student_id":       id,
		"learning_history": entries,
	})
}

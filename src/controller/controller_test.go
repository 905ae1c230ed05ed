package controller

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pavithiran2000/Start-Finish-Backend/src/config"
	"github.com/Pavithiran2000/Start-Finish-Backend/src/models"
	"github.com/Pavithiran2000/Start-Finish-Backend/src/service"
)

// In-memory stores backing the coordinator in handler tests.

type memSessionStore struct {
	mu       sync.Mutex
	sessions map[string]*models.Session
	seq      int
}

func newMemSessionStore() *memSessionStore {
	return &memSessionStore{sessions: make(map[string]*models.Session)}
}

func (m *memSessionStore) GetActiveSessionByStudent(ctx context.Context, studentID string) (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.sessions {
		if s.StudentID == studentID && s.Status == models.StatusActive {
			out := *s
			return &out, nil
		}
	}
	return nil, nil
}

func (m *memSessionStore) GetActiveSessionByTutor(ctx context.Context, tutorID string) (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.sessions {
		if s.TutorID == tutorID && s.Status == models.StatusActive {
			out := *s
			return &out, nil
		}
	}
	return nil, nil
}

func (m *memSessionStore) GetSessionByID(ctx context.Context, sessionID string) (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[sessionID]
	if !ok {
		return nil, models.ErrSessionNotFound
	}
	out := *s
	return &out, nil
}

func (m *memSessionStore) GetSessionStatus(ctx context.Context, sessionID string) (models.SessionStatus, error) {
	s, err := m.GetSessionByID(ctx, sessionID)
	if err != nil {
		return "", err
	}
	return s.Status, nil
}

func (m *memSessionStore) CreateSession(ctx context.Context, tutorID, studentID, meetingLink string) (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	s := &models.Session{
		SessionID:   fmt.Sprintf("sess-%d", m.seq),
		TutorID:     tutorID,
		StudentID:   studentID,
		MeetingLink: meetingLink,
		Status:      models.StatusActive,
		CreatedAt:   time.Now(),
	}
	m.sessions[s.SessionID] = s
	out := *s
	return &out, nil
}

func (m *memSessionStore) UpdateSessionStatus(ctx context.Context, sessionID string, status models.SessionStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[sessionID]
	if !ok || s.Status != models.StatusActive {
		return models.ErrSessionNotFound
	}
	s.Status = status
	return nil
}

type memTutorStore struct {
	mu     sync.Mutex
	tutors map[string]*models.Tutor
}

func newMemTutorStore() *memTutorStore {
	return &memTutorStore{tutors: make(map[string]*models.Tutor)}
}

func (m *memTutorStore) GetTutor(ctx context.Context, tutorID string) (*models.Tutor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tutors[tutorID]
	if !ok {
		return nil, models.ErrTutorNotFound
	}
	out := *t
	return &out, nil
}

func (m *memTutorStore) ListTutors(ctx context.Context) ([]models.Tutor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Tutor
	for _, t := range m.tutors {
		out = append(out, *t)
	}
	return out, nil
}

func (m *memTutorStore) SetActive(ctx context.Context, tutorID string, isActive bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tutors[tutorID]
	if !ok {
		t = &models.Tutor{TutorID: tutorID}
		m.tutors[tutorID] = t
	}
	t.IsActive = isActive
	return nil
}

func (m *memTutorStore) SetOnMeeting(ctx context.Context, tutorID string, isOnMeeting bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tutors[tutorID]
	if !ok {
		return models.ErrTutorNotFound
	}
	t.IsOnMeeting = isOnMeeting
	return nil
}

type noopBroadcaster struct{}

func (noopBroadcaster) Broadcast(exchange string, payload interface{}) {}

func newTestRouter() (*gin.Engine, *service.MatchingService) {
	gin.SetMode(gin.TestMode)

	cfg := &config.GlobalConfig{
		MeetingBaseURL: "http://localhost:3000",
		StoreTimeout:   time.Second,
	}
	matching := service.NewMatchingService(newMemSessionStore(), newMemTutorStore(), noopBroadcaster{}, cfg)
	log := logrus.New()

	queueController := NewQueueController(matching, log)
	sessionController := NewSessionController(matching, log)
	tutorController := NewTutorController(matching, log)

	router := gin.New()
	api := router.Group("/api")
	api.GET("/queue/:role", queueController.GetWaitingList)
	api.POST("/queue/students/:studentId/status", queueController.GetStudentQueueStatus)
	api.POST("/sessions/request/:studentId", sessionController.RequestSession)
	api.POST("/sessions/cancel/:studentId", sessionController.CancelRequest)
	api.POST("/sessions/match/:studentId/:position", sessionController.MatchAtPosition)
	api.PUT("/sessions/:sessionId/end-by-tutor/:tutorId", sessionController.EndSessionByTutor)
	api.GET("/sessions/:sessionId/status", sessionController.GetSessionStatus)
	api.GET("/students/:studentId/session", sessionController.GetStudentSession)
	api.PUT("/tutors/:tutorId/active", tutorController.UpdateTutorActive)

	return router, matching
}

func doRequest(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRequestSessionEndpointQueuesStudent(t *testing.T) {
	router, _ := newTestRouter()

	w := doRequest(router, http.MethodPost, "/api/sessions/request/alice", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Status string `json:"status"`
		Queued bool   `json:"queued"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
	assert.True(t, resp.Queued)

	w = doRequest(router, http.MethodPost, "/api/queue/students/alice/status", "")
	require.Equal(t, http.StatusOK, w.Code)

	var status struct {
		Waiting  []string `json:"waiting"`
		Position int      `json:"position"`
		Status   bool     `json:"status"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.Equal(t, []string{"alice"}, status.Waiting)
	assert.Equal(t, 1, status.Position)
	assert.True(t, status.Status)
}

func TestTutorActivationEndpointTriggersMatch(t *testing.T) {
	router, _ := newTestRouter()

	doRequest(router, http.MethodPost, "/api/sessions/request/alice", "")

	w := doRequest(router, http.MethodPut, "/api/tutors/t1/active", `{"is_active": true}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(router, http.MethodGet, "/api/students/alice/session", "")
	require.Equal(t, http.StatusOK, w.Code)

	var session struct {
		TutorID   string `json:"tutor_id"`
		StudentID string `json:"student_id"`
		Status    string `json:"session_status"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &session))
	assert.Equal(t, "t1", session.TutorID)
	assert.Equal(t, "alice", session.StudentID)
	assert.Equal(t, "ACTIVE", session.Status)

	// Both lines are empty after the match.
	w = doRequest(router, http.MethodGet, "/api/queue/student", "")
	assert.JSONEq(t, `{"role":"student","waiting":[]}`, w.Body.String())
	w = doRequest(router, http.MethodGet, "/api/queue/tutor", "")
	assert.JSONEq(t, `{"role":"tutor","waiting":[]}`, w.Body.String())
}

func TestMatchAtPositionEndpoint(t *testing.T) {
	router, _ := newTestRouter()

	doRequest(router, http.MethodPost, "/api/sessions/request/alice", "")
	doRequest(router, http.MethodPut, "/api/tutors/t1/active", `{"is_active": true}`)

	// The reported position is stale; the student is matched regardless.
	w := doRequest(router, http.MethodPost, "/api/sessions/match/alice/7", "")
	require.Equal(t, http.StatusOK, w.Code)

	var session struct {
		SessionID string `json:"session_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &session))
	assert.NotEmpty(t, session.SessionID)
}

func TestEndSessionByTutorEndpoint(t *testing.T) {
	router, svc := newTestRouter()

	doRequest(router, http.MethodPost, "/api/sessions/request/alice", "")
	doRequest(router, http.MethodPut, "/api/tutors/t1/active", `{"is_active": true}`)

	session, err := svc.GetActiveSessionForTutor(context.Background(), "t1")
	require.NoError(t, err)
	require.NotNil(t, session)

	w := doRequest(router, http.MethodPut, "/api/sessions/"+session.SessionID+"/end-by-tutor/t1", "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doRequest(router, http.MethodGet, "/api/sessions/"+session.SessionID+"/status", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ENDED")
}

func TestCancelEndpointReportsRemoval(t *testing.T) {
	router, _ := newTestRouter()

	doRequest(router, http.MethodPost, "/api/sessions/request/alice", "")

	w := doRequest(router, http.MethodPost, "/api/sessions/cancel/alice", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"removed":true`)

	// Cancelling again is a no-op, not an error.
	w = doRequest(router, http.MethodPost, "/api/sessions/cancel/alice", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"removed":false`)
}

func TestUnknownSessionStatusReturns404(t *testing.T) {
	router, _ := newTestRouter()

	w := doRequest(router, http.MethodGet, "/api/sessions/no-such/status", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Not Found")
}

func TestInvalidRoleReturns400(t *testing.T) {
	router, _ := newTestRouter()

	w := doRequest(router, http.MethodGet, "/api/queue/wizard", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateTutorActiveRejectsBadBody(t *testing.T) {
	router, _ := newTestRouter()

	w := doRequest(router, http.MethodPut, "/api/tutors/t1/active", `{"is_active"`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

package http_test

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	httpapi "activity-signup-service/internal/http"
	"activity-signup-service/internal/http/mocks"
	"activity-signup-service/internal/model"
	"activity-signup-service/internal/observability"
	"activity-signup-service/internal/repository"
	"activity-signup-service/internal/service"
)

var discardLogger = slog.New(slog.NewJSONHandler(io.Discard, nil))

func TestHandler_Signup(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		target         string
		mockBehavior   func(s *mocks.ActivityService)
		expectedStatus int
		expectedBody   map[string]any
	}{
		{
			name:   "Success: signup",
			method: http.MethodPost,
			target: "/activities/Chess%20Club/signup?email=newstudent@mergington.edu",
			mockBehavior: func(s *mocks.ActivityService) {
				s.On("Signup", mock.Anything, "Chess Club", "newstudent@mergington.edu").
					Return("Signed up newstudent@mergington.edu for Chess Club", nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   map[string]any{"message": "Signed up newstudent@mergington.edu for Chess Club"},
		},
		{
			name:   "Success: unregister",
			method: http.MethodDelete,
			target: "/activities/Chess%20Club/signup?email=michael@mergington.edu",
			mockBehavior: func(s *mocks.ActivityService) {
				s.On("Unregister", mock.Anything, "Chess Club", "michael@mergington.edu").
					Return("Unregistered michael@mergington.edu from Chess Club", nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   map[string]any{"message": "Unregistered michael@mergington.edu from Chess Club"},
		},
		{
			name:           "Unprocessable: missing email",
			method:         http.MethodPost,
			target:         "/activities/Chess%20Club/signup",
			mockBehavior:   func(s *mocks.ActivityService) {},
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name:   "Success: empty email is passed through",
			method: http.MethodPost,
			target: "/activities/Chess%20Club/signup?email=",
			mockBehavior: func(s *mocks.ActivityService) {
				s.On("Signup", mock.Anything, "Chess Club", "").Return("Signed up  for Chess Club", nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "Conflict: already signed up",
			method: http.MethodPost,
			target: "/activities/Chess%20Club/signup?email=michael@mergington.edu",
			mockBehavior: func(s *mocks.ActivityService) {
				s.On("Signup", mock.Anything, "Chess Club", "michael@mergington.edu").
					Return("", service.ErrConflict(service.MsgAlreadySignedUp))
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody: map[string]any{
				"detail": service.MsgAlreadySignedUp,
				"error":  map[string]any{"code": service.CodeAlreadySignedUp, "message": service.MsgAlreadySignedUp},
			},
		},
		{
			name:   "Internal Error",
			method: http.MethodDelete,
			target: "/activities/Chess%20Club/signup?email=michael@mergington.edu",
			mockBehavior: func(s *mocks.ActivityService) {
				s.On("Unregister", mock.Anything, "Chess Club", "michael@mergington.edu").
					Return("", errors.New("unexpected"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody: map[string]any{
				"detail": "internal error",
				"error":  map[string]any{"code": "INTERNAL", "message": "internal error"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mocks.ActivityService)
			tt.mockBehavior(svc)

			h := httpapi.NewHandler(svc, discardLogger)

			req := httptest.NewRequest(tt.method, tt.target, nil)
			w := httptest.NewRecorder()

			h.Router().ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			if tt.expectedBody != nil {
				var body map[string]any
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
				assert.Equal(t, tt.expectedBody, body)
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestHandler_ListActivities(t *testing.T) {
	svc := new(mocks.ActivityService)
	svc.On("ListActivities", mock.Anything).Return(map[string]model.Activity{
		"Robotics": {Description: "Build robots", Schedule: "Mondays", MaxParticipants: 4, Participants: []string{}},
	}, nil)

	h := httpapi.NewHandler(svc, discardLogger)
	w := httptest.NewRecorder()
	h.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/activities", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"Robotics":{"description":"Build robots","schedule":"Mondays","max_participants":4,"participants":[]}}`, w.Body.String())
	svc.AssertExpectations(t)
}

// Сценарии поверх настоящего каталога: каждый тест получает изолированный экземпляр,
// а снимок каталога восстанавливается после теста.

func newTestServer(t *testing.T) (http.Handler, *repository.Directory) {
	t.Helper()
	dir := repository.NewDirectory(repository.DefaultActivities())
	snapshot := dir.Snapshot()
	t.Cleanup(func() { dir.Restore(snapshot) })

	svc := service.NewActivityService(dir, repository.NewTransactionManager(dir), nil)
	return httpapi.NewHandler(svc, discardLogger).Router(), dir
}

func do(t *testing.T, h http.Handler, method, target string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(method, target, nil))

	var body map[string]any
	if w.Header().Get("Content-Type") == "application/json" {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	}
	return w, body
}

func TestAPI_RootRedirects(t *testing.T) {
	h, _ := newTestServer(t)

	w, _ := do(t, h, http.MethodGet, "/")

	assert.Equal(t, http.StatusTemporaryRedirect, w.Code)
	assert.Equal(t, "/static/index.html", w.Header().Get("Location"))
}

func TestAPI_StaticAssets(t *testing.T) {
	h, _ := newTestServer(t)

	for _, target := range []string{"/static/", "/static/index.html", "/static/app.js", "/static/styles.css"} {
		w, _ := do(t, h, http.MethodGet, target)
		assert.Equal(t, http.StatusOK, w.Code, target)
		assert.NotEmpty(t, w.Body.String(), target)
	}
}

func TestAPI_RootRedirectLandsOnIndex(t *testing.T) {
	h, _ := newTestServer(t)

	w, _ := do(t, h, http.MethodGet, "/")
	require.Equal(t, http.StatusTemporaryRedirect, w.Code)

	w, _ = do(t, h, http.MethodGet, w.Header().Get("Location"))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Location"))
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "Mergington High School")
}

func TestAPI_Health(t *testing.T) {
	h, _ := newTestServer(t)

	w, body := do(t, h, http.MethodGet, "/health")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", body["status"])
}

func TestAPI_GetActivitiesReturnsAll(t *testing.T) {
	h, _ := newTestServer(t)

	w, body := do(t, h, http.MethodGet, "/activities")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body, 9)
	require.Contains(t, body, "Chess Club")

	chess, ok := body["Chess Club"].(map[string]any)
	require.True(t, ok)
	keys := make([]string, 0, len(chess))
	for k := range chess {
		keys = append(keys, k)
	}
	assert.ElementsMatch(t, []string{"description", "schedule", "max_participants", "participants"}, keys)
}

func TestAPI_SignupSuccess(t *testing.T) {
	h, dir := newTestServer(t)

	w, body := do(t, h, http.MethodPost, "/activities/Chess%20Club/signup?email=newstudent@mergington.edu")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, body["message"], "newstudent@mergington.edu")
	assert.Contains(t, body["message"], "Chess Club")
	assert.Contains(t, dir.Snapshot()["Chess Club"].Participants, "newstudent@mergington.edu")
}

func TestAPI_SignupDuplicate(t *testing.T) {
	h, _ := newTestServer(t)

	w, body := do(t, h, http.MethodPost, "/activities/Chess%20Club/signup?email=michael@mergington.edu")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Student already signed up for this activity", body["detail"])
}

func TestAPI_SignupUnknownActivity(t *testing.T) {
	h, _ := newTestServer(t)

	w, body := do(t, h, http.MethodPost, "/activities/Nonexistent%20Club/signup?email=someone@mergington.edu")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Activity not found", body["detail"])
}

func TestAPI_UnregisterSuccess(t *testing.T) {
	h, dir := newTestServer(t)

	w, body := do(t, h, http.MethodDelete, "/activities/Chess%20Club/signup?email=michael@mergington.edu")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, body["message"], "michael@mergington.edu")
	assert.Contains(t, body["message"], "Chess Club")
	assert.NotContains(t, dir.Snapshot()["Chess Club"].Participants, "michael@mergington.edu")
}

func TestAPI_UnregisterNotSignedUp(t *testing.T) {
	h, _ := newTestServer(t)

	w, body := do(t, h, http.MethodDelete, "/activities/Chess%20Club/signup?email=notregistered@mergington.edu")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Student is not signed up for this activity", body["detail"])
}

func TestAPI_UnregisterUnknownActivity(t *testing.T) {
	h, _ := newTestServer(t)

	w, body := do(t, h, http.MethodDelete, "/activities/Nonexistent%20Club/signup?email=someone@mergington.edu")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Activity not found", body["detail"])
}

func TestAPI_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)

	dir := repository.NewDirectory(repository.DefaultActivities())
	svc := service.NewActivityService(dir, repository.NewTransactionManager(dir), metrics)
	h := httpapi.NewHandler(svc, discardLogger, httpapi.WithMetrics(metrics, reg)).Router()

	w, _ := do(t, h, http.MethodPost, "/activities/Chess%20Club/signup?email=newstudent@mergington.edu")
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = do(t, h, http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	out := w.Body.String()
	assert.Contains(t, out, `activity_signup_operations_total{operation="signup",outcome="ok"} 1`)
	assert.Contains(t, out, `activity_signup_participants{activity="Chess Club"} 3`)
	assert.Contains(t, out, `route="/activities/{activity_name}/signup"`)
}

func TestAPI_CORSPreflight(t *testing.T) {
	svc := new(mocks.ActivityService)
	h := httpapi.NewHandler(svc, discardLogger, httpapi.WithCORSOrigins([]string{"http://localhost:5173"})).Router()

	req := httptest.NewRequest(http.MethodOptions, "/activities/Chess%20Club/signup?email=a@b", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodDelete)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
	svc.AssertExpectations(t)
}

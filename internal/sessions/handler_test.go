package sessions

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-redis/redismock/v8"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitflow/fitflow/internal/localstore"
	"github.com/fitflow/fitflow/internal/telemetry/metrics"
)

func newTestHandlerRouter(repo *repoMock) *mux.Router {
	rdb, _ := redismock.NewClientMock()
	service := NewService(repo, localstore.NewStore(rdb), testPlanStore(), "user-1")
	service.now = func() time.Time { return testNow }

	router := mux.NewRouter()
	NewHandler(service, metrics.NewTestManager()).SetupRoutes(router)
	return router
}

func TestHandler_HandleList(t *testing.T) {
	repo := NewMockSessionsRepo()
	repo.sessions["session-1"] = WorkoutSession{
		ID: "session-1", Date: testNow, Title: "Pull Day",
	}
	router := newTestHandlerRouter(repo)

	req := httptest.NewRequest("GET", "/sessions", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var sessions []WorkoutSession
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &sessions))
	require.Len(t, sessions, 1)
	assert.Equal(t, "session-1", sessions[0].ID)
}

func TestHandler_HandleToday(t *testing.T) {
	router := newTestHandlerRouter(NewMockSessionsRepo())

	req := httptest.NewRequest("GET", "/sessions/today", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var today WorkoutSession
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &today))
	assert.Equal(t, "Pull Day", today.Title)
	require.Len(t, today.Exercises, 2)
	assert.False(t, today.Exercises[0].Completed)
}

func TestHandler_HandleUpsert(t *testing.T) {
	repo := NewMockSessionsRepo()
	router := newTestHandlerRouter(repo)

	session := WorkoutSession{
		ID:    "session-1",
		Date:  testNow,
		Title: "Pull Day",
		Exercises: []SessionExercise{
			{ID: "ex-1", Name: "Pull Ups", Sets: 4, Reps: 8, Weight: 10, Completed: true},
		},
	}
	body, err := json.Marshal(session)
	require.NoError(t, err)

	req := httptest.NewRequest("PUT", "/sessions", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	stored, err := repo.Get(req.Context(), "user-1", "session-1")
	require.NoError(t, err)
	assert.True(t, stored.Exercises[0].Completed)
}

func TestHandler_HandleUpsert_missingID(t *testing.T) {
	router := newTestHandlerRouter(NewMockSessionsRepo())

	body, err := json.Marshal(WorkoutSession{Date: testNow})
	require.NoError(t, err)

	req := httptest.NewRequest("PUT", "/sessions", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandler_HandleDelete(t *testing.T) {
	repo := NewMockSessionsRepo()
	repo.sessions["session-1"] = WorkoutSession{ID: "session-1", Date: testNow}
	router := newTestHandlerRouter(repo)

	req := httptest.NewRequest("DELETE", "/sessions/session-1", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, repo.sessions)

	req = httptest.NewRequest("DELETE", "/sessions/session-1", nil)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHandler_HandleDeleteAll(t *testing.T) {
	repo := NewMockSessionsRepo()
	repo.sessions["session-1"] = WorkoutSession{ID: "session-1", Date: testNow}
	repo.sessions["session-2"] = WorkoutSession{ID: "session-2", Date: testNow}
	router := newTestHandlerRouter(repo)

	req := httptest.NewRequest("DELETE", "/sessions", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, repo.sessions)
}

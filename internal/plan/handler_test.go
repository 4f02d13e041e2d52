package plan_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-redis/redismock/v8"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitflow/fitflow/internal/localstore"
	"github.com/fitflow/fitflow/internal/plan"
	"github.com/fitflow/fitflow/internal/telemetry/metrics"
)

type handlerTestEnv struct {
	store  *plan.Store
	editor *plan.Editor
	router *mux.Router
}

func newHandlerTestEnv(t *testing.T) *handlerTestEnv {
	t.Helper()

	wp := plan.DefaultWeeklyPlan()
	wp["Monday"] = plan.DayPlan{
		Title: "Push Day",
		Exercises: []plan.PlanExercise{
			{Name: "Bench Press", Sets: 3, Reps: 8, Weight: 60, MuscleGroup: plan.MuscleGroupChest},
		},
	}
	wp["Thursday"] = plan.DayPlan{
		Title: "Upper Body",
		Exercises: []plan.PlanExercise{
			{Name: "Bench Press", Sets: 4, Reps: 6, Weight: 60, MuscleGroup: plan.MuscleGroupChest},
		},
	}

	store := plan.NewStore(wp)
	editor := plan.NewEditor(store)
	rdb, _ := redismock.NewClientMock()
	fallback := localstore.NewStore(rdb)

	handler := plan.NewHandler(store, editor, fallback, metrics.NewTestManager(), "user-1")
	router := mux.NewRouter()
	handler.SetupRoutes(router)

	return &handlerTestEnv{
		store:  store,
		editor: editor,
		router: router,
	}
}

func (env *handlerTestEnv) do(t *testing.T, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reqBody bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&reqBody).Encode(body))
	}
	req := httptest.NewRequest(method, target, &reqBody)

	rr := httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)
	return rr
}

func TestHandler_GetPlan(t *testing.T) {
	env := newHandlerTestEnv(t)

	rr := env.do(t, "GET", "/plan", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp map[string]struct {
		Title     string `json:"title"`
		Exercises []struct {
			Name          string  `json:"name"`
			Weight        float64 `json:"weight"`
			DisplayWeight struct {
				Value     float64 `json:"value"`
				UnitLabel string  `json:"unitLabel"`
			} `json:"displayWeight"`
		} `json:"exercises"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp, 7)
	require.Len(t, resp["Monday"].Exercises, 1)
	assert.Equal(t, float64(60), resp["Monday"].Exercises[0].Weight)
	assert.Equal(t, float64(60), resp["Monday"].Exercises[0].DisplayWeight.Value)
	assert.Equal(t, "kg", resp["Monday"].Exercises[0].DisplayWeight.UnitLabel)
}

func TestHandler_GetPlan_lbsQueryParam(t *testing.T) {
	env := newHandlerTestEnv(t)

	rr := env.do(t, "GET", "/plan/Monday?unit=lbs", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Exercises []struct {
			Weight        float64 `json:"weight"`
			DisplayWeight struct {
				Value     float64 `json:"value"`
				UnitLabel string  `json:"unitLabel"`
			} `json:"displayWeight"`
		} `json:"exercises"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp.Exercises, 1)
	// canonical weight stays kg, display is converted and rounded
	assert.Equal(t, float64(60), resp.Exercises[0].Weight)
	assert.Equal(t, 132.3, resp.Exercises[0].DisplayWeight.Value)
	assert.Equal(t, "lbs", resp.Exercises[0].DisplayWeight.UnitLabel)
}

func TestHandler_GetDay_unknownDay(t *testing.T) {
	env := newHandlerTestEnv(t)
	rr := env.do(t, "GET", "/plan/Funday", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandler_editFlow(t *testing.T) {
	env := newHandlerTestEnv(t)

	rr := env.do(t, "POST", "/plan/Monday/edit", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	// a second session is refused while the first is open
	rr = env.do(t, "POST", "/plan/Tuesday/edit", nil)
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = env.do(t, "PUT", "/plan/edit/title", map[string]string{"title": "Heavy Push"})
	require.Equal(t, http.StatusOK, rr.Code)

	rr = env.do(t, "PUT", "/plan/edit/exercises/0", map[string]any{
		"field": "weight",
		"value": 80,
		"unit":  "kg",
	})
	require.Equal(t, http.StatusOK, rr.Code)

	// nothing visible in the store before commit
	monday, err := env.store.GetDay("Monday")
	require.NoError(t, err)
	assert.Equal(t, "Push Day", monday.Title)

	rr = env.do(t, "POST", "/plan/edit/commit", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var commitResp map[string]int
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &commitResp))
	assert.Equal(t, 1, commitResp["weightSyncs"])

	monday, err = env.store.GetDay("Monday")
	require.NoError(t, err)
	assert.Equal(t, "Heavy Push", monday.Title)
	assert.Equal(t, float64(80), monday.Exercises[0].Weight)

	thursday, err := env.store.GetDay("Thursday")
	require.NoError(t, err)
	assert.Equal(t, float64(80), thursday.Exercises[0].Weight)
}

func TestHandler_editWithoutSession(t *testing.T) {
	env := newHandlerTestEnv(t)

	rr := env.do(t, "PUT", "/plan/edit/title", map[string]string{"title": "x"})
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = env.do(t, "POST", "/plan/edit/commit", nil)
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = env.do(t, "POST", "/plan/edit/discard", nil)
	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestHandler_setFieldValidation(t *testing.T) {
	env := newHandlerTestEnv(t)

	rr := env.do(t, "POST", "/plan/Monday/edit", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = env.do(t, "PUT", "/plan/edit/exercises/0", map[string]any{
		"field": "banana",
		"value": 1,
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = env.do(t, "PUT", "/plan/edit/exercises/7", map[string]any{
		"field": "sets",
		"value": 5,
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = env.do(t, "PUT", "/plan/edit/exercises/0", map[string]any{
		"field": "muscleGroup",
		"value": "Cardio",
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandler_deletionScope(t *testing.T) {
	env := newHandlerTestEnv(t)

	rr := env.do(t, "GET", "/plan/Monday/exercises/0/scope", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		ExerciseName string   `json:"exerciseName"`
		OtherDays    []string `json:"otherDays"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "Bench Press", resp.ExerciseName)
	assert.Equal(t, []string{"Thursday"}, resp.OtherDays)
}

func TestHandler_removeExercise(t *testing.T) {
	env := newHandlerTestEnv(t)

	// default scope removes from one day only
	rr := env.do(t, "DELETE", "/plan/Monday/exercises/0", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	monday, err := env.store.GetDay("Monday")
	require.NoError(t, err)
	assert.Empty(t, monday.Exercises)

	thursday, err := env.store.GetDay("Thursday")
	require.NoError(t, err)
	assert.Len(t, thursday.Exercises, 1)

	rr = env.do(t, "DELETE", "/plan/Thursday/exercises/0?scope=all", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var removeResp map[string]int
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &removeResp))
	assert.Equal(t, 1, removeResp["removed"])

	rr = env.do(t, "DELETE", "/plan/Monday/exercises/0?scope=sideways", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandler_exerciseNames(t *testing.T) {
	env := newHandlerTestEnv(t)

	rr := env.do(t, "GET", "/plan/exercises/names", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var names []string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &names))
	assert.Contains(t, names, "Bench Press")
	assert.Contains(t, names, "Squat")
}

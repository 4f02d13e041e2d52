package plan

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/fitflow/fitflow/internal/localstore"
	"github.com/fitflow/fitflow/internal/telemetry/metrics"
	"github.com/fitflow/fitflow/internal/telemetry/tracing"
	"github.com/fitflow/fitflow/internal/units"
	"github.com/fitflow/fitflow/pkg"
)

type Handler struct {
	store    *Store
	editor   *Editor
	fallback *localstore.Store
	metrics  *metrics.Manager
	userID   string
}

func NewHandler(
	store *Store,
	editor *Editor,
	fallback *localstore.Store,
	metricsManager *metrics.Manager,
	userID string,
) *Handler {
	return &Handler{
		store:    store,
		editor:   editor,
		fallback: fallback,
		metrics:  metricsManager,
		userID:   userID,
	}
}

func (handler *Handler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/plan", handler.HandleGetPlan).Methods("GET", "OPTIONS").Name("get-plan")
	r.HandleFunc("/plan/exercises/names", handler.HandleExerciseNames).Methods("GET", "OPTIONS").Name("exercise-names")
	r.HandleFunc("/plan/{day}", handler.HandleGetDay).Methods("GET", "OPTIONS").Name("get-day-plan")

	r.HandleFunc("/plan/{day}/edit", handler.HandleStartEdit).Methods("POST", "OPTIONS").Name("start-edit")
	r.HandleFunc("/plan/edit/title", handler.HandleSetTitle).Methods("PUT", "OPTIONS").Name("edit-title")
	r.HandleFunc("/plan/edit/restday", handler.HandleSetRestDay).Methods("PUT", "OPTIONS").Name("edit-restday")
	r.HandleFunc("/plan/edit/exercises", handler.HandleAddExercise).Methods("POST", "OPTIONS").Name("edit-add-exercise")
	r.HandleFunc("/plan/edit/exercises/{index}", handler.HandleSetField).Methods("PUT", "OPTIONS").Name("edit-set-field")
	r.HandleFunc("/plan/edit/commit", handler.HandleCommit).Methods("POST", "OPTIONS").Name("edit-commit")
	r.HandleFunc("/plan/edit/discard", handler.HandleDiscard).Methods("POST", "OPTIONS").Name("edit-discard")

	r.HandleFunc("/plan/{day}/exercises/{index}/scope", handler.HandleDeletionScope).Methods("GET", "OPTIONS").Name("deletion-scope")
	r.HandleFunc("/plan/{day}/exercises/{index}", handler.HandleRemoveExercise).Methods("DELETE", "OPTIONS").Name("remove-exercise")
}

// displayUnit resolves the active display unit: explicit query param
// first, then the stored preference, kg otherwise.
func (handler *Handler) displayUnit(r *http.Request) units.Unit {
	if u := units.Unit(r.URL.Query().Get("unit")); units.Valid(u) {
		return u
	}
	if stored, err := handler.fallback.GetUnit(r.Context(), handler.userID); err == nil {
		if u := units.Unit(stored); units.Valid(u) {
			return u
		}
	}
	return units.Kg
}

type exerciseResponse struct {
	PlanExercise
	DisplayWeight units.DisplayWeight `json:"displayWeight"`
}

type dayPlanResponse struct {
	Title     string             `json:"title"`
	Exercises []exerciseResponse `json:"exercises"`
	IsRestDay bool               `json:"isRestDay"`
}

func toDayPlanResponse(dp DayPlan, unit units.Unit) dayPlanResponse {
	resp := dayPlanResponse{
		Title:     dp.Title,
		Exercises: make([]exerciseResponse, 0, len(dp.Exercises)),
		IsRestDay: dp.IsRestDay,
	}
	for _, ex := range dp.Exercises {
		resp.Exercises = append(resp.Exercises, exerciseResponse{
			PlanExercise:  ex,
			DisplayWeight: units.Convert(ex.Weight, unit),
		})
	}
	return resp
}

func (handler *Handler) HandleGetPlan(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.plan.get")
	defer span.End()

	unit := handler.displayUnit(r)
	wp := handler.store.Get()

	resp := make(map[string]dayPlanResponse, len(Days))
	for _, day := range Days {
		resp[day] = toDayPlanResponse(wp[day], unit)
	}
	pkg.WriteJSONResponse(w, resp)
}

func (handler *Handler) HandleGetDay(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.plan.getDay")
	defer span.End()

	day := mux.Vars(r)["day"]
	dp, err := handler.store.GetDay(day)
	if err != nil {
		http.Error(w, "unknown day", http.StatusBadRequest)
		return
	}
	pkg.WriteJSONResponse(w, toDayPlanResponse(dp, handler.displayUnit(r)))
}

func (handler *Handler) HandleExerciseNames(w http.ResponseWriter, r *http.Request) {
	names := append([]string{}, CommonExercises...)
	names = append(names, handler.store.ExerciseNames()...)
	pkg.WriteJSONResponse(w, names)
}

func (handler *Handler) HandleStartEdit(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.plan.startEdit")
	defer span.End()

	day := mux.Vars(r)["day"]
	buffer, err := handler.editor.StartEdit(day)
	switch {
	case errors.Is(err, ErrAlreadyEditing):
		http.Error(w, "another edit session is open", http.StatusConflict)
		return
	case errors.Is(err, ErrUnknownDay):
		http.Error(w, "unknown day", http.StatusBadRequest)
		return
	case err != nil:
		log.Errorf("start edit for %s: %s", day, err)
		http.Error(w, "start edit failed", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponse(w, toDayPlanResponse(buffer, handler.displayUnit(r)))
}

func (handler *Handler) HandleSetTitle(w http.ResponseWriter, r *http.Request) {
	var params struct {
		Title string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	handler.writeEditResult(w, r, handler.editor.SetTitle(params.Title))
}

func (handler *Handler) HandleSetRestDay(w http.ResponseWriter, r *http.Request) {
	var params struct {
		IsRestDay bool `json:"isRestDay"`
	}
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	handler.writeEditResult(w, r, handler.editor.SetRestDay(params.IsRestDay))
}

func (handler *Handler) HandleAddExercise(w http.ResponseWriter, r *http.Request) {
	if _, err := handler.editor.AddExercise(); err != nil {
		handler.writeEditResult(w, r, err)
		return
	}
	handler.writeEditResult(w, r, nil)
}

type setFieldRequest struct {
	Field string          `json:"field"`
	Value json.RawMessage `json:"value"`
	Unit  units.Unit      `json:"unit,omitempty"`
}

func (handler *Handler) HandleSetField(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.plan.setField")
	defer span.End()

	index, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil {
		http.Error(w, "invalid exercise index", http.StatusBadRequest)
		return
	}

	var params setFieldRequest
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	switch params.Field {
	case "name":
		var name string
		if err := json.Unmarshal(params.Value, &name); err != nil {
			http.Error(w, "invalid name value", http.StatusBadRequest)
			return
		}
		err = handler.editor.SetName(index, name)
	case "muscleGroup":
		var mg MuscleGroup
		if err := json.Unmarshal(params.Value, &mg); err != nil || !ValidMuscleGroup(mg) {
			http.Error(w, "invalid muscle group", http.StatusBadRequest)
			return
		}
		err = handler.editor.SetMuscleGroup(index, mg)
	case "sets", "reps":
		var value int
		if err := json.Unmarshal(params.Value, &value); err != nil {
			http.Error(w, "invalid numeric value", http.StatusBadRequest)
			return
		}
		if params.Field == "sets" {
			err = handler.editor.SetSets(index, value)
		} else {
			err = handler.editor.SetReps(index, value)
		}
	case "weight":
		var value float64
		if err := json.Unmarshal(params.Value, &value); err != nil {
			http.Error(w, "invalid weight value", http.StatusBadRequest)
			return
		}
		unit := params.Unit
		if !units.Valid(unit) {
			unit = handler.displayUnit(r)
		}
		err = handler.editor.SetWeight(index, value, unit)
	default:
		http.Error(w, "unknown field", http.StatusBadRequest)
		return
	}

	handler.writeEditResult(w, r, err)
}

func (handler *Handler) HandleCommit(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.plan.commit")
	defer span.End()

	synced, err := handler.editor.Commit()
	if err != nil {
		handler.writeEditResult(w, r, err)
		return
	}

	handler.metrics.CounterPlanCommits.Inc()
	if synced > 0 {
		handler.metrics.CounterPlanWeightSyncs.Inc()
	}
	pkg.WriteJSONResponse(w, map[string]int{"weightSyncs": synced})
}

func (handler *Handler) HandleDiscard(w http.ResponseWriter, r *http.Request) {
	handler.writeEditResult(w, r, handler.editor.Discard())
}

type deletionScopeResponse struct {
	ExerciseName string   `json:"exerciseName"`
	OtherDays    []string `json:"otherDays"`
}

// HandleDeletionScope tells the client which other days carry a
// same-named exercise, so it can offer "this day only" vs "all days".
func (handler *Handler) HandleDeletionScope(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.plan.deletionScope")
	defer span.End()

	day, index, ok := handler.dayAndIndex(w, r)
	if !ok {
		return
	}

	dp, err := handler.store.GetDay(day)
	if err != nil {
		http.Error(w, "unknown day", http.StatusBadRequest)
		return
	}
	if index < 0 || index >= len(dp.Exercises) {
		http.Error(w, "exercise index out of range", http.StatusBadRequest)
		return
	}

	name := dp.Exercises[index].Name
	otherDays := handler.store.DaysWithExercise(name, day)
	if otherDays == nil {
		otherDays = []string{}
	}
	pkg.WriteJSONResponse(w, deletionScopeResponse{
		ExerciseName: name,
		OtherDays:    otherDays,
	})
}

// HandleRemoveExercise removes an exercise from one day (scope=day,
// default) or every same-named entry plan-wide (scope=all). The scope is
// always an explicit client choice, the server never guesses.
func (handler *Handler) HandleRemoveExercise(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.plan.removeExercise")
	defer span.End()

	day, index, ok := handler.dayAndIndex(w, r)
	if !ok {
		return
	}

	scope := r.URL.Query().Get("scope")
	switch scope {
	case "", "day":
		if err := handler.store.RemoveFromDay(day, index); err != nil {
			http.Error(w, "remove exercise failed", http.StatusBadRequest)
			return
		}
		pkg.WriteJSONResponse(w, map[string]int{"removed": 1})
	case "all":
		dp, err := handler.store.GetDay(day)
		if err != nil {
			http.Error(w, "unknown day", http.StatusBadRequest)
			return
		}
		if index < 0 || index >= len(dp.Exercises) {
			http.Error(w, "exercise index out of range", http.StatusBadRequest)
			return
		}
		removed := handler.store.RemoveFromAllDays(dp.Exercises[index].Name)
		pkg.WriteJSONResponse(w, map[string]int{"removed": removed})
	default:
		http.Error(w, "unknown scope", http.StatusBadRequest)
	}
}

func (handler *Handler) dayAndIndex(w http.ResponseWriter, r *http.Request) (string, int, bool) {
	vars := mux.Vars(r)
	day := vars["day"]
	if !ValidDay(day) {
		http.Error(w, "unknown day", http.StatusBadRequest)
		return "", 0, false
	}
	index, err := strconv.Atoi(vars["index"])
	if err != nil {
		http.Error(w, "invalid exercise index", http.StatusBadRequest)
		return "", 0, false
	}
	return day, index, true
}

func (handler *Handler) writeEditResult(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case err == nil:
		buffer, bufferErr := handler.editor.Buffer()
		if bufferErr != nil {
			pkg.WriteResponse(w, "", "ok")
			return
		}
		pkg.WriteJSONResponse(w, toDayPlanResponse(buffer, handler.displayUnit(r)))
	case errors.Is(err, ErrNotEditing):
		http.Error(w, "no open edit session", http.StatusConflict)
	case errors.Is(err, ErrExerciseIndexOutOfRange):
		http.Error(w, "exercise index out of range", http.StatusBadRequest)
	default:
		log.Errorf("plan edit failed: %s", err)
		http.Error(w, "edit failed", http.StatusInternalServerError)
	}
}

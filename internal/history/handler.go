package history

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/fitflow/fitflow/internal/telemetry/tracing"
	"github.com/fitflow/fitflow/pkg"
)

type Handler struct {
	analyzer *Analyzer
}

func NewHandler(analyzer *Analyzer) *Handler {
	return &Handler{
		analyzer: analyzer,
	}
}

func (handler *Handler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/history", handler.HandleWeeks).Methods("GET", "OPTIONS").Name("history-weeks")
	r.HandleFunc("/history/exercises", handler.HandleExerciseNames).Methods("GET", "OPTIONS").Name("history-exercise-names")
	r.HandleFunc("/history/exercise/{name}", handler.HandleWeeksForExercise).Methods("GET", "OPTIONS").Name("history-for-exercise")
}

func (handler *Handler) HandleWeeks(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.history.weeks")
	defer span.End()

	pkg.WriteJSONResponse(w, handler.analyzer.Weeks(ctx))
}

func (handler *Handler) HandleWeeksForExercise(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.history.weeksForExercise")
	defer span.End()

	name := mux.Vars(r)["name"]
	if name == "" {
		http.Error(w, "exercise name is required", http.StatusBadRequest)
		return
	}
	pkg.WriteJSONResponse(w, handler.analyzer.WeeksForExercise(ctx, name))
}

func (handler *Handler) HandleExerciseNames(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.history.exerciseNames")
	defer span.End()

	pkg.WriteJSONResponse(w, handler.analyzer.ExerciseNames(ctx))
}

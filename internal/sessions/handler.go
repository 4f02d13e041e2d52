package sessions

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/fitflow/fitflow/internal/telemetry/metrics"
	"github.com/fitflow/fitflow/internal/telemetry/tracing"
	"github.com/fitflow/fitflow/pkg"
)

type Handler struct {
	service *Service
	metrics *metrics.Manager
}

func NewHandler(service *Service, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		service: service,
		metrics: metricsManager,
	}
}

func (handler *Handler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/sessions", handler.HandleList).Methods("GET", "OPTIONS").Name("list-sessions")
	r.HandleFunc("/sessions/today", handler.HandleToday).Methods("GET", "OPTIONS").Name("today-session")
	r.HandleFunc("/sessions", handler.HandleUpsert).Methods("PUT", "OPTIONS").Name("upsert-session")
	r.HandleFunc("/sessions/{id}", handler.HandleDelete).Methods("DELETE", "OPTIONS").Name("delete-session")
	r.HandleFunc("/sessions", handler.HandleDeleteAll).Methods("DELETE", "OPTIONS").Name("delete-all-sessions")
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.sessions.list")
	defer span.End()

	sessions := handler.service.List(ctx)
	if sessions == nil {
		sessions = []WorkoutSession{}
	}
	pkg.WriteJSONResponse(w, sessions)
}

func (handler *Handler) HandleToday(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.sessions.today")
	defer span.End()

	pkg.WriteJSONResponse(w, handler.service.TodayWorkout(ctx))
}

func (handler *Handler) HandleUpsert(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.sessions.upsert")
	defer span.End()

	var session WorkoutSession
	if err := json.NewDecoder(r.Body).Decode(&session); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if session.ID == "" || session.Date.IsZero() {
		http.Error(w, "session id and date are required", http.StatusBadRequest)
		return
	}

	if err := handler.service.Upsert(ctx, session); err != nil {
		log.Errorf("upsert session [%s]: %s", session.ID, err)
		http.Error(w, "upsert session failed", http.StatusInternalServerError)
		return
	}

	handler.metrics.CounterSessionsUpserted.Inc()
	pkg.WriteResponse(w, "", "upserted:"+session.ID)
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.sessions.delete")
	defer span.End()

	sessionID := mux.Vars(r)["id"]
	err := handler.service.Delete(ctx, sessionID)
	switch {
	case errors.Is(err, ErrSessionNotFound):
		http.Error(w, "session not found", http.StatusNotFound)
	case err != nil:
		log.Errorf("delete session [%s]: %s", sessionID, err)
		http.Error(w, "delete session failed", http.StatusInternalServerError)
	default:
		pkg.WriteResponse(w, "", "deleted:"+sessionID)
	}
}

// HandleDeleteAll backs the history reset in settings. Destructive, the
// client is expected to confirm before calling.
func (handler *Handler) HandleDeleteAll(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.sessions.deleteAll")
	defer span.End()

	if err := handler.service.DeleteAll(ctx); err != nil {
		log.Errorf("delete all sessions: %s", err)
		http.Error(w, "delete all sessions failed", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponse(w, "", "deleted:all")
}

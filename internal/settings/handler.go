package settings

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/fitflow/fitflow/internal/localstore"
	"github.com/fitflow/fitflow/internal/plan"
	"github.com/fitflow/fitflow/internal/telemetry/tracing"
	"github.com/fitflow/fitflow/internal/units"
	"github.com/fitflow/fitflow/pkg"
)

type sessionsWiper interface {
	DeleteAll(ctx context.Context) error
}

// Handler serves the settings screen: display unit preference and the
// danger-zone reset that wipes all user data.
type Handler struct {
	store    *localstore.Store
	plans    *plan.Store
	sessions sessionsWiper
	userID   string
}

func NewHandler(
	store *localstore.Store,
	plans *plan.Store,
	sessions sessionsWiper,
	userID string,
) *Handler {
	return &Handler{
		store:    store,
		plans:    plans,
		sessions: sessions,
		userID:   userID,
	}
}

func (handler *Handler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/settings/unit", handler.HandleGetUnit).Methods("GET", "OPTIONS").Name("get-unit")
	r.HandleFunc("/settings/unit", handler.HandleSetUnit).Methods("PUT", "OPTIONS").Name("set-unit")
	r.HandleFunc("/settings/data", handler.HandleResetData).Methods("DELETE", "OPTIONS").Name("reset-data")
}

func (handler *Handler) HandleGetUnit(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.settings.getUnit")
	defer span.End()

	unit := units.Kg
	if stored, err := handler.store.GetUnit(ctx, handler.userID); err == nil {
		if u := units.Unit(stored); units.Valid(u) {
			unit = u
		}
	}
	pkg.WriteJSONResponse(w, map[string]units.Unit{"unit": unit})
}

func (handler *Handler) HandleSetUnit(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.settings.setUnit")
	defer span.End()

	var params struct {
		Unit units.Unit `json:"unit"`
	}
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if !units.Valid(params.Unit) {
		http.Error(w, "unknown unit", http.StatusBadRequest)
		return
	}

	if err := handler.store.SetUnit(ctx, handler.userID, string(params.Unit)); err != nil {
		log.Errorf("set unit preference: %s", err)
		http.Error(w, "set unit failed", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponse(w, "", "unit:"+string(params.Unit))
}

// HandleResetData wipes the workout history and restores the default
// weekly plan. Destructive, the client confirms before calling.
func (handler *Handler) HandleResetData(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.settings.resetData")
	defer span.End()

	if err := handler.sessions.DeleteAll(ctx); err != nil {
		log.Errorf("reset data: delete sessions: %s", err)
		http.Error(w, "reset failed", http.StatusInternalServerError)
		return
	}

	handler.plans.ReplaceAll(plan.DefaultWeeklyPlan())
	pkg.WriteResponse(w, "", "reset:done")
}

package coach

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/fitflow/fitflow/internal/middleware"
	"github.com/fitflow/fitflow/internal/telemetry/metrics"
	"github.com/fitflow/fitflow/internal/telemetry/tracing"
	"github.com/fitflow/fitflow/pkg"
)

const maxPromptLength = 4000

type Handler struct {
	api     *Api
	metrics *metrics.Manager
}

func NewHandler(api *Api, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		api:     api,
		metrics: metricsManager,
	}
}

func (handler *Handler) SetupRoutes(
	r *mux.Router,
	rateLimiter middleware.RequestRateLimiter,
	promptsPerMin int,
) {
	askRouter := r.PathPrefix("/coach").Subrouter()
	askRouter.Use(middleware.RateLimit(rateLimiter, "coach-ask", promptsPerMin))
	askRouter.HandleFunc("/ask", handler.HandleAsk).Methods("POST", "OPTIONS").Name("coach-ask")
}

type askRequest struct {
	Prompt string `json:"prompt"`
}

type askResponse struct {
	Answer   string `json:"answer"`
	Fallback bool   `json:"fallback"`
}

func (handler *Handler) HandleAsk(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.coach.ask")
	defer span.End()

	var params askRequest
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	prompt := strings.TrimSpace(params.Prompt)
	if prompt == "" {
		http.Error(w, "prompt is required", http.StatusBadRequest)
		return
	}
	if len(prompt) > maxPromptLength {
		http.Error(w, "prompt too long", http.StatusRequestEntityTooLarge)
		return
	}

	handler.metrics.CounterCoachPrompts.Inc()

	answer, usedFallback := handler.api.Ask(ctx, prompt)
	if usedFallback {
		handler.metrics.CounterCoachFallbacks.Inc()
	}

	pkg.WriteJSONResponse(w, askResponse{
		Answer:   answer,
		Fallback: usedFallback,
	})
}

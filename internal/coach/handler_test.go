package coach

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitflow/fitflow/internal/telemetry/metrics"
)

type testRequestRateLimiter struct {
	allowed bool
}

func (l *testRequestRateLimiter) Allow(_ context.Context, _ string, limit redis_rate.Limit) (*redis_rate.Result, error) {
	res := &redis_rate.Result{
		Limit: limit,
	}
	if l.allowed {
		res.Allowed = 1
	} else {
		res.RetryAfter = 30 * time.Second
	}
	return res, nil
}

func newTestCoachRouter(api *Api, limiter *testRequestRateLimiter) *mux.Router {
	router := mux.NewRouter()
	NewHandler(api, metrics.NewTestManager()).SetupRoutes(router, limiter, 5)
	return router
}

func askViaRouter(t *testing.T, router *mux.Router, prompt string) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(askRequest{Prompt: prompt})
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/coach/ask", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestHandler_HandleAsk(t *testing.T) {
	var hits atomic.Int32
	upstream := newUpstreamStub(t, &hits, http.StatusOK, "Form over ego, always.")
	defer upstream.Close()

	router := newTestCoachRouter(newTestApi(upstream.URL), &testRequestRateLimiter{allowed: true})

	rr := askViaRouter(t, router, "how heavy should I go?")
	require.Equal(t, http.StatusOK, rr.Code)

	var resp askResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "Form over ego, always.", resp.Answer)
	assert.False(t, resp.Fallback)
}

func TestHandler_HandleAsk_fallback(t *testing.T) {
	var hits atomic.Int32
	upstream := newUpstreamStub(t, &hits, http.StatusBadGateway)
	defer upstream.Close()

	router := newTestCoachRouter(newTestApi(upstream.URL), &testRequestRateLimiter{allowed: true})

	rr := askViaRouter(t, router, "anyone home?")
	require.Equal(t, http.StatusOK, rr.Code)

	var resp askResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, FallbackMessage, resp.Answer)
	assert.True(t, resp.Fallback)
}

func TestHandler_HandleAsk_emptyPrompt(t *testing.T) {
	router := newTestCoachRouter(newTestApi("http://127.0.0.1:1"), &testRequestRateLimiter{allowed: true})

	rr := askViaRouter(t, router, "   ")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandler_HandleAsk_rateLimited(t *testing.T) {
	router := newTestCoachRouter(newTestApi("http://127.0.0.1:1"), &testRequestRateLimiter{allowed: false})

	rr := askViaRouter(t, router, "one question too many")
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Equal(t, "30", rr.Header().Get("Retry-After"))
}

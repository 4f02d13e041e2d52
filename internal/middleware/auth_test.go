package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthCheck(t *testing.T) {
	authHandler := NewAuthMiddlewareHandler("top-secret")
	nextCalled := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalled = true
	})
	handler := authHandler.AuthCheck()(next)

	// open path, no secret needed
	req := httptest.NewRequest(http.MethodGet, "/plan", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	require.True(t, nextCalled)
	assert.Equal(t, http.StatusOK, rr.Code)

	// guarded path, missing secret
	nextCalled = false
	req = httptest.NewRequest(http.MethodPost, "/plan/Monday/edit", nil)
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.False(t, nextCalled)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	// guarded path, correct secret
	req = httptest.NewRequest(http.MethodPost, "/plan/Monday/edit", nil)
	req.Header.Set("X-FITFLOW-APP-SECRET", "top-secret")
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.True(t, nextCalled)
	assert.Equal(t, http.StatusOK, rr.Code)

	// options preflight passes without auth
	nextCalled = false
	req = httptest.NewRequest(http.MethodOptions, "/plan/Monday/edit", nil)
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.False(t, nextCalled)
	assert.Equal(t, http.StatusOK, rr.Code)
}

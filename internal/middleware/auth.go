package middleware

import (
	"net/http"
	"strings"

	"github.com/fitflow/fitflow/internal/telemetry/tracing"

	"go.opentelemetry.io/otel/codes"
)

// AuthMiddlewareHandler guards mutating endpoints with the mobile app secret.
// Read-only endpoints stay open, same as the rest of the personal setup.
type AuthMiddlewareHandler struct {
	appSecret            string
	allowedPaths         map[string]bool
	allowedPathsPrefixes []string
}

func NewAuthMiddlewareHandler(appSecret string) *AuthMiddlewareHandler {
	return &AuthMiddlewareHandler{
		appSecret: appSecret,
		allowedPaths: map[string]bool{
			"/":        true,
			"/version": true,
			"/plan":    true,
			"/history": true,
		},
		allowedPathsPrefixes: []string{
			"/history/exercise/",
		},
	}
}

func (h *AuthMiddlewareHandler) pathIsAlwaysAllowed(path string) bool {
	if h.allowedPaths[path] {
		return true
	}
	for _, prefix := range h.allowedPathsPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func (h *AuthMiddlewareHandler) AuthCheck() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, span := tracing.GlobalTracer.Start(r.Context(), "middleware.auth")
			defer span.End()

			if r.Method == http.MethodOptions {
				w.Header().Add("Allow", "GET, POST, PUT, DELETE, OPTIONS")
				w.WriteHeader(http.StatusOK)
				span.SetStatus(codes.Ok, "options-ok")
				return
			}

			if h.pathIsAlwaysAllowed(r.URL.Path) {
				span.SetStatus(codes.Ok, "ok")
				next.ServeHTTP(w, r)
				return
			}

			if r.Header.Get("X-FITFLOW-APP-SECRET") != h.appSecret {
				span.SetStatus(codes.Error, "unauthorized")
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			span.SetStatus(codes.Ok, "ok")
			next.ServeHTTP(w, r)
		})
	}
}

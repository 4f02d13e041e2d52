package middleware

import (
	"net/http"
	"strings"

	log "github.com/sirupsen/logrus"
)

var allowedOrigins = map[string]bool{
	"https://fitflow.app":    true,
	"http://localhost:5173":  true,
	"http://localhost:8080":  true,
	"test":                   true,
}

func Cors() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			userAgent := r.Header.Get("User-Agent")

			switch {
			case
				allowedOrigins[origin],
				strings.HasPrefix(userAgent, "FitFlow/1"),
				strings.HasPrefix(userAgent, "curl/"),
				strings.HasPrefix(userAgent, "test-agent"):
				w.Header().Set("Access-Control-Allow-Origin", origin)
			default:
				log.Tracef("cors: origin not allowed: [%s], ua: [%s]", origin, userAgent)
			}

			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-FITFLOW-APP-SECRET")

			next.ServeHTTP(w, r)
		})
	}
}

package middleware

import (
	"net/http"

	"brightdesk-hq/readiness/pkg/config"

	"github.com/go-chi/cors"
)

// CORSMiddleware builds a go-chi/cors handler from the server CORS section.
// When CORS is disabled the returned middleware is a pass-through.
func CORSMiddleware(cfg config.CORSConfig) func(http.Handler) http.Handler {
	if !cfg.Enabled {
		return func(next http.Handler) http.Handler { return next }
	}

	return cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   cfg.AllowedMethods,
		AllowedHeaders:   cfg.AllowedHeaders,
		ExposedHeaders:   []string{RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           cfg.MaxAge,
	})
}

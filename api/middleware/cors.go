package middleware

import (
	"net/http"

	"github.com/go-chi/cors"

	"github.com/hyejinmoon/babysteps-backend/pkg/config"
)

// CORS returns middleware that applies the configured allowed origin policy.
func CORS(cfg config.CORSConfig) func(http.Handler) http.Handler {
	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Session-Id", "X-Request-Id", "X-Requested-With"},
		ExposedHeaders: []string{"X-Session-Id", "X-Request-Id"},
		MaxAge:         300,
	}).Handler
}

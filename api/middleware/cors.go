package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// The legacy clients are a mobile app (no Origin header) and a handful of
// web dashboards; the open policy mirrors what those dashboards expect.
var defaultCORSOrigins = []string{"*"}

// CORS returns middleware that applies the API's allowed origin policy.
func CORS() func(http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins: defaultCORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Requested-With"},
		MaxAge:         300,
	}).Handler
}

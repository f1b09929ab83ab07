package controllers

import (
	"net/http"
	"time"

	"github.com/avisosapp/push-backend/api/responses"
	"github.com/avisosapp/push-backend/pkg/config"
)

const (
	serviceName    = "Mobile Push Notification Service"
	serviceVersion = "2.0.0"
)

// Health is the process-level liveness endpoint.
func Health(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Avisos-Env", cfg.App.Env)
		responses.WriteHealthy(w, map[string]any{
			"service":   serviceName,
			"version":   serviceVersion,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}

// ServiceInfo publishes the endpoint inventory for client discovery.
func ServiceInfo() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]any{
			"service":     serviceName,
			"version":     serviceVersion,
			"description": "Custom push notification service for mobile devices",
			"endpoints": map[string]string{
				"register_device":       "POST /api/usuarios/registrarTokenAlt",
				"pending_notifications": "GET /api/notificaciones/pendientes",
				"send_notification":     "POST /api/notificaciones/enviar",
				"notification_history":  "GET /api/notificaciones/historial",
				"mark_as_read":          "POST /api/notificaciones/marcar-leida",
				"user_devices":          "GET /api/usuarios/{userId}/dispositivos",
				"statistics":            "GET /api/notificaciones/estadisticas",
				"cleanup":               "POST /api/notificaciones/limpiar",
				"health":                "GET /api/notificaciones/health",
			},
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}

package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/avisosapp/push-backend/api/controllers"
	"github.com/avisosapp/push-backend/api/middleware"
	"github.com/avisosapp/push-backend/api/responses"
	"github.com/avisosapp/push-backend/internal/devices"
	"github.com/avisosapp/push-backend/internal/notifications"
	"github.com/avisosapp/push-backend/internal/webpush"
	"github.com/avisosapp/push-backend/pkg/config"
	"github.com/avisosapp/push-backend/pkg/logger"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	deviceService devices.Service,
	notificationService notifications.Service,
	webPushService webpush.Service,
	registry *prometheus.Registry,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Get("/health", controllers.Health(cfg))

	r.Route("/api", func(r chi.Router) {
		r.Get("/info", controllers.ServiceInfo())

		r.Route("/usuarios", func(r chi.Router) {
			r.Post("/registrarTokenAlt", controllers.RegisterDeviceToken(deviceService, logg))
			r.Get("/{userId}/dispositivos", controllers.ListUserDevices(deviceService, logg))
		})

		r.Route("/notificaciones", func(r chi.Router) {
			r.Get("/pendientes", controllers.PendingNotifications(notificationService, deviceService, logg))
			r.Post("/enviar", controllers.SendNotification(notificationService, logg))
			r.Get("/historial", controllers.NotificationHistory(notificationService, logg))
			r.Post("/marcar-leida", controllers.MarkNotificationRead(notificationService, logg))
			r.Get("/estadisticas", controllers.NotificationStats(notificationService, logg))
			r.Post("/limpiar", controllers.CleanupNotifications(notificationService, logg))
			r.Get("/health", controllers.NotificationsHealth(deviceService, logg))
		})

		r.Route("/web-push", func(r chi.Router) {
			r.Post("/subscriptions", controllers.SaveWebPushSubscription(webPushService, logg))
			r.Post("/notifications", controllers.SendWebPushNotification(webPushService, logg))
			r.Get("/notifications", controllers.WebPushHistory(webPushService, logg))
		})
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		responses.WriteNotFound(w)
	})

	return r
}

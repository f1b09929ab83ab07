package controllers

import (
	"net/http"
	"time"

	"github.com/avisosapp/push-backend/api/responses"
	"github.com/avisosapp/push-backend/api/validators"
	"github.com/avisosapp/push-backend/internal/devices"
	"github.com/avisosapp/push-backend/internal/notifications"
	pkgerrors "github.com/avisosapp/push-backend/pkg/errors"
	"github.com/avisosapp/push-backend/pkg/logger"
)

// SendNotification enqueues a pending notification for later polling.
func SendNotification(svc notifications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "notifications service unavailable"))
			return
		}

		var req notifications.CreateRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Create(r.Context(), req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessMessage(w, "Notification sent successfully", result)
	}
}

// PendingNotifications is the poll endpoint. It also refreshes the polling
// device's last_seen before reading, matching the legacy heartbeat coupling.
func PendingNotifications(svc notifications.Service, deviceSvc devices.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "notifications service unavailable"))
			return
		}

		userID, err := validators.RequireQueryString(r, "user_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		deviceToken, err := validators.RequireQueryString(r, "device_token")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if deviceSvc != nil {
			if err := deviceSvc.TouchLastSeen(r.Context(), deviceToken); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		rows, err := svc.ListPending(r.Context(), userID, deviceToken)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if rows == nil {
			rows = []notifications.PendingNotification{}
		}
		responses.WriteSuccessCount(w, rows, len(rows))
	}
}

type markReadRequest struct {
	NotificationID int64  `json:"notification_id" validate:"required"`
	UserID         string `json:"user_id" validate:"required"`
}

// MarkNotificationRead acknowledges a notification on behalf of its owner.
func MarkNotificationRead(svc notifications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "notifications service unavailable"))
			return
		}

		var req markReadRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.MarkRead(r.Context(), req.NotificationID, req.UserID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessMessage(w, "Notification marked as read", nil)
	}
}

// NotificationHistory lists all statuses for a user, newest first.
func NotificationHistory(svc notifications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "notifications service unavailable"))
			return
		}

		userID, err := validators.RequireQueryString(r, "user_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		limit := validators.QueryIntDefault(r, "limit", 50)

		entries, err := svc.History(r.Context(), userID, limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if entries == nil {
			entries = []notifications.HistoryEntry{}
		}
		responses.WriteSuccessCount(w, entries, len(entries))
	}
}

// NotificationStats aggregates the trailing seven days for a user.
func NotificationStats(svc notifications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "notifications service unavailable"))
			return
		}

		userID, err := validators.RequireQueryString(r, "user_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		stats, err := svc.Stats(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stats)
	}
}

type cleanupRequest struct {
	DaysOld int `json:"days_old" validate:"omitempty,min=1,max=365"`
}

// CleanupNotifications sweeps aged read/failed rows. It is the only
// garbage-collection path and runs only when called.
func CleanupNotifications(svc notifications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "notifications service unavailable"))
			return
		}

		req := cleanupRequest{}
		if r.Body != nil && r.ContentLength != 0 {
			if err := validators.DecodeJSONBody(r, &req); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		deleted, err := svc.Cleanup(r.Context(), req.DaysOld)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessMessage(w, "Old notifications cleaned up", map[string]int64{"deleted": deleted})
	}
}

// NotificationsHealth reports store reachability via a live device count.
func NotificationsHealth(svc devices.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteUnhealthy(w, "devices service unavailable")
			return
		}

		count, err := svc.CountActive(r.Context())
		if err != nil {
			if logg != nil {
				logg.Error(r.Context(), "health check failed", err)
			}
			responses.WriteUnhealthy(w, "database unreachable")
			return
		}

		responses.WriteHealthy(w, map[string]any{
			"message": "Mobile notification service is running",
			"data": map[string]any{
				"active_devices": count,
				"timestamp":      time.Now().UTC().Format(time.RFC3339),
			},
		})
	}
}

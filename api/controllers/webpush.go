package controllers

import (
	"net/http"

	"github.com/avisosapp/push-backend/api/responses"
	"github.com/avisosapp/push-backend/api/validators"
	"github.com/avisosapp/push-backend/internal/webpush"
	pkgerrors "github.com/avisosapp/push-backend/pkg/errors"
	"github.com/avisosapp/push-backend/pkg/logger"
)

// SaveWebPushSubscription stores a browser subscription. Duplicate endpoints
// create new rows; the legacy contract never deduplicated.
func SaveWebPushSubscription(svc webpush.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "webpush service unavailable"))
			return
		}

		var req webpush.SubscriptionRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sub, err := svc.SaveSubscription(r.Context(), req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessMessage(w, "Subscription saved successfully", map[string]int64{"subscription_id": sub.ID})
	}
}

type webPushSendRequest struct {
	Subscription []webpush.SubscriptionRequest `json:"subscription" validate:"required,min=1,dive"`
	Payload      []webPushPayload              `json:"payload" validate:"required,min=1,dive"`
}

type webPushPayload struct {
	Title string         `json:"title" validate:"required"`
	Body  string         `json:"body" validate:"required"`
	Icon  string         `json:"icon,omitempty"`
	Data  map[string]any `json:"data,omitempty"`
}

// SendWebPushNotification saves the posted subscription, then delivers to it
// through the gateway. The legacy clients post both as single-element arrays
// and only the first element of each is honored.
func SendWebPushNotification(svc webpush.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "webpush service unavailable"))
			return
		}

		var req webPushSendRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sub, err := svc.SaveSubscription(r.Context(), req.Subscription[0])
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		payload := req.Payload[0]
		if _, err := svc.Send(r.Context(), webpush.SendRequest{
			SubscriptionID: sub.ID,
			Title:          payload.Title,
			Body:           payload.Body,
			Icon:           payload.Icon,
			Data:           payload.Data,
		}); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessMessage(w, "Notification sent successfully", nil)
	}
}

// WebPushHistory lists delivery attempts, newest first.
func WebPushHistory(svc webpush.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "webpush service unavailable"))
			return
		}

		limit := validators.QueryIntDefault(r, "limit", 100)

		records, err := svc.History(r.Context(), limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if records == nil {
			records = []webpush.DeliveryRecord{}
		}
		responses.WriteSuccessCount(w, records, len(records))
	}
}

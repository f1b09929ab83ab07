package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/avisosapp/push-backend/api/responses"
	"github.com/avisosapp/push-backend/api/validators"
	"github.com/avisosapp/push-backend/internal/devices"
	pkgerrors "github.com/avisosapp/push-backend/pkg/errors"
	"github.com/avisosapp/push-backend/pkg/logger"
)

// RegisterDeviceToken upserts a device registration keyed on device_token.
func RegisterDeviceToken(svc devices.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "devices service unavailable"))
			return
		}

		var req devices.RegisterRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Register(r.Context(), req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessMessage(w, "Device registered successfully", result)
	}
}

// ListUserDevices returns the user's active devices, most recently seen first.
func ListUserDevices(svc devices.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "devices service unavailable"))
			return
		}

		userID := chi.URLParam(r, "userId")
		summaries, err := svc.ListForUser(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if summaries == nil {
			summaries = []devices.DeviceSummary{}
		}
		responses.WriteSuccessCount(w, summaries, len(summaries))
	}
}

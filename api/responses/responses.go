package responses

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	pkgerrors "github.com/avisosapp/push-backend/pkg/errors"
	"github.com/avisosapp/push-backend/pkg/logger"
	"github.com/avisosapp/push-backend/pkg/types"
)

func WriteSuccess(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, types.Envelope{Status: types.StatusSuccess, Data: data})
}

// WriteSuccessCount is the list-endpoint shape. Count is emitted even when
// zero.
func WriteSuccessCount(w http.ResponseWriter, data any, count int) {
	writeJSON(w, http.StatusOK, types.Envelope{Status: types.StatusSuccess, Data: data, Count: &count})
}

func WriteSuccessMessage(w http.ResponseWriter, message string, data any) {
	writeJSON(w, http.StatusOK, types.Envelope{Status: types.StatusSuccess, Message: message, Data: data})
}

func WriteHealthy(w http.ResponseWriter, payload map[string]any) {
	body := map[string]any{"status": types.StatusHealthy}
	for k, v := range payload {
		body[k] = v
	}
	writeJSON(w, http.StatusOK, body)
}

func WriteUnhealthy(w http.ResponseWriter, reason string) {
	writeJSON(w, http.StatusServiceUnavailable, map[string]any{
		"status": types.StatusUnhealthy,
		"error":  reason,
	})
}

// WriteNotFound is the router fallback for unknown paths.
func WriteNotFound(w http.ResponseWriter) {
	writeJSON(w, http.StatusNotFound, types.ErrorEnvelope{
		Status:  types.StatusError,
		Message: "Endpoint not found",
	})
}

func WriteError(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, err error) {
	if err == nil {
		err = errors.New("unknown error")
	}

	typed := pkgerrors.As(err)
	if typed == nil {
		typed = pkgerrors.Wrap(pkgerrors.CodeInternal, err, "unexpected error")
	}

	meta := pkgerrors.MetadataFor(typed.Code())

	msg := meta.PublicMessage
	if typed.Code() == pkgerrors.CodeValidation {
		if m := typed.Message(); m != "" {
			msg = m
		}
	}

	payload := types.ErrorEnvelope{
		Status:  types.StatusError,
		Message: msg,
	}
	if meta.DetailsAllowed {
		if details := typed.Details(); details != nil {
			payload.Errors = details
		}
	}

	if logg != nil {
		dump := pkgerrors.Dump(err)
		ctx = logg.WithFields(ctx, map[string]any{
			"error":         dump.TopMessage,
			"error_code":    dump.Code,
			"error_chain":   dump.Chain,
			"pg_code":       dump.PGCode,
			"pg_violation":  dump.PGViolation,
			"pg_detail":     dump.PGDetail,
			"pg_constraint": dump.PGConstraint,
		})
		logg.Error(ctx, "request.error", err)
	}

	writeJSON(w, meta.HTTPStatus, payload)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf(`{"level":"error","msg":"failed to encode response","err":"%v"}`, err)
	}
}

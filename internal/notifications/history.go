package notifications

import (
	"context"
	"time"

	"github.com/avisosapp/push-backend/pkg/db/models"
	"github.com/avisosapp/push-backend/pkg/enums"
	"github.com/avisosapp/push-backend/pkg/logger"
)

// Recorder appends audit-trail entries for lifecycle transitions. It is a
// best-effort side channel: a failed append is logged and swallowed, and no
// transaction links it to the primary write. A crash between the two leaves
// a transition without a history row; that gap is accepted.
type Recorder struct {
	repo Repository
	logg *logger.Logger
}

// NewRecorder wires the history recorder.
func NewRecorder(repo Repository, logg *logger.Logger) *Recorder {
	return &Recorder{repo: repo, logg: logg}
}

// Record appends one entry. Never returns an error to the caller.
func (r *Recorder) Record(ctx context.Context, notificationID int64, deviceToken *string, action enums.HistoryAction, details string) {
	if r == nil || r.repo == nil {
		return
	}

	entry := models.NotificationHistory{
		NotificationID: notificationID,
		DeviceToken:    deviceToken,
		Action:         action,
		Timestamp:      time.Now().UTC(),
		Details:        details,
	}

	if err := r.repo.AppendHistory(ctx, &entry); err != nil && r.logg != nil {
		ctx = r.logg.WithFields(ctx, map[string]any{
			"notification_id": notificationID,
			"action":          string(action),
		})
		r.logg.Error(ctx, "history append failed", err)
	}
}

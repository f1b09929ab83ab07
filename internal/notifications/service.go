package notifications

import (
	"context"
	"time"

	"github.com/avisosapp/push-backend/pkg/db/models"
	dbtypes "github.com/avisosapp/push-backend/pkg/db/types"
	"github.com/avisosapp/push-backend/pkg/enums"
	pkgerrors "github.com/avisosapp/push-backend/pkg/errors"
	"github.com/avisosapp/push-backend/pkg/metrics"
)

const (
	// pendingLimit caps the poll endpoint; clients drain in pages of 50.
	pendingLimit = 50
	// statsWindow is the trailing aggregation window.
	statsWindow = 7 * 24 * time.Hour
	// DefaultCleanupDays applies when the sweep is invoked without an age.
	DefaultCleanupDays = 30

	cleanupJob = "notification_cleanup"
)

// Service defines notification lifecycle operations.
type Service interface {
	Create(ctx context.Context, req CreateRequest) (*CreateResult, error)
	ListPending(ctx context.Context, userID, deviceToken string) ([]PendingNotification, error)
	MarkRead(ctx context.Context, notificationID int64, userID string) error
	History(ctx context.Context, userID string, limit int) ([]HistoryEntry, error)
	Stats(ctx context.Context, userID string) (*Stats, error)
	Cleanup(ctx context.Context, daysOld int) (int64, error)
}

type service struct {
	repo     Repository
	recorder *Recorder
	jobs     *metrics.MaintenanceMetrics
}

// CreateRequest carries the sender payload for a new pending notification.
type CreateRequest struct {
	Title            string         `json:"title" validate:"required"`
	Body             string         `json:"body" validate:"required"`
	TargetUserID     string         `json:"target_user_id" validate:"required"`
	SenderID         string         `json:"sender_id" validate:"required"`
	Data             map[string]any `json:"data,omitempty"`
	Priority         string         `json:"priority,omitempty" validate:"omitempty,oneof=low normal high"`
	NotificationType string         `json:"notification_type,omitempty"`
	TargetToken      *string        `json:"target_token,omitempty"`
}

// CreateResult reports the assigned identity.
type CreateResult struct {
	NotificationID int64 `json:"notification_id"`
}

// NewService wires notifications dependencies. The recorder and job metrics
// are optional; a nil recorder disables the audit trail.
func NewService(repo Repository, recorder *Recorder, jobs *metrics.MaintenanceMetrics) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "notifications repository required")
	}
	return &service{repo: repo, recorder: recorder, jobs: jobs}, nil
}

// Create inserts the pending row, then emits the "created" history event.
// The insert is strict; the history emission is soft-fire.
func (s *service) Create(ctx context.Context, req CreateRequest) (*CreateResult, error) {
	if req.Title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title required")
	}
	if req.Body == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "body required")
	}
	if req.TargetUserID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "target_user_id required")
	}
	if req.SenderID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sender_id required")
	}

	priority := enums.PriorityNormal
	if req.Priority != "" {
		var err error
		priority, err = enums.ParsePriority(req.Priority)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid priority")
		}
	}

	notificationType := req.NotificationType
	if notificationType == "" {
		notificationType = "custom"
	}

	data := req.Data
	if data == nil {
		data = map[string]any{}
	}

	targetUserID := req.TargetUserID
	notification := models.Notification{
		DeviceToken:      req.TargetToken,
		TargetUserID:     &targetUserID,
		SenderID:         req.SenderID,
		Title:            req.Title,
		Body:             req.Body,
		Data:             dbtypes.JSONMap(data),
		Priority:         priority,
		NotificationType: notificationType,
		Status:           enums.NotificationStatusPending,
		CreatedAt:        time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, &notification); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStore, err, "create notification")
	}

	s.recorder.Record(ctx, notification.ID, req.TargetToken, enums.HistoryActionCreated, "Notification created successfully")

	return &CreateResult{NotificationID: notification.ID}, nil
}

// ListPending is the poll endpoint. Reading pending rows does not transition
// them; acknowledgment is a separate explicit call.
func (s *service) ListPending(ctx context.Context, userID, deviceToken string) ([]PendingNotification, error) {
	if userID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user_id required")
	}
	if deviceToken == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "device_token required")
	}

	rows, err := s.repo.ListPending(ctx, userID, deviceToken, pendingLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStore, err, "list pending notifications")
	}
	return rows, nil
}

// MarkRead enforces ownership: zero matched rows means the id is unknown or
// belongs to another user, and the two cases are deliberately not
// distinguishable from the outside.
func (s *service) MarkRead(ctx context.Context, notificationID int64, userID string) error {
	if notificationID <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "notification_id required")
	}
	if userID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "user_id required")
	}

	affected, err := s.repo.MarkRead(ctx, notificationID, userID, time.Now().UTC())
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeStore, err, "mark notification read")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFoundOrUnauthorized, "notification not found or not authorized")
	}

	s.recorder.Record(ctx, notificationID, nil, enums.HistoryActionRead, "Notification marked as read")
	return nil
}

// History trusts the caller-supplied limit as-is.
func (s *service) History(ctx context.Context, userID string, limit int) ([]HistoryEntry, error) {
	if userID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user_id required")
	}
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.repo.History(ctx, userID, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStore, err, "fetch notification history")
	}
	return rows, nil
}

func (s *service) Stats(ctx context.Context, userID string) (*Stats, error) {
	if userID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user_id required")
	}

	stats, err := s.repo.Stats(ctx, userID, time.Now().UTC().Add(-statsWindow))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStore, err, "fetch notification stats")
	}
	return stats, nil
}

// Cleanup is the only garbage-collection path. Invocation is the caller's
// responsibility; nothing schedules it here.
func (s *service) Cleanup(ctx context.Context, daysOld int) (int64, error) {
	if daysOld <= 0 {
		daysOld = DefaultCleanupDays
	}

	start := time.Now()
	cutoff := time.Now().UTC().AddDate(0, 0, -daysOld)

	deleted, err := s.repo.DeleteOlderThan(ctx, cutoff)
	s.jobs.ObserveDuration(cleanupJob, time.Since(start))
	if err != nil {
		s.jobs.IncFailure(cleanupJob)
		return 0, pkgerrors.Wrap(pkgerrors.CodeStore, err, "cleanup old notifications")
	}

	s.jobs.IncSuccess(cleanupJob)
	s.jobs.AddSwept(cleanupJob, deleted)
	return deleted, nil
}

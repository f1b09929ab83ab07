package notifications

import (
	"context"
	"time"

	"github.com/avisosapp/push-backend/pkg/db/models"
	dbtypes "github.com/avisosapp/push-backend/pkg/db/types"
	"github.com/avisosapp/push-backend/pkg/enums"
	"gorm.io/gorm"
)

// Repository exposes persistence helpers for the notification lifecycle.
type Repository interface {
	Create(ctx context.Context, notification *models.Notification) error
	ListPending(ctx context.Context, userID, deviceToken string, limit int) ([]PendingNotification, error)
	MarkRead(ctx context.Context, notificationID int64, userID string, now time.Time) (int64, error)
	History(ctx context.Context, userID string, limit int) ([]HistoryEntry, error)
	Stats(ctx context.Context, userID string, since time.Time) (*Stats, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
	AppendHistory(ctx context.Context, entry *models.NotificationHistory) error
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a notifications repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

// PendingNotification is the poll-endpoint row shape.
type PendingNotification struct {
	ID               int64           `json:"id"`
	Title            string          `json:"title"`
	Body             string          `json:"body"`
	Data             dbtypes.JSONMap `json:"data"`
	NotificationType string          `json:"notification_type"`
	Priority         enums.Priority  `json:"priority"`
	CreatedAt        time.Time       `json:"created_at"`
	SenderID         string          `json:"sender_id"`
}

// HistoryEntry joins a notification to the device it targeted, when one is
// still registered. Device columns are blank for user-addressed rows.
type HistoryEntry struct {
	ID               int64                    `json:"id"`
	Title            string                   `json:"title"`
	Body             string                   `json:"body"`
	Data             dbtypes.JSONMap          `json:"data"`
	NotificationType string                   `json:"notification_type"`
	Priority         enums.Priority           `json:"priority"`
	Status           enums.NotificationStatus `json:"status"`
	CreatedAt        time.Time                `json:"created_at"`
	SentAt           *time.Time               `json:"sent_at,omitempty"`
	ReadAt           *time.Time               `json:"read_at,omitempty"`
	SenderID         string                   `json:"sender_id"`
	DeviceName       *string                  `json:"device_name,omitempty"`
	Platform         *enums.Platform          `json:"platform,omitempty"`
}

// Stats aggregates the trailing window in one pass.
type Stats struct {
	Total   int64 `json:"total"`
	Pending int64 `json:"pending"`
	Read    int64 `json:"read"`
	Failed  int64 `json:"failed"`
}

func (r *repositoryImpl) Create(ctx context.Context, notification *models.Notification) error {
	return r.db.WithContext(ctx).Create(notification).Error
}

func (r *repositoryImpl) ListPending(ctx context.Context, userID, deviceToken string, limit int) ([]PendingNotification, error) {
	var out []PendingNotification
	err := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Select("id", "title", "body", "data", "notification_type", "priority", "created_at", "sender_id").
		Where("(target_user_id = ? OR device_token = ?) AND status = ?", userID, deviceToken, enums.NotificationStatusPending).
		Order("created_at DESC").
		Limit(limit).
		Scan(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// MarkRead is the ownership-checked acknowledgment. The predicate does not
// exclude already-read rows, so a repeated acknowledgment re-sets read_at
// instead of failing.
func (r *repositoryImpl) MarkRead(ctx context.Context, notificationID int64, userID string, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ? AND target_user_id = ?", notificationID, userID).
		Updates(map[string]any{
			"status":  enums.NotificationStatusRead,
			"read_at": now,
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *repositoryImpl) History(ctx context.Context, userID string, limit int) ([]HistoryEntry, error) {
	var out []HistoryEntry
	err := r.db.WithContext(ctx).
		Table("notifications AS n").
		Select(
			"n.id", "n.title", "n.body", "n.data", "n.notification_type", "n.priority",
			"n.status", "n.created_at", "n.sent_at", "n.read_at", "n.sender_id",
			"d.device_name", "d.platform",
		).
		Joins("LEFT JOIN devices d ON n.device_token = d.device_token").
		Where("n.target_user_id = ?", userID).
		Order("n.created_at DESC").
		Limit(limit).
		Scan(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repositoryImpl) Stats(ctx context.Context, userID string, since time.Time) (*Stats, error) {
	var stats Stats
	err := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Select(
			"COUNT(*) AS total",
			"COALESCE(SUM(CASE WHEN status = 'pending' THEN 1 ELSE 0 END), 0) AS pending",
			"COALESCE(SUM(CASE WHEN status = 'read' THEN 1 ELSE 0 END), 0) AS read",
			"COALESCE(SUM(CASE WHEN status = 'failed' THEN 1 ELSE 0 END), 0) AS failed",
		).
		Where("target_user_id = ? AND created_at >= ?", userID, since).
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// DeleteOlderThan removes read and failed rows past the cutoff. Pending
// notifications are never swept regardless of age.
func (r *repositoryImpl) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("created_at < ? AND status IN ?", cutoff, []enums.NotificationStatus{
			enums.NotificationStatusRead,
			enums.NotificationStatusFailed,
		}).
		Delete(&models.Notification{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *repositoryImpl) AppendHistory(ctx context.Context, entry *models.NotificationHistory) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

package models

import (
	"time"

	"github.com/avisosapp/push-backend/pkg/enums"
)

// NotificationHistory is the append-only audit trail. The notification
// reference is weak: rows outlive cleanup of the notification they describe
// and are never cascade-deleted.
type NotificationHistory struct {
	ID             int64               `gorm:"primaryKey;autoIncrement" json:"id"`
	NotificationID int64               `gorm:"column:notification_id;index:idx_history_notification" json:"notification_id"`
	DeviceToken    *string             `gorm:"column:device_token" json:"device_token,omitempty"`
	Action         enums.HistoryAction `gorm:"column:action" json:"action"`
	Timestamp      time.Time           `gorm:"column:timestamp" json:"timestamp"`
	Details        string              `gorm:"column:details" json:"details"`
}

// TableName keeps the singular legacy table name.
func (NotificationHistory) TableName() string {
	return "notification_history"
}

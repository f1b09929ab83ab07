package models

import (
	"time"

	dbtypes "github.com/avisosapp/push-backend/pkg/db/types"
	"github.com/avisosapp/push-backend/pkg/enums"
)

// Notification is one queued message. It is addressable to a device when
// DeviceToken matches, or to a user when TargetUserID matches; both may
// coexist. Created pending, read only via an ownership-checked acknowledgment.
type Notification struct {
	ID               int64                    `gorm:"primaryKey;autoIncrement" json:"id"`
	DeviceToken      *string                  `gorm:"column:device_token" json:"device_token,omitempty"`
	TargetUserID     *string                  `gorm:"column:target_user_id;index:idx_notifications_user" json:"target_user_id,omitempty"`
	SenderID         string                   `gorm:"column:sender_id" json:"sender_id"`
	Title            string                   `gorm:"column:title;not null" json:"title"`
	Body             string                   `gorm:"column:body;not null" json:"body"`
	Data             dbtypes.JSONMap          `gorm:"column:data" json:"data"`
	Priority         enums.Priority           `gorm:"column:priority;default:normal" json:"priority"`
	NotificationType string                   `gorm:"column:notification_type;default:custom" json:"notification_type"`
	Status           enums.NotificationStatus `gorm:"column:status;default:pending;index:idx_notifications_status" json:"status"`
	Error            *string                  `gorm:"column:error" json:"error,omitempty"`
	CreatedAt        time.Time                `gorm:"column:created_at;index:idx_notifications_created" json:"created_at"`
	SentAt           *time.Time               `gorm:"column:sent_at" json:"sent_at,omitempty"`
	ReadAt           *time.Time               `gorm:"column:read_at" json:"read_at,omitempty"`
}

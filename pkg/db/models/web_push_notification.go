package models

import (
	"time"

	"github.com/avisosapp/push-backend/pkg/enums"
)

// WebPushNotification records one gateway delivery attempt, success or
// failure, on the legacy browser path.
type WebPushNotification struct {
	ID             int64               `gorm:"primaryKey;autoIncrement" json:"id"`
	SubscriptionID int64               `gorm:"column:subscription_id;index:idx_web_push_subscription" json:"subscription_id"`
	Title          string              `gorm:"column:title" json:"title"`
	Body           string              `gorm:"column:body" json:"body"`
	Status         enums.WebPushStatus `gorm:"column:status" json:"status"`
	Error          *string             `gorm:"column:error" json:"error,omitempty"`
	SentAt         time.Time           `gorm:"column:sent_at" json:"sent_at"`
}

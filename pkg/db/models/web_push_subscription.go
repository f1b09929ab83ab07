package models

import "time"

// WebPushSubscription is a browser push registration on the legacy bridge.
// Endpoints are deliberately not unique: repeat registration creates a new
// row, matching the legacy contract.
type WebPushSubscription struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Endpoint  string    `gorm:"column:endpoint;not null" json:"endpoint"`
	Auth      string    `gorm:"column:auth;not null" json:"auth"`
	P256dh    string    `gorm:"column:p256dh;not null" json:"p256dh"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

package models

import (
	"time"

	"github.com/avisosapp/push-backend/pkg/enums"
)

// Device is one registered client installation. The device token is the
// durable addressable identity; re-registration with the same token
// overwrites every mutable field (last-writer-wins).
type Device struct {
	ID          int64              `gorm:"primaryKey;autoIncrement" json:"id"`
	DeviceToken string             `gorm:"column:device_token;uniqueIndex:idx_devices_token;not null" json:"device_token"`
	UID         *string            `gorm:"column:uid" json:"uid,omitempty"`
	UUID        string             `gorm:"column:uuid;not null" json:"uuid"`
	Platform    enums.Platform     `gorm:"column:platform;not null" json:"platform"`
	UserID      *string            `gorm:"column:user_id;index:idx_devices_user_id" json:"user_id,omitempty"`
	DeviceName  string             `gorm:"column:device_name" json:"device_name"`
	AppVersion  string             `gorm:"column:app_version" json:"app_version"`
	Status      enums.DeviceStatus `gorm:"column:status;default:active" json:"status"`
	LastSeen    time.Time          `gorm:"column:last_seen" json:"last_seen"`
	CreatedAt   time.Time          `gorm:"column:created_at" json:"created_at"`
}

package devices

import (
	"context"
	"time"

	"github.com/avisosapp/push-backend/pkg/db/models"
	"github.com/avisosapp/push-backend/pkg/enums"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository exposes persistence helpers for the device registry.
type Repository interface {
	Upsert(ctx context.Context, device *models.Device) error
	TouchLastSeen(ctx context.Context, token string, now time.Time) error
	ListActiveForUser(ctx context.Context, userID string) ([]DeviceSummary, error)
	CountActive(ctx context.Context) (int64, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a device repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

// DeviceSummary is the per-user device listing shape. Registration
// internals (uid, uuid, surrogate id) stay private.
type DeviceSummary struct {
	DeviceToken string             `json:"device_token"`
	DeviceName  string             `json:"device_name"`
	Platform    enums.Platform     `json:"platform"`
	AppVersion  string             `json:"app_version"`
	Status      enums.DeviceStatus `json:"status"`
	LastSeen    time.Time          `json:"last_seen"`
	CreatedAt   time.Time          `json:"created_at"`
}

// Upsert inserts the device or, when the token already exists, overwrites
// every mutable field. created_at survives re-registration; last_seen does
// not. The model is re-read afterwards so callers see the surrogate id.
func (r *repositoryImpl) Upsert(ctx context.Context, device *models.Device) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "device_token"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"uid", "uuid", "platform", "user_id", "device_name", "app_version", "status", "last_seen",
			}),
		}).
		Create(device).Error
	if err != nil {
		return err
	}

	return r.db.WithContext(ctx).
		Where("device_token = ?", device.DeviceToken).
		First(device).Error
}

// TouchLastSeen refreshes the heartbeat. Unknown tokens are a silent no-op.
func (r *repositoryImpl) TouchLastSeen(ctx context.Context, token string, now time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Device{}).
		Where("device_token = ?", token).
		UpdateColumn("last_seen", now).Error
}

func (r *repositoryImpl) ListActiveForUser(ctx context.Context, userID string) ([]DeviceSummary, error) {
	var out []DeviceSummary
	err := r.db.WithContext(ctx).
		Model(&models.Device{}).
		Select("device_token", "device_name", "platform", "app_version", "status", "last_seen", "created_at").
		Where("user_id = ? AND status = ?", userID, enums.DeviceStatusActive).
		Order("last_seen DESC").
		Scan(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repositoryImpl) CountActive(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Device{}).
		Where("status = ?", enums.DeviceStatusActive).
		Count(&count).Error
	return count, err
}

package webpush

import (
	"context"
	"time"

	"github.com/avisosapp/push-backend/pkg/db/models"
	"github.com/avisosapp/push-backend/pkg/enums"
	"gorm.io/gorm"
)

// Repository exposes persistence helpers for the legacy web-push bridge.
type Repository interface {
	SaveSubscription(ctx context.Context, sub *models.WebPushSubscription) error
	FindSubscription(ctx context.Context, id int64) (*models.WebPushSubscription, error)
	RecordDelivery(ctx context.Context, record *models.WebPushNotification) error
	History(ctx context.Context, limit int) ([]DeliveryRecord, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a web-push repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

// DeliveryRecord joins a delivery attempt to its subscription endpoint.
type DeliveryRecord struct {
	ID             int64               `json:"id"`
	SubscriptionID int64               `json:"subscription_id"`
	Title          string              `json:"title"`
	Body           string              `json:"body"`
	Status         enums.WebPushStatus `json:"status"`
	Error          *string             `json:"error,omitempty"`
	SentAt         time.Time           `json:"sent_at"`
	Endpoint       string              `json:"endpoint"`
}

// SaveSubscription inserts unconditionally. The legacy contract allows
// duplicate endpoints; there is no upsert here.
func (r *repositoryImpl) SaveSubscription(ctx context.Context, sub *models.WebPushSubscription) error {
	return r.db.WithContext(ctx).Create(sub).Error
}

func (r *repositoryImpl) FindSubscription(ctx context.Context, id int64) (*models.WebPushSubscription, error) {
	var sub models.WebPushSubscription
	if err := r.db.WithContext(ctx).First(&sub, id).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *repositoryImpl) RecordDelivery(ctx context.Context, record *models.WebPushNotification) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *repositoryImpl) History(ctx context.Context, limit int) ([]DeliveryRecord, error) {
	var out []DeliveryRecord
	err := r.db.WithContext(ctx).
		Table("web_push_notifications AS n").
		Select("n.id", "n.subscription_id", "n.title", "n.body", "n.status", "n.error", "n.sent_at", "s.endpoint").
		Joins("JOIN web_push_subscriptions s ON n.subscription_id = s.id").
		Order("n.sent_at DESC").
		Limit(limit).
		Scan(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

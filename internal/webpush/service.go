package webpush

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/avisosapp/push-backend/pkg/db/models"
	"github.com/avisosapp/push-backend/pkg/enums"
	pkgerrors "github.com/avisosapp/push-backend/pkg/errors"
	"gorm.io/gorm"
)

const defaultHistoryLimit = 100

// Service defines the legacy browser web-push bridge.
type Service interface {
	SaveSubscription(ctx context.Context, req SubscriptionRequest) (*models.WebPushSubscription, error)
	Send(ctx context.Context, req SendRequest) (*models.WebPushNotification, error)
	History(ctx context.Context, limit int) ([]DeliveryRecord, error)
}

type service struct {
	repo    Repository
	gateway Gateway
}

// SubscriptionRequest mirrors the browser PushSubscription shape the legacy
// clients post.
type SubscriptionRequest struct {
	Endpoint string `json:"endpoint" validate:"required"`
	Keys     struct {
		Auth   string `json:"auth" validate:"required"`
		P256dh string `json:"p256dh" validate:"required"`
	} `json:"keys"`
}

// SendRequest targets one stored subscription.
type SendRequest struct {
	SubscriptionID int64          `json:"subscription_id" validate:"required"`
	Title          string         `json:"title" validate:"required"`
	Body           string         `json:"body" validate:"required"`
	Icon           string         `json:"icon,omitempty"`
	Data           map[string]any `json:"data,omitempty"`
}

// NewService wires web-push dependencies.
func NewService(repo Repository, gateway Gateway) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "webpush repository required")
	}
	if gateway == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "webpush gateway required")
	}
	return &service{repo: repo, gateway: gateway}, nil
}

func (s *service) SaveSubscription(ctx context.Context, req SubscriptionRequest) (*models.WebPushSubscription, error) {
	if req.Endpoint == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "endpoint required")
	}
	if req.Keys.Auth == "" || req.Keys.P256dh == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "subscription keys required")
	}

	sub := models.WebPushSubscription{
		Endpoint:  req.Endpoint,
		Auth:      req.Keys.Auth,
		P256dh:    req.Keys.P256dh,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.SaveSubscription(ctx, &sub); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStore, err, "save web-push subscription")
	}
	return &sub, nil
}

// Send delivers once and records the attempt either way. There are no
// retries: a gateway failure is persisted as FAILED and surfaced.
func (s *service) Send(ctx context.Context, req SendRequest) (*models.WebPushNotification, error) {
	if req.SubscriptionID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "subscription_id required")
	}
	if req.Title == "" || req.Body == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title and body required")
	}

	sub, err := s.repo.FindSubscription(ctx, req.SubscriptionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFoundOrUnauthorized, err, "subscription not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeStore, err, "load web-push subscription")
	}

	payload, err := json.Marshal(map[string]any{
		"title": req.Title,
		"body":  req.Body,
		"icon":  req.Icon,
		"data":  req.Data,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeSerialization, err, "encode web-push payload")
	}

	record := models.WebPushNotification{
		SubscriptionID: sub.ID,
		Title:          req.Title,
		Body:           req.Body,
		Status:         enums.WebPushStatusSuccess,
		SentAt:         time.Now().UTC(),
	}

	sendErr := s.gateway.Send(ctx, sub, payload)
	if sendErr != nil {
		record.Status = enums.WebPushStatusFailed
		msg := sendErr.Error()
		record.Error = &msg
	}

	if err := s.repo.RecordDelivery(ctx, &record); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStore, err, "record web-push delivery")
	}
	if sendErr != nil {
		return &record, pkgerrors.Wrap(pkgerrors.CodeDelivery, sendErr, "web-push delivery failed")
	}
	return &record, nil
}

func (s *service) History(ctx context.Context, limit int) ([]DeliveryRecord, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	records, err := s.repo.History(ctx, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStore, err, "list web-push deliveries")
	}
	return records, nil
}

package controllers

import (
	"context"
	"io"

	"github.com/avisosapp/push-backend/internal/devices"
	"github.com/avisosapp/push-backend/internal/notifications"
	"github.com/avisosapp/push-backend/internal/webpush"
	"github.com/avisosapp/push-backend/pkg/db/models"
	"github.com/avisosapp/push-backend/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

type testDeviceService struct {
	registerFn    func(ctx context.Context, req devices.RegisterRequest) (*devices.RegisterResult, error)
	touchFn       func(ctx context.Context, token string) error
	listForUserFn func(ctx context.Context, userID string) ([]devices.DeviceSummary, error)
	countActiveFn func(ctx context.Context) (int64, error)
}

func (s *testDeviceService) Register(ctx context.Context, req devices.RegisterRequest) (*devices.RegisterResult, error) {
	if s.registerFn != nil {
		return s.registerFn(ctx, req)
	}
	return &devices.RegisterResult{}, nil
}

func (s *testDeviceService) TouchLastSeen(ctx context.Context, token string) error {
	if s.touchFn != nil {
		return s.touchFn(ctx, token)
	}
	return nil
}

func (s *testDeviceService) ListForUser(ctx context.Context, userID string) ([]devices.DeviceSummary, error) {
	if s.listForUserFn != nil {
		return s.listForUserFn(ctx, userID)
	}
	return nil, nil
}

func (s *testDeviceService) CountActive(ctx context.Context) (int64, error) {
	if s.countActiveFn != nil {
		return s.countActiveFn(ctx)
	}
	return 0, nil
}

type testNotificationService struct {
	createFn      func(ctx context.Context, req notifications.CreateRequest) (*notifications.CreateResult, error)
	listPendingFn func(ctx context.Context, userID, deviceToken string) ([]notifications.PendingNotification, error)
	markReadFn    func(ctx context.Context, notificationID int64, userID string) error
	historyFn     func(ctx context.Context, userID string, limit int) ([]notifications.HistoryEntry, error)
	statsFn       func(ctx context.Context, userID string) (*notifications.Stats, error)
	cleanupFn     func(ctx context.Context, daysOld int) (int64, error)
}

func (s *testNotificationService) Create(ctx context.Context, req notifications.CreateRequest) (*notifications.CreateResult, error) {
	if s.createFn != nil {
		return s.createFn(ctx, req)
	}
	return &notifications.CreateResult{}, nil
}

func (s *testNotificationService) ListPending(ctx context.Context, userID, deviceToken string) ([]notifications.PendingNotification, error) {
	if s.listPendingFn != nil {
		return s.listPendingFn(ctx, userID, deviceToken)
	}
	return nil, nil
}

func (s *testNotificationService) MarkRead(ctx context.Context, notificationID int64, userID string) error {
	if s.markReadFn != nil {
		return s.markReadFn(ctx, notificationID, userID)
	}
	return nil
}

func (s *testNotificationService) History(ctx context.Context, userID string, limit int) ([]notifications.HistoryEntry, error) {
	if s.historyFn != nil {
		return s.historyFn(ctx, userID, limit)
	}
	return nil, nil
}

func (s *testNotificationService) Stats(ctx context.Context, userID string) (*notifications.Stats, error) {
	if s.statsFn != nil {
		return s.statsFn(ctx, userID)
	}
	return &notifications.Stats{}, nil
}

func (s *testNotificationService) Cleanup(ctx context.Context, daysOld int) (int64, error) {
	if s.cleanupFn != nil {
		return s.cleanupFn(ctx, daysOld)
	}
	return 0, nil
}

type testWebPushService struct {
	saveFn    func(ctx context.Context, req webpush.SubscriptionRequest) (*models.WebPushSubscription, error)
	sendFn    func(ctx context.Context, req webpush.SendRequest) (*models.WebPushNotification, error)
	historyFn func(ctx context.Context, limit int) ([]webpush.DeliveryRecord, error)
}

func (s *testWebPushService) SaveSubscription(ctx context.Context, req webpush.SubscriptionRequest) (*models.WebPushSubscription, error) {
	if s.saveFn != nil {
		return s.saveFn(ctx, req)
	}
	return &models.WebPushSubscription{ID: 1}, nil
}

func (s *testWebPushService) Send(ctx context.Context, req webpush.SendRequest) (*models.WebPushNotification, error) {
	if s.sendFn != nil {
		return s.sendFn(ctx, req)
	}
	return &models.WebPushNotification{}, nil
}

func (s *testWebPushService) History(ctx context.Context, limit int) ([]webpush.DeliveryRecord, error) {
	if s.historyFn != nil {
		return s.historyFn(ctx, limit)
	}
	return nil, nil
}

package notifications

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/avisosapp/push-backend/pkg/db/models"
	dbtypes "github.com/avisosapp/push-backend/pkg/db/types"
	"github.com/avisosapp/push-backend/pkg/enums"
	"gorm.io/gorm"
)

func seedNotification(t *testing.T, repo Repository, userID string, mutate func(*models.Notification)) *models.Notification {
	t.Helper()
	target := userID
	n := &models.Notification{
		TargetUserID:     &target,
		SenderID:         "sender-1",
		Title:            "titulo",
		Body:             "cuerpo",
		Data:             dbtypes.JSONMap{},
		Priority:         enums.PriorityNormal,
		NotificationType: "custom",
		Status:           enums.NotificationStatusPending,
		CreatedAt:        time.Now().UTC(),
	}
	if mutate != nil {
		mutate(n)
	}
	if err := repo.Create(context.Background(), n); err != nil {
		t.Fatalf("seed notification: %v", err)
	}
	return n
}

func TestListPendingExcludesAcknowledged(t *testing.T) {
	repo := NewRepository(openTestDB(t))
	ctx := context.Background()

	kept := seedNotification(t, repo, "user-a", nil)
	acked := seedNotification(t, repo, "user-a", nil)
	seedNotification(t, repo, "user-b", nil)

	if _, err := repo.MarkRead(ctx, acked.ID, "user-a", time.Now().UTC()); err != nil {
		t.Fatalf("mark read: %v", err)
	}

	rows, err := repo.ListPending(ctx, "user-a", "no-token", 50)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 pending row, got %d", len(rows))
	}
	if rows[0].ID != kept.ID {
		t.Fatalf("expected row %d, got %d", kept.ID, rows[0].ID)
	}
}

func TestListPendingMatchesDeviceToken(t *testing.T) {
	repo := NewRepository(openTestDB(t))
	ctx := context.Background()

	token := "tok-xyz"
	byToken := seedNotification(t, repo, "someone-else", func(n *models.Notification) {
		n.DeviceToken = &token
	})

	rows, err := repo.ListPending(ctx, "user-a", token, 50)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(rows) != 1 || rows[0].ID != byToken.ID {
		t.Fatalf("expected device-addressed row, got %+v", rows)
	}
}

func TestListPendingDataRoundTrip(t *testing.T) {
	repo := NewRepository(openTestDB(t))
	ctx := context.Background()

	seedNotification(t, repo, "user-a", func(n *models.Notification) {
		n.Data = dbtypes.JSONMap{"screen": "orders", "order_id": "42"}
	})

	rows, err := repo.ListPending(ctx, "user-a", "no-token", 50)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].Data["screen"] != "orders" || rows[0].Data["order_id"] != "42" {
		t.Fatalf("expected payload round-trip, got %v", rows[0].Data)
	}
}

func TestMarkReadOwnership(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	n := seedNotification(t, repo, "user-a", nil)

	t.Run("wrongOwner", func(t *testing.T) {
		affected, err := repo.MarkRead(ctx, n.ID, "user-b", time.Now().UTC())
		if err != nil {
			t.Fatalf("mark read: %v", err)
		}
		if affected != 0 {
			t.Fatalf("expected 0 rows for foreign owner, got %d", affected)
		}
	})

	t.Run("unknownID", func(t *testing.T) {
		affected, err := repo.MarkRead(ctx, n.ID+100, "user-a", time.Now().UTC())
		if err != nil {
			t.Fatalf("mark read: %v", err)
		}
		if affected != 0 {
			t.Fatalf("expected 0 rows for unknown id, got %d", affected)
		}
	})

	t.Run("owner", func(t *testing.T) {
		readAt := time.Now().UTC().Truncate(time.Second)
		affected, err := repo.MarkRead(ctx, n.ID, "user-a", readAt)
		if err != nil {
			t.Fatalf("mark read: %v", err)
		}
		if affected != 1 {
			t.Fatalf("expected 1 row, got %d", affected)
		}

		var reloaded models.Notification
		if err := db.First(&reloaded, n.ID).Error; err != nil {
			t.Fatalf("reload: %v", err)
		}
		if reloaded.Status != enums.NotificationStatusRead {
			t.Fatalf("expected read status, got %s", reloaded.Status)
		}
		if reloaded.ReadAt == nil || !reloaded.ReadAt.Equal(readAt) {
			t.Fatalf("expected read_at %v, got %v", readAt, reloaded.ReadAt)
		}
	})

	t.Run("repeatAcknowledgment", func(t *testing.T) {
		affected, err := repo.MarkRead(ctx, n.ID, "user-a", time.Now().UTC())
		if err != nil {
			t.Fatalf("mark read: %v", err)
		}
		if affected != 1 {
			t.Fatalf("expected re-acknowledgment to match, got %d rows", affected)
		}
	})
}

func TestHistoryJoinsRegisteredDevice(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	token := "tok-joined"
	userID := "user-a"
	device := models.Device{
		DeviceToken: token,
		UUID:        "uuid-1",
		Platform:    enums.PlatformIOS,
		UserID:      &userID,
		DeviceName:  "iPhone de Ana",
		AppVersion:  "1.0.0",
		Status:      enums.DeviceStatusActive,
		LastSeen:    time.Now().UTC(),
		CreatedAt:   time.Now().UTC(),
	}
	if err := db.Create(&device).Error; err != nil {
		t.Fatalf("create device: %v", err)
	}

	seedNotification(t, repo, "user-a", func(n *models.Notification) {
		n.DeviceToken = &token
		n.CreatedAt = time.Now().UTC().Add(-time.Minute)
	})
	seedNotification(t, repo, "user-a", nil)

	entries, err := repo.History(ctx, "user-a", 50)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	// Newest first; the user-addressed row has no device columns.
	if entries[0].DeviceName != nil {
		t.Fatalf("expected blank device columns, got %v", *entries[0].DeviceName)
	}
	if entries[1].DeviceName == nil || *entries[1].DeviceName != "iPhone de Ana" {
		t.Fatalf("expected joined device name, got %v", entries[1].DeviceName)
	}
	if entries[1].Platform == nil || *entries[1].Platform != enums.PlatformIOS {
		t.Fatalf("expected joined platform, got %v", entries[1].Platform)
	}
}

func TestStatsWindowAggregation(t *testing.T) {
	repo := NewRepository(openTestDB(t))
	ctx := context.Background()

	now := time.Now().UTC()
	seedNotification(t, repo, "user-a", nil)
	seedNotification(t, repo, "user-a", func(n *models.Notification) {
		n.Status = enums.NotificationStatusRead
	})
	seedNotification(t, repo, "user-a", func(n *models.Notification) {
		n.Status = enums.NotificationStatusFailed
	})
	// Outside the window.
	seedNotification(t, repo, "user-a", func(n *models.Notification) {
		n.CreatedAt = now.AddDate(0, 0, -10)
	})
	seedNotification(t, repo, "user-b", nil)

	stats, err := repo.Stats(ctx, "user-a", now.AddDate(0, 0, -7))
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Total != 3 {
		t.Fatalf("expected total 3, got %d", stats.Total)
	}
	if stats.Pending != 1 || stats.Read != 1 || stats.Failed != 1 {
		t.Fatalf("unexpected breakdown: %+v", stats)
	}
}

func TestDeleteOlderThanSparesPending(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	old := time.Now().UTC().AddDate(0, 0, -60)
	agedPending := seedNotification(t, repo, "user-a", func(n *models.Notification) {
		n.CreatedAt = old
	})
	seedNotification(t, repo, "user-a", func(n *models.Notification) {
		n.Status = enums.NotificationStatusRead
		n.CreatedAt = old
	})
	seedNotification(t, repo, "user-a", func(n *models.Notification) {
		n.Status = enums.NotificationStatusFailed
		n.CreatedAt = old
	})
	recentRead := seedNotification(t, repo, "user-a", func(n *models.Notification) {
		n.Status = enums.NotificationStatusRead
	})

	deleted, err := repo.DeleteOlderThan(ctx, time.Now().UTC().AddDate(0, 0, -30))
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if deleted != 2 {
		t.Fatalf("expected 2 rows swept, got %d", deleted)
	}

	var remaining []models.Notification
	if err := db.Find(&remaining).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	ids := map[int64]bool{}
	for _, n := range remaining {
		ids[n.ID] = true
	}
	if !ids[agedPending.ID] {
		t.Fatal("expected aged pending row to survive")
	}
	if !ids[recentRead.ID] {
		t.Fatal("expected recent read row to survive")
	}
}

func TestAppendHistorySurvivesNotificationDelete(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	n := seedNotification(t, repo, "user-a", func(m *models.Notification) {
		m.Status = enums.NotificationStatusRead
		m.CreatedAt = time.Now().UTC().AddDate(0, 0, -60)
	})
	if err := repo.AppendHistory(ctx, &models.NotificationHistory{
		NotificationID: n.ID,
		Action:         enums.HistoryActionCreated,
		Timestamp:      time.Now().UTC(),
		Details:        "Notification created successfully",
	}); err != nil {
		t.Fatalf("append: %v", err)
	}

	if _, err := repo.DeleteOlderThan(ctx, time.Now().UTC()); err != nil {
		t.Fatalf("delete: %v", err)
	}

	var count int64
	if err := db.Model(&models.NotificationHistory{}).Where("notification_id = ?", n.ID).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected orphaned history row to survive, got %d", count)
	}

	if err := db.First(&models.Notification{}, n.ID).Error; !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected notification deleted, got %v", err)
	}
}

package notifications

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/avisosapp/push-backend/pkg/db/models"
	"github.com/avisosapp/push-backend/pkg/enums"
	pkgerrors "github.com/avisosapp/push-backend/pkg/errors"
)

type fakeNotificationRepo struct {
	created      []*models.Notification
	history      []*models.NotificationHistory
	pending      []PendingNotification
	entries      []HistoryEntry
	stats        Stats
	markAffected int64
	deleted      int64
	deleteCutoff time.Time
	pendingLimit int
	historyLimit int
	createErr    error
	appendErr    error
	deleteErr    error
}

func (f *fakeNotificationRepo) Create(_ context.Context, n *models.Notification) error {
	if f.createErr != nil {
		return f.createErr
	}
	n.ID = int64(len(f.created) + 1)
	f.created = append(f.created, n)
	return nil
}

func (f *fakeNotificationRepo) ListPending(_ context.Context, _, _ string, limit int) ([]PendingNotification, error) {
	f.pendingLimit = limit
	return f.pending, nil
}

func (f *fakeNotificationRepo) MarkRead(_ context.Context, _ int64, _ string, _ time.Time) (int64, error) {
	return f.markAffected, nil
}

func (f *fakeNotificationRepo) History(_ context.Context, _ string, limit int) ([]HistoryEntry, error) {
	f.historyLimit = limit
	return f.entries, nil
}

func (f *fakeNotificationRepo) Stats(_ context.Context, _ string, _ time.Time) (*Stats, error) {
	return &f.stats, nil
}

func (f *fakeNotificationRepo) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	if f.deleteErr != nil {
		return 0, f.deleteErr
	}
	f.deleteCutoff = cutoff
	return f.deleted, nil
}

func (f *fakeNotificationRepo) AppendHistory(_ context.Context, entry *models.NotificationHistory) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.history = append(f.history, entry)
	return nil
}

func newTestService(t *testing.T, repo *fakeNotificationRepo) Service {
	t.Helper()
	svc, err := NewService(repo, NewRecorder(repo, nil), nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestCreateAppliesDefaultsAndRecordsHistory(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc := newTestService(t, repo)

	result, err := svc.Create(context.Background(), CreateRequest{
		Title:        "titulo",
		Body:         "cuerpo",
		TargetUserID: "user-a",
		SenderID:     "sender-1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.NotificationID != 1 {
		t.Fatalf("expected id 1, got %d", result.NotificationID)
	}

	stored := repo.created[0]
	if stored.Priority != enums.PriorityNormal {
		t.Fatalf("expected normal priority, got %s", stored.Priority)
	}
	if stored.NotificationType != "custom" {
		t.Fatalf("expected custom type, got %s", stored.NotificationType)
	}
	if stored.Status != enums.NotificationStatusPending {
		t.Fatalf("expected pending status, got %s", stored.Status)
	}
	if stored.Data == nil {
		t.Fatal("expected empty data map, got nil")
	}

	if len(repo.history) != 1 {
		t.Fatalf("expected 1 history entry, got %d", len(repo.history))
	}
	if repo.history[0].Action != enums.HistoryActionCreated {
		t.Fatalf("expected created action, got %s", repo.history[0].Action)
	}
}

func TestCreateSucceedsWhenHistoryAppendFails(t *testing.T) {
	repo := &fakeNotificationRepo{appendErr: errors.New("history table locked")}
	svc := newTestService(t, repo)

	_, err := svc.Create(context.Background(), CreateRequest{
		Title:        "titulo",
		Body:         "cuerpo",
		TargetUserID: "user-a",
		SenderID:     "sender-1",
	})
	if err != nil {
		t.Fatalf("expected history failure swallowed, got %v", err)
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected notification stored, got %d", len(repo.created))
	}
}

func TestCreateValidation(t *testing.T) {
	svc := newTestService(t, &fakeNotificationRepo{})

	cases := map[string]CreateRequest{
		"missingTitle":    {Body: "b", TargetUserID: "u", SenderID: "s"},
		"missingBody":     {Title: "t", TargetUserID: "u", SenderID: "s"},
		"missingTarget":   {Title: "t", Body: "b", SenderID: "s"},
		"missingSender":   {Title: "t", Body: "b", TargetUserID: "u"},
		"invalidPriority": {Title: "t", Body: "b", TargetUserID: "u", SenderID: "s", Priority: "urgent"},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), req)
			if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestListPendingCapsAtFifty(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc := newTestService(t, repo)

	if _, err := svc.ListPending(context.Background(), "user-a", "tok-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.pendingLimit != 50 {
		t.Fatalf("expected limit 50, got %d", repo.pendingLimit)
	}

	t.Run("requiresIdentity", func(t *testing.T) {
		_, err := svc.ListPending(context.Background(), "", "tok-1")
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation error, got %v", err)
		}
		_, err = svc.ListPending(context.Background(), "user-a", "")
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation error, got %v", err)
		}
	})
}

func TestMarkReadZeroRowsIsAmbiguous(t *testing.T) {
	repo := &fakeNotificationRepo{markAffected: 0}
	svc := newTestService(t, repo)

	err := svc.MarkRead(context.Background(), 42, "user-a")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFoundOrUnauthorized {
		t.Fatalf("expected not-found-or-unauthorized, got %v", err)
	}
	if len(repo.history) != 0 {
		t.Fatal("expected no history on failed acknowledgment")
	}
}

func TestMarkReadRecordsHistory(t *testing.T) {
	repo := &fakeNotificationRepo{markAffected: 1}
	svc := newTestService(t, repo)

	if err := svc.MarkRead(context.Background(), 42, "user-a"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.history) != 1 || repo.history[0].Action != enums.HistoryActionRead {
		t.Fatalf("expected read history entry, got %+v", repo.history)
	}
}

func TestHistoryDefaultsLimit(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc := newTestService(t, repo)

	if _, err := svc.History(context.Background(), "user-a", 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.historyLimit != 50 {
		t.Fatalf("expected default limit 50, got %d", repo.historyLimit)
	}

	if _, err := svc.History(context.Background(), "user-a", 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.historyLimit != 10 {
		t.Fatalf("expected caller limit honored, got %d", repo.historyLimit)
	}
}

func TestCleanupDefaultsToThirtyDays(t *testing.T) {
	repo := &fakeNotificationRepo{deleted: 12}
	svc := newTestService(t, repo)

	deleted, err := svc.Cleanup(context.Background(), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deleted != 12 {
		t.Fatalf("expected 12 deleted, got %d", deleted)
	}

	wantCutoff := time.Now().UTC().AddDate(0, 0, -DefaultCleanupDays)
	if diff := wantCutoff.Sub(repo.deleteCutoff); diff > time.Minute || diff < -time.Minute {
		t.Fatalf("expected cutoff near %v, got %v", wantCutoff, repo.deleteCutoff)
	}
}

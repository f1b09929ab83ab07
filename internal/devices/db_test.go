package devices

import (
	"fmt"
	"testing"

	"github.com/avisosapp/push-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// Named shared-cache memory DB: every pooled connection sees the same
	// data, and each test gets its own database.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := conn.AutoMigrate(&models.Device{}); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	return conn
}

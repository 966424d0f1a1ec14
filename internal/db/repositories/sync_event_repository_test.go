package repositories

import (
	"context"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"maverick/dispatch/internal/db"
	"maverick/dispatch/internal/models/entities"
)

// Setup test database
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("Failed to get sql handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}
	return gdb
}

func TestSyncEventRepo_RecordAndList(t *testing.T) {
	gdb := setupTestDB(t)
	sqlxDB, err := db.WrapSQLX(gdb, "sqlite3")
	if err != nil {
		t.Fatalf("Failed to wrap sqlx: %v", err)
	}
	repo := NewSyncEventRepo(sqlxDB)
	ctx := context.Background()

	if err := repo.Ping(ctx); err != nil {
		t.Fatalf("Ping failed: %v", err)
	}

	base := time.Date(2026, 3, 1, 14, 0, 0, 0, time.UTC)
	events := []entities.SyncEvent{
		{
			ID:         "00000000-0000-0000-0000-000000000002",
			EventType:  "SORTIE_UPDATED",
			EntityType: "sortie",
			EntityID:   "s-1",
			TenantID:   "tenant-a",
			Payload:    map[string]any{"status": "DISPATCHED"},
			OccurredAt: base.Add(time.Minute),
		},
		{
			ID:         "00000000-0000-0000-0000-000000000001",
			EventType:  "SORTIE_CREATED",
			EntityType: "sortie",
			EntityID:   "s-1",
			TenantID:   "tenant-a",
			Payload:    map[string]any{"status": "SCHEDULED"},
			OccurredAt: base,
		},
		{
			ID:         "00000000-0000-0000-0000-000000000003",
			EventType:  "ENVIRONMENT_INGESTED",
			EntityType: "environment_snapshot",
			EntityID:   "e-1",
			Payload:    map[string]any{"scope": "global"},
			OccurredAt: base,
		},
	}
	for _, ev := range events {
		if err := repo.Record(ctx, ev); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	got, err := repo.ListByEntity(ctx, "sortie", "s-1")
	if err != nil {
		t.Fatalf("ListByEntity failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 events, got %d", len(got))
	}
	if got[0].EventType != "SORTIE_CREATED" || got[1].EventType != "SORTIE_UPDATED" {
		t.Errorf("Expected oldest first, got %s then %s", got[0].EventType, got[1].EventType)
	}
	if got[1].Payload["status"] != "DISPATCHED" || got[1].TenantID != "tenant-a" {
		t.Errorf("Unexpected decoded event: %+v", got[1])
	}

	global, err := repo.ListByEntity(ctx, "environment_snapshot", "e-1")
	if err != nil {
		t.Fatalf("ListByEntity failed: %v", err)
	}
	if len(global) != 1 || global[0].TenantID != "" {
		t.Errorf("Expected one tenantless event, got %+v", global)
	}
}

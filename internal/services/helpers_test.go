package services

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"maverick/dispatch/internal/auth"
	"maverick/dispatch/internal/common"
	"maverick/dispatch/internal/constants"
	"maverick/dispatch/internal/db"
	"maverick/dispatch/internal/db/repositories"
	"maverick/dispatch/internal/logging"
	"maverick/dispatch/internal/metrics"
	"maverick/dispatch/internal/models/entities"
	gormModels "maverick/dispatch/internal/models/gorm"
)

const (
	testTenant     = "tenant-a"
	otherTenant    = "tenant-b"
	instructorUser = "instructor-1"
	otherUser      = "instructor-2"
	studentProfile = "student-1"
)

// emitted is one captured sync event
type emitted struct {
	EventType  string
	EntityType string
	EntityID   string
	Payload    map[string]any
}

// recordingEmitter keeps every event in memory
type recordingEmitter struct {
	mu     sync.Mutex
	events []emitted
}

func (e *recordingEmitter) Emit(eventType, entityType, entityID string, payload map[string]any) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, emitted{eventType, entityType, entityID, payload})
}

func (e *recordingEmitter) Events() []emitted {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]emitted(nil), e.events...)
}

func (e *recordingEmitter) OfType(eventType string) []emitted {
	var out []emitted
	for _, ev := range e.Events() {
		if ev.EventType == eventType {
			out = append(out, ev)
		}
	}
	return out
}

// testEnv is the full service graph on an in-memory sqlite database
type testEnv struct {
	DB          *gorm.DB
	Emitter     *recordingEmitter
	Cache       *common.CacheService
	Sorties     *repositories.SortieRepo
	Snapshots   *repositories.EnvironmentSnapshotRepo
	Annotations *repositories.DispatchAnnotationRepo
	Environment *EnvironmentService
	Scheduler   *SortieService
	Lifecycle   *SortieLifecycleService
	Dispatch    *DispatchAnnotationService
}

// Setup test database
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	logging.SetLogger(zap.NewNop().Sugar())

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	// every pooled connection would otherwise get its own empty :memory: database
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

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gdb := setupTestDB(t)
	reg := metrics.NewMetricsRegistry(prometheus.NewRegistry())
	emitter := &recordingEmitter{}
	cache := common.NewCacheService(time.Minute, 2*time.Minute)

	env := &testEnv{
		DB:          gdb,
		Emitter:     emitter,
		Cache:       cache,
		Sorties:     repositories.NewSortieRepo(gdb),
		Snapshots:   repositories.NewEnvironmentSnapshotRepo(gdb),
		Annotations: repositories.NewDispatchAnnotationRepo(gdb),
	}
	env.Environment = NewEnvironmentService(env.Snapshots, cache, time.Minute, emitter, reg)
	env.Scheduler = NewSortieService(env.Sorties, emitter, reg)
	env.Lifecycle = NewSortieLifecycleService(env.Sorties, emitter, reg)
	env.Dispatch = NewDispatchAnnotationService(env.Sorties, env.Annotations, env.Environment, emitter, reg)
	return env
}

func claimsFor(role constants.Role, userID string) auth.UserClaims {
	return &auth.JWTClaims{UserUUID: userID, TenantUUID: testTenant, RoleValue: role}
}

func adminClaims() auth.UserClaims {
	return claimsFor(constants.RoleTenantAdmin, "admin-1")
}

func superAdminClaims() auth.UserClaims {
	return claimsFor(constants.RoleSuperAdmin, "root-1")
}

func instructorClaims() auth.UserClaims {
	return claimsFor(constants.RoleInstructor, instructorUser)
}

func studentClaims(studentID string) auth.UserClaims {
	return &auth.JWTClaims{UserUUID: "user-" + studentID, TenantUUID: testTenant, RoleValue: constants.RoleStudent, StudentUUID: studentID}
}

func mustTime(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("bad time %q: %v", value, err)
	}
	return parsed
}

// seedSortie inserts a sortie directly, bypassing scheduling rules
func seedSortie(t *testing.T, env *testEnv, status constants.SortieStatus, airport string, reportTime time.Time) *gormModels.Sortie {
	t.Helper()
	sortie := &gormModels.Sortie{
		TenantID:         testTenant,
		StudentID:        studentProfile,
		InstructorID:     instructorUser,
		AircraftID:       "N12345",
		ProgramID:        "ppl",
		DepartureAirport: airport,
		ReportTime:       reportTime.UTC(),
		Status:           status,
		CreatedBy:        "admin-1",
		Version:          1,
	}
	if err := env.DB.Create(sortie).Error; err != nil {
		t.Fatalf("Failed to seed sortie: %v", err)
	}
	return sortie
}

// seedSnapshot stores a capture with explicit flags, bypassing evaluation
func seedSnapshot(t *testing.T, env *testEnv, tenantID *string, airport string, capturedAt time.Time, flags func(*gormModels.EnvironmentSnapshot)) *gormModels.EnvironmentSnapshot {
	t.Helper()
	snapshot := &gormModels.EnvironmentSnapshot{
		TenantID:    tenantID,
		AirportCode: airport,
		CapturedAt:  capturedAt.UTC(),
	}
	if flags != nil {
		flags(snapshot)
	}
	if err := env.DB.Create(snapshot).Error; err != nil {
		t.Fatalf("Failed to seed snapshot: %v", err)
	}
	return snapshot
}

func rawJSON(t *testing.T, v any) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return b
}

func strPtr(s string) *string { return &s }

func rawCaptureWithMetar(t *testing.T, metar map[string]any) entities.RawCapture {
	t.Helper()
	return entities.RawCapture{Metar: rawJSON(t, metar)}
}

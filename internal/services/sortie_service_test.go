package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"maverick/dispatch/internal/common"
	"maverick/dispatch/internal/constants"
	"maverick/dispatch/internal/models/dtos"
)

func validScheduleRequest(t *testing.T) *dtos.ScheduleSortieRequest {
	return &dtos.ScheduleSortieRequest{
		StudentID:        studentProfile,
		InstructorID:     instructorUser,
		AircraftID:       "N12345",
		ProgramID:        "ppl",
		DepartureAirport: "kpao",
		ReportTime:       mustTime(t, "2026-03-01T14:00:00Z"),
	}
}

func TestSchedule_Success(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	sortie, err := env.Scheduler.Schedule(ctx, validScheduleRequest(t), adminClaims())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if sortie.ID == "" {
		t.Error("Expected generated id")
	}
	if sortie.Status != constants.SortieScheduled || sortie.Version != 1 {
		t.Errorf("Expected SCHEDULED v1, got %s v%d", sortie.Status, sortie.Version)
	}
	if sortie.TenantID != testTenant || sortie.DepartureAirport != "KPAO" || sortie.CreatedBy != "admin-1" {
		t.Errorf("Unexpected sortie: %+v", sortie)
	}

	created := env.Emitter.OfType(constants.SyncEventSortieCreated)
	if len(created) != 1 || created[0].EntityID != sortie.ID {
		t.Errorf("Expected one SORTIE_CREATED for %s, got %+v", sortie.ID, created)
	}
}

func TestSchedule_Rejections(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if _, err := env.Scheduler.Schedule(ctx, validScheduleRequest(t), instructorClaims()); !errors.Is(err, common.ErrForbidden) {
		t.Errorf("Expected instructor to be forbidden, got %v", err)
	}

	missingAircraft := validScheduleRequest(t)
	missingAircraft.AircraftID = "  "
	if _, err := env.Scheduler.Schedule(ctx, missingAircraft, adminClaims()); !errors.Is(err, common.ErrValidation) {
		t.Errorf("Expected ErrValidation for missing aircraft, got %v", err)
	}

	missingTime := validScheduleRequest(t)
	missingTime.ReportTime = time.Time{}
	if _, err := env.Scheduler.Schedule(ctx, missingTime, adminClaims()); !errors.Is(err, common.ErrValidation) {
		t.Errorf("Expected ErrValidation for missing report time, got %v", err)
	}
}

func TestList_NarrowsByRole(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	report := mustTime(t, "2026-03-01T14:00:00Z")

	mine := seedSortie(t, env, constants.SortieScheduled, "KPAO", report)
	theirs := seedSortie(t, env, constants.SortieDispatched, "KSQL", report.Add(8*time.Hour))
	if err := env.DB.Model(theirs).Updates(map[string]interface{}{
		"instructor_id": otherUser,
		"student_id":    "student-2",
	}).Error; err != nil {
		t.Fatalf("Failed to reassign: %v", err)
	}

	tests := []struct {
		name    string
		filter  dtos.SortieFilter
		role    constants.Role
		user    string
		student string
		wantIDs []string
	}{
		{"admin sees all", dtos.SortieFilter{}, constants.RoleTenantAdmin, "admin-1", "", []string{mine.ID, theirs.ID}},
		{"admin filters by status", dtos.SortieFilter{Status: "dispatched"}, constants.RoleTenantAdmin, "admin-1", "", []string{theirs.ID}},
		{"admin filters by airport", dtos.SortieFilter{DepartureAirport: "kpao"}, constants.RoleTenantAdmin, "admin-1", "", []string{mine.ID}},
		{"instructor only sees own", dtos.SortieFilter{InstructorID: otherUser}, constants.RoleInstructor, instructorUser, "", []string{mine.ID}},
		{"student only sees own profile", dtos.SortieFilter{}, constants.RoleStudent, "user-s2", "student-2", []string{theirs.ID}},
		{"student without profile sees nothing", dtos.SortieFilter{}, constants.RoleStudent, "user-s3", "", nil},
		{"support sees all", dtos.SortieFilter{Limit: 1}, constants.RoleSupport, "support-1", "", []string{mine.ID}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims := claimsFor(tt.role, tt.user)
			if tt.student != "" {
				claims = studentClaims(tt.student)
			}
			got, err := env.Scheduler.List(ctx, tt.filter, claims)
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("Expected %d sorties, got %d", len(tt.wantIDs), len(got))
			}
			for i, id := range tt.wantIDs {
				if got[i].ID != id {
					t.Errorf("Position %d: expected %s, got %s", i, id, got[i].ID)
				}
			}
		})
	}

	if _, err := env.Scheduler.List(ctx, dtos.SortieFilter{Status: "BOARDING"}, adminClaims()); !errors.Is(err, common.ErrValidation) {
		t.Errorf("Expected ErrValidation for unknown status, got %v", err)
	}
}

func TestRecordMessageActivity(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	sortie := seedSortie(t, env, constants.SortieScheduled, "KPAO", mustTime(t, "2026-03-01T14:00:00Z"))

	err := env.Scheduler.RecordMessageActivity(ctx, sortie.ID, &dtos.LinkSortieMessageRequest{
		MessageID: "msg-42",
		Channel:   "ops",
	}, studentClaims(studentProfile))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	linked := env.Emitter.OfType(constants.SyncEventSortieMessageLinked)
	if len(linked) != 1 {
		t.Fatalf("Expected 1 link event, got %d", len(linked))
	}
	if linked[0].Payload["message_id"] != "msg-42" || linked[0].Payload["channel"] != "ops" {
		t.Errorf("Unexpected payload: %v", linked[0].Payload)
	}

	err = env.Scheduler.RecordMessageActivity(ctx, sortie.ID, &dtos.LinkSortieMessageRequest{}, adminClaims())
	if !errors.Is(err, common.ErrValidation) {
		t.Errorf("Expected ErrValidation without message id, got %v", err)
	}
}

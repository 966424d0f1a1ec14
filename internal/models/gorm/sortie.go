package gorm

import (
	"time"

	"github.com/google/uuid"
	gormlib "gorm.io/gorm"
	"maverick/dispatch/internal/constants"
)

// Sortie is one scheduled training flight
type Sortie struct {
	ID               string                 `gorm:"column:id;primaryKey;type:uuid" json:"id"`
	TenantID         string                 `gorm:"column:tenant_id;type:varchar(64);not null;index:idx_sorties_tenant_report,priority:1" json:"tenant_id"`
	StudentID        string                 `gorm:"column:student_id;type:varchar(64);not null;index" json:"student_id"`
	InstructorID     string                 `gorm:"column:instructor_id;type:varchar(64);not null;index" json:"instructor_id"`
	AircraftID       string                 `gorm:"column:aircraft_id;type:varchar(64);not null" json:"aircraft_id"`
	ProgramID        string                 `gorm:"column:program_id;type:varchar(64);not null" json:"program_id"`
	LessonID         *string                `gorm:"column:lesson_id;type:varchar(64)" json:"lesson_id,omitempty"`
	DepartureAirport string                 `gorm:"column:departure_airport;type:varchar(8);not null" json:"departure_airport"`
	ReportTime       time.Time              `gorm:"column:report_time;not null;index:idx_sorties_tenant_report,priority:2" json:"report_time"`
	BlockOffAt       *time.Time             `gorm:"column:block_off_at" json:"block_off_at,omitempty"`
	BlockOnAt        *time.Time             `gorm:"column:block_on_at" json:"block_on_at,omitempty"`
	Status           constants.SortieStatus `gorm:"column:status;type:varchar(16);not null;index" json:"status"`
	DispatchNotes    string                 `gorm:"column:dispatch_notes;type:text" json:"dispatch_notes"`
	CreatedBy        string                 `gorm:"column:created_by;type:varchar(64);not null" json:"created_by"`
	Version          int64                  `gorm:"column:version;not null" json:"version"`
	CreatedAt        time.Time              `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time              `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Sortie) TableName() string {
	return "sorties"
}

func (s *Sortie) BeforeCreate(tx *gormlib.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// SyncPayload is the flat map carried on every sortie sync event.
func (s *Sortie) SyncPayload() map[string]any {
	payload := map[string]any{
		"sortie_id":         s.ID,
		"tenant_id":         s.TenantID,
		"student_id":        s.StudentID,
		"instructor_id":     s.InstructorID,
		"aircraft_id":       s.AircraftID,
		"program_id":        s.ProgramID,
		"departure_airport": s.DepartureAirport,
		"report_time":       s.ReportTime.UTC().Format(time.RFC3339),
		"status":            string(s.Status),
	}
	if s.LessonID != nil {
		payload["lesson_id"] = *s.LessonID
	}
	return payload
}

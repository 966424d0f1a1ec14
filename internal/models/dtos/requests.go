package dtos

import (
	"time"

	"maverick/dispatch/internal/models/entities"
)

type ScheduleSortieRequest struct {
	StudentID        string    `json:"student_id"`
	InstructorID     string    `json:"instructor_id"`
	AircraftID       string    `json:"aircraft_id"`
	ProgramID        string    `json:"program_id"`
	LessonID         *string   `json:"lesson_id,omitempty"`
	DepartureAirport string    `json:"departure_airport"`
	ReportTime       time.Time `json:"report_time"`
	DispatchNotes    string    `json:"dispatch_notes,omitempty"`
}

type TransitionSortieRequest struct {
	Status        string  `json:"status"`
	DispatchNotes *string `json:"dispatch_notes,omitempty"`
}

type AnnotateSortieRequest struct {
	Notes string `json:"notes,omitempty"`
}

type LinkSortieMessageRequest struct {
	MessageID string `json:"message_id"`
	Channel   string `json:"channel,omitempty"`
}

// EnvironmentCaptureRequest is one raw capture posted for ingestion.
// Global captures (no tenant) are restricted to super admins.
type EnvironmentCaptureRequest struct {
	AirportCode string    `json:"airport_code"`
	CapturedAt  time.Time `json:"captured_at"`
	Global      bool      `json:"global,omitempty"`
	entities.RawCapture
}

// SortieFilter narrows ListSorties; zero values mean "any".
type SortieFilter struct {
	TenantID         string
	Status           string
	InstructorID     string
	StudentID        string
	DepartureAirport string
	ReportFrom       *time.Time
	ReportTo         *time.Time
	Limit            int
}

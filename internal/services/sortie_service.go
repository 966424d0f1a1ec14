package services

import (
	"context"
	"strings"
	"time"

	"maverick/dispatch/internal/auth"
	"maverick/dispatch/internal/common"
	"maverick/dispatch/internal/constants"
	"maverick/dispatch/internal/db/repositories"
	"maverick/dispatch/internal/logging"
	"maverick/dispatch/internal/metrics"
	"maverick/dispatch/internal/models/dtos"
	gormModels "maverick/dispatch/internal/models/gorm"
)

// SortieService covers scheduling and reads
type SortieService struct {
	sorties *repositories.SortieRepo
	emitter SyncEmitter
	metrics *metrics.MetricsRegistry
}

func NewSortieService(sorties *repositories.SortieRepo, emitter SyncEmitter, metricsReg *metrics.MetricsRegistry) *SortieService {
	return &SortieService{
		sorties: sorties,
		emitter: emitterOrNoop(emitter),
		metrics: metricsReg,
	}
}

// Schedule creates a SCHEDULED sortie in the caller's tenant
func (s *SortieService) Schedule(ctx context.Context, req *dtos.ScheduleSortieRequest, claims auth.UserClaims) (*gormModels.Sortie, error) {
	if err := requireClaims(claims); err != nil {
		return nil, err
	}
	if !auth.Can(claims.Role(), auth.CapScheduleSortie) {
		return nil, common.Forbiddenf(constants.ReasonRoleCannotSchedule, claims.Role())
	}

	required := map[string]string{
		"student_id":        req.StudentID,
		"instructor_id":     req.InstructorID,
		"aircraft_id":       req.AircraftID,
		"program_id":        req.ProgramID,
		"departure_airport": req.DepartureAirport,
	}
	for field, value := range required {
		if strings.TrimSpace(value) == "" {
			return nil, common.Validationf("%s is required", field)
		}
	}
	if req.ReportTime.IsZero() {
		return nil, common.Validationf("report_time is required")
	}

	sortie := &gormModels.Sortie{
		TenantID:         claims.TenantID(),
		StudentID:        strings.TrimSpace(req.StudentID),
		InstructorID:     strings.TrimSpace(req.InstructorID),
		AircraftID:       strings.TrimSpace(req.AircraftID),
		ProgramID:        strings.TrimSpace(req.ProgramID),
		LessonID:         req.LessonID,
		DepartureAirport: common.NormalizeAirportCode(req.DepartureAirport),
		ReportTime:       req.ReportTime.UTC().Truncate(time.Microsecond),
		Status:           constants.SortieScheduled,
		DispatchNotes:    req.DispatchNotes,
		CreatedBy:        claims.UserID(),
		Version:          1,
	}

	if err := s.sorties.Create(ctx, sortie); err != nil {
		return nil, err
	}

	s.metrics.ObserveSortieScheduled()
	logging.Info("Sortie scheduled",
		"sortie_id", sortie.ID,
		"tenant_id", sortie.TenantID,
		"instructor_id", sortie.InstructorID,
		"report_time", sortie.ReportTime.Format(time.RFC3339),
	)

	payload := sortie.SyncPayload()
	payload["acting_user_id"] = claims.UserID()
	s.emitter.Emit(constants.SyncEventSortieCreated, constants.SyncEntitySortie, sortie.ID, payload)

	return sortie, nil
}

// Get returns one sortie the caller may read
func (s *SortieService) Get(ctx context.Context, sortieID string, claims auth.UserClaims) (*gormModels.Sortie, error) {
	if err := requireClaims(claims); err != nil {
		return nil, err
	}

	sortie, err := s.sorties.FindByID(ctx, claims.TenantID(), sortieID)
	if err != nil {
		return nil, err
	}
	if err := authorizeSortieRead(claims, sortie); err != nil {
		return nil, err
	}
	return sortie, nil
}

// List narrows the filter to what the caller's role may see.
// Instructors only list their own sorties and students only their own profile's.
func (s *SortieService) List(ctx context.Context, filter dtos.SortieFilter, claims auth.UserClaims) ([]gormModels.Sortie, error) {
	if err := requireClaims(claims); err != nil {
		return nil, err
	}

	filter.TenantID = claims.TenantID()
	role := claims.Role()
	switch {
	case auth.Can(role, auth.CapReadAnySortie):
	case auth.Can(role, auth.CapReadAssignedSortie):
		filter.InstructorID = claims.UserID()
	case auth.Can(role, auth.CapReadOwnStudentSortie):
		if claims.StudentID() == "" {
			return []gormModels.Sortie{}, nil
		}
		filter.StudentID = claims.StudentID()
	default:
		return nil, common.Forbiddenf(constants.ReasonRoleCannotRead, role)
	}

	if filter.Status != "" {
		status, err := constants.ParseSortieStatus(filter.Status)
		if err != nil {
			return nil, common.Validationf("%s: %q", constants.MsgInvalidSortieStatus, filter.Status)
		}
		filter.Status = string(status)
	}
	filter.DepartureAirport = common.NormalizeAirportCode(filter.DepartureAirport)

	return s.sorties.List(ctx, filter)
}

// RecordMessageActivity links a chat message to the sortie in the sync log
func (s *SortieService) RecordMessageActivity(
	ctx context.Context,
	sortieID string,
	req *dtos.LinkSortieMessageRequest,
	claims auth.UserClaims,
) error {
	sortie, err := s.Get(ctx, sortieID, claims)
	if err != nil {
		return err
	}
	if strings.TrimSpace(req.MessageID) == "" {
		return common.Validationf("message_id is required")
	}

	payload := sortie.SyncPayload()
	payload["message_id"] = strings.TrimSpace(req.MessageID)
	payload["acting_user_id"] = claims.UserID()
	if req.Channel != "" {
		payload["channel"] = req.Channel
	}
	s.emitter.Emit(constants.SyncEventSortieMessageLinked, constants.SyncEntitySortie, sortie.ID, payload)

	logging.Debug("Sortie message linked", "sortie_id", sortie.ID, "message_id", req.MessageID)
	return nil
}

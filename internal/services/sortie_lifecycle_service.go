package services

import (
	"context"
	"fmt"
	"slices"
	"time"

	"maverick/dispatch/internal/auth"
	"maverick/dispatch/internal/common"
	"maverick/dispatch/internal/constants"
	"maverick/dispatch/internal/db/repositories"
	"maverick/dispatch/internal/logging"
	"maverick/dispatch/internal/metrics"
	gormModels "maverick/dispatch/internal/models/gorm"
)

// maxTransitionAttempts bounds the re-read after a lost conditional update.
const maxTransitionAttempts = 2

// AllowedInstructorTransitions is the forward-only table that applies to the instructor of record.
// Terminal statuses allow nothing.
func AllowedInstructorTransitions(from constants.SortieStatus) []constants.SortieStatus {
	switch from {
	case constants.SortieScheduled:
		return []constants.SortieStatus{constants.SortieDispatched, constants.SortieCancelled}
	case constants.SortieDispatched:
		return []constants.SortieStatus{constants.SortieInFlight, constants.SortieCancelled}
	case constants.SortieInFlight:
		return []constants.SortieStatus{constants.SortieCompleted}
	case constants.SortieCompleted, constants.SortieCancelled, constants.SortieNoShow:
		return nil
	}
	return nil
}

func CanInstructorTransition(from, to constants.SortieStatus) bool {
	return slices.Contains(AllowedInstructorTransitions(from), to)
}

// SortieLifecycleService moves sorties between statuses
type SortieLifecycleService struct {
	sorties *repositories.SortieRepo
	emitter SyncEmitter
	metrics *metrics.MetricsRegistry
	now     func() time.Time
}

func NewSortieLifecycleService(
	sorties *repositories.SortieRepo,
	emitter SyncEmitter,
	metricsReg *metrics.MetricsRegistry,
) *SortieLifecycleService {
	return &SortieLifecycleService{
		sorties: sorties,
		emitter: emitterOrNoop(emitter),
		metrics: metricsReg,
		now:     time.Now,
	}
}

// Transition changes a sortie's status on behalf of claims.
// Privileged roles may set any status; the instructor of record follows AllowedInstructorTransitions.
// The write is conditional on the status and version that were read, so a concurrent
// change is re-read and re-authorized once before ErrConflict is returned.
func (s *SortieLifecycleService) Transition(
	ctx context.Context,
	sortieID string,
	requested constants.SortieStatus,
	claims auth.UserClaims,
	dispatchNotes *string,
) (*gormModels.Sortie, error) {
	if err := requireClaims(claims); err != nil {
		return nil, err
	}
	if !requested.Valid() {
		return nil, common.Validationf("%s: %q", constants.MsgInvalidSortieStatus, requested)
	}

	for attempt := 1; attempt <= maxTransitionAttempts; attempt++ {
		sortie, err := s.sorties.FindByID(ctx, claims.TenantID(), sortieID)
		if err != nil {
			return nil, err
		}

		if err := authorizeTransition(claims, sortie, requested); err != nil {
			logging.Warn("Sortie transition rejected",
				"sortie_id", sortie.ID,
				"from", sortie.Status,
				"to", requested,
				"user_id", claims.UserID(),
				"role", claims.Role(),
				"error", err.Error(),
			)
			return nil, err
		}

		upd := s.buildUpdate(sortie, requested, dispatchNotes)
		applied, err := s.sorties.UpdateStatusIfCurrent(ctx, sortie.TenantID, sortie.ID, sortie.Status, sortie.Version, upd)
		if err != nil {
			return nil, err
		}

		if applied {
			previous := sortie.Status
			applyUpdate(sortie, upd)
			s.afterTransition(sortie, previous, claims, dispatchNotes)
			return sortie, nil
		}

		s.metrics.ObserveTransitionConflict()
		logging.Warn("Sortie changed during transition",
			"sortie_id", sortie.ID,
			"expected_status", sortie.Status,
			"expected_version", sortie.Version,
			"attempt", attempt,
		)
	}

	return nil, fmt.Errorf("%w: sortie %s was modified concurrently", common.ErrConflict, sortieID)
}

func (s *SortieLifecycleService) buildUpdate(
	sortie *gormModels.Sortie,
	requested constants.SortieStatus,
	dispatchNotes *string,
) repositories.SortieStatusUpdate {
	now := s.now().UTC().Truncate(time.Microsecond)
	upd := repositories.SortieStatusUpdate{
		Status:        requested,
		DispatchNotes: dispatchNotes,
		UpdatedAt:     now,
	}
	if requested == constants.SortieInFlight && sortie.BlockOffAt == nil {
		upd.BlockOffAt = &now
	}
	if requested == constants.SortieCompleted && sortie.BlockOnAt == nil {
		upd.BlockOnAt = &now
	}
	return upd
}

func applyUpdate(sortie *gormModels.Sortie, upd repositories.SortieStatusUpdate) {
	sortie.Status = upd.Status
	sortie.Version++
	sortie.UpdatedAt = upd.UpdatedAt
	if upd.DispatchNotes != nil {
		sortie.DispatchNotes = *upd.DispatchNotes
	}
	if upd.BlockOffAt != nil {
		sortie.BlockOffAt = upd.BlockOffAt
	}
	if upd.BlockOnAt != nil {
		sortie.BlockOnAt = upd.BlockOnAt
	}
}

func (s *SortieLifecycleService) afterTransition(
	sortie *gormModels.Sortie,
	previous constants.SortieStatus,
	claims auth.UserClaims,
	dispatchNotes *string,
) {
	s.metrics.ObserveTransition(string(previous), string(sortie.Status))
	logging.Info("Sortie transitioned",
		"sortie_id", sortie.ID,
		"tenant_id", sortie.TenantID,
		"from", previous,
		"to", sortie.Status,
		"version", sortie.Version,
		"user_id", claims.UserID(),
	)

	eventType := constants.SyncEventSortieUpdated
	if sortie.Status == constants.SortieCancelled {
		eventType = constants.SyncEventSortieCancelled
	}

	payload := sortie.SyncPayload()
	payload["previous_status"] = string(previous)
	payload["version"] = sortie.Version
	payload["acting_user_id"] = claims.UserID()
	payload["acting_role"] = string(claims.Role())
	if dispatchNotes != nil {
		payload["dispatch_notes"] = *dispatchNotes
	}
	if sortie.BlockOffAt != nil {
		payload["block_off_at"] = sortie.BlockOffAt.UTC().Format(time.RFC3339)
	}
	if sortie.BlockOnAt != nil {
		payload["block_on_at"] = sortie.BlockOnAt.UTC().Format(time.RFC3339)
	}

	s.emitter.Emit(eventType, constants.SyncEntitySortie, sortie.ID, payload)
}

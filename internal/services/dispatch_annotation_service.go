package services

import (
	"context"
	"time"

	"maverick/dispatch/internal/auth"
	"maverick/dispatch/internal/constants"
	"maverick/dispatch/internal/db/repositories"
	"maverick/dispatch/internal/logging"
	"maverick/dispatch/internal/metrics"
	"maverick/dispatch/internal/models/dtos"
	"maverick/dispatch/internal/models/entities"
	gormModels "maverick/dispatch/internal/models/gorm"
)

// ClassifyRisk: RED beats AMBER beats GREEN.
func ClassifyRisk(flags entities.DerivedFlags) constants.RiskLevel {
	switch {
	case flags.BelowMinimaWeather || flags.RunwayClosed:
		return constants.RiskRed
	case flags.StrongCrosswind || flags.HighTraffic:
		return constants.RiskAmber
	default:
		return constants.RiskGreen
	}
}

// DispatchAnnotationService binds a sortie to the environment at its report time
type DispatchAnnotationService struct {
	sorties     *repositories.SortieRepo
	annotations *repositories.DispatchAnnotationRepo
	environment *EnvironmentService
	emitter     SyncEmitter
	metrics     *metrics.MetricsRegistry
	now         func() time.Time
}

func NewDispatchAnnotationService(
	sorties *repositories.SortieRepo,
	annotations *repositories.DispatchAnnotationRepo,
	environment *EnvironmentService,
	emitter SyncEmitter,
	metricsReg *metrics.MetricsRegistry,
) *DispatchAnnotationService {
	return &DispatchAnnotationService{
		sorties:     sorties,
		annotations: annotations,
		environment: environment,
		emitter:     emitterOrNoop(emitter),
		metrics:     metricsReg,
		now:         time.Now,
	}
}

// Annotate computes the sortie's dispatch risk from the latest capture at or before its
// report time and upserts the single annotation for the sortie.
// With no eligible capture the annotation is GREEN with no snapshot reference.
func (s *DispatchAnnotationService) Annotate(
	ctx context.Context,
	sortieID string,
	notes string,
	claims auth.UserClaims,
) (*gormModels.DispatchAnnotation, error) {
	if err := requireClaims(claims); err != nil {
		return nil, err
	}

	sortie, err := s.sorties.FindByID(ctx, claims.TenantID(), sortieID)
	if err != nil {
		return nil, err
	}
	if err := authorizeAnnotate(claims, sortie); err != nil {
		return nil, err
	}

	tenantID := sortie.TenantID
	snapshot, err := s.environment.LatestAtOrBefore(ctx, sortie.DepartureAirport, sortie.ReportTime, &tenantID)
	if err != nil {
		return nil, err
	}

	annotation := &gormModels.DispatchAnnotation{
		TenantID:   sortie.TenantID,
		SortieID:   sortie.ID,
		RiskLevel:  constants.RiskGreen,
		Notes:      notes,
		AssessedBy: claims.UserID(),
		CreatedAt:  s.now().UTC().Truncate(time.Microsecond),
	}
	if snapshot != nil {
		annotation.SnapshotID = &snapshot.ID
		annotation.Flags = snapshot.Flags
		annotation.RiskLevel = ClassifyRisk(snapshot.Flags)
	}

	if err := s.annotations.Upsert(ctx, annotation); err != nil {
		return nil, err
	}

	stored, err := s.annotations.FindBySortie(ctx, sortie.TenantID, sortie.ID)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		stored = annotation
	}

	s.metrics.ObserveAnnotation(string(stored.RiskLevel))
	logging.Info("Sortie annotated",
		"sortie_id", sortie.ID,
		"tenant_id", sortie.TenantID,
		"risk_level", stored.RiskLevel,
		"snapshot_id", stringOrEmpty(stored.SnapshotID),
		"user_id", claims.UserID(),
	)

	payload := stored.Flags.AsPayload()
	payload["annotation_id"] = stored.ID
	payload["sortie_id"] = sortie.ID
	payload["tenant_id"] = sortie.TenantID
	payload["risk_level"] = string(stored.RiskLevel)
	payload["assessed_by"] = stored.AssessedBy
	if stored.SnapshotID != nil {
		payload["snapshot_id"] = *stored.SnapshotID
	}
	s.emitter.Emit(constants.SyncEventDispatchAnnotated, constants.SyncEntityDispatchAnnotation, stored.ID, payload)

	return stored, nil
}

// GetSortieWithContext returns the sortie, its annotation, and the environment it refers to.
// Without an annotation a live lookup is attached but not persisted.
func (s *DispatchAnnotationService) GetSortieWithContext(
	ctx context.Context,
	sortieID string,
	claims auth.UserClaims,
) (*dtos.SortieContext, error) {
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

	annotation, err := s.annotations.FindBySortie(ctx, sortie.TenantID, sortie.ID)
	if err != nil {
		return nil, err
	}

	result := &dtos.SortieContext{Sortie: sortie, Annotation: annotation}

	if annotation != nil {
		if annotation.SnapshotID != nil {
			snapshot, err := s.environment.snapshotByID(ctx, *annotation.SnapshotID)
			switch {
			case err == nil:
				result.Snapshot = snapshot
				result.SnapshotSource = dtos.SnapshotSourceAnnotation
			case isNotFound(err):
				logging.Warn("Annotated snapshot missing", "sortie_id", sortie.ID, "snapshot_id", *annotation.SnapshotID)
			default:
				return nil, err
			}
		}
		return result, nil
	}

	tenantID := sortie.TenantID
	snapshot, err := s.environment.LatestAtOrBefore(ctx, sortie.DepartureAirport, sortie.ReportTime, &tenantID)
	if err != nil {
		return nil, err
	}
	if snapshot != nil {
		result.Snapshot = snapshot
		result.SnapshotSource = dtos.SnapshotSourceLive
	}

	return result, nil
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/datatypes"
	"maverick/dispatch/internal/auth"
	"maverick/dispatch/internal/common"
	"maverick/dispatch/internal/constants"
	"maverick/dispatch/internal/db/repositories"
	"maverick/dispatch/internal/logging"
	"maverick/dispatch/internal/metrics"
	"maverick/dispatch/internal/models/dtos"
	gormModels "maverick/dispatch/internal/models/gorm"
)

const maxAirportCodeLen = 8

// EnvironmentService ingests captures and answers point-in-time lookups
type EnvironmentService struct {
	repo     *repositories.EnvironmentSnapshotRepo
	cache    common.CacheInterface
	cacheTTL time.Duration
	emitter  SyncEmitter
	metrics  *metrics.MetricsRegistry
}

// NewEnvironmentService creates the service. cache may be nil to disable by-id caching.
func NewEnvironmentService(
	repo *repositories.EnvironmentSnapshotRepo,
	cache common.CacheInterface,
	cacheTTL time.Duration,
	emitter SyncEmitter,
	metricsReg *metrics.MetricsRegistry,
) *EnvironmentService {
	return &EnvironmentService{
		repo:     repo,
		cache:    cache,
		cacheTTL: cacheTTL,
		emitter:  emitterOrNoop(emitter),
		metrics:  metricsReg,
	}
}

// Ingest evaluates the derived flags once and appends the snapshot
func (s *EnvironmentService) Ingest(
	ctx context.Context,
	req *dtos.EnvironmentCaptureRequest,
	claims auth.UserClaims,
) (*gormModels.EnvironmentSnapshot, error) {
	if err := requireClaims(claims); err != nil {
		return nil, err
	}

	if req.Global {
		if !auth.Can(claims.Role(), auth.CapIngestGlobalCapture) {
			return nil, common.Forbiddenf("%s", constants.ReasonGlobalIngestOnly)
		}
	} else if !auth.Can(claims.Role(), auth.CapIngestTenantCapture) {
		return nil, common.Forbiddenf(constants.ReasonRoleCannotIngest, claims.Role())
	}

	airport := common.NormalizeAirportCode(req.AirportCode)
	if airport == "" || len(airport) > maxAirportCodeLen {
		return nil, common.Validationf("airport_code must be 1-%d characters", maxAirportCodeLen)
	}
	if req.CapturedAt.IsZero() {
		return nil, common.Validationf("captured_at is required")
	}

	sections := map[string]json.RawMessage{
		"metar":   req.Metar,
		"taf":     req.Taf,
		"notams":  req.Notams,
		"traffic": req.Traffic,
	}
	for name, raw := range sections {
		if !isEmptySection(raw) && !json.Valid(raw) {
			return nil, common.Validationf("%s is not valid JSON", name)
		}
	}

	snapshot := &gormModels.EnvironmentSnapshot{
		AirportCode: airport,
		CapturedAt:  req.CapturedAt.UTC().Truncate(time.Microsecond),
		Metar:       sectionJSON(req.Metar),
		Taf:         sectionJSON(req.Taf),
		Notams:      sectionJSON(req.Notams),
		Traffic:     sectionJSON(req.Traffic),
		Flags:       EvaluateFlags(req.RawCapture),
	}
	scope := "global"
	if !req.Global {
		tenant := claims.TenantID()
		snapshot.TenantID = &tenant
		scope = "tenant"
	}

	if err := s.repo.Create(ctx, snapshot); err != nil {
		return nil, err
	}

	s.metrics.ObserveIngest(scope)
	logging.Info("Environment snapshot ingested",
		"snapshot_id", snapshot.ID,
		"airport", snapshot.AirportCode,
		"captured_at", snapshot.CapturedAt.Format(time.RFC3339),
		"scope", scope,
		"user_id", claims.UserID(),
	)

	payload := snapshot.Flags.AsPayload()
	payload["snapshot_id"] = snapshot.ID
	payload["airport_code"] = snapshot.AirportCode
	payload["captured_at"] = snapshot.CapturedAt.Format(time.RFC3339)
	payload["scope"] = scope
	if snapshot.TenantID != nil {
		payload["tenant_id"] = *snapshot.TenantID
	}
	s.emitter.Emit(constants.SyncEventEnvironmentIngested, constants.SyncEntityEnvironmentSnapshot, snapshot.ID, payload)

	return snapshot, nil
}

// LatestAtOrBefore returns nil, nil when no eligible capture exists.
// A nil tenantID restricts the search to global captures.
func (s *EnvironmentService) LatestAtOrBefore(
	ctx context.Context,
	airportCode string,
	at time.Time,
	tenantID *string,
) (*gormModels.EnvironmentSnapshot, error) {
	return s.repo.LatestAtOrBefore(ctx, common.NormalizeAirportCode(airportCode), at, tenantID)
}

// GetSnapshot returns a capture visible to the caller: global, or owned by the caller's tenant.
func (s *EnvironmentService) GetSnapshot(ctx context.Context, snapshotID string, claims auth.UserClaims) (*gormModels.EnvironmentSnapshot, error) {
	if err := requireClaims(claims); err != nil {
		return nil, err
	}

	snapshot, err := s.snapshotByID(ctx, snapshotID)
	if err != nil {
		return nil, err
	}
	if snapshot.TenantID != nil && *snapshot.TenantID != claims.TenantID() {
		return nil, common.NotFoundf("environment snapshot %s", snapshotID)
	}
	return snapshot, nil
}

// snapshotByID goes through the cache; snapshots never change once written.
func (s *EnvironmentService) snapshotByID(ctx context.Context, snapshotID string) (*gormModels.EnvironmentSnapshot, error) {
	if s.cache == nil {
		return s.repo.FindByID(ctx, snapshotID)
	}

	key := string(constants.CachePrefixSnapshot) + snapshotID
	if cached, found := s.cache.Get(key); found {
		if encoded, ok := cached.(string); ok {
			var snapshot gormModels.EnvironmentSnapshot
			if err := json.Unmarshal([]byte(encoded), &snapshot); err == nil {
				s.metrics.ObserveCache(string(constants.CachePrefixSnapshot), true)
				return &snapshot, nil
			}
		}
		s.cache.Delete(key)
	}
	s.metrics.ObserveCache(string(constants.CachePrefixSnapshot), false)

	snapshot, err := s.repo.FindByID(ctx, snapshotID)
	if err != nil {
		return nil, err
	}

	encoded, err := json.Marshal(snapshot)
	if err != nil {
		logging.Warn("Failed to encode snapshot for cache", "snapshot_id", snapshotID, "error", err.Error())
		return snapshot, nil
	}
	s.cache.Set(key, string(encoded), s.cacheTTL)
	return snapshot, nil
}

func sectionJSON(raw json.RawMessage) datatypes.JSON {
	if isEmptySection(raw) {
		return nil
	}
	return datatypes.JSON(raw)
}

// isNotFound is shared by services that tolerate a missing referenced row.
func isNotFound(err error) bool {
	return errors.Is(err, common.ErrNotFound)
}

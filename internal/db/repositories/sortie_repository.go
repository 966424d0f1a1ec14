package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"maverick/dispatch/internal/common"
	"maverick/dispatch/internal/constants"
	"maverick/dispatch/internal/models/dtos"
	"maverick/dispatch/internal/models/gorm"

	gormlib "gorm.io/gorm"
)

// SortieRepo handles sorties table operations
type SortieRepo struct {
	db *gormlib.DB
}

// NewSortieRepo creates a new sortie repository
func NewSortieRepo(db *gormlib.DB) *SortieRepo {
	return &SortieRepo{db: db}
}

// SortieStatusUpdate is applied atomically together with the version bump
type SortieStatusUpdate struct {
	Status        constants.SortieStatus
	DispatchNotes *string
	BlockOffAt    *time.Time
	BlockOnAt     *time.Time
	UpdatedAt     time.Time
}

func (r *SortieRepo) Create(ctx context.Context, sortie *gorm.Sortie) error {
	if err := r.db.WithContext(ctx).Create(sortie).Error; err != nil {
		return fmt.Errorf("failed to create sortie: %w", err)
	}
	return nil
}

// FindByID looks a sortie up inside one tenant; other tenants' sorties are NotFound
func (r *SortieRepo) FindByID(ctx context.Context, tenantID, sortieID string) (*gorm.Sortie, error) {
	var sortie gorm.Sortie

	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, sortieID).
		Take(&sortie).Error

	if err != nil {
		if errors.Is(err, gormlib.ErrRecordNotFound) {
			return nil, common.NotFoundf("sortie %s", sortieID)
		}
		return nil, fmt.Errorf("failed to fetch sortie: %w", err)
	}

	return &sortie, nil
}

// List returns sorties ordered by report time
func (r *SortieRepo) List(ctx context.Context, filter dtos.SortieFilter) ([]gorm.Sortie, error) {
	query := r.db.WithContext(ctx).
		Where("tenant_id = ?", filter.TenantID)

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.InstructorID != "" {
		query = query.Where("instructor_id = ?", filter.InstructorID)
	}
	if filter.StudentID != "" {
		query = query.Where("student_id = ?", filter.StudentID)
	}
	if filter.DepartureAirport != "" {
		query = query.Where("departure_airport = ?", filter.DepartureAirport)
	}
	if filter.ReportFrom != nil {
		query = query.Where("report_time >= ?", filter.ReportFrom.UTC())
	}
	if filter.ReportTo != nil {
		query = query.Where("report_time <= ?", filter.ReportTo.UTC())
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = constants.DefaultSortieListLimit
	}
	if limit > constants.MaxSortieListLimit {
		limit = constants.MaxSortieListLimit
	}

	var sorties []gorm.Sortie
	err := query.
		Order("report_time ASC").
		Order("id ASC").
		Limit(limit).
		Find(&sorties).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list sorties: %w", err)
	}

	return sorties, nil
}

// UpdateStatusIfCurrent applies upd only while the row still has the expected status and version
// UPDATE sorties SET ... WHERE tenant_id = ? AND id = ? AND status = ? AND version = ?
// Returns false when another writer got there first.
func (r *SortieRepo) UpdateStatusIfCurrent(
	ctx context.Context,
	tenantID, sortieID string,
	expectedStatus constants.SortieStatus,
	expectedVersion int64,
	upd SortieStatusUpdate,
) (bool, error) {
	updates := map[string]interface{}{
		"status":     string(upd.Status),
		"version":    gormlib.Expr("version + 1"),
		"updated_at": upd.UpdatedAt,
	}
	if upd.DispatchNotes != nil {
		updates["dispatch_notes"] = *upd.DispatchNotes
	}
	if upd.BlockOffAt != nil {
		updates["block_off_at"] = *upd.BlockOffAt
	}
	if upd.BlockOnAt != nil {
		updates["block_on_at"] = *upd.BlockOnAt
	}

	res := r.db.WithContext(ctx).
		Model(&gorm.Sortie{}).
		Where("tenant_id = ? AND id = ? AND status = ? AND version = ?",
			tenantID, sortieID, string(expectedStatus), expectedVersion).
		Updates(updates)

	if res.Error != nil {
		return false, fmt.Errorf("failed to update sortie status: %w", res.Error)
	}

	return res.RowsAffected == 1, nil
}

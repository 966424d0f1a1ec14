package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"maverick/dispatch/internal/common"
	"maverick/dispatch/internal/models/gorm"

	gormlib "gorm.io/gorm"
)

// EnvironmentSnapshotRepo is append-only: there is no update or delete.
type EnvironmentSnapshotRepo struct {
	db *gormlib.DB
}

// NewEnvironmentSnapshotRepo creates a new environment snapshot repository
func NewEnvironmentSnapshotRepo(db *gormlib.DB) *EnvironmentSnapshotRepo {
	return &EnvironmentSnapshotRepo{db: db}
}

func (r *EnvironmentSnapshotRepo) Create(ctx context.Context, snapshot *gorm.EnvironmentSnapshot) error {
	if err := r.db.WithContext(ctx).Create(snapshot).Error; err != nil {
		return fmt.Errorf("failed to insert environment snapshot: %w", err)
	}
	return nil
}

func (r *EnvironmentSnapshotRepo) FindByID(ctx context.Context, snapshotID string) (*gorm.EnvironmentSnapshot, error) {
	var snapshot gorm.EnvironmentSnapshot

	err := r.db.WithContext(ctx).
		Where("id = ?", snapshotID).
		Take(&snapshot).Error

	if err != nil {
		if errors.Is(err, gormlib.ErrRecordNotFound) {
			return nil, common.NotFoundf("environment snapshot %s", snapshotID)
		}
		return nil, fmt.Errorf("failed to fetch environment snapshot: %w", err)
	}

	return &snapshot, nil
}

// LatestAtOrBefore returns the capture with the greatest captured_at <= at, or nil.
// With a tenant, tenant-scoped and global captures compete on recency alone;
// on an exact tie the tenant-scoped capture wins. Without a tenant only global
// captures are eligible.
func (r *EnvironmentSnapshotRepo) LatestAtOrBefore(
	ctx context.Context,
	airportCode string,
	at time.Time,
	tenantID *string,
) (*gorm.EnvironmentSnapshot, error) {
	query := r.db.WithContext(ctx).
		Where("airport_code = ? AND captured_at <= ?", airportCode, at.UTC())

	if tenantID != nil {
		query = query.Where("(tenant_id = ? OR tenant_id IS NULL)", *tenantID)
	} else {
		query = query.Where("tenant_id IS NULL")
	}

	var snapshot gorm.EnvironmentSnapshot
	err := query.
		Order("captured_at DESC").
		Order("CASE WHEN tenant_id IS NULL THEN 1 ELSE 0 END").
		Order("created_at DESC").
		Order("id DESC").
		Take(&snapshot).Error

	if err != nil {
		if errors.Is(err, gormlib.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch latest environment snapshot: %w", err)
	}

	return &snapshot, nil
}

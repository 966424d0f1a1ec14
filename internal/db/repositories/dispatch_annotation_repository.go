package repositories

import (
	"context"
	"errors"
	"fmt"

	"maverick/dispatch/internal/models/gorm"

	gormlib "gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DispatchAnnotationRepo handles dispatch_annotations table operations
type DispatchAnnotationRepo struct {
	db *gormlib.DB
}

// NewDispatchAnnotationRepo creates a new dispatch annotation repository
func NewDispatchAnnotationRepo(db *gormlib.DB) *DispatchAnnotationRepo {
	return &DispatchAnnotationRepo{db: db}
}

// Upsert replaces the current annotation for the sortie
// ON CONFLICT (tenant_id, sortie_id) DO UPDATE
func (r *DispatchAnnotationRepo) Upsert(ctx context.Context, annotation *gorm.DispatchAnnotation) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "tenant_id"},
				{Name: "sortie_id"},
			},
			DoUpdates: clause.AssignmentColumns([]string{
				"snapshot_id", "risk_level",
				"below_minima_weather", "strong_crosswind", "runway_closed", "high_traffic",
				"notes", "assessed_by", "created_at",
			}),
		}).
		Create(annotation).Error
	if err != nil {
		return fmt.Errorf("failed to upsert dispatch annotation: %w", err)
	}
	return nil
}

// FindBySortie returns nil, nil when the sortie has not been annotated yet
func (r *DispatchAnnotationRepo) FindBySortie(ctx context.Context, tenantID, sortieID string) (*gorm.DispatchAnnotation, error) {
	var annotation gorm.DispatchAnnotation

	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND sortie_id = ?", tenantID, sortieID).
		Take(&annotation).Error

	if err != nil {
		if errors.Is(err, gormlib.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch dispatch annotation: %w", err)
	}

	return &annotation, nil
}

// CountBySortie is used to verify the one-row-per-sortie invariant
func (r *DispatchAnnotationRepo) CountBySortie(ctx context.Context, tenantID, sortieID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&gorm.DispatchAnnotation{}).
		Where("tenant_id = ? AND sortie_id = ?", tenantID, sortieID).
		Count(&count).Error
	return count, err
}

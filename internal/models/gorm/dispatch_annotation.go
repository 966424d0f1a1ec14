package gorm

import (
	"time"

	"github.com/google/uuid"
	gormlib "gorm.io/gorm"
	"maverick/dispatch/internal/constants"
	"maverick/dispatch/internal/models/entities"
)

// DispatchAnnotation is the current risk assessment for a sortie.
// (tenant_id, sortie_id) is unique: re-annotating replaces the row.
type DispatchAnnotation struct {
	ID         string                `gorm:"column:id;primaryKey;type:uuid" json:"id"`
	TenantID   string                `gorm:"column:tenant_id;type:varchar(64);not null;uniqueIndex:idx_dispatch_annotations_sortie,priority:1" json:"tenant_id"`
	SortieID   string                `gorm:"column:sortie_id;type:uuid;not null;uniqueIndex:idx_dispatch_annotations_sortie,priority:2" json:"sortie_id"`
	SnapshotID *string               `gorm:"column:snapshot_id;type:uuid" json:"snapshot_id"`
	RiskLevel  constants.RiskLevel   `gorm:"column:risk_level;type:varchar(8);not null" json:"risk_level"`
	Flags      entities.DerivedFlags `gorm:"embedded" json:"flags"`
	Notes      string                `gorm:"column:notes;type:text" json:"notes"`
	AssessedBy string                `gorm:"column:assessed_by;type:varchar(64);not null" json:"assessed_by"`
	CreatedAt  time.Time             `gorm:"column:created_at" json:"created_at"`
}

// TableName specifies the table name for GORM
func (DispatchAnnotation) TableName() string {
	return "dispatch_annotations"
}

func (a *DispatchAnnotation) BeforeCreate(tx *gormlib.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

package gorm

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	gormlib "gorm.io/gorm"
	"maverick/dispatch/internal/models/entities"
)

// EnvironmentSnapshot is one append-only capture for an airport.
// A nil TenantID marks a globally shared capture.
type EnvironmentSnapshot struct {
	ID          string                `gorm:"column:id;primaryKey;type:uuid" json:"id"`
	TenantID    *string               `gorm:"column:tenant_id;type:varchar(64);index:idx_env_snapshots_lookup,priority:2" json:"tenant_id,omitempty"`
	AirportCode string                `gorm:"column:airport_code;type:varchar(8);not null;index:idx_env_snapshots_lookup,priority:1" json:"airport_code"`
	CapturedAt  time.Time             `gorm:"column:captured_at;not null;index:idx_env_snapshots_lookup,priority:3" json:"captured_at"`
	Metar       datatypes.JSON        `gorm:"column:metar" json:"metar,omitempty"`
	Taf         datatypes.JSON        `gorm:"column:taf" json:"taf,omitempty"`
	Notams      datatypes.JSON        `gorm:"column:notams" json:"notams,omitempty"`
	Traffic     datatypes.JSON        `gorm:"column:traffic" json:"traffic,omitempty"`
	Flags       entities.DerivedFlags `gorm:"embedded" json:"flags"`
	CreatedAt   time.Time             `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

// TableName specifies the table name for GORM
func (EnvironmentSnapshot) TableName() string {
	return "environment_snapshots"
}

func (e *EnvironmentSnapshot) BeforeCreate(tx *gormlib.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}

// IsGlobal reports whether the capture is shared across tenants.
func (e *EnvironmentSnapshot) IsGlobal() bool {
	return e.TenantID == nil
}

package gorm

import (
	"time"

	"gorm.io/datatypes"
)

// SyncEvent backs the write-only Maverick sync log table.
// Rows are inserted through sqlx; GORM only owns the schema.
type SyncEvent struct {
	ID         string         `gorm:"column:id;primaryKey;type:uuid"`
	EventType  string         `gorm:"column:event_type;type:varchar(64);not null;index"`
	EntityType string         `gorm:"column:entity_type;type:varchar(64);not null;index:idx_sync_events_entity,priority:1"`
	EntityID   string         `gorm:"column:entity_id;type:varchar(64);not null;index:idx_sync_events_entity,priority:2"`
	TenantID   *string        `gorm:"column:tenant_id;type:varchar(64)"`
	Payload    datatypes.JSON `gorm:"column:payload"`
	CreatedAt  time.Time      `gorm:"column:created_at;not null"`
}

// TableName specifies the table name for GORM
func (SyncEvent) TableName() string {
	return "maverick_sync_events"
}

// AllModels lists every table owned by this service, in migration order.
func AllModels() []interface{} {
	return []interface{}{
		&Sortie{},
		&EnvironmentSnapshot{},
		&DispatchAnnotation{},
		&SyncEvent{},
	}
}

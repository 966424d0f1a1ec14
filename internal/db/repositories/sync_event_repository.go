package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"maverick/dispatch/internal/constants"
	"maverick/dispatch/internal/models/entities"
)

// SyncEventRepo writes the Maverick sync log through sqlx
type SyncEventRepo struct {
	db *sqlx.DB
}

func NewSyncEventRepo(db *sqlx.DB) *SyncEventRepo {
	return &SyncEventRepo{db}
}

type syncEventRow struct {
	ID         string         `db:"id"`
	EventType  string         `db:"event_type"`
	EntityType string         `db:"entity_type"`
	EntityID   string         `db:"entity_id"`
	TenantID   sql.NullString `db:"tenant_id"`
	Payload    string         `db:"payload"`
	CreatedAt  time.Time      `db:"created_at"`
}

// Name identifies this sink in logs and metrics
func (r *SyncEventRepo) Name() string { return "sql_log" }

// Record appends one event to maverick_sync_events
func (r *SyncEventRepo) Record(ctx context.Context, event entities.SyncEvent) error {
	payload, err := json.Marshal(event.Payload)
	if err != nil {
		return fmt.Errorf("failed to marshal sync payload: %w", err)
	}

	tenant := sql.NullString{String: event.TenantID, Valid: event.TenantID != ""}

	_, err = r.db.ExecContext(ctx, constants.InsertSyncEvent,
		event.ID,
		event.EventType,
		event.EntityType,
		event.EntityID,
		tenant,
		string(payload),
		event.OccurredAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert sync event: %w", err)
	}
	return nil
}

// ListByEntity returns the events recorded for one entity, oldest first
func (r *SyncEventRepo) ListByEntity(ctx context.Context, entityType, entityID string) ([]entities.SyncEvent, error) {
	var rows []syncEventRow
	if err := r.db.SelectContext(ctx, &rows, constants.ListSyncEventsByEntity, entityType, entityID); err != nil {
		return nil, fmt.Errorf("failed to list sync events: %w", err)
	}

	events := make([]entities.SyncEvent, 0, len(rows))
	for _, row := range rows {
		var payload map[string]any
		if err := json.Unmarshal([]byte(row.Payload), &payload); err != nil {
			return nil, fmt.Errorf("failed to decode payload of sync event %s: %w", row.ID, err)
		}
		events = append(events, entities.SyncEvent{
			ID:         row.ID,
			EventType:  row.EventType,
			EntityType: row.EntityType,
			EntityID:   row.EntityID,
			TenantID:   row.TenantID.String,
			Payload:    payload,
			OccurredAt: row.CreatedAt,
		})
	}
	return events, nil
}

// Ping is used by the health check
func (r *SyncEventRepo) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

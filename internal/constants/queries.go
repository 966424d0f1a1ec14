package constants

const (
	InsertSyncEvent = `
	INSERT INTO maverick_sync_events (id, event_type, entity_type, entity_id, tenant_id, payload, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	ListSyncEventsByEntity = `
	SELECT id, event_type, entity_type, entity_id, tenant_id, payload, created_at
	FROM maverick_sync_events
	WHERE entity_type = $1 AND entity_id = $2
	ORDER BY created_at ASC
	`
)

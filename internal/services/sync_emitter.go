package services

// SyncEmitter is the outbound port to the Maverick sync log.
// Emit must not block and must not report delivery failures to the caller.
type SyncEmitter interface {
	Emit(eventType, entityType, entityID string, payload map[string]any)
}

type noopEmitter struct{}

func (noopEmitter) Emit(string, string, string, map[string]any) {}

func emitterOrNoop(e SyncEmitter) SyncEmitter {
	if e == nil {
		return noopEmitter{}
	}
	return e
}

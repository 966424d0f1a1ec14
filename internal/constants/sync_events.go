package constants

// Event types written to the Maverick sync log
const (
	SyncEventSortieCreated       = "SORTIE_CREATED"
	SyncEventSortieUpdated       = "SORTIE_UPDATED"
	SyncEventSortieCancelled     = "SORTIE_CANCELLED"
	SyncEventSortieMessageLinked = "SORTIE_MESSAGE_LINKED"
	SyncEventDispatchAnnotated   = "DISPATCH_ANNOTATED"
	SyncEventEnvironmentIngested = "ENVIRONMENT_INGESTED"
)

// Entity types carried on sync events
const (
	SyncEntitySortie              = "sortie"
	SyncEntityDispatchAnnotation  = "dispatch_annotation"
	SyncEntityEnvironmentSnapshot = "environment_snapshot"
)

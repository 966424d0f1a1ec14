package constants

const (
	MsgUnauthorized        = "Unauthorized: missing claims"
	MsgSortieNotFound      = "Sortie not found"
	MsgSnapshotNotFound    = "Environment snapshot not found"
	MsgInvalidRequestBody  = "Invalid request body"
	MsgInvalidSortieStatus = "Invalid sortie status"
	MsgTransitionConflict  = "Sortie was modified concurrently, retry with a fresh read"
	MsgInternalError       = "Internal server error"
)

const (
	ReasonRoleCannotTransition  = "role %s may not transition sorties"
	ReasonNotInstructorOfRecord = "only the instructor of record may act on this sortie"
	ReasonRoleCannotRead        = "role %s may not view this sortie"
	ReasonRoleCannotAnnotate    = "role %s may not annotate sorties"
	ReasonRoleCannotSchedule    = "role %s may not schedule sorties"
	ReasonRoleCannotIngest      = "role %s may not ingest environment captures"
	ReasonGlobalIngestOnly      = "only super admins may ingest global captures"
)

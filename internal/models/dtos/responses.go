package dtos

import (
	"maverick/dispatch/internal/constants"
	gormModels "maverick/dispatch/internal/models/gorm"
)

// --- Controller endpoints ----

type APIResponse struct {
	Status       string `json:"status"`
	Message      string `json:"message"`
	ResponseTime string `json:"response_time"`
	Data         any    `json:"data,omitempty"`
}

// TransitionErrorDetail is returned alongside a 422 for a disallowed instructor transition.
type TransitionErrorDetail struct {
	CurrentStatus   constants.SortieStatus   `json:"current_status"`
	RequestedStatus constants.SortieStatus   `json:"requested_status"`
	AllowedStatuses []constants.SortieStatus `json:"allowed_statuses"`
}

const (
	SnapshotSourceAnnotation = "annotation"
	SnapshotSourceLive       = "live"
)

// SortieContext is the combined read view of a sortie.
// Without an annotation, Snapshot comes from a live, non-persisted lookup.
type SortieContext struct {
	Sortie         *gormModels.Sortie              `json:"sortie"`
	Annotation     *gormModels.DispatchAnnotation  `json:"annotation"`
	Snapshot       *gormModels.EnvironmentSnapshot `json:"snapshot"`
	SnapshotSource string                          `json:"snapshot_source,omitempty"`
}

type SortieListResponse struct {
	Sorties []gormModels.Sortie `json:"sorties"`
	Count   int                 `json:"count"`
}

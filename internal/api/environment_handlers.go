package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"maverick/dispatch/internal/common"
	"maverick/dispatch/internal/models/dtos"
)

// IngestSnapshot handles POST /api/v1/environment/snapshots
func (h *Handlers) IngestSnapshot() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		claims := claimsOrReject(w, r, initTime)
		if claims == nil {
			return
		}

		var req dtos.EnvironmentCaptureRequest
		if err := decodeBody(r, &req); err != nil {
			common.RespondServiceError(w, initTime, err)
			return
		}

		snapshot, err := h.deps.Services.Environment.Ingest(r.Context(), &req, claims)
		if err != nil {
			common.RespondServiceError(w, initTime, err)
			return
		}

		common.RespondSuccess(w, initTime, "Snapshot ingested", snapshot, http.StatusCreated)
	}
}

// LatestSnapshot handles GET /api/v1/environment/snapshots/latest?airport=&at=
// Considers the caller's tenant captures and global captures.
func (h *Handlers) LatestSnapshot() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		claims := claimsOrReject(w, r, initTime)
		if claims == nil {
			return
		}

		airport := r.URL.Query().Get("airport")
		if airport == "" {
			common.RespondServiceError(w, initTime, common.Validationf("airport is required"))
			return
		}
		at, err := parseTimeParam(r.URL.Query().Get("at"))
		if err != nil {
			common.RespondServiceError(w, initTime, err)
			return
		}

		tenantID := claims.TenantID()
		snapshot, err := h.deps.Services.Environment.LatestAtOrBefore(r.Context(), airport, at, &tenantID)
		if err != nil {
			common.RespondServiceError(w, initTime, err)
			return
		}
		if snapshot == nil {
			common.RespondServiceError(w, initTime, common.NotFoundf("no snapshot for %s at or before %s", airport, at.Format(time.RFC3339)))
			return
		}

		common.RespondSuccess(w, initTime, "Snapshot retrieved", snapshot)
	}
}

// GetSnapshot handles GET /api/v1/environment/snapshots/{snapshot_id}
func (h *Handlers) GetSnapshot() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		claims := claimsOrReject(w, r, initTime)
		if claims == nil {
			return
		}

		snapshot, err := h.deps.Services.Environment.GetSnapshot(r.Context(), chi.URLParam(r, "snapshot_id"), claims)
		if err != nil {
			common.RespondServiceError(w, initTime, err)
			return
		}

		common.RespondSuccess(w, initTime, "Snapshot retrieved", snapshot)
	}
}

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"maverick/dispatch/internal/common"
	"maverick/dispatch/internal/constants"
	"maverick/dispatch/internal/models/dtos"
)

// ScheduleSortie handles POST /api/v1/sorties
func (h *Handlers) ScheduleSortie() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		claims := claimsOrReject(w, r, initTime)
		if claims == nil {
			return
		}

		var req dtos.ScheduleSortieRequest
		if err := decodeBody(r, &req); err != nil {
			common.RespondServiceError(w, initTime, err)
			return
		}

		sortie, err := h.deps.Services.Sorties.Schedule(r.Context(), &req, claims)
		if err != nil {
			common.RespondServiceError(w, initTime, err)
			return
		}

		common.RespondSuccess(w, initTime, "Sortie scheduled", sortie, http.StatusCreated)
	}
}

// ListSorties handles GET /api/v1/sorties
// Query: status, instructor_id, student_id, airport, from, to, limit
func (h *Handlers) ListSorties() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		claims := claimsOrReject(w, r, initTime)
		if claims == nil {
			return
		}

		q := r.URL.Query()
		filter := dtos.SortieFilter{
			Status:           q.Get("status"),
			InstructorID:     q.Get("instructor_id"),
			StudentID:        q.Get("student_id"),
			DepartureAirport: q.Get("airport"),
		}

		var err error
		if filter.ReportFrom, err = parseOptionalTime(q.Get("from")); err != nil {
			common.RespondServiceError(w, initTime, err)
			return
		}
		if filter.ReportTo, err = parseOptionalTime(q.Get("to")); err != nil {
			common.RespondServiceError(w, initTime, err)
			return
		}
		if filter.Limit, err = parseLimit(q.Get("limit")); err != nil {
			common.RespondServiceError(w, initTime, err)
			return
		}

		sorties, err := h.deps.Services.Sorties.List(r.Context(), filter, claims)
		if err != nil {
			common.RespondServiceError(w, initTime, err)
			return
		}

		common.RespondSuccess(w, initTime, "Sorties retrieved", dtos.SortieListResponse{
			Sorties: sorties,
			Count:   len(sorties),
		})
	}
}

// GetSortie handles GET /api/v1/sorties/{sortie_id}
// Returns the sortie with its dispatch annotation and environment snapshot.
func (h *Handlers) GetSortie() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		claims := claimsOrReject(w, r, initTime)
		if claims == nil {
			return
		}

		view, err := h.deps.Services.Dispatch.GetSortieWithContext(r.Context(), chi.URLParam(r, "sortie_id"), claims)
		if err != nil {
			common.RespondServiceError(w, initTime, err)
			return
		}

		common.RespondSuccess(w, initTime, "Sortie retrieved", view)
	}
}

// TransitionSortie handles POST /api/v1/sorties/{sortie_id}/transition
func (h *Handlers) TransitionSortie() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		claims := claimsOrReject(w, r, initTime)
		if claims == nil {
			return
		}

		var req dtos.TransitionSortieRequest
		if err := decodeBody(r, &req); err != nil {
			common.RespondServiceError(w, initTime, err)
			return
		}

		status, err := constants.ParseSortieStatus(req.Status)
		if err != nil {
			common.RespondServiceError(w, initTime, common.Validationf("%s: %q", constants.MsgInvalidSortieStatus, req.Status))
			return
		}

		sortie, err := h.deps.Services.Lifecycle.Transition(r.Context(), chi.URLParam(r, "sortie_id"), status, claims, req.DispatchNotes)
		if err != nil {
			common.RespondServiceError(w, initTime, err)
			return
		}

		common.RespondSuccess(w, initTime, "Sortie moved to "+string(sortie.Status), sortie)
	}
}

// AnnotateSortie handles POST /api/v1/sorties/{sortie_id}/dispatch-annotation
func (h *Handlers) AnnotateSortie() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		claims := claimsOrReject(w, r, initTime)
		if claims == nil {
			return
		}

		var req dtos.AnnotateSortieRequest
		if err := decodeOptionalBody(r, &req); err != nil {
			common.RespondServiceError(w, initTime, err)
			return
		}

		annotation, err := h.deps.Services.Dispatch.Annotate(r.Context(), chi.URLParam(r, "sortie_id"), req.Notes, claims)
		if err != nil {
			common.RespondServiceError(w, initTime, err)
			return
		}

		common.RespondSuccess(w, initTime, "Dispatch risk "+string(annotation.RiskLevel), annotation)
	}
}

// LinkSortieMessage handles POST /api/v1/sorties/{sortie_id}/messages
func (h *Handlers) LinkSortieMessage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		claims := claimsOrReject(w, r, initTime)
		if claims == nil {
			return
		}

		var req dtos.LinkSortieMessageRequest
		if err := decodeBody(r, &req); err != nil {
			common.RespondServiceError(w, initTime, err)
			return
		}

		if err := h.deps.Services.Sorties.RecordMessageActivity(r.Context(), chi.URLParam(r, "sortie_id"), &req, claims); err != nil {
			common.RespondServiceError(w, initTime, err)
			return
		}

		common.RespondSuccess(w, initTime, "Message linked", nil, http.StatusAccepted)
	}
}

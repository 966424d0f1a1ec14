package common

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"maverick/dispatch/internal/constants"
	"maverick/dispatch/internal/logging"
	"maverick/dispatch/internal/models/dtos"
)

// RespondSuccess sends a standardized JSON success response.
func RespondSuccess(w http.ResponseWriter, initTime time.Time, message string, data any, statusCode ...int) {
	code := http.StatusOK
	if len(statusCode) > 0 {
		code = statusCode[0]
	}

	response := dtos.APIResponse{
		Status:       string(constants.APIStatusOk),
		Message:      message,
		ResponseTime: GetResponseTime(initTime),
		Data:         data,
	}

	writeJSON(w, code, response)
}

// RespondError sends a standardized JSON error response.
func RespondError(w http.ResponseWriter, initTime time.Time, err error, message string, statusCode ...int) {
	code := http.StatusInternalServerError
	if len(statusCode) > 0 {
		code = statusCode[0]
	}

	msg := message
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}

	response := dtos.APIResponse{
		Status:       string(constants.APIStatusError),
		Message:      msg,
		ResponseTime: GetResponseTime(initTime),
	}

	writeJSON(w, code, response)
}

// RespondServiceError maps the service error taxonomy onto HTTP status codes.
// Unexpected errors are logged and hidden behind a generic message.
func RespondServiceError(w http.ResponseWriter, initTime time.Time, err error) {
	var transitionErr *TransitionError
	switch {
	case errors.As(err, &transitionErr):
		response := dtos.APIResponse{
			Status:       string(constants.APIStatusError),
			Message:      transitionErr.Error(),
			ResponseTime: GetResponseTime(initTime),
			Data: dtos.TransitionErrorDetail{
				CurrentStatus:   transitionErr.Current,
				RequestedStatus: transitionErr.Requested,
				AllowedStatuses: transitionErr.Allowed,
			},
		}
		writeJSON(w, http.StatusUnprocessableEntity, response)
	case errors.Is(err, ErrNotFound):
		RespondError(w, initTime, err, "", http.StatusNotFound)
	case errors.Is(err, ErrForbidden):
		RespondError(w, initTime, err, "", http.StatusForbidden)
	case errors.Is(err, ErrConflict):
		RespondError(w, initTime, nil, constants.MsgTransitionConflict, http.StatusConflict)
	case errors.Is(err, ErrValidation):
		RespondError(w, initTime, err, "", http.StatusBadRequest)
	default:
		logging.Error("Unhandled service error", "error", err.Error())
		RespondError(w, initTime, nil, constants.MsgInternalError, http.StatusInternalServerError)
	}
}

// writeJSON marshals data and writes it to the HTTP response.
func writeJSON(w http.ResponseWriter, code int, body dtos.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.Error("JSON encode failed", "error", err.Error())
	}
}

package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"maverick/dispatch/internal/auth"
	"maverick/dispatch/internal/common"
	"maverick/dispatch/internal/constants"
)

type Handlers struct {
	deps *Dependencies
}

// NewHandlers creates a new handlers instance with injected dependencies
func NewHandlers(deps *Dependencies) *Handlers {
	return &Handlers{
		deps: deps,
	}
}

// decodeBody rejects unknown fields so typos in status names surface as 400s
func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return common.Validationf("%s: %v", constants.MsgInvalidRequestBody, err)
	}
	return nil
}

// decodeOptionalBody treats an empty body as the zero request
func decodeOptionalBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return common.Validationf("%s: %v", constants.MsgInvalidRequestBody, err)
	}
	return nil
}

// claimsOrReject writes a 401 and returns nil when auth middleware did not run
func claimsOrReject(w http.ResponseWriter, r *http.Request, initTime time.Time) auth.UserClaims {
	claims := auth.GetUserClaims(r.Context())
	if claims == nil {
		common.RespondError(w, initTime, nil, constants.MsgUnauthorized, http.StatusUnauthorized)
		return nil
	}
	return claims
}

// parseTimeParam accepts RFC3339; empty means now.
func parseTimeParam(value string) (time.Time, error) {
	if value == "" {
		return time.Now().UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, common.Validationf("invalid time %q: expected RFC3339", value)
	}
	return t.UTC(), nil
}

func parseOptionalTime(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := parseTimeParam(value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func parseLimit(value string) (int, error) {
	if value == "" {
		return 0, nil
	}
	limit, err := strconv.Atoi(value)
	if err != nil || limit < 0 {
		return 0, common.Validationf("invalid limit %q", value)
	}
	return limit, nil
}

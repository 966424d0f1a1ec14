package middleware

import (
	"net/http"
	"time"

	"maverick/dispatch/internal/auth"
	"maverick/dispatch/internal/common"
	"maverick/dispatch/internal/constants"
)

// RequireAnyCapability lets the request through when the caller's role holds one of caps.
// Record-level checks (instructor of record, own student) stay in the services.
func RequireAnyCapability(caps ...auth.Capability) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := auth.GetUserClaims(r.Context())
			if claims == nil {
				common.RespondError(w, time.Now(), nil, constants.MsgUnauthorized, http.StatusUnauthorized)
				return
			}

			for _, c := range caps {
				if auth.Can(claims.Role(), c) {
					next.ServeHTTP(w, r)
					return
				}
			}
			common.RespondError(w, time.Now(), nil, "Forbidden. Role "+claims.Role().String()+" lacks permission", http.StatusForbidden)
		})
	}
}

package middleware

import (
	"net/http"
	"strings"
	"time"

	"maverick/dispatch/internal/auth"
	"maverick/dispatch/internal/common"
	"maverick/dispatch/internal/constants"
	"maverick/dispatch/internal/logging"
)

// AuthMiddleware accepts "Authorization: Bearer <jwt>" and stores the claims on the request context
func AuthMiddleware(tokens *auth.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			initTime := time.Now()

			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				common.RespondError(w, initTime, nil, constants.MsgUnauthorized, http.StatusUnauthorized)
				return
			}

			claims, err := tokens.Parse(strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer ")))
			if err != nil {
				logging.Debug("Rejected bearer token",
					"request_id", auth.GetRequestID(r.Context()),
					"error", err.Error(),
				)
				common.RespondError(w, initTime, nil, constants.MsgUnauthorized, http.StatusUnauthorized)
				return
			}

			ctx := auth.SetUserClaims(r.Context(), claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

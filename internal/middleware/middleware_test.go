package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"
	"maverick/dispatch/internal/auth"
	"maverick/dispatch/internal/constants"
	"maverick/dispatch/internal/logging"
)

func init() {
	logging.SetLogger(zap.NewNop().Sugar())
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}

func withClaims(req *http.Request, role constants.Role, userID string) *http.Request {
	claims := &auth.JWTClaims{UserUUID: userID, TenantUUID: "tenant-a", RoleValue: role}
	return req.WithContext(auth.SetUserClaims(req.Context(), claims))
}

func TestAuthMiddleware(t *testing.T) {
	tokens := auth.NewTokenService([]byte("middleware-secret"))
	valid, err := tokens.Issue("user-1", "tenant-a", constants.RoleInstructor, "", time.Hour)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	var seen auth.UserClaims
	handler := AuthMiddleware(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = auth.GetUserClaims(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name       string
		header     string
		expectCode int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"bad token", "Bearer nope", http.StatusUnauthorized},
		{"valid token", "Bearer " + valid, http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = nil
			req := httptest.NewRequest(http.MethodGet, "/api/v1/sorties", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if rr.Code != tt.expectCode {
				t.Fatalf("Expected %d, got %d", tt.expectCode, rr.Code)
			}
			if tt.expectCode == http.StatusNoContent {
				if seen == nil || seen.UserID() != "user-1" || seen.Role() != constants.RoleInstructor {
					t.Errorf("Expected claims for user-1, got %+v", seen)
				}
			} else if seen != nil {
				t.Error("Handler should not run on rejection")
			}
		})
	}
}

func TestRequireAnyCapability(t *testing.T) {
	handler := RequireAnyCapability(auth.CapTransitionAnySortie, auth.CapTransitionAssignedSortie)(okHandler())

	tests := []struct {
		name       string
		role       constants.Role
		anonymous  bool
		expectCode int
	}{
		{"ops manager", constants.RoleOperationsManager, false, http.StatusNoContent},
		{"instructor", constants.RoleInstructor, false, http.StatusNoContent},
		{"student", constants.RoleStudent, false, http.StatusForbidden},
		{"support", constants.RoleSupport, false, http.StatusForbidden},
		{"no claims", "", true, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/sorties/x/transition", nil)
			if !tt.anonymous {
				req = withClaims(req, tt.role, "user-1")
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if rr.Code != tt.expectCode {
				t.Errorf("Expected %d, got %d", tt.expectCode, rr.Code)
			}
		})
	}
}

func TestRateLimiter_PerCaller(t *testing.T) {
	limiter := NewRateLimiter(0.001, 2)
	handler := limiter.Middleware(okHandler())

	send := func(userID string) int {
		req := withClaims(httptest.NewRequest(http.MethodPost, "/api/v1/environment/snapshots", nil), constants.RoleTenantAdmin, userID)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr.Code
	}

	for i := 0; i < 2; i++ {
		if code := send("user-1"); code != http.StatusNoContent {
			t.Fatalf("Request %d within burst: expected 204, got %d", i, code)
		}
	}
	if code := send("user-1"); code != http.StatusTooManyRequests {
		t.Errorf("Expected 429 after burst, got %d", code)
	}
	if code := send("user-2"); code != http.StatusNoContent {
		t.Errorf("Other callers keep their own bucket, got %d", code)
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	var inner string
	handler := RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		inner = auth.GetRequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/healthCheck", nil)
	req.Header.Set("X-Request-ID", "req-123")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if inner != "req-123" || rr.Header().Get("X-Request-ID") != "req-123" {
		t.Errorf("Expected incoming request id to be kept, got ctx=%q header=%q", inner, rr.Header().Get("X-Request-ID"))
	}

	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthCheck", nil))
	if rr.Header().Get("X-Request-ID") == "" {
		t.Error("Expected a generated request id")
	}
}

func TestNormalizeEndpoint(t *testing.T) {
	tests := map[string]string{
		"/api/v1/sorties/7f1c2a9e-3b1d-4c2f-9a7e-1d2c3b4a5f6e/transition": "/api/v1/sorties/{id}/transition",
		"/api/v1/environment/snapshots/latest":                            "/api/v1/environment/snapshots/latest",
		"/api/v1/sorties/42":                                              "/api/v1/sorties/{id}",
	}
	for in, want := range tests {
		if got := NormalizeEndpoint(in); got != want {
			t.Errorf("NormalizeEndpoint(%q) = %q, want %q", in, got, want)
		}
	}
}

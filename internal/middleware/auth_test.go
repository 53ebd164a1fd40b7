package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/confera/conference-hub/internal/model"
	"github.com/confera/conference-hub/internal/permission"
	"github.com/confera/conference-hub/internal/utils"
	"github.com/google/uuid"
)

const testSecret = "test-secret"

func bearerToken(t *testing.T, role model.Role, email string) string {
	t.Helper()
	pair, err := utils.GenerateTokenPair(model.JWTClaims{
		UserID: uuid.New().String(),
		Email:  email,
		Name:   "Test User",
		Role:   string(role),
	}, testSecret, 1, 24)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return "Bearer " + pair.AccessToken
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticate(t *testing.T) {
	mw := Authenticate(testSecret)

	t.Run("MissingHeaderRejected", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/v1/events", nil)
		rr := httptest.NewRecorder()
		mw(okHandler()).ServeHTTP(rr, req)
		if rr.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", rr.Code)
		}
	})

	t.Run("MalformedHeaderRejected", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/v1/events", nil)
		req.Header.Set("Authorization", "Token abc")
		rr := httptest.NewRecorder()
		mw(okHandler()).ServeHTTP(rr, req)
		if rr.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", rr.Code)
		}
	})

	t.Run("BadSignatureRejected", func(t *testing.T) {
		other := Authenticate("another-secret")
		req := httptest.NewRequest("GET", "/api/v1/events", nil)
		req.Header.Set("Authorization", bearerToken(t, model.RoleAttendee, "a@example.com"))
		rr := httptest.NewRecorder()
		other(okHandler()).ServeHTTP(rr, req)
		if rr.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", rr.Code)
		}
	})

	t.Run("ValidTokenPopulatesContext", func(t *testing.T) {
		var gotEmail string
		var gotRole model.Role
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotEmail = GetEmailFromContext(r.Context())
			gotRole = GetRoleFromContext(r.Context())
			w.WriteHeader(http.StatusOK)
		})

		req := httptest.NewRequest("GET", "/api/v1/events", nil)
		req.Header.Set("Authorization", bearerToken(t, model.RoleEventManager, "manager@example.com"))
		rr := httptest.NewRecorder()
		mw(next).ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rr.Code)
		}
		if gotEmail != "manager@example.com" {
			t.Errorf("expected email in context, got %q", gotEmail)
		}
		if gotRole != model.RoleEventManager {
			t.Errorf("expected role in context, got %q", gotRole)
		}
	})
}

func TestAuthenticateOptional(t *testing.T) {
	mw := AuthenticateOptional(testSecret)

	t.Run("AnonymousPassesWithoutClaims", func(t *testing.T) {
		var gotRole model.Role
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotRole = GetRoleFromContext(r.Context())
			w.WriteHeader(http.StatusOK)
		})

		req := httptest.NewRequest("GET", "/api/v1/events", nil)
		rr := httptest.NewRecorder()
		mw(next).ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rr.Code)
		}
		if gotRole != "" {
			t.Errorf("expected empty role for anonymous caller, got %q", gotRole)
		}
	})

	t.Run("InvalidTokenTreatedAsAnonymous", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/v1/events", nil)
		req.Header.Set("Authorization", "Bearer not-a-token")
		rr := httptest.NewRecorder()
		mw(okHandler()).ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", rr.Code)
		}
	})

	t.Run("ValidTokenPopulatesContext", func(t *testing.T) {
		var gotRole model.Role
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotRole = GetRoleFromContext(r.Context())
			w.WriteHeader(http.StatusOK)
		})

		req := httptest.NewRequest("GET", "/api/v1/events", nil)
		req.Header.Set("Authorization", bearerToken(t, model.RoleEventManager, "manager@example.com"))
		rr := httptest.NewRecorder()
		mw(next).ServeHTTP(rr, req)

		if gotRole != model.RoleEventManager {
			t.Errorf("expected role in context, got %q", gotRole)
		}
	})
}

func withRole(req *http.Request, role model.Role) *http.Request {
	ctx := context.WithValue(req.Context(), ContextKeyRole, string(role))
	return req.WithContext(ctx)
}

func TestRequirePermission(t *testing.T) {
	mw := RequirePermission(permission.CertificatesRevoke)

	t.Run("HolderPasses", func(t *testing.T) {
		req := withRole(httptest.NewRequest("POST", "/api/v1/certificates/x/revoke", nil), model.RoleCertificateManager)
		rr := httptest.NewRecorder()
		mw(okHandler()).ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", rr.Code)
		}
	})

	t.Run("NonHolderForbidden", func(t *testing.T) {
		req := withRole(httptest.NewRequest("POST", "/api/v1/certificates/x/revoke", nil), model.RoleEventManager)
		rr := httptest.NewRecorder()
		mw(okHandler()).ServeHTTP(rr, req)
		if rr.Code != http.StatusForbidden {
			t.Errorf("expected 403, got %d", rr.Code)
		}
	})

	t.Run("NoRoleUnauthorized", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/v1/certificates/x/revoke", nil)
		rr := httptest.NewRecorder()
		mw(okHandler()).ServeHTTP(rr, req)
		if rr.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", rr.Code)
		}
	})
}

func TestPathGate(t *testing.T) {
	mw := PathGate()

	cases := []struct {
		name string
		path string
		role model.Role
		want int
	}{
		{"UsersSubtreeNeedsSuperAdmin", "/api/v1/users", model.RoleEventManager, http.StatusForbidden},
		{"UsersRecordNeedsSuperAdmin", "/api/v1/users/123", model.RoleCertificateManager, http.StatusForbidden},
		{"SuperAdminPassesGate", "/api/v1/users/123", model.RoleSuperAdmin, http.StatusOK},
		{"OwnProfileExemptForAnyRole", "/api/v1/users/me", model.RoleAttendee, http.StatusOK},
		{"DashboardUsersGated", "/dashboard/users", model.RoleAttendee, http.StatusForbidden},
		{"UnrelatedPathUnaffected", "/api/v1/events", model.RoleAttendee, http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := withRole(httptest.NewRequest("GET", tc.path, nil), tc.role)
			rr := httptest.NewRecorder()
			mw(okHandler()).ServeHTTP(rr, req)
			if rr.Code != tc.want {
				t.Errorf("%s as %s: expected %d, got %d", tc.path, tc.role, tc.want, rr.Code)
			}
		})
	}

	t.Run("GatedPathWithoutRoleUnauthorized", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/v1/users", nil)
		rr := httptest.NewRecorder()
		mw(okHandler()).ServeHTTP(rr, req)
		if rr.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", rr.Code)
		}
	})
}

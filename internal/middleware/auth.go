package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/confera/conference-hub/internal/model"
	"github.com/confera/conference-hub/internal/permission"
	"github.com/confera/conference-hub/internal/response"
	"github.com/confera/conference-hub/internal/utils"
)

type contextKey string

const (
	ContextKeyUserID contextKey = "user_id"
	ContextKeyEmail  contextKey = "email"
	ContextKeyRole   contextKey = "role"
	ContextKeyName   contextKey = "name"
)

// Authenticate validates the JWT from the Authorization header and puts
// the claims into the request context.
func Authenticate(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				response.Unauthorized(w, "Missing authentication token")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				response.Unauthorized(w, "Invalid token format, use: Bearer <token>")
				return
			}

			tokenString := parts[1]
			claims, err := utils.ValidateToken(tokenString, jwtSecret)
			if err != nil {
				response.Unauthorized(w, "Token is invalid or expired")
				return
			}

			ctx := r.Context()
			ctx = context.WithValue(ctx, ContextKeyUserID, claims.UserID)
			ctx = context.WithValue(ctx, ContextKeyEmail, claims.Email)
			ctx = context.WithValue(ctx, ContextKeyRole, claims.Role)
			ctx = context.WithValue(ctx, ContextKeyName, claims.Name)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AuthenticateOptional populates claims when a valid Bearer token is
// present but lets anonymous requests through. Used on catalog routes
// that serve both the public and staff.
func AuthenticateOptional(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := utils.ValidateToken(parts[1], jwtSecret)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			ctx = context.WithValue(ctx, ContextKeyUserID, claims.UserID)
			ctx = context.WithValue(ctx, ContextKeyEmail, claims.Email)
			ctx = context.WithValue(ctx, ContextKeyRole, claims.Role)
			ctx = context.WithValue(ctx, ContextKeyName, claims.Name)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequirePermission enforces one fine-grained permission from the
// static table. Must run after Authenticate.
func RequirePermission(perm permission.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := r.Context().Value(ContextKeyRole).(string)
			if !ok || role == "" {
				response.Unauthorized(w, "No role found in token")
				return
			}

			if !permission.HasPermission(model.Role(role), perm) {
				response.Forbidden(w, "You do not have access to this resource")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// pathGateRules maps URL path prefixes to the minimum role required to
// enter them. Checked before any per-route permission.
var pathGateRules = map[string]model.Role{
	"/dashboard/users": model.RoleSuperAdmin,
	"/api/v1/users":    model.RoleSuperAdmin,
}

// pathGateExceptions are sub-paths allowed through the gate even though
// their prefix would otherwise demand an elevated role (own-profile
// resources).
var pathGateExceptions = []string{
	"/api/v1/users/me",
}

// PathGate is the coarse routing-level stage of the dual gate. It only
// ever denies; granting is left to the fine-grained per-route checks.
func PathGate() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			required, matched := matchPathGate(r.URL.Path)
			if !matched {
				next.ServeHTTP(w, r)
				return
			}

			role, ok := r.Context().Value(ContextKeyRole).(string)
			if !ok || role == "" {
				response.Unauthorized(w, "Missing authentication token")
				return
			}

			if model.Role(role) != required {
				response.Forbidden(w, "This area requires an elevated role")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func matchPathGate(path string) (model.Role, bool) {
	for _, exc := range pathGateExceptions {
		if path == exc || strings.HasPrefix(path, exc+"/") {
			return "", false
		}
	}
	for prefix, role := range pathGateRules {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return role, true
		}
	}
	return "", false
}

// GetUserIDFromContext helper to read the user ID from context
func GetUserIDFromContext(ctx context.Context) string {
	val, _ := ctx.Value(ContextKeyUserID).(string)
	return val
}

func GetEmailFromContext(ctx context.Context) string {
	val, _ := ctx.Value(ContextKeyEmail).(string)
	return val
}

func GetRoleFromContext(ctx context.Context) model.Role {
	val, _ := ctx.Value(ContextKeyRole).(string)
	return model.Role(val)
}

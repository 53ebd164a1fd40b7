package middleware

import (
	"context"
	"net/http"

	"github.com/confera/conference-hub/internal/model"
	"github.com/confera/conference-hub/internal/response"
)

const ContextKeyTenant contextKey = "tenant"

// TenantResolver looks up a tenant by slug for each request. The repo
// package implements it; defined here to avoid an import cycle.
type TenantResolver interface {
	FindBySlug(ctx context.Context, slug string) (*model.Tenant, error)
}

// ResolveTenant reads the tenant slug from the configured header
// (falling back to the default slug) and stores the tenant in context.
// Inactive or unknown tenants are rejected before any handler runs.
func ResolveTenant(resolver TenantResolver, header, defaultSlug string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			slug := r.Header.Get(header)
			if slug == "" {
				slug = defaultSlug
			}

			tenant, err := resolver.FindBySlug(r.Context(), slug)
			if err != nil {
				response.InternalError(w, "Failed to resolve tenant")
				return
			}
			if tenant == nil || !tenant.IsActive {
				response.NotFound(w, "Unknown tenant")
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyTenant, tenant)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetTenantFromContext(ctx context.Context) *model.Tenant {
	t, _ := ctx.Value(ContextKeyTenant).(*model.Tenant)
	return t
}

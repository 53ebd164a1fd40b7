package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/confera/conference-hub/internal/model"
	"github.com/jmoiron/sqlx"
)

type TenantRepository interface {
	FindBySlug(ctx context.Context, slug string) (*model.Tenant, error)
}

type tenantRepository struct {
	db *sqlx.DB
}

func NewTenantRepository(db *sqlx.DB) TenantRepository {
	return &tenantRepository{db: db}
}

func (r *tenantRepository) FindBySlug(ctx context.Context, slug string) (*model.Tenant, error) {
	var tenant model.Tenant
	query := `
		SELECT id, slug, name, branding, settings, is_active, created_at
		FROM tenants
		WHERE slug = $1
		LIMIT 1
	`
	err := r.db.GetContext(ctx, &tenant, query, slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &tenant, nil
}

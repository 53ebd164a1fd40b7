package database

import (
	"context"
	"log"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
)

type Seeder struct {
	db *sqlx.DB
}

func NewSeeder(db *sqlx.DB) *Seeder {
	return &Seeder{db: db}
}

// SeedDefaults creates the default tenant and a super admin account on
// first boot. No-ops when either already exists.
func (s *Seeder) SeedDefaults(ctx context.Context, defaultSlug string) error {
	tenantID, err := s.seedTenant(ctx, defaultSlug)
	if err != nil {
		return err
	}
	return s.seedSuperAdmin(ctx, tenantID)
}

func (s *Seeder) seedTenant(ctx context.Context, slug string) (uuid.UUID, error) {
	var id uuid.UUID
	err := s.db.QueryRowContext(ctx,
		"SELECT id FROM tenants WHERE slug = $1", slug).Scan(&id)
	if err == nil {
		return id, nil
	}

	id = uuid.New()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO tenants (id, slug, name, branding, settings, is_active, created_at)
		VALUES ($1, $2, $3, '{}', '{}', TRUE, NOW())
	`, id, slug, "Default Organization")
	if err != nil {
		return uuid.Nil, err
	}

	log.Printf("Default tenant created: %s", slug)
	return id, nil
}

func (s *Seeder) seedSuperAdmin(ctx context.Context, tenantID uuid.UUID) error {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM users WHERE role = 'super_admin'").Scan(&count)
	if err != nil {
		return err
	}

	if count > 0 {
		log.Println("Super admin already exists, skipping seed")
		return nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("Admin@123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO users (id, tenant_id, name, email, password, role, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
	`,
		uuid.New(),
		tenantID,
		"Administrator",
		"admin@confhub.local",
		string(hashedPassword),
		"super_admin",
		true,
	)

	if err != nil {
		return err
	}

	log.Println("Default super admin created:")
	log.Println("   Email   : admin@confhub.local")
	log.Println("   Password: Admin@123")
	log.Println("   Change this password after the first login!")

	return nil
}

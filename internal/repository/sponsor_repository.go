package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/confera/conference-hub/internal/model"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type SponsorRepository interface {
	FindAll(ctx context.Context, filter model.SponsorFilter) ([]*model.Sponsor, int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Sponsor, error)
	Create(ctx context.Context, sponsor *model.Sponsor) error
	Update(ctx context.Context, sponsor *model.Sponsor) error
	Delete(ctx context.Context, id uuid.UUID) error
	UpdateLogo(ctx context.Context, id uuid.UUID, logoURL string) error
}

type sponsorRepository struct {
	db *sqlx.DB
}

func NewSponsorRepository(db *sqlx.DB) SponsorRepository {
	return &sponsorRepository{db: db}
}

func (r *sponsorRepository) FindAll(ctx context.Context, filter model.SponsorFilter) ([]*model.Sponsor, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PerPage <= 0 {
		filter.PerPage = 10
	}

	conditions := []string{"1=1"}
	args := []interface{}{}
	argIdx := 1

	if filter.EventID != "" {
		conditions = append(conditions, fmt.Sprintf("event_id = $%d", argIdx))
		args = append(args, filter.EventID)
		argIdx++
	}
	if filter.Tier != "" {
		conditions = append(conditions, fmt.Sprintf("tier = $%d", argIdx))
		args = append(args, filter.Tier)
		argIdx++
	}

	where := strings.Join(conditions, " AND ")

	var total int64
	if err := r.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT COUNT(*) FROM sponsors WHERE %s", where), args...,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.PerPage
	query := fmt.Sprintf(`
		SELECT * FROM sponsors
		WHERE %s
		ORDER BY name
		LIMIT $%d OFFSET $%d
	`, where, argIdx, argIdx+1)

	args = append(args, filter.PerPage, offset)

	var sponsors []*model.Sponsor
	if err := r.db.SelectContext(ctx, &sponsors, query, args...); err != nil {
		return nil, 0, err
	}

	return sponsors, total, nil
}

func (r *sponsorRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Sponsor, error) {
	var sponsor model.Sponsor
	err := r.db.GetContext(ctx, &sponsor, "SELECT * FROM sponsors WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &sponsor, nil
}

func (r *sponsorRepository) Create(ctx context.Context, sponsor *model.Sponsor) error {
	query := `
		INSERT INTO sponsors (id, event_id, name, tier, website, created_at, updated_at)
		VALUES (:id, :event_id, :name, :tier, :website, NOW(), NOW())
	`
	_, err := r.db.NamedExecContext(ctx, query, sponsor)
	return err
}

func (r *sponsorRepository) Update(ctx context.Context, sponsor *model.Sponsor) error {
	query := `
		UPDATE sponsors
		SET name = :name, tier = :tier, website = :website, updated_at = NOW()
		WHERE id = :id
	`
	_, err := r.db.NamedExecContext(ctx, query, sponsor)
	return err
}

func (r *sponsorRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM sponsors WHERE id = $1", id)
	return err
}

func (r *sponsorRepository) UpdateLogo(ctx context.Context, id uuid.UUID, logoURL string) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE sponsors SET logo_url = $1, updated_at = NOW() WHERE id = $2", logoURL, id)
	return err
}

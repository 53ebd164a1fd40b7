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

type SpeakerRepository interface {
	FindAll(ctx context.Context, filter model.SpeakerFilter) ([]*model.Speaker, int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Speaker, error)
	Create(ctx context.Context, speaker *model.Speaker) error
	Update(ctx context.Context, speaker *model.Speaker) error
	Delete(ctx context.Context, id uuid.UUID) error
	UpdatePhoto(ctx context.Context, id uuid.UUID, photoURL string) error
}

type speakerRepository struct {
	db *sqlx.DB
}

func NewSpeakerRepository(db *sqlx.DB) SpeakerRepository {
	return &speakerRepository{db: db}
}

func (r *speakerRepository) FindAll(ctx context.Context, filter model.SpeakerFilter) ([]*model.Speaker, int64, error) {
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
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("full_name ILIKE $%d", argIdx))
		args = append(args, "%"+filter.Search+"%")
		argIdx++
	}

	where := strings.Join(conditions, " AND ")

	var total int64
	if err := r.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT COUNT(*) FROM speakers WHERE %s", where), args...,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.PerPage
	query := fmt.Sprintf(`
		SELECT * FROM speakers
		WHERE %s
		ORDER BY full_name
		LIMIT $%d OFFSET $%d
	`, where, argIdx, argIdx+1)

	args = append(args, filter.PerPage, offset)

	var speakers []*model.Speaker
	if err := r.db.SelectContext(ctx, &speakers, query, args...); err != nil {
		return nil, 0, err
	}

	return speakers, total, nil
}

func (r *speakerRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Speaker, error) {
	var speaker model.Speaker
	err := r.db.GetContext(ctx, &speaker, "SELECT * FROM speakers WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &speaker, nil
}

func (r *speakerRepository) Create(ctx context.Context, speaker *model.Speaker) error {
	query := `
		INSERT INTO speakers (id, event_id, full_name, title, bio, email, created_at, updated_at)
		VALUES (:id, :event_id, :full_name, :title, :bio, :email, NOW(), NOW())
	`
	_, err := r.db.NamedExecContext(ctx, query, speaker)
	return err
}

func (r *speakerRepository) Update(ctx context.Context, speaker *model.Speaker) error {
	query := `
		UPDATE speakers
		SET full_name = :full_name, title = :title, bio = :bio, email = :email, updated_at = NOW()
		WHERE id = :id
	`
	_, err := r.db.NamedExecContext(ctx, query, speaker)
	return err
}

func (r *speakerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM speakers WHERE id = $1", id)
	return err
}

func (r *speakerRepository) UpdatePhoto(ctx context.Context, id uuid.UUID, photoURL string) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE speakers SET photo_url = $1, updated_at = NOW() WHERE id = $2", photoURL, id)
	return err
}

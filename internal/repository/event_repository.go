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

type EventRepository interface {
	FindAll(ctx context.Context, tenantID uuid.UUID, filter model.EventFilter) ([]*model.Event, int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Event, error)
	FindByIDWithPricing(ctx context.Context, id uuid.UUID) (*model.EventWithPricing, error)
	Create(ctx context.Context, event *model.Event, tiers []model.PricingTier) error
	Update(ctx context.Context, event *model.Event, tiers []model.PricingTier) error
	Delete(ctx context.Context, id uuid.UUID) error
	UpdateBanner(ctx context.Context, id uuid.UUID, bannerURL string) error
}

type eventRepository struct {
	db *sqlx.DB
}

func NewEventRepository(db *sqlx.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter model.EventFilter) ([]*model.Event, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PerPage <= 0 {
		filter.PerPage = 10
	}

	conditions := []string{"e.tenant_id = $1"}
	args := []interface{}{tenantID}
	argIdx := 2

	if filter.Published != nil {
		conditions = append(conditions, fmt.Sprintf("e.is_published = $%d", argIdx))
		args = append(args, *filter.Published)
		argIdx++
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("e.title ILIKE $%d", argIdx))
		args = append(args, "%"+filter.Search+"%")
		argIdx++
	}

	where := strings.Join(conditions, " AND ")

	var total int64
	if err := r.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT COUNT(*) FROM events e WHERE %s", where), args...,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.PerPage
	query := fmt.Sprintf(`
		SELECT e.*,
		       (SELECT COUNT(*) FROM registrations r
		        WHERE r.event_id = e.id AND r.status <> 'cancelled') AS registration_count
		FROM events e
		WHERE %s
		ORDER BY e.created_at DESC
		LIMIT $%d OFFSET $%d
	`, where, argIdx, argIdx+1)

	args = append(args, filter.PerPage, offset)

	var events []*model.Event
	if err := r.db.SelectContext(ctx, &events, query, args...); err != nil {
		return nil, 0, err
	}

	return events, total, nil
}

func (r *eventRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Event, error) {
	var event model.Event
	query := `
		SELECT e.*,
		       (SELECT COUNT(*) FROM registrations r
		        WHERE r.event_id = e.id AND r.status <> 'cancelled') AS registration_count
		FROM events e
		WHERE e.id = $1
	`
	err := r.db.GetContext(ctx, &event, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &event, nil
}

func (r *eventRepository) FindByIDWithPricing(ctx context.Context, id uuid.UUID) (*model.EventWithPricing, error) {
	event, err := r.FindByID(ctx, id)
	if err != nil || event == nil {
		return nil, err
	}

	var tiers []model.PricingTier
	if err := r.db.SelectContext(ctx, &tiers,
		"SELECT * FROM event_pricing_tiers WHERE event_id = $1 ORDER BY position", id); err != nil {
		return nil, err
	}

	return &model.EventWithPricing{
		Event:        *event,
		PricingTiers: tiers,
	}, nil
}

// Create inserts the event row and its pricing tiers in one
// transaction; a failed tier insert rolls the event back too.
func (r *eventRepository) Create(ctx context.Context, event *model.Event, tiers []model.PricingTier) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO events (id, tenant_id, title, description, venue, start_date, end_date,
		                    capacity, currency, base_price, early_bird_price, early_bird_deadline,
		                    is_registration_open, registration_deadline, is_published, cme_credits,
		                    created_by, created_at, updated_at)
		VALUES (:id, :tenant_id, :title, :description, :venue, :start_date, :end_date,
		        :capacity, :currency, :base_price, :early_bird_price, :early_bird_deadline,
		        :is_registration_open, :registration_deadline, :is_published, :cme_credits,
		        :created_by, NOW(), NOW())
	`
	if _, err := tx.NamedExecContext(ctx, query, event); err != nil {
		return translateError(err)
	}

	if err := insertPricingTiers(ctx, tx, tiers); err != nil {
		return err
	}

	return tx.Commit()
}

// Update rewrites the event row and replaces its pricing tiers
// wholesale inside one transaction.
func (r *eventRepository) Update(ctx context.Context, event *model.Event, tiers []model.PricingTier) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		UPDATE events
		SET title = :title, description = :description, venue = :venue,
		    start_date = :start_date, end_date = :end_date, capacity = :capacity,
		    currency = :currency, base_price = :base_price,
		    early_bird_price = :early_bird_price, early_bird_deadline = :early_bird_deadline,
		    is_registration_open = :is_registration_open,
		    registration_deadline = :registration_deadline,
		    is_published = :is_published, cme_credits = :cme_credits, updated_at = NOW()
		WHERE id = :id
	`
	if _, err := tx.NamedExecContext(ctx, query, event); err != nil {
		return translateError(err)
	}

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM event_pricing_tiers WHERE event_id = $1", event.ID); err != nil {
		return err
	}

	if err := insertPricingTiers(ctx, tx, tiers); err != nil {
		return err
	}

	return tx.Commit()
}

// Delete removes an event and everything hanging off it: certificates
// are unlinked from registrations first, then the dependent rows and
// the event itself go in the same transaction.
func (r *eventRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	steps := []string{
		"UPDATE registrations SET certificate_id = NULL WHERE event_id = $1",
		"DELETE FROM certificates WHERE event_id = $1",
		"DELETE FROM registrations WHERE event_id = $1",
		"DELETE FROM event_pricing_tiers WHERE event_id = $1",
		"DELETE FROM speakers WHERE event_id = $1",
		"DELETE FROM sponsors WHERE event_id = $1",
		"DELETE FROM events WHERE id = $1",
	}
	for _, q := range steps {
		if _, err := tx.ExecContext(ctx, q, id); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *eventRepository) UpdateBanner(ctx context.Context, id uuid.UUID, bannerURL string) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE events SET banner_url = $1, updated_at = NOW() WHERE id = $2", bannerURL, id)
	return err
}

func insertPricingTiers(ctx context.Context, tx *sqlx.Tx, tiers []model.PricingTier) error {
	for _, tier := range tiers {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO event_pricing_tiers (id, event_id, name, price, position) VALUES ($1, $2, $3, $4, $5)",
			tier.ID, tier.EventID, tier.Name, tier.Price, tier.Position,
		); err != nil {
			return err
		}
	}
	return nil
}

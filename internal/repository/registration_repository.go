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

type RegistrationRepository interface {
	FindAll(ctx context.Context, filter model.RegistrationFilter) ([]*model.Registration, int64, error)
	FindForExport(ctx context.Context, filter model.RegistrationFilter) ([]*model.Registration, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Registration, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.Registration, error)
	FindByEventAndEmail(ctx context.Context, eventID uuid.UUID, email string) (*model.Registration, error)
	CountActiveByEvent(ctx context.Context, eventID uuid.UUID) (int, error)
	Create(ctx context.Context, reg *model.Registration) error
	Update(ctx context.Context, reg *model.Registration) error
	Delete(ctx context.Context, id uuid.UUID) error

	BulkConfirm(ctx context.Context, ids []uuid.UUID) (int64, error)
	BulkCancel(ctx context.Context, ids []uuid.UUID) (int64, error)
	BulkMarkAttended(ctx context.Context, ids []uuid.UUID) (int64, error)
	BulkMarkPaid(ctx context.Context, ids []uuid.UUID) (int64, error)
}

type registrationRepository struct {
	db *sqlx.DB
}

func NewRegistrationRepository(db *sqlx.DB) RegistrationRepository {
	return &registrationRepository{db: db}
}

func (r *registrationRepository) FindAll(ctx context.Context, filter model.RegistrationFilter) ([]*model.Registration, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PerPage <= 0 {
		filter.PerPage = 10
	}

	where, args, argIdx := registrationFilterWhere(filter)

	var total int64
	if err := r.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT COUNT(*) FROM registrations r WHERE %s", where), args...,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.PerPage
	query := fmt.Sprintf(`
		SELECT r.*, e.title AS event_title
		FROM registrations r
		LEFT JOIN events e ON r.event_id = e.id
		WHERE %s
		ORDER BY r.created_at DESC
		LIMIT $%d OFFSET $%d
	`, where, argIdx, argIdx+1)

	args = append(args, filter.PerPage, offset)

	var regs []*model.Registration
	if err := r.db.SelectContext(ctx, &regs, query, args...); err != nil {
		return nil, 0, err
	}

	return regs, total, nil
}

func registrationFilterWhere(filter model.RegistrationFilter) (string, []interface{}, int) {
	conditions := []string{"1=1"}
	args := []interface{}{}
	argIdx := 1

	if filter.EventID != "" {
		conditions = append(conditions, fmt.Sprintf("r.event_id = $%d", argIdx))
		args = append(args, filter.EventID)
		argIdx++
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("r.status = $%d", argIdx))
		args = append(args, filter.Status)
		argIdx++
	}
	if filter.PaymentStatus != "" {
		conditions = append(conditions, fmt.Sprintf("r.payment_status = $%d", argIdx))
		args = append(args, filter.PaymentStatus)
		argIdx++
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(r.full_name ILIKE $%d OR r.email ILIKE $%d)", argIdx, argIdx))
		args = append(args, "%"+filter.Search+"%")
		argIdx++
	}

	return strings.Join(conditions, " AND "), args, argIdx
}

// FindForExport returns every matching row, unpaginated.
func (r *registrationRepository) FindForExport(ctx context.Context, filter model.RegistrationFilter) ([]*model.Registration, error) {
	where, args, _ := registrationFilterWhere(filter)

	query := fmt.Sprintf(`
		SELECT r.*, e.title AS event_title
		FROM registrations r
		LEFT JOIN events e ON r.event_id = e.id
		WHERE %s
		ORDER BY r.created_at DESC
	`, where)

	var regs []*model.Registration
	if err := r.db.SelectContext(ctx, &regs, query, args...); err != nil {
		return nil, err
	}
	return regs, nil
}

func (r *registrationRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Registration, error) {
	var reg model.Registration
	query := `
		SELECT r.*, e.title AS event_title
		FROM registrations r
		LEFT JOIN events e ON r.event_id = e.id
		WHERE r.id = $1
	`
	err := r.db.GetContext(ctx, &reg, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &reg, nil
}

func (r *registrationRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.Registration, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In("SELECT * FROM registrations WHERE id IN (?)", ids)
	if err != nil {
		return nil, err
	}

	var regs []*model.Registration
	if err := r.db.SelectContext(ctx, &regs, r.db.Rebind(query), args...); err != nil {
		return nil, err
	}
	return regs, nil
}

func (r *registrationRepository) FindByEventAndEmail(ctx context.Context, eventID uuid.UUID, email string) (*model.Registration, error) {
	var reg model.Registration
	query := `
		SELECT * FROM registrations
		WHERE event_id = $1 AND LOWER(email) = LOWER($2)
		LIMIT 1
	`
	err := r.db.GetContext(ctx, &reg, query, eventID, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &reg, nil
}

// CountActiveByEvent counts the registrations holding a slot:
// everything except cancelled ones.
func (r *registrationRepository) CountActiveByEvent(ctx context.Context, eventID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM registrations WHERE event_id = $1 AND status <> 'cancelled'",
		eventID,
	).Scan(&count)
	return count, err
}

func (r *registrationRepository) Create(ctx context.Context, reg *model.Registration) error {
	query := `
		INSERT INTO registrations (id, event_id, email, full_name, organization, status,
		                           payment_status, amount, currency, attendance_status,
		                           user_id, registered_by, created_at, updated_at)
		VALUES (:id, :event_id, :email, :full_name, :organization, :status,
		        :payment_status, :amount, :currency, :attendance_status,
		        :user_id, :registered_by, NOW(), NOW())
	`
	_, err := r.db.NamedExecContext(ctx, query, reg)
	return translateError(err)
}

func (r *registrationRepository) Update(ctx context.Context, reg *model.Registration) error {
	query := `
		UPDATE registrations
		SET full_name = :full_name, organization = :organization, status = :status,
		    payment_status = :payment_status, attendance_status = :attendance_status,
		    checked_in_at = :checked_in_at, updated_at = NOW()
		WHERE id = :id
	`
	_, err := r.db.NamedExecContext(ctx, query, reg)
	return err
}

func (r *registrationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM registrations WHERE id = $1", id)
	return err
}

// Each bulk action is a single batched UPDATE with its fixed field-set.
// Only rows-affected is reported; per-row outcomes are not.

func (r *registrationRepository) BulkConfirm(ctx context.Context, ids []uuid.UUID) (int64, error) {
	return r.bulkExec(ctx, "UPDATE registrations SET status = 'confirmed', updated_at = NOW() WHERE id IN (?)", ids)
}

func (r *registrationRepository) BulkCancel(ctx context.Context, ids []uuid.UUID) (int64, error) {
	return r.bulkExec(ctx, "UPDATE registrations SET status = 'cancelled', updated_at = NOW() WHERE id IN (?)", ids)
}

func (r *registrationRepository) BulkMarkAttended(ctx context.Context, ids []uuid.UUID) (int64, error) {
	return r.bulkExec(ctx, `
		UPDATE registrations
		SET status = 'attended', attendance_status = 'checked_in', checked_in_at = NOW(), updated_at = NOW()
		WHERE id IN (?)`, ids)
}

func (r *registrationRepository) BulkMarkPaid(ctx context.Context, ids []uuid.UUID) (int64, error) {
	return r.bulkExec(ctx, "UPDATE registrations SET payment_status = 'paid', updated_at = NOW() WHERE id IN (?)", ids)
}

func (r *registrationRepository) bulkExec(ctx context.Context, query string, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	q, args, err := sqlx.In(query, ids)
	if err != nil {
		return 0, err
	}

	res, err := r.db.ExecContext(ctx, r.db.Rebind(q), args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

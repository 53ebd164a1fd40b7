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

type CertificateRepository interface {
	FindAll(ctx context.Context, filter model.CertificateFilter) ([]*model.Certificate, int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Certificate, error)
	FindByCode(ctx context.Context, code string) (*model.Certificate, error)
	FindByRegistrationID(ctx context.Context, registrationID uuid.UUID) (*model.Certificate, error)
	FindEligibleRegistrations(ctx context.Context, eventID uuid.UUID, registrationIDs []uuid.UUID) ([]*model.Registration, error)
	Create(ctx context.Context, cert *model.Certificate) error
	CreateBatch(ctx context.Context, certs []*model.Certificate) error
	Replace(ctx context.Context, oldID uuid.UUID, newCert *model.Certificate) error
	Revoke(ctx context.Context, id uuid.UUID, reason string) error
	IncrementDownload(ctx context.Context, id uuid.UUID) error
	UpdatePDFURL(ctx context.Context, id uuid.UUID, pdfURL string) error
}

type certificateRepository struct {
	db *sqlx.DB
}

func NewCertificateRepository(db *sqlx.DB) CertificateRepository {
	return &certificateRepository{db: db}
}

func (r *certificateRepository) FindAll(ctx context.Context, filter model.CertificateFilter) ([]*model.Certificate, int64, error) {
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
		conditions = append(conditions, fmt.Sprintf("c.event_id = $%d", argIdx))
		args = append(args, filter.EventID)
		argIdx++
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("c.status = $%d", argIdx))
		args = append(args, filter.Status)
		argIdx++
	}
	if filter.Email != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(c.recipient_email) = LOWER($%d)", argIdx))
		args = append(args, filter.Email)
		argIdx++
	}

	where := strings.Join(conditions, " AND ")

	var total int64
	if err := r.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT COUNT(*) FROM certificates c WHERE %s", where), args...,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.PerPage
	query := fmt.Sprintf(`
		SELECT c.* FROM certificates c
		WHERE %s
		ORDER BY c.issued_at DESC
		LIMIT $%d OFFSET $%d
	`, where, argIdx, argIdx+1)

	args = append(args, filter.PerPage, offset)

	var certs []*model.Certificate
	if err := r.db.SelectContext(ctx, &certs, query, args...); err != nil {
		return nil, 0, err
	}

	return certs, total, nil
}

func (r *certificateRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Certificate, error) {
	var cert model.Certificate
	err := r.db.GetContext(ctx, &cert, "SELECT * FROM certificates WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &cert, nil
}

func (r *certificateRepository) FindByCode(ctx context.Context, code string) (*model.Certificate, error) {
	var cert model.Certificate
	err := r.db.GetContext(ctx, &cert, "SELECT * FROM certificates WHERE code = $1", code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &cert, nil
}

func (r *certificateRepository) FindByRegistrationID(ctx context.Context, registrationID uuid.UUID) (*model.Certificate, error) {
	var cert model.Certificate
	err := r.db.GetContext(ctx, &cert,
		"SELECT * FROM certificates WHERE registration_id = $1", registrationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &cert, nil
}

// FindEligibleRegistrations narrows a candidate ID list to the ones a
// bulk issue may act on: same event, status attended, no certificate.
func (r *certificateRepository) FindEligibleRegistrations(ctx context.Context, eventID uuid.UUID, registrationIDs []uuid.UUID) ([]*model.Registration, error) {
	if len(registrationIDs) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(`
		SELECT r.* FROM registrations r
		WHERE r.event_id = ?
		  AND r.status = 'attended'
		  AND NOT EXISTS (SELECT 1 FROM certificates c WHERE c.registration_id = r.id)
		  AND r.id IN (?)`, eventID, registrationIDs)
	if err != nil {
		return nil, err
	}

	var regs []*model.Registration
	if err := r.db.SelectContext(ctx, &regs, r.db.Rebind(query), args...); err != nil {
		return nil, err
	}
	return regs, nil
}

// Create inserts the certificate and links it back to its registration
// in one transaction.
func (r *certificateRepository) Create(ctx context.Context, cert *model.Certificate) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := insertCertificate(ctx, tx, cert); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE registrations SET certificate_id = $1, updated_at = NOW() WHERE id = $2",
		cert.ID, cert.RegistrationID,
	); err != nil {
		return err
	}

	return tx.Commit()
}

// CreateBatch issues one certificate per registration as a single
// all-or-nothing write.
func (r *certificateRepository) CreateBatch(ctx context.Context, certs []*model.Certificate) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, cert := range certs {
		if err := insertCertificate(ctx, tx, cert); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			"UPDATE registrations SET certificate_id = $1, updated_at = NOW() WHERE id = $2",
			cert.ID, cert.RegistrationID,
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Replace deletes the old certificate and inserts its regenerated
// successor atomically, relinking the registration to the new row.
func (r *certificateRepository) Replace(ctx context.Context, oldID uuid.UUID, newCert *model.Certificate) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM certificates WHERE id = $1", oldID); err != nil {
		return err
	}

	if err := insertCertificate(ctx, tx, newCert); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE registrations SET certificate_id = $1, updated_at = NOW() WHERE id = $2",
		newCert.ID, newCert.RegistrationID,
	); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *certificateRepository) Revoke(ctx context.Context, id uuid.UUID, reason string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE certificates
		SET status = 'revoked', revoked_at = NOW(), revoked_reason = $1
		WHERE id = $2`, reason, id)
	return err
}

func (r *certificateRepository) IncrementDownload(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE certificates
		SET download_count = download_count + 1, last_downloaded_at = NOW()
		WHERE id = $1`, id)
	return err
}

func (r *certificateRepository) UpdatePDFURL(ctx context.Context, id uuid.UUID, pdfURL string) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE certificates SET pdf_url = $1 WHERE id = $2", pdfURL, id)
	return err
}

func insertCertificate(ctx context.Context, tx *sqlx.Tx, cert *model.Certificate) error {
	query := `
		INSERT INTO certificates (id, registration_id, event_id, code, title,
		                          recipient_name, recipient_email, event_title, cme_credits,
		                          status, issued_at, issued_by, download_count, created_at)
		VALUES (:id, :registration_id, :event_id, :code, :title,
		        :recipient_name, :recipient_email, :event_title, :cme_credits,
		        :status, :issued_at, :issued_by, 0, NOW())
	`
	_, err := tx.NamedExecContext(ctx, query, cert)
	return translateError(err)
}

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/confera/conference-hub/internal/model"
	"github.com/confera/conference-hub/internal/permission"
	"github.com/confera/conference-hub/internal/repository"
	"github.com/confera/conference-hub/internal/response"
	"github.com/confera/conference-hub/internal/utils"
	"github.com/google/uuid"
)

var (
	ErrCertificateNotFound  = errors.New("certificate not found")
	ErrCertificateExists    = errors.New("registration already has a certificate")
	ErrCertificateRevoked   = errors.New("certificate has been revoked")
	ErrAlreadyRevoked       = errors.New("certificate is already revoked")
	ErrRevokedReasonMissing = errors.New("Revoked reason is required")
	ErrNoEligibleTargets    = errors.New("no eligible registrations for certificate issuance")
	ErrCertificateCollision = errors.New("certificate code collision, retry the request")
	ErrCertificateNotOwned  = errors.New("you do not have access to this certificate")
)

type CertificateService interface {
	GetAll(ctx context.Context, actor Actor, filter model.CertificateFilter) ([]*model.Certificate, *response.Pagination, error)
	GetByID(ctx context.Context, actor Actor, id string) (*model.Certificate, error)
	Create(ctx context.Context, req model.CreateCertificateRequest, issuedBy string) (*model.Certificate, error)
	BulkCreate(ctx context.Context, req model.BulkCreateCertificateRequest, issuedBy string) (*model.BulkCreateResult, error)
	Revoke(ctx context.Context, id string, reason string) error
	Regenerate(ctx context.Context, id string) (*model.Certificate, error)
	Verify(ctx context.Context, code string) (*model.VerifyResponse, error)
	DownloadPDF(ctx context.Context, actor Actor, id string) ([]byte, string, error)
}

type certificateService struct {
	repo      repository.CertificateRepository
	regRepo   repository.RegistrationRepository
	eventRepo repository.EventRepository
	storage   *utils.StorageService
	appURL    string
	now       func() time.Time
}

func NewCertificateService(
	repo repository.CertificateRepository,
	regRepo repository.RegistrationRepository,
	eventRepo repository.EventRepository,
	storage *utils.StorageService,
	appURL string,
) CertificateService {
	return &certificateService{
		repo:      repo,
		regRepo:   regRepo,
		eventRepo: eventRepo,
		storage:   storage,
		appURL:    appURL,
		now:       time.Now,
	}
}

func (s *certificateService) GetAll(ctx context.Context, actor Actor, filter model.CertificateFilter) ([]*model.Certificate, *response.Pagination, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PerPage <= 0 {
		filter.PerPage = 10
	}

	// Attendees only ever see their own certificates.
	if !permission.HasPermission(actor.Role, permission.CertificatesView) {
		filter.Email = actor.Email
	}

	certs, total, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, nil, err
	}

	return certs, paginate(filter.Page, filter.PerPage, total), nil
}

// GetByID is the authenticated fetch; it records the access by bumping
// the download counter and stamping the last-downloaded time.
func (s *certificateService) GetByID(ctx context.Context, actor Actor, id string) (*model.Certificate, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrCertificateNotFound
	}

	cert, err := s.repo.FindByID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if cert == nil {
		return nil, ErrCertificateNotFound
	}

	if !permission.HasPermission(actor.Role, permission.CertificatesView) &&
		!utils.EmailsEqual(cert.RecipientEmail, actor.Email) {
		return nil, ErrCertificateNotOwned
	}

	if err := s.repo.IncrementDownload(ctx, uid); err != nil {
		return nil, err
	}
	cert.DownloadCount++
	now := s.now()
	cert.LastDownloadedAt = &now

	return cert, nil
}

// Create issues a single certificate for a registration. The only hard
// precondition here is that the registration does not already own one;
// attendance is enforced by the bulk path, not this one.
func (s *certificateService) Create(ctx context.Context, req model.CreateCertificateRequest, issuedBy string) (*model.Certificate, error) {
	regID, err := uuid.Parse(req.RegistrationID)
	if err != nil {
		return nil, ErrRegistrationNotFound
	}

	reg, err := s.regRepo.FindByID(ctx, regID)
	if err != nil {
		return nil, err
	}
	if reg == nil {
		return nil, ErrRegistrationNotFound
	}

	existing, err := s.repo.FindByRegistrationID(ctx, regID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrCertificateExists
	}

	event, err := s.eventRepo.FindByID(ctx, reg.EventID)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, ErrEventNotFound
	}

	cert, err := s.buildCertificate(reg, event, req.Title, req.CMECredits, issuedBy)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, cert); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			// Either the registration gained a certificate between the
			// check and the write, or the generated code collided.
			return nil, ErrCertificateCollision
		}
		return nil, err
	}

	// Render and upload the PDF off the request path, like other file
	// artifacts.
	go s.generateAndUploadPDF(context.Background(), cert, event)

	return cert, nil
}

// BulkCreate issues certificates for every supplied registration that
// belongs to the event, attended, and has no certificate yet. Anything
// else in the list is silently filtered out; an empty survivor set is
// an error.
func (s *certificateService) BulkCreate(ctx context.Context, req model.BulkCreateCertificateRequest, issuedBy string) (*model.BulkCreateResult, error) {
	eventID, err := uuid.Parse(req.EventID)
	if err != nil {
		return nil, ErrEventNotFound
	}

	event, err := s.eventRepo.FindByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, ErrEventNotFound
	}

	ids := make([]uuid.UUID, 0, len(req.RegistrationIDs))
	for _, idStr := range req.RegistrationIDs {
		uid, err := uuid.Parse(idStr)
		if err != nil {
			continue // malformed IDs cannot match anything
		}
		ids = append(ids, uid)
	}

	eligible, err := s.repo.FindEligibleRegistrations(ctx, eventID, ids)
	if err != nil {
		return nil, err
	}
	if len(eligible) == 0 {
		return nil, ErrNoEligibleTargets
	}

	certs := make([]*model.Certificate, 0, len(eligible))
	for _, reg := range eligible {
		cert, err := s.buildCertificate(reg, event, req.Title, nil, issuedBy)
		if err != nil {
			return nil, err
		}
		certs = append(certs, cert)
	}

	if err := s.repo.CreateBatch(ctx, certs); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrCertificateCollision
		}
		return nil, err
	}

	return &model.BulkCreateResult{Created: len(certs)}, nil
}

func (s *certificateService) buildCertificate(reg *model.Registration, event *model.Event, title string, credits *float64, issuedBy string) (*model.Certificate, error) {
	code, err := utils.GenerateCertificateCode()
	if err != nil {
		return nil, err
	}

	if title == "" {
		title = fmt.Sprintf("Certificate of Attendance - %s", event.Title)
	}

	cmeCredits := event.CMECredits
	if credits != nil {
		cmeCredits = *credits
	}

	cert := &model.Certificate{
		ID:             uuid.New(),
		RegistrationID: reg.ID,
		EventID:        event.ID,
		Code:           code,
		Title:          title,
		RecipientName:  reg.FullName,
		RecipientEmail: reg.Email,
		EventTitle:     event.Title,
		CMECredits:     cmeCredits,
		Status:         model.CertificateIssued,
		IssuedAt:       s.now(),
	}

	if issuedByUID, err := uuid.Parse(issuedBy); err == nil {
		cert.IssuedBy = &issuedByUID
	}

	return cert, nil
}

// Revoke is terminal. A non-empty reason is mandatory and the record is
// kept, stamped rather than deleted.
func (s *certificateService) Revoke(ctx context.Context, id string, reason string) error {
	if utils.SanitizeString(reason) == "" {
		return ErrRevokedReasonMissing
	}

	uid, err := uuid.Parse(id)
	if err != nil {
		return ErrCertificateNotFound
	}

	cert, err := s.repo.FindByID(ctx, uid)
	if err != nil {
		return err
	}
	if cert == nil {
		return ErrCertificateNotFound
	}
	if cert.Status == model.CertificateRevoked {
		return ErrAlreadyRevoked
	}

	return s.repo.Revoke(ctx, uid, utils.SanitizeString(reason))
}

// Regenerate replaces an issued certificate with a fresh one: new code,
// same recipient/event/credit payload, issuedAt reset to now. Delete
// and recreate happen in a single transaction.
func (s *certificateService) Regenerate(ctx context.Context, id string) (*model.Certificate, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrCertificateNotFound
	}

	old, err := s.repo.FindByID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if old == nil {
		return nil, ErrCertificateNotFound
	}
	if old.Status == model.CertificateRevoked {
		return nil, ErrCertificateRevoked
	}

	code, err := utils.GenerateCertificateCode()
	if err != nil {
		return nil, err
	}

	fresh := &model.Certificate{
		ID:             uuid.New(),
		RegistrationID: old.RegistrationID,
		EventID:        old.EventID,
		Code:           code,
		Title:          old.Title,
		RecipientName:  old.RecipientName,
		RecipientEmail: old.RecipientEmail,
		EventTitle:     old.EventTitle,
		CMECredits:     old.CMECredits,
		Status:         model.CertificateIssued,
		IssuedAt:       s.now(),
		IssuedBy:       old.IssuedBy,
	}

	if err := s.repo.Replace(ctx, uid, fresh); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrCertificateCollision
		}
		return nil, err
	}

	return fresh, nil
}

// Verify is the public, unauthenticated lookup. It is read-only and
// returns the reduced view; an unknown code is plain not-found with no
// hint of near matches.
func (s *certificateService) Verify(ctx context.Context, code string) (*model.VerifyResponse, error) {
	cert, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if cert == nil {
		return nil, ErrCertificateNotFound
	}

	return &model.VerifyResponse{
		Valid:       cert.Status == model.CertificateIssued,
		Certificate: cert.ToPublic(),
	}, nil
}

func (s *certificateService) DownloadPDF(ctx context.Context, actor Actor, id string) ([]byte, string, error) {
	cert, err := s.GetByID(ctx, actor, id)
	if err != nil {
		return nil, "", err
	}

	event, err := s.eventRepo.FindByID(ctx, cert.EventID)
	if err != nil {
		return nil, "", err
	}

	pdfBytes, err := s.buildPDF(cert, event)
	if err != nil {
		return nil, "", err
	}

	return pdfBytes, cert.Code, nil
}

func (s *certificateService) generateAndUploadPDF(ctx context.Context, cert *model.Certificate, event *model.Event) {
	if s.storage == nil {
		return
	}

	pdfBytes, err := s.buildPDF(cert, event)
	if err != nil {
		return
	}

	pdfURL, err := s.storage.UploadPDF(ctx, "certificates", pdfBytes, cert.Code)
	if err != nil {
		return
	}

	s.repo.UpdatePDFURL(ctx, cert.ID, pdfURL)
}

func (s *certificateService) buildPDF(cert *model.Certificate, event *model.Event) ([]byte, error) {
	verifyURL := fmt.Sprintf("%s/api/v1/certificates/verify/%s", s.appURL, cert.Code)
	qrPNG, _ := utils.GenerateQRCodePNG(verifyURL, 150)

	data := utils.CertificatePDFData{
		Code:          cert.Code,
		Title:         cert.Title,
		RecipientName: cert.RecipientName,
		EventTitle:    cert.EventTitle,
		CMECredits:    cert.CMECredits,
		IssuedAt:      cert.IssuedAt.Format("2 January 2006"),
		OrganizerName: "Conference Hub",
		QRCodePNG:     qrPNG,
	}
	if event != nil {
		data.EventVenue = event.Venue
		if event.StartDate != nil {
			data.EventDates = event.StartDate.Format("2 Jan 2006")
			if event.EndDate != nil && !event.EndDate.Equal(*event.StartDate) {
				data.EventDates += " - " + event.EndDate.Format("2 Jan 2006")
			}
		}
	}

	return utils.GenerateCertificatePDF(data)
}

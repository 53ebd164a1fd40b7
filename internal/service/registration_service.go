package service

import (
	"context"
	"errors"
	"time"

	"github.com/confera/conference-hub/internal/model"
	"github.com/confera/conference-hub/internal/permission"
	"github.com/confera/conference-hub/internal/repository"
	"github.com/confera/conference-hub/internal/response"
	"github.com/confera/conference-hub/internal/utils"
	"github.com/google/uuid"
)

var (
	ErrEventNotFound           = errors.New("event not found")
	ErrRegistrationNotFound    = errors.New("registration not found")
	ErrEventUnpublished        = errors.New("event is not open for registration")
	ErrRegistrationClosed      = errors.New("registration is closed for this event")
	ErrRegistrationDeadline    = errors.New("the registration deadline has passed")
	ErrDuplicateRegistration   = errors.New("a registration with this email already exists for this event")
	ErrRegistrationHasCert     = errors.New("registration has a certificate attached and cannot be deleted")
	ErrMissingRegistrations    = errors.New("one or more registration IDs do not exist")
	ErrUnknownBulkAction       = errors.New("unknown bulk action")
	ErrEmptyBulkSelection      = errors.New("no registration IDs supplied")
	ErrRegistrationNotOwned    = errors.New("you do not have access to this registration")
	ErrInvalidRegistrationData = errors.New("invalid registration data")
)

type RegistrationService interface {
	GetAll(ctx context.Context, filter model.RegistrationFilter) ([]*model.Registration, *response.Pagination, error)
	Export(ctx context.Context, filter model.RegistrationFilter) ([]*model.Registration, error)
	GetByID(ctx context.Context, actor Actor, id string) (*model.Registration, error)
	Create(ctx context.Context, req model.CreateRegistrationRequest, privileged bool, registeredBy *uuid.UUID) (*model.Registration, error)
	Update(ctx context.Context, actor Actor, id string, req model.UpdateRegistrationRequest) (*model.Registration, error)
	Delete(ctx context.Context, id string) error
	Bulk(ctx context.Context, req model.BulkRegistrationRequest) (*model.BulkResult, error)
}

type registrationService struct {
	repo      repository.RegistrationRepository
	eventRepo repository.EventRepository
	now       func() time.Time
}

func NewRegistrationService(repo repository.RegistrationRepository, eventRepo repository.EventRepository) RegistrationService {
	return &registrationService{
		repo:      repo,
		eventRepo: eventRepo,
		now:       time.Now,
	}
}

func (s *registrationService) GetAll(ctx context.Context, filter model.RegistrationFilter) ([]*model.Registration, *response.Pagination, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PerPage <= 0 {
		filter.PerPage = 10
	}

	regs, total, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, nil, err
	}

	return regs, paginate(filter.Page, filter.PerPage, total), nil
}

func (s *registrationService) Export(ctx context.Context, filter model.RegistrationFilter) ([]*model.Registration, error) {
	return s.repo.FindForExport(ctx, filter)
}

func (s *registrationService) GetByID(ctx context.Context, actor Actor, id string) (*model.Registration, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrRegistrationNotFound
	}

	reg, err := s.repo.FindByID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if reg == nil {
		return nil, ErrRegistrationNotFound
	}

	// Ownership exception: attendees only see their own registrations.
	if !permission.HasPermission(actor.Role, permission.RegistrationsView) &&
		!utils.EmailsEqual(reg.Email, actor.Email) {
		return nil, ErrRegistrationNotOwned
	}

	return reg, nil
}

// Create is the admission decision. It applies the registration-window
// checks (public submitters only), the capacity-driven waitlist
// downgrade, the duplicate guard, and the pricing rules, then persists
// with a normalized email and the event's own currency.
//
// The capacity and duplicate checks are independent reads with no
// serializing transaction around them: two near-simultaneous requests
// at the capacity boundary can both see a free slot. The unique index
// on (event_id, lower(email)) backstops duplicates; mild overbooking
// at the boundary is accepted.
func (s *registrationService) Create(ctx context.Context, req model.CreateRegistrationRequest, privileged bool, registeredBy *uuid.UUID) (*model.Registration, error) {
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

	now := s.now()

	// Staff bypass the registration window entirely.
	if !privileged {
		if !event.IsPublished {
			return nil, ErrEventUnpublished
		}
		if !event.IsRegistrationOpen {
			return nil, ErrRegistrationClosed
		}
		if event.RegistrationDeadline != nil && now.After(*event.RegistrationDeadline) {
			return nil, ErrRegistrationDeadline
		}
	}

	status := req.Status
	if status == "" {
		status = model.RegistrationConfirmed
	}

	currentCount, err := s.repo.CountActiveByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.Capacity-currentCount <= 0 {
		// Full events accept the registration anyway, silently
		// downgraded to the waitlist.
		status = model.RegistrationWaitlist
	}

	email := utils.NormalizeEmail(req.Email)

	existing, err := s.repo.FindByEventAndEmail(ctx, eventID, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateRegistration
	}

	// Early-bird pricing overrides the submitted amount up to and
	// including the deadline instant.
	amount := req.Amount
	if event.EarlyBirdPrice != nil && event.EarlyBirdDeadline != nil && !now.After(*event.EarlyBirdDeadline) {
		amount = *event.EarlyBirdPrice
	}

	paymentStatus := req.PaymentStatus
	if paymentStatus == "" {
		paymentStatus = model.PaymentPending
	}
	if amount == 0 {
		paymentStatus = model.PaymentFree
	}

	reg := &model.Registration{
		ID:               uuid.New(),
		EventID:          eventID,
		Email:            email,
		FullName:         utils.SanitizeString(req.FullName),
		Organization:     utils.SanitizeString(req.Organization),
		Status:           status,
		PaymentStatus:    paymentStatus,
		Amount:           amount,
		Currency:         event.Currency, // never the submitted currency
		AttendanceStatus: model.AttendanceRegistered,
		RegisteredBy:     registeredBy,
	}

	if err := s.repo.Create(ctx, reg); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateRegistration
		}
		return nil, err
	}

	return reg, nil
}

func (s *registrationService) Update(ctx context.Context, actor Actor, id string, req model.UpdateRegistrationRequest) (*model.Registration, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrRegistrationNotFound
	}

	reg, err := s.repo.FindByID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if reg == nil {
		return nil, ErrRegistrationNotFound
	}

	canManage := permission.HasPermission(actor.Role, permission.RegistrationsUpdate)
	if !canManage && !utils.EmailsEqual(reg.Email, actor.Email) {
		return nil, ErrRegistrationNotOwned
	}

	if req.FullName != "" {
		reg.FullName = utils.SanitizeString(req.FullName)
	}
	reg.Organization = utils.SanitizeString(req.Organization)

	// Status and payment transitions are staff-only even on an owned
	// registration.
	if req.Status != nil || req.PaymentStatus != nil {
		if !canManage {
			return nil, ErrRegistrationNotOwned
		}
		if req.Status != nil {
			reg.Status = *req.Status
			if *req.Status == model.RegistrationAttended {
				now := s.now()
				reg.AttendanceStatus = model.AttendanceCheckedIn
				reg.CheckedInAt = &now
			}
		}
		if req.PaymentStatus != nil {
			reg.PaymentStatus = *req.PaymentStatus
		}
	}

	if err := s.repo.Update(ctx, reg); err != nil {
		return nil, err
	}

	return reg, nil
}

// Delete refuses to remove a registration that still owns a
// certificate; the certificate must be revoked or regenerated away
// first.
func (s *registrationService) Delete(ctx context.Context, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return ErrRegistrationNotFound
	}

	reg, err := s.repo.FindByID(ctx, uid)
	if err != nil {
		return err
	}
	if reg == nil {
		return ErrRegistrationNotFound
	}
	if reg.CertificateID != nil {
		return ErrRegistrationHasCert
	}

	return s.repo.Delete(ctx, uid)
}

// Bulk applies one named transition to a batch of registrations. Every
// supplied ID must resolve before anything is written; a single missing
// ID rejects the whole batch. The result carries rows affected by the
// one batched update, not per-row outcomes.
func (s *registrationService) Bulk(ctx context.Context, req model.BulkRegistrationRequest) (*model.BulkResult, error) {
	if len(req.RegistrationIDs) == 0 {
		return nil, ErrEmptyBulkSelection
	}

	ids := make([]uuid.UUID, 0, len(req.RegistrationIDs))
	seen := make(map[uuid.UUID]struct{}, len(req.RegistrationIDs))
	for _, idStr := range req.RegistrationIDs {
		uid, err := uuid.Parse(idStr)
		if err != nil {
			return nil, ErrMissingRegistrations
		}
		if _, dup := seen[uid]; dup {
			continue
		}
		seen[uid] = struct{}{}
		ids = append(ids, uid)
	}

	regs, err := s.repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(regs) != len(ids) {
		return nil, ErrMissingRegistrations
	}

	switch req.Action {
	case model.BulkConfirm:
		updated, err := s.repo.BulkConfirm(ctx, ids)
		if err != nil {
			return nil, err
		}
		return &model.BulkResult{Updated: updated}, nil

	case model.BulkCancel:
		updated, err := s.repo.BulkCancel(ctx, ids)
		if err != nil {
			return nil, err
		}
		return &model.BulkResult{Updated: updated}, nil

	case model.BulkMarkAttended:
		updated, err := s.repo.BulkMarkAttended(ctx, ids)
		if err != nil {
			return nil, err
		}
		return &model.BulkResult{Updated: updated}, nil

	case model.BulkMarkPaid:
		updated, err := s.repo.BulkMarkPaid(ctx, ids)
		if err != nil {
			return nil, err
		}
		return &model.BulkResult{Updated: updated}, nil

	case model.BulkSendEmail:
		// Stub by contract: resolves the recipient list and stops.
		// Nothing is sent and nothing is mutated.
		emails := make([]string, 0, len(regs))
		for _, reg := range regs {
			emails = append(emails, reg.Email)
		}
		return &model.BulkResult{Emails: emails}, nil

	default:
		return nil, ErrUnknownBulkAction
	}
}

func paginate(page, perPage int, total int64) *response.Pagination {
	totalPages := int(total) / perPage
	if int(total)%perPage > 0 {
		totalPages++
	}
	return &response.Pagination{
		Page:       page,
		PerPage:    perPage,
		TotalItems: total,
		TotalPages: totalPages,
	}
}

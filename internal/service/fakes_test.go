package service

import (
	"context"
	"strings"

	"github.com/confera/conference-hub/internal/model"
	"github.com/confera/conference-hub/internal/repository"
	"github.com/google/uuid"
)

// In-memory repository fakes used across the service tests.

type fakeEventRepo struct {
	events map[uuid.UUID]*model.Event
}

func newFakeEventRepo(events ...*model.Event) *fakeEventRepo {
	repo := &fakeEventRepo{events: make(map[uuid.UUID]*model.Event)}
	for _, e := range events {
		repo.events[e.ID] = e
	}
	return repo
}

func (f *fakeEventRepo) FindAll(ctx context.Context, tenantID uuid.UUID, filter model.EventFilter) ([]*model.Event, int64, error) {
	out := make([]*model.Event, 0, len(f.events))
	for _, e := range f.events {
		out = append(out, e)
	}
	return out, int64(len(out)), nil
}

func (f *fakeEventRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Event, error) {
	return f.events[id], nil
}

func (f *fakeEventRepo) FindByIDWithPricing(ctx context.Context, id uuid.UUID) (*model.EventWithPricing, error) {
	e := f.events[id]
	if e == nil {
		return nil, nil
	}
	return &model.EventWithPricing{Event: *e}, nil
}

func (f *fakeEventRepo) Create(ctx context.Context, event *model.Event, tiers []model.PricingTier) error {
	f.events[event.ID] = event
	return nil
}

func (f *fakeEventRepo) Update(ctx context.Context, event *model.Event, tiers []model.PricingTier) error {
	f.events[event.ID] = event
	return nil
}

func (f *fakeEventRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(f.events, id)
	return nil
}

func (f *fakeEventRepo) UpdateBanner(ctx context.Context, id uuid.UUID, bannerURL string) error {
	if e := f.events[id]; e != nil {
		e.BannerURL = &bannerURL
	}
	return nil
}

type fakeRegistrationRepo struct {
	regs map[uuid.UUID]*model.Registration
}

func newFakeRegistrationRepo(regs ...*model.Registration) *fakeRegistrationRepo {
	repo := &fakeRegistrationRepo{regs: make(map[uuid.UUID]*model.Registration)}
	for _, r := range regs {
		repo.regs[r.ID] = r
	}
	return repo
}

func (f *fakeRegistrationRepo) FindAll(ctx context.Context, filter model.RegistrationFilter) ([]*model.Registration, int64, error) {
	out := make([]*model.Registration, 0, len(f.regs))
	for _, r := range f.regs {
		out = append(out, r)
	}
	return out, int64(len(out)), nil
}

func (f *fakeRegistrationRepo) FindForExport(ctx context.Context, filter model.RegistrationFilter) ([]*model.Registration, error) {
	out, _, _ := f.FindAll(ctx, filter)
	return out, nil
}

func (f *fakeRegistrationRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Registration, error) {
	return f.regs[id], nil
}

func (f *fakeRegistrationRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.Registration, error) {
	out := make([]*model.Registration, 0, len(ids))
	for _, id := range ids {
		if r, ok := f.regs[id]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRegistrationRepo) FindByEventAndEmail(ctx context.Context, eventID uuid.UUID, email string) (*model.Registration, error) {
	for _, r := range f.regs {
		if r.EventID == eventID && strings.EqualFold(r.Email, email) {
			return r, nil
		}
	}
	return nil, nil
}

func (f *fakeRegistrationRepo) CountActiveByEvent(ctx context.Context, eventID uuid.UUID) (int, error) {
	count := 0
	for _, r := range f.regs {
		if r.EventID == eventID && r.Status != model.RegistrationCancelled {
			count++
		}
	}
	return count, nil
}

func (f *fakeRegistrationRepo) Create(ctx context.Context, reg *model.Registration) error {
	for _, r := range f.regs {
		if r.EventID == reg.EventID && strings.EqualFold(r.Email, reg.Email) {
			return repository.ErrDuplicate
		}
	}
	f.regs[reg.ID] = reg
	return nil
}

func (f *fakeRegistrationRepo) Update(ctx context.Context, reg *model.Registration) error {
	f.regs[reg.ID] = reg
	return nil
}

func (f *fakeRegistrationRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(f.regs, id)
	return nil
}

func (f *fakeRegistrationRepo) bulkSet(ids []uuid.UUID, apply func(*model.Registration)) (int64, error) {
	var updated int64
	for _, id := range ids {
		if r, ok := f.regs[id]; ok {
			apply(r)
			updated++
		}
	}
	return updated, nil
}

func (f *fakeRegistrationRepo) BulkConfirm(ctx context.Context, ids []uuid.UUID) (int64, error) {
	return f.bulkSet(ids, func(r *model.Registration) { r.Status = model.RegistrationConfirmed })
}

func (f *fakeRegistrationRepo) BulkCancel(ctx context.Context, ids []uuid.UUID) (int64, error) {
	return f.bulkSet(ids, func(r *model.Registration) { r.Status = model.RegistrationCancelled })
}

func (f *fakeRegistrationRepo) BulkMarkAttended(ctx context.Context, ids []uuid.UUID) (int64, error) {
	return f.bulkSet(ids, func(r *model.Registration) {
		r.Status = model.RegistrationAttended
		r.AttendanceStatus = model.AttendanceCheckedIn
	})
}

func (f *fakeRegistrationRepo) BulkMarkPaid(ctx context.Context, ids []uuid.UUID) (int64, error) {
	return f.bulkSet(ids, func(r *model.Registration) { r.PaymentStatus = model.PaymentPaid })
}

type fakeCertificateRepo struct {
	certs map[uuid.UUID]*model.Certificate
	regs  *fakeRegistrationRepo
}

func newFakeCertificateRepo(regs *fakeRegistrationRepo, certs ...*model.Certificate) *fakeCertificateRepo {
	repo := &fakeCertificateRepo{certs: make(map[uuid.UUID]*model.Certificate), regs: regs}
	for _, c := range certs {
		repo.certs[c.ID] = c
	}
	return repo
}

func (f *fakeCertificateRepo) FindAll(ctx context.Context, filter model.CertificateFilter) ([]*model.Certificate, int64, error) {
	out := make([]*model.Certificate, 0, len(f.certs))
	for _, c := range f.certs {
		if filter.Email != "" && !strings.EqualFold(c.RecipientEmail, filter.Email) {
			continue
		}
		out = append(out, c)
	}
	return out, int64(len(out)), nil
}

// FindByID returns a copy, like a row scan would.
func (f *fakeCertificateRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Certificate, error) {
	c, ok := f.certs[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCertificateRepo) FindByCode(ctx context.Context, code string) (*model.Certificate, error) {
	for _, c := range f.certs {
		if c.Code == code {
			return c, nil
		}
	}
	return nil, nil
}

func (f *fakeCertificateRepo) FindByRegistrationID(ctx context.Context, registrationID uuid.UUID) (*model.Certificate, error) {
	for _, c := range f.certs {
		if c.RegistrationID == registrationID {
			return c, nil
		}
	}
	return nil, nil
}

func (f *fakeCertificateRepo) FindEligibleRegistrations(ctx context.Context, eventID uuid.UUID, registrationIDs []uuid.UUID) ([]*model.Registration, error) {
	out := make([]*model.Registration, 0, len(registrationIDs))
	for _, id := range registrationIDs {
		reg, ok := f.regs.regs[id]
		if !ok || reg.EventID != eventID || reg.Status != model.RegistrationAttended {
			continue
		}
		if existing, _ := f.FindByRegistrationID(ctx, id); existing != nil {
			continue
		}
		out = append(out, reg)
	}
	return out, nil
}

func (f *fakeCertificateRepo) Create(ctx context.Context, cert *model.Certificate) error {
	if existing, _ := f.FindByRegistrationID(ctx, cert.RegistrationID); existing != nil {
		return repository.ErrDuplicate
	}
	f.certs[cert.ID] = cert
	if reg, ok := f.regs.regs[cert.RegistrationID]; ok {
		id := cert.ID
		reg.CertificateID = &id
	}
	return nil
}

func (f *fakeCertificateRepo) CreateBatch(ctx context.Context, certs []*model.Certificate) error {
	for _, c := range certs {
		if err := f.Create(ctx, c); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeCertificateRepo) Replace(ctx context.Context, oldID uuid.UUID, newCert *model.Certificate) error {
	delete(f.certs, oldID)
	return f.Create(ctx, newCert)
}

func (f *fakeCertificateRepo) Revoke(ctx context.Context, id uuid.UUID, reason string) error {
	if c, ok := f.certs[id]; ok {
		c.Status = model.CertificateRevoked
		c.RevokedReason = &reason
	}
	return nil
}

func (f *fakeCertificateRepo) IncrementDownload(ctx context.Context, id uuid.UUID) error {
	if c, ok := f.certs[id]; ok {
		c.DownloadCount++
	}
	return nil
}

func (f *fakeCertificateRepo) UpdatePDFURL(ctx context.Context, id uuid.UUID, pdfURL string) error {
	if c, ok := f.certs[id]; ok {
		c.PDFURL = &pdfURL
	}
	return nil
}

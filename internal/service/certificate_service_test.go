package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/confera/conference-hub/internal/model"
	"github.com/google/uuid"
)

func newTestCertificateService(certs *fakeCertificateRepo, regs *fakeRegistrationRepo, events *fakeEventRepo, now time.Time) *certificateService {
	return &certificateService{
		repo:      certs,
		regRepo:   regs,
		eventRepo: events,
		appURL:    "https://hub.example.com",
		now:       func() time.Time { return now },
	}
}

func seedCertificateFixture() (*model.Event, *model.Registration, *fakeEventRepo, *fakeRegistrationRepo, *fakeCertificateRepo) {
	event := testEvent(100)
	event.CMECredits = 6
	reg := &model.Registration{
		ID:       uuid.New(),
		EventID:  event.ID,
		Email:    "jane@example.com",
		FullName: "Jane Doe",
		Status:   model.RegistrationAttended,
	}
	events := newFakeEventRepo(event)
	regs := newFakeRegistrationRepo(reg)
	certs := newFakeCertificateRepo(regs)
	return event, reg, events, regs, certs
}

func TestCertificateIssue(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)

	t.Run("DefaultsTitleAndCreditsFromEvent", func(t *testing.T) {
		event, reg, events, regs, certs := seedCertificateFixture()
		svc := newTestCertificateService(certs, regs, events, now)

		cert, err := svc.Create(ctx, model.CreateCertificateRequest{RegistrationID: reg.ID.String()}, uuid.New().String())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.HasPrefix(cert.Code, "CERT-") {
			t.Errorf("expected CERT- prefixed code, got %s", cert.Code)
		}
		if cert.Title != "Certificate of Attendance - "+event.Title {
			t.Errorf("unexpected default title %q", cert.Title)
		}
		if cert.CMECredits != event.CMECredits {
			t.Errorf("expected credits %v from event, got %v", event.CMECredits, cert.CMECredits)
		}
		if cert.RecipientName != reg.FullName || cert.RecipientEmail != reg.Email {
			t.Errorf("expected recipient snapshot from the registration")
		}
		if cert.Status != model.CertificateIssued {
			t.Errorf("expected issued status, got %s", cert.Status)
		}
	})

	t.Run("SecondCertificateForSameRegistrationRejected", func(t *testing.T) {
		_, reg, events, regs, certs := seedCertificateFixture()
		svc := newTestCertificateService(certs, regs, events, now)

		if _, err := svc.Create(ctx, model.CreateCertificateRequest{RegistrationID: reg.ID.String()}, uuid.New().String()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		_, err := svc.Create(ctx, model.CreateCertificateRequest{RegistrationID: reg.ID.String()}, uuid.New().String())
		if !errors.Is(err, ErrCertificateExists) {
			t.Errorf("expected ErrCertificateExists, got %v", err)
		}
	})

	t.Run("UnknownRegistrationRejected", func(t *testing.T) {
		_, _, events, regs, certs := seedCertificateFixture()
		svc := newTestCertificateService(certs, regs, events, now)

		_, err := svc.Create(ctx, model.CreateCertificateRequest{RegistrationID: uuid.New().String()}, uuid.New().String())
		if !errors.Is(err, ErrRegistrationNotFound) {
			t.Errorf("expected ErrRegistrationNotFound, got %v", err)
		}
	})
}

func TestCertificateBulkIssue(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	t.Run("FiltersToAttendedWithoutCertificate", func(t *testing.T) {
		event, attended, events, regs, certs := seedCertificateFixture()

		attendedToo := &model.Registration{ID: uuid.New(), EventID: event.ID, Email: "b@example.com", FullName: "B", Status: model.RegistrationAttended}
		noShow := &model.Registration{ID: uuid.New(), EventID: event.ID, Email: "c@example.com", FullName: "C", Status: model.RegistrationConfirmed}
		cancelled := &model.Registration{ID: uuid.New(), EventID: event.ID, Email: "d@example.com", FullName: "D", Status: model.RegistrationCancelled}
		alreadyHolds := &model.Registration{ID: uuid.New(), EventID: event.ID, Email: "e@example.com", FullName: "E", Status: model.RegistrationAttended}
		for _, r := range []*model.Registration{attendedToo, noShow, cancelled, alreadyHolds} {
			regs.regs[r.ID] = r
		}
		certs.certs[uuid.New()] = &model.Certificate{ID: uuid.New(), RegistrationID: alreadyHolds.ID, EventID: event.ID, Code: "CERT-EXISTING", Status: model.CertificateIssued}

		svc := newTestCertificateService(certs, regs, events, now)

		result, err := svc.BulkCreate(ctx, model.BulkCreateCertificateRequest{
			EventID: event.ID.String(),
			RegistrationIDs: []string{
				attended.ID.String(), attendedToo.ID.String(),
				noShow.ID.String(), cancelled.ID.String(), alreadyHolds.ID.String(),
			},
		}, uuid.New().String())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Created != 2 {
			t.Errorf("expected 2 certificates issued, got %d", result.Created)
		}
	})

	t.Run("NoSurvivorsRejected", func(t *testing.T) {
		event, _, events, regs, certs := seedCertificateFixture()
		noShow := &model.Registration{ID: uuid.New(), EventID: event.ID, Email: "c@example.com", Status: model.RegistrationConfirmed}
		regs.regs[noShow.ID] = noShow

		svc := newTestCertificateService(certs, regs, events, now)

		_, err := svc.BulkCreate(ctx, model.BulkCreateCertificateRequest{
			EventID:         event.ID.String(),
			RegistrationIDs: []string{noShow.ID.String()},
		}, uuid.New().String())
		if !errors.Is(err, ErrNoEligibleTargets) {
			t.Errorf("expected ErrNoEligibleTargets, got %v", err)
		}
	})
}

func TestCertificateRevoke(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	t.Run("EmptyReasonRejected", func(t *testing.T) {
		_, reg, events, regs, certs := seedCertificateFixture()
		svc := newTestCertificateService(certs, regs, events, now)
		cert, _ := svc.Create(ctx, model.CreateCertificateRequest{RegistrationID: reg.ID.String()}, uuid.New().String())

		if err := svc.Revoke(ctx, cert.ID.String(), "   "); !errors.Is(err, ErrRevokedReasonMissing) {
			t.Errorf("expected ErrRevokedReasonMissing, got %v", err)
		}
	})

	t.Run("RevokeIsTerminal", func(t *testing.T) {
		_, reg, events, regs, certs := seedCertificateFixture()
		svc := newTestCertificateService(certs, regs, events, now)
		cert, _ := svc.Create(ctx, model.CreateCertificateRequest{RegistrationID: reg.ID.String()}, uuid.New().String())

		if err := svc.Revoke(ctx, cert.ID.String(), "issued to the wrong attendee"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := svc.Revoke(ctx, cert.ID.String(), "again"); !errors.Is(err, ErrAlreadyRevoked) {
			t.Errorf("expected ErrAlreadyRevoked, got %v", err)
		}

		_, err := svc.Regenerate(ctx, cert.ID.String())
		if !errors.Is(err, ErrCertificateRevoked) {
			t.Errorf("expected regenerate to reject a revoked certificate, got %v", err)
		}
	})
}

func TestCertificateRegenerate(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	later := now.Add(48 * time.Hour)

	_, reg, events, regs, certs := seedCertificateFixture()
	svc := newTestCertificateService(certs, regs, events, now)
	original, err := svc.Create(ctx, model.CreateCertificateRequest{RegistrationID: reg.ID.String()}, uuid.New().String())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	svc.now = func() time.Time { return later }
	fresh, err := svc.Regenerate(ctx, original.ID.String())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if fresh.Code == original.Code {
		t.Errorf("expected a fresh code on regenerate")
	}
	if fresh.ID == original.ID {
		t.Errorf("expected a fresh certificate ID on regenerate")
	}
	if fresh.RecipientName != original.RecipientName || fresh.EventTitle != original.EventTitle || fresh.CMECredits != original.CMECredits {
		t.Errorf("expected the recipient and event payload preserved")
	}
	if !fresh.IssuedAt.Equal(later) {
		t.Errorf("expected issued_at reset to %v, got %v", later, fresh.IssuedAt)
	}
	if old, _ := certs.FindByID(ctx, original.ID); old != nil {
		t.Errorf("expected the old certificate to be gone")
	}
}

func TestCertificateVerify(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	_, reg, events, regs, certs := seedCertificateFixture()
	svc := newTestCertificateService(certs, regs, events, now)
	cert, err := svc.Create(ctx, model.CreateCertificateRequest{RegistrationID: reg.ID.String()}, uuid.New().String())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Run("IssuedIsValid", func(t *testing.T) {
		result, err := svc.Verify(ctx, cert.Code)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.Valid {
			t.Errorf("expected an issued certificate to verify as valid")
		}
		if result.Certificate.RecipientName != reg.FullName {
			t.Errorf("expected the public view to carry the recipient name")
		}
	})

	t.Run("VerifyIsReadOnly", func(t *testing.T) {
		before, _ := certs.FindByCode(ctx, cert.Code)
		if _, err := svc.Verify(ctx, cert.Code); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		after, _ := certs.FindByCode(ctx, cert.Code)
		if before.DownloadCount != after.DownloadCount {
			t.Errorf("expected verify to leave the download counter alone")
		}
	})

	t.Run("RevokedIsInvalidButVisible", func(t *testing.T) {
		if err := svc.Revoke(ctx, cert.ID.String(), "recipient mismatch"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		result, err := svc.Verify(ctx, cert.Code)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Valid {
			t.Errorf("expected a revoked certificate to verify as invalid")
		}
	})

	t.Run("UnknownCodeIsNotFound", func(t *testing.T) {
		_, err := svc.Verify(ctx, "CERT-DOES-NOT-EXIST")
		if !errors.Is(err, ErrCertificateNotFound) {
			t.Errorf("expected ErrCertificateNotFound, got %v", err)
		}
	})
}

func TestCertificateAccess(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)

	_, reg, events, regs, certs := seedCertificateFixture()
	svc := newTestCertificateService(certs, regs, events, now)
	cert, err := svc.Create(ctx, model.CreateCertificateRequest{RegistrationID: reg.ID.String()}, uuid.New().String())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	owner := Actor{ID: uuid.New(), Email: "jane@example.com", Role: model.RoleAttendee}
	stranger := Actor{ID: uuid.New(), Email: "other@example.com", Role: model.RoleAttendee}

	t.Run("FetchCountsAsDownload", func(t *testing.T) {
		got, err := svc.GetByID(ctx, owner, cert.ID.String())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.DownloadCount != 1 {
			t.Errorf("expected download count 1, got %d", got.DownloadCount)
		}
		if got.LastDownloadedAt == nil || !got.LastDownloadedAt.Equal(now) {
			t.Errorf("expected last_downloaded_at stamped")
		}

		again, _ := svc.GetByID(ctx, owner, cert.ID.String())
		if again.DownloadCount != 2 {
			t.Errorf("expected download count 2, got %d", again.DownloadCount)
		}
	})

	t.Run("AttendeeCannotFetchAnotherRecipients", func(t *testing.T) {
		_, err := svc.GetByID(ctx, stranger, cert.ID.String())
		if !errors.Is(err, ErrCertificateNotOwned) {
			t.Errorf("expected ErrCertificateNotOwned, got %v", err)
		}
	})

	t.Run("AttendeeListFiltersToOwnEmail", func(t *testing.T) {
		list, _, err := svc.GetAll(ctx, stranger, model.CertificateFilter{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(list) != 0 {
			t.Errorf("expected no certificates for a stranger, got %d", len(list))
		}

		own, _, err := svc.GetAll(ctx, owner, model.CertificateFilter{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(own) != 1 {
			t.Errorf("expected the owner to see one certificate, got %d", len(own))
		}
	})
}

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/confera/conference-hub/internal/model"
	"github.com/google/uuid"
)

func testEvent(capacity int) *model.Event {
	return &model.Event{
		ID:                 uuid.New(),
		Title:              "Cardiology Summit",
		Capacity:           capacity,
		Currency:           "EUR",
		BasePrice:          200,
		IsRegistrationOpen: true,
		IsPublished:        true,
	}
}

func newTestRegistrationService(events *fakeEventRepo, regs *fakeRegistrationRepo, now time.Time) *registrationService {
	return &registrationService{
		repo:      regs,
		eventRepo: events,
		now:       func() time.Time { return now },
	}
}

func TestRegistrationAdmission(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	t.Run("FullEventGoesToWaitlist", func(t *testing.T) {
		event := testEvent(2)
		svc := newTestRegistrationService(newFakeEventRepo(event), newFakeRegistrationRepo(), now)

		a, err := svc.Create(ctx, model.CreateRegistrationRequest{EventID: event.ID.String(), Email: "a@example.com", FullName: "A", Amount: 200}, false, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		b, err := svc.Create(ctx, model.CreateRegistrationRequest{EventID: event.ID.String(), Email: "b@example.com", FullName: "B", Amount: 200}, false, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		c, err := svc.Create(ctx, model.CreateRegistrationRequest{EventID: event.ID.String(), Email: "c@example.com", FullName: "C", Amount: 200}, false, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if a.Status != model.RegistrationConfirmed || b.Status != model.RegistrationConfirmed {
			t.Errorf("expected first two registrations confirmed, got %s / %s", a.Status, b.Status)
		}
		if c.Status != model.RegistrationWaitlist {
			t.Errorf("expected third registration waitlisted, got %s", c.Status)
		}
	})

	t.Run("DuplicateEmailRejected", func(t *testing.T) {
		event := testEvent(10)
		svc := newTestRegistrationService(newFakeEventRepo(event), newFakeRegistrationRepo(), now)

		if _, err := svc.Create(ctx, model.CreateRegistrationRequest{EventID: event.ID.String(), Email: "Jane@Example.com", FullName: "Jane"}, false, nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		_, err := svc.Create(ctx, model.CreateRegistrationRequest{EventID: event.ID.String(), Email: "jane@example.com", FullName: "Jane"}, false, nil)
		if !errors.Is(err, ErrDuplicateRegistration) {
			t.Errorf("expected ErrDuplicateRegistration, got %v", err)
		}
	})

	t.Run("EarlyBirdAppliesOnDeadlineDay", func(t *testing.T) {
		event := testEvent(10)
		early := 150.0
		deadline := now // registering at the exact deadline instant
		event.EarlyBirdPrice = &early
		event.EarlyBirdDeadline = &deadline
		svc := newTestRegistrationService(newFakeEventRepo(event), newFakeRegistrationRepo(), now)

		reg, err := svc.Create(ctx, model.CreateRegistrationRequest{EventID: event.ID.String(), Email: "a@example.com", FullName: "A", Amount: 200}, false, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if reg.Amount != early {
			t.Errorf("expected early-bird amount %v, got %v", early, reg.Amount)
		}
	})

	t.Run("EarlyBirdExpiredUsesSubmittedAmount", func(t *testing.T) {
		event := testEvent(10)
		early := 150.0
		deadline := now.Add(-time.Second)
		event.EarlyBirdPrice = &early
		event.EarlyBirdDeadline = &deadline
		svc := newTestRegistrationService(newFakeEventRepo(event), newFakeRegistrationRepo(), now)

		reg, err := svc.Create(ctx, model.CreateRegistrationRequest{EventID: event.ID.String(), Email: "a@example.com", FullName: "A", Amount: 200}, false, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if reg.Amount != 200 {
			t.Errorf("expected submitted amount 200, got %v", reg.Amount)
		}
	})

	t.Run("ZeroAmountIsFree", func(t *testing.T) {
		event := testEvent(10)
		svc := newTestRegistrationService(newFakeEventRepo(event), newFakeRegistrationRepo(), now)

		reg, err := svc.Create(ctx, model.CreateRegistrationRequest{EventID: event.ID.String(), Email: "a@example.com", FullName: "A", Amount: 0}, false, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if reg.PaymentStatus != model.PaymentFree {
			t.Errorf("expected payment status free, got %s", reg.PaymentStatus)
		}
	})

	t.Run("CurrencyComesFromEvent", func(t *testing.T) {
		event := testEvent(10)
		svc := newTestRegistrationService(newFakeEventRepo(event), newFakeRegistrationRepo(), now)

		reg, err := svc.Create(ctx, model.CreateRegistrationRequest{EventID: event.ID.String(), Email: "a@example.com", FullName: "A", Amount: 200}, false, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if reg.Currency != "EUR" {
			t.Errorf("expected event currency EUR, got %s", reg.Currency)
		}
	})

	t.Run("UnpublishedRejectedForPublic", func(t *testing.T) {
		event := testEvent(10)
		event.IsPublished = false
		svc := newTestRegistrationService(newFakeEventRepo(event), newFakeRegistrationRepo(), now)

		_, err := svc.Create(ctx, model.CreateRegistrationRequest{EventID: event.ID.String(), Email: "a@example.com", FullName: "A"}, false, nil)
		if !errors.Is(err, ErrEventUnpublished) {
			t.Errorf("expected ErrEventUnpublished, got %v", err)
		}
	})

	t.Run("DeadlinePassedRejectedForPublic", func(t *testing.T) {
		event := testEvent(10)
		deadline := now.Add(-time.Hour)
		event.RegistrationDeadline = &deadline
		svc := newTestRegistrationService(newFakeEventRepo(event), newFakeRegistrationRepo(), now)

		_, err := svc.Create(ctx, model.CreateRegistrationRequest{EventID: event.ID.String(), Email: "a@example.com", FullName: "A"}, false, nil)
		if !errors.Is(err, ErrRegistrationDeadline) {
			t.Errorf("expected ErrRegistrationDeadline, got %v", err)
		}
	})

	t.Run("StaffBypassesRegistrationWindow", func(t *testing.T) {
		event := testEvent(10)
		event.IsPublished = false
		event.IsRegistrationOpen = false
		deadline := now.Add(-time.Hour)
		event.RegistrationDeadline = &deadline
		svc := newTestRegistrationService(newFakeEventRepo(event), newFakeRegistrationRepo(), now)

		staffID := uuid.New()
		reg, err := svc.Create(ctx, model.CreateRegistrationRequest{EventID: event.ID.String(), Email: "a@example.com", FullName: "A"}, true, &staffID)
		if err != nil {
			t.Fatalf("expected staff registration to bypass the window, got %v", err)
		}
		if reg.RegisteredBy == nil || *reg.RegisteredBy != staffID {
			t.Errorf("expected registered_by to record the staff member")
		}
	})

	t.Run("UnknownEventRejected", func(t *testing.T) {
		svc := newTestRegistrationService(newFakeEventRepo(), newFakeRegistrationRepo(), now)

		_, err := svc.Create(ctx, model.CreateRegistrationRequest{EventID: uuid.New().String(), Email: "a@example.com", FullName: "A"}, false, nil)
		if !errors.Is(err, ErrEventNotFound) {
			t.Errorf("expected ErrEventNotFound, got %v", err)
		}
	})
}

func TestRegistrationUpdate(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	staff := Actor{ID: uuid.New(), Email: "staff@confhub.local", Role: model.RoleRegistrationManager}

	t.Run("AttendedMarksCheckIn", func(t *testing.T) {
		reg := &model.Registration{ID: uuid.New(), EventID: uuid.New(), Email: "a@example.com", Status: model.RegistrationConfirmed, AttendanceStatus: model.AttendanceRegistered}
		svc := newTestRegistrationService(newFakeEventRepo(), newFakeRegistrationRepo(reg), now)

		status := model.RegistrationAttended
		updated, err := svc.Update(ctx, staff, reg.ID.String(), model.UpdateRegistrationRequest{Status: &status})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if updated.AttendanceStatus != model.AttendanceCheckedIn {
			t.Errorf("expected attendance checked_in, got %s", updated.AttendanceStatus)
		}
		if updated.CheckedInAt == nil || !updated.CheckedInAt.Equal(now) {
			t.Errorf("expected check-in timestamp %v, got %v", now, updated.CheckedInAt)
		}
	})

	t.Run("OwnerCannotChangeStatus", func(t *testing.T) {
		reg := &model.Registration{ID: uuid.New(), EventID: uuid.New(), Email: "a@example.com", Status: model.RegistrationConfirmed}
		svc := newTestRegistrationService(newFakeEventRepo(), newFakeRegistrationRepo(reg), now)

		owner := Actor{ID: uuid.New(), Email: "a@example.com", Role: model.RoleAttendee}
		status := model.RegistrationAttended
		_, err := svc.Update(ctx, owner, reg.ID.String(), model.UpdateRegistrationRequest{Status: &status})
		if !errors.Is(err, ErrRegistrationNotOwned) {
			t.Errorf("expected ErrRegistrationNotOwned, got %v", err)
		}
	})
}

func TestRegistrationDelete(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	t.Run("BlockedWhileCertificateAttached", func(t *testing.T) {
		certID := uuid.New()
		reg := &model.Registration{ID: uuid.New(), EventID: uuid.New(), Email: "a@example.com", CertificateID: &certID}
		svc := newTestRegistrationService(newFakeEventRepo(), newFakeRegistrationRepo(reg), now)

		if err := svc.Delete(ctx, reg.ID.String()); !errors.Is(err, ErrRegistrationHasCert) {
			t.Errorf("expected ErrRegistrationHasCert, got %v", err)
		}
	})

	t.Run("DeletesPlainRegistration", func(t *testing.T) {
		reg := &model.Registration{ID: uuid.New(), EventID: uuid.New(), Email: "a@example.com"}
		regs := newFakeRegistrationRepo(reg)
		svc := newTestRegistrationService(newFakeEventRepo(), regs, now)

		if err := svc.Delete(ctx, reg.ID.String()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, ok := regs.regs[reg.ID]; ok {
			t.Errorf("expected registration to be removed")
		}
	})
}

func TestBulkActions(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	eventID := uuid.New()

	seed := func() (*fakeRegistrationRepo, []string) {
		a := &model.Registration{ID: uuid.New(), EventID: eventID, Email: "a@example.com", Status: model.RegistrationPending}
		b := &model.Registration{ID: uuid.New(), EventID: eventID, Email: "b@example.com", Status: model.RegistrationPending}
		return newFakeRegistrationRepo(a, b), []string{a.ID.String(), b.ID.String()}
	}

	t.Run("EmptySelectionRejected", func(t *testing.T) {
		regs, _ := seed()
		svc := newTestRegistrationService(newFakeEventRepo(), regs, now)

		_, err := svc.Bulk(ctx, model.BulkRegistrationRequest{Action: model.BulkConfirm})
		if !errors.Is(err, ErrEmptyBulkSelection) {
			t.Errorf("expected ErrEmptyBulkSelection, got %v", err)
		}
	})

	t.Run("OneMissingIDRejectsWholeBatch", func(t *testing.T) {
		regs, ids := seed()
		svc := newTestRegistrationService(newFakeEventRepo(), regs, now)

		_, err := svc.Bulk(ctx, model.BulkRegistrationRequest{
			RegistrationIDs: append(ids, uuid.New().String()),
			Action:          model.BulkConfirm,
		})
		if !errors.Is(err, ErrMissingRegistrations) {
			t.Errorf("expected ErrMissingRegistrations, got %v", err)
		}
		for _, r := range regs.regs {
			if r.Status != model.RegistrationPending {
				t.Errorf("expected no mutation on a rejected batch, got %s", r.Status)
			}
		}
	})

	t.Run("UnknownActionRejected", func(t *testing.T) {
		regs, ids := seed()
		svc := newTestRegistrationService(newFakeEventRepo(), regs, now)

		_, err := svc.Bulk(ctx, model.BulkRegistrationRequest{RegistrationIDs: ids, Action: "archive"})
		if !errors.Is(err, ErrUnknownBulkAction) {
			t.Errorf("expected ErrUnknownBulkAction, got %v", err)
		}
	})

	t.Run("ConfirmReportsRowsAffected", func(t *testing.T) {
		regs, ids := seed()
		svc := newTestRegistrationService(newFakeEventRepo(), regs, now)

		result, err := svc.Bulk(ctx, model.BulkRegistrationRequest{RegistrationIDs: ids, Action: model.BulkConfirm})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Updated != 2 {
			t.Errorf("expected 2 rows updated, got %d", result.Updated)
		}
	})

	t.Run("MarkAttendedChecksIn", func(t *testing.T) {
		regs, ids := seed()
		svc := newTestRegistrationService(newFakeEventRepo(), regs, now)

		if _, err := svc.Bulk(ctx, model.BulkRegistrationRequest{RegistrationIDs: ids, Action: model.BulkMarkAttended}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, r := range regs.regs {
			if r.Status != model.RegistrationAttended || r.AttendanceStatus != model.AttendanceCheckedIn {
				t.Errorf("expected attended + checked_in, got %s / %s", r.Status, r.AttendanceStatus)
			}
		}
	})

	t.Run("SendEmailReturnsRecipientsWithoutMutating", func(t *testing.T) {
		regs, ids := seed()
		svc := newTestRegistrationService(newFakeEventRepo(), regs, now)

		result, err := svc.Bulk(ctx, model.BulkRegistrationRequest{RegistrationIDs: ids, Action: model.BulkSendEmail})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(result.Emails) != 2 {
			t.Errorf("expected 2 recipient emails, got %d", len(result.Emails))
		}
		if result.Updated != 0 {
			t.Errorf("expected no rows updated, got %d", result.Updated)
		}
		for _, r := range regs.regs {
			if r.Status != model.RegistrationPending {
				t.Errorf("expected statuses untouched, got %s", r.Status)
			}
		}
	})
}

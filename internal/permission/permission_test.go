package permission

import (
	"testing"

	"github.com/confera/conference-hub/internal/model"
)

func TestRoleMatrix(t *testing.T) {
	t.Run("SuperAdminHoldsEverything", func(t *testing.T) {
		for role, perms := range rolePermissions {
			if role == model.RoleSuperAdmin {
				continue
			}
			for p := range perms {
				if !HasPermission(model.RoleSuperAdmin, p) {
					t.Errorf("super_admin missing %s held by %s", p, role)
				}
			}
		}
	})

	t.Run("RegistrationManagerStaysInLane", func(t *testing.T) {
		role := model.RoleRegistrationManager
		for _, p := range []Permission{RegistrationsView, RegistrationsCreate, RegistrationsBulk, EventsView} {
			if !HasPermission(role, p) {
				t.Errorf("expected registration_manager to hold %s", p)
			}
		}
		for _, p := range []Permission{SpeakersCreate, EventsCreate, CertificatesCreate, UsersView} {
			if HasPermission(role, p) {
				t.Errorf("registration_manager must not hold %s", p)
			}
		}
	})

	t.Run("EventManagerCannotTouchCertificateLifecycle", func(t *testing.T) {
		role := model.RoleEventManager
		if !HasPermission(role, CertificatesView) {
			t.Errorf("expected event_manager to view certificates")
		}
		for _, p := range []Permission{CertificatesCreate, CertificatesRevoke, CertificatesRegenerate} {
			if HasPermission(role, p) {
				t.Errorf("event_manager must not hold %s", p)
			}
		}
	})

	t.Run("AttendeeOnlySeesOwn", func(t *testing.T) {
		perms := Permissions(model.RoleAttendee)
		if len(perms) != 1 || perms[0] != ViewOwn {
			t.Errorf("expected attendee to hold exactly own.view, got %v", perms)
		}
	})

	t.Run("UnknownRoleHasNothing", func(t *testing.T) {
		if HasPermission(model.Role("auditor"), EventsView) {
			t.Errorf("unknown role must not resolve any permission")
		}
		if CanAccess(model.Role("auditor"), "events") {
			t.Errorf("unknown role must not access any family")
		}
	})
}

func TestCanAccess(t *testing.T) {
	if !CanAccess(model.RoleCertificateManager, "certificates") {
		t.Errorf("expected certificate_manager to access the certificates family")
	}
	if CanAccess(model.RoleCertificateManager, "users") {
		t.Errorf("certificate_manager must not access the users family")
	}
	if !CanAccess(model.RoleEventManager, "sponsors") {
		t.Errorf("expected event_manager to access the sponsors family")
	}
}

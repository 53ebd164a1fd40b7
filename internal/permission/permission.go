// Package permission holds the static role -> permission mapping and
// the pure lookup functions the authorization middleware builds on.
// The table is assembled once at init and never mutated afterwards.
package permission

import (
	"strings"

	"github.com/confera/conference-hub/internal/model"
)

type Permission string

// Fine-grained permissions across the six resource families.
const (
	EventsView    Permission = "events.view"
	EventsCreate  Permission = "events.create"
	EventsUpdate  Permission = "events.update"
	EventsDelete  Permission = "events.delete"
	EventsPublish Permission = "events.publish"

	RegistrationsView   Permission = "registrations.view"
	RegistrationsCreate Permission = "registrations.create"
	RegistrationsUpdate Permission = "registrations.update"
	RegistrationsDelete Permission = "registrations.delete"
	RegistrationsBulk   Permission = "registrations.bulk"
	RegistrationsExport Permission = "registrations.export"

	SpeakersView   Permission = "speakers.view"
	SpeakersCreate Permission = "speakers.create"
	SpeakersUpdate Permission = "speakers.update"
	SpeakersDelete Permission = "speakers.delete"

	SponsorsView   Permission = "sponsors.view"
	SponsorsCreate Permission = "sponsors.create"
	SponsorsUpdate Permission = "sponsors.update"
	SponsorsDelete Permission = "sponsors.delete"

	CertificatesView       Permission = "certificates.view"
	CertificatesCreate     Permission = "certificates.create"
	CertificatesRevoke     Permission = "certificates.revoke"
	CertificatesRegenerate Permission = "certificates.regenerate"
	CertificatesDownload   Permission = "certificates.download"

	UsersView   Permission = "users.view"
	UsersCreate Permission = "users.create"
	UsersUpdate Permission = "users.update"
	UsersDelete Permission = "users.delete"

	ViewOwn Permission = "own.view"
)

type permSet map[Permission]struct{}

func set(perms ...Permission) permSet {
	s := make(permSet, len(perms))
	for _, p := range perms {
		s[p] = struct{}{}
	}
	return s
}

func merge(sets ...permSet) permSet {
	out := permSet{}
	for _, s := range sets {
		for p := range s {
			out[p] = struct{}{}
		}
	}
	return out
}

var (
	eventPerms = set(EventsView, EventsCreate, EventsUpdate, EventsDelete, EventsPublish)
	regPerms   = set(RegistrationsView, RegistrationsCreate, RegistrationsUpdate,
		RegistrationsDelete, RegistrationsBulk, RegistrationsExport)
	speakerPerms = set(SpeakersView, SpeakersCreate, SpeakersUpdate, SpeakersDelete)
	sponsorPerms = set(SponsorsView, SponsorsCreate, SponsorsUpdate, SponsorsDelete)
	certPerms    = set(CertificatesView, CertificatesCreate, CertificatesRevoke,
		CertificatesRegenerate, CertificatesDownload)
	userPerms = set(UsersView, UsersCreate, UsersUpdate, UsersDelete)
)

// rolePermissions is the whole authorization matrix. Super admin holds
// the full superset; the three manager roles hold the subsets their job
// function needs; attendees only ever see their own resources.
var rolePermissions = map[model.Role]permSet{
	model.RoleSuperAdmin: merge(eventPerms, regPerms, speakerPerms, sponsorPerms,
		certPerms, userPerms, set(ViewOwn)),

	model.RoleEventManager: merge(eventPerms, speakerPerms, sponsorPerms,
		set(RegistrationsView, RegistrationsExport, CertificatesView, ViewOwn)),

	model.RoleRegistrationManager: merge(regPerms,
		set(EventsView, ViewOwn)),

	model.RoleCertificateManager: merge(certPerms,
		set(EventsView, RegistrationsView, ViewOwn)),

	model.RoleAttendee: set(ViewOwn),
}

// HasPermission reports whether a role holds one specific permission.
func HasPermission(role model.Role, perm Permission) bool {
	perms, ok := rolePermissions[role]
	if !ok {
		return false
	}
	_, ok = perms[perm]
	return ok
}

// CanAccess reports whether a role holds any permission of the given
// resource family ("events", "registrations", ...).
func CanAccess(role model.Role, resource string) bool {
	perms, ok := rolePermissions[role]
	if !ok {
		return false
	}
	prefix := resource + "."
	for p := range perms {
		if strings.HasPrefix(string(p), prefix) {
			return true
		}
	}
	return false
}

// Permissions returns a copy of a role's permission set, for the /me
// endpoint so clients can render role-appropriate dashboards.
func Permissions(role model.Role) []Permission {
	perms, ok := rolePermissions[role]
	if !ok {
		return nil
	}
	out := make([]Permission, 0, len(perms))
	for p := range perms {
		out = append(out, p)
	}
	return out
}

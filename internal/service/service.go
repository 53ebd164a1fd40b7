// Package service implements the business rules between the HTTP
// handlers and the repositories: admission decisions, certificate
// lifecycle, bulk transitions, and the ownership side of access
// control.
package service

import (
	"github.com/confera/conference-hub/internal/model"
	"github.com/google/uuid"
)

// Actor is the authenticated identity a handler passes down so services
// can apply ownership exceptions on top of the role permission table.
type Actor struct {
	ID    uuid.UUID
	Email string
	Role  model.Role
}

func (a Actor) IsSuperAdmin() bool {
	return a.Role == model.RoleSuperAdmin
}

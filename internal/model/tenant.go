package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type Tenant struct {
	ID        uuid.UUID       `db:"id"         json:"id"`
	Slug      string          `db:"slug"       json:"slug"`
	Name      string          `db:"name"       json:"name"`
	Branding  json.RawMessage `db:"branding"   json:"branding,omitempty"`
	Settings  json.RawMessage `db:"settings"   json:"settings,omitempty"`
	IsActive  bool            `db:"is_active"  json:"is_active"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
}

package model

import (
	"time"

	"github.com/google/uuid"
)

type Sponsor struct {
	ID        uuid.UUID `db:"id"         json:"id"`
	EventID   uuid.UUID `db:"event_id"   json:"event_id"`
	Name      string    `db:"name"       json:"name"`
	Tier      string    `db:"tier"       json:"tier"` // gold | silver | bronze
	Website   string    `db:"website"    json:"website"`
	LogoURL   *string   `db:"logo_url"   json:"logo_url"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

type CreateSponsorRequest struct {
	EventID string `json:"event_id"`
	Name    string `json:"name"`
	Tier    string `json:"tier"`
	Website string `json:"website"`
}

type UpdateSponsorRequest struct {
	Name    string `json:"name"`
	Tier    string `json:"tier"`
	Website string `json:"website"`
}

type SponsorFilter struct {
	EventID string
	Tier    string
	Page    int
	PerPage int
}

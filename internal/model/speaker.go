package model

import (
	"time"

	"github.com/google/uuid"
)

type Speaker struct {
	ID        uuid.UUID `db:"id"         json:"id"`
	EventID   uuid.UUID `db:"event_id"   json:"event_id"`
	FullName  string    `db:"full_name"  json:"full_name"`
	Title     string    `db:"title"      json:"title"` // job title / affiliation
	Bio       string    `db:"bio"        json:"bio"`
	Email     string    `db:"email"      json:"email"`
	PhotoURL  *string   `db:"photo_url"  json:"photo_url"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

type CreateSpeakerRequest struct {
	EventID  string `json:"event_id"`
	FullName string `json:"full_name"`
	Title    string `json:"title"`
	Bio      string `json:"bio"`
	Email    string `json:"email"`
}

type UpdateSpeakerRequest struct {
	FullName string `json:"full_name"`
	Title    string `json:"title"`
	Bio      string `json:"bio"`
	Email    string `json:"email"`
}

type SpeakerFilter struct {
	EventID string
	Search  string
	Page    int
	PerPage int
}

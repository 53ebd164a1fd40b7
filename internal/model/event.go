package model

import (
	"time"

	"github.com/google/uuid"
)

type Event struct {
	ID                   uuid.UUID  `db:"id"                     json:"id"`
	TenantID             uuid.UUID  `db:"tenant_id"              json:"tenant_id"`
	Title                string     `db:"title"                  json:"title"`
	Description          string     `db:"description"            json:"description"`
	Venue                string     `db:"venue"                  json:"venue"`
	StartDate            *time.Time `db:"start_date"             json:"start_date"`
	EndDate              *time.Time `db:"end_date"               json:"end_date"`
	Capacity             int        `db:"capacity"               json:"capacity"`
	Currency             string     `db:"currency"               json:"currency"`
	BasePrice            float64    `db:"base_price"             json:"base_price"`
	EarlyBirdPrice       *float64   `db:"early_bird_price"       json:"early_bird_price"`
	EarlyBirdDeadline    *time.Time `db:"early_bird_deadline"    json:"early_bird_deadline"`
	IsRegistrationOpen   bool       `db:"is_registration_open"   json:"is_registration_open"`
	RegistrationDeadline *time.Time `db:"registration_deadline"  json:"registration_deadline"`
	IsPublished          bool       `db:"is_published"           json:"is_published"`
	CMECredits           float64    `db:"cme_credits"            json:"cme_credits"`
	BannerURL            *string    `db:"banner_url"             json:"banner_url"`
	CreatedBy            *uuid.UUID `db:"created_by"             json:"created_by"`
	CreatedAt            time.Time  `db:"created_at"             json:"created_at"`
	UpdatedAt            time.Time  `db:"updated_at"             json:"updated_at"`

	// Join fields
	RegistrationCount *int64 `db:"registration_count" json:"registration_count,omitempty"`
}

// PricingTier is an additional named ticket category for an event
// (student, vip, ...). Tiers are replaced wholesale on event update.
type PricingTier struct {
	ID       uuid.UUID `db:"id"       json:"id"`
	EventID  uuid.UUID `db:"event_id" json:"event_id"`
	Name     string    `db:"name"     json:"name"`
	Price    float64   `db:"price"    json:"price"`
	Position int       `db:"position" json:"position"`
}

type EventWithPricing struct {
	Event
	PricingTiers []PricingTier `json:"pricing_tiers"`
}

type PricingTierInput struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

type CreateEventRequest struct {
	Title                string             `json:"title"`
	Description          string             `json:"description"`
	Venue                string             `json:"venue"`
	StartDate            string             `json:"start_date"` // YYYY-MM-DD
	EndDate              string             `json:"end_date"`
	Capacity             int                `json:"capacity"`
	Currency             string             `json:"currency"`
	BasePrice            float64            `json:"base_price"`
	EarlyBirdPrice       *float64           `json:"early_bird_price"`
	EarlyBirdDeadline    *time.Time         `json:"early_bird_deadline"`
	IsRegistrationOpen   bool               `json:"is_registration_open"`
	RegistrationDeadline *time.Time         `json:"registration_deadline"`
	IsPublished          bool               `json:"is_published"`
	CMECredits           float64            `json:"cme_credits"`
	PricingTiers         []PricingTierInput `json:"pricing_tiers"`
}

type UpdateEventRequest struct {
	Title                string             `json:"title"`
	Description          string             `json:"description"`
	Venue                string             `json:"venue"`
	StartDate            string             `json:"start_date"`
	EndDate              string             `json:"end_date"`
	Capacity             int                `json:"capacity"`
	Currency             string             `json:"currency"`
	BasePrice            float64            `json:"base_price"`
	EarlyBirdPrice       *float64           `json:"early_bird_price"`
	EarlyBirdDeadline    *time.Time         `json:"early_bird_deadline"`
	IsRegistrationOpen   bool               `json:"is_registration_open"`
	RegistrationDeadline *time.Time         `json:"registration_deadline"`
	IsPublished          bool               `json:"is_published"`
	CMECredits           float64            `json:"cme_credits"`
	PricingTiers         []PricingTierInput `json:"pricing_tiers"`
}

type EventFilter struct {
	Published *bool
	Search    string
	Page      int
	PerPage   int
}

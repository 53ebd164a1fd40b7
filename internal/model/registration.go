package model

import (
	"time"

	"github.com/google/uuid"
)

type RegistrationStatus string

const (
	RegistrationPending   RegistrationStatus = "pending"
	RegistrationConfirmed RegistrationStatus = "confirmed"
	RegistrationWaitlist  RegistrationStatus = "waitlist"
	RegistrationAttended  RegistrationStatus = "attended"
	RegistrationCancelled RegistrationStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFree     PaymentStatus = "free"
	PaymentRefunded PaymentStatus = "refunded"
)

type AttendanceStatus string

const (
	AttendanceRegistered AttendanceStatus = "registered"
	AttendanceCheckedIn  AttendanceStatus = "checked_in"
)

type Registration struct {
	ID               uuid.UUID          `db:"id"                json:"id"`
	EventID          uuid.UUID          `db:"event_id"          json:"event_id"`
	Email            string             `db:"email"             json:"email"`
	FullName         string             `db:"full_name"         json:"full_name"`
	Organization     string             `db:"organization"      json:"organization"`
	Status           RegistrationStatus `db:"status"            json:"status"`
	PaymentStatus    PaymentStatus      `db:"payment_status"    json:"payment_status"`
	Amount           float64            `db:"amount"            json:"amount"`
	Currency         string             `db:"currency"          json:"currency"`
	AttendanceStatus AttendanceStatus   `db:"attendance_status" json:"attendance_status"`
	CheckedInAt      *time.Time         `db:"checked_in_at"     json:"checked_in_at"`
	UserID           *uuid.UUID         `db:"user_id"           json:"user_id"`
	RegisteredBy     *uuid.UUID         `db:"registered_by"     json:"registered_by"`
	CertificateID    *uuid.UUID         `db:"certificate_id"    json:"certificate_id"`
	CreatedAt        time.Time          `db:"created_at"        json:"created_at"`
	UpdatedAt        time.Time          `db:"updated_at"        json:"updated_at"`

	// Join fields
	EventTitle *string `db:"event_title" json:"event_title,omitempty"`
}

type CreateRegistrationRequest struct {
	EventID       string             `json:"event_id"`
	Email         string             `json:"email"`
	FullName      string             `json:"full_name"`
	Organization  string             `json:"organization"`
	Status        RegistrationStatus `json:"status"`
	PaymentStatus PaymentStatus      `json:"payment_status"`
	Amount        float64            `json:"amount"`
}

type UpdateRegistrationRequest struct {
	FullName      string              `json:"full_name"`
	Organization  string              `json:"organization"`
	Status        *RegistrationStatus `json:"status"`
	PaymentStatus *PaymentStatus      `json:"payment_status"`
}

// BulkAction is the closed set of batch transitions. Dispatch is over
// these constants only; anything else is rejected up front.
type BulkAction string

const (
	BulkConfirm      BulkAction = "confirm"
	BulkCancel       BulkAction = "cancel"
	BulkMarkAttended BulkAction = "mark_attended"
	BulkMarkPaid     BulkAction = "mark_paid"
	BulkSendEmail    BulkAction = "send_email"
)

type BulkRegistrationRequest struct {
	RegistrationIDs []string   `json:"registration_ids"`
	Action          BulkAction `json:"action"`
}

// BulkResult reports rows affected by the batched update. Emails is
// populated by send_email only, which resolves recipients and stops.
type BulkResult struct {
	Updated int64    `json:"updated"`
	Emails  []string `json:"emails,omitempty"`
}

type RegistrationFilter struct {
	EventID       string
	Status        string
	PaymentStatus string
	Search        string
	Page          int
	PerPage       int
}

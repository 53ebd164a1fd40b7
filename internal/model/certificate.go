package model

import (
	"time"

	"github.com/google/uuid"
)

type CertificateStatus string

const (
	CertificatePending CertificateStatus = "pending"
	CertificateIssued  CertificateStatus = "issued"
	CertificateRevoked CertificateStatus = "revoked"
)

// Certificate snapshots recipient and event fields at issuance time so
// the document stays stable even if the source rows change later.
type Certificate struct {
	ID               uuid.UUID         `db:"id"                 json:"id"`
	RegistrationID   uuid.UUID         `db:"registration_id"    json:"registration_id"`
	EventID          uuid.UUID         `db:"event_id"           json:"event_id"`
	Code             string            `db:"code"               json:"code"`
	Title            string            `db:"title"              json:"title"`
	RecipientName    string            `db:"recipient_name"     json:"recipient_name"`
	RecipientEmail   string            `db:"recipient_email"    json:"recipient_email"`
	EventTitle       string            `db:"event_title"        json:"event_title"`
	CMECredits       float64           `db:"cme_credits"        json:"cme_credits"`
	Status           CertificateStatus `db:"status"             json:"status"`
	IssuedAt         time.Time         `db:"issued_at"          json:"issued_at"`
	IssuedBy         *uuid.UUID        `db:"issued_by"          json:"issued_by"`
	RevokedAt        *time.Time        `db:"revoked_at"         json:"revoked_at"`
	RevokedReason    *string           `db:"revoked_reason"     json:"revoked_reason"`
	PDFURL           *string           `db:"pdf_url"            json:"pdf_url"`
	DownloadCount    int               `db:"download_count"     json:"download_count"`
	LastDownloadedAt *time.Time        `db:"last_downloaded_at" json:"last_downloaded_at"`
	CreatedAt        time.Time         `db:"created_at"         json:"created_at"`
}

type CreateCertificateRequest struct {
	RegistrationID string  `json:"registration_id"`
	Title          string  `json:"title"`       // optional, defaulted
	CMECredits     *float64 `json:"cme_credits"` // optional, defaults to event credits
}

type BulkCreateCertificateRequest struct {
	EventID         string   `json:"event_id"`
	RegistrationIDs []string `json:"registration_ids"`
	Title           string   `json:"title"`
}

type BulkCreateResult struct {
	Created int `json:"created"`
}

type RevokeCertificateRequest struct {
	Reason string `json:"reason"`
}

// PublicCertificate is the reduced view returned by the open verify
// endpoint. No internal identifiers.
type PublicCertificate struct {
	Code           string            `json:"code"`
	Title          string            `json:"title"`
	RecipientName  string            `json:"recipient_name"`
	EventTitle     string            `json:"event_title"`
	CMECredits     float64           `json:"cme_credits"`
	Status         CertificateStatus `json:"status"`
	IssuedAt       time.Time         `json:"issued_at"`
}

type VerifyResponse struct {
	Valid       bool               `json:"valid"`
	Certificate *PublicCertificate `json:"certificate,omitempty"`
}

func (c *Certificate) ToPublic() *PublicCertificate {
	return &PublicCertificate{
		Code:          c.Code,
		Title:         c.Title,
		RecipientName: c.RecipientName,
		EventTitle:    c.EventTitle,
		CMECredits:    c.CMECredits,
		Status:        c.Status,
		IssuedAt:      c.IssuedAt,
	}
}

type CertificateFilter struct {
	EventID string
	Status  string
	Search  string
	Email   string
	Page    int
	PerPage int
}

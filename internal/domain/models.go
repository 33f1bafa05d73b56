package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Subject represents a person whose disability certificate is being verified.
type Subject struct {
	ID                 uuid.UUID          `db:"id" json:"id"`
	FullName           string             `db:"full_name" json:"full_name"`
	Email              string             `db:"email" json:"email"`
	VerificationStatus VerificationStatus `db:"verification_status" json:"verification_status"`
	IsVerified         bool               `db:"is_verified" json:"is_verified"`
	CertificateData    json.RawMessage    `db:"certificate_data" json:"certificate_data,omitempty"`
	CreatedAt          time.Time          `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time          `db:"updated_at" json:"updated_at"`
}

// CertificateData is the snapshot persisted against a subject once a
// certificate has been verified. It is the only pipeline artifact that
// outlives a verification call.
type CertificateData struct {
	CertificateNumber    string    `json:"certificate_number"`
	DisabilityPercentage int       `json:"disability_percentage"`
	DisabilityType       string    `json:"disability_type,omitempty"`
	DateOfIssue          string    `json:"date_of_issue,omitempty"`
	ValidTill            string    `json:"valid_till,omitempty"`
	VerifiedAt           time.Time `json:"verified_at"`
}

// ActivityEntry is one row in a subject's activity log. The log is bounded
// to the most recent 20 entries per subject, newest first.
type ActivityEntry struct {
	ID          uuid.UUID       `db:"id" json:"id"`
	SubjectID   uuid.UUID       `db:"subject_id" json:"subject_id"`
	Action      string          `db:"action" json:"action"`
	Description string          `db:"description" json:"description"`
	Metadata    json.RawMessage `db:"metadata" json:"metadata,omitempty"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
}

// VerificationAttempt records one run of the verification pipeline for audit
// and manual-review triage.
type VerificationAttempt struct {
	ID         uuid.UUID          `db:"id" json:"id"`
	SubjectID  uuid.UUID          `db:"subject_id" json:"subject_id"`
	FileName   string             `db:"file_name" json:"file_name"`
	Status     VerificationStatus `db:"status" json:"status"`
	Reason     string             `db:"reason" json:"reason"`
	Score      int                `db:"score" json:"score"`
	Confidence float64            `db:"confidence" json:"confidence"`
	ArchiveKey string             `db:"archive_key" json:"archive_key,omitempty"`
	CreatedAt  time.Time          `db:"created_at" json:"created_at"`
}

// UploadedFile describes a certificate upload handed to the pipeline. The
// pipeline owns the temp file for the duration of the call and deletes it on
// every exit path.
type UploadedFile struct {
	Path         string
	OriginalName string
	ContentType  string
	Size         int64
}

// OCRResult is the output of one recognition attempt: recognized text
// (possibly empty) and a 0-100 confidence. Empty text with zero confidence
// is a normal output, not an error.
type OCRResult struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// VerificationOutcome is the terminal result of a verification call.
type VerificationOutcome struct {
	Status          VerificationStatus     `json:"status"`
	Success         bool                   `json:"success"`
	Message         string                 `json:"message"`
	Reason          string                 `json:"reason,omitempty"`
	Details         map[string]interface{} `json:"details,omitempty"`
	CertificateData *CertificateData       `json:"certificate_data,omitempty"`
}

package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const (
	SubmissionStatusPending   = "PENDING"
	SubmissionStatusProcessed = "PROCESSED"
	SubmissionStatusFailed    = "FAILED"
)

// RawSubmission records one emailed resume attachment and its processing
// state. The (sender, file_name, received_at) triple is the idempotency key:
// reprocessing a run must never create a second row for the same attachment.
//
// Invariant: RoutedToPipeline is true iff ApplicationID is set; the pair is
// only ever written together inside the promotion transaction.
type RawSubmission struct {
	ID               uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	TenantID         uuid.UUID      `gorm:"type:uuid;not null;index" json:"tenant_id"`
	Sender           string         `gorm:"size:255;not null;uniqueIndex:idx_submissions_fingerprint" json:"sender"`
	Subject          string         `gorm:"size:500" json:"subject"`
	ReceivedAt       time.Time      `gorm:"not null;uniqueIndex:idx_submissions_fingerprint" json:"received_at"`
	FileName         string         `gorm:"size:255;not null;uniqueIndex:idx_submissions_fingerprint" json:"file_name"`
	FileURL          string         `gorm:"size:1000" json:"file_url"`
	FileType         string         `gorm:"size:50" json:"file_type"`
	FileSize         int64          `json:"file_size"`
	Status           string         `gorm:"size:20;default:'PENDING'" json:"status"`
	ParsedText       string         `gorm:"type:text" json:"-"`
	CandidateName    string         `gorm:"size:255" json:"candidate_name"`
	CandidateEmail   string         `gorm:"size:255" json:"candidate_email"`
	CandidatePhone   string         `gorm:"size:50" json:"candidate_phone"`
	Skills           pq.StringArray `gorm:"type:text[]" json:"skills"`
	Experience       string         `gorm:"type:text" json:"experience"`
	Education        string         `gorm:"type:text" json:"education"`
	Score            int            `json:"score"`
	Analysis         string         `gorm:"type:jsonb" json:"analysis"`
	RoutedToPipeline bool           `gorm:"default:false" json:"routed_to_pipeline"`
	ApplicationID    *uuid.UUID     `gorm:"type:uuid" json:"application_id"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

func (s *RawSubmission) TableName() string {
	return "raw_submissions"
}

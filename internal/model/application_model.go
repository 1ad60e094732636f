package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const (
	StatusNew                = "NEW"
	StatusAIScreened         = "AI_SCREENED"
	StatusHRApproved         = "HR_APPROVED"
	StatusInterviewScheduled = "INTERVIEW_SCHEDULED"
	StatusHired              = "HIRED"
	StatusRejected           = "REJECTED"
)

// statusTransitions is the normal-path state machine. REJECTED and HIRED are
// terminal. NEW → AI_SCREENED is produced only by automatic scoring, never by
// a direct user action.
var statusTransitions = map[string][]string{
	StatusNew:                {StatusAIScreened},
	StatusAIScreened:         {StatusHRApproved, StatusRejected},
	StatusHRApproved:         {StatusInterviewScheduled, StatusRejected},
	StatusInterviewScheduled: {StatusHired, StatusRejected},
	StatusHired:              {},
	StatusRejected:           {},
}

// overrideTargets are the statuses a manual override may jump to from any
// non-terminal state, bypassing the normal path.
var overrideTargets = map[string]bool{
	StatusRejected:   true,
	StatusHRApproved: true,
	StatusHired:      true,
}

// ValidStatus reports whether s is a known application status.
func ValidStatus(s string) bool {
	_, ok := statusTransitions[s]
	return ok
}

// IsTerminal reports whether no transition may leave s.
func IsTerminal(s string) bool {
	return s == StatusHired || s == StatusRejected
}

// CanTransition reports whether from → to is a legal normal-path move.
func CanTransition(from, to string) bool {
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CanOverride reports whether a manual override may move from → to.
func CanOverride(from, to string) bool {
	return !IsTerminal(from) && overrideTargets[to]
}

// Application is the tracked hiring-pipeline record for one candidate/job
// pairing. Once created by promotion it is owned by the pipeline state
// machine; automatic scoring never mutates it again.
type Application struct {
	ID              uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	TenantID        uuid.UUID      `gorm:"type:uuid;not null;index" json:"tenant_id"`
	CandidateID     uuid.UUID      `gorm:"type:uuid;not null;index" json:"candidate_id"`
	Candidate       *User          `gorm:"foreignKey:CandidateID" json:"candidate,omitempty"`
	JobID           uuid.UUID      `gorm:"type:uuid;not null;index" json:"job_id"`
	Job             *Job           `gorm:"foreignKey:JobID" json:"job,omitempty"`
	Status          string         `gorm:"size:30;not null;default:'NEW';index" json:"status"`
	ResumeURL       string         `gorm:"size:1000" json:"resume_url"`
	AIScore         int            `json:"ai_score"`
	CultureFitScore int            `json:"culture_fit_score"`
	AISummary       string         `gorm:"type:text" json:"ai_summary"`
	MissingSkills   pq.StringArray `gorm:"type:text[]" json:"missing_skills"`
	Notes           string         `gorm:"type:text" json:"notes"`
	ReviewedBy      *uuid.UUID     `gorm:"type:uuid" json:"reviewed_by"`
	ReviewedAt      *time.Time     `json:"reviewed_at"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

func (a *Application) TableName() string {
	return "applications"
}

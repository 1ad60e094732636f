package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/hiredeck/hiredeck/internal/model"
)

type ApplicationDTO struct {
	ID              uuid.UUID  `json:"id"`
	CandidateID     uuid.UUID  `json:"candidate_id"`
	CandidateName   string     `json:"candidate_name,omitempty"`
	CandidateEmail  string     `json:"candidate_email,omitempty"`
	JobID           uuid.UUID  `json:"job_id"`
	JobTitle        string     `json:"job_title,omitempty"`
	Status          string     `json:"status"`
	ResumeURL       string     `json:"resume_url"`
	AIScore         int        `json:"ai_score"`
	CultureFitScore int        `json:"culture_fit_score"`
	AISummary       string     `json:"ai_summary"`
	MissingSkills   []string   `json:"missing_skills"`
	Notes           string     `json:"notes"`
	ReviewedBy      *uuid.UUID `json:"reviewed_by,omitempty"`
	ReviewedAt      *time.Time `json:"reviewed_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func NewApplicationDTO(a *model.Application) ApplicationDTO {
	d := ApplicationDTO{
		ID:              a.ID,
		CandidateID:     a.CandidateID,
		JobID:           a.JobID,
		Status:          a.Status,
		ResumeURL:       a.ResumeURL,
		AIScore:         a.AIScore,
		CultureFitScore: a.CultureFitScore,
		AISummary:       a.AISummary,
		MissingSkills:   a.MissingSkills,
		Notes:           a.Notes,
		ReviewedBy:      a.ReviewedBy,
		ReviewedAt:      a.ReviewedAt,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
	if a.Candidate != nil {
		d.CandidateName = a.Candidate.FirstName + " " + a.Candidate.LastName
		d.CandidateEmail = a.Candidate.Email
	}
	if a.Job != nil {
		d.JobTitle = a.Job.Title
	}
	return d
}

// Board groups applications by status for the Kanban view.
type Board map[string][]ApplicationDTO

func NewBoard(apps []model.Application) Board {
	board := Board{}
	for i := range apps {
		a := &apps[i]
		board[a.Status] = append(board[a.Status], NewApplicationDTO(a))
	}
	return board
}

type SubmissionDTO struct {
	ID               uuid.UUID  `json:"id"`
	Sender           string     `json:"sender"`
	Subject          string     `json:"subject"`
	ReceivedAt       time.Time  `json:"received_at"`
	FileName         string     `json:"file_name"`
	FileURL          string     `json:"file_url"`
	Status           string     `json:"status"`
	CandidateName    string     `json:"candidate_name"`
	CandidateEmail   string     `json:"candidate_email"`
	Score            int        `json:"score"`
	RoutedToPipeline bool       `json:"routed_to_pipeline"`
	ApplicationID    *uuid.UUID `json:"application_id,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

func NewSubmissionDTO(s *model.RawSubmission) SubmissionDTO {
	return SubmissionDTO{
		ID:               s.ID,
		Sender:           s.Sender,
		Subject:          s.Subject,
		ReceivedAt:       s.ReceivedAt,
		FileName:         s.FileName,
		FileURL:          s.FileURL,
		Status:           s.Status,
		CandidateName:    s.CandidateName,
		CandidateEmail:   s.CandidateEmail,
		Score:            s.Score,
		RoutedToPipeline: s.RoutedToPipeline,
		ApplicationID:    s.ApplicationID,
		CreatedAt:        s.CreatedAt,
	}
}

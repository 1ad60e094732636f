package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/hiredeck/hiredeck/internal/apperror"
	"github.com/hiredeck/hiredeck/internal/model"
)

// RouteDecision is the threshold router's outcome for one scored submission.
type RouteDecision struct {
	Promoted      bool
	ApplicationID *uuid.UUID
}

// PromotionUsecase decides whether a scored submission enters the hiring
// pipeline and, on promotion, creates the candidate and application records.
type PromotionUsecase struct {
	submissions SubmissionStore
	users       UserStore
}

func NewPromotionUsecase(submissions SubmissionStore, users UserStore) *PromotionUsecase {
	return &PromotionUsecase{submissions: submissions, users: users}
}

// Route promotes when score >= threshold (boundary inclusive). Calling it
// again for an already-routed submission is a no-op returning the existing
// application; it can never create a second one.
func (uc *PromotionUsecase) Route(ctx context.Context, sub *model.RawSubmission, job *model.Job, result *ScreeningResult, threshold int) (*RouteDecision, error) {
	if sub.RoutedToPipeline {
		return &RouteDecision{Promoted: true, ApplicationID: sub.ApplicationID}, nil
	}

	if result.Score < threshold {
		return &RouteDecision{Promoted: false}, nil
	}

	email := strings.TrimSpace(sub.CandidateEmail)
	if email == "" {
		email = sub.Sender
	}
	name := sub.CandidateName
	if name == "" {
		name = strings.SplitN(email, "@", 2)[0]
	}

	candidate, err := uc.users.FindOrCreateCandidate(ctx, sub.TenantID, email, name, sub.CandidatePhone)
	if err != nil {
		return nil, fmt.Errorf("resolve candidate: %w", err)
	}

	app := &model.Application{
		TenantID:        sub.TenantID,
		CandidateID:     candidate.ID,
		JobID:           job.ID,
		Status:          model.StatusAIScreened,
		ResumeURL:       sub.FileURL,
		AIScore:         result.Score,
		CultureFitScore: result.CultureFit,
		AISummary:       result.Summary,
		MissingSkills:   result.MissingSkills,
	}

	err = uc.submissions.Promote(ctx, sub.ID, app)
	if errors.Is(err, apperror.ErrAlreadyRouted) {
		// A concurrent run won the conditional write; report its application.
		current, findErr := uc.submissions.FindByID(ctx, sub.TenantID, sub.ID)
		if findErr != nil {
			return nil, findErr
		}
		sub.RoutedToPipeline = current.RoutedToPipeline
		sub.ApplicationID = current.ApplicationID
		return &RouteDecision{Promoted: true, ApplicationID: current.ApplicationID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("promote submission: %w", err)
	}

	sub.RoutedToPipeline = true
	sub.ApplicationID = &app.ID
	return &RouteDecision{Promoted: true, ApplicationID: &app.ID}, nil
}

package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hiredeck/hiredeck/internal/apperror"
	"github.com/hiredeck/hiredeck/internal/model"
)

// Actor is the acting identity extracted from the request token. The pipeline
// re-checks it against the user store on every transition rather than
// trusting the claims alone.
type Actor struct {
	UserID   uuid.UUID
	TenantID uuid.UUID
	Role     string
}

// PipelineUsecase owns the application status lifecycle for both normal-path
// moves and manual overrides.
type PipelineUsecase struct {
	applications ApplicationStore
	users        UserStore
}

func NewPipelineUsecase(applications ApplicationStore, users UserStore) *PipelineUsecase {
	return &PipelineUsecase{applications: applications, users: users}
}

// Get returns an application after the tenant check. A correct ID from the
// wrong tenant is AccessDenied, not NotFound, per the isolation rules.
func (uc *PipelineUsecase) Get(ctx context.Context, actor Actor, id uuid.UUID) (*model.Application, error) {
	if actor.UserID == uuid.Nil {
		return nil, apperror.ErrUnauthorized
	}
	app, err := uc.applications.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if app.TenantID != actor.TenantID {
		return nil, apperror.ErrAccessDenied
	}
	return app, nil
}

// Transition applies a manual status move. With override set, any non-terminal
// application may jump straight to REJECTED, HR_APPROVED or HIRED.
func (uc *PipelineUsecase) Transition(ctx context.Context, actor Actor, id uuid.UUID, target, notes string, override bool) (*model.Application, error) {
	if actor.UserID == uuid.Nil {
		return nil, apperror.ErrUnauthorized
	}

	user, err := uc.users.FindByID(ctx, actor.UserID)
	if err != nil {
		if err == apperror.ErrNotFound {
			return nil, apperror.ErrUnauthorized
		}
		return nil, err
	}

	app, err := uc.applications.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if user.TenantID != app.TenantID {
		return nil, apperror.ErrAccessDenied
	}
	if !user.CanManagePipeline() {
		return nil, apperror.ErrAccessDenied
	}

	if !model.ValidStatus(target) {
		return nil, fmt.Errorf("%w: unknown status %q", apperror.ErrIllegalTransition, target)
	}
	// AI_SCREENED is produced only by automatic scoring.
	if target == model.StatusAIScreened {
		return nil, fmt.Errorf("%w: %s is set by automatic screening only", apperror.ErrIllegalTransition, target)
	}

	legal := model.CanTransition(app.Status, target)
	if override {
		legal = model.CanOverride(app.Status, target)
	}
	if !legal {
		return nil, fmt.Errorf("%w: %s -> %s", apperror.ErrIllegalTransition, app.Status, target)
	}

	now := time.Now()
	if err := uc.applications.SaveTransition(ctx, app.ID, target, notes, user.ID, now); err != nil {
		return nil, fmt.Errorf("persist transition: %w", err)
	}

	app.Status = target
	app.Notes = notes
	app.ReviewedBy = &user.ID
	app.ReviewedAt = &now
	return app, nil
}

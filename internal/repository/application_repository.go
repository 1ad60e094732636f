package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hiredeck/hiredeck/internal/apperror"
	"github.com/hiredeck/hiredeck/internal/model"
)

type ApplicationRepository struct {
	db *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) *ApplicationRepository {
	return &ApplicationRepository{db}
}

func (r *ApplicationRepository) Create(ctx context.Context, app *model.Application) error {
	return r.db.WithContext(ctx).Create(app).Error
}

func (r *ApplicationRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Application, error) {
	var app model.Application
	err := r.db.WithContext(ctx).
		Preload("Candidate").
		Preload("Job").
		First(&app, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *ApplicationRepository) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]model.Application, error) {
	var apps []model.Application
	err := r.db.WithContext(ctx).
		Preload("Candidate").
		Preload("Job").
		Where("tenant_id = ?", tenantID).
		Order("created_at DESC").
		Find(&apps).Error
	return apps, err
}

// ListUnscreened returns applications still awaiting automatic scoring.
func (r *ApplicationRepository) ListUnscreened(ctx context.Context, tenantID uuid.UUID) ([]model.Application, error) {
	var apps []model.Application
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND status = ?", tenantID, model.StatusNew).
		Order("created_at ASC").
		Find(&apps).Error
	return apps, err
}

// SaveScreening persists the scoring result and the NEW → AI_SCREENED advance
// as one write. A failure here must surface as an item failure.
func (r *ApplicationRepository) SaveScreening(ctx context.Context, app *model.Application) error {
	return r.db.WithContext(ctx).Model(&model.Application{}).
		Where("id = ?", app.ID).
		Updates(map[string]any{
			"status":            model.StatusAIScreened,
			"ai_score":          app.AIScore,
			"culture_fit_score": app.CultureFitScore,
			"ai_summary":        app.AISummary,
			"missing_skills":    app.MissingSkills,
			"updated_at":        time.Now(),
		}).Error
}

// SaveTransition records a manual status move. Status, notes and the
// reviewer identity/timestamp pair are written together so concurrent
// last-write-wins updates can never split the pair.
func (r *ApplicationRepository) SaveTransition(ctx context.Context, id uuid.UUID, status, notes string, reviewedBy uuid.UUID, reviewedAt time.Time) error {
	return r.db.WithContext(ctx).Model(&model.Application{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":      status,
			"notes":       notes,
			"reviewed_by": reviewedBy,
			"reviewed_at": reviewedAt,
			"updated_at":  time.Now(),
		}).Error
}

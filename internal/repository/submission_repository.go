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

type SubmissionRepository struct {
	db *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) *SubmissionRepository {
	return &SubmissionRepository{db}
}

func (r *SubmissionRepository) Create(ctx context.Context, sub *model.RawSubmission) error {
	return r.db.WithContext(ctx).Create(sub).Error
}

func (r *SubmissionRepository) Update(ctx context.Context, sub *model.RawSubmission) error {
	return r.db.WithContext(ctx).Save(sub).Error
}

func (r *SubmissionRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*model.RawSubmission, error) {
	var sub model.RawSubmission
	err := r.db.WithContext(ctx).First(&sub, "id = ? AND tenant_id = ?", id, tenantID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// FindByFingerprint looks up the submission for the (sender, filename,
// receivedAt) idempotency triple. Returns (nil, nil) when no row exists.
func (r *SubmissionRepository) FindByFingerprint(ctx context.Context, tenantID uuid.UUID, sender, fileName string, receivedAt time.Time) (*model.RawSubmission, error) {
	var sub model.RawSubmission
	err := r.db.WithContext(ctx).
		First(&sub, "tenant_id = ? AND sender = ? AND file_name = ? AND received_at = ?",
			tenantID, sender, fileName, receivedAt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *SubmissionRepository) FindByApplicationID(ctx context.Context, applicationID uuid.UUID) (*model.RawSubmission, error) {
	var sub model.RawSubmission
	err := r.db.WithContext(ctx).First(&sub, "application_id = ?", applicationID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// ListUnscored returns stored submissions whose scoring never completed: text
// extracted, not routed, still PENDING. These are the rows a later trigger run
// must pick up again after a classifier outage.
func (r *SubmissionRepository) ListUnscored(ctx context.Context, tenantID uuid.UUID) ([]model.RawSubmission, error) {
	var subs []model.RawSubmission
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND status = ? AND routed_to_pipeline = ? AND parsed_text <> ''",
			tenantID, model.SubmissionStatusPending, false).
		Order("received_at ASC").
		Find(&subs).Error
	return subs, err
}

func (r *SubmissionRepository) ListByTenant(ctx context.Context, tenantID uuid.UUID, page, pageSize int) ([]model.RawSubmission, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	var total int64
	q := r.db.WithContext(ctx).Model(&model.RawSubmission{}).Where("tenant_id = ?", tenantID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var subs []model.RawSubmission
	err := q.Order("received_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&subs).Error
	return subs, total, err
}

// Promote creates the application and links it to the submission in one
// transaction. The conditional write on routed_to_pipeline makes promotion
// safe against concurrent runs: the second caller gets ErrAlreadyRouted and
// the second application is rolled back.
func (r *SubmissionRepository) Promote(ctx context.Context, submissionID uuid.UUID, app *model.Application) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(app).Error; err != nil {
			return err
		}

		res := tx.Model(&model.RawSubmission{}).
			Where("id = ? AND routed_to_pipeline = ?", submissionID, false).
			Updates(map[string]any{
				"routed_to_pipeline": true,
				"application_id":     app.ID,
				"updated_at":         time.Now(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperror.ErrAlreadyRouted
		}
		return nil
	})
}

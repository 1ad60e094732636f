package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"

	"github.com/hiredeck/hiredeck/internal/apperror"
	"github.com/hiredeck/hiredeck/internal/model"
)

type JobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) *JobRepository {
	return &JobRepository{db}
}

func (r *JobRepository) Create(ctx context.Context, job *model.Job) error {
	return r.db.WithContext(ctx).Create(job).Error
}

func (r *JobRepository) Update(ctx context.Context, job *model.Job) error {
	return r.db.WithContext(ctx).Save(job).Error
}

func (r *JobRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*model.Job, error) {
	var job model.Job
	err := r.db.WithContext(ctx).
		Preload("Template").
		First(&job, "id = ? AND tenant_id = ?", id, tenantID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *JobRepository) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]model.Job, error) {
	var jobs []model.Job
	err := r.db.WithContext(ctx).
		Preload("Template").
		Where("tenant_id = ?", tenantID).
		Order("created_at DESC").
		Find(&jobs).Error
	return jobs, err
}

// SearchSimilar ranks the tenant's jobs by embedding distance to the given
// vector.
func (r *JobRepository) SearchSimilar(ctx context.Context, tenantID uuid.UUID, embedding pgvector.Vector, topK int) ([]model.Job, error) {
	var jobs []model.Job
	err := r.db.WithContext(ctx).Raw(`
        SELECT *, embedding <-> ? AS distance
        FROM jobs
        WHERE tenant_id = ?
        ORDER BY embedding <-> ?
        LIMIT ?
    `, embedding, tenantID, embedding, topK).Scan(&jobs).Error
	return jobs, err
}

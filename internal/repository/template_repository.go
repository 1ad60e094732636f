package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hiredeck/hiredeck/internal/apperror"
	"github.com/hiredeck/hiredeck/internal/model"
)

type TemplateRepository struct {
	db *gorm.DB
}

func NewTemplateRepository(db *gorm.DB) *TemplateRepository {
	return &TemplateRepository{db}
}

func (r *TemplateRepository) Create(ctx context.Context, tpl *model.ScreeningTemplate) error {
	return r.db.WithContext(ctx).Create(tpl).Error
}

func (r *TemplateRepository) Update(ctx context.Context, tpl *model.ScreeningTemplate) error {
	return r.db.WithContext(ctx).Save(tpl).Error
}

func (r *TemplateRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", id, tenantID).
		Delete(&model.ScreeningTemplate{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperror.ErrNotFound
	}
	return nil
}

func (r *TemplateRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*model.ScreeningTemplate, error) {
	var tpl model.ScreeningTemplate
	err := r.db.WithContext(ctx).First(&tpl, "id = ? AND tenant_id = ?", id, tenantID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &tpl, nil
}

func (r *TemplateRepository) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]model.ScreeningTemplate, error) {
	var tpls []model.ScreeningTemplate
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("created_at DESC").
		Find(&tpls).Error
	return tpls, err
}

// FindDefault returns the tenant's default template, or (nil, nil) when the
// tenant has none.
func (r *TemplateRepository) FindDefault(ctx context.Context, tenantID uuid.UUID) (*model.ScreeningTemplate, error) {
	var tpl model.ScreeningTemplate
	err := r.db.WithContext(ctx).
		First(&tpl, "tenant_id = ? AND is_default = ?", tenantID, true).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &tpl, nil
}

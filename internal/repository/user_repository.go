package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hiredeck/hiredeck/internal/apperror"
	"github.com/hiredeck/hiredeck/internal/model"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db}
}

func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindOrCreateCandidate resolves the candidate user for an email within a
// tenant, creating one on first promotion. The unique (tenant_id, email)
// index guards against a racing create from a concurrent run; on conflict the
// existing row is re-read.
func (r *UserRepository) FindOrCreateCandidate(ctx context.Context, tenantID uuid.UUID, email, fullName, phone string) (*model.User, error) {
	existing, err := r.findCandidate(ctx, tenantID, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	first, last := model.SplitName(fullName)
	user := &model.User{
		TenantID:  tenantID,
		Email:     email,
		FirstName: first,
		LastName:  last,
		Phone:     phone,
		Role:      model.RoleCandidate,
	}
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		// Lost the race; the row exists now.
		existing, findErr := r.findCandidate(ctx, tenantID, email)
		if findErr == nil && existing != nil {
			return existing, nil
		}
		return nil, err
	}
	return user, nil
}

func (r *UserRepository) findCandidate(ctx context.Context, tenantID uuid.UUID, email string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).First(&user, "tenant_id = ? AND email = ?", tenantID, email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

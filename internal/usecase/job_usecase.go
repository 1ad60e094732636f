package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"

	"github.com/hiredeck/hiredeck/internal/apperror"
	"github.com/hiredeck/hiredeck/internal/model"
)

// JobUsecase manages a tenant's job openings and keeps their embeddings in
// sync for similarity-based intake matching.
type JobUsecase struct {
	jobs      JobStore
	templates TemplateStore
	embedder  Embedder
}

func NewJobUsecase(jobs JobStore, templates TemplateStore, embedder Embedder) *JobUsecase {
	return &JobUsecase{jobs: jobs, templates: templates, embedder: embedder}
}

// Create validates and stores a new opening. The embedding is best effort: a
// failed embedding call still creates the job, which then falls back to
// subject-line matching during intake.
func (uc *JobUsecase) Create(ctx context.Context, job *model.Job) error {
	if strings.TrimSpace(job.Title) == "" {
		return apperror.NewConfigurationError("job title is required")
	}
	if job.TemplateID != nil {
		if _, err := uc.templates.FindByID(ctx, job.TenantID, *job.TemplateID); err != nil {
			if err == apperror.ErrNotFound {
				return apperror.NewConfigurationError("screening template %s does not exist", *job.TemplateID)
			}
			return err
		}
	}

	uc.attachEmbedding(ctx, job)

	if err := uc.jobs.Create(ctx, job); err != nil {
		return fmt.Errorf("create job: %w", err)
	}
	return nil
}

func (uc *JobUsecase) List(ctx context.Context, tenantID uuid.UUID) ([]model.Job, error) {
	return uc.jobs.ListByTenant(ctx, tenantID)
}

func (uc *JobUsecase) Get(ctx context.Context, tenantID, id uuid.UUID) (*model.Job, error) {
	return uc.jobs.FindByID(ctx, tenantID, id)
}

func (uc *JobUsecase) attachEmbedding(ctx context.Context, job *model.Job) {
	if uc.embedder == nil {
		return
	}
	text := job.Title + "\n" + job.Description + "\n" + job.Requirements
	if len(job.RequiredSkills) > 0 {
		text += "\n" + strings.Join(job.RequiredSkills, ", ")
	}
	embedding, err := uc.embedder.GenerateEmbedding(ctx, text)
	if err != nil {
		slog.Warn("job embedding generation failed", "title", job.Title, "error", err)
		return
	}
	job.Embedding = pgvector.NewVector(embedding)
}

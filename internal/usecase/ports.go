package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"

	"github.com/hiredeck/hiredeck/internal/model"
	"github.com/hiredeck/hiredeck/internal/service"
)

// Collaborator ports consumed by the usecases. The concrete implementations
// live in internal/repository and internal/service; tests substitute fakes.

type Classifier interface {
	Classify(ctx context.Context, prompt string) (string, error)
}

type Embedder interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

type Mailbox interface {
	FetchUnread(ctx context.Context) ([]service.IncomingMessage, error)
	MarkProcessed(ctx context.Context, seqNum uint32) error
	Close() error
}

type AttachmentStore interface {
	Store(ctx context.Context, filename string, data []byte) (string, error)
}

type ResumeParser interface {
	Parse(data []byte, filename string) (*service.ParsedResume, error)
}

type SubmissionStore interface {
	Create(ctx context.Context, sub *model.RawSubmission) error
	Update(ctx context.Context, sub *model.RawSubmission) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*model.RawSubmission, error)
	FindByFingerprint(ctx context.Context, tenantID uuid.UUID, sender, fileName string, receivedAt time.Time) (*model.RawSubmission, error)
	FindByApplicationID(ctx context.Context, applicationID uuid.UUID) (*model.RawSubmission, error)
	ListUnscored(ctx context.Context, tenantID uuid.UUID) ([]model.RawSubmission, error)
	Promote(ctx context.Context, submissionID uuid.UUID, app *model.Application) error
}

type ApplicationStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Application, error)
	ListUnscreened(ctx context.Context, tenantID uuid.UUID) ([]model.Application, error)
	SaveScreening(ctx context.Context, app *model.Application) error
	SaveTransition(ctx context.Context, id uuid.UUID, status, notes string, reviewedBy uuid.UUID, reviewedAt time.Time) error
}

type UserStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	FindOrCreateCandidate(ctx context.Context, tenantID uuid.UUID, email, fullName, phone string) (*model.User, error)
}

type JobStore interface {
	Create(ctx context.Context, job *model.Job) error
	Update(ctx context.Context, job *model.Job) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*model.Job, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]model.Job, error)
	SearchSimilar(ctx context.Context, tenantID uuid.UUID, embedding pgvector.Vector, topK int) ([]model.Job, error)
}

type TemplateStore interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*model.ScreeningTemplate, error)
	FindDefault(ctx context.Context, tenantID uuid.UUID) (*model.ScreeningTemplate, error)
}

type TenantStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Tenant, error)
}

// Screener and Router are the pipeline steps the orchestrator drives; the
// concrete ScreeningUsecase and PromotionUsecase satisfy them.

type Screener interface {
	ScoreSubmission(ctx context.Context, sub *model.RawSubmission, job *model.Job) (*ScreeningResult, error)
}

type Router interface {
	Route(ctx context.Context, sub *model.RawSubmission, job *model.Job, result *ScreeningResult, threshold int) (*RouteDecision, error)
}

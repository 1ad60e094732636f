package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"

	"github.com/hiredeck/hiredeck/internal/apperror"
	"github.com/hiredeck/hiredeck/internal/model"
	"github.com/hiredeck/hiredeck/internal/service"
)

// In-memory fakes for the collaborator ports. They mirror the repository
// semantics the usecases rely on, including the conditional promote write.

type fakeSubmissions struct {
	byID    map[uuid.UUID]*model.RawSubmission
	apps    []*model.Application
	updates int
}

func newFakeSubmissions() *fakeSubmissions {
	return &fakeSubmissions{byID: map[uuid.UUID]*model.RawSubmission{}}
}

func (f *fakeSubmissions) Create(_ context.Context, sub *model.RawSubmission) error {
	if sub.ID == uuid.Nil {
		sub.ID = uuid.New()
	}
	f.byID[sub.ID] = sub
	return nil
}

func (f *fakeSubmissions) Update(_ context.Context, sub *model.RawSubmission) error {
	f.updates++
	f.byID[sub.ID] = sub
	return nil
}

func (f *fakeSubmissions) FindByID(_ context.Context, tenantID, id uuid.UUID) (*model.RawSubmission, error) {
	sub, ok := f.byID[id]
	if !ok || sub.TenantID != tenantID {
		return nil, apperror.ErrNotFound
	}
	return sub, nil
}

func (f *fakeSubmissions) FindByFingerprint(_ context.Context, tenantID uuid.UUID, sender, fileName string, receivedAt time.Time) (*model.RawSubmission, error) {
	for _, sub := range f.byID {
		if sub.TenantID == tenantID && sub.Sender == sender && sub.FileName == fileName && sub.ReceivedAt.Equal(receivedAt) {
			return sub, nil
		}
	}
	return nil, nil
}

func (f *fakeSubmissions) FindByApplicationID(_ context.Context, applicationID uuid.UUID) (*model.RawSubmission, error) {
	for _, sub := range f.byID {
		if sub.ApplicationID != nil && *sub.ApplicationID == applicationID {
			return sub, nil
		}
	}
	return nil, apperror.ErrNotFound
}

func (f *fakeSubmissions) ListUnscored(_ context.Context, tenantID uuid.UUID) ([]model.RawSubmission, error) {
	var out []model.RawSubmission
	for _, sub := range f.byID {
		if sub.TenantID == tenantID && sub.Status == model.SubmissionStatusPending &&
			!sub.RoutedToPipeline && sub.ParsedText != "" {
			out = append(out, *sub)
		}
	}
	return out, nil
}

func (f *fakeSubmissions) Promote(_ context.Context, submissionID uuid.UUID, app *model.Application) error {
	sub, ok := f.byID[submissionID]
	if !ok {
		return apperror.ErrNotFound
	}
	if sub.RoutedToPipeline {
		return apperror.ErrAlreadyRouted
	}
	if app.ID == uuid.Nil {
		app.ID = uuid.New()
	}
	f.apps = append(f.apps, app)
	sub.RoutedToPipeline = true
	sub.ApplicationID = &app.ID
	return nil
}

type fakeUsers struct {
	byID map[uuid.UUID]*model.User
}

func newFakeUsers(users ...*model.User) *fakeUsers {
	f := &fakeUsers{byID: map[uuid.UUID]*model.User{}}
	for _, u := range users {
		if u.ID == uuid.Nil {
			u.ID = uuid.New()
		}
		f.byID[u.ID] = u
	}
	return f
}

func (f *fakeUsers) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, apperror.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) FindOrCreateCandidate(_ context.Context, tenantID uuid.UUID, email, fullName, phone string) (*model.User, error) {
	for _, u := range f.byID {
		if u.TenantID == tenantID && u.Email == email {
			return u, nil
		}
	}
	first, last := model.SplitName(fullName)
	u := &model.User{
		ID:        uuid.New(),
		TenantID:  tenantID,
		Email:     email,
		FirstName: first,
		LastName:  last,
		Phone:     phone,
		Role:      model.RoleCandidate,
	}
	f.byID[u.ID] = u
	return u, nil
}

type fakeApplications struct {
	byID map[uuid.UUID]*model.Application
}

func newFakeApplications(apps ...*model.Application) *fakeApplications {
	f := &fakeApplications{byID: map[uuid.UUID]*model.Application{}}
	for _, a := range apps {
		if a.ID == uuid.Nil {
			a.ID = uuid.New()
		}
		f.byID[a.ID] = a
	}
	return f
}

func (f *fakeApplications) FindByID(_ context.Context, id uuid.UUID) (*model.Application, error) {
	a, ok := f.byID[id]
	if !ok {
		return nil, apperror.ErrNotFound
	}
	return a, nil
}

func (f *fakeApplications) ListUnscreened(_ context.Context, tenantID uuid.UUID) ([]model.Application, error) {
	var out []model.Application
	for _, a := range f.byID {
		if a.TenantID == tenantID && a.Status == model.StatusNew {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeApplications) SaveScreening(_ context.Context, app *model.Application) error {
	stored, ok := f.byID[app.ID]
	if !ok {
		return apperror.ErrNotFound
	}
	stored.Status = model.StatusAIScreened
	stored.AIScore = app.AIScore
	stored.CultureFitScore = app.CultureFitScore
	stored.AISummary = app.AISummary
	stored.MissingSkills = app.MissingSkills
	return nil
}

func (f *fakeApplications) SaveTransition(_ context.Context, id uuid.UUID, status, notes string, reviewedBy uuid.UUID, reviewedAt time.Time) error {
	stored, ok := f.byID[id]
	if !ok {
		return apperror.ErrNotFound
	}
	stored.Status = status
	stored.Notes = notes
	stored.ReviewedBy = &reviewedBy
	stored.ReviewedAt = &reviewedAt
	return nil
}

type fakeJobs struct {
	jobs []*model.Job
}

func newFakeJobs(jobs ...*model.Job) *fakeJobs {
	for _, j := range jobs {
		if j.ID == uuid.Nil {
			j.ID = uuid.New()
		}
	}
	return &fakeJobs{jobs: jobs}
}

func (f *fakeJobs) Create(_ context.Context, job *model.Job) error {
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}
	f.jobs = append(f.jobs, job)
	return nil
}

func (f *fakeJobs) Update(_ context.Context, job *model.Job) error {
	for i, j := range f.jobs {
		if j.ID == job.ID {
			f.jobs[i] = job
			return nil
		}
	}
	return apperror.ErrNotFound
}

func (f *fakeJobs) FindByID(_ context.Context, tenantID, id uuid.UUID) (*model.Job, error) {
	for _, j := range f.jobs {
		if j.ID == id && j.TenantID == tenantID {
			return j, nil
		}
	}
	return nil, apperror.ErrNotFound
}

func (f *fakeJobs) ListByTenant(_ context.Context, tenantID uuid.UUID) ([]model.Job, error) {
	var out []model.Job
	for _, j := range f.jobs {
		if j.TenantID == tenantID {
			out = append(out, *j)
		}
	}
	return out, nil
}

func (f *fakeJobs) SearchSimilar(_ context.Context, tenantID uuid.UUID, _ pgvector.Vector, topK int) ([]model.Job, error) {
	out, _ := f.ListByTenant(context.Background(), tenantID)
	if len(out) > topK {
		out = out[:topK]
	}
	return out, nil
}

type fakeTemplates struct {
	byID       map[uuid.UUID]*model.ScreeningTemplate
	defaultTpl *model.ScreeningTemplate
}

func newFakeTemplates(defaultTpl *model.ScreeningTemplate, others ...*model.ScreeningTemplate) *fakeTemplates {
	f := &fakeTemplates{byID: map[uuid.UUID]*model.ScreeningTemplate{}, defaultTpl: defaultTpl}
	if defaultTpl != nil {
		if defaultTpl.ID == uuid.Nil {
			defaultTpl.ID = uuid.New()
		}
		f.byID[defaultTpl.ID] = defaultTpl
	}
	for _, tpl := range others {
		if tpl.ID == uuid.Nil {
			tpl.ID = uuid.New()
		}
		f.byID[tpl.ID] = tpl
	}
	return f
}

func (f *fakeTemplates) FindByID(_ context.Context, tenantID, id uuid.UUID) (*model.ScreeningTemplate, error) {
	tpl, ok := f.byID[id]
	if !ok || tpl.TenantID != tenantID {
		return nil, apperror.ErrNotFound
	}
	return tpl, nil
}

func (f *fakeTemplates) FindDefault(_ context.Context, tenantID uuid.UUID) (*model.ScreeningTemplate, error) {
	if f.defaultTpl != nil && f.defaultTpl.TenantID == tenantID {
		return f.defaultTpl, nil
	}
	return nil, nil
}

type fakeTenants struct {
	byID map[uuid.UUID]*model.Tenant
}

func newFakeTenants(tenants ...*model.Tenant) *fakeTenants {
	f := &fakeTenants{byID: map[uuid.UUID]*model.Tenant{}}
	for _, t := range tenants {
		if t.ID == uuid.Nil {
			t.ID = uuid.New()
		}
		f.byID[t.ID] = t
	}
	return f
}

func (f *fakeTenants) FindByID(_ context.Context, id uuid.UUID) (*model.Tenant, error) {
	t, ok := f.byID[id]
	if !ok {
		return nil, apperror.ErrNotFound
	}
	return t, nil
}

type fakeClassifier struct {
	response string
	err      error
	calls    int
}

func (f *fakeClassifier) Classify(_ context.Context, _ string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

type fakeMailbox struct {
	messages []service.IncomingMessage
	err      error
	marked   []uint32
}

func (f *fakeMailbox) FetchUnread(_ context.Context) ([]service.IncomingMessage, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.messages, nil
}

func (f *fakeMailbox) MarkProcessed(_ context.Context, seqNum uint32) error {
	f.marked = append(f.marked, seqNum)
	return nil
}

func (f *fakeMailbox) Close() error { return nil }

type fakeAttachments struct {
	failFor map[string]bool
	stored  []string
}

func (f *fakeAttachments) Store(_ context.Context, filename string, _ []byte) (string, error) {
	if f.failFor[filename] {
		return "", &apperror.StorageError{Filename: filename, Err: fmt.Errorf("bucket unavailable")}
	}
	f.stored = append(f.stored, filename)
	return "https://storage.local/resumes/" + filename, nil
}

func classifierJSON(score, cultureFit int) string {
	return fmt.Sprintf(`{"score": %d, "culture_fit": %d, "summary": "solid candidate", "missing_skills": ["Kubernetes"], "strengths": ["Go"], "concerns": []}`, score, cultureFit)
}

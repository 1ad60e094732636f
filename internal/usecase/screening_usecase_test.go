package usecase

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/hiredeck/hiredeck/internal/apperror"
	"github.com/hiredeck/hiredeck/internal/model"
)

func TestScoreSubmissionPersistsResult(t *testing.T) {
	tenantID := uuid.New()
	tpl := &model.ScreeningTemplate{TenantID: tenantID, Name: "default", IsDefault: true}
	templates := newFakeTemplates(tpl)
	subs := newFakeSubmissions()

	sub := &model.RawSubmission{TenantID: tenantID, ParsedText: "resume text", Status: model.SubmissionStatusPending}
	_ = subs.Create(context.Background(), sub)

	job := &model.Job{ID: uuid.New(), TenantID: tenantID, Title: "Backend Engineer"}
	classifier := &fakeClassifier{response: classifierJSON(82, 75)}

	uc := NewScreeningUsecase(classifier, templates, subs, newFakeApplications(), newFakeJobs(job), 2)

	result, err := uc.ScoreSubmission(context.Background(), sub, job)
	if err != nil {
		t.Fatalf("ScoreSubmission() error = %v", err)
	}
	if result.Score != 82 || result.CultureFit != 75 {
		t.Errorf("result = (%d, %d), want (82, 75)", result.Score, result.CultureFit)
	}
	if sub.Status != model.SubmissionStatusProcessed {
		t.Errorf("status = %s, want %s", sub.Status, model.SubmissionStatusProcessed)
	}
	if sub.Score != 82 {
		t.Errorf("persisted score = %d, want 82", sub.Score)
	}
	if subs.updates != 1 {
		t.Errorf("updates = %d, want 1", subs.updates)
	}
}

func TestScoreSubmissionInvalidResponseLeavesStateUntouched(t *testing.T) {
	tenantID := uuid.New()
	tpl := &model.ScreeningTemplate{TenantID: tenantID, IsDefault: true}
	subs := newFakeSubmissions()

	sub := &model.RawSubmission{TenantID: tenantID, ParsedText: "resume", Status: model.SubmissionStatusPending}
	_ = subs.Create(context.Background(), sub)

	job := &model.Job{ID: uuid.New(), TenantID: tenantID, Title: "Backend Engineer"}

	tests := []struct {
		name     string
		response string
	}{
		{"not JSON at all", "I think this candidate is great!"},
		{"missing score", `{"culture_fit": 80, "summary": "ok"}`},
		{"score not numeric", `{"score": "eighty", "culture_fit": 80}`},
		{"missing culture_fit", `{"score": 80}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			classifier := &fakeClassifier{response: tt.response}
			uc := NewScreeningUsecase(classifier, newFakeTemplates(tpl), subs, newFakeApplications(), newFakeJobs(job), 2)

			_, err := uc.ScoreSubmission(context.Background(), sub, job)
			if !apperror.IsInvalidResponse(err) {
				t.Fatalf("ScoreSubmission() error = %v, want InvalidResponseError", err)
			}
			if sub.Status != model.SubmissionStatusPending {
				t.Errorf("status = %s, want %s", sub.Status, model.SubmissionStatusPending)
			}
			if subs.updates != 0 {
				t.Errorf("updates = %d, want 0", subs.updates)
			}
		})
	}
}

func TestScoreSubmissionNoTemplateConfigured(t *testing.T) {
	tenantID := uuid.New()
	subs := newFakeSubmissions()
	sub := &model.RawSubmission{TenantID: tenantID, ParsedText: "resume"}
	_ = subs.Create(context.Background(), sub)

	job := &model.Job{ID: uuid.New(), TenantID: tenantID, Title: "Backend Engineer"}
	classifier := &fakeClassifier{response: classifierJSON(90, 90)}

	uc := NewScreeningUsecase(classifier, newFakeTemplates(nil), subs, newFakeApplications(), newFakeJobs(job), 2)

	_, err := uc.ScoreSubmission(context.Background(), sub, job)
	if !apperror.IsConfiguration(err) {
		t.Fatalf("ScoreSubmission() error = %v, want ConfigurationError", err)
	}
	if classifier.calls != 0 {
		t.Errorf("classifier called %d times before template resolution failed", classifier.calls)
	}
}

func TestScoreSubmissionJobTemplateBeatsDefault(t *testing.T) {
	tenantID := uuid.New()
	defaultTpl := &model.ScreeningTemplate{TenantID: tenantID, SystemPrompt: "DEFAULT PROMPT", IsDefault: true}
	jobTpl := &model.ScreeningTemplate{TenantID: tenantID, SystemPrompt: "JOB PROMPT"}
	templates := newFakeTemplates(defaultTpl, jobTpl)

	subs := newFakeSubmissions()
	sub := &model.RawSubmission{TenantID: tenantID, ParsedText: "resume"}
	_ = subs.Create(context.Background(), sub)

	job := &model.Job{ID: uuid.New(), TenantID: tenantID, Title: "Backend Engineer", TemplateID: &jobTpl.ID}

	var captured string
	classifier := &capturingClassifier{response: classifierJSON(50, 50), captured: &captured}
	uc := NewScreeningUsecase(classifier, templates, subs, newFakeApplications(), newFakeJobs(job), 2)

	if _, err := uc.ScoreSubmission(context.Background(), sub, job); err != nil {
		t.Fatalf("ScoreSubmission() error = %v", err)
	}
	if captured == "" || !strings.Contains(captured, "JOB PROMPT") || strings.Contains(captured, "DEFAULT PROMPT") {
		t.Errorf("prompt used wrong template: %q", captured)
	}
}

type capturingClassifier struct {
	response string
	captured *string
}

func (c *capturingClassifier) Classify(_ context.Context, prompt string) (string, error) {
	*c.captured = prompt
	return c.response, nil
}

func TestParseScreeningResultRounding(t *testing.T) {
	result, err := parseScreeningResult(`{"score": 79.6, "culture_fit": 70.2}`)
	if err != nil {
		t.Fatalf("parseScreeningResult() error = %v", err)
	}
	if result.Score != 80 {
		t.Errorf("Score = %d, want 80", result.Score)
	}
	if result.CultureFit != 70 {
		t.Errorf("CultureFit = %d, want 70", result.CultureFit)
	}
}

func TestParseScreeningResultStripsCodeFence(t *testing.T) {
	raw := "```json\n" + classifierJSON(65, 60) + "\n```"
	result, err := parseScreeningResult(raw)
	if err != nil {
		t.Fatalf("parseScreeningResult() error = %v", err)
	}
	if result.Score != 65 {
		t.Errorf("Score = %d, want 65", result.Score)
	}
	if len(result.MissingSkills) != 1 || result.MissingSkills[0] != "Kubernetes" {
		t.Errorf("MissingSkills = %v", result.MissingSkills)
	}
}

func TestScoreBatchSettlesAllItems(t *testing.T) {
	tenantID := uuid.New()
	tpl := &model.ScreeningTemplate{TenantID: tenantID, IsDefault: true}
	job := &model.Job{ID: uuid.New(), TenantID: tenantID, Title: "Backend Engineer"}

	subs := newFakeSubmissions()
	apps := newFakeApplications()
	var appIDs []uuid.UUID
	for i := 0; i < 3; i++ {
		app := &model.Application{ID: uuid.New(), TenantID: tenantID, JobID: job.ID, Status: model.StatusNew}
		apps.byID[app.ID] = app
		appIDs = append(appIDs, app.ID)
	}
	// Only two applications have source submissions; the third must fail
	// without disturbing the others.
	for i := 0; i < 2; i++ {
		sub := &model.RawSubmission{TenantID: tenantID, ParsedText: "resume", ApplicationID: &appIDs[i]}
		_ = subs.Create(context.Background(), sub)
	}

	classifier := &fakeClassifier{response: classifierJSON(88, 80)}
	uc := NewScreeningUsecase(classifier, newFakeTemplates(tpl), subs, apps, newFakeJobs(job), 2)

	report, err := uc.ScoreBatch(context.Background(), tenantID)
	if err != nil {
		t.Fatalf("ScoreBatch() error = %v", err)
	}
	if report.Scored != 2 || report.Failed != 1 {
		t.Errorf("report = (%d scored, %d failed), want (2, 1)", report.Scored, report.Failed)
	}
	if len(report.Results) != 3 {
		t.Errorf("results = %d, want 3", len(report.Results))
	}
}

package usecase

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"github.com/hiredeck/hiredeck/internal/apperror"
	"github.com/hiredeck/hiredeck/internal/dto"
	"github.com/hiredeck/hiredeck/internal/model"
)

// ScreeningResult is the validated classifier output for one resume, scores
// already rounded to integers.
type ScreeningResult struct {
	Score         int
	CultureFit    int
	Summary       string
	MissingSkills []string
	Strengths     []string
	Concerns      []string
	Raw           string
}

// ScreeningUsecase scores resume text against a job's requirements using the
// external classifier and the job's effective screening template.
type ScreeningUsecase struct {
	classifier   Classifier
	templates    TemplateStore
	submissions  SubmissionStore
	applications ApplicationStore
	jobs         JobStore
	concurrency  int
}

func NewScreeningUsecase(classifier Classifier, templates TemplateStore, submissions SubmissionStore, applications ApplicationStore, jobs JobStore, concurrency int) *ScreeningUsecase {
	if concurrency < 1 {
		concurrency = 4
	}
	return &ScreeningUsecase{
		classifier:   classifier,
		templates:    templates,
		submissions:  submissions,
		applications: applications,
		jobs:         jobs,
		concurrency:  concurrency,
	}
}

// resolveTemplateForJob fetches the job's own template and the tenant default
// and applies the fallback order. A job with no template in a tenant with no
// default halts scoring for that job only.
func (uc *ScreeningUsecase) resolveTemplateForJob(ctx context.Context, job *model.Job) (*model.ScreeningTemplate, error) {
	jobTpl := job.Template
	if jobTpl == nil && job.TemplateID != nil {
		tpl, err := uc.templates.FindByID(ctx, job.TenantID, *job.TemplateID)
		if err != nil && err != apperror.ErrNotFound {
			return nil, err
		}
		jobTpl = tpl
	}

	tenantDefault, err := uc.templates.FindDefault(ctx, job.TenantID)
	if err != nil {
		return nil, err
	}

	tpl, ok := model.ResolveTemplate(jobTpl, tenantDefault)
	if !ok {
		return nil, apperror.NewConfigurationError(
			"job %q has no screening template and the tenant has no default template", job.Title)
	}
	return tpl, nil
}

// ScoreSubmission runs the classifier for one submission and persists the
// result together with the PENDING → PROCESSED advance. An invalid response
// leaves the submission's persisted state untouched.
func (uc *ScreeningUsecase) ScoreSubmission(ctx context.Context, sub *model.RawSubmission, job *model.Job) (*ScreeningResult, error) {
	tpl, err := uc.resolveTemplateForJob(ctx, job)
	if err != nil {
		return nil, err
	}

	raw, err := uc.classifier.Classify(ctx, buildPrompt(job, tpl, sub.ParsedText))
	if err != nil {
		return nil, err
	}

	result, err := parseScreeningResult(raw)
	if err != nil {
		return nil, err
	}

	sub.Score = result.Score
	sub.Analysis = result.Raw
	sub.Status = model.SubmissionStatusProcessed
	if err := uc.submissions.Update(ctx, sub); err != nil {
		return nil, fmt.Errorf("persist screening result: %w", err)
	}
	return result, nil
}

// ScoreApplication scores one not-yet-screened application using the resume
// text of its originating submission.
func (uc *ScreeningUsecase) ScoreApplication(ctx context.Context, app *model.Application) (*ScreeningResult, error) {
	if app.Status != model.StatusNew {
		return nil, fmt.Errorf("%w: application %s is already %s", apperror.ErrIllegalTransition, app.ID, app.Status)
	}

	job, err := uc.jobs.FindByID(ctx, app.TenantID, app.JobID)
	if err != nil {
		return nil, err
	}
	sub, err := uc.submissions.FindByApplicationID(ctx, app.ID)
	if err != nil {
		return nil, fmt.Errorf("no submission text for application %s: %w", app.ID, err)
	}

	tpl, err := uc.resolveTemplateForJob(ctx, job)
	if err != nil {
		return nil, err
	}

	raw, err := uc.classifier.Classify(ctx, buildPrompt(job, tpl, sub.ParsedText))
	if err != nil {
		return nil, err
	}
	result, err := parseScreeningResult(raw)
	if err != nil {
		return nil, err
	}

	app.AIScore = result.Score
	app.CultureFitScore = result.CultureFit
	app.AISummary = result.Summary
	app.MissingSkills = result.MissingSkills
	if err := uc.applications.SaveScreening(ctx, app); err != nil {
		return nil, fmt.Errorf("persist screening result: %w", err)
	}
	app.Status = model.StatusAIScreened
	return result, nil
}

// ScoreBatch fans scoring calls out over the tenant's unscreened applications
// with bounded parallelism. Every item settles; one failing call never
// cancels the others.
func (uc *ScreeningUsecase) ScoreBatch(ctx context.Context, tenantID uuid.UUID) (*dto.BatchReport, error) {
	apps, err := uc.applications.ListUnscreened(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	results := make([]dto.BatchItemResult, len(apps))
	sem := make(chan struct{}, uc.concurrency)
	var wg sync.WaitGroup

	for i := range apps {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			app := apps[i]
			res, err := uc.ScoreApplication(ctx, &app)
			if err != nil {
				results[i] = dto.BatchItemResult{ApplicationID: app.ID, Error: err.Error()}
				return
			}
			score := res.Score
			results[i] = dto.BatchItemResult{ApplicationID: app.ID, Score: &score}
		}(i)
	}
	wg.Wait()

	report := &dto.BatchReport{Results: results}
	for _, r := range results {
		if r.Error != "" {
			report.Failed++
		} else {
			report.Scored++
		}
	}
	return report, nil
}

// buildPrompt embeds the job posting and the screening rubric and instructs
// the classifier to answer with exactly the six-field scoring schema.
func buildPrompt(job *model.Job, tpl *model.ScreeningTemplate, resumeText string) string {
	var b strings.Builder

	if tpl.SystemPrompt != "" {
		b.WriteString(tpl.SystemPrompt)
		b.WriteString("\n\n")
	} else {
		b.WriteString("You are an experienced technical recruiter screening a resume for a job opening.\n\n")
	}

	fmt.Fprintf(&b, "Job title: %s\n", job.Title)
	if job.Description != "" {
		fmt.Fprintf(&b, "Job description:\n%s\n", job.Description)
	}
	if job.Requirements != "" {
		fmt.Fprintf(&b, "Requirements:\n%s\n", job.Requirements)
	}
	if len(job.RequiredSkills) > 0 {
		fmt.Fprintf(&b, "Required skills: %s\n", strings.Join(job.RequiredSkills, ", "))
	}
	if len(tpl.CulturalValues) > 0 {
		fmt.Fprintf(&b, "Company cultural values: %s\n", strings.Join(tpl.CulturalValues, ", "))
	}
	if tpl.EvaluationCriteria != "" && tpl.EvaluationCriteria != "{}" {
		fmt.Fprintf(&b, "Weighted evaluation criteria (criterion: weight): %s\n", tpl.EvaluationCriteria)
	}
	fmt.Fprintf(&b, "Weighting: %d%% technical fit, %d%% cultural fit.\n", tpl.TechnicalWeight, tpl.CulturalWeight)

	b.WriteString(`
Evaluate the resume below against this job.

Return your answer STRICTLY as JSON with exactly these fields and nothing else:
{
  "score": <integer 0-100, overall match against the job requirements>,
  "culture_fit": <integer 0-100, fit with the cultural values>,
  "summary": "<3-4 sentence summary of the candidate>",
  "missing_skills": ["<required skill the resume does not show>", ...],
  "strengths": ["<notable strength>", ...],
  "concerns": ["<notable concern>", ...]
}

Resume:
`)
	b.WriteString(resumeText)
	return b.String()
}

// parseScreeningResult validates the classifier output against the expected
// schema. Both score and culture_fit must be present and numeric; any other
// shape is an InvalidResponseError and is never retried.
func parseScreeningResult(raw string) (*ScreeningResult, error) {
	clean := extractJSONBlock(raw)
	if !gjson.Valid(clean) {
		return nil, &apperror.InvalidResponseError{Reason: "output is not valid JSON"}
	}

	score := gjson.Get(clean, "score")
	if !score.Exists() || score.Type != gjson.Number {
		return nil, &apperror.InvalidResponseError{Reason: "score is missing or not numeric"}
	}
	cultureFit := gjson.Get(clean, "culture_fit")
	if !cultureFit.Exists() || cultureFit.Type != gjson.Number {
		return nil, &apperror.InvalidResponseError{Reason: "culture_fit is missing or not numeric"}
	}

	return &ScreeningResult{
		Score:         int(math.Round(score.Float())),
		CultureFit:    int(math.Round(cultureFit.Float())),
		Summary:       gjson.Get(clean, "summary").String(),
		MissingSkills: stringSlice(gjson.Get(clean, "missing_skills")),
		Strengths:     stringSlice(gjson.Get(clean, "strengths")),
		Concerns:      stringSlice(gjson.Get(clean, "concerns")),
		Raw:           clean,
	}, nil
}

// extractJSONBlock strips markdown code fences and any prose around the JSON
// object. Classifiers regularly wrap their answer despite instructions.
func extractJSONBlock(raw string) string {
	raw = strings.TrimSpace(raw)
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start >= 0 && end > start {
		return raw[start : end+1]
	}
	return raw
}

func stringSlice(result gjson.Result) []string {
	if !result.IsArray() {
		return nil
	}
	var out []string
	for _, v := range result.Array() {
		if s := v.String(); s != "" {
			out = append(out, s)
		}
	}
	return out
}

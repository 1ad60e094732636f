package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"

	"github.com/hiredeck/hiredeck/internal/apperror"
	"github.com/hiredeck/hiredeck/internal/config"
	"github.com/hiredeck/hiredeck/internal/dto"
	"github.com/hiredeck/hiredeck/internal/model"
	"github.com/hiredeck/hiredeck/internal/service"
)

// IngestionUsecase drives one full intake run: poll the mailbox, store and
// record every attachment, parse, score and route each resume, then mark the
// source messages read.
type IngestionUsecase struct {
	mailbox     Mailbox
	attachments AttachmentStore
	parser      ResumeParser
	submissions SubmissionStore
	jobs        JobStore
	tenants     TenantStore
	embedder    Embedder
	screener    Screener
	router      Router
	cfg         *config.IngestConfig
}

func NewIngestionUsecase(
	mailbox Mailbox,
	attachments AttachmentStore,
	parser ResumeParser,
	submissions SubmissionStore,
	jobs JobStore,
	tenants TenantStore,
	embedder Embedder,
	screener Screener,
	router Router,
	cfg *config.IngestConfig,
) *IngestionUsecase {
	return &IngestionUsecase{
		mailbox:     mailbox,
		attachments: attachments,
		parser:      parser,
		submissions: submissions,
		jobs:        jobs,
		tenants:     tenants,
		embedder:    embedder,
		screener:    screener,
		router:      router,
		cfg:         cfg,
	}
}

// Run executes one ingestion cycle and reports per-attachment outcomes. A
// message is only marked read once every attachment it carries has been
// durably stored and recorded; transient failures leave it unread for the
// next run, and the fingerprint index keeps the rerun from double-recording.
func (uc *IngestionUsecase) Run(ctx context.Context) (*dto.RunReport, error) {
	tenantID, err := uuid.Parse(uc.cfg.TenantID)
	if err != nil {
		return nil, apperror.NewConfigurationError("INGEST_TENANT_ID is not a valid UUID")
	}
	tenant, err := uc.tenants.FindByID(ctx, tenantID)
	if err != nil {
		if err == apperror.ErrNotFound {
			return nil, apperror.NewConfigurationError("ingest tenant %s does not exist", tenantID)
		}
		return nil, err
	}
	threshold := tenant.Settings().PromoteThreshold

	messages, err := uc.mailbox.FetchUnread(ctx)
	if err != nil {
		return nil, err
	}

	report := &dto.RunReport{EmailsChecked: len(messages)}
	seen := map[uuid.UUID]bool{}

	for _, msg := range messages {
		allStored := true
		for _, att := range msg.Attachments {
			item, stored, subID := uc.processAttachment(ctx, tenant, threshold, &msg, att)
			report.Results = append(report.Results, item)
			if subID != uuid.Nil {
				seen[subID] = true
			}
			if item.Outcome != dto.OutcomeDuplicate {
				report.CvsProcessed++
			}
			if !stored {
				allStored = false
			}
		}

		if allStored {
			if err := uc.mailbox.MarkProcessed(ctx, msg.SeqNum); err != nil {
				slog.Warn("failed to mark message read", "seq", msg.SeqNum, "error", err)
			}
		} else {
			slog.Warn("leaving message unread for retry", "seq", msg.SeqNum, "sender", msg.Sender)
		}
	}

	uc.retryUnscored(ctx, tenant, threshold, seen, report)

	return report, nil
}

// retryUnscored re-scores submissions whose source message is already read
// but whose scoring never completed on an earlier run. Without this sweep a
// classifier outage would strand them PENDING forever.
func (uc *IngestionUsecase) retryUnscored(ctx context.Context, tenant *model.Tenant, threshold int, seen map[uuid.UUID]bool, report *dto.RunReport) {
	pending, err := uc.submissions.ListUnscored(ctx, tenant.ID)
	if err != nil {
		slog.Warn("cannot list unscored submissions", "error", err)
		return
	}

	for i := range pending {
		sub := &pending[i]
		if seen[sub.ID] {
			continue
		}

		item := dto.ItemResult{Filename: sub.FileName}
		report.CvsProcessed++

		job, err := uc.resolveJob(ctx, tenant.ID, sub.Subject, sub.ParsedText)
		if err != nil {
			item.Outcome = dto.OutcomeError
			item.Error = err.Error()
			report.Results = append(report.Results, item)
			continue
		}

		result, err := uc.screener.ScoreSubmission(ctx, sub, job)
		if err != nil {
			item.Outcome = dto.OutcomeError
			item.Error = err.Error()
			report.Results = append(report.Results, item)
			continue
		}

		decision, err := uc.router.Route(ctx, sub, job, result, threshold)
		if err != nil {
			item.Outcome = dto.OutcomeError
			item.Error = err.Error()
			report.Results = append(report.Results, item)
			continue
		}

		score := result.Score
		item.Score = &score
		item.Routed = &decision.Promoted
		if decision.Promoted {
			item.Outcome = dto.OutcomeRouted
			item.ApplicationID = decision.ApplicationID
		} else {
			item.Outcome = dto.OutcomeHeld
		}
		report.Results = append(report.Results, item)
	}
}

// processAttachment handles one attachment end to end. The stored return says
// whether the attachment bytes are durably recorded; only a message whose
// attachments are all stored may be marked read. subID identifies the
// submission row this attachment touched, so the unscored sweep can skip it.
func (uc *IngestionUsecase) processAttachment(ctx context.Context, tenant *model.Tenant, threshold int, msg *service.IncomingMessage, att service.EmailAttachment) (item dto.ItemResult, stored bool, subID uuid.UUID) {
	item = dto.ItemResult{Filename: att.Filename}

	defer func() {
		if r := recover(); r != nil {
			slog.Error("attachment processing panicked", "filename", att.Filename, "panic", r)
			item.Outcome = dto.OutcomeError
			item.Error = fmt.Sprintf("internal error: %v", r)
		}
	}()

	if att.Size > uc.cfg.MaxAttachmentSize {
		item.Outcome = dto.OutcomeError
		item.Error = fmt.Sprintf("attachment exceeds size limit of %d bytes", uc.cfg.MaxAttachmentSize)
		// Policy rejection, not a transient failure; do not hold the message.
		return item, true, uuid.Nil
	}

	// Fingerprint check first so reruns never duplicate work or storage.
	existing, err := uc.submissions.FindByFingerprint(ctx, tenant.ID, msg.Sender, att.Filename, msg.ReceivedAt)
	if err != nil {
		item.Outcome = dto.OutcomeError
		item.Error = err.Error()
		return item, false, uuid.Nil
	}
	if existing != nil && existing.Status == model.SubmissionStatusProcessed {
		item.Outcome = dto.OutcomeDuplicate
		item.ApplicationID = existing.ApplicationID
		routed := existing.RoutedToPipeline
		item.Routed = &routed
		return item, true, existing.ID
	}

	sub := existing
	if sub == nil {
		sub = &model.RawSubmission{
			TenantID:   tenant.ID,
			Sender:     msg.Sender,
			Subject:    msg.Subject,
			ReceivedAt: msg.ReceivedAt,
			FileName:   att.Filename,
			FileType:   fileExtension(att.Filename),
			FileSize:   att.Size,
			Status:     model.SubmissionStatusPending,
		}
	}

	url, err := uc.attachments.Store(ctx, att.Filename, att.Content)
	if err != nil {
		item.Outcome = dto.OutcomeError
		item.Error = err.Error()
		return item, false, sub.ID
	}
	sub.FileURL = url

	if sub.ID == uuid.Nil {
		err = uc.submissions.Create(ctx, sub)
	} else {
		err = uc.submissions.Update(ctx, sub)
	}
	if err != nil {
		item.Outcome = dto.OutcomeError
		item.Error = err.Error()
		return item, false, sub.ID
	}

	// From here the attachment is durably recorded; later failures are
	// retried through the trigger endpoint, not by re-reading the mailbox.
	stored = true

	parsed, err := uc.parser.Parse(att.Content, att.Filename)
	if err != nil {
		sub.Status = model.SubmissionStatusFailed
		if updErr := uc.submissions.Update(ctx, sub); updErr != nil {
			slog.Error("failed to persist parse failure", "submission", sub.ID, "error", updErr)
		}
		item.Outcome = dto.OutcomeError
		item.Error = err.Error()
		return item, true, sub.ID
	}

	sub.ParsedText = parsed.Text
	sub.CandidateName = parsed.CandidateName
	sub.CandidateEmail = parsed.CandidateEmail
	sub.CandidatePhone = parsed.CandidatePhone
	sub.Skills = pq.StringArray(parsed.Skills)
	sub.Experience = parsed.Experience
	sub.Education = parsed.Education
	if err := uc.submissions.Update(ctx, sub); err != nil {
		item.Outcome = dto.OutcomeError
		item.Error = err.Error()
		return item, true, sub.ID
	}

	job, err := uc.resolveJob(ctx, tenant.ID, msg.Subject, parsed.Text)
	if err != nil {
		item.Outcome = dto.OutcomeError
		item.Error = err.Error()
		return item, true, sub.ID
	}

	result, err := uc.screener.ScoreSubmission(ctx, sub, job)
	if err != nil {
		// Scoring failures leave the submission PENDING for a later rerun.
		item.Outcome = dto.OutcomeError
		item.Error = err.Error()
		return item, true, sub.ID
	}

	decision, err := uc.router.Route(ctx, sub, job, result, threshold)
	if err != nil {
		item.Outcome = dto.OutcomeError
		item.Error = err.Error()
		return item, true, sub.ID
	}

	score := result.Score
	item.Score = &score
	item.Routed = &decision.Promoted
	if decision.Promoted {
		item.Outcome = dto.OutcomeRouted
		item.ApplicationID = decision.ApplicationID
	} else {
		item.Outcome = dto.OutcomeHeld
	}
	return item, true, sub.ID
}

// resolveJob picks the job opening a resume applies to. An explicit job title
// in the subject line wins; otherwise the closest job by resume embedding is
// used. A tenant with no open jobs cannot accept intake at all.
func (uc *IngestionUsecase) resolveJob(ctx context.Context, tenantID uuid.UUID, subject, resumeText string) (*model.Job, error) {
	openJobs, err := uc.jobs.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if len(openJobs) == 0 {
		return nil, apperror.NewConfigurationError("tenant has no job openings to match against")
	}

	lowerSubject := strings.ToLower(subject)
	for i := range openJobs {
		if openJobs[i].Title != "" && strings.Contains(lowerSubject, strings.ToLower(openJobs[i].Title)) {
			return &openJobs[i], nil
		}
	}

	if uc.embedder != nil {
		embedding, err := uc.embedder.GenerateEmbedding(ctx, truncateForEmbedding(resumeText))
		if err == nil {
			matches, err := uc.jobs.SearchSimilar(ctx, tenantID, pgvector.NewVector(embedding), 1)
			if err == nil && len(matches) > 0 {
				return &matches[0], nil
			}
			if err != nil {
				slog.Warn("similarity search failed, falling back to first job", "error", err)
			}
		} else {
			slog.Warn("embedding generation failed, falling back to first job", "error", err)
		}
	}

	return &openJobs[0], nil
}

func fileExtension(filename string) string {
	idx := strings.LastIndex(filename, ".")
	if idx < 0 {
		return ""
	}
	return strings.ToLower(filename[idx+1:])
}

const maxEmbeddingChars = 8000

func truncateForEmbedding(text string) string {
	if len(text) > maxEmbeddingChars {
		return text[:maxEmbeddingChars]
	}
	return text
}

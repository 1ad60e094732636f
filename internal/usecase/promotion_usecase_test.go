package usecase

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/hiredeck/hiredeck/internal/model"
)

func TestRouteBelowThresholdHolds(t *testing.T) {
	subs := newFakeSubmissions()
	sub := &model.RawSubmission{TenantID: uuid.New(), Sender: "a@b.com"}
	_ = subs.Create(context.Background(), sub)

	uc := NewPromotionUsecase(subs, newFakeUsers())
	decision, err := uc.Route(context.Background(), sub, &model.Job{ID: uuid.New()}, &ScreeningResult{Score: 69}, 70)
	if err != nil {
		t.Fatalf("Route() error = %v", err)
	}
	if decision.Promoted {
		t.Error("score 69 against threshold 70 was promoted")
	}
	if len(subs.apps) != 0 {
		t.Errorf("applications created = %d, want 0", len(subs.apps))
	}
	if sub.RoutedToPipeline {
		t.Error("held submission marked routed")
	}
}

func TestRouteThresholdBoundaryPromotes(t *testing.T) {
	tenantID := uuid.New()
	subs := newFakeSubmissions()
	sub := &model.RawSubmission{
		TenantID:       tenantID,
		Sender:         "mailer@agency.com",
		CandidateEmail: "jane@example.com",
		CandidateName:  "Jane Doe",
		FileURL:        "https://storage/resumes/jane.pdf",
	}
	_ = subs.Create(context.Background(), sub)

	users := newFakeUsers()
	uc := NewPromotionUsecase(subs, users)

	result := &ScreeningResult{Score: 70, CultureFit: 65, Summary: "fine", MissingSkills: []string{"Rust"}}
	decision, err := uc.Route(context.Background(), sub, &model.Job{ID: uuid.New()}, result, 70)
	if err != nil {
		t.Fatalf("Route() error = %v", err)
	}
	if !decision.Promoted || decision.ApplicationID == nil {
		t.Fatalf("decision = %+v, want promoted with application id", decision)
	}

	if len(subs.apps) != 1 {
		t.Fatalf("applications created = %d, want 1", len(subs.apps))
	}
	app := subs.apps[0]
	if app.Status != model.StatusAIScreened {
		t.Errorf("application status = %s, want %s", app.Status, model.StatusAIScreened)
	}
	if app.AIScore != 70 || app.CultureFitScore != 65 {
		t.Errorf("scores = (%d, %d), want (70, 65)", app.AIScore, app.CultureFitScore)
	}
	if app.ResumeURL != sub.FileURL {
		t.Errorf("resume url = %q, want %q", app.ResumeURL, sub.FileURL)
	}

	// The candidate is created from the resume's own contact details, not
	// the mailbox sender.
	candidate, _ := users.FindByID(context.Background(), app.CandidateID)
	if candidate.Email != "jane@example.com" {
		t.Errorf("candidate email = %q, want jane@example.com", candidate.Email)
	}
	if candidate.Role != model.RoleCandidate {
		t.Errorf("candidate role = %q, want %q", candidate.Role, model.RoleCandidate)
	}

	if !sub.RoutedToPipeline || sub.ApplicationID == nil {
		t.Error("submission not linked to its application")
	}
}

func TestRouteFallsBackToSenderEmail(t *testing.T) {
	tenantID := uuid.New()
	subs := newFakeSubmissions()
	sub := &model.RawSubmission{TenantID: tenantID, Sender: "john.smith@example.com"}
	_ = subs.Create(context.Background(), sub)

	users := newFakeUsers()
	uc := NewPromotionUsecase(subs, users)

	decision, err := uc.Route(context.Background(), sub, &model.Job{ID: uuid.New()}, &ScreeningResult{Score: 90}, 70)
	if err != nil {
		t.Fatalf("Route() error = %v", err)
	}

	candidate, _ := users.FindByID(context.Background(), subs.apps[0].CandidateID)
	if candidate.Email != "john.smith@example.com" {
		t.Errorf("candidate email = %q, want sender address", candidate.Email)
	}
	if candidate.FirstName != "john.smith" {
		t.Errorf("candidate name = %q, want local part of email", candidate.FirstName)
	}
	if !decision.Promoted {
		t.Error("expected promotion")
	}
}

func TestRouteIsIdempotent(t *testing.T) {
	tenantID := uuid.New()
	subs := newFakeSubmissions()
	sub := &model.RawSubmission{TenantID: tenantID, Sender: "a@b.com", CandidateEmail: "c@d.com"}
	_ = subs.Create(context.Background(), sub)

	uc := NewPromotionUsecase(subs, newFakeUsers())
	job := &model.Job{ID: uuid.New()}
	result := &ScreeningResult{Score: 95}

	first, err := uc.Route(context.Background(), sub, job, result, 70)
	if err != nil {
		t.Fatalf("first Route() error = %v", err)
	}
	second, err := uc.Route(context.Background(), sub, job, result, 70)
	if err != nil {
		t.Fatalf("second Route() error = %v", err)
	}

	if len(subs.apps) != 1 {
		t.Fatalf("applications created = %d, want 1", len(subs.apps))
	}
	if *first.ApplicationID != *second.ApplicationID {
		t.Errorf("second call returned different application: %s vs %s", first.ApplicationID, second.ApplicationID)
	}
}

func TestRouteLosesRaceCleanly(t *testing.T) {
	tenantID := uuid.New()
	subs := newFakeSubmissions()
	sub := &model.RawSubmission{TenantID: tenantID, Sender: "a@b.com", CandidateEmail: "c@d.com"}
	_ = subs.Create(context.Background(), sub)

	uc := NewPromotionUsecase(subs, newFakeUsers())
	job := &model.Job{ID: uuid.New()}

	// A concurrent run promotes the stored row; our in-memory copy is stale.
	stale := *sub
	if _, err := uc.Route(context.Background(), sub, job, &ScreeningResult{Score: 80}, 70); err != nil {
		t.Fatalf("winner Route() error = %v", err)
	}

	decision, err := uc.Route(context.Background(), &stale, job, &ScreeningResult{Score: 80}, 70)
	if err != nil {
		t.Fatalf("loser Route() error = %v", err)
	}
	if len(subs.apps) != 1 {
		t.Fatalf("applications created = %d, want 1", len(subs.apps))
	}
	if !decision.Promoted || *decision.ApplicationID != subs.apps[0].ID {
		t.Errorf("loser did not adopt the winner's application: %+v", decision)
	}
}

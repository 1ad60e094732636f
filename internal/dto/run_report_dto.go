package dto

import "github.com/google/uuid"

// Item outcomes reported for each attachment in a run.
const (
	OutcomeRouted    = "routed"
	OutcomeHeld      = "held"
	OutcomeDuplicate = "duplicate"
	OutcomeError     = "error"
)

// ItemResult is the per-attachment entry of a run report.
type ItemResult struct {
	Filename      string     `json:"filename"`
	Outcome       string     `json:"outcome"`
	Score         *int       `json:"score,omitempty"`
	Routed        *bool      `json:"routed,omitempty"`
	ApplicationID *uuid.UUID `json:"application_id,omitempty"`
	Error         string     `json:"error,omitempty"`
}

// RunReport aggregates one ingestion run. It is the trigger endpoint's
// response body.
type RunReport struct {
	EmailsChecked int          `json:"emails_checked"`
	CvsProcessed  int          `json:"cvs_processed"`
	Results       []ItemResult `json:"results"`
}

// BatchItemResult is the per-application entry of a batch scoring run.
type BatchItemResult struct {
	ApplicationID uuid.UUID `json:"application_id"`
	Score         *int      `json:"score,omitempty"`
	Error         string    `json:"error,omitempty"`
}

// BatchReport aggregates one batch scoring invocation.
type BatchReport struct {
	Scored  int               `json:"scored"`
	Failed  int               `json:"failed"`
	Results []BatchItemResult `json:"results"`
}

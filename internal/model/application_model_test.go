package model

import "testing"

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to string
		want     bool
	}{
		{StatusNew, StatusAIScreened, true},
		{StatusAIScreened, StatusHRApproved, true},
		{StatusAIScreened, StatusRejected, true},
		{StatusHRApproved, StatusInterviewScheduled, true},
		{StatusHRApproved, StatusRejected, true},
		{StatusInterviewScheduled, StatusHired, true},
		{StatusInterviewScheduled, StatusRejected, true},

		{StatusNew, StatusHRApproved, false},
		{StatusNew, StatusHired, false},
		{StatusAIScreened, StatusHired, false},
		{StatusAIScreened, StatusInterviewScheduled, false},
		{StatusHRApproved, StatusHired, false},
		{StatusHired, StatusRejected, false},
		{StatusRejected, StatusHRApproved, false},
		{StatusRejected, StatusAIScreened, false},
		{StatusAIScreened, StatusNew, false},
	}
	for _, tt := range tests {
		if got := CanTransition(tt.from, tt.to); got != tt.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestIsTerminal(t *testing.T) {
	for _, s := range []string{StatusHired, StatusRejected} {
		if !IsTerminal(s) {
			t.Errorf("IsTerminal(%s) = false, want true", s)
		}
	}
	for _, s := range []string{StatusNew, StatusAIScreened, StatusHRApproved, StatusInterviewScheduled} {
		if IsTerminal(s) {
			t.Errorf("IsTerminal(%s) = true, want false", s)
		}
	}
}

func TestCanOverride(t *testing.T) {
	tests := []struct {
		from, to string
		want     bool
	}{
		{StatusAIScreened, StatusHired, true},
		{StatusAIScreened, StatusRejected, true},
		{StatusAIScreened, StatusHRApproved, true},
		{StatusNew, StatusRejected, true},
		{StatusInterviewScheduled, StatusHRApproved, true},

		// Terminal states can never be overridden.
		{StatusHired, StatusRejected, false},
		{StatusRejected, StatusHired, false},
		{StatusRejected, StatusHRApproved, false},

		// Only decision statuses are valid override targets.
		{StatusAIScreened, StatusInterviewScheduled, false},
		{StatusNew, StatusAIScreened, false},
		{StatusNew, StatusNew, false},
	}
	for _, tt := range tests {
		if got := CanOverride(tt.from, tt.to); got != tt.want {
			t.Errorf("CanOverride(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestValidStatus(t *testing.T) {
	for _, s := range []string{StatusNew, StatusAIScreened, StatusHRApproved, StatusInterviewScheduled, StatusHired, StatusRejected} {
		if !ValidStatus(s) {
			t.Errorf("ValidStatus(%s) = false, want true", s)
		}
	}
	for _, s := range []string{"", "new", "SHORTLISTED", "AI-SCREENED"} {
		if ValidStatus(s) {
			t.Errorf("ValidStatus(%q) = true, want false", s)
		}
	}
}

package model

import "testing"

func TestResolveTemplate(t *testing.T) {
	jobTpl := &ScreeningTemplate{Name: "backend"}
	defaultTpl := &ScreeningTemplate{Name: "default", IsDefault: true}

	tests := []struct {
		name          string
		job, fallback *ScreeningTemplate
		want          *ScreeningTemplate
		ok            bool
	}{
		{"job template wins over default", jobTpl, defaultTpl, jobTpl, true},
		{"default used when job has none", nil, defaultTpl, defaultTpl, true},
		{"job template alone", jobTpl, nil, jobTpl, true},
		{"neither available", nil, nil, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ResolveTemplate(tt.job, tt.fallback)
			if ok != tt.ok || got != tt.want {
				t.Errorf("ResolveTemplate() = (%v, %v), want (%v, %v)", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestTenantSettings(t *testing.T) {
	tenant := &Tenant{}
	if got := tenant.Settings().PromoteThreshold; got != DefaultPromoteThreshold {
		t.Errorf("default threshold = %d, want %d", got, DefaultPromoteThreshold)
	}

	custom := 85
	tenant.PromoteThreshold = &custom
	if got := tenant.Settings().PromoteThreshold; got != 85 {
		t.Errorf("custom threshold = %d, want 85", got)
	}
}

func TestSplitName(t *testing.T) {
	tests := []struct {
		full, first, last string
	}{
		{"Jane Doe", "Jane", "Doe"},
		{"Jane", "Jane", ""},
		{"Jane van der Berg", "Jane", "van der Berg"},
		{"  Jane Doe  ", "Jane", "Doe"},
		{"", "", ""},
	}
	for _, tt := range tests {
		first, last := SplitName(tt.full)
		if first != tt.first || last != tt.last {
			t.Errorf("SplitName(%q) = (%q, %q), want (%q, %q)", tt.full, first, last, tt.first, tt.last)
		}
	}
}

package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// ScreeningTemplate is a tenant-configurable scoring rubric fed to the
// classifier: system prompt, cultural values, weighted evaluation criteria and
// the technical-vs-cultural weight split.
type ScreeningTemplate struct {
	ID                 uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	TenantID           uuid.UUID      `gorm:"type:uuid;not null;index" json:"tenant_id"`
	Name               string         `gorm:"size:255;not null" json:"name"`
	SystemPrompt       string         `gorm:"type:text" json:"system_prompt"`
	CulturalValues     pq.StringArray `gorm:"type:text[]" json:"cultural_values"`
	EvaluationCriteria string         `gorm:"type:jsonb" json:"evaluation_criteria"` // {"criterion": weight}
	TechnicalWeight    int            `gorm:"default:70" json:"technical_weight"`
	CulturalWeight     int            `gorm:"default:30" json:"cultural_weight"`
	MinPassingScore    int            `gorm:"default:60" json:"min_passing_score"`
	AutoRejectBelow    int            `gorm:"default:0" json:"auto_reject_below"`
	IsDefault          bool           `gorm:"default:false" json:"is_default"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
}

func (t *ScreeningTemplate) TableName() string {
	return "screening_templates"
}

// ResolveTemplate picks the effective template for scoring: the job's own
// template when set, else the tenant's default. Pure so the fallback order is
// testable without I/O.
func ResolveTemplate(jobTemplate, tenantDefault *ScreeningTemplate) (*ScreeningTemplate, bool) {
	if jobTemplate != nil {
		return jobTemplate, true
	}
	if tenantDefault != nil {
		return tenantDefault, true
	}
	return nil, false
}

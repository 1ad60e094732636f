package model

import (
	"time"

	"github.com/google/uuid"
)

// DefaultPromoteThreshold is the minimum score that promotes a submission into
// the hiring pipeline when the tenant has not configured its own threshold.
const DefaultPromoteThreshold = 70

type Tenant struct {
	ID               uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name             string    `gorm:"size:255;not null" json:"name"`
	PromoteThreshold *int      `json:"promote_threshold"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (t *Tenant) TableName() string {
	return "tenants"
}

// TenantSettings is the resolved runtime configuration handed to the pipeline
// components, with defaults already applied.
type TenantSettings struct {
	PromoteThreshold int
}

func (t *Tenant) Settings() TenantSettings {
	threshold := DefaultPromoteThreshold
	if t.PromoteThreshold != nil {
		threshold = *t.PromoteThreshold
	}
	return TenantSettings{PromoteThreshold: threshold}
}

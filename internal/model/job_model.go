package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
)

type Job struct {
	ID             uuid.UUID          `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	TenantID       uuid.UUID          `gorm:"type:uuid;not null;index" json:"tenant_id"`
	Title          string             `gorm:"size:255;not null" json:"title"`
	Description    string             `gorm:"type:text" json:"description"`
	Requirements   string             `gorm:"type:text" json:"requirements"`
	RequiredSkills pq.StringArray     `gorm:"type:text[]" json:"required_skills"`
	TemplateID     *uuid.UUID         `gorm:"type:uuid" json:"template_id"`
	Template       *ScreeningTemplate `gorm:"foreignKey:TemplateID" json:"template,omitempty"`
	Embedding      pgvector.Vector    `gorm:"type:vector(3072)" json:"-"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

func (j *Job) TableName() string {
	return "jobs"
}

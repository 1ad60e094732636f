package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	RoleAdmin     = "admin"
	RoleHR        = "hr"
	RoleCandidate = "candidate"
)

// User is any person record within a tenant. Candidates are users with
// RoleCandidate, created lazily the first time a submission is promoted for
// their email address.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	TenantID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_users_tenant_email" json:"tenant_id"`
	Email     string    `gorm:"size:255;not null;uniqueIndex:idx_users_tenant_email" json:"email"`
	FirstName string    `gorm:"size:255" json:"first_name"`
	LastName  string    `gorm:"size:255" json:"last_name"`
	Phone     string    `gorm:"size:50" json:"phone"`
	Role      string    `gorm:"size:50;not null" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) TableName() string {
	return "users"
}

// CanManagePipeline reports whether this user's role may transition
// application statuses. Candidates may never move their own applications.
func (u *User) CanManagePipeline() bool {
	return u.Role == RoleAdmin || u.Role == RoleHR
}

// SplitName splits a display name into first and last on the first space.
func SplitName(full string) (string, string) {
	full = strings.TrimSpace(full)
	if full == "" {
		return "", ""
	}
	parts := strings.SplitN(full, " ", 2)
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], parts[1]
}

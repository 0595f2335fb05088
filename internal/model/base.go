package model

import "time"

// AuditModel carries the audit columns shared by all entities.
type AuditModel struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	UpdatedBy *string   `gorm:"type:uuid"                          json:"updated_by,omitempty"`
}

// VersionedModel adds the optimistic-lock counter. Every write guards
// on the version it read; a mismatch surfaces as a concurrent update.
type VersionedModel struct {
	AuditModel
	Version int `gorm:"not null;default:1" json:"version"`
}

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Candidate struct {
	ID             uuid.UUID                   `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	TenantID       uuid.UUID                   `gorm:"type:uuid;not null;index" json:"tenant_id"`
	FirstName      string                      `gorm:"type:text;not null" json:"first_name"`
	LastName       string                      `gorm:"type:text;not null" json:"last_name"`
	Email          string                      `gorm:"type:text;not null" json:"email"`
	CurrentTitle   string                      `gorm:"type:text" json:"current_title"`
	CurrentCompany string                      `gorm:"type:text" json:"current_company"`
	Location       string                      `gorm:"type:text" json:"location"`
	Summary        string                      `gorm:"type:text" json:"summary"`
	ResumeText     string                      `gorm:"type:text" json:"-"`
	Skills         datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"skills"`

	// EmbeddingSyncedAt is nil until a vector has been stored for this
	// candidate. The vector itself lives in the vector store, keyed by ID.
	EmbeddingSyncedAt *time.Time `gorm:"type:timestamp" json:"embedding_synced_at,omitempty"`

	CreatedAt time.Time `gorm:"type:timestamp;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"type:timestamp;default:now()" json:"updated_at"`
}

func (c *Candidate) TableName() string {
	return "candidates"
}

// HasEmbedding reports whether the stored vector is present and not stale
// relative to the last profile edit.
func (c *Candidate) HasEmbedding() bool {
	return c.EmbeddingSyncedAt != nil && !c.EmbeddingSyncedAt.Before(c.UpdatedAt)
}

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Job struct {
	ID              uuid.UUID                   `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	TenantID        uuid.UUID                   `gorm:"type:uuid;not null;index" json:"tenant_id"`
	Title           string                      `gorm:"type:text;not null" json:"title"`
	Description     string                      `gorm:"type:text" json:"description"`
	Requirements    string                      `gorm:"type:text" json:"requirements"`
	Skills          datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"skills"`
	PrimaryLocation string                      `gorm:"type:text" json:"primary_location"`
	CreatedAt       time.Time                   `gorm:"type:timestamp;default:now()" json:"created_at"`
	UpdatedAt       time.Time                   `gorm:"type:timestamp;default:now()" json:"updated_at"`
}

func (j *Job) TableName() string {
	return "jobs"
}

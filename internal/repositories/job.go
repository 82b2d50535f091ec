package repositories

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"hireflow/talent-matcher/internal/models"
)

type JobRepository interface {
	FindByID(id, tenantID uuid.UUID) (*models.Job, error)
}

type jobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) JobRepository {
	return &jobRepository{db: db}
}

// FindByID implements JobRepository.
func (r *jobRepository) FindByID(id, tenantID uuid.UUID) (*models.Job, error) {
	var job models.Job
	if err := r.db.Where("id = ? AND tenant_id = ?", id, tenantID).First(&job).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("job not found: %w", err)
		}

		return nil, fmt.Errorf("failed to find job: %w", err)
	}

	return &job, nil
}

package repositories

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"hireflow/talent-matcher/internal/models"
)

type CandidateRepository interface {
	FindByID(id, tenantID uuid.UUID) (*models.Candidate, error)
	FindByIDs(tenantID uuid.UUID, ids []uuid.UUID) ([]models.Candidate, error)
	SearchByKeywords(tenantID uuid.UUID, query string, tokens []string, excludeIDs []uuid.UUID, limit int) ([]models.Candidate, error)
	UpdateResumeText(id, tenantID uuid.UUID, text string) error
	MarkEmbeddingSynced(id uuid.UUID, syncedAt time.Time) error
	FindNeedingEmbedding(limit int) ([]models.Candidate, error)
}

type candidateRepository struct {
	db *gorm.DB
}

func NewCandidateRepository(db *gorm.DB) CandidateRepository {
	return &candidateRepository{db: db}
}

// FindByID implements CandidateRepository.
func (r *candidateRepository) FindByID(id, tenantID uuid.UUID) (*models.Candidate, error) {
	var candidate models.Candidate
	if err := r.db.Where("id = ? AND tenant_id = ?", id, tenantID).First(&candidate).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("candidate not found: %w", err)
		}

		return nil, fmt.Errorf("failed to find candidate: %w", err)
	}

	return &candidate, nil
}

// FindByIDs implements CandidateRepository.
func (r *candidateRepository) FindByIDs(tenantID uuid.UUID, ids []uuid.UUID) ([]models.Candidate, error) {
	var candidates []models.Candidate
	if err := r.db.Where("tenant_id = ? AND id IN ?", tenantID, ids).Find(&candidates).Error; err != nil {
		return nil, fmt.Errorf("failed to find candidates: %w", err)
	}

	return candidates, nil
}

// SearchByKeywords implements CandidateRepository. It retrieves candidates by
// case-insensitive substring match on the name, title, company and summary
// columns, plus overlap between the skills column and the query tokens.
// Ordering is most-recently-updated; relevance scoring happens in the caller.
func (r *candidateRepository) SearchByKeywords(tenantID uuid.UUID, query string, tokens []string, excludeIDs []uuid.UUID, limit int) ([]models.Candidate, error) {
	pattern := "%" + query + "%"

	cond := r.db.Where("first_name ILIKE ?", pattern).
		Or("last_name ILIKE ?", pattern).
		Or("current_title ILIKE ?", pattern).
		Or("current_company ILIKE ?", pattern).
		Or("summary ILIKE ?", pattern)

	for _, token := range tokens {
		cond = cond.Or("skills::text ILIKE ?", "%"+token+"%")
	}

	tx := r.db.Where("tenant_id = ?", tenantID).Where(cond)

	if len(excludeIDs) > 0 {
		tx = tx.Where("id NOT IN ?", excludeIDs)
	}

	var candidates []models.Candidate
	err := tx.Order("updated_at DESC").
		Limit(limit).
		Find(&candidates).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search candidates: %w", err)
	}

	return candidates, nil
}

// UpdateResumeText implements CandidateRepository.
func (r *candidateRepository) UpdateResumeText(id, tenantID uuid.UUID, text string) error {
	result := r.db.Model(&models.Candidate{}).
		Where("id = ? AND tenant_id = ?", id, tenantID).
		Updates(map[string]interface{}{
			"resume_text": text,
			"updated_at":  time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update resume text: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("candidate not found: %w", gorm.ErrRecordNotFound)
	}

	return nil
}

// MarkEmbeddingSynced implements CandidateRepository. It is a single-column
// write so the refresh worker never holds the row longer than the update.
func (r *candidateRepository) MarkEmbeddingSynced(id uuid.UUID, syncedAt time.Time) error {
	result := r.db.Model(&models.Candidate{}).
		Where("id = ?", id).
		Update("embedding_synced_at", syncedAt)

	if result.Error != nil {
		return fmt.Errorf("failed to mark embedding synced: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("candidate not found: %w", gorm.ErrRecordNotFound)
	}

	return nil
}

// FindNeedingEmbedding implements CandidateRepository. A candidate needs a
// refresh when no vector was ever stored or the profile changed since the
// last sync.
func (r *candidateRepository) FindNeedingEmbedding(limit int) ([]models.Candidate, error) {
	var candidates []models.Candidate
	err := r.db.
		Where("embedding_synced_at IS NULL OR embedding_synced_at < updated_at").
		Order("updated_at ASC").
		Limit(limit).
		Find(&candidates).Error

	if err != nil {
		return nil, fmt.Errorf("failed to find candidates needing embedding: %w", err)
	}

	return candidates, nil
}

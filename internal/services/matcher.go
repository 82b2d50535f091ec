package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"hireflow/talent-matcher/internal/config"
	"hireflow/talent-matcher/internal/models"
	"hireflow/talent-matcher/internal/repositories"
)

// defaultRecommendationQuery is used when no recommendation facet is
// supplied, so the embedding call never runs on an empty string.
const defaultRecommendationQuery = "qualified professional candidates"

// SearchOptions carries the per-call knobs of a semantic search. Zero values
// fall back to the configured defaults.
type SearchOptions struct {
	Limit    int
	MinScore *float64
	Filters  *models.SearchFilters
}

// MatcherService is the engine behind every candidate matching operation.
// Each search runs exactly one strategy: the vector path when embeddings are
// available and the provider responds, the keyword path otherwise.
type MatcherService interface {
	SemanticSearch(ctx context.Context, query string, tenantID uuid.UUID, opts SearchOptions) ([]models.MatchResult, error)
	MatchCandidatesToJob(ctx context.Context, jobID, tenantID uuid.UUID, limit int) ([]models.MatchResult, error)
	FindSimilarCandidates(ctx context.Context, candidateID, tenantID uuid.UUID, limit int) ([]models.MatchResult, error)
	GetRecommendations(ctx context.Context, tenantID uuid.UUID, criteria models.RecommendationCriteria) ([]models.MatchResult, error)
	UpdateEmbedding(ctx context.Context, candidateID, tenantID uuid.UUID) error
}

type matcherService struct {
	candidateRepo   repositories.CandidateRepository
	jobRepo         repositories.JobRepository
	textBuilder     TextBuilder
	explainer       Explainer
	embedder        EmbeddingService
	vectorStore     VectorStore
	vectorSearcher  VectorSearcher
	keywordSearcher KeywordSearcher
	cfg             config.MatchingConfig
}

func NewMatcherService(
	candidateRepo repositories.CandidateRepository,
	jobRepo repositories.JobRepository,
	textBuilder TextBuilder,
	explainer Explainer,
	embedder EmbeddingService,
	vectorStore VectorStore,
	vectorSearcher VectorSearcher,
	keywordSearcher KeywordSearcher,
	cfg config.MatchingConfig,
) MatcherService {
	return &matcherService{
		candidateRepo:   candidateRepo,
		jobRepo:         jobRepo,
		textBuilder:     textBuilder,
		explainer:       explainer,
		embedder:        embedder,
		vectorStore:     vectorStore,
		vectorSearcher:  vectorSearcher,
		keywordSearcher: keywordSearcher,
		cfg:             cfg,
	}
}

// SemanticSearch implements MatcherService.
func (m *matcherService) SemanticSearch(ctx context.Context, query string, tenantID uuid.UUID, opts SearchOptions) ([]models.MatchResult, error) {
	limit := opts.Limit
	if limit == 0 {
		limit = m.cfg.DefaultLimit
	}

	minScore := m.cfg.DefaultMinScore
	if opts.MinScore != nil {
		minScore = *opts.MinScore
	}

	if err := m.validate(limit, minScore); err != nil {
		return nil, err
	}

	queryVector, err := m.embedder.GenerateEmbedding(ctx, query)
	if err != nil {
		log.Printf("⚠️  Embedding failed, falling back to keyword search: %v\n", err)
		return m.keywordSearcher.Search(ctx, query, tenantID, opts.Filters, limit)
	}

	hits, err := m.vectorSearcher.Search(ctx, tenantID, queryVector, minScore, limit, opts.Filters)
	if err != nil {
		log.Printf("⚠️  Vector search failed, falling back to keyword search: %v\n", err)
		return m.keywordSearcher.Search(ctx, query, tenantID, opts.Filters, limit)
	}

	if len(hits) == 0 {
		// Distinguish "no vectors stored yet" from "nothing above threshold"
		// before degrading, so the two states are visible in the logs.
		if hasVectors, err := m.vectorStore.HasVectors(ctx, tenantID); err == nil && !hasVectors {
			log.Printf("🔍 No candidate embeddings stored for tenant %s yet, using keyword search\n", tenantID)
		} else {
			log.Printf("🔍 Vector search found no matches above %.2f, using keyword search\n", minScore)
		}
		return m.keywordSearcher.Search(ctx, query, tenantID, opts.Filters, limit)
	}

	return m.hydrateResults(query, tenantID, hits)
}

// MatchCandidatesToJob implements MatcherService. Job descriptions are long
// and noisy, so the threshold is looser than for plain queries.
func (m *matcherService) MatchCandidatesToJob(ctx context.Context, jobID, tenantID uuid.UUID, limit int) ([]models.MatchResult, error) {
	if limit == 0 {
		limit = m.cfg.JobMatchLimit
	}

	job, err := m.jobRepo.FindByID(jobID, tenantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []models.MatchResult{}, nil
		}
		return nil, err
	}

	var filters *models.SearchFilters
	if job.PrimaryLocation != "" {
		filters = &models.SearchFilters{Location: job.PrimaryLocation}
	}

	return m.SemanticSearch(ctx, m.textBuilder.BuildJobText(job), tenantID, SearchOptions{
		Limit:    limit,
		MinScore: &m.cfg.JobMinScore,
		Filters:  filters,
	})
}

// FindSimilarCandidates implements MatcherService. Profile-to-profile
// similarity uses a stricter threshold and never returns the source
// candidate.
func (m *matcherService) FindSimilarCandidates(ctx context.Context, candidateID, tenantID uuid.UUID, limit int) ([]models.MatchResult, error) {
	if limit == 0 {
		limit = m.cfg.SimilarLimit
	}

	candidate, err := m.candidateRepo.FindByID(candidateID, tenantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []models.MatchResult{}, nil
		}
		return nil, err
	}

	return m.SemanticSearch(ctx, m.textBuilder.BuildCandidateText(candidate), tenantID, SearchOptions{
		Limit:    limit,
		MinScore: &m.cfg.SimilarMinScore,
		Filters: &models.SearchFilters{
			ExcludeCandidateIDs: []uuid.UUID{candidateID},
		},
	})
}

// GetRecommendations implements MatcherService.
func (m *matcherService) GetRecommendations(ctx context.Context, tenantID uuid.UUID, criteria models.RecommendationCriteria) ([]models.MatchResult, error) {
	var queryParts []string

	if criteria.Role != "" {
		queryParts = append(queryParts, criteria.Role)
	}
	if len(criteria.Skills) > 0 {
		queryParts = append(queryParts, "with skills in "+strings.Join(criteria.Skills, ", "))
	}
	if criteria.Seniority != "" {
		queryParts = append(queryParts, criteria.Seniority+" level")
	}
	if criteria.Industry != "" {
		queryParts = append(queryParts, "from "+criteria.Industry+" industry")
	}

	query := strings.Join(queryParts, " ")
	if query == "" {
		query = defaultRecommendationQuery
	}

	return m.SemanticSearch(ctx, query, tenantID, SearchOptions{
		Limit:    m.cfg.RecommendationLimit,
		MinScore: &m.cfg.DefaultMinScore,
	})
}

// UpdateEmbedding implements MatcherService. Best-effort maintenance: the
// returned error is for the worker's log line, callers in a CRUD flow only
// ever enqueue this.
func (m *matcherService) UpdateEmbedding(ctx context.Context, candidateID, tenantID uuid.UUID) error {
	candidate, err := m.candidateRepo.FindByID(candidateID, tenantID)
	if err != nil {
		return fmt.Errorf("failed to load candidate %s: %w", candidateID, err)
	}

	text := m.textBuilder.BuildCandidateText(candidate)
	if text == "" {
		log.Printf("🔍 Candidate %s has no text to embed, skipping\n", candidateID)
		return nil
	}

	vector, err := m.embedder.GenerateEmbedding(ctx, text)
	if err != nil {
		return fmt.Errorf("failed to embed candidate %s: %w", candidateID, err)
	}

	payload := CandidatePayload{
		Skills:   candidate.Skills,
		Location: candidate.Location,
	}
	if err := m.vectorStore.UpsertCandidate(ctx, tenantID, candidateID, vector, payload); err != nil {
		return fmt.Errorf("failed to store vector for candidate %s: %w", candidateID, err)
	}

	if err := m.candidateRepo.MarkEmbeddingSynced(candidateID, time.Now()); err != nil {
		return fmt.Errorf("failed to mark candidate %s synced: %w", candidateID, err)
	}

	log.Printf("✅ Updated embedding for candidate %s\n", candidateID)
	return nil
}

func (m *matcherService) validate(limit int, minScore float64) error {
	if limit < 1 || limit > m.cfg.MaxLimit {
		return fmt.Errorf("%w: limit must be between 1 and %d", ErrValidation, m.cfg.MaxLimit)
	}
	if minScore < 0 || minScore > 1 {
		return fmt.Errorf("%w: min score must be between 0 and 1", ErrValidation)
	}
	return nil
}

// hydrateResults loads the matched profiles and attaches reasons and
// highlights, preserving the score order of the hits. Vectors whose profile
// row has since been deleted are dropped.
func (m *matcherService) hydrateResults(query string, tenantID uuid.UUID, hits []ScoredCandidate) ([]models.MatchResult, error) {
	ids := make([]uuid.UUID, 0, len(hits))
	for _, hit := range hits {
		ids = append(ids, hit.CandidateID)
	}

	candidates, err := m.candidateRepo.FindByIDs(tenantID, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]*models.Candidate, len(candidates))
	for i := range candidates {
		byID[candidates[i].ID] = &candidates[i]
	}

	results := make([]models.MatchResult, 0, len(hits))
	for _, hit := range hits {
		candidate, ok := byID[hit.CandidateID]
		if !ok {
			log.Printf("⚠️  Vector hit %s has no profile row, skipping\n", hit.CandidateID)
			continue
		}

		results = append(results, models.MatchResult{
			CandidateID:    candidate.ID,
			FirstName:      candidate.FirstName,
			LastName:       candidate.LastName,
			Email:          candidate.Email,
			CurrentTitle:   candidate.CurrentTitle,
			CurrentCompany: candidate.CurrentCompany,
			Location:       candidate.Location,
			Skills:         candidate.Skills,
			MatchScore:     hit.Score,
			MatchReason:    m.explainer.MatchReason(query, candidate),
			Highlights:     m.explainer.Highlights(query, candidate),
			Strategy:       models.StrategyVector,
		})
	}

	return results, nil
}

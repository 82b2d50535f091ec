package services

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/google/uuid"

	"hireflow/talent-matcher/internal/models"
)

// ScoredCandidate is a vector search hit before profile hydration.
type ScoredCandidate struct {
	CandidateID uuid.UUID
	Score       float64
}

// CandidatePayload is the filterable metadata stored next to each vector.
type CandidatePayload struct {
	Skills   []string
	Location string
}

// VectorStore holds candidate vectors and answers nearest-neighbor queries.
// Implementations may use any index technology as long as NearestByVector
// keeps cosine-similarity scores with an inclusive minScore cut-off.
type VectorStore interface {
	EnsureReady(ctx context.Context) error
	UpsertCandidate(ctx context.Context, tenantID, candidateID uuid.UUID, vector []float32, payload CandidatePayload) error
	NearestByVector(ctx context.Context, tenantID uuid.UUID, vector []float32, minScore float64, limit int, filters *models.SearchFilters) ([]ScoredCandidate, error)
	DeleteCandidate(ctx context.Context, candidateID uuid.UUID) error
	HasVectors(ctx context.Context, tenantID uuid.UUID) (bool, error)
}

// VectorSearcher runs the semantic strategy against a VectorStore and
// normalizes the output: scores clamped to [0,1], descending order,
// candidate-id tie-break for determinism.
type VectorSearcher interface {
	Search(ctx context.Context, tenantID uuid.UUID, queryVector []float32, minScore float64, limit int, filters *models.SearchFilters) ([]ScoredCandidate, error)
}

type vectorSearcher struct {
	store VectorStore
}

func NewVectorSearcher(store VectorStore) VectorSearcher {
	return &vectorSearcher{store: store}
}

// Search implements VectorSearcher.
func (s *vectorSearcher) Search(ctx context.Context, tenantID uuid.UUID, queryVector []float32, minScore float64, limit int, filters *models.SearchFilters) ([]ScoredCandidate, error) {
	hits, err := s.store.NearestByVector(ctx, tenantID, queryVector, minScore, limit, filters)
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}

	results := make([]ScoredCandidate, 0, len(hits))
	for _, hit := range hits {
		hit.Score = clampScore(hit.Score)
		if hit.Score < minScore {
			continue
		}
		results = append(results, hit)
	}

	sortScored(results)

	if len(results) > limit {
		results = results[:limit]
	}

	return results, nil
}

// sortScored orders hits by score descending, candidate id ascending on ties.
func sortScored(hits []ScoredCandidate) {
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].CandidateID.String() < hits[j].CandidateID.String()
	})
}

func clampScore(score float64) float64 {
	return math.Min(1, math.Max(0, score))
}

// CosineSimilarity returns the cosine similarity of two vectors. Vectors of
// different length cannot be compared and yield ErrDimension, not a zero
// score.
func CosineSimilarity(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d vs %d", ErrDimension, len(a), len(b))
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	denominator := math.Sqrt(normA) * math.Sqrt(normB)
	if denominator == 0 {
		return 0, nil
	}

	return dot / denominator, nil
}

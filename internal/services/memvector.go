package services

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"hireflow/talent-matcher/internal/models"
)

type memoryPoint struct {
	vector   []float32
	skills   []string
	location string
}

// memoryVectorStore is a linear-scan VectorStore for development and test
// deployments without a Qdrant instance. Same contract, no index.
type memoryVectorStore struct {
	mu      sync.RWMutex
	tenants map[uuid.UUID]map[uuid.UUID]memoryPoint
}

func NewMemoryVectorStore() VectorStore {
	return &memoryVectorStore{
		tenants: make(map[uuid.UUID]map[uuid.UUID]memoryPoint),
	}
}

// EnsureReady implements VectorStore.
func (m *memoryVectorStore) EnsureReady(ctx context.Context) error {
	return nil
}

// UpsertCandidate implements VectorStore.
func (m *memoryVectorStore) UpsertCandidate(ctx context.Context, tenantID, candidateID uuid.UUID, vector []float32, payload CandidatePayload) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	points, ok := m.tenants[tenantID]
	if !ok {
		points = make(map[uuid.UUID]memoryPoint)
		m.tenants[tenantID] = points
	}

	stored := make([]float32, len(vector))
	copy(stored, vector)

	points[candidateID] = memoryPoint{
		vector:   stored,
		skills:   append([]string(nil), payload.Skills...),
		location: payload.Location,
	}

	return nil
}

// NearestByVector implements VectorStore.
func (m *memoryVectorStore) NearestByVector(ctx context.Context, tenantID uuid.UUID, vector []float32, minScore float64, limit int, filters *models.SearchFilters) ([]ScoredCandidate, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	excluded := make(map[uuid.UUID]struct{})
	if filters != nil {
		for _, id := range filters.ExcludeCandidateIDs {
			excluded[id] = struct{}{}
		}
	}

	var results []ScoredCandidate
	for candidateID, point := range m.tenants[tenantID] {
		if _, skip := excluded[candidateID]; skip {
			continue
		}
		if !matchesPayload(point, filters) {
			continue
		}

		similarity, err := CosineSimilarity(point.vector, vector)
		if err != nil {
			return nil, err
		}

		similarity = clampScore(similarity)
		if similarity < minScore {
			continue
		}

		results = append(results, ScoredCandidate{
			CandidateID: candidateID,
			Score:       similarity,
		})
	}

	sortScored(results)

	if len(results) > limit {
		results = results[:limit]
	}

	return results, nil
}

// DeleteCandidate implements VectorStore.
func (m *memoryVectorStore) DeleteCandidate(ctx context.Context, candidateID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, points := range m.tenants {
		delete(points, candidateID)
	}

	return nil
}

// HasVectors implements VectorStore.
func (m *memoryVectorStore) HasVectors(ctx context.Context, tenantID uuid.UUID) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.tenants[tenantID]) > 0, nil
}

func matchesPayload(point memoryPoint, filters *models.SearchFilters) bool {
	if filters == nil {
		return true
	}

	if filters.Location != "" &&
		!strings.Contains(strings.ToLower(point.location), strings.ToLower(filters.Location)) {
		return false
	}

	if len(filters.Skills) > 0 {
		found := false
		for _, want := range filters.Skills {
			for _, have := range point.skills {
				if strings.EqualFold(want, have) {
					found = true
					break
				}
			}
			if found {
				break
			}
		}
		if !found {
			return false
		}
	}

	return true
}

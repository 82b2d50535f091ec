package services

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"

	"hireflow/talent-matcher/internal/config"
	"hireflow/talent-matcher/internal/models"
)

type qdrantVectorStore struct {
	client         *qdrant.Client
	collectionName string
	vectorSize     uint64
}

// NewQdrantVectorStore connects to Qdrant over gRPC. Each candidate is one
// point keyed by the candidate UUID, with tenant_id, skills and location as
// filterable payload.
func NewQdrantVectorStore(cfg config.QdrantConfig, vectorSize int) (VectorStore, error) {
	// Parse URL to extract host, port, and TLS usage
	parsed, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	host := parsed.Hostname()
	useTLS := parsed.Scheme == "https"

	// For gRPC client, use port 6334 by default (gRPC port)
	port := 6334
	if p := parsed.Port(); p != "" {
		if v, err := strconv.Atoi(p); err == nil {
			port = v
		}
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   port,
		APIKey: cfg.APIKey,
		UseTLS: useTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	return &qdrantVectorStore{
		client:         client,
		collectionName: cfg.Collection,
		vectorSize:     uint64(vectorSize),
	}, nil
}

// EnsureReady implements VectorStore.
func (q *qdrantVectorStore) EnsureReady(ctx context.Context) error {
	exists, err := q.client.CollectionExists(ctx, q.collectionName)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}

	if exists {
		log.Println("✅ Collection already exists")
		return nil
	}

	err = q.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: q.collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     q.vectorSize,
			Distance: qdrant.Distance_Cosine,
		}),
	})

	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	log.Printf("✅ Qdrant collection '%s' created successfully\n", q.collectionName)
	return nil
}

// UpsertCandidate implements VectorStore.
func (q *qdrantVectorStore) UpsertCandidate(ctx context.Context, tenantID, candidateID uuid.UUID, vector []float32, payload CandidatePayload) error {
	skills := make([]interface{}, 0, len(payload.Skills))
	for _, skill := range payload.Skills {
		skills = append(skills, skill)
	}

	point := &qdrant.PointStruct{
		Id:      qdrant.NewID(candidateID.String()),
		Vectors: qdrant.NewVectors(vector...),
		Payload: qdrant.NewValueMap(map[string]interface{}{
			"tenant_id": tenantID.String(),
			"skills":    skills,
			"location":  payload.Location,
		}),
	}

	_, err := q.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: q.collectionName,
		Points:         []*qdrant.PointStruct{point},
	})
	if err != nil {
		return fmt.Errorf("failed to upsert point: %w", err)
	}

	return nil
}

// NearestByVector implements VectorStore. Scores returned by Qdrant for a
// cosine collection are already similarities; the threshold is applied
// server-side and is inclusive.
func (q *qdrantVectorStore) NearestByVector(ctx context.Context, tenantID uuid.UUID, vector []float32, minScore float64, limit int, filters *models.SearchFilters) ([]ScoredCandidate, error) {
	filter := q.buildFilter(tenantID, filters)

	points, err := q.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: q.collectionName,
		Query:          qdrant.NewQuery(vector...),
		Filter:         filter,
		Limit:          qdrant.PtrOf(uint64(limit)),
		ScoreThreshold: qdrant.PtrOf(float32(minScore)),
	})

	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}

	var results []ScoredCandidate
	for _, point := range points {
		id := point.Id.GetUuid()
		candidateID, err := uuid.Parse(id)
		if err != nil {
			log.Printf("⚠️  Skipping point with non-uuid id %q\n", id)
			continue
		}

		results = append(results, ScoredCandidate{
			CandidateID: candidateID,
			Score:       float64(point.Score),
		})
	}

	return results, nil
}

// DeleteCandidate implements VectorStore.
func (q *qdrantVectorStore) DeleteCandidate(ctx context.Context, candidateID uuid.UUID) error {
	_, err := q.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: q.collectionName,
		Points: &qdrant.PointsSelector{
			PointsSelectorOneOf: &qdrant.PointsSelector_Points{
				Points: &qdrant.PointsIdsList{
					Ids: []*qdrant.PointId{qdrant.NewID(candidateID.String())},
				},
			},
		},
	})

	if err != nil {
		return fmt.Errorf("failed to delete candidate vector: %w", err)
	}

	return nil
}

// HasVectors implements VectorStore.
func (q *qdrantVectorStore) HasVectors(ctx context.Context, tenantID uuid.UUID) (bool, error) {
	count, err := q.client.Count(ctx, &qdrant.CountPoints{
		CollectionName: q.collectionName,
		Filter: &qdrant.Filter{
			Must: []*qdrant.Condition{
				qdrant.NewMatch("tenant_id", tenantID.String()),
			},
		},
	})

	if err != nil {
		return false, fmt.Errorf("failed to count vectors: %w", err)
	}

	return count > 0, nil
}

func (q *qdrantVectorStore) buildFilter(tenantID uuid.UUID, filters *models.SearchFilters) *qdrant.Filter {
	filter := &qdrant.Filter{
		Must: []*qdrant.Condition{
			qdrant.NewMatch("tenant_id", tenantID.String()),
		},
	}

	if filters == nil {
		return filter
	}

	if len(filters.Skills) > 0 {
		filter.Must = append(filter.Must, qdrant.NewMatchKeywords("skills", filters.Skills...))
	}

	if filters.Location != "" {
		filter.Must = append(filter.Must, qdrant.NewMatch("location", filters.Location))
	}

	if len(filters.ExcludeCandidateIDs) > 0 {
		ids := make([]*qdrant.PointId, 0, len(filters.ExcludeCandidateIDs))
		for _, id := range filters.ExcludeCandidateIDs {
			ids = append(ids, qdrant.NewID(id.String()))
		}
		filter.MustNot = append(filter.MustNot, qdrant.NewHasID(ids...))
	}

	return filter
}

package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"hireflow/talent-matcher/internal/config"
	"hireflow/talent-matcher/internal/models"
)

type fakeCandidateRepo struct {
	candidates     map[uuid.UUID]models.Candidate
	searchResults  []models.Candidate
	searchCalls    int
	lastExcludeIDs []uuid.UUID
	lastLimit      int
	syncedIDs      []uuid.UUID
}

func (f *fakeCandidateRepo) FindByID(id, tenantID uuid.UUID) (*models.Candidate, error) {
	candidate, ok := f.candidates[id]
	if !ok || candidate.TenantID != tenantID {
		return nil, fmt.Errorf("candidate not found: %w", gorm.ErrRecordNotFound)
	}
	return &candidate, nil
}

func (f *fakeCandidateRepo) FindByIDs(tenantID uuid.UUID, ids []uuid.UUID) ([]models.Candidate, error) {
	var found []models.Candidate
	for _, id := range ids {
		if candidate, ok := f.candidates[id]; ok && candidate.TenantID == tenantID {
			found = append(found, candidate)
		}
	}
	return found, nil
}

func (f *fakeCandidateRepo) SearchByKeywords(tenantID uuid.UUID, query string, tokens []string, excludeIDs []uuid.UUID, limit int) ([]models.Candidate, error) {
	f.searchCalls++
	f.lastExcludeIDs = excludeIDs
	f.lastLimit = limit
	return f.searchResults, nil
}

func (f *fakeCandidateRepo) UpdateResumeText(id, tenantID uuid.UUID, text string) error {
	candidate, ok := f.candidates[id]
	if !ok || candidate.TenantID != tenantID {
		return fmt.Errorf("candidate not found: %w", gorm.ErrRecordNotFound)
	}
	candidate.ResumeText = text
	f.candidates[id] = candidate
	return nil
}

func (f *fakeCandidateRepo) MarkEmbeddingSynced(id uuid.UUID, syncedAt time.Time) error {
	f.syncedIDs = append(f.syncedIDs, id)
	return nil
}

func (f *fakeCandidateRepo) FindNeedingEmbedding(limit int) ([]models.Candidate, error) {
	return nil, nil
}

type fakeJobRepo struct {
	jobs map[uuid.UUID]models.Job
}

func (f *fakeJobRepo) FindByID(id, tenantID uuid.UUID) (*models.Job, error) {
	job, ok := f.jobs[id]
	if !ok || job.TenantID != tenantID {
		return nil, fmt.Errorf("job not found: %w", gorm.ErrRecordNotFound)
	}
	return &job, nil
}

type fakeEmbedder struct {
	vector   []float32
	err      error
	calls    int
	lastText string
}

func (f *fakeEmbedder) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	f.calls++
	f.lastText = text
	if f.err != nil {
		return nil, f.err
	}
	return f.vector, nil
}

type countingVectorStore struct {
	VectorStore
	nearestCalls int
}

func (c *countingVectorStore) NearestByVector(ctx context.Context, tenantID uuid.UUID, vector []float32, minScore float64, limit int, filters *models.SearchFilters) ([]ScoredCandidate, error) {
	c.nearestCalls++
	return c.VectorStore.NearestByVector(ctx, tenantID, vector, minScore, limit, filters)
}

type matcherFixture struct {
	tenant   uuid.UUID
	repo     *fakeCandidateRepo
	jobs     *fakeJobRepo
	embedder *fakeEmbedder
	store    *countingVectorStore
	matcher  MatcherService
}

func newMatcherFixture() *matcherFixture {
	repo := &fakeCandidateRepo{candidates: map[uuid.UUID]models.Candidate{}}
	jobs := &fakeJobRepo{jobs: map[uuid.UUID]models.Job{}}
	embedder := &fakeEmbedder{vector: []float32{1, 0}}
	store := &countingVectorStore{VectorStore: NewMemoryVectorStore()}

	textBuilder := NewTextBuilder()
	explainer := NewExplainer()

	cfg := config.MatchingConfig{
		DefaultMinScore:     0.5,
		JobMinScore:         0.4,
		SimilarMinScore:     0.6,
		DefaultLimit:        20,
		JobMatchLimit:       50,
		SimilarLimit:        10,
		RecommendationLimit: 25,
		MaxLimit:            200,
	}

	return &matcherFixture{
		tenant:   uuid.New(),
		repo:     repo,
		jobs:     jobs,
		embedder: embedder,
		store:    store,
		matcher: NewMatcherService(
			repo,
			jobs,
			textBuilder,
			explainer,
			embedder,
			store,
			NewVectorSearcher(store),
			NewKeywordSearcher(repo, textBuilder, explainer),
			cfg,
		),
	}
}

func (f *matcherFixture) addCandidate(t *testing.T, candidate models.Candidate, vector []float32) {
	t.Helper()
	candidate.TenantID = f.tenant
	f.repo.candidates[candidate.ID] = candidate

	if vector != nil {
		payload := CandidatePayload{Skills: candidate.Skills, Location: candidate.Location}
		require.NoError(t, f.store.UpsertCandidate(context.Background(), f.tenant, candidate.ID, vector, payload))
	}
}

func TestSemanticSearchRanksVectorHits(t *testing.T) {
	f := newMatcherFixture()

	best := models.Candidate{ID: uuid.New(), FirstName: "Ada", CurrentTitle: "Go Developer", Skills: []string{"Go"}}
	good := models.Candidate{ID: uuid.New(), FirstName: "Grace", CurrentTitle: "Backend Engineer"}

	f.addCandidate(t, best, []float32{1, 0})
	f.addCandidate(t, good, []float32{0.9, 0.1})

	results, err := f.matcher.SemanticSearch(context.Background(), "go developer", f.tenant, SearchOptions{})
	require.NoError(t, err)

	require.Len(t, results, 2)
	assert.Equal(t, best.ID, results[0].CandidateID)
	assert.Equal(t, good.ID, results[1].CandidateID)
	assert.Greater(t, results[0].MatchScore, results[1].MatchScore)

	for _, result := range results {
		assert.Equal(t, models.StrategyVector, result.Strategy)
		assert.GreaterOrEqual(t, result.MatchScore, 0.0)
		assert.LessOrEqual(t, result.MatchScore, 1.0)
		assert.NotEmpty(t, result.MatchReason)
	}

	// The vector path served the request, so the lexical path never ran.
	assert.Equal(t, 0, f.repo.searchCalls)
}

func TestSemanticSearchAppliesExclusionFilter(t *testing.T) {
	f := newMatcherFixture()

	keep := models.Candidate{ID: uuid.New(), FirstName: "Ada"}
	skip := models.Candidate{ID: uuid.New(), FirstName: "Grace"}

	f.addCandidate(t, keep, []float32{1, 0})
	f.addCandidate(t, skip, []float32{1, 0})

	results, err := f.matcher.SemanticSearch(context.Background(), "engineer", f.tenant, SearchOptions{
		Filters: &models.SearchFilters{ExcludeCandidateIDs: []uuid.UUID{skip.ID}},
	})
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, keep.ID, results[0].CandidateID)
}

func TestSemanticSearchFallsBackOnProviderError(t *testing.T) {
	f := newMatcherFixture()
	f.embedder.err = fmt.Errorf("%w: provider unreachable", ErrProvider)

	f.repo.searchResults = []models.Candidate{
		{ID: uuid.New(), TenantID: f.tenant, CurrentTitle: "Go Developer"},
	}

	results, err := f.matcher.SemanticSearch(context.Background(), "go developer", f.tenant, SearchOptions{})
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, models.StrategyKeyword, results[0].Strategy)
	assert.Equal(t, 1, f.repo.searchCalls)
	assert.Equal(t, 0, f.store.nearestCalls)
}

func TestSemanticSearchFallsBackWhenNoVectorsStored(t *testing.T) {
	f := newMatcherFixture()

	f.repo.searchResults = []models.Candidate{
		{ID: uuid.New(), TenantID: f.tenant, CurrentTitle: "Go Developer"},
	}

	results, err := f.matcher.SemanticSearch(context.Background(), "go developer", f.tenant, SearchOptions{})
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, models.StrategyKeyword, results[0].Strategy)
	assert.Equal(t, 1, f.store.nearestCalls)
}

func TestSemanticSearchValidation(t *testing.T) {
	f := newMatcherFixture()

	tooHigh := 1.5
	negative := -0.1

	tests := []struct {
		name string
		opts SearchOptions
	}{
		{"LimitAboveMax", SearchOptions{Limit: 500}},
		{"MinScoreAboveOne", SearchOptions{MinScore: &tooHigh}},
		{"MinScoreNegative", SearchOptions{MinScore: &negative}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.matcher.SemanticSearch(context.Background(), "query", f.tenant, tt.opts)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}

	assert.Equal(t, 0, f.embedder.calls)
}

func TestMatchCandidatesToJobMissingJob(t *testing.T) {
	f := newMatcherFixture()

	results, err := f.matcher.MatchCandidatesToJob(context.Background(), uuid.New(), f.tenant, 0)
	require.NoError(t, err)

	assert.Empty(t, results)
	assert.Equal(t, 0, f.embedder.calls)
}

func TestMatchCandidatesToJobFiltersByJobLocation(t *testing.T) {
	f := newMatcherFixture()

	jobID := uuid.New()
	f.jobs.jobs[jobID] = models.Job{
		ID:              jobID,
		TenantID:        f.tenant,
		Title:           "Platform Engineer",
		Description:     "Build internal tooling.",
		PrimaryLocation: "Berlin",
	}

	local := models.Candidate{ID: uuid.New(), FirstName: "Ada", Location: "Berlin, Germany"}
	remote := models.Candidate{ID: uuid.New(), FirstName: "Grace", Location: "Remote"}

	f.addCandidate(t, local, []float32{1, 0})
	f.addCandidate(t, remote, []float32{1, 0})

	results, err := f.matcher.MatchCandidatesToJob(context.Background(), jobID, f.tenant, 0)
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, local.ID, results[0].CandidateID)
	assert.Contains(t, f.embedder.lastText, "Platform Engineer")
}

func TestFindSimilarCandidatesExcludesSource(t *testing.T) {
	f := newMatcherFixture()

	source := models.Candidate{ID: uuid.New(), CurrentTitle: "Go Developer", Skills: []string{"Go"}}
	twin := models.Candidate{ID: uuid.New(), CurrentTitle: "Go Developer", Skills: []string{"Go"}}

	f.addCandidate(t, source, []float32{1, 0})
	f.addCandidate(t, twin, []float32{1, 0})

	results, err := f.matcher.FindSimilarCandidates(context.Background(), source.ID, f.tenant, 0)
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, twin.ID, results[0].CandidateID)
}

func TestFindSimilarCandidatesMissingCandidate(t *testing.T) {
	f := newMatcherFixture()

	results, err := f.matcher.FindSimilarCandidates(context.Background(), uuid.New(), f.tenant, 0)
	require.NoError(t, err)

	assert.Empty(t, results)
	assert.Equal(t, 0, f.embedder.calls)
}

func TestGetRecommendationsBuildsQueryFromCriteria(t *testing.T) {
	f := newMatcherFixture()

	_, err := f.matcher.GetRecommendations(context.Background(), f.tenant, models.RecommendationCriteria{
		Role:      "Backend Engineer",
		Skills:    []string{"Go", "Postgres"},
		Seniority: "senior",
		Industry:  "fintech",
	})
	require.NoError(t, err)

	assert.Equal(t,
		"Backend Engineer with skills in Go, Postgres senior level from fintech industry",
		f.embedder.lastText)
}

func TestGetRecommendationsDefaultQuery(t *testing.T) {
	f := newMatcherFixture()

	_, err := f.matcher.GetRecommendations(context.Background(), f.tenant, models.RecommendationCriteria{})
	require.NoError(t, err)

	assert.Equal(t, defaultRecommendationQuery, f.embedder.lastText)
}

func TestUpdateEmbeddingStoresVectorAndMarksSynced(t *testing.T) {
	f := newMatcherFixture()

	candidate := models.Candidate{ID: uuid.New(), CurrentTitle: "Go Developer", Skills: []string{"Go"}}
	f.addCandidate(t, candidate, nil)

	require.NoError(t, f.matcher.UpdateEmbedding(context.Background(), candidate.ID, f.tenant))

	hasVectors, err := f.store.HasVectors(context.Background(), f.tenant)
	require.NoError(t, err)
	assert.True(t, hasVectors)
	assert.Equal(t, []uuid.UUID{candidate.ID}, f.repo.syncedIDs)
}

func TestUpdateEmbeddingSkipsEmptyProfile(t *testing.T) {
	f := newMatcherFixture()

	candidate := models.Candidate{ID: uuid.New()}
	f.addCandidate(t, candidate, nil)

	require.NoError(t, f.matcher.UpdateEmbedding(context.Background(), candidate.ID, f.tenant))

	assert.Equal(t, 0, f.embedder.calls)
	assert.Empty(t, f.repo.syncedIDs)
}

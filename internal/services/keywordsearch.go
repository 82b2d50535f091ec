package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"hireflow/talent-matcher/internal/models"
	"hireflow/talent-matcher/internal/repositories"
)

// KeywordSearcher is the lexical fallback strategy, used when vector search
// is unavailable or comes back empty. Retrieval is predicate-based; ranking
// comes from Jaccard token overlap against the flattened profile text.
type KeywordSearcher interface {
	Search(ctx context.Context, query string, tenantID uuid.UUID, filters *models.SearchFilters, limit int) ([]models.MatchResult, error)
}

type keywordSearcher struct {
	candidateRepo repositories.CandidateRepository
	textBuilder   TextBuilder
	explainer     Explainer
}

func NewKeywordSearcher(
	candidateRepo repositories.CandidateRepository,
	textBuilder TextBuilder,
	explainer Explainer,
) KeywordSearcher {
	return &keywordSearcher{
		candidateRepo: candidateRepo,
		textBuilder:   textBuilder,
		explainer:     explainer,
	}
}

// Search implements KeywordSearcher.
func (s *keywordSearcher) Search(ctx context.Context, query string, tenantID uuid.UUID, filters *models.SearchFilters, limit int) ([]models.MatchResult, error) {
	tokens := tokenize(query, 2)

	var excludeIDs []uuid.UUID
	if filters != nil {
		excludeIDs = filters.ExcludeCandidateIDs
	}

	candidates, err := s.candidateRepo.SearchByKeywords(tenantID, query, tokens, excludeIDs, limit)
	if err != nil {
		return nil, fmt.Errorf("keyword search failed: %w", err)
	}

	results := make([]models.MatchResult, 0, len(candidates))
	for i := range candidates {
		candidate := &candidates[i]

		score := JaccardSimilarity(query, s.textBuilder.BuildCandidateText(candidate))

		results = append(results, models.MatchResult{
			CandidateID:    candidate.ID,
			FirstName:      candidate.FirstName,
			LastName:       candidate.LastName,
			Email:          candidate.Email,
			CurrentTitle:   candidate.CurrentTitle,
			CurrentCompany: candidate.CurrentCompany,
			Location:       candidate.Location,
			Skills:         candidate.Skills,
			MatchScore:     score,
			MatchReason:    s.explainer.MatchReason(query, candidate),
			Highlights:     s.explainer.Highlights(query, candidate),
			Strategy:       models.StrategyKeyword,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].MatchScore != results[j].MatchScore {
			return results[i].MatchScore > results[j].MatchScore
		}
		return results[i].CandidateID.String() < results[j].CandidateID.String()
	})

	return results, nil
}

// JaccardSimilarity computes |intersection| / |union| over lower-cased tokens
// longer than two characters. Returns 0 when the union is empty.
func JaccardSimilarity(a, b string) float64 {
	setA := tokenSet(tokenize(a, 2))
	setB := tokenSet(tokenize(b, 2))

	intersection := 0
	for token := range setA {
		if _, ok := setB[token]; ok {
			intersection++
		}
	}

	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}

	return float64(intersection) / float64(union)
}

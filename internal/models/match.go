package models

import "github.com/google/uuid"

// Strategy labels which search path produced a result. Vector and keyword
// scores are not numerically comparable, so results carry their origin.
type Strategy string

const (
	StrategyVector  Strategy = "vector"
	StrategyKeyword Strategy = "keyword"
)

// MatchResult is the per-request response shape of every matching operation.
// It is never persisted.
type MatchResult struct {
	CandidateID    uuid.UUID `json:"candidate_id"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Email          string    `json:"email"`
	CurrentTitle   string    `json:"current_title,omitempty"`
	CurrentCompany string    `json:"current_company,omitempty"`
	Location       string    `json:"location,omitempty"`
	Skills         []string  `json:"skills"`
	MatchScore     float64   `json:"match_score"`
	MatchReason    string    `json:"match_reason"`
	Highlights     []string  `json:"highlights"`
	Strategy       Strategy  `json:"strategy"`
}

// SearchFilters narrows a search to candidates matching all set fields.
type SearchFilters struct {
	Skills              []string    `json:"skills,omitempty"`
	Location            string      `json:"location,omitempty"`
	ExcludeCandidateIDs []uuid.UUID `json:"exclude_candidate_ids,omitempty"`
}

type SearchRequest struct {
	Query    string         `json:"query"`
	Limit    int            `json:"limit"`
	MinScore *float64       `json:"min_score,omitempty"`
	Filters  *SearchFilters `json:"filters,omitempty"`
}

type RecommendationCriteria struct {
	Role      string   `json:"role,omitempty"`
	Skills    []string `json:"skills,omitempty"`
	Seniority string   `json:"seniority,omitempty"`
	Industry  string   `json:"industry,omitempty"`
}

type SearchResponse struct {
	Results []MatchResult `json:"results"`
	Total   int           `json:"total"`
}

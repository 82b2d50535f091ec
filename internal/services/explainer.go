package services

import (
	"fmt"
	"strings"

	"hireflow/talent-matcher/internal/models"
)

const (
	maxNamedSkills     = 3
	maxHighlights      = 5
	maxSnippetChars    = 150
	minSentenceLength  = 20
	highlightTokenSize = 3
)

// Explainer derives the human-readable part of a match: a short reason and
// up to five highlight snippets. Both are recomputed per response, never
// stored.
type Explainer interface {
	MatchReason(query string, candidate *models.Candidate) string
	Highlights(query string, candidate *models.Candidate) []string
}

type explainer struct{}

func NewExplainer() Explainer {
	return &explainer{}
}

// MatchReason implements Explainer.
func (e *explainer) MatchReason(query string, candidate *models.Candidate) string {
	var reasons []string
	queryLower := strings.ToLower(query)

	// Check skills match
	var matchedSkills []string
	for _, skill := range candidate.Skills {
		if strings.Contains(queryLower, strings.ToLower(skill)) {
			matchedSkills = append(matchedSkills, skill)
		}
	}
	if len(matchedSkills) > 0 {
		named := matchedSkills
		if len(named) > maxNamedSkills {
			named = named[:maxNamedSkills]
		}
		plural := ""
		if len(matchedSkills) > 1 {
			plural = "s"
		}
		reasons = append(reasons, fmt.Sprintf("Has %d matching skill%s: %s",
			len(matchedSkills), plural, strings.Join(named, ", ")))
	}

	// Check title match
	if words := strings.Fields(candidate.CurrentTitle); len(words) > 0 {
		firstWord := strings.ToLower(words[0])
		if strings.Contains(queryLower, firstWord) {
			reasons = append(reasons, "Current title matches: "+candidate.CurrentTitle)
		}
	}

	// Check location match
	if candidate.Location != "" && strings.Contains(queryLower, strings.ToLower(candidate.Location)) {
		reasons = append(reasons, "Location matches: "+candidate.Location)
	}

	if len(reasons) == 0 {
		return "Profile matches search criteria"
	}

	return strings.Join(reasons, ". ")
}

// Highlights implements Explainer.
func (e *explainer) Highlights(query string, candidate *models.Candidate) []string {
	var highlights []string
	queryWords := tokenize(query, highlightTokenSize)

	// Matching skills first
	var matchedSkills []string
	for _, skill := range candidate.Skills {
		skillLower := strings.ToLower(skill)
		for _, word := range queryWords {
			if strings.Contains(skillLower, word) {
				matchedSkills = append(matchedSkills, skill)
				break
			}
		}
	}
	if len(matchedSkills) > 0 {
		highlights = append(highlights, "Skills: "+strings.Join(matchedSkills, ", "))
	}

	// Current position
	if candidate.CurrentTitle != "" {
		position := candidate.CurrentTitle
		if candidate.CurrentCompany != "" {
			position += " at " + candidate.CurrentCompany
		}
		highlights = append(highlights, position)
	}

	// First relevant summary sentence
	if candidate.Summary != "" {
		if snippet := relevantSnippet(candidate.Summary, queryWords); snippet != "" {
			highlights = append(highlights, snippet)
		}
	}

	if len(highlights) > maxHighlights {
		highlights = highlights[:maxHighlights]
	}

	return highlights
}

// relevantSnippet returns the first sufficiently long sentence containing any
// query token, truncated with an ellipsis.
func relevantSnippet(summary string, queryWords []string) string {
	sentences := strings.FieldsFunc(summary, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})

	for _, sentence := range sentences {
		sentence = strings.TrimSpace(sentence)
		if len(sentence) <= minSentenceLength {
			continue
		}

		sentenceLower := strings.ToLower(sentence)
		for _, word := range queryWords {
			if strings.Contains(sentenceLower, word) {
				return truncateChars(sentence, maxSnippetChars) + "..."
			}
		}
	}

	return ""
}

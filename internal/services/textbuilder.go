package services

import (
	"strings"

	"hireflow/talent-matcher/internal/models"
)

// maxResumeChars caps how much résumé text flows into the flattened profile,
// so one long résumé cannot overwhelm the embedding or keyword signals.
const maxResumeChars = 2000

type TextBuilder interface {
	BuildCandidateText(candidate *models.Candidate) string
	BuildJobText(job *models.Job) string
}

type textBuilder struct{}

func NewTextBuilder() TextBuilder {
	return &textBuilder{}
}

// BuildCandidateText implements TextBuilder. Parts are appended in a fixed
// order and skipped when empty, so the same profile always flattens to the
// same string.
func (tb *textBuilder) BuildCandidateText(candidate *models.Candidate) string {
	var parts []string

	if candidate.CurrentTitle != "" {
		parts = append(parts, "Current role: "+candidate.CurrentTitle)
	}
	if candidate.CurrentCompany != "" {
		parts = append(parts, "at "+candidate.CurrentCompany)
	}
	if candidate.Location != "" {
		parts = append(parts, "Location: "+candidate.Location)
	}
	if len(candidate.Skills) > 0 {
		parts = append(parts, "Skills: "+strings.Join(candidate.Skills, ", "))
	}
	if candidate.Summary != "" {
		parts = append(parts, candidate.Summary)
	}
	if candidate.ResumeText != "" {
		parts = append(parts, truncateChars(candidate.ResumeText, maxResumeChars))
	}

	return strings.Join(parts, " ")
}

// BuildJobText implements TextBuilder.
func (tb *textBuilder) BuildJobText(job *models.Job) string {
	var parts []string

	if job.Title != "" {
		parts = append(parts, job.Title)
	}
	if job.Description != "" {
		parts = append(parts, job.Description)
	}
	if job.Requirements != "" {
		parts = append(parts, job.Requirements)
	}
	if len(job.Skills) > 0 {
		parts = append(parts, strings.Join(job.Skills, ", "))
	}

	return strings.Join(parts, " ")
}

// tokenize lower-cases text, splits it on whitespace and drops tokens of
// minLen characters or fewer.
func tokenize(text string, minLen int) []string {
	var tokens []string
	for _, field := range strings.Fields(strings.ToLower(text)) {
		if len(field) > minLen {
			tokens = append(tokens, field)
		}
	}
	return tokens
}

// truncateChars caps text at max characters without splitting a multibyte
// rune at the boundary.
func truncateChars(text string, max int) string {
	if len(text) <= max {
		return text
	}

	runes := []rune(text)
	if len(runes) <= max {
		return text
	}

	return string(runes[:max])
}

func tokenSet(tokens []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}

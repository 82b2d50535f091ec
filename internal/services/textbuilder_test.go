package services

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"hireflow/talent-matcher/internal/models"
)

func TestBuildCandidateText(t *testing.T) {
	tb := NewTextBuilder()

	tests := []struct {
		name      string
		candidate models.Candidate
		expected  string
	}{
		{
			name: "AllFields",
			candidate: models.Candidate{
				CurrentTitle:   "Backend Engineer",
				CurrentCompany: "Acme",
				Location:       "Berlin",
				Skills:         []string{"Go", "Postgres"},
				Summary:        "Builds reliable services.",
				ResumeText:     "Ten years of experience.",
			},
			expected: "Current role: Backend Engineer at Acme Location: Berlin Skills: Go, Postgres Builds reliable services. Ten years of experience.",
		},
		{
			name: "SkipsEmptyFields",
			candidate: models.Candidate{
				CurrentTitle: "Designer",
				Skills:       []string{"Figma"},
			},
			expected: "Current role: Designer Skills: Figma",
		},
		{
			name:      "Empty",
			candidate: models.Candidate{},
			expected:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tb.BuildCandidateText(&tt.candidate))
		})
	}
}

func TestBuildCandidateTextTruncatesResume(t *testing.T) {
	tb := NewTextBuilder()

	candidate := models.Candidate{
		ResumeText: strings.Repeat("a", 2500),
	}

	text := tb.BuildCandidateText(&candidate)
	assert.Len(t, text, maxResumeChars)
}

func TestBuildCandidateTextTruncatesResumeOnRuneBoundary(t *testing.T) {
	tb := NewTextBuilder()

	candidate := models.Candidate{
		ResumeText: strings.Repeat("é", 2100),
	}

	text := tb.BuildCandidateText(&candidate)
	assert.True(t, utf8.ValidString(text))
	assert.Equal(t, maxResumeChars, utf8.RuneCountInString(text))
}

func TestBuildJobText(t *testing.T) {
	tb := NewTextBuilder()

	job := models.Job{
		Title:        "Data Scientist",
		Description:  "Work on ranking models.",
		Requirements: "Python required.",
		Skills:       []string{"Python", "SQL"},
	}

	assert.Equal(t,
		"Data Scientist Work on ranking models. Python required. Python, SQL",
		tb.BuildJobText(&job))

	assert.Equal(t, "", tb.BuildJobText(&models.Job{}))
}

func TestTokenize(t *testing.T) {
	tokens := tokenize("Senior Go developer in NYC", 2)
	assert.Equal(t, []string{"senior", "developer", "nyc"}, tokens)
}

package services

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hireflow/talent-matcher/internal/models"
)

func TestMatchReason(t *testing.T) {
	e := NewExplainer()

	tests := []struct {
		name      string
		query     string
		candidate models.Candidate
		expected  string
	}{
		{
			name:  "SkillAndTitleMatch",
			query: "React developer",
			candidate: models.Candidate{
				CurrentTitle: "React Developer",
				Skills:       []string{"React", "CSS"},
			},
			expected: "Has 1 matching skill: React. Current title matches: React Developer",
		},
		{
			name:  "MultipleSkillsCappedAtThree",
			query: "go postgres docker kubernetes engineer",
			candidate: models.Candidate{
				Skills: []string{"Go", "Postgres", "Docker", "Kubernetes"},
			},
			expected: "Has 4 matching skills: Go, Postgres, Docker",
		},
		{
			name:  "LocationMatch",
			query: "engineers in berlin",
			candidate: models.Candidate{
				Location: "Berlin",
			},
			expected: "Location matches: Berlin",
		},
		{
			name:  "NoSignal",
			query: "quantum researcher",
			candidate: models.Candidate{
				CurrentTitle: "Accountant",
				Skills:       []string{"Excel"},
			},
			expected: "Profile matches search criteria",
		},
		{
			name:  "WhitespaceOnlyTitle",
			query: "react developer",
			candidate: models.Candidate{
				CurrentTitle: "   ",
			},
			expected: "Profile matches search criteria",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, e.MatchReason(tt.query, &tt.candidate))
		})
	}
}

func TestHighlights(t *testing.T) {
	e := NewExplainer()

	candidate := models.Candidate{
		CurrentTitle:   "React Developer",
		CurrentCompany: "Acme",
		Skills:         []string{"React", "CSS"},
		Summary:        "Short. Spent five years building React applications for large retailers. Also mentors juniors.",
	}

	highlights := e.Highlights("React developer", &candidate)

	assert.LessOrEqual(t, len(highlights), 5)
	assert.Contains(t, highlights, "Skills: React")
	assert.Contains(t, highlights, "React Developer at Acme")
	assert.Contains(t, highlights, "Spent five years building React applications for large retailers...")
}

func TestHighlightsTruncatesLongSentences(t *testing.T) {
	e := NewExplainer()

	long := "This developer has worked with React across a very long list of projects spanning commerce, fintech, media, logistics, travel, health and several other industries over many years"
	candidate := models.Candidate{Summary: long + "."}

	highlights := e.Highlights("React developer", &candidate)

	assert.Len(t, highlights, 1)
	assert.LessOrEqual(t, len(highlights[0]), maxSnippetChars+3)
	assert.True(t, len(highlights[0]) > 0)
}

func TestHighlightsTruncateOnRuneBoundary(t *testing.T) {
	e := NewExplainer()

	long := "Built React dashboards " + strings.Repeat("é", 200)
	candidate := models.Candidate{Summary: long + "."}

	highlights := e.Highlights("React developer", &candidate)

	require.Len(t, highlights, 1)
	assert.True(t, utf8.ValidString(highlights[0]))
	assert.Equal(t, maxSnippetChars+3, utf8.RuneCountInString(highlights[0]))
	assert.True(t, strings.HasSuffix(highlights[0], "..."))
}

func TestHighlightsEmptyCandidate(t *testing.T) {
	e := NewExplainer()

	highlights := e.Highlights("anything", &models.Candidate{})
	assert.Empty(t, highlights)
}

package models_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/leettrack/internal/models"
)

func TestParseDifficulty(t *testing.T) {
	d, ok := models.ParseDifficulty("  Hard ")
	require.True(t, ok)
	assert.Equal(t, models.Hard, d)

	_, ok = models.ParseDifficulty("hard")
	assert.False(t, ok)

	assert.Equal(t, models.Easy, models.DifficultyOrDefault("Impossible"))
	assert.Equal(t, models.Easy, models.DifficultyOrDefault(""))
	assert.Equal(t, models.Medium, models.DifficultyOrDefault("Medium"))
}

func TestNormalize_AppliesDefaults(t *testing.T) {
	now := time.Date(2024, 3, 10, 15, 30, 0, 0, time.Local)

	p := models.Normalize(models.Problem{
		Title:           "  1. Two Sum ",
		DurationMinutes: -4,
		Difficulty:      "Extreme",
		TimeComplexity:  "O(n), O(1)",
	}, now)

	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.Local), p.SolvedDate)
	assert.Equal(t, 0, p.DurationMinutes)
	assert.Equal(t, models.Easy, p.Difficulty)
	assert.Equal(t, models.Easy, p.RedoDifficulty)
	assert.Equal(t, "1. Two Sum", p.Title)
	assert.Equal(t, "https://leetcode.com/problems/two-sum/", p.URL)
	assert.Equal(t, "O(n)", p.TimeComplexity)
	assert.Equal(t, "O(1)", p.SpaceComplexity)
}

func TestNormalize_KeepsSuppliedURLAndNotes(t *testing.T) {
	now := time.Date(2024, 3, 10, 0, 0, 0, 0, time.Local)
	p := models.Normalize(models.Problem{
		Title: "Two Sum",
		URL:   "https://leetcode.com/problems/two-sum/",
		Notes: "  line one\nline two  ",
	}, now)

	assert.Equal(t, "https://leetcode.com/problems/two-sum/", p.URL)
	assert.Equal(t, "  line one\nline two  ", p.Notes)
}

func TestSplitComplexity(t *testing.T) {
	tests := []struct {
		name               string
		timeIn, spaceIn    string
		timeOut, spaceOut  string
	}{
		{"combined", "O(N),S(N)", "", "O(N)", "S(N)"},
		{"first comma only", "O(n, m),O(1)", "", "O(n", "m),O(1)"},
		{"space present", "O(n),O(1)", "O(n)", "O(n),O(1)", "O(n)"},
		{"no comma", " O(log n) ", "", "O(log n)", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotTime, gotSpace := models.SplitComplexity(tt.timeIn, tt.spaceIn)
			assert.Equal(t, tt.timeOut, gotTime)
			assert.Equal(t, tt.spaceOut, gotSpace)
		})
	}
}

func TestProblemPatch_Apply(t *testing.T) {
	notes := "revisit"
	redo := models.Hard
	orig := models.Problem{ID: "a", Title: "1. Two Sum", Notes: "old", RedoDifficulty: models.Easy}

	patched := models.ProblemPatch{Notes: &notes, RedoDifficulty: &redo}.Apply(orig)

	assert.Equal(t, "a", patched.ID)
	assert.Equal(t, "1. Two Sum", patched.Title)
	assert.Equal(t, "revisit", patched.Notes)
	assert.Equal(t, models.Hard, patched.RedoDifficulty)
	assert.Equal(t, "old", orig.Notes, "original must not be mutated")
	assert.True(t, models.ProblemPatch{}.Empty())
}

func TestMergeInto_OnlyOverwritesPresentFields(t *testing.T) {
	dst := models.Problem{
		ID:              "keep",
		Title:           "1. Two Sum",
		Difficulty:      models.Easy,
		Approach:        "hash map",
		DurationMinutes: 20,
	}
	src := models.Problem{
		ID:         "other",
		Difficulty: models.Medium,
		Tags:       []string{"Array"},
	}

	merged := models.MergeInto(dst, src)

	assert.Equal(t, "keep", merged.ID)
	assert.Equal(t, models.Medium, merged.Difficulty)
	assert.Equal(t, "hash map", merged.Approach)
	assert.Equal(t, 20, merged.DurationMinutes)
	assert.Equal(t, []string{"Array"}, merged.Tags)
}

func TestDetectedProblem(t *testing.T) {
	d := models.DetectedProblem{URL: "https://leetcode.com/problems/two-sum/"}
	assert.True(t, d.NeedsMetadata())

	d.Title = "Two Sum"
	d.Difficulty = "Easy"
	assert.False(t, d.NeedsMetadata())

	p := d.ToProblem()
	assert.Equal(t, "Two Sum", p.Title)
	assert.Equal(t, models.Easy, p.Difficulty)
	assert.Empty(t, p.RedoDifficulty)
}

func TestIDGenerator_Unique(t *testing.T) {
	g := models.NewIDGenerator()
	seen := map[string]bool{}
	for i := 0; i < 1000; i++ {
		id := g.New()
		require.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

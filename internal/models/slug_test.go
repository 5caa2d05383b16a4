package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vytor/leettrack/internal/models"
)

func TestDeriveSlug(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"1. Two Sum", "two-sum"},
		{"  42.   Trapping   Rain Water ", "trapping-rain-water"},
		{"50. Pow(x, n)", "powx-n"},
		{"3. Longest Substring Without Repeating-Characters", "longest-substring-without-repeating-characters"},
		{"Two Sum", "unknown"},
		{"7.", "unknown"},
		{"", "unknown"},
		{"1. A.B Test", "ab-test"},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, models.DeriveSlug(tt.title))
		})
	}
}

func TestDeriveURL(t *testing.T) {
	assert.Equal(t, "https://leetcode.com/problems/two-sum/", models.DeriveURL("1. Two Sum"))
	assert.Equal(t, "https://leetcode.com/problems/unknown/", models.DeriveURL("no number"))
	assert.True(t, models.IsPlaceholderURL(models.DeriveURL("no number")))
	assert.True(t, models.IsPlaceholderURL("  "))
	assert.False(t, models.IsPlaceholderURL(models.DeriveURL("1. Two Sum")))
}

func TestSlugFromURL(t *testing.T) {
	slug, ok := models.SlugFromURL("https://leetcode.com/problems/two-sum/description/")
	assert.True(t, ok)
	assert.Equal(t, "two-sum", slug)

	_, ok = models.SlugFromURL("https://leetcode.com/contest/")
	assert.False(t, ok)

	assert.Equal(t, "https://leetcode.com/problems/two-sum/",
		models.CanonicalURL("https://leetcode.com/problems/two-sum/description/?envType=daily"))
	assert.Equal(t, "https://example.com/x", models.CanonicalURL(" https://example.com/x "))
}

package models

import (
	"sort"
	"strings"
)

// MatchesSearch reports whether term occurs, case-insensitively, in the
// title, approach or notes. An empty term matches everything.
func MatchesSearch(p Problem, term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Title), term) ||
		strings.Contains(strings.ToLower(p.Approach), term) ||
		strings.Contains(strings.ToLower(p.Notes), term)
}

const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

var sortKeys = map[string]func(a, b Problem) int{
	"date": func(a, b Problem) int { return a.SolvedDate.Compare(b.SolvedDate) },
	"duration": func(a, b Problem) int {
		return a.DurationMinutes - b.DurationMinutes
	},
	"difficulty":      func(a, b Problem) int { return a.Difficulty.rank() - b.Difficulty.rank() },
	"problemTitle":    func(a, b Problem) int { return strings.Compare(a.Title, b.Title) },
	"redo":            func(a, b Problem) int { return a.RedoDifficulty.rank() - b.RedoDifficulty.rank() },
	"timeComplexity":  func(a, b Problem) int { return strings.Compare(a.TimeComplexity, b.TimeComplexity) },
	"spaceComplexity": func(a, b Problem) int { return strings.Compare(a.SpaceComplexity, b.SpaceComplexity) },
}

// ValidSortKey reports whether key names a sortable column.
func ValidSortKey(key string) bool {
	_, ok := sortKeys[key]
	return ok
}

// SortProblems sorts records in place by a dashboard column. Unknown keys
// leave the order untouched. Equal elements keep their relative order.
func SortProblems(records []Problem, key, dir string) {
	cmp, ok := sortKeys[key]
	if !ok {
		return
	}
	desc := strings.EqualFold(dir, SortDesc)
	sort.SliceStable(records, func(i, j int) bool {
		c := cmp(records[i], records[j])
		if desc {
			return c > 0
		}
		return c < 0
	})
}

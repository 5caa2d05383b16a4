package models

import (
	"strings"
	"time"
)

type Difficulty string

const (
	Easy   Difficulty = "Easy"
	Medium Difficulty = "Medium"
	Hard   Difficulty = "Hard"
)

// Difficulties lists the valid levels in ascending order.
var Difficulties = []Difficulty{Easy, Medium, Hard}

// ParseDifficulty trims s and reports whether it names a valid level.
// Matching is exact: "hard" is not Hard.
func ParseDifficulty(s string) (Difficulty, bool) {
	switch d := Difficulty(strings.TrimSpace(s)); d {
	case Easy, Medium, Hard:
		return d, true
	}
	return "", false
}

// DifficultyOrDefault returns the parsed level, or Easy for anything invalid.
func DifficultyOrDefault(s string) Difficulty {
	if d, ok := ParseDifficulty(s); ok {
		return d
	}
	return Easy
}

func (d Difficulty) Valid() bool {
	_, ok := ParseDifficulty(string(d))
	return ok
}

func (d Difficulty) rank() int {
	switch d {
	case Easy:
		return 1
	case Medium:
		return 2
	case Hard:
		return 3
	}
	return 0
}

// Problem is one tracked problem-solving attempt. JSON names match the
// format the browser extension persists so snapshots can be exchanged.
type Problem struct {
	ID              string     `json:"id"`
	SolvedDate      time.Time  `json:"date"`
	DurationMinutes int        `json:"duration"`
	Difficulty      Difficulty `json:"difficulty"`
	Title           string     `json:"problemTitle"`
	URL             string     `json:"problemUrl"`
	RedoDifficulty  Difficulty `json:"redo"`
	Approach        string     `json:"approach"`
	Notes           string     `json:"notes"`
	TimeComplexity  string     `json:"timeComplexity"`
	SpaceComplexity string     `json:"spaceComplexity"`

	Description string     `json:"description,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
	UpdatedAt   *time.Time `json:"timestamp,omitempty"`
}

// Clone returns a deep copy so callers never share the tag slice or timestamp.
func (p Problem) Clone() Problem {
	if p.Tags != nil {
		p.Tags = append([]string(nil), p.Tags...)
	}
	if p.UpdatedAt != nil {
		t := *p.UpdatedAt
		p.UpdatedAt = &t
	}
	return p
}

// Normalize applies the field default table: missing or malformed values
// become documented defaults instead of errors. now supplies the fallback
// solved date and the calendar location.
func Normalize(p Problem, now time.Time) Problem {
	p = p.Clone()
	if p.SolvedDate.IsZero() {
		p.SolvedDate = now
	}
	p.SolvedDate = Midnight(p.SolvedDate.In(now.Location()))
	if p.DurationMinutes < 0 {
		p.DurationMinutes = 0
	}
	p.Difficulty = DifficultyOrDefault(string(p.Difficulty))
	p.RedoDifficulty = DifficultyOrDefault(string(p.RedoDifficulty))
	p.Title = strings.TrimSpace(p.Title)
	p.URL = strings.TrimSpace(p.URL)
	if p.URL == "" {
		p.URL = DeriveURL(p.Title)
	}
	p.TimeComplexity, p.SpaceComplexity = SplitComplexity(p.TimeComplexity, p.SpaceComplexity)
	return p
}

// SplitComplexity trims both labels and, when time holds a comma-joined
// pair and space is empty, splits time on its first comma.
func SplitComplexity(timeC, spaceC string) (string, string) {
	timeC = strings.TrimSpace(timeC)
	spaceC = strings.TrimSpace(spaceC)
	if spaceC == "" {
		if before, after, found := strings.Cut(timeC, ","); found {
			return strings.TrimSpace(before), strings.TrimSpace(after)
		}
	}
	return timeC, spaceC
}

// ProblemPatch carries the fields of a partial update; nil means unchanged.
type ProblemPatch struct {
	SolvedDate      *time.Time  `json:"date,omitempty"`
	DurationMinutes *int        `json:"duration,omitempty"`
	Difficulty      *Difficulty `json:"difficulty,omitempty"`
	Title           *string     `json:"problemTitle,omitempty"`
	URL             *string     `json:"problemUrl,omitempty"`
	RedoDifficulty  *Difficulty `json:"redo,omitempty"`
	Approach        *string     `json:"approach,omitempty"`
	Notes           *string     `json:"notes,omitempty"`
	TimeComplexity  *string     `json:"timeComplexity,omitempty"`
	SpaceComplexity *string     `json:"spaceComplexity,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (pp ProblemPatch) Empty() bool {
	return pp.SolvedDate == nil && pp.DurationMinutes == nil && pp.Difficulty == nil &&
		pp.Title == nil && pp.URL == nil && pp.RedoDifficulty == nil && pp.Approach == nil &&
		pp.Notes == nil && pp.TimeComplexity == nil && pp.SpaceComplexity == nil
}

// Apply returns p with the patch merged in. The id is never touched.
func (pp ProblemPatch) Apply(p Problem) Problem {
	p = p.Clone()
	if pp.SolvedDate != nil {
		p.SolvedDate = *pp.SolvedDate
	}
	if pp.DurationMinutes != nil {
		p.DurationMinutes = *pp.DurationMinutes
	}
	if pp.Difficulty != nil {
		p.Difficulty = *pp.Difficulty
	}
	if pp.Title != nil {
		p.Title = *pp.Title
	}
	if pp.URL != nil {
		p.URL = *pp.URL
	}
	if pp.RedoDifficulty != nil {
		p.RedoDifficulty = *pp.RedoDifficulty
	}
	if pp.Approach != nil {
		p.Approach = *pp.Approach
	}
	if pp.Notes != nil {
		p.Notes = *pp.Notes
	}
	if pp.TimeComplexity != nil {
		p.TimeComplexity = *pp.TimeComplexity
	}
	if pp.SpaceComplexity != nil {
		p.SpaceComplexity = *pp.SpaceComplexity
	}
	return p
}

// MergeInto copies every non-zero field of src onto dst, keeping dst's id.
// Used when an incoming record matches an existing one by url.
func MergeInto(dst, src Problem) Problem {
	dst = dst.Clone()
	if !src.SolvedDate.IsZero() {
		dst.SolvedDate = src.SolvedDate
	}
	if src.DurationMinutes > 0 {
		dst.DurationMinutes = src.DurationMinutes
	}
	if d, ok := ParseDifficulty(string(src.Difficulty)); ok {
		dst.Difficulty = d
	}
	if src.Title != "" {
		dst.Title = src.Title
	}
	if src.URL != "" {
		dst.URL = src.URL
	}
	if d, ok := ParseDifficulty(string(src.RedoDifficulty)); ok {
		dst.RedoDifficulty = d
	}
	if src.Approach != "" {
		dst.Approach = src.Approach
	}
	if src.Notes != "" {
		dst.Notes = src.Notes
	}
	if src.TimeComplexity != "" {
		dst.TimeComplexity = src.TimeComplexity
	}
	if src.SpaceComplexity != "" {
		dst.SpaceComplexity = src.SpaceComplexity
	}
	if src.Description != "" {
		dst.Description = src.Description
	}
	if len(src.Tags) > 0 {
		dst.Tags = append([]string(nil), src.Tags...)
	}
	return dst
}

// Reminder is a derived, transient indication that a problem is due for
// review. It is rebuilt from scratch on every calculation.
type Reminder struct {
	ID                 string     `json:"id"`
	Title              string     `json:"problemTitle"`
	URL                string     `json:"problemUrl"`
	OriginalDifficulty Difficulty `json:"originalDifficulty"`
	RedoDifficulty     Difficulty `json:"redoDifficulty"`
	DaysSinceSolved    int        `json:"daysSinceSolved"`
	IsDue              bool       `json:"isDue"`
}

// DetectedProblem is the best-effort partial record supplied by the
// problem-page detector. Any field may be empty.
type DetectedProblem struct {
	Title         string     `json:"problemTitle,omitempty"`
	Difficulty    string     `json:"difficulty,omitempty"`
	ProblemNumber string     `json:"problemNumber,omitempty"`
	URL           string     `json:"problemUrl,omitempty"`
	Description   string     `json:"description,omitempty"`
	Tags          []string   `json:"tags,omitempty"`
	Timestamp     *time.Time `json:"timestamp,omitempty"`
}

// NeedsMetadata reports whether the detector left out fields the metadata
// source can fill in.
func (d DetectedProblem) NeedsMetadata() bool {
	_, ok := ParseDifficulty(d.Difficulty)
	return strings.TrimSpace(d.Title) == "" || !ok
}

// ToProblem maps the detected fields onto a Problem, leaving everything the
// detector does not know at its zero value.
func (d DetectedProblem) ToProblem() Problem {
	p := Problem{
		Title:       strings.TrimSpace(d.Title),
		URL:         strings.TrimSpace(d.URL),
		Description: d.Description,
	}
	if diff, ok := ParseDifficulty(d.Difficulty); ok {
		p.Difficulty = diff
	}
	if len(d.Tags) > 0 {
		p.Tags = append([]string(nil), d.Tags...)
	}
	return p
}

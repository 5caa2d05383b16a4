package leetcode

import (
	"html"
	"regexp"
	"strings"

	"github.com/vytor/leettrack/internal/models"
)

const descriptionLimit = 200

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// StripHTML removes markup and decodes entities from problem content.
func StripHTML(content string) string {
	return strings.TrimSpace(html.UnescapeString(tagPattern.ReplaceAllString(content, "")))
}

// Summarize strips content and cuts it to the first 200 characters,
// appending "..." when anything was cut.
func Summarize(content string) string {
	clean := []rune(StripHTML(content))
	if len(clean) <= descriptionLimit {
		return string(clean)
	}
	return string(clean[:descriptionLimit]) + "..."
}

// DisplayTitle joins the question number and title the way they appear on
// the problem list, e.g. "1. Two Sum".
func (q *Question) DisplayTitle() string {
	title := strings.TrimSpace(q.Title)
	if q.QuestionID == "" || title == "" {
		return title
	}
	return q.QuestionID + ". " + title
}

// ToDetected maps the question onto the detector's partial record.
func (q *Question) ToDetected() models.DetectedProblem {
	tags := make([]string, 0, len(q.TopicTags))
	for _, t := range q.TopicTags {
		if t.Name != "" {
			tags = append(tags, t.Name)
		}
	}
	return models.DetectedProblem{
		Title:         q.DisplayTitle(),
		Difficulty:    q.Difficulty,
		ProblemNumber: q.QuestionID,
		Description:   Summarize(q.Content),
		Tags:          tags,
	}
}

package reminder

import (
	"sort"
	"time"

	"github.com/vytor/leettrack/internal/models"
)

const (
	mediumIntervalDays = 14
	hardIntervalDays   = 7
)

// IntervalDays returns the review cadence for a redo difficulty.
// Easy problems are never reviewed and report 0.
func IntervalDays(redo models.Difficulty) int {
	switch redo {
	case models.Medium:
		return mediumIntervalDays
	case models.Hard:
		return hardIntervalDays
	default:
		return 0
	}
}

// IsDue reports whether a problem solved days ago is due today. A problem
// becomes due again at every multiple of its interval.
func IsDue(redo models.Difficulty, days int) bool {
	interval := IntervalDays(redo)
	return interval > 0 && days > 0 && days%interval == 0
}

// Calculate returns the reminders due on today's calendar date, oldest
// solve first. Ties keep the order of records. It never mutates records.
func Calculate(records []models.Problem, today time.Time) []models.Reminder {
	today = models.Midnight(today)

	reminders := make([]models.Reminder, 0)
	for _, p := range records {
		days := models.DaysBetween(p.SolvedDate, today)
		if !IsDue(p.RedoDifficulty, days) {
			continue
		}
		reminders = append(reminders, models.Reminder{
			ID:                 p.ID,
			Title:              p.Title,
			URL:                p.URL,
			OriginalDifficulty: p.Difficulty,
			RedoDifficulty:     p.RedoDifficulty,
			DaysSinceSolved:    days,
			IsDue:              true,
		})
	}

	sort.SliceStable(reminders, func(i, j int) bool {
		return reminders[i].DaysSinceSolved > reminders[j].DaysSinceSolved
	})
	return reminders
}

// MarkRedone restarts the review interval from today.
func MarkRedone(p models.Problem, today time.Time) models.Problem {
	p = p.Clone()
	p.SolvedDate = models.Midnight(today)
	return p
}

// SkipRedo drops the problem out of the review cycle until its redo
// difficulty is raised again.
func SkipRedo(p models.Problem, today time.Time) models.Problem {
	p = p.Clone()
	p.RedoDifficulty = models.Easy
	p.SolvedDate = models.Midnight(today)
	return p
}

// NextDue returns the first calendar day after today on which p becomes due.
// The second result is false for problems that are never reviewed.
func NextDue(p models.Problem, today time.Time) (time.Time, bool) {
	interval := IntervalDays(p.RedoDifficulty)
	if interval == 0 {
		return time.Time{}, false
	}
	today = models.Midnight(today)
	days := models.DaysBetween(p.SolvedDate, today)

	var ahead int
	switch {
	case days < 0:
		ahead = -days + interval
	default:
		ahead = interval - days%interval
	}
	return today.AddDate(0, 0, ahead), true
}

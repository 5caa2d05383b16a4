package reminder_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/leettrack/internal/models"
	"github.com/vytor/leettrack/internal/reminder"
)

var day0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local)

func dayN(n int) time.Time {
	return day0.AddDate(0, 0, n)
}

func TestIsDue_Periodicity(t *testing.T) {
	for n := 0; n <= 60; n++ {
		assert.Equal(t, n > 0 && n%7 == 0, reminder.IsDue(models.Hard, n), "hard n=%d", n)
		assert.Equal(t, n > 0 && n%14 == 0, reminder.IsDue(models.Medium, n), "medium n=%d", n)
		assert.False(t, reminder.IsDue(models.Easy, n), "easy n=%d", n)
	}
	assert.False(t, reminder.IsDue(models.Hard, -7), "future solves are never due")
}

func TestCalculate_HardScenario(t *testing.T) {
	records := []models.Problem{{ID: "p", Title: "1. Two Sum", SolvedDate: day0, RedoDifficulty: models.Hard}}

	tests := []struct {
		day int
		due bool
	}{
		{0, false},
		{7, true},
		{8, false},
		{14, true},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("day %d", tt.day), func(t *testing.T) {
			got := reminder.Calculate(records, dayN(tt.day).Add(17*time.Hour))
			if !tt.due {
				assert.Empty(t, got)
				return
			}
			require.Len(t, got, 1)
			assert.Equal(t, "p", got[0].ID)
			assert.Equal(t, tt.day, got[0].DaysSinceSolved)
			assert.True(t, got[0].IsDue)
		})
	}
}

func TestCalculate_IgnoresTimeOfDay(t *testing.T) {
	records := []models.Problem{{ID: "late", SolvedDate: day0.Add(23 * time.Hour), RedoDifficulty: models.Hard}}

	got := reminder.Calculate(records, dayN(7).Add(time.Minute))

	require.Len(t, got, 1)
	assert.Equal(t, 7, got[0].DaysSinceSolved)
}

func TestCalculate_OrderingAndTieBreak(t *testing.T) {
	today := dayN(28)
	records := []models.Problem{
		{ID: "h7-first", SolvedDate: dayN(21), RedoDifficulty: models.Hard},
		{ID: "m28", SolvedDate: dayN(0), RedoDifficulty: models.Medium},
		{ID: "easy", SolvedDate: dayN(0), RedoDifficulty: models.Easy},
		{ID: "h7-second", SolvedDate: dayN(21), RedoDifficulty: models.Hard},
		{ID: "h14", SolvedDate: dayN(14), RedoDifficulty: models.Hard},
		{ID: "future", SolvedDate: dayN(35), RedoDifficulty: models.Hard},
	}

	got := reminder.Calculate(records, today)

	var ids []string
	for _, r := range got {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"m28", "h14", "h7-first", "h7-second"}, ids)
}

func TestCalculate_DoesNotMutateInput(t *testing.T) {
	solved := day0.Add(15 * time.Hour)
	records := []models.Problem{{ID: "p", SolvedDate: solved, RedoDifficulty: models.Hard}}

	reminder.Calculate(records, dayN(7))

	assert.Equal(t, solved, records[0].SolvedDate)
}

func TestCalculate_CopiesRecordFields(t *testing.T) {
	records := []models.Problem{{
		ID:             "p",
		Title:          "1. Two Sum",
		URL:            "https://leetcode.com/problems/two-sum/",
		Difficulty:     models.Easy,
		RedoDifficulty: models.Medium,
		SolvedDate:     day0,
	}}

	got := reminder.Calculate(records, dayN(14))

	require.Len(t, got, 1)
	assert.Equal(t, models.Reminder{
		ID:                 "p",
		Title:              "1. Two Sum",
		URL:                "https://leetcode.com/problems/two-sum/",
		OriginalDifficulty: models.Easy,
		RedoDifficulty:     models.Medium,
		DaysSinceSolved:    14,
		IsDue:              true,
	}, got[0])
}

func TestMarkRedone_RestartsInterval(t *testing.T) {
	p := models.Problem{ID: "p", SolvedDate: day0, RedoDifficulty: models.Hard}
	today := dayN(7).Add(9 * time.Hour)

	redone := reminder.MarkRedone(p, today)

	assert.Equal(t, dayN(7), redone.SolvedDate)
	assert.Equal(t, models.Hard, redone.RedoDifficulty)
	assert.Empty(t, reminder.Calculate([]models.Problem{redone}, today))
	assert.Len(t, reminder.Calculate([]models.Problem{redone}, dayN(14)), 1)
}

func TestSkipRedo_RemovesFromSchedule(t *testing.T) {
	p := models.Problem{ID: "p", SolvedDate: day0, RedoDifficulty: models.Medium}

	skipped := reminder.SkipRedo(p, dayN(14))

	assert.Equal(t, models.Easy, skipped.RedoDifficulty)
	assert.Equal(t, dayN(14), skipped.SolvedDate)
	for n := 14; n < 100; n++ {
		assert.Empty(t, reminder.Calculate([]models.Problem{skipped}, dayN(n)))
	}
}

func TestNextDue(t *testing.T) {
	tests := []struct {
		name   string
		redo   models.Difficulty
		solved int
		today  int
		want   int
		ok     bool
	}{
		{"hard same day", models.Hard, 0, 0, 7, true},
		{"hard mid interval", models.Hard, 0, 3, 7, true},
		{"hard due today looks ahead", models.Hard, 0, 7, 14, true},
		{"medium", models.Medium, 0, 15, 28, true},
		{"future solve", models.Hard, 10, 5, 17, true},
		{"easy never", models.Easy, 0, 3, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := models.Problem{SolvedDate: dayN(tt.solved), RedoDifficulty: tt.redo}
			got, ok := reminder.NextDue(p, dayN(tt.today))
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, dayN(tt.want), got)
				assert.True(t, reminder.IsDue(tt.redo, models.DaysBetween(p.SolvedDate, got)))
			}
		})
	}
}

package csvcodec

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/vytor/leettrack/internal/models"
)

// DateLayout is M/D/YYYY without zero padding, the inverse of the
// slash branch of date decoding.
const DateLayout = "1/2/2006"

// Encode writes records as CSV with the nine-column header. Dates are
// written in loc (time.Local when nil). Multi-line notes are quoted, not
// flattened. When any record's url cannot be derived back from its title a
// trailing URL column is added so the url survives a re-import.
func Encode(w io.Writer, records []models.Problem, loc *time.Location) error {
	if loc == nil {
		loc = time.Local
	}
	bw := bufio.NewWriter(w)
	cw := csv.NewWriter(bw)

	withURL := needsURLColumn(records)
	header := Header
	if withURL {
		header = append(append([]string(nil), Header...), ColURL)
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, p := range records {
		row := []string{
			p.SolvedDate.In(loc).Format(DateLayout),
			strconv.Itoa(p.DurationMinutes),
			string(p.Difficulty),
			p.Title,
			string(p.RedoDifficulty),
			p.Approach,
			p.Notes,
			p.TimeComplexity,
			p.SpaceComplexity,
		}
		if withURL {
			row = append(row, p.URL)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	return bw.Flush()
}

// needsURLColumn reports whether some record carries a url that decoding
// its title alone would not reproduce.
func needsURLColumn(records []models.Problem) bool {
	for _, p := range records {
		if p.URL != "" && p.URL != models.DeriveURL(p.Title) {
			return true
		}
	}
	return false
}

// Filename is the download name used for an export made at now.
func Filename(now time.Time) string {
	return "leetcode-tracking-" + now.Format("2006-01-02") + ".csv"
}

// Package csvcodec converts between the tracker's tabular export format and
// problem records. Decoding is tolerant: a malformed cell degrades to the
// field default and is reported as a Warning, never as an error.
package csvcodec

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	apperrors "github.com/vytor/leettrack/internal/errors"
	"github.com/vytor/leettrack/internal/logger"
	"github.com/vytor/leettrack/internal/models"
)

// Column names, matched against trimmed header cells.
const (
	ColDate            = "Date"
	ColDuration        = "Duration"
	ColDifficulty      = "Difficulty"
	ColProblem         = "Problem"
	ColRedo            = "Redo"
	ColApproach        = "Approach"
	ColNotes           = "Notes"
	ColTimeComplexity  = "Time Complexity"
	ColSpaceComplexity = "Space Complexity"
	ColURL             = "URL"
)

// Header is the column order written by Encode.
var Header = []string{
	ColDate, ColDuration, ColDifficulty, ColProblem, ColRedo,
	ColApproach, ColNotes, ColTimeComplexity, ColSpaceComplexity,
}

// Delimiters are the candidates tried by delimiter detection, in preference order.
var Delimiters = []rune{',', '\t', '|', ';'}

const previewRecords = 10

// Warning describes a cell that could not be read and was defaulted.
// Row is the 1-based data row (the header is row 0).
type Warning struct {
	Row     int    `json:"row"`
	Column  string `json:"column"`
	Value   string `json:"value"`
	Message string `json:"message"`
}

func (w Warning) String() string {
	return fmt.Sprintf("row %d, %s=%q: %s", w.Row, w.Column, w.Value, w.Message)
}

// Result is the outcome of a decode.
type Result struct {
	Records   []models.Problem
	Warnings  []Warning
	Delimiter rune
}

// IDSource mints record ids.
type IDSource interface {
	New() string
}

// Decoder turns CSV text into problem records.
type Decoder struct {
	// Location is the calendar M/D/YYYY dates are constructed in.
	Location *time.Location
	// Now supplies the fallback date for unreadable date cells.
	Now func() time.Time
	IDs IDSource
}

// NewDecoder returns a decoder using local time and ulid ids.
func NewDecoder() *Decoder {
	return &Decoder{
		Location: time.Local,
		Now:      time.Now,
		IDs:      models.NewIDGenerator(),
	}
}

// Decode reads every data row of r. It fails only when the input as a whole
// cannot be read; individual bad cells are defaulted and reported.
func (d *Decoder) Decode(ctx context.Context, r io.Reader) (*Result, error) {
	log := logger.FromContext(ctx).WithPrefix("csv")

	data, err := io.ReadAll(r)
	if err != nil {
		log.Error("failed to read csv input: %v", err)
		return nil, apperrors.NewDecodeError("could not read csv input", err)
	}
	data = bytes.TrimPrefix(data, []byte("\uFEFF"))
	if !utf8.Valid(data) {
		log.Error("csv input is not valid utf-8")
		return nil, apperrors.NewDecodeError("csv input is not valid utf-8", nil)
	}

	delim := DetectDelimiter(data)
	log.Debug("detected delimiter %q", delim)

	rows, err := readAll(data, delim)
	if err != nil {
		log.Error("failed to parse csv: %v", err)
		return nil, apperrors.NewDecodeError("could not parse csv", err)
	}

	res := &Result{Records: []models.Problem{}, Delimiter: delim}
	if len(rows) == 0 {
		return res, nil
	}

	cols := indexHeader(rows[0])
	if len(cols) == 0 {
		res.Warnings = append(res.Warnings, Warning{
			Row:     0,
			Column:  "header",
			Value:   strings.Join(rows[0], string(delim)),
			Message: "no recognised columns, every field will take its default",
		})
	}

	loc := d.location()
	now := d.now().In(loc)
	ids := d.ids()
	for i, row := range rows[1:] {
		p, warnings := d.decodeRow(i+1, row, cols, now, ids)
		res.Records = append(res.Records, p)
		res.Warnings = append(res.Warnings, warnings...)
	}

	for _, w := range res.Warnings {
		log.Warn("data quality: %s", w)
	}
	log.Info("decoded %d records with %d warnings", len(res.Records), len(res.Warnings))
	return res, nil
}

func (d *Decoder) location() *time.Location {
	if d.Location != nil {
		return d.Location
	}
	return time.Local
}

func (d *Decoder) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// ids returns the configured id source without storing a fallback, so one
// Decoder may be shared between goroutines.
func (d *Decoder) ids() IDSource {
	if d.IDs != nil {
		return d.IDs
	}
	return models.NewIDGenerator()
}

type rowReader struct {
	row   []string
	cols  map[string]int
	rowNo int
	warns []Warning
}

func (rr *rowReader) cell(name string) (string, bool) {
	idx, ok := rr.cols[name]
	if !ok || idx >= len(rr.row) {
		return "", false
	}
	return rr.row[idx], true
}

func (rr *rowReader) trimmed(name string) string {
	v, _ := rr.cell(name)
	return strings.TrimSpace(v)
}

func (rr *rowReader) warn(col, value, msg string) {
	rr.warns = append(rr.warns, Warning{Row: rr.rowNo, Column: col, Value: value, Message: msg})
}

func (d *Decoder) decodeRow(rowNo int, row []string, cols map[string]int, now time.Time, ids IDSource) (models.Problem, []Warning) {
	rr := &rowReader{row: row, cols: cols, rowNo: rowNo}

	title := rr.trimmed(ColProblem)
	p := models.Problem{
		ID:    ids.New(),
		Title: title,
		URL:   models.DeriveURL(title),
	}
	if u := rr.trimmed(ColURL); u != "" {
		p.URL = u
	}

	dateStr := rr.trimmed(ColDate)
	if date, ok := parseDate(dateStr, now.Location()); ok {
		p.SolvedDate = date
	} else {
		rr.warn(ColDate, dateStr, "unreadable date, using today")
		p.SolvedDate = models.Midnight(now)
	}

	durStr := rr.trimmed(ColDuration)
	if n, ok := parseLeadingInt(durStr); ok && n >= 0 {
		p.DurationMinutes = n
	} else if ok {
		rr.warn(ColDuration, durStr, "negative duration, using 0")
	} else if durStr != "" {
		rr.warn(ColDuration, durStr, "unreadable duration, using 0")
	}

	p.Difficulty = d.difficulty(rr, ColDifficulty)
	p.RedoDifficulty = d.difficulty(rr, ColRedo)

	p.Approach, _ = rr.cell(ColApproach)
	p.Notes, _ = rr.cell(ColNotes)

	timeC, _ := rr.cell(ColTimeComplexity)
	spaceC, _ := rr.cell(ColSpaceComplexity)
	p.TimeComplexity, p.SpaceComplexity = models.SplitComplexity(timeC, spaceC)

	return p, rr.warns
}

func (d *Decoder) difficulty(rr *rowReader, col string) models.Difficulty {
	raw := rr.trimmed(col)
	diff, ok := models.ParseDifficulty(raw)
	if !ok {
		if raw != "" {
			rr.warn(col, raw, "unknown difficulty, using Easy")
		}
		return models.Easy
	}
	return diff
}

// genericLayouts are tried, in order, for dates that are not M/D/YYYY.
var genericLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"Jan 2, 2006",
	"January 2, 2006",
	"Jan 2 2006",
	"2 Jan 2006",
	"2 January 2006",
	"Mon Jan 2 2006",
	time.RFC1123,
	time.RFC1123Z,
}

// ParseDate reads a date cell the way Decode does, reporting false when s
// is not a date. Direct-entry surfaces use it so they accept the same forms.
func ParseDate(s string, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.Local
	}
	return parseDate(strings.TrimSpace(s), loc)
}

// parseDate reads s as M/D/YYYY when it contains a slash and as one of the
// generic layouts otherwise. Dates are built in loc at midnight.
func parseDate(s string, loc *time.Location) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if strings.Contains(s, "/") {
		parts := strings.Split(s, "/")
		if len(parts) != 3 {
			return time.Time{}, false
		}
		month, okM := atoiStrict(parts[0])
		day, okD := atoiStrict(parts[1])
		year, okY := atoiStrict(parts[2])
		if !okM || !okD || !okY || month < 1 || month > 12 || day < 1 || day > 31 {
			return time.Time{}, false
		}
		t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc)
		if t.Day() != day {
			// 2/30 and friends roll into the next month; reject them instead.
			return time.Time{}, false
		}
		return t, true
	}
	for _, layout := range genericLayouts {
		t, err := time.ParseInLocation(layout, s, loc)
		if err == nil {
			return models.Midnight(t.In(loc)), true
		}
	}
	return time.Time{}, false
}

func atoiStrict(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	return n, err == nil
}

// parseLeadingInt reads the optional sign and leading digits of s, so
// "45 min" is 45. It reports false when s has no leading digits.
func parseLeadingInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	start := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == start {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

func indexHeader(header []string) map[string]int {
	known := map[string]bool{ColURL: true}
	for _, h := range Header {
		known[h] = true
	}
	cols := map[string]int{}
	for i, h := range header {
		name := strings.TrimSpace(h)
		if !known[name] {
			continue
		}
		if _, dup := cols[name]; !dup {
			cols[name] = i
		}
	}
	return cols
}

func newReader(data []byte, delim rune) *csv.Reader {
	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = delim
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	return r
}

// readAll parses data, dropping lines that hold nothing but whitespace.
func readAll(data []byte, delim rune) ([][]string, error) {
	r := newReader(data, delim)
	var rows [][]string
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return nil, err
		}
		if blankRecord(rec) {
			continue
		}
		rows = append(rows, rec)
	}
}

func blankRecord(rec []string) bool {
	return len(rec) == 1 && strings.TrimSpace(rec[0]) == ""
}

// DetectDelimiter guesses the field separator from the first records. For
// each candidate it measures how consistently the preview splits into more
// than one field and picks the steadiest, preferring more fields and then
// the earlier candidate. Comma wins when nothing splits.
func DetectDelimiter(data []byte) rune {
	best := Delimiters[0]
	bestDelta := -1.0
	bestAvg := 0.0

	for _, delim := range Delimiters {
		r := newReader(data, delim)
		var counts []int
		for len(counts) < previewRecords {
			rec, err := r.Read()
			if err != nil {
				break
			}
			if blankRecord(rec) {
				continue
			}
			counts = append(counts, len(rec))
		}
		if len(counts) == 0 {
			continue
		}

		total := 0
		for _, c := range counts {
			total += c
		}
		avg := float64(total) / float64(len(counts))
		if avg <= 1.99 {
			continue
		}
		delta := 0.0
		for _, c := range counts {
			diff := float64(c) - avg
			if diff < 0 {
				diff = -diff
			}
			delta += diff
		}
		delta /= float64(len(counts))

		if bestDelta < 0 || delta < bestDelta || (delta == bestDelta && avg > bestAvg) {
			best, bestDelta, bestAvg = delim, delta, avg
		}
	}
	return best
}

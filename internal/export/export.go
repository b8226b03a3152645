// Package export writes mood records out as CSV or JSON so they can be
// backed up or opened in a spreadsheet.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/sakif/moodlog/internal/apperror"
	"github.com/sakif/moodlog/internal/model"
)

// Format is an export file format.
type Format string

const (
	CSV  Format = "csv"
	JSON Format = "json"
)

// Header is the CSV column row.
var Header = []string{"id", "timestamp", "mood_value", "emoji", "note"}

// ParseFormat accepts "csv" or "json" in any case. Empty means CSV.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return CSV, nil
	case CSV, JSON:
		return f, nil
	default:
		return "", apperror.ValidationFailed("format", "export format must be csv or json")
	}
}

// ContentType returns the MIME type for the format.
func (f Format) ContentType() string {
	if f == JSON {
		return "application/json"
	}
	return "text/csv; charset=utf-8"
}

// Filename returns a dated download name, e.g. moodlog-2026-06-15.csv.
func (f Format) Filename(now time.Time) string {
	return fmt.Sprintf("moodlog-%s.%s", now.Format("2006-01-02"), f)
}

// Write encodes records to w in the given format.
func Write(w io.Writer, format Format, records []model.MoodRecord) error {
	switch format {
	case CSV:
		return writeCSV(w, records)
	case JSON:
		return writeJSON(w, records)
	default:
		return apperror.ValidationFailed("format", fmt.Sprintf("unknown export format %q", format))
	}
}

func writeCSV(w io.Writer, records []model.MoodRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	for _, r := range records {
		row := []string{
			r.ID,
			r.Timestamp.Format(time.RFC3339),
			strconv.Itoa(r.MoodValue),
			r.Emoji(),
			escapeFormula(r.NoteText()),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing csv row %s: %w", r.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// escapeFormula prefixes cells a spreadsheet would evaluate as a formula
// with a single quote, so a note like "=HYPERLINK(...)" opens as text.
func escapeFormula(cell string) string {
	if cell == "" {
		return cell
	}
	switch cell[0] {
	case '=', '+', '-', '@', '\t', '\r':
		return "'" + cell
	}
	return cell
}

func writeJSON(w io.Writer, records []model.MoodRecord) error {
	if records == nil {
		records = []model.MoodRecord{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("encoding json export: %w", err)
	}
	return nil
}

// Package query turns a history/analytics selection (search text, mood bucket,
// date range) into a filtered, ordered slice of mood records.
//
// Everything here is a pure function of its inputs: the records, the filter,
// and the reference time. No storage access, no clock reads.
package query

import (
	"slices"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/sakif/moodlog/internal/apperror"
	"github.com/sakif/moodlog/internal/model"
	"github.com/sakif/moodlog/internal/repository"
)

// Order is the result ordering.
type Order string

const (
	Newest Order = "newest" // history browsing (default)
	Oldest Order = "oldest" // trend charts
)

// ParseOrder accepts "", "newest"/"desc" or "oldest"/"asc".
func ParseOrder(s string) (Order, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "newest", "desc":
		return Newest, nil
	case "oldest", "asc":
		return Oldest, nil
	default:
		return "", apperror.ValidationFailed("order", "order must be newest or oldest")
	}
}

// Filter is the full selection. The zero value matches every record, newest first.
type Filter struct {
	SearchText string
	Bucket     Bucket
	Range      DateRange
	Order      Order
}

// Validate checks the parts of the filter that can be wrong after parsing.
func (f Filter) Validate() error {
	switch f.Bucket {
	case "", BucketAll, BucketBad, BucketNeutral, BucketGood:
	default:
		return apperror.ValidationFailed("bucket", "unknown bucket "+string(f.Bucket))
	}
	return f.Range.Validate()
}

// ListOptions translates the date range and order into a store query, so the
// timestamp index does the coarse work before Apply runs the rest.
func (f Filter) ListOptions(now time.Time, loc *time.Location) repository.ListOptions {
	start, end := f.Range.Window(now, loc)
	opts := repository.ListOptions{From: start, To: end}
	if f.Order == Oldest {
		opts.Order = repository.OldestFirst
	}
	return opts
}

// Apply returns the records matching every active predicate (AND), ordered
// by timestamp per f.Order. The input slice is not modified.
//
// Search is a case- and accent-insensitive substring match on the note;
// a record without a note never matches non-empty search text.
func Apply(records []model.MoodRecord, f Filter, now time.Time, loc *time.Location) []model.MoodRecord {
	start, end := f.Range.Window(now, loc)
	needle := fold(strings.TrimSpace(f.SearchText))
	bucket := f.Bucket
	if bucket == "" {
		bucket = BucketAll
	}

	out := make([]model.MoodRecord, 0, len(records))
	for _, rec := range records {
		if !bucket.Contains(rec.MoodValue) {
			continue
		}
		if !inWindow(rec.Timestamp, start, end) {
			continue
		}
		if needle != "" {
			if !rec.HasNote() || !strings.Contains(fold(*rec.Note), needle) {
				continue
			}
		}
		out = append(out, rec)
	}

	Sort(out, f.Order)
	return out
}

// Sort orders records by timestamp in place; equal timestamps fall back to ID
// so the result is deterministic.
func Sort(records []model.MoodRecord, order Order) {
	slices.SortStableFunc(records, func(a, b model.MoodRecord) int {
		c := a.Timestamp.Compare(b.Timestamp)
		if c == 0 {
			c = strings.Compare(a.ID, b.ID)
		}
		if order == Oldest {
			return c
		}
		return -c
	})
}

// fold lower-cases s and strips combining marks, so "Café" and "cafe" compare equal.
func fold(s string) string {
	if s == "" {
		return s
	}
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}
	return strings.ToLower(stripped)
}

package query

import (
	"fmt"
	"strings"
	"time"

	"github.com/sakif/moodlog/internal/apperror"
	"github.com/sakif/moodlog/internal/model"
)

// Params is a Filter in its textual form, as it arrives from a URL query
// string or CLI flags. Empty fields mean "not set".
type Params struct {
	Search string
	Bucket string
	Range  string
	Anchor string // analytics period reference day
	From   string // custom range start, inclusive
	To     string // custom range end, exclusive
	Order  string
}

// ParseFilter validates p and builds the Filter. Dates are RFC 3339
// timestamps or plain YYYY-MM-DD days, which mean midnight in loc.
// Setting From or To without a Range implies a custom range.
func ParseFilter(p Params, loc *time.Location) (Filter, error) {
	var (
		f   Filter
		err error
	)
	f.SearchText = strings.TrimSpace(p.Search)

	if f.Bucket, err = ParseBucket(p.Bucket); err != nil {
		return Filter{}, err
	}
	if f.Order, err = ParseOrder(p.Order); err != nil {
		return Filter{}, err
	}

	kind := RangeAll
	if p.Range != "" {
		if kind, err = ParseRangeKind(p.Range); err != nil {
			return Filter{}, err
		}
	} else if p.From != "" || p.To != "" {
		kind = RangeCustom
	}
	f.Range.Kind = kind

	switch kind {
	case RangeCustom:
		if f.Range.Start, err = ParseDate("from", p.From, loc); err != nil {
			return Filter{}, err
		}
		if f.Range.End, err = ParseDate("to", p.To, loc); err != nil {
			return Filter{}, err
		}
	case RangeDay, RangeWeek, RangeMonth, RangeYear:
		if f.Range.Anchor, err = ParseDate("anchor", p.Anchor, loc); err != nil {
			return Filter{}, err
		}
	}

	if err := f.Validate(); err != nil {
		return Filter{}, err
	}
	return f, nil
}

// ParseDate parses an RFC 3339 timestamp or a YYYY-MM-DD day in loc.
// The empty string gives the zero time. field names the input in errors.
func ParseDate(field, s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if loc == nil {
		loc = time.Local
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		if t, err = time.ParseInLocation(time.DateOnly, s, loc); err != nil {
			return time.Time{}, apperror.ValidationFailed(field,
				field+" must be an RFC 3339 timestamp or a YYYY-MM-DD date")
		}
	}
	if !model.TimestampInRange(t) {
		return time.Time{}, apperror.ValidationFailed(field, fmt.Sprintf("%s must be between %s and %s",
			field, model.EarliestTimestamp.Format(time.DateOnly), model.LatestTimestamp.Format(time.DateOnly)))
	}
	return t, nil
}

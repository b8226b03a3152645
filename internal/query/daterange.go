package query

import (
	"strings"
	"time"

	"github.com/sakif/moodlog/internal/apperror"
)

// RangeKind selects how a DateRange resolves to a window.
type RangeKind string

const (
	RangeAll       RangeKind = "all"
	RangeLastMonth RangeKind = "last-month" // history: the month leading up to now
	RangeLastYear  RangeKind = "last-year"  // history: the year leading up to now

	// Analytics periods, anchored to a reference day and ending with that whole day.
	RangeDay   RangeKind = "day"
	RangeWeek  RangeKind = "week" // anchor day and the six before it
	RangeMonth RangeKind = "month"
	RangeYear  RangeKind = "year"

	RangeCustom RangeKind = "custom" // explicit [Start, End)
)

// DateRange is a time filter. Only the fields relevant to Kind are read:
// Anchor for the analytics periods, Start/End for custom.
type DateRange struct {
	Kind   RangeKind
	Anchor time.Time // zero means "now"
	Start  time.Time // custom only; zero means unbounded
	End    time.Time // custom only; zero means unbounded, exclusive otherwise
}

// ParseRangeKind accepts the RangeKind names in any case, with or without the
// dash ("lastMonth", "last_month" and "last-month" are the same).
// The empty string means all.
func ParseRangeKind(s string) (RangeKind, error) {
	key := strings.NewReplacer("-", "", "_", "").Replace(strings.ToLower(strings.TrimSpace(s)))
	switch key {
	case "", "all":
		return RangeAll, nil
	case "lastmonth":
		return RangeLastMonth, nil
	case "lastyear":
		return RangeLastYear, nil
	case "day":
		return RangeDay, nil
	case "week":
		return RangeWeek, nil
	case "month":
		return RangeMonth, nil
	case "year":
		return RangeYear, nil
	case "custom":
		return RangeCustom, nil
	default:
		return "", apperror.ValidationFailed("range",
			"range must be one of all, last-month, last-year, day, week, month, year, custom")
	}
}

// Validate checks the custom window is not inverted.
func (r DateRange) Validate() error {
	if r.Kind == RangeCustom && !r.Start.IsZero() && !r.End.IsZero() && !r.Start.Before(r.End) {
		return apperror.ValidationFailed("range", "range start must be before range end")
	}
	return nil
}

// Window resolves the range to a half-open [start, end) interval.
// A zero start or end means that side is unbounded.
//
// Calendar arithmetic happens in loc so "day" means the user's day,
// not the UTC one. A nil loc means time.Local.
func (r DateRange) Window(now time.Time, loc *time.Location) (start, end time.Time) {
	if loc == nil {
		loc = time.Local
	}
	anchor := r.Anchor
	if anchor.IsZero() {
		anchor = now
	}
	// The analytics periods all end at the close of the anchor day.
	dayStart := StartOfDay(anchor, loc)
	dayEnd := dayStart.AddDate(0, 0, 1)

	switch r.Kind {
	case RangeLastMonth:
		return now.AddDate(0, -1, 0), time.Time{}
	case RangeLastYear:
		return now.AddDate(-1, 0, 0), time.Time{}
	case RangeDay:
		return dayStart, dayEnd
	case RangeWeek:
		return dayStart.AddDate(0, 0, -6), dayEnd
	case RangeMonth:
		return dayStart.AddDate(0, -1, 0), dayEnd
	case RangeYear:
		return dayStart.AddDate(-1, 0, 0), dayEnd
	case RangeCustom:
		return r.Start, r.End
	default:
		return time.Time{}, time.Time{}
	}
}

// StartOfDay returns midnight of t's calendar day in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	t = t.In(loc)
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// inWindow reports whether ts is inside [start, end), treating zero bounds as open.
func inWindow(ts, start, end time.Time) bool {
	if !start.IsZero() && ts.Before(start) {
		return false
	}
	if !end.IsZero() && !ts.Before(end) {
		return false
	}
	return true
}

// Package analytics computes the numbers behind the analytics screen:
// the average mood, the trend series and the calendar heatmap.
//
// Every function here takes an already-filtered slice of records and
// returns a fresh value. Nothing is cached and nothing touches storage.
package analytics

import (
	"time"

	"github.com/sakif/moodlog/internal/model"
	"github.com/sakif/moodlog/internal/query"
)

// DateKeyLayout is the heatmap key format (one key per calendar day).
const DateKeyLayout = "2006-01-02"

// TrendPoint is one point on the mood-over-time chart.
type TrendPoint struct {
	Timestamp time.Time `json:"timestamp"`
	MoodValue int       `json:"moodValue"`
}

// Summary is the analytics header: how many records, their average, and
// how they spread over the buckets.
type Summary struct {
	Count   int     `json:"count"`
	Average float64 `json:"average"`
	Min     int     `json:"min"`
	Max     int     `json:"max"`
	Bad     int     `json:"bad"`
	Neutral int     `json:"neutral"`
	Good    int     `json:"good"`
}

// DailyAverage returns the arithmetic mean of the mood values.
// An empty slice gives 0, which callers treat as "no data".
func DailyAverage(records []model.MoodRecord) float64 {
	if len(records) == 0 {
		return 0
	}
	sum := 0
	for _, r := range records {
		sum += r.MoodValue
	}
	return float64(sum) / float64(len(records))
}

// TrendSeries returns one point per record, oldest first. No resampling.
func TrendSeries(records []model.MoodRecord) []TrendPoint {
	sorted := make([]model.MoodRecord, len(records))
	copy(sorted, records)
	query.Sort(sorted, query.Oldest)

	points := make([]TrendPoint, len(sorted))
	for i, r := range sorted {
		points[i] = TrendPoint{Timestamp: r.Timestamp, MoodValue: r.MoodValue}
	}
	return points
}

// Heatmap maps each calendar day (in loc) of the last windowDays days,
// today included, to the mood recorded that day. Days without a record
// have no key. When a day has several records, the latest one wins.
func Heatmap(records []model.MoodRecord, windowDays int, now time.Time, loc *time.Location) map[string]int {
	if loc == nil {
		loc = time.Local
	}
	out := make(map[string]int)
	if windowDays <= 0 {
		return out
	}

	end := query.StartOfDay(now, loc).AddDate(0, 0, 1)
	start := end.AddDate(0, 0, -windowDays)

	latest := make(map[string]time.Time)
	for _, r := range records {
		if r.Timestamp.Before(start) || !r.Timestamp.Before(end) {
			continue
		}
		key := r.Timestamp.In(loc).Format(DateKeyLayout)
		if seen, ok := latest[key]; ok && r.Timestamp.Before(seen) {
			continue
		}
		latest[key] = r.Timestamp
		out[key] = r.MoodValue
	}
	return out
}

// Summarize counts records per bucket and tracks the extremes.
// The zero Summary means no records.
func Summarize(records []model.MoodRecord) Summary {
	var s Summary
	for i, r := range records {
		if i == 0 || r.MoodValue < s.Min {
			s.Min = r.MoodValue
		}
		if i == 0 || r.MoodValue > s.Max {
			s.Max = r.MoodValue
		}
		switch query.BucketFor(r.MoodValue) {
		case query.BucketBad:
			s.Bad++
		case query.BucketNeutral:
			s.Neutral++
		case query.BucketGood:
			s.Good++
		}
	}
	s.Count = len(records)
	s.Average = DailyAverage(records)
	return s
}

package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/moodlog/internal/apperror"
	"github.com/sakif/moodlog/internal/model"
)

func TestParseFilter_Empty(t *testing.T) {
	f, err := ParseFilter(Params{}, time.UTC)

	require.NoError(t, err)
	assert.Equal(t, Filter{Bucket: BucketAll, Range: DateRange{Kind: RangeAll}, Order: Newest}, f)
}

func TestParseFilter_Full(t *testing.T) {
	f, err := ParseFilter(Params{
		Search: "  coffee ",
		Bucket: "good",
		Range:  "week",
		Anchor: "2026-06-14",
		Order:  "oldest",
	}, time.UTC)

	require.NoError(t, err)
	assert.Equal(t, "coffee", f.SearchText)
	assert.Equal(t, BucketGood, f.Bucket)
	assert.Equal(t, RangeWeek, f.Range.Kind)
	assert.True(t, f.Range.Anchor.Equal(time.Date(2026, 6, 14, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, Oldest, f.Order)
}

func TestParseFilter_FromToImpliesCustom(t *testing.T) {
	f, err := ParseFilter(Params{From: "2026-06-01", To: "2026-06-08T00:00:00Z"}, time.UTC)

	require.NoError(t, err)
	assert.Equal(t, RangeCustom, f.Range.Kind)
	assert.True(t, f.Range.Start.Equal(time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, f.Range.End.Equal(time.Date(2026, 6, 8, 0, 0, 0, 0, time.UTC)))
}

func TestParseFilter_Errors(t *testing.T) {
	tests := []struct {
		name string
		p    Params
	}{
		{"bucket", Params{Bucket: "meh"}},
		{"range", Params{Range: "decade"}},
		{"order", Params{Order: "random"}},
		{"from", Params{From: "yesterday"}},
		{"anchor", Params{Range: "day", Anchor: "15/06/2026"}},
		{"inverted", Params{From: "2026-06-08", To: "2026-06-01"}},
		{"from before 1900", Params{From: "1600-01-01"}},
		{"to past 2200", Params{From: "2026-06-01", To: "2300-01-01T00:00:00Z"}},
		{"anchor before 1900", Params{Range: "year", Anchor: "1600-06-15"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFilter(tt.p, time.UTC)
			assert.ErrorIs(t, err, apperror.ErrValidation)
		})
	}
}

func TestParseDate_DayUsesLocation(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)

	got, err := ParseDate("from", "2026-06-15", tokyo)

	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2026, 6, 14, 15, 0, 0, 0, time.UTC)))
}

func TestParseDate_StorableBounds(t *testing.T) {
	got, err := ParseDate("from", "1900-01-01", time.UTC)
	require.NoError(t, err)
	assert.True(t, got.Equal(model.EarliestTimestamp))

	_, err = ParseDate("to", "2200-01-01", time.UTC)
	assert.ErrorIs(t, err, apperror.ErrValidation)

	var appErr *apperror.AppError
	_, err = ParseDate("anchor", "1677-09-21", time.UTC)
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "anchor", appErr.Field)
}

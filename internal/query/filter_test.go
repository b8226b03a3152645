package query

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/moodlog/internal/apperror"
	"github.com/sakif/moodlog/internal/model"
	"github.com/sakif/moodlog/internal/repository"
)

var now = time.Date(2026, 6, 15, 18, 30, 0, 0, time.UTC)

func note(s string) *string { return &s }

func rec(id string, value int, ts time.Time, n *string) model.MoodRecord {
	return model.MoodRecord{ID: id, MoodValue: value, Timestamp: ts, Note: n}
}

func ids(records []model.MoodRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func TestApply_ZeroFilterReturnsAllNewestFirst(t *testing.T) {
	records := []model.MoodRecord{
		rec("a", 3, now.Add(-72*time.Hour), nil),
		rec("b", 7, now.Add(-24*time.Hour), nil),
		rec("c", 9, now.Add(-48*time.Hour), nil),
	}

	got := Apply(records, Filter{}, now, time.UTC)

	assert.Equal(t, []string{"b", "c", "a"}, ids(got))
	// The input must not have been reordered.
	assert.Equal(t, []string{"a", "b", "c"}, ids(records))
}

func TestApply_OldestFirst(t *testing.T) {
	records := []model.MoodRecord{
		rec("b", 7, now.Add(-24*time.Hour), nil),
		rec("a", 3, now.Add(-72*time.Hour), nil),
	}

	got := Apply(records, Filter{Order: Oldest}, now, time.UTC)

	assert.Equal(t, []string{"a", "b"}, ids(got))
}

func TestApply_EmptyInputGivesEmptySlice(t *testing.T) {
	got := Apply(nil, Filter{}, now, time.UTC)
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestApply_SearchText(t *testing.T) {
	records := []model.MoodRecord{
		rec("coffee", 6, now.Add(-time.Hour), note("Had coffee today")),
		rec("tea", 6, now.Add(-2*time.Hour), note("Had tea today")),
		rec("none", 6, now.Add(-3*time.Hour), nil),
	}

	got := Apply(records, Filter{SearchText: "coffee"}, now, time.UTC)
	assert.Equal(t, []string{"coffee"}, ids(got))

	got = Apply(records, Filter{SearchText: "COFFEE"}, now, time.UTC)
	assert.Equal(t, []string{"coffee"}, ids(got), "search should be case-insensitive")

	got = Apply(records, Filter{SearchText: ""}, now, time.UTC)
	assert.Len(t, got, 3, "empty search matches everything, including records with no note")
}

func TestApply_SearchIgnoresAccents(t *testing.T) {
	records := []model.MoodRecord{
		rec("cafe", 8, now.Add(-time.Hour), note("Brunch at the Café")),
	}

	got := Apply(records, Filter{SearchText: "cafe"}, now, time.UTC)
	assert.Equal(t, []string{"cafe"}, ids(got))
}

func TestApply_BucketNeverLeaks(t *testing.T) {
	var records []model.MoodRecord
	for v := 1; v <= 10; v++ {
		records = append(records, rec(fmt.Sprintf("r%02d", v), v, now.Add(-time.Duration(v)*time.Hour), nil))
	}

	for _, b := range Buckets {
		t.Run(string(b), func(t *testing.T) {
			lo, hi := b.Bounds()
			got := Apply(records, Filter{Bucket: b}, now, time.UTC)
			assert.Len(t, got, hi-lo+1)
			for _, r := range got {
				assert.True(t, b.Contains(r.MoodValue), "value %d leaked into %s", r.MoodValue, b)
			}
		})
	}
}

func TestApply_PredicatesAreConjunctive(t *testing.T) {
	records := []model.MoodRecord{
		rec("good-coffee", 8, now.Add(-time.Hour), note("coffee with friends")),
		rec("bad-coffee", 2, now.Add(-2*time.Hour), note("cold coffee")),
		rec("good-old-coffee", 9, now.AddDate(0, -3, 0), note("coffee in spring")),
	}

	got := Apply(records, Filter{
		SearchText: "coffee",
		Bucket:     BucketGood,
		Range:      DateRange{Kind: RangeLastMonth},
	}, now, time.UTC)

	assert.Equal(t, []string{"good-coffee"}, ids(got))
}

func TestApply_ScenarioFourDays(t *testing.T) {
	start := time.Date(2026, 6, 10, 12, 0, 0, 0, time.UTC)
	var records []model.MoodRecord
	for i, v := range []int{3, 7, 7, 9} {
		records = append(records, rec(fmt.Sprintf("d%d", i), v, start.AddDate(0, 0, i), nil))
	}

	got := Apply(records, Filter{Bucket: BucketGood, Order: Oldest}, now, time.UTC)

	values := make([]int, len(got))
	for i, r := range got {
		values[i] = r.MoodValue
	}
	assert.Equal(t, []int{7, 7, 9}, values)
}

func TestApply_SameTimestampStableByID(t *testing.T) {
	ts := now.Add(-time.Hour)
	records := []model.MoodRecord{rec("b", 5, ts, nil), rec("a", 5, ts, nil)}

	assert.Equal(t, []string{"a", "b"}, ids(Apply(records, Filter{Order: Oldest}, now, time.UTC)))
	assert.Equal(t, []string{"b", "a"}, ids(Apply(records, Filter{}, now, time.UTC)))
}

func TestFilter_Validate(t *testing.T) {
	assert.NoError(t, Filter{}.Validate())
	assert.ErrorIs(t, Filter{Bucket: "awful"}.Validate(), apperror.ErrValidation)
	assert.ErrorIs(t, Filter{Range: DateRange{
		Kind:  RangeCustom,
		Start: now,
		End:   now.Add(-time.Hour),
	}}.Validate(), apperror.ErrValidation)
}

func TestFilter_ListOptions(t *testing.T) {
	f := Filter{Range: DateRange{Kind: RangeDay}, Order: Oldest}

	opts := f.ListOptions(now, time.UTC)

	assert.Equal(t, repository.OldestFirst, opts.Order)
	assert.True(t, opts.From.Equal(time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)))
	assert.True(t, opts.To.Equal(time.Date(2026, 6, 16, 0, 0, 0, 0, time.UTC)))
}

func TestParseOrder(t *testing.T) {
	o, err := ParseOrder("")
	require.NoError(t, err)
	assert.Equal(t, Newest, o)

	o, err = ParseOrder("ASC")
	require.NoError(t, err)
	assert.Equal(t, Oldest, o)

	_, err = ParseOrder("sideways")
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

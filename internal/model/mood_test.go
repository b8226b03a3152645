package model

import (
	"encoding/json"
	"testing"
	"time"
)

func TestEmoji(t *testing.T) {
	tests := []struct {
		value int
		want  string
	}{
		{1, "😞"},
		{2, "😞"},
		{3, "😕"},
		{5, "😐"},
		{7, "🙂"},
		{8, "😃"},
		{10, "😄"},
		{0, "😐"},
		{11, "😐"},
	}

	for _, tt := range tests {
		if got := Emoji(tt.value); got != tt.want {
			t.Errorf("Emoji(%d) = %q, want %q", tt.value, got, tt.want)
		}
	}
}

func TestEmoji_DerivedFromValue(t *testing.T) {
	// Two records with the same value always render the same emoji.
	for v := MinMood; v <= MaxMood; v++ {
		a := MoodRecord{ID: "a", MoodValue: v}
		b := MoodRecord{ID: "b", MoodValue: v}
		if a.Emoji() != b.Emoji() {
			t.Errorf("value %d: Emoji() differs between records: %q vs %q", v, a.Emoji(), b.Emoji())
		}
	}
}

func TestDescription(t *testing.T) {
	tests := map[int]string{
		2:  "Very Bad",
		4:  "Bad",
		5:  "Neutral",
		7:  "Okay",
		9:  "Good",
		10: "Great",
	}
	for v, want := range tests {
		if got := Description(v); got != want {
			t.Errorf("Description(%d) = %q, want %q", v, got, want)
		}
	}
}

func TestValidMood(t *testing.T) {
	for v := -1; v <= 12; v++ {
		want := v >= 1 && v <= 10
		if got := ValidMood(v); got != want {
			t.Errorf("ValidMood(%d) = %v, want %v", v, got, want)
		}
	}
}

func TestNormalizeNote(t *testing.T) {
	empty := ""
	if NormalizeNote(nil) != nil {
		t.Error("NormalizeNote(nil) should be nil")
	}
	if NormalizeNote(&empty) != nil {
		t.Error(`NormalizeNote("") should be nil`)
	}

	text := "walked the dog"
	got := NormalizeNote(&text)
	if got == nil || *got != text {
		t.Fatalf("NormalizeNote(%q) = %v, want %q", text, got, text)
	}
	if got == &text {
		t.Error("NormalizeNote should return a copy, not the caller's pointer")
	}
}

func TestMarshalJSON_IncludesDerivedFields(t *testing.T) {
	note := "sunny"
	rec := MoodRecord{ID: "abc", MoodValue: 8, Note: &note}

	data, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if out["emoji"] != "😃" {
		t.Errorf("emoji = %v, want 😃", out["emoji"])
	}
	if out["description"] != "Good" {
		t.Errorf("description = %v, want Good", out["description"])
	}
	if out["note"] != "sunny" {
		t.Errorf("note = %v, want sunny", out["note"])
	}
}

func TestTimestampInRange(t *testing.T) {
	tests := []struct {
		ts   time.Time
		want bool
	}{
		{EarliestTimestamp, true},
		{EarliestTimestamp.Add(-time.Nanosecond), false},
		{time.Date(1600, 1, 1, 12, 0, 0, 0, time.UTC), false},
		{time.Date(2026, 6, 15, 20, 0, 0, 0, time.UTC), true},
		{LatestTimestamp.Add(-time.Nanosecond), true},
		{LatestTimestamp, false},
	}

	for _, tt := range tests {
		if got := TimestampInRange(tt.ts); got != tt.want {
			t.Errorf("TimestampInRange(%v) = %v, want %v", tt.ts, got, tt.want)
		}
	}
}

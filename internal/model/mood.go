// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data: plain values with methods,
// no inheritance. Anything that can be computed from a field is a method,
// not a second field that could drift out of sync.
package model

import (
	"encoding/json"
	"time"
)

// Mood scale bounds. Every stored record satisfies MinMood <= MoodValue <= MaxMood.
const (
	MinMood = 1
	MaxMood = 10
)

// Timestamp bounds. Timestamps are persisted as int64 unix nanoseconds,
// which only reach 1677–2262; anything outside [EarliestTimestamp,
// LatestTimestamp) is rejected before it gets near the store.
var (
	EarliestTimestamp = time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)
	LatestTimestamp   = time.Date(2200, time.January, 1, 0, 0, 0, 0, time.UTC)
)

// MoodRecord is one user-submitted mood rating.
//
// ONLY THE NOTE IS MUTABLE:
// ID, Timestamp and MoodValue are fixed when the record is created.
// The note can be edited (or cleared) later from the history view.
//
// WHY Note *string?
// A nil pointer means "no note". The service normalizes an empty or
// whitespace-only note to nil, so "" never reaches the database and
// search can tell "no note" apart from "note that doesn't match".
type MoodRecord struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	MoodValue int       `json:"moodValue"`
	Note      *string   `json:"note,omitempty"`
}

// Emoji returns the display emoji for this record's mood value.
// It is derived on every call, never stored, so it can't disagree with MoodValue.
func (r MoodRecord) Emoji() string {
	return Emoji(r.MoodValue)
}

// Description returns the human-readable label for this record's mood value.
func (r MoodRecord) Description() string {
	return Description(r.MoodValue)
}

// HasNote reports whether the record carries a (non-empty) note.
func (r MoodRecord) HasNote() bool {
	return r.Note != nil && *r.Note != ""
}

// NoteText returns the note, or "" when there is none.
func (r MoodRecord) NoteText() string {
	if r.Note == nil {
		return ""
	}
	return *r.Note
}

// MarshalJSON adds the derived emoji and description to the JSON output.
//
// The alias type strips the methods from MoodRecord so json.Marshal on it
// doesn't recurse back into this function.
func (r MoodRecord) MarshalJSON() ([]byte, error) {
	type alias MoodRecord
	return json.Marshal(struct {
		alias
		Emoji       string `json:"emoji"`
		Description string `json:"description"`
	}{
		alias:       alias(r),
		Emoji:       r.Emoji(),
		Description: r.Description(),
	})
}

// ValidMood reports whether v is on the 1–10 scale.
func ValidMood(v int) bool {
	return v >= MinMood && v <= MaxMood
}

// TimestampInRange reports whether t can be stored and queried without
// overflowing the nanosecond encoding.
func TimestampInRange(t time.Time) bool {
	return !t.Before(EarliestTimestamp) && t.Before(LatestTimestamp)
}

// Emoji maps a mood value to its display emoji.
// Values outside the scale get the neutral face.
func Emoji(v int) string {
	switch {
	case v >= 1 && v <= 2:
		return "😞"
	case v >= 3 && v <= 4:
		return "😕"
	case v == 5:
		return "😐"
	case v >= 6 && v <= 7:
		return "🙂"
	case v >= 8 && v <= 9:
		return "😃"
	case v == 10:
		return "😄"
	default:
		return "😐"
	}
}

// Description maps a mood value to a short label.
func Description(v int) string {
	switch {
	case v >= 1 && v <= 2:
		return "Very Bad"
	case v >= 3 && v <= 4:
		return "Bad"
	case v == 5:
		return "Neutral"
	case v >= 6 && v <= 7:
		return "Okay"
	case v >= 8 && v <= 9:
		return "Good"
	case v == 10:
		return "Great"
	default:
		return "Neutral"
	}
}

// NormalizeNote maps a nil or empty note to nil and otherwise returns a copy,
// so there is a single representation of "absent".
func NormalizeNote(note *string) *string {
	if note == nil || *note == "" {
		return nil
	}
	n := *note
	return &n
}

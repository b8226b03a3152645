// Package service contains the business logic layer of the application.
//
// THE THREE-LAYER ARCHITECTURE:
//
//	Handler / CLI (presentation) → parses input, renders output
//	Service (business)           → validates, filters, aggregates
//	Repository (data)            → reads/writes mood records
//
// MoodService is the only thing the HTTP handlers and the CLI talk to.
// It depends on repository.MoodRepository (an interface), so tests swap in
// an in-memory fake and main wires in SQLite.
//
// TIME IS INJECTED:
// "Today", "last month" and "is this timestamp in the future?" all depend on
// the clock and the user's time zone. Both are fields on the service, set
// with WithClock and WithLocation, so tests can pin them.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sakif/moodlog/internal/analytics"
	"github.com/sakif/moodlog/internal/apperror"
	"github.com/sakif/moodlog/internal/model"
	"github.com/sakif/moodlog/internal/query"
	"github.com/sakif/moodlog/internal/repository"
)

// Validation constants.
const (
	MaxNoteLength      = 1000 // runes, not bytes
	DefaultHeatmapDays = 30
	MaxHeatmapDays     = 366
)

// MoodService handles business logic for mood records.
type MoodService struct {
	repo   repository.MoodRepository
	logger *slog.Logger
	now    func() time.Time
	loc    *time.Location
}

// Option configures a MoodService.
type Option func(*MoodService)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *MoodService) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLocation sets the time zone used for calendar days. Default time.Local.
func WithLocation(loc *time.Location) Option {
	return func(s *MoodService) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// NewMoodService creates a new MoodService.
func NewMoodService(repo repository.MoodRepository, logger *slog.Logger, opts ...Option) *MoodService {
	s := &MoodService{
		repo:   repo,
		logger: logger,
		now:    time.Now,
		loc:    time.Local,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Location returns the time zone calendar days are computed in.
func (s *MoodService) Location() *time.Location {
	return s.loc
}

// Now returns the service clock's current time.
func (s *MoodService) Now() time.Time {
	return s.now()
}

// CreateRecord validates and saves a new mood record.
//
// ts is optional: nil means "now". A zero or future timestamp is rejected,
// as is a mood value off the 1–10 scale. The note is trimmed; an empty
// note is stored as no note.
func (s *MoodService) CreateRecord(ctx context.Context, moodValue int, note *string, ts *time.Time) (*model.MoodRecord, error) {
	// === VALIDATION ===
	if !model.ValidMood(moodValue) {
		return nil, apperror.ValidationFailed("moodValue",
			fmt.Sprintf("mood value must be between %d and %d, got %d", model.MinMood, model.MaxMood, moodValue))
	}

	now := s.now()
	timestamp := now
	if ts != nil {
		if ts.IsZero() {
			return nil, apperror.ValidationFailed("timestamp", "timestamp is required")
		}
		if ts.After(now) {
			return nil, apperror.ValidationFailed("timestamp", "timestamp cannot be in the future")
		}
		if !model.TimestampInRange(*ts) {
			return nil, apperror.ValidationFailed("timestamp",
				fmt.Sprintf("timestamp must be on or after %s", model.EarliestTimestamp.Format(time.DateOnly)))
		}
		timestamp = *ts
	}

	note, err := cleanNote(note)
	if err != nil {
		return nil, err
	}

	rec := &model.MoodRecord{
		Timestamp: timestamp,
		MoodValue: moodValue,
		Note:      note,
	}

	// === DELEGATE TO REPOSITORY ===
	if err := s.repo.Create(ctx, rec); err != nil {
		s.logger.Error("failed to create mood record",
			slog.Int("mood_value", moodValue),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating mood record: %w", err)
	}

	s.logger.Info("mood record created",
		slog.String("id", rec.ID),
		slog.Int("mood_value", rec.MoodValue),
	)
	return rec, nil
}

// GetRecord retrieves a mood record by its ID.
// Returns apperror.ErrNotFound if the record doesn't exist.
func (s *MoodService) GetRecord(ctx context.Context, id string) (*model.MoodRecord, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "record ID is required")
	}

	// NotFound is a normal answer, not a failure, so nothing is logged here.
	return s.repo.GetByID(ctx, id)
}

// DeleteRecord removes a mood record permanently.
func (s *MoodService) DeleteRecord(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return apperror.ValidationFailed("id", "record ID is required")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logFailure("failed to delete mood record", id, err)
		return err
	}

	s.logger.Info("mood record deleted", slog.String("id", id))
	return nil
}

// UpdateNote replaces (or, with nil/blank, clears) the note of a record.
// Mood value and timestamp can't be edited.
func (s *MoodService) UpdateNote(ctx context.Context, id string, note *string) (*model.MoodRecord, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "record ID is required")
	}

	note, err := cleanNote(note)
	if err != nil {
		return nil, err
	}

	rec, err := s.repo.UpdateNote(ctx, id, note)
	if err != nil {
		s.logFailure("failed to update note", id, err)
		return nil, err
	}

	s.logger.Info("mood note updated",
		slog.String("id", id),
		slog.Bool("has_note", rec.HasNote()),
	)
	return rec, nil
}

// ListRecords returns the records matching f.
//
// A storage failure is logged and comes back as an empty (non-nil) slice
// plus the error, so a history screen can keep rendering.
func (s *MoodService) ListRecords(ctx context.Context, f query.Filter) ([]model.MoodRecord, error) {
	if err := f.Validate(); err != nil {
		return []model.MoodRecord{}, err
	}

	now := s.now()
	records, err := s.repo.List(ctx, f.ListOptions(now, s.loc))
	if err != nil {
		s.logger.Error("failed to list mood records", slog.String("error", err.Error()))
		return []model.MoodRecord{}, fmt.Errorf("listing mood records: %w", err)
	}

	return query.Apply(records, f, now, s.loc), nil
}

// DailyAverage returns the mean mood of the records matching f, or 0 when
// nothing matches.
func (s *MoodService) DailyAverage(ctx context.Context, f query.Filter) (float64, error) {
	records, err := s.ListRecords(ctx, f)
	if err != nil {
		return 0, err
	}
	return analytics.DailyAverage(records), nil
}

// Trend returns the chart series for the records matching f, oldest first
// whatever f.Order says.
func (s *MoodService) Trend(ctx context.Context, f query.Filter) ([]analytics.TrendPoint, error) {
	records, err := s.ListRecords(ctx, f)
	if err != nil {
		return []analytics.TrendPoint{}, err
	}
	return analytics.TrendSeries(records), nil
}

// Summary returns count, average, extremes and bucket counts for f.
func (s *MoodService) Summary(ctx context.Context, f query.Filter) (analytics.Summary, error) {
	records, err := s.ListRecords(ctx, f)
	if err != nil {
		return analytics.Summary{}, err
	}
	return analytics.Summarize(records), nil
}

// Heatmap returns one mood per calendar day for the last windowDays days.
func (s *MoodService) Heatmap(ctx context.Context, windowDays int) (map[string]int, error) {
	if windowDays < 1 || windowDays > MaxHeatmapDays {
		return map[string]int{}, apperror.ValidationFailed("days",
			fmt.Sprintf("heatmap window must be between 1 and %d days", MaxHeatmapDays))
	}

	now := s.now()
	from := query.StartOfDay(now, s.loc).AddDate(0, 0, 1-windowDays)
	records, err := s.repo.List(ctx, repository.ListOptions{From: from})
	if err != nil {
		s.logger.Error("failed to load heatmap records", slog.String("error", err.Error()))
		return map[string]int{}, fmt.Errorf("building heatmap: %w", err)
	}

	return analytics.Heatmap(records, windowDays, now, s.loc), nil
}

// cleanNote trims the note and enforces MaxNoteLength.
func cleanNote(note *string) (*string, error) {
	if note == nil {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*note)
	if utf8.RuneCountInString(trimmed) > MaxNoteLength {
		return nil, apperror.ValidationFailed("note",
			fmt.Sprintf("note must be %d characters or less", MaxNoteLength))
	}
	return model.NormalizeNote(&trimmed), nil
}

// logFailure logs err unless it is a plain NotFound.
func (s *MoodService) logFailure(msg, id string, err error) {
	if errors.Is(err, apperror.ErrNotFound) {
		return
	}
	s.logger.Error(msg,
		slog.String("id", id),
		slog.String("error", err.Error()),
	)
}

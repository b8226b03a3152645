// Package repository declares the storage contract for mood records.
// The sqlite subpackage implements it; service tests use in-memory fakes.
package repository

import (
	"context"
	"time"

	"github.com/sakif/moodlog/internal/model"
)

// SortOrder controls how List orders records by timestamp.
type SortOrder int

const (
	NewestFirst SortOrder = iota // history browsing (default)
	OldestFirst                  // trend charting
)

// ListOptions narrows a List call. The zero value returns every record, newest first.
//
// From and To form a half-open window [From, To). A zero time means unbounded.
type ListOptions struct {
	Order SortOrder
	From  time.Time
	To    time.Time
}

// MoodRepository is the durable collection of mood records.
//
// Every mutating method either persists fully or returns an error and
// leaves the stored state untouched.
type MoodRepository interface {
	Create(ctx context.Context, rec *model.MoodRecord) error
	GetByID(ctx context.Context, id string) (*model.MoodRecord, error)
	List(ctx context.Context, opts ListOptions) ([]model.MoodRecord, error)
	UpdateNote(ctx context.Context, id string, note *string) (*model.MoodRecord, error)
	Delete(ctx context.Context, id string) error
}

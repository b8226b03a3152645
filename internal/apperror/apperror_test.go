// Run with: go test ./internal/apperror/ -v
package apperror

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorsIs(t *testing.T) {
	diskFull := errors.New("disk full")

	tests := []struct {
		name      string
		err       error
		target    error
		wantMatch bool
	}{
		{
			name:      "NotFound wraps ErrNotFound",
			err:       NotFound("mood record", "abc123"),
			target:    ErrNotFound,
			wantMatch: true,
		},
		{
			name:      "ValidationFailed wraps ErrValidation",
			err:       ValidationFailed("moodValue", "mood must be between 1 and 10"),
			target:    ErrValidation,
			wantMatch: true,
		},
		{
			name:      "Persistence wraps ErrPersistence",
			err:       Persistence("creating mood record", diskFull),
			target:    ErrPersistence,
			wantMatch: true,
		},
		{
			name:      "Persistence also matches its cause",
			err:       Persistence("creating mood record", diskFull),
			target:    diskFull,
			wantMatch: true,
		},
		{
			name:      "wrapped with fmt.Errorf still matches",
			err:       fmt.Errorf("service: %w", NotFound("mood record", "x")),
			target:    ErrNotFound,
			wantMatch: true,
		},
		{
			name:      "NotFound does NOT match ErrValidation",
			err:       NotFound("mood record", "abc123"),
			target:    ErrValidation,
			wantMatch: false,
		},
		{
			name:      "ValidationFailed does NOT match ErrPersistence",
			err:       ValidationFailed("note", "too long"),
			target:    ErrPersistence,
			wantMatch: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := errors.Is(tt.err, tt.target)
			if got != tt.wantMatch {
				t.Errorf("errors.Is(%v, %v) = %v, want %v", tt.err, tt.target, got, tt.wantMatch)
			}
		})
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name        string
		err         *AppError
		wantMessage string
	}{
		{
			name:        "NotFound message includes resource and id",
			err:         NotFound("mood record", "abc123"),
			wantMessage: "mood record not found with id abc123",
		},
		{
			name:        "ValidationFailed uses custom message",
			err:         ValidationFailed("moodValue", "mood must be between 1 and 10"),
			wantMessage: "mood must be between 1 and 10",
		},
		{
			name:        "Persistence message includes op and cause",
			err:         Persistence("deleting mood record", errors.New("database is locked")),
			wantMessage: "storage failure while deleting mood record: database is locked",
		},
		{
			name:        "Persistence without cause",
			err:         Persistence("listing mood records", nil),
			wantMessage: "storage failure while listing mood records",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMessage {
				t.Errorf("Error() = %q, want %q", got, tt.wantMessage)
			}
		})
	}
}

func TestErrorsAs(t *testing.T) {
	err := fmt.Errorf("creating record: %w", ValidationFailed("timestamp", "timestamp cannot be in the future"))

	var appErr *AppError
	if !errors.As(err, &appErr) {
		t.Fatal("errors.As() should find the *AppError in the chain")
	}
	if appErr.Field != "timestamp" {
		t.Errorf("Field = %q, want %q", appErr.Field, "timestamp")
	}
}

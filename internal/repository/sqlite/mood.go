package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/moodlog/internal/apperror"
	"github.com/sakif/moodlog/internal/model"
	"github.com/sakif/moodlog/internal/repository"
)

// COMPILE-TIME INTERFACE CHECK:
// If *DB ever stops implementing repository.MoodRepository, the build breaks here
// instead of somewhere far away where *DB is passed to the service.
var _ repository.MoodRepository = (*DB)(nil)

const recordColumns = `id, recorded_at, mood_value, note`

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(s rowScanner) (model.MoodRecord, error) {
	var (
		rec   model.MoodRecord
		nanos int64
		note  sql.NullString
	)
	if err := s.Scan(&rec.ID, &nanos, &rec.MoodValue, &note); err != nil {
		return model.MoodRecord{}, err
	}
	rec.Timestamp = time.Unix(0, nanos).UTC()
	if note.Valid && note.String != "" {
		n := note.String
		rec.Note = &n
	}
	return rec, nil
}

func noteArg(note *string) sql.NullString {
	if note == nil || *note == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *note, Valid: true}
}

// Create inserts a new mood record.
//
// KEY CONCEPTS:
//
//  1. ID GENERATION WITH xid:
//     20 chars, URL-safe, sortable by creation time. Example: "cv37rs3pp9olc6atsptg".
//
//  2. POINTER ARGUMENT:
//     After Create(), the caller's record has its ID (and a timestamp, if it
//     had none), normalized to UTC. On failure both are reset so the caller never holds a record
//     that looks saved but isn't.
//
//  3. ONE TRANSACTION PER MUTATION:
//     If the INSERT or the COMMIT fails, SQLite rolls back and the table is
//     exactly as it was before the call.
func (db *DB) Create(ctx context.Context, rec *model.MoodRecord) (err error) {
	rec.ID = xid.New().String()
	stampedHere := rec.Timestamp.IsZero()
	if stampedHere {
		rec.Timestamp = time.Now()
	}
	// Hand back exactly what GetByID and List will read later.
	rec.Timestamp = rec.Timestamp.UTC().Round(0)
	defer func() {
		if err != nil {
			rec.ID = ""
			if stampedHere {
				rec.Timestamp = time.Time{}
			}
		}
	}()

	if !model.TimestampInRange(rec.Timestamp) {
		return apperror.ValidationFailed("timestamp", "timestamp is outside the storable range")
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return apperror.Persistence("beginning create", err)
	}
	defer tx.Rollback() // no-op after a successful Commit

	_, err = tx.ExecContext(ctx,
		`INSERT INTO mood_records (id, recorded_at, mood_value, note)
		 VALUES (?, ?, ?, ?)`,
		rec.ID,
		rec.Timestamp.UTC().UnixNano(),
		rec.MoodValue,
		noteArg(rec.Note),
	)
	if err != nil {
		return apperror.Persistence("creating mood record", err)
	}

	if err = tx.Commit(); err != nil {
		return apperror.Persistence("committing mood record", err)
	}
	return nil
}

// GetByID retrieves a single mood record.
// sql.ErrNoRows is translated into apperror.NotFound so the handler can answer 404.
func (db *DB) GetByID(ctx context.Context, id string) (*model.MoodRecord, error) {
	rec, err := scanRecord(db.conn.QueryRowContext(ctx,
		`SELECT `+recordColumns+` FROM mood_records WHERE id = ?`,
		id,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("mood record", id)
		}
		return nil, apperror.Persistence("getting mood record "+id, err)
	}
	return &rec, nil
}

// List returns every record inside opts' window, ordered by timestamp.
//
// No LIMIT: the history and analytics screens work on the full result set.
func (db *DB) List(ctx context.Context, opts repository.ListOptions) ([]model.MoodRecord, error) {
	var (
		where []string
		args  []any
	)
	if !opts.From.IsZero() {
		where = append(where, "recorded_at >= ?")
		args = append(args, opts.From.UTC().UnixNano())
	}
	if !opts.To.IsZero() {
		where = append(where, "recorded_at < ?")
		args = append(args, opts.To.UTC().UnixNano())
	}

	query := `SELECT ` + recordColumns + ` FROM mood_records`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	// id breaks ties so records sharing a timestamp come back in a stable order.
	if opts.Order == repository.OldestFirst {
		query += ` ORDER BY recorded_at ASC, id ASC`
	} else {
		query += ` ORDER BY recorded_at DESC, id DESC`
	}

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperror.Persistence("listing mood records", err)
	}
	// CRITICAL: always close rows, they hold our only connection.
	defer rows.Close()

	records := make([]model.MoodRecord, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, apperror.Persistence("scanning mood record row", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.Persistence("iterating mood records", err)
	}

	return records, nil
}

// UpdateNote replaces the note on an existing record and returns the stored result.
//
// RowsAffected == 0 means the id doesn't exist.
// The read-back happens inside the same transaction so the returned record is
// exactly what was committed.
func (db *DB) UpdateNote(ctx context.Context, id string, note *string) (*model.MoodRecord, error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, apperror.Persistence("beginning note update", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE mood_records SET note = ? WHERE id = ?`,
		noteArg(note),
		id,
	)
	if err != nil {
		return nil, apperror.Persistence("updating note on "+id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, apperror.Persistence("checking rows affected", err)
	}
	if rowsAffected == 0 {
		return nil, apperror.NotFound("mood record", id)
	}

	rec, err := scanRecord(tx.QueryRowContext(ctx,
		`SELECT `+recordColumns+` FROM mood_records WHERE id = ?`,
		id,
	))
	if err != nil {
		return nil, apperror.Persistence("reading back "+id, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, apperror.Persistence("committing note update", err)
	}
	return &rec, nil
}

// Delete removes a record. A second Delete of the same id returns NotFound.
func (db *DB) Delete(ctx context.Context, id string) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return apperror.Persistence("beginning delete", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `DELETE FROM mood_records WHERE id = ?`, id)
	if err != nil {
		return apperror.Persistence("deleting mood record "+id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperror.Persistence("checking rows affected", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("mood record", id)
	}

	if err := tx.Commit(); err != nil {
		return apperror.Persistence("committing delete", err)
	}
	return nil
}

package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ziadkadry99/clil-studio/internal/db"
)

// ErrNotFound is returned by GetByID for unknown entries.
var ErrNotFound = errors.New("audit entry not found")

const timeFormat = "2006-01-02T15:04:05.000000000Z"

// DefaultLimit bounds History when no limit is given.
const DefaultLimit = 50

// Store provides CRUD operations for audit entries.
type Store struct {
	db  *db.DB
	now func() time.Time
}

// NewStore creates a Store backed by the given database.
func NewStore(database *db.DB) *Store {
	return &Store{db: database, now: time.Now}
}

// Log inserts a new audit entry. An empty ID gets a UUID and a zero
// Timestamp the current time.
func (s *Store) Log(ctx context.Context, entry Entry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = s.now()
	}

	sections, err := json.Marshal(entry.Sections)
	if err != nil {
		return fmt.Errorf("marshalling sections: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO audit_entries (id, timestamp, owner, lesson_id, action, title, summary, sections)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID,
		entry.Timestamp.UTC().Format(timeFormat),
		entry.Owner,
		entry.LessonID,
		string(entry.Action),
		entry.Title,
		entry.Summary,
		string(sections),
	)
	if err != nil {
		return fmt.Errorf("inserting audit entry: %w", err)
	}
	return nil
}

// GetByID retrieves a single audit entry.
func (s *Store) GetByID(ctx context.Context, id string) (*Entry, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, timestamp, owner, lesson_id, action, title, summary, sections
		FROM audit_entries WHERE id = ?`, id)
	e, err := scanInto(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return e, err
}

// History returns owner's entries for one lesson, newest first. An empty
// lessonID returns entries for all of owner's lessons.
func (s *Store) History(ctx context.Context, owner, lessonID string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	query := `SELECT id, timestamp, owner, lesson_id, action, title, summary, sections
		FROM audit_entries WHERE owner = ?`
	args := []any{owner}
	if lessonID != "" {
		query += " AND lesson_id = ?"
		args = append(args, lessonID)
	}
	query += " ORDER BY timestamp DESC, id LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying audit entries: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		e, err := scanInto(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

// DeleteBefore removes all audit entries older than the given time.
// Returns the number of deleted rows.
func (s *Store) DeleteBefore(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM audit_entries WHERE timestamp < ?",
		before.UTC().Format(timeFormat),
	)
	if err != nil {
		return 0, fmt.Errorf("deleting old audit entries: %w", err)
	}
	return res.RowsAffected()
}

// scanner is implemented by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanInto(sc scanner) (*Entry, error) {
	var (
		e                  Entry
		ts, action, secRaw string
	)
	if err := sc.Scan(&e.ID, &ts, &e.Owner, &e.LessonID, &action, &e.Title, &e.Summary, &secRaw); err != nil {
		return nil, err
	}
	e.Action = Action(action)
	e.Timestamp, _ = time.Parse(timeFormat, ts)
	if err := json.Unmarshal([]byte(secRaw), &e.Sections); err != nil {
		e.Sections = nil
	}
	return &e, nil
}

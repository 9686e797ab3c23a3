// Package library persists lesson documents per owner and searches them.
package library

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ziadkadry99/clil-studio/internal/api"
	"github.com/ziadkadry99/clil-studio/internal/audit"
	"github.com/ziadkadry99/clil-studio/internal/db"
	"github.com/ziadkadry99/clil-studio/internal/lesson"
	"github.com/ziadkadry99/clil-studio/internal/logger"
	"github.com/ziadkadry99/clil-studio/internal/vectordb"
)

// ErrNotFound is returned for lessons that do not exist or belong to
// another owner.
var ErrNotFound = errors.New("lesson not found")

// timeFormat is fixed width so stored timestamps sort lexically.
const timeFormat = "2006-01-02T15:04:05.000000000Z"

// DefaultSearchLimit applies when a search asks for no particular count.
const DefaultSearchLimit = 10

// Store provides lesson CRUD and search.
type Store struct {
	db    *db.DB
	index vectordb.VectorStore
	audit *audit.Store
	log   *logger.Logger
	now   func() time.Time
}

type Option func(*Store)

// WithIndex enables semantic search. Saved lessons are added to idx.
func WithIndex(idx vectordb.VectorStore) Option {
	return func(s *Store) { s.index = idx }
}

// WithAudit records every save and delete in a.
func WithAudit(a *audit.Store) Option {
	return func(s *Store) { s.audit = a }
}

func WithLogger(l *logger.Logger) Option {
	return func(s *Store) { s.log = l }
}

// NewStore creates a Store backed by the given database.
func NewStore(database *db.DB, opts ...Option) *Store {
	s := &Store{db: database, log: logger.Nop(), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Save inserts or updates doc for owner and returns its id. A document
// without a LessonID gets a fresh one. doc itself is not modified.
func (s *Store) Save(ctx context.Context, owner string, doc *lesson.Document) (string, error) {
	if doc == nil {
		return "", fmt.Errorf("saving lesson: nil document")
	}
	cp := *doc
	cp.Pillars = maps.Clone(doc.Pillars)
	cp.Normalize()
	if cp.LessonID == "" {
		cp.LessonID = uuid.New().String()
	}

	var prevOwner, prevText, prevTitle, prevData string
	err := s.db.QueryRowContext(ctx,
		`SELECT owner, search_text, title, document FROM lessons WHERE id = ?`, cp.LessonID,
	).Scan(&prevOwner, &prevText, &prevTitle, &prevData)
	exists := err == nil
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("looking up lesson: %w", err)
	}
	if exists && prevOwner != owner {
		return "", ErrNotFound
	}

	data, err := json.Marshal(&cp)
	if err != nil {
		return "", fmt.Errorf("marshalling lesson: %w", err)
	}
	text := cp.PlainText()
	now := s.now().UTC()
	ts := now.Format(timeFormat)

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO lessons (id, owner, title, document, search_text, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			document = excluded.document,
			search_text = excluded.search_text,
			updated_at = excluded.updated_at`,
		cp.LessonID, owner, cp.Title, string(data), text, ts, ts,
	)
	if err != nil {
		return "", fmt.Errorf("saving lesson: %w", err)
	}

	if s.index != nil && (!exists || prevText != text || prevTitle != cp.Title) {
		if err := s.index.AddDocuments(ctx, []vectordb.Document{indexDocument(cp.LessonID, owner, cp.Title, text, now)}); err != nil {
			// The row is saved; search catches up on the next reindex.
			s.log.Warn("indexing lesson failed", "lesson", cp.LessonID, "error", err)
		}
	}

	entry := audit.Entry{Timestamp: now, Owner: owner, LessonID: cp.LessonID, Action: audit.ActionCreated, Title: cp.Title}
	if exists {
		var prev lesson.Document
		_ = json.Unmarshal([]byte(prevData), &prev)
		entry.Action = audit.ActionUpdated
		entry.Sections = changedSections(&prev, &cp)
		if prevTitle != cp.Title {
			entry.Summary = fmt.Sprintf("renamed from %q", prevTitle)
		}
	} else {
		entry.Sections = changedSections(&lesson.Document{}, &cp)
	}
	s.record(ctx, entry)
	return cp.LessonID, nil
}

func (s *Store) record(ctx context.Context, e audit.Entry) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Log(ctx, e); err != nil {
		s.log.Warn("recording lesson history failed", "lesson", e.LessonID, "error", err)
	}
}

// changedSections lists the pillars whose variants or displayed variant
// differ between prev and next.
func changedSections(prev, next *lesson.Document) []string {
	var out []string
	for _, sec := range lesson.Sections {
		a, b := prev.Pillars[sec], next.Pillars[sec]
		if a.CurrentIndex != b.CurrentIndex || !slices.Equal(a.Versions, b.Versions) {
			if len(a.Versions) == 0 && len(b.Versions) == 0 {
				continue
			}
			out = append(out, string(sec))
		}
	}
	return out
}

// Get loads one of owner's lessons.
func (s *Store) Get(ctx context.Context, owner, id string) (*lesson.Document, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT document FROM lessons WHERE id = ? AND owner = ?`, id, owner,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading lesson: %w", err)
	}

	var doc lesson.Document
	if err := json.Unmarshal([]byte(data), &doc); err != nil {
		return nil, fmt.Errorf("decoding lesson %s: %w", id, err)
	}
	doc.LessonID = id
	doc.Normalize()
	return &doc, nil
}

// List returns owner's lessons, most recently modified first.
func (s *Store) List(ctx context.Context, owner string) ([]lesson.Summary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, updated_at FROM lessons
		WHERE owner = ?
		ORDER BY updated_at DESC, id`, owner)
	if err != nil {
		return nil, fmt.Errorf("listing lessons: %w", err)
	}
	defer rows.Close()

	lessons := []lesson.Summary{}
	for rows.Next() {
		var (
			sum lesson.Summary
			ts  string
		)
		if err := rows.Scan(&sum.ID, &sum.Title, &ts); err != nil {
			return nil, fmt.Errorf("scanning lesson: %w", err)
		}
		sum.LastModified, _ = time.Parse(timeFormat, ts)
		lessons = append(lessons, sum)
	}
	return lessons, rows.Err()
}

// Delete removes one of owner's lessons.
func (s *Store) Delete(ctx context.Context, owner, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM lessons WHERE id = ? AND owner = ?`, id, owner)
	if err != nil {
		return fmt.Errorf("deleting lesson: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	if s.index != nil {
		if err := s.index.Delete(ctx, id); err != nil {
			s.log.Warn("removing lesson from index failed", "lesson", id, "error", err)
		}
	}
	s.record(ctx, audit.Entry{Timestamp: s.now(), Owner: owner, LessonID: id, Action: audit.ActionDeleted})
	return nil
}

// ErrNoHistory is returned by History when no audit store is configured.
var ErrNoHistory = errors.New("lesson history is not recorded")

// History returns the change history of one of owner's lessons, newest
// first. Deleted lessons keep their history.
func (s *Store) History(ctx context.Context, owner, id string, limit int) ([]audit.Entry, error) {
	if s.audit == nil {
		return nil, ErrNoHistory
	}
	entries, err := s.audit.History(ctx, owner, id, limit)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, ErrNotFound
	}
	return entries, nil
}

// Search finds owner's lessons matching query. With an index it ranks by
// embedding similarity, otherwise by the share of query terms present.
func (s *Store) Search(ctx context.Context, owner, query string, limit int) ([]api.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("search query is empty")
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	if s.index != nil {
		return s.semanticSearch(ctx, owner, query, limit)
	}
	return s.termSearch(ctx, owner, query, limit)
}

func (s *Store) semanticSearch(ctx context.Context, owner, query string, limit int) ([]api.SearchResult, error) {
	found, err := s.index.Search(ctx, query, limit, &vectordb.SearchFilter{Owner: &owner})
	if err != nil {
		return nil, fmt.Errorf("searching lessons: %w", err)
	}
	results := make([]api.SearchResult, 0, len(found))
	for _, r := range found {
		results = append(results, api.SearchResult{
			ID:         r.Document.ID,
			Title:      r.Document.Metadata.Title,
			Snippet:    vectordb.Snippet(r.Document.Content),
			Similarity: r.Similarity,
		})
	}
	return results, nil
}

func (s *Store) termSearch(ctx context.Context, owner, query string, limit int) ([]api.SearchResult, error) {
	terms := strings.Fields(strings.ToLower(query))
	clauses := make([]string, len(terms))
	args := []any{owner}
	for i, t := range terms {
		clauses[i] = `lower(search_text) LIKE ? ESCAPE '\'`
		args = append(args, "%"+escapeLike(t)+"%")
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, search_text FROM lessons WHERE owner = ? AND (`+strings.Join(clauses, " OR ")+`)`,
		args...)
	if err != nil {
		return nil, fmt.Errorf("searching lessons: %w", err)
	}
	defer rows.Close()

	var results []api.SearchResult
	for rows.Next() {
		var r api.SearchResult
		var text string
		if err := rows.Scan(&r.ID, &r.Title, &text); err != nil {
			return nil, fmt.Errorf("scanning lesson: %w", err)
		}
		lower := strings.ToLower(text)
		matched := 0
		for _, t := range terms {
			if strings.Contains(lower, t) {
				matched++
			}
		}
		r.Similarity = float32(matched) / float32(len(terms))
		r.Snippet = vectordb.Snippet(text)
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Similarity != results[j].Similarity {
			return results[i].Similarity > results[j].Similarity
		}
		return results[i].Title < results[j].Title
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

func indexDocument(id, owner, title, text string, updated time.Time) vectordb.Document {
	sum := sha256.Sum256([]byte(text))
	return vectordb.Document{
		ID:      id,
		Content: text,
		Metadata: vectordb.DocumentMetadata{
			Owner:       owner,
			Title:       title,
			ContentHash: hex.EncodeToString(sum[:]),
			LastUpdated: updated,
		},
	}
}

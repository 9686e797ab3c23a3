package library

import (
	"context"
	"fmt"
	"time"

	"github.com/ziadkadry99/clil-studio/internal/vectordb"
)

// reindexBatch is the number of lessons embedded per index call.
const reindexBatch = 32

// Reindex adds every stored lesson to the search index. It is a no-op
// without an index.
func (s *Store) Reindex(ctx context.Context) (int, error) {
	if s.index == nil {
		return 0, nil
	}
	rows, err := s.db.QueryContext(ctx, `SELECT id, owner, title, search_text, updated_at FROM lessons`)
	if err != nil {
		return 0, fmt.Errorf("reading lessons for index: %w", err)
	}
	defer rows.Close()

	n := 0
	batch := make([]vectordb.Document, 0, reindexBatch)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := s.index.AddDocuments(ctx, batch); err != nil {
			return fmt.Errorf("indexing lessons: %w", err)
		}
		n += len(batch)
		batch = batch[:0]
		return nil
	}

	for rows.Next() {
		var id, owner, title, text, ts string
		if err := rows.Scan(&id, &owner, &title, &text, &ts); err != nil {
			return n, fmt.Errorf("scanning lesson: %w", err)
		}
		updated, _ := time.Parse(timeFormat, ts)
		batch = append(batch, indexDocument(id, owner, title, text, updated))
		if len(batch) == reindexBatch {
			if err := flush(); err != nil {
				return n, err
			}
		}
	}
	if err := rows.Err(); err != nil {
		return n, err
	}
	return n, flush()
}

// LoadIndex restores a persisted index from dir and rebuilds it from the
// database when it is missing or out of step.
func (s *Store) LoadIndex(ctx context.Context, dir string) error {
	if s.index == nil {
		return nil
	}
	if err := s.index.Load(ctx, dir); err != nil {
		s.log.Warn("loading search index failed, rebuilding", "dir", dir, "error", err)
	}

	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM lessons`).Scan(&count); err != nil {
		return fmt.Errorf("counting lessons: %w", err)
	}
	if s.index.Count() == count {
		return nil
	}
	n, err := s.Reindex(ctx)
	if err != nil {
		return err
	}
	s.log.Info("search index rebuilt", "lessons", n)
	return nil
}

// PersistIndex writes the index to dir.
func (s *Store) PersistIndex(ctx context.Context, dir string) error {
	if s.index == nil {
		return nil
	}
	return s.index.Persist(ctx, dir)
}

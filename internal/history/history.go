// Package history records every generated document so teachers can re-download
// a packet without re-running the form.
package history

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"
)

var ErrNotFound = errors.New("export not found")

// Record is one generated document.
type Record struct {
	ID         string    `json:"id"`
	School     string    `json:"school"`
	Teacher    string    `json:"teacher"`
	Subject    string    `json:"subject"`
	Grade      int       `json:"grade"`
	Quarter    int       `json:"quarter"`
	TotalItems int       `json:"total_items"`
	Provider   string    `json:"provider,omitempty"` // "" when template drafts were used
	Filename   string    `json:"filename"`
	CreatedAt  time.Time `json:"created_at"`
}

type Store interface {
	Append(ctx context.Context, rec Record) error
	Get(ctx context.Context, id string) (Record, error)
	List(ctx context.Context, limit int) ([]Record, error)
}

const defaultListLimit = 50

// SQLStore persists records in the export_history table.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) Append(ctx context.Context, rec Record) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO export_history
		(id, school, teacher, subject, grade, quarter, total_items, provider, filename, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		rec.ID, rec.School, rec.Teacher, rec.Subject, rec.Grade, rec.Quarter,
		rec.TotalItems, rec.Provider, rec.Filename, rec.CreatedAt.Unix())
	return err
}

func (s *SQLStore) Get(ctx context.Context, id string) (Record, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, school, teacher, subject, grade, quarter, total_items, provider, filename, created_at
		FROM export_history WHERE id=$1`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	return rec, err
}

func (s *SQLStore) List(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	rows, err := s.db.QueryContext(ctx, `SELECT id, school, teacher, subject, grade, quarter, total_items, provider, filename, created_at
		FROM export_history ORDER BY created_at DESC, id LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(r rowScanner) (Record, error) {
	var rec Record
	var created int64
	err := r.Scan(&rec.ID, &rec.School, &rec.Teacher, &rec.Subject, &rec.Grade,
		&rec.Quarter, &rec.TotalItems, &rec.Provider, &rec.Filename, &created)
	if err != nil {
		return Record{}, err
	}
	rec.CreatedAt = time.Unix(created, 0).UTC()
	return rec, nil
}

// MemoryStore keeps records in memory, newest first. Used in tests and when
// running without a database.
type MemoryStore struct {
	mu      sync.RWMutex
	records []Record
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (s *MemoryStore) Append(ctx context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append([]Record{rec}, s.records...)
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, rec := range s.records {
		if rec.ID == id {
			return rec, nil
		}
	}
	return Record{}, ErrNotFound
}

func (s *MemoryStore) List(ctx context.Context, limit int) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if limit <= 0 || limit > len(s.records) {
		limit = len(s.records)
	}
	out := make([]Record, limit)
	copy(out, s.records[:limit])
	return out, nil
}

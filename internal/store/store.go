package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

var ErrNoDB = errors.New("store: no database configured")

// Store persists dictionaries and count results in postgres.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) DB() *sql.DB { return s.db }

// Result is one persisted count.
type Result struct {
	ID           int64     `json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	Source       string    `json:"source"`
	Dictionary   string    `json:"dictionary,omitempty"`
	PatternCount int       `json:"pattern_count"`
	RawText      string    `json:"raw_text"`
	Text         string    `json:"text"`
	Count        int       `json:"count"`
}

func (s *Store) InsertResult(ctx context.Context, r Result) (int64, error) {
	if s == nil || s.db == nil {
		return 0, ErrNoDB
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	var id int64
	err := s.db.QueryRowContext(ctx, `INSERT INTO count_results(created_at, source, dictionary, pattern_count, raw_text, text, count)
        VALUES ($1,$2,$3,$4,$5,$6,$7) RETURNING id`,
		r.CreatedAt, r.Source, r.Dictionary, r.PatternCount, r.RawText, r.Text, r.Count,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert result: %w", err)
	}
	return id, nil
}

func (s *Store) ListResults(ctx context.Context, limit int) ([]Result, error) {
	if s == nil || s.db == nil {
		return nil, ErrNoDB
	}
	rows, err := s.db.QueryContext(ctx, `SELECT id, created_at, source, dictionary, pattern_count, raw_text, text, count FROM count_results ORDER BY id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	defer rows.Close()
	out := []Result{}
	for rows.Next() {
		var r Result
		if err := rows.Scan(&r.ID, &r.CreatedAt, &r.Source, &r.Dictionary, &r.PatternCount, &r.RawText, &r.Text, &r.Count); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// UpsertDictionary records dictionary metadata; patterns stay in the YAML source.
func (s *Store) UpsertDictionary(ctx context.Context, name, description string, patternCount int) error {
	if s == nil || s.db == nil {
		return ErrNoDB
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO dictionaries(name, description, pattern_count, updated_at)
        VALUES ($1,$2,$3,$4)
        ON CONFLICT (name) DO UPDATE SET description=EXCLUDED.description, pattern_count=EXCLUDED.pattern_count, updated_at=EXCLUDED.updated_at`,
		name, description, patternCount, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("upsert dictionary %s: %w", name, err)
	}
	return nil
}

package store

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const migrationTimeout = 30 * time.Second

// schema dùng khi không tìm thấy thư mục migrations nào.
const builtinSchema = `
CREATE TABLE IF NOT EXISTS dictionaries (
    name TEXT PRIMARY KEY,
    description TEXT NOT NULL DEFAULT '',
    pattern_count INTEGER NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL
);
CREATE TABLE IF NOT EXISTS count_results (
    id BIGSERIAL PRIMARY KEY,
    created_at TIMESTAMPTZ NOT NULL,
    source TEXT NOT NULL,
    dictionary TEXT NOT NULL DEFAULT '',
    pattern_count INTEGER NOT NULL,
    raw_text TEXT NOT NULL,
    text TEXT NOT NULL,
    count BIGINT NOT NULL
);
`

// splitStatements cuts a script on ';' and drops blank chunks.
// Statements must not contain ';' inside literals.
func splitStatements(script string) []string {
	var out []string
	for _, c := range strings.Split(script, ";") {
		if stmt := strings.TrimSpace(c); stmt != "" {
			out = append(out, stmt)
		}
	}
	return out
}

func (s *Store) execScript(ctx context.Context, name, script string) error {
	for _, stmt := range splitStatements(script) {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("exec migration %s: %w", name, err)
		}
	}
	return nil
}

// migrationFiles lists *.sql under dir, sorted lexicographically.
func migrationFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(d.Name()), ".sql") {
			files = append(files, path)
		}
		return nil
	})
	sort.Strings(files)
	return files, err
}

// RunMigrations executes every SQL file in dir in lexicographic order.
func (s *Store) RunMigrations(dir string) error {
	if s == nil || s.db == nil {
		return ErrNoDB
	}
	files, err := migrationFiles(dir)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), migrationTimeout)
	defer cancel()
	for _, p := range files {
		b, err := os.ReadFile(p)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", p, err)
		}
		if err := s.execScript(ctx, p, string(b)); err != nil {
			return err
		}
	}
	return nil
}

// InitSchema tries each candidate migrations dir in order and falls back to
// the built-in schema when none exists.
func (s *Store) InitSchema(ctx context.Context, candidates ...string) error {
	if s == nil || s.db == nil {
		return ErrNoDB
	}
	var lastErr error
	for _, p := range candidates {
		if p == "" {
			continue
		}
		if _, statErr := os.Stat(p); statErr != nil {
			lastErr = statErr
			continue
		}
		if err := s.RunMigrations(p); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
		return nil
	}
	if err := s.execScript(ctx, "built-in", builtinSchema); err != nil {
		return fmt.Errorf("init schema (last path error: %v): %w", lastErr, err)
	}
	return nil
}

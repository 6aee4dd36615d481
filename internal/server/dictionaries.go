package server

import (
	"context"
	"fmt"
	"log"

	"github.com/PhucNguyen204/dictcount/internal/dicts"
)

// LoadDictionariesFromDir walks a directory recursively, loads every
// .yml/.yaml dictionary and swaps the in-memory set.
// Returns the number of dictionaries loaded.
func (s *AppServer) LoadDictionariesFromDir(ctx context.Context, dir string) (int, error) {
	ds, err := dicts.LoadDirRecursive(dir)
	if err != nil {
		return 0, fmt.Errorf("load dictionaries: %w", err)
	}
	if err := s.PersistDictionaries(ctx, ds); err != nil {
		return 0, err
	}
	s.SetDictionaries(ds)
	patterns := 0
	for _, d := range ds {
		patterns += len(d.Patterns)
	}
	log.Printf("dictionaries loaded: dictionaries=%d patterns=%d", len(ds), patterns)
	return len(ds), nil
}

// PersistDictionaries upserts dictionary metadata when a store is configured.
func (s *AppServer) PersistDictionaries(ctx context.Context, ds []dicts.Dictionary) error {
	if s.store == nil {
		return nil
	}
	for _, d := range ds {
		if err := s.store.UpsertDictionary(ctx, d.Name, d.Description, len(d.Patterns)); err != nil {
			return fmt.Errorf("upsert dictionaries: %w", err)
		}
	}
	return nil
}

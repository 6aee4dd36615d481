package dicts

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDictionaryYAML(t *testing.T) {
	d, err := LoadDictionaryYAML([]byte(`
name: greetings
description: demo
patterns:
  - he
  - she
  - he
  - 4624
  - 007
  - 1.0
  - 1e3
  - 0x1F
  - 12345678901234567890
  - true
`))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if d.Name != "greetings" || d.Description != "demo" {
		t.Fatalf("dict = %+v", d)
	}
	// scalar không quote phải giữ nguyên text gốc
	want := []string{"he", "she", "he", "4624", "007", "1.0", "1e3", "0x1F", "12345678901234567890", "true"}
	if len(d.Patterns) != len(want) {
		t.Fatalf("patterns = %v", d.Patterns)
	}
	for i := range want {
		if d.Patterns[i] != want[i] {
			t.Fatalf("patterns = %v, want %v", d.Patterns, want)
		}
	}
}

func TestLoadDictionaryYAML_Errors(t *testing.T) {
	if _, err := LoadDictionaryYAML([]byte("name: x\n")); !errors.Is(err, ErrNoPatterns) {
		t.Fatalf("err = %v, want ErrNoPatterns", err)
	}
	if _, err := LoadDictionaryYAML([]byte("name: x\npatterns:\n  - {a: 1}\n")); err == nil {
		t.Fatalf("expected error for mapping pattern")
	}
	if _, err := LoadDictionaryYAML([]byte("name: x\npatterns:\n  - [a, b]\n")); err == nil {
		t.Fatalf("expected error for sequence pattern")
	}
	if _, err := LoadDictionaryYAML([]byte("patterns: [")); err == nil {
		t.Fatalf("expected yaml error")
	}
}

func TestLoadDictionaryYAML_AliasPattern(t *testing.T) {
	d, err := LoadDictionaryYAML([]byte("name: x\npatterns:\n  - &p 0x1F\n  - *p\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(d.Patterns) != 2 || d.Patterns[0] != "0x1F" || d.Patterns[1] != "0x1F" {
		t.Fatalf("patterns = %q", d.Patterns)
	}
}

func TestLoadDocuments(t *testing.T) {
	docs, err := LoadDocuments([]byte(`
name: a
patterns: [x]
---
title: b
patterns: [y, z]
`))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(docs) != 2 || docs[0].Name != "a" || docs[1].Name != "b" || len(docs[1].Patterns) != 2 {
		t.Fatalf("docs = %+v", docs)
	}
}

func TestLoadDirRecursive(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "nested")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	files := map[string]string{
		filepath.Join(root, "animals.yml"): "patterns: [cat, dog]\n",
		filepath.Join(sub, "words.yaml"):   "name: words\npatterns: [he, she]\n",
		filepath.Join(root, "notes.txt"):   "ignored",
		filepath.Join(sub, "multi.yml"):    "patterns: [a]\n---\npatterns: [b]\n",
	}
	for p, content := range files {
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	dicts, err := LoadDirRecursive(root)
	if err != nil {
		t.Fatalf("load dir: %v", err)
	}
	names := map[string]int{}
	for _, d := range dicts {
		names[d.Name] = len(d.Patterns)
	}
	want := map[string]int{"animals": 2, "words": 2, "multi#0": 1, "multi#1": 1}
	if len(names) != len(want) {
		t.Fatalf("names = %v", names)
	}
	for k, v := range want {
		if names[k] != v {
			t.Fatalf("names = %v, want %v", names, want)
		}
	}
}

func TestLoadDirRecursive_BadFile(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "bad.yml"), []byte("name: bad\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadDirRecursive(root); !errors.Is(err, ErrNoPatterns) {
		t.Fatalf("err = %v, want ErrNoPatterns", err)
	}
}

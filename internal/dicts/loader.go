package dicts

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

var ErrNoPatterns = errors.New("dictionary has no patterns")

// Dictionary is a named, ordered pattern list. Order and duplicates are kept:
// a pattern listed twice counts twice per occurrence.
type Dictionary struct {
	Name        string   `yaml:"name" json:"name"`
	Description string   `yaml:"description" json:"description,omitempty"`
	Patterns    []string `yaml:"patterns" json:"patterns"`
}

type rawDictionary struct {
	Name        string `yaml:"name"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	// Node giữ nguyên text của scalar: 007, 1e3, 0x1F không bị resolver đổi
	Patterns []yaml.Node `yaml:"patterns"`
}

func isYAML(p string) bool {
	l := strings.ToLower(p)
	return strings.HasSuffix(l, ".yml") || strings.HasSuffix(l, ".yaml")
}

func fromRaw(rd rawDictionary) (Dictionary, error) {
	name := strings.TrimSpace(rd.Name)
	if name == "" {
		name = strings.TrimSpace(rd.Title)
	}
	d := Dictionary{Name: name, Description: rd.Description}
	for i := range rd.Patterns {
		n := &rd.Patterns[i]
		if n.Kind == yaml.AliasNode && n.Alias != nil {
			n = n.Alias
		}
		if n.Kind != yaml.ScalarNode {
			return Dictionary{}, fmt.Errorf("pattern %d must be a scalar (line %d)", i, n.Line)
		}
		d.Patterns = append(d.Patterns, n.Value)
	}
	if len(d.Patterns) == 0 {
		return Dictionary{}, ErrNoPatterns
	}
	return d, nil
}

func LoadDictionaryYAML(b []byte) (Dictionary, error) {
	var rd rawDictionary
	if err := yaml.Unmarshal(b, &rd); err != nil {
		return Dictionary{}, err
	}
	return fromRaw(rd)
}

// LoadDocuments decodes every `---` separated document in b.
func LoadDocuments(b []byte) ([]Dictionary, error) {
	dec := yaml.NewDecoder(bytes.NewReader(b))
	var out []Dictionary
	for i := 0; ; i++ {
		var rd rawDictionary
		err := dec.Decode(&rd)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", i, err)
		}
		d, err := fromRaw(rd)
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", i, err)
		}
		out = append(out, d)
	}
	return out, nil
}

// LoadDirRecursive loads every .yml/.yaml file under root. A nameless
// single-document file takes its file stem as name.
func LoadDirRecursive(root string) ([]Dictionary, error) {
	var out []Dictionary
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isYAML(p) {
			return nil
		}
		b, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		docs, err := LoadDocuments(b)
		if err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
		stem := strings.TrimSuffix(filepath.Base(p), filepath.Ext(p))
		for i := range docs {
			if docs[i].Name == "" {
				if len(docs) == 1 {
					docs[i].Name = stem
				} else {
					docs[i].Name = fmt.Sprintf("%s#%d", stem, i)
				}
			}
		}
		out = append(out, docs...)
		return nil
	})
	return out, err
}

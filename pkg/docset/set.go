// Package docset persists and queries collections of extracted component
// documentation, typically one set per scanned project.
package docset

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BuddyNice/sveltedoc-parser/pkg/sveltedoc"
)

// Entry is one component's documentation inside a set.
type Entry struct {
	// Name is the component name, derived from the file basename when the
	// component comment does not provide one.
	Name string `json:"name"`

	// Path is the component file path relative to the set root.
	Path string `json:"path"`

	Doc *sveltedoc.ComponentDoc `json:"doc"`
}

// Set holds the documentation extracted from one project tree.
type Set struct {
	Name        string    `json:"name"`
	Root        string    `json:"root"`
	GeneratedAt time.Time `json:"generated_at"`

	Components []Entry `json:"components"`
}

// Index provides O(1) lookups into a set. Built during LoadFromFile after
// validation passes.
type Index struct {
	// ByName maps component name -> *Entry.
	ByName map[string]*Entry

	// ByPath maps relative file path -> *Entry.
	ByPath map[string]*Entry
}

// Validate checks the set for internal consistency.
// Returns a slice of validation errors (empty slice if valid).
func (s *Set) Validate() []error {
	var errs []error

	names := make(map[string]bool, len(s.Components))
	paths := make(map[string]bool, len(s.Components))

	for i, entry := range s.Components {
		if entry.Name == "" {
			errs = append(errs, fmt.Errorf("components[%d]: name is required", i))
			continue
		}
		if entry.Path == "" {
			errs = append(errs, fmt.Errorf("component %q: path is required", entry.Name))
		}
		if entry.Doc == nil {
			errs = append(errs, fmt.Errorf("component %q: doc is required", entry.Name))
		}
		if names[entry.Name] {
			errs = append(errs, fmt.Errorf("component %q: duplicate component name", entry.Name))
			continue
		}
		names[entry.Name] = true

		if entry.Path != "" {
			if paths[entry.Path] {
				errs = append(errs, fmt.Errorf("component %q: duplicate path %q", entry.Name, entry.Path))
			}
			paths[entry.Path] = true
		}
	}

	return errs
}

// BuildIndex creates lookup maps for fast access.
// Should be called after Validate() passes.
func (s *Set) BuildIndex() *Index {
	idx := &Index{
		ByName: make(map[string]*Entry, len(s.Components)),
		ByPath: make(map[string]*Entry, len(s.Components)),
	}
	for i := range s.Components {
		entry := &s.Components[i]
		idx.ByName[entry.Name] = entry
		idx.ByPath[entry.Path] = entry
	}
	return idx
}

// LoadFromFile loads a set from a JSON file, validates it, and builds the index.
func LoadFromFile(path string) (*Set, *Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read docset file: %w", err)
	}
	return LoadFromBytes(data)
}

// LoadFromBytes parses a set from raw JSON bytes, validates it, and builds the index.
func LoadFromBytes(data []byte) (*Set, *Index, error) {
	var set Set
	if err := json.Unmarshal(data, &set); err != nil {
		return nil, nil, fmt.Errorf("failed to parse docset JSON: %w", err)
	}

	if errs := set.Validate(); len(errs) > 0 {
		return nil, nil, fmt.Errorf("docset validation failed: %w", errors.Join(errs...))
	}

	return &set, set.BuildIndex(), nil
}

// SaveToFile writes the set as indented JSON.
func (s *Set) SaveToFile(path string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode docset: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write docset file: %w", err)
	}
	return nil
}

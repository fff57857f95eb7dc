// Package countries provides the country pattern registries national phone
// number checks run against, and the HTTP routes that expose them.
package countries

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"
	"strings"

	"phonenumber_validator/internal/phonenumber"
	"phonenumber_validator/platform/apperr"

	"gopkg.in/yaml.v3"
)

//go:embed data/patterns.yaml
var defaultPatterns []byte

// Entry is one country's national pattern as stored in YAML or Postgres.
type Entry struct {
	ID      string `yaml:"id" json:"id"`
	Name    string `yaml:"name" json:"name"`
	Pattern string `yaml:"pattern" json:"pattern"`
}

type patternFile struct {
	Countries []Entry `yaml:"countries"`
}

// Static is an immutable registry of compiled regular expressions.
type Static struct {
	ids      []string
	names    map[string]string
	patterns map[string]*regexp.Regexp
}

// Compile-time check that Static implements phonenumber.Registry.
var _ phonenumber.Registry = (*Static)(nil)

// NewStatic compiles entries in order. Identifiers must be unique and non-empty.
func NewStatic(entries []Entry) (*Static, error) {
	s := &Static{
		ids:      make([]string, 0, len(entries)),
		names:    make(map[string]string, len(entries)),
		patterns: make(map[string]*regexp.Regexp, len(entries)),
	}

	for i, entry := range entries {
		id := strings.TrimSpace(entry.ID)
		if id == "" {
			return nil, fmt.Errorf("country entry %d: missing id", i)
		}
		if _, dup := s.patterns[id]; dup {
			return nil, fmt.Errorf("country %s: duplicate entry", id)
		}

		re, err := regexp.Compile(entry.Pattern)
		if err != nil {
			return nil, fmt.Errorf("country %s: compile pattern: %w", id, err)
		}

		s.ids = append(s.ids, id)
		s.names[id] = entry.Name
		s.patterns[id] = re
	}

	return s, nil
}

// LoadStatic parses a YAML document with a top-level "countries" list.
func LoadStatic(data []byte) (*Static, error) {
	var file patternFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse country patterns: %w", err)
	}
	return NewStatic(file.Countries)
}

// LoadStaticFile reads and parses a YAML pattern file.
func LoadStaticFile(path string) (*Static, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read country patterns: %w", err)
	}
	return LoadStatic(data)
}

// DefaultStatic returns the registry built from the embedded pattern data.
func DefaultStatic() (*Static, error) {
	return LoadStatic(defaultPatterns)
}

// DefaultEntries returns the embedded pattern data, used to seed Postgres.
func DefaultEntries() ([]Entry, error) {
	var file patternFile
	if err := yaml.Unmarshal(defaultPatterns, &file); err != nil {
		return nil, fmt.Errorf("parse country patterns: %w", err)
	}
	return file.Countries, nil
}

func (s *Static) HasCountry(id string) bool {
	_, ok := s.patterns[id]
	return ok
}

func (s *Static) Pattern(id string) (phonenumber.Pattern, error) {
	re, ok := s.patterns[id]
	if !ok {
		return nil, apperr.NotFound(fmt.Sprintf("country %q not found", id))
	}
	return re, nil
}

func (s *Static) Countries() []string {
	return append([]string(nil), s.ids...)
}

// Name returns the display name of id, or "" if unknown.
func (s *Static) Name(id string) string {
	return s.names[id]
}

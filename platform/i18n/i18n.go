// Package i18n translates message templates using per-locale YAML catalogs.
// Catalogs map a source template to its translation; templates missing from
// a catalog are returned unchanged.
// This is part of the platform layer and contains no business logic.
package i18n

import (
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Translator is immutable once built and safe for concurrent use.
type Translator struct {
	tags     []language.Tag
	catalogs map[string]map[string]string
	matcher  language.Matcher
}

// NewFromFS loads every <locale>.yaml file at the root of fsys. The fallback
// locale is always supported, with or without a catalog.
func NewFromFS(fsys fs.FS, fallback string) (*Translator, error) {
	catalogs := make(map[string]map[string]string)

	files, err := fs.Glob(fsys, "*.yaml")
	if err != nil {
		return nil, fmt.Errorf("list catalogs: %w", err)
	}
	for _, name := range files {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", name, err)
		}
		entries := make(map[string]string)
		if err := yaml.Unmarshal(data, &entries); err != nil {
			return nil, fmt.Errorf("parse catalog %s: %w", name, err)
		}
		catalogs[strings.TrimSuffix(path.Base(name), ".yaml")] = entries
	}

	return New(fallback, catalogs)
}

// New builds a translator from in-memory catalogs keyed by locale.
func New(fallback string, catalogs map[string]map[string]string) (*Translator, error) {
	fallbackTag, err := language.Parse(fallback)
	if err != nil {
		return nil, fmt.Errorf("parse fallback locale %q: %w", fallback, err)
	}

	t := &Translator{
		tags:     []language.Tag{fallbackTag},
		catalogs: make(map[string]map[string]string, len(catalogs)+1),
	}
	t.catalogs[fallbackTag.String()] = catalogs[fallback]

	locales := make([]string, 0, len(catalogs))
	for locale := range catalogs {
		locales = append(locales, locale)
	}
	sort.Strings(locales)

	for _, locale := range locales {
		tag, err := language.Parse(locale)
		if err != nil {
			return nil, fmt.Errorf("parse locale %q: %w", locale, err)
		}
		if tag == fallbackTag {
			continue
		}
		t.tags = append(t.tags, tag)
		t.catalogs[tag.String()] = catalogs[locale]
	}

	t.matcher = language.NewMatcher(t.tags)
	return t, nil
}

// Fallback returns the locale used when no preference matches.
func (t *Translator) Fallback() string {
	return t.tags[0].String()
}

// Locales returns the supported locales, fallback first.
func (t *Translator) Locales() []string {
	out := make([]string, len(t.tags))
	for i, tag := range t.tags {
		out[i] = tag.String()
	}
	return out
}

// Match picks the supported locale for the first preference that yields a
// match. Each preference is an Accept-Language value or a bare tag.
func (t *Translator) Match(preferences ...string) string {
	for _, pref := range preferences {
		if strings.TrimSpace(pref) == "" {
			continue
		}
		tags, _, err := language.ParseAcceptLanguage(pref)
		if err != nil || len(tags) == 0 {
			continue
		}
		_, index, confidence := t.matcher.Match(tags...)
		if confidence != language.No {
			return t.tags[index].String()
		}
	}
	return t.Fallback()
}

// Translate returns the catalog entry for template in locale, or template
// itself when the locale or entry is unknown.
func (t *Translator) Translate(locale, template string) string {
	if translated, ok := t.catalogs[locale][template]; ok && translated != "" {
		return translated
	}
	return template
}

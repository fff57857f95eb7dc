package phonenumber

import (
	"regexp"

	"phonenumber_validator/platform/apperr"
)

// memoryRegistry is an in-memory Registry for tests.
type memoryRegistry struct {
	ids      []string
	patterns map[string]*regexp.Regexp
}

func newMemoryRegistry() *memoryRegistry {
	return &memoryRegistry{patterns: map[string]*regexp.Regexp{}}
}

func (r *memoryRegistry) add(id, pattern string) *memoryRegistry {
	if _, ok := r.patterns[id]; !ok {
		r.ids = append(r.ids, id)
	}
	r.patterns[id] = regexp.MustCompile(pattern)
	return r
}

func (r *memoryRegistry) HasCountry(id string) bool {
	_, ok := r.patterns[id]
	return ok
}

func (r *memoryRegistry) Pattern(id string) (Pattern, error) {
	p, ok := r.patterns[id]
	if !ok {
		return nil, apperr.NotFound("unknown country " + id)
	}
	return p, nil
}

func (r *memoryRegistry) Countries() []string {
	return append([]string(nil), r.ids...)
}

const (
	gbPattern = `^\(?0\d{2,4}\)?[ ]?\d{3,4}[ ]?\d{3,4}$`
	usPattern = `^\(?[2-9]\d{2}\)?[-. ]?\d{3}[-. ]?\d{4}$`
)

// gbUSRegistry holds GB and US national patterns, in that order.
func gbUSRegistry() *memoryRegistry {
	return newMemoryRegistry().add("GB", gbPattern).add("US", usPattern)
}

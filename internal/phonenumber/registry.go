package phonenumber

// Pattern matches a national-format phone number for one country.
// *regexp.Regexp satisfies it; registries backed by other sources adapt to it.
type Pattern interface {
	MatchString(s string) bool
}

// Registry is the country pattern lookup the validator consumes.
// Implementations are populated before rules are built and must be safe for
// concurrent reads; the validator never mutates them.
type Registry interface {
	// HasCountry reports whether id is a known country identifier.
	HasCountry(id string) bool
	// Pattern returns the national pattern for id, failing for unknown ids.
	Pattern(id string) (Pattern, error)
	// Countries lists every known identifier in a stable order.
	Countries() []string
}

package service

import "reflect"

// Conditions are checks evaluated before a value is validated. When one of
// them says to skip, the value is neither validated nor reported.
type Conditions struct {
	// SkipOnEmpty skips nil, "" and empty collections.
	SkipOnEmpty bool
	// When, if set, must return true for validation to run.
	When func(value any) bool
}

// ShouldSkip reports whether validation of value is skipped.
func (c Conditions) ShouldSkip(value any) bool {
	if c.SkipOnEmpty && IsEmpty(value) {
		return true
	}
	if c.When != nil && !c.When(value) {
		return true
	}
	return false
}

// IsEmpty reports whether value is nil, an empty string or an empty slice or map.
func IsEmpty(value any) bool {
	if value == nil {
		return true
	}
	if s, ok := value.(string); ok {
		return s == ""
	}
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array:
		return v.Len() == 0
	case reflect.Pointer, reflect.Interface:
		return v.IsNil()
	}
	return false
}

// Package phonenumber classifies strings as national and/or international
// phone numbers according to a Rule.
//
// National checks match the value against per-country patterns supplied by a
// Registry. International checks accept EPP (RFC 4933) or ITU-T E.123
// notation, limited to the 15 significant digits of E.164.
package phonenumber

import (
	"fmt"
	"strings"

	"phonenumber_validator/platform/apperr"
)

// Scope names the check a failure belongs to.
type Scope string

const (
	ScopeType          Scope = "type"
	ScopeNational      Scope = "national"
	ScopeInternational Scope = "international"
)

// Failure is one failed check: a message template plus the values for its
// placeholders. Rendering and translation belong to the caller.
type Failure struct {
	Scope   Scope
	Message string
	Params  map[string]string
}

// Render substitutes {name} placeholders in Message with Params.
func (f Failure) Render() string {
	return RenderTemplate(f.Message, f.Params)
}

// RenderTemplate substitutes {name} placeholders in template.
func RenderTemplate(template string, params map[string]string) string {
	if len(params) == 0 {
		return template
	}
	pairs := make([]string, 0, len(params)*2)
	for name, value := range params {
		pairs = append(pairs, "{"+name+"}", value)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

// Result is the outcome of one validation. The zero value is valid.
type Result struct {
	failures []Failure
}

// IsValid reports whether no check failed.
func (r Result) IsValid() bool {
	return len(r.failures) == 0
}

// Failures returns the failures in report order.
func (r Result) Failures() []Failure {
	return append([]Failure(nil), r.failures...)
}

// Scopes returns the scope of each failure in report order.
func (r Result) Scopes() []Scope {
	scopes := make([]Scope, len(r.failures))
	for i, f := range r.failures {
		scopes[i] = f.Scope
	}
	return scopes
}

func (r *Result) add(scope Scope, message string, params map[string]string) {
	r.failures = append(r.failures, Failure{Scope: scope, Message: message, Params: params})
}

// Validate runs the checks enabled on rule against value.
//
// Non-string values fail with a single ScopeType failure. Otherwise the
// national check runs first; the international check only runs when the
// national one did not match. When nothing matched, a failure is reported for
// each enabled check, national before international.
func Validate(value any, rule *Rule) Result {
	var result Result

	s, ok := value.(string)
	if !ok {
		result.add(ScopeType, rule.incorrectInputMessage, map[string]string{ParamType: TypeName(value)})
		return result
	}

	validNational := false
	if rule.NationalEnabled() {
		validNational = isValidNational(s, rule)
	}

	validInternational := false
	if !validNational && rule.InternationalEnabled() {
		validInternational = MatchInternational(rule.format, s)
	}

	if validNational || validInternational {
		return result
	}

	if rule.NationalEnabled() {
		result.add(ScopeNational, rule.invalidNationalMessage, map[string]string{ParamValue: s})
	}
	if rule.InternationalEnabled() {
		result.add(ScopeInternational, rule.invalidInternationalMessage, map[string]string{ParamValue: s})
	}
	return result
}

// isValidNational tries each country in rule order and stops at the first
// match. A registry lookup error counts as no match for that country.
func isValidNational(s string, rule *Rule) bool {
	for _, id := range rule.countries {
		pattern, err := rule.registry.Pattern(id)
		if err != nil {
			continue
		}
		if pattern.MatchString(s) {
			return true
		}
	}
	return false
}

// TypeName describes the runtime type of v for the {type} placeholder.
func TypeName(v any) string {
	if v == nil {
		return "null"
	}
	return fmt.Sprintf("%T", v)
}

// RuleDescriptor is any rule a validation framework can hand to a handler.
type RuleDescriptor interface {
	Name() string
}

// Handler adapts Validate to frameworks that dispatch opaque rules.
type Handler struct{}

// Handle validates value against rule, which must be a *Rule.
func (Handler) Handle(value any, rule RuleDescriptor) (Result, error) {
	r, ok := rule.(*Rule)
	if !ok || r == nil {
		return Result{}, apperr.TypeMismatch(fmt.Sprintf("unexpected rule: expected %q, got %s", RuleName, describeRule(rule))).
			WithOp("phonenumber.Handler.Handle")
	}
	return Validate(value, r), nil
}

func describeRule(rule RuleDescriptor) string {
	if rule == nil {
		return "null"
	}
	return fmt.Sprintf("%q (%T)", rule.Name(), rule)
}

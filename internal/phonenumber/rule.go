package phonenumber

import (
	"strings"

	"phonenumber_validator/platform/apperr"
)

// RuleName identifies the phone number rule to validation frameworks.
const RuleName = "phoneNumber"

const opNewRule = "phonenumber.NewRule"

type nationalKind int

const (
	nationalDisabled nationalKind = iota
	nationalAll
	nationalExplicit
)

// NationalMode selects the countries whose national formats are accepted.
// The zero value disables national checking.
type NationalMode struct {
	kind nationalKind
	ids  []string
}

// NoCountries disables national checking.
func NoCountries() NationalMode {
	return NationalMode{kind: nationalDisabled}
}

// AllCountries accepts every country the registry knows when the rule is built.
func AllCountries() NationalMode {
	return NationalMode{kind: nationalAll}
}

// Countries accepts the listed countries only.
func Countries(ids ...string) NationalMode {
	return NationalMode{kind: nationalExplicit, ids: append([]string(nil), ids...)}
}

// Enabled reports whether national checking is on.
func (m NationalMode) Enabled() bool {
	return m.kind != nationalDisabled
}

// All reports whether the mode expands to the whole registry.
func (m NationalMode) All() bool {
	return m.kind == nationalAll
}

// IDs returns the explicitly requested identifiers (nil for disabled or all).
func (m NationalMode) IDs() []string {
	return append([]string(nil), m.ids...)
}

// Rule describes which checks run and which messages they report.
// It is immutable once built and safe to share between goroutines.
type Rule struct {
	registry  Registry
	national  NationalMode
	countries []string
	format    InternationalFormat

	incorrectInputMessage             string
	invalidInternationalFormatMessage string
	invalidInternationalMessage       string
	invalidNationalMessage            string
}

// RuleOption configures a Rule under construction.
type RuleOption func(*ruleConfig)

type ruleConfig struct {
	registry    Registry
	national    NationalMode
	format      InternationalFormat
	formatToken *string

	incorrectInputMessage             string
	invalidInternationalFormatMessage string
	invalidInternationalMessage       string
	invalidNationalMessage            string
}

// WithRegistry supplies the country pattern registry used for national checks.
func WithRegistry(registry Registry) RuleOption {
	return func(c *ruleConfig) { c.registry = registry }
}

// WithNational sets the national mode directly.
func WithNational(mode NationalMode) RuleOption {
	return func(c *ruleConfig) { c.national = mode }
}

// WithCountries restricts national checking to the given countries.
func WithCountries(ids ...string) RuleOption {
	return WithNational(Countries(ids...))
}

// WithAllCountries enables national checking for every registry country.
func WithAllCountries() RuleOption {
	return WithNational(AllCountries())
}

// WithInternationalFormat sets an already resolved international format.
func WithInternationalFormat(format InternationalFormat) RuleOption {
	return func(c *ruleConfig) {
		c.format = format
		c.formatToken = nil
	}
}

// WithInternational sets the international format from a token such as
// "epp" or "ITU". Unknown tokens make NewRule fail.
func WithInternational(token string) RuleOption {
	return func(c *ruleConfig) {
		c.format = FormatNone
		c.formatToken = &token
	}
}

// WithIncorrectInputMessage overrides the message for non-string input.
func WithIncorrectInputMessage(message string) RuleOption {
	return func(c *ruleConfig) { c.incorrectInputMessage = message }
}

// WithInvalidInternationalFormatMessage overrides the construction error
// reported for an unknown international format token.
func WithInvalidInternationalFormatMessage(message string) RuleOption {
	return func(c *ruleConfig) { c.invalidInternationalFormatMessage = message }
}

// WithInvalidInternationalMessage overrides the international failure message.
func WithInvalidInternationalMessage(message string) RuleOption {
	return func(c *ruleConfig) { c.invalidInternationalMessage = message }
}

// WithInvalidNationalMessage overrides the national failure message.
func WithInvalidNationalMessage(message string) RuleOption {
	return func(c *ruleConfig) { c.invalidNationalMessage = message }
}

// NewRule validates the configuration and resolves it into a Rule.
// All failures are *apperr.Error values of kind apperr.KindConfig.
func NewRule(opts ...RuleOption) (*Rule, error) {
	cfg := ruleConfig{
		incorrectInputMessage:             IncorrectInputMessage,
		invalidInternationalFormatMessage: InvalidInternationalFormatMessage,
		invalidInternationalMessage:       InvalidInternationalMessage,
		invalidNationalMessage:            InvalidNationalMessage,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	internationalRequested := cfg.format.Enabled() || cfg.formatToken != nil
	if !cfg.national.Enabled() && !internationalRequested {
		return nil, configError(noChecksEnabledMessage)
	}
	if cfg.national.Enabled() && cfg.registry == nil {
		return nil, configError(registryRequiredMessage)
	}
	if !cfg.national.Enabled() && cfg.registry != nil {
		return nil, configError(registryUnusedMessage)
	}

	format := cfg.format
	if cfg.formatToken != nil {
		parsed, ok := ParseInternationalFormat(*cfg.formatToken)
		if !ok {
			return nil, configError(cfg.invalidInternationalFormatMessage)
		}
		format = parsed
	}

	countries, err := resolveCountries(cfg.national, cfg.registry)
	if err != nil {
		return nil, err
	}

	return &Rule{
		registry:                          cfg.registry,
		national:                          cfg.national,
		countries:                         countries,
		format:                            format,
		incorrectInputMessage:             cfg.incorrectInputMessage,
		invalidInternationalFormatMessage: cfg.invalidInternationalFormatMessage,
		invalidInternationalMessage:       cfg.invalidInternationalMessage,
		invalidNationalMessage:            cfg.invalidNationalMessage,
	}, nil
}

// resolveCountries expands the national mode into a de-duplicated list in
// request order, checking every id against the registry.
func resolveCountries(mode NationalMode, registry Registry) ([]string, error) {
	var ids []string
	switch mode.kind {
	case nationalDisabled:
		return nil, nil
	case nationalAll:
		ids = registry.Countries()
	case nationalExplicit:
		ids = mode.ids
	}

	seen := make(map[string]struct{}, len(ids))
	countries := make([]string, 0, len(ids))
	for _, id := range ids {
		if !registry.HasCountry(id) {
			return nil, configError(strings.ReplaceAll(invalidCountryMessage, "{"+ParamCountry+"}", id)).
				WithDetails(map[string]string{ParamCountry: id})
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		countries = append(countries, id)
	}

	if len(countries) == 0 {
		return nil, configError(emptyCountrySelectMessage)
	}
	return countries, nil
}

func configError(message string) *apperr.Error {
	return apperr.Config(message).WithOp(opNewRule)
}

// Name returns RuleName.
func (r *Rule) Name() string { return RuleName }

// Registry returns the registry national checks consult (nil when disabled).
func (r *Rule) Registry() Registry { return r.registry }

// National returns the national mode as configured.
func (r *Rule) National() NationalMode { return r.national }

// NationalEnabled reports whether national checking runs.
func (r *Rule) NationalEnabled() bool { return r.national.Enabled() }

// Countries returns the resolved country list in match order.
func (r *Rule) Countries() []string { return append([]string(nil), r.countries...) }

// InternationalFormat returns the resolved international format.
func (r *Rule) InternationalFormat() InternationalFormat { return r.format }

// InternationalEnabled reports whether international checking runs.
func (r *Rule) InternationalEnabled() bool { return r.format.Enabled() }

// IncorrectInputMessage returns the template used for non-string input.
func (r *Rule) IncorrectInputMessage() string { return r.incorrectInputMessage }

// InvalidInternationalFormatMessage returns the template used when an
// international format token is rejected.
func (r *Rule) InvalidInternationalFormatMessage() string {
	return r.invalidInternationalFormatMessage
}

// InvalidInternationalMessage returns the international failure template.
func (r *Rule) InvalidInternationalMessage() string { return r.invalidInternationalMessage }

// InvalidNationalMessage returns the national failure template.
func (r *Rule) InvalidNationalMessage() string { return r.invalidNationalMessage }

// Options exports the resolved configuration for serialization and debugging.
// Disabled checks are reported as false.
func (r *Rule) Options() map[string]any {
	var countries any = false
	if r.national.Enabled() {
		countries = r.Countries()
	}
	var international any = false
	if r.format.Enabled() {
		international = r.format.String()
	}

	return map[string]any{
		"countries":     countries,
		"international": international,
		"incorrectInputMessage": map[string]string{
			"message": r.incorrectInputMessage,
		},
		"invalidInternationalFormatMessage": map[string]string{
			"message": r.invalidInternationalFormatMessage,
		},
		"invalidInternationalMessage": map[string]string{
			"message": r.invalidInternationalMessage,
		},
		"invalidNationalMessage": map[string]string{
			"message": r.invalidNationalMessage,
		},
		"registry": r.registry != nil,
	}
}

// Package service resolves rule requests into cached rules and turns
// validation results into localised responses.
package service

import (
	"context"
	"errors"
	"sync"

	"phonenumber_validator/internal/phonenumber"
	"phonenumber_validator/internal/validation/transport"
	"phonenumber_validator/platform/apperr"
	"phonenumber_validator/platform/config"
	"phonenumber_validator/platform/i18n"
	"phonenumber_validator/platform/logger"
)

// maxCachedRules bounds the rule cache; specs beyond it are built per call.
const maxCachedRules = 256

// Request is one value to validate.
type Request struct {
	Value      any
	Spec       transport.RuleSpec
	Conditions Conditions
	// Locale preferences in priority order, e.g. ?lang then Accept-Language.
	Locales []string
}

// Service builds rules against one registry and renders their results.
type Service struct {
	registry    phonenumber.Registry
	translator  *i18n.Translator
	defaults    transport.RuleSpec
	defaultRule *phonenumber.Rule
	log         *logger.Logger

	mu    sync.RWMutex
	rules map[string]*phonenumber.Rule
}

// New builds the service and its default rule. A default rule that cannot be
// built is a startup error.
func New(registry phonenumber.Registry, cfg config.RuleDefaultsConfig, translator *i18n.Translator, log *logger.Logger) (*Service, error) {
	s := &Service{
		registry:   registry,
		translator: translator,
		defaults: transport.RuleSpec{
			Countries:     transport.ParseCountriesParam(cfg.GetDefaultCountries()),
			International: transport.ParseInternationalParam(cfg.GetDefaultInternationalFormat()),
		},
		log:   log,
		rules: make(map[string]*phonenumber.Rule),
	}

	rule, err := s.Rule(s.defaults)
	if err != nil {
		return nil, err
	}
	s.defaultRule = rule
	return s, nil
}

// DefaultRule returns the rule used when a request names no checks.
func (s *Service) DefaultRule() *phonenumber.Rule {
	return s.defaultRule
}

// Rule resolves spec into a rule, reusing a previously built one when
// possible. An empty spec selects the defaults; a spec naming only one
// check leaves the other disabled. Configuration errors are not cached.
func (s *Service) Rule(spec transport.RuleSpec) (*phonenumber.Rule, error) {
	if spec.IsEmpty() {
		if s.defaultRule != nil {
			return s.defaultRule, nil
		}
		spec = s.defaults
	}

	key := spec.Key()
	s.mu.RLock()
	rule, ok := s.rules[key]
	s.mu.RUnlock()
	if ok {
		return rule, nil
	}

	rule, err := s.build(spec)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if len(s.rules) < maxCachedRules {
		s.rules[key] = rule
	}
	s.mu.Unlock()
	return rule, nil
}

func (s *Service) build(spec transport.RuleSpec) (*phonenumber.Rule, error) {
	opts := []phonenumber.RuleOption{phonenumber.WithNational(spec.Countries.Mode())}
	if spec.Countries.Mode().Enabled() {
		opts = append(opts, phonenumber.WithRegistry(s.registry))
	}
	if spec.International.Enabled() {
		opts = append(opts, phonenumber.WithInternational(spec.International.Token()))
	}
	return phonenumber.NewRule(opts...)
}

// MatchLocale picks the response locale from preferences in priority order.
func (s *Service) MatchLocale(preferences ...string) string {
	return s.translator.Match(preferences...)
}

// Validate resolves the request's rule and validates its value.
func (s *Service) Validate(ctx context.Context, req Request) (transport.ValidateResponse, error) {
	locale := s.MatchLocale(req.Locales...)

	rule, err := s.Rule(req.Spec)
	if err != nil {
		s.log.WithContext(ctx).RuleRejected("validation.Validate", err)
		return transport.ValidateResponse{}, s.localiseConfigError(err, locale)
	}

	if req.Conditions.ShouldSkip(req.Value) {
		return transport.ValidateResponse{Valid: true, Skipped: true, Locale: locale, Errors: []transport.FailureResponse{}}, nil
	}

	result := phonenumber.Validate(req.Value, rule)
	resp := s.Respond(result, locale)

	valueLen := 0
	if str, ok := req.Value.(string); ok {
		valueLen = len(str)
	}
	s.log.WithContext(ctx).ValidationOutcome(valueLen, result.IsValid(), scopeNames(result))
	return resp, nil
}

// Respond renders result in locale.
func (s *Service) Respond(result phonenumber.Result, locale string) transport.ValidateResponse {
	failures := result.Failures()
	resp := transport.ValidateResponse{
		Valid:  result.IsValid(),
		Locale: locale,
		Errors: make([]transport.FailureResponse, 0, len(failures)),
	}
	for _, f := range failures {
		resp.Errors = append(resp.Errors, transport.FailureResponse{
			Scope:    string(f.Scope),
			Message:  s.Render(f, locale),
			Template: f.Message,
			Params:   f.Params,
		})
	}
	return resp
}

// Render translates the failure's template, then fills in its placeholders.
func (s *Service) Render(f phonenumber.Failure, locale string) string {
	return phonenumber.RenderTemplate(s.translator.Translate(locale, f.Message), f.Params)
}

// localiseConfigError translates the message of a rule configuration error,
// keeping its kind so the HTTP layer still maps it to 422.
func (s *Service) localiseConfigError(err error, locale string) error {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Kind != apperr.KindConfig {
		return err
	}
	translated := s.translator.Translate(locale, appErr.Message)
	if translated == appErr.Message {
		return err
	}
	return apperr.Wrap(apperr.KindConfig, translated, err).WithOp(appErr.Op).WithDetails(appErr.Details)
}

func scopeNames(result phonenumber.Result) []string {
	scopes := result.Scopes()
	names := make([]string, len(scopes))
	for i, scope := range scopes {
		names[i] = string(scope)
	}
	return names
}

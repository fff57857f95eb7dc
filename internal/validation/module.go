// Package validation exposes phone number validation over HTTP.
package validation

import (
	apphttp "phonenumber_validator/internal/http"
	"phonenumber_validator/internal/phonenumber"
	"phonenumber_validator/internal/validation/handler"
	"phonenumber_validator/internal/validation/locales"
	"phonenumber_validator/internal/validation/service"
	"phonenumber_validator/platform/config"
	"phonenumber_validator/platform/i18n"
	"phonenumber_validator/platform/logger"
	"phonenumber_validator/platform/validator"
)

// Config combines the config interfaces the validation module needs.
type Config interface {
	config.RuleDefaultsConfig
	config.LocaleConfig
}

// Module wires the validation HTTP routes.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewTranslator loads the embedded message catalogs.
func NewTranslator(cfg config.LocaleConfig) (*i18n.Translator, error) {
	return i18n.NewFromFS(locales.FS, cfg.GetDefaultLocale())
}

// NewModule builds the validation service and binds the default rule to the
// "phonenumber" struct tag of val.
func NewModule(registry phonenumber.Registry, cfg Config, val *validator.Validator, log *logger.Logger) (*Module, error) {
	translator, err := NewTranslator(cfg)
	if err != nil {
		return nil, err
	}

	svc, err := service.New(registry, cfg, translator, log)
	if err != nil {
		return nil, err
	}

	if err := service.BindTag(val, service.TagPhoneNumber, svc.DefaultRule()); err != nil {
		return nil, err
	}

	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}, nil
}

// Service exposes the validation service for modules that validate in bulk.
func (m *Module) Service() *service.Service {
	return m.service
}

func (m *Module) Name() string {
	return "validation"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.V1.Group("/phone-numbers")
	group.Use(ctx.ValidateRateLimiter.RateLimit())
	group.POST("/validate", m.handler.Validate)
	group.GET("/validate", m.handler.ValidateQuery)
	group.POST("/check", m.handler.Check)
	group.GET("/rule", m.handler.DefaultRule)
}

var _ apphttp.Module = (*Module)(nil)

package countries

import (
	apphttp "phonenumber_validator/internal/http"
	"phonenumber_validator/internal/phonenumber"
)

// Module wires the country registry HTTP routes.
type Module struct {
	registry phonenumber.Registry
	handler  *Handler
}

func NewModule(registry phonenumber.Registry) *Module {
	return &Module{registry: registry, handler: NewHandler(registry)}
}

// Registry returns the registry shared with the validation module.
func (m *Module) Registry() phonenumber.Registry {
	return m.registry
}

func (m *Module) Name() string {
	return "countries"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.V1.Group("/countries")
	group.GET("", m.handler.List)
	group.GET("/:id", m.handler.Get)
}

var _ apphttp.Module = (*Module)(nil)

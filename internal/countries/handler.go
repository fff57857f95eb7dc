package countries

import (
	"fmt"
	"strings"

	"phonenumber_validator/internal/phonenumber"
	"phonenumber_validator/platform/apperr"
	"phonenumber_validator/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// Country is a registry entry in API responses.
type Country struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// ListResponse lists the countries of the active registry.
type ListResponse struct {
	Countries []Country `json:"countries"`
}

// LookupResponse reports a single known country.
type LookupResponse struct {
	Country
	Known bool `json:"known"`
}

type namer interface {
	Name(id string) string
}

// Handler serves the registry's country list.
type Handler struct {
	registry phonenumber.Registry
}

func NewHandler(registry phonenumber.Registry) *Handler {
	return &Handler{registry: registry}
}

// List returns every country in registry order.
// GET /api/v1/countries
func (h *Handler) List(c *gin.Context) {
	ids := h.registry.Countries()
	resp := ListResponse{Countries: make([]Country, 0, len(ids))}
	for _, id := range ids {
		resp.Countries = append(resp.Countries, h.country(id))
	}
	httpkit.OK(c, resp)
}

// Get reports whether the registry knows a country. Ids match exactly after
// upper-casing.
// GET /api/v1/countries/:id
func (h *Handler) Get(c *gin.Context) {
	id := strings.ToUpper(strings.TrimSpace(c.Param("id")))
	if !h.registry.HasCountry(id) {
		httpkit.HandleError(c, apperr.NotFound(fmt.Sprintf("country %q not found", id)))
		return
	}
	httpkit.OK(c, LookupResponse{Country: h.country(id), Known: true})
}

func (h *Handler) country(id string) Country {
	country := Country{ID: id}
	if n, ok := h.registry.(namer); ok {
		country.Name = n.Name(id)
	}
	return country
}

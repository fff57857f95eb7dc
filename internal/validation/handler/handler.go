package handler

import (
	"net/http"

	"phonenumber_validator/internal/validation/service"
	"phonenumber_validator/internal/validation/transport"
	"phonenumber_validator/platform/httpkit"
	"phonenumber_validator/platform/validator"

	"github.com/gin-gonic/gin"
)

// Handler handles HTTP requests for phone number validation.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// New creates a new validation handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// Validate validates a JSON value against the rule described in the body.
// POST /api/v1/phone-numbers/validate
func (h *Handler) Validate(c *gin.Context) {
	var req transport.ValidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}

	resp, err := h.svc.Validate(c.Request.Context(), service.Request{
		Value:      req.Value,
		Spec:       req.Spec(),
		Conditions: service.Conditions{SkipOnEmpty: req.SkipOnEmpty},
		Locales:    locales(c),
	})
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

// ValidateQuery validates the value query parameter. A missing value is
// validated as null.
// GET /api/v1/phone-numbers/validate
func (h *Handler) ValidateQuery(c *gin.Context) {
	var q transport.ValidateQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(q); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	var value any
	if raw, ok := c.GetQuery("value"); ok {
		value = raw
	}

	resp, err := h.svc.Validate(c.Request.Context(), service.Request{
		Value:      value,
		Spec:       q.Spec(),
		Conditions: service.Conditions{SkipOnEmpty: q.SkipOnEmpty},
		Locales:    locales(c),
	})
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

// Check validates a form-like payload through its struct tags.
// POST /api/v1/phone-numbers/check
func (h *Handler) Check(c *gin.Context) {
	var req transport.CheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}

	if err := h.val.Struct(req); err != nil {
		fields := validator.FieldErrors(err)
		if fields == nil {
			httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, nil)
			return
		}
		httpkit.OK(c, transport.CheckResponse{Valid: false, Fields: fields})
		return
	}
	httpkit.OK(c, transport.CheckResponse{Valid: true})
}

// DefaultRule describes the rule applied when a request names no checks.
// GET /api/v1/phone-numbers/rule
func (h *Handler) DefaultRule(c *gin.Context) {
	httpkit.OK(c, transport.RuleResponse{Options: h.svc.DefaultRule().Options()})
}

func locales(c *gin.Context) []string {
	return []string{c.Query("lang"), c.GetHeader("Accept-Language")}
}

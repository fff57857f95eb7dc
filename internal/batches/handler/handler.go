package handler

import (
	"net/http"

	"phonenumber_validator/internal/batches/service"
	"phonenumber_validator/internal/batches/transport"
	"phonenumber_validator/platform/httpkit"
	"phonenumber_validator/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Handler handles HTTP requests for validation batches.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid batch ID"
)

// New creates a new batches handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// Submit stores and enqueues a batch.
// POST /api/v1/phone-numbers/batches
func (h *Handler) Submit(c *gin.Context) {
	var req transport.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	locales := []string{c.Query("lang"), c.GetHeader("Accept-Language")}
	result, err := h.svc.Submit(c.Request.Context(), identity.UserID(), req, locales)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Accepted(c, result)
}

// Get returns a batch of the caller with its items.
// GET /api/v1/phone-numbers/batches/:id
func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.Get(c.Request.Context(), identity.UserID(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

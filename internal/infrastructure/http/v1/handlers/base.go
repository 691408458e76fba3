package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hermes/internal/core/apperror"
	"hermes/internal/infrastructure/http/v1/dto"
	"hermes/internal/infrastructure/http/v1/middleware"
)

// BaseHandler provides common handler utilities.
type BaseHandler struct{}

// NewBaseHandler creates a new base handler.
func NewBaseHandler() *BaseHandler {
	return &BaseHandler{}
}

// BindJSON binds and validates JSON request body.
func (h *BaseHandler) BindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		h.HandleError(c, apperror.NewValidation("invalid request body").WithDetail("error", err.Error()))
		return false
	}
	return true
}

// BindPage binds offset/limit query parameters and applies defaults.
func (h *BaseHandler) BindPage(c *gin.Context) (dto.PageRequest, bool) {
	var page dto.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		h.HandleError(c, apperror.NewValidation("invalid query parameters").WithDetail("error", err.Error()))
		return page, false
	}
	page.Defaults()
	return page, true
}

// HandleError registers error on Gin context and aborts request.
// Actual JSON response is produced by middleware.ErrorHandler.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// OperationFailed answers 422 for an operation that reported false. The
// reason is already in the collected notifications.
func (h *BaseHandler) OperationFailed(c *gin.Context, operation string) {
	h.HandleError(c, apperror.NewOperationFailed(operation))
}

// OK sends 200 response with data.
func (h *BaseHandler) OK(c *gin.Context, data any) {
	h.respond(c, http.StatusOK, data)
}

// Created sends 201 response with data.
func (h *BaseHandler) Created(c *gin.Context, data any) {
	h.respond(c, http.StatusCreated, data)
}

// NoContent sends 204 response.
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

func (h *BaseHandler) respond(c *gin.Context, status int, data any) {
	c.JSON(status, dto.Envelope{
		Data:          data,
		Notifications: middleware.Notifications(c),
	})
}

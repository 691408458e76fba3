package handlers

import (
	"github.com/gin-gonic/gin"

	"hermes/internal/core/apperror"
	"hermes/internal/domain/organization"
	"hermes/internal/infrastructure/http/v1/dto"
	"hermes/internal/infrastructure/http/v1/middleware"
)

// OrganizationHandler handles HTTP requests for organizations.
type OrganizationHandler struct {
	*BaseHandler
	repo organization.Repository
}

// NewOrganizationHandler creates a new OrganizationHandler.
func NewOrganizationHandler(base *BaseHandler, repo organization.Repository) *OrganizationHandler {
	return &OrganizationHandler{BaseHandler: base, repo: repo}
}

// operations returns operations bound to the request's notification collector.
func (h *OrganizationHandler) operations(c *gin.Context) *organization.Operations {
	return organization.NewOperations(h.repo, middleware.Collector(c))
}

// List handles GET /organizations.
func (h *OrganizationHandler) List(c *gin.Context) {
	page, ok := h.BindPage(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	ops := h.operations(c)

	items := ops.FindAll(ctx, page.Offset, page.Limit)
	h.OK(c, dto.ListResponse[dto.OrganizationResponse]{
		Items:      dto.FromOrganizations(items),
		TotalCount: ops.Count(ctx),
		Offset:     page.Offset,
		Limit:      page.Limit,
	})
}

// Get handles GET /organizations/:id.
func (h *OrganizationHandler) Get(c *gin.Context) {
	org, ok := h.load(c, h.operations(c))
	if !ok {
		return
	}
	h.OK(c, dto.FromOrganization(org))
}

// Create handles POST /organizations.
func (h *OrganizationHandler) Create(c *gin.Context) {
	var req dto.CreateOrganizationRequest
	if !h.BindJSON(c, &req) {
		return
	}

	org := req.ToEntity()
	if !h.operations(c).Save(c.Request.Context(), org) {
		h.OperationFailed(c, "create organization")
		return
	}
	h.Created(c, dto.FromOrganization(org))
}

// Update handles PUT /organizations/:id.
func (h *OrganizationHandler) Update(c *gin.Context) {
	var req dto.UpdateOrganizationRequest
	if !h.BindJSON(c, &req) {
		return
	}

	ops := h.operations(c)
	org, ok := h.load(c, ops)
	if !ok {
		return
	}

	req.ApplyTo(org)
	if !ops.Update(c.Request.Context(), org) {
		h.OperationFailed(c, "update organization")
		return
	}
	h.OK(c, dto.FromOrganization(org))
}

// Delete handles DELETE /organizations/:id.
func (h *OrganizationHandler) Delete(c *gin.Context) {
	ops := h.operations(c)
	org, ok := h.load(c, ops)
	if !ok {
		return
	}

	if !ops.Delete(c.Request.Context(), org) {
		h.OperationFailed(c, "delete organization")
		return
	}
	h.NoContent(c)
}

// load resolves :id. A failed lookup answers 404 whatever the cause; any
// failure notification is already collected.
func (h *OrganizationHandler) load(c *gin.Context, ops *organization.Operations) (*organization.Organization, bool) {
	id := c.Param("id")
	org, ok := ops.FindByID(c.Request.Context(), id)
	if !ok {
		h.HandleError(c, apperror.NewNotFound("organization", id))
		return nil, false
	}
	return org, true
}

package handlers

import (
	"github.com/gin-gonic/gin"

	"hermes/internal/core/apperror"
	"hermes/internal/domain/employee"
	"hermes/internal/domain/organization"
	"hermes/internal/infrastructure/http/v1/dto"
	"hermes/internal/infrastructure/http/v1/middleware"
)

// EmployeeHandler handles HTTP requests for the employees of an organization.
type EmployeeHandler struct {
	*BaseHandler
	orgs organization.Repository
	emps employee.Repository
}

// NewEmployeeHandler creates a new EmployeeHandler.
func NewEmployeeHandler(base *BaseHandler, orgs organization.Repository, emps employee.Repository) *EmployeeHandler {
	return &EmployeeHandler{BaseHandler: base, orgs: orgs, emps: emps}
}

// scope resolves the parent organization and returns employee operations
// sharing the request's collector.
func (h *EmployeeHandler) scope(c *gin.Context) (*organization.Organization, *employee.Operations, bool) {
	sink := middleware.Collector(c)

	orgID := c.Param("id")
	org, ok := organization.NewOperations(h.orgs, sink).FindByID(c.Request.Context(), orgID)
	if !ok {
		h.HandleError(c, apperror.NewNotFound("organization", orgID))
		return nil, nil, false
	}

	ops := employee.NewOperations(h.emps)
	ops.AttachSink(sink)
	return org, ops, true
}

// lookup resolves :employeeId. Errors are the escalated signals of the
// employee operations: RESOURCE_NOT_FOUND (404) or INTERNAL_ERROR (500).
func (h *EmployeeHandler) lookup(c *gin.Context, org *organization.Organization, ops *employee.Operations) (*employee.Employee, bool) {
	emp, err := ops.Lookup(c.Request.Context(), org, c.Param("employeeId"))
	if err != nil {
		h.HandleError(c, err)
		return nil, false
	}
	return emp, true
}

// List handles GET /organizations/:id/employees.
func (h *EmployeeHandler) List(c *gin.Context) {
	page, ok := h.BindPage(c)
	if !ok {
		return
	}
	org, ops, ok := h.scope(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	items := ops.FindAll(ctx, org, page.Offset, page.Limit)
	h.OK(c, dto.ListResponse[dto.EmployeeResponse]{
		Items:      dto.FromEmployees(items),
		TotalCount: ops.Count(ctx, org),
		Offset:     page.Offset,
		Limit:      page.Limit,
	})
}

// Get handles GET /organizations/:id/employees/:employeeId.
func (h *EmployeeHandler) Get(c *gin.Context) {
	org, ops, ok := h.scope(c)
	if !ok {
		return
	}
	emp, ok := h.lookup(c, org, ops)
	if !ok {
		return
	}
	h.OK(c, dto.FromEmployee(emp))
}

// Create handles POST /organizations/:id/employees.
func (h *EmployeeHandler) Create(c *gin.Context) {
	var req dto.CreateEmployeeRequest
	if !h.BindJSON(c, &req) {
		return
	}
	org, ops, ok := h.scope(c)
	if !ok {
		return
	}

	emp := req.ToEntity()
	if !ops.Save(c.Request.Context(), org, emp) {
		h.OperationFailed(c, "create employee")
		return
	}
	h.Created(c, dto.FromEmployee(emp))
}

// Update handles PUT /organizations/:id/employees/:employeeId.
func (h *EmployeeHandler) Update(c *gin.Context) {
	var req dto.UpdateEmployeeRequest
	if !h.BindJSON(c, &req) {
		return
	}
	org, ops, ok := h.scope(c)
	if !ok {
		return
	}
	emp, ok := h.lookup(c, org, ops)
	if !ok {
		return
	}

	req.ApplyTo(emp)
	if !ops.Update(c.Request.Context(), org, emp) {
		h.OperationFailed(c, "update employee")
		return
	}
	h.OK(c, dto.FromEmployee(emp))
}

// Delete handles DELETE /organizations/:id/employees/:employeeId.
func (h *EmployeeHandler) Delete(c *gin.Context) {
	org, ops, ok := h.scope(c)
	if !ok {
		return
	}
	emp, ok := h.lookup(c, org, ops)
	if !ok {
		return
	}

	if !ops.Delete(c.Request.Context(), org, emp) {
		h.OperationFailed(c, "delete employee")
		return
	}
	h.NoContent(c)
}

package dto

import (
	"time"

	"hermes/internal/core/entity"
	"hermes/internal/domain/employee"
)

// CreateEmployeeRequest is the DTO for creating an employee.
type CreateEmployeeRequest struct {
	Username   string            `json:"username" binding:"required,max=255"`
	Email      string            `json:"email" binding:"omitempty,email"`
	FirstName  string            `json:"firstName"`
	LastName   string            `json:"lastName"`
	Attributes entity.Attributes `json:"attributes"`
}

func (r CreateEmployeeRequest) ToEntity() *employee.Employee {
	emp := employee.NewEmployee(r.Username, r.Email, r.FirstName, r.LastName)
	emp.Attributes = r.Attributes
	return emp
}

// UpdateEmployeeRequest is the DTO for updating an employee. The username
// cannot be changed.
type UpdateEmployeeRequest struct {
	Email      string            `json:"email" binding:"omitempty,email"`
	FirstName  string            `json:"firstName"`
	LastName   string            `json:"lastName"`
	Enabled    *bool             `json:"enabled"`
	Version    int               `json:"version" binding:"min=0"`
	Attributes entity.Attributes `json:"attributes"`
}

func (r UpdateEmployeeRequest) ApplyTo(emp *employee.Employee) {
	emp.Email = r.Email
	emp.FirstName = r.FirstName
	emp.LastName = r.LastName
	if r.Enabled != nil {
		emp.Enabled = *r.Enabled
	}
	if r.Version > 0 {
		emp.Version = r.Version
	}
	if r.Attributes != nil {
		emp.Attributes = r.Attributes
	}
}

// EmployeeResponse is the DTO for returning employee data.
type EmployeeResponse struct {
	ID             string            `json:"id"`
	OrganizationID string            `json:"organizationId"`
	Version        int               `json:"version,omitempty"`
	Username       string            `json:"username"`
	Email          string            `json:"email,omitempty"`
	FirstName      string            `json:"firstName,omitempty"`
	LastName       string            `json:"lastName,omitempty"`
	FullName       string            `json:"fullName"`
	Enabled        bool              `json:"enabled"`
	CreatedAt      *time.Time        `json:"createdAt,omitempty"`
	Attributes     entity.Attributes `json:"attributes,omitempty"`
}

func FromEmployee(emp *employee.Employee) EmployeeResponse {
	resp := EmployeeResponse{
		ID:             emp.ID,
		OrganizationID: emp.OrganizationID,
		Version:        emp.Version,
		Username:       emp.Username,
		Email:          emp.Email,
		FirstName:      emp.FirstName,
		LastName:       emp.LastName,
		FullName:       emp.FullName(),
		Enabled:        emp.Enabled,
		Attributes:     emp.Attributes,
	}
	if !emp.CreatedAt.IsZero() {
		created := emp.CreatedAt
		resp.CreatedAt = &created
	}
	return resp
}

func FromEmployees(emps []*employee.Employee) []EmployeeResponse {
	out := make([]EmployeeResponse, len(emps))
	for i, emp := range emps {
		out[i] = FromEmployee(emp)
	}
	return out
}

package dto

import (
	"hermes/internal/core/entity"
	"hermes/internal/domain/organization"
)

// CreateOrganizationRequest is the DTO for creating an organization.
type CreateOrganizationRequest struct {
	Name       string            `json:"name" binding:"required,max=255"`
	Attributes entity.Attributes `json:"attributes"`
}

func (r CreateOrganizationRequest) ToEntity() *organization.Organization {
	org := organization.NewOrganization(r.Name)
	org.Attributes = r.Attributes
	return org
}

// UpdateOrganizationRequest is the DTO for updating an organization.
// Version is optional; directories without versioning ignore it.
type UpdateOrganizationRequest struct {
	Name       string            `json:"name" binding:"required,max=255"`
	Version    int               `json:"version" binding:"min=0"`
	Attributes entity.Attributes `json:"attributes"`
}

func (r UpdateOrganizationRequest) ApplyTo(org *organization.Organization) {
	org.Rename(r.Name)
	if r.Version > 0 {
		org.Version = r.Version
	}
	if r.Attributes != nil {
		org.Attributes = r.Attributes
	}
}

// OrganizationResponse is the DTO for returning organization data.
type OrganizationResponse struct {
	ID         string            `json:"id"`
	Version    int               `json:"version,omitempty"`
	Name       string            `json:"name"`
	Path       string            `json:"path"`
	Attributes entity.Attributes `json:"attributes,omitempty"`
}

func FromOrganization(org *organization.Organization) OrganizationResponse {
	return OrganizationResponse{
		ID:         org.ID,
		Version:    org.Version,
		Name:       org.Name,
		Path:       org.Path,
		Attributes: org.Attributes,
	}
}

func FromOrganizations(orgs []*organization.Organization) []OrganizationResponse {
	out := make([]OrganizationResponse, len(orgs))
	for i, org := range orgs {
		out[i] = FromOrganization(org)
	}
	return out
}

package keycloak

import (
	"context"
	"net/http"
	"net/url"

	"hermes/internal/core/apperror"
	"hermes/internal/core/entity"
	"hermes/internal/domain/organization"
)

var _ organization.Repository = (*Groups)(nil)

// groupRepresentation is the admin API shape of a group.
type groupRepresentation struct {
	ID         string              `json:"id,omitempty"`
	Name       string              `json:"name"`
	Path       string              `json:"path,omitempty"`
	Attributes map[string][]string `json:"attributes,omitempty"`
}

func toGroup(org *organization.Organization) groupRepresentation {
	return groupRepresentation{
		ID:         org.ID,
		Name:       org.Name,
		Path:       org.Path,
		Attributes: org.Attributes,
	}
}

func fromGroup(g groupRepresentation) *organization.Organization {
	org := &organization.Organization{Name: g.Name, Path: g.Path}
	org.ID = g.ID
	org.Attributes = entity.Attributes(g.Attributes)
	return org
}

// Groups implements organization.Repository on top-level realm groups.
type Groups struct {
	c *Client
}

func groupPath(id string) string {
	return "/groups/" + url.PathEscape(id)
}

func (g *Groups) FindByID(ctx context.Context, id string) (*organization.Organization, error) {
	var rep groupRepresentation
	_, err := g.c.send(ctx, call{
		method: http.MethodGet, path: groupPath(id), out: &rep,
		entity: "organization", id: id,
	})
	if err != nil {
		return nil, err
	}
	return fromGroup(rep), nil
}

func (g *Groups) FindAll(ctx context.Context, offset, limit int) ([]*organization.Organization, error) {
	q := pageQuery(offset, limit)
	q.Set("briefRepresentation", "false")

	var reps []groupRepresentation
	_, err := g.c.send(ctx, call{
		method: http.MethodGet, path: "/groups", query: q, out: &reps,
		entity: "organization",
	})
	if err != nil {
		return nil, err
	}

	orgs := make([]*organization.Organization, len(reps))
	for i, rep := range reps {
		orgs[i] = fromGroup(rep)
	}
	return orgs, nil
}

func (g *Groups) Count(ctx context.Context) (int, error) {
	var out struct {
		Count int `json:"count"`
	}
	q := url.Values{}
	q.Set("top", "true")
	_, err := g.c.send(ctx, call{
		method: http.MethodGet, path: "/groups/count", query: q, out: &out,
		entity: "organization",
	})
	if err != nil {
		return 0, err
	}
	return out.Count, nil
}

func (g *Groups) Save(ctx context.Context, org *organization.Organization) error {
	rep := toGroup(org)
	rep.ID = ""
	rep.Path = ""
	header, err := g.c.send(ctx, call{
		method: http.MethodPost, path: "/groups", body: rep,
		entity: "organization",
	})
	if err != nil {
		return err
	}

	id, err := idFromLocation(header)
	if err != nil {
		return err
	}
	org.ID = id
	org.Path = organization.PathOf(org.Name)
	return nil
}

func (g *Groups) Update(ctx context.Context, org *organization.Organization) error {
	if org.IsNew() {
		return apperror.NewNotFound("organization", org.ID)
	}
	_, err := g.c.send(ctx, call{
		method: http.MethodPut, path: groupPath(org.ID), body: toGroup(org),
		entity: "organization", id: org.ID,
	})
	return err
}

func (g *Groups) Delete(ctx context.Context, org *organization.Organization) error {
	if org.IsNew() {
		return apperror.NewNotFound("organization", org.ID)
	}
	_, err := g.c.send(ctx, call{
		method: http.MethodDelete, path: groupPath(org.ID),
		entity: "organization", id: org.ID,
	})
	return err
}

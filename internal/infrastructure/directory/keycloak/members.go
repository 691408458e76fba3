package keycloak

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"hermes/internal/core/apperror"
	"hermes/internal/core/entity"
	"hermes/internal/domain/employee"
	"hermes/internal/domain/organization"
)

var _ employee.Repository = (*Members)(nil)

// countPageSize is the page size used when counting members; the admin API
// has no member count endpoint.
const countPageSize = 100

// userRepresentation is the admin API shape of a user.
type userRepresentation struct {
	ID               string              `json:"id,omitempty"`
	Username         string              `json:"username"`
	Email            string              `json:"email,omitempty"`
	FirstName        string              `json:"firstName,omitempty"`
	LastName         string              `json:"lastName,omitempty"`
	Enabled          bool                `json:"enabled"`
	CreatedTimestamp int64               `json:"createdTimestamp,omitempty"`
	Attributes       map[string][]string `json:"attributes,omitempty"`
}

func toUser(emp *employee.Employee) userRepresentation {
	return userRepresentation{
		ID:         emp.ID,
		Username:   emp.Username,
		Email:      emp.Email,
		FirstName:  emp.FirstName,
		LastName:   emp.LastName,
		Enabled:    emp.Enabled,
		Attributes: emp.Attributes,
	}
}

func fromUser(u userRepresentation, orgID string) *employee.Employee {
	emp := &employee.Employee{
		OrganizationID: orgID,
		Username:       u.Username,
		Email:          u.Email,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		Enabled:        u.Enabled,
	}
	emp.ID = u.ID
	emp.Attributes = entity.Attributes(u.Attributes)
	if u.CreatedTimestamp > 0 {
		emp.CreatedAt = time.UnixMilli(u.CreatedTimestamp).UTC()
	}
	return emp
}

// Members implements employee.Repository on realm users and group membership.
type Members struct {
	c *Client
}

func userPath(id string) string {
	return "/users/" + url.PathEscape(id)
}

func (m *Members) FindByID(ctx context.Context, org *organization.Organization, id string) (*employee.Employee, error) {
	var rep userRepresentation
	_, err := m.c.send(ctx, call{
		method: http.MethodGet, path: userPath(id), out: &rep,
		entity: "employee", id: id,
	})
	if err != nil {
		return nil, err
	}

	member, err := m.isMember(ctx, id, org.ID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, apperror.NewNotFound("employee", id).WithDetail("organization", org.ID)
	}
	return fromUser(rep, org.ID), nil
}

func (m *Members) isMember(ctx context.Context, userID, groupID string) (bool, error) {
	var groups []groupRepresentation
	_, err := m.c.send(ctx, call{
		method: http.MethodGet, path: userPath(userID) + "/groups", out: &groups,
		entity: "employee", id: userID,
	})
	if err != nil {
		return false, err
	}
	for _, g := range groups {
		if g.ID == groupID {
			return true, nil
		}
	}
	return false, nil
}

func (m *Members) page(ctx context.Context, org *organization.Organization, offset, limit int, brief bool) ([]userRepresentation, error) {
	q := pageQuery(offset, limit)
	q.Set("briefRepresentation", fmt.Sprint(brief))

	var reps []userRepresentation
	_, err := m.c.send(ctx, call{
		method: http.MethodGet, path: groupPath(org.ID) + "/members", query: q, out: &reps,
		entity: "organization", id: org.ID,
	})
	return reps, err
}

func (m *Members) FindAll(ctx context.Context, org *organization.Organization, offset, limit int) ([]*employee.Employee, error) {
	reps, err := m.page(ctx, org, offset, limit, false)
	if err != nil {
		return nil, err
	}
	emps := make([]*employee.Employee, len(reps))
	for i, rep := range reps {
		emps[i] = fromUser(rep, org.ID)
	}
	return emps, nil
}

func (m *Members) Count(ctx context.Context, org *organization.Organization) (int, error) {
	total := 0
	for offset := 0; ; offset += countPageSize {
		reps, err := m.page(ctx, org, offset, countPageSize, true)
		if err != nil {
			return 0, err
		}
		total += len(reps)
		if len(reps) < countPageSize {
			return total, nil
		}
	}
}

// Save creates the user and then adds it to the organization's group. If the
// membership cannot be created the user is removed again.
func (m *Members) Save(ctx context.Context, org *organization.Organization, emp *employee.Employee) error {
	rep := toUser(emp)
	rep.ID = ""
	header, err := m.c.send(ctx, call{
		method: http.MethodPost, path: "/users", body: rep,
		entity: "employee",
	})
	if err != nil {
		return err
	}
	id, err := idFromLocation(header)
	if err != nil {
		return err
	}

	_, err = m.c.send(ctx, call{
		method: http.MethodPut, path: userPath(id) + groupPath(org.ID),
		entity: "organization", id: org.ID,
	})
	if err != nil {
		_, _ = m.c.send(ctx, call{method: http.MethodDelete, path: userPath(id), entity: "employee", id: id})
		return fmt.Errorf("join organization %s: %w", org.ID, err)
	}

	emp.ID = id
	emp.OrganizationID = org.ID
	return nil
}

func (m *Members) Update(ctx context.Context, org *organization.Organization, emp *employee.Employee) error {
	if emp.IsNew() {
		return apperror.NewNotFound("employee", emp.ID)
	}
	if _, err := m.FindByID(ctx, org, emp.ID); err != nil {
		return err
	}
	_, err := m.c.send(ctx, call{
		method: http.MethodPut, path: userPath(emp.ID), body: toUser(emp),
		entity: "employee", id: emp.ID,
	})
	return err
}

func (m *Members) Delete(ctx context.Context, org *organization.Organization, emp *employee.Employee) error {
	if emp.IsNew() {
		return apperror.NewNotFound("employee", emp.ID)
	}
	if _, err := m.FindByID(ctx, org, emp.ID); err != nil {
		return err
	}
	_, err := m.c.send(ctx, call{
		method: http.MethodDelete, path: userPath(emp.ID),
		entity: "employee", id: emp.ID,
	})
	return err
}

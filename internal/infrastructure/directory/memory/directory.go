// Package memory provides an in-process directory. It backs local development
// and handler tests; state is lost on restart.
package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"hermes/internal/core/apperror"
	"hermes/internal/domain/employee"
	"hermes/internal/domain/organization"
)

// Directory stores organizations and their employees in memory.
// It is safe for concurrent use.
type Directory struct {
	mu        sync.RWMutex
	orgs      map[string]*organization.Organization
	employees map[string]*employee.Employee
	now       func() time.Time
}

// New creates an empty Directory.
func New() *Directory {
	return &Directory{
		orgs:      make(map[string]*organization.Organization),
		employees: make(map[string]*employee.Employee),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Organizations returns the organization repository view of d.
func (d *Directory) Organizations() organization.Repository {
	return &orgRepo{d: d}
}

// Employees returns the employee repository view of d.
func (d *Directory) Employees() employee.Repository {
	return &employeeRepo{d: d}
}

func cloneOrg(o *organization.Organization) *organization.Organization {
	c := *o
	c.Attributes = o.Attributes.Clone()
	return &c
}

func cloneEmployee(e *employee.Employee) *employee.Employee {
	c := *e
	c.Attributes = e.Attributes.Clone()
	return &c
}

func page[T any](items []T, offset, limit int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end]
}

// checkVersion enforces optimistic locking for callers that send a version.
func checkVersion(entity string, id string, stored, sent int) error {
	if sent != 0 && sent != stored {
		return apperror.NewConcurrentModification(entity, id)
	}
	return nil
}

type orgRepo struct {
	d *Directory
}

func (r *orgRepo) FindByID(_ context.Context, id string) (*organization.Organization, error) {
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()

	org, ok := r.d.orgs[id]
	if !ok {
		return nil, apperror.NewNotFound("organization", id)
	}
	return cloneOrg(org), nil
}

func (r *orgRepo) FindAll(_ context.Context, offset, limit int) ([]*organization.Organization, error) {
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()

	all := make([]*organization.Organization, 0, len(r.d.orgs))
	for _, org := range r.d.orgs {
		all = append(all, cloneOrg(org))
	}
	slices.SortFunc(all, func(a, b *organization.Organization) int {
		return cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})
	return page(all, offset, limit), nil
}

func (r *orgRepo) Count(context.Context) (int, error) {
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()
	return len(r.d.orgs), nil
}

// nameTaken reports whether another organization already uses name. Caller holds the lock.
func (r *orgRepo) nameTaken(name, exceptID string) bool {
	for id, org := range r.d.orgs {
		if id != exceptID && strings.EqualFold(org.Name, name) {
			return true
		}
	}
	return false
}

func (r *orgRepo) Save(_ context.Context, org *organization.Organization) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	if r.nameTaken(org.Name, "") {
		return apperror.NewConflict(fmt.Sprintf("Top level group named '%s' already exists.", org.Name))
	}
	org.EnsureID()
	if _, exists := r.d.orgs[org.ID]; exists {
		return apperror.NewDuplicate("organization", "id", org.ID)
	}
	org.Path = organization.PathOf(org.Name)
	org.Version = 1
	r.d.orgs[org.ID] = cloneOrg(org)
	return nil
}

func (r *orgRepo) Update(_ context.Context, org *organization.Organization) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	stored, ok := r.d.orgs[org.ID]
	if !ok {
		return apperror.NewNotFound("organization", org.ID)
	}
	if err := checkVersion("organization", org.ID, stored.Version, org.Version); err != nil {
		return err
	}
	if r.nameTaken(org.Name, org.ID) {
		return apperror.NewConflict(fmt.Sprintf("Sibling group named '%s' already exists.", org.Name))
	}
	org.Path = organization.PathOf(org.Name)
	org.Version = stored.Version
	org.Touch()
	r.d.orgs[org.ID] = cloneOrg(org)
	return nil
}

func (r *orgRepo) Delete(_ context.Context, org *organization.Organization) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	if _, ok := r.d.orgs[org.ID]; !ok {
		return apperror.NewNotFound("organization", org.ID)
	}
	delete(r.d.orgs, org.ID)
	for id, emp := range r.d.employees {
		if emp.OrganizationID == org.ID {
			delete(r.d.employees, id)
		}
	}
	return nil
}

type employeeRepo struct {
	d *Directory
}

// member returns the employee with id if it belongs to org. Caller holds the lock.
func (r *employeeRepo) member(org *organization.Organization, id string) (*employee.Employee, error) {
	if _, ok := r.d.orgs[org.ID]; !ok {
		return nil, apperror.NewNotFound("organization", org.ID)
	}
	emp, ok := r.d.employees[id]
	if !ok || emp.OrganizationID != org.ID {
		return nil, apperror.NewNotFound("employee", id)
	}
	return emp, nil
}

func (r *employeeRepo) FindByID(_ context.Context, org *organization.Organization, id string) (*employee.Employee, error) {
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()

	emp, err := r.member(org, id)
	if err != nil {
		return nil, err
	}
	return cloneEmployee(emp), nil
}

func (r *employeeRepo) members(org *organization.Organization) ([]*employee.Employee, error) {
	if _, ok := r.d.orgs[org.ID]; !ok {
		return nil, apperror.NewNotFound("organization", org.ID)
	}
	var out []*employee.Employee
	for _, emp := range r.d.employees {
		if emp.OrganizationID == org.ID {
			out = append(out, cloneEmployee(emp))
		}
	}
	slices.SortFunc(out, func(a, b *employee.Employee) int {
		return cmp.Compare(a.Username, b.Username)
	})
	return out, nil
}

func (r *employeeRepo) FindAll(_ context.Context, org *organization.Organization, offset, limit int) ([]*employee.Employee, error) {
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()

	all, err := r.members(org)
	if err != nil {
		return nil, err
	}
	return page(all, offset, limit), nil
}

func (r *employeeRepo) Count(_ context.Context, org *organization.Organization) (int, error) {
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()

	all, err := r.members(org)
	if err != nil {
		return 0, err
	}
	return len(all), nil
}

func (r *employeeRepo) usernameTaken(username, exceptID string) bool {
	for id, emp := range r.d.employees {
		if id != exceptID && strings.EqualFold(emp.Username, username) {
			return true
		}
	}
	return false
}

func (r *employeeRepo) Save(_ context.Context, org *organization.Organization, emp *employee.Employee) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	if _, ok := r.d.orgs[org.ID]; !ok {
		return apperror.NewNotFound("organization", org.ID)
	}
	if r.usernameTaken(emp.Username, "") {
		return apperror.NewConflict("User exists with same username")
	}
	emp.EnsureID()
	emp.OrganizationID = org.ID
	emp.Version = 1
	emp.CreatedAt = r.d.now()
	r.d.employees[emp.ID] = cloneEmployee(emp)
	return nil
}

func (r *employeeRepo) Update(_ context.Context, org *organization.Organization, emp *employee.Employee) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	stored, err := r.member(org, emp.ID)
	if err != nil {
		return err
	}
	if err := checkVersion("employee", emp.ID, stored.Version, emp.Version); err != nil {
		return err
	}
	if r.usernameTaken(emp.Username, emp.ID) {
		return apperror.NewConflict("User exists with same username")
	}
	emp.OrganizationID = org.ID
	emp.CreatedAt = stored.CreatedAt
	emp.Version = stored.Version
	emp.Touch()
	r.d.employees[emp.ID] = cloneEmployee(emp)
	return nil
}

func (r *employeeRepo) Delete(_ context.Context, org *organization.Organization, emp *employee.Employee) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	if _, err := r.member(org, emp.ID); err != nil {
		return err
	}
	delete(r.d.employees, emp.ID)
	return nil
}

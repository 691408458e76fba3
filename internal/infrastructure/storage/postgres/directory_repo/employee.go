package directory_repo

import (
	"context"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"hermes/internal/core/apperror"
	"hermes/internal/domain/employee"
	"hermes/internal/domain/organization"
	"hermes/internal/infrastructure/storage/postgres"
)

var employeeColumns = []string{
	"id", "organization_id", "username", "email", "first_name", "last_name",
	"enabled", "version", "attributes", "created_at",
}

var _ employee.Repository = (*EmployeeRepo)(nil)

// EmployeeRepo implements employee.Repository on dir_employees. Every query is
// scoped to the parent organization.
type EmployeeRepo struct {
	txm store
}

// NewEmployeeRepo creates a new employee repository.
func NewEmployeeRepo(txm *postgres.TxManager) *EmployeeRepo {
	return &EmployeeRepo{txm: txm}
}

func inOrganization(orgID string) squirrel.Eq {
	return squirrel.Eq{"organization_id": orgID}
}

func selectEmployee(orgID, id string) squirrel.SelectBuilder {
	return builder().
		Select(employeeColumns...).
		From(postgres.EmployeesTable).
		Where(squirrel.Eq{"id": id}).
		Where(inOrganization(orgID)).
		Limit(1)
}

func listEmployees(orgID string, offset, limit int) squirrel.SelectBuilder {
	q := builder().
		Select(employeeColumns...).
		From(postgres.EmployeesTable).
		Where(inOrganization(orgID)).
		OrderBy("username", "id")
	return paginate(q, offset, limit)
}

func countEmployees(orgID string) squirrel.SelectBuilder {
	return builder().Select("COUNT(*)").From(postgres.EmployeesTable).Where(inOrganization(orgID))
}

func insertEmployee(emp *employee.Employee) squirrel.InsertBuilder {
	return builder().
		Insert(postgres.EmployeesTable).
		SetMap(map[string]any{
			"id":              emp.ID,
			"organization_id": emp.OrganizationID,
			"username":        emp.Username,
			"email":           emp.Email,
			"first_name":      emp.FirstName,
			"last_name":       emp.LastName,
			"enabled":         emp.Enabled,
			"version":         emp.Version,
			"attributes":      emp.Attributes,
			"created_at":      emp.CreatedAt,
		})
}

// updateEmployee never moves an employee to another organization.
func updateEmployee(orgID string, emp *employee.Employee) squirrel.UpdateBuilder {
	q := builder().
		Update(postgres.EmployeesTable).
		Set("username", emp.Username).
		Set("email", emp.Email).
		Set("first_name", emp.FirstName).
		Set("last_name", emp.LastName).
		Set("enabled", emp.Enabled).
		Set("attributes", emp.Attributes).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": emp.ID}).
		Where(inOrganization(orgID)).
		Suffix("RETURNING version")
	if emp.Version > 0 {
		q = q.Where(squirrel.Eq{"version": emp.Version})
	}
	return q
}

func employeeExists(orgID, id string) squirrel.SelectBuilder {
	return builder().
		Select("1").
		From(postgres.EmployeesTable).
		Where(squirrel.Eq{"id": id}).
		Where(inOrganization(orgID))
}

func deleteEmployee(orgID, id string) squirrel.DeleteBuilder {
	return builder().
		Delete(postgres.EmployeesTable).
		Where(squirrel.Eq{"id": id}).
		Where(inOrganization(orgID))
}

func (r *EmployeeRepo) FindByID(ctx context.Context, org *organization.Organization, id string) (*employee.Employee, error) {
	sql, args, err := selectEmployee(org.ID, id).ToSql()
	if err != nil {
		return nil, err
	}

	var emp employee.Employee
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &emp, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("employee", id).WithDetail("organization", org.ID)
		}
		return nil, postgres.MapError("find employee", err)
	}
	return &emp, nil
}

func (r *EmployeeRepo) FindAll(ctx context.Context, org *organization.Organization, offset, limit int) ([]*employee.Employee, error) {
	sql, args, err := listEmployees(org.ID, offset, limit).ToSql()
	if err != nil {
		return nil, err
	}

	var emps []*employee.Employee
	err = readOnly(ctx, r.txm, func(ctx context.Context, q postgres.Querier) error {
		return pgxscan.Select(ctx, q, &emps, sql, args...)
	})
	if err != nil {
		return nil, postgres.MapError("list employees", err)
	}
	return emps, nil
}

func (r *EmployeeRepo) Count(ctx context.Context, org *organization.Organization) (int, error) {
	var n int
	err := readOnly(ctx, r.txm, func(ctx context.Context, q postgres.Querier) error {
		var err error
		n, err = count(ctx, q, countEmployees(org.ID), "count employees")
		return err
	})
	return n, err
}

// Save inserts emp into org. A missing organization surfaces as NotFound
// through the foreign key.
func (r *EmployeeRepo) Save(ctx context.Context, org *organization.Organization, emp *employee.Employee) error {
	stored := *emp
	stored.EnsureID()
	stored.OrganizationID = org.ID
	stored.Version = 1
	stored.CreatedAt = time.Now().UTC()

	sql, args, err := insertEmployee(&stored).ToSql()
	if err != nil {
		return err
	}
	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return postgres.MapError("save employee", err)
	}

	*emp = stored
	return nil
}

func (r *EmployeeRepo) Update(ctx context.Context, org *organization.Organization, emp *employee.Employee) error {
	sql, args, err := updateEmployee(org.ID, emp).ToSql()
	if err != nil {
		return err
	}

	return r.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		q := r.txm.GetQuerier(ctx)
		var version int
		err := q.QueryRow(ctx, sql, args...).Scan(&version)
		if errors.Is(err, pgx.ErrNoRows) {
			return versionMismatch(ctx, q, employeeExists(org.ID, emp.ID), "employee", emp.ID)
		}
		if err != nil {
			return postgres.MapError("update employee", err)
		}
		emp.Version = version
		return nil
	})
}

func (r *EmployeeRepo) Delete(ctx context.Context, org *organization.Organization, emp *employee.Employee) error {
	sql, args, err := deleteEmployee(org.ID, emp.ID).ToSql()
	if err != nil {
		return err
	}

	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError("delete employee", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("employee", emp.ID).WithDetail("organization", org.ID)
	}
	return nil
}

package directory_repo

import (
	"context"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"hermes/internal/core/apperror"
	"hermes/internal/domain/organization"
	"hermes/internal/infrastructure/storage/postgres"
)

var organizationColumns = []string{"id", "name", "path", "version", "attributes"}

var _ organization.Repository = (*OrganizationRepo)(nil)

// OrganizationRepo implements organization.Repository on dir_organizations.
type OrganizationRepo struct {
	txm store
}

// NewOrganizationRepo creates a new organization repository.
func NewOrganizationRepo(txm *postgres.TxManager) *OrganizationRepo {
	return &OrganizationRepo{txm: txm}
}

func selectOrganization(id string) squirrel.SelectBuilder {
	return builder().
		Select(organizationColumns...).
		From(postgres.OrganizationsTable).
		Where(squirrel.Eq{"id": id}).
		Limit(1)
}

func listOrganizations(offset, limit int) squirrel.SelectBuilder {
	q := builder().
		Select(organizationColumns...).
		From(postgres.OrganizationsTable).
		OrderBy("lower(name)", "id")
	return paginate(q, offset, limit)
}

func countOrganizations() squirrel.SelectBuilder {
	return builder().Select("COUNT(*)").From(postgres.OrganizationsTable)
}

func insertOrganization(org *organization.Organization) squirrel.InsertBuilder {
	return builder().
		Insert(postgres.OrganizationsTable).
		SetMap(map[string]any{
			"id":         org.ID,
			"name":       org.Name,
			"path":       org.Path,
			"version":    org.Version,
			"attributes": org.Attributes,
		})
}

// updateOrganization bumps the version. A zero version skips the optimistic lock.
func updateOrganization(org *organization.Organization) squirrel.UpdateBuilder {
	q := builder().
		Update(postgres.OrganizationsTable).
		Set("name", org.Name).
		Set("path", org.Path).
		Set("attributes", org.Attributes).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": org.ID}).
		Suffix("RETURNING version")
	if org.Version > 0 {
		q = q.Where(squirrel.Eq{"version": org.Version})
	}
	return q
}

func organizationExists(id string) squirrel.SelectBuilder {
	return builder().Select("1").From(postgres.OrganizationsTable).Where(squirrel.Eq{"id": id})
}

func deleteOrganization(id string) squirrel.DeleteBuilder {
	return builder().Delete(postgres.OrganizationsTable).Where(squirrel.Eq{"id": id})
}

func (r *OrganizationRepo) FindByID(ctx context.Context, id string) (*organization.Organization, error) {
	sql, args, err := selectOrganization(id).ToSql()
	if err != nil {
		return nil, err
	}

	var org organization.Organization
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &org, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("organization", id)
		}
		return nil, postgres.MapError("find organization", err)
	}
	return &org, nil
}

func (r *OrganizationRepo) FindAll(ctx context.Context, offset, limit int) ([]*organization.Organization, error) {
	sql, args, err := listOrganizations(offset, limit).ToSql()
	if err != nil {
		return nil, err
	}

	var orgs []*organization.Organization
	err = readOnly(ctx, r.txm, func(ctx context.Context, q postgres.Querier) error {
		return pgxscan.Select(ctx, q, &orgs, sql, args...)
	})
	if err != nil {
		return nil, postgres.MapError("list organizations", err)
	}
	return orgs, nil
}

func (r *OrganizationRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := readOnly(ctx, r.txm, func(ctx context.Context, q postgres.Querier) error {
		var err error
		n, err = count(ctx, q, countOrganizations(), "count organizations")
		return err
	})
	return n, err
}

func (r *OrganizationRepo) Save(ctx context.Context, org *organization.Organization) error {
	stored := *org
	stored.EnsureID()
	stored.Version = 1
	if stored.Path == "" {
		stored.Path = organization.PathOf(stored.Name)
	}

	sql, args, err := insertOrganization(&stored).ToSql()
	if err != nil {
		return err
	}
	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return postgres.MapError("save organization", err)
	}

	*org = stored
	return nil
}

func (r *OrganizationRepo) Update(ctx context.Context, org *organization.Organization) error {
	sql, args, err := updateOrganization(org).ToSql()
	if err != nil {
		return err
	}

	return r.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		q := r.txm.GetQuerier(ctx)
		var version int
		err := q.QueryRow(ctx, sql, args...).Scan(&version)
		if errors.Is(err, pgx.ErrNoRows) {
			return versionMismatch(ctx, q, organizationExists(org.ID), "organization", org.ID)
		}
		if err != nil {
			return postgres.MapError("update organization", err)
		}
		org.Version = version
		return nil
	})
}

// Delete removes the organization; its employees go with it (ON DELETE CASCADE).
func (r *OrganizationRepo) Delete(ctx context.Context, org *organization.Organization) error {
	sql, args, err := deleteOrganization(org.ID).ToSql()
	if err != nil {
		return err
	}

	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError("delete organization", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("organization", org.ID)
	}
	return nil
}

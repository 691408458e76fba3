package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hermes/internal/core/apperror"
	"hermes/internal/domain/employee"
	"hermes/internal/domain/organization"
)

func TestOrganizations_CRUD(t *testing.T) {
	ctx := context.Background()
	repo := New().Organizations()

	acme := organization.NewOrganization("Acme")
	require.NoError(t, repo.Save(ctx, acme))
	require.NotEmpty(t, acme.ID)
	require.NoError(t, repo.Save(ctx, organization.NewOrganization("Beta")))

	err := repo.Save(ctx, organization.NewOrganization("acme"))
	assert.True(t, apperror.IsConflict(err))

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	page, err := repo.FindAll(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "Beta", page[0].Name)

	got, err := repo.FindByID(ctx, acme.ID)
	require.NoError(t, err)
	got.Rename("Acme Corp")
	require.NoError(t, repo.Update(ctx, got))
	assert.Equal(t, "/Acme Corp", got.Path)
	assert.Equal(t, 2, got.Version)

	stale := *acme
	err = repo.Update(ctx, &stale)
	assert.True(t, apperror.IsConflict(err), "stale version must conflict")

	require.NoError(t, repo.Delete(ctx, got))
	_, err = repo.FindByID(ctx, acme.ID)
	assert.True(t, apperror.IsNotFound(err))
	assert.True(t, apperror.IsNotFound(repo.Delete(ctx, got)))
}

func TestEmployees_ScopedByOrganization(t *testing.T) {
	ctx := context.Background()
	dir := New()
	orgs, emps := dir.Organizations(), dir.Employees()

	acme, beta := organization.NewOrganization("Acme"), organization.NewOrganization("Beta")
	require.NoError(t, orgs.Save(ctx, acme))
	require.NoError(t, orgs.Save(ctx, beta))

	jdoe := employee.NewEmployee("jdoe", "jdoe@acme.test", "John", "Doe")
	require.NoError(t, emps.Save(ctx, acme, jdoe))
	assert.Equal(t, acme.ID, jdoe.OrganizationID)
	assert.False(t, jdoe.CreatedAt.IsZero())

	err := emps.Save(ctx, beta, employee.NewEmployee("JDOE", "", "", ""))
	assert.True(t, apperror.IsConflict(err))

	_, err = emps.FindByID(ctx, beta, jdoe.ID)
	assert.True(t, apperror.IsNotFound(err), "employee of another organization is not visible")

	got, err := emps.FindByID(ctx, acme, jdoe.ID)
	require.NoError(t, err)
	assert.Equal(t, "John Doe", got.FullName())

	n, err := emps.Count(ctx, acme)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = emps.Count(ctx, &organization.Organization{Name: "ghost"})
	assert.True(t, apperror.IsNotFound(err))

	require.NoError(t, orgs.Delete(ctx, acme))
	n, err = emps.Count(ctx, beta)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	_, err = emps.FindAll(ctx, acme, 0, 10)
	assert.True(t, apperror.IsNotFound(err))
}

func TestPage(t *testing.T) {
	items := []int{1, 2, 3, 4}
	assert.Equal(t, []int{2, 3}, page(items, 1, 2))
	assert.Equal(t, []int{1, 2, 3, 4}, page(items, -1, 0))
	assert.Equal(t, []int{}, page(items, 9, 2))
}

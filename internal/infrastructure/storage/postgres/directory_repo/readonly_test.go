package directory_repo

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hermes/internal/domain/organization"
	"hermes/internal/infrastructure/storage/postgres"
)

type readOnlyKey struct{}

// recordingStore counts transactions and answers COUNT(*) with total, but
// only inside a read-only transaction.
type recordingStore struct {
	readOnly  int
	readWrite int
	total     int
	lastSQL   string
}

func (s *recordingStore) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	s.readWrite++
	return fn(ctx)
}

func (s *recordingStore) ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	s.readOnly++
	return fn(context.WithValue(ctx, readOnlyKey{}, true))
}

func (s *recordingStore) GetQuerier(ctx context.Context) postgres.Querier {
	return &countQuerier{store: s, readOnly: ctx.Value(readOnlyKey{}) != nil}
}

type countQuerier struct {
	postgres.Querier
	store    *recordingStore
	readOnly bool
}

func (q *countQuerier) QueryRow(_ context.Context, sql string, _ ...any) pgx.Row {
	q.store.lastSQL = sql
	return countRow{n: q.store.total, readOnly: q.readOnly}
}

type countRow struct {
	n        int
	readOnly bool
}

func (r countRow) Scan(dest ...any) error {
	if !r.readOnly {
		return errors.New("count outside a read-only transaction")
	}
	*dest[0].(*int) = r.n
	return nil
}

func TestCountRunsReadOnly(t *testing.T) {
	ctx := context.Background()

	t.Run("organizations", func(t *testing.T) {
		s := &recordingStore{total: 3}
		n, err := (&OrganizationRepo{txm: s}).Count(ctx)

		require.NoError(t, err)
		assert.Equal(t, 3, n)
		assert.Equal(t, 1, s.readOnly)
		assert.Zero(t, s.readWrite)
		assert.Equal(t, "SELECT COUNT(*) FROM dir_organizations", s.lastSQL)
	})

	t.Run("employees", func(t *testing.T) {
		s := &recordingStore{total: 7}
		org := &organization.Organization{Name: "Acme"}
		org.ID = "o1"
		n, err := (&EmployeeRepo{txm: s}).Count(ctx, org)

		require.NoError(t, err)
		assert.Equal(t, 7, n)
		assert.Equal(t, 1, s.readOnly)
		assert.Contains(t, s.lastSQL, "FROM dir_employees WHERE organization_id = $1")
	})
}

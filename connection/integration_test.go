package connection

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bawdo/litequery/internal/testutil"
	"github.com/bawdo/litequery/nodes"
	"github.com/bawdo/litequery/sqlerr"
)

// newMemory starts a connection on a fresh in-memory database holding the
// fixture tables.
func newMemory(t *testing.T, opts ...Option) (*Connection, *testutil.Schema) {
	t.Helper()
	c := New(append([]Option{WithLogger(quiet)}, opts...)...)
	require.NoError(t, c.Start(context.Background()))
	t.Cleanup(func() { _ = c.Stop() })
	require.NoError(t, c.Exec(context.Background(), testutil.CreateTablesSQL))
	return c, testutil.NewSchema()
}

func count(t *testing.T, c *Connection, ctx context.Context, table string) int64 {
	t.Helper()
	res, err := c.Query(ctx, `SELECT COUNT(*) FROM "`+table+`"`)
	require.NoError(t, err)
	return res.Rows[0][0].(int64)
}

func TestMemoryRoundTrip(t *testing.T) {
	t.Parallel()
	c, s := newMemory(t)
	ctx := context.Background()

	roles, err := c.Insert(ctx, s.Role, Values{"name": "admin"}, Values{"name": "member"})
	require.NoError(t, err)
	require.Len(t, roles.Rows, 2)

	_, err = c.Insert(ctx, s.User,
		Values{"firstName": "Joe", "lastName": "Bloggs", "primaryRoleID": 1},
		Values{"firstName": "Mary", "lastName": "Smith", "primaryRoleID": 2})
	require.NoError(t, err)

	q := nodes.NewQuery(s.User)
	q.Where = nodes.And(
		s.User.Field("primaryRoleID").Eq(s.Role.Field("id")),
		s.Role.Field("name").Eq("admin"),
	)
	q.Projection = []any{"User:firstName", "Role:name"}
	res, err := c.Select(ctx, q)
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	row := res.Maps()[0]
	assert.Equal(t, "Joe", row["User:firstName"])
	assert.Equal(t, "admin", row["Role:name"])

	update := nodes.NewQuery(s.User)
	update.Where = s.User.Field("firstName").Eq("Mary")
	res, err = c.Update(ctx, update, Values{"lastName": "Jones"})
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, "Jones", res.Maps()[0]["lastName"])

	n, err := c.Delete(ctx, update)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, int64(1), count(t, c, ctx, "users"))
}

func TestMemoryForeignKeysEnforced(t *testing.T) {
	t.Parallel()
	c, s := newMemory(t)
	ctx := context.Background()

	res, err := c.Pragma(ctx, "foreign_keys")
	require.NoError(t, err)
	assert.Equal(t, [][]any{{int64(1)}}, res.Rows)

	_, err = c.Insert(ctx, s.User, Values{"firstName": "Joe", "primaryRoleID": 999})
	assert.ErrorIs(t, err, sqlerr.ErrExecution)
	assert.NotEmpty(t, sqlerr.SQLOf(err))

	require.NoError(t, c.EnableForeignKeyConstraints(ctx, false))
	_, err = c.Insert(ctx, s.User, Values{"firstName": "Joe", "primaryRoleID": 999})
	assert.NoError(t, err)
}

func TestMemoryTruncateResetsSequence(t *testing.T) {
	t.Parallel()
	c, s := newMemory(t)
	ctx := context.Background()

	_, err := c.Insert(ctx, s.Role, Values{"name": "a"}, Values{"name": "b"})
	require.NoError(t, err)

	n, err := c.Truncate(ctx, s.Role)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	res, err := c.Insert(ctx, s.Role, Values{"name": "c"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Maps()[0]["id"])
}

func TestMemoryTruncateWithoutSequenceTable(t *testing.T) {
	t.Parallel()
	c := New(WithLogger(quiet))
	ctx := context.Background()
	require.NoError(t, c.Start(ctx))
	t.Cleanup(func() { _ = c.Stop() })
	require.NoError(t, c.Exec(ctx, `CREATE TABLE "notes" ("id" INTEGER PRIMARY KEY, "body" TEXT)`))

	notes := nodes.NewModel("Note",
		&nodes.Field{Name: "id", Type: nodes.TypeInteger, PrimaryKey: true},
		&nodes.Field{Name: "body", Type: nodes.TypeString},
	)
	_, err := c.Insert(ctx, notes, Values{"body": "hello"})
	require.NoError(t, err)

	n, err := c.Truncate(ctx, notes)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestMemoryEmulatedBigIntAutoIncrement(t *testing.T) {
	t.Parallel()
	c, s := newMemory(t, WithEmulatedBigIntAutoIncrement(true))
	ctx := context.Background()

	res, err := c.Insert(ctx, s.ExtendedUser, Values{"email": "a@example.com"}, Values{"email": "b@example.com"})
	require.NoError(t, err)
	rows := res.Maps()
	require.Len(t, rows, 2)
	assert.Equal(t, int64(1), rows[0]["id"])
	assert.Equal(t, int64(2), rows[1]["autoID"])
	assert.Greater(t, rows[0]["createdAt"], int64(0))

	_, err = c.Truncate(ctx, s.ExtendedUser)
	require.NoError(t, err)
	res, err = c.Insert(ctx, s.ExtendedUser, Values{"email": "c@example.com"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Maps()[0]["autoID"])
}

func TestMemoryTransactions(t *testing.T) {
	t.Parallel()
	c, s := newMemory(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := c.Transaction(ctx, func(ctx context.Context) error {
		_, err := c.Insert(ctx, s.Role, Values{"name": "discarded"})
		require.NoError(t, err)
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, int64(0), count(t, c, ctx, "roles"))

	err = c.Transaction(ctx, func(ctx context.Context) error {
		if _, err := c.Insert(ctx, s.Role, Values{"name": "kept"}); err != nil {
			return err
		}
		inner := c.Transaction(ctx, func(ctx context.Context) error {
			_, err := c.Insert(ctx, s.Role, Values{"name": "rolled back"})
			require.NoError(t, err)
			assert.Equal(t, int64(2), count(t, c, ctx, "roles"))
			return boom
		})
		require.ErrorIs(t, inner, boom)
		return nil
	})
	require.NoError(t, err)

	res, err := c.Query(ctx, `SELECT "name" FROM "roles"`)
	require.NoError(t, err)
	assert.Equal(t, [][]any{{"kept"}}, res.Rows)
}

func TestMemoryTransactionValue(t *testing.T) {
	t.Parallel()
	c, s := newMemory(t)
	ctx := context.Background()

	id, err := TransactionValue(ctx, c, func(ctx context.Context) (int64, error) {
		res, err := c.Insert(ctx, s.Role, Values{"name": "admin"})
		if err != nil {
			return 0, err
		}
		return res.Maps()[0]["id"].(int64), nil
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)
	assert.Equal(t, int64(1), count(t, c, ctx, "roles"))
}

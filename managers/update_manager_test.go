package managers

import (
	"testing"

	"github.com/bawdo/litequery/internal/testutil"
	"github.com/bawdo/litequery/sqlerr"
	"github.com/bawdo/litequery/visitors"
)

func TestUpdateSetWhere(t *testing.T) {
	t.Parallel()
	s := testutil.NewSchema()
	got, err := NewUpdateManager(s.User).
		Set(s.User.Field("firstName"), "Bob").
		Set(s.User.Field("lastName"), nil).
		Where(s.User.Field("id").Eq(1)).
		ToSQL(visitors.NewSQLiteVisitor())
	testutil.AssertSQL(t, got, err,
		`UPDATE "users" SET "firstName"='Bob',"lastName"=NULL WHERE "users"."id" = 1 RETURNING *`)
}

func TestUpdateMultipleWheres(t *testing.T) {
	t.Parallel()
	s := testutil.NewSchema()
	got, err := NewUpdateManager(s.User).
		Set(s.User.Field("firstName"), "Bob").
		Where(s.User.Field("id").Gt(1)).
		Where(s.User.Field("id").Lt(10)).
		Returning(s.User.PrimaryKey()).
		ToSQL(visitors.NewSQLiteVisitor())
	testutil.AssertSQL(t, got, err,
		`UPDATE "users" SET "firstName"='Bob' WHERE "users"."id" > 1 AND "users"."id" < 10 RETURNING "id"`)
}

func TestUpdateWithLimit(t *testing.T) {
	t.Parallel()
	s := testutil.NewSchema()
	got, err := NewUpdateManager(s.User).
		Set(s.User.Field("firstName"), "Bob").
		Limit(2).
		ToSQL(visitors.NewSQLiteVisitor())
	testutil.AssertSQL(t, got, err,
		`UPDATE "users" SET "firstName"='Bob' WHERE "users"."id" IN (SELECT "users"."id" AS "User:id" FROM "users" LIMIT 2) RETURNING *`)
}

func TestUpdateNoAssignments(t *testing.T) {
	t.Parallel()
	s := testutil.NewSchema()
	_, err := NewUpdateManager(s.User).Where(s.User.Field("id").Eq(1)).ToSQL(visitors.NewSQLiteVisitor())
	testutil.AssertErrorIs(t, err, sqlerr.ErrEmptyOperandSet, "")
}

func TestUpdateBuildIsACopy(t *testing.T) {
	t.Parallel()
	s := testutil.NewSchema()
	m := NewUpdateManager(s.User).Set(s.User.Field("firstName"), "Bob")
	stmt, err := m.Build()
	testutil.AssertNoError(t, err)
	stmt.Assignments[0].Value = "Ann"
	stmt.Query.Limit = new(int64)
	testutil.AssertEqual[any](t, m.Statement.Assignments[0].Value, "Bob")
	if m.Statement.Query.Limit != nil {
		t.Error("expected manager query to be unchanged")
	}
}

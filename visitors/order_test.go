package visitors

import (
	"strings"
	"testing"

	"github.com/bawdo/litequery/internal/testutil"
	"github.com/bawdo/litequery/nodes"
	"github.com/bawdo/litequery/sqlerr"
)

func int64p(n int64) *int64 { return &n }

func TestOrder(t *testing.T) {
	t.Parallel()
	v := NewSQLiteVisitor()
	s := testutil.NewSchema()

	t.Run("default order", func(t *testing.T) {
		got, err := v.Order(nodes.NewQuery(s.User))
		testutil.AssertSQL(t, got, err, `ORDER BY "users"."rowid" ASC`)
	})

	t.Run("default order reversed", func(t *testing.T) {
		rv := NewSQLiteVisitor(WithDefaultOrderDirection(nodes.Desc))
		got, err := rv.Order(nodes.NewQuery(s.User))
		testutil.AssertSQL(t, got, err, `ORDER BY "users"."rowid" DESC`)
	})

	t.Run("empty order", func(t *testing.T) {
		q := nodes.NewQuery(s.User)
		q.Order = nodes.NewOrderMap()
		got, err := v.Order(q)
		testutil.AssertSQL(t, got, err, "")
	})

	t.Run("fields and raw strings", func(t *testing.T) {
		q := nodes.NewQuery(s.User)
		q.Order = nodes.NewOrderMap()
		q.Order.Set("User:id", nodes.OrderEntry{Value: s.User.Field("id"), Direction: nodes.Desc})
		q.Order.Set("test", nodes.OrderEntry{Value: "test", Direction: nodes.Asc})
		got, err := v.Order(q)
		testutil.AssertSQL(t, got, err, `ORDER BY "users"."id" DESC,test ASC`)
	})

	t.Run("last write wins at first position", func(t *testing.T) {
		q := nodes.NewQuery(s.User)
		q.Order = nodes.NewOrderMap()
		q.Order.Set("User:id", nodes.OrderEntry{Value: nodes.FieldName("id")})
		q.Order.Set("User:firstName", nodes.OrderEntry{Value: nodes.FieldName("User:firstName")})
		q.Order.Set("User:id", nodes.OrderEntry{Value: nodes.FieldName("id"), Direction: nodes.Desc})
		got, err := v.Order(q)
		testutil.AssertSQL(t, got, err, `ORDER BY "users"."id" DESC,"users"."firstName" ASC`)
	})

	t.Run("literal", func(t *testing.T) {
		q := nodes.NewQuery(s.User)
		q.Order = nodes.NewOrderMap()
		q.Order.Set("len", nodes.OrderEntry{Value: nodes.NewLiteral(`LENGTH("users"."firstName")`)})
		got, err := v.Order(q)
		testutil.AssertSQL(t, got, err, `ORDER BY LENGTH("users"."firstName") ASC`)
	})

	t.Run("unresolved field", func(t *testing.T) {
		q := nodes.NewQuery(s.User)
		q.Order = nodes.NewOrderMap()
		q.Order.Set("derp", nodes.OrderEntry{Value: nodes.FieldName("derp")})
		_, err := v.Order(q)
		testutil.AssertErrorIs(t, err, sqlerr.ErrUnresolvedField, `Field "derp" not found.`)
	})
}

func TestLimitOffset(t *testing.T) {
	t.Parallel()
	v := NewSQLiteVisitor()
	s := testutil.NewSchema()
	tests := []struct {
		name          string
		limit, offset *int64
		want          string
	}{
		{"none", nil, nil, ""},
		{"limit", int64p(100), nil, "LIMIT 100"},
		{"infinity", int64p(nodes.Infinity), nil, ""},
		{"offset alone", nil, int64p(5), "OFFSET 5"},
		{"infinity with offset", int64p(nodes.Infinity), int64p(5), "OFFSET 5"},
		{"both", int64p(10), int64p(20), "LIMIT 10 OFFSET 20"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := nodes.NewQuery(s.User)
			q.Limit, q.Offset = tt.limit, tt.offset
			testutil.AssertEqual(t, v.LimitOffset(q), tt.want)
		})
	}
}

func TestProjection(t *testing.T) {
	t.Parallel()
	v := NewSQLiteVisitor()
	s := testutil.NewSchema()
	rowidKey := "User:rowid"

	tests := []struct {
		name       string
		projection []any
		includes   []*nodes.Model
		order      *nodes.OrderMap
		want       []string
	}{
		{
			"default",
			nil, nil, nil,
			[]string{"User:id", "User:firstName", "User:lastName", "User:primaryRoleID", rowidKey},
		},
		{
			"star with included model",
			[]any{"*"}, []*nodes.Model{s.Role}, nil,
			[]string{"User:id", "User:firstName", "User:lastName", "User:primaryRoleID", "Role:id", "Role:name", rowidKey},
		},
		{
			"single field",
			[]any{"User:id"}, nil, nil,
			[]string{"User:id", rowidKey},
		},
		{
			"bare field name",
			[]any{"firstName"}, nil, nil,
			[]string{"User:firstName", rowidKey},
		},
		{
			"exclusion alone starts from defaults",
			[]any{"-User:id"}, nil, nil,
			[]string{"User:firstName", "User:lastName", "User:primaryRoleID", rowidKey},
		},
		{
			"star then exclusion",
			[]any{"*", "-User:id"}, []*nodes.Model{s.Role}, nil,
			[]string{"User:firstName", "User:lastName", "User:primaryRoleID", "Role:id", "Role:name", rowidKey},
		},
		{
			"exclusion applied after inclusion",
			[]any{"-User:firstName", "User:firstName", "User:id"}, nil, nil,
			[]string{"User:id", rowidKey},
		},
		{
			"plus extends defaults",
			[]any{"+Role:name"}, []*nodes.Model{s.Role}, nil,
			[]string{"User:id", "User:firstName", "User:lastName", "User:primaryRoleID", "Role:name", rowidKey},
		},
		{
			"literal injected at position",
			[]any{"User:id", nodes.NewLiteral("COUNT(*) AS count"), s.User.Field("lastName")}, nil, nil,
			[]string{"User:id", "COUNT(*) AS count", "User:lastName", rowidKey},
		},
		{
			"explicit order adds no rowid",
			nil, nil, orderBy("User:id", nodes.FieldName("id")),
			[]string{"User:id", "User:firstName", "User:lastName", "User:primaryRoleID"},
		},
		{
			"field literal keyed by qualified name",
			[]any{s.User.FieldLiteral("rowid"), "User:id"}, nil, orderBy("User:rowid", s.User.FieldLiteral("rowid")),
			[]string{rowidKey, "User:id"},
		},
		{
			"order field appended last",
			[]any{"User:id"}, nil, orderBy("User:lastName", s.User.Field("lastName")),
			[]string{"User:id", "User:lastName"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := nodes.NewQuery(s.User)
			q.Projection = tt.projection
			q.Includes = tt.includes
			q.Order = tt.order
			proj, err := v.Projection(q, true)
			testutil.AssertNoError(t, err)
			testutil.AssertEqual(t, strings.Join(proj.Keys(), " | "), strings.Join(tt.want, " | "))
		})
	}
}

func TestProjectionFragments(t *testing.T) {
	t.Parallel()
	v := NewSQLiteVisitor()
	s := testutil.NewSchema()
	q := nodes.NewQuery(s.User)
	q.Projection = []any{"User:id"}
	proj, err := v.Projection(q, true)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, proj.Get("User:id"), `"users"."id" AS "User:id"`)
	testutil.AssertEqual(t, strings.Join(proj.Fragments(), ","),
		`"users"."id" AS "User:id","users"."rowid" AS "User:rowid"`)
}

func TestProjectionErrors(t *testing.T) {
	t.Parallel()
	v := NewSQLiteVisitor()
	s := testutil.NewSchema()

	q := nodes.NewQuery(s.User)
	q.Projection = []any{"User:derp"}
	_, err := v.Projection(q, true)
	testutil.AssertErrorIs(t, err, sqlerr.ErrUnresolvedField, `Field "User:derp" not found.`)

	q = nodes.NewQuery(s.User)
	q.Projection = []any{"Role:name"}
	_, err = v.Projection(q, true)
	testutil.AssertErrorIs(t, err, sqlerr.ErrUnresolvedField, `Field "Role:name" not found.`)

	q = nodes.NewQuery(s.User)
	q.Projection = []any{42}
	_, err = v.Projection(q, true)
	testutil.AssertErrorIs(t, err, sqlerr.ErrTypeMismatch, "")
}

func orderBy(key string, value any) *nodes.OrderMap {
	m := nodes.NewOrderMap()
	m.Set(key, nodes.OrderEntry{Value: value})
	return m
}

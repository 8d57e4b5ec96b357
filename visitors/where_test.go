package visitors

import (
	"testing"

	"github.com/bawdo/litequery/internal/testutil"
	"github.com/bawdo/litequery/nodes"
	"github.com/bawdo/litequery/sqlerr"
)

func TestWhereConditions(t *testing.T) {
	t.Parallel()
	v := NewSQLiteVisitor()
	s := testutil.NewSchema()
	id := s.User.Field("id")
	first := s.User.Field("firstName")

	negated := id.Eq(nil)
	negated.Not = true
	negatedLike := id.Like("derp")
	negatedLike.Not = true
	negatedLike.Inverse = nodes.OpNotLike

	tests := []struct {
		name string
		node nodes.Node
		want string
	}{
		{"eq null", id.Eq(nil), `"users"."id" IS NULL`},
		{"neq null", id.NotEq(nil), `"users"."id" IS NOT NULL`},
		{"eq true", id.Eq(true), `"users"."id" IS TRUE`},
		{"neq false", id.NotEq(false), `"users"."id" IS NOT FALSE`},
		{"eq string", first.Eq("Joe"), `"users"."firstName" = 'Joe'`},
		{"neq number", id.NotEq(10), `"users"."id" != 10`},
		{"gt null", id.Gt(nil), `"users"."id" > NULL`},
		{"gte", id.Gte(1), `"users"."id" >= 1`},
		{"lt", id.Lt(1), `"users"."id" < 1`},
		{"lte", id.Lte(1), `"users"."id" <= 1`},
		{"not derives inverse", negated, `"users"."id" IS NOT NULL`},
		{"literal value", id.Eq(nodes.NewLiteral("MAX(1,2)")), `"users"."id" = MAX(1,2)`},
		{"literal operator", first.Op(nodes.NewLiteral("GLOB"), "J*"), `"users"."firstName" GLOB 'J*'`},
		{"same-model reference", id.Eq(s.User.Field("primaryRoleID")), `"users"."id" = "users"."primaryRoleID"`},
		{"like", id.Like("derp"), `"users"."id" LIKE 'derp' ESCAPE '\'`},
		{"not like", id.NotLike("derp"), `"users"."id" NOT LIKE 'derp' ESCAPE '\'`},
		{"negated like", negatedLike, `"users"."id" NOT LIKE 'derp' ESCAPE '\'`},
		{"contains", first.Contains("50%_off"), `"users"."firstName" LIKE '%50\%\_off%' ESCAPE '\'`},
		{"starts with", first.StartsWith("Jo"), `"users"."firstName" LIKE 'Jo%' ESCAPE '\'`},
		{"ends with", first.EndsWith("e"), `"users"."firstName" LIKE '%e' ESCAPE '\'`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := v.Where(tt.node)
			testutil.AssertSQL(t, got, err, tt.want)
		})
	}
}

func TestWhereSequences(t *testing.T) {
	t.Parallel()
	v := NewSQLiteVisitor()
	id := testutil.NewSchema().User.Field("id")

	tests := []struct {
		name string
		node nodes.Node
		want string
	}{
		{"in", id.In("stuff", "derp"), `"users"."id" IN ('stuff','derp')`},
		{"typed slice", id.Eq([]int{1, 2, 3}), `"users"."id" IN (1,2,3)`},
		{"in with null", id.In("stuff", 1, nil), `("users"."id" IS NULL OR "users"."id" IN ('stuff',1))`},
		{"not in with null", id.NotIn("stuff", 1, nil), `("users"."id" IS NOT NULL AND "users"."id" NOT IN ('stuff',1))`},
		{"bools and null", id.In(true, false, nil), `("users"."id" IS TRUE OR "users"."id" IS FALSE OR "users"."id" IS NULL)`},
		{"bools and null reordered", id.In(nil, false, true), `("users"."id" IS TRUE OR "users"."id" IS FALSE OR "users"."id" IS NULL)`},
		{"not bools and null", id.NotIn(true, false, nil), `("users"."id" IS NOT TRUE AND "users"."id" IS NOT FALSE AND "users"."id" IS NOT NULL)`},
		{"only null", id.In(nil), `"users"."id" IS NULL`},
		{"bools with scalars", id.In(1, true), `"users"."id" IN (1,TRUE)`},
		{"literal in list", id.In(nodes.NewLiteral("x"), 1), `"users"."id" IN (x,1)`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := v.Where(tt.node)
			testutil.AssertSQL(t, got, err, tt.want)
		})
	}
}

func TestWhereErrors(t *testing.T) {
	t.Parallel()
	v := NewSQLiteVisitor()
	id := testutil.NewSchema().User.Field("id")

	caseSensitive := id.Like("derp")
	caseSensitive.CaseSensitive = true
	caseSensitiveNot := id.NotLike("derp")
	caseSensitiveNot.CaseSensitive = true

	tests := []struct {
		name string
		node nodes.Node
		kind error
		msg  string
	}{
		{"empty eq", id.In(), sqlerr.ErrEmptyOperandSet, `Array value provided to "id.EQ" can not be empty`},
		{"empty neq", id.NotIn(), sqlerr.ErrEmptyOperandSet, `Array value provided to "id.NEQ" can not be empty`},
		{"gt sequence", id.Gt([]any{1, 2}), sqlerr.ErrInvalidOperandKind, `Array of values provided to "GT" (greater than) operator.`},
		{"like number", id.Like(10), sqlerr.ErrTypeMismatch, `The "LIKE" operator requires a string for a value`},
		{"like null", id.Like(nil), sqlerr.ErrTypeMismatch, `The "LIKE" operator requires a string for a value`},
		{"like bool", id.Like(true), sqlerr.ErrTypeMismatch, `The "LIKE" operator requires a string for a value`},
		{"not like number", id.NotLike(1.5), sqlerr.ErrTypeMismatch, `The "NOT LIKE" operator requires a string for a value`},
		{"like sequence", id.Like([]any{"a"}), sqlerr.ErrInvalidOperandKind, `Invalid value provided to operator "LIKE"`},
		{"not like sequence", id.NotLike([]any{"a"}), sqlerr.ErrInvalidOperandKind, `Invalid value provided to operator "NOT_LIKE"`},
		{"case sensitive like", caseSensitive, sqlerr.ErrUnsupportedOption,
			`"{ caseSensitive: true }" is not supported for this connection type for the "LIKE" operator`},
		{"case sensitive not like", caseSensitiveNot, sqlerr.ErrUnsupportedOption,
			`"{ caseSensitive: true }" is not supported for this connection type for the "NOT LIKE" operator`},
		{"unknown operator", nodes.NewCondition(id, nodes.Operator("UNKNOWN"), 1), sqlerr.ErrUnknownOperator, `Unknown operator "UNKNOWN".`},
		{"nested list", id.In([]any{1}), sqlerr.ErrTypeMismatch, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Where(tt.node)
			testutil.AssertErrorIs(t, err, tt.kind, tt.msg)
		})
	}
}

func TestWhereTree(t *testing.T) {
	t.Parallel()
	v := NewSQLiteVisitor()
	s := testutil.NewSchema()
	first := s.User.Field("firstName")
	last := s.User.Field("lastName")
	join := s.User.Field("primaryRoleID").Eq(s.Role.Field("id"))

	tests := []struct {
		name string
		node nodes.Node
		want string
	}{
		{"nil", nil, ""},
		{"join only", join, ""},
		{"join dropped from and", nodes.And(join, first.Eq("Joe")), `"users"."firstName" = 'Joe'`},
		{
			"and then or reads left to right",
			nodes.Or(nodes.And(join, first.Eq("Joe")), first.Eq("Mary")),
			`"users"."firstName" = 'Joe' OR "users"."firstName" = 'Mary'`,
		},
		{
			"grouped subtrees",
			nodes.And(
				nodes.And(join, nodes.Group(nodes.Or(first.Eq("Joe"), first.Eq("Mary")))),
				nodes.Group(nodes.Or(last.Eq("Derp"), last.Eq("Burp"))),
			),
			`("users"."firstName" = 'Joe' OR "users"."firstName" = 'Mary') AND ("users"."lastName" = 'Derp' OR "users"."lastName" = 'Burp')`,
		},
		{
			"or under and keeps its meaning",
			nodes.And(nodes.Or(first.Eq("Joe"), first.Eq("Mary")), last.Eq("Derp")),
			`("users"."firstName" = 'Joe' OR "users"."firstName" = 'Mary') AND "users"."lastName" = 'Derp'`,
		},
		{
			"or with a dropped side is not wrapped",
			nodes.And(nodes.Or(join, first.Eq("Joe")), last.Eq("Derp")),
			`"users"."firstName" = 'Joe' AND "users"."lastName" = 'Derp'`,
		},
		{"empty group", nodes.Group(join), ""},
		{"combinable chaining", first.Eq("Joe").Or(first.Eq("Mary")), `"users"."firstName" = 'Joe' OR "users"."firstName" = 'Mary'`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := v.Where(tt.node)
			testutil.AssertSQL(t, got, err, tt.want)
		})
	}
}

func TestWhereSubquery(t *testing.T) {
	t.Parallel()
	v := NewSQLiteVisitor()
	s := testutil.NewSchema()
	sub := nodes.NewQuery(s.UserThing)
	sub.Projection = []any{s.UserThing.Field("userID")}

	got, err := v.Where(s.User.Field("id").Eq(sub))
	testutil.AssertSQL(t, got, err,
		`"users"."id" IN (SELECT "user_things"."userID" AS "UserThing:userID" FROM "user_things")`)

	got, err = v.Where(s.User.Field("id").NotEq(sub))
	testutil.AssertSQL(t, got, err,
		`"users"."id" NOT IN (SELECT "user_things"."userID" AS "UserThing:userID" FROM "user_things")`)
}

package nodes_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/bawdo/litequery/internal/testutil"
	"github.com/bawdo/litequery/nodes"
	"github.com/bawdo/litequery/sqlerr"
)

func TestNewModelTableName(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		want string
	}{
		{"User", "users"},
		{"UserThing", "user_things"},
		{"Person", "people"},
		{"Category", "categories"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testutil.AssertEqual(t, nodes.NewModel(tt.name).Table, tt.want)
		})
	}
	testutil.AssertEqual(t, nodes.NewModel("User").WithTable("accounts").Table, "accounts")
}

func TestModelFields(t *testing.T) {
	t.Parallel()
	s := testutil.NewSchema()

	id := s.User.Field("id")
	if id == nil {
		t.Fatal("expected field id")
	}
	if id.Model != s.User {
		t.Error("expected field to be bound to its model")
	}
	testutil.AssertEqual(t, id.Key(), "User:id")
	testutil.AssertEqual(t, s.User.PrimaryKey(), id)
	if s.User.Field("derp") != nil {
		t.Error("expected nil for unknown field")
	}

	f := &nodes.Field{Name: "displayName", Column: "display_name"}
	nodes.NewModel("Profile", f)
	testutil.AssertEqual(t, f.ColumnName(), "display_name")
	testutil.AssertEqual(t, s.User.Field("firstName").ColumnName(), "firstName")

	testutil.AssertEqual(t, s.User.FieldLiteral("rowid").Key(), "User:rowid")
	if !nodes.TypeDateTime.Temporal() || nodes.TypeString.Temporal() {
		t.Error("unexpected Temporal result")
	}
}

func TestOrderMap(t *testing.T) {
	t.Parallel()
	m := nodes.NewOrderMap()
	m.Set("a", nodes.OrderEntry{Value: "a"})
	m.Set("b", nodes.OrderEntry{Value: "b"})
	m.Set("a", nodes.OrderEntry{Value: "a", Direction: nodes.Desc})

	testutil.AssertEqual(t, strings.Join(m.Keys(), ","), "a,b")
	e, ok := m.Get("a")
	if !ok || e.Direction != nodes.Desc {
		t.Errorf("expected replaced entry to be descending, got %+v", e)
	}

	cp := m.Clone()
	cp.Delete("a")
	testutil.AssertEqual(t, cp.Len(), 1)
	testutil.AssertEqual(t, m.Len(), 2)

	var nilMap *nodes.OrderMap
	if nilMap.Clone() != nil {
		t.Error("expected clone of nil map to be nil")
	}
}

func TestProjectionMap(t *testing.T) {
	t.Parallel()
	p := nodes.NewProjectionMap()
	p.Set("User:id", "id-frag")
	p.Set("User:name", "name-frag")
	p.Set("User:id", "id-frag-2")
	p.Delete("User:name")
	p.Delete("missing")

	testutil.AssertEqual(t, strings.Join(p.Keys(), ","), "User:id")
	testutil.AssertEqual(t, p.Get("User:id"), "id-frag-2")
	testutil.AssertEqual(t, p.Has("User:name"), false)
	testutil.AssertEqual(t, strings.Join(p.Fragments(), ","), "id-frag-2")
}

func TestQueryModels(t *testing.T) {
	t.Parallel()
	s := testutil.NewSchema()
	q := nodes.NewQuery(s.User)
	q.Where = nodes.And(
		s.User.Field("id").Eq(s.UserThing.Field("userID")),
		s.RoleThing.Field("roleID").Eq(s.Role),
	)
	q.Includes = []*nodes.Model{s.ExtendedUser, s.Role}

	var names []string
	for _, m := range q.Models() {
		names = append(names, m.Name)
	}
	testutil.AssertEqual(t, strings.Join(names, ","), "User,UserThing,RoleThing,Role,ExtendedUser")
	testutil.AssertEqual(t, q.HasJoins(), true)
	testutil.AssertEqual(t, nodes.NewQuery(s.User).HasJoins(), false)
}

func TestQueryResolveField(t *testing.T) {
	t.Parallel()
	s := testutil.NewSchema()
	q := nodes.NewQuery(s.User)
	q.Includes = []*nodes.Model{s.Role}

	f, err := q.ResolveField("firstName")
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, f, s.User.Field("firstName"))

	f, err = q.ResolveField("Role:name")
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, f, s.Role.Field("name"))

	_, err = q.ResolveField("derp")
	testutil.AssertErrorIs(t, err, sqlerr.ErrUnresolvedField, `Field "derp" not found.`)

	_, err = q.ResolveField("UserThing:userID")
	testutil.AssertErrorIs(t, err, sqlerr.ErrUnresolvedField, `Field "UserThing:userID" not found.`)
}

func TestQueryClone(t *testing.T) {
	t.Parallel()
	s := testutil.NewSchema()
	limit := int64(5)
	q := nodes.NewQuery(s.User)
	q.Limit = &limit
	q.Projection = []any{"User:id"}
	q.Order = nodes.NewOrderMap()

	cp := q.Clone()
	*cp.Limit = 10
	cp.Projection[0] = "User:firstName"
	cp.Order.Set("x", nodes.OrderEntry{Value: "x"})

	testutil.AssertEqual(t, *q.Limit, int64(5))
	testutil.AssertEqual[any](t, q.Projection[0], "User:id")
	testutil.AssertEqual(t, q.Order.Len(), 0)
}

func TestConditionIsJoin(t *testing.T) {
	t.Parallel()
	s := testutil.NewSchema()
	roleID := s.User.Field("primaryRoleID")

	literalEdge := roleID.Eq(nodes.NewLiteral("1"))
	literalEdge.JoinType = nodes.LeftJoin

	tests := []struct {
		name string
		cond *nodes.ConditionNode
		want bool
	}{
		{"value", roleID.Eq(1), false},
		{"other model field", roleID.Eq(s.Role.Field("id")), true},
		{"other model", roleID.Eq(s.Role), true},
		{"same model field", roleID.Eq(s.User.Field("id")), false},
		{"literal without join type", roleID.Eq(nodes.NewLiteral("1")), false},
		{"literal with join type", literalEdge, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testutil.AssertEqual(t, tt.cond.IsJoin(), tt.want)
		})
	}
	testutil.AssertEqual(t, roleID.Eq(s.Role).Reference(), s.Role.PrimaryKey())
}

func TestEffectiveOperator(t *testing.T) {
	t.Parallel()
	id := testutil.NewSchema().User.Field("id")

	tests := []struct {
		op   nodes.Operator
		want nodes.Operator
	}{
		{nodes.OpEq, nodes.OpNeq},
		{nodes.OpNeq, nodes.OpEq},
		{nodes.OpGt, nodes.OpLte},
		{nodes.OpGte, nodes.OpLt},
		{nodes.OpLt, nodes.OpGte},
		{nodes.OpLte, nodes.OpGt},
		{nodes.OpLike, nodes.OpNotLike},
		{nodes.OpNotLike, nodes.OpLike},
		{nodes.Operator("CUSTOM"), nodes.Operator("CUSTOM")},
	}
	for _, tt := range tests {
		t.Run(string(tt.op), func(t *testing.T) {
			c := nodes.NewCondition(id, tt.op, 1)
			testutil.AssertEqual[nodes.OperatorNode](t, c.EffectiveOperator(), tt.op)
			testutil.AssertEqual[nodes.OperatorNode](t, c.Negate().EffectiveOperator(), tt.want)
		})
	}

	c := id.Eq(1)
	c.Not = true
	c.Inverse = nodes.OpGt
	testutil.AssertEqual[nodes.OperatorNode](t, c.EffectiveOperator(), nodes.OpGt)
	testutil.AssertEqual(t, c.Negate().Not, false)
	testutil.AssertEqual(t, c.Not, true)
}

func TestLogicalHelpers(t *testing.T) {
	t.Parallel()
	id := testutil.NewSchema().User.Field("id")
	a, b := id.Eq(1), id.Eq(2)

	if nodes.And(nil, a) != nodes.Node(a) || nodes.And(a, nil) != nodes.Node(a) {
		t.Error("expected And with a nil side to return the other side")
	}
	if nodes.Or(nil, b) != nodes.Node(b) {
		t.Error("expected Or with a nil side to return the other side")
	}
	if _, ok := a.And(b).(*nodes.AndNode); !ok {
		t.Errorf("expected *AndNode, got %T", a.And(b))
	}
	if _, ok := a.Or(b).(*nodes.OrNode); !ok {
		t.Errorf("expected *OrNode, got %T", a.Or(b))
	}

	var seen []any
	nodes.Walk(nodes.Group(nodes.Or(a, nodes.And(b, nil))), func(c *nodes.ConditionNode) {
		seen = append(seen, c.Value)
	})
	if len(seen) != 2 || seen[0] != 1 || seen[1] != 2 {
		t.Errorf("expected walk to visit both conditions in order, got %v", seen)
	}
}

func TestPredications(t *testing.T) {
	t.Parallel()
	first := testutil.NewSchema().User.Field("firstName")

	in := first.In("a", "b")
	testutil.AssertEqual[nodes.OperatorNode](t, in.Operator, nodes.OpEq)
	if vals, ok := in.Value.([]any); !ok || len(vals) != 2 {
		t.Errorf("expected two values, got %#v", in.Value)
	}
	testutil.AssertEqual[nodes.OperatorNode](t, first.NotIn("a").Operator, nodes.OpNeq)
	testutil.AssertEqual[any](t, first.Contains("5%").Value, `%5\%%`)
	testutil.AssertEqual[any](t, first.StartsWith("a_").Value, `a\_%`)
	testutil.AssertEqual[any](t, first.EndsWith("z").Value, `%z`)

	glob := nodes.NewLiteral("GLOB")
	testutil.AssertEqual[nodes.OperatorNode](t, first.Op(glob, "x").Operator, glob)
}

func TestLiteralByName(t *testing.T) {
	t.Parallel()

	lit, err := nodes.LiteralByName("literal", "NOW()")
	testutil.AssertNoError(t, err)
	if l, ok := lit.(*nodes.Literal); !ok || l.Raw != "NOW()" {
		t.Errorf("expected literal NOW(), got %#v", lit)
	}

	lit, err = nodes.LiteralByName("Base", "x")
	testutil.AssertNoError(t, err)
	if _, ok := lit.(*nodes.Literal); !ok {
		t.Errorf("expected *Literal, got %T", lit)
	}

	lit, err = nodes.LiteralByName("DISTINCT", "")
	testutil.AssertNoError(t, err)
	if lit != nodes.LiteralValue(nodes.Distinct) {
		t.Errorf("expected Distinct, got %#v", lit)
	}

	_, err = nodes.LiteralByName("derp", "")
	if err == nil || errors.Is(err, sqlerr.ErrTypeMismatch) {
		t.Errorf("expected plain error, got %v", err)
	}
}

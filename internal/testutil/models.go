package testutil

import "github.com/bawdo/litequery/nodes"

// Schema is a fresh set of related models used across tests.
type Schema struct {
	User         *nodes.Model
	Role         *nodes.Model
	UserThing    *nodes.Model
	RoleThing    *nodes.Model
	ExtendedUser *nodes.Model
}

// NewSchema builds the fixture models. Each call returns new instances so
// tests that track per-model state stay isolated.
func NewSchema() *Schema {
	role := nodes.NewModel("Role",
		&nodes.Field{Name: "id", Type: nodes.TypeInteger, PrimaryKey: true, AutoIncrement: true},
		&nodes.Field{Name: "name", Type: nodes.TypeString},
	)
	user := nodes.NewModel("User",
		&nodes.Field{Name: "id", Type: nodes.TypeInteger, PrimaryKey: true, AutoIncrement: true},
		&nodes.Field{Name: "firstName", Type: nodes.TypeString, AllowNull: true},
		&nodes.Field{Name: "lastName", Type: nodes.TypeString, AllowNull: true},
		&nodes.Field{Name: "primaryRoleID", Type: nodes.TypeForeignKey, AllowNull: true,
			ForeignKey: &nodes.ForeignKey{Target: role.Field("id")}},
	)
	roleThing := nodes.NewModel("RoleThing",
		&nodes.Field{Name: "id", Type: nodes.TypeInteger, PrimaryKey: true, AutoIncrement: true},
		&nodes.Field{Name: "roleID", Type: nodes.TypeForeignKey,
			ForeignKey: &nodes.ForeignKey{Target: role.Field("id")}},
	)
	userThing := nodes.NewModel("UserThing",
		&nodes.Field{Name: "id", Type: nodes.TypeInteger, PrimaryKey: true, AutoIncrement: true},
		&nodes.Field{Name: "roleThingID", Type: nodes.TypeForeignKey,
			ForeignKey: &nodes.ForeignKey{Target: roleThing.Field("id")}},
		&nodes.Field{Name: "userID", Type: nodes.TypeForeignKey,
			ForeignKey: &nodes.ForeignKey{Target: user.Field("id"), Deferred: true, OnDelete: "CASCADE"}},
	)
	extendedUser := nodes.NewModel("ExtendedUser",
		&nodes.Field{Name: "id", Type: nodes.TypeBigInt, PrimaryKey: true, AutoIncrement: true,
			Default: nodes.DefaultAutoIncrement},
		&nodes.Field{Name: "autoID", Type: nodes.TypeBigInt, AutoIncrement: true,
			Default: nodes.DefaultAutoIncrement},
		&nodes.Field{Name: "email", Type: nodes.TypeString},
		&nodes.Field{Name: "createdAt", Type: nodes.TypeDateTime, Default: nodes.DefaultDatetimeNow},
	)
	return &Schema{
		User:         user,
		Role:         role,
		UserThing:    userThing,
		RoleThing:    roleThing,
		ExtendedUser: extendedUser,
	}
}

// CreateTablesSQL returns DDL matching NewSchema, used by integration tests.
const CreateTablesSQL = `
CREATE TABLE "roles" ("id" INTEGER PRIMARY KEY AUTOINCREMENT, "name" TEXT);
CREATE TABLE "users" ("id" INTEGER PRIMARY KEY AUTOINCREMENT, "firstName" TEXT, "lastName" TEXT, "primaryRoleID" INTEGER REFERENCES "roles"("id"));
CREATE TABLE "role_things" ("id" INTEGER PRIMARY KEY AUTOINCREMENT, "roleID" INTEGER REFERENCES "roles"("id"));
CREATE TABLE "user_things" ("id" INTEGER PRIMARY KEY AUTOINCREMENT, "roleThingID" INTEGER, "userID" INTEGER);
CREATE TABLE "extended_users" ("id" INTEGER PRIMARY KEY, "autoID" BIGINT, "email" TEXT, "createdAt" BIGINT);
`

package userdir

import (
	"context"

	"github.com/hanpama/userdir/internal/eventbus"
	"github.com/hanpama/userdir/internal/events"
	"github.com/hanpama/userdir/internal/executor"
	"github.com/hanpama/userdir/internal/schema"
	"github.com/hanpama/userdir/internal/store"
)

func nonNullString() *schema.TypeRef { return schema.NonNullType(schema.NamedType("String")) }

// NewSchema builds the directory schema:
//
//	type User { id: String!, name: String!, email: String! }
//	type Query { user(id: String!): User }
//	type Mutation { createUser(id: String!, name: String!, email: String!): User! }
func NewSchema() *schema.Schema {
	s := schema.NewSchema("")
	s.SetQueryType("Query").SetMutationType("Mutation")

	s.AddType(schema.NewType("User", schema.TypeKindObject, "").
		AddField(schema.NewField("id", "", nonNullString())).
		AddField(schema.NewField("name", "", nonNullString())).
		AddField(schema.NewField("email", "", nonNullString())))

	s.AddType(schema.NewType("Query", schema.TypeKindObject, "").
		AddField(schema.NewField("user", "Looks up a user by id.", schema.NamedType("User")).
			AddArgument(schema.NewInputValue("id", "", nonNullString()))))

	s.AddType(schema.NewType("Mutation", schema.TypeKindObject, "").
		AddField(schema.NewField("createUser", "Creates or replaces a user.", schema.NonNullType(schema.NamedType("User"))).
			AddArgument(schema.NewInputValue("id", "", nonNullString())).
			AddArgument(schema.NewInputValue("name", "", nonNullString())).
			AddArgument(schema.NewInputValue("email", "", nonNullString()))))
	return s
}

// NewRuntime registers the directory resolvers. Resolvers read the store
// through the Context carried by the request context. User fields resolve
// through store.User's GraphQLField projection.
func NewRuntime() *executor.FuncRuntime {
	return executor.NewFuncRuntime().
		Register("Query", "user", resolveUser).
		Register("Mutation", "createUser", resolveCreateUser)
}

// NewExecutor returns an executor over NewSchema and NewRuntime.
func NewExecutor() *executor.Executor {
	return executor.NewExecutor(NewRuntime(), NewSchema())
}

func resolveUser(ctx context.Context, _ any, args map[string]any) (any, error) {
	c, ok := FromContext(ctx)
	if !ok {
		return nil, ErrNoContext
	}
	u, ok := c.FindUser(args["id"].(string))
	if !ok {
		return nil, nil
	}
	return u, nil
}

func resolveCreateUser(ctx context.Context, _ any, args map[string]any) (any, error) {
	c, ok := FromContext(ctx)
	if !ok {
		return nil, ErrNoContext
	}
	u := store.User{
		ID:    args["id"].(string),
		Name:  args["name"].(string),
		Email: args["email"].(string),
	}
	replaced := c.AddUser(u)
	eventbus.Publish(ctx, events.UserCreated{ID: u.ID, Replaced: replaced})
	return u, nil
}

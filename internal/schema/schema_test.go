package schema

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

const userSDL = `type User {
  id: String!
  name: String!
  email: String!
}

type Query {
  user(id: String!): User
}

type Mutation {
  createUser(id: String!, name: String!, email: String!): User!
}
`

func TestBuildFromSDL(t *testing.T) {
	s, err := BuildFromSDL(userSDL)
	require.NoError(t, err)

	require.Equal(t, "Query", s.QueryType)
	require.Equal(t, "Mutation", s.MutationType)
	require.Empty(t, s.SubscriptionType)

	user := s.Types["User"]
	require.NotNil(t, user)
	require.Equal(t, TypeKindObject, user.Kind)
	var names []string
	for _, f := range user.Fields {
		names = append(names, f.Name)
		require.True(t, IsNonNull(f.Type), "field %s", f.Name)
	}
	if diff := cmp.Diff([]string{"id", "name", "email"}, names); diff != "" {
		t.Fatalf("field order mismatch (-want +got):\n%s", diff)
	}

	createUser := s.GetMutationType().Field("createUser")
	require.NotNil(t, createUser)
	require.Len(t, createUser.Arguments, 3)
	require.Equal(t, "User", GetNamedType(createUser.Type))
	require.True(t, IsNonNull(createUser.Type))

	userField := s.GetQueryType().Field("user")
	require.NotNil(t, userField)
	require.False(t, IsNonNull(userField.Type))

	// Prelude types must not leak into the schema.
	_, ok := s.Types["__Schema"]
	require.False(t, ok)
	require.Equal(t, TypeKindScalar, s.Types["String"].Kind)
}

func TestBuildFromSDLRejectsInvalid(t *testing.T) {
	_, err := BuildFromSDL(`type Query { user: Missing }`)
	require.Error(t, err)
}

func TestRenderRoundTrip(t *testing.T) {
	s := NewSchema("")
	s.SetQueryType("Query").SetMutationType("Mutation")
	s.AddType(NewType("User", TypeKindObject, "").
		AddField(NewField("id", "", NonNullType(NamedType("String")))).
		AddField(NewField("name", "", NonNullType(NamedType("String")))).
		AddField(NewField("email", "", NonNullType(NamedType("String")))))
	s.AddType(NewType("Query", TypeKindObject, "").
		AddField(NewField("user", "", NamedType("User")).
			AddArgument(NewInputValue("id", "", NonNullType(NamedType("String"))))))
	s.AddType(NewType("Mutation", TypeKindObject, "").
		AddField(NewField("createUser", "", NonNullType(NamedType("User"))).
			AddArgument(NewInputValue("id", "", NonNullType(NamedType("String")))).
			AddArgument(NewInputValue("name", "", NonNullType(NamedType("String")))).
			AddArgument(NewInputValue("email", "", NonNullType(NamedType("String"))))))

	want := `type Mutation {
  createUser(id: String!, name: String!, email: String!): User!
}

type Query {
  user(id: String!): User
}

type User {
  id: String!
  name: String!
  email: String!
}
`
	got := Render(s)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Render mismatch (-want +got):\n%s", diff)
	}

	again, err := BuildFromSDL(got)
	require.NoError(t, err)
	if diff := cmp.Diff(got, Render(again)); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderCustomRootNames(t *testing.T) {
	s := NewSchema("")
	s.SetQueryType("RootQuery")
	s.AddType(NewType("RootQuery", TypeKindObject, "").
		AddField(NewField("ping", "", NamedType("String"))))

	got := Render(s)
	require.Contains(t, got, "schema {\n  query: RootQuery\n}\n")

	again, err := BuildFromSDL(got)
	require.NoError(t, err)
	require.Equal(t, "RootQuery", again.QueryType)
}

func TestRenderDefinitionKinds(t *testing.T) {
	sdl := `"""
Ordering of results.
"""
enum Order {
  ASC
  DESC @deprecated(reason: "use ASC")
}

input Filter {
  name: String = "x"
  limit: Int = 10
  order: [Order!]
}

interface Node {
  id: ID!
}

type Query {
  nodes(filter: Filter): [Node!]!
  search: Result
}

union Result = User | Query

type User implements Node {
  id: ID!
  "The display name."
  name: String @deprecated
}
`
	s, err := BuildFromSDL(sdl)
	require.NoError(t, err)

	want := `input Filter {
  name: String = "x"
  limit: Int = 10
  order: [Order!]
}

interface Node {
  id: ID!
}

"""
Ordering of results.
"""
enum Order {
  ASC
  DESC @deprecated(reason: "use ASC")
}

type Query {
  nodes(filter: Filter): [Node!]!
  search: Result
}

union Result = User | Query

type User implements Node {
  id: ID!
  """
  The display name.
  """
  name: String @deprecated
}
`
	if diff := cmp.Diff(want, Render(s)); diff != "" {
		t.Fatalf("Render mismatch (-want +got):\n%s", diff)
	}
}

func TestTypeRefHelpers(t *testing.T) {
	ref := NonNullType(ListType(NonNullType(NamedType("User"))))
	require.Equal(t, "[User!]!", ref.String())
	require.True(t, IsNonNull(ref))
	require.True(t, IsList(ref))
	require.Equal(t, "User", GetNamedType(ref))
	require.Equal(t, "[User!]", Unwrap(ref).String())
	require.False(t, IsList(NamedType("User")))
	require.Equal(t, "", GetNamedType(nil))
}

func TestRenderValueSortsObjectKeys(t *testing.T) {
	got := renderValue(map[string]any{"b": 1, "a": []any{true, nil, 1.5}})
	require.Equal(t, `{a: [true, null, 1.5], b: 1}`, got)
}

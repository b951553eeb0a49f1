package executor

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	schema "github.com/hanpama/userdir/internal/schema"
)

func TestCompleteValue_NonNull_Propagation_Result(t *testing.T) {
	t.Run("Resolver error reaches the root", func(t *testing.T) {
		sch := newSchemaWithQueryType(
			newObjectType("Query", schema.NewField("obj", "", schema.NonNullType(schema.NamedType("Obj")))),
			newObjectType("Obj",
				schema.NewField("a", "", schema.NonNullType(schema.NamedType("String"))),
				schema.NewField("b", "", schema.NonNullType(schema.NamedType("String"))),
			),
		)
		rt := newRecordingRuntime(map[string]Resolver{
			"Query.obj": valueResolver(map[string]any{}),
			"Obj.a":     errorResolver(fmt.Errorf("boom")),
			"Obj.b":     valueResolver("B"),
		})
		exec := NewExecutor(rt, sch)
		doc := mustParseQuery(t, "{ obj { a b } }")

		gotRes := exec.ExecuteRequest(context.Background(), doc, "", nil, nil)

		require.True(t, gotRes.DataPresent)
		require.Nil(t, gotRes.Data)
		want := `{"data":null,"errors":[{"message":"boom","locations":[{"line":1,"column":9}],"path":["obj","a"]}]}`
		if diff := cmp.Diff(want, resultJSON(t, gotRes)); diff != "" {
			t.Fatalf("ExecutionResult mismatch (-want +got):\n%s", diff)
		}

		// Siblings of the failed field still execute.
		wantCalls := []Call{
			{ObjectType: "Query", Field: "obj", Source: nil, Args: map[string]any{}},
			{ObjectType: "Obj", Field: "a", Source: map[string]any{}, Args: map[string]any{}},
			{ObjectType: "Obj", Field: "b", Source: map[string]any{}, Args: map[string]any{}},
		}
		if diff := cmp.Diff(wantCalls, rt.GetCalls()); diff != "" {
			t.Fatalf("Runtime calls mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("Resolver returns null under nullable parent", func(t *testing.T) {
		sch := newSchemaWithQueryType(
			newObjectType("Query",
				schema.NewField("obj", "", schema.NamedType("Obj")),
				stringField("other"),
			),
			newObjectType("Obj", schema.NewField("a", "", schema.NonNullType(schema.NamedType("String")))),
		)
		rt := newRecordingRuntime(map[string]Resolver{
			"Query.obj":   valueResolver(map[string]any{}),
			"Query.other": valueResolver("O"),
			"Obj.a":       valueResolver(nil),
		})
		exec := NewExecutor(rt, sch)
		doc := mustParseQuery(t, "{ obj { a } other }")

		gotRes := exec.ExecuteRequest(context.Background(), doc, "", nil, nil)

		want := `{"data":{"obj":null,"other":"O"},"errors":[{"message":"Cannot return null for non-nullable field obj.a","locations":[{"line":1,"column":9}],"path":["obj","a"]}]}`
		if diff := cmp.Diff(want, resultJSON(t, gotRes)); diff != "" {
			t.Fatalf("ExecutionResult mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("Non-null list item nulls the list", func(t *testing.T) {
		sch := newSchemaWithQueryType(
			newObjectType("Query", schema.NewField("objs", "", schema.ListType(schema.NonNullType(schema.NamedType("Obj"))))),
			newObjectType("Obj", schema.NewField("a", "", schema.NonNullType(schema.NamedType("String")))),
		)
		rt := newRecordingRuntime(map[string]Resolver{
			"Query.objs": valueResolver([]any{map[string]any{"a": "x"}, map[string]any{}}),
		})
		exec := NewExecutor(rt, sch)
		doc := mustParseQuery(t, "{ objs { a } }")

		gotRes := exec.ExecuteRequest(context.Background(), doc, "", nil, nil)

		want := `{"data":{"objs":null},"errors":[{"message":"Cannot return null for non-nullable field objs[1].a","locations":[{"line":1,"column":10}],"path":["objs",1,"a"]}]}`
		if diff := cmp.Diff(want, resultJSON(t, gotRes)); diff != "" {
			t.Fatalf("ExecutionResult mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("Nullable list item stays in place", func(t *testing.T) {
		sch := newSchemaWithQueryType(
			newObjectType("Query", schema.NewField("objs", "", schema.ListType(schema.NamedType("Obj")))),
			newObjectType("Obj", schema.NewField("a", "", schema.NonNullType(schema.NamedType("String")))),
		)
		rt := newRecordingRuntime(map[string]Resolver{
			"Query.objs": valueResolver([]map[string]any{{"a": "x"}, {}}),
		})
		exec := NewExecutor(rt, sch)
		doc := mustParseQuery(t, "{ objs { a } }")

		gotRes := exec.ExecuteRequest(context.Background(), doc, "", nil, nil)

		want := `{"data":{"objs":[{"a":"x"},null]},"errors":[{"message":"Cannot return null for non-nullable field objs[1].a","locations":[{"line":1,"column":10}],"path":["objs",1,"a"]}]}`
		if diff := cmp.Diff(want, resultJSON(t, gotRes)); diff != "" {
			t.Fatalf("ExecutionResult mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestCompleteValue_Leafs_Result(t *testing.T) {
	sch := newSchemaWithQueryType(newObjectType("Query",
		schema.NewField("n", "", schema.NamedType("Int")),
		schema.NewField("bad", "", schema.NamedType("Int")),
		schema.NewField("f", "", schema.NamedType("Float")),
		schema.NewField("ok", "", schema.NamedType("Boolean")),
		schema.NewField("id", "", schema.NamedType("ID")),
		schema.NewField("notList", "", schema.ListType(schema.NamedType("String"))),
	))
	rt := newRecordingRuntime(map[string]Resolver{
		"Query.n":       valueResolver(int64(42)),
		"Query.bad":     valueResolver("abc"),
		"Query.f":       valueResolver(1.5),
		"Query.ok":      valueResolver(true),
		"Query.id":      valueResolver(7),
		"Query.notList": valueResolver("x"),
	})
	exec := NewExecutor(rt, sch)
	doc := mustParseQuery(t, "{ n bad f ok id notList }")

	gotRes := exec.ExecuteRequest(context.Background(), doc, "", nil, nil)

	want := `{"data":{"n":42,"bad":null,"f":1.5,"ok":true,"id":"7","notList":null},"errors":[` +
		`{"message":"Int cannot represent non-integer value: abc","locations":[{"line":1,"column":5}],"path":["bad"]},` +
		`{"message":"Expected list value, got string","locations":[{"line":1,"column":17}],"path":["notList"]}]}`
	if diff := cmp.Diff(want, resultJSON(t, gotRes)); diff != "" {
		t.Fatalf("ExecutionResult mismatch (-want +got):\n%s", diff)
	}
}

func TestCompleteValue_AbstractTypes_Result(t *testing.T) {
	thing := schema.NewType("Thing", schema.TypeKindInterface, "").
		AddField(stringField("id")).
		AddPossibleType("User").
		AddPossibleType("Robot")
	user := newObjectType("User", stringField("id"), stringField("name")).AddInterface("Thing")
	robot := newObjectType("Robot", stringField("id"), stringField("serial")).AddInterface("Thing")
	sch := newSchemaWithQueryType(
		newObjectType("Query", schema.NewField("things", "", schema.ListType(schema.NamedType("Thing")))),
		thing, user, robot,
	)
	rt := newRecordingRuntime(map[string]Resolver{
		"Query.things": valueResolver([]any{
			map[string]any{"__typename": "User", "id": "1", "name": "Ann"},
			map[string]any{"__typename": "Robot", "id": "2", "serial": "R2"},
			map[string]any{"__typename": "Thing", "id": "3"},
		}),
	})
	exec := NewExecutor(rt, sch)
	doc := mustParseQuery(t, "{ things { id ... on User { name } ... on Robot { serial } } }")

	gotRes := exec.ExecuteRequest(context.Background(), doc, "", nil, nil)

	want := `{"data":{"things":[{"id":"1","name":"Ann"},{"id":"2","serial":"R2"},null]},"errors":[` +
		`{"message":"Abstract type Thing must resolve to an Object type at runtime. Got: Thing","locations":[{"line":1,"column":3}],"path":["things",2]}]}`
	if diff := cmp.Diff(want, resultJSON(t, gotRes)); diff != "" {
		t.Fatalf("ExecutionResult mismatch (-want +got):\n%s", diff)
	}
}

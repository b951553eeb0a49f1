package executor

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	language "github.com/hanpama/userdir/internal/language"
	schema "github.com/hanpama/userdir/internal/schema"
)

// mustParseQuery parses a GraphQL query and fails the test on error.
func mustParseQuery(t *testing.T, q string) *language.QueryDocument {
	t.Helper()
	d, err := language.ParseQuery(q)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return d
}

func newSchemaWithQueryType(query *schema.Type, additional ...*schema.Type) *schema.Schema {
	sch := schema.NewSchema("")
	if query != nil {
		sch.SetQueryType(query.Name)
		sch.AddType(query)
	}
	for _, t := range additional {
		sch.AddType(t)
	}
	return sch
}

func newObjectType(name string, fields ...*schema.Field) *schema.Type {
	t := schema.NewType(name, schema.TypeKindObject, "")
	for _, field := range fields {
		t.AddField(field)
	}
	return t
}

func stringField(name string) *schema.Field {
	return schema.NewField(name, "", schema.NamedType("String"))
}

func valueResolver(v any) Resolver {
	return func(ctx context.Context, source any, args map[string]any) (any, error) { return v, nil }
}

func errorResolver(err error) Resolver {
	return func(ctx context.Context, source any, args map[string]any) (any, error) { return nil, err }
}

// resultJSON encodes res the way the HTTP layer does.
func resultJSON(t *testing.T, res *ExecutionResult) string {
	t.Helper()
	b, err := json.Marshal(res)
	require.NoError(t, err)
	return string(b)
}

// Call records one ResolveSync invocation.
type Call struct {
	ObjectType string
	Field      string
	Source     any
	Args       map[string]any
}

// recordingRuntime wraps a FuncRuntime and records every field resolution.
type recordingRuntime struct {
	*FuncRuntime
	mu    sync.Mutex
	calls []Call
}

func newRecordingRuntime(resolvers map[string]Resolver) *recordingRuntime {
	rt := &recordingRuntime{FuncRuntime: NewFuncRuntime()}
	for key, fn := range resolvers {
		typeName, field := splitKey(key)
		rt.Register(typeName, field, fn)
	}
	return rt
}

func splitKey(key string) (string, string) {
	for i := 0; i < len(key); i++ {
		if key[i] == '.' {
			return key[:i], key[i+1:]
		}
	}
	return key, ""
}

func (r *recordingRuntime) ResolveSync(ctx context.Context, objectType string, field string, source any, args map[string]any) (any, error) {
	r.mu.Lock()
	r.calls = append(r.calls, Call{ObjectType: objectType, Field: field, Source: source, Args: args})
	r.mu.Unlock()
	return r.FuncRuntime.ResolveSync(ctx, objectType, field, source, args)
}

func (r *recordingRuntime) GetCalls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.calls...)
}

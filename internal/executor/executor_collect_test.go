package executor

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	schema "github.com/hanpama/userdir/internal/schema"
)

const collectSDL = `
interface Node { id: ID }
union Any = Query | Thing
type Thing { id: ID }
type Query implements Node { id: ID a: String b: String c: String }
`

// describeCollected renders each response key with the positions of the
// field nodes merged under it, e.g. "a@1:3,4:24".
func describeCollected(fields []collectedField) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		pos := make([]string, len(f.Fields))
		for j, node := range f.Fields {
			pos[j] = fmt.Sprintf("%d:%d", node.Position.Line, node.Position.Column)
		}
		out[i] = f.ResponseName + "@" + strings.Join(pos, ",")
	}
	return out
}

func TestCollectFields(t *testing.T) {
	sch, err := schema.BuildFromSDL(collectSDL)
	require.NoError(t, err)

	tests := []struct {
		name  string
		query string
		vars  map[string]any
		want  []string
	}{
		{
			name: "fragments merge under one key",
			query: `{ a ...F1 ...F2 }
fragment F1 on Query { a __typename }
fragment F2 on Query { __typename }`,
			want: []string{"a@1:3,2:24", "__typename@2:26,3:24"},
		},
		{
			name:  "aliases are separate keys",
			query: `{ x: a a x: b }`,
			want:  []string{"x@1:3,1:10", "a@1:8"},
		},
		{
			name:  "skip and include on fields",
			query: `{ a b @skip(if: true) c @include(if: false) }`,
			want:  []string{"a@1:3"},
		},
		{
			name: "directives on spreads and definitions",
			query: `{ a ...F @skip(if: true) ...G @include(if: true) ...H }
fragment F on Query { b }
fragment G on Query { c }
fragment H on Query @skip(if: true) { b }`,
			want: []string{"a@1:3", "c@3:23"},
		},
		{
			name:  "inline fragment directives",
			query: `{ a ... @include(if: false) { b } ... on Query @skip(if: false) { c } }`,
			want:  []string{"a@1:3", "c@1:67"},
		},
		{
			name:  "interface and union conditions",
			query: `{ ... on Node { a } ... on Any { b } ... on Thing { c } }`,
			want:  []string{"a@1:17", "b@1:34"},
		},
		{
			name:  "fragment spread once",
			query: "{ ...F ...F }\nfragment F on Query { a }",
			want:  []string{"a@2:23"},
		},
		{
			name:  "variable drives skip",
			query: `query ($hide: Boolean!) { a b @skip(if: $hide) }`,
			vars:  map[string]any{"hide": true},
			want:  []string{"a@1:27"},
		},
		{
			name:  "variable drives include",
			query: `query ($show: Boolean!) { a b @include(if: $show) }`,
			vars:  map[string]any{"show": true},
			want:  []string{"a@1:27", "b@1:29"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := mustParseQuery(t, tt.query)
			vars := tt.vars
			if vars == nil {
				vars = map[string]any{}
			}
			state := &executionState{schema: sch, document: doc, variableValues: vars}
			got := describeCollected(collectFields(state, sch.Types["Query"], doc.Operations[0].SelectionSet).orderedFields())
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("collected fields mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

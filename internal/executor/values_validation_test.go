package executor

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2/ast"

	language "github.com/hanpama/userdir/internal/language"
	schema "github.com/hanpama/userdir/internal/schema"
)

func TestCoerceVariableValues_InputObjectValidation(t *testing.T) {
	sch := schema.NewSchema("")

	input := schema.NewType("FilterInput", schema.TypeKindInputObject, "")
	input.AddInputField(schema.NewInputValue("required", "", schema.NonNullType(schema.NamedType("String"))))
	input.AddInputField(schema.NewInputValue("optional", "", schema.NamedType("Int")))
	sch.AddType(input)

	op := &language.OperationDefinition{
		Operation: language.Query,
		VariableDefinitions: ast.VariableDefinitionList{
			&ast.VariableDefinition{
				Variable: "input",
				Type:     &ast.Type{NamedType: "FilterInput", NonNull: true},
			},
		},
	}

	_, err := coerceVariableValues(sch, op, map[string]any{
		"input": map[string]any{
			"optional": 10,
		},
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "required field 'required'")
}

func TestCoerceVariableValues_ScalarTypeMismatch(t *testing.T) {
	sch := schema.NewSchema("")

	op := &language.OperationDefinition{
		Operation: language.Query,
		VariableDefinitions: ast.VariableDefinitionList{
			&ast.VariableDefinition{
				Variable: "count",
				Type:     &ast.Type{NamedType: "Int", NonNull: true},
			},
		},
	}

	_, err := coerceVariableValues(sch, op, map[string]any{
		"count": "42",
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "cannot coerce")
}

func TestCoerceVariableValues_JSONNumbers(t *testing.T) {
	sch := schema.NewSchema("")

	op := &language.OperationDefinition{
		Operation: language.Query,
		VariableDefinitions: ast.VariableDefinitionList{
			&ast.VariableDefinition{Variable: "n", Type: &ast.Type{NamedType: "Int"}},
			&ast.VariableDefinition{Variable: "id", Type: &ast.Type{NamedType: "ID"}},
		},
	}

	got, err := coerceVariableValues(sch, op, map[string]any{"n": float64(3), "id": float64(7)})
	require.NoError(t, err)
	require.Equal(t, map[string]any{"n": 3, "id": "7"}, got)

	_, err = coerceVariableValues(sch, op, map[string]any{"n": 1.5})
	require.Error(t, err)
	require.Contains(t, err.Error(), "variable $n of type Int cannot be coerced")
}

func TestCoerceVariableValues_MissingAndDefault(t *testing.T) {
	sch := schema.NewSchema("")
	doc, err := language.ParseQuery(`query ($id: String!, $limit: Int = 5) { a }`)
	require.NoError(t, err)
	op := doc.Operations[0]

	_, err = coerceVariableValues(sch, op, nil)
	require.EqualError(t, err, "variable $id of required type String! was not provided")

	got, err := coerceVariableValues(sch, op, map[string]any{"id": "1"})
	require.NoError(t, err)
	require.Equal(t, map[string]any{"id": "1", "limit": 5}, got)
}

func TestCoerceArgumentValues(t *testing.T) {
	sch := schema.NewSchema("")
	color := schema.NewType("Color", schema.TypeKindEnum, "").
		AddEnumValue(schema.NewEnumValue("RED", "")).
		AddEnumValue(schema.NewEnumValue("BLUE", ""))
	sch.AddType(color)

	field := schema.NewField("f", "", schema.NamedType("String")).
		AddArgument(schema.NewInputValue("id", "", schema.NonNullType(schema.NamedType("String")))).
		AddArgument(schema.NewInputValue("tags", "", schema.ListType(schema.NamedType("String")))).
		AddArgument(schema.NewInputValue("color", "", schema.NamedType("Color"))).
		AddArgument(schema.NewInputValue("limit", "", schema.NamedType("Int")).SetDefault(10))

	parseArgs := func(t *testing.T, q string) language.ArgumentList {
		t.Helper()
		doc, err := language.ParseQuery(q)
		require.NoError(t, err)
		return doc.Operations[0].SelectionSet[0].(*language.Field).Arguments
	}

	t.Run("Literals, variables and defaults", func(t *testing.T) {
		args := parseArgs(t, `query ($t: String) { f(id: "1", tags: ["a", $t], color: BLUE) }`)
		got, err := coerceArgumentValues(sch, field, args, map[string]any{"t": "b"})
		require.NoError(t, err)
		require.Equal(t, map[string]any{
			"id":    "1",
			"tags":  []any{"a", "b"},
			"color": "BLUE",
			"limit": 10,
		}, got)
	})

	t.Run("Omitted variable behaves like omitted argument", func(t *testing.T) {
		args := parseArgs(t, `query ($l: Int) { f(id: "1", limit: $l) }`)
		got, err := coerceArgumentValues(sch, field, args, map[string]any{})
		require.NoError(t, err)
		require.Equal(t, 10, got["limit"])
	})

	t.Run("Missing required argument", func(t *testing.T) {
		args := parseArgs(t, `{ f(tags: "x") }`)
		_, err := coerceArgumentValues(sch, field, args, nil)
		require.EqualError(t, err, "argument 'id' of required type was not provided")
	})

	t.Run("Wrong type", func(t *testing.T) {
		args := parseArgs(t, `{ f(id: "1", color: GREEN) }`)
		_, err := coerceArgumentValues(sch, field, args, nil)
		require.Error(t, err)
		require.Contains(t, err.Error(), "argument 'color' cannot be coerced")
	})
}

package executor

import (
	"context"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	language "github.com/hanpama/userdir/internal/language"
	schema "github.com/hanpama/userdir/internal/schema"
)

// Path locates a value in the response: field names and list indexes.
type Path []PathElement

type PathElement any

func (p Path) append(elem PathElement) Path {
	out := make(Path, len(p)+1)
	copy(out, p)
	out[len(p)] = elem
	return out
}

// String renders p the way error messages refer to fields, e.g. users[1].name.
func (p Path) String() string {
	var b strings.Builder
	for i, elem := range p {
		switch v := elem.(type) {
		case string:
			if i > 0 {
				b.WriteByte('.')
			}
			b.WriteString(v)
		case int:
			b.WriteString("[" + strconv.Itoa(v) + "]")
		}
	}
	return b.String()
}

// executionState is the per-request state shared by every field.
type executionState struct {
	runtime        Runtime
	schema         *schema.Schema
	document       *language.QueryDocument
	variableValues map[string]any
	context        context.Context
	errors         []GraphQLError
}

// addFieldError records an error located at the first AST node of the field.
func (state *executionState) addFieldError(message string, fields []*language.Field, path Path) {
	e := GraphQLError{Message: message, Path: path}
	if len(fields) > 0 && fields[0].Position != nil {
		e.Locations = []language.Location{{Line: fields[0].Position.Line, Column: fields[0].Position.Column}}
	}
	state.errors = append(state.errors, e)
}

func (state *executionState) hasErrorAtPath(path Path) bool {
	for _, err := range state.errors {
		if reflect.DeepEqual(err.Path, path) {
			return true
		}
	}
	return false
}

// executeSelectionSet completes every field of one object in order. It
// returns nil when a Non-Null field came back null, nulling the object
// itself; sibling fields still execute so their errors and side effects are
// kept.
func executeSelectionSet(state *executionState, objectType *schema.Type, selectionSet language.SelectionSet, objectValue any, path Path) *Object {
	result := NewObject()
	nullified := false

	for _, cf := range collectFields(state, objectType, selectionSet).orderedFields() {
		fields := cf.Fields
		fieldPath := path.append(cf.ResponseName)

		if fields[0].Name == "__typename" {
			result.Set(cf.ResponseName, objectType.Name)
			continue
		}
		fieldDef := getFieldDefinition(objectType, fields[0].Name)
		if fieldDef == nil {
			state.addFieldError(fmt.Sprintf("Cannot query field '%s' on type '%s'", fields[0].Name, objectType.Name), fields, fieldPath)
			continue
		}

		value := executeField(state, objectType, fieldDef, objectValue, fields, fieldPath)
		if isNullish(value) {
			if schema.IsNonNull(fieldDef.Type) {
				nullified = true
				continue
			}
			value = nil
		}
		result.Set(cf.ResponseName, value)
	}

	if nullified {
		return nil
	}
	return result
}

func executeField(state *executionState, objectType *schema.Type, fieldDef *schema.Field, objectValue any, fields []*language.Field, path Path) any {
	args, err := coerceArgumentValues(state.schema, fieldDef, fields[0].Arguments, state.variableValues)
	if err != nil {
		state.addFieldError(err.Error(), fields, path)
		return completeValue(state, fieldDef.Type, fields, nil, path)
	}
	value, err := state.runtime.ResolveSync(state.context, objectType.Name, fieldDef.Name, objectValue, args)
	if err != nil {
		state.addFieldError(err.Error(), fields, path)
		value = nil
	}
	return completeValue(state, fieldDef.Type, fields, value, path)
}

// completeValue shapes a resolved value according to fieldType. A nil return
// means null; for Non-Null types the caller propagates it upward.
func completeValue(state *executionState, fieldType *schema.TypeRef, fields []*language.Field, result any, path Path) any {
	if schema.IsNonNull(fieldType) {
		if isNullish(result) {
			// A resolver error at this path already explains the null.
			if !state.hasErrorAtPath(path) {
				state.addFieldError(fmt.Sprintf("Cannot return null for non-nullable field %s", path), fields, path)
			}
			return nil
		}
		return completeValue(state, schema.Unwrap(fieldType), fields, result, path)
	}
	if isNullish(result) {
		return nil
	}
	if schema.IsList(fieldType) {
		return completeListValue(state, fieldType, fields, result, path)
	}

	name := schema.GetNamedType(fieldType)
	t := state.schema.Types[name]
	if t == nil {
		state.addFieldError(fmt.Sprintf("Unknown type: %s", name), fields, path)
		return nil
	}
	switch t.Kind {
	case schema.TypeKindScalar, schema.TypeKindEnum:
		v, err := state.runtime.SerializeLeafValue(state.context, name, result)
		if err != nil {
			state.addFieldError(err.Error(), fields, path)
			return nil
		}
		return v
	case schema.TypeKindObject:
		return completeObjectValue(state, t, fields, result, path)
	case schema.TypeKindInterface, schema.TypeKindUnion:
		return completeAbstractValue(state, name, fields, result, path)
	}
	state.addFieldError(fmt.Sprintf("Cannot complete value of unexpected type: %s", t.Kind), fields, path)
	return nil
}

// completeListValue accepts []any or any other slice or array. A null item of
// a Non-Null item type nulls the whole list.
func completeListValue(state *executionState, listType *schema.TypeRef, fields []*language.Field, result any, path Path) any {
	items, ok := result.([]any)
	if !ok {
		rv := reflect.ValueOf(result)
		if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
			state.addFieldError(fmt.Sprintf("Expected list value, got %T", result), fields, path)
			return nil
		}
		items = make([]any, rv.Len())
		for i := range items {
			items[i] = rv.Index(i).Interface()
		}
	}

	itemType := schema.Unwrap(listType)
	out := make([]any, len(items))
	for i, item := range items {
		v := completeValue(state, itemType, fields, item, path.append(i))
		if isNullish(v) {
			if schema.IsNonNull(itemType) {
				return nil
			}
			v = nil
		}
		out[i] = v
	}
	return out
}

func completeObjectValue(state *executionState, objectType *schema.Type, fields []*language.Field, result any, path Path) any {
	var merged language.SelectionSet
	for _, f := range fields {
		merged = append(merged, f.SelectionSet...)
	}
	if obj := executeSelectionSet(state, objectType, merged, result, path); obj != nil {
		return obj
	}
	return nil
}

func completeAbstractValue(state *executionState, abstractType string, fields []*language.Field, result any, path Path) any {
	typeName, err := state.runtime.ResolveType(state.context, abstractType, result)
	if err != nil {
		state.addFieldError(err.Error(), fields, path)
		return nil
	}
	objectType := state.schema.Types[typeName]
	if objectType == nil || objectType.Kind != schema.TypeKindObject {
		state.addFieldError(fmt.Sprintf("Abstract type %s must resolve to an Object type at runtime. Got: %s", abstractType, typeName), fields, path)
		return nil
	}
	return completeObjectValue(state, objectType, fields, result, path)
}

// isNullish reports nil interfaces and typed nils.
func isNullish(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Interface, reflect.Ptr, reflect.Slice, reflect.Map, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

package executor

import (
	"fmt"
	"strconv"
	"strings"

	language "github.com/hanpama/userdir/internal/language"
	schema "github.com/hanpama/userdir/internal/schema"
)

// coerceVariableValues checks the request variables against the operation's
// variable definitions. Defaults fill omitted variables; an omitted nullable
// variable without default stays absent.
func coerceVariableValues(sch *schema.Schema, operation *language.OperationDefinition, inputs map[string]any) (map[string]any, error) {
	coerced := make(map[string]any, len(operation.VariableDefinitions))
	for _, def := range operation.VariableDefinitions {
		name, typ := def.Variable, def.Type
		val, ok := lookupVariable(inputs, name)
		switch {
		case ok:
		case def.DefaultValue != nil:
			val = valueFromAST(def.DefaultValue, nil)
		case typ.NonNull:
			return nil, fmt.Errorf("variable $%s of required type %s was not provided", name, typ.String())
		default:
			continue
		}
		if val == nil && typ.NonNull {
			return nil, fmt.Errorf("variable $%s of type %s cannot be null", name, typ.String())
		}
		cv, err := coerceValue(sch, val, typeRefFromAST(typ))
		if err != nil {
			return nil, fmt.Errorf("variable $%s of type %s cannot be coerced: %v", name, typ.String(), err)
		}
		coerced[name] = cv
	}
	return coerced, nil
}

// coerceArgumentValues builds the argument map handed to a resolver. The
// first argument that cannot be coerced, or a missing required argument,
// fails the whole field.
func coerceArgumentValues(sch *schema.Schema, fieldDef *schema.Field, arguments language.ArgumentList, variableValues map[string]any) (map[string]any, error) {
	coerced := make(map[string]any, len(fieldDef.Arguments))
	for _, arg := range arguments {
		argDef := findInputValue(fieldDef.Arguments, arg.Name)
		if argDef == nil {
			return nil, fmt.Errorf("unknown argument '%s' on field '%s'", arg.Name, fieldDef.Name)
		}
		if arg.Value != nil && arg.Value.Kind == language.Variable {
			if _, ok := lookupVariable(variableValues, arg.Value.Raw); !ok {
				// An omitted variable behaves like an omitted argument.
				continue
			}
		}
		cv, err := coerceValue(sch, valueFromAST(arg.Value, variableValues), argDef.Type)
		if err != nil {
			return nil, fmt.Errorf("argument '%s' cannot be coerced: %v", arg.Name, err)
		}
		coerced[arg.Name] = cv
	}
	for _, argDef := range fieldDef.Arguments {
		if _, ok := coerced[argDef.Name]; ok {
			continue
		}
		if argDef.DefaultValue != nil {
			coerced[argDef.Name] = argDef.DefaultValue
		} else if schema.IsNonNull(argDef.Type) {
			return nil, fmt.Errorf("argument '%s' of required type was not provided", argDef.Name)
		}
	}
	return coerced, nil
}

func findInputValue(defs []*schema.InputValue, name string) *schema.InputValue {
	for _, d := range defs {
		if d.Name == name {
			return d
		}
	}
	return nil
}

// lookupVariable accepts variable names with or without the leading '$'.
func lookupVariable(variableValues map[string]any, name string) (any, bool) {
	if v, ok := variableValues[name]; ok {
		return v, true
	}
	v, ok := variableValues[strings.TrimPrefix(name, "$")]
	return v, ok
}

// valueFromAST converts a literal to its Go value, substituting variables
// from variableValues. A nil map resolves every variable to null.
func valueFromAST(value *language.Value, variableValues map[string]any) any {
	if value == nil {
		return nil
	}
	switch value.Kind {
	case language.Variable:
		v, _ := lookupVariable(variableValues, value.Raw)
		return v
	case language.IntValue:
		n, _ := strconv.Atoi(value.Raw)
		return n
	case language.FloatValue:
		f, _ := strconv.ParseFloat(value.Raw, 64)
		return f
	case language.BooleanValue:
		return value.Raw == "true"
	case language.StringValue, language.BlockValue, language.EnumValue:
		return value.Raw
	case language.ListValue:
		out := make([]any, len(value.Children))
		for i, c := range value.Children {
			out[i] = valueFromAST(c.Value, variableValues)
		}
		return out
	case language.ObjectValue:
		out := make(map[string]any, len(value.Children))
		for _, c := range value.Children {
			out[c.Name] = valueFromAST(c.Value, variableValues)
		}
		return out
	}
	return nil
}

func typeRefFromAST(t *language.Type) *schema.TypeRef {
	if t == nil {
		return nil
	}
	var ref *schema.TypeRef
	if t.Elem != nil {
		ref = schema.ListType(typeRefFromAST(t.Elem))
	} else {
		ref = schema.NamedType(t.NamedType)
	}
	if t.NonNull {
		return schema.NonNullType(ref)
	}
	return ref
}

package executor

import (
	"fmt"
	"math"
	"strconv"

	schema "github.com/hanpama/userdir/internal/schema"
)

// scalarCoercers convert input values of the built-in scalars. Inputs come
// either from literals (int, float64, string, bool) or from decoded JSON,
// where every number is a float64.
var scalarCoercers = map[string]func(any) (any, error){
	"Int":     coerceToInt,
	"Float":   coerceToFloat,
	"String":  coerceToString,
	"Boolean": coerceToBoolean,
	"ID":      coerceToID,
}

// coerceValue converts an input value to targetType. Custom scalars pass
// through unchanged.
func coerceValue(sch *schema.Schema, value any, targetType *schema.TypeRef) (any, error) {
	if schema.IsNonNull(targetType) {
		if value == nil {
			return nil, fmt.Errorf("cannot provide null for non-null type")
		}
		return coerceValue(sch, value, schema.Unwrap(targetType))
	}
	if value == nil {
		return nil, nil
	}
	if schema.IsList(targetType) {
		return coerceListValue(sch, value, schema.Unwrap(targetType))
	}

	name := schema.GetNamedType(targetType)
	if coerce, ok := scalarCoercers[name]; ok {
		return coerce(value)
	}
	if sch == nil || sch.Types[name] == nil {
		return value, nil
	}
	switch t := sch.Types[name]; t.Kind {
	case schema.TypeKindInputObject:
		return coerceInputObject(sch, value, t)
	case schema.TypeKindEnum:
		return coerceEnum(value, t)
	}
	return value, nil
}

// coerceListValue coerces each item; a single value becomes a list of one.
func coerceListValue(sch *schema.Schema, value any, itemType *schema.TypeRef) (any, error) {
	items, ok := value.([]any)
	if !ok {
		items = []any{value}
	}
	out := make([]any, len(items))
	for i, item := range items {
		cv, err := coerceValue(sch, item, itemType)
		if err != nil {
			return nil, err
		}
		out[i] = cv
	}
	return out, nil
}

func coerceInputObject(sch *schema.Schema, value any, t *schema.Type) (any, error) {
	m, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expected object for input type %s, got %T", t.Name, value)
	}
	for name := range m {
		if findInputValue(t.InputFields, name) == nil {
			return nil, fmt.Errorf("unknown field '%s' for input type %s", name, t.Name)
		}
	}
	out := make(map[string]any, len(t.InputFields))
	for _, f := range t.InputFields {
		v, ok := m[f.Name]
		if !ok {
			if f.DefaultValue != nil {
				out[f.Name] = f.DefaultValue
			} else if schema.IsNonNull(f.Type) {
				return nil, fmt.Errorf("required field '%s' of input type %s was not provided", f.Name, t.Name)
			}
			continue
		}
		cv, err := coerceValue(sch, v, f.Type)
		if err != nil {
			return nil, fmt.Errorf("field '%s' of input type %s: %v", f.Name, t.Name, err)
		}
		out[f.Name] = cv
	}
	return out, nil
}

func coerceEnum(value any, t *schema.Type) (any, error) {
	if s, ok := value.(string); ok {
		for _, ev := range t.EnumValues {
			if ev.Name == s {
				return s, nil
			}
		}
	}
	return nil, fmt.Errorf("value %v is not a member of enum %s", value, t.Name)
}

func coerceToInt(value any) (any, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case int32:
		return int(v), nil
	case int64:
		return int(v), nil
	case float64:
		if v == math.Trunc(v) {
			return int(v), nil
		}
	}
	return nil, fmt.Errorf("cannot coerce %v (%T) to int", value, value)
}

func coerceToFloat(value any) (any, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	}
	return nil, fmt.Errorf("cannot coerce %v (%T) to float", value, value)
}

func coerceToString(value any) (any, error) {
	if v, ok := value.(string); ok {
		return v, nil
	}
	return nil, fmt.Errorf("cannot coerce %v (%T) to string", value, value)
}

func coerceToBoolean(value any) (any, error) {
	if v, ok := value.(bool); ok {
		return v, nil
	}
	return nil, fmt.Errorf("cannot coerce %v (%T) to boolean", value, value)
}

func coerceToID(value any) (any, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case int:
		return strconv.Itoa(v), nil
	case int32:
		return strconv.FormatInt(int64(v), 10), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case float64:
		if v == math.Trunc(v) {
			return strconv.FormatInt(int64(v), 10), nil
		}
	}
	return nil, fmt.Errorf("cannot coerce %v (%T) to ID", value, value)
}

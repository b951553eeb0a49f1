package executor

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"sync"
)

// Resolver resolves a single field of a single source value.
type Resolver func(ctx context.Context, source any, args map[string]any) (any, error)

// TypeResolver maps a value of an abstract type to its concrete object type name.
type TypeResolver func(ctx context.Context, value any) (string, error)

// FuncRuntime implements Runtime with a registry of resolver functions keyed
// by "ObjectType.field".
//
// Fields without a registered resolver fall back to projection: a
// map[string]any source yields the entry named like the field, and a source
// implementing FieldSource answers through GraphQLField.
type FuncRuntime struct {
	mu            sync.RWMutex
	resolvers     map[string]Resolver
	typeResolvers map[string]TypeResolver
}

// FieldSource is implemented by source values that project their own fields.
type FieldSource interface {
	GraphQLField(name string) (any, bool)
}

// NewFuncRuntime creates an empty FuncRuntime.
func NewFuncRuntime() *FuncRuntime {
	return &FuncRuntime{
		resolvers:     make(map[string]Resolver),
		typeResolvers: make(map[string]TypeResolver),
	}
}

// Register binds fn to objectType.field, replacing any earlier binding.
func (r *FuncRuntime) Register(objectType, field string, fn Resolver) *FuncRuntime {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resolvers[objectType+"."+field] = fn
	return r
}

// RegisterTypeResolver binds the concrete type lookup for an interface or union.
func (r *FuncRuntime) RegisterTypeResolver(abstractType string, fn TypeResolver) *FuncRuntime {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.typeResolvers[abstractType] = fn
	return r
}

func (r *FuncRuntime) ResolveSync(ctx context.Context, objectType string, field string, source any, args map[string]any) (any, error) {
	r.mu.RLock()
	fn := r.resolvers[objectType+"."+field]
	r.mu.RUnlock()
	if fn != nil {
		return fn(ctx, source, args)
	}
	switch src := source.(type) {
	case FieldSource:
		if v, ok := src.GraphQLField(field); ok {
			return v, nil
		}
	case map[string]any:
		return src[field], nil
	}
	return nil, fmt.Errorf("no resolver for %s.%s", objectType, field)
}

func (r *FuncRuntime) ResolveType(ctx context.Context, abstractType string, value any) (string, error) {
	r.mu.RLock()
	fn := r.typeResolvers[abstractType]
	r.mu.RUnlock()
	if fn != nil {
		return fn(ctx, value)
	}
	if m, ok := value.(map[string]any); ok {
		if typename, ok := m["__typename"].(string); ok {
			return typename, nil
		}
	}
	return "", fmt.Errorf("cannot resolve concrete type of %s", abstractType)
}

func (r *FuncRuntime) SerializeLeafValue(ctx context.Context, typeName string, value any) (any, error) {
	switch typeName {
	case "String":
		return serializeString(value)
	case "ID":
		return serializeID(value)
	case "Int":
		return serializeInt(value)
	case "Float":
		return serializeFloat(value)
	case "Boolean":
		if b, ok := value.(bool); ok {
			return b, nil
		}
		return nil, fmt.Errorf("Boolean cannot represent a non boolean value: %v", value)
	default:
		// Enums and custom scalars pass through.
		return value, nil
	}
}

func serializeString(value any) (any, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case fmt.Stringer:
		return v.String(), nil
	case bool, int, int32, int64, float64:
		return fmt.Sprint(v), nil
	}
	return nil, fmt.Errorf("String cannot represent value: %v", value)
}

func serializeID(value any) (any, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case int:
		return strconv.Itoa(v), nil
	case int32:
		return strconv.FormatInt(int64(v), 10), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	}
	return nil, fmt.Errorf("ID cannot represent value: %v", value)
}

func serializeInt(value any) (any, error) {
	var n int64
	switch v := value.(type) {
	case int:
		n = int64(v)
	case int32:
		n = int64(v)
	case int64:
		n = v
	case float64:
		if v != math.Trunc(v) {
			return nil, fmt.Errorf("Int cannot represent non-integer value: %v", v)
		}
		n = int64(v)
	default:
		return nil, fmt.Errorf("Int cannot represent non-integer value: %v", value)
	}
	if n > math.MaxInt32 || n < math.MinInt32 {
		return nil, fmt.Errorf("Int cannot represent non 32-bit signed integer value: %d", n)
	}
	return int(n), nil
}

func serializeFloat(value any) (any, error) {
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
	return nil, fmt.Errorf("Float cannot represent non numeric value: %v", value)
}

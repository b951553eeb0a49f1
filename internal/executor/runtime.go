package executor

import (
	"context"
)

// Runtime defines the host integration surface for field resolution,
// abstract type resolution, and leaf-value serialization used by the Executor.
//
// General contract
//   - The Executor resolves fields synchronously and depth-first. Within one
//     selection set, fields are resolved in document order; for mutation root
//     fields this ordering is the serial execution GraphQL requires.
//   - Errors returned from any method are converted into located GraphQL errors.
//     If the field's return type is Non-Null, the Executor will propagate the
//     null up to the nearest nullable ancestor per GraphQL spec.
//   - Implementations must be concurrency-safe. The Executor may call these
//     methods concurrently for different operations.
//   - Implementations must not mutate source or args values.
//
// Object/field identifiers
//   - objectType is the GraphQL type name (e.g. "User").
//   - field is the GraphQL field name on that type (e.g. "email").
//   - For root fields, objectType is the root type name (e.g. "Query").
//   - source is the parent object value (the root value for root fields).
//   - args is the map of argument names to already-coerced Go values.
//
// Cancellation
//   - ctx is the request context. Resolvers here do not block, so the
//     Executor does not poll it between fields; implementations may.
type Runtime interface {
	// ResolveSync resolves a field value.
	//
	// Return the raw value to be completed by the Executor (including nested
	// selection sets). Return (nil, nil) to produce a GraphQL null for
	// nullable fields.
	ResolveSync(ctx context.Context, objectType string, field string, source any, args map[string]any) (any, error)

	// ResolveType determines the concrete runtime type name for a value of an
	// abstract GraphQL type (interface or union).
	//
	// Must return a type name that is a possible type of the abstractType in the
	// provided schema; otherwise return an error.
	ResolveType(ctx context.Context, abstractType string, value any) (string, error)

	// SerializeLeafValue serializes a scalar or enum value to a JSON-safe Go
	// value according to the GraphQL schema and custom scalar mappings.
	//
	// For enums, return the symbolic name as string. For built-in scalars,
	// return int for Int, float64 for Float, string for String/ID and bool for
	// Boolean.
	SerializeLeafValue(ctx context.Context, scalarOrEnumTypeName string, value any) (any, error)
}

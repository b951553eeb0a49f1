// Package executor implements a synchronous, depth-first GraphQL executor
// with explicit runtime hooks for field resolution, abstract-type resolution,
// and leaf serialization.
//
// # Overview
//
// The executor runs one operation of a parsed and validated document:
//   - Fields of a selection set are collected in document order, merging
//     fields that share a response name and honoring @skip/@include.
//   - Each field is resolved through Runtime.ResolveSync and completed
//     immediately, descending into its sub-selection before the next sibling
//     is resolved.
//   - Values are completed according to GraphQL (lists, leafs,
//     objects, abstract types), including Non-Null null-propagation.
//   - Errors are accumulated with their locations and response paths while
//     allowing partial success.
//
// # Preparation
//
// Execute performs the request pipeline:
//  1. Parse the query text. Syntax errors produce a result without data.
//  2. Validate the document against the schema. Validation errors produce a
//     result without data.
//  3. Select the operation, by name or by uniqueness when unnamed.
//  4. Coerce variables against the operation's variable definitions. Errors
//     here stop execution and also produce a result without data.
//
// ExecuteRequest starts at step 3 for callers holding an already validated
// document.
//
// # Ordering
//
// Response objects are Objects (ordered maps), so the JSON encoding of a
// result lists keys in selection order. Root fields of a mutation are
// resolved one after another in document order; a later mutation field sees
// every side effect of the earlier ones.
//
// # Null propagation
//
// When a Non-Null field completes to null, the error is recorded at the
// field's path and the enclosing object becomes null. This repeats until a
// nullable position is reached. If no nullable ancestor exists, the result's
// Data is null while DataPresent stays true, so the response still carries
// a "data" entry. Siblings of a failed field are still resolved; their side
// effects and errors are kept.
//
// # Runtime
//
// Runtime is the host integration surface. FuncRuntime is a registry-based
// implementation keyed by "ObjectType.field" with projection fallbacks for
// map sources and FieldSource values.
package executor

package executor

import (
	"context"
	"fmt"
	"sync"

	language "github.com/hanpama/userdir/internal/language"
	schema "github.com/hanpama/userdir/internal/schema"
)

// Executor runs GraphQL documents against one schema and runtime. It holds no
// per-request state and is safe for concurrent use.
type Executor struct {
	runtime Runtime
	schema  *schema.Schema

	// The validation schema is rendered from schema on first use.
	validationOnce   sync.Once
	validationSchema *language.ValidatedSchema
	validationErr    error
}

func NewExecutor(runtime Runtime, schema *schema.Schema) *Executor {
	return &Executor{runtime: runtime, schema: schema}
}

// Params is one GraphQL request.
type Params struct {
	Query         string
	OperationName string
	Variables     map[string]any
	RootValue     any
}

// Execute parses, validates and executes a GraphQL request.
// Parse and validation failures produce a result without data.
func (e *Executor) Execute(ctx context.Context, p Params) *ExecutionResult {
	doc, err := language.ParseQuery(p.Query)
	if err != nil {
		return ErrorResult(err)
	}
	if errs := e.Validate(doc); len(errs) > 0 {
		return &ExecutionResult{Errors: errs}
	}
	return e.ExecuteRequest(ctx, doc, p.OperationName, p.Variables, p.RootValue)
}

// Validate checks doc against the executor's schema.
func (e *Executor) Validate(doc *language.QueryDocument) []GraphQLError {
	e.validationOnce.Do(func() {
		e.validationSchema, e.validationErr = language.LoadSchema("schema.graphql", schema.Render(e.schema))
	})
	if e.validationErr != nil {
		return []GraphQLError{{Message: fmt.Sprintf("invalid schema: %v", e.validationErr)}}
	}
	list := language.Validate(e.validationSchema, doc)
	if len(list) == 0 {
		return nil
	}
	errs := make([]GraphQLError, len(list))
	for i, le := range list {
		errs[i] = fromLanguageError(le)
	}
	return errs
}

// ExecuteRequest executes an already parsed and validated document.
// Operation selection and variable errors are request errors: the result
// carries no data. Field errors leave data present, possibly null.
func (e *Executor) ExecuteRequest(
	ctx context.Context,
	document *language.QueryDocument,
	operationName string,
	variableValues map[string]any,
	initialValue any,
) *ExecutionResult {
	operation, err := getOperation(document, operationName)
	if err != nil {
		return requestError(err.Error())
	}
	rootType, err := e.rootType(operation.Operation)
	if err != nil {
		return requestError(err.Error())
	}
	coercedVariableValues, err := coerceVariableValues(e.schema, operation, variableValues)
	if err != nil {
		return requestError(err.Error())
	}

	state := &executionState{
		runtime:        e.runtime,
		schema:         e.schema,
		document:       document,
		variableValues: coercedVariableValues,
		context:        ctx,
	}
	// Root fields run one after another in document order, which is the
	// serial execution mutations require.
	data := executeSelectionSet(state, rootType, operation.SelectionSet, initialValue, nil)
	return &ExecutionResult{Data: data, DataPresent: true, Errors: state.errors}
}

func (e *Executor) rootType(op language.Operation) (*schema.Type, error) {
	var t *schema.Type
	switch op {
	case language.Query:
		t = e.schema.GetQueryType()
	case language.Mutation:
		t = e.schema.GetMutationType()
	case language.Subscription:
		return nil, fmt.Errorf("subscriptions are not supported")
	default:
		return nil, fmt.Errorf("unsupported operation type: %s", op)
	}
	if t == nil {
		return nil, fmt.Errorf("root type not found for %s operation", op)
	}
	return t, nil
}

// getOperation picks the operation to run. The name may only be omitted
// when the document holds exactly one operation.
func getOperation(document *language.QueryDocument, operationName string) (*language.OperationDefinition, error) {
	if operationName != "" {
		if op := document.Operations.ForName(operationName); op != nil {
			return op, nil
		}
		return nil, fmt.Errorf("unknown operation named %q", operationName)
	}
	switch len(document.Operations) {
	case 0:
		return nil, fmt.Errorf("document does not contain any operations")
	case 1:
		return document.Operations[0], nil
	default:
		return nil, fmt.Errorf("must provide operation name if query contains multiple operations")
	}
}

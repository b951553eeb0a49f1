package executor

import (
	"encoding/json"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	language "github.com/hanpama/userdir/internal/language"
)

// Object is a completed GraphQL object. Keys keep the order in which the
// fields were selected, and JSON encoding preserves it.
type Object = orderedmap.OrderedMap[string, any]

// NewObject returns an empty Object.
func NewObject() *Object { return orderedmap.New[string, any]() }

// GraphQLError represents an error that occurred during execution
type GraphQLError struct {
	Message    string              `json:"message"`
	Locations  []language.Location `json:"locations,omitempty"`
	Path       Path                `json:"path,omitempty"`
	Extensions map[string]any      `json:"extensions,omitempty"`
}

func (e GraphQLError) Error() string {
	return e.Message
}

// ExecutionResult represents the result of executing a GraphQL query.
//
// Data is nil both when the request failed before execution started and
// when a Non-Null root field propagated null. DataPresent tells the two
// apart: only executed requests carry a "data" entry.
type ExecutionResult struct {
	Data        *Object
	DataPresent bool
	Errors      []GraphQLError
}

func (r ExecutionResult) MarshalJSON() ([]byte, error) {
	if !r.DataPresent {
		return json.Marshal(struct {
			Errors []GraphQLError `json:"errors,omitempty"`
		}{r.Errors})
	}
	return json.Marshal(struct {
		Data   *Object        `json:"data"`
		Errors []GraphQLError `json:"errors,omitempty"`
	}{r.Data, r.Errors})
}

// ErrorResult is the result of a request rejected before execution. It has
// no data entry.
func ErrorResult(err error) *ExecutionResult {
	return &ExecutionResult{Errors: []GraphQLError{fromLanguageError(err)}}
}

func requestError(message string) *ExecutionResult {
	return &ExecutionResult{Errors: []GraphQLError{{Message: message}}}
}

// fromLanguageError converts parser and validator errors.
func fromLanguageError(err error) GraphQLError {
	if le, ok := err.(*language.Error); ok {
		return GraphQLError{Message: le.Message, Locations: le.Locations, Extensions: le.Extensions}
	}
	return GraphQLError{Message: err.Error()}
}

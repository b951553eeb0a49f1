// Package events defines the values published on the eventbus while a request
// is served. The request context passed along with each event carries the
// request id, so subscribers can correlate the events of one request.
package events

import (
	"net/http"
	"time"
)

// HTTPStart is published when a request reaches the router or the GraphQL
// handler, before any response is written.
type HTTPStart struct {
	Request *http.Request
}

// HTTPFinish is published once the response status is known.
type HTTPFinish struct {
	Request  *http.Request
	Status   int
	Duration time.Duration
}

// GraphQLStart is published for every operation of a request, batched ones
// included. OperationType is empty when the document does not parse.
type GraphQLStart struct {
	Query         string
	OperationName string
	OperationType string
}

// GraphQLFinish follows GraphQLStart. HasData is false when the operation was
// rejected before execution (syntax, validation or variable errors).
type GraphQLFinish struct {
	Query         string
	OperationName string
	OperationType string
	Errors        []error
	HasData       bool
	Duration      time.Duration
}

// UserCreated is published by createUser after the record is stored.
// Replaced reports that a record with the same id was overwritten.
type UserCreated struct {
	ID       string
	Replaced bool
}

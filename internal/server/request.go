package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
)

// GraphQLRequest is the standard GraphQL-over-HTTP request body.
type GraphQLRequest struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName,omitempty"`
	Variables     map[string]any `json:"variables,omitempty"`
	Extensions    map[string]any `json:"extensions,omitempty"`
}

// requestError rejects a request before any operation runs.
type requestError struct {
	status  int
	message string
}

func badRequest(message string) *requestError {
	return &requestError{status: http.StatusBadRequest, message: message}
}

var errBodyTooLarge = &requestError{status: http.StatusRequestEntityTooLarge, message: "body too large"}

const (
	mediaJSON    = "application/json"
	mediaGraphQL = "application/graphql"
)

// parseRequest decodes a GET or POST request. A JSON array body is a batch
// and comes back as the second result.
func parseRequest(r *http.Request, maxBody int64) (GraphQLRequest, []GraphQLRequest, *requestError) {
	if r.Method == http.MethodGet {
		req, rerr := parseQueryParams(r)
		return req, nil, rerr
	}

	mediaType := mediaJSON
	if ct := r.Header.Get("Content-Type"); ct != "" {
		mt, _, err := mime.ParseMediaType(ct)
		if err != nil || (mt != mediaJSON && mt != mediaGraphQL) {
			return GraphQLRequest{}, nil, badRequest("unsupported Content-Type")
		}
		mediaType = mt
	}

	body, rerr := readBody(r, maxBody)
	if rerr != nil {
		return GraphQLRequest{}, nil, rerr
	}
	if mediaType == mediaGraphQL {
		if len(body) == 0 {
			return GraphQLRequest{}, nil, badRequest("missing 'query'")
		}
		return GraphQLRequest{Query: string(body), Variables: map[string]any{}}, nil, nil
	}
	if trimmed := bytes.TrimLeft(body, " \t\r\n"); len(trimmed) > 0 && trimmed[0] == '[' {
		batch, rerr := decodeBatch(body)
		return GraphQLRequest{}, batch, rerr
	}
	req, rerr := decodeOne(body)
	return req, nil, rerr
}

func parseQueryParams(r *http.Request) (GraphQLRequest, *requestError) {
	params := r.URL.Query()
	req := GraphQLRequest{
		Query:         params.Get("query"),
		OperationName: params.Get("operationName"),
		Variables:     map[string]any{},
	}
	if req.Query == "" {
		return GraphQLRequest{}, badRequest("missing 'query'")
	}
	if v := params.Get("variables"); v != "" {
		if err := json.Unmarshal([]byte(v), &req.Variables); err != nil {
			return GraphQLRequest{}, badRequest("invalid 'variables' JSON")
		}
	}
	return req, nil
}

func decodeOne(body []byte) (GraphQLRequest, *requestError) {
	var req GraphQLRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return GraphQLRequest{}, badRequest("invalid JSON")
	}
	if req.Query == "" {
		return GraphQLRequest{}, badRequest("missing 'query'")
	}
	if req.Variables == nil {
		req.Variables = map[string]any{}
	}
	return req, nil
}

func decodeBatch(body []byte) ([]GraphQLRequest, *requestError) {
	var batch []GraphQLRequest
	if err := json.Unmarshal(body, &batch); err != nil {
		return nil, badRequest("invalid JSON")
	}
	if len(batch) == 0 {
		return nil, badRequest("empty batch")
	}
	for i := range batch {
		if batch[i].Query == "" {
			return nil, badRequest("missing 'query'")
		}
		if batch[i].Variables == nil {
			batch[i].Variables = map[string]any{}
		}
	}
	return batch, nil
}

// readBody reads at most maxBody bytes; one byte more means the body is too
// large. maxBody 0 reads everything.
func readBody(r *http.Request, maxBody int64) ([]byte, *requestError) {
	defer r.Body.Close()
	var reader io.Reader = r.Body
	if maxBody > 0 {
		reader = io.LimitReader(r.Body, maxBody+1)
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return nil, errBodyTooLarge
		}
		return nil, badRequest("failed to read body")
	}
	if maxBody > 0 && int64(len(body)) > maxBody {
		return nil, errBodyTooLarge
	}
	return body, nil
}

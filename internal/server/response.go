package server

import (
	"encoding/json"
	"net/http"

	executor "github.com/hanpama/userdir/internal/executor"
)

const contentTypeJSON = "application/json"

func errorResponse(message string) *executor.ExecutionResult {
	return &executor.ExecutionResult{Errors: []executor.GraphQLError{{Message: message}}}
}

// writeJSON writes v without a trailing newline and returns the status it
// actually sent, which is 500 when v cannot be encoded.
func writeJSON(w http.ResponseWriter, status int, v any, pretty bool) int {
	var (
		b   []byte
		err error
	)
	if pretty {
		b, err = json.MarshalIndent(v, "", "  ")
	} else {
		b, err = json.Marshal(v)
	}
	if err != nil {
		status = http.StatusInternalServerError
		b, _ = json.Marshal(errorResponse("failed to encode response"))
	}
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	_, _ = w.Write(b)
	return status
}

// allows reports whether origin may call the endpoint.
func (c CORSOptions) allows(origin string) bool {
	for _, o := range c.AllowedOrigins {
		if o == "*" || o == origin {
			return true
		}
	}
	return false
}

func (c CORSOptions) wildcard() bool {
	for _, o := range c.AllowedOrigins {
		if o == "*" {
			return true
		}
	}
	return false
}

// setCORSHeaders answers simple requests and preflights alike. Requests
// without an Origin, or from an origin not listed, get no CORS headers.
func setCORSHeaders(w http.ResponseWriter, r *http.Request, c CORSOptions) {
	origin := r.Header.Get("Origin")
	if origin == "" || !c.allows(origin) {
		return
	}
	h := w.Header()
	if c.wildcard() {
		h.Set("Access-Control-Allow-Origin", "*")
	} else {
		h.Set("Access-Control-Allow-Origin", origin)
		h.Add("Vary", "Origin")
	}
	if r.Method != http.MethodOptions {
		return
	}
	if requested := r.Header.Get("Access-Control-Request-Headers"); requested != "" {
		h.Set("Access-Control-Allow-Headers", requested)
	}
	h.Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
}

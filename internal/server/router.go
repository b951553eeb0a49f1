package server

import (
	"net/http"
	"time"

	eventbus "github.com/hanpama/userdir/internal/eventbus"
	events "github.com/hanpama/userdir/internal/events"
	reqid "github.com/hanpama/userdir/internal/reqid"
)

// Route paths.
const (
	PlaygroundPath = "/"
	GraphQLPath    = "/graphql"
)

// NewRouter dispatches the fixed route table:
//
//	GET  /         playground
//	GET  /graphql  GraphQL over query parameters
//	POST /graphql  GraphQL over a JSON body
//	OPTIONS /graphql  CORS preflight, when CORS is configured
//
// Everything else is answered with 404 and an empty body.
func NewRouter(graphql *Handler, playground http.Handler) http.Handler {
	return &router{graphql: graphql, playground: playground}
}

type router struct {
	graphql    *Handler
	playground http.Handler
}

func (rt *router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case GraphQLPath:
		switch r.Method {
		case http.MethodGet, http.MethodPost:
			rt.graphql.ServeHTTP(w, r)
			return
		case http.MethodOptions:
			if rt.graphql.corsEnabled() {
				rt.graphql.ServeHTTP(w, r)
				return
			}
		}
	case PlaygroundPath:
		if r.Method == http.MethodGet {
			observe(w, r, rt.playground)
			return
		}
	}
	observe(w, r, http.HandlerFunc(notFound))
}

func notFound(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNotFound)
}

// observe publishes the HTTP events for routes served outside Handler.
func observe(w http.ResponseWriter, r *http.Request, next http.Handler) {
	ctx, rid := reqid.NewContext(r.Context())
	r = r.WithContext(ctx)
	w.Header().Set("X-Request-Id", reqid.String(rid))
	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	start := time.Now()
	eventbus.Publish(ctx, events.HTTPStart{Request: r})
	next.ServeHTTP(rec, r)
	eventbus.Publish(ctx, events.HTTPFinish{Request: r, Status: rec.status, Duration: time.Since(start)})
}

type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (s *statusRecorder) WriteHeader(code int) {
	if !s.wroteHeader {
		s.wroteHeader = true
		s.status = code
	}
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	s.wroteHeader = true
	return s.ResponseWriter.Write(b)
}

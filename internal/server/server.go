package server

import (
	"context"
	"net/http"
	"time"

	eventbus "github.com/hanpama/userdir/internal/eventbus"
	events "github.com/hanpama/userdir/internal/events"
	executor "github.com/hanpama/userdir/internal/executor"
	language "github.com/hanpama/userdir/internal/language"
	reqid "github.com/hanpama/userdir/internal/reqid"
)

// Handler serves the GraphQL endpoint. It parses requests, runs the executor
// and writes JSON results.
type Handler struct {
	exec *executor.Executor
	opt  Options
}

type Options struct {
	// Timeout sets a default timeout if the incoming request context has none.
	// 0 means no default timeout.
	Timeout time.Duration

	// Pretty enables indented JSON responses.
	Pretty bool

	// MaxBodyBytes limits the size of the request body. 0 means unlimited.
	MaxBodyBytes int64

	// CORS is disabled while AllowedOrigins is empty.
	CORS CORSOptions

	// RequestContext derives the context resolvers run with, for example to
	// attach the user directory.
	RequestContext func(context.Context) context.Context
}

type CORSOptions struct {
	AllowedOrigins []string
}

type Option func(*Options)

func WithTimeout(d time.Duration) Option { return func(o *Options) { o.Timeout = d } }
func WithPretty() Option                 { return func(o *Options) { o.Pretty = true } }
func WithMaxBodyBytes(n int64) Option    { return func(o *Options) { o.MaxBodyBytes = n } }
func WithCORS(origins ...string) Option {
	return func(o *Options) { o.CORS.AllowedOrigins = origins }
}
func WithRequestContext(fn func(context.Context) context.Context) Option {
	return func(o *Options) { o.RequestContext = fn }
}

// New creates a GraphQL HTTP handler around exec.
func New(exec *executor.Executor, opts ...Option) *Handler {
	op := Options{Timeout: 10 * time.Second}
	for _, f := range opts {
		f(&op)
	}
	return &Handler{exec: exec, opt: op}
}

func (h *Handler) corsEnabled() bool { return len(h.opt.CORS.AllowedOrigins) > 0 }

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if _, ok := ctx.Deadline(); !ok && h.opt.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.opt.Timeout)
		defer cancel()
	}
	ctx, rid := withRequestID(ctx)
	w.Header().Set("X-Request-Id", reqid.String(rid))

	status := http.StatusOK
	start := time.Now()
	eventbus.Publish(ctx, events.HTTPStart{Request: r})
	defer func() {
		eventbus.Publish(ctx, events.HTTPFinish{Request: r, Status: status, Duration: time.Since(start)})
	}()

	switch r.Method {
	case http.MethodGet, http.MethodPost:
	case http.MethodOptions:
		if h.corsEnabled() {
			setCORSHeaders(w, r, h.opt.CORS)
		}
		status = http.StatusNoContent
		w.WriteHeader(status)
		return
	default:
		status = http.StatusMethodNotAllowed
		w.Header().Set("Allow", "GET, POST, OPTIONS")
		status = writeJSON(w, status, errorResponse("method not allowed"), h.opt.Pretty)
		return
	}

	req, batch, rerr := parseRequest(r, h.opt.MaxBodyBytes)
	if rerr != nil {
		status = rerr.status
		status = writeJSON(w, status, errorResponse(rerr.message), h.opt.Pretty)
		return
	}
	if h.corsEnabled() {
		setCORSHeaders(w, r, h.opt.CORS)
	}
	if h.opt.RequestContext != nil {
		ctx = h.opt.RequestContext(ctx)
	}

	if batch == nil {
		status = writeJSON(w, status, h.executeOne(ctx, req), h.opt.Pretty)
		return
	}
	// Batched operations run in order so later entries see earlier mutations.
	results := make([]*executor.ExecutionResult, len(batch))
	for i := range batch {
		results[i] = h.executeOne(ctx, batch[i])
	}
	status = writeJSON(w, status, results, h.opt.Pretty)
}

// withRequestID reuses a request id already in ctx so that an outer router
// and the handler report the same id.
func withRequestID(ctx context.Context) (context.Context, int64) {
	if rid, ok := reqid.FromContext(ctx); ok {
		return ctx, rid
	}
	return reqid.NewContext(ctx)
}

// executeOne runs one operation and brackets it with GraphQLStart and
// GraphQLFinish events.
func (h *Handler) executeOne(ctx context.Context, req GraphQLRequest) *executor.ExecutionResult {
	start := time.Now()
	doc, perr := language.ParseQuery(req.Query)
	opType := ""
	if perr == nil {
		opType = operationType(doc, req.OperationName)
	}
	eventbus.Publish(ctx, events.GraphQLStart{Query: req.Query, OperationName: req.OperationName, OperationType: opType})

	var result *executor.ExecutionResult
	if perr != nil {
		result = executor.ErrorResult(perr)
	} else if errs := h.exec.Validate(doc); len(errs) > 0 {
		result = &executor.ExecutionResult{Errors: errs}
	} else {
		result = h.exec.ExecuteRequest(ctx, doc, req.OperationName, req.Variables, nil)
	}

	errs := make([]error, len(result.Errors))
	for i := range result.Errors {
		errs[i] = result.Errors[i]
	}
	eventbus.Publish(ctx, events.GraphQLFinish{
		Query:         req.Query,
		OperationName: req.OperationName,
		OperationType: opType,
		Errors:        errs,
		HasData:       result.DataPresent,
		Duration:      time.Since(start),
	})
	return result
}

// operationType names the operation that would be selected, or "" if none
// would be.
func operationType(doc *language.QueryDocument, name string) string {
	var op *language.OperationDefinition
	switch {
	case name != "":
		op = doc.Operations.ForName(name)
	case len(doc.Operations) == 1:
		op = doc.Operations[0]
	}
	if op == nil {
		return ""
	}
	return string(op.Operation)
}

package server

import (
	"fmt"
	"net/http"

	"github.com/friendsofgo/graphiql"
)

const contentTypeHTML = "text/html; charset=utf-8"

// Playground serves a GraphiQL page that sends queries to endpoint.
func Playground(endpoint string) (http.Handler, error) {
	h, err := graphiql.NewGraphiqlHandler(endpoint)
	if err != nil {
		return nil, fmt.Errorf("graphiql: %w", err)
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.ServeHTTP(&htmlWriter{ResponseWriter: w}, r)
	}), nil
}

// htmlWriter pins the Content-Type of the page. Once the header is sent,
// Header returns a detached map so later changes by the wrapped handler
// cannot reach the response.
type htmlWriter struct {
	http.ResponseWriter
	wroteHeader bool
	detached    http.Header
}

func (w *htmlWriter) Header() http.Header {
	if w.wroteHeader {
		if w.detached == nil {
			w.detached = w.ResponseWriter.Header().Clone()
		}
		return w.detached
	}
	return w.ResponseWriter.Header()
}

func (w *htmlWriter) WriteHeader(code int) {
	if w.wroteHeader {
		return
	}
	w.wroteHeader = true
	w.ResponseWriter.Header().Set("Content-Type", contentTypeHTML)
	w.ResponseWriter.WriteHeader(code)
}

func (w *htmlWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}

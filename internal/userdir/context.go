// Package userdir binds the user store to a GraphQL schema.
package userdir

import (
	"context"
	"errors"

	"github.com/hanpama/userdir/internal/store"
)

// ErrNoContext is returned by resolvers running without a Context.
var ErrNoContext = errors.New("user directory missing from context")

// Context is the handle resolvers use to reach the store. Copies share the
// same store.
type Context struct {
	store *store.Store
}

func New(s *store.Store) Context {
	return Context{store: s}
}

func (c Context) Store() *store.Store { return c.store }

// AddUser stores u and reports whether it replaced an existing record.
func (c Context) AddUser(u store.User) (replaced bool) { return c.store.Insert(u) }

func (c Context) FindUser(id string) (store.User, bool) { return c.store.Lookup(id) }

type ctxKey struct{}

// NewContext returns a copy of ctx carrying c.
func NewContext(ctx context.Context, c Context) context.Context {
	return context.WithValue(ctx, ctxKey{}, c)
}

// FromContext extracts the Context stored by NewContext.
func FromContext(ctx context.Context) (Context, bool) {
	c, ok := ctx.Value(ctxKey{}).(Context)
	if !ok || c.store == nil {
		return Context{}, false
	}
	return c, true
}

// Package correlationid carries a request correlation id through a context.
package correlationid

import (
	"context"

	"github.com/google/uuid"
)

// Header is the HTTP header used to exchange the correlation id.
const Header = "X-Correlation-ID"

type ctxKey struct{}

// NewContext returns a copy of ctx carrying id.
func NewContext(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns the correlation id stored in ctx, if any.
func FromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ctxKey{}).(string)
	return id, ok && id != ""
}

// New generates a fresh correlation id.
func New() string {
	return uuid.NewString()
}

package kernel

import (
	"context"
	"strings"

	"bookstore/internal/pkg/errs"
)

// Principal is the already-authenticated user on whose behalf commands run.
// Authentication itself happens outside the domain; the principal only travels
// through context.Context.
type Principal struct {
	name string
}

// NewPrincipal creates a principal for the given user name.
func NewPrincipal(name string) (Principal, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Principal{}, errs.NewValueIsRequiredError("principal name")
	}
	return Principal{name: name}, nil
}

func (p Principal) Name() string {
	return p.name
}

// IsAnonymous reports whether p is the zero value.
func (p Principal) IsAnonymous() bool {
	return p.name == ""
}

type principalKey struct{}

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom returns the principal attached to ctx, if any.
func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	if !ok || p.IsAnonymous() {
		return Principal{}, false
	}
	return p, true
}

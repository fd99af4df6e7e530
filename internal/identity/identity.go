// Package identity resolves who is making a request. An identity comes from
// the login session or from a bearer token; requests carrying neither are
// Anonymous.
package identity

import (
	"context"
	"net/http"

	"go.uber.org/zap"
)

// Identity is the authenticated actor of a request.
type Identity struct {
	UserID   uint
	Username string
}

// Anonymous is the identity of a request without valid credentials.
var Anonymous = Identity{}

// Authenticated reports whether the identity belongs to a user.
func (i Identity) Authenticated() bool {
	return i.UserID != 0
}

// Is reports whether both identities refer to the same user.
// Anonymous is never equal to anything.
func (i Identity) Is(other Identity) bool {
	return i.Authenticated() && i.UserID == other.UserID
}

type identityKey struct{}

// WithIdentity stores the identity in ctx.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// FromContext returns the identity stored in ctx, or Anonymous.
func FromContext(ctx context.Context) Identity {
	id, _ := ctx.Value(identityKey{}).(Identity)
	return id
}

// A Provider extracts an identity from a request. It returns Anonymous and a
// nil error if the request carries no credentials it understands.
type Provider interface {
	Identify(r *http.Request) (Identity, error)
}

// Middleware asks the providers in order and stores the first authenticated
// identity on the request context. Provider errors are logged and the request
// continues as Anonymous.
func Middleware(log *zap.SugaredLogger, providers ...Provider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			who := Anonymous
			for _, p := range providers {
				id, err := p.Identify(r)
				if err != nil {
					log.Infow("rejected credentials", "path", r.URL.Path, "err", err)

					continue
				}
				if id.Authenticated() {
					who = id

					break
				}
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), who)))
		})
	}
}

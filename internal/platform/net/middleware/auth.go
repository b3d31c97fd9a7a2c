package middleware

import (
	"net/http"

	pnet "stashbox/internal/platform/net"
)

// AuthPort authenticates a request
type AuthPort interface {
	// Parse returns the external user id and, when the credential already names it,
	// the internal owner id
	Parse(r *http.Request) (userID string, ownerID string, err error)
}

// Auth stores the caller's ids on the context, or writes the mapped error envelope
// a nil port lets every request through
func Auth(p AuthPort, write func(w http.ResponseWriter, status int, body any)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if p == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			uid, oid, err := p.Parse(r)
			if err != nil {
				status, body := pnet.Fail(err, pnet.RequestID(r.Context()))
				write(w, status, body)
				return
			}
			ctx := pnet.WithRequest(pnet.WithUser(r.Context(), uid), "", oid)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

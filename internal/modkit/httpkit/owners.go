package httpkit

import (
	"context"
	"net/http"

	perrs "stashbox/internal/platform/errors"
	"stashbox/internal/platform/logger"
	pnet "stashbox/internal/platform/net"

	"github.com/google/uuid"
)

// OwnerResolver maps the authenticated external id to the internal owner id
type OwnerResolver interface {
	Resolve(ctx context.Context, external string) (uuid.UUID, error)
}

// Owners resolves the caller to an internal owner id and stores it on the context
// an owner id already set by the auth port is trusted as is
func Owners(p OwnerResolver, write func(w http.ResponseWriter, status int, body any)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if p == nil || pnet.OwnerID(r.Context()) != "" {
				next.ServeHTTP(w, r)
				return
			}
			ext := pnet.UserID(r.Context())
			if ext == "" {
				status, body := pnet.Fail(perrs.Unauthorizedf("missing owner scope"), pnet.RequestID(r.Context()))
				write(w, status, body)
				return
			}
			id, err := p.Resolve(r.Context(), ext)
			if err != nil {
				status, body := pnet.Fail(err, pnet.RequestID(r.Context()))
				write(w, status, body)
				return
			}
			ctx := pnet.WithOwner(r.Context(), id.String())
			ctx = logger.WithOwner(ctx, id.String())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

package httpkit

import (
	"net/http"

	perrs "stashbox/internal/platform/errors"
	pnet "stashbox/internal/platform/net"

	"github.com/google/uuid"
)

// User is the authenticated external id of the caller
func User(r *http.Request) (string, error) {
	if uid := pnet.UserID(r.Context()); uid != "" {
		return uid, nil
	}
	return "", perrs.Unauthorizedf("missing bearer token")
}

// Owner is the caller's resolved internal owner id
func Owner(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(pnet.OwnerID(r.Context()))
	if err != nil {
		return uuid.Nil, perrs.Unauthorizedf("missing owner scope")
	}
	return id, nil
}

// MustUser is User for routes behind Auth; it panics otherwise
func MustUser(r *http.Request) string { return must(User(r)) }

// MustOwner is Owner for routes behind Owners; it panics otherwise
func MustOwner(r *http.Request) uuid.UUID { return must(Owner(r)) }

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

package httpkit

import (
	"net/http"
	"time"

	phttp "stashbox/internal/platform/net/http"
	"stashbox/internal/platform/net/middleware"
)

// CommonStack is the chain in front of every api route
func CommonStack() []func(http.Handler) http.Handler {
	return middleware.Stack(middleware.Options{Slow: 500 * time.Millisecond})
}

// Auth authenticates with p and answers failures with the JSON envelope
func Auth(p middleware.AuthPort) func(http.Handler) http.Handler {
	return middleware.Auth(p, phttp.JSON)
}

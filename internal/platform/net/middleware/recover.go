package middleware

import (
	"net/http"
	"runtime/debug"

	perr "stashbox/internal/platform/errors"
	"stashbox/internal/platform/logger"
	pnet "stashbox/internal/platform/net"
	phttp "stashbox/internal/platform/net/http"
)

// RecoverJSON turns a handler panic into a 500 envelope and logs the stack
func RecoverJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			v := recover()
			if v == nil {
				return
			}
			if v == http.ErrAbortHandler {
				panic(v)
			}
			logger.C(r.Context()).Error().
				Interface("panic", v).
				Bytes("stack", debug.Stack()).
				Msg("panic recovered")

			status, body := pnet.Fail(perr.PanicErrf("panic recovered"), pnet.RequestID(r.Context()))
			phttp.JSON(w, status, body)
		}()
		next.ServeHTTP(w, r)
	})
}

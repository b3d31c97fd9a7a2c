package middleware

import (
	"net/http"
	"time"

	"stashbox/internal/platform/logger"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// AccessLog writes one line per request; requests at or above slow log at warn
func AccessLog(slow time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)

			elapsed := time.Since(start)
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			log := logger.C(r.Context())
			ev := log.Info()
			if slow > 0 && elapsed >= slow {
				ev = log.Warn()
			}
			ev.Int("status", status).
				Dur("elapsed", elapsed).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("bytes", ww.BytesWritten()).
				Msg("request done")
		})
	}
}

// RequestLogContext copies chi's request id onto the logger context; it runs after chimw.RequestID
func RequestLogContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := logger.WithRequest(r.Context(), chimw.GetReqID(r.Context()), "")
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

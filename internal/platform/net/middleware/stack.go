// Package middleware builds the shared request chain on chi's middleware set
package middleware

import (
	"compress/flate"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Options shapes Stack; zero fields take defaults
type Options struct {
	Slow        time.Duration
	Timeout     time.Duration
	HealthPath  string
	CORSOrigins []string
}

// Stack returns the request chain every api router starts with, outermost first
func Stack(o Options) []func(http.Handler) http.Handler {
	if o.Timeout <= 0 {
		o.Timeout = 30 * time.Second
	}
	if o.HealthPath == "" {
		o.HealthPath = "/health"
	}
	return []func(http.Handler) http.Handler{
		chimw.RequestID,
		RequestLogContext,
		chimw.RealIP,
		RecoverJSON,
		chimw.NoCache,
		AccessLog(o.Slow),
		CORS(o.CORSOrigins),
		chimw.Compress(flate.BestSpeed),
		chimw.Heartbeat(o.HealthPath),
		chimw.StripSlashes,
		chimw.Timeout(o.Timeout),
	}
}

// CORS allows the api headers from origins; no origins allows any
func CORS(origins []string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID", "X-Owner-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	})
}

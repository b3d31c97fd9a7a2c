package swaggerkit

import (
	"encoding/json"
	"net/http"

	"stashbox/internal/core/version"
)

// OwnerScheme names the security scheme of owner scoped operations
const OwnerScheme = "OwnerHeader"

// docReader builds a skeleton document listing the owner scoped operations
var docReader = func() string {
	paths := map[string]any{}
	for p, methods := range SecuredPaths() {
		ops := map[string]any{}
		for _, m := range methods {
			ops[m] = map[string]any{
				"security":  []map[string][]string{{OwnerScheme: {}}},
				"responses": map[string]any{"401": map[string]string{"description": "missing owner scope"}},
			}
		}
		paths[p] = ops
	}
	b, _ := json.Marshal(map[string]any{
		"openapi": "3.0.3",
		"info": map[string]string{
			"title":   "Stashbox API",
			"version": version.Info().Version,
		},
		"servers": []map[string]string{{"url": "/api/v1"}},
		"paths":   paths,
		"components": map[string]any{
			"securitySchemes": map[string]any{
				OwnerScheme: map[string]string{"type": "apiKey", "in": "header", "name": "X-Owner-ID"},
			},
		},
	})
	return string(b)
}

func serveDocJSON() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_, _ = w.Write([]byte(docReader()))
	}
}

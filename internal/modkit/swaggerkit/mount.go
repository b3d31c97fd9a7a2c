// Package swaggerkit serves the api docs UI and records which operations need an owner
package swaggerkit

import (
	"net/http"

	phttp "stashbox/internal/platform/net/http"

	httpSwagger "github.com/swaggo/http-swagger"
)

// Docs locations
const (
	DocsPath = "/api/docs"
	DocJSON  = DocsPath + "/doc.json"
)

// Mount serves the swagger UI under DocsPath; a no-op unless enabled
func Mount(r phttp.Router, enabled bool) {
	if !enabled {
		return
	}
	ui := httpSwagger.Handler(httpSwagger.InstanceName("stashbox"), httpSwagger.URL(DocJSON))
	r.Get(DocsPath, func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, DocsPath+"/index.html", http.StatusFound)
	})
	r.Get(DocJSON, serveDocJSON())
	r.Handle(DocsPath+"/*", ui)
}

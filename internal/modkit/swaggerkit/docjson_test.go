package swaggerkit

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"stashbox/internal/platform/testkit"
)

func TestServeDocJSON_ListsSecuredOperations(t *testing.T) {
	resetSecured()
	t.Cleanup(resetSecured)
	MarkSecurePath("/filters/{id}", "GET")
	MarkSecurePath("/filters/{id}", "delete")
	MarkSecurePath("/filters/{id}", "get")

	rec := httptest.NewRecorder()
	serveDocJSON()(rec, httptest.NewRequest("GET", "/api/docs/doc.json", nil))

	if ct := rec.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Fatalf("content type %q", ct)
	}
	var doc struct {
		Info  map[string]string                    `json:"info"`
		Paths map[string]map[string]map[string]any `json:"paths"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if doc.Info["title"] != "Stashbox API" {
		t.Fatalf("info = %v", doc.Info)
	}
	ops := doc.Paths["/filters/{id}"]
	if len(ops) != 2 || ops["get"] == nil || ops["delete"] == nil {
		t.Fatalf("ops = %v", ops)
	}
	testkit.MustContain(t, rec.Body.String(), `"OwnerHeader"`)
}

func TestSecuredPaths_SortedMethods(t *testing.T) {
	resetSecured()
	t.Cleanup(resetSecured)
	MarkSecurePath("/tags", "POST")
	MarkSecurePath("/tags", "GET")
	got := SecuredPaths()["/tags"]
	if len(got) != 2 || got[0] != "get" || got[1] != "post" {
		t.Fatalf("methods = %v", got)
	}
}

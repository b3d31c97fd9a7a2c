package http

import (
	"context"
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"stashbox/internal/core/paging"
	"stashbox/internal/modkit/httpkit"
	perr "stashbox/internal/platform/errors"
	pnet "stashbox/internal/platform/net"
	phttp "stashbox/internal/platform/net/http"
	"stashbox/internal/services/filters/domain"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type fakeSvc struct {
	owner    uuid.UUID
	created  domain.CreateInput
	criteria domain.Criteria
	req      paging.Request
	deleted  uuid.UUID
	recorded uuid.UUID
}

func (f *fakeSvc) List(_ context.Context, owner uuid.UUID, c domain.Criteria, p paging.Request) (paging.Page[domain.Filter], error) {
	f.owner, f.criteria, f.req = owner, c, p
	if len(p.Sort) > 0 && p.Sort[0] == "bogus" {
		return paging.Page[domain.Filter]{}, perr.Validationf("sort", "Invalid sort field 'bogus'")
	}
	return paging.Page[domain.Filter]{Items: []domain.Filter{{Name: "a"}}, Page: p.Page, Size: 20, Total: 1}, nil
}

func (f *fakeSvc) Get(_ context.Context, owner, id uuid.UUID) (domain.Filter, error) {
	return domain.Filter{}, perr.NotFoundResource(domain.Resource, "id", id)
}

func (f *fakeSvc) Create(_ context.Context, owner uuid.UUID, in domain.CreateInput) (domain.Filter, error) {
	f.owner, f.created = owner, in
	return domain.Filter{ID: uuid.New(), Name: in.Name, Active: true}, nil
}

func (f *fakeSvc) Update(_ context.Context, owner, id uuid.UUID, in domain.UpdateInput) (domain.Filter, error) {
	return domain.Filter{ID: id, Priority: *in.Priority}, nil
}

func (f *fakeSvc) Delete(_ context.Context, owner, id uuid.UUID) error {
	f.deleted = id
	return nil
}

func (f *fakeSvc) Domains(context.Context, uuid.UUID) ([]string, error) { return []string{"x.com"}, nil }

func (f *fakeSvc) MatchURL(context.Context, uuid.UUID, string) (domain.Match, bool, error) {
	return domain.Match{}, false, nil
}

func (f *fakeSvc) RecordMatch(_ context.Context, owner, id uuid.UUID) error {
	f.recorded = id
	return nil
}

func (f *fakeSvc) MatchAndRecord(_ context.Context, _ uuid.UUID, u string) (domain.Match, bool, error) {
	if strings.Contains(u, "/p/") {
		return domain.Match{FilterID: uuid.New(), Value: "42"}, true, nil
	}
	return domain.Match{}, false, nil
}

func newServer(t *testing.T, owner string) (*fakeSvc, stdhttp.Handler) {
	t.Helper()
	f := &fakeSvc{}
	mux := chi.NewRouter()
	mux.Use(func(next stdhttp.Handler) stdhttp.Handler {
		return stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
			if owner != "" {
				r = r.WithContext(pnet.WithOwner(r.Context(), owner))
			}
			next.ServeHTTP(w, r)
		})
	})
	r := phttp.AdaptChi(mux)
	r.Route("/filters", func(rr httpkit.Router) { Register(rr, f) })
	return f, mux
}

func do(h stdhttp.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	var env map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &env)
	return rec, env
}

func TestRoutes(t *testing.T) {
	owner := uuid.New()
	f, h := newServer(t, owner.String())

	rec, env := do(h, "GET", "/filters?active=false&search=shop&sort=priority,desc&page=1", "")
	if rec.Code != 200 || f.owner != owner {
		t.Fatalf("list status=%d owner=%v", rec.Code, f.owner)
	}
	if f.criteria.Active == nil || *f.criteria.Active || f.criteria.Search == nil || f.criteria.Domain != nil {
		t.Fatalf("criteria = %+v", f.criteria)
	}
	if f.req.Page != 1 || f.req.Sort[0] != "priority,desc" {
		t.Fatalf("page req = %+v", f.req)
	}
	if _, ok := env["data"].(map[string]any)["items"]; !ok {
		t.Fatalf("list envelope = %v", env)
	}

	rec, _ = do(h, "GET", "/filters?sort=bogus", "")
	if rec.Code != 400 {
		t.Fatalf("bad sort status = %d", rec.Code)
	}

	rec, _ = do(h, "POST", "/filters", `{"name":"Shop","url_pattern":"https://x.com/*","domain":"x.com","extraction_regex":"/p/(\\d+)","capture_group_index":1,"priority":0}`)
	if rec.Code != 201 || f.created.Name != "Shop" || *f.created.CaptureGroupIndex != 1 {
		t.Fatalf("create status=%d in=%+v body=%s", rec.Code, f.created, rec.Body.String())
	}

	rec, env = do(h, "POST", "/filters", `{"name":"Shop","url_pattern":"p","domain":"x.com","extraction_regex":"[unclosed","capture_group_index":1,"priority":0}`)
	if rec.Code != 400 || env["field"] != "extraction_regex" {
		t.Fatalf("bad regex status=%d env=%v", rec.Code, env)
	}

	rec, env = do(h, "GET", "/filters/domains", "")
	if rec.Code != 200 || env["data"].([]any)[0] != "x.com" {
		t.Fatalf("domains = %d %v", rec.Code, env)
	}

	rec, env = do(h, "POST", "/filters/match", `{"url":"https://x.com/p/42"}`)
	data, _ := env["data"].(map[string]any)
	if rec.Code != 200 || data["matched"] != true || data["value"] != "42" {
		t.Fatalf("match = %d %v", rec.Code, env)
	}
	_, env = do(h, "POST", "/filters/match", `{"url":"https://x.com/none"}`)
	if data := env["data"].(map[string]any); data["matched"] != false || data["filter_id"] != nil {
		t.Fatalf("no match = %v", env)
	}

	id := uuid.New()
	rec, _ = do(h, "PATCH", "/filters/"+id.String(), `{"priority":3}`)
	if rec.Code != 200 {
		t.Fatalf("patch status = %d", rec.Code)
	}
	rec, _ = do(h, "DELETE", "/filters/"+id.String(), "")
	if rec.Code != 204 || f.deleted != id {
		t.Fatalf("delete status=%d", rec.Code)
	}
	rec, _ = do(h, "POST", "/filters/"+id.String()+"/match", "")
	if rec.Code != 204 || f.recorded != id {
		t.Fatalf("record status=%d", rec.Code)
	}
}

func TestMalformedIDIsNotFound(t *testing.T) {
	_, h := newServer(t, uuid.NewString())
	for _, m := range []string{"GET", "DELETE"} {
		rec, env := do(h, m, "/filters/not-a-uuid", "")
		if rec.Code != 404 || env["resource"] != domain.Resource {
			t.Fatalf("%s status=%d env=%v", m, rec.Code, env)
		}
	}
}

func TestMissingOwnerIsUnauthorized(t *testing.T) {
	_, h := newServer(t, "")
	rec, _ := do(h, "GET", "/filters", "")
	if rec.Code != 401 {
		t.Fatalf("status = %d", rec.Code)
	}
}

package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	perr "stashbox/internal/platform/errors"
	pnet "stashbox/internal/platform/net"
	"stashbox/internal/platform/net/middleware"
)

type portFunc func(*http.Request) (string, string, error)

func (f portFunc) Parse(r *http.Request) (string, string, error) { return f(r) }

func TestAuth(t *testing.T) {
	cases := []struct {
		name       string
		port       middleware.AuthPort
		wantStatus int
		wantUser   string
		wantOwner  string
	}{
		{"nil port passes", nil, http.StatusOK, "", ""},
		{"user only", portFunc(func(*http.Request) (string, string, error) { return "ext-1", "", nil }), http.StatusOK, "ext-1", ""},
		{"user and owner", portFunc(func(*http.Request) (string, string, error) { return "ext-2", "own-2", nil }), http.StatusOK, "ext-2", "own-2"},
		{"rejected", portFunc(func(*http.Request) (string, string, error) {
			return "", "", perr.Unauthorizedf("missing bearer token")
		}), http.StatusUnauthorized, "", ""},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var user, owner string
			reached := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				reached = true
				user, owner = pnet.UserID(r.Context()), pnet.OwnerID(r.Context())
			})
			write := func(w http.ResponseWriter, status int, body any) {
				if env, ok := body.(pnet.Envelope); !ok || env.StatusCode != status {
					t.Errorf("body = %#v", body)
				}
				w.WriteHeader(status)
			}

			rr := httptest.NewRecorder()
			middleware.Auth(c.port, write)(next).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

			if rr.Code != c.wantStatus || reached != (c.wantStatus == http.StatusOK) {
				t.Fatalf("code=%d reached=%v", rr.Code, reached)
			}
			if user != c.wantUser || owner != c.wantOwner {
				t.Fatalf("user=%q owner=%q", user, owner)
			}
		})
	}
}

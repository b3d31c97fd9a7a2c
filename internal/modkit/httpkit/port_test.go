package httpkit

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"stashbox/internal/platform/config"
)

func TestPort_Parse(t *testing.T) {
	p := NewPortFunc(func(tok string) (string, string, error) {
		switch tok {
		case "good":
			return "user-1", "owner-1", nil
		case "anon":
			return "", "", nil
		}
		return "", "", errors.New("signature mismatch")
	})
	cases := []struct {
		name, header string
		wantUser     string
		wantErr      bool
	}{
		{"bearer", "Bearer good", "user-1", false},
		{"case insensitive scheme", "bearer   good ", "user-1", false},
		{"missing", "", "", true},
		{"wrong scheme", "Basic good", "", true},
		{"empty token", "Bearer ", "", true},
		{"rejected token", "Bearer bad", "", true},
		{"no subject", "Bearer anon", "", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			uid, _, err := p.Parse(req)
			if (err != nil) != tc.wantErr || uid != tc.wantUser {
				t.Fatalf("uid=%q err=%v", uid, err)
			}
			if err != nil && err.Error() == "signature mismatch" {
				t.Fatalf("parser error leaked")
			}
		})
	}
}

func TestHeaderPort(t *testing.T) {
	p := NewHeaderPort("")
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if _, _, err := p.Parse(req); err == nil {
		t.Fatalf("expected missing header error")
	}
	req.Header.Set(DefaultOwnerHeader, " ext-9 ")
	if uid, oid, err := p.Parse(req); err != nil || uid != "ext-9" || oid != "" {
		t.Fatalf("uid=%q oid=%q err=%v", uid, oid, err)
	}
}

func TestPortFromConfig(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(DefaultOwnerHeader, "from-header")
	req.Header.Set("Authorization", "Bearer from-token")

	cases := []struct {
		name, env string
		wantDev   bool
		wantUser  string
	}{
		{"unset defaults to bearer", "", false, "from-token"},
		{"explicit false", "false", false, "from-token"},
		{"dev auth", "true", true, "from-header"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("PORTCFG_DEV_AUTH", tc.env)
			p, dev := PortFromConfig(config.New().Prefix("PORTCFG_"))
			if dev != tc.wantDev {
				t.Fatalf("dev = %v, want %v", dev, tc.wantDev)
			}
			uid, _, err := p.Parse(req)
			if err != nil || uid != tc.wantUser {
				t.Fatalf("uid=%q err=%v, want %q", uid, err, tc.wantUser)
			}
		})
	}
}

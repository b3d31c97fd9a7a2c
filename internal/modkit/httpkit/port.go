package httpkit

import (
	"net/http"
	"strings"

	"stashbox/internal/platform/config"
	perrs "stashbox/internal/platform/errors"
	"stashbox/internal/platform/net/middleware"
)

// TokenFunc maps a bearer token to the external user id and, when the token names it, the owner id
type TokenFunc func(token string) (userID string, ownerID string, err error)

// Port authenticates the Authorization bearer token through a TokenFunc
type Port struct{ parse TokenFunc }

// NewPortFunc builds a Port around fn
func NewPortFunc(fn TokenFunc) *Port { return &Port{parse: fn} }

// Parse rejects a missing or non bearer Authorization header, then defers to the TokenFunc
// parser failures are reported as an invalid token without their text
func (p *Port) Parse(r *http.Request) (string, string, error) {
	scheme, token, _ := strings.Cut(strings.TrimSpace(r.Header.Get("Authorization")), " ")
	token = strings.TrimSpace(token)
	if !strings.EqualFold(scheme, "bearer") || token == "" {
		return "", "", perrs.Unauthorizedf("missing bearer token")
	}
	if p.parse == nil {
		return "", "", perrs.Unauthorizedf("invalid bearer token")
	}
	uid, oid, err := p.parse(token)
	if err != nil || uid == "" {
		return "", "", perrs.Unauthorizedf("invalid bearer token")
	}
	return uid, oid, nil
}

// DefaultOwnerHeader carries the caller's external id in dev auth
const DefaultOwnerHeader = "X-Owner-ID"

// HeaderPort trusts a plain request header as the external id; it verifies nothing
type HeaderPort struct{ Header string }

// NewHeaderPort reads header, DefaultOwnerHeader when blank
func NewHeaderPort(header string) *HeaderPort {
	if strings.TrimSpace(header) == "" {
		header = DefaultOwnerHeader
	}
	return &HeaderPort{Header: header}
}

// Parse returns the trimmed header value as the external id
func (p *HeaderPort) Parse(r *http.Request) (string, string, error) {
	if v := strings.TrimSpace(r.Header.Get(p.Header)); v != "" {
		return v, "", nil
	}
	return "", "", perrs.Unauthorizedf("missing %s header", p.Header)
}

// PortFromConfig reads DEV_AUTH (default false). Dev auth trusts DefaultOwnerHeader,
// otherwise the bearer token itself is the external id
func PortFromConfig(c config.Conf) (p middleware.AuthPort, dev bool) {
	if c.MayBool("DEV_AUTH", false) {
		return NewHeaderPort(DefaultOwnerHeader), true
	}
	return NewPortFunc(func(token string) (string, string, error) { return token, "", nil }), false
}

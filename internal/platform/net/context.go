// Package net carries request scoped identity and the response envelope shared by transports
package net

import (
	"context"

	chimw "github.com/go-chi/chi/v5/middleware"
)

type ctxKey int

const (
	ownerKey ctxKey = iota
	userKey
)

// WithRequest stores the request id where chi's RequestID middleware keeps it,
// plus the resolved internal owner id; empty values are skipped
func WithRequest(ctx context.Context, reqID, ownerID string) context.Context {
	if reqID != "" {
		ctx = context.WithValue(ctx, chimw.RequestIDKey, reqID)
	}
	if ownerID != "" {
		ctx = context.WithValue(ctx, ownerKey, ownerID)
	}
	return ctx
}

// WithOwner stores the resolved internal owner id
func WithOwner(ctx context.Context, ownerID string) context.Context {
	return WithRequest(ctx, "", ownerID)
}

// WithUser stores the authenticated external user id
func WithUser(ctx context.Context, userID string) context.Context {
	if userID == "" {
		return ctx
	}
	return context.WithValue(ctx, userKey, userID)
}

// RequestID returns the chi request id, or ""
func RequestID(ctx context.Context) string { return chimw.GetReqID(ctx) }

// OwnerID returns the internal owner id, or ""
func OwnerID(ctx context.Context) string {
	s, _ := ctx.Value(ownerKey).(string)
	return s
}

// UserID returns the external user id, or ""
func UserID(ctx context.Context) string {
	s, _ := ctx.Value(userKey).(string)
	return s
}

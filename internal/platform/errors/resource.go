package errors

import (
	"fmt"
	"sync"
)

// Redacted replaces sensitive values in messages
const Redacted = "[REDACTED]"

var sensitive = struct {
	mu sync.RWMutex
	m  map[string]map[string]struct{}
}{m: map[string]map[string]struct{}{}}

// MarkSensitive registers fields of a resource whose values must never appear in messages
// safe to call from package init
func MarkSensitive(resource string, fields ...string) {
	sensitive.mu.Lock()
	defer sensitive.mu.Unlock()
	set, ok := sensitive.m[resource]
	if !ok {
		set = map[string]struct{}{}
		sensitive.m[resource] = set
	}
	for _, f := range fields {
		set[f] = struct{}{}
	}
}

// IsSensitive reports whether resource.field is registered as sensitive
func IsSensitive(resource, field string) bool {
	sensitive.mu.RLock()
	defer sensitive.mu.RUnlock()
	_, ok := sensitive.m[resource][field]
	return ok
}

// Redact returns value, or Redacted when resource.field is sensitive
func Redact(resource, field string, value any) string {
	if IsSensitive(resource, field) {
		return Redacted
	}
	return fmt.Sprint(value)
}

// NotFoundResource builds "<Resource> not found with <field>: <value>"
func NotFoundResource(resource, field string, value any) error {
	v := Redact(resource, field, value)
	return &Error{
		code:     ErrorCodeNotFound,
		msg:      fmt.Sprintf("%s not found with %s: %s", resource, field, v),
		resource: resource,
		field:    field,
		value:    v,
	}
}

// ConflictResource builds "<Resource> already exists with <field>: <value>"
func ConflictResource(resource, field string, value any) error {
	v := Redact(resource, field, value)
	return &Error{
		code:     ErrorCodeConflict,
		msg:      fmt.Sprintf("%s already exists with %s: %s", resource, field, v),
		resource: resource,
		field:    field,
		value:    v,
	}
}

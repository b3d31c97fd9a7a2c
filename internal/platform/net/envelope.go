package net

import (
	"net/http"

	perr "stashbox/internal/platform/errors"
)

// Envelope is the body of every response, success or failure
type Envelope struct {
	StatusCode int            `json:"status_code"`
	Status     string         `json:"status"`
	Code       perr.ErrorCode `json:"code,omitempty"`
	Error      string         `json:"error,omitempty"`
	Resource   string         `json:"resource,omitempty"`
	Field      string         `json:"field,omitempty"`
	RequestID  string         `json:"request_id,omitempty"`
	Data       any            `json:"data,omitempty"`
}

// Reply wraps data in a success envelope
func Reply(status int, data any, reqID string) Envelope {
	return Envelope{
		StatusCode: status,
		Status:     http.StatusText(status),
		RequestID:  reqID,
		Data:       data,
	}
}

// Fail maps err to its status and public envelope; foreign errors read "internal error"
func Fail(err error, reqID string) (int, Envelope) {
	status := perr.HTTPStatus(err)
	w := perr.WireFrom(err)
	return status, Envelope{
		StatusCode: status,
		Status:     http.StatusText(status),
		Code:       w.Code,
		Error:      w.Message,
		Resource:   w.Resource,
		Field:      w.Field,
		RequestID:  reqID,
	}
}

// Package errors is the project error taxonomy; import it as perr
package errors

import (
	stderrs "errors"
	"fmt"
	"net/http"
)

// ErrorCode classifies an error; the numeric values are part of the wire format
type ErrorCode uint16

const (
	ErrorCodeUnknown ErrorCode = iota
	ErrorCodePanic
	ErrorCodeUnavailable
	ErrorCodeConflict
	ErrorCodeUnauthorized
	ErrorCodeForbidden
	ErrorCodeInvalidArgument
	ErrorCodeValidation
	ErrorCodeJSON
	ErrorCodeNotFound
	ErrorCodeDB
)

var codes = map[ErrorCode]struct {
	name   string
	status int
}{
	ErrorCodePanic:           {"panic", http.StatusInternalServerError},
	ErrorCodeUnavailable:     {"unavailable", http.StatusServiceUnavailable},
	ErrorCodeConflict:        {"conflict", http.StatusConflict},
	ErrorCodeUnauthorized:    {"unauthorized", http.StatusUnauthorized},
	ErrorCodeForbidden:       {"forbidden", http.StatusForbidden},
	ErrorCodeInvalidArgument: {"invalid_argument", http.StatusUnprocessableEntity},
	ErrorCodeValidation:      {"validation", http.StatusBadRequest},
	ErrorCodeJSON:            {"json", http.StatusBadRequest},
	ErrorCodeNotFound:        {"not_found", http.StatusNotFound},
	ErrorCodeDB:              {"db", http.StatusInternalServerError},
}

// String is the name used in logs
func (c ErrorCode) String() string {
	if m, ok := codes[c]; ok {
		return m.name
	}
	return "internal"
}

// HTTPStatusCode maps c to an http status; unknown codes are 500
func HTTPStatusCode(c ErrorCode) int {
	if m, ok := codes[c]; ok {
		return m.status
	}
	return http.StatusInternalServerError
}

// ErrNotFound is returned by row helpers when nothing matched
var ErrNotFound = New(ErrorCodeNotFound, "not found")

// Error carries a code, a public message and optional identity metadata
// msg never includes storage text; the cause is only reachable through Unwrap
type Error struct {
	orig     error
	msg      string
	code     ErrorCode
	field    string
	op       string
	resource string
	value    string
}

// Wire is the public projection of an error
type Wire struct {
	Code     ErrorCode `json:"code"`
	Message  string    `json:"message"`
	Resource string    `json:"resource,omitempty"`
	Field    string    `json:"field,omitempty"`
}

func (e *Error) Error() string {
	if e.orig != nil {
		return e.msg + ": " + e.orig.Error()
	}
	return e.msg
}

func (e *Error) Unwrap() error { return e.orig }

func (e *Error) Code() ErrorCode  { return e.code }
func (e *Error) Message() string  { return e.msg }
func (e *Error) Field() string    { return e.field }
func (e *Error) Op() string       { return e.op }
func (e *Error) Resource() string { return e.resource }

// Value is the offending value as rendered in the message, Redacted when sensitive
func (e *Error) Value() string { return e.value }

// WireFrom projects err for clients; errors outside the taxonomy become "internal error"
func WireFrom(err error) Wire {
	if err == nil {
		return Wire{}
	}
	e, ok := As(err)
	if !ok {
		return Wire{Code: ErrorCodeUnknown, Message: "internal error"}
	}
	return Wire{Code: e.code, Message: e.msg, Resource: e.resource, Field: e.field}
}

// As finds the first *Error in err's chain
func As(err error) (*Error, bool) {
	var e *Error
	ok := stderrs.As(err, &e)
	return e, ok
}

// CodeOf returns err's code, ErrorCodeUnknown for foreign errors
func CodeOf(err error) ErrorCode {
	if e, ok := As(err); ok {
		return e.code
	}
	return ErrorCodeUnknown
}

// IsCode reports whether err carries code
func IsCode(err error, code ErrorCode) bool { return CodeOf(err) == code }

// HTTPStatus maps any error to an http status
func HTTPStatus(err error) int { return HTTPStatusCode(CodeOf(err)) }

// New returns an error with code and msg
func New(code ErrorCode, msg string) error { return &Error{code: code, msg: msg} }

// Newf is New with formatting
func Newf(code ErrorCode, format string, a ...any) error {
	return &Error{code: code, msg: fmt.Sprintf(format, a...)}
}

// Wrap attaches code and a public msg to orig
func Wrap(orig error, code ErrorCode, msg string) error {
	return &Error{code: code, msg: msg, orig: orig}
}

// Validationf rejects input, naming the offending field
func Validationf(field, format string, a ...any) error {
	return &Error{code: ErrorCodeValidation, msg: fmt.Sprintf(format, a...), field: field}
}

func NotFoundf(format string, a ...any) error     { return Newf(ErrorCodeNotFound, format, a...) }
func JSONErrf(format string, a ...any) error      { return Newf(ErrorCodeJSON, format, a...) }
func PanicErrf(format string, a ...any) error     { return Newf(ErrorCodePanic, format, a...) }
func Unauthorizedf(format string, a ...any) error { return Newf(ErrorCodeUnauthorized, format, a...) }

// Internal hides orig behind the fixed message "internal error" and tags it with op
func Internal(orig error, op string) error {
	return &Error{code: ErrorCodeUnknown, msg: "internal error", orig: orig, op: op}
}

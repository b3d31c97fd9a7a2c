package errors

import (
	stderrs "errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestCodeTable(t *testing.T) {
	cases := []struct {
		code   ErrorCode
		name   string
		status int
	}{
		{ErrorCodeNotFound, "not_found", http.StatusNotFound},
		{ErrorCodeInvalidArgument, "invalid_argument", http.StatusUnprocessableEntity},
		{ErrorCodeConflict, "conflict", http.StatusConflict},
		{ErrorCodeValidation, "validation", http.StatusBadRequest},
		{ErrorCodeJSON, "json", http.StatusBadRequest},
		{ErrorCodeUnauthorized, "unauthorized", http.StatusUnauthorized},
		{ErrorCodeForbidden, "forbidden", http.StatusForbidden},
		{ErrorCodeUnavailable, "unavailable", http.StatusServiceUnavailable},
		{ErrorCodePanic, "panic", http.StatusInternalServerError},
		{ErrorCodeUnknown, "internal", http.StatusInternalServerError},
		{9999, "internal", http.StatusInternalServerError},
	}
	for _, c := range cases {
		if c.code.String() != c.name || HTTPStatusCode(c.code) != c.status {
			t.Fatalf("%d: got %s/%d want %s/%d", c.code, c.code, HTTPStatusCode(c.code), c.name, c.status)
		}
	}
}

func TestWrapKeepsCauseOutOfMessage(t *testing.T) {
	root := stderrs.New("root")
	err := fmt.Errorf("outer: %w", Wrap(root, ErrorCodeDB, "db failed"))

	e, ok := As(err)
	if !ok || e.Code() != ErrorCodeDB || e.Message() != "db failed" {
		t.Fatalf("As = %+v %v", e, ok)
	}
	if e.Error() != "db failed: root" || !stderrs.Is(err, root) {
		t.Fatalf("chain broken: %q", e.Error())
	}
	if HTTPStatus(err) != http.StatusInternalServerError || !IsCode(err, ErrorCodeDB) {
		t.Fatalf("status or code mismatch")
	}
	if _, ok := As(root); ok {
		t.Fatalf("As matched a foreign error")
	}
}

func TestSugarCodes(t *testing.T) {
	for err, want := range map[error]ErrorCode{
		NotFoundf("x"):                   ErrorCodeNotFound,
		JSONErrf("x"):                    ErrorCodeJSON,
		PanicErrf("x"):                   ErrorCodePanic,
		Unauthorizedf("x"):               ErrorCodeUnauthorized,
		Newf(ErrorCodeConflict, "%d", 1): ErrorCodeConflict,
	} {
		if CodeOf(err) != want {
			t.Fatalf("%v: code %v want %v", err, CodeOf(err), want)
		}
	}
}

func TestValidationfCarriesField(t *testing.T) {
	err := Validationf("captureGroupIndex", "captureGroupIndex must be between %d and %d", 0, 20)
	e, ok := As(err)
	if !ok || e.Field() != "captureGroupIndex" {
		t.Fatalf("expected field captureGroupIndex, got %+v", e)
	}
	if w := WireFrom(err); w.Field != "captureGroupIndex" || w.Message != "captureGroupIndex must be between 0 and 20" {
		t.Fatalf("wire = %+v", w)
	}
}

func TestWireNeverLeaksForeignText(t *testing.T) {
	w := WireFrom(stderrs.New("pq: relation user_filters does not exist"))
	if w.Code != ErrorCodeUnknown || strings.Contains(w.Message, "user_filters") {
		t.Fatalf("wire leaked storage text: %+v", w)
	}
	if WireFrom(nil) != (Wire{}) {
		t.Fatalf("WireFrom(nil) should be zero")
	}
}

func TestInternalHidesCause(t *testing.T) {
	cause := stderrs.New("duplicate key value violates unique constraint \"x\"")
	err := Internal(cause, "filters.create")
	if !stderrs.Is(err, cause) {
		t.Fatalf("cause must stay reachable")
	}
	w := WireFrom(err)
	if w.Message != "internal error" || w.Code != ErrorCodeUnknown {
		t.Fatalf("unexpected wire %+v", w)
	}
	if e, _ := As(err); e.Op() != "filters.create" {
		t.Fatalf("op = %q", e.Op())
	}
}

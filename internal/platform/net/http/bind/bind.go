// Package bind decodes request bodies and validates them with go-playground/validator
package bind

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"regexp"
	"strings"
	"sync"

	perr "stashbox/internal/platform/errors"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entrans "github.com/go-playground/validator/v10/translations/en"
)

// MaxBody caps the bytes ParseJSON reads
const MaxBody = 1 << 20

type checker struct {
	v     *validator.Validate
	trans ut.Translator
}

// short english messages for the tags our payloads use
var messages = map[string]string{
	"min":   "{0} must be at least {1}",
	"max":   "{0} must be at most {1}",
	"regex": "{0} must be a valid regular expression",
}

var get = sync.OnceValue(func() checker {
	loc := en.New()
	trans, _ := ut.New(loc, loc).GetTranslator("en")

	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	_ = entrans.RegisterDefaultTranslations(v, trans)

	_ = v.RegisterValidation("regex", func(fl validator.FieldLevel) bool {
		_, err := regexp.Compile(fl.Field().String())
		return err == nil
	})
	for tag, text := range messages {
		tag, text := tag, text
		_ = v.RegisterTranslation(tag, trans,
			func(t ut.Translator) error { return t.Add(tag, text, true) },
			func(t ut.Translator, fe validator.FieldError) string {
				msg, _ := t.T(tag, fe.Field(), fe.Param())
				return msg
			},
		)
	}
	return checker{v: v, trans: trans}
})

// ParseJSON decodes exactly one JSON value of type T from the body and validates it
// unknown fields, trailing data and empty bodies are JSON errors
func ParseJSON[T any](r *http.Request) (T, error) {
	var dst T
	defer r.Body.Close()

	dec := json.NewDecoder(io.LimitReader(r.Body, MaxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&dst); err != nil {
		var zero T
		if errors.Is(err, io.EOF) {
			return zero, perr.JSONErrf("empty body")
		}
		return zero, perr.JSONErrf("invalid JSON: %v", err)
	}
	if dec.More() {
		var zero T
		return zero, perr.JSONErrf("unexpected trailing data")
	}
	if err := Validate(dst); err != nil {
		var zero T
		return zero, err
	}
	return dst, nil
}

// Validate checks v's validate tags and reports the first failure as a validation error on its json field
func Validate(v any) error {
	c := get()
	err := c.v.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return perr.Internal(err, "bind.validate")
	}
	fe := verrs[0]
	return perr.Validationf(fe.Field(), "%s", fe.Translate(c.trans))
}

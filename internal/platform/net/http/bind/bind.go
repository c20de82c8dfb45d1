// Package bind decodes and validates request bodies and query values
package bind

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	perr "gridwatch/internal/platform/errors"
	"gridwatch/internal/platform/logger"
)

// ValidatorSvc is the process wide validator with its english translator
type ValidatorSvc struct {
	Validator  *validator.Validate
	Translator ut.Translator
}

var (
	vOnce sync.Once
	vSvc  *ValidatorSvc
)

// Get returns the validator, building it on first use
func Get() *ValidatorSvc {
	vOnce.Do(func() {
		loc := en.New()
		trans, _ := ut.New(loc, loc).GetTranslator("en")

		v := validator.New(validator.WithRequiredStructEnabled())
		// messages name the json field, not the Go one
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
			if name == "" || name == "-" {
				return fld.Name
			}
			return name
		})
		_ = en_translations.RegisterDefaultTranslations(v, trans)

		translate(v, trans, "min", "{0} must be at least {1}")
		translate(v, trans, "max", "{0} must be at most {1}")

		_ = v.RegisterValidation("group_key", func(fl validator.FieldLevel) bool {
			return groupKeyRe.MatchString(fl.Field().String())
		})
		translate(v, trans, "group_key", "{0} must look like 5.2 or GPV5.2")

		vSvc = &ValidatorSvc{Validator: v, Translator: trans}
	})
	return vSvc
}

// groupKeyRe matches outage queue names such as "5.2" or "GPV5.2"
var groupKeyRe = regexp.MustCompile(`^(GPV)?\d{1,2}\.\d$`)

func translate(v *validator.Validate, trans ut.Translator, tag, text string) {
	_ = v.RegisterTranslation(tag, trans,
		func(t ut.Translator) error { return t.Add(tag, text, true) },
		func(t ut.Translator, fe validator.FieldError) string {
			msg, _ := t.T(tag, fe.Field(), fe.Param())
			return msg
		},
	)
}

// JSONOptions controls ParseJSON
type JSONOptions struct {
	// MaxBytes caps the body, 1MB when zero
	MaxBytes int64
	// DisallowUnknown rejects fields T does not declare
	DisallowUnknown bool
	// AllowEmptyBody yields the zero T for an empty body
	AllowEmptyBody bool
}

// ParseJSON decodes the body into T, validates it and maps failures to JSON or Validation errors
func ParseJSON[T any](r *http.Request, opts ...JSONOptions) (T, error) {
	var zero T
	o := JSONOptions{DisallowUnknown: true}
	if len(opts) > 0 {
		o = opts[0]
	}
	if o.MaxBytes <= 0 {
		o.MaxBytes = 1 << 20
	}
	defer func() {
		if err := r.Body.Close(); err != nil {
			logger.Get().Error().Err(err).Msg("failed to close request body")
		}
	}()

	raw, err := io.ReadAll(io.LimitReader(r.Body, o.MaxBytes+1))
	if err != nil {
		return zero, perr.JSONErrf("read body: %v", err)
	}
	if int64(len(raw)) > o.MaxBytes {
		return zero, perr.JSONErrf("body larger than %d bytes", o.MaxBytes)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		if o.AllowEmptyBody || r.Method == http.MethodGet {
			return zero, nil
		}
		return zero, perr.JSONErrf("empty body")
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	if o.DisallowUnknown {
		dec.DisallowUnknownFields()
	}
	var dst T
	if err := dec.Decode(&dst); err != nil {
		return zero, perr.JSONErrf("invalid JSON: %v", err)
	}
	if dec.More() {
		return zero, perr.JSONErrf("unexpected trailing data")
	}

	if err := Get().Validator.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if !asValidation(err, &verrs) {
			logger.Get().Error().Err(err).Msg("validator internal error")
			return zero, perr.JSONErrf("validation error")
		}
		fe := verrs[0]
		return zero, perr.WithField(perr.Newf(perr.ErrorCodeValidation, "%s", fe.Translate(Get().Translator)), fe.Field())
	}
	return dst, nil
}

// Var validates a single value such as a query parameter against tag.
// The returned error is a Validation error naming field
func Var(field string, value any, tag string) error {
	err := Get().Validator.Var(value, tag)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !asValidation(err, &verrs) {
		return perr.Newf(perr.ErrorCodeValidation, "%s is invalid", field)
	}
	msg := strings.TrimSpace(verrs[0].Translate(Get().Translator))
	if f := verrs[0].Field(); f != "" {
		msg = strings.Replace(msg, f, field, 1)
	} else {
		msg = field + " " + msg
	}
	return perr.WithField(perr.Newf(perr.ErrorCodeValidation, "%s", msg), field)
}

func asValidation(err error, out *validator.ValidationErrors) bool {
	v, ok := err.(validator.ValidationErrors)
	if ok && len(v) > 0 {
		*out = v
		return true
	}
	return false
}

// Package validator checks request fields before anything is persisted.  It
// wraps go-playground/validator: structs carry `validate` tags plus an
// optional `label` used in messages, and only the first violation, in field
// declaration order, is reported.
package validator

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"regexp"
	"strings"
	"unicode"

	playground "github.com/go-playground/validator/v10"

	"github.com/iliyamo/portfolio-backend/internal/model"
)

// Error is a single field violation.  Message is safe to show to clients.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string { return e.Message }

// Fail builds a violation directly, for checks that are not struct tags
// (missing or oversized uploads).
func Fail(field, format string, args ...any) error {
	return &Error{Field: field, Message: fmt.Sprintf(format, args...)}
}

// Validator is the echo.Validator registered on the server.
type Validator struct {
	v *playground.Validate
}

// New builds a Validator with the custom rules registered.  Field names in
// errors are the json names.
func New() *Validator {
	v := playground.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		switch name {
		case "-":
			return ""
		case "":
			return f.Name
		}
		return name
	})
	rules := map[string]playground.Func{
		"strongpw":    strongPassword,
		"phone":       phone,
		"weburl":      webURL,
		"gender":      gender,
		"proficiency": proficiency,
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(fmt.Sprintf("validator: register %s: %v", tag, err))
		}
	}
	return &Validator{v: v}
}

// Validate checks i and returns the first violation as *Error.
func (cv *Validator) Validate(i any) error {
	err := cv.v.Struct(i)
	if err == nil {
		return nil
	}
	var fields playground.ValidationErrors
	if !errors.As(err, &fields) || len(fields) == 0 {
		return err
	}
	fe := fields[0]
	return &Error{Field: fe.Field(), Message: message(fe, label(i, fe))}
}

var std = New()

// Struct validates with a shared Validator, for callers outside a request
// context such as the services.
func Struct(i any) error { return std.Validate(i) }

func message(fe playground.FieldError, label string) string {
	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "min":
		return fmt.Sprintf("%s should be at least %s characters long", label, fe.Param())
	case "max":
		return fmt.Sprintf("%s should be at most %s characters long", label, fe.Param())
	case "weburl":
		return label + " URL is not valid"
	case "strongpw":
		return label + " should be strong (min 8 characters, 1 uppercase, 1 lowercase, 1 number, 1 symbol)"
	case "gender":
		return label + " must be 'male', 'female', or 'others'"
	case "proficiency":
		return label + " must be one of Beginner, Intermediate, Advanced, Expert"
	case "eqfield":
		return label + " does not match"
	default:
		return label + " is not valid"
	}
}

// label resolves the `label` tag of the failing field by walking its struct
// namespace, falling back to the json name.
func label(i any, fe playground.FieldError) string {
	t := reflect.TypeOf(i)
	parts := strings.Split(fe.StructNamespace(), ".")
	var sf reflect.StructField
	for _, part := range parts[1:] {
		for t.Kind() == reflect.Pointer || t.Kind() == reflect.Slice || t.Kind() == reflect.Array {
			t = t.Elem()
		}
		if t.Kind() != reflect.Struct {
			return fe.Field()
		}
		name, _, _ := strings.Cut(part, "[")
		f, ok := t.FieldByName(name)
		if !ok {
			return fe.Field()
		}
		sf, t = f, f.Type
	}
	if l := sf.Tag.Get("label"); l != "" {
		return l
	}
	return fe.Field()
}

func strongPassword(fl playground.FieldLevel) bool {
	v := fl.Field().String()
	var upper, lower, digit, symbol bool
	for _, r := range v {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			symbol = true
		}
	}
	return len(v) >= 8 && len(v) <= 72 && upper && lower && digit && symbol
}

var phonePattern = regexp.MustCompile(`^\+?[0-9][0-9 \-]*[0-9]$`)

// phone accepts digits with an optional leading + and inner spaces or
// dashes, 10 to 15 digits in all.
func phone(fl playground.FieldLevel) bool {
	v := fl.Field().String()
	digits := 0
	for _, r := range v {
		if unicode.IsDigit(r) {
			digits++
		}
	}
	return phonePattern.MatchString(v) && digits >= 10 && digits <= 15
}

// webURL accepts http(s) URLs; a missing scheme is read as https.
func webURL(fl playground.FieldLevel) bool {
	v := fl.Field().String()
	if strings.ContainsAny(v, " \t\n") {
		return false
	}
	if !strings.Contains(v, "://") {
		v = "https://" + v
	}
	u, err := url.ParseRequestURI(v)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return false
	}
	host := u.Hostname()
	return host != "" && (strings.Contains(host, ".") || host == "localhost")
}

func gender(fl playground.FieldLevel) bool {
	_, ok := model.NormalizeGender(fl.Field().String())
	return ok
}

func proficiency(fl playground.FieldLevel) bool {
	_, ok := model.NormalizeProficiency(fl.Field().String())
	return ok
}

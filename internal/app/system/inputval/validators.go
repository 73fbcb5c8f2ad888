// internal/app/system/inputval/validators.go
package inputval

import (
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"
)

// allowedAuthMethods are the sign-in methods accounts may use.
var allowedAuthMethods = []string{"password", "google"}

// IsValidAuthMethod reports whether method (any case, trimmed) is allowed.
func IsValidAuthMethod(method string) bool {
	method = strings.ToLower(strings.TrimSpace(method))
	for _, m := range allowedAuthMethods {
		if method == m {
			return true
		}
	}
	return false
}

// AllowedAuthMethodsList returns the allowed auth methods in display order.
func AllowedAuthMethodsList() []string {
	out := make([]string, len(allowedAuthMethods))
	copy(out, allowedAuthMethods)
	return out
}

// IsValidHTTPURL reports whether s is an absolute http(s) URL.
func IsValidHTTPURL(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}

// IsValidObjectID reports whether s is a 24-character hex ObjectID.
func IsValidObjectID(s string) bool {
	s = strings.TrimSpace(s)
	if len(s) != 24 {
		return false
	}
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'f', r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}

// FieldError is a single validation failure.
type FieldError struct {
	Field   string
	Message string
}

// Result collects the failures from a Validate call, in field order.
type Result struct {
	Errors []FieldError
}

// HasErrors reports whether any rule failed.
func (r *Result) HasErrors() bool {
	return len(r.Errors) > 0
}

// First returns the first error message, or "".
func (r *Result) First() string {
	if len(r.Errors) == 0 {
		return ""
	}
	return r.Errors[0].Message
}

// All joins every error message with "; ".
func (r *Result) All() string {
	parts := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		parts[i] = e.Message
	}
	return strings.Join(parts, "; ")
}

// Validate checks the string fields of a struct against its `validate`
// tags. Supported rules: required, max=N, email, authmethod, httpurl,
// objectid. The `label` tag supplies the human name used in messages.
//
// Rules other than required are skipped for empty values, so optional
// fields validate only when present.
func Validate(input any) *Result {
	res := &Result{}

	v := reflect.ValueOf(input)
	if v.Kind() == reflect.Pointer {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return res
	}
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("validate")
		if tag == "" || field.Type.Kind() != reflect.String {
			continue
		}

		label := field.Tag.Get("label")
		if label == "" {
			label = field.Name
		}
		value := v.Field(i).String()

		for _, rule := range strings.Split(tag, ",") {
			if msg := applyRule(rule, label, value); msg != "" {
				res.Errors = append(res.Errors, FieldError{Field: field.Name, Message: msg})
				break // report one error per field
			}
		}
	}
	return res
}

func applyRule(rule, label, value string) string {
	trimmed := strings.TrimSpace(value)

	switch {
	case rule == "required":
		if trimmed == "" {
			return label + " is required."
		}
	case strings.HasPrefix(rule, "max="):
		n, err := strconv.Atoi(strings.TrimPrefix(rule, "max="))
		if err == nil && len(trimmed) > n {
			return fmt.Sprintf("%s must be at most %d characters.", label, n)
		}
	case rule == "email":
		if trimmed != "" && !IsValidEmail(trimmed) {
			return "A valid email address is required."
		}
	case rule == "authmethod":
		if trimmed != "" && !IsValidAuthMethod(trimmed) {
			return label + " is not a recognized auth method."
		}
	case rule == "httpurl":
		if trimmed != "" && !IsValidHTTPURL(trimmed) {
			return label + " must be an http(s) URL."
		}
	case rule == "objectid":
		if trimmed != "" && !IsValidObjectID(trimmed) {
			return label + " is not a valid identifier."
		}
	}
	return ""
}

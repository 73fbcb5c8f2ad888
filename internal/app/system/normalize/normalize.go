// internal/app/system/normalize/normalize.go
//
// Package normalize centralizes the small string cleanups applied to
// user-supplied values before they are stored or compared. Every store
// and form handler goes through these helpers so that, for example, an
// email address is always lowercased in exactly one place.
package normalize

import "strings"

// Email trims whitespace and lowercases an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims whitespace from a display name, preserving case.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// AuthMethod trims and lowercases an auth method ("password", "google").
func AuthMethod(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Status trims and lowercases a status value.
func Status(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Role trims and lowercases a raw role string. Mapping the result onto a
// canonical role is authz's job; this only cleans the input.
func Role(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// QueryParam trims whitespace from a query parameter, preserving case.
func QueryParam(s string) string {
	return strings.TrimSpace(s)
}

// CompanyID trims a company-id filter value. The sentinel "all" (any
// case) means "no company filter" and normalizes to the empty string.
func CompanyID(s string) string {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "all") {
		return ""
	}
	return s
}

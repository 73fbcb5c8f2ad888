// Package status holds the shared record status values used across stores.
package status

const (
	Active   = "active"
	Disabled = "disabled"
	Inactive = "inactive"
)

// IsValid reports whether s is one of the recognized status values.
func IsValid(s string) bool {
	switch s {
	case Active, Disabled, Inactive:
		return true
	}
	return false
}

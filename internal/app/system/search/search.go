// internal/app/system/search/search.go
package search

import "strings"

// EmailPivotOK reports whether it’s safe & useful to pivot a paged search
// from name-based sorting to email-based sorting.
//
// We consider it safe to pivot when:
//   - The user is clearly searching by email (the query contains '@'), and
//   - The result set is constrained by status (e.g., active/disabled). For lists
//     scoped to a single company (e.g., a customer roster), we also require the
//     company constraint to keep the indexed path selective enough.
//
// Typical usage in company-scoped lists:
//
//	pivot := search.EmailPivotOK(query, status, scopeCompany != nil)
//	sortField := "full_name_ci"
//	if pivot {
//	    sortField = "email"
//	}
//
// For unscoped lists (e.g., the Team page across all companies), use
// EmailPivotUnscopedOK.
//
//	pivot := search.EmailPivotUnscopedOK(query, status)
func EmailPivotOK(search, status string, hasCompany bool) bool {
	qHasAt := strings.Contains(search, "@")
	statusFixed := equalsAnyFold(status, "active", "disabled")
	return qHasAt && statusFixed && hasCompany
}

// EmailPivotUnscopedOK is a variant for global lists with no company
// constraint. Requires that the query looks like an email and the status
// filter is constrained, then pivots to sort by email.
func EmailPivotUnscopedOK(search, status string) bool {
	qHasAt := strings.Contains(search, "@")
	statusFixed := equalsAnyFold(status, "active", "disabled")
	return qHasAt && statusFixed
}

func equalsAnyFold(s string, vals ...string) bool {
	s = strings.TrimSpace(strings.ToLower(s))
	for _, v := range vals {
		if s == strings.ToLower(v) {
			return true
		}
	}
	return false
}

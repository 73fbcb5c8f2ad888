// Package filterset narrows entity collections with combinable predicates
// before they reach aggregation or display: case-insensitive text search,
// categorical and status filters, and date windows.
//
// Active filters AND together. The zero value of every field ("", All) is a
// pass-through, never an exclusion, so an untouched filter form shows the
// whole collection. Filtering is stable (input order preserved) and
// idempotent; sorting is a deliberately separate stage (see SortByDateDesc).
package filterset

import (
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/dalemusser/opshub/internal/app/system/datewindow"
	"github.com/dalemusser/waffle/pantry/query"
)

// AllValue is the query-parameter spelling of "no constraint" for the
// categorical and status filters.
const AllValue = "all"

// Filters is the recognized filter configuration for a list page.
type Filters struct {
	Search   string            // case-insensitive substring match
	Category string            // one-of-enum or "all"/""
	Status   string            // one-of-enum or "all"/""
	Window   datewindow.Window // date window, All = no constraint
}

// FromRequest reads the standard filter query parameters (q, category,
// status, window) from a request.
func FromRequest(r *http.Request) Filters {
	return Filters{
		Search:   strings.TrimSpace(query.Get(r, "q")),
		Category: strings.TrimSpace(query.Get(r, "category")),
		Status:   strings.TrimSpace(query.Get(r, "status")),
		Window:   datewindow.ParseWindow(query.Get(r, "window")),
	}
}

// IsZero reports whether no filter is active.
func (f Filters) IsZero() bool {
	return f.Search == "" && passthrough(f.Category) && passthrough(f.Status) &&
		f.Window == datewindow.All
}

// Fields tells Apply how to read filterable values out of an entity.
// Nil accessors disable that filter dimension for the entity type.
type Fields[T any] struct {
	SearchText func(T) []string             // fields matched by Search
	Category   func(T) string               // matched exactly against Category
	Status     func(T) string               // matched exactly against Status
	Date       func(T) (time.Time, bool)    // ok=false means no date, excluded by any window
}

// Apply returns the records matching every active filter, in input order.
// ref anchors the date window (normally time.Now().UTC()).
func Apply[T any](items []T, f Filters, fields Fields[T], ref time.Time) []T {
	if f.IsZero() {
		return items
	}

	searched := strings.ToLower(f.Search)
	out := make([]T, 0, len(items))

	for _, it := range items {
		if searched != "" {
			if fields.SearchText == nil || !matchesSearch(fields.SearchText(it), searched) {
				continue
			}
		}
		if !passthrough(f.Category) {
			if fields.Category == nil || fields.Category(it) != f.Category {
				continue
			}
		}
		if !passthrough(f.Status) {
			if fields.Status == nil || fields.Status(it) != f.Status {
				continue
			}
		}
		if f.Window != datewindow.All {
			if fields.Date == nil {
				continue
			}
			d, ok := fields.Date(it)
			if !ok || !f.Window.Contains(d, ref) {
				continue
			}
		}
		out = append(out, it)
	}
	return out
}

// SortByDateDesc sorts newest-first by the extracted date. This is the
// explicit sort stage applied after filtering for audit and time-entry
// lists; it is never folded into Apply.
func SortByDateDesc[T any](items []T, date func(T) time.Time) {
	sort.SliceStable(items, func(i, j int) bool {
		return date(items[i]).After(date(items[j]))
	})
}

func passthrough(v string) bool {
	return v == "" || strings.EqualFold(v, AllValue)
}

func matchesSearch(texts []string, loweredNeedle string) bool {
	for _, t := range texts {
		if strings.Contains(strings.ToLower(t), loweredNeedle) {
			return true
		}
	}
	return false
}

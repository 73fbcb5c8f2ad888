// Package viewstate is the one small state shape every entity list page
// shares: fetch status, active filters, the expanded row, list/grid layout,
// and modal visibility. Pages used to re-implement this per view; keeping a
// single reducer means a page cannot invent a fifth loading flag.
//
// The execution model is single-threaded per page: one event is applied at a
// time and a recomputation happens only when a new snapshot arrives or a
// filter/role/page parameter changes.
package viewstate

import "github.com/dalemusser/opshub/internal/app/system/filterset"

// Status is the fetch lifecycle of the page's backing query.
type Status int

const (
	Idle Status = iota
	Loading
	Ready
	Failed
)

// String returns the display name of the status.
func (s Status) String() string {
	switch s {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Failed:
		return "error"
	default:
		return "idle"
	}
}

// Layout is the list presentation toggle.
type Layout int

const (
	List Layout = iota
	Grid
)

// State is the per-page UI state. The zero value is a valid idle state.
type State struct {
	Status     Status
	Err        string // user-facing message when Status == Failed
	Filters    filterset.Filters
	ExpandedID string // hex id of the expanded row, "" = none
	Layout     Layout
	ModalOpen  bool
}

// StartLoading marks a fetch in flight. A previous error is cleared; the
// stale data a page may still show while loading is the caller's concern.
func (s State) StartLoading() State {
	s.Status = Loading
	s.Err = ""
	return s
}

// Loaded marks the current snapshot applied.
func (s State) Loaded() State {
	s.Status = Ready
	s.Err = ""
	return s
}

// FailedWith records a fetch failure. The message is what presentation
// shows; retry policy belongs to the data layer, not here.
func (s State) FailedWith(msg string) State {
	s.Status = Failed
	s.Err = msg
	return s
}

// WithFilters replaces the active filters and collapses any expanded row,
// since the row may no longer be in the filtered set.
func (s State) WithFilters(f filterset.Filters) State {
	s.Filters = f
	s.ExpandedID = ""
	return s
}

// ToggleExpanded expands the given row, or collapses it if it was already
// expanded.
func (s State) ToggleExpanded(id string) State {
	if s.ExpandedID == id {
		s.ExpandedID = ""
	} else {
		s.ExpandedID = id
	}
	return s
}

// WithLayout switches the list/grid presentation.
func (s State) WithLayout(l Layout) State {
	s.Layout = l
	return s
}

// OpenModal and CloseModal toggle the page's modal.
func (s State) OpenModal() State  { s.ModalOpen = true; return s }
func (s State) CloseModal() State { s.ModalOpen = false; return s }

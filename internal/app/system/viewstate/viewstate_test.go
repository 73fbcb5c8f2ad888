package viewstate_test

import (
	"sync"
	"testing"

	"github.com/dalemusser/opshub/internal/app/system/filterset"
	"github.com/dalemusser/opshub/internal/app/system/viewstate"
)

func TestZeroValueIsIdle(t *testing.T) {
	var s viewstate.State
	if s.Status != viewstate.Idle {
		t.Errorf("zero state status = %v, want Idle", s.Status)
	}
	if s.ExpandedID != "" || s.ModalOpen || s.Err != "" {
		t.Error("zero state should have no expansion, no modal, no error")
	}
}

func TestLoadCycle(t *testing.T) {
	var s viewstate.State

	s = s.StartLoading()
	if s.Status != viewstate.Loading {
		t.Errorf("status = %v, want Loading", s.Status)
	}

	s = s.Loaded()
	if s.Status != viewstate.Ready {
		t.Errorf("status = %v, want Ready", s.Status)
	}
}

func TestFailureClearsOnRetry(t *testing.T) {
	var s viewstate.State

	s = s.FailedWith("database unreachable")
	if s.Status != viewstate.Failed || s.Err != "database unreachable" {
		t.Errorf("got status=%v err=%q", s.Status, s.Err)
	}

	s = s.StartLoading()
	if s.Err != "" {
		t.Errorf("retry should clear the error, got %q", s.Err)
	}
}

func TestWithFiltersCollapsesExpansion(t *testing.T) {
	var s viewstate.State
	s = s.ToggleExpanded("abc123")
	if s.ExpandedID != "abc123" {
		t.Fatalf("ExpandedID = %q, want abc123", s.ExpandedID)
	}

	s = s.WithFilters(filterset.Filters{Search: "invoice"})
	if s.ExpandedID != "" {
		t.Error("changing filters should collapse the expanded row")
	}
	if s.Filters.Search != "invoice" {
		t.Errorf("Filters.Search = %q, want invoice", s.Filters.Search)
	}
}

func TestToggleExpanded(t *testing.T) {
	var s viewstate.State

	s = s.ToggleExpanded("a")
	if s.ExpandedID != "a" {
		t.Errorf("ExpandedID = %q, want a", s.ExpandedID)
	}

	// Expanding a different row replaces the expansion.
	s = s.ToggleExpanded("b")
	if s.ExpandedID != "b" {
		t.Errorf("ExpandedID = %q, want b", s.ExpandedID)
	}

	// Toggling the same row collapses it.
	s = s.ToggleExpanded("b")
	if s.ExpandedID != "" {
		t.Errorf("ExpandedID = %q, want empty", s.ExpandedID)
	}
}

func TestModalAndLayout(t *testing.T) {
	var s viewstate.State

	s = s.OpenModal()
	if !s.ModalOpen {
		t.Error("OpenModal should set ModalOpen")
	}
	s = s.CloseModal()
	if s.ModalOpen {
		t.Error("CloseModal should clear ModalOpen")
	}

	s = s.WithLayout(viewstate.Grid)
	if s.Layout != viewstate.Grid {
		t.Errorf("Layout = %v, want Grid", s.Layout)
	}
}

func TestStatusString(t *testing.T) {
	tests := []struct {
		s    viewstate.Status
		want string
	}{
		{viewstate.Idle, "idle"},
		{viewstate.Loading, "loading"},
		{viewstate.Ready, "ready"},
		{viewstate.Failed, "error"},
	}
	for _, tt := range tests {
		if got := tt.s.String(); got != tt.want {
			t.Errorf("%v.String() = %q, want %q", tt.s, got, tt.want)
		}
	}
}

func TestSequencer_StaleFetchDiscarded(t *testing.T) {
	var seq viewstate.Sequencer

	first := seq.Begin()
	second := seq.Begin()

	// The older fetch finished after a newer one was issued; its result
	// must be discarded.
	if seq.Apply(first) {
		t.Error("stale sequence number should not apply")
	}
	if !seq.Apply(second) {
		t.Error("newest sequence number should apply")
	}
}

func TestSequencer_SingleFetchApplies(t *testing.T) {
	var seq viewstate.Sequencer
	n := seq.Begin()
	if !seq.Apply(n) {
		t.Error("the only issued fetch should apply")
	}
}

func TestSequencer_Concurrent(t *testing.T) {
	var seq viewstate.Sequencer
	var wg sync.WaitGroup

	const fetchers = 50
	results := make([]uint64, fetchers)
	for i := 0; i < fetchers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = seq.Begin()
		}(i)
	}
	wg.Wait()

	// Exactly one of the issued numbers is still current.
	applied := 0
	for _, n := range results {
		if seq.Apply(n) {
			applied++
		}
	}
	if applied != 1 {
		t.Errorf("%d sequence numbers applied, want exactly 1", applied)
	}
}

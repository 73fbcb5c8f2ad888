// internal/app/system/viewstate/sequencer.go
package viewstate

import "sync"

// Sequencer implements stale-response protection for page fetches: each
// issued fetch gets a sequence number, and only the result carrying the
// newest number may be applied. A superseded in-flight fetch's result is
// discarded rather than clobbering a fresher snapshot.
//
// Safe for concurrent use; fetch completions may land on any goroutine even
// though state application itself is single-threaded.
type Sequencer struct {
	mu  sync.Mutex
	seq uint64
}

// Begin registers a new fetch and returns its sequence number.
func (s *Sequencer) Begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	return s.seq
}

// Apply reports whether the fetch with the given sequence number is still
// the newest one. A false return means the result must be discarded.
func (s *Sequencer) Apply(seq uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return seq == s.seq
}

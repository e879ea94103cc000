package core

import "sync/atomic"

// Sequencer issues monotonically increasing request tokens so a caller can
// tell whether a completed analysis has been superseded by a newer one.
type Sequencer struct {
	last atomic.Uint64
}

// Next issues a new token.
func (s *Sequencer) Next() uint64 {
	return s.last.Add(1)
}

// Current reports whether token is the most recently issued one.
func (s *Sequencer) Current(token uint64) bool {
	return s.last.Load() == token
}

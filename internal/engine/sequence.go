package engine

import "sync/atomic"

// Sequencer hands out strictly increasing sequence numbers starting after
// the value it was created with.
type Sequencer struct {
	next atomic.Uint64
}

func NewSequencer(start uint64) *Sequencer {
	s := &Sequencer{}
	s.next.Store(start)
	return s
}

// Next returns the next sequence number.
func (s *Sequencer) Next() uint64 {
	return s.next.Add(1)
}

// Current returns the last issued sequence number.
func (s *Sequencer) Current() uint64 {
	return s.next.Load()
}

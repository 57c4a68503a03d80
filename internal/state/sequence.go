package state

import "sync/atomic"

// Sequence hands out freshness tokens. A fetch takes a token before it starts
// and applies its result only if no newer fetch has started since.
type Sequence struct {
	n atomic.Uint64
}

func (s *Sequence) Next() uint64 {
	return s.n.Add(1)
}

func (s *Sequence) IsLatest(token uint64) bool {
	return s.n.Load() == token
}

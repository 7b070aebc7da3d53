package spammer

import (
	"sync"

	"github.com/Treymsby/eth-network/host"
	"github.com/Treymsby/eth-network/workload"
)

// Sequencer owns the serialization the engine refuses to carry: every call
// funnels through one mutex, so concurrent spam goroutines apply in a total
// order and the engine stays lock-free.
type Sequencer struct {
	mu  sync.Mutex
	eng *workload.Engine
}

func NewSequencer(eng *workload.Engine) *Sequencer {
	return &Sequencer{eng: eng}
}

// Do applies one request and reports its receipt.
func (s *Sequencer) Do(opts host.CallOpts, req workload.Request) (*host.Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.eng.Execute(opts, req)
}

// Sample runs fn under the call lock, giving consistent between-call reads of
// engine state. The monitor's collector samples through this.
func (s *Sequencer) Sample(fn func(*workload.Engine)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.eng)
}

package spammer

import (
	"sync"

	"github.com/Treymsby/eth-network/host"
)

// Stats aggregates run outcomes across spam goroutines.
type Stats struct {
	mu       sync.Mutex
	calls    uint64
	failures uint64
	gasUsed  uint64
	entries  uint64
	slotGas  uint64 // gas committed since the last governor read
}

// StatsSnapshot is a point-in-time copy of run counters.
type StatsSnapshot struct {
	Calls    uint64
	Failures uint64
	GasUsed  uint64
	Entries  uint64
}

func (s *Stats) RecordReceipt(r *host.Receipt) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.gasUsed += r.GasUsed
	s.slotGas += r.GasUsed
	s.entries += uint64(len(r.Logs))
}

func (s *Stats) RecordFailure() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.failures++
}

// TakeSlotGas returns and resets the gas accumulated since the last take; the
// steady schedule's governor reads its feedback through this.
func (s *Stats) TakeSlotGas() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	gas := s.slotGas
	s.slotGas = 0
	return gas
}

func (s *Stats) Snapshot() StatsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return StatsSnapshot{
		Calls:    s.calls,
		Failures: s.failures,
		GasUsed:  s.gasUsed,
		Entries:  s.entries,
	}
}

package host

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// State is the host's committed persistent store: uint64-keyed word slots, the
// accumulator cell and the value balance. Mutation happens only through frame
// commits, so between calls a State is safe to read.
type State struct {
	slots   map[uint64]common.Hash
	sink    common.Hash
	balance uint256.Int
}

func NewState(genesisSink common.Hash) *State {
	return &State{slots: make(map[uint64]common.Hash), sink: genesisSink}
}

// Slot returns the committed word at key; absent slots read as the zero word.
func (s *State) Slot(key uint64) common.Hash {
	return s.slots[key]
}

// SlotCount reports how many slots hold a written word.
func (s *State) SlotCount() int { return len(s.slots) }

// Sink returns the committed accumulator word.
func (s *State) Sink() common.Hash { return s.sink }

// Balance returns a copy of the value credited by value-bearing calls.
func (s *State) Balance() *uint256.Int { return new(uint256.Int).Set(&s.balance) }

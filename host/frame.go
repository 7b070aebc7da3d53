package host

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Frame is the scratch context of one call: a meter plus buffered state writes
// and buffered log entries. Nothing in a frame is visible outside the call
// until the host commits it; a failed call's frame is dropped whole.
type Frame struct {
	op    string
	meter *Meter
	sched CostSchedule

	state  *State
	caller common.Address
	value  *uint256.Int
	time   uint64

	dirty       map[uint64]common.Hash
	sink        common.Hash
	sinkDirty   bool
	sinkCharged bool
	entries     []LogEntry
}

func newFrame(op string, meter *Meter, sched CostSchedule, state *State, caller common.Address, value *uint256.Int, time uint64) *Frame {
	return &Frame{
		op:     op,
		meter:  meter,
		sched:  sched,
		state:  state,
		caller: caller,
		value:  value,
		time:   time,
		dirty:  make(map[uint64]common.Hash),
		sink:   state.sink,
	}
}

func (f *Frame) Meter() *Meter          { return f.meter }
func (f *Frame) Schedule() CostSchedule { return f.sched }
func (f *Frame) Caller() common.Address { return f.caller }
func (f *Frame) Time() uint64           { return f.time }

// Value returns the value attached to the call, zero if none.
func (f *Frame) Value() *uint256.Int {
	if f.value == nil {
		return new(uint256.Int)
	}
	return new(uint256.Int).Set(f.value)
}

// SLoad charges a slot read and returns the word at key, honoring writes
// buffered earlier in the same call.
func (f *Frame) SLoad(key uint64) (common.Hash, error) {
	if err := f.meter.Charge(f.op, f.sched.SlotRead); err != nil {
		return common.Hash{}, err
	}
	return f.current(key), nil
}

// SStore buffers a slot write. Filling an empty slot costs SlotSet,
// overwriting a live word costs SlotUpdate.
func (f *Frame) SStore(key uint64, val common.Hash) error {
	cost := f.sched.SlotSet
	if f.current(key) != (common.Hash{}) {
		cost = f.sched.SlotUpdate
	}
	if err := f.meter.Charge(f.op, cost); err != nil {
		return err
	}
	f.dirty[key] = val
	return nil
}

func (f *Frame) current(key uint64) common.Hash {
	if v, ok := f.dirty[key]; ok {
		return v
	}
	return f.state.Slot(key)
}

// Sink returns the call's working accumulator word.
func (f *Frame) Sink() common.Hash { return f.sink }

// SetSink buffers an accumulator update. The accumulator lives in a single
// storage cell, so only the first update in a call is charged.
func (f *Frame) SetSink(v common.Hash) error {
	if err := f.meter.Charge(f.op, f.SinkUpdateGas()); err != nil {
		return err
	}
	f.sink = v
	f.sinkDirty = true
	f.sinkCharged = true
	return nil
}

// SinkUpdateGas is what the next SetSink will charge: the update cost for the
// first one in the call, zero after that. Self-pacing profiles reserve
// against it.
func (f *Frame) SinkUpdateGas() uint64 {
	if f.sinkCharged {
		return 0
	}
	return f.sched.SinkUpdate
}

// Emit charges for and buffers one log entry. The data is copied; index and
// emitter are filled in at commit.
func (f *Frame) Emit(topics []common.Hash, data []byte) error {
	if err := f.meter.Charge(f.op, f.sched.LogGas(len(topics), len(data))); err != nil {
		return err
	}
	f.entries = append(f.entries, LogEntry{
		Topics: topics,
		Data:   append([]byte(nil), data...),
		Time:   f.time,
	})
	return nil
}

// ChargeHash meters one mix over the given number of 32-byte words.
func (f *Frame) ChargeHash(words uint64) error {
	return f.meter.Charge(f.op, f.sched.HashGas(words))
}

// ChargeMemory meters a transient array of the given number of words.
func (f *Frame) ChargeMemory(words uint64) error {
	return f.meter.Charge(f.op, f.sched.MemoryGas(words))
}

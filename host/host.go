// Package host models a metered execution host: calls arrive with a gas
// budget, run against persistent word-slot state, and either commit whole or
// leave no trace. The engine in package workload supplies call bodies; this
// package owns metering, state, atomicity and the broadcast log.
//
// A Host deliberately contains no synchronization. The serialization of calls
// is the driver's obligation (see spammer.Sequencer); in exchange every run
// with a fixed seed and call sequence is bit-for-bit reproducible.
package host

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"github.com/holiman/uint256"
)

// DefaultCallGasLimit is a mainnet-shaped per-call budget.
const DefaultCallGasLimit = uint64(30_000_000)

// Config carries everything a Host needs. Zero fields fall back to defaults.
type Config struct {
	Schedule CostSchedule // zero value: DefaultCostSchedule
	Clock    Clock        // nil: deterministic step clock
	GasLimit uint64       // default per-call budget; 0: DefaultCallGasLimit
	Address  common.Address
	Genesis  common.Hash // starting accumulator word
	Sink     Sink        // nil: DiscardSink
	Log      log.Logger  // nil: log.Root()
}

// CallOpts parameterizes one call. Zero fields fall back to host defaults.
type CallOpts struct {
	Caller common.Address
	Value  *uint256.Int // nil or zero: plain call
	Gas    uint64       // 0: host gas limit
	Time   uint64       // 0: clock reading
}

// Receipt reports one committed call. Failed calls produce no receipt.
type Receipt struct {
	Op       string      `json:"op"`
	GasUsed  uint64      `json:"gasUsed"`
	GasLimit uint64      `json:"gasLimit"`
	Time     uint64      `json:"time"`
	Sink     common.Hash `json:"sink"`
	Logs     []LogEntry  `json:"logs"`
}

// Host owns the committed state and runs calls against it one at a time.
type Host struct {
	sched    CostSchedule
	clock    Clock
	gasLimit uint64
	addr     common.Address
	sink     Sink
	state    *State
	logIndex uint64
	log      log.Logger
}

func New(cfg Config) *Host {
	if cfg.Schedule == (CostSchedule{}) {
		cfg.Schedule = DefaultCostSchedule()
	}
	if cfg.Clock == nil {
		cfg.Clock = DefaultClock()
	}
	if cfg.GasLimit == 0 {
		cfg.GasLimit = DefaultCallGasLimit
	}
	if cfg.Sink == nil {
		cfg.Sink = DiscardSink{}
	}
	if cfg.Log == nil {
		cfg.Log = log.Root()
	}
	return &Host{
		sched:    cfg.Schedule,
		clock:    cfg.Clock,
		gasLimit: cfg.GasLimit,
		addr:     cfg.Address,
		sink:     cfg.Sink,
		state:    NewState(cfg.Genesis),
		log:      cfg.Log,
	}
}

// State exposes the committed store for read-only sampling between calls.
func (h *Host) State() *State { return h.state }

func (h *Host) Schedule() CostSchedule { return h.sched }

func (h *Host) GasLimit() uint64 { return h.gasLimit }

func (h *Host) Address() common.Address { return h.addr }

// LogIndex returns the index the next committed entry will take; it equals
// the number of entries broadcast so far.
func (h *Host) LogIndex() uint64 { return h.logIndex }

// Execute runs one call: charge intrinsic gas for the encoded input, run the
// body against a fresh frame, and commit on success. On any error the frame
// is discarded and committed state is exactly as before the call.
func (h *Host) Execute(op string, opts CallOpts, input []byte, body func(*Frame) error) (*Receipt, error) {
	gas := opts.Gas
	if gas == 0 {
		gas = h.gasLimit
	}
	time := opts.Time
	if time == 0 {
		time = h.clock.Now()
	}
	var value *uint256.Int
	if opts.Value != nil && !opts.Value.IsZero() {
		value = new(uint256.Int).Set(opts.Value)
	}

	meter := NewMeter(gas)
	if err := meter.Charge(op, h.sched.IntrinsicGas(input, value != nil)); err != nil {
		return nil, err
	}

	frame := newFrame(op, meter, h.sched, h.state, opts.Caller, value, time)
	if err := body(frame); err != nil {
		h.log.Debug("call reverted", "op", op, "gasUsed", meter.Used(), "err", err)
		return nil, err
	}

	receipt := h.commit(op, frame)
	h.log.Trace("call committed", "op", op, "gasUsed", receipt.GasUsed, "logs", len(receipt.Logs), "sink", receipt.Sink)
	return receipt, nil
}

func (h *Host) commit(op string, f *Frame) *Receipt {
	for k, v := range f.dirty {
		h.state.slots[k] = v
	}
	if f.sinkDirty {
		h.state.sink = f.sink
	}
	if f.value != nil {
		h.state.balance.Add(&h.state.balance, f.value)
	}
	for i := range f.entries {
		f.entries[i].Index = h.logIndex
		f.entries[i].Emitter = h.addr
		h.logIndex++
	}
	if len(f.entries) > 0 {
		h.sink.Publish(f.entries)
	}
	return &Receipt{
		Op:       op,
		GasUsed:  f.meter.Used(),
		GasLimit: f.meter.Limit(),
		Time:     f.time,
		Sink:     h.state.sink,
		Logs:     f.entries,
	}
}

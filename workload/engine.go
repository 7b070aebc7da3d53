// Package workload implements the gas-burning engine: a set of workload
// profiles executed against the metered host in package host. Each profile
// stresses one axis of the host (storage growth, compute and transient
// memory, broadcast-log volume, raw input size or sheer call count) while
// keeping every run reproducible through a seeded keccak accumulator chain.
package workload

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/log"
	"github.com/holiman/uint256"

	"github.com/Treymsby/eth-network/host"
)

const (
	// DefaultSafetyMargin is the gas reserve adaptive-fill leaves untouched.
	DefaultSafetyMargin = uint64(50_000)

	MaxComputeIterations = uint64(1024)
	MaxComputeArraySize  = uint64(4096)
	MaxHashIterations    = uint64(500_000)
)

// DefaultEngineAddress is where entries appear to come from when no address
// is configured.
var DefaultEngineAddress = common.BytesToAddress(crypto.Keccak256([]byte("gasburn"))[12:])

// Config parameterizes an Engine. The zero value is usable: seed zero is a
// valid, reproducible starting point and everything else has defaults.
type Config struct {
	Seed         uint64
	GasLimit     uint64 // default per-call budget; 0: host.DefaultCallGasLimit
	SafetyMargin uint64 // adaptive-fill reserve; 0: DefaultSafetyMargin
	Schedule     host.CostSchedule
	Clock        host.Clock
	Address      common.Address
	Sink         host.Sink
	Log          log.Logger
}

// Engine executes workload requests against a metered host. It carries no
// synchronization: callers serialize, normally through spammer.Sequencer,
// and get bit-for-bit reproducible traces in return.
type Engine struct {
	host   *host.Host
	margin uint64
	log    log.Logger
}

func New(cfg Config) *Engine {
	if cfg.SafetyMargin == 0 {
		cfg.SafetyMargin = DefaultSafetyMargin
	}
	if cfg.Address == (common.Address{}) {
		cfg.Address = DefaultEngineAddress
	}
	if cfg.Log == nil {
		cfg.Log = log.Root()
	}
	h := host.New(host.Config{
		Schedule: cfg.Schedule,
		Clock:    cfg.Clock,
		GasLimit: cfg.GasLimit,
		Address:  cfg.Address,
		Genesis:  SeedSink(cfg.Seed),
		Sink:     cfg.Sink,
		Log:      cfg.Log,
	})
	return &Engine{host: h, margin: cfg.SafetyMargin, log: cfg.Log}
}

// Execute dispatches one request. A receipt comes back only for committed
// calls; on error the engine state is exactly as before the call.
func (e *Engine) Execute(opts host.CallOpts, req Request) (*host.Receipt, error) {
	op := string(req.Kind())
	return e.host.Execute(op, opts, req.Input(), func(f *host.Frame) error {
		if !f.Value().IsZero() && req.Kind() != KindInflateValue {
			return host.InvalidParamf(op, "value", "entrypoint is not payable")
		}
		return e.run(f, req)
	})
}

func (e *Engine) run(f *host.Frame, req Request) error {
	switch r := req.(type) {
	case StorageChurnRequest:
		return runStorageChurn(f, r)
	case StorageOnlyRequest:
		return runStorageOnly(f, r)
	case ComputeMemoryRequest:
		return runComputeMemory(f, r)
	case HashOnlyRequest:
		return runHashOnly(f, r)
	case LogBloatRequest:
		return runLogBloat(f, r)
	case LogAndStorageRequest:
		return runLogAndStorage(f, r)
	case AdaptiveFillRequest:
		return runAdaptiveFill(f, r, e.margin)
	case InflateRequest, InflateValueRequest:
		// Calldata is the workload here: the whole cost is the input
		// accounting the host already charged. The payable twin's value is
		// credited at commit.
		return nil
	case EmitRequest:
		return runEmit(f, r)
	case EmitBatchRequest:
		return runEmitBatch(f, r)
	default:
		return host.InvalidParamf("execute", "request", "unsupported request type %T", req)
	}
}

// Sink returns the committed accumulator word.
func (e *Engine) Sink() common.Hash { return e.host.State().Sink() }

// Slot returns the committed word at key; unwritten slots read as zero.
func (e *Engine) Slot(key uint64) common.Hash { return e.host.State().Slot(key) }

// SlotCount reports how many slots hold a written word.
func (e *Engine) SlotCount() int { return e.host.State().SlotCount() }

// Balance returns the value credited by inflate-value calls.
func (e *Engine) Balance() *uint256.Int { return e.host.State().Balance() }

// LogIndex is the index the next committed entry will take; it equals the
// total number of entries broadcast so far.
func (e *Engine) LogIndex() uint64 { return e.host.LogIndex() }

func (e *Engine) GasLimit() uint64 { return e.host.GasLimit() }

func (e *Engine) SafetyMargin() uint64 { return e.margin }

func (e *Engine) Schedule() host.CostSchedule { return e.host.Schedule() }

func (e *Engine) Address() common.Address { return e.host.Address() }

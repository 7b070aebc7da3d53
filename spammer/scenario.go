package spammer

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/Treymsby/eth-network/host"
	"github.com/Treymsby/eth-network/workload"
)

// Scenario presets. Each one pressures a different host axis.
const (
	// ScenarioBigBlock fills block space: huge calldata and fat log entries.
	ScenarioBigBlock = "bigblock"
	// ScenarioHighCompute burns cycles and transient memory.
	ScenarioHighCompute = "highcompute"
	// ScenarioHighGas drains call budgets through storage and adaptive fill.
	ScenarioHighGas = "highgas"
	// ScenarioMaxTx floods with the cheapest possible calls.
	ScenarioMaxTx = "max-tx"
)

// Scenarios lists the presets in a stable order.
func Scenarios() []string {
	return []string{ScenarioBigBlock, ScenarioHighCompute, ScenarioHighGas, ScenarioMaxTx}
}

// NewGenerator builds the seeded request generator for a scenario name.
func NewGenerator(scenario string, seed uint64) (Generator, error) {
	rng := rand.New(rand.NewSource(int64(seed)))
	g := &scenarioGenerator{rng: rng, callers: spamCallers(rng, 8)}
	switch scenario {
	case ScenarioBigBlock:
		g.pick = pickBigBlock
	case ScenarioHighCompute:
		g.pick = pickHighCompute
	case ScenarioHighGas:
		g.pick = pickHighGas
	case ScenarioMaxTx:
		g.pick = pickMaxTx
	default:
		return nil, fmt.Errorf("unknown scenario %q, valid: %s", scenario, strings.Join(Scenarios(), ", "))
	}
	return g, nil
}

// scenarioGenerator rotates callers and draws request parameters from seeded
// randomness.
type scenarioGenerator struct {
	rng     *rand.Rand
	callers []common.Address
	pick    func(rng *rand.Rand, opts *host.CallOpts) workload.Request
}

var _ Generator = (*scenarioGenerator)(nil)

func (g *scenarioGenerator) Next() (host.CallOpts, workload.Request) {
	opts := host.CallOpts{Caller: g.callers[g.rng.Intn(len(g.callers))]}
	req := g.pick(g.rng, &opts)
	return opts, req
}

func spamCallers(rng *rand.Rand, n int) []common.Address {
	callers := make([]common.Address, n)
	for i := range callers {
		rng.Read(callers[i][:])
	}
	return callers
}

func pickBigBlock(rng *rand.Rand, opts *host.CallOpts) workload.Request {
	payload := randPayload(rng, 4096, 96*1024)
	switch rng.Intn(3) {
	case 0:
		return workload.InflateRequest{Payload: payload}
	case 1:
		return workload.LogBloatRequest{Payload: payload, Count: uint64(1 + rng.Intn(8))}
	default:
		opts.Value = uint256.NewInt(uint64(1 + rng.Intn(1000)))
		return workload.InflateValueRequest{Payload: payload}
	}
}

func pickHighCompute(rng *rand.Rand, _ *host.CallOpts) workload.Request {
	if rng.Intn(2) == 0 {
		return workload.ComputeMemoryRequest{
			Iterations: uint64(1 + rng.Intn(64)),
			ArraySize:  uint64(32 + rng.Intn(993)),
		}
	}
	return workload.HashOnlyRequest{Iterations: uint64(1_000 + rng.Intn(49_001))}
}

func pickHighGas(rng *rand.Rand, _ *host.CallOpts) workload.Request {
	switch rng.Intn(3) {
	case 0:
		return workload.StorageChurnRequest{Iterations: uint64(16 + rng.Intn(241))}
	case 1:
		return workload.StorageOnlyRequest{Iterations: uint64(16 + rng.Intn(241))}
	default:
		return workload.AdaptiveFillRequest{Payload: randPayload(rng, 64, 512)}
	}
}

func pickMaxTx(rng *rand.Rand, _ *host.CallOpts) workload.Request {
	if rng.Intn(4) == 0 {
		tags := make([]uint64, 1+rng.Intn(31))
		for i := range tags {
			tags[i] = rng.Uint64()
		}
		return workload.EmitBatchRequest{Tags: tags}
	}
	return workload.EmitRequest{Tag: rng.Uint64()}
}

func randPayload(rng *rand.Rand, min, max int) []byte {
	p := make([]byte, min+rng.Intn(max-min+1))
	rng.Read(p)
	return p
}

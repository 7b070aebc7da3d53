package workload

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/Treymsby/eth-network/host"
)

// runComputeMemory burns compute and transient memory: a charged scratch
// array is refilled iteration by iteration and folded whole into the
// accumulator. The array never escapes the call; the accumulator commit is
// the only persistent write.
func runComputeMemory(f *host.Frame, r ComputeMemoryRequest) error {
	op := string(KindComputeMemory)
	if r.Iterations == 0 || r.Iterations > MaxComputeIterations {
		return host.InvalidParamf(op, "iterations", "must be in (0, %d], got %d", MaxComputeIterations, r.Iterations)
	}
	if r.ArraySize == 0 || r.ArraySize > MaxComputeArraySize {
		return host.InvalidParamf(op, "arraySize", "must be in (0, %d], got %d", MaxComputeArraySize, r.ArraySize)
	}
	if err := f.ChargeMemory(r.ArraySize); err != nil {
		return err
	}
	arr := make([]common.Hash, r.ArraySize)
	for i := uint64(0); i < r.Iterations; i++ {
		for j := uint64(0); j < r.ArraySize; j++ {
			if err := f.ChargeHash(4); err != nil {
				return err
			}
			arr[j] = Mix(f.Sink(), U64Word(i), U64Word(j), U64Word(f.Time()))
		}
		// Fold the whole array into the chain: one mix over 1+ArraySize
		// words per outer iteration, for iterations*size+iterations total.
		if err := f.ChargeHash(1 + r.ArraySize); err != nil {
			return err
		}
		if err := f.SetSink(Mix(f.Sink(), arr...)); err != nil {
			return err
		}
	}
	return nil
}

// runHashOnly strips the compute profile to pure hashing: no scratch array,
// no slot traffic, just the accumulator chain over index and time.
func runHashOnly(f *host.Frame, r HashOnlyRequest) error {
	op := string(KindHashOnly)
	if r.Iterations == 0 || r.Iterations > MaxHashIterations {
		return host.InvalidParamf(op, "iterations", "must be in (0, %d], got %d", MaxHashIterations, r.Iterations)
	}
	for i := uint64(0); i < r.Iterations; i++ {
		if err := f.ChargeHash(3); err != nil {
			return err
		}
		if err := f.SetSink(Mix(f.Sink(), U64Word(i), U64Word(f.Time()))); err != nil {
			return err
		}
	}
	return nil
}

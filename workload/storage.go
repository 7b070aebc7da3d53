package workload

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/Treymsby/eth-network/host"
)

// runStorageChurn reads, mixes and rewrites sequential slots, folding each
// fresh word into the accumulator and logging each iteration. Iterations is
// deliberately unbounded: sizing calls against the budget is the caller's
// contract, and an over-ask fails whole with no partial writes.
func runStorageChurn(f *host.Frame, r StorageChurnRequest) error {
	for i := uint64(0); i < r.Iterations; i++ {
		cur, err := f.SLoad(i)
		if err != nil {
			return err
		}
		h, err := churnWord(f, cur, i)
		if err != nil {
			return err
		}
		if err := f.SStore(i, h); err != nil {
			return err
		}
		if err := f.SetSink(XorWords(f.Sink(), h)); err != nil {
			return err
		}
		if err := f.Emit([]common.Hash{EventChurn.Topic0, U64Word(i)}, churnData(h)); err != nil {
			return err
		}
	}
	return nil
}

// runStorageOnly is churn without the log emissions and with an evolving key:
// each write lands at i offset by the accumulator's low word, so repeated
// calls spread over fresh slots instead of rewriting the same range.
func runStorageOnly(f *host.Frame, r StorageOnlyRequest) error {
	for i := uint64(0); i < r.Iterations; i++ {
		key := i + WordU64(f.Sink())
		cur, err := f.SLoad(key)
		if err != nil {
			return err
		}
		h, err := churnWord(f, cur, i)
		if err != nil {
			return err
		}
		if err := f.SStore(key, h); err != nil {
			return err
		}
		if err := f.SetSink(XorWords(f.Sink(), h)); err != nil {
			return err
		}
	}
	return nil
}

// churnWord derives the next stored word from the current slot value, the
// accumulator, the frame time and the iteration index.
func churnWord(f *host.Frame, cur common.Hash, i uint64) (common.Hash, error) {
	if err := f.ChargeHash(4); err != nil {
		return common.Hash{}, err
	}
	return Mix(cur, f.Sink(), U64Word(f.Time()), U64Word(i)), nil
}

// churnData lays out the Churn event body: mixed word then stored word. The
// stored word is the mixed word taken as-is; the entry still carries both
// fields so observers see the full write.
func churnData(h common.Hash) []byte {
	data := make([]byte, 0, 64)
	data = append(data, h[:]...)
	data = append(data, h[:]...)
	return data
}

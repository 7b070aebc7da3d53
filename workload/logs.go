package workload

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/Treymsby/eth-network/host"
)

// runLogBloat floods the broadcast log: the payload goes out unchanged Count
// times, with the payload length and the emission index folded into the chain
// before each entry.
func runLogBloat(f *host.Frame, r LogBloatRequest) error {
	if err := validateBloat(string(KindLogBloat), r.Payload, r.Count); err != nil {
		return err
	}
	return bloat(f, r.Payload, r.Count)
}

// runLogAndStorage extends the bloat loop with a storage tail: slots 1..Slots
// take fresh accumulator-derived words. The keys are the same on every call,
// so repeated invocations overwrite state instead of growing it.
func runLogAndStorage(f *host.Frame, r LogAndStorageRequest) error {
	if err := validateBloat(string(KindLogAndStorage), r.Payload, r.Count); err != nil {
		return err
	}
	if err := bloat(f, r.Payload, r.Count); err != nil {
		return err
	}
	for j := uint64(0); j < r.Slots; j++ {
		key := j + 1
		if err := f.ChargeHash(2); err != nil {
			return err
		}
		if err := f.SStore(key, Mix(f.Sink(), U64Word(key))); err != nil {
			return err
		}
	}
	return nil
}

func validateBloat(op string, payload []byte, count uint64) error {
	if len(payload) == 0 {
		return host.InvalidParamf(op, "payload", "must not be empty")
	}
	if count == 0 {
		return host.InvalidParamf(op, "count", "must be positive")
	}
	return nil
}

func bloat(f *host.Frame, payload []byte, count uint64) error {
	for j := uint64(0); j < count; j++ {
		if err := f.ChargeHash(3); err != nil {
			return err
		}
		if err := f.SetSink(Mix(f.Sink(), U64Word(uint64(len(payload))), U64Word(j))); err != nil {
			return err
		}
		if err := f.Emit([]common.Hash{EventBloat.Topic0}, payload); err != nil {
			return err
		}
	}
	return nil
}

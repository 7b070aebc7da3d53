package workload

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/Treymsby/eth-network/host"
)

// runAdaptiveFill consumes whatever budget the call arrived with, down to the
// safety margin. Each iteration is priced up front (entry, mix and any
// pending accumulator charge) and the loop only proceeds while that full
// price plus the margin fits in the remaining budget, so a positive margin
// can never see the meter run dry here, no matter how the call budget and
// payload size combine.
func runAdaptiveFill(f *host.Frame, r AdaptiveFillRequest, margin uint64) error {
	if len(r.Payload) == 0 {
		return host.InvalidParamf(string(KindAdaptiveFill), "payload", "must not be empty")
	}
	perEntry := f.Schedule().LogGas(2, len(r.Payload))
	perMix := f.Schedule().HashGas(2)
	for idx := uint64(0); ; idx++ {
		need := perEntry + perMix + f.SinkUpdateGas() + margin
		if f.Meter().Remaining() <= need {
			return nil
		}
		if err := f.Emit([]common.Hash{EventFill.Topic0, U64Word(idx)}, r.Payload); err != nil {
			return err
		}
		if err := f.SetSink(Mix(f.Sink(), U64Word(idx))); err != nil {
			return err
		}
	}
}

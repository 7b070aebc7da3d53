package workload

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/lmittmann/w3"
)

// The engine's call and event surface, declared once in Solidity shape.
// Function selectors head the encoded inputs the host meters; event Topic0
// values are what collectors key entry counts on.
var (
	funcStorageChurn  = w3.MustNewFunc("storageChurn(uint256 iterations)", "")
	funcStorageOnly   = w3.MustNewFunc("storageOnly(uint256 iterations)", "")
	funcComputeMemory = w3.MustNewFunc("computeMemory(uint256 iterations, uint256 arraySize)", "")
	funcHashOnly      = w3.MustNewFunc("hashLoop(uint256 iterations)", "")
	funcLogBloat      = w3.MustNewFunc("logBloat(bytes payload, uint256 count)", "")
	funcLogAndStorage = w3.MustNewFunc("logAndStorage(bytes payload, uint256 count, uint256 slots)", "")
	funcAdaptiveFill  = w3.MustNewFunc("fillRemaining(bytes payload)", "")
	funcInflate       = w3.MustNewFunc("inflate(bytes payload)", "")
	funcInflateValue  = w3.MustNewFunc("inflateValue(bytes payload)", "")
	funcEmit          = w3.MustNewFunc("emitTag(uint64 tag)", "")
	funcEmitBatch     = w3.MustNewFunc("emitTags(uint64[] tags)", "")

	// EventChurn marks one churn iteration: indexed slot index, then the
	// mixed and the stored word.
	EventChurn = w3.MustNewEvent("Churn(uint256 indexed index, bytes32 mixed, bytes32 stored)")
	// EventBloat carries a bloat payload verbatim.
	EventBloat = w3.MustNewEvent("Bloat(bytes payload)")
	// EventFill marks one adaptive-fill iteration, index in the topic so the
	// data stays the raw payload.
	EventFill = w3.MustNewEvent("Fill(uint256 indexed index, bytes payload)")
	// EventPing is the cheap-emit beacon: caller identity in the topic, tag
	// word in the data.
	EventPing = w3.MustNewEvent("Ping(address indexed sender, uint64 tag)")
)

// EventName maps a committed entry's Topic0 to its event name, for metric
// labels. Unknown topics map to "unknown".
func EventName(topic0 common.Hash) string {
	switch topic0 {
	case EventChurn.Topic0:
		return "Churn"
	case EventBloat.Topic0:
		return "Bloat"
	case EventFill.Topic0:
		return "Fill"
	case EventPing.Topic0:
		return "Ping"
	}
	return "unknown"
}

// encodeInput panics on bad argument sets; requests only pass the argument
// shapes their func declares, so a failure here is a programming error.
func encodeInput(f *w3.Func, args ...any) []byte {
	input, err := f.EncodeArgs(args...)
	if err != nil {
		panic(err)
	}
	return input
}

func bigU64(v uint64) *big.Int { return new(big.Int).SetUint64(v) }

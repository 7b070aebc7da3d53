package host

import "github.com/ethereum/go-ethereum/params"

// CostSchedule prices every metered action of the host. The zero value is not
// usable; start from DefaultCostSchedule and override fields as needed.
type CostSchedule struct {
	CallBase            uint64 // flat intrinsic cost of any call
	CalldataZeroByte    uint64
	CalldataNonZeroByte uint64
	ValueTransfer       uint64 // surcharge for value-bearing calls
	SlotRead            uint64
	SlotSet             uint64 // writing a word into an empty slot
	SlotUpdate          uint64 // overwriting a live word
	SinkUpdate          uint64 // first accumulator write in a call
	HashBase            uint64
	HashWord            uint64
	LogBase             uint64
	LogTopic            uint64
	LogDataByte         uint64
	MemoryWord          uint64
	MemoryQuadDivisor   uint64
}

// DefaultCostSchedule prices actions off the mainnet gas table, so burn
// figures line up with what the same workloads cost on a real chain.
func DefaultCostSchedule() CostSchedule {
	return CostSchedule{
		CallBase:            params.TxGas,
		CalldataZeroByte:    params.TxDataZeroGas,
		CalldataNonZeroByte: params.TxDataNonZeroGasEIP2028,
		ValueTransfer:       params.CallValueTransferGas,
		SlotRead:            params.ColdSloadCostEIP2929,
		SlotSet:             params.SstoreSetGasEIP2200,
		SlotUpdate:          params.SstoreResetGasEIP2200,
		SinkUpdate:          params.SstoreResetGasEIP2200,
		HashBase:            params.Keccak256Gas,
		HashWord:            params.Keccak256WordGas,
		LogBase:             params.LogGas,
		LogTopic:            params.LogTopicGas,
		LogDataByte:         params.LogDataGas,
		MemoryWord:          params.MemoryGas,
		MemoryQuadDivisor:   params.QuadCoeffDiv,
	}
}

// IntrinsicGas is the up-front cost of a call carrying the given encoded
// input, charged before the body runs.
func (c CostSchedule) IntrinsicGas(input []byte, hasValue bool) uint64 {
	gas := c.CallBase
	for _, b := range input {
		if b == 0 {
			gas += c.CalldataZeroByte
		} else {
			gas += c.CalldataNonZeroByte
		}
	}
	if hasValue {
		gas += c.ValueTransfer
	}
	return gas
}

// HashGas prices one mix over the given number of 32-byte words.
func (c CostSchedule) HashGas(words uint64) uint64 {
	return c.HashBase + c.HashWord*words
}

// LogGas prices one log entry.
func (c CostSchedule) LogGas(topics int, dataLen int) uint64 {
	return c.LogBase + c.LogTopic*uint64(topics) + c.LogDataByte*uint64(dataLen)
}

// MemoryGas prices a transient array of the given number of 32-byte words.
// The quadratic term is what makes very large arrays prohibitive.
func (c CostSchedule) MemoryGas(words uint64) uint64 {
	return c.MemoryWord*words + words*words/c.MemoryQuadDivisor
}

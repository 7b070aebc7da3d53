package host

import (
	"testing"

	"github.com/ethereum/go-ethereum/params"
	"github.com/stretchr/testify/require"
)

func TestDefaultCostSchedule(t *testing.T) {
	c := DefaultCostSchedule()
	require.Equal(t, params.TxGas, c.CallBase)
	require.Equal(t, params.SstoreSetGasEIP2200, c.SlotSet)
	require.Equal(t, params.SstoreResetGasEIP2200, c.SlotUpdate)
	require.Equal(t, params.ColdSloadCostEIP2929, c.SlotRead)
	require.Equal(t, params.LogGas, c.LogBase)
	// Asymmetry between first write and overwrite is what the churn profiles
	// lean on.
	require.Greater(t, c.SlotSet, c.SlotUpdate)
}

func TestIntrinsicGas(t *testing.T) {
	c := DefaultCostSchedule()

	tests := []struct {
		name     string
		input    []byte
		hasValue bool
		want     uint64
	}{
		{"empty", nil, false, c.CallBase},
		{"zeros", []byte{0, 0, 0}, false, c.CallBase + 3*c.CalldataZeroByte},
		{"nonzeros", []byte{1, 2, 3}, false, c.CallBase + 3*c.CalldataNonZeroByte},
		{"mixed", []byte{0, 7}, false, c.CallBase + c.CalldataZeroByte + c.CalldataNonZeroByte},
		{"with value", nil, true, c.CallBase + c.ValueTransfer},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, c.IntrinsicGas(tt.input, tt.hasValue))
		})
	}
}

func TestHashAndLogGas(t *testing.T) {
	c := DefaultCostSchedule()
	require.Equal(t, c.HashBase+4*c.HashWord, c.HashGas(4))
	require.Equal(t, c.LogBase+2*c.LogTopic+64*c.LogDataByte, c.LogGas(2, 64))
}

func TestMemoryGasQuadratic(t *testing.T) {
	c := DefaultCostSchedule()
	small := c.MemoryGas(64)
	large := c.MemoryGas(4096)
	require.Equal(t, 64*c.MemoryWord+64*64/c.MemoryQuadDivisor, small)
	// The quadratic term dominates for big arrays: 64x the words costs far
	// more than 64x the gas.
	require.Greater(t, large, 64*small)
}

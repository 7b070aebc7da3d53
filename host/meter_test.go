package host

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMeterCharge(t *testing.T) {
	m := NewMeter(100)
	require.EqualValues(t, 100, m.Limit())
	require.EqualValues(t, 100, m.Remaining())
	require.Zero(t, m.Used())

	require.NoError(t, m.Charge("test", 60))
	require.EqualValues(t, 40, m.Remaining())
	require.EqualValues(t, 60, m.Used())

	require.NoError(t, m.Charge("test", 40))
	require.Zero(t, m.Remaining())
}

func TestMeterExhaustion(t *testing.T) {
	m := NewMeter(50)
	require.NoError(t, m.Charge("setup", 30))

	err := m.Charge("overrun", 21)
	require.Error(t, err)
	require.True(t, IsBudgetExhausted(err))
	require.False(t, IsInvalidParameter(err))

	var exhausted *BudgetExhaustedError
	require.ErrorAs(t, err, &exhausted)
	require.Equal(t, "overrun", exhausted.Op)
	require.EqualValues(t, 21, exhausted.Need)
	require.EqualValues(t, 20, exhausted.Remaining)

	// A failed charge must not debit.
	require.EqualValues(t, 20, m.Remaining())
	require.NoError(t, m.Charge("exact", 20))
}

func TestMeterZeroCharge(t *testing.T) {
	m := NewMeter(0)
	require.NoError(t, m.Charge("free", 0))
	require.True(t, IsBudgetExhausted(m.Charge("paid", 1)))
}

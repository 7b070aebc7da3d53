package spammer

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBudgetDebit(t *testing.T) {
	b := NewBudget(100)
	require.EqualValues(t, 100, b.Remaining())

	require.NoError(t, b.Debit(60))
	require.EqualValues(t, 40, b.Remaining())
	require.EqualValues(t, 60, b.Debited())

	// Landing exactly on the line is not an overdraft.
	require.NoError(t, b.Debit(40))
	require.Zero(t, b.Remaining())

	err := b.Debit(1)
	require.True(t, IsOverdraft(err))
	// The crossing debit is recorded anyway: that gas is already burnt.
	require.EqualValues(t, 101, b.Debited())
	require.Zero(t, b.Remaining())
}

func TestOverdraftErrorShape(t *testing.T) {
	b := NewBudget(10)
	err := b.Debit(25)
	var overdraft *OverdraftError
	require.ErrorAs(t, err, &overdraft)
	require.EqualValues(t, 25, overdraft.Debited)
	require.EqualValues(t, 10, overdraft.Budget)

	require.False(t, IsOverdraft(nil))
	require.False(t, IsOverdraft(fmt.Errorf("wrapped nothing")))
	require.True(t, IsOverdraft(fmt.Errorf("wrapped: %w", err)))
}

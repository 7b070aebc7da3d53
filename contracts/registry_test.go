package contracts

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/log"
	"github.com/stretchr/testify/require"

	"github.com/Treymsby/eth-network/host"
	"github.com/Treymsby/eth-network/testlog"
)

func newTestRegistry(t *testing.T) *OwnershipRegistry {
	t.Helper()
	return NewOwnershipRegistry(host.CostSchedule{}, testlog.Logger(t, log.LevelError))
}

func TestRegistryClaimFirstWriterWins(t *testing.T) {
	r := newTestRegistry(t)
	sched := host.DefaultCostSchedule()
	alice := common.Address{0xa1}
	bob := common.Address{0xb0}
	key := crypto.Keccak256Hash([]byte("resource"))

	require.Equal(t, common.Address{}, r.OwnerOf(key))

	m := meterFor(1_000_000)
	require.NoError(t, r.Claim(m, alice, key))
	require.Equal(t, sched.CallBase+sched.SlotRead+sched.SlotSet, m.Used())
	require.Equal(t, alice, r.OwnerOf(key))
	require.Equal(t, 1, r.Owned())

	err := r.Claim(meterFor(1_000_000), bob, key)
	require.True(t, host.IsInvalidParameter(err))
	require.Equal(t, alice, r.OwnerOf(key))
}

func TestRegistryClaimZeroCallerRejected(t *testing.T) {
	r := newTestRegistry(t)
	err := r.Claim(meterFor(1_000_000), common.Address{}, common.Hash{0x01})
	require.True(t, host.IsInvalidParameter(err))
	require.Zero(t, r.Owned())
}

func TestRegistryTransfer(t *testing.T) {
	r := newTestRegistry(t)
	sched := host.DefaultCostSchedule()
	alice := common.Address{0xa1}
	bob := common.Address{0xb0}
	key := common.Hash{0x42}

	require.NoError(t, r.Claim(meterFor(1_000_000), alice, key))

	// Only the owner moves a key, and never to the zero address.
	err := r.Transfer(meterFor(1_000_000), bob, key, bob)
	require.True(t, host.IsInvalidParameter(err))
	err = r.Transfer(meterFor(1_000_000), alice, key, common.Address{})
	require.True(t, host.IsInvalidParameter(err))
	err = r.Transfer(meterFor(1_000_000), alice, common.Hash{0x43}, bob)
	require.True(t, host.IsInvalidParameter(err))

	m := meterFor(1_000_000)
	require.NoError(t, r.Transfer(m, alice, key, bob))
	require.Equal(t, sched.CallBase+sched.SlotRead+sched.SlotUpdate, m.Used())
	require.Equal(t, bob, r.OwnerOf(key))

	// Ownership moved with the key.
	err = r.Transfer(meterFor(1_000_000), alice, key, alice)
	require.True(t, host.IsInvalidParameter(err))
	require.NoError(t, r.Transfer(meterFor(1_000_000), bob, key, alice))
}

func TestRegistryRenounceReopensKey(t *testing.T) {
	r := newTestRegistry(t)
	alice := common.Address{0xa1}
	bob := common.Address{0xb0}
	key := common.Hash{0x42}

	require.NoError(t, r.Claim(meterFor(1_000_000), alice, key))

	err := r.Renounce(meterFor(1_000_000), bob, key)
	require.True(t, host.IsInvalidParameter(err))

	require.NoError(t, r.Renounce(meterFor(1_000_000), alice, key))
	require.Zero(t, r.Owned())
	require.Equal(t, common.Address{}, r.OwnerOf(key))

	err = r.Renounce(meterFor(1_000_000), alice, key)
	require.True(t, host.IsInvalidParameter(err))

	require.NoError(t, r.Claim(meterFor(1_000_000), bob, key))
	require.Equal(t, bob, r.OwnerOf(key))
}

func TestRegistryBudgetExhausted(t *testing.T) {
	r := newTestRegistry(t)
	m := meterFor(10)
	err := r.Claim(m, common.Address{0xa1}, common.Hash{0x01})
	require.True(t, host.IsBudgetExhausted(err))
	require.Zero(t, m.Used())
	require.Zero(t, r.Owned())
}

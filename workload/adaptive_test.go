package workload

import (
	"fmt"
	"testing"

	"github.com/ethereum/go-ethereum/log"
	"github.com/stretchr/testify/require"

	"github.com/Treymsby/eth-network/host"
	"github.com/Treymsby/eth-network/testlog"
)

func TestAdaptiveFillNeverExhausts(t *testing.T) {
	margins := []uint64{1, 100, 10_000, DefaultSafetyMargin, 1_000_000}
	budgets := []uint64{120_000, 500_000, 5_000_000, host.DefaultCallGasLimit}
	payloads := []int{1, 64, 4096}

	for _, margin := range margins {
		for _, budget := range budgets {
			for _, size := range payloads {
				name := fmt.Sprintf("margin=%d/budget=%d/payload=%d", margin, budget, size)
				t.Run(name, func(t *testing.T) {
					e := New(Config{
						Seed:         1,
						SafetyMargin: margin,
						Log:          testlog.Logger(t, log.LevelError),
					})
					receipt, err := e.Execute(
						host.CallOpts{Caller: testCaller, Gas: budget},
						AdaptiveFillRequest{Payload: make([]byte, size)},
					)
					if err != nil {
						// The only acceptable failure is the intrinsic charge
						// not fitting at all; the profile itself never
						// exhausts.
						require.True(t, host.IsBudgetExhausted(err))
						intrinsic := e.Schedule().IntrinsicGas(AdaptiveFillRequest{Payload: make([]byte, size)}.Input(), false)
						require.Greater(t, intrinsic, budget)
						return
					}
					require.GreaterOrEqual(t, receipt.GasLimit-receipt.GasUsed, margin,
						"remaining budget fell below the margin")
				})
			}
		}
	}
}

func TestAdaptiveFillFillsTheCall(t *testing.T) {
	sink := &recordSink{}
	e := newTestEngine(t, 6, sink)
	payload := []byte("fill payload")
	receipt := mustExec(t, e, AdaptiveFillRequest{Payload: payload})

	require.NotEmpty(t, receipt.Logs)
	// Headroom left unused is at most one iteration plus the margin.
	perIter := e.Schedule().LogGas(2, len(payload)) + e.Schedule().HashGas(2)
	slack := receipt.GasLimit - receipt.GasUsed
	require.Less(t, slack, e.SafetyMargin()+perIter+e.Schedule().SinkUpdate+1)
	require.GreaterOrEqual(t, slack, e.SafetyMargin())

	// Entries carry the payload verbatim and a dense index topic.
	for i, entry := range sink.entries {
		require.Equal(t, EventFill.Topic0, entry.Topic0())
		require.Equal(t, U64Word(uint64(i)), entry.Topics[1])
		require.Equal(t, payload, []byte(entry.Data))
	}
}

func TestAdaptiveFillChain(t *testing.T) {
	const seed = uint64(77)
	e := newTestEngine(t, seed, nil)
	receipt, err := e.Execute(host.CallOpts{Caller: testCaller, Gas: 200_000}, AdaptiveFillRequest{Payload: []byte("p")})
	require.NoError(t, err)

	acc := SeedSink(seed)
	for idx := uint64(0); idx < uint64(len(receipt.Logs)); idx++ {
		acc = Mix(acc, U64Word(idx))
	}
	require.Equal(t, acc, e.Sink())
}

func TestAdaptiveFillMarginLargerThanBudget(t *testing.T) {
	e := New(Config{
		Seed:         1,
		SafetyMargin: host.DefaultCallGasLimit * 2,
		Log:          log.Root(),
	})
	receipt, err := e.Execute(host.CallOpts{Caller: testCaller}, AdaptiveFillRequest{Payload: []byte("p")})
	// Zero iterations, but still a committed call.
	require.NoError(t, err)
	require.Empty(t, receipt.Logs)
	require.Equal(t, SeedSink(1), e.Sink())
}

func TestAdaptiveFillDefaultMargin(t *testing.T) {
	e := newTestEngine(t, 1, nil)
	require.Equal(t, DefaultSafetyMargin, e.SafetyMargin())
}

package spammer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/stretchr/testify/require"

	"github.com/Treymsby/eth-network/host"
	"github.com/Treymsby/eth-network/testlog"
	"github.com/Treymsby/eth-network/workload"
)

func newTestSequencer(t *testing.T, seed uint64) *Sequencer {
	t.Helper()
	eng := workload.New(workload.Config{
		Seed: seed,
		Log:  testlog.Logger(t, log.LevelError),
	})
	return NewSequencer(eng)
}

// fixedGenerator replays one request forever.
type fixedGenerator struct {
	req workload.Request
}

func (g fixedGenerator) Next() (host.CallOpts, workload.Request) {
	return host.CallOpts{}, g.req
}

func TestCallSpammerDebitsBudget(t *testing.T) {
	logger := testlog.Logger(t, log.LevelError)
	seq := newTestSequencer(t, 1)
	budget := NewBudget(100_000) // a handful of cheap calls
	stats := &Stats{}
	spammer := NewCallSpammer(logger, fixedGenerator{workload.EmitRequest{Tag: 1}}, seq, budget, stats, nil)

	var err error
	calls := 0
	for ; calls < 100; calls++ {
		if err = spammer.Spam(context.Background()); err != nil {
			break
		}
	}
	require.True(t, IsOverdraft(err), "budget must run out, got %v", err)
	require.Greater(t, calls, 0)

	snap := stats.Snapshot()
	require.EqualValues(t, calls+1, snap.Calls)
	require.Zero(t, snap.Failures, "engine calls themselves all succeed")
	require.Equal(t, budget.Debited(), snap.GasUsed)
	require.EqualValues(t, calls+1, snap.Entries, "one ping entry per call")
}

func TestCallSpammerReportsEngineErrors(t *testing.T) {
	logger := testlog.Logger(t, log.LevelError)
	seq := newTestSequencer(t, 1)
	stats := &Stats{}
	bad := fixedGenerator{workload.ComputeMemoryRequest{Iterations: 0, ArraySize: 1}}
	spammer := NewCallSpammer(logger, bad, seq, NewBudget(1<<40), stats, nil)

	err := spammer.Spam(context.Background())
	require.True(t, host.IsInvalidParameter(err))
	require.EqualValues(t, 1, stats.Snapshot().Failures)
}

func TestCallStatusBuckets(t *testing.T) {
	require.Equal(t, "ok", CallStatus(nil))
	require.Equal(t, "budget_exhausted", CallStatus(&host.BudgetExhaustedError{}))
	require.Equal(t, "invalid_parameter", CallStatus(host.InvalidParamf("op", "p", "r")))
	require.Equal(t, "error", CallStatus(errors.New("other")))
}

func TestGeneratorDeterminism(t *testing.T) {
	for _, scenario := range Scenarios() {
		t.Run(scenario, func(t *testing.T) {
			a, err := NewGenerator(scenario, 99)
			require.NoError(t, err)
			b, err := NewGenerator(scenario, 99)
			require.NoError(t, err)

			for i := 0; i < 64; i++ {
				optsA, reqA := a.Next()
				optsB, reqB := b.Next()
				require.Equal(t, optsA, optsB, "call %d", i)
				require.Equal(t, reqA.Kind(), reqB.Kind(), "call %d", i)
				require.Equal(t, reqA.Input(), reqB.Input(), "call %d", i)
			}
		})
	}
}

func TestGeneratorUnknownScenario(t *testing.T) {
	_, err := NewGenerator("no-such-scenario", 1)
	require.Error(t, err)
	require.Contains(t, err.Error(), "bigblock")
}

func TestScenariosProduceValidCalls(t *testing.T) {
	for _, scenario := range Scenarios() {
		t.Run(scenario, func(t *testing.T) {
			seq := newTestSequencer(t, 7)
			gen, err := NewGenerator(scenario, 7)
			require.NoError(t, err)

			for i := 0; i < 24; i++ {
				opts, req := gen.Next()
				receipt, err := seq.Do(opts, req)
				require.NoError(t, err, "call %d (%s) failed", i, req.Kind())
				require.Positive(t, receipt.GasUsed)
				require.LessOrEqual(t, receipt.GasUsed, receipt.GasLimit)
			}
		})
	}
}

func TestRunBurstAgainstEngine(t *testing.T) {
	logger := testlog.Logger(t, log.LevelError)
	seq := newTestSequencer(t, 3)

	snap, err := Run(context.Background(), RunConfig{
		Scenario:    ScenarioMaxTx,
		Seed:        3,
		Budget:      2_000_000,
		Workers:     4,
		InitialRate: 200,
		SlotTime:    20 * time.Millisecond,
		Log:         logger,
	}, seq)
	require.NoError(t, err)
	require.Positive(t, snap.Calls)
	require.Positive(t, snap.GasUsed)
	require.GreaterOrEqual(t, snap.GasUsed, uint64(2_000_000), "run ends only once the budget is crossed")
}

func TestRunRejectsUnknownScenario(t *testing.T) {
	seq := newTestSequencer(t, 1)
	_, err := Run(context.Background(), RunConfig{Scenario: "nope", Budget: 1}, seq)
	require.Error(t, err)
}

func TestSequencerSample(t *testing.T) {
	seq := newTestSequencer(t, 5)
	_, err := seq.Do(host.CallOpts{}, workload.EmitRequest{Tag: 9})
	require.NoError(t, err)

	var logIndex uint64
	seq.Sample(func(eng *workload.Engine) { logIndex = eng.LogIndex() })
	require.EqualValues(t, 1, logIndex)
}

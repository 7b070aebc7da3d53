package spammer

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/stretchr/testify/require"

	"github.com/Treymsby/eth-network/host"
	"github.com/Treymsby/eth-network/testlog"
)

func TestAIMDAdjustWindow(t *testing.T) {
	a := NewAIMD(nil, 10, time.Second, WithAdjustWindow(4))

	// Three outcomes: below the window, no change.
	a.Adjust(true)
	a.Adjust(true)
	a.Adjust(true)
	require.EqualValues(t, 10, a.Rate())

	// Window closes clean: additive increase.
	a.Adjust(true)
	require.EqualValues(t, 11, a.Rate())

	// Window with failures over the threshold: multiplicative decrease.
	a.Adjust(false)
	a.Adjust(false)
	a.Adjust(true)
	a.Adjust(true)
	require.EqualValues(t, 5, a.Rate())
}

func TestAIMDRateObserver(t *testing.T) {
	var seen atomic.Uint64
	a := NewAIMD(nil, 2, time.Second,
		WithAdjustWindow(1),
		WithIncreaseDelta(3),
		WithRateObserver(func(rate uint64) { seen.Store(rate) }),
	)
	a.Adjust(true)
	require.EqualValues(t, 5, a.Rate())
	require.EqualValues(t, 5, seen.Load())
}

func TestAIMDBackoffFloor(t *testing.T) {
	a := NewAIMD(nil, 3, time.Second)
	a.Backoff()
	require.EqualValues(t, 1, a.Rate())
	a.Backoff()
	require.EqualValues(t, 1, a.Rate(), "rate never drops below one")
}

func TestAIMDTokens(t *testing.T) {
	a := NewAIMD(nil, 100, 10*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	a.Start(ctx)

	for i := 0; i < 3; i++ {
		select {
		case _, ok := <-a.Ready():
			require.True(t, ok)
		case <-time.After(time.Second):
			t.Fatal("no pacing token")
		}
	}

	cancel()
	// Channel closes once the context ends.
	deadline := time.After(time.Second)
	for {
		select {
		case _, ok := <-a.Ready():
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("token channel never closed")
		}
	}
}

// stubSpammer scripts Spam outcomes.
type stubSpammer struct {
	calls atomic.Uint64
	errAt uint64
	err   error
}

func (s *stubSpammer) Spam(context.Context) error {
	n := s.calls.Add(1)
	if s.err != nil && n >= s.errAt {
		return s.err
	}
	return nil
}

func fastAIMD() *AIMD {
	return NewAIMD(nil, 50, 10*time.Millisecond)
}

func TestBurstEndsOnOverdraft(t *testing.T) {
	logger := testlog.Logger(t, log.LevelError)
	stub := &stubSpammer{errAt: 10, err: &OverdraftError{Debited: 11, Budget: 10}}
	b := &Burst{AIMD: fastAIMD(), Workers: 3, Log: logger}

	err := b.Run(context.Background(), stub)
	// Budget spent is the normal end of a burst.
	require.NoError(t, err)
	require.GreaterOrEqual(t, stub.calls.Load(), uint64(10))
}

func TestBurstSurfacesInvalidParameter(t *testing.T) {
	logger := testlog.Logger(t, log.LevelError)
	bad := host.InvalidParamf("compute-memory", "iterations", "must be positive")
	stub := &stubSpammer{errAt: 3, err: bad}
	b := &Burst{AIMD: fastAIMD(), Workers: 2, Log: logger}

	err := b.Run(context.Background(), stub)
	require.Error(t, err)
	require.True(t, host.IsInvalidParameter(err))
}

func TestBurstHonorsContext(t *testing.T) {
	logger := testlog.Logger(t, log.LevelError)
	stub := &stubSpammer{}
	b := &Burst{AIMD: fastAIMD(), Workers: 2, Log: logger}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := b.Run(ctx, stub)
	require.NoError(t, err, "a timed-out run is a completed run")
}

func TestSteadyBacksOffOnOvershoot(t *testing.T) {
	logger := testlog.Logger(t, log.LevelError)
	stats := &Stats{}
	stats.RecordReceipt(&host.Receipt{GasUsed: 1_000_000})

	aimd := NewAIMD(nil, 8, 5*time.Millisecond)
	st := &Steady{
		AIMD:     aimd,
		Target:   100, // far below the recorded slot gas
		SlotTime: 10 * time.Millisecond,
		Timeout:  60 * time.Millisecond,
		Workers:  1,
		Stats:    stats,
		Log:      logger,
	}
	err := st.Run(context.Background(), &stubSpammer{})
	require.NoError(t, err)
	require.Less(t, aimd.Rate(), uint64(8), "governor must back the rate off")
}

func TestRunCause(t *testing.T) {
	mk := func(cause error) context.Context {
		ctx, cancel := context.WithCancelCause(context.Background())
		cancel(cause)
		return ctx
	}
	require.NoError(t, runCause(context.Background()))
	require.NoError(t, runCause(mk(context.Canceled)))
	require.NoError(t, runCause(mk(&OverdraftError{})))
	require.Error(t, runCause(mk(host.InvalidParamf("op", "p", "bad"))))
}

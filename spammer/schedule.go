package spammer

import (
	"context"
	"errors"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/log"

	"github.com/Treymsby/eth-network/host"
)

// DefaultSlotTime paces schedules in block-sized beats.
const DefaultSlotTime = 12 * time.Second

type aimdConfig struct {
	increaseDelta     uint64
	decreaseFactor    float64
	failRateThreshold float64
	adjustWindow      uint64
	observer          func(rate uint64)
}

// AIMDOption tunes the controller away from its defaults.
type AIMDOption func(*aimdConfig)

func WithIncreaseDelta(delta uint64) AIMDOption {
	return func(c *aimdConfig) { c.increaseDelta = delta }
}

func WithDecreaseFactor(factor float64) AIMDOption {
	return func(c *aimdConfig) { c.decreaseFactor = factor }
}

func WithFailRateThreshold(threshold float64) AIMDOption {
	return func(c *aimdConfig) { c.failRateThreshold = threshold }
}

func WithAdjustWindow(window uint64) AIMDOption {
	return func(c *aimdConfig) { c.adjustWindow = window }
}

// WithRateObserver reports every rate adjustment, for metrics.
func WithRateObserver(observer func(rate uint64)) AIMDOption {
	return func(c *aimdConfig) { c.observer = observer }
}

// AIMD paces calls per slot: additive increase after a clean adjustment
// window, multiplicative decrease when the windowed failure rate crosses the
// threshold.
type AIMD struct {
	rate     atomic.Uint64
	slotTime time.Duration
	cfg      aimdConfig

	mu        sync.Mutex
	successes uint64
	failures  uint64

	ready chan struct{}
	log   log.Logger
}

func NewAIMD(logger log.Logger, initialRate uint64, slotTime time.Duration, opts ...AIMDOption) *AIMD {
	cfg := aimdConfig{
		increaseDelta:     1,
		decreaseFactor:    0.5,
		failRateThreshold: 0.05,
		adjustWindow:      50,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if initialRate == 0 {
		initialRate = 1
	}
	if slotTime <= 0 {
		slotTime = DefaultSlotTime
	}
	if logger == nil {
		logger = log.Root()
	}
	a := &AIMD{
		slotTime: slotTime,
		cfg:      cfg,
		ready:    make(chan struct{}),
		log:      logger,
	}
	a.rate.Store(initialRate)
	return a
}

// Start emits pacing tokens at the current rate until ctx ends, then closes
// the token channel.
func (a *AIMD) Start(ctx context.Context) {
	go func() {
		defer close(a.ready)
		for {
			interval := time.Duration(float64(a.slotTime) / float64(a.rate.Load()))
			select {
			case <-ctx.Done():
				return
			case <-time.After(interval):
			}
			select {
			case a.ready <- struct{}{}:
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Ready is the token channel: one receive per permitted call. It is closed
// when the controller stops.
func (a *AIMD) Ready() <-chan struct{} { return a.ready }

// Adjust records one call outcome and rebalances the rate at window edges.
func (a *AIMD) Adjust(success bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if success {
		a.successes++
	} else {
		a.failures++
	}
	total := a.successes + a.failures
	if total < a.cfg.adjustWindow {
		return
	}
	failRate := float64(a.failures) / float64(total)
	rate := a.rate.Load()
	if failRate > a.cfg.failRateThreshold {
		rate = uint64(math.Max(1, float64(rate)*a.cfg.decreaseFactor))
	} else {
		rate += a.cfg.increaseDelta
	}
	a.setRate(rate)
	a.successes, a.failures = 0, 0
}

// Backoff forces an immediate multiplicative decrease, bypassing the window.
// The steady governor uses it when a slot overshoots its gas target.
func (a *AIMD) Backoff() {
	for {
		rate := a.rate.Load()
		next := uint64(math.Max(1, float64(rate)*a.cfg.decreaseFactor))
		if a.rate.CompareAndSwap(rate, next) {
			if a.cfg.observer != nil {
				a.cfg.observer(next)
			}
			return
		}
	}
}

func (a *AIMD) setRate(rate uint64) {
	a.rate.Store(rate)
	if a.cfg.observer != nil {
		a.cfg.observer(rate)
	}
}

// Rate is the current calls-per-slot target.
func (a *AIMD) Rate() uint64 { return a.rate.Load() }

// Schedule drives a Spammer until its policy says stop.
type Schedule interface {
	Run(ctx context.Context, s Spammer) error
}

// Burst pushes flat out at AIMD pace until the run budget overdrafts or the
// caller's context ends. Transient call failures only feed the rate
// controller; the overdraft is the one fatal outcome, and it counts as a
// completed run.
type Burst struct {
	AIMD    *AIMD
	Workers int
	Log     log.Logger
}

var _ Schedule = (*Burst)(nil)

func (b *Burst) Run(ctx context.Context, s Spammer) error {
	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)
	b.AIMD.Start(ctx)

	var wg sync.WaitGroup
	spamWorkers(ctx, cancel, &wg, b.Workers, b.AIMD, s)
	wg.Wait()

	if err := runCause(ctx); err != nil {
		return err
	}
	b.Log.Info("burst schedule done", "rate", b.AIMD.Rate())
	return nil
}

// Steady holds aggregate gas flow near a per-slot target instead of pushing
// to the edge: a governor reads the gas committed each slot and backs the
// rate off whenever the slot overshoots.
type Steady struct {
	AIMD     *AIMD
	Target   uint64 // gas per slot
	SlotTime time.Duration
	Timeout  time.Duration // 0: run until ctx ends or the budget is spent
	Workers  int
	Stats    *Stats
	Log      log.Logger
}

var _ Schedule = (*Steady)(nil)

func (st *Steady) Run(ctx context.Context, s Spammer) error {
	slotTime := st.SlotTime
	if slotTime <= 0 {
		slotTime = DefaultSlotTime
	}
	if st.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, st.Timeout)
		defer cancel()
	}
	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)
	st.AIMD.Start(ctx)

	var wg sync.WaitGroup
	spamWorkers(ctx, cancel, &wg, st.Workers, st.AIMD, s)

	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(slotTime)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
			gas := st.Stats.TakeSlotGas()
			if gas > st.Target {
				st.AIMD.Backoff()
				st.Log.Debug("slot overshot, backing off", "slotGas", gas, "target", st.Target, "rate", st.AIMD.Rate())
			} else {
				st.Log.Debug("slot within target", "slotGas", gas, "target", st.Target, "rate", st.AIMD.Rate())
			}
		}
	}()

	wg.Wait()
	if err := runCause(ctx); err != nil {
		return err
	}
	st.Log.Info("steady schedule done", "rate", st.AIMD.Rate())
	return nil
}

// spamWorkers starts n goroutines that trade pacing tokens for calls.
// Overdraft and invalid-parameter outcomes cancel the run; everything else is
// rate feedback.
func spamWorkers(ctx context.Context, cancel context.CancelCauseFunc, wg *sync.WaitGroup, n int, aimd *AIMD, s Spammer) {
	if n <= 0 {
		n = 1
	}
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case _, ok := <-aimd.Ready():
					if !ok {
						return
					}
				}
				err := s.Spam(ctx)
				if err != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
					return
				}
				aimd.Adjust(err == nil)
				if err != nil && (IsOverdraft(err) || host.IsInvalidParameter(err)) {
					cancel(err)
					return
				}
			}
		}()
	}
}

// runCause decides how a schedule ended: budget spent, timed out or canceled
// are all normal completions, anything else is a real failure.
func runCause(ctx context.Context) error {
	cause := context.Cause(ctx)
	switch {
	case cause == nil,
		IsOverdraft(cause),
		errors.Is(cause, context.Canceled),
		errors.Is(cause, context.DeadlineExceeded):
		return nil
	default:
		return cause
	}
}

package spammer

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/log"
)

// RunConfig wires one load run.
type RunConfig struct {
	Scenario     string
	Seed         uint64
	Budget       uint64 // total gas the run may burn
	Workers      int
	InitialRate  uint64        // calls per slot to start from
	SlotTime     time.Duration // 0: DefaultSlotTime
	Duration     time.Duration // 0: run until the budget is spent
	SteadyTarget uint64        // gas per slot to hold; 0 selects burst mode
	Metrics      Metrics       // nil: NoopMetrics
	Log          log.Logger    // nil: log.Root()
}

// Run drives one full load run through the given sequencer and reports the
// aggregate outcome. A spent budget is a completed run, not an error.
func Run(ctx context.Context, cfg RunConfig, seq *Sequencer) (StatsSnapshot, error) {
	logger := cfg.Log
	if logger == nil {
		logger = log.Root()
	}
	metrics := cfg.Metrics
	if metrics == nil {
		metrics = NoopMetrics
	}

	gen, err := NewGenerator(cfg.Scenario, cfg.Seed)
	if err != nil {
		return StatsSnapshot{}, err
	}

	if cfg.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Duration)
		defer cancel()
	}

	budget := NewBudget(cfg.Budget)
	stats := &Stats{}
	spammer := NewCallSpammer(logger, gen, seq, budget, stats, metrics)

	aimd := NewAIMD(logger, cfg.InitialRate, cfg.SlotTime, WithRateObserver(func(rate uint64) {
		metrics.RecordRate(rate)
		logger.Debug("rate adjusted", "rate", rate)
	}))
	metrics.RecordRate(aimd.Rate())
	metrics.RecordBudgetRemaining(budget.Remaining())

	var sched Schedule
	if cfg.SteadyTarget > 0 {
		sched = &Steady{
			AIMD:     aimd,
			Target:   cfg.SteadyTarget,
			SlotTime: cfg.SlotTime,
			Workers:  cfg.Workers,
			Stats:    stats,
			Log:      logger,
		}
	} else {
		sched = &Burst{AIMD: aimd, Workers: cfg.Workers, Log: logger}
	}

	logger.Info("load run starting",
		"scenario", cfg.Scenario, "seed", cfg.Seed, "budget", cfg.Budget,
		"workers", cfg.Workers, "schedule", fmt.Sprintf("%T", sched))

	err = sched.Run(ctx, spammer)
	snap := stats.Snapshot()
	logger.Info("load run finished",
		"calls", snap.Calls, "failures", snap.Failures,
		"gasUsed", snap.GasUsed, "entries", snap.Entries,
		"debited", budget.Debited(), "err", err)
	return snap, err
}

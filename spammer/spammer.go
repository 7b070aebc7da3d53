// Package spammer drives load against a workload engine: a run budget with
// overdraft as the only fatal error, AIMD pacing, burst and steady schedules,
// and seeded scenario presets. It also owns the one mutex of the system, the
// sequencer, which serializes engine calls so the engine itself can stay
// lock-free.
package spammer

import (
	"context"
	"sync"

	"github.com/ethereum/go-ethereum/log"

	"github.com/Treymsby/eth-network/host"
	"github.com/Treymsby/eth-network/workload"
)

// Spammer issues one paced call per poke.
type Spammer interface {
	Spam(ctx context.Context) error
}

// Metrics receives call outcomes; package monitor provides the Prometheus
// implementation. Implementations must be safe for concurrent use.
type Metrics interface {
	RecordCall(kind string, status string)
	RecordGasUsed(kind string, gas uint64)
	RecordRate(rate uint64)
	RecordBudgetRemaining(gas uint64)
}

type noopMetrics struct{}

func (noopMetrics) RecordCall(string, string)    {}
func (noopMetrics) RecordGasUsed(string, uint64) {}
func (noopMetrics) RecordRate(uint64)            {}
func (noopMetrics) RecordBudgetRemaining(uint64) {}

// NoopMetrics drops everything.
var NoopMetrics Metrics = noopMetrics{}

// Generator produces the next request for a spammer. Implementations draw
// from their own seeded randomness; the spammer serializes Next calls, so a
// fixed seed replays the same request stream.
type Generator interface {
	Next() (host.CallOpts, workload.Request)
}

// CallSpammer turns pacing tokens into engine calls: draw a request from the
// generator, apply it through the sequencer, debit the run budget with the
// receipt's gas.
type CallSpammer struct {
	mu      sync.Mutex
	gen     Generator
	seq     *Sequencer
	budget  *Budget
	stats   *Stats
	metrics Metrics
	log     log.Logger
}

var _ Spammer = (*CallSpammer)(nil)

func NewCallSpammer(logger log.Logger, gen Generator, seq *Sequencer, budget *Budget, stats *Stats, metrics Metrics) *CallSpammer {
	if metrics == nil {
		metrics = NoopMetrics
	}
	if logger == nil {
		logger = log.Root()
	}
	return &CallSpammer{
		gen:     gen,
		seq:     seq,
		budget:  budget,
		stats:   stats,
		metrics: metrics,
		log:     logger,
	}
}

func (c *CallSpammer) Spam(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	opts, req := c.gen.Next()
	c.mu.Unlock()

	kind := string(req.Kind())
	receipt, err := c.seq.Do(opts, req)
	if err != nil {
		c.stats.RecordFailure()
		c.metrics.RecordCall(kind, CallStatus(err))
		c.log.Debug("call failed", "kind", kind, "err", err)
		return err
	}

	c.stats.RecordReceipt(receipt)
	c.metrics.RecordCall(kind, "ok")
	c.metrics.RecordGasUsed(kind, receipt.GasUsed)
	c.log.Trace("call done", "kind", kind, "gasUsed", receipt.GasUsed, "logs", len(receipt.Logs))

	if err := c.budget.Debit(receipt.GasUsed); err != nil {
		c.metrics.RecordBudgetRemaining(0)
		return err
	}
	c.metrics.RecordBudgetRemaining(c.budget.Remaining())
	return nil
}

// CallStatus buckets an error for metric labels.
func CallStatus(err error) string {
	switch {
	case err == nil:
		return "ok"
	case host.IsBudgetExhausted(err):
		return "budget_exhausted"
	case host.IsInvalidParameter(err):
		return "invalid_parameter"
	default:
		return "error"
	}
}

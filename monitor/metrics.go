package monitor

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const MetricsNamespace = "gasburn"

// Metrics is everything a run records. spammer.Metrics is the pacing-side
// subset of this interface, so one implementation serves both.
// Implementations must be safe for concurrent use.
type Metrics interface {
	RecordCall(kind string, status string)
	RecordGasUsed(kind string, gas uint64)
	RecordRate(rate uint64)
	RecordBudgetRemaining(gas uint64)
	RecordEntries(event string, count int, bytes int)
	RecordSinkSample(logIndex uint64, slots int)
}

// PromMetrics implements Metrics on an explicit Prometheus registry.
type PromMetrics struct {
	calls      *prometheus.CounterVec
	gasUsed    *prometheus.HistogramVec
	rate       prometheus.Gauge
	budget     prometheus.Gauge
	entries    *prometheus.CounterVec
	entryBytes *prometheus.CounterVec
	logIndex   prometheus.Gauge
	slots      prometheus.Gauge
}

var _ Metrics = (*PromMetrics)(nil)

func NewMetrics(registry *prometheus.Registry) *PromMetrics {
	factory := promauto.With(registry)
	return &PromMetrics{
		calls: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: MetricsNamespace,
			Name:      "calls_total",
			Help:      "Engine calls by workload kind and outcome.",
		}, []string{"kind", "status"}),
		gasUsed: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: MetricsNamespace,
			Name:      "call_gas_used",
			Help:      "Gas used per committed call.",
			Buckets:   prometheus.ExponentialBuckets(21_000, 2, 12),
		}, []string{"kind"}),
		rate: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: MetricsNamespace,
			Name:      "pacing_rate",
			Help:      "Current schedule rate in calls per slot.",
		}),
		budget: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: MetricsNamespace,
			Name:      "budget_remaining_gas",
			Help:      "Gas left in the run budget.",
		}),
		entries: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: MetricsNamespace,
			Name:      "log_entries_total",
			Help:      "Broadcast log entries by event.",
		}, []string{"event"}),
		entryBytes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: MetricsNamespace,
			Name:      "log_entry_bytes_total",
			Help:      "Broadcast log payload bytes by event.",
		}, []string{"event"}),
		logIndex: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: MetricsNamespace,
			Name:      "log_index",
			Help:      "Index the next broadcast log entry will take.",
		}),
		slots: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: MetricsNamespace,
			Name:      "state_slots",
			Help:      "Persistent slots holding a written word.",
		}),
	}
}

func (m *PromMetrics) RecordCall(kind, status string) {
	m.calls.WithLabelValues(kind, status).Inc()
}

func (m *PromMetrics) RecordGasUsed(kind string, gas uint64) {
	m.gasUsed.WithLabelValues(kind).Observe(float64(gas))
}

func (m *PromMetrics) RecordRate(rate uint64) {
	m.rate.Set(float64(rate))
}

func (m *PromMetrics) RecordBudgetRemaining(gas uint64) {
	m.budget.Set(float64(gas))
}

func (m *PromMetrics) RecordEntries(event string, count, bytes int) {
	m.entries.WithLabelValues(event).Add(float64(count))
	m.entryBytes.WithLabelValues(event).Add(float64(bytes))
}

func (m *PromMetrics) RecordSinkSample(logIndex uint64, slots int) {
	m.logIndex.Set(float64(logIndex))
	m.slots.Set(float64(slots))
}

// NoopMetrics drops everything, for tests and metrics-off runs.
type NoopMetrics struct{}

var _ Metrics = NoopMetrics{}

func (NoopMetrics) RecordCall(string, string)      {}
func (NoopMetrics) RecordGasUsed(string, uint64)   {}
func (NoopMetrics) RecordRate(uint64)              {}
func (NoopMetrics) RecordBudgetRemaining(uint64)   {}
func (NoopMetrics) RecordEntries(string, int, int) {}
func (NoopMetrics) RecordSinkSample(uint64, int)   {}

package monitor

import (
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/log"

	"github.com/Treymsby/eth-network/host"
	"github.com/Treymsby/eth-network/workload"
)

const (
	// DefaultRingSize bounds how many recent entries the collector retains
	// for late subscribers and inspection.
	DefaultRingSize = 512

	// DefaultSampleInterval is how often engine-level gauges are sampled.
	DefaultSampleInterval = 5 * time.Second

	subscriberBuffer = 16
)

// Sampler grants the collector a serialized view of the engine. The driver
// owns the engine lock, so reads go through it rather than the engine.
type Sampler interface {
	Sample(fn func(*workload.Engine))
}

// Collector receives committed broadcast log batches from the engine, feeds
// the metrics, retains a ring of recent entries, and fans batches out to
// subscribers. It is the host.Sink a monitored engine is configured with.
type Collector struct {
	log     log.Logger
	metrics Metrics

	mu      sync.Mutex
	ring    []host.LogEntry
	next    int
	total   uint64
	subs    map[int]chan []host.LogEntry
	subSeq  int
	sampler Sampler

	interval time.Duration
	stopped  chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

var _ host.Sink = (*Collector)(nil)

type CollectorConfig struct {
	Log     log.Logger
	Metrics Metrics
	// RingSize overrides DefaultRingSize when positive.
	RingSize int
	// SampleInterval overrides DefaultSampleInterval when positive.
	SampleInterval time.Duration
}

// NewCollector builds a stopped collector. The sampler is attached later
// with SetSampler because the engine must exist before the driver that
// serializes access to it.
func NewCollector(cfg CollectorConfig) *Collector {
	size := cfg.RingSize
	if size <= 0 {
		size = DefaultRingSize
	}
	interval := cfg.SampleInterval
	if interval <= 0 {
		interval = DefaultSampleInterval
	}
	logger := cfg.Log
	if logger == nil {
		logger = log.Root()
	}
	metrics := cfg.Metrics
	if metrics == nil {
		metrics = NoopMetrics{}
	}
	return &Collector{
		log:      logger,
		metrics:  metrics,
		ring:     make([]host.LogEntry, 0, size),
		subs:     make(map[int]chan []host.LogEntry),
		interval: interval,
		stopped:  make(chan struct{}),
	}
}

// SetSampler wires the serialized engine view. Call before Start.
func (c *Collector) SetSampler(s Sampler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sampler = s
}

// Publish implements host.Sink. The engine calls it once per committed call
// that emitted entries, already ordered by log index.
func (c *Collector) Publish(entries []host.LogEntry) {
	if len(entries) == 0 {
		return
	}
	counts := make(map[string]int)
	sizes := make(map[string]int)
	for _, e := range entries {
		name := workload.EventName(e.Topic0())
		counts[name]++
		sizes[name] += len(e.Data)
	}
	for name, n := range counts {
		c.metrics.RecordEntries(name, n, sizes[name])
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range entries {
		if len(c.ring) < cap(c.ring) {
			c.ring = append(c.ring, e)
		} else {
			c.ring[c.next] = e
		}
		c.next = (c.next + 1) % cap(c.ring)
	}
	c.total += uint64(len(entries))
	batch := append([]host.LogEntry(nil), entries...)
	for id, ch := range c.subs {
		select {
		case ch <- batch:
		default:
			c.log.Warn("Dropping log batch for slow subscriber", "subscriber", id, "entries", len(batch))
		}
	}
}

// Subscribe registers a listener for future entry batches. Slow listeners
// have batches dropped rather than stalling the engine. The returned cancel
// func unregisters and closes the channel.
func (c *Collector) Subscribe() (<-chan []host.LogEntry, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.subSeq
	c.subSeq++
	ch := make(chan []host.LogEntry, subscriberBuffer)
	c.subs[id] = ch
	cancel := func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if _, ok := c.subs[id]; ok {
			delete(c.subs, id)
			close(ch)
		}
	}
	return ch, cancel
}

// Recent returns up to n of the most recently published entries, oldest
// first.
func (c *Collector) Recent(n int) []host.LogEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	if n <= 0 || len(c.ring) == 0 {
		return nil
	}
	if n > len(c.ring) {
		n = len(c.ring)
	}
	out := make([]host.LogEntry, 0, n)
	if len(c.ring) < cap(c.ring) {
		// ring not yet wrapped, entries sit in order from index 0
		return append(out, c.ring[len(c.ring)-n:]...)
	}
	start := (c.next - n + cap(c.ring)) % cap(c.ring)
	for i := 0; i < n; i++ {
		out = append(out, c.ring[(start+i)%cap(c.ring)])
	}
	return out
}

// Total returns how many entries have been published since construction.
func (c *Collector) Total() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.total
}

// SubscriberCount reports how many subscriptions are live.
func (c *Collector) SubscriberCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.subs)
}

// Start launches the periodic engine sampling loop.
func (c *Collector) Start() {
	c.wg.Add(1)
	go c.run()
}

func (c *Collector) run() {
	defer c.wg.Done()
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.sample()
		case <-c.stopped:
			return
		}
	}
}

func (c *Collector) sample() {
	c.mu.Lock()
	sampler := c.sampler
	c.mu.Unlock()
	if sampler == nil {
		return
	}
	sampler.Sample(func(eng *workload.Engine) {
		c.metrics.RecordSinkSample(eng.LogIndex(), eng.SlotCount())
	})
}

// Stop halts sampling, waits for the loop to exit, and closes all
// subscriber channels. Safe to call more than once.
func (c *Collector) Stop() {
	c.stopOnce.Do(func() {
		close(c.stopped)
		c.wg.Wait()
		c.mu.Lock()
		defer c.mu.Unlock()
		for id, ch := range c.subs {
			delete(c.subs, id)
			close(ch)
		}
	})
}

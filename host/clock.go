package host

import "time"

const (
	// Mainnet-flavored defaults for the step clock: 12s slots from a fixed
	// epoch.
	defaultClockStart = uint64(1_700_000_000)
	defaultClockStep  = uint64(12)
)

// Clock supplies the timestamp a frame observes. Implementations need not be
// safe for concurrent use; the host reads the clock once per call and calls
// are serialized by the driver.
type Clock interface {
	Now() uint64
}

// DefaultClock is the deterministic clock hosts fall back to, so a fixed seed
// and call sequence replays bit for bit.
func DefaultClock() Clock {
	return NewStepClock(defaultClockStart, defaultClockStep)
}

// StepClock advances by a fixed step on every reading.
type StepClock struct {
	next uint64
	step uint64
}

func NewStepClock(start, step uint64) *StepClock {
	return &StepClock{next: start, step: step}
}

func (c *StepClock) Now() uint64 {
	now := c.next
	c.next += c.step
	return now
}

// WallClock reads the system time in unix seconds, for runs where real
// timestamps matter more than reproducibility.
type WallClock struct{}

func (WallClock) Now() uint64 { return uint64(time.Now().Unix()) }

package host

// Meter tracks the gas budget of a single call. It is not safe for concurrent
// use; the host runs calls one at a time.
type Meter struct {
	limit     uint64
	remaining uint64
}

func NewMeter(limit uint64) *Meter {
	return &Meter{limit: limit, remaining: limit}
}

// Charge debits amount from the remaining budget, or fails with a
// BudgetExhaustedError without debiting anything.
func (m *Meter) Charge(op string, amount uint64) error {
	if amount > m.remaining {
		return &BudgetExhaustedError{Op: op, Need: amount, Remaining: m.remaining}
	}
	m.remaining -= amount
	return nil
}

func (m *Meter) Remaining() uint64 { return m.remaining }

func (m *Meter) Used() uint64 { return m.limit - m.remaining }

func (m *Meter) Limit() uint64 { return m.limit }

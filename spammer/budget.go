package spammer

import (
	"errors"
	"fmt"
	"sync"
)

// OverdraftError means the run-wide gas allowance is spent. It is the only
// error a schedule treats as the natural end of a load run.
type OverdraftError struct {
	Debited uint64
	Budget  uint64
}

func (e *OverdraftError) Error() string {
	return fmt.Sprintf("run budget overdrawn: debited %d gas of %d", e.Debited, e.Budget)
}

// IsOverdraft reports whether err ends the run.
func IsOverdraft(err error) bool {
	var target *OverdraftError
	return errors.As(err, &target)
}

// Budget is the run-wide gas allowance shared by all spam goroutines.
type Budget struct {
	mu      sync.Mutex
	budget  uint64
	debited uint64
}

func NewBudget(total uint64) *Budget {
	return &Budget{budget: total}
}

// Debit records spend and fails once the allowance is crossed. The crossing
// debit is still recorded: the call that overdraws has already burnt its gas
// by the time the overdraft surfaces.
func (b *Budget) Debit(gas uint64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.debited += gas
	if b.debited > b.budget {
		return &OverdraftError{Debited: b.debited, Budget: b.budget}
	}
	return nil
}

func (b *Budget) Debited() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.debited
}

func (b *Budget) Remaining() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.debited >= b.budget {
		return 0
	}
	return b.budget - b.debited
}

package host

import (
	"errors"
	"fmt"
)

// BudgetExhaustedError is returned when a charge would take a call's meter
// below zero. The frame that raised it is discarded whole; committed state is
// untouched.
type BudgetExhaustedError struct {
	Op        string
	Need      uint64
	Remaining uint64
}

func (e *BudgetExhaustedError) Error() string {
	return fmt.Sprintf("budget exhausted in %s: need %d gas, %d remaining", e.Op, e.Need, e.Remaining)
}

// InvalidParameterError rejects a call on its arguments, before any state is
// touched.
type InvalidParameterError struct {
	Op     string
	Param  string
	Reason string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid parameter %q for %s: %s", e.Param, e.Op, e.Reason)
}

// InvalidParamf builds an InvalidParameterError with a formatted reason.
func InvalidParamf(op, param, format string, args ...any) error {
	return &InvalidParameterError{Op: op, Param: param, Reason: fmt.Sprintf(format, args...)}
}

// IsBudgetExhausted reports whether err is a meter overdraft.
func IsBudgetExhausted(err error) bool {
	var target *BudgetExhaustedError
	return errors.As(err, &target)
}

// IsInvalidParameter reports whether err is a parameter rejection.
func IsInvalidParameter(err error) bool {
	var target *InvalidParameterError
	return errors.As(err, &target)
}

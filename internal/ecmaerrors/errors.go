package ecmaerrors

import "fmt"

// AssertionError is the payload carried by panics raised when an engine
// invariant is violated: a reference count driven below zero, a string
// exceeding the size ceiling, a free with the wrong block size. Violations
// indicate corrupted engine state or API misuse and are not recoverable.
type AssertionError struct {
	Operation string
	message   string
}

func NewAssertionError(operation, format string, args ...any) AssertionError {
	return AssertionError{
		Operation: operation,
		message:   fmt.Sprintf(format, args...),
	}
}

func (e AssertionError) Error() string {
	if e.Operation != "" {
		return fmt.Sprintf("ecmastr: %s: %s", e.Operation, e.message)
	}
	return "ecmastr: " + e.message
}

// Assertf panics with an AssertionError describing operation unless cond
// holds.
func Assertf(cond bool, operation, format string, args ...any) {
	if !cond {
		panic(NewAssertionError(operation, format, args...))
	}
}

package ecmastr

import "github.com/embeddedjs/ecmastr/internal/ecmaerrors"

// AssertionError is the panic payload raised when an engine invariant is
// violated: use after final release, an out of range position, content
// over the size ceiling, or a corrupted descriptor. It aliases the
// internal type so embedders can match it in recover handlers.
type AssertionError = ecmaerrors.AssertionError

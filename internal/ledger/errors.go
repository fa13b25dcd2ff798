package ledger

import (
	"errors"
	"fmt"
)

// Error kinds returned by the ledger core. Callers match them with
// errors.Is; the HTTP layer maps them onto status codes. The first four
// are expected outcomes and are never logged as failures. Only
// ErrStoreUnavailable carries try-again semantics; the core never retries.
var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidState     = errors.New("invalid state")
	ErrInvalidInput     = errors.New("invalid input")
	ErrConflict         = errors.New("conflict")
	ErrStoreUnavailable = errors.New("store unavailable")
)

func notFound(entity string) error {
	return fmt.Errorf("%s: %w", entity, ErrNotFound)
}

func invalidState(msg string) error {
	return fmt.Errorf("%s: %w", msg, ErrInvalidState)
}

func invalidInput(msg string) error {
	return fmt.Errorf("%s: %w", msg, ErrInvalidInput)
}

// storeErr wraps a driver-level failure unrelated to the request's
// content. Row-absence and duplicate-key cases must be handled before
// reaching here.
func storeErr(err error) error {
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}

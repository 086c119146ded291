package effects

import (
	"errors"
	"fmt"
)

// Sentinel errors for effect processing.
// Classify with errors.Is; the concrete error is usually a *StageError.
var (
	// ErrDomain indicates a parameter outside its valid range or missing.
	ErrDomain = errors.New("effect parameter out of domain")

	// ErrNoSuchEffect indicates an effect kind with no registered unit.
	ErrNoSuchEffect = errors.New("no such effect")

	// ErrCapacity indicates a sample count that does not fit the buffer.
	ErrCapacity = errors.New("sample count exceeds buffer capacity")

	// ErrPosition indicates a chain position outside the chain.
	ErrPosition = errors.New("chain position out of range")
)

// StageError reports a failure attributed to one chain stage.
type StageError struct {
	Position int
	Kind     Kind
	Err      error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("effect stage %d (%s): %v", e.Position, e.Kind, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// IsFatal reports whether the failure invalidated the whole buffer.
func (e *StageError) IsFatal() bool {
	return errors.Is(e.Err, ErrCapacity)
}

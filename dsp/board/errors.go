package board

import (
	"errors"
	"fmt"
)

var (
	// ErrNilModule is returned when a graph node carries no module.
	ErrNilModule = errors.New("board: nil module")
	// ErrInvalidConnection is returned for a connection referencing a
	// missing module or an out-of-range slot.
	ErrInvalidConnection = errors.New("board: invalid connection")
	// ErrSlotInUse is returned when two connections share an input slot or
	// an output slot.
	ErrSlotInUse = errors.New("board: slot already connected")
	// ErrBusConnection is returned for a connection leaving a bus-tagged module.
	ErrBusConnection = errors.New("board: bus-tagged module cannot feed a connection")
	// ErrDuplicateName is returned when two nodes share a name.
	ErrDuplicateName = errors.New("board: duplicate module name")
	// ErrCycle matches every *CycleError.
	ErrCycle = errors.New("board: connection graph contains a cycle")
	// ErrUnknownModule is returned when a patch references an unregistered kind.
	ErrUnknownModule = errors.New("board: unknown module kind")
	// ErrInvalidParam is returned for missing or out-of-range module parameters.
	ErrInvalidParam = errors.New("board: invalid module parameter")
	// ErrInvalidConfig is returned by NewBoard for an unusable configuration.
	ErrInvalidConfig = errors.New("board: invalid configuration")
	// ErrModulePanic wraps a panic recovered from a module during streaming.
	ErrModulePanic = errors.New("board: module panicked")
	// ErrNonFinite is reported when a pass produces NaN or Inf.
	ErrNonFinite = errors.New("board: non-finite sample")
	// ErrInvalidPitch is reported when the pitch bus is not a positive
	// finite ratio. The previous pitch stays in effect.
	ErrInvalidPitch = errors.New("board: invalid pitch ratio")
)

// CycleError identifies a connection that closes a feedback loop.
type CycleError struct {
	Edge     Connection
	From, To string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("board: connection %s[%d] -> %s[%d] closes a cycle",
		e.From, e.Edge.SourceSlot, e.To, e.Edge.DestSlot)
}

// Is reports whether target is ErrCycle.
func (e *CycleError) Is(target error) bool {
	return target == ErrCycle
}

func invalidParam(kind, key string, format string, args ...any) error {
	return fmt.Errorf("%w: %s.%s: %s", ErrInvalidParam, kind, key, fmt.Sprintf(format, args...))
}

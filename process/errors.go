package process

import (
	"errors"
	"fmt"
)

var (
	// ErrProcessNotFound is returned when no process matches the requested
	// name or id at resolution time.
	ErrProcessNotFound = errors.New("process not found")

	// ErrModuleNotFound is returned when the named module is absent from the
	// resolved process's module list.
	ErrModuleNotFound = errors.New("module not found")

	// ErrClosed is returned when an operation is attempted after the
	// accessor's handle has been released. The OS primitive is never invoked
	// in that case.
	ErrClosed = errors.New("accessor closed")
)

// OpError is the general memory-operation error: opening the process
// failed, or a byte transfer failed or moved a short count. It wraps the
// OS-reported error (or one of the sentinel errors above), so callers can
// catch broadly with errors.As(&OpError{}) or narrowly with errors.Is on
// the sentinel or errno.
type OpError struct {
	Op          string        // "resolve", "open", "read", "write"
	Addr        MemoryAddress // address of the transfer, 0 for resolution failures
	Requested   int           // bytes requested
	Transferred int           // bytes the OS reports it moved
	Err         error         // underlying OS error or sentinel
}

func (e *OpError) Error() string {
	if e.Op == "read" || e.Op == "write" {
		return fmt.Sprintf("%s %s at %s: transferred %d: %v",
			e.Op, MemorySize(e.Requested), e.Addr, e.Transferred, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *OpError) Unwrap() error {
	return e.Err
}

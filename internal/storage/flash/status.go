package flash

import (
	"errors"
	"fmt"
)

// Status is the public status taxonomy from spec §6. It is an observable
// enumeration, not just an error string, so callers can switch on it the way
// the original C implementation's callers switch on an enum return value.
type Status int

const (
	StatusOK Status = iota
	StatusUninitialized
	StatusTotalSizeExceeded
	StatusNoValidDataFound
	StatusDataCorruptionDetected
	StatusCrcCheckFailure
	StatusLlInitFault
	StatusLlWriteFault
	StatusLlReadFault
	StatusLlEraseFault
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "Ok"
	case StatusUninitialized:
		return "Uninitialized"
	case StatusTotalSizeExceeded:
		return "TotalSizeExceeded"
	case StatusNoValidDataFound:
		return "NoValidDataFound"
	case StatusDataCorruptionDetected:
		return "DataCorruptionDetected"
	case StatusCrcCheckFailure:
		return "CrcCheckFailure"
	case StatusLlInitFault:
		return "LlInitFault"
	case StatusLlWriteFault:
		return "LlWriteFault"
	case StatusLlReadFault:
		return "LlReadFault"
	case StatusLlEraseFault:
		return "LlEraseFault"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Sentinel errors, one per non-Ok Status except StatusUninitialized, so
// callers can use errors.Is the same way the other_examples slotcache
// package's ErrInvalidInput/ErrCorrupt sentinels work: Store's methods return
// them wrapped with additional context via %w (PlanLayout returns
// ErrTotalSizeExceeded unwrapped).
var (
	ErrTotalSizeExceeded      = errors.New("flash: total size exceeded")
	ErrNoValidDataFound       = errors.New("flash: no valid data found")
	ErrDataCorruptionDetected = errors.New("flash: data corruption detected")
	ErrCrcCheckFailure        = errors.New("flash: crc check failure")
	ErrLlInitFault            = errors.New("flash: low-level init fault")
	ErrLlWriteFault           = errors.New("flash: low-level write fault")
	ErrLlReadFault            = errors.New("flash: low-level read fault")
	ErrLlEraseFault           = errors.New("flash: low-level erase fault")
)

var statusForErr = map[error]Status{
	ErrTotalSizeExceeded:      StatusTotalSizeExceeded,
	ErrNoValidDataFound:       StatusNoValidDataFound,
	ErrDataCorruptionDetected: StatusDataCorruptionDetected,
	ErrCrcCheckFailure:        StatusCrcCheckFailure,
	ErrLlInitFault:            StatusLlInitFault,
	ErrLlWriteFault:           StatusLlWriteFault,
	ErrLlReadFault:            StatusLlReadFault,
	ErrLlEraseFault:           StatusLlEraseFault,
}

// StatusError pairs a Status with the wrapped error chain that produced it,
// so errors.Is(err, ErrNoValidDataFound) and callers that just want the
// enum (err.(*StatusError).Status) both work.
type StatusError struct {
	Status Status
	Err    error
}

func (e *StatusError) Error() string { return e.Err.Error() }
func (e *StatusError) Unwrap() error { return e.Err }

// newStatusError wraps err (expected to wrap one of the Err* sentinels above)
// into a StatusError, deriving Status by walking the sentinel table.
func newStatusError(err error) *StatusError {
	for sentinel, st := range statusForErr {
		if errors.Is(err, sentinel) {
			return &StatusError{Status: st, Err: err}
		}
	}
	return &StatusError{Status: StatusUninitialized, Err: err}
}

// StatusOf extracts the Status from an error returned by this package,
// StatusOK if err is nil.
func StatusOf(err error) Status {
	if err == nil {
		return StatusOK
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Status
	}
	return StatusUninitialized
}

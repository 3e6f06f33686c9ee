package script

import "errors"

// Fatal runtime errors. Everything else the interpreter meets is reported as
// a Diagnostic and the offending line is skipped.
var (
	ErrUnknownLabel   = errors.New("unknown label")
	ErrLineOutOfRange = errors.New("line out of range")
	ErrNoSwitchTarget = errors.New("no switch target")
)

// Diagnostic is a non-fatal problem found while executing a line.
type Diagnostic struct {
	Line    int
	Message string
}

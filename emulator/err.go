package emulator

import (
	"errors"

	"github.com/ezrec/metal/translate"
)

var f = translate.From

var (
	ErrStepLimit = errors.New(f("step limit exceeded"))
)

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	Pc     uint32 // PC of the faulting instruction.
	Step   int    // Instructions executed before the fault.
	LineNo int    // Source line, or 0 if unknown.
	Err    error
}

func (err *ErrRuntime) Error() string {
	if err.LineNo == 0 {
		return f("pc %d step %d %v", err.Pc, err.Step, err.Err)
	}
	return f("line %d pc %d step %d %v", err.LineNo, err.Pc, err.Step, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}

package loader

import (
	"errors"

	"github.com/ezrec/metal/translate"
)

var f = translate.From

var (
	ErrProgramMissing = errors.New(f("'program' is not defined"))
	ErrProgramType    = errors.New(f("'program' is not a list or tuple"))
	ErrEntryType      = errors.New(f("entry is not a tuple"))
	ErrEntryEmpty     = errors.New(f("entry is empty"))
	ErrOpcodeType     = errors.New(f("opcode is not a string"))
	ErrOperandType    = errors.New(f("operand is not a register name or integer"))
	ErrOperandRange   = errors.New(f("operand out of range"))
)

// ErrScript is a failure to execute a program file.
type ErrScript struct {
	Filename string
	Err      error
}

func (err *ErrScript) Error() string {
	return f("%v: %v", err.Filename, err.Err)
}

func (err *ErrScript) Unwrap() error {
	return err.Err
}

// ErrEntry locates an invalid entry of the program list.
type ErrEntry struct {
	Index  int
	LineNo int
	Err    error
}

func (err *ErrEntry) Error() string {
	if err.LineNo == 0 {
		return f("entry %d %v", err.Index, err.Err)
	}
	return f("line %d entry %d %v", err.LineNo, err.Index, err.Err)
}

func (err *ErrEntry) Unwrap() error {
	return err.Err
}

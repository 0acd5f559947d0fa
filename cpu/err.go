package cpu

import (
	"errors"

	"github.com/ezrec/metal/translate"
)

var f = translate.From

var (
	// Cpu errors
	ErrHalted        = errors.New(f("cpu halted"))
	ErrProgramBounds = errors.New(f("pc outside of program"))
	ErrMemoryFault   = errors.New(f("memory fault"))

	// Instruction decode errors
	ErrOpcodeInvalid   = errors.New(f("opcode invalid"))
	ErrOperandInvalid  = errors.New(f("operands invalid"))
	ErrRegisterInvalid = errors.New(f("register invalid"))
)

// ErrAddress is the effective address of a faulting memory access.
type ErrAddress int64

func (ea ErrAddress) Error() string {
	return f("address %d outside of memory", int64(ea))
}

func (ea ErrAddress) Is(err error) bool {
	return err == ErrMemoryFault
}

// ErrPc is the program counter of a failed fetch.
type ErrPc uint32

func (ep ErrPc) Error() string {
	return f("pc %d", uint32(ep))
}

// ErrInstruction locates the instruction that failed to execute.
type ErrInstruction struct {
	Pc          uint32
	Instruction Instruction
}

func (ei ErrInstruction) Error() string {
	return f("pc %d: %v", ei.Pc, ei.Instruction.String())
}

func (ei ErrInstruction) Is(err error) (ok bool) {
	_, ok = err.(ErrInstruction)
	return
}

// ErrOperand locates an invalid operand by position.
type ErrOperand struct {
	Index int
	Err   error
}

func (eo ErrOperand) Error() string {
	return f("operand %d %v", eo.Index, eo.Err)
}

func (eo ErrOperand) Unwrap() error {
	return eo.Err
}

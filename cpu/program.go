package cpu

import (
	"errors"
	"iter"
)

// Program is an immutable instruction sequence, indexed by the PC.
type Program struct {
	Instructions []Instruction
	LineNo       []int // Source line of each instruction, if known.
}

// NewProgram creates a program from a list of instructions.
func NewProgram(ins ...Instruction) *Program {
	return &Program{Instructions: ins}
}

// Debug is the debug information for a single PC.
type Debug struct {
	*Instruction
	Pc     uint32
	LineNo int
}

// Len returns the number of instructions.
func (prog *Program) Len() int {
	if prog == nil {
		return 0
	}
	return len(prog.Instructions)
}

// Fetch returns the instruction at a PC.
func (prog *Program) Fetch(pc uint32) (ins Instruction, err error) {
	if uint64(pc) >= uint64(prog.Len()) {
		err = errors.Join(ErrProgramBounds, ErrPc(pc))
		return
	}

	ins = prog.Instructions[pc]
	return
}

// Debug returns the instruction and source line for a PC.
// The Instruction is nil if the PC is outside of the program.
func (prog *Program) Debug(pc uint32) (dbg Debug) {
	dbg.Pc = pc

	if uint64(pc) >= uint64(prog.Len()) {
		return
	}

	dbg.Instruction = &prog.Instructions[pc]
	if int(pc) < len(prog.LineNo) {
		dbg.LineNo = prog.LineNo[pc]
	}

	return
}

// All iterates over the program's PCs and instructions.
func (prog *Program) All() iter.Seq2[uint32, Instruction] {
	return func(yield func(pc uint32, ins Instruction) bool) {
		for n := range prog.Len() {
			if !yield(uint32(n), prog.Instructions[n]) {
				return
			}
		}
	}
}

// Validate decodes every instruction, returning the first failure.
func (prog *Program) Validate() (err error) {
	for pc, ins := range prog.All() {
		_, err = ins.Decode()
		if err != nil {
			err = errors.Join(ErrInstruction{Pc: pc, Instruction: ins}, err)
			return
		}
	}

	return
}

// Package loader reads Metal programs from Starlark files.
//
// A program file binds the global 'program' to a list of instruction
// tuples. Each tuple holds the opcode name followed by its operands:
// register names ("R0".."R7", "PC") or integers. An optional trailing
// callable is a trace hook, called after the instruction executes:
//
//	program = [
//	    ("CONST", 3, "R1"),
//	    ("CONST", 4, "R2"),
//	    ("ADD", "R1", "R2", "R1", lambda m: "R1 = %d" % m.registers["R1"]),
//	    ("STORE", "R1", "R0", IO_OUT),
//	    ("HALT",),
//	]
//
// A hook receives the machine view 'm', with m.pc, m.registers (a dict of
// register name to value) and m.mem(addr) to read a memory cell.
//
// Opcode names, register names and the machine constants (IO_OUT,
// MEMORY_SIZE, MASK) are predeclared.
package loader

import (
	"io"
	"log"
	"maps"
	"math/big"
	"slices"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/metal/cpu"
	"github.com/ezrec/metal/internal"
)

// Name of the global holding the instruction list.
const PROGRAM_GLOBAL = "program"

// Loader decodes program files into programs and their trace hooks.
type Loader struct {
	Verbose bool // If set, verbosely logs the loader actions.

	predefine map[string]starlark.Value // Predefines
}

// Predefine defines a new integer global or redefines an existing one.
func (ld *Loader) Predefine(name string, value int64) {
	if ld.predefine == nil {
		ld.predefine = map[string]starlark.Value{}
	}
	ld.predefine[name] = starlark.MakeInt64(value)
}

// Predeclared returns the globals visible to a program file.
func (ld *Loader) Predeclared() (pred starlark.StringDict) {
	uint32Value := func(value uint32) starlark.Value { return starlark.MakeUint(uint(value)) }
	registerValue := func(reg cpu.Register) starlark.Value { return starlark.String(reg.String()) }
	opcodeValue := func(op cpu.Opcode) starlark.Value { return starlark.String(op.String()) }

	defines := internal.IterSeq2Concat(
		internal.IterSeq2Map(cpu.Defines(), uint32Value),
		internal.IterSeq2Map(internal.IterSeqKeyed(cpu.Registers(), cpu.Register.String), registerValue),
		internal.IterSeq2Map(internal.IterSeqKeyed(slices.Values(cpu.Opcodes()), cpu.Opcode.String), opcodeValue),
		maps.All(ld.predefine),
	)

	pred = starlark.StringDict{}
	for name, value := range defines {
		pred[name] = value
	}

	return
}

// Parse executes a program file, and decodes its program.
func (ld *Loader) Parse(filename string, input io.Reader) (prog *cpu.Program, trace *Trace, err error) {
	defer func() {
		if err != nil {
			err = &ErrScript{Filename: filename, Err: err}
		}
	}()

	src, err := io.ReadAll(input)
	if err != nil {
		return
	}

	opts := syntax.FileOptions{
		TopLevelControl: true,
		GlobalReassign:  true,
		Recursion:       true,
	}
	thread := &starlark.Thread{
		Name: filename,
		Print: func(_ *starlark.Thread, msg string) {
			log.Printf("%v: %v", filename, msg)
		},
	}

	globals, err := starlark.ExecFileOptions(&opts, thread, filename, src, ld.Predeclared())
	if err != nil {
		return
	}

	value, ok := globals[PROGRAM_GLOBAL]
	if !ok {
		err = ErrProgramMissing
		return
	}

	entries, ok := value.(starlark.Indexable)
	if !ok {
		err = ErrProgramType
		return
	}
	if _, ok := value.(starlark.String); ok {
		err = ErrProgramType
		return
	}

	lines := entryLines(&opts, filename, src)
	if len(lines) != entries.Len() {
		lines = nil
	}

	prog = &cpu.Program{}
	trace = &Trace{
		thread: thread,
		hook:   map[uint32]starlark.Callable{},
	}

	for n := range entries.Len() {
		lineno := 0
		if lines != nil {
			lineno = lines[n]
		}

		var ins cpu.Instruction
		var hook starlark.Callable
		ins, hook, err = decodeEntry(entries.Index(n))
		if err != nil {
			err = &ErrEntry{Index: n, LineNo: lineno, Err: err}
			return
		}

		if ld.Verbose {
			log.Printf("%v:%d: %04x: %v", filename, lineno, n, ins)
		}

		prog.Instructions = append(prog.Instructions, ins)
		prog.LineNo = append(prog.LineNo, lineno)
		if hook != nil {
			trace.hook[uint32(n)] = hook
		}
	}

	return
}

// decodeEntry decodes a single instruction tuple.
func decodeEntry(entry starlark.Value) (ins cpu.Instruction, hook starlark.Callable, err error) {
	var items []starlark.Value
	switch entry := entry.(type) {
	case starlark.Tuple:
		items = entry
	case *starlark.List:
		for n := range entry.Len() {
			items = append(items, entry.Index(n))
		}
	default:
		err = ErrEntryType
		return
	}

	if len(items) == 0 {
		err = ErrEntryEmpty
		return
	}

	name, ok := starlark.AsString(items[0])
	if !ok {
		err = ErrOpcodeType
		return
	}

	ins.Opcode, err = cpu.ParseOpcode(name)
	if err != nil {
		return
	}

	args := items[1:]
	if len(args) > 0 {
		if callable, ok := args[len(args)-1].(starlark.Callable); ok {
			hook = callable
			args = args[:len(args)-1]
		}
	}

	for n, item := range args {
		var arg cpu.Arg
		switch item := item.(type) {
		case starlark.String:
			var reg cpu.Register
			reg, err = cpu.ParseRegister(string(item))
			if err != nil {
				err = cpu.ErrOperand{Index: n, Err: err}
				return
			}
			arg = cpu.Reg(reg)
		case starlark.Int:
			value, ok := item.Int64()
			if !ok && ins.Opcode == cpu.OP_CONST {
				// CONST keeps the low 32 bits of any integer.
				value = new(big.Int).And(item.BigInt(), big.NewInt(cpu.MASK)).Int64()
				ok = true
			}
			if !ok {
				err = cpu.ErrOperand{Index: n, Err: ErrOperandRange}
				return
			}
			arg = cpu.Imm(value)
		default:
			err = cpu.ErrOperand{Index: n, Err: ErrOperandType}
			return
		}
		ins.Args = append(ins.Args, arg)
	}

	_, err = ins.Decode()

	return
}

// entryLines finds the source line of each element of a literal
// 'program' list. Returns nil if the program is not a literal.
func entryLines(opts *syntax.FileOptions, filename string, src []byte) (lines []int) {
	file, err := opts.Parse(filename, src, 0)
	if err != nil {
		return
	}

	for _, stmt := range file.Stmts {
		assign, ok := stmt.(*syntax.AssignStmt)
		if !ok || assign.Op != syntax.EQ {
			continue
		}
		ident, ok := assign.LHS.(*syntax.Ident)
		if !ok || ident.Name != PROGRAM_GLOBAL {
			continue
		}

		rhs := assign.RHS
		if paren, ok := rhs.(*syntax.ParenExpr); ok {
			rhs = paren.X
		}

		var elems []syntax.Expr
		switch rhs := rhs.(type) {
		case *syntax.ListExpr:
			elems = rhs.List
		case *syntax.TupleExpr:
			elems = rhs.List
		default:
			lines = nil
			continue
		}

		lines = make([]int, len(elems))
		for n, elem := range elems {
			start, _ := elem.Span()
			lines[n] = int(start.Line)
		}
	}

	return
}

package cpu

import (
	"fmt"
	"strings"
)

// Opcode is the operation tag of an instruction.
type Opcode int

const (
	OP_ADD   = Opcode(0)  // ADD
	OP_SUB   = Opcode(1)  // SUB
	OP_INC   = Opcode(2)  // INC
	OP_DEC   = Opcode(3)  // DEC
	OP_AND   = Opcode(4)  // AND
	OP_OR    = Opcode(5)  // OR
	OP_XOR   = Opcode(6)  // XOR
	OP_SHL   = Opcode(7)  // SHL
	OP_SHR   = Opcode(8)  // SHR
	OP_CMP   = Opcode(9)  // CMP
	OP_CONST = Opcode(10) // CONST
	OP_LOAD  = Opcode(11) // LOAD
	OP_STORE = Opcode(12) // STORE
	OP_JMP   = Opcode(13) // JMP
	OP_BZ    = Opcode(14) // BZ
	OP_HALT  = Opcode(15) // HALT

	OPCODE_COUNT = 16
)

// CodeFormat is the operand layout of an opcode.
type CodeFormat int

const (
	FORMAT_NONE = CodeFormat(0) // -
	FORMAT_A    = CodeFormat(1) // Ra
	FORMAT_ABD  = CodeFormat(2) // Ra Rb Rd
	FORMAT_VD   = CodeFormat(3) // value Rd
	FORMAT_ADV  = CodeFormat(4) // Ra Rd offset
	FORMAT_AV   = CodeFormat(5) // Ra offset
)

// formatArgs lists the operand kinds of each format, in order.
var formatArgs = [...][]ArgKind{
	FORMAT_NONE: nil,
	FORMAT_A:    {ARG_REGISTER},
	FORMAT_ABD:  {ARG_REGISTER, ARG_REGISTER, ARG_REGISTER},
	FORMAT_VD:   {ARG_IMMEDIATE, ARG_REGISTER},
	FORMAT_ADV:  {ARG_REGISTER, ARG_REGISTER, ARG_IMMEDIATE},
	FORMAT_AV:   {ARG_REGISTER, ARG_IMMEDIATE},
}

type opcodeInfo struct {
	name   string
	format CodeFormat
}

var opcodeTable = [OPCODE_COUNT]opcodeInfo{
	OP_ADD:   {"ADD", FORMAT_ABD},
	OP_SUB:   {"SUB", FORMAT_ABD},
	OP_INC:   {"INC", FORMAT_A},
	OP_DEC:   {"DEC", FORMAT_A},
	OP_AND:   {"AND", FORMAT_ABD},
	OP_OR:    {"OR", FORMAT_ABD},
	OP_XOR:   {"XOR", FORMAT_ABD},
	OP_SHL:   {"SHL", FORMAT_ABD},
	OP_SHR:   {"SHR", FORMAT_ABD},
	OP_CMP:   {"CMP", FORMAT_ABD},
	OP_CONST: {"CONST", FORMAT_VD},
	OP_LOAD:  {"LOAD", FORMAT_ADV},
	OP_STORE: {"STORE", FORMAT_ADV},
	OP_JMP:   {"JMP", FORMAT_AV},
	OP_BZ:    {"BZ", FORMAT_AV},
	OP_HALT:  {"HALT", FORMAT_NONE},
}

var opcodeMap = map[string]Opcode{}

func init() {
	for n, info := range opcodeTable {
		opcodeMap[info.name] = Opcode(n)
	}
}

// Valid returns true if the opcode is part of the instruction set.
func (op Opcode) Valid() bool {
	return op >= OP_ADD && op < OPCODE_COUNT
}

// Format returns the operand layout of the opcode.
func (op Opcode) Format() CodeFormat {
	return opcodeTable[op].format
}

func (op Opcode) String() string {
	if !op.Valid() {
		return fmt.Sprintf("Opcode(%d)", int(op))
	}
	return opcodeTable[op].name
}

// ParseOpcode returns the opcode with the given name.
func ParseOpcode(name string) (op Opcode, err error) {
	op, ok := opcodeMap[name]
	if !ok {
		err = ErrOpcodeInvalid
	}
	return
}

// Opcodes returns all opcodes, in order.
func Opcodes() (ops []Opcode) {
	for op := range Opcode(OPCODE_COUNT) {
		ops = append(ops, op)
	}
	return
}

// ArgKind is the type of an instruction operand.
type ArgKind int

const (
	ARG_REGISTER  = ArgKind(0) // register
	ARG_IMMEDIATE = ArgKind(1) // immediate
)

// Arg is a single instruction operand.
type Arg struct {
	Kind     ArgKind
	Register Register // Valid when Kind is ARG_REGISTER.
	Value    int64    // Valid when Kind is ARG_IMMEDIATE.
}

// Reg makes a register operand.
func Reg(reg Register) Arg {
	return Arg{Kind: ARG_REGISTER, Register: reg}
}

// Imm makes an immediate or offset operand.
func Imm(value int64) Arg {
	return Arg{Kind: ARG_IMMEDIATE, Value: value}
}

func (arg Arg) String() string {
	if arg.Kind == ARG_REGISTER {
		return arg.Register.String()
	}
	return fmt.Sprintf("%d", arg.Value)
}

// Instruction is an opcode and its operands.
type Instruction struct {
	Opcode Opcode
	Args   []Arg
}

// Code is a decoded instruction.
//
// Operands are placed by format: FORMAT_A uses A; FORMAT_ABD uses A, B
// and D; FORMAT_VD uses Value and D; FORMAT_ADV uses A, D and Value;
// FORMAT_AV uses A and Value.
type Code struct {
	Opcode Opcode
	A      Register
	B      Register
	D      Register
	Value  int64
}

func makeCode(op Opcode, args ...Arg) Instruction {
	return Instruction{Opcode: op, Args: args}
}

// MakeAdd creates an ADD instruction: rd = ra + rb
func MakeAdd(ra, rb, rd Register) Instruction {
	return makeCode(OP_ADD, Reg(ra), Reg(rb), Reg(rd))
}

// MakeSub creates a SUB instruction: rd = ra - rb
func MakeSub(ra, rb, rd Register) Instruction {
	return makeCode(OP_SUB, Reg(ra), Reg(rb), Reg(rd))
}

// MakeInc creates an INC instruction.
func MakeInc(ra Register) Instruction {
	return makeCode(OP_INC, Reg(ra))
}

// MakeDec creates a DEC instruction.
func MakeDec(ra Register) Instruction {
	return makeCode(OP_DEC, Reg(ra))
}

// MakeAnd creates an AND instruction.
func MakeAnd(ra, rb, rd Register) Instruction {
	return makeCode(OP_AND, Reg(ra), Reg(rb), Reg(rd))
}

// MakeOr creates an OR instruction.
func MakeOr(ra, rb, rd Register) Instruction {
	return makeCode(OP_OR, Reg(ra), Reg(rb), Reg(rd))
}

// MakeXor creates an XOR instruction.
func MakeXor(ra, rb, rd Register) Instruction {
	return makeCode(OP_XOR, Reg(ra), Reg(rb), Reg(rd))
}

// MakeShl creates a SHL instruction.
func MakeShl(ra, rb, rd Register) Instruction {
	return makeCode(OP_SHL, Reg(ra), Reg(rb), Reg(rd))
}

// MakeShr creates a SHR instruction.
func MakeShr(ra, rb, rd Register) Instruction {
	return makeCode(OP_SHR, Reg(ra), Reg(rb), Reg(rd))
}

// MakeCmp creates a CMP instruction: rd = (ra == rb)
func MakeCmp(ra, rb, rd Register) Instruction {
	return makeCode(OP_CMP, Reg(ra), Reg(rb), Reg(rd))
}

// MakeConst creates a CONST instruction.
func MakeConst(value int64, rd Register) Instruction {
	return makeCode(OP_CONST, Imm(value), Reg(rd))
}

// MakeLoad creates a LOAD instruction: rd = MEMORY[rs + offset]
func MakeLoad(rs, rd Register, offset int64) Instruction {
	return makeCode(OP_LOAD, Reg(rs), Reg(rd), Imm(offset))
}

// MakeStore creates a STORE instruction: MEMORY[rd + offset] = rs
func MakeStore(rs, rd Register, offset int64) Instruction {
	return makeCode(OP_STORE, Reg(rs), Reg(rd), Imm(offset))
}

// MakeJmp creates a JMP instruction: PC = rd + offset
func MakeJmp(rd Register, offset int64) Instruction {
	return makeCode(OP_JMP, Reg(rd), Imm(offset))
}

// MakeBz creates a BZ instruction: if rt == 0, PC = PC + offset
func MakeBz(rt Register, offset int64) Instruction {
	return makeCode(OP_BZ, Reg(rt), Imm(offset))
}

// MakeHalt creates a HALT instruction.
func MakeHalt() Instruction {
	return makeCode(OP_HALT)
}

// Decode validates the instruction and returns its operands by role.
func (ins Instruction) Decode() (code Code, err error) {
	if !ins.Opcode.Valid() {
		err = ErrOpcodeInvalid
		return
	}

	kinds := formatArgs[ins.Opcode.Format()]
	if len(ins.Args) != len(kinds) {
		err = ErrOperandInvalid
		return
	}

	var regs []Register
	for n, arg := range ins.Args {
		if arg.Kind != kinds[n] {
			err = ErrOperand{Index: n, Err: ErrOperandInvalid}
			return
		}
		switch arg.Kind {
		case ARG_REGISTER:
			if !arg.Register.Valid() {
				err = ErrOperand{Index: n, Err: ErrRegisterInvalid}
				return
			}
			regs = append(regs, arg.Register)
		case ARG_IMMEDIATE:
			code.Value = arg.Value
		}
	}

	code.Opcode = ins.Opcode

	switch ins.Opcode.Format() {
	case FORMAT_A, FORMAT_AV:
		code.A = regs[0]
	case FORMAT_ABD:
		code.A, code.B, code.D = regs[0], regs[1], regs[2]
	case FORMAT_VD:
		code.D = regs[0]
	case FORMAT_ADV:
		code.A, code.D = regs[0], regs[1]
	}

	return
}

// String returns the instruction as 'OPCODE arg...'.
func (ins Instruction) String() string {
	words := []string{ins.Opcode.String()}
	for _, arg := range ins.Args {
		words = append(words, arg.String())
	}
	return strings.Join(words, " ")
}

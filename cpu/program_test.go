package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgram_Debug(t *testing.T) {
	assert := assert.New(t)

	prog := &Program{
		Instructions: []Instruction{
			MakeConst(0x10, REG_R1),
			MakeConst(0x20, REG_R2),
			MakeAdd(REG_R1, REG_R2, REG_R1),
		},
		LineNo: []int{3, 4, 6},
	}

	dbg := prog.Debug(0)
	assert.NotNil(dbg.Instruction)
	assert.Equal(3, dbg.LineNo)
	assert.Equal(OP_CONST, dbg.Opcode)

	dbg = prog.Debug(2)
	assert.NotNil(dbg.Instruction)
	assert.Equal(6, dbg.LineNo)
	assert.Equal(uint32(2), dbg.Pc)
	assert.Equal(OP_ADD, dbg.Opcode)
}

func TestProgram_Debug_NotFound(t *testing.T) {
	assert := assert.New(t)

	prog := NewProgram(MakeHalt())

	dbg := prog.Debug(10)
	assert.Nil(dbg.Instruction)
	assert.Equal(0, dbg.LineNo)

	dbg = prog.Debug(0xffffffff)
	assert.Nil(dbg.Instruction)
}

func TestProgram_Debug_NoLines(t *testing.T) {
	assert := assert.New(t)

	prog := NewProgram(MakeHalt())

	dbg := prog.Debug(0)
	assert.NotNil(dbg.Instruction)
	assert.Equal(0, dbg.LineNo)
}

func TestProgram_Fetch(t *testing.T) {
	assert := assert.New(t)

	prog := NewProgram(MakeInc(REG_R1), MakeHalt())

	ins, err := prog.Fetch(1)
	assert.NoError(err)
	assert.Equal(OP_HALT, ins.Opcode)

	_, err = prog.Fetch(2)
	assert.ErrorIs(err, ErrProgramBounds)

	var nilprog *Program
	assert.Equal(0, nilprog.Len())
	_, err = nilprog.Fetch(0)
	assert.ErrorIs(err, ErrProgramBounds)
}

func TestProgram_All(t *testing.T) {
	assert := assert.New(t)

	prog := NewProgram(MakeInc(REG_R1), MakeDec(REG_R2), MakeHalt())

	var pcs []uint32
	var ops []Opcode
	for pc, ins := range prog.All() {
		pcs = append(pcs, pc)
		ops = append(ops, ins.Opcode)
		if ins.Opcode == OP_DEC {
			break
		}
	}

	assert.Equal([]uint32{0, 1}, pcs)
	assert.Equal([]Opcode{OP_INC, OP_DEC}, ops)
}

func TestProgram_Validate(t *testing.T) {
	assert := assert.New(t)

	assert.NoError(callProgram.Validate())

	prog := NewProgram(MakeHalt(), MakeInc(Register(11)))
	err := prog.Validate()
	assert.ErrorIs(err, ErrRegisterInvalid)

	var ei ErrInstruction
	assert.ErrorAs(err, &ei)
	assert.Equal(uint32(1), ei.Pc)
}

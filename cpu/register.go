package cpu

import (
	"fmt"
	"iter"
)

// Register identifies a register in the register file.
type Register int

const (
	REG_R0 = Register(0) // R0
	REG_R1 = Register(1) // R1
	REG_R2 = Register(2) // R2
	REG_R3 = Register(3) // R3
	REG_R4 = Register(4) // R4
	REG_R5 = Register(5) // R5
	REG_R6 = Register(6) // R6
	REG_R7 = Register(7) // R7
	REG_PC = Register(8) // PC

	REGISTER_COUNT = 9
)

var registerName = [REGISTER_COUNT]string{
	"R0", "R1", "R2", "R3", "R4", "R5", "R6", "R7", "PC",
}

var registerMap = map[string]Register{}

func init() {
	for n, name := range registerName {
		registerMap[name] = Register(n)
	}
}

// Valid returns true if the register exists in the register file.
func (reg Register) Valid() bool {
	return reg >= REG_R0 && reg < REGISTER_COUNT
}

func (reg Register) String() string {
	if !reg.Valid() {
		return fmt.Sprintf("Register(%d)", int(reg))
	}
	return registerName[reg]
}

// ParseRegister returns the register with the given name.
func ParseRegister(name string) (reg Register, err error) {
	reg, ok := registerMap[name]
	if !ok {
		err = ErrRegisterInvalid
	}
	return
}

// Registers iterates over all register identifiers, in order.
func Registers() iter.Seq[Register] {
	return func(yield func(reg Register) bool) {
		for reg := range Register(REGISTER_COUNT) {
			if !yield(reg) {
				return
			}
		}
	}
}

// RegisterFile holds the values of R0-R7 and PC.
//
// Writes to R0 are discarded, so R0 always reads as zero.
type RegisterFile [REGISTER_COUNT]uint32

// Get returns the value of a register.
func (rf *RegisterFile) Get(reg Register) uint32 {
	if reg == REG_R0 {
		return 0
	}
	return rf[reg]
}

// Set sets the value of a register.
func (rf *RegisterFile) Set(reg Register, value uint32) {
	if reg == REG_R0 {
		return
	}
	rf[reg] = value
}

// Pc returns the program counter.
func (rf *RegisterFile) Pc() uint32 {
	return rf[REG_PC]
}

// All iterates over register names and values.
func (rf *RegisterFile) All() iter.Seq2[Register, uint32] {
	return func(yield func(reg Register, value uint32) bool) {
		for reg := range Registers() {
			if !yield(reg, rf.Get(reg)) {
				return
			}
		}
	}
}

func (rf *RegisterFile) String() (text string) {
	for reg, value := range rf.All() {
		if len(text) != 0 {
			text += " "
		}
		text += fmt.Sprintf("%v=%d", reg, value)
	}
	return
}

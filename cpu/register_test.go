package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegisterFile(t *testing.T) {
	assert := assert.New(t)

	var rf RegisterFile

	for reg := range Registers() {
		rf.Set(reg, 0x1000+uint32(reg))
	}

	assert.Equal(uint32(0), rf.Get(REG_R0))
	assert.Equal(uint32(0), rf[REG_R0])
	for reg := REG_R1; reg <= REG_PC; reg++ {
		assert.Equal(0x1000+uint32(reg), rf.Get(reg), reg.String())
	}
	assert.Equal(uint32(0x1008), rf.Pc())

	assert.Equal("R0=0 R1=4097 R2=4098 R3=4099 R4=4100 R5=4101 R6=4102 R7=4103 PC=4104", rf.String())
}

func TestRegisterParse(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name string
		reg  Register
		err  error
	}){
		{"R0", REG_R0, nil},
		{"R5", REG_R5, nil},
		{"R7", REG_R7, nil},
		{"PC", REG_PC, nil},
		{"R8", 0, ErrRegisterInvalid},
		{"r1", 0, ErrRegisterInvalid},
		{"", 0, ErrRegisterInvalid},
	}

	for _, entry := range table {
		reg, err := ParseRegister(entry.name)
		if entry.err != nil {
			assert.ErrorIs(err, entry.err, entry.name)
			continue
		}
		assert.NoError(err, entry.name)
		assert.Equal(entry.reg, reg, entry.name)
		assert.Equal(entry.name, reg.String())
	}
}

func TestRegisterValid(t *testing.T) {
	assert := assert.New(t)

	assert.True(REG_R0.Valid())
	assert.True(REG_PC.Valid())
	assert.False(Register(-1).Valid())
	assert.False(Register(REGISTER_COUNT).Valid())
	assert.Equal("Register(12)", Register(12).String())
}

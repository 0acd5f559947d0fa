package cpu

import (
	"iter"
	"maps"
)

const (
	MEMORY_SIZE = 65536           // Number of memory cells.
	IO_OUT      = MEMORY_SIZE - 1 // Output port address.
	MASK        = 0xffffffff      // Mask of a register value.
)

var _cpu_defines = map[string]uint32{
	"IO_OUT":      IO_OUT,
	"MEMORY_SIZE": MEMORY_SIZE,
	"MASK":        MASK,
}

// Defines returns the machine constants by name.
func Defines() iter.Seq2[string, uint32] {
	return maps.All(_cpu_defines)
}

// Port receives the values stored to IO_OUT.
type Port interface {
	Out(value uint32) error
}

// PortFunc adapts a function to a Port.
type PortFunc func(value uint32) error

func (pf PortFunc) Out(value uint32) error {
	return pf(value)
}

// Memory is the data memory of the machine.
type Memory struct {
	Port Port // Output port mapped at IO_OUT; may be nil.

	cell [MEMORY_SIZE]uint32
}

// Reset zeros all memory cells.
func (mem *Memory) Reset() {
	clear(mem.cell[:])
}

// check validates an effective address.
func (mem *Memory) check(addr int64) (index int, err error) {
	if addr < 0 || addr >= MEMORY_SIZE {
		err = ErrAddress(addr)
		return
	}

	index = int(addr)
	return
}

// Load returns the value of a memory cell.
func (mem *Memory) Load(addr int64) (value uint32, err error) {
	index, err := mem.check(addr)
	if err != nil {
		return
	}

	value = mem.cell[index]
	return
}

// Store sets the value of a memory cell. A store to IO_OUT is also
// sent to the output port before Store returns.
func (mem *Memory) Store(addr int64, value uint32) (err error) {
	index, err := mem.check(addr)
	if err != nil {
		return
	}

	mem.cell[index] = value

	if index == IO_OUT && mem.Port != nil {
		err = mem.Port.Out(value)
	}

	return
}

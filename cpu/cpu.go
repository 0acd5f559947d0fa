package cpu

import (
	"errors"
	"fmt"
	"io"
	"log"
)

// State is a view of the machine, passed to an Observer after each
// instruction.
type State struct {
	Pc          uint32       // PC of the executed instruction.
	Instruction Instruction  // The executed instruction.
	Register    RegisterFile // Copy of the register file.

	memory *Memory
}

// Load reads a memory cell of the observed machine.
func (st State) Load(addr int64) (value uint32, err error) {
	if st.memory == nil {
		err = ErrAddress(addr)
		return
	}
	return st.memory.Load(addr)
}

// Observer traces execution. The returned text, if any, is written to the
// Cpu's Trace writer.
type Observer interface {
	Observe(state State) (text string)
}

// ObserverFunc adapts a function to an Observer.
type ObserverFunc func(state State) string

func (of ObserverFunc) Observe(state State) string {
	return of(state)
}

// Cpu is the simulation context for a single Metal machine.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Program  *Program     // Program being executed.
	Register RegisterFile // Register bank.
	Memory   Memory       // Data memory.
	Halted   bool         // Set once HALT has executed.
	Trace    io.Writer    // Receives Observer text; may be nil.

	Ticks int // Instructions executed since reset.
}

// NewCpu creates a new CPU, reset and ready to execute a program.
func NewCpu(prog *Program) (cpu *Cpu) {
	cpu = &Cpu{
		Program: prog,
	}

	cpu.Reset()

	return
}

// Reset the CPU state.
// - Clears the registers and memory.
// - Sets R7 to the top of usable memory.
// - Sets the PC to the first instruction.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	clear(cpu.Register[:])
	cpu.Memory.Reset()
	cpu.Register.Set(REG_R7, MEMORY_SIZE-2)
	cpu.Halted = false
	cpu.Ticks = 0
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	for reg, val := range cpu.Register.All() {
		text += fmt.Sprintf("% 5s: %04X_%04X\n", reg.String(), val>>16, val&0xffff)
	}

	state := "running"
	if cpu.Halted {
		state = "halted"
	}
	text += fmt.Sprintf("% 5s: %v\n", "state", state)

	return
}

// Fetch returns the instruction at the PC.
func (cpu *Cpu) Fetch() (ins Instruction, err error) {
	return cpu.Program.Fetch(cpu.Register.Pc())
}

// Tick executes a single fetch-decode-execute cycle.
func (cpu *Cpu) Tick(observer Observer) (err error) {
	if cpu.Halted {
		err = ErrHalted
		return
	}

	pc := cpu.Register.Pc()

	ins, err := cpu.Fetch()
	if err != nil {
		return
	}

	err = cpu.Execute(ins)
	if err != nil {
		return
	}

	if observer != nil {
		text := observer.Observe(State{
			Pc:          pc,
			Instruction: ins,
			Register:    cpu.Register,
			memory:      &cpu.Memory,
		})
		if len(text) != 0 && cpu.Trace != nil {
			fmt.Fprintln(cpu.Trace, text)
		}
	}

	// R0 is always zero, even if an instruction wrote to it.
	cpu.Register[REG_R0] = 0

	return
}

// Run ticks the CPU until it halts or faults.
func (cpu *Cpu) Run(observer Observer) (err error) {
	for !cpu.Halted {
		err = cpu.Tick(observer)
		if err != nil {
			return
		}
	}

	return
}

// Run executes a program on a new machine until it halts or faults.
// Stores to IO_OUT are sent to port.
func Run(prog *Program, port Port, observer Observer) (cpu *Cpu, err error) {
	cpu = NewCpu(prog)
	cpu.Memory.Port = port

	err = cpu.Run(observer)

	return
}

// Execute decodes and executes a single instruction. The PC is advanced
// before the instruction takes effect.
func (cpu *Cpu) Execute(ins Instruction) (err error) {
	pc := cpu.Register.Pc()

	defer func() {
		if err != nil {
			err = errors.Join(ErrInstruction{Pc: pc, Instruction: ins}, err)
		}
	}()

	if cpu.Verbose {
		log.Printf("%04x: %v", pc, ins)
	}

	code, err := ins.Decode()
	if err != nil {
		return
	}

	reg := &cpu.Register

	reg.Set(REG_PC, pc+1)

	a := reg.Get(code.A)
	b := reg.Get(code.B)

	switch code.Opcode {
	case OP_ADD:
		reg.Set(code.D, a+b)
	case OP_SUB:
		reg.Set(code.D, a-b)
	case OP_INC:
		reg.Set(code.A, a+1)
	case OP_DEC:
		reg.Set(code.A, a-1)
	case OP_AND:
		reg.Set(code.D, a&b)
	case OP_OR:
		reg.Set(code.D, a|b)
	case OP_XOR:
		reg.Set(code.D, a^b)
	case OP_SHL:
		// Shifts of 32 or more clear the value.
		reg.Set(code.D, a<<b)
	case OP_SHR:
		reg.Set(code.D, a>>b)
	case OP_CMP:
		var eq uint32
		if a == b {
			eq = 1
		}
		reg.Set(code.D, eq)
	case OP_CONST:
		reg.Set(code.D, uint32(code.Value))
	case OP_LOAD:
		var value uint32
		value, err = cpu.Memory.Load(int64(a) + code.Value)
		if err != nil {
			return
		}
		reg.Set(code.D, value)
	case OP_STORE:
		err = cpu.Memory.Store(int64(reg.Get(code.D))+code.Value, a)
		if err != nil {
			return
		}
	case OP_JMP:
		reg.Set(REG_PC, uint32(int64(a)+code.Value))
	case OP_BZ:
		if a == 0 {
			reg.Set(REG_PC, uint32(int64(reg.Pc())+code.Value))
		}
	case OP_HALT:
		cpu.Halted = true
		if cpu.Verbose {
			log.Printf("cpu: halt")
		}
	default:
		err = ErrOpcodeInvalid
		return
	}

	cpu.Ticks++

	return
}

// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"context"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"maps"

	"github.com/ezrec/metal/cpu"
	"github.com/ezrec/metal/internal"
)

const (
	STACK_TOP      = cpu.MEMORY_SIZE - 2 // Initial R7, the top of the stack.
	CONTEXT_CHECKS = 1024                // Steps between context checks in Run.
)

var _emulator_defines = map[string]uint32{
	"STACK_TOP": STACK_TOP,
}

// Emulator state. CPU + output port + tracing.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // Reference to the currently running program.

	Output   io.Writer    // Receives IO_OUT stores, one decimal value per line.
	Trace    io.Writer    // Receives Observer text.
	Observer cpu.Observer // Observer called after each instruction; may be nil.
	MaxSteps int          // If non-zero, the step limit of Run and Tick.

	Logger *slog.Logger // Run events; discarded if nil.
}

// NewEmulator creates a new emulator.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Cpu:     cpu.NewCpu(nil),
		Program: &cpu.Program{},
	}

	emu.Cpu.Memory.Port = cpu.PortFunc(emu.out)

	return
}

// out writes a value stored to IO_OUT.
func (emu *Emulator) out(value uint32) (err error) {
	if emu.Output == nil {
		return
	}

	_, err = fmt.Fprintf(emu.Output, "%d\n", value)

	return
}

func (emu *Emulator) logger() *slog.Logger {
	if emu.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return emu.Logger
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, uint32] {
	return internal.IterSeq2Concat(maps.All(_emulator_defines),
		cpu.Defines(),
	)
}

// Reset the machine, and check the program.
func (emu *Emulator) Reset() (err error) {
	emu.Cpu.Verbose = emu.Verbose
	emu.Cpu.Program = emu.Program
	emu.Cpu.Reset()

	err = emu.Program.Validate()
	if err != nil {
		emu.logger().Error("invalid program", "err", err)
		return
	}

	emu.logger().Debug("reset", "instructions", emu.Program.Len())

	return
}

// Steps returns the instructions executed since a reset.
func (emu *Emulator) Steps() int {
	return emu.Cpu.Ticks
}

// Pc returns the current program counter.
func (emu *Emulator) Pc() uint32 {
	return emu.Cpu.Register.Pc()
}

// LineNo returns the current line number for the executing instruction.
func (emu *Emulator) LineNo() int {
	return emu.Program.Debug(emu.Pc()).LineNo
}

// Tick performs a single step of the emulator.
// Returns done once the machine has halted.
func (emu *Emulator) Tick() (done bool, err error) {
	if emu.Cpu.Halted {
		done = true
		return
	}

	// Set CPU verbosity and tracing.
	emu.Cpu.Verbose = emu.Verbose
	emu.Cpu.Trace = emu.Trace

	pc := emu.Pc()
	step := emu.Steps()
	lineno := emu.LineNo()
	defer func() {
		if err != nil {
			err = &ErrRuntime{Pc: pc, Step: step, LineNo: lineno, Err: err}
			emu.logger().Error("fault", "pc", pc, "step", step, "line", lineno, "err", err)
		}
	}()

	if emu.MaxSteps > 0 && step >= emu.MaxSteps {
		err = ErrStepLimit
		return
	}

	err = emu.Cpu.Tick(emu.Observer)
	if err != nil {
		return
	}

	done = emu.Cpu.Halted
	if done {
		emu.logger().Info("halt", "pc", pc, "steps", emu.Steps())
	}

	return
}

// Run ticks the emulator until it halts, faults, or the context is done.
func (emu *Emulator) Run(ctx context.Context) (err error) {
	for done := false; !done; {
		if emu.Steps()%CONTEXT_CHECKS == 0 {
			err = ctx.Err()
			if err != nil {
				emu.logger().Warn("stopped", "steps", emu.Steps(), "err", err)
				return
			}
		}

		done, err = emu.Tick()
		if err != nil {
			return
		}
	}

	return
}

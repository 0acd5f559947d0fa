package loader

import (
	"log"
	"maps"
	"slices"

	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"

	"github.com/ezrec/metal/cpu"
)

// Trace runs the trace hooks of a loaded program. It implements
// cpu.Observer.
type Trace struct {
	thread *starlark.Thread
	hook   map[uint32]starlark.Callable
}

var _ cpu.Observer = (*Trace)(nil)

// Len returns the number of trace hooks.
func (tr *Trace) Len() int {
	if tr == nil {
		return 0
	}
	return len(tr.hook)
}

// Pcs returns the PCs that have trace hooks, in order.
func (tr *Trace) Pcs() []uint32 {
	if tr == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(tr.hook))
}

// Observe calls the hook for the executed instruction, if any, with the
// machine view 'm':
//
//	m.pc          PC of the executed instruction
//	m.registers   dict of register name to value
//	m.mem(addr)   value of a memory cell
//
// A hook that fails is logged, and produces no text.
func (tr *Trace) Observe(state cpu.State) (text string) {
	if tr == nil {
		return
	}

	hook, ok := tr.hook[state.Pc]
	if !ok {
		return
	}

	rc, err := starlark.Call(tr.thread, hook, starlark.Tuple{machineView(state)}, nil)
	if err != nil {
		log.Printf("trace: pc %d: %v", state.Pc, err)
		return
	}

	if rc == starlark.None {
		return
	}

	text, ok = starlark.AsString(rc)
	if !ok {
		text = rc.String()
	}

	return
}

// machineView returns a read-only starlark view of the machine state.
func machineView(state cpu.State) starlark.Value {
	registers := starlark.NewDict(cpu.REGISTER_COUNT)
	for reg, value := range state.Register.All() {
		_ = registers.SetKey(starlark.String(reg.String()), starlark.MakeUint(uint(value)))
	}
	registers.Freeze()

	mem := starlark.NewBuiltin("mem", func(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var addr int
		err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 1, &addr)
		if err != nil {
			return nil, err
		}
		value, err := state.Load(int64(addr))
		if err != nil {
			return nil, err
		}
		return starlark.MakeUint(uint(value)), nil
	})

	return starlarkstruct.FromStringDict(starlarkstruct.Default, starlark.StringDict{
		"pc":        starlark.MakeUint(uint(state.Pc)),
		"registers": registers,
		"mem":       mem,
	})
}

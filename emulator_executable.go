package lpglsl

import (
	"log/slog"

	"github.com/pkg/errors"

	"github.com/ledfx/lpglsl/emu"
	"github.com/ledfx/lpglsl/ir"
	"github.com/ledfx/lpglsl/rv32elf"
)

// ebreakTrampoline is the two-byte c.ebreak encoding CallFunction's
// synthetic return address points at, so a compiled shader function's
// ordinary `jalr x0,ra,0` return lands on an instruction the emulator
// recognizes as StepHalted instead of running off the end of RAM.
const ebreakTrampoline uint16 = 0x9002

// EmulatorExecutable is the RunMode=Emulator Executable: a loaded
// rv32elf.Loaded image plus a fresh *emu.Machine built per call, since
// spec.md §5 says "an emulator step owns its state exclusively" — a
// Machine is never reused across calls, only the read-only-after-
// relocation Image and SymbolMap are shared.
type EmulatorExecutable struct {
	loaded *rv32elf.Loaded
	mod    *ir.Module
	opts   CompileOptions
	logger *slog.Logger
}

// NewEmulatorExecutable wraps loaded for repeated Call invocations
// against mod's signatures, under opts' instruction budget and log
// level.
func NewEmulatorExecutable(loaded *rv32elf.Loaded, mod *ir.Module, opts CompileOptions) *EmulatorExecutable {
	var logger *slog.Logger
	if _, on := opts.SlogLevel(); on {
		logger = slog.Default().With("component", "emulator")
	}
	return &EmulatorExecutable{loaded: loaded, mod: mod, opts: opts, logger: logger}
}

// Call runs name to completion against a fresh Machine, per spec.md §6's
// Executable.call(name, args, ret_type). The stack pointer starts at the
// top of RAM (minus StackSizeBytes' worth of headroom is not separately
// enforced — InstructionBudget is this module's only runaway guard,
// matching spec.md §5's "cancellation is expressed as the instruction
// budget").
func (e *EmulatorExecutable) Call(name string, args []int32) ([]int32, error) {
	fn, ok := e.mod.FunctionByName(name)
	if !ok {
		return nil, errors.Errorf("E0400: no such function %q in emulator image", name)
	}
	entry, ok := e.loaded.Symbols[name]
	if !ok {
		return nil, errors.Errorf("E0400: function %q has no resolved address after loading", name)
	}

	m := emu.NewMachine(e.loaded.Image, e.loaded.Symbols, 0)
	m.Logging = e.logger
	m.InstructionBudget = e.opts.MaxInstructions

	if err := m.Mem.WriteHalf(rv32elf.RAMStart, ebreakTrampoline); err != nil {
		return nil, errors.Wrap(err, "E0400: writing return trampoline")
	}
	sp := rv32elf.RAMStart + uint32(len(m.Mem.RAM))
	sp &^= 0x3
	m.Regs[2] = sp

	uargs := make([]uint32, len(args))
	for i, a := range args {
		uargs[i] = uint32(a)
	}
	result, err := m.CallFunction(entry, uargs, rv32elf.RAMStart)
	if err != nil {
		return nil, err
	}

	width := 1
	if fn.Signature != nil && len(fn.Signature.Returns) == 0 {
		width = 0
	}
	if width == 0 {
		return nil, nil
	}
	return []int32{int32(result)}, nil
}

// Signatures returns every exported function's signature, mirroring
// target.JitImage's method of the same name so both Executable
// implementations expose identical introspection.
func (e *EmulatorExecutable) Signatures() map[string]*ir.Signature {
	out := make(map[string]*ir.Signature, len(e.mod.Functions()))
	for _, f := range e.mod.Functions() {
		out[f.Name] = f.Signature
	}
	return out
}

func (e *EmulatorExecutable) CallConv() ir.CallConv { return e.mod.Target.DefaultCC }

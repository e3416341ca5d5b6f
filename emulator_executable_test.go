package lpglsl

import (
	"encoding/binary"
	"testing"

	"github.com/ledfx/lpglsl/ir"
	"github.com/ledfx/lpglsl/rv32elf"
)

// buildLoadedAdder assembles a trivial "add two i32 args" function
// directly into a rv32elf.Loaded, standing in for what rv32elf.Load
// would produce from a real compiled object — this test exercises
// EmulatorExecutable.Call's trampoline/stack/arg-passing wiring, not the
// ELF loader itself (that is covered separately in rv32elf's own tests).
func buildLoadedAdder(t *testing.T) *rv32elf.Loaded {
	t.Helper()
	// add a0, a0, a1 ; jalr x0, 0(ra)
	addA0A1 := uint32(0)<<25 | uint32(11)<<20 | uint32(10)<<15 | uint32(0)<<12 | uint32(10)<<7 | 0x33
	ret := uint32(0)<<20 | uint32(1)<<15 | uint32(0)<<12 | uint32(0)<<7 | 0x67

	rom := make([]byte, 4096)
	binary.LittleEndian.PutUint32(rom[0:], addA0A1)
	binary.LittleEndian.PutUint32(rom[4:], ret)
	img := &rv32elf.Image{ROM: rom, RAM: make([]byte, rv32elf.MinRAMSize), CodeEnd: 8}

	return &rv32elf.Loaded{
		Image:   img,
		Symbols: rv32elf.SymbolMap{"add": 0},
	}
}

func TestEmulatorExecutableCallAddsArgs(t *testing.T) {
	mod := ir.NewModule("test", ir.TargetDesc{ISA: ir.ISARV32, PointerWidth: 4, DefaultCC: ir.SystemV})
	mod.DeclareFunction("add", &ir.Signature{
		Params:  []ir.AbiParam{{Type: ir.I32}, {Type: ir.I32}},
		Returns: []ir.AbiParam{{Type: ir.I32}},
	})

	loaded := buildLoadedAdder(t)
	opts := DefaultOptions()
	opts.RunMode = RunModeEmulator

	exe := NewEmulatorExecutable(loaded, mod, opts)
	result, err := exe.Call("add", []int32{7, 35})
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if len(result) != 1 || result[0] != 42 {
		t.Fatalf("result = %v, want [42]", result)
	}
}

func TestEmulatorExecutableCallUnknownFunction(t *testing.T) {
	mod := ir.NewModule("test", ir.TargetDesc{ISA: ir.ISARV32, PointerWidth: 4, DefaultCC: ir.SystemV})
	loaded := buildLoadedAdder(t)
	exe := NewEmulatorExecutable(loaded, mod, DefaultOptions())

	if _, err := exe.Call("missing", nil); err == nil {
		t.Fatal("expected an error calling an undeclared function")
	}
}
